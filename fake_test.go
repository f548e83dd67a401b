package geoview

import (
	"errors"
	"time"
)

// fakeBackend is a headless Backend for tests.
type fakeBackend struct {
	viewers  []*fakeViewer
	created  []WindowTraits
	failNext error
	device   *fakeDevice
}

type fakeDevice struct {
	waits int
}

func (d *fakeDevice) WaitIdle() { d.waits++ }

type fakeSurface struct {
	w, h int
}

func (s *fakeSurface) Size() (int, int) { return s.w, s.h }

func (b *fakeBackend) NewViewer() Viewer {
	v := &fakeViewer{}
	b.viewers = append(b.viewers, v)
	return v
}

func (b *fakeBackend) NewWindow(traits *WindowTraits) (*Window, error) {
	if err := b.failNext; err != nil {
		b.failNext = nil
		return nil, err
	}
	b.created = append(b.created, *traits)
	dev, _ := traits.Device.(*fakeDevice)
	if dev == nil {
		if b.device == nil {
			b.device = &fakeDevice{}
		}
		dev = b.device
	}
	return NewWindow(traits, dev, &fakeSurface{traits.Width, traits.Height}), nil
}

// fakeViewer records calls instead of touching a GPU.
type fakeViewer struct {
	ViewerBase

	idle      int
	recorded  int
	presented int
	calls     []string
}

func (v *fakeViewer) AdvanceToNextFrame() bool {
	v.calls = append(v.calls, "advance")
	return v.advance(time.Now())
}

func (v *fakeViewer) RecordAndSubmit() {
	v.calls = append(v.calls, "record")
	v.RecordGraphs(nil)
	v.recorded++
}

func (v *fakeViewer) Present() {
	v.calls = append(v.calls, "present")
	v.presented++
}

func (v *fakeViewer) DeviceWaitIdle() {
	v.idle++
}

var errWindowFailed = errors.New("window failed")

func newTestApp() (*Application, *fakeBackend) {
	b := &fakeBackend{}
	return NewApplication(b, nil), b
}

// current returns the application's live fake viewer.
func current(app *Application) *fakeViewer {
	return app.Viewer().(*fakeViewer)
}

// manipulatorViews maps the viewer's manipulator handlers back to their
// view names, in handler order.
func manipulatorViews(app *Application) []string {
	owner := make(map[*MapManipulator]string)
	for v, m := range app.manipulators {
		owner[m] = v.Name
	}
	var out []string
	for _, h := range app.Viewer().EventHandlers() {
		if m, ok := h.(*MapManipulator); ok {
			out = append(out, owner[m])
		}
	}
	return out
}

func namedView(app *Application, w *Window, name string) *View {
	width, height := w.Size()
	v := NewView(app.NewViewCamera(w, Rect{Width: float64(width), Height: float64(height)}))
	v.Name = name
	return v
}
