package geoview

import (
	"errors"
	"fmt"
	"image"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// EbitenBackend renders with Ebitengine. Ebitengine has a single OS window:
// the first geoview window is presented in it and receives input, and later
// windows render into offscreen surfaces that can be captured with
// screenshots or composed by OnRecord hooks.
type EbitenBackend struct {
	// ScreenshotDir is where window screenshots are written.
	ScreenshotDir string

	device *ebitenDevice
}

// NewEbitenBackend creates a backend writing screenshots to screenshotDir.
func NewEbitenBackend(screenshotDir string) *EbitenBackend {
	return &EbitenBackend{ScreenshotDir: screenshotDir}
}

// ebitenDevice is Ebitengine's graphics context. Command submission happens
// inside Ebitengine's own Draw, so nothing is in flight between frames.
type ebitenDevice struct{}

func (d *ebitenDevice) WaitIdle() {}

type ebitenSurface struct {
	img *ebiten.Image
}

func (s *ebitenSurface) Size() (int, int) {
	b := s.img.Bounds()
	return b.Dx(), b.Dy()
}

// NewViewer implements Backend.
func (b *EbitenBackend) NewViewer() Viewer {
	return &ebitenViewer{backend: b}
}

// NewWindow implements Backend.
func (b *EbitenBackend) NewWindow(traits *WindowTraits) (*Window, error) {
	if traits.Width < 1 || traits.Height < 1 {
		return nil, fmt.Errorf("ebiten window %q: invalid size %dx%d", traits.Title, traits.Width, traits.Height)
	}

	dev, _ := traits.Device.(*ebitenDevice)
	if traits.Device != nil && dev == nil {
		return nil, errors.New("ebiten window: device from another backend")
	}
	primary := dev == nil && b.device == nil
	if dev == nil {
		if b.device == nil {
			b.device = &ebitenDevice{}
		}
		dev = b.device
	}
	if traits.DebugLayer && traits.DebugMessenger != nil {
		traits.DebugMessenger(fmt.Sprintf("window %q: %dx%d vsync=%t primary=%t",
			traits.Title, traits.Width, traits.Height, traits.VSync, primary))
	}

	if primary {
		ebiten.SetWindowSize(traits.Width, traits.Height)
		ebiten.SetWindowTitle(traits.Title)
		ebiten.SetVsyncEnabled(traits.VSync)
		ebiten.SetWindowClosingHandled(true)
		ebiten.SetWindowResizingMode(ebiten.WindowResizingModeDisabled)
	}
	if traits.APIDumpLayer {
		logger().Info("api dump requested; ebitengine exposes no call tracing", "window", traits.Title)
	}

	surface := &ebitenSurface{img: ebiten.NewImage(traits.Width, traits.Height)}
	return NewWindow(traits, dev, surface), nil
}

// ebitenViewer drives Ebitengine from inside its game loop: the frame driver
// runs in Game.Update and presentation happens in Game.Draw.
type ebitenViewer struct {
	ViewerBase

	backend *EbitenBackend

	cursorX, cursorY int
	presented        *ebiten.Image
}

func (v *ebitenViewer) AdvanceToNextFrame() bool {
	if ebiten.IsWindowBeingClosed() && len(v.windows) > 0 {
		v.events.Push(Event{Type: EventClose, Window: v.windows[0]})
	}
	return v.advance(time.Now())
}

func (v *ebitenViewer) HandleEvents() {
	if len(v.windows) > 0 {
		v.pollInput(v.windows[0])
	}
	v.ViewerBase.HandleEvents()
}

var ebitenButtons = [...]struct {
	eb ebiten.MouseButton
	gv MouseButton
}{
	{ebiten.MouseButtonLeft, MouseButtonLeft},
	{ebiten.MouseButtonRight, MouseButtonRight},
	{ebiten.MouseButtonMiddle, MouseButtonMiddle},
}

var ebitenKeys = [...]struct {
	eb ebiten.Key
	gv Key
}{
	{ebiten.KeyEscape, KeyEscape},
	{ebiten.KeySpace, KeySpace},
	{ebiten.KeyHome, KeyHome},
}

// pollInput turns this tick's Ebitengine input state into events for w.
func (v *ebitenViewer) pollInput(w *Window) {
	mods := readModifiers()
	mx, my := ebiten.CursorPosition()
	x, y := float64(mx), float64(my)

	if mx != v.cursorX || my != v.cursorY {
		v.cursorX, v.cursorY = mx, my
		v.events.Push(Event{Type: EventPointerMove, Window: w, X: x, Y: y, Modifiers: mods})
	}
	for _, b := range ebitenButtons {
		if inpututil.IsMouseButtonJustPressed(b.eb) {
			v.events.Push(Event{Type: EventPointerDown, Window: w, X: x, Y: y, Button: b.gv, Modifiers: mods})
		}
		if inpututil.IsMouseButtonJustReleased(b.eb) {
			v.events.Push(Event{Type: EventPointerUp, Window: w, X: x, Y: y, Button: b.gv, Modifiers: mods})
		}
	}
	if _, dy := ebiten.Wheel(); dy != 0 {
		v.events.Push(Event{Type: EventScroll, Window: w, X: x, Y: y, ScrollY: dy, Modifiers: mods})
	}
	for _, k := range ebitenKeys {
		if inpututil.IsKeyJustPressed(k.eb) {
			v.events.Push(Event{Type: EventKeyDown, Window: w, Key: k.gv, Modifiers: mods})
		}
	}
}

// readModifiers reads the current keyboard modifier state.
func readModifiers() KeyModifiers {
	var mods KeyModifiers
	if ebiten.IsKeyPressed(ebiten.KeyShift) {
		mods |= ModShift
	}
	if ebiten.IsKeyPressed(ebiten.KeyControl) {
		mods |= ModCtrl
	}
	if ebiten.IsKeyPressed(ebiten.KeyAlt) {
		mods |= ModAlt
	}
	if ebiten.IsKeyPressed(ebiten.KeyMeta) {
		mods |= ModMeta
	}
	return mods
}

func (v *ebitenViewer) RecordAndSubmit() {
	v.RecordGraphs(func(rg *RenderGraph) any {
		s, ok := rg.Window.Surface().(*ebitenSurface)
		if !ok {
			return nil
		}
		area := rg.RenderArea
		target := s.img.SubImage(image.Rect(
			int(area.X), int(area.Y),
			int(area.X+area.Width), int(area.Y+area.Height),
		)).(*ebiten.Image)
		target.Fill(rg.ClearColor.toRGBA())
		return target
	})

	for _, w := range v.windows {
		v.flushScreenshots(w)
	}
}

func (v *ebitenViewer) flushScreenshots(w *Window) {
	labels := w.takeScreenshots()
	if len(labels) == 0 {
		return
	}
	s, ok := w.Surface().(*ebitenSurface)
	if !ok {
		return
	}
	width, height := s.Size()
	pixels := make([]byte, 4*width*height)
	s.img.ReadPixels(pixels)
	paths, err := writeScreenshots(v.backend.ScreenshotDir, labels, pixels, width, height)
	if err != nil {
		logger().Error("screenshot failed", "window", w.ID, "err", err)
	}
	for _, p := range paths {
		logger().Info("screenshot written", "window", w.ID, "path", p)
	}
}

// Present hands the primary window's surface to Game.Draw.
func (v *ebitenViewer) Present() {
	if len(v.windows) == 0 {
		return
	}
	if s, ok := v.windows[0].Surface().(*ebitenSurface); ok {
		v.presented = s.img
	}
}

func (v *ebitenViewer) DeviceWaitIdle() {
	for _, w := range v.windows {
		if d := w.Device(); d != nil {
			d.WaitIdle()
		}
	}
}

// ebitenGame adapts an Application to ebiten.Game.
type ebitenGame struct {
	app *Application
}

func (g *ebitenGame) Update() error {
	if !g.app.Frame() {
		return ebiten.Termination
	}
	return nil
}

func (g *ebitenGame) Draw(screen *ebiten.Image) {
	v, ok := g.app.Viewer().(*ebitenViewer)
	if !ok || v.presented == nil {
		return
	}
	screen.DrawImage(v.presented, nil)
}

func (g *ebitenGame) Layout(outsideWidth, outsideHeight int) (int, int) {
	windows := g.app.Windows()
	if len(windows) == 0 {
		return outsideWidth, outsideHeight
	}
	return windows[0].Size()
}

// RunEbiten runs app in Ebitengine's game loop until the window closes or
// the application stops. app must use an EbitenBackend.
func RunEbiten(app *Application) error {
	if _, ok := app.backend.(*EbitenBackend); !ok {
		return errors.New("geoview: RunEbiten requires an EbitenBackend")
	}
	// Realize before the loop so the OS window gets the first window's
	// traits.
	if !app.Realized() {
		app.Realize()
	}
	if err := ebiten.RunGame(&ebitenGame{app: app}); err != nil && !errors.Is(err, ebiten.Termination) {
		return fmt.Errorf("run: %w", err)
	}
	return nil
}
