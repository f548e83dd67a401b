package geoview

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSystem struct {
	log         *[]string
	stamps      []FrameStamp
	initialized int
}

func (s *recordingSystem) Update(stamp FrameStamp) {
	*s.log = append(*s.log, "system")
	s.stamps = append(s.stamps, stamp)
}

func (s *recordingSystem) Initialize(*Runtime) { s.initialized++ }

type statsRecorder struct {
	frames []FrameStats
}

func (r *statsRecorder) ObserveFrame(s FrameStats) { r.frames = append(r.frames, s) }

func TestFramePhaseOrder(t *testing.T) {
	app, _ := newTestApp()
	var log []string

	sys := &recordingSystem{log: &log}
	app.Systems = []System{sys}
	app.MapNode.OnUpdate(func(FrameStamp) { log = append(log, "map") })
	app.UpdateFunc = func() { log = append(log, "user") }
	app.Frame()

	app.Viewer().AddEventHandler(EventHandlerFunc(func(ev *Event) {
		if ev.Type == EventFrame {
			log = append(log, "events")
		}
	}))
	app.Runtime.RunDuringUpdate(TaskFunc(func() { log = append(log, "task") }))
	log = nil

	app.Frame()

	assert.Equal(t, []string{"map", "system", "user", "events", "task"}, log)
	assert.Equal(t, []string{"advance", "record", "present"}, current(app).calls[3:])
	assert.Equal(t, 1, sys.initialized)
	require.Len(t, sys.stamps, 2)
	assert.Equal(t, uint64(2), sys.stamps[1].FrameCount)
}

func TestFrameStopsWhenViewerCloses(t *testing.T) {
	app, _ := newTestApp()
	require.True(t, app.Frame())

	current(app).Events().Push(Event{Type: EventClose, Window: app.Windows()[0]})
	assert.False(t, app.Frame(), "close is handled during the frame")
	assert.False(t, app.Viewer().Active())
	assert.Equal(t, 2, current(app).presented, "the closing frame still presents")

	assert.False(t, app.Frame())
}

func TestFrameReportsCloseFromUpdateFunc(t *testing.T) {
	app, _ := newTestApp()
	app.UpdateFunc = app.Close

	assert.False(t, app.Frame())
	assert.Equal(t, 1, current(app).presented)
	assert.Equal(t, []string{"advance", "record", "present"}, current(app).calls)
}

func TestFrameEscapeCloses(t *testing.T) {
	app, _ := newTestApp()
	app.Frame()
	current(app).Events().InjectKey(app.Windows()[0], KeyEscape)
	app.Frame()
	assert.False(t, app.Frame())
}

func TestRunLoopsUntilClosed(t *testing.T) {
	app, _ := newTestApp()
	frames := 0
	app.UpdateFunc = func() {
		frames++
		if frames == 5 {
			app.Close()
		}
	}

	app.Run()

	assert.Equal(t, 5, frames)
	assert.Equal(t, 5, current(app).presented)
}

func TestFrameStats(t *testing.T) {
	app, _ := newTestApp()
	rec := &statsRecorder{}
	app.StatsObserver = rec

	app.Frame()
	app.Frame()

	require.Len(t, rec.frames, 2)
	s := app.Stats
	assert.Equal(t, rec.frames[1], s)
	assert.GreaterOrEqual(t, s.Frame, s.Events+s.Update+s.Record+s.Present)
}

func TestFrameSkipsRecordWhenViewerRebuilt(t *testing.T) {
	app, _ := newTestApp()
	rec := &statsRecorder{}
	app.StatsObserver = rec
	app.Frame()

	app.AddWindow(NewWindowTraits(100, 100, "late"))
	require.True(t, app.Frame())

	assert.Len(t, rec.frames, 1, "no stats for the rebuild frame")
	assert.False(t, app.viewerDirty)
}

func TestSystemsInitializedOnceAcrossViewerRebuild(t *testing.T) {
	app, _ := newTestApp()
	var log []string
	sys := &recordingSystem{log: &log}
	app.Systems = []System{sys}

	app.Frame()
	app.AddWindow(NewWindowTraits(100, 100, "late"))
	app.Frame()
	app.Frame()

	assert.Equal(t, 1, sys.initialized)
}

func TestFrameRecordsNodes(t *testing.T) {
	app, _ := newTestApp()
	var areas []Rect
	n := NewGroup("marker")
	n.OnRecord = func(ctx *RecordContext) {
		areas = append(areas, ctx.RenderArea)
		assert.NotNil(t, ctx.Camera)
	}
	app.MainScene.AddChild(n)

	w := app.AddWindow(NewWindowTraits(200, 100, "w")).Value()
	app.AddView(w, NewView(app.NewViewCamera(w, Rect{X: 100, Width: 100, Height: 100})), nil)
	app.Frame()

	// The second view has no children of its own, so it records the root.
	assert.Equal(t, []Rect{
		{Width: 200, Height: 100},
		{X: 100, Width: 100, Height: 100},
	}, areas)
}

func TestFPSOverlayNeedsEbitenTarget(t *testing.T) {
	app, _ := newTestApp()
	n := NewFPSOverlay(app)
	app.MainScene.AddChild(n)
	require.NotNil(t, n.OnRecord)

	// The fake viewer records with a nil target; the overlay must skip it.
	assert.NotPanics(t, func() { app.Frame() })
}
