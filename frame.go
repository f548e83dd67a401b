package geoview

import "time"

// Frame runs one frame: realize on first use, advance, domain update, user
// callback, events, update passes, then record, submit and present. It
// returns false once the viewer can no longer advance; the caller should
// stop calling it then.
func (app *Application) Frame() bool {
	if !app.realized {
		app.Realize()
	}

	t0 := time.Now()

	if !app.viewer.AdvanceToNextFrame() {
		return false
	}
	t1 := time.Now()

	stamp := app.viewer.FrameStamp()
	app.MapNode.Update(stamp)
	for _, s := range app.Systems {
		s.Update(stamp)
	}

	if app.UpdateFunc != nil {
		app.UpdateFunc()
	}

	app.viewer.HandleEvents()

	app.viewer.Update()
	app.Runtime.Update()
	t2 := time.Now()

	if app.viewerDirty {
		// A window was added: rebuild the record/present assignment and skip
		// recording this frame.
		app.recreateViewer()
		app.viewerDirty = false
		return true
	}

	app.viewer.RecordAndSubmit()
	t3 := time.Now()

	app.viewer.Present()
	t4 := time.Now()

	app.Stats = FrameStats{
		Frame:   t4.Sub(t0),
		Events:  t1.Sub(t0),
		Update:  t2.Sub(t1),
		Record:  t3.Sub(t2),
		Present: t4.Sub(t3),
	}
	if app.opts.Debug {
		debugLog(app.Stats, stamp.FrameCount)
	}
	if app.StatsObserver != nil {
		app.StatsObserver.ObserveFrame(app.Stats)
	}
	return app.viewer.Active()
}

// Run calls Frame until it returns false.
func (app *Application) Run() {
	for app.Frame() {
	}
}
