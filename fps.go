package geoview

import (
	"fmt"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

// fpsRefresh is how often, in simulation seconds, the overlay text changes.
const fpsRefresh = 0.5

// NewFPSOverlay creates a node that prints the frame rate and the previous
// frame's timing in the top-left corner of every view that records it. It
// draws only with the Ebitengine backend.
func NewFPSOverlay(app *Application) *Node {
	n := NewGroup("fps_overlay")

	var text string
	last := -1.0

	n.OnRecord = func(ctx *RecordContext) {
		target, ok := ctx.Target.(*ebiten.Image)
		if !ok {
			return
		}
		if last < 0 || ctx.Frame.SimulationTime-last >= fpsRefresh {
			last = ctx.Frame.SimulationTime
			text = fmt.Sprintf("FPS: %.1f\nframe: %s\nrecord: %s",
				ebiten.ActualFPS(),
				app.Stats.Frame.Round(time.Microsecond),
				app.Stats.Record.Round(time.Microsecond))
		}
		// Sub-images keep the parent's coordinates.
		ebitenutil.DebugPrintAt(target, text, int(ctx.RenderArea.X), int(ctx.RenderArea.Y))
	}
	return n
}
