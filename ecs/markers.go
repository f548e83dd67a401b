package ecs

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/filter"

	"github.com/phanxgames/geoview"
)

const markerRadius = 3

var markerColor = color.RGBA{255, 196, 64, 255}

// NewMarkerNode creates a scene node that draws a dot at every placed
// entity of world visible from the view being recorded. The node is
// Dynamic: placements are gathered once per frame in OnTransfer and drawn
// into each view from that snapshot. It draws only with the Ebitengine
// backend.
func NewMarkerNode(world donburi.World) *geoview.Node {
	placed := donburi.NewQuery(filter.Contains(PlacementComponent))
	var points []geoview.Vec3

	n := geoview.NewGroup("markers")
	n.Dynamic = true
	n.OnTransfer = func(geoview.FrameStamp) {
		points = points[:0]
		placed.Each(world, func(entry *donburi.Entry) {
			points = append(points, PlacementComponent.Get(entry).World)
		})
	}
	n.OnRecord = func(ctx *geoview.RecordContext) {
		target, ok := ctx.Target.(*ebiten.Image)
		if !ok || ctx.Camera == nil {
			return
		}
		eye := ctx.Camera.View.Eye
		for _, p := range points {
			if !geoview.FacesEye(eye, p) {
				continue
			}
			if x, y, ok := ctx.Camera.WorldToWindow(p); ok && ctx.RenderArea.Contains(x, y) {
				vector.DrawFilledCircle(target, float32(x), float32(y), markerRadius, markerColor, true)
			}
		}
	}
	return n
}
