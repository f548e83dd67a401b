package geoview

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// graticuleSample is the spacing, in degrees, of points along each line.
const graticuleSample = 2.0

var graticuleColor = color.RGBA{90, 140, 170, 255}

// NewGraticule creates a node that draws parallels and meridians every step
// degrees on e. Segments on the far side of the ellipsoid are skipped. It
// draws only with the Ebitengine backend.
func NewGraticule(e Ellipsoid, step float64) *Node {
	if step <= 0 {
		panic("geoview: graticule step must be positive")
	}
	lines := graticuleLines(e, step)

	n := NewGroup("graticule")
	n.OnRecord = func(ctx *RecordContext) {
		target, ok := ctx.Target.(*ebiten.Image)
		if !ok || ctx.Camera == nil {
			return
		}
		eye := ctx.Camera.View.Eye
		for _, line := range lines {
			var px, py float64
			prev := false
			for _, p := range line {
				x, y, ok := ctx.Camera.WorldToWindow(p)
				ok = ok && FacesEye(eye, p)
				if ok && prev {
					vector.StrokeLine(target, float32(px), float32(py), float32(x), float32(y), 1, graticuleColor, true)
				}
				px, py, prev = x, y, ok
			}
		}
	}
	return n
}

// FacesEye reports whether the surface point p, taken relative to the
// ellipsoid center, is on the hemisphere visible from eye.
func FacesEye(eye, p Vec3) bool {
	return eye.Sub(p).Dot(p) > 0
}

// graticuleLines samples the parallels strictly between the poles, then the
// meridians.
func graticuleLines(e Ellipsoid, step float64) [][]Vec3 {
	var lines [][]Vec3
	for lat := -90 + step; lat < 90; lat += step {
		var line []Vec3
		for lon := -180.0; lon <= 180; lon += graticuleSample {
			line = append(line, e.ToECEF(lat, lon, 0))
		}
		lines = append(lines, line)
	}
	for lon := -180.0; lon < 180; lon += step {
		var line []Vec3
		for lat := -90.0; lat <= 90; lat += graticuleSample {
			line = append(line, e.ToECEF(lat, lon, 0))
		}
		lines = append(lines, line)
	}
	return lines
}
