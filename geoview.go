package geoview

import (
	"errors"
	"image/color"
)

// Color represents an RGBA color with components in [0, 1]. Not premultiplied.
// Premultiplication occurs at record time.
type Color struct {
	R, G, B, A float64
}

// ColorWhite is opaque white.
var ColorWhite = Color{1, 1, 1, 1}

// DefaultClearColor is the clear value given to every view render graph.
var DefaultClearColor = Color{0.1, 0.12, 0.15, 1}

// toRGBA converts a Color to a premultiplied color.RGBA.
func (c Color) toRGBA() color.RGBA {
	return color.RGBA{
		R: uint8(clamp01(c.R*c.A) * 255),
		G: uint8(clamp01(c.G*c.A) * 255),
		B: uint8(clamp01(c.B*c.A) * 255),
		A: uint8(clamp01(c.A) * 255),
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Rect is an axis-aligned rectangle in window pixels. The origin is the
// top-left of the window, with Y increasing downward.
type Rect struct {
	X, Y, Width, Height float64
}

// Contains reports whether the point (x, y) lies inside the rectangle.
// Points on the edge are considered inside.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width &&
		y >= r.Y && y <= r.Y+r.Height
}

// Empty reports whether the rectangle has no area.
func (r Rect) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// MouseButton identifies a mouse button.
type MouseButton uint8

const (
	MouseButtonLeft   MouseButton = iota // primary (left) mouse button
	MouseButtonRight                     // secondary (right) mouse button
	MouseButtonMiddle                    // middle mouse button (scroll wheel click)
)

// KeyModifiers is a bitmask of keyboard modifier keys.
// Values can be combined with bitwise OR (e.g. ModShift | ModCtrl).
type KeyModifiers uint8

const (
	ModShift KeyModifiers = 1 << iota // Shift key
	ModCtrl                           // Control key
	ModAlt                            // Alt / Option key
	ModMeta                           // Meta / Command / Windows key
)

var (
	// ErrUnknownWindow is reported when an operation names a window the
	// application did not create.
	ErrUnknownWindow = errors.New("geoview: unknown window")

	// ErrEmptyFuture is returned by Get on the zero Future.
	ErrEmptyFuture = errors.New("geoview: empty future")
)
