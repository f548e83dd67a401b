package geoview

import "math"

// Perspective is a symmetric perspective projection.
type Perspective struct {
	// FieldOfViewY is the vertical field of view in degrees.
	FieldOfViewY float64
	AspectRatio  float64
	NearDistance float64
	FarDistance  float64
}

// Matrix returns the projection matrix.
func (p Perspective) Matrix() Mat4 {
	return perspectiveMatrix(p.FieldOfViewY, p.AspectRatio, p.NearDistance, p.FarDistance)
}

// LookAt is a view transform defined by an eye point, a target point and an
// up vector.
type LookAt struct {
	Eye, Center, Up Vec3
}

// Matrix returns the view matrix.
func (l LookAt) Matrix() Mat4 {
	return lookAtMatrix(l.Eye, l.Center, l.Up)
}

// OrbitLookAt places the eye at distance from center, rotated by heading
// (clockwise from +Y about +Z) and pitch (negative looks down), both in
// degrees. Up is +Z.
func OrbitLookAt(center Vec3, heading, pitch, distance float64) LookAt {
	h := heading * math.Pi / 180
	p := pitch * math.Pi / 180
	// Direction from center to eye.
	dir := Vec3{
		X: -math.Sin(h) * math.Cos(p),
		Y: -math.Cos(h) * math.Cos(p),
		Z: -math.Sin(p),
	}
	up := Vec3{Z: 1}
	if math.Abs(dir.Z) > 0.9999 {
		up = Vec3{X: math.Sin(h), Y: math.Cos(h)}
	}
	return LookAt{
		Eye:    center.Add(dir.Scale(distance)),
		Center: center,
		Up:     up,
	}
}

// Camera controls the view into the scene: projection, view transform and
// the window viewport it renders into.
type Camera struct {
	Projection Perspective
	View       LookAt
	// Viewport is the window-space rectangle this camera renders into.
	Viewport Rect

	viewMatrix Mat4
	projMatrix Mat4
	dirty      bool
}

// NewCamera creates a camera.
func NewCamera(proj Perspective, view LookAt, viewport Rect) *Camera {
	return &Camera{
		Projection: proj,
		View:       view,
		Viewport:   viewport,
		dirty:      true,
	}
}

// SetViewport changes the viewport and keeps the projection aspect ratio
// in step with it.
func (c *Camera) SetViewport(vp Rect) {
	c.Viewport = vp
	if vp.Height > 0 {
		c.Projection.AspectRatio = vp.Width / vp.Height
	}
	c.dirty = true
}

// SetView replaces the view transform.
func (c *Camera) SetView(l LookAt) {
	c.View = l
	c.dirty = true
}

// MarkDirty forces a recomputation of the cached matrices.
func (c *Camera) MarkDirty() {
	c.dirty = true
}

func (c *Camera) computeMatrices() {
	if !c.dirty {
		return
	}
	c.dirty = false
	c.viewMatrix = c.View.Matrix()
	c.projMatrix = c.Projection.Matrix()
}

// ViewMatrix returns the cached view matrix.
func (c *Camera) ViewMatrix() Mat4 {
	c.computeMatrices()
	return c.viewMatrix
}

// ProjectionMatrix returns the cached projection matrix.
func (c *Camera) ProjectionMatrix() Mat4 {
	c.computeMatrices()
	return c.projMatrix
}

// WorldToWindow projects a world point into window pixel coordinates. ok is
// false when the point is behind the eye.
func (c *Camera) WorldToWindow(p Vec3) (x, y float64, ok bool) {
	c.computeMatrices()
	eye := c.viewMatrix.TransformPoint(p)
	if eye.Z >= 0 {
		return 0, 0, false
	}
	ndc := c.projMatrix.TransformPoint(eye)
	x = c.Viewport.X + (ndc.X+1)/2*c.Viewport.Width
	y = c.Viewport.Y + (1-ndc.Y)/2*c.Viewport.Height
	return x, y, true
}

// defaultCamera builds the camera given to a window's first view: a 30°
// perspective sized from the world radius and an orbit look-at.
func defaultCamera(width, height int, radius float64) *Camera {
	const nearFarRatio = 0.00001
	ar := float64(width) / float64(height)
	return NewCamera(
		Perspective{
			FieldOfViewY: 30,
			AspectRatio:  ar,
			NearDistance: radius * nearFarRatio,
			FarDistance:  radius * 20,
		},
		OrbitLookAt(Vec3{}, 0, -90, radius*3),
		Rect{Width: float64(width), Height: float64(height)},
	)
}
