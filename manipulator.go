package geoview

import (
	"math"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

const (
	orbitDegreesPerPixel = 0.25
	zoomPerPixel         = 0.005
	zoomPerScrollStep    = 0.9
	minPitch             = -90.0
	maxPitch             = -1.0
)

// MapManipulator orbits a view's camera around a point on the map. Left drag
// orbits, right drag and the wheel zoom, Space or Home flies back to the
// home position. It consumes pointer events that land in its view's
// viewport so that overlapping views do not both react.
type MapManipulator struct {
	Center   Vec3
	Heading  float64
	Pitch    float64
	Distance float64

	// DragDeadZone is how far, in pixels, the pointer must move after a
	// press before a drag starts.
	DragDeadZone float64

	window  *Window
	camera  *Camera
	minDist float64
	maxDist float64

	home [3]float64

	dragging bool
	dragged  bool
	button   MouseButton
	pressX   float64
	pressY   float64
	lastX    float64
	lastY    float64
	hovered  bool

	fly     [3]*gween.Tween
	lastSim float64
}

// NewMapManipulator creates a manipulator for camera in window, homed on the
// camera's current orbit.
func NewMapManipulator(mapNode *MapNode, window *Window, camera *Camera) *MapManipulator {
	radius := WGS84.SemiMajorAxis
	if mapNode != nil {
		radius = mapNode.Ellipsoid.SemiMajorAxis
	}
	m := &MapManipulator{
		Heading:      0,
		Pitch:        minPitch,
		Distance:     radius * 3,
		DragDeadZone: defaultDragDeadZone,
		window:       window,
		camera:       camera,
		minDist:      radius * 1e-4,
		maxDist:      radius * 10,
	}
	if camera != nil {
		l := camera.View
		m.Center = l.Center
		m.Distance = l.Eye.Sub(l.Center).Length()
	}
	m.home = [3]float64{m.Heading, m.Pitch, m.Distance}
	return m
}

// Camera returns the camera the manipulator drives.
func (m *MapManipulator) Camera() *Camera {
	return m.camera
}

// Flying reports whether a fly animation is in progress.
func (m *MapManipulator) Flying() bool {
	return m.fly[0] != nil
}

// FlyTo animates the orbit to heading, pitch and distance over duration
// seconds. A non-positive duration jumps immediately.
func (m *MapManipulator) FlyTo(heading, pitch, distance float64, duration float32) {
	pitch = clampFloat(pitch, minPitch, maxPitch)
	distance = clampFloat(distance, m.minDist, m.maxDist)
	if duration <= 0 {
		m.fly = [3]*gween.Tween{}
		m.Heading, m.Pitch, m.Distance = heading, pitch, distance
		m.apply()
		return
	}
	m.fly[0] = gween.New(float32(m.Heading), float32(heading), duration, ease.InOutQuad)
	m.fly[1] = gween.New(float32(m.Pitch), float32(pitch), duration, ease.InOutQuad)
	m.fly[2] = gween.New(float32(m.Distance), float32(distance), duration, ease.InOutQuad)
}

// Home flies back to the position the manipulator started from.
func (m *MapManipulator) Home(duration float32) {
	m.FlyTo(m.home[0], m.home[1], m.home[2], duration)
}

// HandleEvent implements EventHandler.
func (m *MapManipulator) HandleEvent(ev *Event) {
	if ev.Type == EventFrame {
		m.step(ev.Frame)
		return
	}
	if ev.Window != m.window || m.camera == nil {
		return
	}

	inside := m.camera.Viewport.Contains(ev.X, ev.Y)

	switch ev.Type {
	case EventPointerDown:
		if ev.Handled || !inside {
			return
		}
		m.dragging = true
		m.dragged = false
		m.button = ev.Button
		m.pressX, m.pressY = ev.X, ev.Y
		m.lastX, m.lastY = ev.X, ev.Y
		ev.Handled = true

	case EventPointerMove:
		m.hovered = inside && !ev.Handled
		if !m.dragging {
			return
		}
		if !m.dragged {
			dx, dy := ev.X-m.pressX, ev.Y-m.pressY
			if dx*dx+dy*dy < m.DragDeadZone*m.DragDeadZone {
				ev.Handled = true
				return
			}
			m.dragged = true
		}
		m.drag(ev.X-m.lastX, ev.Y-m.lastY)
		m.lastX, m.lastY = ev.X, ev.Y
		ev.Handled = true

	case EventPointerUp:
		if !m.dragging {
			return
		}
		m.dragging = false
		ev.Handled = true

	case EventScroll:
		if ev.Handled || !inside {
			return
		}
		m.fly = [3]*gween.Tween{}
		m.Distance = clampFloat(m.Distance*math.Pow(zoomPerScrollStep, ev.ScrollY), m.minDist, m.maxDist)
		m.apply()
		ev.Handled = true

	case EventKeyDown:
		if ev.Handled || !m.hovered {
			return
		}
		if ev.Key == KeySpace || ev.Key == KeyHome {
			m.Home(1)
			ev.Handled = true
		}
	}
}

func (m *MapManipulator) drag(dx, dy float64) {
	m.fly = [3]*gween.Tween{}
	switch m.button {
	case MouseButtonLeft:
		m.Heading = math.Mod(m.Heading+dx*orbitDegreesPerPixel, 360)
		m.Pitch = clampFloat(m.Pitch+dy*orbitDegreesPerPixel, minPitch, maxPitch)
	case MouseButtonRight:
		m.Distance = clampFloat(m.Distance*(1+dy*zoomPerPixel), m.minDist, m.maxDist)
	default:
		return
	}
	m.apply()
}

// step advances a running fly animation.
func (m *MapManipulator) step(stamp FrameStamp) {
	dt := float32(stamp.SimulationTime - m.lastSim)
	m.lastSim = stamp.SimulationTime
	if m.fly[0] == nil {
		return
	}
	if dt < 0 {
		dt = 0
	}
	h, done := m.fly[0].Update(dt)
	p, _ := m.fly[1].Update(dt)
	d, _ := m.fly[2].Update(dt)
	m.Heading, m.Pitch, m.Distance = float64(h), float64(p), float64(d)
	if done {
		m.fly = [3]*gween.Tween{}
	}
	m.apply()
}

func (m *MapManipulator) apply() {
	if m.camera != nil {
		m.camera.SetView(OrbitLookAt(m.Center, m.Heading, m.Pitch, m.Distance))
	}
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// --- Ordering ---

// Manipulator returns the manipulator installed for view, or nil.
func (app *Application) Manipulator(view *View) *MapManipulator {
	return app.manipulators[view]
}

// installManipulator gives view its own manipulator and reorders the input
// handlers.
func (app *Application) installManipulator(window *Window, view *View) {
	app.manipulators[view] = NewMapManipulator(app.MapNode, window, view.Camera)
	app.reorderManipulators()
}

// reorderManipulators rebuilds the manipulator part of the viewer's handler
// list: windows in registry order, and within a window the most recently
// added view first, so views drawn on top see input first. Other handlers
// keep their place ahead of the manipulators.
func (app *Application) reorderManipulators() {
	current := app.viewer.EventHandlers()
	handlers := make([]EventHandler, 0, len(current)+len(app.manipulators))
	for _, h := range current {
		if _, ok := h.(*MapManipulator); !ok {
			handlers = append(handlers, h)
		}
	}
	for _, w := range app.windows {
		views := app.views[w]
		for i := len(views) - 1; i >= 0; i-- {
			if m, ok := app.manipulators[views[i]]; ok {
				handlers = append(handlers, m)
			}
		}
	}
	app.viewer.SetEventHandlers(handlers)
}
