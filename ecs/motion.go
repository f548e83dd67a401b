package ecs

import (
	"math"

	"github.com/phanxgames/geoview"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
	"github.com/yohamta/donburi/filter"
)

// Geodetic is a position in degrees and meters above the ellipsoid.
type Geodetic struct {
	Lat, Lon, Alt float64
}

// Motion is a constant rate of change of a Geodetic position, per second.
type Motion struct {
	DLat, DLon, DAlt float64
}

// Placement is the earth-centered position derived from Geodetic each frame.
type Placement struct {
	World geoview.Vec3
}

var (
	GeodeticComponent  = donburi.NewComponentType[Geodetic]()
	MotionComponent    = donburi.NewComponentType[Motion]()
	PlacementComponent = donburi.NewComponentType[Placement]()
)

// Spawn creates a moving entity at pos.
func Spawn(world donburi.World, pos Geodetic, m Motion) donburi.Entity {
	e := world.Create(GeodeticComponent, MotionComponent, PlacementComponent)
	entry := world.Entry(e)
	GeodeticComponent.SetValue(entry, pos)
	MotionComponent.SetValue(entry, m)
	return e
}

// MotionSystem advances every entity with Geodetic and Motion components in
// the domain update pass, refreshes its Placement, and then processes the
// world's queued events.
type MotionSystem struct {
	world     donburi.World
	ellipsoid geoview.Ellipsoid
	moving    *donburi.Query
	placed    *donburi.Query

	runtime *geoview.Runtime
	last    float64
	started bool
}

// NewMotionSystem creates a motion system over world.
func NewMotionSystem(world donburi.World, ellipsoid geoview.Ellipsoid) *MotionSystem {
	return &MotionSystem{
		world:     world,
		ellipsoid: ellipsoid,
		moving:    donburi.NewQuery(filter.Contains(GeodeticComponent, MotionComponent)),
		placed:    donburi.NewQuery(filter.Contains(GeodeticComponent, PlacementComponent)),
	}
}

// Initialize implements geoview.SystemInitializer.
func (s *MotionSystem) Initialize(rt *geoview.Runtime) {
	s.runtime = rt
	s.place()
	geoview.Logger().Debug("motion system initialized", "entities", s.placed.Count(s.world))
}

// Runtime returns the runtime passed to Initialize, or nil.
func (s *MotionSystem) Runtime() *geoview.Runtime {
	return s.runtime
}

// Update implements geoview.System.
func (s *MotionSystem) Update(stamp geoview.FrameStamp) {
	dt := 0.0
	if s.started {
		dt = stamp.SimulationTime - s.last
	}
	s.last = stamp.SimulationTime
	s.started = true

	if dt > 0 {
		s.moving.Each(s.world, func(entry *donburi.Entry) {
			pos := GeodeticComponent.Get(entry)
			m := MotionComponent.Get(entry)
			pos.Lat = clampLat(pos.Lat + m.DLat*dt)
			pos.Lon = wrapLon(pos.Lon + m.DLon*dt)
			pos.Alt += m.DAlt * dt
		})
	}
	s.place()

	events.ProcessAllEvents(s.world)
}

func (s *MotionSystem) place() {
	s.placed.Each(s.world, func(entry *donburi.Entry) {
		pos := GeodeticComponent.Get(entry)
		PlacementComponent.Get(entry).World = s.ellipsoid.ToECEF(pos.Lat, pos.Lon, pos.Alt)
	})
}

func clampLat(lat float64) float64 {
	return math.Max(-90, math.Min(90, lat))
}

// wrapLon wraps a longitude into [-180, 180).
func wrapLon(lon float64) float64 {
	lon = math.Mod(lon+180, 360)
	if lon < 0 {
		lon += 360
	}
	return lon - 180
}
