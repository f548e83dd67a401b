package ecs

import (
	"math"
	"testing"

	"github.com/phanxgames/geoview"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yohamta/donburi"
)

var (
	_ geoview.System            = (*MotionSystem)(nil)
	_ geoview.SystemInitializer = (*MotionSystem)(nil)
)

func TestMotionSystem_Update(t *testing.T) {
	world := donburi.NewWorld()
	sys := NewMotionSystem(world, geoview.WGS84)

	e := Spawn(world, Geodetic{Lat: 10, Lon: 20}, Motion{DLat: 1, DLon: 2, DAlt: 100})

	sys.Update(geoview.FrameStamp{FrameCount: 1, SimulationTime: 0})
	sys.Update(geoview.FrameStamp{FrameCount: 2, SimulationTime: 0.5})

	pos := GeodeticComponent.Get(world.Entry(e))
	assert.InDelta(t, 10.5, pos.Lat, 1e-9)
	assert.InDelta(t, 21, pos.Lon, 1e-9)
	assert.InDelta(t, 50, pos.Alt, 1e-9)

	want := geoview.WGS84.ToECEF(pos.Lat, pos.Lon, pos.Alt)
	got := PlacementComponent.Get(world.Entry(e)).World
	assert.InDelta(t, want.X, got.X, 1e-6)
	assert.InDelta(t, want.Y, got.Y, 1e-6)
	assert.InDelta(t, want.Z, got.Z, 1e-6)
}

func TestMotionSystem_FirstFrameDoesNotMove(t *testing.T) {
	world := donburi.NewWorld()
	sys := NewMotionSystem(world, geoview.WGS84)
	e := Spawn(world, Geodetic{Lat: 1, Lon: 1}, Motion{DLat: 5})

	sys.Update(geoview.FrameStamp{FrameCount: 1, SimulationTime: 3})

	assert.Equal(t, 1.0, GeodeticComponent.Get(world.Entry(e)).Lat)
}

func TestMotionSystem_Initialize(t *testing.T) {
	world := donburi.NewWorld()
	sys := NewMotionSystem(world, geoview.WGS84)
	e := Spawn(world, Geodetic{}, Motion{})

	rt := geoview.NewRuntime(1)
	defer rt.Close()
	sys.Initialize(rt)

	require.Same(t, rt, sys.Runtime())
	// Placement is valid before the first update.
	got := PlacementComponent.Get(world.Entry(e)).World
	assert.InDelta(t, geoview.WGS84.SemiMajorAxis, got.X, 1e-6)
}

func TestWrapLon(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{0, 0},
		{179, 179},
		{181, -179},
		{-181, 179},
		{540, -180},
	}
	for _, tt := range tests {
		if got := wrapLon(tt.in); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("wrapLon(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestClampLat(t *testing.T) {
	assert.Equal(t, 90.0, clampLat(95))
	assert.Equal(t, -90.0, clampLat(-100))
	assert.Equal(t, 45.0, clampLat(45))
}
