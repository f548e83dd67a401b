package geoview

import "math"

// Ellipsoid is a reference ellipsoid in meters.
type Ellipsoid struct {
	SemiMajorAxis float64
	SemiMinorAxis float64
}

// WGS84 is the WGS 84 reference ellipsoid.
var WGS84 = Ellipsoid{SemiMajorAxis: 6378137.0, SemiMinorAxis: 6356752.314245}

// TerrainSettings configures terrain paging and recording.
type TerrainSettings struct {
	// Concurrency is the number of background data-loading jobs.
	Concurrency uint
	SkirtRatio  float32
	// MinLevelOfDetail is the shallowest level the terrain pages in.
	MinLevelOfDetail uint
	ScreenSpaceError float32
	// SupportMultiThreadedRecord makes the terrain guard its record path.
	// The application sets it once a second window exists, because windows
	// may then record concurrently.
	SupportMultiThreadedRecord bool
}

// MapNode is the scene node that renders the map. Terrain paging itself is
// supplied by update hooks.
type MapNode struct {
	*Node
	Ellipsoid Ellipsoid

	settings TerrainSettings
	hooks    []func(FrameStamp)
	last     FrameStamp
}

// NewMapNode creates a map node on the WGS 84 ellipsoid.
func NewMapNode() *MapNode {
	return &MapNode{
		Node:      NewGroup("map"),
		Ellipsoid: WGS84,
		settings: TerrainSettings{
			Concurrency:      4,
			SkirtRatio:       0.025,
			MinLevelOfDetail: 1,
			ScreenSpaceError: 135,
		},
	}
}

// TerrainSettings returns the mutable terrain settings.
func (m *MapNode) TerrainSettings() *TerrainSettings {
	return &m.settings
}

// OnUpdate registers fn to run in every update pass.
func (m *MapNode) OnUpdate(fn func(FrameStamp)) {
	m.hooks = append(m.hooks, fn)
}

// Update runs the per-frame map update pass.
func (m *MapNode) Update(stamp FrameStamp) {
	m.last = stamp
	for _, fn := range m.hooks {
		fn(stamp)
	}
}

// LastUpdate returns the stamp of the most recent update pass.
func (m *MapNode) LastUpdate() FrameStamp {
	return m.last
}

// ToECEF converts geodetic degrees and meters above the ellipsoid to
// earth-centered, earth-fixed coordinates.
func (e Ellipsoid) ToECEF(lat, lon, alt float64) Vec3 {
	phi := lat * math.Pi / 180
	lambda := lon * math.Pi / 180
	a, b := e.SemiMajorAxis, e.SemiMinorAxis
	e2 := 1 - (b*b)/(a*a)
	sinPhi := math.Sin(phi)
	n := a / math.Sqrt(1-e2*sinPhi*sinPhi)
	return Vec3{
		X: (n + alt) * math.Cos(phi) * math.Cos(lambda),
		Y: (n + alt) * math.Cos(phi) * math.Sin(lambda),
		Z: (n*(1-e2) + alt) * sinPhi,
	}
}
