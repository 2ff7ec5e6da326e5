package viz

import (
	"math"

	"github.com/san-kum/orrery/internal/body"
	"github.com/san-kum/orrery/internal/gridspace"
)

const defaultTrail = 64

// SkyMap draws bodies and their recent trails around a floating origin.
type SkyMap struct {
	Space  gridspace.Space
	Camera *Camera
	Canvas *Canvas
	// TrailLength bounds the positions kept per body.
	TrailLength int

	trails [][]gridspace.Position
}

func NewSkyMap(space gridspace.Space, w, h int) *SkyMap {
	return &SkyMap{
		Space:       space,
		Camera:      NewCamera(1),
		Canvas:      NewCanvas(w, h),
		TrailLength: defaultTrail,
	}
}

// Fit sets the camera extent to the farthest body from origin.
func (m *SkyMap) Fit(bodies []body.Body, origin gridspace.Position) {
	far := 0.0
	for i := range bodies {
		far = math.Max(far, m.Space.Distance(origin, bodies[i].Position))
	}
	if far == 0 {
		far = m.Space.CellEdge
	}
	m.Camera.Extent = far * 1.05
	m.Camera.Knee = far / 1000
}

// Record appends the current positions to the trails.
func (m *SkyMap) Record(bodies []body.Body) {
	if len(m.trails) != len(bodies) {
		m.trails = make([][]gridspace.Position, len(bodies))
	}
	for i := range bodies {
		t := append(m.trails[i], bodies[i].Position)
		if n := m.TrailLength; n > 0 && len(t) > n {
			t = t[len(t)-n:]
		}
		m.trails[i] = t
	}
}

func (m *SkyMap) ClearTrails() { m.trails = nil }

// Render draws trails and bodies relative to origin.
func (m *SkyMap) Render(bodies []body.Body, origin gridspace.Position) string {
	c := m.Canvas
	c.Clear()
	w, h := c.Dots()

	for _, trail := range m.trails {
		for _, p := range trail {
			if x, y, ok := m.Camera.Project(m.Space.RenderTranslation(p, origin), w, h); ok {
				c.Set(x, y)
			}
		}
	}
	for i := range bodies {
		if x, y, ok := m.Camera.Project(m.Space.RenderTranslation(bodies[i].Position, origin), w, h); ok {
			c.Mark(x, y)
		}
	}
	return c.String()
}
