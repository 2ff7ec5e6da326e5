package config

import (
	"fmt"
	"math"
	"sort"

	"github.com/san-kum/orrery/internal/gravitation"
	"github.com/san-kum/orrery/internal/orbit"
)

const (
	SunMass = 1.989e30
	AU      = 1.496e11
)

type planet struct {
	name     string
	mass     float64
	distance float64
}

var planets = []planet{
	{"Earth", 5.9722e24, 149.6e9},
	{"Mars", 6.4171e23, 227.9e9},
	{"Mercury", 3.3011e23, 57.9e9},
	{"Venus", 4.8675e24, 108.2e9},
	{"Jupiter", 1.8982e27, 778.6e9},
	{"Saturn", 5.6834e26, 1433.5e9},
	{"Uranus", 8.6810e25, 2872.5e9},
	{"Neptune", 1.0241e26, 4495.1e9},
}

func sun() BodyConfig {
	return BodyConfig{Name: "Sun", Mass: SunMass, Anchored: true}
}

// onCircle places p on the -z axis moving along +x at circular speed.
func (p planet) onCircle() BodyConfig {
	return BodyConfig{
		Name:     p.name,
		Mass:     p.mass,
		Position: Vec3{0, 0, -p.distance},
		Velocity: Vec3{gravitation.CircularSpeed(SunMass, p.distance), 0, 0},
	}
}

func deg(d float64) float64 { return d * math.Pi / 180 }

var Presets = map[string]func() *Scene{
	"solar_system": func() *Scene {
		s := DefaultScene()
		s.Name = "solar_system"
		s.Bodies = []BodyConfig{sun()}
		for _, p := range planets {
			s.Bodies = append(s.Bodies, p.onCircle())
		}
		s.Asteroids = DefaultAsteroids()
		return s
	},
	"earth_sun": func() *Scene {
		s := DefaultScene()
		s.Name = "earth_sun"
		s.Duration = 365.25
		s.Dt = 1
		s.TimeScale = 86400
		s.SampleEvery = 1
		s.Scheme = "leapfrog"
		s.Bodies = []BodyConfig{sun(), planets[0].onCircle()}
		return s
	},
	"belt": func() *Scene {
		s := DefaultScene()
		s.Name = "belt"
		s.Bodies = []BodyConfig{sun(), planets[0].onCircle(), planets[4].onCircle()}
		a := DefaultAsteroids()
		a.CountMin, a.CountMax = 200, 400
		s.Asteroids = a
		return s
	},
	"halley": func() *Scene {
		s := DefaultScene()
		s.Name = "halley"
		s.Duration = 76 * 36.525
		s.Dt = 1
		s.TimeScale = 864000
		s.SampleEvery = 10
		s.Scheme = "leapfrog"
		s.Bodies = []BodyConfig{
			sun(),
			planets[0].onCircle(),
			planets[4].onCircle(),
			{
				Name:      "Halley",
				Mass:      2.2e14,
				NoGravity: true,
				Orbit: &OrbitConfig{
					Around: "Sun",
					Elements: orbit.Elements{
						SemiMajorAxis:            17.834 * AU,
						Eccentricity:             0.96714,
						Inclination:              deg(162.26),
						LongitudeOfAscendingNode: deg(58.42),
						ArgumentOfPeriapsis:      deg(111.33),
					},
				},
			},
		}
		return s
	},
}

// GetPreset returns a fresh copy of the named scene.
func GetPreset(name string) (*Scene, error) {
	build, ok := Presets[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownPreset, name)
	}
	return build(), nil
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
