package config

import (
	"errors"
	"fmt"
	"math"
	"os"

	"github.com/san-kum/orrery/internal/gravitation"
	"github.com/san-kum/orrery/internal/gravity"
	"github.com/san-kum/orrery/internal/gridspace"
	"github.com/san-kum/orrery/internal/orbit"
	"gonum.org/v1/gonum/spatial/r3"
	"gopkg.in/yaml.v3"
)

const (
	DefaultDt          = 1.0 / 60
	DefaultDuration    = 60.0
	DefaultTimeScale   = 86400.0
	DefaultSampleEvery = 60
	DefaultScheme      = "euler"
)

var (
	ErrInvalidScene  = errors.New("config: invalid scene")
	ErrUnknownPreset = errors.New("config: unknown preset")
)

// Vec3 is written as a three element yaml sequence.
type Vec3 [3]float64

func (v Vec3) R3() r3.Vec { return r3.Vec{X: v[0], Y: v[1], Z: v[2]} }

// IsZero lets omitempty drop unset vectors.
func (v Vec3) IsZero() bool { return v == Vec3{} }

// IsFinite reports whether no component is NaN or Inf.
func (v Vec3) IsFinite() bool {
	for _, c := range v {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}

type Scene struct {
	Name        string     `yaml:"name"`
	Dt          float64    `yaml:"dt"`
	Duration    float64    `yaml:"duration"`
	TimeScale   float64    `yaml:"time_scale"`
	Scheme      string     `yaml:"scheme"`
	Workers     int        `yaml:"workers"`
	SampleEvery int        `yaml:"sample_every"`
	Grid        GridConfig `yaml:"grid"`
	// GravitationalConstant overrides G; zero means SI.
	GravitationalConstant float64         `yaml:"gravitational_constant,omitempty"`
	Bodies                []BodyConfig    `yaml:"bodies"`
	Asteroids             *AsteroidConfig `yaml:"asteroids,omitempty"`
}

type GridConfig struct {
	CellEdge           float64 `yaml:"cell_edge"`
	SwitchingThreshold float64 `yaml:"switching_threshold"`
}

type BodyConfig struct {
	Name         string       `yaml:"name"`
	Mass         float64      `yaml:"mass"`
	CenterOfMass Vec3         `yaml:"center_of_mass,omitempty"`
	Position     Vec3         `yaml:"position,omitempty"`
	Velocity     Vec3         `yaml:"velocity,omitempty"`
	NoGravity    bool         `yaml:"no_gravity,omitempty"`
	Anchored     bool         `yaml:"anchored,omitempty"`
	Orbit        *OrbitConfig `yaml:"orbit,omitempty"`
}

// OrbitConfig seeds a body from Keplerian elements around a named parent.
// Position and velocity become relative to the parent.
type OrbitConfig struct {
	Around         string `yaml:"around"`
	orbit.Elements `yaml:",inline"`
	// Epoch is the time since periapsis in seconds.
	Epoch float64 `yaml:"epoch,omitempty"`
}

// AsteroidConfig describes randomly seeded gravity-exempt bodies. Each
// position and velocity axis is drawn from [min, max) and then shifted.
type AsteroidConfig struct {
	CountMin      int     `yaml:"count_min"`
	CountMax      int     `yaml:"count_max"`
	Seed          int64   `yaml:"seed"`
	MassMin       float64 `yaml:"mass_min"`
	MassMax       float64 `yaml:"mass_max"`
	PositionMin   float64 `yaml:"position_min"`
	PositionMax   float64 `yaml:"position_max"`
	PositionShift float64 `yaml:"position_shift"`
	SpeedMin      float64 `yaml:"speed_min"`
	SpeedMax      float64 `yaml:"speed_max"`
	SpeedShift    float64 `yaml:"speed_shift"`
}

func DefaultScene() *Scene {
	space := gridspace.DefaultSpace()
	return &Scene{
		Name:        "default",
		Dt:          DefaultDt,
		Duration:    DefaultDuration,
		TimeScale:   DefaultTimeScale,
		Scheme:      DefaultScheme,
		SampleEvery: DefaultSampleEvery,
		Grid: GridConfig{
			CellEdge:           space.CellEdge,
			SwitchingThreshold: space.SwitchingThreshold,
		},
	}
}

// DefaultAsteroids matches the belt seeded around the sun in the solar
// system scene.
func DefaultAsteroids() *AsteroidConfig {
	return &AsteroidConfig{
		CountMin:      10,
		CountMax:      20,
		Seed:          1,
		MassMin:       1e10,
		MassMax:       1e20,
		PositionMin:   1e10,
		PositionMax:   1e11,
		PositionShift: -1.5e10,
		SpeedMin:      1e3,
		SpeedMax:      1e4,
		SpeedShift:    -1.5e3,
	}
}

func Load(path string) (*Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultScene()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Scene) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (s *Scene) Space() gridspace.Space {
	return gridspace.Space{
		CellEdge:           s.Grid.CellEdge,
		SwitchingThreshold: s.Grid.SwitchingThreshold,
	}
}

func (s *Scene) Constant() gravitation.Constant {
	if s.GravitationalConstant == 0 {
		return gravitation.SI
	}
	return gravitation.Constant(s.GravitationalConstant)
}

func (s *Scene) Validate() error {
	if s.Dt <= 0 || s.Duration <= 0 || s.TimeScale <= 0 {
		return fmt.Errorf("%w: dt, duration and time_scale must be positive", ErrInvalidScene)
	}
	if s.SampleEvery < 0 {
		return fmt.Errorf("%w: sample_every must not be negative", ErrInvalidScene)
	}
	if _, err := gravity.ParseScheme(s.Scheme); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidScene, err)
	}
	if err := s.Space().Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidScene, err)
	}
	if s.GravitationalConstant < 0 {
		return fmt.Errorf("%w: gravitational_constant must not be negative", ErrInvalidScene)
	}

	names := make(map[string]bool, len(s.Bodies))
	for i, b := range s.Bodies {
		if b.Mass < 0 || math.IsNaN(b.Mass) || math.IsInf(b.Mass, 0) {
			return fmt.Errorf("%w: body %d (%s) has mass %v", ErrInvalidScene, i, b.Name, b.Mass)
		}
		vectors := []struct {
			field string
			v     Vec3
		}{{"position", b.Position}, {"velocity", b.Velocity}, {"center_of_mass", b.CenterOfMass}}
		for _, f := range vectors {
			if !f.v.IsFinite() {
				return fmt.Errorf("%w: body %d (%s) has non-finite %s %v", ErrInvalidScene, i, b.Name, f.field, f.v)
			}
		}
		if b.Name != "" {
			if names[b.Name] {
				return fmt.Errorf("%w: duplicate body %q", ErrInvalidScene, b.Name)
			}
			names[b.Name] = true
		}
		if b.Orbit == nil {
			continue
		}
		if b.Orbit.Around == "" {
			return fmt.Errorf("%w: body %q orbits nothing", ErrInvalidScene, b.Name)
		}
		if err := b.Orbit.Validate(); err != nil {
			return fmt.Errorf("%w: body %q: %v", ErrInvalidScene, b.Name, err)
		}
	}

	if a := s.Asteroids; a != nil {
		if a.CountMin < 0 || a.CountMax < a.CountMin {
			return fmt.Errorf("%w: asteroid count range [%d, %d]", ErrInvalidScene, a.CountMin, a.CountMax)
		}
		if a.MassMin < 0 || a.MassMax < a.MassMin {
			return fmt.Errorf("%w: asteroid mass range [%g, %g]", ErrInvalidScene, a.MassMin, a.MassMax)
		}
		if a.PositionMax < a.PositionMin || a.SpeedMax < a.SpeedMin {
			return fmt.Errorf("%w: asteroid ranges must not be inverted", ErrInvalidScene)
		}
	}
	return nil
}
