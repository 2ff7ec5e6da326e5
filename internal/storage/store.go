package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/san-kum/orrery/internal/body"
	"github.com/san-kum/orrery/internal/gridspace"
	"github.com/san-kum/orrery/internal/sim"
	"gonum.org/v1/gonum/spatial/r3"
)

var ErrUnknownBody = errors.New("storage: body not in run")

var header = []string{
	"time", "body",
	"cell_x", "cell_y", "cell_z",
	"offset_x", "offset_y", "offset_z",
	"vel_x", "vel_y", "vel_z",
}

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID                 string             `json:"id"`
	Scene              string             `json:"scene"`
	Timestamp          time.Time          `json:"timestamp"`
	Dt                 float64            `json:"dt"`
	Duration           float64            `json:"duration"`
	TimeScale          float64            `json:"time_scale"`
	Scheme             string             `json:"scheme"`
	CellEdge           float64            `json:"cell_edge"`
	SwitchingThreshold float64            `json:"switching_threshold"`
	Bodies             []string           `json:"bodies"`
	Steps              int                `json:"steps"`
	SimTime            float64            `json:"sim_time"`
	EnergyDrift        float64            `json:"energy_drift"`
	Metrics            map[string]float64 `json:"metrics"`
}

func (m *RunMetadata) Space() gridspace.Space {
	return gridspace.Space{CellEdge: m.CellEdge, SwitchingThreshold: m.SwitchingThreshold}
}

// RunInfo describes the run being saved.
type RunInfo struct {
	Scene     string
	Scheme    string
	Space     gridspace.Space
	Dt        float64
	Duration  float64
	TimeScale float64
}

// Save writes the run's metadata and every sample of result. The returned
// id names the run directory.
func (s *Store) Save(info RunInfo, result *sim.Result) (string, error) {
	now := time.Now()
	runID := fmt.Sprintf("%s_%d", info.Scene, now.UnixNano())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:                 runID,
		Scene:              info.Scene,
		Timestamp:          now,
		Dt:                 info.Dt,
		Duration:           info.Duration,
		TimeScale:          info.TimeScale,
		Scheme:             info.Scheme,
		CellEdge:           info.Space.CellEdge,
		SwitchingThreshold: info.Space.SwitchingThreshold,
		Steps:              result.StepsTaken,
		SimTime:            result.SimTime,
		EnergyDrift:        result.EnergyDrift,
		Metrics:            result.Metrics,
	}
	if len(result.Samples) > 0 {
		for _, b := range result.Samples[0].Bodies {
			meta.Bodies = append(meta.Bodies, b.Name)
		}
	}

	if err := writeJSON(filepath.Join(runDir, "metadata.json"), meta); err != nil {
		return "", err
	}
	if err := writeStates(filepath.Join(runDir, "states.csv"), result.Samples); err != nil {
		return "", err
	}
	return runID, nil
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeStates(path string, samples []sim.Sample) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return err
	}

	ff := func(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) }
	fi := func(v int64) string { return strconv.FormatInt(v, 10) }

	for _, sample := range samples {
		for _, b := range sample.Bodies {
			p := b.Position
			row := []string{
				ff(sample.Time), b.Name,
				fi(p.Cell.X), fi(p.Cell.Y), fi(p.Cell.Z),
				ff(p.Offset.X), ff(p.Offset.Y), ff(p.Offset.Z),
				ff(b.Velocity.X), ff(b.Velocity.Y), ff(b.Velocity.Z),
			}
			if err := w.Write(row); err != nil {
				return err
			}
		}
	}
	w.Flush()
	return w.Error()
}

func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.Before(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// LoadSamples reads states.csv back into samples, one per distinct time in
// file order. Only name, position and velocity are restored.
func (s *Store) LoadSamples(runID string) ([]sim.Sample, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, "states.csv"))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = len(header)

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}

	samples := make([]sim.Sample, 0)
	for i := 1; i < len(records); i++ {
		t, b, err := parseRow(records[i])
		if err != nil {
			return nil, fmt.Errorf("states.csv line %d: %w", i+1, err)
		}
		if n := len(samples); n == 0 || samples[n-1].Time != t {
			samples = append(samples, sim.Sample{Time: t})
		}
		last := &samples[len(samples)-1]
		last.Bodies = append(last.Bodies, b)
	}
	return samples, nil
}

func parseRow(rec []string) (float64, body.Body, error) {
	var (
		b    body.Body
		errs []error
	)
	pf := func(s string) float64 {
		v, err := strconv.ParseFloat(s, 64)
		errs = append(errs, err)
		return v
	}
	pi := func(s string) int64 {
		v, err := strconv.ParseInt(s, 10, 64)
		errs = append(errs, err)
		return v
	}

	t := pf(rec[0])
	b.Name = rec[1]
	b.Position.Cell = gridspace.Cell{X: pi(rec[2]), Y: pi(rec[3]), Z: pi(rec[4])}
	b.Position.Offset = r3.Vec{X: pf(rec[5]), Y: pf(rec[6]), Z: pf(rec[7])}
	b.Velocity = r3.Vec{X: pf(rec[8]), Y: pf(rec[9]), Z: pf(rec[10])}
	return t, b, errors.Join(errs...)
}

// TrackPoint is one recorded state of a single body.
type TrackPoint struct {
	Time     float64
	Position gridspace.Position
	Velocity r3.Vec
}

func (s *Store) LoadTrack(runID, name string) ([]TrackPoint, error) {
	samples, err := s.LoadSamples(runID)
	if err != nil {
		return nil, err
	}

	track := make([]TrackPoint, 0, len(samples))
	for _, sample := range samples {
		for _, b := range sample.Bodies {
			if b.Name == name {
				track = append(track, TrackPoint{Time: sample.Time, Position: b.Position, Velocity: b.Velocity})
				break
			}
		}
	}
	if len(track) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrUnknownBody, name)
	}
	return track, nil
}

// Separation returns the distance between bodies a and b at every sample
// where both were recorded.
func (s *Store) Separation(runID, a, b string) (times, distances []float64, err error) {
	meta, err := s.Load(runID)
	if err != nil {
		return nil, nil, err
	}
	ta, err := s.LoadTrack(runID, a)
	if err != nil {
		return nil, nil, err
	}
	tb, err := s.LoadTrack(runID, b)
	if err != nil {
		return nil, nil, err
	}

	space := meta.Space()
	byTime := make(map[float64]gridspace.Position, len(tb))
	for _, p := range tb {
		byTime[p.Time] = p.Position
	}
	for _, p := range ta {
		other, ok := byTime[p.Time]
		if !ok {
			continue
		}
		times = append(times, p.Time)
		distances = append(distances, r3.Norm(space.Delta(p.Position, other)))
	}
	return times, distances, nil
}
