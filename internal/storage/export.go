package storage

import (
	"encoding/json"
	"io"

	"gonum.org/v1/gonum/spatial/r3"
)

type ExportBody struct {
	Name     string   `json:"name"`
	Cell     [3]int64 `json:"cell"`
	Offset   r3.Vec   `json:"offset"`
	Velocity r3.Vec   `json:"velocity"`
}

type ExportSample struct {
	Time   float64      `json:"time"`
	Bodies []ExportBody `json:"bodies"`
}

type ExportData struct {
	Run     RunMetadata    `json:"run"`
	Samples []ExportSample `json:"samples"`
}

// ExportJSON writes a saved run as a single json document.
func (s *Store) ExportJSON(w io.Writer, runID string) error {
	meta, err := s.Load(runID)
	if err != nil {
		return err
	}
	samples, err := s.LoadSamples(runID)
	if err != nil {
		return err
	}

	data := ExportData{
		Run:     *meta,
		Samples: make([]ExportSample, len(samples)),
	}
	for i, sample := range samples {
		out := ExportSample{Time: sample.Time, Bodies: make([]ExportBody, len(sample.Bodies))}
		for j, b := range sample.Bodies {
			c := b.Position.Cell
			out.Bodies[j] = ExportBody{
				Name:     b.Name,
				Cell:     [3]int64{c.X, c.Y, c.Z},
				Offset:   b.Position.Offset,
				Velocity: b.Velocity,
			}
		}
		data.Samples[i] = out
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}
