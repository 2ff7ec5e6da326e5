package export

import (
	"fmt"
	"math"
	"strings"

	"github.com/san-kum/orrery/internal/storage"
	"github.com/san-kum/orrery/internal/viz"
	"gonum.org/v1/gonum/spatial/r3"
)

var palette = []string{"#ffd75f", "#5fafff", "#ff875f", "#87ff87", "#d787ff", "#5fd7d7", "#ff5f87", "#afaf87"}

// Track is a body's path relative to a reference body, in metres.
type Track struct {
	Name   string
	Points []r3.Vec
}

// FromRun loads the tracks of names from a saved run, each relative to ref.
// Only samples holding both bodies are kept.
func FromRun(st *storage.Store, runID, ref string, names []string) ([]Track, error) {
	meta, err := st.Load(runID)
	if err != nil {
		return nil, err
	}
	refTrack, err := st.LoadTrack(runID, ref)
	if err != nil {
		return nil, err
	}
	space := meta.Space()

	tracks := make([]Track, 0, len(names))
	for _, name := range names {
		track, err := st.LoadTrack(runID, name)
		if err != nil {
			return nil, err
		}
		n := min(len(track), len(refTrack))
		pts := make([]r3.Vec, n)
		for i := 0; i < n; i++ {
			pts[i] = space.Delta(refTrack[i].Position, track[i].Position)
		}
		tracks = append(tracks, Track{Name: name, Points: pts})
	}
	return tracks, nil
}

// TracksToSVG draws tracks projected onto the x-z plane with a shared,
// aspect-preserving scale. The reference body sits at the origin.
func TracksToSVG(tracks []Track, width, height int) string {
	extent := 0.0
	for _, t := range tracks {
		for _, p := range t.Points {
			extent = math.Max(extent, math.Max(math.Abs(p.X), math.Abs(p.Z)))
		}
	}
	if extent == 0 {
		return ""
	}
	extent *= 1.1

	half := float64(min(width, height)) / 2
	cx, cy := float64(width)/2, float64(height)/2
	project := func(p r3.Vec) (float64, float64) {
		return cx + p.X/extent*half, cy + p.Z/extent*half
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<circle cx="%.1f" cy="%.1f" r="3" fill="#ffffff"/>
`, width, height, width, height, cx, cy)

	for i, t := range tracks {
		if len(t.Points) < 2 {
			continue
		}
		color := palette[i%len(palette)]

		sb.WriteString(`<path fill="none" stroke="` + color + `" stroke-width="1.5" d="M`)
		for j, p := range t.Points {
			x, y := project(p)
			if j == 0 {
				fmt.Fprintf(&sb, "%.1f,%.1f", x, y)
			} else {
				fmt.Fprintf(&sb, " L%.1f,%.1f", x, y)
			}
		}
		sb.WriteString("\"/>\n")

		x, y := project(t.Points[len(t.Points)-1])
		fmt.Fprintf(&sb, `<circle cx="%.1f" cy="%.1f" r="2.5" fill="%s"/>
<text x="%.1f" y="%.1f" fill="%s" font-family="monospace" font-size="11">%s</text>
`, x, y, color, x+5, y-5, color, escape(t.Name))
	}

	sb.WriteString("</svg>")
	return sb.String()
}

// CanvasToSVG converts a braille canvas to one circle per lit dot.
func CanvasToSVG(canvas *viz.Canvas, scale float64) string {
	if canvas == nil {
		return ""
	}

	w, h := canvas.Dots()
	width, height := float64(w)*scale, float64(h)*scale

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<g fill="#5fafff">
`, width, height, width, height)

	pixelMap := [4][2]rune{
		{0x01, 0x08},
		{0x02, 0x10},
		{0x04, 0x20},
		{0x40, 0x80},
	}
	dotRadius := scale * 0.4

	for row := 0; row < canvas.Height; row++ {
		for col := 0; col < canvas.Width; col++ {
			pattern := canvas.Grid[row][col] - 0x2800
			if pattern <= 0 {
				continue
			}
			baseX := float64(col) * scale * 2
			baseY := float64(row) * scale * 4

			for dy := 0; dy < 4; dy++ {
				for dx := 0; dx < 2; dx++ {
					if pattern&pixelMap[dy][dx] != 0 {
						fmt.Fprintf(&sb, "<circle cx=\"%.1f\" cy=\"%.1f\" r=\"%.1f\"/>\n",
							baseX+float64(dx)*scale+scale/2, baseY+float64(dy)*scale+scale/2, dotRadius)
					}
				}
			}
		}
	}

	sb.WriteString("</g>\n</svg>")
	return sb.String()
}

var escaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;")

func escape(s string) string { return escaper.Replace(s) }
