package tui

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/san-kum/orrery/internal/body"
	"github.com/san-kum/orrery/internal/gridspace"
	"github.com/san-kum/orrery/internal/viz"
	"gonum.org/v1/gonum/spatial/r3"
)

const (
	width       = 70
	height      = 20
	clearScreen = "\033[2J\033[H"
	hideCursor  = "\033[?25l"
	showCursor  = "\033[?25h"
)

// LiveRenderer prints a sky map after ticks, at most frameRate times per
// second. It satisfies sim.Observer.
type LiveRenderer struct {
	out       io.Writer
	scene     string
	space     gridspace.Space
	reference string
	frameRate int
	lastFrame time.Time
	sky       *viz.SkyMap
	fitted    bool
}

func NewLiveRenderer(out io.Writer, scene string, space gridspace.Space, reference string, frameRate int) *LiveRenderer {
	sky := viz.NewSkyMap(space, width, height)
	sky.Camera.Log = true
	return &LiveRenderer{
		out:       out,
		scene:     scene,
		space:     space,
		reference: reference,
		frameRate: frameRate,
		sky:       sky,
	}
}

func (r *LiveRenderer) OnTick(bodies []body.Body, t float64) {
	r.sky.Record(bodies)

	if r.frameRate > 0 && time.Since(r.lastFrame) < time.Second/time.Duration(r.frameRate) {
		return
	}
	r.lastFrame = time.Now()

	origin := referencePosition(bodies, r.reference)
	if !r.fitted {
		r.sky.Fit(bodies, origin)
		r.fitted = true
	}
	r.render(bodies, origin, t)
}

// referencePosition is the position of the named body, or the grid origin.
func referencePosition(bodies []body.Body, name string) gridspace.Position {
	for i := range bodies {
		if bodies[i].Name == name {
			return bodies[i].Position
		}
	}
	return gridspace.Position{}
}

func (r *LiveRenderer) render(bodies []body.Body, origin gridspace.Position, t float64) {
	r.sky.Render(bodies, origin)

	var b strings.Builder
	b.WriteString(clearScreen)
	fmt.Fprintf(&b, "  %s  t=%s\n", r.scene, FormatDuration(t))
	b.WriteString("  " + strings.Repeat("-", width) + "\n")
	for _, line := range r.sky.Canvas.Lines() {
		b.WriteString("  " + line + "\n")
	}
	b.WriteString("  " + strings.Repeat("-", width) + "\n")

	shown := 0
	for i := range bodies {
		if bodies[i].NoGravity || shown >= 4 {
			continue
		}
		d := r3.Norm(r.space.Delta(origin, bodies[i].Position))
		fmt.Fprintf(&b, "  %-8s %s  ", bodies[i].Name, FormatDistance(d))
		shown++
	}
	b.WriteString("\n")

	io.WriteString(r.out, b.String())
}

func (r *LiveRenderer) Start() { io.WriteString(r.out, hideCursor) }
func (r *LiveRenderer) Stop()  { io.WriteString(r.out, showCursor) }
