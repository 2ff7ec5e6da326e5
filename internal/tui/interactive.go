package tui

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/san-kum/orrery/internal/body"
	"github.com/san-kum/orrery/internal/gravity"
	"github.com/san-kum/orrery/internal/gridspace"
	"github.com/san-kum/orrery/internal/sim"
	"github.com/san-kum/orrery/internal/viz"
	"gonum.org/v1/gonum/spatial/r3"
)

const (
	maxSpeed  = 1024
	tableRows = 8
	driftKept = 48
)

type tickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(33*time.Millisecond, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// Model is an interactive view of a running simulation. Each frame advances
// speed ticks and then renders from the registry between ticks.
type Model struct {
	scene string
	sim   *sim.Simulator
	clock gravity.Clock
	steps int
	total int

	// bodies is the snapshot taken after the last batch of ticks; every
	// view reads it instead of the registry.
	bodies []body.Body

	sky   *viz.SkyMap
	theme viz.Theme

	paused    bool
	speed     int
	reference int

	energy0 float64
	drift   []float64

	lastFrame time.Time
	fps       float64
	width     int
	height    int
}

func NewModel(scene string, s *sim.Simulator, cfg sim.Config) *Model {
	m := &Model{
		scene:  scene,
		sim:    s,
		clock:  cfg.Clock(),
		total:  cfg.Steps(),
		sky:    viz.NewSkyMap(s.Integrator().Space, 60, 18),
		theme:  viz.Themes[0],
		speed:  1,
		width:  100,
		height: 40,
	}
	m.sky.Camera.Log = true

	m.bodies = s.Registry().Snapshot()
	m.reference = defaultReference(m.bodies)
	m.energy0 = s.Integrator().Energy(m.bodies)
	m.sky.Fit(m.bodies, m.origin())
	m.sky.Record(m.bodies)
	return m
}

// defaultReference is the first anchored body, then the heaviest one.
func defaultReference(bodies []body.Body) int {
	best := -1
	for i := range bodies {
		if bodies[i].Anchored {
			return i
		}
		if best < 0 || bodies[i].Mass > bodies[best].Mass {
			best = i
		}
	}
	return best
}

func (m *Model) origin() gridspace.Position {
	if m.reference < 0 || m.reference >= len(m.bodies) {
		return gridspace.Position{}
	}
	return m.bodies[m.reference].Position
}

func (m *Model) Done() bool { return m.steps >= m.total }

func (m *Model) Init() tea.Cmd { return tick() }

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m, m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tickMsg:
		now := time.Time(msg)
		if !m.lastFrame.IsZero() {
			if dt := now.Sub(m.lastFrame).Seconds(); dt > 0 {
				m.fps = 1 / dt
			}
		}
		m.lastFrame = now
		if !m.paused {
			m.advance()
		}
		return m, tick()
	}
	return m, nil
}

func (m *Model) advance() {
	for i := 0; i < m.speed && !m.Done(); i++ {
		m.sim.Step(m.clock)
		m.steps++
	}
	m.bodies = m.sim.Registry().Snapshot()
	m.sky.Record(m.bodies)

	if m.energy0 != 0 {
		e := m.sim.Integrator().Energy(m.bodies)
		m.drift = append(m.drift, math.Abs(e-m.energy0)/math.Abs(m.energy0))
		if len(m.drift) > driftKept {
			m.drift = m.drift[len(m.drift)-driftKept:]
		}
	}
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	n := m.sim.Registry().Len()
	switch msg.String() {
	case "q", "ctrl+c", "esc":
		return tea.Quit
	case " ", "space":
		m.paused = !m.paused
	case "+", "=":
		m.speed = min(maxSpeed, m.speed*2)
	case "-", "_":
		m.speed = max(1, m.speed/2)
	case "tab":
		if n > 0 {
			m.reference = (m.reference + 1) % n
			m.sky.ClearTrails()
		}
	case "shift+tab":
		if n > 0 {
			m.reference = (m.reference - 1 + n) % n
			m.sky.ClearTrails()
		}
	case "z":
		m.sky.Camera.ZoomIn()
	case "x":
		m.sky.Camera.ZoomOut()
	case "l":
		m.sky.Camera.Log = !m.sky.Camera.Log
	case "f":
		m.sky.Fit(m.bodies, m.origin())
	case "c":
		m.sky.ClearTrails()
	case "up", "k":
		m.sky.Camera.RotatePitch(0.1)
	case "down", "j":
		m.sky.Camera.RotatePitch(-0.1)
	case "left", "h":
		m.sky.Camera.RotateYaw(-0.1)
	case "right":
		m.sky.Camera.RotateYaw(0.1)
	case "t":
		m.theme = viz.NextTheme(m.theme.Name)
	}
	return nil
}

func (m *Model) View() string {
	var b strings.Builder
	bodies := m.bodies
	origin := m.origin()

	status := viz.StatusRunning.Render("● running")
	if m.paused {
		status = viz.StatusPaused.Render("○ paused")
	} else if m.Done() {
		status = viz.Subtle.Render("■ finished")
	}
	ref := "grid origin"
	if m.reference >= 0 && m.reference < len(bodies) {
		ref = bodies[m.reference].Name
	}
	fmt.Fprintf(&b, "\n  %s  %s  %s\n", viz.Title(m.theme, m.scene), status,
		viz.MetricLabel.Render(fmt.Sprintf("x%d  around %s", m.speed, ref)))

	progress := 0.0
	if m.total > 0 {
		progress = float64(m.steps) / float64(m.total)
	}
	fmt.Fprintf(&b, "  %s %s  %s\n\n",
		viz.ProgressBar(m.theme, progress, 36),
		viz.Value(m.theme, FormatDuration(m.sim.Time())),
		viz.Subtle.Render(fmt.Sprintf("%.0ffps", m.fps)))

	sky := m.sky.Render(bodies, origin)
	b.WriteString(viz.Panel.Render(strings.TrimRight(sky, "\n")) + "\n")
	b.WriteString(m.bodyTable(bodies, origin) + "\n")

	if len(m.drift) > 0 {
		fmt.Fprintf(&b, "  %s %s %s\n",
			viz.MetricLabel.Render("energy drift"),
			viz.Sparkline(m.drift, driftKept),
			viz.Value(m.theme, fmt.Sprintf("%.2e", m.drift[len(m.drift)-1])))
	}

	b.WriteString("\n" + viz.KeyHint.Render("  space pause  ± speed  tab reference  z/x zoom  l log  arrows tilt  t theme  q quit") + "\n")
	return b.String()
}

func (m *Model) bodyTable(bodies []body.Body, origin gridspace.Position) string {
	space := m.sim.Integrator().Space
	rows := make([][]string, 0, tableRows)
	for i := range bodies {
		if len(rows) == tableRows {
			break
		}
		bd := &bodies[i]
		if bd.NoGravity && i != m.reference {
			continue
		}
		off := bd.Position.Offset
		rows = append(rows, []string{
			bd.Name,
			bd.Position.Cell.String(),
			fmt.Sprintf("%.0f, %.0f, %.0f", off.X, off.Y, off.Z),
			formatSpeed(bd.Speed()),
			FormatDistance(r3.Norm(space.Delta(origin, bd.Position))),
		})
	}

	header := lipgloss.NewStyle().Bold(true).Foreground(m.theme.Primary)
	cell := lipgloss.NewStyle().Foreground(m.theme.Text).Padding(0, 1)
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(m.theme.Muted)).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return header.Padding(0, 1)
			}
			return cell
		}).
		Headers("body", "cell", "offset (m)", "speed", "distance").
		Rows(rows...).
		String()
}

// Run shows the model full screen until the user quits or ctx ends.
func Run(ctx context.Context, m *Model) error {
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	if err != nil && ctx.Err() != nil {
		return nil
	}
	return err
}
