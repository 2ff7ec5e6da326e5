package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/orrery/internal/analysis"
	"github.com/san-kum/orrery/internal/body"
	"github.com/san-kum/orrery/internal/config"
	"github.com/san-kum/orrery/internal/export"
	"github.com/san-kum/orrery/internal/metrics"
	"github.com/san-kum/orrery/internal/orbit"
	"github.com/san-kum/orrery/internal/scene"
	"github.com/san-kum/orrery/internal/sim"
	"github.com/san-kum/orrery/internal/storage"
	"github.com/san-kum/orrery/internal/tui"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var (
	dataDir   string
	verbose   bool
	dt        float64
	duration  float64
	timeScale float64
	scheme    string
	workers   int
	// Scene file, overrides the preset argument
	configFile string
	save       bool
	live       bool
	frameRate  int
	// Plot and analysis selection
	bodyNames []string
	refName   string
	// Orbit elements
	semiMajor   float64
	ecc         float64
	incl        float64
	node        float64
	periapsis   float64
	orbitedMass float64
	samples     int
	// Sweep
	ticks    []float64
	spanDays float64
	// Divergence
	perturbation float64
	outPath      string
)

const defaultPreset = "solar_system"

func main() {
	rootCmd := &cobra.Command{
		Use:           "orrery",
		Short:         "gravity simulation on a floating-origin grid",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLive(cmd, []string{defaultPreset})
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".orrery", "data directory")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	sceneFlags := func(cmd *cobra.Command) {
		cmd.Flags().StringVar(&configFile, "config", "", "scene file path (yaml)")
		cmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "real seconds per tick")
		cmd.Flags().Float64Var(&duration, "time", config.DefaultDuration, "real seconds to run")
		cmd.Flags().Float64Var(&timeScale, "scale", config.DefaultTimeScale, "simulated seconds per real second")
		cmd.Flags().StringVar(&scheme, "scheme", config.DefaultScheme, "integration scheme (euler, leapfrog)")
		cmd.Flags().IntVar(&workers, "workers", 0, "goroutines per phase, 0 for GOMAXPROCS")
	}

	runCmd := &cobra.Command{
		Use:   "run [preset]",
		Short: "run a scene and save the samples",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSimulation,
	}
	sceneFlags(runCmd)
	runCmd.Flags().BoolVar(&save, "save", true, "save the run to the data directory")
	runCmd.Flags().BoolVar(&live, "live", false, "print a sky map while running")
	runCmd.Flags().IntVar(&frameRate, "fps", 10, "frame rate for --live")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot distances to a reference body",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringSliceVar(&bodyNames, "body", nil, "bodies to plot (default: up to six)")
	plotCmd.Flags().StringVar(&refName, "ref", "", "reference body (default: first body)")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "estimate orbital periods from a saved run",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}
	analyzeCmd.Flags().StringSliceVar(&bodyNames, "body", nil, "bodies to analyze (default: all)")
	analyzeCmd.Flags().StringVar(&refName, "ref", "", "reference body (default: first body)")

	orbitCmd := &cobra.Command{
		Use:   "orbit",
		Short: "propagate a Keplerian orbit analytically",
		RunE:  propagateOrbit,
	}
	orbitCmd.Flags().Float64Var(&semiMajor, "a", config.AU, "semi-major axis (m)")
	orbitCmd.Flags().Float64Var(&ecc, "e", 0.0167, "eccentricity")
	orbitCmd.Flags().Float64Var(&incl, "i", 0, "inclination (rad)")
	orbitCmd.Flags().Float64Var(&node, "node", 0, "longitude of ascending node (rad)")
	orbitCmd.Flags().Float64Var(&periapsis, "peri", 0, "argument of periapsis (rad)")
	orbitCmd.Flags().Float64Var(&orbitedMass, "mass", config.SunMass, "orbited mass (kg)")
	orbitCmd.Flags().IntVar(&samples, "samples", 12, "samples over one period")

	sweepCmd := &cobra.Command{
		Use:   "sweep [preset]",
		Short: "compare drift across tick sizes",
		Args:  cobra.MaximumNArgs(1),
		RunE:  sweepTicks,
	}
	sceneFlags(sweepCmd)
	sweepCmd.Flags().Float64SliceVar(&ticks, "ticks", []float64{3600, 7200, 14400, 43200, 86400}, "simulated seconds per tick")
	sweepCmd.Flags().Float64Var(&spanDays, "span", 365.25, "simulated days per run")
	sweepCmd.Flags().StringVar(&refName, "ref", "", "reference body")
	sweepCmd.Flags().StringSliceVar(&bodyNames, "body", nil, "body whose separation is tracked")

	divergenceCmd := &cobra.Command{
		Use:   "divergence [preset]",
		Short: "estimate the largest Lyapunov exponent of a scene",
		Args:  cobra.MaximumNArgs(1),
		RunE:  divergence,
	}
	sceneFlags(divergenceCmd)
	divergenceCmd.Flags().StringSliceVar(&bodyNames, "body", nil, "body to perturb")
	divergenceCmd.Flags().Float64Var(&perturbation, "perturb", 1e3, "initial displacement (m)")

	liveCmd := &cobra.Command{
		Use:   "live [preset]",
		Short: "interactive view of a running scene",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLive,
	}
	sceneFlags(liveCmd)

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available scenes",
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tBODIES\tASTEROIDS\tSCHEME\tSPAN")
			for _, name := range config.ListPresets() {
				cfg, _ := config.GetPreset(name)
				asteroids := "-"
				if a := cfg.Asteroids; a != nil {
					asteroids = fmt.Sprintf("%d-%d", a.CountMin, a.CountMax)
				}
				fmt.Fprintf(w, "%s\t%d\t%s\t%s\t%s\n", name, len(cfg.Bodies), asteroids, cfg.Scheme,
					tui.FormatDuration(cfg.Duration*cfg.TimeScale))
			}
			return w.Flush()
		},
	}

	dumpCmd := &cobra.Command{
		Use:   "dump [preset]",
		Short: "write a preset as a yaml scene file",
		Args:  cobra.ExactArgs(1),
		RunE:  dumpPreset,
	}
	dumpCmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default: stdout)")

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export run metadata",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run samples to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}
	exportJSONCmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default: stdout)")

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "draw body tracks to an SVG file",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default: stdout)")
	exportSVGCmd.Flags().StringSliceVar(&bodyNames, "body", nil, "bodies to draw (default: up to eight)")
	exportSVGCmd.Flags().StringVar(&refName, "ref", "", "reference body (default: first body)")

	rootCmd.AddCommand(runCmd, listCmd, plotCmd, analyzeCmd, orbitCmd, sweepCmd, divergenceCmd, liveCmd, presetsCmd, dumpCmd, exportCmd, exportJSONCmd, exportSVGCmd)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		stop()
		os.Exit(1)
	}
}

func newLogger() *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// loadScene resolves the scene from --config or the preset argument, then
// applies any time flags given explicitly.
func loadScene(cmd *cobra.Command, args []string) (*config.Scene, error) {
	var (
		cfg *config.Scene
		err error
	)
	if configFile != "" {
		cfg, err = config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
	} else {
		name := defaultPreset
		if len(args) > 0 {
			name = args[0]
		}
		cfg, err = config.GetPreset(name)
		if err != nil {
			return nil, fmt.Errorf("%w (available: %v)", err, config.ListPresets())
		}
	}

	flags := cmd.Flags()
	if flags.Changed("dt") {
		cfg.Dt = dt
	}
	if flags.Changed("time") {
		cfg.Duration = duration
	}
	if flags.Changed("scale") {
		cfg.TimeScale = timeScale
	}
	if flags.Changed("scheme") {
		cfg.Scheme = scheme
	}
	if flags.Changed("workers") {
		cfg.Workers = workers
	}
	return cfg, cfg.Validate()
}

// referenceHandle picks the body other bodies are measured against: the
// named one, else the first anchored body, else the heaviest.
func referenceHandle(reg *body.Registry, name string) (body.Handle, error) {
	if name != "" {
		h, ok := reg.Lookup(name)
		if !ok {
			return -1, fmt.Errorf("unknown body: %s", name)
		}
		return h, nil
	}
	best := body.Handle(-1)
	bodies := reg.Bodies()
	for _, h := range reg.Handles() {
		if bodies[h].Anchored {
			return h, nil
		}
		if best < 0 || bodies[h].Mass > bodies[best].Mass {
			best = h
		}
	}
	if best < 0 {
		return -1, fmt.Errorf("scene has no bodies")
	}
	return best, nil
}

// trackedHandle is the named body, or the first gravity source other than ref.
func trackedHandle(reg *body.Registry, names []string, ref body.Handle) (body.Handle, error) {
	if len(names) > 0 {
		h, ok := reg.Lookup(names[0])
		if !ok {
			return -1, fmt.Errorf("unknown body: %s", names[0])
		}
		return h, nil
	}
	bodies := reg.Bodies()
	for _, h := range reg.Handles() {
		if h != ref && bodies[h].IsSource() {
			return h, nil
		}
	}
	return -1, fmt.Errorf("scene has no body to track")
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := loadScene(cmd, args)
	if err != nil {
		return err
	}
	logger := newLogger()

	s, err := scene.NewSimulator(cfg, sim.WithLogger(logger))
	if err != nil {
		return err
	}
	reg := s.Registry()
	space := s.Integrator().Space

	s.AddMetric(metrics.NewEnergyDrift(s.Integrator()))
	s.AddMetric(metrics.NewMomentumDrift())
	s.AddMetric(metrics.NewRebases())
	if ref, err := referenceHandle(reg, ""); err == nil {
		bodies := reg.Bodies()
		for _, h := range reg.Handles() {
			if h != ref && bodies[h].IsSource() {
				s.AddMetric(metrics.NewSeparationDrift(space, ref, h))
			}
		}
		if live {
			r := tui.NewLiveRenderer(os.Stdout, cfg.Name, space, bodies[ref].Name, frameRate)
			r.Start()
			defer r.Stop()
			s.AddObserver(r)
		}
	}

	fmt.Printf("running %s simulation...\n", cfg.Name)
	start := time.Now()

	runCfg := scene.RunConfig(cfg)
	result, err := s.Run(cmd.Context(), runCfg)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	fmt.Printf("completed in %v\n", elapsed)
	if save {
		st := storage.New(dataDir)
		if err := st.Init(); err != nil {
			return err
		}
		runID, err := st.Save(storage.RunInfo{
			Scene:     cfg.Name,
			Scheme:    s.Integrator().Scheme.String(),
			Space:     space,
			Dt:        cfg.Dt,
			Duration:  cfg.Duration,
			TimeScale: cfg.TimeScale,
		}, result)
		if err != nil {
			return err
		}
		fmt.Printf("run id: %s\n", runID)
	}
	fmt.Printf("bodies: %d\n", reg.Len())
	fmt.Printf("steps: %d\n", result.StepsTaken)
	fmt.Printf("simulated: %s\n", tui.FormatDuration(result.SimTime))
	fmt.Printf("energy drift: %.3e\n", result.EnergyDrift)
	for _, e := range result.Errors {
		fmt.Printf("error: %v\n", e)
	}

	fmt.Println("\nmetrics:")
	names := make([]string, 0, len(result.Metrics))
	for name := range result.Metrics {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Printf("  %s: %.6g\n", metricLabel(reg, name), result.Metrics[name])
	}
	return nil
}

// metricLabel replaces handle pairs in separation metric names with body
// names.
func metricLabel(reg *body.Registry, name string) string {
	rest, ok := strings.CutPrefix(name, "separation_drift_")
	if !ok {
		return name
	}
	as, bs, ok := strings.Cut(rest, "_")
	if !ok {
		return name
	}
	a, errA := strconv.Atoi(as)
	b, errB := strconv.Atoi(bs)
	if errA != nil || errB != nil {
		return name
	}
	ba, okA := reg.Get(body.Handle(a))
	bb, okB := reg.Get(body.Handle(b))
	if !okA || !okB {
		return name
	}
	return fmt.Sprintf("separation_drift %s-%s", ba.Name, bb.Name)
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSCENE\tTIME\tBODIES\tSTEPS\tSIMULATED\tSCHEME\tDRIFT")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%s\t%s\t%.2e\n",
			run.ID,
			run.Scene,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			len(run.Bodies),
			run.Steps,
			tui.FormatDuration(run.SimTime),
			run.Scheme,
			run.EnergyDrift,
		)
	}

	return w.Flush()
}

// selectBodies returns the reference name and the bodies to report on.
func selectBodies(meta *storage.RunMetadata, limit int) (string, []string, error) {
	if len(meta.Bodies) == 0 {
		return "", nil, fmt.Errorf("no data")
	}
	ref := refName
	if ref == "" {
		ref = meta.Bodies[0]
	}
	if len(bodyNames) > 0 {
		return ref, bodyNames, nil
	}

	names := make([]string, 0, limit)
	for _, name := range meta.Bodies {
		if name == ref {
			continue
		}
		if limit > 0 && len(names) == limit {
			break
		}
		names = append(names, name)
	}
	return ref, names, nil
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	ref, names, err := selectBodies(meta, 6)
	if err != nil {
		return err
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("scene: %s\n\n", meta.Scene)

	for _, name := range names {
		times, distances, err := st.Separation(runID, ref, name)
		if err != nil {
			return err
		}
		if len(distances) < 2 {
			continue
		}

		data := make([]float64, len(distances))
		for i, d := range distances {
			data[i] = d / 1e9
		}
		graph := asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(fmt.Sprintf("%s to %s (Gm) over %s", name, ref, tui.FormatDuration(times[len(times)-1]-times[0]))),
		)
		fmt.Println(graph)
		fmt.Println()
	}
	return nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	ref, names, err := selectBodies(meta, 0)
	if err != nil {
		return err
	}
	refTrack, err := st.LoadTrack(runID, ref)
	if err != nil {
		return err
	}
	space := meta.Space()

	fmt.Printf("period analysis: %s\n", meta.ID)
	fmt.Printf("scene: %s, around %s\n\n", meta.Scene, ref)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "BODY\tSAMPLES\tPERIOD\tDAYS")
	for _, name := range names {
		track, err := st.LoadTrack(runID, name)
		if err != nil {
			return err
		}
		n := min(len(track), len(refTrack))
		if n < 2 {
			continue
		}
		xs := make([]float64, n)
		for i := 0; i < n; i++ {
			xs[i] = space.Delta(refTrack[i].Position, track[i].Position).X
		}

		sampleDt := (track[n-1].Time - track[0].Time) / float64(n-1)
		period, err := analysis.DominantPeriod(xs, sampleDt)
		if err != nil {
			fmt.Fprintf(w, "%s\t%d\t-\t%v\n", name, n, err)
			continue
		}
		fmt.Fprintf(w, "%s\t%d\t%s\t%.1f\n", name, n, tui.FormatDuration(period), period/86400)
	}
	return w.Flush()
}

func propagateOrbit(cmd *cobra.Command, args []string) error {
	el := orbit.Elements{
		SemiMajorAxis:            semiMajor,
		Eccentricity:             ecc,
		Inclination:              incl,
		LongitudeOfAscendingNode: node,
		ArgumentOfPeriapsis:      periapsis,
	}
	if err := el.Validate(); err != nil {
		return err
	}
	if samples < 1 {
		return fmt.Errorf("samples must be positive")
	}

	period := el.Period(orbitedMass)
	fmt.Printf("period: %s (%.3f days)\n", tui.FormatDuration(period), period/86400)
	fmt.Printf("periapsis: %s  apoapsis: %s\n\n", tui.FormatDistance(el.Periapsis()), tui.FormatDistance(el.Apoapsis()))

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TIME\tE\tNU\tITER\tRADIUS\tX\tY\tSPEED")
	for i := 0; i <= samples; i++ {
		t := period * float64(i) / float64(samples)
		nu, sol := el.Anomalies(t, orbitedMass)
		x, y, _ := el.Position(t, orbitedMass)
		r := el.Radius(nu)
		fmt.Fprintf(w, "%s\t%.5f\t%.5f\t%d\t%s\t%s\t%s\t%.1f\n",
			tui.FormatDuration(t), sol.E, nu, sol.Iterations,
			tui.FormatDistance(r), tui.FormatDistance(x), tui.FormatDistance(y),
			el.Speed(r, orbitedMass))
	}
	if err := w.Flush(); err != nil {
		return err
	}

	radii := make([]float64, 200)
	for i := range radii {
		nu, _ := el.Anomalies(period*float64(i)/float64(len(radii)), orbitedMass)
		radii[i] = el.Radius(nu) / 1e9
	}
	fmt.Println()
	fmt.Println(asciigraph.Plot(radii,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption("radius (Gm) over one period"),
	))
	return nil
}

func sweepTicks(cmd *cobra.Command, args []string) error {
	cfg, err := loadScene(cmd, args)
	if err != nil {
		return err
	}
	if len(ticks) == 0 {
		return fmt.Errorf("no tick sizes given")
	}

	// Build once to resolve handles; every run gets a fresh copy.
	probe, _, err := scene.Build(cfg)
	if err != nil {
		return err
	}
	ref, err := referenceHandle(probe, refName)
	if err != nil {
		return err
	}
	tracked, err := trackedHandle(probe, bodyNames, ref)
	if err != nil {
		return err
	}

	build := func() (*sim.Simulator, error) {
		s, err := scene.NewSimulator(cfg)
		if err != nil {
			return nil, err
		}
		s.AddMetric(metrics.NewSeparationDrift(s.Integrator().Space, ref, tracked))
		s.AddMetric(metrics.NewEnergyDrift(s.Integrator()))
		return s, nil
	}

	cfgs := make([]sim.Config, len(ticks))
	for i, tick := range ticks {
		c := scene.RunConfig(cfg)
		c.Dt = 1
		c.TimeScale = tick
		c.Duration = spanDays * 86400 / tick
		c.SampleEvery = 0
		cfgs[i] = c
	}

	refBody, _ := probe.Get(ref)
	trackedBody, _ := probe.Get(tracked)
	fmt.Printf("sweeping %s: %s around %s over %.1f days\n\n", cfg.Name, trackedBody.Name, refBody.Name, spanDays)

	start := time.Now()
	results, err := sim.Sweep(cmd.Context(), build, cfgs)
	if err != nil {
		return err
	}

	sepName := fmt.Sprintf("separation_drift_%d_%d", ref, tracked)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TICK\tSTEPS\tSEPARATION DRIFT\tENERGY DRIFT")
	for i, res := range results {
		fmt.Fprintf(w, "%s\t%d\t%.3e\t%.3e\n",
			tui.FormatDuration(ticks[i]), res.StepsTaken, res.Metrics[sepName], res.Metrics["energy_drift"])
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Printf("\ncompleted in %v\n", time.Since(start))
	return nil
}

func divergence(cmd *cobra.Command, args []string) error {
	cfg, err := loadScene(cmd, args)
	if err != nil {
		return err
	}
	// Asteroids do not pull on anything; leave them out of the estimate.
	cfg.Asteroids = nil

	probe, _, err := scene.Build(cfg)
	if err != nil {
		return err
	}
	ref, err := referenceHandle(probe, "")
	if err != nil {
		return err
	}
	target, err := trackedHandle(probe, bodyNames, ref)
	if err != nil {
		return err
	}

	build := func() (*sim.Simulator, error) { return scene.NewSimulator(cfg) }
	runCfg := scene.RunConfig(cfg)
	lambda, err := analysis.Divergence(cmd.Context(), build, target, perturbation, runCfg)
	if err != nil {
		return err
	}

	b, _ := probe.Get(target)
	span := runCfg.Duration * runCfg.TimeScale
	fmt.Printf("perturbed %s by %s\n", b.Name, tui.FormatDistance(perturbation))
	fmt.Printf("lambda: %.3e 1/s\n", lambda)
	if lambda > 0 {
		fmt.Printf("e-folding time: %s (run covers %s)\n", tui.FormatDuration(1/lambda), tui.FormatDuration(span))
	}
	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := loadScene(cmd, args)
	if err != nil {
		return err
	}
	s, err := scene.NewSimulator(cfg)
	if err != nil {
		return err
	}
	return tui.Run(cmd.Context(), tui.NewModel(cfg.Name, s, scene.RunConfig(cfg)))
}

// output returns stdout or the --out file.
func output() (io.WriteCloser, error) {
	if outPath == "" {
		return nopCloser{os.Stdout}, nil
	}
	return os.Create(outPath)
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

func dumpPreset(cmd *cobra.Command, args []string) error {
	cfg, err := config.GetPreset(args[0])
	if err != nil {
		return err
	}
	if outPath != "" {
		return config.Save(outPath, cfg)
	}
	enc := yaml.NewEncoder(os.Stdout)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return err
	}
	return enc.Close()
}

func exportRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

func exportJSON(cmd *cobra.Command, args []string) error {
	out, err := output()
	if err != nil {
		return err
	}
	defer out.Close()

	st := storage.New(dataDir)
	if err := st.ExportJSON(out, args[0]); err != nil {
		return err
	}
	if outPath != "" {
		fmt.Fprintf(os.Stderr, "exported %s to %s\n", args[0], outPath)
	}
	return nil
}

func exportSVG(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	ref, names, err := selectBodies(meta, 8)
	if err != nil {
		return err
	}
	tracks, err := export.FromRun(st, args[0], ref, names)
	if err != nil {
		return err
	}
	svg := export.TracksToSVG(tracks, 800, 800)
	if svg == "" {
		return fmt.Errorf("run %s has no tracks to draw", args[0])
	}

	out, err := output()
	if err != nil {
		return err
	}
	defer out.Close()
	_, err = io.WriteString(out, svg)
	return err
}
