package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"text/tabwriter"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/springpend/internal/analysis"
	"github.com/san-kum/springpend/internal/animator"
	"github.com/san-kum/springpend/internal/config"
	"github.com/san-kum/springpend/internal/export"
	"github.com/san-kum/springpend/internal/kinematics"
	"github.com/san-kum/springpend/internal/logger"
	"github.com/san-kum/springpend/internal/scene"
	"github.com/san-kum/springpend/internal/series"
	"github.com/san-kum/springpend/internal/spring"
	"github.com/san-kum/springpend/internal/storage"
	"github.com/san-kum/springpend/internal/viz"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/floats"
)

var (
	dataDir    string
	configFile string
	preset     string
	springMode string
	logLevel   string
	logFile    string
	// Frame range, 1-based and inclusive like a host timeline.
	fromFrame int
	toFrame   int
	workers   int
	// Snapshot
	frame   int
	outPath string
	width   int
	height  int
	trail   int
	// Preview
	frameRate int

	// active is resolved once per invocation, before any command runs.
	active *config.Config
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "springpend",
		Short:         "extensible double pendulum animator",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Springs are expensive in the preview; skip them unless asked for.
			if cmd.Name() == "preview" && springMode == "" && preset == "" {
				preset = "preview"
			}
			var err error
			if active, err = loadConfig(cmd); err != nil {
				return err
			}
			// The preview owns the terminal; keep logs in the file only.
			return logger.InitWithFileConfig(active.Log.Level, logFileConfig(active.Log.File), cmd.Name() != "preview")
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			logger.Sync()
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".springpend", "data directory")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")
	rootCmd.PersistentFlags().StringVar(&preset, "preset", "", "use preset configuration")
	rootCmd.PersistentFlags().StringVar(&springMode, "springs", "", "spring mode: regenerate, reuse or omit")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", config.DefaultLogLevel, "log level")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "rotating log file")

	renderCmd := &cobra.Command{
		Use:   "render [file]",
		Short: "render a frame range into the run store",
		Args:  cobra.ExactArgs(1),
		RunE:  renderRun,
	}
	renderCmd.Flags().IntVar(&fromFrame, "from", 1, "first frame (1-based)")
	renderCmd.Flags().IntVar(&toFrame, "to", 0, "last frame, inclusive (0 = end)")
	renderCmd.Flags().IntVar(&workers, "workers", -1, "parallel workers (0 = one per cpu, -1 = config)")

	snapshotCmd := &cobra.Command{
		Use:   "snapshot [file]",
		Short: "write one frame as an svg side view",
		Args:  cobra.ExactArgs(1),
		RunE:  snapshot,
	}
	snapshotCmd.Flags().IntVar(&frame, "frame", 1, "frame (1-based)")
	snapshotCmd.Flags().StringVarP(&outPath, "output", "o", "frame.svg", "output path")
	snapshotCmd.Flags().IntVar(&width, "width", 800, "image width")
	snapshotCmd.Flags().IntVar(&height, "height", 800, "image height")
	snapshotCmd.Flags().IntVar(&trail, "trail", 0, "draw the bob path over this many previous frames")

	plotCmd := &cobra.Command{
		Use:   "plot [file | run_id]",
		Short: "plot bob motion and spring extensions",
		Args:  cobra.ExactArgs(1),
		RunE:  plot,
	}

	previewCmd := &cobra.Command{
		Use:   "preview [file]",
		Short: "step through the animation in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE:  preview,
	}
	previewCmd.Flags().IntVar(&frameRate, "fps", 30, "frame rate")

	runsCmd := &cobra.Command{
		Use:   "runs",
		Short: "list rendered runs",
		RunE:  listRuns,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range config.ListPresets() {
				p := config.GetPreset(name)
				fmt.Printf("  %-8s %dx%d %s\n", name, p.Resolution.U, p.Resolution.V, p.Springs)
			}
			return nil
		},
	}

	rootCmd.AddCommand(renderCmd, snapshotCmd, plotCmd, previewCmd, runsCmd, presetsCmd)
	return rootCmd
}

func logFileConfig(file string) logger.FileConfig {
	if file == "" {
		return logger.FileConfig{}
	}
	return logger.DefaultFileConfig(file)
}

// loadConfig applies defaults, then the preset, then the config file, then
// flags. Log flags only win when set on the command line.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if preset != "" && !config.Apply(cfg, preset) {
		return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
	}
	if configFile != "" {
		if err := config.LoadInto(cfg, configFile); err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
	}
	if cmd.Flags().Changed("log-level") {
		cfg.Log.Level = logLevel
	}
	if cmd.Flags().Changed("log-file") {
		cfg.Log.File = logFile
	}
	if springMode != "" {
		m, err := animator.ParseSpringMode(springMode)
		if err != nil {
			return nil, err
		}
		cfg.Springs = m
	}
	return cfg, cfg.Validate()
}

type pipeline struct {
	cfg    *config.Config
	series *series.Series
	engine *kinematics.Engine
	gen    *spring.Generator
}

func open(path string) (*pipeline, error) {
	s, err := series.Load(path)
	if err != nil {
		return nil, err
	}
	engine := kinematics.New(s, active.Constants)
	gen, err := spring.NewGenerator(engine, active.Resolution)
	if err != nil {
		return nil, err
	}
	logger.Info("series loaded",
		zap.String("file", path),
		zap.Int("frames", s.Len()),
		zap.Float64("duration", s.Duration()),
		zap.Float64("ground", engine.GroundHeight()))
	return &pipeline{cfg: active, series: s, engine: engine, gen: gen}, nil
}

// frameRange converts inclusive 1-based flags into a 0-based half-open range.
func frameRange(n, from, to int) (int, int, error) {
	if to == 0 {
		to = n
	}
	if from < 1 || to > n || from > to {
		return 0, 0, fmt.Errorf("frame range %d..%d outside 1..%d", from, to, n)
	}
	return series.IndexForFrame(from), to, nil
}

func renderRun(cmd *cobra.Command, args []string) error {
	p, err := open(args[0])
	if err != nil {
		return err
	}
	start, end, err := frameRange(p.series.Len(), fromFrame, toFrame)
	if err != nil {
		return err
	}
	w := p.cfg.Workers
	if workers >= 0 {
		w = workers
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}
	name := filepath.Base(args[0])
	name = name[:len(name)-len(filepath.Ext(name))]
	run, err := st.Create(name, storage.RunMetadata{
		Source:     args[0],
		Samples:    p.series.Len(),
		From:       start,
		To:         end,
		Springs:    string(p.cfg.Springs),
		Resolution: p.cfg.Resolution,
		Ground:     p.engine.GroundHeight(),
		Constants:  p.cfg.Constants.Params(),
	})
	if err != nil {
		return err
	}

	anim := animator.New(p.engine, p.gen, run, animator.WithSpringMode(p.cfg.Springs), animator.WithObserver(run))
	if err := anim.Setup(); err != nil {
		run.Abort()
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	began := time.Now()
	renderErr := anim.Prerender(ctx, start, end, w)
	if err := run.Close(); err != nil && renderErr == nil {
		renderErr = err
	}
	if renderErr != nil {
		return renderErr
	}

	elapsed := time.Since(began)
	logger.Info("render finished",
		zap.String("run", run.ID()),
		zap.Int("frames", end-start),
		zap.Duration("elapsed", elapsed))
	fmt.Printf("%s  %s\n", viz.Title("run"), run.ID())
	fmt.Println(viz.Field("frames", fmt.Sprintf("%d..%d", series.FrameForIndex(start), end)))
	fmt.Println(viz.Field("springs", fmt.Sprintf("%s %dx%d", p.cfg.Springs, p.cfg.Resolution.U, p.cfg.Resolution.V)))
	fmt.Println(viz.Field("elapsed", elapsed.Round(time.Millisecond).String()))
	return nil
}

func snapshot(cmd *cobra.Command, args []string) error {
	p, err := open(args[0])
	if err != nil {
		return err
	}
	rec := scene.NewRecorder()
	anim := animator.New(p.engine, p.gen, rec, animator.WithSpringMode(p.cfg.Springs))
	if err := anim.Setup(); err != nil {
		return err
	}
	n := series.IndexForFrame(frame)
	if err := anim.Advance(n); err != nil {
		return err
	}

	f := export.Frame{Ground: p.engine.GroundHeight(), Springs: map[spring.ID]*spring.Mesh{}}
	for id, pose := range rec.Bodies() {
		f.Bodies = append(f.Bodies, kinematics.BodyPose{ID: id, Pose: pose})
	}
	for _, id := range spring.IDs {
		if m, ok := rec.Surface(id); ok {
			f.Springs[id] = m
		}
	}
	for i := max(0, n-trail); i <= n && trail > 0; i++ {
		df, err := p.engine.Dynamic(i)
		if err != nil {
			return err
		}
		if bob, ok := df.Pose(kinematics.Bob); ok {
			f.Trail = append(f.Trail, bob.Position)
		}
	}

	if err := os.WriteFile(outPath, []byte(export.FrameSVG(f, width, height)), 0644); err != nil {
		return err
	}
	logger.Info("snapshot written", zap.String("path", outPath), zap.Int("frame", frame))
	fmt.Println(viz.Field("wrote", outPath))
	return nil
}

// plot reads either a coordinate file or a stored run.
func plot(cmd *cobra.Command, args []string) error {
	var bob []mgl64.Vec3
	var ext1, ext2 []float64

	if _, err := os.Stat(args[0]); err == nil {
		p, err := open(args[0])
		if err != nil {
			return err
		}
		for n := 0; n < p.series.Len(); n++ {
			f, err := p.engine.Dynamic(n)
			if err != nil {
				return err
			}
			pose, _ := f.Pose(kinematics.Bob)
			bob = append(bob, pose.Position)
		}
		ext1 = p.series.Column(func(x series.Sample) float64 { return x.Ext1 })
		ext2 = p.series.Column(func(x series.Sample) float64 { return x.Ext2 })
		if peaks, err := analysis.Peaks(p.series); err == nil {
			defer printPeaks(peaks)
		}
	} else {
		st := storage.New(dataDir)
		if _, err := st.Load(args[0]); err != nil {
			return fmt.Errorf("%s is neither a file nor a run: %w", args[0], err)
		}
		poses, err := st.LoadPoses(args[0], kinematics.Bob)
		if err != nil {
			return err
		}
		for _, r := range poses {
			bob = append(bob, r.Position)
		}
	}
	if len(bob) == 0 {
		return fmt.Errorf("no data to plot")
	}

	ys := make([]float64, len(bob))
	zs := make([]float64, len(bob))
	for i, p := range bob {
		ys[i], zs[i] = p.Y(), p.Z()
	}

	fmt.Printf("samples: %d\n", len(bob))
	fmt.Printf("bob z range: %.3f .. %.3f\n\n", floats.Min(zs), floats.Max(zs))

	plots := []struct {
		data    []float64
		caption string
	}{
		{zs, "bob height (z)"},
		{ys, "bob sweep (y)"},
		{ext1, "vertical spring extension (ext1)"},
		{ext2, "torsion spring extension (ext2)"},
	}
	for _, s := range plots {
		if len(s.data) == 0 {
			continue
		}
		fmt.Println(asciigraph.Plot(s.data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(s.caption),
		))
		fmt.Println()
	}
	return nil
}

func printPeaks(peaks []analysis.Peak) {
	fmt.Println("dominant components:")
	for _, pk := range peaks {
		fmt.Printf("  %-7s %8.4f Hz  period %8.4f  amplitude %.4f\n", pk.Name, pk.Frequency, pk.Period(), pk.Amplitude)
	}
}

func preview(cmd *cobra.Command, args []string) error {
	p, err := open(args[0])
	if err != nil {
		return err
	}
	return viz.Run(p.engine, p.gen, p.cfg.Springs, frameRate)
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
	fmt.Fprintln(w, "ID\tSOURCE\tFRAMES\tSPRINGS\tTIMESTAMP")
	for _, r := range runs {
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%s\n", r.ID, r.Source, r.Frames, r.Springs, r.Timestamp.Format("2006-01-02 15:04:05"))
	}
	return w.Flush()
}
