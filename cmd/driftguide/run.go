package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/san-kum/driftguide/internal/analysis"
	"github.com/san-kum/driftguide/internal/experiment"
	"github.com/san-kum/driftguide/internal/export"
	"github.com/san-kum/driftguide/internal/mount"
	"github.com/san-kum/driftguide/internal/optim"
	"github.com/san-kum/driftguide/internal/sim"
	"github.com/san-kum/driftguide/internal/storage"
	"github.com/san-kum/driftguide/internal/viz"
)

func runSimulation(cmd *cobra.Command, args []string) error {
	log, err := newLogger()
	if err != nil {
		return err
	}
	defer log.Sync()

	exp, err := buildExperiment(cmd, log)
	if err != nil {
		return err
	}
	if metricsAddr != "" {
		if err := serveMetrics(exp, log); err != nil {
			return err
		}
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cfg := exp.Config()
	fmt.Printf("guiding %s for %d cycles...\n", cfg.Axis, cfg.Cycles)
	start := time.Now()

	result, err := exp.Run(ctx)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	runID, err := st.Save(storage.RunMetadata{
		Preset:     preset,
		Axis:       cfg.Axis,
		Seed:       cfg.Seed,
		Exposure:   cfg.Exposure,
		Jitter:     cfg.Jitter,
		Noise:      cfg.Noise,
		Gain:       exp.Guider().Gain(),
		MinSamples: exp.Guider().MinSamplesForInference(),
		Mount:      cfg.Mount,
	}, result)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n\n", runID)
	fmt.Println(viz.Summary(runID, result.Metrics, exp.Guider().SettingsSummary()))
	fmt.Println(viz.Summary("mount", mount.GetParams(cfg.MountModel()), ""))
	return nil
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
	fmt.Fprintln(w, "ID\tPRESET\tTIME\tCYCLES\tDURATION\tGAIN\tMIN\tRMS")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%.0fs\t%.3f\t%d\t%.4f\n",
			run.ID,
			orDash(run.Preset),
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Cycles,
			run.Duration(),
			run.Gain,
			run.MinSamples,
			run.Metrics["rms"],
		)
	}

	return w.Flush()
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	cycles, err := st.LoadCycles(runID)
	if err != nil {
		return err
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("axis: %s\n", meta.Axis)
	fmt.Printf("cycles: %d\n\n", len(cycles))

	fields := []string{"raw", "control", "truth", "drift_rate"}
	if field != "" {
		fields = []string{field}
	}
	for _, f := range fields {
		graph, err := viz.PlotSeries(cycles, f, 80, 10)
		if err != nil {
			return err
		}
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
	cycles, err := st.LoadCycles(runID)
	if err != nil {
		return err
	}
	if len(cycles) < 4 {
		return fmt.Errorf("not enough cycles to analyze: %d", len(cycles))
	}

	run := &sim.Result{Cycles: cycles}
	raw := run.Series(viz.Fields["raw"])

	fmt.Printf("residual analysis: %s\n\n", meta.ID)

	spec := analysis.PowerSpectrum(raw, meta.Exposure)
	fmt.Println(viz.Plot(spec.Power[1:], "amplitude spectrum of the guide error", 80, 15))
	fmt.Println()

	if period, power, ok := analysis.DominantPeriod(raw, meta.Exposure); ok {
		fmt.Printf("dominant period: %.1f s (amplitude %.4f)\n", period, power)
	}
	if meta.Mount.PeriodicPeriod > 0 {
		fmt.Printf("mount periodic error: %.1f s\n", meta.Mount.PeriodicPeriod)
	}
	if rate, ok := meta.Metrics["drift_rate"]; ok {
		fmt.Printf("estimated drift rate: %+.5f/s (mount %+.5f/s)\n", rate, meta.Mount.DriftRate)
	}
	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	switch format {
	case "json":
		return st.ExportJSON(os.Stdout, args[0])
	case "csv":
		return st.ExportCSV(os.Stdout, args[0])
	case "svg":
		cycles, err := st.LoadCycles(args[0])
		if err != nil {
			return err
		}
		get, ok := viz.Fields[field]
		if !ok {
			return fmt.Errorf("unknown field %q (available: %v)", field, viz.FieldNames())
		}
		points := make([]export.Point, len(cycles))
		for i, c := range cycles {
			points[i] = export.Point{X: c.Time, Y: get(c)}
		}
		_, err = fmt.Fprintln(os.Stdout, export.SeriesSVG(points, 800, 300, "#00ff88"))
		return err
	default:
		return fmt.Errorf("unknown format %q (available: json, csv, svg)", format)
	}
}

func tuneRun(cmd *cobra.Command, args []string) error {
	log, err := newLogger()
	if err != nil {
		return err
	}
	defer log.Sync()

	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Printf("searching %d settings on %s...\n", len(gains)*len(minList), cfg.Axis)
	grid := optim.NewGridSearch(gains, minList)
	best, points, err := grid.Search(ctx, func() *experiment.Experiment {
		c := *cfg
		return experiment.New(&c, nil)
	}, metricName)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "GAIN\tMIN\t%s\n", metricName)
	for _, p := range optim.Ranked(points) {
		fmt.Fprintf(w, "%.3f\t%d\t%.5f\n", p.Gain, p.MinSamples, p.Value)
	}
	for _, p := range points {
		if p.Err != nil {
			fmt.Fprintf(w, "%.3f\t%d\t%v\n", p.Gain, p.MinSamples, p.Err)
		}
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Printf("\nbest: gain %.3f, min samples %d (%s %.5f)\n", best.Gain, best.MinSamples, metricName, best.Value)
	fmt.Printf("apply with: driftguide config set %s gain %s && driftguide config set %s min-samples %d\n",
		cfg.Axis, strconv.FormatFloat(best.Gain, 'g', -1, 64), cfg.Axis, best.MinSamples)
	return nil
}
