package main

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/san-kum/driftguide/internal/config"
	"github.com/san-kum/driftguide/internal/experiment"
	"github.com/san-kum/driftguide/internal/metrics"
	"github.com/san-kum/driftguide/internal/profile"
)

var (
	dataDir     string
	verbose     bool
	configFile  string
	preset      string
	axis        string
	cycles      int
	exposure    float64
	noise       float64
	seed        int64
	gain        float64
	minSamples  int
	metricsAddr string
	field       string
	fps         int
	gains       []float64
	minList     []int
	metricName  string
	format      string
	trials      int
	spread      float64
	tolerance   float64
	save        bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "driftguide",
		Short:         "drift compensating guide algorithm lab",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".driftguide", "data directory")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "simulate a guiding session and store it",
		Args:  cobra.NoArgs,
		RunE:  runSimulation,
	}
	addSimFlags(runCmd)
	runCmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "serve prometheus metrics on this address")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot run results",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringVar(&field, "field", "", "plot only this field")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "spectrum of the residual guide error",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export a run as JSON, CSV or SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}
	exportCmd.Flags().StringVar(&format, "format", "json", "json, csv or svg")
	exportCmd.Flags().StringVar(&field, "field", "raw", "field drawn by the svg format")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "guide a simulated mount with live visualization",
		Args:  cobra.NoArgs,
		RunE:  runLive,
	}
	addSimFlags(liveCmd)
	liveCmd.Flags().IntVar(&fps, "fps", 10, "cycles per second")
	liveCmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "serve prometheus metrics on this address")

	tuneCmd := &cobra.Command{
		Use:   "tune",
		Short: "grid search the controller settings",
		Args:  cobra.NoArgs,
		RunE:  tuneRun,
	}
	addSimFlags(tuneCmd)
	tuneCmd.Flags().Float64SliceVar(&gains, "gains", []float64{0.2, 0.4, 0.6, 0.8, 1.0}, "control gains to try")
	tuneCmd.Flags().IntSliceVar(&minList, "min-list", []int{0, 10, 25, 50}, "min samples for inference to try")
	tuneCmd.Flags().StringVar(&metricName, "metric", "rms", "metric to minimise")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range config.ListPresets() {
				p := config.GetPreset(name)
				fmt.Printf("  %-16s axis=%s drift=%g/s periodic=%g@%gs noise=%g\n",
					name, p.Axis, p.Mount.DriftRate, p.Mount.PeriodicAmplitude, p.Mount.PeriodicPeriod, p.Noise)
			}
			return nil
		},
	}

	scenarioCmd := &cobra.Command{
		Use:   "scenario [file]",
		Short: "run every step of a scenario file",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}
	scenarioCmd.Flags().BoolVar(&save, "save", true, "store every step as a run")

	monteCarloCmd := &cobra.Command{
		Use:   "montecarlo",
		Short: "repeat a run over random drift rates and noise",
		Args:  cobra.NoArgs,
		RunE:  runMonteCarlo,
	}
	addSimFlags(monteCarloCmd)
	monteCarloCmd.Flags().IntVar(&trials, "trials", 20, "number of trials")
	monteCarloCmd.Flags().Float64Var(&spread, "spread", 0.02, "drift rate spread per second")
	monteCarloCmd.Flags().Float64Var(&tolerance, "tolerance", 0.005, "drift estimate tolerance per second")

	rootCmd.AddCommand(runCmd, listCmd, plotCmd, analyzeCmd, exportCmd, liveCmd, tuneCmd, presetsCmd,
		scenarioCmd, monteCarloCmd, newConfigCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func addSimFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	cmd.Flags().StringVar(&axis, "axis", config.DefaultAxis, "guide axis (ra or dec)")
	cmd.Flags().IntVar(&cycles, "cycles", config.DefaultCycles, "guide cycles")
	cmd.Flags().Float64Var(&exposure, "exposure", config.DefaultExposure, "exposure in seconds")
	cmd.Flags().Float64Var(&noise, "noise", config.DefaultNoise, "seeing noise standard deviation")
	cmd.Flags().Int64Var(&seed, "seed", time.Now().UnixNano(), "random seed")
	cmd.Flags().Float64Var(&gain, "gain", 0, "control gain for this run only")
	cmd.Flags().IntVar(&minSamples, "min-samples", 0, "min samples for inference for this run only")
}

func newLogger() (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Encoding = "console"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	return cfg.Build()
}

func profilePath() string {
	return filepath.Join(dataDir, "profile.yaml")
}

func openProfile() (*profile.Store, error) {
	prof, err := profile.Open(profilePath())
	if err != nil {
		return nil, fmt.Errorf("failed to open profile: %w", err)
	}
	return prof, nil
}

// resolveConfig layers the preset, the config file and changed flags, in
// that order.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("axis") || cfg.Axis == "" {
		cfg.Axis = axis
	}
	if flags.Changed("cycles") {
		cfg.Cycles = cycles
	}
	if flags.Changed("exposure") {
		cfg.Exposure = exposure
	}
	if flags.Changed("noise") {
		cfg.Noise = noise
	}
	if flags.Changed("seed") || cfg.Seed == 0 {
		cfg.Seed = seed
	}
	return cfg, nil
}

// applyOverrides sets --gain and --min-samples on the controller. The
// profile is left untouched.
func applyOverrides(cmd *cobra.Command, exp *experiment.Experiment) error {
	if cmd.Flags().Changed("gain") {
		if err := exp.Guider().SetGain(gain); err != nil {
			return err
		}
	}
	if cmd.Flags().Changed("min-samples") {
		if err := exp.Guider().SetMinSamplesForInference(minSamples); err != nil {
			return err
		}
	}
	return nil
}

func buildExperiment(cmd *cobra.Command, log *zap.Logger) (*experiment.Experiment, error) {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return nil, err
	}
	prof, err := openProfile()
	if err != nil {
		return nil, err
	}
	exp := experiment.FromSettings(cfg, prof, log)
	if err := applyOverrides(cmd, exp); err != nil {
		return nil, err
	}
	return exp, nil
}

// serveMetrics exports every cycle of exp on addr until the process exits.
func serveMetrics(exp *experiment.Experiment, log *zap.Logger) error {
	reg := prometheus.NewRegistry()
	exporter, err := metrics.NewExporter(reg, exp.Config().Axis)
	if err != nil {
		return err
	}
	exp.GetSimulator().AddObserver(exporter)

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	go func() {
		if err := http.ListenAndServe(metricsAddr, mux); err != nil {
			log.Error("metrics server stopped", zap.String("addr", metricsAddr), zap.Error(err))
		}
	}()
	log.Info("serving metrics", zap.String("addr", metricsAddr))
	return nil
}
