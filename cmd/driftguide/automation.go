package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/san-kum/driftguide/internal/automation"
	"github.com/san-kum/driftguide/internal/config"
	"github.com/san-kum/driftguide/internal/experiment"
	"github.com/san-kum/driftguide/internal/storage"
)

func runScenario(cmd *cobra.Command, args []string) error {
	log, err := newLogger()
	if err != nil {
		return err
	}
	defer log.Sync()

	scenario, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Printf("scenario %s: %d steps\n", scenario.Name, len(scenario.Steps))
	results, err := automation.RunScenario(ctx, scenario, log)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if save {
		if err := st.Init(); err != nil {
			return err
		}
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STEP\tNAME\tGAIN\tMIN\tRMS\tPEAK\tRUN")
	for i, r := range results {
		name := r.Step.SaveAs
		if name == "" {
			name = r.Step.Preset
		}
		runID := "-"
		if save {
			runID, err = st.Save(storage.RunMetadata{
				Preset:     name,
				Axis:       r.Config.Axis,
				Seed:       r.Config.Seed,
				Exposure:   r.Config.Exposure,
				Jitter:     r.Config.Jitter,
				Noise:      r.Config.Noise,
				Gain:       r.Gain,
				MinSamples: r.MinSamples,
				Mount:      r.Config.Mount,
			}, r.Result)
			if err != nil {
				return err
			}
		}
		fmt.Fprintf(w, "%d\t%s\t%.3f\t%d\t%.4f\t%.4f\t%s\n",
			i+1, orDash(name), r.Gain, r.MinSamples, r.Result.Metrics["rms"], r.Result.Metrics["peak"], runID)
	}
	return w.Flush()
}

func runMonteCarlo(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	prof, err := openProfile()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	mc := &automation.MonteCarloConfig{
		Base:        cfg,
		DriftSpread: spread,
		NumTrials:   trials,
		Tolerance:   tolerance,
		Seed:        cfg.Seed,
	}

	build := func(c *config.Config) (*experiment.Experiment, error) {
		exp := experiment.FromSettings(c, prof, nil)
		if err := applyOverrides(cmd, exp); err != nil {
			return nil, err
		}
		return exp, nil
	}

	results, err := automation.RunMonteCarlo(ctx, mc, build)
	if err != nil {
		return err
	}

	s := automation.MonteCarloStats(results)
	fmt.Printf("trials: %d\n", s.Trials)
	fmt.Printf("converged: %d (%.0f%%)\n", s.Converged, 100*float64(s.Converged)/float64(s.Trials))
	fmt.Printf("rms: %.4f ± %.4f\n", s.MeanRMS, s.StdRMS)
	fmt.Printf("mean drift estimate error: %.5f/s\n", s.MeanError)
	return nil
}
