package main

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/san-kum/driftguide/internal/viz"
)

func runLive(cmd *cobra.Command, args []string) error {
	// The terminal belongs to the view, so nothing is logged.
	log := zap.NewNop()

	exp, err := buildExperiment(cmd, log)
	if err != nil {
		return err
	}
	if !cmd.Flags().Changed("cycles") {
		exp.Config().Cycles = 0
	}
	if metricsAddr != "" {
		if err := serveMetrics(exp, log); err != nil {
			return err
		}
	}

	session, err := exp.Start()
	if err != nil {
		return err
	}

	if fps <= 0 {
		return fmt.Errorf("fps must be positive, got %d", fps)
	}
	title := fmt.Sprintf("%s axis", exp.Config().Axis)
	model := viz.NewLiveModel(session, title, exp.Guider().SettingsSummary, time.Second/time.Duration(fps))

	p := tea.NewProgram(model, tea.WithAltScreen())
	_, err = p.Run()
	return err
}
