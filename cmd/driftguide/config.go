package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/san-kum/driftguide/internal/guide"
)

var axes = []string{"ra", "dec"}

func newConfigCmd() *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "show or change the stored guide algorithm settings",
	}

	showCmd := &cobra.Command{
		Use:   "show [axis...]",
		Short: "show the settings of each axis",
		RunE:  showConfig,
	}

	setCmd := &cobra.Command{
		Use:   "set [axis] [gain|min-samples] [value]",
		Short: "validate and store one setting",
		Args:  cobra.ExactArgs(3),
		RunE:  setConfig,
	}

	configCmd.AddCommand(showCmd, setCmd)
	return configCmd
}

func showConfig(cmd *cobra.Command, args []string) error {
	log, err := newLogger()
	if err != nil {
		return err
	}
	defer log.Sync()

	prof, err := openProfile()
	if err != nil {
		return err
	}

	names := args
	if len(names) == 0 {
		names = axes
	}

	fmt.Printf("profile: %s\n\n", prof.Path())
	for _, name := range names {
		a := guide.LoadAxis(prof, guide.ConfigPath(name), guide.WithLogger(log))
		fmt.Printf("[%s] %s\n%s\n", name, a.Path(), a.SettingsSummary())
	}

	entries := prof.Entries()
	if len(entries) == 0 {
		return nil
	}
	fmt.Println("stored values:")
	for _, e := range entries {
		fmt.Printf("  %s = %s\n", e.Key, e.Value)
	}
	return nil
}

func setConfig(cmd *cobra.Command, args []string) error {
	name, key, value := args[0], args[1], args[2]

	prof, err := openProfile()
	if err != nil {
		return err
	}
	a := guide.LoadAxis(prof, guide.ConfigPath(name))

	switch key {
	case "gain":
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("invalid gain %q: %w", value, err)
		}
		if err := a.SetGain(v); err != nil {
			return err
		}
	case "min-samples":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid min samples %q: %w", value, err)
		}
		if err := a.SetMinSamplesForInference(n); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown setting %q (available: gain, min-samples)", key)
	}

	if err := prof.Save(); err != nil {
		return err
	}
	fmt.Print(a.SettingsSummary())
	return nil
}
