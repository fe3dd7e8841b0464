package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/san-kum/armsim/internal/config"
	"github.com/san-kum/armsim/internal/logging"
)

// setup resolves the configuration and opens the log. Preset values are
// the base, a config file overrides them, and flags override both.
func setup(cmd *cobra.Command, args []string) error {
	base := config.DefaultConfig()
	if preset != "" {
		p, err := config.GetPreset(preset)
		if err != nil {
			return fmt.Errorf("%w (available: %v)", err, config.ListPresets())
		}
		base = p
	}

	if configFile != "" {
		merged, err := config.Merge(configFile, base)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		base = merged
	}

	flags := cmd.Flags()
	if flags.Changed("interval") {
		base.Run.Interval = interval
	}
	if flags.Changed("time") {
		base.Run.Duration = duration
	}
	if flags.Changed("payload") {
		base.Arm.PayloadMass = payload
	}
	if flags.Changed("motor-torque") {
		base.Arm.MotorTorque = motorTorque
	}
	if flags.Changed("frequency") {
		base.Motion.Frequency = frequency
	}
	if flags.Changed("verbose") {
		base.Log.Verbose = verbose
	}
	if logDir != "" {
		base.Log.Dir = logDir
	}
	if err := base.Validate(); err != nil {
		return err
	}
	cfg = base

	// stderr would corrupt the full-screen view
	tee := cfg.Log.Verbose && !interactive(cmd)
	l, err := logging.New(cfg.Log.Dir, tee)
	if err != nil {
		return err
	}
	logger = l
	logger.Printf("%s started (preset=%q config=%q)", cmd.CommandPath(), preset, configFile)
	return nil
}

func interactive(cmd *cobra.Command) bool {
	return cmd.Name() == "live" || !cmd.HasParent()
}

func presetName() string {
	if preset == "" {
		return "default"
	}
	return preset
}
