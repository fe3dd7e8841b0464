package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/san-kum/armsim/internal/config"
	"github.com/san-kum/armsim/internal/logging"
)

var (
	dataDir    string
	configFile string
	preset     string
	logDir     string
	verbose    bool
	// run settings
	interval    float64
	duration    float64
	payload     float64
	motorTorque float64
	frequency   float64
	// eval pose
	a1, a2, a3 float64
	// live view
	rateMs    int
	servoPort string
	servoCal  string
	// sweep
	sweepParam string
	sweepFrom  float64
	sweepTo    float64
	sweepSteps int
	// optimize
	gridParams []string
	metricName string
	maximize   bool
	noOverload bool
	// exports
	outFile    string
	svgCanvas  bool
	svgColor   string
	plotFields string

	// resolved in PersistentPreRunE
	cfg    *config.Config
	logger *logging.Logger
)

// main registers the armsim commands and runs the live view when no
// subcommand is given. It exits with status 1 if a command fails.
func main() {
	rootCmd := &cobra.Command{
		Use:               "armsim",
		Short:             "robotic arm physics estimator",
		PersistentPreRunE: setup,
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			logger.Printf("%s finished", cmd.CommandPath())
			logger.Close()
		},
		RunE:         runLive,
		SilenceUsage: true,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&dataDir, "data", ".armsim", "data directory")
	pf.StringVar(&configFile, "config", "", "config file path (yaml)")
	pf.StringVar(&preset, "preset", "", "use preset configuration")
	pf.StringVar(&logDir, "log-dir", "", "log directory (default from config)")
	pf.BoolVarP(&verbose, "verbose", "v", false, "copy log lines to stderr")
	addLiveFlags(rootCmd)

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "sample the trajectory and store the run",
		Args:  cobra.NoArgs,
		RunE:  runSimulation,
	}
	addRunFlags(runCmd)

	evalCmd := &cobra.Command{
		Use:   "eval",
		Short: "evaluate a single pose",
		Args:  cobra.NoArgs,
		RunE:  evalPose,
	}
	evalCmd.Flags().Float64Var(&a1, "a1", 0, "joint 1 angle (deg)")
	evalCmd.Flags().Float64Var(&a2, "a2", 0, "joint 2 angle (deg)")
	evalCmd.Flags().Float64Var(&a3, "a3", 0, "joint 3 angle (deg)")
	evalCmd.Flags().Float64Var(&payload, "payload", 0, "payload mass (kg)")
	evalCmd.Flags().Float64Var(&motorTorque, "motor-torque", 0, "motor torque rating (N*m)")

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
	plotCmd.Flags().StringVar(&plotFields, "fields", "torque,power,battery,stability", "comma separated: torque, power, battery, stability, reach, angles")

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export run metadata",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run samples to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}
	exportCSVCmd.Flags().StringVarP(&outFile, "output", "o", "", "output file (default stdout)")

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run samples and warnings to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}
	exportJSONCmd.Flags().StringVarP(&outFile, "output", "o", "", "output file (default stdout)")

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "draw the end-effector path as SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().StringVarP(&outFile, "output", "o", "", "output file (default <run_id>.svg)")
	exportSVGCmd.Flags().BoolVar(&svgCanvas, "canvas", false, "render the terminal side view of the final pose instead")
	exportSVGCmd.Flags().StringVar(&svgColor, "color", "#00ccff", "stroke color")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "frequency analysis of total power",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "run one design per parameter value in parallel",
		Args:  cobra.NoArgs,
		RunE:  runSweep,
	}
	addRunFlags(sweepCmd)
	sweepCmd.Flags().StringVar(&sweepParam, "param", "payload_mass", "parameter to sweep")
	sweepCmd.Flags().Float64Var(&sweepFrom, "from", 0, "first value")
	sweepCmd.Flags().Float64Var(&sweepTo, "to", 10, "last value")
	sweepCmd.Flags().IntVar(&sweepSteps, "steps", 11, "number of values")

	optimizeCmd := &cobra.Command{
		Use:   "optimize",
		Short: "grid search arm parameters for the best run metric",
		Args:  cobra.NoArgs,
		RunE:  runOptimize,
	}
	addRunFlags(optimizeCmd)
	optimizeCmd.Flags().StringArrayVar(&gridParams, "param", nil, "name=from:to:steps (repeatable)")
	optimizeCmd.Flags().StringVar(&metricName, "metric", "energy_wh", "metric to optimize")
	optimizeCmd.Flags().BoolVar(&maximize, "maximize", false, "maximize instead of minimize")
	optimizeCmd.Flags().BoolVar(&noOverload, "no-overload", false, "reject designs that exceed the motor rating")

	scenarioCmd := &cobra.Command{
		Use:   "scenario [file.yaml]",
		Short: "run a scripted scenario",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Args:  cobra.NoArgs,
		RunE:  listPresets,
	}

	paramsCmd := &cobra.Command{
		Use:   "params",
		Short: "list tunable arm parameters",
		Args:  cobra.NoArgs,
		RunE:  listParams,
	}

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "run the estimator with live visualization",
		Args:  cobra.NoArgs,
		RunE:  runLive,
	}
	addLiveFlags(liveCmd)

	rootCmd.AddCommand(runCmd, evalCmd, listCmd, plotCmd, exportCmd, exportCSVCmd, exportJSONCmd,
		exportSVGCmd, analyzeCmd, sweepCmd, optimizeCmd, scenarioCmd, presetsCmd, paramsCmd, liveCmd)

	if err := rootCmd.Execute(); err != nil {
		logger.Printf("error: %v", err)
		logger.Close()
		os.Exit(1)
	}
}

func addRunFlags(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&interval, "interval", 0.1, "sample interval (s)")
	cmd.Flags().Float64Var(&duration, "time", 10.0, "duration (s)")
	cmd.Flags().Float64Var(&payload, "payload", 0, "payload mass (kg)")
	cmd.Flags().Float64Var(&motorTorque, "motor-torque", 0, "motor torque rating (N*m)")
	cmd.Flags().Float64Var(&frequency, "frequency", 0, "trajectory frequency (Hz)")
}

func addLiveFlags(cmd *cobra.Command) {
	cmd.Flags().IntVar(&rateMs, "rate", 100, "sample interval (ms)")
	cmd.Flags().Float64Var(&payload, "payload", 0, "payload mass (kg)")
	cmd.Flags().Float64Var(&motorTorque, "motor-torque", 0, "motor torque rating (N*m)")
	cmd.Flags().Float64Var(&frequency, "frequency", 0, "trajectory frequency (Hz)")
	cmd.Flags().StringVar(&servoPort, "servo-port", "", "mirror joint angles to a feetech bus on this serial port")
	cmd.Flags().StringVar(&servoCal, "servo-cal", "", "servo calibration file (json)")
}
