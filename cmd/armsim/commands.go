package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/san-kum/armsim/internal/arm"
	"github.com/san-kum/armsim/internal/automation"
	"github.com/san-kum/armsim/internal/config"
	"github.com/san-kum/armsim/internal/metrics"
	"github.com/san-kum/armsim/internal/optim"
	"github.com/san-kum/armsim/internal/servo"
	"github.com/san-kum/armsim/internal/sim"
	"github.com/san-kum/armsim/internal/storage"
	"github.com/san-kum/armsim/internal/viz"
)

func runSweep(cmd *cobra.Command, args []string) error {
	if sweepSteps < 1 {
		return fmt.Errorf("--steps must be at least 1, got %d", sweepSteps)
	}
	values := sim.Linspace(sweepFrom, sweepTo, sweepSteps)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Printf("sweep %s over %d values [%g, %g]", sweepParam, len(values), sweepFrom, sweepTo)
	start := time.Now()

	points, err := sim.Sweep(ctx, cfg.Arm, cfg.Motion, sweepParam, values, cfg.Run, metrics.Defaults)
	if err != nil {
		return err
	}
	logger.Printf("sweep done in %v", time.Since(start))

	if len(points) == 0 {
		return nil
	}
	names := sortedKeys(points[0].Result.Metrics)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\t%s\n", strings.ToUpper(sweepParam), strings.ToUpper(strings.Join(names, "\t")))
	for _, p := range points {
		row := make([]string, len(names))
		for i, n := range names {
			row[i] = strconv.FormatFloat(p.Result.Metrics[n], 'f', 4, 64)
		}
		fmt.Fprintf(w, "%g\t%s\n", p.Value, strings.Join(row, "\t"))
	}
	return w.Flush()
}

// parseGridParam reads name=from:to:steps.
func parseGridParam(s string) (string, []float64, error) {
	name, rng, ok := strings.Cut(s, "=")
	if !ok || name == "" {
		return "", nil, fmt.Errorf("bad --param %q, want name=from:to:steps", s)
	}
	parts := strings.Split(rng, ":")
	if len(parts) != 3 {
		return "", nil, fmt.Errorf("bad --param %q, want name=from:to:steps", s)
	}
	from, err := strconv.ParseFloat(parts[0], 64)
	if err != nil {
		return "", nil, fmt.Errorf("bad --param %q: %w", s, err)
	}
	to, err := strconv.ParseFloat(parts[1], 64)
	if err != nil {
		return "", nil, fmt.Errorf("bad --param %q: %w", s, err)
	}
	steps, err := strconv.Atoi(parts[2])
	if err != nil || steps < 1 {
		return "", nil, fmt.Errorf("bad --param %q: steps must be a positive integer", s)
	}
	return name, sim.Linspace(from, to, steps), nil
}

func runOptimize(cmd *cobra.Command, args []string) error {
	if len(gridParams) == 0 {
		return errors.New("at least one --param is required")
	}

	names := make([]string, 0, len(gridParams))
	ranges := make([][]float64, 0, len(gridParams))
	total := 1
	for _, gp := range gridParams {
		name, values, err := parseGridParam(gp)
		if err != nil {
			return err
		}
		names = append(names, name)
		ranges = append(ranges, values)
		total *= len(values)
	}

	gs, err := optim.NewGridSearch(names, ranges)
	if err != nil {
		return err
	}
	gs.Maximize = maximize
	if noOverload {
		gs.Feasible = optim.NoOverload
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	goal := "minimizing"
	if maximize {
		goal = "maximizing"
	}
	fmt.Printf("%s %s over %d combinations...\n", goal, metricName, total)
	logger.Printf("grid search %s over %v", metricName, names)

	out, err := gs.Search(ctx, cfg.Arm, cfg.Motion, cfg.Run, metricName)
	if errors.Is(err, optim.ErrNoFeasible) {
		fmt.Printf("evaluated %d, rejected %d: no feasible design\n", out.Evaluated, out.Rejected)
		return err
	}
	if err != nil {
		return err
	}

	fmt.Printf("evaluated %d, rejected %d\n\n", out.Evaluated, out.Rejected)
	fmt.Printf("best %s: %.6f\n", metricName, out.Value)
	for _, name := range names {
		fmt.Printf("  %-18s %g\n", name, out.Params[name])
	}
	logger.Printf("grid search best %s=%.6f at %v", metricName, out.Value, out.Params)
	return nil
}

func runScenario(cmd *cobra.Command, args []string) error {
	sc, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Printf("scenario: %s\n", sc.Name)
	if sc.Description != "" {
		fmt.Printf("%s\n", sc.Description)
	}
	fmt.Println()

	results, runErr := automation.RunScenario(ctx, sc, stdoutLogger{})

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return errors.Join(runErr, err)
	}

	ids, err := automation.SaveMarked(st, results)
	for i := range results {
		if id, ok := ids[i]; ok {
			fmt.Printf("step %d saved as %s\n", i+1, id)
			logger.Printf("scenario %q step %d saved as %s", sc.Name, i+1, id)
		}
	}
	return errors.Join(runErr, err)
}

// stdoutLogger prints scenario progress and mirrors it to the log file.
type stdoutLogger struct{}

func (stdoutLogger) Printf(format string, args ...any) {
	fmt.Printf(format+"\n", args...)
	logger.Printf(format, args...)
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PRESET\tPAYLOAD\tMOTOR\tREACH\tBATTERY\tFREQ\tDURATION")
	for _, name := range config.ListPresets() {
		p, err := config.GetPreset(name)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%s\t%.1fkg\t%.1fN*m\t%.2fm\t%.0fmAh\t%.2fHz\t%.1fs\n",
			name,
			p.Arm.PayloadMass,
			p.Arm.MotorTorque,
			p.Arm.TotalLength(),
			p.Arm.BatteryCapacity,
			p.Motion.Frequency,
			p.Run.Duration,
		)
	}
	return w.Flush()
}

func listParams(cmd *cobra.Command, args []string) error {
	est, err := arm.New(cfg.Arm)
	if err != nil {
		return err
	}
	params := est.GetParams()

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PARAM\tVALUE")
	for _, name := range arm.ParamNames() {
		fmt.Fprintf(w, "%s\t%g\n", name, params[name])
	}
	return w.Flush()
}

func runLive(cmd *cobra.Command, args []string) error {
	est, err := arm.New(cfg.Arm)
	if err != nil {
		return err
	}
	d := sim.New(est, cfg.Motion)
	for _, m := range metrics.Defaults(cfg.Arm) {
		d.AddMetric(m)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if servoPort != "" {
		cal := servo.DefaultCalibration(cfg.Arm.JointLimits)
		if servoCal != "" {
			if cal, err = servo.LoadCalibration(servoCal); err != nil {
				return err
			}
		}
		mirror, err := servo.NewMirror(ctx, servoPort, cal)
		if err != nil {
			return err
		}
		defer func() {
			closeCtx, done := context.WithTimeout(context.Background(), time.Second)
			defer done()
			writes, failed, lastErr := mirror.Stats()
			logger.Printf("servo mirror: %d writes, %d failed, last error: %v", writes, failed, lastErr)
			if err := mirror.Close(closeCtx); err != nil {
				logger.Printf("servo close: %v", err)
			}
		}()
		d.AddObserver(mirror)
		logger.Printf("mirroring joints to %s (ids %v)", servoPort, cal.IDs())
	}

	l := sim.NewLive(d, time.Duration(rateMs)*time.Millisecond)

	errCh := make(chan error, 1)
	go func() {
		errCh <- l.Start(ctx)
	}()

	p := tea.NewProgram(viz.NewModel(l, logger), tea.WithAltScreen())
	_, runErr := p.Run()

	cancel()
	if err := <-errCh; err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return runErr
}
