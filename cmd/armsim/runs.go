package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/armsim/internal/analysis"
	"github.com/san-kum/armsim/internal/arm"
	"github.com/san-kum/armsim/internal/export"
	"github.com/san-kum/armsim/internal/metrics"
	"github.com/san-kum/armsim/internal/sim"
	"github.com/san-kum/armsim/internal/storage"
	"github.com/san-kum/armsim/internal/viz"
)

func runSimulation(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	est, err := arm.New(cfg.Arm)
	if err != nil {
		return err
	}
	d := sim.New(est, cfg.Motion)
	for _, m := range metrics.Defaults(cfg.Arm) {
		d.AddMetric(m)
	}

	fmt.Printf("sampling %s arm for %.1fs every %.3fs...\n", presetName(), cfg.Run.Duration, cfg.Run.Interval)
	start := time.Now()

	result, err := d.Run(context.Background(), cfg.Run)
	if err != nil {
		return err
	}

	elapsed := time.Since(start)

	runID, err := st.Save(presetName(), cfg, result)
	if err != nil {
		return err
	}
	logger.Printf("run %s saved: %d samples in %v", runID, len(result.Samples), elapsed)

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("samples: %d\n", len(result.Samples))
	fmt.Println("\nmetrics:")
	printMetrics(os.Stdout, result.Metrics)

	if final, ok := result.Final(); ok {
		if warns := est.Diagnose(final.State); len(warns) > 0 {
			fmt.Println("\nfinal sample warnings:")
			for _, w := range warns {
				fmt.Printf("  %s\n", w)
			}
		}
	}
	return nil
}

func printMetrics(w io.Writer, m map[string]float64) {
	for _, name := range sortedKeys(m) {
		fmt.Fprintf(w, "  %-22s %.6f\n", name, m[name])
	}
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func evalPose(cmd *cobra.Command, args []string) error {
	est, err := arm.New(cfg.Arm)
	if err != nil {
		return err
	}

	st := est.Update(arm.Angles{a1, a2, a3})

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "JOINT\tANGLE\tTORQUE\tPOWER\tRATING\tMARGIN")
	margins := est.TorqueMargins(st)
	for i, j := range st.Joints {
		fmt.Fprintf(w, "%d\t%.2f°\t%.3f N*m\t%.4f W\t%.1f N*m\t%.0f%%\n",
			i+1, j.Angle, j.Torque, j.Power, cfg.Arm.MotorTorque, margins[i])
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Println()
	fmt.Printf("end effector:     %s\n", st.EndEffector)
	fmt.Printf("total power:      %.4f W\n", st.TotalPower)
	fmt.Printf("current draw:     %.4f A\n", arm.CurrentDraw(st))
	fmt.Printf("battery voltage:  %.3f V\n", st.BatteryVoltage)
	fmt.Printf("battery charge:   %.4f %%\n", st.BatteryCharge)
	fmt.Printf("battery life:     %s\n", hours(est.BatteryLifeHours(st)))
	fmt.Printf("payload:          %.2f kg\n", cfg.Arm.PayloadMass)
	fmt.Printf("payload capacity: %s\n", capacity(st.PayloadCapacity))
	fmt.Printf("reach:            %.4f m\n", st.Reach)
	fmt.Printf("stability:        %.2f %%\n", st.Stability)

	warns := est.Diagnose(st)
	if len(warns) == 0 {
		fmt.Println("\nwithin all ratings")
		return nil
	}
	fmt.Println("\nwarnings:")
	for _, w := range warns {
		fmt.Printf("  %s\n", w)
	}
	return nil
}

func hours(h float64) string {
	if math.IsInf(h, 1) {
		return "unlimited"
	}
	return fmt.Sprintf("%.2f h", h)
}

func capacity(c float64) string {
	if math.IsInf(c, 1) {
		return "unbounded"
	}
	return fmt.Sprintf("%.3f kg", c)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
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
	fmt.Fprintln(w, "ID\tPRESET\tTIME\tDURATION\tINTERVAL\tSAMPLES\tPAYLOAD\tENERGY")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.2fs\t%.3fs\t%d\t%.1fkg\t%.4fWh\n",
			shortID(run.ID),
			run.Preset,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Duration,
			run.Interval,
			run.Samples,
			run.Arm.PayloadMass,
			run.Metrics["energy_wh"],
		)
	}

	return w.Flush()
}

// loadRun resolves an id prefix and reads the run with its samples.
func loadRun(prefix string) (*storage.Store, *storage.RunMetadata, []sim.Sample, error) {
	st := storage.New(dataDir)
	runID, err := st.Resolve(prefix)
	if err != nil {
		return nil, nil, nil, err
	}
	meta, err := st.Load(runID)
	if err != nil {
		return nil, nil, nil, err
	}
	samples, err := st.LoadSamples(runID)
	if err != nil {
		return nil, nil, nil, err
	}
	if len(samples) == 0 {
		return nil, nil, nil, fmt.Errorf("run %s has no samples", runID)
	}
	return st, meta, samples, nil
}

func plotRun(cmd *cobra.Command, args []string) error {
	_, meta, samples, err := loadRun(args[0])
	if err != nil {
		return err
	}

	res := &sim.Result{Samples: samples}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("preset: %s\n", meta.Preset)
	fmt.Printf("samples: %d\n\n", len(samples))

	joints := func(fn func(arm.JointState) float64) [][]float64 {
		out := make([][]float64, arm.NumJoints)
		for j := range out {
			out[j] = res.Series(func(s sim.Sample) float64 { return fn(s.State.Joints[j]) })
		}
		return out
	}

	for _, field := range strings.Split(plotFields, ",") {
		var graph string
		switch strings.TrimSpace(field) {
		case "torque":
			graph = asciigraph.PlotMany(joints(func(j arm.JointState) float64 { return j.Torque }),
				asciigraph.Height(10), asciigraph.Width(80),
				asciigraph.SeriesColors(asciigraph.Red, asciigraph.Yellow, asciigraph.Cyan),
				asciigraph.Caption("joint torque (N*m): j1 red, j2 yellow, j3 cyan"))
		case "angles":
			graph = asciigraph.PlotMany(joints(func(j arm.JointState) float64 { return j.Angle }),
				asciigraph.Height(10), asciigraph.Width(80),
				asciigraph.SeriesColors(asciigraph.Red, asciigraph.Yellow, asciigraph.Cyan),
				asciigraph.Caption("joint angle (deg): j1 red, j2 yellow, j3 cyan"))
		case "power":
			graph = asciigraph.Plot(res.Series(func(s sim.Sample) float64 { return s.State.TotalPower }),
				asciigraph.Height(10), asciigraph.Width(80), asciigraph.Caption("total power (W)"))
		case "battery":
			graph = asciigraph.Plot(res.Series(func(s sim.Sample) float64 { return s.State.BatteryCharge }),
				asciigraph.Height(10), asciigraph.Width(80), asciigraph.Caption("battery charge (%)"))
		case "stability":
			graph = asciigraph.Plot(res.Series(func(s sim.Sample) float64 { return s.State.Stability }),
				asciigraph.Height(10), asciigraph.Width(80), asciigraph.Caption("stability (%)"))
		case "reach":
			graph = asciigraph.Plot(res.Series(func(s sim.Sample) float64 { return s.State.Reach }),
				asciigraph.Height(10), asciigraph.Width(80), asciigraph.Caption("reach (m)"))
		default:
			return fmt.Errorf("unknown plot field: %s", field)
		}
		fmt.Println(graph)
		fmt.Println()
	}

	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runID, err := st.Resolve(args[0])
	if err != nil {
		return err
	}
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

// output opens the -o file or falls back to stdout.
func output() (io.Writer, func() error, error) {
	if outFile == "" {
		return os.Stdout, func() error { return nil }, nil
	}
	f, err := os.Create(outFile)
	if err != nil {
		return nil, nil, err
	}
	return f, f.Close, nil
}

func exportCSV(cmd *cobra.Command, args []string) error {
	_, _, samples, err := loadRun(args[0])
	if err != nil {
		return err
	}
	w, closeFn, err := output()
	if err != nil {
		return err
	}
	if err := storage.WriteCSV(w, samples); err != nil {
		closeFn()
		return err
	}
	return closeFn()
}

func exportJSON(cmd *cobra.Command, args []string) error {
	_, meta, samples, err := loadRun(args[0])
	if err != nil {
		return err
	}
	est, err := arm.New(meta.Arm)
	if err != nil {
		return err
	}
	w, closeFn, err := output()
	if err != nil {
		return err
	}
	if err := storage.ExportJSON(w, *meta, samples, est); err != nil {
		closeFn()
		return err
	}
	return closeFn()
}

func exportSVG(cmd *cobra.Command, args []string) error {
	_, meta, samples, err := loadRun(args[0])
	if err != nil {
		return err
	}

	path := make([]arm.Vec3, len(samples))
	for i, s := range samples {
		path[i] = s.State.EndEffector
	}

	var svg string
	if svgCanvas {
		est, err := arm.New(meta.Arm)
		if err != nil {
			return err
		}
		c := viz.NewCanvas(60, 20)
		final := samples[len(samples)-1].State
		viz.DrawArm(c, viz.FitArm(meta.Arm, c), est.JointPositions(final.Angles()), path)
		svg = export.CanvasToSVG(c, 4)
	} else {
		svg = export.TrajectoryToSVG(path, 800, 600, svgColor)
	}
	if svg == "" {
		return fmt.Errorf("run %s has too few samples to draw", meta.ID)
	}

	name := outFile
	if name == "" {
		name = meta.ID + ".svg"
	}
	if err := os.WriteFile(name, []byte(svg), 0644); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", name)
	return nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	_, meta, samples, err := loadRun(args[0])
	if err != nil {
		return err
	}
	res := &sim.Result{Samples: samples}
	power := res.Series(func(s sim.Sample) float64 { return s.State.TotalPower })

	fmt.Printf("frequency analysis: %s\n", meta.ID)
	fmt.Printf("preset: %s\n\n", meta.Preset)

	ps := analysis.PowerSpectrum(power)
	if len(ps) > 1 {
		plotData := ps[:max(2, len(ps)/2)]
		graph := asciigraph.Plot(plotData,
			asciigraph.Height(15),
			asciigraph.Width(80),
			asciigraph.Caption("power spectrum (total power)"),
		)
		fmt.Println(graph)
		fmt.Println()
	}

	freq := analysis.DominantFrequency(power, meta.Interval)
	fmt.Printf("dominant frequency: %.3f hz\n", freq)
	if freq > 0 {
		fmt.Printf("period: %.3f s\n", 1.0/freq)
	}
	if meta.Motion.Frequency > 0 {
		fmt.Printf("motion frequency: %.3f hz (%.2fx)\n", meta.Motion.Frequency, freq/meta.Motion.Frequency)
	}

	fmt.Println()
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SERIES\tMIN\tMAX\tMEAN\tRMS")
	series := []struct {
		name string
		fn   func(sim.Sample) float64
	}{
		{"power", func(s sim.Sample) float64 { return s.State.TotalPower }},
		{"tau1", func(s sim.Sample) float64 { return s.State.Joints[0].Torque }},
		{"tau2", func(s sim.Sample) float64 { return s.State.Joints[1].Torque }},
		{"tau3", func(s sim.Sample) float64 { return s.State.Joints[2].Torque }},
		{"reach", func(s sim.Sample) float64 { return s.State.Reach }},
		{"stability", func(s sim.Sample) float64 { return s.State.Stability }},
	}
	for _, s := range series {
		sum := analysis.Summarize(res.Series(s.fn))
		fmt.Fprintf(w, "%s\t%.4f\t%.4f\t%.4f\t%.4f\n", s.name, sum.Min, sum.Max, sum.Mean, sum.RMS)
	}
	return w.Flush()
}
