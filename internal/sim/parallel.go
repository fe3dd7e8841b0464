package sim

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/san-kum/armsim/internal/arm"
	"github.com/san-kum/armsim/internal/motion"
)

// SweepPoint is the outcome of one run in a parameter sweep.
type SweepPoint struct {
	Value  float64
	Result *Result
}

// Sweep runs one independent driver per parameter value in parallel.
// Results keep the order of values. newMetrics is called once per run with
// that run's arm design so runs never share metric state; it may be nil.
func Sweep(ctx context.Context, base arm.Config, traj motion.Trajectory, param string, values []float64, cfg Config, newMetrics func(arm.Config) []Metric) ([]SweepPoint, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	points := make([]SweepPoint, len(values))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())

	for i, v := range values {
		g.Go(func() error {
			est, err := arm.New(base)
			if err != nil {
				return err
			}
			if err := est.SetParam(param, v); err != nil {
				return fmt.Errorf("sweep %s=%g: %w", param, v, err)
			}

			d := New(est, traj)
			if newMetrics != nil {
				for _, m := range newMetrics(est.Config()) {
					d.AddMetric(m)
				}
			}

			res, err := d.Run(gctx, cfg)
			if err != nil {
				return fmt.Errorf("sweep %s=%g: %w", param, v, err)
			}
			points[i] = SweepPoint{Value: v, Result: res}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return points, nil
}

// Linspace returns n evenly spaced values from lo to hi inclusive.
func Linspace(lo, hi float64, n int) []float64 {
	if n <= 0 {
		return nil
	}
	if n == 1 {
		return []float64{lo}
	}
	out := make([]float64, n)
	step := (hi - lo) / float64(n-1)
	for i := range out {
		out[i] = lo + float64(i)*step
	}
	out[n-1] = hi
	return out
}
