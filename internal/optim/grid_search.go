package optim

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/san-kum/armsim/internal/arm"
	"github.com/san-kum/armsim/internal/metrics"
	"github.com/san-kum/armsim/internal/motion"
	"github.com/san-kum/armsim/internal/sim"
)

var ErrNoFeasible = errors.New("optim: no feasible parameter combination")

// GridSearch evaluates every combination of the parameter ranges and keeps
// the one with the best run metric.
type GridSearch struct {
	paramNames []string
	ranges     [][]float64

	// Maximize flips the objective; the default minimizes.
	Maximize bool
	// Feasible rejects combinations by their run metrics. Nil accepts all.
	Feasible func(metrics map[string]float64) bool
}

func NewGridSearch(params []string, ranges [][]float64) (*GridSearch, error) {
	if len(params) != len(ranges) {
		return nil, fmt.Errorf("optim: %d params but %d ranges", len(params), len(ranges))
	}
	return &GridSearch{paramNames: params, ranges: ranges}, nil
}

// Outcome is the best combination found and how many were evaluated.
type Outcome struct {
	Params    map[string]float64
	Value     float64
	Evaluated int
	Rejected  int
}

func (g *GridSearch) Search(
	ctx context.Context,
	base arm.Config,
	traj motion.Trajectory,
	cfg sim.Config,
	metricName string,
) (*Outcome, error) {
	out := &Outcome{Value: math.Inf(1)}
	if g.Maximize {
		out.Value = math.Inf(-1)
	}

	if err := g.searchRecursive(ctx, 0, make(map[string]float64), base, traj, cfg, metricName, out); err != nil {
		return nil, err
	}
	if out.Params == nil {
		return out, ErrNoFeasible
	}
	return out, nil
}

func (g *GridSearch) searchRecursive(
	ctx context.Context,
	depth int,
	current map[string]float64,
	base arm.Config,
	traj motion.Trajectory,
	cfg sim.Config,
	metricName string,
	out *Outcome,
) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if depth == len(g.paramNames) {
		est, err := arm.New(base)
		if err != nil {
			return err
		}
		for name, v := range current {
			if err := est.SetParam(name, v); err != nil {
				if errors.Is(err, arm.ErrUnknownParam) {
					return err
				}
				out.Rejected++
				return nil
			}
		}

		d := sim.New(est, traj)
		for _, m := range metrics.Defaults(est.Config()) {
			d.AddMetric(m)
		}
		result, err := d.Run(ctx, cfg)
		if err != nil {
			return err
		}
		out.Evaluated++

		if g.Feasible != nil && !g.Feasible(result.Metrics) {
			out.Rejected++
			return nil
		}
		val, ok := result.Metrics[metricName]
		if !ok {
			return fmt.Errorf("optim: unknown metric %s", metricName)
		}
		if g.better(val, out.Value) {
			out.Value = val
			out.Params = make(map[string]float64, len(current))
			for k, v := range current {
				out.Params[k] = v
			}
		}
		return nil
	}

	paramName := g.paramNames[depth]
	for _, val := range g.ranges[depth] {
		newParams := make(map[string]float64, len(current)+1)
		for k, v := range current {
			newParams[k] = v
		}
		newParams[paramName] = val

		if err := g.searchRecursive(ctx, depth+1, newParams, base, traj, cfg, metricName, out); err != nil {
			return err
		}
	}
	return nil
}

func (g *GridSearch) better(v, best float64) bool {
	if g.Maximize {
		return v > best
	}
	return v < best
}

// NoOverload accepts runs in which no joint exceeded the motor rating.
func NoOverload(m map[string]float64) bool {
	return m["overload_ratio"] == 0
}
