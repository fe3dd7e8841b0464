package optim

import (
	"context"
	"errors"
	"testing"

	"github.com/san-kum/armsim/internal/arm"
	"github.com/san-kum/armsim/internal/motion"
	"github.com/san-kum/armsim/internal/sim"
)

var shortRun = sim.Config{Interval: 0.5, Duration: 1}

func TestGridSearchMinimizesEnergy(t *testing.T) {
	g, err := NewGridSearch([]string{"payload_mass"}, [][]float64{{8, 2, 5}})
	if err != nil {
		t.Fatal(err)
	}
	out, err := g.Search(context.Background(), arm.DefaultConfig(), motion.Hold{}, shortRun, "energy_wh")
	if err != nil {
		t.Fatal(err)
	}
	if out.Params["payload_mass"] != 2 {
		t.Errorf("best payload = %f, want 2", out.Params["payload_mass"])
	}
	if out.Evaluated != 3 {
		t.Errorf("evaluated %d, want 3", out.Evaluated)
	}
}

func TestGridSearchFeasibility(t *testing.T) {
	// Maximize payload at the extended pose without overloading any joint.
	// Joint 1 needs (2.1 + 0.6*mp)*9.81 N*m, above 15 even with no payload.
	g, _ := NewGridSearch([]string{"payload_mass"}, [][]float64{{0, 1, 2, 4}})
	g.Maximize = true
	g.Feasible = NoOverload

	_, err := g.Search(context.Background(), arm.DefaultConfig(), motion.Hold{}, shortRun, "final_charge")
	if !errors.Is(err, ErrNoFeasible) {
		t.Errorf("expected ErrNoFeasible, got %v", err)
	}

	cfg := arm.DefaultConfig()
	cfg.MotorTorque = 40
	out, err := g.Search(context.Background(), cfg, motion.Hold{}, shortRun, "peak_torque_j1")
	if err != nil {
		t.Fatal(err)
	}
	// tau1 = (2.1 + 0.6*mp)*9.81: 1 kg -> 26.5, 2 kg -> 32.4, 4 kg -> 44.1
	if out.Params["payload_mass"] != 2 {
		t.Errorf("best payload = %f, want 2", out.Params["payload_mass"])
	}
	if out.Rejected != 1 {
		t.Errorf("rejected %d, want 1", out.Rejected)
	}
}

func TestGridSearchErrors(t *testing.T) {
	if _, err := NewGridSearch([]string{"a"}, nil); err == nil {
		t.Error("mismatched ranges should fail")
	}

	g, _ := NewGridSearch([]string{"flux"}, [][]float64{{1}})
	_, err := g.Search(context.Background(), arm.DefaultConfig(), motion.Hold{}, shortRun, "energy_wh")
	if !errors.Is(err, arm.ErrUnknownParam) {
		t.Errorf("expected ErrUnknownParam, got %v", err)
	}

	g, _ = NewGridSearch([]string{"payload_mass"}, [][]float64{{1}})
	if _, err := g.Search(context.Background(), arm.DefaultConfig(), motion.Hold{}, shortRun, "nope"); err == nil {
		t.Error("unknown metric should fail")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := g.Search(ctx, arm.DefaultConfig(), motion.Hold{}, shortRun, "energy_wh"); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}
