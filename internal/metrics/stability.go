package metrics

import (
	"math"

	"github.com/san-kum/armsim/internal/sim"
)

type MinStability struct {
	name string
	min  float64
}

func NewMinStability() *MinStability {
	return &MinStability{name: "min_stability", min: math.Inf(1)}
}

func (m *MinStability) Name() string { return m.name }

func (m *MinStability) Observe(s sim.Sample) {
	m.min = math.Min(m.min, s.State.Stability)
}

func (m *MinStability) Value() float64 {
	if math.IsInf(m.min, 1) {
		return 100
	}
	return m.min
}

func (m *MinStability) Reset() { m.min = math.Inf(1) }

// MinPayload tracks the worst payload capacity over the run. Samples where
// no joint is loaded report an unbounded capacity and are skipped.
type MinPayload struct {
	name string
	min  float64
}

func NewMinPayload() *MinPayload {
	return &MinPayload{name: "min_payload_capacity", min: math.Inf(1)}
}

func (m *MinPayload) Name() string { return m.name }

func (m *MinPayload) Observe(s sim.Sample) {
	m.min = math.Min(m.min, s.State.PayloadCapacity)
}

func (m *MinPayload) Value() float64 {
	if math.IsInf(m.min, 1) {
		return 0
	}
	return m.min
}

func (m *MinPayload) Reset() { m.min = math.Inf(1) }

type FinalCharge struct {
	name   string
	charge float64
}

func NewFinalCharge() *FinalCharge {
	return &FinalCharge{name: "final_charge", charge: 100}
}

func (f *FinalCharge) Name() string         { return f.name }
func (f *FinalCharge) Observe(s sim.Sample) { f.charge = s.State.BatteryCharge }
func (f *FinalCharge) Value() float64       { return f.charge }
func (f *FinalCharge) Reset()               { f.charge = 100 }
