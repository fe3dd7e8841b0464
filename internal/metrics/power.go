package metrics

import "github.com/san-kum/armsim/internal/sim"

type MeanPower struct {
	name    string
	sum     float64
	samples int
}

func NewMeanPower() *MeanPower {
	return &MeanPower{name: "mean_power"}
}

func (m *MeanPower) Name() string { return m.name }

func (m *MeanPower) Observe(s sim.Sample) {
	m.sum += s.State.TotalPower
	m.samples++
}

func (m *MeanPower) Value() float64 {
	if m.samples == 0 {
		return 0
	}
	return m.sum / float64(m.samples)
}

func (m *MeanPower) Reset() {
	m.sum = 0
	m.samples = 0
}

// Energy integrates total power over sample time in watt-hours. Each
// sample's power is held until the next sample arrives.
type Energy struct {
	name     string
	wh       float64
	lastP    float64
	lastT    float64
	observed bool
}

func NewEnergy() *Energy {
	return &Energy{name: "energy_wh"}
}

func (e *Energy) Name() string { return e.name }

func (e *Energy) Observe(s sim.Sample) {
	if e.observed && s.Time > e.lastT {
		e.wh += e.lastP * (s.Time - e.lastT) / 3600
	}
	e.lastP = s.State.TotalPower
	e.lastT = s.Time
	e.observed = true
}

func (e *Energy) Value() float64 { return e.wh }

func (e *Energy) Reset() {
	e.wh = 0
	e.lastP = 0
	e.lastT = 0
	e.observed = false
}
