package metrics

import (
	"fmt"
	"math"

	"github.com/san-kum/armsim/internal/sim"
)

type PeakTorque struct {
	name  string
	joint int
	peak  float64
}

// NewPeakTorque tracks the largest torque seen at a 0-based joint index.
func NewPeakTorque(joint int) *PeakTorque {
	return &PeakTorque{
		name:  fmt.Sprintf("peak_torque_j%d", joint+1),
		joint: joint,
	}
}

func (p *PeakTorque) Name() string { return p.name }

func (p *PeakTorque) Observe(s sim.Sample) {
	p.peak = math.Max(p.peak, s.State.Joints[p.joint].Torque)
}

func (p *PeakTorque) Value() float64 { return p.peak }
func (p *PeakTorque) Reset()         { p.peak = 0 }

// Overload is the fraction of samples in which any joint needs more torque
// than the motor rating.
type Overload struct {
	name       string
	rating     float64
	violations int
	samples    int
}

func NewOverload(rating float64) *Overload {
	return &Overload{
		name:   "overload_ratio",
		rating: rating,
	}
}

func (o *Overload) Name() string { return o.name }

func (o *Overload) Observe(s sim.Sample) {
	o.samples++
	for _, j := range s.State.Joints {
		if j.Torque > o.rating {
			o.violations++
			break
		}
	}
}

func (o *Overload) Value() float64 {
	if o.samples == 0 {
		return 0
	}
	return float64(o.violations) / float64(o.samples)
}

func (o *Overload) Reset() {
	o.violations = 0
	o.samples = 0
}
