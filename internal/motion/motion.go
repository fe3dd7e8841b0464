// Package motion generates joint-angle trajectories for the arm.
package motion

import (
	"fmt"
	"math"

	"github.com/san-kum/armsim/internal/arm"
)

type Trajectory interface {
	AnglesAt(t float64) arm.Angles
}

// Sine drives every joint with its own sine wave around an offset:
//
//	angle_i(t) = Offset_i + Amplitude_i * sin(2*pi*Frequency*t + Phase_i)
//
// Angles are in degrees, Phase in radians.
type Sine struct {
	Amplitude [arm.NumJoints]float64 `yaml:"amplitude" json:"amplitude"`
	Offset    [arm.NumJoints]float64 `yaml:"offset" json:"offset"`
	Phase     [arm.NumJoints]float64 `yaml:"phase" json:"phase"`
	Frequency float64                `yaml:"frequency" json:"frequency"` // Hz
}

func DefaultSine() Sine {
	return Sine{
		Amplitude: [arm.NumJoints]float64{30, 45, 30},
		Offset:    [arm.NumJoints]float64{45, -30, 0},
		Phase:     [arm.NumJoints]float64{0, math.Pi / 2, math.Pi},
		Frequency: 0.2,
	}
}

func (s Sine) AnglesAt(t float64) arm.Angles {
	var a arm.Angles
	w := 2 * math.Pi * s.Frequency * t
	for i := range a {
		a[i] = s.Offset[i] + s.Amplitude[i]*math.Sin(w+s.Phase[i])
	}
	return a
}

// Period is the time for one full cycle, or +Inf for a static wave.
func (s Sine) Period() float64 {
	if s.Frequency == 0 {
		return math.Inf(1)
	}
	return 1 / math.Abs(s.Frequency)
}

func (s Sine) Validate() error {
	if math.IsNaN(s.Frequency) || math.IsInf(s.Frequency, 0) || s.Frequency < 0 {
		return fmt.Errorf("motion: frequency must be a finite non-negative value, got %g", s.Frequency)
	}
	for i := range s.Amplitude {
		for _, v := range []float64{s.Amplitude[i], s.Offset[i], s.Phase[i]} {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return fmt.Errorf("motion: joint %d parameters must be finite", i+1)
			}
		}
		if s.Amplitude[i] < 0 {
			return fmt.Errorf("motion: joint %d amplitude must not be negative", i+1)
		}
	}
	return nil
}

// Hold keeps the arm at fixed angles.
type Hold arm.Angles

func (h Hold) AnglesAt(float64) arm.Angles { return arm.Angles(h) }
