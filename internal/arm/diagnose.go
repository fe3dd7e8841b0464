package arm

import "fmt"

type Severity int

const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityCritical
)

func (s Severity) String() string {
	switch s {
	case SeverityWarning:
		return "warning"
	case SeverityCritical:
		return "critical"
	default:
		return "info"
	}
}

// Warning flags a state that exceeds a design rating.
type Warning struct {
	Severity Severity `json:"severity"`
	Joint    int      `json:"joint"` // 1-based, 0 when not joint specific
	Message  string   `json:"message"`
}

func (w Warning) String() string {
	if w.Joint > 0 {
		return fmt.Sprintf("[%s] joint %d: %s", w.Severity, w.Joint, w.Message)
	}
	return fmt.Sprintf("[%s] %s", w.Severity, w.Message)
}

// Diagnose checks a state against the motor rating, the payload capacity,
// the joint limits and the battery floor.
func (e *Estimator) Diagnose(s State) []Warning {
	var out []Warning

	for i, j := range s.Joints {
		if j.Torque > e.cfg.MotorTorque {
			out = append(out, Warning{
				Severity: SeverityCritical,
				Joint:    i + 1,
				Message: fmt.Sprintf("required torque %.2f Nm exceeds motor rating %.2f Nm",
					j.Torque, e.cfg.MotorTorque),
			})
		}
		if lim := e.cfg.JointLimits[i]; !lim.Contains(j.Angle) {
			out = append(out, Warning{
				Severity: SeverityWarning,
				Joint:    i + 1,
				Message: fmt.Sprintf("angle %.1f deg outside limits [%.1f, %.1f]",
					j.Angle, lim.Min, lim.Max),
			})
		}
	}

	if e.cfg.PayloadMass > s.PayloadCapacity {
		out = append(out, Warning{
			Severity: SeverityCritical,
			Message: fmt.Sprintf("payload %.1f kg exceeds current capacity %.1f kg",
				e.cfg.PayloadMass, s.PayloadCapacity),
		})
	}

	if s.BatteryCharge <= 0 {
		out = append(out, Warning{Severity: SeverityCritical, Message: "battery depleted"})
	} else if s.BatteryVoltage <= e.cfg.VoltageFloor {
		out = append(out, Warning{
			Severity: SeverityWarning,
			Message:  fmt.Sprintf("battery voltage at floor %.1f V", e.cfg.VoltageFloor),
		})
	}

	return out
}
