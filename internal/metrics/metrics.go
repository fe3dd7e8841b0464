// Package metrics aggregates per-run figures from estimator samples.
package metrics

import (
	"github.com/san-kum/armsim/internal/arm"
	"github.com/san-kum/armsim/internal/sim"
)

// Defaults returns the standard metric set for an arm design.
func Defaults(cfg arm.Config) []sim.Metric {
	ms := []sim.Metric{
		NewMeanPower(),
		NewEnergy(),
		NewMinStability(),
		NewMinPayload(),
		NewFinalCharge(),
		NewOverload(cfg.MotorTorque),
	}
	for j := 0; j < arm.NumJoints; j++ {
		ms = append(ms, NewPeakTorque(j))
	}
	return ms
}
