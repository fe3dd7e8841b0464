package storage

import (
	"encoding/json"
	"io"
	"math"

	"github.com/san-kum/armsim/internal/arm"
	"github.com/san-kum/armsim/internal/sim"
)

type ExportData struct {
	Run     RunMetadata    `json:"run"`
	Samples []ExportSample `json:"samples"`
}

type ExportSample struct {
	Time            float64                `json:"time"`
	Angles          [arm.NumJoints]float64 `json:"angles"`
	Torques         [arm.NumJoints]float64 `json:"torques"`
	Powers          [arm.NumJoints]float64 `json:"powers"`
	EndEffector     arm.Vec3               `json:"end_effector"`
	TotalPower      float64                `json:"total_power"`
	BatteryVoltage  float64                `json:"battery_voltage"`
	BatteryCharge   float64                `json:"battery_charge"`
	PayloadCapacity *float64               `json:"payload_capacity"` // null when unbounded
	Reach           float64                `json:"reach"`
	Stability       float64                `json:"stability"`
	Warnings        []string               `json:"warnings,omitempty"`
}

// ExportJSON writes the run and its samples as indented JSON. When est is
// non-nil each sample carries its diagnostic warnings.
func ExportJSON(w io.Writer, meta RunMetadata, samples []sim.Sample, est *arm.Estimator) error {
	data := ExportData{
		Run:     meta,
		Samples: make([]ExportSample, len(samples)),
	}

	for i, smp := range samples {
		st := smp.State
		out := ExportSample{
			Time:           smp.Time,
			EndEffector:    st.EndEffector,
			TotalPower:     st.TotalPower,
			BatteryVoltage: st.BatteryVoltage,
			BatteryCharge:  st.BatteryCharge,
			Reach:          st.Reach,
			Stability:      st.Stability,
		}
		for j, js := range st.Joints {
			out.Angles[j] = js.Angle
			out.Torques[j] = js.Torque
			out.Powers[j] = js.Power
		}
		if !math.IsInf(st.PayloadCapacity, 0) && !math.IsNaN(st.PayloadCapacity) {
			c := st.PayloadCapacity
			out.PayloadCapacity = &c
		}
		if est != nil {
			for _, warn := range est.Diagnose(st) {
				out.Warnings = append(out.Warnings, warn.String())
			}
		}
		data.Samples[i] = out
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}
