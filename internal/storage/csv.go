package storage

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/san-kum/armsim/internal/arm"
	"github.com/san-kum/armsim/internal/sim"
)

var csvHeader = []string{
	"time",
	"a1", "a2", "a3",
	"tau1", "tau2", "tau3",
	"p1", "p2", "p3",
	"x", "y",
	"power", "voltage", "charge", "capacity", "reach", "stability",
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}

// WriteCSV writes one row per sample. An unbounded payload capacity is
// written as +Inf.
func WriteCSV(w io.Writer, samples []sim.Sample) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}

	row := make([]string, len(csvHeader))
	for _, smp := range samples {
		st := smp.State
		row = row[:0]
		row = append(row, formatFloat(smp.Time))
		for _, j := range st.Joints {
			row = append(row, formatFloat(j.Angle))
		}
		for _, j := range st.Joints {
			row = append(row, formatFloat(j.Torque))
		}
		for _, j := range st.Joints {
			row = append(row, formatFloat(j.Power))
		}
		capacity := formatFloat(st.PayloadCapacity)
		if math.IsInf(st.PayloadCapacity, 1) {
			capacity = "+Inf"
		}
		row = append(row,
			formatFloat(st.EndEffector.X),
			formatFloat(st.EndEffector.Y),
			formatFloat(st.TotalPower),
			formatFloat(st.BatteryVoltage),
			formatFloat(st.BatteryCharge),
			capacity,
			formatFloat(st.Reach),
			formatFloat(st.Stability),
		)
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

func ReadCSV(r io.Reader) ([]sim.Sample, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(csvHeader)

	records, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return []sim.Sample{}, nil
	}

	samples := make([]sim.Sample, 0, len(records)-1)
	for i := 1; i < len(records); i++ {
		vals := make([]float64, len(csvHeader))
		for j, field := range records[i] {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("row %d column %s: %w", i, csvHeader[j], err)
			}
			vals[j] = v
		}

		var st arm.State
		for j := range st.Joints {
			st.Joints[j] = arm.JointState{
				Angle:  vals[1+j],
				Torque: vals[4+j],
				Power:  vals[7+j],
			}
		}
		st.EndEffector = arm.Vec3{X: vals[10], Y: vals[11]}
		st.TotalPower = vals[12]
		st.BatteryVoltage = vals[13]
		st.BatteryCharge = vals[14]
		st.PayloadCapacity = vals[15]
		st.Reach = vals[16]
		st.Stability = vals[17]

		samples = append(samples, sim.Sample{Index: i - 1, Time: vals[0], State: st})
	}
	return samples, nil
}
