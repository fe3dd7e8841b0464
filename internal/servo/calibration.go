package servo

import (
	"encoding/json"
	"fmt"
	"math"
	"os"

	"github.com/san-kum/armsim/internal/arm"
)

// Raw position span of a 12-bit STS servo.
const (
	DefaultRangeMin = 0
	DefaultRangeMax = 4095
)

// JointCalibration maps one joint's angle range onto the servo's raw
// position range.
type JointCalibration struct {
	ID       int     `json:"id"`
	RangeMin int     `json:"range_min"`
	RangeMax int     `json:"range_max"`
	MinAngle float64 `json:"min_angle"`
	MaxAngle float64 `json:"max_angle"`
}

// Raw converts an angle in degrees to a raw servo position, clamped to the
// calibrated range.
func (c JointCalibration) Raw(deg float64) int {
	span := c.MaxAngle - c.MinAngle
	if span == 0 {
		return c.RangeMin
	}
	frac := (deg - c.MinAngle) / span
	frac = math.Max(0, math.Min(1, frac))
	return c.RangeMin + int(math.Round(frac*float64(c.RangeMax-c.RangeMin)))
}

// Angle converts a raw servo position back to degrees.
func (c JointCalibration) Angle(raw int) float64 {
	rangeSize := float64(c.RangeMax - c.RangeMin)
	if rangeSize == 0 {
		return c.MinAngle
	}
	return c.MinAngle + float64(raw-c.RangeMin)/rangeSize*(c.MaxAngle-c.MinAngle)
}

type Calibration [arm.NumJoints]JointCalibration

// DefaultCalibration assigns servo IDs 1..3 and spreads each joint's limits
// over the full raw range.
func DefaultCalibration(limits [arm.NumJoints]arm.Limits) Calibration {
	var cal Calibration
	for i, lim := range limits {
		cal[i] = JointCalibration{
			ID:       i + 1,
			RangeMin: DefaultRangeMin,
			RangeMax: DefaultRangeMax,
			MinAngle: lim.Min,
			MaxAngle: lim.Max,
		}
	}
	return cal
}

// LoadCalibration loads calibration data from a JSON file.
func LoadCalibration(path string) (Calibration, error) {
	var cal Calibration
	data, err := os.ReadFile(path)
	if err != nil {
		return cal, fmt.Errorf("read calibration file: %w", err)
	}
	if err := json.Unmarshal(data, &cal); err != nil {
		return cal, fmt.Errorf("parse calibration JSON: %w", err)
	}
	return cal, nil
}

func (c Calibration) IDs() []int {
	ids := make([]int, len(c))
	for i, jc := range c {
		ids[i] = jc.ID
	}
	return ids
}

// Positions converts joint angles to a raw position per servo ID.
func (c Calibration) Positions(a arm.Angles) map[int]int {
	out := make(map[int]int, len(c))
	for i, jc := range c {
		out[jc.ID] = jc.Raw(a[i])
	}
	return out
}
