package arm

import (
	"fmt"
	"math"
)

// NumJoints is the number of revolute joints in the arm.
const NumJoints = 3

// Angles holds the three joint angles in degrees.
type Angles [NumJoints]float64

// Radians converts the angles to radians.
func (a Angles) Radians() [NumJoints]float64 {
	var r [NumJoints]float64
	for i, deg := range a {
		r[i] = deg * math.Pi / 180
	}
	return r
}

// Vec3 is a point in metres. The arm is planar, so Z is always zero.
type Vec3 struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
	Z float64 `json:"z" yaml:"z"`
}

func (v Vec3) IsFinite() bool {
	for _, c := range []float64{v.X, v.Y, v.Z} {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}

func (v Vec3) String() string {
	return fmt.Sprintf("(%.3f, %.3f, %.3f)", v.X, v.Y, v.Z)
}

type JointState struct {
	Angle    float64 `json:"angle"`    // deg
	Velocity float64 `json:"velocity"` // deg/s
	Torque   float64 `json:"torque"`   // N*m
	Power    float64 `json:"power"`    // W
}

// State is the estimator output for one sample. It is overwritten on every
// update; only BatteryCharge carries over from the previous state.
type State struct {
	Joints          [NumJoints]JointState `json:"joints"`
	EndEffector     Vec3                  `json:"end_effector"`
	TotalPower      float64               `json:"total_power"`
	BatteryVoltage  float64               `json:"battery_voltage"`
	BatteryCharge   float64               `json:"battery_charge"`
	PayloadCapacity float64               `json:"payload_capacity"`
	Reach           float64               `json:"reach"`
	Stability       float64               `json:"stability"`
}

// Angles returns the joint angles recorded in the state.
func (s State) Angles() Angles {
	var a Angles
	for i, j := range s.Joints {
		a[i] = j.Angle
	}
	return a
}

// Torques returns the per-joint torque requirements.
func (s State) Torques() [NumJoints]float64 {
	var t [NumJoints]float64
	for i, j := range s.Joints {
		t[i] = j.Torque
	}
	return t
}

// Limits bounds a joint's travel in degrees.
type Limits struct {
	Min float64 `yaml:"min" json:"min"`
	Max float64 `yaml:"max" json:"max"`
}

func (l Limits) Contains(deg float64) bool {
	return deg >= l.Min && deg <= l.Max
}

// Config describes the arm design and the constants of the estimator.
type Config struct {
	LinkLengths     [NumJoints]float64 `yaml:"link_lengths" json:"link_lengths"`
	LinkMasses      [NumJoints]float64 `yaml:"link_masses" json:"link_masses"`
	BaseHeight      float64            `yaml:"base_height" json:"base_height"`
	BatteryVoltage  float64            `yaml:"battery_voltage" json:"battery_voltage"`
	BatteryCapacity float64            `yaml:"battery_capacity" json:"battery_capacity"` // mAh
	VoltageFloor    float64            `yaml:"voltage_floor" json:"voltage_floor"`
	MotorTorque     float64            `yaml:"motor_torque" json:"motor_torque"` // N*m per motor
	PayloadMass     float64            `yaml:"payload_mass" json:"payload_mass"`
	Efficiency      float64            `yaml:"efficiency" json:"efficiency"`
	Gravity         float64            `yaml:"gravity" json:"gravity"`
	JointVelocities [NumJoints]float64 `yaml:"joint_velocities" json:"joint_velocities"` // deg/s
	JointLimits     [NumJoints]Limits  `yaml:"joint_limits" json:"joint_limits"`
}

const (
	DefaultLinkLength      = 0.6
	DefaultBaseHeight      = 0.3
	DefaultBatteryVoltage  = 20.0
	DefaultBatteryCapacity = 3000.0
	DefaultVoltageFloor    = 16.0
	DefaultMotorTorque     = 15.0
	DefaultPayloadMass     = 5.0
	DefaultEfficiency      = 0.85
	DefaultGravity         = 9.81
	DefaultJointVelocity   = 2.0
)

func DefaultConfig() Config {
	return Config{
		LinkLengths:     [NumJoints]float64{DefaultLinkLength, DefaultLinkLength, DefaultLinkLength},
		LinkMasses:      [NumJoints]float64{2.0, 1.5, 1.0},
		BaseHeight:      DefaultBaseHeight,
		BatteryVoltage:  DefaultBatteryVoltage,
		BatteryCapacity: DefaultBatteryCapacity,
		VoltageFloor:    DefaultVoltageFloor,
		MotorTorque:     DefaultMotorTorque,
		PayloadMass:     DefaultPayloadMass,
		Efficiency:      DefaultEfficiency,
		Gravity:         DefaultGravity,
		JointVelocities: [NumJoints]float64{DefaultJointVelocity, DefaultJointVelocity, DefaultJointVelocity},
		JointLimits: [NumJoints]Limits{
			{Min: -90, Max: 90},
			{Min: -90, Max: 90},
			{Min: -90, Max: 90},
		},
	}
}

// TotalLength is the reach of the fully extended arm.
func (c Config) TotalLength() float64 {
	return c.LinkLengths[0] + c.LinkLengths[1] + c.LinkLengths[2]
}

// fields lists every numeric parameter with a name for error messages.
func (c Config) fields() map[string]float64 {
	f := map[string]float64{
		"base height":      c.BaseHeight,
		"battery voltage":  c.BatteryVoltage,
		"battery capacity": c.BatteryCapacity,
		"voltage floor":    c.VoltageFloor,
		"motor torque":     c.MotorTorque,
		"payload mass":     c.PayloadMass,
		"efficiency":       c.Efficiency,
		"gravity":          c.Gravity,
	}
	for i := 0; i < NumJoints; i++ {
		f[fmt.Sprintf("link %d length", i+1)] = c.LinkLengths[i]
		f[fmt.Sprintf("link %d mass", i+1)] = c.LinkMasses[i]
		f[fmt.Sprintf("joint %d velocity", i+1)] = c.JointVelocities[i]
		f[fmt.Sprintf("joint %d min limit", i+1)] = c.JointLimits[i].Min
		f[fmt.Sprintf("joint %d max limit", i+1)] = c.JointLimits[i].Max
	}
	return f
}

// Validate rejects designs whose formulas would divide by zero, go
// negative or leave the finite range. Zero masses and a zero payload are
// allowed.
func (c Config) Validate() error {
	for name, v := range c.fields() {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: %s must be finite, got %g", ErrInvalidConfig, name, v)
		}
	}
	for i, l := range c.LinkLengths {
		if l <= 0 {
			return fmt.Errorf("%w: link %d length must be positive, got %g", ErrInvalidConfig, i+1, l)
		}
	}
	for i, m := range c.LinkMasses {
		if m < 0 {
			return fmt.Errorf("%w: link %d mass must not be negative, got %g", ErrInvalidConfig, i+1, m)
		}
	}
	for i, lim := range c.JointLimits {
		if lim.Min > lim.Max {
			return fmt.Errorf("%w: joint %d limits inverted (%g > %g)", ErrInvalidConfig, i+1, lim.Min, lim.Max)
		}
	}
	switch {
	case c.BaseHeight < 0:
		return fmt.Errorf("%w: base height must not be negative", ErrInvalidConfig)
	case c.BatteryVoltage <= 0:
		return fmt.Errorf("%w: battery voltage must be positive", ErrInvalidConfig)
	case c.BatteryCapacity <= 0:
		return fmt.Errorf("%w: battery capacity must be positive", ErrInvalidConfig)
	case c.VoltageFloor < 0 || c.VoltageFloor > c.BatteryVoltage:
		return fmt.Errorf("%w: voltage floor must be within [0, %g]", ErrInvalidConfig, c.BatteryVoltage)
	case c.MotorTorque <= 0:
		return fmt.Errorf("%w: motor torque must be positive", ErrInvalidConfig)
	case c.PayloadMass < 0:
		return fmt.Errorf("%w: payload mass must not be negative", ErrInvalidConfig)
	case c.Efficiency <= 0 || c.Efficiency > 1:
		return fmt.Errorf("%w: efficiency must be within (0, 1]", ErrInvalidConfig)
	case c.Gravity < 0:
		return fmt.Errorf("%w: gravity must not be negative", ErrInvalidConfig)
	}
	return nil
}
