package arm

import (
	"fmt"
	"math"
	"sort"
)

const (
	// voltageSag scales the discharge rate into a voltage drop.
	voltageSag = 0.1
	// chargeDrain scales the discharge rate into percent of charge lost per update.
	chargeDrain = 0.01
	// unloadedTorque is the torque below which a joint does not limit payload.
	unloadedTorque = 1e-9

	fullCharge = 100.0
)

type Estimator struct {
	cfg   Config
	state State
}

func New(cfg Config) (*Estimator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	e := &Estimator{cfg: cfg}
	e.Reset()
	return e, nil
}

func (e *Estimator) Config() Config { return e.cfg }
func (e *Estimator) State() State   { return e.state }

// ForwardKinematics returns the end-effector position for the given angles.
func (e *Estimator) ForwardKinematics(a Angles) Vec3 {
	pts := e.JointPositions(a)
	return pts[len(pts)-1]
}

// JointPositions returns the shoulder, elbow, wrist and end-effector points.
// The shoulder sits on top of the base at (0, BaseHeight).
func (e *Estimator) JointPositions(a Angles) [NumJoints + 1]Vec3 {
	r := a.Radians()
	var pts [NumJoints + 1]Vec3
	pts[0] = Vec3{Y: e.cfg.BaseHeight}

	cum := 0.0
	for i := 0; i < NumJoints; i++ {
		cum += r[i]
		pts[i+1] = Vec3{
			X: pts[i].X + e.cfg.LinkLengths[i]*math.Cos(cum),
			Y: pts[i].Y + e.cfg.LinkLengths[i]*math.Sin(cum),
		}
	}
	return pts
}

// TorqueRequirements returns the static gravity torque magnitude at each
// joint. Every joint carries half its own link plus the full mass of the
// links and payload beyond it, all at the joint's own link length.
func (e *Estimator) TorqueRequirements(a Angles) [NumJoints]float64 {
	r := a.Radians()
	l, m := e.cfg.LinkLengths, e.cfg.LinkMasses
	mp, g := e.cfg.PayloadMass, e.cfg.Gravity

	var tau [NumJoints]float64
	cum := 0.0
	for i := 0; i < NumJoints; i++ {
		cum += r[i]
		moment := m[i] * l[i] / 2
		for j := i + 1; j < NumJoints; j++ {
			moment += m[j] * l[i]
		}
		moment += mp * l[i]
		tau[i] = math.Abs(moment * g * math.Cos(cum))
	}
	return tau
}

// PowerConsumption returns electrical power per joint: |tau * omega| / efficiency,
// with omega given in deg/s.
func (e *Estimator) PowerConsumption(torques, velocities [NumJoints]float64) [NumJoints]float64 {
	var p [NumJoints]float64
	for i := range torques {
		p[i] = math.Abs(torques[i]*velocities[i]*math.Pi/180) / e.cfg.Efficiency
	}
	return p
}

// Update evaluates the full pipeline for the target angles and stores the
// resulting state. Battery charge drains from the previous state's value.
func (e *Estimator) Update(a Angles) State {
	torques := e.TorqueRequirements(a)
	ee := e.ForwardKinematics(a)
	velocities := e.cfg.JointVelocities
	powers := e.PowerConsumption(torques, velocities)

	total := 0.0
	for _, p := range powers {
		total += p
	}

	current := total / e.cfg.BatteryVoltage
	rate := current / (e.cfg.BatteryCapacity / 1000)

	next := State{
		EndEffector:     ee,
		TotalPower:      total,
		BatteryVoltage:  math.Max(e.cfg.VoltageFloor, e.cfg.BatteryVoltage-rate*voltageSag),
		BatteryCharge:   math.Max(0, e.state.BatteryCharge-rate*chargeDrain),
		PayloadCapacity: e.payloadCapacity(torques),
		Reach:           math.Hypot(ee.X, ee.Y),
		Stability:       math.Max(0, 100-(total/100)*10),
	}
	for i := range next.Joints {
		next.Joints[i] = JointState{
			Angle:    a[i],
			Velocity: velocities[i],
			Torque:   torques[i],
			Power:    powers[i],
		}
	}

	e.state = next
	return next
}

func (e *Estimator) payloadCapacity(torques [NumJoints]float64) float64 {
	ratio := math.Inf(1)
	for _, t := range torques {
		if t < unloadedTorque {
			continue
		}
		ratio = math.Min(ratio, e.cfg.MotorTorque/t)
	}
	if math.IsInf(ratio, 1) {
		return ratio
	}
	return ratio * e.cfg.PayloadMass
}

// Reset returns the arm to the fully extended rest pose with a full battery.
func (e *Estimator) Reset() State {
	total := e.cfg.TotalLength()
	e.state = State{
		EndEffector:     Vec3{X: total, Y: e.cfg.BaseHeight},
		BatteryVoltage:  e.cfg.BatteryVoltage,
		BatteryCharge:   fullCharge,
		PayloadCapacity: e.cfg.PayloadMass,
		Reach:           total,
		Stability:       100,
	}
	return e.state
}

// BatteryLifeHours estimates runtime at the state's power draw.
func (e *Estimator) BatteryLifeHours(s State) float64 {
	if s.TotalPower <= 0 {
		return math.Inf(1)
	}
	wh := e.cfg.BatteryVoltage * e.cfg.BatteryCapacity / 1000
	return wh / s.TotalPower
}

// SafeTorqueMargin is the smallest torque margin, in percent of the motor
// rating, that leaves headroom for control.
const SafeTorqueMargin = 20.0

// TorqueMargins returns each joint's unused torque as a percentage of the
// motor rating. An overloaded joint has a negative margin.
func (e *Estimator) TorqueMargins(s State) [NumJoints]float64 {
	var m [NumJoints]float64
	for i, j := range s.Joints {
		m[i] = (e.cfg.MotorTorque - j.Torque) / e.cfg.MotorTorque * 100
	}
	return m
}

// CurrentDraw is the battery current in amperes.
func CurrentDraw(s State) float64 {
	if s.BatteryVoltage <= 0 {
		return 0
	}
	return s.TotalPower / s.BatteryVoltage
}

var paramNames = map[string]func(c *Config) *float64{
	"link1_length":     func(c *Config) *float64 { return &c.LinkLengths[0] },
	"link2_length":     func(c *Config) *float64 { return &c.LinkLengths[1] },
	"link3_length":     func(c *Config) *float64 { return &c.LinkLengths[2] },
	"link1_mass":       func(c *Config) *float64 { return &c.LinkMasses[0] },
	"link2_mass":       func(c *Config) *float64 { return &c.LinkMasses[1] },
	"link3_mass":       func(c *Config) *float64 { return &c.LinkMasses[2] },
	"base_height":      func(c *Config) *float64 { return &c.BaseHeight },
	"battery_voltage":  func(c *Config) *float64 { return &c.BatteryVoltage },
	"battery_capacity": func(c *Config) *float64 { return &c.BatteryCapacity },
	"motor_torque":     func(c *Config) *float64 { return &c.MotorTorque },
	"payload_mass":     func(c *Config) *float64 { return &c.PayloadMass },
	"efficiency":       func(c *Config) *float64 { return &c.Efficiency },
	"gravity":          func(c *Config) *float64 { return &c.Gravity },
}

// ParamNames lists the tunable parameters in sorted order.
func ParamNames() []string {
	names := make([]string, 0, len(paramNames))
	for name := range paramNames {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (e *Estimator) GetParams() map[string]float64 {
	params := make(map[string]float64, len(paramNames))
	for name, field := range paramNames {
		params[name] = *field(&e.cfg)
	}
	return params
}

// SetParam changes one design parameter. The change is rejected if it would
// make the configuration invalid; the current state is left untouched.
func (e *Estimator) SetParam(name string, value float64) error {
	field, ok := paramNames[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownParam, name)
	}
	next := e.cfg
	*field(&next) = value
	if err := next.Validate(); err != nil {
		return err
	}
	e.cfg = next
	return nil
}
