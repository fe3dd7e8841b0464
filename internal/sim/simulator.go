package sim

import (
	"context"

	"github.com/san-kum/armsim/internal/arm"
	"github.com/san-kum/armsim/internal/motion"
)

type Driver struct {
	est       *arm.Estimator
	traj      motion.Trajectory
	metrics   []Metric
	observers []Observer
}

func New(est *arm.Estimator, traj motion.Trajectory) *Driver {
	return &Driver{
		est:       est,
		traj:      traj,
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
	}
}

func (d *Driver) AddMetric(m Metric)     { d.metrics = append(d.metrics, m) }
func (d *Driver) AddObserver(o Observer) { d.observers = append(d.observers, o) }

func (d *Driver) Estimator() *arm.Estimator     { return d.est }
func (d *Driver) Trajectory() motion.Trajectory { return d.traj }

// Run samples the trajectory at t = k*Interval for k = 0..Steps. The
// estimator is reset first so every run starts on a full battery.
func (d *Driver) Run(ctx context.Context, cfg Config) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	steps := cfg.Steps()
	result := &Result{
		Samples: make([]Sample, 0, steps+1),
		Metrics: make(map[string]float64),
	}

	for _, m := range d.metrics {
		m.Reset()
	}
	d.est.Reset()

	for k := 0; k <= steps; k++ {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		t := float64(k) * cfg.Interval
		s, err := d.step(k, t)
		if err != nil {
			return result, err
		}
		result.Samples = append(result.Samples, s)
	}

	for _, m := range d.metrics {
		result.Metrics[m.Name()] = m.Value()
	}

	return result, nil
}

// RunWithCallback runs like Run without keeping samples; the callback may
// stop the run early by returning false.
func (d *Driver) RunWithCallback(ctx context.Context, cfg Config, callback func(Sample) bool) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	d.est.Reset()

	steps := cfg.Steps()
	for k := 0; k <= steps; k++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		s, err := d.step(k, float64(k)*cfg.Interval)
		if err != nil {
			return err
		}
		if !callback(s) {
			return nil
		}
	}
	return nil
}

func (d *Driver) step(k int, t float64) (Sample, error) {
	st := d.est.Update(d.traj.AnglesAt(t))
	s := Sample{Index: k, Time: t, State: st}
	if !st.EndEffector.IsFinite() {
		return s, &SampleError{Index: k, Time: t, Wrapped: ErrNonFinite}
	}

	for _, m := range d.metrics {
		m.Observe(s)
	}
	for _, o := range d.observers {
		o.OnSample(s)
	}
	return s, nil
}
