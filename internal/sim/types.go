// Package sim drives the arm estimator at a fixed sample interval.
//
// [Driver.Run] evaluates a trajectory on a simulated clock and collects the
// samples; [Live] does the same against the wall clock and streams samples
// to a consumer such as the terminal view.
package sim

import (
	"errors"
	"fmt"
	"math"

	"github.com/san-kum/armsim/internal/arm"
)

var (
	ErrInvalidConfig = errors.New("sim: invalid run configuration")
	ErrNonFinite     = errors.New("sim: non-finite end effector position")
	ErrAlreadyLive   = errors.New("sim: live loop already running")
)

// Sample is one evaluation of the estimator.
type Sample struct {
	Index int       `json:"index"`
	Time  float64   `json:"time"`
	State arm.State `json:"state"`
}

type Metric interface {
	Name() string
	Observe(s Sample)
	Value() float64
	Reset()
}

type Observer interface {
	OnSample(s Sample)
}

// Config controls an offline run. Times are in seconds.
type Config struct {
	Interval float64 `yaml:"interval" json:"interval"`
	Duration float64 `yaml:"duration" json:"duration"`
}

func DefaultConfig() Config {
	return Config{
		Interval: 0.1,
		Duration: 10.0,
	}
}

// MaxSamples bounds the length of a single run.
const MaxSamples = 1_000_000

func (c Config) Validate() error {
	if !(c.Interval > 0) || math.IsInf(c.Interval, 0) {
		return fmt.Errorf("%w: interval must be positive and finite, got %f", ErrInvalidConfig, c.Interval)
	}
	if !(c.Duration > 0) || math.IsInf(c.Duration, 0) {
		return fmt.Errorf("%w: duration must be positive and finite, got %f", ErrInvalidConfig, c.Duration)
	}
	if n := c.Duration / c.Interval; n+1 > MaxSamples {
		return fmt.Errorf("%w: %.0f samples exceeds the limit of %d", ErrInvalidConfig, n+1, MaxSamples)
	}
	return nil
}

// Steps is the number of intervals in the run; the run holds Steps+1 samples.
func (c Config) Steps() int {
	return int(c.Duration/c.Interval + 1e-9)
}

type Result struct {
	Samples []Sample           `json:"samples"`
	Metrics map[string]float64 `json:"metrics"`
}

// Series extracts one value per sample.
func (r *Result) Series(fn func(Sample) float64) []float64 {
	out := make([]float64, len(r.Samples))
	for i, s := range r.Samples {
		out[i] = fn(s)
	}
	return out
}

// Final returns the last sample, or false for an empty result.
func (r *Result) Final() (Sample, bool) {
	if len(r.Samples) == 0 {
		return Sample{}, false
	}
	return r.Samples[len(r.Samples)-1], true
}

// SampleError wraps an error with the sample it occurred at.
type SampleError struct {
	Index   int
	Time    float64
	Wrapped error
}

func (e *SampleError) Error() string {
	return fmt.Sprintf("sample %d (t=%.4f): %v", e.Index, e.Time, e.Wrapped)
}

func (e *SampleError) Unwrap() error {
	return e.Wrapped
}
