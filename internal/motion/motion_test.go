package motion

import (
	"math"
	"testing"

	"github.com/san-kum/armsim/internal/arm"
)

func TestSineAtZero(t *testing.T) {
	s := DefaultSine()
	a := s.AnglesAt(0)

	for i := range a {
		want := s.Offset[i] + s.Amplitude[i]*math.Sin(s.Phase[i])
		if math.Abs(a[i]-want) > 1e-9 {
			t.Errorf("joint %d: expected %f, got %f", i+1, want, a[i])
		}
	}
}

func TestSinePeriodic(t *testing.T) {
	s := DefaultSine()
	p := s.Period()

	for _, tm := range []float64{0, 0.3, 1.7, 4.2} {
		a, b := s.AnglesAt(tm), s.AnglesAt(tm+p)
		for i := range a {
			if math.Abs(a[i]-b[i]) > 1e-9 {
				t.Errorf("t=%.1f joint %d: %f != %f one period later", tm, i+1, a[i], b[i])
			}
		}
	}
}

func TestSineStaysWithinDefaultLimits(t *testing.T) {
	s := DefaultSine()
	limits := arm.DefaultConfig().JointLimits

	for k := 0; k < 500; k++ {
		a := s.AnglesAt(float64(k) * 0.01)
		for i := range a {
			if !limits[i].Contains(a[i]) {
				t.Fatalf("joint %d angle %f outside default limits", i+1, a[i])
			}
		}
	}
}

func TestSineValidate(t *testing.T) {
	s := DefaultSine()
	if err := s.Validate(); err != nil {
		t.Fatalf("default sine invalid: %v", err)
	}

	s.Frequency = -1
	if err := s.Validate(); err == nil {
		t.Error("expected error for negative frequency")
	}

	s = DefaultSine()
	s.Amplitude[1] = -5
	if err := s.Validate(); err == nil {
		t.Error("expected error for negative amplitude")
	}

	s = DefaultSine()
	s.Offset[2] = math.NaN()
	if err := s.Validate(); err == nil {
		t.Error("expected error for nan offset")
	}

	s = DefaultSine()
	s.Phase[0] = math.Inf(1)
	if err := s.Validate(); err == nil {
		t.Error("expected error for infinite phase")
	}

	if !math.IsInf(Sine{}.Period(), 1) {
		t.Error("static wave should have infinite period")
	}
}

func TestHold(t *testing.T) {
	h := Hold{10, 20, 30}
	if got := h.AnglesAt(123); got != (arm.Angles{10, 20, 30}) {
		t.Errorf("hold moved: %v", got)
	}
}
