package analysis

import (
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
)

// PowerSpectrum returns the magnitude of the first n/2 frequency bins of
// data with its mean removed. Bin k corresponds to k/(n*dt) Hz.
func PowerSpectrum(data []float64) []float64 {
	n := len(data)
	if n < 2 {
		return []float64{}
	}

	mean := 0.0
	for _, v := range data {
		mean += v
	}
	mean /= float64(n)

	centered := make([]float64, n)
	for i, v := range data {
		centered[i] = v - mean
	}

	spectrum := fft.FFTReal(centered)
	ps := make([]float64, n/2)
	for i := range ps {
		ps[i] = cmplx.Abs(spectrum[i])
	}
	return ps
}

// DominantFrequency returns the frequency in Hz of the strongest bin of a
// series sampled every dt seconds, or 0 when the series is flat or too short.
func DominantFrequency(data []float64, dt float64) float64 {
	ps := PowerSpectrum(data)
	if len(ps) < 2 || dt <= 0 {
		return 0
	}

	best, peak := 0, 1e-12
	for k := 1; k < len(ps); k++ {
		if ps[k] > peak {
			best, peak = k, ps[k]
		}
	}
	return float64(best) / (float64(len(data)) * dt)
}

// Frequencies returns the bin centres in Hz matching PowerSpectrum(data).
func Frequencies(n int, dt float64) []float64 {
	if n < 2 || dt <= 0 {
		return []float64{}
	}
	out := make([]float64, n/2)
	for k := range out {
		out[k] = float64(k) / (float64(n) * dt)
	}
	return out
}
