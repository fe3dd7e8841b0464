// Package analysis characterizes sampled series from arm runs.
//
//   - [PowerSpectrum]: magnitude spectrum of a real series
//   - [DominantFrequency]: strongest non-DC component in Hz
//   - [Summarize]: min, max, mean and RMS of a series
//
// A run's total power series typically peaks at twice the motion frequency,
// since the torque magnitude repeats every half cycle:
//
//	f := analysis.DominantFrequency(powers, interval)
package analysis
