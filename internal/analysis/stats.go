package analysis

import "math"

type Summary struct {
	Min  float64
	Max  float64
	Mean float64
	RMS  float64
}

func Summarize(data []float64) Summary {
	if len(data) == 0 {
		return Summary{}
	}
	s := Summary{Min: math.Inf(1), Max: math.Inf(-1)}
	sq := 0.0
	for _, v := range data {
		s.Min = math.Min(s.Min, v)
		s.Max = math.Max(s.Max, v)
		s.Mean += v
		sq += v * v
	}
	n := float64(len(data))
	s.Mean /= n
	s.RMS = math.Sqrt(sq / n)
	return s
}
