package series

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// Columns is the number of leading columns every row must carry.
const Columns = 5

// Sample is one row of generalized coordinates.
type Sample struct {
	T      float64
	Theta1 float64
	Theta2 float64
	Ext2   float64
	Ext1   float64
}

func (x Sample) finite() bool {
	for _, v := range [...]float64{x.T, x.Theta1, x.Theta2, x.Ext2, x.Ext1} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// Series is an immutable, strictly time-ordered list of samples.
type Series struct {
	samples []Sample
	maxExt2 float64
}

// New builds a Series from samples, validating time order. The slice is copied.
func New(samples []Sample) (*Series, error) {
	if len(samples) == 0 {
		return nil, ErrEmptySeries
	}
	for i, x := range samples {
		if !x.finite() {
			return nil, &SampleError{Line: i + 1, Reason: "not finite", Wrapped: ErrMalformedSample}
		}
		if i > 0 && x.T <= samples[i-1].T {
			return nil, &SampleError{Line: i + 1, Reason: "time not strictly increasing", Wrapped: ErrMalformedSample}
		}
	}
	s := &Series{samples: make([]Sample, len(samples))}
	copy(s.samples, samples)
	s.maxExt2 = floats.Max(s.Column(func(x Sample) float64 { return x.Ext2 }))
	return s, nil
}

// Len returns the number of samples, which is also the frame count.
func (s *Series) Len() int { return len(s.samples) }

// Valid reports whether n is a usable sample index.
func (s *Series) Valid(n int) bool { return n >= 0 && n < len(s.samples) }

// At returns sample n. Callers are expected to check Valid first.
func (s *Series) At(n int) Sample { return s.samples[n] }

// MaxExt2 is the largest torsion-spring extension over the whole series.
func (s *Series) MaxExt2() float64 { return s.maxExt2 }

// Duration is the time spanned by the series.
func (s *Series) Duration() float64 {
	return s.samples[len(s.samples)-1].T - s.samples[0].T
}

// Times returns a copy of the time column.
func (s *Series) Times() []float64 {
	return s.Column(func(x Sample) float64 { return x.T })
}

// Column extracts one derived value per sample.
func (s *Series) Column(fn func(Sample) float64) []float64 {
	out := make([]float64, len(s.samples))
	for i, x := range s.samples {
		out[i] = fn(x)
	}
	return out
}

// IndexForFrame maps a 1-based host frame to a 0-based sample index.
func IndexForFrame(frame int) int { return frame - 1 }

// FrameForIndex maps a 0-based sample index to a 1-based host frame.
func FrameForIndex(n int) int { return n + 1 }
