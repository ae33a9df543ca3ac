// Package analysis summarises the coordinate series in the frequency domain.
package analysis

import (
	"errors"
	"math/cmplx"

	"github.com/san-kum/springpend/internal/series"
	"gonum.org/v1/gonum/dsp/fourier"
	"gonum.org/v1/gonum/stat"
)

// ErrTooShort indicates a series with too few samples for a spectrum.
var ErrTooShort = errors.New("analysis: need at least 4 samples")

// PowerSpectrum returns |X_k| for k = 0..n/2 of the mean-removed signal.
func PowerSpectrum(data []float64) []float64 {
	mean := stat.Mean(data, nil)
	centred := make([]float64, len(data))
	for i, v := range data {
		centred[i] = v - mean
	}
	coeff := fourier.NewFFT(len(data)).Coefficients(nil, centred)
	ps := make([]float64, len(coeff))
	for i, c := range coeff {
		ps[i] = cmplx.Abs(c)
	}
	return ps
}

// Peak is the strongest non-DC component of a signal.
type Peak struct {
	Name      string
	Frequency float64 // cycles per unit of t
	Amplitude float64
}

func (p Peak) Period() float64 {
	if p.Frequency == 0 {
		return 0
	}
	return 1 / p.Frequency
}

// DominantFrequency assumes uniform sampling at the mean step of times.
func DominantFrequency(data, times []float64) (float64, float64, error) {
	n := len(data)
	if n < 4 || len(times) != n {
		return 0, 0, ErrTooShort
	}
	dt := (times[n-1] - times[0]) / float64(n-1)
	ps := PowerSpectrum(data)

	best := 0
	for k := 1; k < len(ps); k++ {
		if ps[k] > ps[best] || best == 0 {
			best = k
		}
	}
	amp := ps[best] * 2 / float64(n)
	return float64(best) / (float64(n) * dt), amp, nil
}

// Peaks reports the dominant frequency of each generalized coordinate.
func Peaks(s *series.Series) ([]Peak, error) {
	times := s.Times()
	cols := []struct {
		name string
		fn   func(series.Sample) float64
	}{
		{"theta1", func(x series.Sample) float64 { return x.Theta1 }},
		{"theta2", func(x series.Sample) float64 { return x.Theta2 }},
		{"ext1", func(x series.Sample) float64 { return x.Ext1 }},
		{"ext2", func(x series.Sample) float64 { return x.Ext2 }},
	}
	peaks := make([]Peak, 0, len(cols))
	for _, c := range cols {
		f, a, err := DominantFrequency(s.Column(c.fn), times)
		if err != nil {
			return nil, err
		}
		peaks = append(peaks, Peak{Name: c.name, Frequency: f, Amplitude: a})
	}
	return peaks, nil
}
