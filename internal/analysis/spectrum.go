package analysis

import (
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"

	"github.com/san-kum/driftguide/internal/guide"
)

type Spectrum struct {
	Freqs []float64 // Hz
	Power []float64
}

// Detrend removes the best fit line from series sampled every interval
// seconds.
func Detrend(series []float64, interval float64) []float64 {
	ts := make([]float64, len(series))
	for i := range ts {
		ts[i] = float64(i) * interval
	}
	line, err := guide.FitLine(ts, series, guide.Ridge)
	out := make([]float64, len(series))
	for i, v := range series {
		if err != nil {
			out[i] = v
			continue
		}
		out[i] = v - line.At(ts[i])
	}
	return out
}

// PowerSpectrum returns the one-sided amplitude spectrum of the detrended
// series, from DC up to the Nyquist frequency.
func PowerSpectrum(series []float64, interval float64) Spectrum {
	n := len(series)
	if n < 2 || interval <= 0 {
		return Spectrum{}
	}

	coeffs := fft.FFTReal(Detrend(series, interval))

	half := n/2 + 1
	spec := Spectrum{
		Freqs: make([]float64, half),
		Power: make([]float64, half),
	}
	for k := 0; k < half; k++ {
		spec.Freqs[k] = float64(k) / (float64(n) * interval)
		spec.Power[k] = cmplx.Abs(coeffs[k]) / float64(n)
	}
	return spec
}

// DominantPeriod returns the period in seconds of the strongest non-DC
// component.
func DominantPeriod(series []float64, interval float64) (period, power float64, ok bool) {
	spec := PowerSpectrum(series, interval)
	best := 0
	for k := 1; k < len(spec.Power); k++ {
		if spec.Power[k] > power {
			power = spec.Power[k]
			best = k
		}
	}
	if best == 0 {
		return 0, 0, false
	}
	return 1 / spec.Freqs[best], power, true
}
