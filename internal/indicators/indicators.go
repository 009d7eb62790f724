// Package indicators computes rolling technical indicators over a
// closing-price series. Output slices are aligned with the input;
// positions where the indicator is undefined hold math.NaN().
package indicators

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidInput reports a series with no closing prices.
var ErrInvalidInput = errors.New("indicators: series has no closing prices")

// SMA returns the simple moving average of closes. out[i] is the mean
// of closes[i-window+1..i]; positions before window-1, and positions
// whose window contains a missing (NaN) close, are NaN. The average
// becomes defined again once the missing close leaves the window.
func SMA(closes []float64, window int) ([]float64, error) {
	if len(closes) == 0 {
		return nil, ErrInvalidInput
	}
	if window < 1 {
		return nil, fmt.Errorf("indicators: window must be positive, got %d", window)
	}

	out := make([]float64, len(closes))
	var sum float64
	var valid int
	for i, c := range closes {
		if !math.IsNaN(c) {
			sum += c
			valid++
		}
		if i >= window {
			if old := closes[i-window]; !math.IsNaN(old) {
				sum -= old
				valid--
			}
		}
		if valid == window {
			out[i] = sum / float64(window)
		} else {
			out[i] = math.NaN()
		}
	}
	return out, nil
}

// RSI returns the relative strength index over closes. Gains and
// losses are smoothed with an adjusted exponential weighting using
// center-of-mass window-1. The undefined first delta counts as a zero
// gain and loss, as does any delta touching a missing (NaN) close, so
// values appear from index window-1 onward. A period with zero average
// loss but positive average gain scores exactly 100.
func RSI(closes []float64, window int) ([]float64, error) {
	if len(closes) == 0 {
		return nil, ErrInvalidInput
	}
	if window < 1 {
		return nil, fmt.Errorf("indicators: window must be positive, got %d", window)
	}

	out := make([]float64, len(closes))
	for i := range out {
		out[i] = math.NaN()
	}

	decay := 1 - 1/float64(window)
	// The zero observation at index 0 stands in for the first delta.
	gainNum, lossNum, denom := 0.0, 0.0, 1.0

	for i := 1; i < len(closes); i++ {
		delta := closes[i] - closes[i-1]
		gain, loss := math.Max(delta, 0), math.Max(-delta, 0)
		if math.IsNaN(delta) {
			gain, loss = 0, 0
		}
		gainNum = gain + decay*gainNum
		lossNum = loss + decay*lossNum
		denom = 1 + decay*denom

		if i < window-1 {
			continue
		}

		avgGain := gainNum / denom
		avgLoss := lossNum / denom
		switch {
		case avgLoss == 0 && avgGain == 0:
			// flat series, RSI undefined
		case avgLoss == 0:
			out[i] = 100
		default:
			rs := avgGain / avgLoss
			out[i] = 100 - 100/(1+rs)
		}
	}
	return out, nil
}
