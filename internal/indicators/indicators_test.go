package indicators

import (
	"errors"
	"math"
	"testing"
)

func TestSMA_DefinedFromWindow(t *testing.T) {
	closes := []float64{1, 2, 3, 4, 5, 6}
	window := 3

	sma, err := SMA(closes, window)
	if err != nil {
		t.Fatalf("SMA: %v", err)
	}
	if len(sma) != len(closes) {
		t.Fatalf("length mismatch: got %d, want %d", len(sma), len(closes))
	}

	for i := range sma {
		if i < window-1 {
			if !math.IsNaN(sma[i]) {
				t.Fatalf("sma[%d] should be NaN, got %f", i, sma[i])
			}
			continue
		}
		var sum float64
		for j := i - window + 1; j <= i; j++ {
			sum += closes[j]
		}
		want := sum / float64(window)
		if math.Abs(sma[i]-want) > 1e-9 {
			t.Fatalf("sma[%d] = %f, want %f", i, sma[i], want)
		}
	}
}

func TestSMA_EmptySeries(t *testing.T) {
	if _, err := SMA(nil, 3); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestRSI_Bounds(t *testing.T) {
	closes := []float64{44, 44.3, 44.1, 43.6, 44.3, 44.8, 45.1, 45.4, 45.8, 46.0,
		45.9, 46.3, 46.2, 46.0, 46.1, 46.5, 46.2, 46.6, 46.8, 47.1}

	rsi, err := RSI(closes, 14)
	if err != nil {
		t.Fatalf("RSI: %v", err)
	}
	for i, v := range rsi {
		if i < 13 {
			if !math.IsNaN(v) {
				t.Fatalf("rsi[%d] should be NaN before index %d, got %f", i, 13, v)
			}
			continue
		}
		if math.IsNaN(v) {
			t.Fatalf("rsi[%d] unexpectedly NaN", i)
		}
		if v < 0 || v > 100 {
			t.Fatalf("rsi[%d] = %f out of [0,100]", i, v)
		}
	}
}

func TestRSI_SaturatesAt100(t *testing.T) {
	// Strictly rising series: average loss is zero everywhere.
	closes := make([]float64, 10)
	for i := range closes {
		closes[i] = 100 + float64(i)
	}

	rsi, err := RSI(closes, 5)
	if err != nil {
		t.Fatalf("RSI: %v", err)
	}
	for i := 4; i < len(rsi); i++ {
		if rsi[i] != 100 {
			t.Fatalf("rsi[%d] = %f, want exactly 100", i, rsi[i])
		}
	}
}

func TestRSI_FirstValueAtWindowMinusOne(t *testing.T) {
	rsi, err := RSI([]float64{1, 2, 3}, 2)
	if err != nil {
		t.Fatalf("RSI: %v", err)
	}
	if !math.IsNaN(rsi[0]) {
		t.Fatalf("rsi[0] = %f, want NaN", rsi[0])
	}
	// One observed delta plus the zero stand-in for the first one is
	// enough for a window of two.
	if rsi[1] != 100 {
		t.Fatalf("rsi[1] = %f, want 100", rsi[1])
	}
	if rsi[2] != 100 {
		t.Fatalf("rsi[2] = %f, want 100", rsi[2])
	}
}

func TestIndicators_RecoverAfterMissingClose(t *testing.T) {
	nan := math.NaN()
	closes := []float64{10, 11, 12, 13, nan, 14, 15, 16, 17, 18}
	window := 3

	sma, err := SMA(closes, window)
	if err != nil {
		t.Fatalf("SMA: %v", err)
	}
	if math.Abs(sma[3]-12) > 1e-9 {
		t.Fatalf("sma[3] = %f, want 12 before the gap", sma[3])
	}
	for i := 4; i <= 6; i++ {
		if !math.IsNaN(sma[i]) {
			t.Fatalf("sma[%d] = %f, want NaN while the gap is inside the window", i, sma[i])
		}
	}
	if math.Abs(sma[7]-15) > 1e-9 {
		t.Fatalf("sma[7] = %f, want 15 once the gap leaves the window", sma[7])
	}

	rsi, err := RSI(closes, window)
	if err != nil {
		t.Fatalf("RSI: %v", err)
	}
	// Deltas touching the gap count as zero gain and loss; the rising
	// series has no losses so every defined value saturates.
	for i := window - 1; i < len(rsi); i++ {
		if rsi[i] != 100 {
			t.Fatalf("rsi[%d] = %f, want 100 across the gap", i, rsi[i])
		}
	}
}

func TestRSI_FlatSeriesUndefined(t *testing.T) {
	closes := []float64{50, 50, 50, 50, 50, 50, 50, 50}

	rsi, err := RSI(closes, 3)
	if err != nil {
		t.Fatalf("RSI: %v", err)
	}
	for i, v := range rsi {
		if !math.IsNaN(v) {
			t.Fatalf("rsi[%d] = %f, flat series should stay NaN", i, v)
		}
	}
}

func TestRSI_EmptySeries(t *testing.T) {
	if _, err := RSI(nil, 14); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}
