package sentiment

import (
	"math"
	"testing"
)

func TestAnalyze_BlankTextIsNeutral(t *testing.T) {
	a := NewAnalyzer()

	for _, text := range []string{"", "   ", "\n\t"} {
		label, score := a.Analyze(text)
		if label != LabelNeutral {
			t.Fatalf("Analyze(%q) label = %s, want neutral", text, label)
		}
		if score != 0 {
			t.Fatalf("Analyze(%q) score = %f, want 0", text, score)
		}
	}
}

func TestAnalyze_PositiveText(t *testing.T) {
	a := NewAnalyzer()

	label, score := a.Analyze("The company reported excellent results, an amazing and wonderful quarter with great profits.")
	if label != LabelPositive {
		t.Fatalf("label = %s, want positive (score %f)", label, score)
	}
	if score <= labelThreshold {
		t.Fatalf("score = %f, want > %f", score, labelThreshold)
	}
	if score > 1 {
		t.Fatalf("score = %f out of [-1,1]", score)
	}
}

func TestAnalyze_NegativeText(t *testing.T) {
	a := NewAnalyzer()

	label, score := a.Analyze("A terrible, horrible disaster: the worst losses in history and awful failures everywhere.")
	if label != LabelNegative {
		t.Fatalf("label = %s, want negative (score %f)", label, score)
	}
	if score >= -labelThreshold {
		t.Fatalf("score = %f, want < %f", score, -labelThreshold)
	}
	if score < -1 {
		t.Fatalf("score = %f out of [-1,1]", score)
	}
}

func TestAnalyze_RoundsToThreeDecimals(t *testing.T) {
	a := NewAnalyzer()

	_, score := a.Analyze("Shares climbed after a strong earnings beat.")
	scaled := score * 1000
	if math.Abs(scaled-math.Round(scaled)) > 1e-6 {
		t.Fatalf("score %v not rounded to 3 decimals", score)
	}
}
