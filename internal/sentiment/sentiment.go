// Package sentiment maps free text to a (label, polarity) pair using
// the VADER lexicon.
package sentiment

import (
	"math"
	"strings"

	"github.com/jonreiter/govader"
)

const (
	LabelPositive = "positive"
	LabelNegative = "negative"
	LabelNeutral  = "neutral"
)

// Thresholds on the compound polarity score for labeling.
const labelThreshold = 0.1

type Analyzer struct {
	vader *govader.SentimentIntensityAnalyzer
}

func NewAnalyzer() *Analyzer {
	return &Analyzer{vader: govader.NewSentimentIntensityAnalyzer()}
}

// Analyze returns a sentiment label and the compound polarity score in
// [-1, 1] rounded to three decimals. Empty or whitespace-only text is
// neutral with score 0.
func (a *Analyzer) Analyze(text string) (string, float64) {
	if strings.TrimSpace(text) == "" {
		return LabelNeutral, 0
	}

	score := round3(a.vader.PolarityScores(text).Compound)
	switch {
	case score > labelThreshold:
		return LabelPositive, score
	case score < -labelThreshold:
		return LabelNegative, score
	default:
		return LabelNeutral, score
	}
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
