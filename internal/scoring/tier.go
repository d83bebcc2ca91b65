package scoring

import "math"

const (
	TierLow    = "low"
	TierMedium = "medium"
	TierHigh   = "high"
)

// Probability thresholds for tiering. The heuristic path applies the same
// boundaries to its 0-100 score directly (60/35), keeping both paths aligned.
const (
	highProbabilityThreshold   = 0.60
	mediumProbabilityThreshold = 0.35
)

func TierForProbability(p float64) string {
	switch {
	case p >= highProbabilityThreshold:
		return TierHigh
	case p >= mediumProbabilityThreshold:
		return TierMedium
	default:
		return TierLow
	}
}

func ScoreForProbability(p float64) int {
	return int(math.Round(p * 100))
}

func TierForScore(score int) string {
	switch {
	case score >= int(highProbabilityThreshold*100):
		return TierHigh
	case score >= int(mediumProbabilityThreshold*100):
		return TierMedium
	default:
		return TierLow
	}
}
