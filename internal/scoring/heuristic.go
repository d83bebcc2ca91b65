package scoring

import "math"

// Heuristic contribution tables. This additive path is independent of the
// model's probability and only shares the tier vocabulary with it.
var (
	attendanceRisk = map[string]int{
		"always": 0, "often": 5, "sometimes": 15, "rarely": 25, "never": 35,
	}
	overwhelmRisk = map[string]int{
		"never": 0, "rarely": 5, "sometimes": 10, "often": 20, "always": 30,
	}
	financialRisk = map[string]int{
		"none": 0, "low": 5, "moderate": 10, "high": 20, "very-high": 25,
	}
	advisorRisk = map[string]int{
		"never": 10, "once-semester": 5, "2-3-semester": 2, "monthly": 0,
	}
)

const withdrawalConsideredRisk = 15

// HeuristicScore computes the fallback 0-100 risk score from form answers,
// used when the model service is unavailable. Contributions are independent
// and additive; the sum is clamped to [0,100].
func HeuristicScore(a *AssessmentAnswers) int {
	score := 0.0

	score += float64(lookupInt(attendanceRisk, a.Attendance, 0))
	score += float64(lookupInt(overwhelmRisk, a.OverwhelmFrequency, 0))
	score += float64(lookupInt(financialRisk, a.FinancialStress, 0))

	if a.WithdrawalConsidered {
		score += withdrawalConsideredRisk
	}

	// Inverse self-ratings: low satisfaction, weak support and poor career
	// alignment all push the score up.
	score += math.Max(0, float64(10-a.PerformanceSatisfaction)) * 2
	score += float64(lookupInt(advisorRisk, a.AdvisorInteraction, 0))
	score += math.Max(0, float64(10-a.SupportNetworkStrength))

	// Extracurricular extremes in either direction add risk.
	if a.ExtracurricularHours < 1 || a.ExtracurricularHours > 15 {
		score += 5
	}

	score += math.Max(0, float64(10-a.CareerAlignment)) * 1.5

	switch a.EmploymentStatus {
	case "full-time":
		score += 10
	case "part-time":
		score += 5
	}

	return int(math.Min(100, math.Max(0, score)))
}
