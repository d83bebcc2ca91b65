package scoring

// RuleSet selects which annotation rule variant runs. The two variants are
// intentionally asymmetric and must stay separate: the heuristic path carries
// a leaner set than the model-backed path.
type RuleSet int

const (
	// RuleSetHeuristic is applied when the score came from the fallback
	// heuristic.
	RuleSetHeuristic RuleSet = iota
	// RuleSetModel is the richer set applied to model-backed predictions.
	RuleSetModel
)

type reasonAnnotation struct {
	recommendation Recommendation
	factor         RiskFactor
}

// withdrawalReasonAnnotations enriches predictions where withdrawal was
// considered, keyed by the fixed withdrawal-reason vocabulary. Model path only.
var withdrawalReasonAnnotations = map[string]reasonAnnotation{
	"Academic difficulty": {
		recommendation: Recommendation{
			Type:        "academic",
			Title:       "Academic Support Program",
			Description: "Enroll in our comprehensive academic support program with tutoring, study groups, and study skills workshops",
			Urgency:     "immediate",
			Contact:     "academicsupport@rvce.edu.in",
		},
		factor: RiskFactor{
			Category:    "Academic",
			Factor:      "Academic Difficulty",
			Impact:      "high",
			Description: "Struggling with academic material can lead to course failure and withdrawal",
		},
	},
	"Financial challenges": {
		recommendation: Recommendation{
			Type:        "financial",
			Title:       "Emergency Financial Assistance",
			Description: "Apply for emergency grants or loans. Meet with financial counselor to create a sustainable plan",
			Urgency:     "immediate",
			Contact:     "financialaid@rvce.edu.in",
		},
		factor: RiskFactor{
			Category:    "Financial",
			Factor:      "Financial Crisis",
			Impact:      "high",
			Description: "Severe financial issues are a primary driver of student withdrawal",
		},
	},
	"Mental health": {
		recommendation: Recommendation{
			Type:        "counseling",
			Title:       "Mental Health Crisis Support",
			Description: "Contact counseling center immediately. We also have peer support groups and crisis resources available",
			Urgency:     "immediate",
			Contact:     "counseling@rvce.edu.in",
		},
		factor: RiskFactor{
			Category:    "Mental Health",
			Factor:      "Mental Health Crisis",
			Impact:      "high",
			Description: "Mental health challenges require immediate professional support and intervention",
		},
	},
	"Personal/family issues": {
		recommendation: Recommendation{
			Type:        "support",
			Title:       "Personal Counseling & Family Support",
			Description: "Our counselors can help you navigate personal and family challenges while maintaining your academic progress",
			Urgency:     "soon",
			Contact:     "counseling@rvce.edu.in",
		},
		factor: RiskFactor{
			Category:    "Personal",
			Factor:      "Personal/Family Crisis",
			Impact:      "high",
			Description: "Personal and family issues can significantly impact academic focus and commitment",
		},
	},
	"Lack of interest": {
		recommendation: Recommendation{
			Type:        "academic",
			Title:       "Academic Advising & Program Exploration",
			Description: "Meet with academic advisor to explore program alternatives, course selections, or potential major changes",
			Urgency:     "soon",
			Contact:     "advising@rvce.edu.in",
		},
		factor: RiskFactor{
			Category:    "Academic",
			Factor:      "Loss of Academic Interest",
			Impact:      "high",
			Description: "Declining interest in studies suggests misalignment with chosen program or career path",
		},
	},
	"Career opportunities": {
		recommendation: Recommendation{
			Type:        "career",
			Title:       "Career Planning & Education Strategy",
			Description: "Explore how to balance career opportunities with completing your degree. Many students pursue internships while studying",
			Urgency:     "soon",
			Contact:     "career@rvce.edu.in",
		},
		factor: RiskFactor{
			Category:    "Career",
			Factor:      "Career Path Conflict",
			Impact:      "medium",
			Description: "External career opportunities may be pulling focus away from academic commitments",
		},
	},
}

// DeriveAnnotations evaluates the condition->annotation rules for the given
// answers and computed tier. Rules fire independently, emission order is rule
// order, and duplicates are allowed. The recommendation slice is never empty:
// a final "Stay Connected" fallback fires when nothing else did.
func DeriveAnnotations(a *AssessmentAnswers, tier string, set RuleSet) ([]RiskFactor, []Recommendation) {
	factors := []RiskFactor{}
	recommendations := []Recommendation{}

	if a.Attendance == "rarely" || a.Attendance == "never" {
		factors = append(factors, RiskFactor{
			Category:    "Academic",
			Factor:      "Low Class Attendance",
			Impact:      "high",
			Description: "Inconsistent class attendance is strongly correlated with dropout risk",
		})
	}

	if a.OverwhelmFrequency == "often" || a.OverwhelmFrequency == "always" {
		factors = append(factors, RiskFactor{
			Category:    "Mental Health",
			Factor:      "Academic Overwhelm",
			Impact:      "high",
			Description: "Feeling frequently overwhelmed can lead to burnout and withdrawal",
		})
	}

	highFinancialStress := a.FinancialStress == "high" || a.FinancialStress == "very-high"
	if highFinancialStress {
		factors = append(factors, RiskFactor{
			Category:    "Financial",
			Factor:      "Financial Stress",
			Impact:      "high",
			Description: "Financial difficulties are a leading cause of student withdrawal",
		})
	}

	if a.WithdrawalConsidered {
		factors = append(factors, RiskFactor{
			Category:    "Behavioral",
			Factor:      "Withdrawal Consideration",
			Impact:      "high",
			Description: "Active consideration of withdrawal indicates elevated risk",
		})
	}

	if set == RuleSetModel {
		if a.SupportNetworkStrength <= 3 {
			factors = append(factors, RiskFactor{
				Category:    "Social",
				Factor:      "Weak Support Network",
				Impact:      "medium",
				Description: "Limited social support increases vulnerability during challenges",
			})
		}
		if a.EmploymentStatus == "full-time" {
			factors = append(factors, RiskFactor{
				Category:    "Personal",
				Factor:      "Full-time Employment",
				Impact:      "medium",
				Description: "Working full-time while studying significantly increases time pressure",
			})
		}
	}

	if tier == TierHigh {
		recommendations = append(recommendations, Recommendation{
			Type:        "counseling",
			Title:       "Mental Health Support",
			Description: "Schedule an urgent appointment with a counselor to discuss your concerns and develop a support plan",
			Urgency:     "immediate",
			Contact:     "counseling@rvce.edu.in",
		})
	}

	if highFinancialStress {
		recommendations = append(recommendations, Recommendation{
			Type:        "financial",
			Title:       "Financial Aid Office",
			Description: "Connect with financial aid office to explore scholarships, grants, and emergency funding options",
			Urgency:     "soon",
			Contact:     "financialaid@rvce.edu.in",
		})
	}

	if a.PerformanceSatisfaction <= 4 {
		recommendations = append(recommendations, Recommendation{
			Type:        "academic",
			Title:       "Academic Tutoring",
			Description: "Access tutoring services and study groups to improve academic performance",
			Urgency:     "soon",
			Contact:     "tutoring@rvce.edu.in",
		})
	}

	if set == RuleSetModel {
		if a.AdvisorInteraction == "never" || a.AdvisorInteraction == "once-semester" {
			recommendations = append(recommendations, Recommendation{
				Type:        "academic",
				Title:       "Schedule Advisor Meeting",
				Description: "Regular meetings with your academic advisor can help with course planning and early problem detection",
				Urgency:     "soon",
				Contact:     "advising@rvce.edu.in",
			})
		}
		if a.EmploymentStatus == "full-time" {
			recommendations = append(recommendations, Recommendation{
				Type:        "peer",
				Title:       "Time Management Support",
				Description: "Consider reducing work hours or exploring flexible work arrangements to prioritize your studies",
				Urgency:     "soon",
			})
		}
		if a.WithdrawalConsidered && len(a.WithdrawalReasons) > 0 {
			for _, reason := range a.WithdrawalReasons {
				annotation, ok := withdrawalReasonAnnotations[reason]
				if !ok {
					continue
				}
				recommendations = append(recommendations, annotation.recommendation)
				factors = append(factors, annotation.factor)
			}
		}
	}

	if len(a.ServicesUsed) == 0 {
		recommendations = append(recommendations, Recommendation{
			Type:        "support",
			Title:       "Explore Campus Support Services",
			Description: "You haven't indicated using any support services yet. Visit the student center to learn about available resources including academic advising, counseling, and health services.",
			Urgency:     "soon",
			Contact:     "studentcenter@rvce.edu.in",
		})
	}

	if len(recommendations) == 0 {
		recommendations = append(recommendations, Recommendation{
			Type:        "peer",
			Title:       "Stay Connected",
			Description: "Continue engaging with campus resources and maintain your support network",
			Urgency:     "when-needed",
		})
	}

	return factors, recommendations
}
