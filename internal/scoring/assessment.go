package scoring

// AssessmentAnswers is the structured self-assessment form payload. Enum-like
// fields take values from fixed vocabularies; every lookup has a default, so
// unknown values never fail mapping or scoring.
type AssessmentAnswers struct {
	ConsentGiven              bool `json:"consent_given"`
	ConsentDataProcessing     bool `json:"consent_data_processing"`
	ConsentAnonymousAnalytics bool `json:"consent_anonymous_analytics"`

	AcademicYear            string `json:"academic_year"`
	Attendance              string `json:"attendance"`
	OverwhelmFrequency      string `json:"overwhelm_frequency"`
	StudyHours              string `json:"study_hours"`
	PerformanceSatisfaction int    `json:"performance_satisfaction"`

	AdvisorInteraction     string `json:"advisor_interaction"`
	SupportNetworkStrength int    `json:"support_network_strength"`
	ExtracurricularHours   int    `json:"extracurricular_hours"`

	EmploymentStatus string `json:"employment_status"`
	FinancialStress  string `json:"financial_stress"`
	CareerAlignment  int    `json:"career_alignment"`

	ServicesUsed         []string `json:"services_used"`
	WithdrawalConsidered bool     `json:"withdrawal_considered"`
	WithdrawalReasons    []string `json:"withdrawal_reasons"`
}
