package scoring

import "testing"

func TestMapAssessmentToFeatures(t *testing.T) {
	cases := []struct {
		name    string
		answers AssessmentAnswers
		want    FeatureVector
	}{
		{
			// Pinned scenario: worst attendance but full satisfaction,
			// no financial stress, first year, unemployed, light study.
			name: "never_attends_but_satisfied",
			answers: AssessmentAnswers{
				Attendance:              "never",
				PerformanceSatisfaction: 10,
				FinancialStress:         "none",
				AcademicYear:            "1st",
				EmploymentStatus:        "not-employed",
				StudyHours:              "1-3",
			},
			want: FeatureVector{5, 5, 1, 1, 18, 0, 1, 1},
		},
		{
			name: "full_engagement",
			answers: AssessmentAnswers{
				Attendance:              "always",
				PerformanceSatisfaction: 10,
				FinancialStress:         "low",
				AcademicYear:            "4th",
				EmploymentStatus:        "part-time",
				StudyHours:              "8+",
				CareerAlignment:         7,
			},
			want: FeatureVector{50, 50, 1, 1, 22, 0, 0, 1},
		},
		{
			name: "financially_stressed_full_time_worker",
			answers: AssessmentAnswers{
				Attendance:              "sometimes",
				PerformanceSatisfaction: 5,
				FinancialStress:         "very-high",
				AcademicYear:            "2nd",
				EmploymentStatus:        "full-time",
				StudyHours:              "3-5",
				CareerAlignment:         2,
			},
			want: FeatureVector{15, 15, 0, 0, 21, 1, 1, 2},
		},
		{
			// Unknown vocabulary everywhere must fall back to documented
			// defaults, never fail.
			name: "out_of_vocabulary_defaults",
			answers: AssessmentAnswers{
				Attendance:              "whenever",
				PerformanceSatisfaction: 10,
				FinancialStress:         "unsure",
				AcademicYear:            "5th",
				EmploymentStatus:        "gig",
				StudyHours:              "lots",
			},
			want: FeatureVector{30, 30, 0, 0, 19, 0, 1, 1},
		},
		{
			name:    "zero_value_answers",
			answers: AssessmentAnswers{},
			want:    FeatureVector{0, 0, 0, 0, 19, 0, 1, 1},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := MapAssessmentToFeatures(&tc.answers)
			if got != tc.want {
				t.Fatalf("MapAssessmentToFeatures()=%v, want %v", got, tc.want)
			}
		})
	}
}

func TestMapAssessmentToFeaturesIsDeterministic(t *testing.T) {
	a := AssessmentAnswers{
		Attendance:              "often",
		PerformanceSatisfaction: 7,
		FinancialStress:         "moderate",
		AcademicYear:            "3rd",
		EmploymentStatus:        "part-time",
		StudyHours:              "5-8",
		CareerAlignment:         6,
	}
	first := MapAssessmentToFeatures(&a)
	for i := 0; i < 50; i++ {
		if got := MapAssessmentToFeatures(&a); got != first {
			t.Fatalf("run %d produced %v, first run produced %v", i, got, first)
		}
	}
}

// Known behavior: career_alignment >= 8 resolves application mode to the same
// value as the default arm. Pinned so nobody "fixes" it silently.
func TestApplicationModeHighAlignmentMatchesDefault(t *testing.T) {
	highAlignment := AssessmentAnswers{EmploymentStatus: "not-employed", CareerAlignment: 9}
	middling := AssessmentAnswers{EmploymentStatus: "not-employed", CareerAlignment: 6}

	got := MapAssessmentToFeatures(&highAlignment)[7]
	want := MapAssessmentToFeatures(&middling)[7]
	if got != want || got != 1 {
		t.Fatalf("application mode: high alignment=%v, default=%v, want both 1", got, want)
	}

	// The alternative-entry arm still needs both conditions.
	alt := AssessmentAnswers{EmploymentStatus: "full-time", CareerAlignment: 4}
	if got := MapAssessmentToFeatures(&alt)[7]; got != 2 {
		t.Fatalf("application mode for full-time low-alignment=%v, want 2", got)
	}
}
