package scoring

// FeatureCount is the width of the vector the model was trained on.
const FeatureCount = 8

// FeatureOrder lists the model's input columns in training order. The order is
// a hard contract with the model service: reordering silently corrupts
// predictions.
var FeatureOrder = []string{
	"Curricular units 2nd sem (approved)",
	"Curricular units 1st sem (approved)",
	"Tuition fees up to date",
	"Scholarship holder",
	"Age at enrollment",
	"Debtor",
	"Gender",
	"Application mode",
}

type FeatureVector [FeatureCount]float64

var (
	// Attendance is the proxy for approved curricular units.
	attendanceUnits = map[string]int{
		"always": 50, "often": 45, "sometimes": 30, "rarely": 15, "never": 5,
	}
	// Low financial stress implies tuition paid up and scholarship held.
	financialStanding = map[string]int{
		"none": 1, "low": 1, "moderate": 0, "high": 0, "very-high": 0,
	}
	debtorStatus = map[string]int{
		"none": 0, "low": 0, "moderate": 1, "high": 1, "very-high": 1,
	}
	academicYearAge = map[string]int{
		"1st": 18, "2nd": 19, "3rd": 20, "4th": 21,
	}
	employmentAgeAdjustment = map[string]int{
		"not-employed": 0, "part-time": 1, "full-time": 2,
	}
)

func lookupInt(m map[string]int, key string, fallback int) int {
	if v, ok := m[key]; ok {
		return v
	}
	return fallback
}

// MapAssessmentToFeatures converts form answers into the model's feature
// vector. Total and deterministic: every enum value has a fallback.
func MapAssessmentToFeatures(a *AssessmentAnswers) FeatureVector {
	baseUnits := lookupInt(attendanceUnits, a.Attendance, 30)

	// Self-reported satisfaction scales the engagement proxy; truncation is
	// intentional so both semester slots stay integral.
	performanceFactor := float64(a.PerformanceSatisfaction) / 10.0
	units2ndSem := float64(int(float64(baseUnits) * performanceFactor))
	units1stSem := float64(int(float64(baseUnits) * performanceFactor))

	tuitionUpToDate := float64(lookupInt(financialStanding, a.FinancialStress, 0))
	scholarshipHolder := float64(lookupInt(financialStanding, a.FinancialStress, 0))

	ageBase := lookupInt(academicYearAge, a.AcademicYear, 19)
	ageAtEnrollment := float64(ageBase + lookupInt(employmentAgeAdjustment, a.EmploymentStatus, 0))

	debtor := float64(lookupInt(debtorStatus, a.FinancialStress, 0))

	// Study-hours proxy, a modeling simplification rather than a demographic
	// assertion: heavy study buckets map to 0, everything else to 1.
	gender := 1.0
	if a.StudyHours == "8+" || a.StudyHours == "5-8" {
		gender = 0.0
	}

	// Alternative entry only for full-time workers with low career alignment.
	// The high-alignment arm resolves to regular entry, same as the default;
	// kept as-is rather than folded away.
	applicationMode := 1.0
	if a.EmploymentStatus == "full-time" && a.CareerAlignment < 5 {
		applicationMode = 2.0
	} else if a.CareerAlignment >= 8 {
		applicationMode = 1.0
	}

	return FeatureVector{
		units2ndSem,
		units1stSem,
		tuitionUpToDate,
		scholarshipHolder,
		ageAtEnrollment,
		debtor,
		gender,
		applicationMode,
	}
}
