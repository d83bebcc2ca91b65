package types

import (
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// AssessmentInput stores the full form submission behind a prediction.
// Present only for the structured entry path; the raw path stores no input.
type AssessmentInput struct {
	ID           uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	PredictionID uuid.UUID `gorm:"type:uuid;not null;index;column:prediction_id" json:"prediction_id"`

	ConsentGiven              bool `gorm:"not null;column:consent_given" json:"consent_given"`
	ConsentDataProcessing     bool `gorm:"not null;column:consent_data_processing" json:"consent_data_processing"`
	ConsentAnonymousAnalytics bool `gorm:"not null;column:consent_anonymous_analytics" json:"consent_anonymous_analytics"`

	AcademicYear            string `gorm:"not null;column:academic_year" json:"academic_year"`
	Attendance              string `gorm:"not null;column:attendance" json:"attendance"`
	OverwhelmFrequency      string `gorm:"not null;column:overwhelm_frequency" json:"overwhelm_frequency"`
	StudyHours              string `gorm:"not null;column:study_hours" json:"study_hours"`
	PerformanceSatisfaction int    `gorm:"not null;column:performance_satisfaction" json:"performance_satisfaction"`

	AdvisorInteraction     string `gorm:"not null;column:advisor_interaction" json:"advisor_interaction"`
	SupportNetworkStrength int    `gorm:"not null;column:support_network_strength" json:"support_network_strength"`
	ExtracurricularHours   int    `gorm:"not null;column:extracurricular_hours" json:"extracurricular_hours"`

	EmploymentStatus string `gorm:"not null;column:employment_status" json:"employment_status"`
	FinancialStress  string `gorm:"not null;column:financial_stress" json:"financial_stress"`
	CareerAlignment  int    `gorm:"not null;column:career_alignment" json:"career_alignment"`

	ServicesUsed         datatypes.JSON `gorm:"column:services_used" json:"services_used,omitempty"`
	WithdrawalConsidered bool           `gorm:"not null;column:withdrawal_considered" json:"withdrawal_considered"`
	WithdrawalReasons    datatypes.JSON `gorm:"column:withdrawal_reasons" json:"withdrawal_reasons,omitempty"`
}

func (AssessmentInput) TableName() string {
	return "assessment_input"
}
