package types

import (
	"time"

	"github.com/google/uuid"
)

// Prediction is the parent record for one scored request. Child rows are
// cascade-owned: deleting the prediction removes its assessment input, risk
// factors and recommendations. Rows are never updated after creation.
type Prediction struct {
	ID        uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	CreatedAt time.Time `gorm:"not null;default:now();index" json:"created_at"`

	RiskLevel            string  `gorm:"not null;index;column:risk_level" json:"risk_level"`
	RiskScore            int     `gorm:"not null;column:risk_score" json:"risk_score"`
	DropoutProbability   float64 `gorm:"not null;column:dropout_probability" json:"dropout_probability"`
	PredictedClass       *string `gorm:"column:predicted_class" json:"predicted_class,omitempty"`
	PredictionConfidence float64 `gorm:"not null;column:prediction_confidence" json:"prediction_confidence"`

	// Source tag: "simplified" or "raw".
	Endpoint string `gorm:"not null;column:endpoint" json:"endpoint"`

	Assessment      *AssessmentInput `gorm:"foreignKey:PredictionID" json:"assessment,omitempty"`
	RiskFactors     []RiskFactor     `gorm:"foreignKey:PredictionID" json:"risk_factors,omitempty"`
	Recommendations []Recommendation `gorm:"foreignKey:PredictionID" json:"recommendations,omitempty"`
}

func (Prediction) TableName() string {
	return "prediction"
}
