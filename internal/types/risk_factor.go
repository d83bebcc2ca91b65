package types

import "github.com/google/uuid"

type RiskFactor struct {
	ID           uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	PredictionID uuid.UUID `gorm:"type:uuid;not null;index;column:prediction_id" json:"prediction_id"`

	Category    string `gorm:"not null;index;column:category" json:"category"`
	Factor      string `gorm:"not null;column:factor" json:"factor"`
	Impact      string `gorm:"not null;column:impact" json:"impact"`
	Description string `gorm:"not null;column:description" json:"description"`
}

func (RiskFactor) TableName() string {
	return "risk_factor"
}
