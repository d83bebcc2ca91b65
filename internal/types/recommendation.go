package types

import "github.com/google/uuid"

type Recommendation struct {
	ID           uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	PredictionID uuid.UUID `gorm:"type:uuid;not null;index;column:prediction_id" json:"prediction_id"`

	RecType     string  `gorm:"not null;index;column:rec_type" json:"type"`
	Title       string  `gorm:"not null;column:title" json:"title"`
	Description string  `gorm:"not null;column:description" json:"description"`
	Urgency     string  `gorm:"not null;column:urgency" json:"urgency"`
	Contact     *string `gorm:"column:contact" json:"contact,omitempty"`
}

func (Recommendation) TableName() string {
	return "recommendation"
}
