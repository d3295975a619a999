package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Prediction records one crop and fertilizer recommendation with the
// measurements it was made from
type Prediction struct {
	ID                  uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt           time.Time `gorm:"index" json:"created_at"`
	Temperature         float64   `gorm:"not null" json:"temperature"`
	Humidity            float64   `gorm:"not null" json:"humidity"`
	Moisture            float64   `gorm:"not null" json:"moisture"`
	SoilType            string    `gorm:"not null;size:50" json:"soil_type"`
	Nitrogen            float64   `gorm:"not null" json:"nitrogen"`
	Potassium           float64   `gorm:"not null" json:"potassium"`
	Phosphorous         float64   `gorm:"not null" json:"phosphorous"`
	PredictedCrop       string    `gorm:"not null;size:100" json:"predicted_crop"`
	PredictedFertilizer string    `gorm:"not null;size:100" json:"predicted_fertilizer"`
}

// TableName returns the table name for the Prediction model
func (Prediction) TableName() string {
	return "predictions"
}

func (p *Prediction) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
