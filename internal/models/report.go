package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Symptom categories a citizen can report.
const (
	SymptomDehydration     = "dehydration"
	SymptomHeatExhaustion  = "heat_exhaustion"
	SymptomHeatStroke      = "heat_stroke"
	SymptomBreathingIssues = "breathing_issues"
	SymptomOther           = "other"
)

var Symptoms = []string{
	SymptomDehydration, SymptomHeatExhaustion, SymptomHeatStroke, SymptomBreathingIssues, SymptomOther,
}

type CommunityReport struct {
	ID              uuid.UUID `gorm:"type:varchar(36);primarykey" json:"id"`
	UserID          uuid.UUID `gorm:"type:varchar(36);not null;index" json:"user_id"`
	User            *User     `gorm:"foreignKey:UserID" json:"-"`
	Latitude        float64   `gorm:"not null" json:"latitude"`
	Longitude       float64   `gorm:"not null" json:"longitude"`
	City            string    `gorm:"size:100;not null;index" json:"city"`
	Symptoms        string    `gorm:"size:20;not null" json:"symptoms"`
	Description     string    `gorm:"type:text" json:"description"`
	TemperatureFelt float64   `gorm:"not null" json:"temperature_felt"`
	HasShade        bool      `gorm:"not null;default:false" json:"has_shade"`
	HasWaterAccess  bool      `gorm:"not null" json:"has_water_access"`
	IsVerified      bool      `gorm:"not null;default:false" json:"is_verified"`
	CreatedAt       time.Time `gorm:"index" json:"created_at"`
	UpdatedAt       time.Time `json:"-"`
}

func (r *CommunityReport) BeforeCreate(tx *gorm.DB) error {
	ensureID(&r.ID)
	return nil
}

// ReportFilters represents filters for listing community reports
type ReportFilters struct {
	City         string
	VerifiedOnly bool
	UserID       *uuid.UUID
	Limit        int
	Offset       int
}
