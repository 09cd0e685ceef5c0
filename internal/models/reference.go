package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SenegalCity is reference data for the cities the service knows about.
// Priority cities are polled by the weather job.
type SenegalCity struct {
	ID         uuid.UUID `gorm:"type:varchar(36);primarykey" json:"id"`
	Name       string    `gorm:"size:100;not null;uniqueIndex" json:"name"`
	Region     string    `gorm:"size:100" json:"region"`
	Latitude   float64   `json:"latitude"`
	Longitude  float64   `json:"longitude"`
	IsPriority bool      `gorm:"not null;default:false;index" json:"is_priority"`
	CreatedAt  time.Time `json:"-"`
	UpdatedAt  time.Time `json:"-"`
}

func (c *SenegalCity) BeforeCreate(tx *gorm.DB) error {
	ensureID(&c.ID)
	return nil
}

type AppSetting struct {
	ID          uuid.UUID `gorm:"type:varchar(36);primarykey" json:"id"`
	Key         string    `gorm:"size:100;not null;uniqueIndex" json:"key"`
	Value       string    `gorm:"type:text" json:"value"`
	Description string    `gorm:"type:text" json:"description"`
	CreatedAt   time.Time `json:"-"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (s *AppSetting) BeforeCreate(tx *gorm.DB) error {
	ensureID(&s.ID)
	return nil
}
