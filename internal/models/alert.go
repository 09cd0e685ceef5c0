package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fagaru/fagaru/backend/internal/heat"
)

// Alert types.
const (
	AlertTypeHeatWave      = "heat_wave"
	AlertTypeExtremeHeat   = "extreme_heat"
	AlertTypeHealthWarning = "health_warning"
)

// Notification channels.
const (
	ChannelPush  = "push"
	ChannelSMS   = "sms"
	ChannelEmail = "email"
)

type Alert struct {
	ID             uuid.UUID   `gorm:"type:varchar(36);primarykey" json:"id"`
	Title          string      `gorm:"size:200;not null" json:"title"`
	Message        string      `gorm:"type:text;not null" json:"message"`
	AlertType      string      `gorm:"size:20;not null;default:'heat_wave'" json:"alert_type"`
	Severity       heat.Level  `gorm:"size:10;not null;index" json:"severity"`
	AffectedCities StringArray `gorm:"type:jsonb;not null;default:'[]'" json:"affected_cities"`
	StartTime      time.Time   `gorm:"not null;index" json:"start_time"`
	EndTime        *time.Time  `json:"end_time"`
	IsActive       bool        `gorm:"not null;index" json:"is_active"`
	CreatedAt      time.Time   `json:"created_at"`
	UpdatedAt      time.Time   `json:"updated_at"`
}

func (a *Alert) BeforeCreate(tx *gorm.DB) error {
	ensureID(&a.ID)
	return nil
}

// SeverityColor returns the display color of the alert severity.
func (a *Alert) SeverityColor() string {
	return a.Severity.Color()
}

type AlertNotification struct {
	ID        uuid.UUID `gorm:"type:varchar(36);primarykey" json:"id"`
	AlertID   uuid.UUID `gorm:"type:varchar(36);not null;index" json:"alert_id"`
	Alert     *Alert    `gorm:"foreignKey:AlertID" json:"-"`
	UserID    uuid.UUID `gorm:"type:varchar(36);not null;index" json:"user_id"`
	SentVia   string    `gorm:"size:10;not null" json:"sent_via"`
	SentAt    time.Time `gorm:"not null;index" json:"sent_at"`
	IsRead    bool      `gorm:"not null;default:false" json:"is_read"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

func (n *AlertNotification) BeforeCreate(tx *gorm.DB) error {
	ensureID(&n.ID)
	return nil
}

type Recommendation struct {
	ID          uuid.UUID  `gorm:"type:varchar(36);primarykey" json:"id"`
	ProfileType string     `gorm:"size:20;not null;index:idx_recommendation_lookup,priority:1" json:"profile_type"`
	AlertLevel  heat.Level `gorm:"size:10;not null;index:idx_recommendation_lookup,priority:2" json:"alert_level"`
	Language    string     `gorm:"size:2;not null;default:'fr';index:idx_recommendation_lookup,priority:3" json:"language"`
	Title       string     `gorm:"size:200;not null" json:"title"`
	Content     string     `gorm:"type:text;not null" json:"content"`
	Icon        string     `gorm:"size:50" json:"icon"`
	Order       int        `gorm:"column:sort_order;not null;default:0" json:"order"`
	IsActive    bool       `gorm:"not null" json:"is_active"`
	CreatedAt   time.Time  `json:"-"`
	UpdatedAt   time.Time  `json:"-"`
}

func (r *Recommendation) BeforeCreate(tx *gorm.DB) error {
	ensureID(&r.ID)
	return nil
}
