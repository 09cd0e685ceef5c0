package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Profile types used to select recommendation content.
const (
	ProfileGeneral       = "general"
	ProfileElderly       = "elderly"
	ProfilePregnant      = "pregnant"
	ProfileChild         = "child"
	ProfileChronic       = "chronic"
	ProfileOutdoorWorker = "outdoor_worker"
)

// ProfileTypes lists every accepted profile type.
var ProfileTypes = []string{
	ProfileGeneral, ProfileElderly, ProfilePregnant, ProfileChild, ProfileChronic, ProfileOutdoorWorker,
}

// Supported content languages: French, Wolof, Pulaar.
const (
	LanguageFrench = "fr"
	LanguageWolof  = "wo"
	LanguagePulaar = "ff"
)

var Languages = []string{LanguageFrench, LanguageWolof, LanguagePulaar}

type User struct {
	ID           uuid.UUID    `gorm:"type:varchar(36);primarykey" json:"id"`
	CreatedAt    time.Time    `json:"date_joined"`
	UpdatedAt    time.Time    `json:"-"`
	Username     string       `gorm:"size:150;not null;uniqueIndex" json:"username"`
	Email        string       `gorm:"size:254" json:"email"`
	FirstName    string       `gorm:"size:150" json:"first_name"`
	LastName     string       `gorm:"size:150" json:"last_name"`
	PasswordHash string       `gorm:"not null" json:"-"`
	Profile      *UserProfile `gorm:"foreignKey:UserID" json:"profile"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	ensureID(&u.ID)
	return nil
}

type UserProfile struct {
	ID          uuid.UUID `gorm:"type:varchar(36);primarykey" json:"id"`
	UserID      uuid.UUID `gorm:"type:varchar(36);not null;uniqueIndex" json:"user_id"`
	Phone       string    `gorm:"size:20" json:"phone"`
	ProfileType string    `gorm:"size:20;not null;default:'general'" json:"profile_type"`
	LocationLat *float64  `json:"location_lat"`
	LocationLng *float64  `json:"location_lng"`
	City        string    `gorm:"size:100;index" json:"city"`
	ReceiveSMS  bool      `gorm:"not null" json:"receive_sms"`
	ReceivePush bool      `gorm:"not null" json:"receive_push"`
	Language    string    `gorm:"size:2;not null;default:'fr'" json:"language"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (p *UserProfile) BeforeCreate(tx *gorm.DB) error {
	ensureID(&p.ID)
	return nil
}

// NewUserProfile returns a profile carrying the documented defaults:
// general profile, French, push and SMS enabled.
func NewUserProfile(userID uuid.UUID) *UserProfile {
	return &UserProfile{
		UserID:      userID,
		ProfileType: ProfileGeneral,
		ReceiveSMS:  true,
		ReceivePush: true,
		Language:    LanguageFrench,
	}
}
