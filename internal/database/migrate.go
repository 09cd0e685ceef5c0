package database

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/fagaru/fagaru/backend/internal/models"
)

// Models lists every persisted entity in migration order.
var Models = []interface{}{
	&models.User{},
	&models.UserProfile{},
	&models.SenegalCity{},
	&models.AppSetting{},
	&models.WeatherData{},
	&models.Alert{},
	&models.AlertNotification{},
	&models.Recommendation{},
	&models.CommunityReport{},
}

// RunMigrations creates or updates the schema for all models.
func RunMigrations(db *gorm.DB) error {
	if err := db.AutoMigrate(Models...); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}
