package database

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/fagaru/fagaru/backend/internal/heat"
	"github.com/fagaru/fagaru/backend/internal/models"
)

// Keys of the settings seeded into app_settings.
const (
	SettingAppName         = "app_name"
	SettingEmergencyNumber = "emergency_number"
	SettingWeatherUpdate   = "weather.last_update"
)

// DefaultCities is the built-in city reference list. Priority cities are
// the ones polled by the weather job.
var DefaultCities = []models.SenegalCity{
	{Name: "Dakar", Region: "Dakar", Latitude: 14.6937, Longitude: -17.4441, IsPriority: true},
	{Name: "Saint-Louis", Region: "Saint-Louis", Latitude: 16.0200, Longitude: -16.4800, IsPriority: true},
	{Name: "Matam", Region: "Matam", Latitude: 15.6558, Longitude: -13.2550, IsPriority: true},
	{Name: "Podor", Region: "Saint-Louis", Latitude: 16.6500, Longitude: -14.9667, IsPriority: true},
	{Name: "Kaffrine", Region: "Kaffrine", Latitude: 14.1056, Longitude: -15.5503, IsPriority: true},
	{Name: "Kaolack", Region: "Kaolack", Latitude: 14.1500, Longitude: -16.0833, IsPriority: true},
	{Name: "Tambacounda", Region: "Tambacounda", Latitude: 13.7667, Longitude: -13.6667, IsPriority: true},
	{Name: "Ziguinchor", Region: "Ziguinchor", Latitude: 12.5833, Longitude: -16.2833, IsPriority: true},
	{Name: "Thiès", Region: "Thiès", Latitude: 14.7910, Longitude: -16.9359},
	{Name: "Mbour", Region: "Thiès", Latitude: 14.4167, Longitude: -16.9667},
	{Name: "Rufisque", Region: "Dakar", Latitude: 14.7167, Longitude: -17.2667},
	{Name: "Diourbel", Region: "Diourbel", Latitude: 14.6550, Longitude: -16.2314},
	{Name: "Touba", Region: "Diourbel", Latitude: 14.8500, Longitude: -15.8833},
	{Name: "Louga", Region: "Louga", Latitude: 15.6144, Longitude: -16.2286},
	{Name: "Fatick", Region: "Fatick", Latitude: 14.3390, Longitude: -16.4110},
	{Name: "Kolda", Region: "Kolda", Latitude: 12.8833, Longitude: -14.9500},
	{Name: "Sédhiou", Region: "Sédhiou", Latitude: 12.7081, Longitude: -15.5569},
	{Name: "Kédougou", Region: "Kédougou", Latitude: 12.5556, Longitude: -12.1744},
}

type advice struct {
	title   string
	content string
	icon    string
}

var generalAdvice = map[heat.Level][]advice{
	heat.Yellow: {
		{"Hydratez-vous", "Buvez de l'eau régulièrement, même sans avoir soif.", "water"},
		{"Évitez le soleil", "Restez à l'ombre entre 12h et 16h.", "sun"},
	},
	heat.Orange: {
		{"Buvez au moins 2 litres d'eau", "Buvez au moins 2 litres d'eau par jour et évitez l'alcool.", "water"},
		{"Limitez les efforts", "Reportez les activités physiques aux heures les plus fraîches.", "walk"},
		{"Rafraîchissez-vous", "Mouillez-vous le corps et restez dans des pièces ventilées.", "fan"},
	},
	heat.Red: {
		{"Restez à l'intérieur", "Ne sortez pas aux heures chaudes sauf en cas d'urgence.", "home"},
		{"Buvez très souvent", "Buvez de l'eau toutes les heures, par petites gorgées.", "water"},
		{"Urgence : 1515", "En cas de malaise, de fièvre ou de confusion, appelez le SAMU au 1515.", "ambulance"},
	},
}

var profileAdvice = map[string]advice{
	models.ProfileElderly:       {"Personnes âgées", "Faites-vous appeler chaque jour par un proche et surveillez les signes de fatigue.", "elderly"},
	models.ProfilePregnant:      {"Femmes enceintes", "Reposez-vous à l'ombre et consultez en cas de vertiges ou de contractions.", "pregnant"},
	models.ProfileChild:         {"Enfants", "Ne laissez jamais un enfant dans un véhicule et faites-le boire souvent.", "child"},
	models.ProfileChronic:       {"Maladies chroniques", "Continuez votre traitement et demandez conseil à votre médecin sur l'hydratation.", "medical"},
	models.ProfileOutdoorWorker: {"Travail en extérieur", "Faites des pauses à l'ombre toutes les heures et portez un chapeau.", "worker"},
}

// DefaultRecommendations builds the French advice table for every profile
// type and every alerting level.
func DefaultRecommendations() []models.Recommendation {
	var out []models.Recommendation
	for _, profileType := range models.ProfileTypes {
		for _, level := range []heat.Level{heat.Yellow, heat.Orange, heat.Red} {
			order := 1
			if specific, ok := profileAdvice[profileType]; ok {
				out = append(out, recommendation(profileType, level, specific, order))
				order++
			}
			for _, a := range generalAdvice[level] {
				out = append(out, recommendation(profileType, level, a, order))
				order++
			}
		}
	}
	return out
}

func recommendation(profileType string, level heat.Level, a advice, order int) models.Recommendation {
	return models.Recommendation{
		ProfileType: profileType,
		AlertLevel:  level,
		Language:    models.LanguageFrench,
		Title:       a.title,
		Content:     a.content,
		Icon:        a.icon,
		Order:       order,
		IsActive:    true,
	}
}

// Seed inserts reference data. Rows that already exist are left untouched.
func Seed(ctx context.Context, db *gorm.DB) error {
	db = db.WithContext(ctx)

	cities := make([]models.SenegalCity, len(DefaultCities))
	copy(cities, DefaultCities)
	if err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoNothing: true,
	}).Create(&cities).Error; err != nil {
		return fmt.Errorf("failed to seed cities: %w", err)
	}

	for _, rec := range DefaultRecommendations() {
		rec := rec
		err := db.Where(models.Recommendation{
			ProfileType: rec.ProfileType,
			AlertLevel:  rec.AlertLevel,
			Language:    rec.Language,
			Title:       rec.Title,
		}).FirstOrCreate(&rec).Error
		if err != nil {
			return fmt.Errorf("failed to seed recommendation %q: %w", rec.Title, err)
		}
	}

	settings := []models.AppSetting{
		{Key: SettingAppName, Value: "Fagaru", Description: "Nom affiché de l'application"},
		{Key: SettingEmergencyNumber, Value: "1515", Description: "Numéro d'urgence médicale (SAMU)"},
	}
	if err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoNothing: true,
	}).Create(&settings).Error; err != nil {
		return fmt.Errorf("failed to seed settings: %w", err)
	}

	return nil
}
