package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/fagaru/fagaru/backend/internal/database"
	"github.com/fagaru/fagaru/backend/internal/models"
)

// CityService reads the city reference table.
type CityService struct {
	db *gorm.DB
}

var _ ICityService = (*CityService)(nil)

func NewCityService(db *gorm.DB) *CityService {
	return &CityService{db: db}
}

// List returns cities filtered by region substring and priority flag, by name.
func (s *CityService) List(ctx context.Context, region string, priorityOnly bool) ([]models.SenegalCity, error) {
	query := s.db.WithContext(ctx).Model(&models.SenegalCity{})
	if region != "" {
		query = query.Where(like("LOWER(region)"), likePattern(region))
	}
	if priorityOnly {
		query = query.Where("is_priority = ?", true)
	}

	var cities []models.SenegalCity
	if err := query.Order("name").Find(&cities).Error; err != nil {
		return nil, fmt.Errorf("failed to list cities: %w", err)
	}
	return cities, nil
}

// Tracked returns the priority cities polled by ingestion, falling back to
// the built-in list when the table has not been seeded.
func (s *CityService) Tracked(ctx context.Context) ([]models.SenegalCity, error) {
	cities, err := s.List(ctx, "", true)
	if err != nil {
		return nil, err
	}
	if len(cities) > 0 {
		return cities, nil
	}

	for _, c := range database.DefaultCities {
		if c.IsPriority {
			cities = append(cities, c)
		}
	}
	return cities, nil
}

// Find looks a city up by name, ignoring case.
func (s *CityService) Find(ctx context.Context, name string) (*models.SenegalCity, error) {
	name = strings.TrimSpace(name)

	var city models.SenegalCity
	err := s.db.WithContext(ctx).Where("LOWER(name) = ?", strings.ToLower(name)).First(&city).Error
	if err == nil {
		return &city, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to find city: %w", err)
	}

	for _, c := range database.DefaultCities {
		if strings.EqualFold(c.Name, name) {
			c := c
			return &c, nil
		}
	}
	return nil, ErrCityNotFound
}
