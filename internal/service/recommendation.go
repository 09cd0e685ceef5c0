package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fagaru/fagaru/backend/internal/heat"
	"github.com/fagaru/fagaru/backend/internal/models"
	"github.com/fagaru/fagaru/backend/internal/types"
)

type RecommendationService struct {
	db       *gorm.DB
	profiles IProfileService
}

var _ IRecommendationService = (*RecommendationService)(nil)

func NewRecommendationService(db *gorm.DB, profiles IProfileService) *RecommendationService {
	return &RecommendationService{db: db, profiles: profiles}
}

// List returns active recommendations matching all three keys exactly,
// ordered by display order then title.
func (s *RecommendationService) List(ctx context.Context, profileType string, level heat.Level, language string) ([]models.Recommendation, error) {
	var recs []models.Recommendation
	err := s.db.WithContext(ctx).
		Where("profile_type = ? AND alert_level = ? AND language = ? AND is_active = ?", profileType, level, language, true).
		Order("sort_order, title").
		Find(&recs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list recommendations: %w", err)
	}
	return recs, nil
}

// Personalized uses the profile type and language of userID, or the general
// French set when the user has no profile.
func (s *RecommendationService) Personalized(ctx context.Context, userID uuid.UUID, level heat.Level) (*types.PersonalizedRecommendations, error) {
	if level == "" {
		level = heat.Yellow
	}

	profileType, language := models.ProfileGeneral, models.LanguageFrench
	profile, err := s.profiles.Find(ctx, userID)
	switch {
	case err == nil:
		profileType, language = profile.ProfileType, profile.Language
	case !errors.Is(err, ErrProfileNotFound):
		return nil, err
	}

	recs, err := s.List(ctx, profileType, level, language)
	if err != nil {
		return nil, err
	}
	return &types.PersonalizedRecommendations{
		ProfileType:     profileType,
		AlertLevel:      level,
		Language:        language,
		Recommendations: recs,
	}, nil
}
