package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fagaru/fagaru/backend/internal/models"
	"github.com/fagaru/fagaru/backend/internal/types"
)

// ProfileService handles user profile operations
type ProfileService struct {
	db *gorm.DB
}

// Ensure ProfileService implements IProfileService
var _ IProfileService = (*ProfileService)(nil)

// NewProfileService creates a new ProfileService instance
func NewProfileService(db *gorm.DB) *ProfileService {
	return &ProfileService{
		db: db,
	}
}

// Find returns the user's profile or ErrProfileNotFound.
func (s *ProfileService) Find(ctx context.Context, userID uuid.UUID) (*models.UserProfile, error) {
	var profile models.UserProfile
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&profile).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrProfileNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return &profile, nil
}

// GetOrCreate returns the user's profile, creating one with the defaults of
// models.NewUserProfile when absent. The boolean reports whether it was created.
func (s *ProfileService) GetOrCreate(ctx context.Context, userID uuid.UUID) (*models.UserProfile, bool, error) {
	profile, err := s.Find(ctx, userID)
	if err == nil {
		return profile, false, nil
	}
	if !errors.Is(err, ErrProfileNotFound) {
		return nil, false, err
	}

	profile = models.NewUserProfile(userID)
	if err := s.db.WithContext(ctx).Create(profile).Error; err != nil {
		return nil, false, fmt.Errorf("failed to create profile: %w", err)
	}
	return profile, true, nil
}

// Update applies a partial update, creating the profile first when absent.
func (s *ProfileService) Update(ctx context.Context, userID uuid.UUID, req *types.UpdateProfileRequest) (*models.UserProfile, error) {
	profile, _, err := s.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.Phone != nil {
		profile.Phone = *req.Phone
	}
	if req.ProfileType != nil {
		profile.ProfileType = *req.ProfileType
	}
	if req.LocationLat != nil {
		profile.LocationLat = req.LocationLat
	}
	if req.LocationLng != nil {
		profile.LocationLng = req.LocationLng
	}
	if req.City != nil {
		profile.City = *req.City
	}
	if req.ReceiveSMS != nil {
		profile.ReceiveSMS = *req.ReceiveSMS
	}
	if req.ReceivePush != nil {
		profile.ReceivePush = *req.ReceivePush
	}
	if req.Language != nil {
		profile.Language = *req.Language
	}

	if err := s.db.WithContext(ctx).Save(profile).Error; err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	return profile, nil
}

// UpdateLocation stores coordinates, and the city when non-empty.
func (s *ProfileService) UpdateLocation(ctx context.Context, userID uuid.UUID, lat, lng float64, city string) (*models.UserProfile, error) {
	profile, err := s.Find(ctx, userID)
	if err != nil {
		return nil, err
	}

	profile.LocationLat = &lat
	profile.LocationLng = &lng
	if city != "" {
		profile.City = city
	}

	if err := s.db.WithContext(ctx).Save(profile).Error; err != nil {
		return nil, fmt.Errorf("failed to update location: %w", err)
	}
	return profile, nil
}

// Stats summarizes the user's notifications and reports.
func (s *ProfileService) Stats(ctx context.Context, userID uuid.UUID) (*types.UserStats, error) {
	db := s.db.WithContext(ctx)

	var user models.User
	if err := db.Preload("Profile").First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	stats := &types.UserStats{
		MemberSince: user.CreatedAt,
		ProfileType: models.ProfileGeneral,
	}
	if user.Profile != nil {
		stats.ProfileType = user.Profile.ProfileType
	}

	if err := db.Model(&models.AlertNotification{}).Where("user_id = ?", userID).Count(&stats.NotificationsReceived).Error; err != nil {
		return nil, fmt.Errorf("failed to count notifications: %w", err)
	}
	if err := db.Model(&models.AlertNotification{}).Where("user_id = ? AND is_read = ?", userID, false).Count(&stats.UnreadNotifications).Error; err != nil {
		return nil, fmt.Errorf("failed to count unread notifications: %w", err)
	}
	if err := db.Model(&models.CommunityReport{}).Where("user_id = ?", userID).Count(&stats.CommunityReports).Error; err != nil {
		return nil, fmt.Errorf("failed to count reports: %w", err)
	}
	return stats, nil
}
