package api

import (
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/fagaru/fagaru/backend/internal/middleware"
	"github.com/fagaru/fagaru/backend/internal/service"
	"github.com/fagaru/fagaru/backend/internal/types"
)

// UserHandler serves registration, login and the caller's profile.
type UserHandler struct {
	auth     service.IAuthService
	profiles service.IProfileService
}

func NewUserHandler(auth service.IAuthService, profiles service.IProfileService) *UserHandler {
	return &UserHandler{auth: auth, profiles: profiles}
}

func (h *UserHandler) Register(c *gin.Context) {
	var req types.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, err)
		return
	}

	user, token, err := h.auth.Register(c.Request.Context(), &req)
	if errors.Is(err, service.ErrUsernameTaken) {
		respondFields(c, FieldErrors{"username": err.Error()})
		return
	}
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, types.AuthResponse{
		Message: "Inscription réussie",
		User:    types.NewUserResponse(user),
		Token:   token,
	})
}

func (h *UserHandler) Login(c *gin.Context) {
	var req types.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, err)
		return
	}

	user, token, err := h.auth.Login(c.Request.Context(), req.Username, req.Password)
	if errors.Is(err, service.ErrInvalidCredentials) {
		respondFields(c, FieldErrors{"non_field_errors": "Identifiants invalides"})
		return
	}
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, types.AuthResponse{
		Message: "Connexion réussie",
		User:    types.NewUserResponse(user),
		Token:   token,
	})
}

func (h *UserHandler) Logout(c *gin.Context) {
	claims, ok := middleware.Claims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}
	if err := h.auth.Logout(c.Request.Context(), claims); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Déconnexion réussie"})
}

func (h *UserHandler) GetProfile(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	user, err := h.auth.GetUserByID(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, types.NewUserResponse(user))
}

// UpdateProfile applies a partial update, creating the profile when absent.
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	var req types.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, err)
		return
	}

	profile, err := h.profiles.Update(c.Request.Context(), userID, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

func (h *UserHandler) UpdateLocation(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	var req types.LocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, err)
		return
	}

	fields := FieldErrors{}
	lat, msg := parseCoordinate(req.Latitude, -90, 90)
	if msg != "" {
		fields["latitude"] = msg
	}
	lng, msg := parseCoordinate(req.Longitude, -180, 180)
	if msg != "" {
		fields["longitude"] = msg
	}
	if len(fields) > 0 {
		respondFields(c, fields)
		return
	}

	profile, err := h.profiles.UpdateLocation(c.Request.Context(), userID, lat, lng, strings.TrimSpace(req.City))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Localisation mise à jour",
		"profile": profile,
	})
}

func (h *UserHandler) Stats(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	stats, err := h.profiles.Stats(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// parseCoordinate accepts a JSON number or numeric string within [lo, hi].
// The returned message is empty on success.
func parseCoordinate(v any, lo, hi float64) (float64, string) {
	var f float64
	switch x := v.(type) {
	case nil:
		return 0, "This field is required."
	case float64:
		f = x
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil {
			return 0, "A valid number is required."
		}
		f = parsed
	default:
		return 0, "A valid number is required."
	}

	if math.IsNaN(f) || f < lo || f > hi {
		return 0, fmt.Sprintf("Ensure this value is between %g and %g.", lo, hi)
	}
	return f, ""
}
