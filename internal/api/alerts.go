package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/fagaru/fagaru/backend/internal/heat"
	"github.com/fagaru/fagaru/backend/internal/middleware"
	"github.com/fagaru/fagaru/backend/internal/models"
	"github.com/fagaru/fagaru/backend/internal/service"
	"github.com/fagaru/fagaru/backend/internal/types"
)

// AlertHandler serves alerts, notifications, recommendations and community reports.
type AlertHandler struct {
	alerts          service.IAlertService
	notifications   service.INotificationService
	recommendations service.IRecommendationService
	reports         service.IReportService
}

func NewAlertHandler(alerts service.IAlertService, notifications service.INotificationService, recommendations service.IRecommendationService, reports service.IReportService) *AlertHandler {
	return &AlertHandler{
		alerts:          alerts,
		notifications:   notifications,
		recommendations: recommendations,
		reports:         reports,
	}
}

func (h *AlertHandler) Active(c *gin.Context) {
	alerts, err := h.alerts.Active(c.Request.Context(), c.Query("city"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"count":  len(alerts),
		"alerts": types.NewAlertSummaries(alerts),
	})
}

func (h *AlertHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondNotFound(c, service.ErrAlertNotFound.Error())
		return
	}

	alert, err := h.alerts.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, types.NewAlertDetail(alert))
}

func (h *AlertHandler) ForCity(c *gin.Context) {
	city := c.Param("name")
	alerts, err := h.alerts.ForCity(c.Request.Context(), city)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"city":   city,
		"alerts": types.NewAlertSummaries(alerts),
	})
}

func (h *AlertHandler) Statistics(c *gin.Context) {
	stats, err := h.alerts.Statistics(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *AlertHandler) Notifications(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}
	page, ok := parsePage(c)
	if !ok {
		return
	}

	notifications, total, err := h.notifications.List(c.Request.Context(), userID, page.Size, page.Offset())
	if err != nil {
		respondError(c, err)
		return
	}
	respondPage(c, page, total, types.NewNotificationResponses(notifications))
}

func (h *AlertHandler) MarkNotificationRead(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondNotFound(c, service.ErrNotificationNotFound.Error())
		return
	}

	if err := h.notifications.MarkRead(c.Request.Context(), userID, id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Notification marquée comme lue"})
}

// Recommendations filters by profile_type, alert_level and language,
// defaulting to general, yellow and fr.
func (h *AlertHandler) Recommendations(c *gin.Context) {
	level, ok := alertLevelQuery(c)
	if !ok {
		return
	}

	recs, err := h.recommendations.List(c.Request.Context(),
		c.DefaultQuery("profile_type", models.ProfileGeneral),
		level,
		c.DefaultQuery("language", models.LanguageFrench),
	)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, recs)
}

func (h *AlertHandler) PersonalizedRecommendations(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}
	level, ok := alertLevelQuery(c)
	if !ok {
		return
	}

	recs, err := h.recommendations.Personalized(c.Request.Context(), userID, level)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, recs)
}

func (h *AlertHandler) ListReports(c *gin.Context) {
	page, ok := parsePage(c)
	if !ok {
		return
	}
	h.listReports(c, page, &models.ReportFilters{
		City:         c.Query("city"),
		VerifiedOnly: c.Query("verified") == "true",
	})
}

func (h *AlertHandler) MyReports(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}
	page, ok := parsePage(c)
	if !ok {
		return
	}
	h.listReports(c, page, &models.ReportFilters{UserID: &userID})
}

func (h *AlertHandler) listReports(c *gin.Context, page pageRequest, filters *models.ReportFilters) {
	filters.Limit = page.Size
	filters.Offset = page.Offset()

	reports, total, err := h.reports.List(c.Request.Context(), filters)
	if err != nil {
		respondError(c, err)
		return
	}
	respondPage(c, page, total, reports)
}

func (h *AlertHandler) CreateReport(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	var req types.CreateReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, err)
		return
	}

	report, err := h.reports.Create(c.Request.Context(), userID, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, report)
}

// alertLevelQuery reads alert_level, defaulting to yellow.
func alertLevelQuery(c *gin.Context) (heat.Level, bool) {
	raw := strings.TrimSpace(c.Query("alert_level"))
	if raw == "" {
		return heat.Yellow, true
	}
	level, err := heat.ParseLevel(raw)
	if err != nil {
		respondFields(c, FieldErrors{"alert_level": err.Error()})
		return "", false
	}
	return level, true
}
