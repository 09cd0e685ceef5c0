package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jonboulle/clockwork"

	"github.com/fagaru/fagaru/backend/internal/middleware"
	"github.com/fagaru/fagaru/backend/internal/service"
)

// Services bundles the service layer consumed by the handlers.
type Services struct {
	Auth            service.IAuthService
	Profiles        service.IProfileService
	Weather         service.IWeatherService
	Cities          service.ICityService
	Alerts          service.IAlertService
	Notifications   service.INotificationService
	Recommendations service.IRecommendationService
	Reports         service.IReportService
}

// RouteOptions tunes the cross-cutting parts of the route table.
type RouteOptions struct {
	Clock clockwork.Clock
	// AuthRateLimit is the per-IP limit per minute on login and register; 0 disables it.
	AuthRateLimit int
	// ReportLimiter limits report submissions per user; nil disables it.
	ReportLimiter *middleware.RateLimiter
	// Ready backs /readyz when set.
	Ready ReadinessCheck
}

// RegisterRoutes registers all API routes
func RegisterRoutes(router *gin.Engine, svc Services, opts RouteOptions) error {
	if err := RegisterValidators(); err != nil {
		return err
	}
	if opts.Clock == nil {
		opts.Clock = clockwork.NewRealClock()
	}

	router.GET("/health", HealthCheck)
	if opts.Ready != nil {
		router.GET("/readyz", Readiness(opts.Ready))
	}

	requireAuth := middleware.AuthMiddleware(svc.Auth)
	var authLimit gin.HandlerFunc = func(c *gin.Context) { c.Next() }
	if opts.AuthRateLimit > 0 {
		authLimit = middleware.IPRateLimit(opts.AuthRateLimit, time.Minute)
	}
	var reportLimit gin.HandlerFunc = func(c *gin.Context) { c.Next() }
	if opts.ReportLimiter != nil {
		reportLimit = opts.ReportLimiter.RateLimitMiddleware()
	}

	v1 := router.Group("/api/v1")
	v1.GET("/", Index)

	userHandler := NewUserHandler(svc.Auth, svc.Profiles)
	users := v1.Group("/users")
	{
		users.POST("/register", authLimit, userHandler.Register)
		users.POST("/login", authLimit, userHandler.Login)
		users.POST("/logout", requireAuth, userHandler.Logout)
		users.GET("/profile", requireAuth, userHandler.GetProfile)
		users.PUT("/profile/update", requireAuth, userHandler.UpdateProfile)
		users.PATCH("/profile/update", requireAuth, userHandler.UpdateProfile)
		users.POST("/profile/location", requireAuth, userHandler.UpdateLocation)
		users.GET("/stats", requireAuth, userHandler.Stats)
	}

	weatherHandler := NewWeatherHandler(svc.Weather, svc.Cities, opts.Clock)
	weather := v1.Group("/weather")
	{
		weather.GET("/current", weatherHandler.Current)
		weather.GET("/city/:name", weatherHandler.City)
		weather.GET("/city/:name/history", weatherHandler.History)
		weather.GET("/city/:name/forecast", weatherHandler.Forecast)
		weather.GET("/alerts", weatherHandler.Alerts)
		weather.GET("/statistics", weatherHandler.Statistics)
		weather.GET("/cities", weatherHandler.Cities)
		weather.GET("/data", weatherHandler.Data)
		weather.POST("/update", requireAuth, weatherHandler.Update)
		weather.GET("/test", weatherHandler.Test)
	}

	alertHandler := NewAlertHandler(svc.Alerts, svc.Notifications, svc.Recommendations, svc.Reports)
	alerts := v1.Group("/alerts")
	{
		alerts.GET("/active", alertHandler.Active)
		alerts.GET("/statistics", alertHandler.Statistics)
		alerts.GET("/city/:name", alertHandler.ForCity)
		alerts.GET("/notifications", requireAuth, alertHandler.Notifications)
		alerts.POST("/notifications/:id/read", requireAuth, alertHandler.MarkNotificationRead)
		alerts.GET("/recommendations", alertHandler.Recommendations)
		alerts.GET("/recommendations/personalized", requireAuth, alertHandler.PersonalizedRecommendations)
		alerts.GET("/reports", requireAuth, alertHandler.ListReports)
		alerts.POST("/reports", requireAuth, reportLimit, alertHandler.CreateReport)
		alerts.GET("/reports/my", requireAuth, alertHandler.MyReports)
		alerts.GET("/:id", alertHandler.Get)
	}

	return nil
}
