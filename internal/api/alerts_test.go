package api_test

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/fagaru/fagaru/backend/internal/heat"
	"github.com/fagaru/fagaru/backend/internal/models"
	"github.com/fagaru/fagaru/backend/internal/service"
	"github.com/fagaru/fagaru/backend/internal/types"
)

func sampleAlert(level heat.Level, cities ...string) models.Alert {
	end := testNow.Add(24 * time.Hour)
	return models.Alert{
		ID:             uuid.New(),
		Title:          "Alerte",
		Message:        "Chaleur",
		AlertType:      models.AlertTypeHeatWave,
		Severity:       level,
		AffectedCities: cities,
		StartTime:      testNow,
		EndTime:        &end,
		IsActive:       true,
	}
}

func TestActiveAlerts(t *testing.T) {
	s := newTestServer(t)
	s.alerts.On("Active", mock.Anything, "Matam").
		Return([]models.Alert{sampleAlert(heat.Red, "Matam"), sampleAlert(heat.Orange)}, nil).Once()

	w := s.do(t, http.MethodGet, "/api/v1/alerts/active?city=Matam", nil, false)

	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.EqualValues(t, 2, body["count"])
	alerts := body["alerts"].([]any)
	first := alerts[0].(map[string]any)
	assert.Equal(t, "red", first["severity"])
	assert.Equal(t, heat.Red.Color(), first["severity_color"])
	second := alerts[1].(map[string]any)
	assert.Equal(t, []any{}, second["affected_cities"])
}

func TestGetAlert(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		s := newTestServer(t)
		alert := sampleAlert(heat.Yellow, "Podor")
		s.alerts.On("Get", mock.Anything, alert.ID).Return(&alert, nil).Once()

		w := s.do(t, http.MethodGet, "/api/v1/alerts/"+alert.ID.String(), nil, false)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "Chaleur", decode(t, w)["message"])
	})

	t.Run("unknown id", func(t *testing.T) {
		s := newTestServer(t)
		s.alerts.On("Get", mock.Anything, mock.Anything).Return(nil, service.ErrAlertNotFound).Once()

		w := s.do(t, http.MethodGet, "/api/v1/alerts/"+uuid.NewString(), nil, false)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("malformed id", func(t *testing.T) {
		s := newTestServer(t)

		w := s.do(t, http.MethodGet, "/api/v1/alerts/not-a-uuid", nil, false)

		assert.Equal(t, http.StatusNotFound, w.Code)
		s.alerts.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
	})
}

func TestStaticAlertRoutesWinOverID(t *testing.T) {
	s := newTestServer(t)
	s.alerts.On("Statistics", mock.Anything).Return(&types.AlertStatistics{TotalActiveAlerts: 3, Red: 1}, nil).Once()

	w := s.do(t, http.MethodGet, "/api/v1/alerts/statistics", nil, false)

	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 3, decode(t, w)["total_active_alerts"])
}

func TestAlertsForCity(t *testing.T) {
	s := newTestServer(t)
	s.alerts.On("ForCity", mock.Anything, "Kaolack").Return([]models.Alert{}, nil).Once()

	w := s.do(t, http.MethodGet, "/api/v1/alerts/city/Kaolack", nil, false)

	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, "Kaolack", body["city"])
	assert.Empty(t, body["alerts"])
}

func TestInternalErrorsAreGeneric(t *testing.T) {
	s := newTestServer(t)
	s.alerts.On("Active", mock.Anything, "").Return(nil, errors.New("connection reset")).Once()

	w := s.do(t, http.MethodGet, "/api/v1/alerts/active", nil, false)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "internal server error", decode(t, w)["error"])
}

func TestNotifications(t *testing.T) {
	t.Run("first page links to the next", func(t *testing.T) {
		s := newTestServer(t)
		rows := make([]models.AlertNotification, 10)
		for i := range rows {
			rows[i] = models.AlertNotification{ID: uuid.New(), UserID: s.userID, SentVia: models.ChannelPush, SentAt: testNow}
		}
		s.notifications.On("List", mock.Anything, s.userID, 10, 0).Return(rows, int64(25), nil).Once()

		w := s.do(t, http.MethodGet, "/api/v1/alerts/notifications", nil, true)

		require.Equal(t, http.StatusOK, w.Code)
		body := decode(t, w)
		assert.EqualValues(t, 25, body["count"])
		assert.Equal(t, "http://example.com/api/v1/alerts/notifications?page=2", body["next"])
		assert.Nil(t, body["previous"])
		assert.Len(t, body["results"], 10)
	})

	t.Run("last page links back", func(t *testing.T) {
		s := newTestServer(t)
		s.notifications.On("List", mock.Anything, s.userID, 10, 20).
			Return([]models.AlertNotification{{ID: uuid.New()}}, int64(21), nil).Once()

		w := s.do(t, http.MethodGet, "/api/v1/alerts/notifications?page=3", nil, true)

		require.Equal(t, http.StatusOK, w.Code)
		body := decode(t, w)
		assert.Nil(t, body["next"])
		assert.Equal(t, "http://example.com/api/v1/alerts/notifications?page=2", body["previous"])
	})

	t.Run("forwarded scheme", func(t *testing.T) {
		tests := []struct {
			proto string
			want  string
		}{
			{"https", "https://example.com/api/v1/alerts/notifications?page=2"},
			{" HTTPS ", "https://example.com/api/v1/alerts/notifications?page=2"},
			{"javascript", "http://example.com/api/v1/alerts/notifications?page=2"},
			{"ftp", "http://example.com/api/v1/alerts/notifications?page=2"},
		}
		for _, tt := range tests {
			t.Run(tt.proto, func(t *testing.T) {
				s := newTestServer(t)
				s.notifications.On("List", mock.Anything, s.userID, 10, 0).
					Return([]models.AlertNotification{{ID: uuid.New()}}, int64(25), nil).Once()

				w := s.doWithHeaders(t, http.MethodGet, "/api/v1/alerts/notifications", nil, true,
					map[string]string{"X-Forwarded-Proto": tt.proto})

				require.Equal(t, http.StatusOK, w.Code)
				assert.Equal(t, tt.want, decode(t, w)["next"])
			})
		}
	})

	t.Run("page past the end", func(t *testing.T) {
		s := newTestServer(t)
		s.notifications.On("List", mock.Anything, s.userID, 10, 40).
			Return([]models.AlertNotification{}, int64(5), nil).Once()

		w := s.do(t, http.MethodGet, "/api/v1/alerts/notifications?page=5", nil, true)

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "invalid page", decode(t, w)["error"])
	})

	t.Run("malformed page", func(t *testing.T) {
		s := newTestServer(t)

		w := s.do(t, http.MethodGet, "/api/v1/alerts/notifications?page=abc", nil, true)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("page size is capped", func(t *testing.T) {
		s := newTestServer(t)
		s.notifications.On("List", mock.Anything, s.userID, 100, 0).
			Return([]models.AlertNotification{}, int64(0), nil).Once()

		w := s.do(t, http.MethodGet, "/api/v1/alerts/notifications?page_size=500", nil, true)

		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestMarkNotificationRead(t *testing.T) {
	t.Run("not owned", func(t *testing.T) {
		s := newTestServer(t)
		id := uuid.New()
		s.notifications.On("MarkRead", mock.Anything, s.userID, id).Return(service.ErrNotificationNotFound).Once()

		w := s.do(t, http.MethodPost, "/api/v1/alerts/notifications/"+id.String()+"/read", nil, true)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("marked", func(t *testing.T) {
		s := newTestServer(t)
		id := uuid.New()
		s.notifications.On("MarkRead", mock.Anything, s.userID, id).Return(nil).Once()

		w := s.do(t, http.MethodPost, "/api/v1/alerts/notifications/"+id.String()+"/read", nil, true)

		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestRecommendations(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		s := newTestServer(t)
		s.recommendations.On("List", mock.Anything, models.ProfileGeneral, heat.Yellow, models.LanguageFrench).
			Return([]models.Recommendation{{Title: "Buvez de l'eau"}}, nil).Once()

		w := s.do(t, http.MethodGet, "/api/v1/alerts/recommendations", nil, false)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Buvez de l'eau")
	})

	t.Run("unknown level", func(t *testing.T) {
		s := newTestServer(t)

		w := s.do(t, http.MethodGet, "/api/v1/alerts/recommendations?alert_level=purple", nil, false)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, fields(t, w), "alert_level")
	})

	t.Run("personalized", func(t *testing.T) {
		s := newTestServer(t)
		s.recommendations.On("Personalized", mock.Anything, s.userID, heat.Red).
			Return(&types.PersonalizedRecommendations{ProfileType: models.ProfileElderly, AlertLevel: heat.Red, Language: "fr"}, nil).Once()

		w := s.do(t, http.MethodGet, "/api/v1/alerts/recommendations/personalized?alert_level=red", nil, true)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, models.ProfileElderly, decode(t, w)["profile_type"])
	})
}

func TestCreateReport(t *testing.T) {
	valid := func() map[string]any {
		return map[string]any{
			"latitude":         16.94,
			"longitude":        -14.95,
			"city":             "Podor",
			"symptoms":         models.SymptomDehydration,
			"temperature_felt": 46.5,
		}
	}

	t.Run("created", func(t *testing.T) {
		s := newTestServer(t)
		s.reports.On("Create", mock.Anything, s.userID, mock.MatchedBy(func(req *types.CreateReportRequest) bool {
			return req.City == "Podor" && *req.TemperatureFelt == 46.5
		})).Return(&models.CommunityReport{ID: uuid.New(), City: "Podor"}, nil).Once()

		w := s.do(t, http.MethodPost, "/api/v1/alerts/reports", valid(), true)

		assert.Equal(t, http.StatusCreated, w.Code)
	})

	t.Run("invalid fields", func(t *testing.T) {
		s := newTestServer(t)
		req := valid()
		req["symptoms"] = "sunburn"
		req["temperature_felt"] = 80
		delete(req, "latitude")

		w := s.do(t, http.MethodPost, "/api/v1/alerts/reports", req, true)

		require.Equal(t, http.StatusBadRequest, w.Code)
		f := fields(t, w)
		assert.Contains(t, f, "symptoms")
		assert.Contains(t, f, "temperature_felt")
		assert.Contains(t, f, "latitude")
	})

	t.Run("wrong type", func(t *testing.T) {
		s := newTestServer(t)
		req := valid()
		req["latitude"] = true

		w := s.do(t, http.MethodPost, "/api/v1/alerts/reports", req, true)

		require.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, fields(t, w), "latitude")
	})
}

func TestListReports(t *testing.T) {
	s := newTestServer(t)
	s.reports.On("List", mock.Anything, mock.MatchedBy(func(f *models.ReportFilters) bool {
		return f.City == "Dakar" && f.VerifiedOnly && f.UserID == nil && f.Limit == 10
	})).Return([]models.CommunityReport{}, int64(0), nil).Once()

	w := s.do(t, http.MethodGet, "/api/v1/alerts/reports?city=Dakar&verified=true", nil, true)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestMyReports(t *testing.T) {
	s := newTestServer(t)
	s.reports.On("List", mock.Anything, mock.MatchedBy(func(f *models.ReportFilters) bool {
		return f.UserID != nil && *f.UserID == s.userID
	})).Return([]models.CommunityReport{}, int64(0), nil).Once()

	w := s.do(t, http.MethodGet, "/api/v1/alerts/reports/my", nil, true)

	assert.Equal(t, http.StatusOK, w.Code)
}
