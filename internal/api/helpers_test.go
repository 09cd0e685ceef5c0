package api_test

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/fagaru/fagaru/backend/internal/api"
	"github.com/fagaru/fagaru/backend/internal/mocks"
	"github.com/fagaru/fagaru/backend/internal/service"
	"github.com/fagaru/fagaru/backend/internal/types"
)

const testToken = "valid-token"

var testNow = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	if err := api.RegisterValidators(); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

type testServer struct {
	router          *gin.Engine
	userID          uuid.UUID
	auth            *mocks.MockAuthService
	profiles        *mocks.MockProfileService
	weather         *mocks.MockWeatherService
	cities          *mocks.MockCityService
	alerts          *mocks.MockAlertService
	notifications   *mocks.MockNotificationService
	recommendations *mocks.MockRecommendationService
	reports         *mocks.MockReportService
}

// newTestServer builds the full route table over mocks. testToken is
// accepted as a bearer token for userID; any other token is rejected.
func newTestServer(t *testing.T) *testServer {
	t.Helper()

	s := &testServer{
		router:          gin.New(),
		userID:          uuid.New(),
		auth:            new(mocks.MockAuthService),
		profiles:        new(mocks.MockProfileService),
		weather:         new(mocks.MockWeatherService),
		cities:          new(mocks.MockCityService),
		alerts:          new(mocks.MockAlertService),
		notifications:   new(mocks.MockNotificationService),
		recommendations: new(mocks.MockRecommendationService),
		reports:         new(mocks.MockReportService),
	}

	claims := &types.TokenClaims{UserID: s.userID, Username: "awa"}
	claims.ID = uuid.NewString()
	s.auth.On("ValidateToken", mock.Anything, testToken).Return(claims, nil).Maybe()
	s.auth.On("ValidateToken", mock.Anything, mock.Anything).Return(nil, service.ErrInvalidToken).Maybe()

	err := api.RegisterRoutes(s.router, api.Services{
		Auth:            s.auth,
		Profiles:        s.profiles,
		Weather:         s.weather,
		Cities:          s.cities,
		Alerts:          s.alerts,
		Notifications:   s.notifications,
		Recommendations: s.recommendations,
		Reports:         s.reports,
	}, api.RouteOptions{Clock: clockwork.NewFakeClockAt(testNow)})
	require.NoError(t, err)

	t.Cleanup(func() {
		s.profiles.AssertExpectations(t)
		s.weather.AssertExpectations(t)
		s.cities.AssertExpectations(t)
		s.alerts.AssertExpectations(t)
		s.notifications.AssertExpectations(t)
		s.recommendations.AssertExpectations(t)
		s.reports.AssertExpectations(t)
	})
	return s
}

func (s *testServer) do(t *testing.T, method, path string, body any, authed bool) *httptest.ResponseRecorder {
	t.Helper()
	return s.doWithHeaders(t, method, path, body, authed, nil)
}

func (s *testServer) doWithHeaders(t *testing.T, method, path string, body any, authed bool, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		switch b := body.(type) {
		case string:
			buf.WriteString(b)
		default:
			require.NoError(t, json.NewEncoder(&buf).Encode(b))
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if authed {
		req.Header.Set("Authorization", "Bearer "+testToken)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body), w.Body.String())
	return body
}

func fields(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	body := decode(t, w)
	require.Equal(t, "validation failed", body["error"])
	f, ok := body["fields"].(map[string]any)
	require.True(t, ok, "fields missing in %s", w.Body.String())
	return f
}
