package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/fagaru/fagaru/backend/internal/logging"
)

func TestErrorHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(ErrorHandler(logging.Discard()))
	router.GET("/panic", func(c *gin.Context) {
		panic("boom")
	})
	router.GET("/error", func(c *gin.Context) {
		_ = c.Error(errors.New("database is down"))
	})
	router.GET("/handled", func(c *gin.Context) {
		_ = c.Error(errors.New("logged only"))
		c.JSON(http.StatusNotFound, gin.H{"error": "alert not found"})
	})

	tests := []struct {
		path     string
		wantCode int
		wantBody string
	}{
		{"/panic", http.StatusInternalServerError, `{"error":"internal server error"}`},
		{"/error", http.StatusInternalServerError, `{"error":"internal server error"}`},
		{"/handled", http.StatusNotFound, `{"error":"alert not found"}`},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.wantCode, w.Code)
			assert.JSONEq(t, tt.wantBody, w.Body.String())
		})
	}
}
