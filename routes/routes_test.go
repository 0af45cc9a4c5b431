package routes

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"fleetbooking/handlers"
	"fleetbooking/utils"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
)

func okHandler(name string) gin.HandlerFunc {
	return func(c *gin.Context) { c.String(http.StatusOK, name) }
}

func testBundle() *handlers.HandlerBundle {
	health := &handlers.HealthHandler{Status: func() utils.HealthStatus {
		return utils.HealthStatus{Redis: true, CheckedAt: time.Now()}
	}}
	return &handlers.HandlerBundle{
		StartSession:    okHandler("start"),
		GetSession:      okHandler("get"),
		SelectVehicle:   okHandler("vehicle"),
		SelectService:   okHandler("service"),
		SelectSlot:      okHandler("slot"),
		SetNotes:        okHandler("notes"),
		NextStep:        okHandler("next"),
		PreviousStep:    okHandler("previous"),
		RestartSession:  okHandler("restart"),
		SubmitBooking:   okHandler("submit"),
		CancelSession:   okHandler("cancel"),
		ListSubmissions: okHandler("submissions"),
		Health:          health.Health,
	}
}

func TestRegisterRoutes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	authCalls := 0
	RegisterRoutes(r, testBundle(), Options{
		Auth:     func(c *gin.Context) { authCalls++; c.Next() },
		Gatherer: prometheus.NewRegistry(),
	})

	cases := []struct{ method, path, want string }{
		{http.MethodPost, "/api/partners/P1/booking-sessions", "start"},
		{http.MethodGet, "/api/booking-sessions/s-1", "get"},
		{http.MethodPut, "/api/booking-sessions/s-1/vehicle", "vehicle"},
		{http.MethodPut, "/api/booking-sessions/s-1/service", "service"},
		{http.MethodPut, "/api/booking-sessions/s-1/slot", "slot"},
		{http.MethodPut, "/api/booking-sessions/s-1/notes", "notes"},
		{http.MethodPost, "/api/booking-sessions/s-1/next", "next"},
		{http.MethodPost, "/api/booking-sessions/s-1/previous", "previous"},
		{http.MethodPost, "/api/booking-sessions/s-1/restart", "restart"},
		{http.MethodPost, "/api/booking-sessions/s-1/submit", "submit"},
		{http.MethodDelete, "/api/booking-sessions/s-1", "cancel"},
		{http.MethodGet, "/api/booking-submissions", "submissions"},
	}
	for _, tc := range cases {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(tc.method, tc.path, nil))
		assert.Equal(t, http.StatusOK, w.Code, "%s %s", tc.method, tc.path)
		assert.Equal(t, tc.want, w.Body.String(), "%s %s", tc.method, tc.path)
	}
	assert.Equal(t, len(cases), authCalls)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, len(cases), authCalls)
}

func TestCorsConfig(t *testing.T) {
	assert.True(t, corsConfig("").AllowAllOrigins)
	assert.True(t, corsConfig("*").AllowAllOrigins)

	cfg := corsConfig("https://app.example.com, https://admin.example.com")
	assert.False(t, cfg.AllowAllOrigins)
	assert.True(t, cfg.AllowCredentials)
	assert.Equal(t, []string{"https://app.example.com", "https://admin.example.com"}, cfg.AllowOrigins)
}
