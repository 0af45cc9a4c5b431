package booking

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"fleetbooking/models"
	"fleetbooking/services/fleet"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fleetBackend serves the three fleet endpoints and keeps every booking
// body it receives.
type fleetBackend struct {
	mu     sync.Mutex
	bodies []map[string]any
}

func (b *fleetBackend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch {
	case r.Method == http.MethodGet && r.URL.Path == "/vehicles":
		_ = json.NewEncoder(w).Encode(threeVehicles())
	case r.Method == http.MethodGet && r.URL.Path == "/partners/P1":
		_ = json.NewEncoder(w).Encode(partnerP1())
	case r.Method == http.MethodPost && r.URL.Path == "/partner-bookings":
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		b.mu.Lock()
		b.bodies = append(b.bodies, body)
		b.mu.Unlock()
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":"B7"}`))
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func TestSubmit_WireBodyWithoutNotes(t *testing.T) {
	backend := &fleetBackend{}
	srv := httptest.NewServer(backend)
	defer srv.Close()

	env := newTestEnv(t, &fakeFleet{})
	env.svc.Fleet = fleet.NewClient(srv.URL, time.Second, zap.NewNop())
	env.svc.Now = func() time.Time { return time.Date(2025, 6, 20, 8, 0, 0, 0, time.UTC) }
	ctx := context.Background()

	session, err := env.svc.StartSession(ctx, testCaller, "P1", "")
	require.NoError(t, err)
	id := session.SessionID

	_, err = env.svc.SelectVehicle(ctx, testCaller, id, "V2")
	require.NoError(t, err)
	_, err = env.svc.Next(ctx, testCaller, id)
	require.NoError(t, err)
	_, err = env.svc.SelectService(ctx, testCaller, id, "S1")
	require.NoError(t, err)
	_, err = env.svc.Next(ctx, testCaller, id)
	require.NoError(t, err)
	_, err = env.svc.SelectSlot(ctx, testCaller, id, "2025-07-01", models.TimeSlot{StartTime: "14:00", EndTime: "15:00"})
	require.NoError(t, err)
	_, err = env.svc.Next(ctx, testCaller, id)
	require.NoError(t, err)

	result, err := env.svc.Submit(ctx, testCaller, id)
	require.NoError(t, err)
	assert.Equal(t, models.SubmissionSucceeded, result.Status)
	require.NotNil(t, result.Booking)
	assert.Equal(t, "B7", result.Booking.ID)

	backend.mu.Lock()
	defer backend.mu.Unlock()
	require.Len(t, backend.bodies, 1)
	assert.Equal(t, map[string]any{
		"partnerId":     "P1",
		"serviceId":     "S1",
		"vehicleId":     "V2",
		"scheduledDate": "2025-07-01",
		"scheduledTime": "14:00",
		"endTime":       "15:00",
	}, backend.bodies[0])
	assert.NotContains(t, backend.bodies[0], "customerNotes")
}
