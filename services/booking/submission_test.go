package booking

import (
	"context"
	"errors"
	"testing"
	"time"

	"fleetbooking/models"
	"fleetbooking/services/fleet"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransitionTable(t *testing.T) {
	allowed := [][2]models.SubmissionStatus{
		{models.SubmissionIdle, models.SubmissionSubmitting},
		{models.SubmissionSubmitting, models.SubmissionSucceeded},
		{models.SubmissionSubmitting, models.SubmissionFailed},
		{models.SubmissionFailed, models.SubmissionIdle},
	}
	for _, pair := range allowed {
		assert.NoError(t, transition(pair[0], pair[1]), "%s -> %s", pair[0], pair[1])
	}

	rejected := [][2]models.SubmissionStatus{
		{models.SubmissionIdle, models.SubmissionSucceeded},
		{models.SubmissionSubmitting, models.SubmissionSubmitting},
		{models.SubmissionSucceeded, models.SubmissionIdle},
		{models.SubmissionFailed, models.SubmissionSucceeded},
	}
	for _, pair := range rejected {
		err := transition(pair[0], pair[1])
		var te *TransitionError
		assert.True(t, errors.As(err, &te), "%s -> %s", pair[0], pair[1])
	}
}

func TestSubmit_CreatesBookingAndDiscardsSession(t *testing.T) {
	env := newTestEnv(t, &fakeFleet{
		vehicles: threeVehicles(),
		partner:  partnerP1(),
		created:  &models.CreatedBooking{ID: "B42"},
	})
	env.svc.Now = func() time.Time { return time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC) }
	ctx := context.Background()
	session := driveToSummary(t, env, "")

	result, err := env.svc.Submit(ctx, testCaller, session.SessionID)
	require.NoError(t, err)

	assert.Equal(t, models.SubmissionSucceeded, result.Status)
	assert.Equal(t, models.Notification{Level: "success", Message: "Booking created"}, result.Notification)
	assert.Equal(t, "/bookings", result.Redirect)
	require.NotNil(t, result.Booking)
	assert.Equal(t, "B42", result.Booking.ID)

	calls := env.fleet.calls()
	require.Len(t, calls, 1)
	assert.Equal(t, models.BookingRequest{
		PartnerID:     "P1",
		ServiceID:     "S1",
		VehicleID:     "V2",
		ScheduledDate: "2025-06-10",
		ScheduledTime: "09:00",
		EndTime:       "10:00",
	}, calls[0])

	_, err = env.svc.GetSession(ctx, testCaller, session.SessionID)
	assert.ErrorIs(t, err, ErrSessionNotFound)

	records, err := env.records.GetBySessionID(ctx, session.SessionID)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, models.SubmissionSucceeded, records[0].Outcome)
	assert.Equal(t, "B42", records[0].BookingID)

	require.Len(t, env.reminders.scheduled, 1)
	assert.Equal(t, time.Date(2025, 6, 9, 9, 0, 0, 0, time.UTC), env.reminders.scheduled[0].fireAt)
	assert.Equal(t, "B42", env.reminders.scheduled[0].payload.BookingID)

	require.Len(t, env.notifier.notices, 1)
	assert.Equal(t, "tenant-1", env.notifier.notices[0].TenantID)
}

func TestSubmit_ForwardsNotes(t *testing.T) {
	env := newTestEnv(t, &fakeFleet{vehicles: threeVehicles(), partner: partnerP1()})
	session := driveToSummary(t, env, "Key is at reception")

	_, err := env.svc.Submit(context.Background(), testCaller, session.SessionID)
	require.NoError(t, err)

	calls := env.fleet.calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "Key is at reception", calls[0].CustomerNotes)
}

func TestSubmit_SkipsReminderForImminentBookings(t *testing.T) {
	env := newTestEnv(t, &fakeFleet{vehicles: threeVehicles(), partner: partnerP1()})
	env.svc.Now = func() time.Time { return time.Date(2025, 6, 10, 8, 0, 0, 0, time.UTC) }
	session := driveToSummary(t, env, "")

	_, err := env.svc.Submit(context.Background(), testCaller, session.SessionID)
	require.NoError(t, err)
	assert.Empty(t, env.reminders.scheduled)
}

func TestSubmit_BackendFailureKeepsSelection(t *testing.T) {
	env := newTestEnv(t, &fakeFleet{
		vehicles:  threeVehicles(),
		partner:   partnerP1(),
		createErr: &fleet.APIError{StatusCode: 409, Message: "Slot no longer available"},
	})
	ctx := context.Background()
	session := driveToSummary(t, env, "")

	result, err := env.svc.Submit(ctx, testCaller, session.SessionID)
	require.Error(t, err)
	var apiErr *fleet.APIError
	assert.True(t, errors.As(err, &apiErr))

	require.NotNil(t, result)
	assert.Equal(t, models.SubmissionFailed, result.Status)
	assert.Equal(t, models.Notification{Level: "error", Message: "Slot no longer available"}, result.Notification)
	require.NotNil(t, result.Session)
	assert.Equal(t, models.SubmissionIdle, result.Session.Submission)
	assert.Empty(t, result.Redirect)

	stored, err := env.svc.GetSession(ctx, testCaller, session.SessionID)
	require.NoError(t, err)
	assert.Equal(t, models.SubmissionIdle, stored.Submission)
	assert.Equal(t, session.Selection, stored.Selection)
	assert.Equal(t, session.CurrentStep, stored.CurrentStep)

	records, err := env.records.GetBySessionID(ctx, session.SessionID)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, models.SubmissionFailed, records[0].Outcome)
	assert.Empty(t, env.reminders.scheduled)
	assert.Empty(t, env.notifier.notices)

	// The user may retry straight away.
	env.fleet.mu.Lock()
	env.fleet.createErr = nil
	env.fleet.mu.Unlock()
	result, err = env.svc.Submit(ctx, testCaller, session.SessionID)
	require.NoError(t, err)
	assert.Equal(t, models.SubmissionSucceeded, result.Status)
	assert.Len(t, env.fleet.calls(), 2)
}

func TestSubmit_FallbackMessageWithoutBackendText(t *testing.T) {
	env := newTestEnv(t, &fakeFleet{
		vehicles:  threeVehicles(),
		partner:   partnerP1(),
		createErr: errors.New("connection reset by peer"),
	})
	session := driveToSummary(t, env, "")

	result, err := env.svc.Submit(context.Background(), testCaller, session.SessionID)
	require.Error(t, err)
	require.NotNil(t, result)
	assert.Equal(t, "Unable to create the booking. Please try again.", result.Notification.Message)
}

func TestSubmit_DoubleSubmitCallsBackendOnce(t *testing.T) {
	fl := &fakeFleet{
		vehicles: threeVehicles(),
		partner:  partnerP1(),
		entered:  make(chan struct{}, 1),
		release:  make(chan struct{}),
	}
	env := newTestEnv(t, fl)
	ctx := context.Background()
	session := driveToSummary(t, env, "")

	type outcome struct {
		result *models.SubmissionResult
		err    error
	}
	first := make(chan outcome, 1)
	go func() {
		r, err := env.svc.Submit(ctx, testCaller, session.SessionID)
		first <- outcome{r, err}
	}()

	<-fl.entered

	_, err := env.svc.Submit(ctx, testCaller, session.SessionID)
	assert.ErrorIs(t, err, ErrSubmissionInProgress)

	// Edits are refused while the call is in flight.
	_, err = env.svc.SetNotes(ctx, testCaller, session.SessionID, "late edit")
	assert.ErrorIs(t, err, ErrSubmissionInProgress)

	close(fl.release)
	got := <-first
	require.NoError(t, got.err)
	assert.Equal(t, models.SubmissionSucceeded, got.result.Status)

	// A late third click finds the session already discarded.
	_, err = env.svc.Submit(ctx, testCaller, session.SessionID)
	assert.ErrorIs(t, err, ErrSessionNotFound)

	assert.Len(t, fl.calls(), 1)
}

func TestSubmit_OnlyFromSummary(t *testing.T) {
	env := newTestEnv(t, &fakeFleet{vehicles: threeVehicles()})
	ctx := context.Background()

	session, err := env.svc.StartSession(ctx, testCaller, "P1", "")
	require.NoError(t, err)

	_, err = env.svc.Submit(ctx, testCaller, session.SessionID)
	assert.ErrorIs(t, err, ErrNotOnSummary)
	assert.Empty(t, env.fleet.calls())
}

func TestSubmit_IgnoresStaleSubmittingMarker(t *testing.T) {
	env := newTestEnv(t, &fakeFleet{vehicles: threeVehicles(), partner: partnerP1()})
	ctx := context.Background()
	session := driveToSummary(t, env, "")

	// Simulate a worker that died after marking the session.
	stored, err := env.store.Get(ctx, session.SessionID)
	require.NoError(t, err)
	stored.Submission = models.SubmissionSubmitting
	stored.UpdatedAt = time.Now().Add(-time.Hour)
	require.NoError(t, env.store.Save(ctx, stored))

	_, err = env.svc.SetNotes(ctx, testCaller, session.SessionID, "still editable")
	require.NoError(t, err)

	result, err := env.svc.Submit(ctx, testCaller, session.SessionID)
	require.NoError(t, err)
	assert.Equal(t, models.SubmissionSucceeded, result.Status)
}
