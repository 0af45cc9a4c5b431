package booking

import (
	"context"
	"fmt"
	"time"

	recordsRepo "fleetbooking/database/repository/records"
	sessionRepo "fleetbooking/database/repository/session"
	"fleetbooking/metrics"
	"fleetbooking/models"
	"fleetbooking/services/fleet"
	"fleetbooking/services/notification"
	"fleetbooking/services/tasks"

	"go.uber.org/zap"
)

// BookingWizardService drives booking wizard sessions, one per workflow instance.
type BookingWizardService interface {
	StartSession(ctx context.Context, caller models.Caller, partnerID, serviceID string) (*models.BookingSession, error)
	GetSession(ctx context.Context, caller models.Caller, sessionID string) (*models.BookingSession, error)
	SelectVehicle(ctx context.Context, caller models.Caller, sessionID, vehicleID string) (*models.BookingSession, error)
	SelectService(ctx context.Context, caller models.Caller, sessionID, serviceID string) (*models.BookingSession, error)
	SelectSlot(ctx context.Context, caller models.Caller, sessionID, date string, slot models.TimeSlot) (*models.BookingSession, error)
	SetNotes(ctx context.Context, caller models.Caller, sessionID, notes string) (*models.BookingSession, error)
	Next(ctx context.Context, caller models.Caller, sessionID string) (*models.BookingSession, error)
	Previous(ctx context.Context, caller models.Caller, sessionID string) (*models.BookingSession, error)
	Restart(ctx context.Context, caller models.Caller, sessionID string) (*models.BookingSession, error)
	Submit(ctx context.Context, caller models.Caller, sessionID string) (*models.SubmissionResult, error)
	CancelSession(ctx context.Context, caller models.Caller, sessionID string) error
	ListSubmissions(ctx context.Context, caller models.Caller, limit int64) ([]models.SubmissionRecord, error)
}

// Options tune the wizard. Zero values fall back to defaults.
type Options struct {
	BookingsListPath string
	SubmitTimeout    time.Duration
	SubmitLockTTL    time.Duration
	ReminderLeadTime time.Duration
	Location         *time.Location
}

// Validate rejects a submit timeout that does not fit inside the lock TTL.
func (o Options) Validate() error {
	timeout, lock := o.SubmitTimeout, o.SubmitLockTTL
	if timeout <= 0 {
		timeout = defaultSubmitTimeout
	}
	if lock <= 0 {
		lock = defaultSubmitLockTTL
	}
	if timeout >= lock {
		return fmt.Errorf("submit timeout %s must be shorter than the submit lock TTL %s", timeout, lock)
	}
	return nil
}

const (
	MaxNotesLength = 500

	defaultSubmissionsLimit = 20
	maxSubmissionsLimit     = 100

	defaultBookingsListPath = "/bookings"
	defaultSubmitTimeout    = 20 * time.Second
	defaultSubmitLockTTL    = 30 * time.Second

	successMessage  = "Booking created"
	fallbackFailure = "Unable to create the booking. Please try again."
)

// DefaultBookingWizardService implements BookingWizardService.
// Records, Notifier, Reminders and Metrics are optional.
type DefaultBookingWizardService struct {
	Store     sessionRepo.SessionStore
	Fleet     fleet.FleetAPI
	Records   recordsRepo.SubmissionRecordRepository
	Notifier  notification.NotificationService
	Reminders tasks.ReminderScheduler
	Metrics   *metrics.BookingMetrics
	Logger    *zap.Logger
	Options   Options

	// Now is overridable in tests.
	Now func() time.Time
}

func (s *DefaultBookingWizardService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *DefaultBookingWizardService) logger() *zap.Logger {
	if s.Logger == nil {
		return zap.NewNop()
	}
	return s.Logger
}

func (s *DefaultBookingWizardService) bookingsListPath() string {
	if s.Options.BookingsListPath == "" {
		return defaultBookingsListPath
	}
	return s.Options.BookingsListPath
}

// submitTimeout is kept below the lock TTL: the lock and the submitting
// marker must outlive the backend call.
func (s *DefaultBookingWizardService) submitTimeout() time.Duration {
	timeout := s.Options.SubmitTimeout
	if timeout <= 0 {
		timeout = defaultSubmitTimeout
	}
	if lock := s.submitLockTTL(); timeout >= lock {
		timeout = lock - lock/4
	}
	return timeout
}

func (s *DefaultBookingWizardService) submitLockTTL() time.Duration {
	if s.Options.SubmitLockTTL <= 0 {
		return defaultSubmitLockTTL
	}
	return s.Options.SubmitLockTTL
}

func (s *DefaultBookingWizardService) location() *time.Location {
	if s.Options.Location == nil {
		return time.UTC
	}
	return s.Options.Location
}
