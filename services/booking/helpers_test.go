package booking

import (
	"context"
	"sync"
	"testing"
	"time"

	recordsRepo "fleetbooking/database/repository/records"
	sessionRepo "fleetbooking/database/repository/session"
	"fleetbooking/metrics"
	"fleetbooking/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

type fakeFleet struct {
	mu sync.Mutex

	vehicles    []models.Vehicle
	vehiclesErr error
	partner     *models.Partner
	partnerErr  error
	created     *models.CreatedBooking
	createErr   error

	// When set, CreateBooking signals entered and waits for release.
	entered chan struct{}
	release chan struct{}

	// Same for ListVehicles; armed with holdListVehicles.
	listEntered chan struct{}
	listRelease chan struct{}

	createCalls []models.BookingRequest
	tokens      []string
}

func (f *fakeFleet) ListVehicles(_ context.Context, token string) ([]models.Vehicle, error) {
	f.mu.Lock()
	f.tokens = append(f.tokens, token)
	entered, release := f.listEntered, f.listRelease
	f.mu.Unlock()

	if entered != nil {
		entered <- struct{}{}
		<-release
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	return f.vehicles, f.vehiclesErr
}

// holdListVehicles makes the next ListVehicles calls block until release
// is closed.
func (f *fakeFleet) holdListVehicles() (entered chan struct{}, release chan struct{}) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listEntered = make(chan struct{}, 1)
	f.listRelease = make(chan struct{})
	return f.listEntered, f.listRelease
}

func (f *fakeFleet) GetPartner(_ context.Context, _ string, partnerID string) (*models.Partner, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.partnerErr != nil {
		return nil, f.partnerErr
	}
	if f.partner == nil {
		return &models.Partner{ID: partnerID}, nil
	}
	return f.partner, nil
}

func (f *fakeFleet) CreateBooking(_ context.Context, _ string, req models.BookingRequest) (*models.CreatedBooking, error) {
	f.mu.Lock()
	f.createCalls = append(f.createCalls, req)
	entered, release := f.entered, f.release
	f.mu.Unlock()

	if entered != nil {
		entered <- struct{}{}
		<-release
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return nil, f.createErr
	}
	if f.created != nil {
		return f.created, nil
	}
	return &models.CreatedBooking{ID: "B1"}, nil
}

func (f *fakeFleet) calls() []models.BookingRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.BookingRequest(nil), f.createCalls...)
}

type fakeNotifier struct {
	mu      sync.Mutex
	notices []models.BookingNotice
}

func (n *fakeNotifier) NotifyBookingCreated(_ context.Context, notice models.BookingNotice) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.notices = append(n.notices, notice)
	return nil
}

func (n *fakeNotifier) SendBookingReminder(context.Context, models.ReminderPayload) error {
	return nil
}

type scheduledReminder struct {
	payload models.ReminderPayload
	fireAt  time.Time
}

type fakeScheduler struct {
	mu        sync.Mutex
	scheduled []scheduledReminder
}

func (s *fakeScheduler) ScheduleReminder(_ context.Context, payload models.ReminderPayload, fireAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scheduled = append(s.scheduled, scheduledReminder{payload: payload, fireAt: fireAt})
	return nil
}

type testEnv struct {
	svc       *DefaultBookingWizardService
	fleet     *fakeFleet
	store     *sessionRepo.RedisSessionStore
	records   *recordsRepo.MemoryRecordRepo
	notifier  *fakeNotifier
	reminders *fakeScheduler
	redis     *miniredis.Miniredis
}

var testCaller = models.Caller{TenantID: "tenant-1", UserID: "user-1", Token: "token-1"}

func newTestEnv(t *testing.T, fl *fakeFleet) *testEnv {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	store := sessionRepo.NewRedisSessionStore(client, 30*time.Minute, 30*time.Second)
	records := recordsRepo.NewMemoryRecordRepo()
	notifier := &fakeNotifier{}
	reminders := &fakeScheduler{}

	svc := &DefaultBookingWizardService{
		Store:     store,
		Fleet:     fl,
		Records:   records,
		Notifier:  notifier,
		Reminders: reminders,
		Metrics:   metrics.NewBookingMetrics(prometheus.NewRegistry()),
		Logger:    zap.NewNop(),
		Options: Options{
			BookingsListPath: "/bookings",
			ReminderLeadTime: 24 * time.Hour,
		},
	}

	return &testEnv{
		svc:       svc,
		fleet:     fl,
		store:     store,
		records:   records,
		notifier:  notifier,
		reminders: reminders,
		redis:     mr,
	}
}

func threeVehicles() []models.Vehicle {
	return []models.Vehicle{
		{ID: "V1", Registration: "AB-123-CD", Brand: "Renault", Model: "Kangoo"},
		{ID: "V2", Registration: "EF-456-GH", Brand: "Peugeot", Model: "Partner"},
		{ID: "V3", Registration: "IJ-789-KL", Brand: "Citroen", Model: "Berlingo"},
	}
}

func partnerP1() *models.Partner {
	return &models.Partner{
		ID:          "P1",
		CompanyName: "Garage Central",
		Services: []models.PartnerService{
			{ID: "S1", Name: "Oil change", DurationMinutes: 60},
			{ID: "S2", Name: "Tyre swap", DurationMinutes: 30},
		},
	}
}

func ptr(s string) *string { return &s }
