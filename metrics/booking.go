// Package metrics provides Prometheus metrics for the booking wizard.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// BookingMetrics records wizard session and submission activity.
// A nil *BookingMetrics is valid and records nothing.
type BookingMetrics struct {
	sessionsStarted    *prometheus.CounterVec
	stepTransitions    *prometheus.CounterVec
	submissionsTotal   *prometheus.CounterVec
	submissionDuration prometheus.Histogram
}

// NewBookingMetrics registers the booking metrics on reg.
func NewBookingMetrics(reg prometheus.Registerer) *BookingMetrics {
	factory := promauto.With(reg)
	return &BookingMetrics{
		sessionsStarted: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "booking_sessions_started_total",
				Help: "Booking wizard sessions started, by whether the vehicle step was skipped",
			},
			[]string{"auto_advanced", "preselected_service"},
		),
		stepTransitions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "booking_step_transitions_total",
				Help: "Wizard navigation events by step and direction",
			},
			[]string{"step", "direction"},
		),
		submissionsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "booking_submissions_total",
				Help: "Booking submission attempts by outcome",
			},
			[]string{"outcome"},
		),
		submissionDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "booking_submission_duration_seconds",
				Help:    "Duration of create-booking calls to the fleet backend",
				Buckets: prometheus.DefBuckets,
			},
		),
	}
}

func (m *BookingMetrics) SessionStarted(autoAdvanced, preselectedService bool) {
	if m == nil {
		return
	}
	m.sessionsStarted.WithLabelValues(boolLabel(autoAdvanced), boolLabel(preselectedService)).Inc()
}

func (m *BookingMetrics) StepTransition(step, direction string) {
	if m == nil {
		return
	}
	m.stepTransitions.WithLabelValues(step, direction).Inc()
}

// SubmissionFinished records one attempt. outcome is "succeeded", "failed",
// "rejected" or "composition_error".
func (m *BookingMetrics) SubmissionFinished(outcome string, duration time.Duration) {
	if m == nil {
		return
	}
	m.submissionsTotal.WithLabelValues(outcome).Inc()
	if duration > 0 {
		m.submissionDuration.Observe(duration.Seconds())
	}
}

func boolLabel(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
