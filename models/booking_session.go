package models

import "time"

// SubmissionStatus is the state of the confirm step.
type SubmissionStatus string

const (
	SubmissionIdle       SubmissionStatus = "idle"
	SubmissionSubmitting SubmissionStatus = "submitting"
	SubmissionSucceeded  SubmissionStatus = "succeeded"
	SubmissionFailed     SubmissionStatus = "failed"
)

// BookingSession holds one workflow instance between wizard requests.
type BookingSession struct {
	SessionID              string           `json:"sessionId"`
	Version                int64            `json:"version"`
	TenantID               string           `json:"tenantId"`
	UserID                 string           `json:"userId"`
	Context                WorkflowContext  `json:"context"`
	Steps                  []StepDescriptor `json:"steps"`
	CurrentStep            int              `json:"currentStep"`
	Selection              SelectionState   `json:"selection"`
	Submission             SubmissionStatus `json:"submission"`
	ServiceDurationMinutes int              `json:"serviceDurationMinutes,omitempty"`
	AutoAdvanced           bool             `json:"autoAdvanced"`
	CreatedAt              time.Time        `json:"createdAt"`
	UpdatedAt              time.Time        `json:"updatedAt"`
}

// BookingSessionView is what the wizard UI renders from.
type BookingSessionView struct {
	SessionID              string           `json:"sessionId"`
	PartnerID              string           `json:"partnerId"`
	Steps                  []StepDescriptor `json:"steps"`
	TotalSteps             int              `json:"totalSteps"`
	CurrentStep            int              `json:"currentStep"`
	CurrentStepID          StepKind         `json:"currentStepId"`
	CanAdvance             bool             `json:"canAdvance"`
	Selection              SelectionState   `json:"selection"`
	Submission             SubmissionStatus `json:"submission"`
	ServiceDurationMinutes int              `json:"serviceDurationMinutes,omitempty"`
}

// Notification is the transient toast shown after a submission attempt.
type Notification struct {
	Level   string `json:"level"` // "success" or "error"
	Message string `json:"message"`
}

// SubmissionResult is returned by the confirm step.
type SubmissionResult struct {
	Status       SubmissionStatus    `json:"status"`
	Notification Notification        `json:"notification"`
	Booking      *CreatedBooking     `json:"booking,omitempty"`
	Redirect     string              `json:"redirect,omitempty"`
	Session      *BookingSessionView `json:"session,omitempty"`
}
