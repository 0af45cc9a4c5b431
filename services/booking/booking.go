// File: services/booking/booking.go
package booking

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	sessionRepo "fleetbooking/database/repository/session"
	"fleetbooking/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// StartSession creates a workflow instance for a partner, optionally with a
// service already chosen, and runs the single-vehicle auto-advance.
func (s *DefaultBookingWizardService) StartSession(ctx context.Context, caller models.Caller, partnerID, serviceID string) (*models.BookingSession, error) {
	partnerID = strings.TrimSpace(partnerID)
	if partnerID == "" {
		return nil, fmt.Errorf("%w: partnerId is required", ErrInvalidSelection)
	}

	wctx := models.WorkflowContext{PartnerID: partnerID}
	if serviceID = strings.TrimSpace(serviceID); serviceID != "" {
		wctx.PreselectedServiceID = &serviceID
	}

	now := s.now()
	session := &models.BookingSession{
		SessionID:   uuid.New().String(),
		TenantID:    caller.TenantID,
		UserID:      caller.UserID,
		Context:     wctx,
		Steps:       ComputeSteps(wctx),
		CurrentStep: 1,
		Selection:   NewSelection(wctx),
		Submission:  models.SubmissionIdle,
		CreatedAt:   now,
	}

	if wctx.HasPreselectedService() {
		if err := s.loadPreselectedService(ctx, caller, session); err != nil {
			return nil, err
		}
	}

	s.autoAdvance(ctx, caller, session)

	if err := s.saveSession(ctx, session); err != nil {
		return nil, err
	}

	s.Metrics.SessionStarted(session.AutoAdvanced, wctx.HasPreselectedService())
	s.logger().Info("StartSession: booking session initiated",
		zap.String("sessionID", session.SessionID),
		zap.String("tenantID", session.TenantID),
		zap.String("partnerID", partnerID),
		zap.Int("steps", len(session.Steps)),
		zap.Bool("autoAdvanced", session.AutoAdvanced),
	)
	return session, nil
}

// GetSession returns the caller's session.
func (s *DefaultBookingWizardService) GetSession(ctx context.Context, caller models.Caller, sessionID string) (*models.BookingSession, error) {
	return s.loadSession(ctx, caller, sessionID)
}

// SelectVehicle records the vehicle chosen on the vehicle step.
func (s *DefaultBookingWizardService) SelectVehicle(ctx context.Context, caller models.Caller, sessionID, vehicleID string) (*models.BookingSession, error) {
	vehicleID = strings.TrimSpace(vehicleID)
	if vehicleID == "" {
		return nil, fmt.Errorf("%w: vehicleId is required", ErrInvalidSelection)
	}
	return s.mutate(ctx, caller, sessionID, models.StepVehicle, func(session *models.BookingSession) error {
		session.Selection = SetVehicle(session.Selection, vehicleID)
		return nil
	})
}

// SelectService records a service the partner offers, with its duration.
func (s *DefaultBookingWizardService) SelectService(ctx context.Context, caller models.Caller, sessionID, serviceID string) (*models.BookingSession, error) {
	serviceID = strings.TrimSpace(serviceID)
	if serviceID == "" {
		return nil, fmt.Errorf("%w: serviceId is required", ErrInvalidSelection)
	}
	return s.mutate(ctx, caller, sessionID, models.StepService, func(session *models.BookingSession) error {
		partner, err := s.Fleet.GetPartner(ctx, caller.Token, session.Context.PartnerID)
		if err != nil {
			return fmt.Errorf("failed to load partner services: %w", err)
		}
		svc, ok := partner.FindService(serviceID)
		if !ok {
			return fmt.Errorf("%w: %s", ErrUnknownService, serviceID)
		}
		session.Selection = SetService(session.Selection, serviceID)
		session.ServiceDurationMinutes = svc.DurationMinutes
		return nil
	})
}

// SelectSlot records the date and time slot together.
func (s *DefaultBookingWizardService) SelectSlot(ctx context.Context, caller models.Caller, sessionID, date string, slot models.TimeSlot) (*models.BookingSession, error) {
	date = strings.TrimSpace(date)
	slot = models.TimeSlot{StartTime: strings.TrimSpace(slot.StartTime), EndTime: strings.TrimSpace(slot.EndTime)}
	if err := ValidateSlot(date, slot); err != nil {
		return nil, err
	}
	return s.mutate(ctx, caller, sessionID, models.StepSlot, func(session *models.BookingSession) error {
		session.Selection = SetDateAndSlot(session.Selection, date, slot)
		return nil
	})
}

// SetNotes stores free-text notes for the partner. Allowed on any step.
func (s *DefaultBookingWizardService) SetNotes(ctx context.Context, caller models.Caller, sessionID, notes string) (*models.BookingSession, error) {
	if len([]rune(notes)) > MaxNotesLength {
		return nil, fmt.Errorf("%w: notes exceed %d characters", ErrInvalidSelection, MaxNotesLength)
	}
	return s.mutate(ctx, caller, sessionID, "", func(session *models.BookingSession) error {
		session.Selection = SetNotes(session.Selection, notes)
		return nil
	})
}

// Next moves forward when the current step is complete.
func (s *DefaultBookingWizardService) Next(ctx context.Context, caller models.Caller, sessionID string) (*models.BookingSession, error) {
	return s.mutate(ctx, caller, sessionID, "", func(session *models.BookingSession) error {
		step, _ := StepAt(session.Steps, session.CurrentStep)
		if step.ID == models.StepSummary {
			return ErrAtLastStep
		}
		if !CanAdvance(session.Selection, step.ID) {
			return fmt.Errorf("%w: %s", ErrStepIncomplete, step.ID)
		}
		session.CurrentStep++
		s.Metrics.StepTransition(string(step.ID), "next")
		return nil
	})
}

// Previous moves back one step. Later selections are kept.
func (s *DefaultBookingWizardService) Previous(ctx context.Context, caller models.Caller, sessionID string) (*models.BookingSession, error) {
	return s.mutate(ctx, caller, sessionID, "", func(session *models.BookingSession) error {
		if session.CurrentStep <= 1 {
			return ErrAtFirstStep
		}
		step, _ := StepAt(session.Steps, session.CurrentStep)
		session.CurrentStep--
		s.Metrics.StepTransition(string(step.ID), "previous")
		return nil
	})
}

// Restart clears the selection of a session and starts it over.
func (s *DefaultBookingWizardService) Restart(ctx context.Context, caller models.Caller, sessionID string) (*models.BookingSession, error) {
	return s.mutate(ctx, caller, sessionID, "", func(session *models.BookingSession) error {
		session.Selection = NewSelection(session.Context)
		session.CurrentStep = 1
		session.AutoAdvanced = false
		if !session.Context.HasPreselectedService() {
			session.ServiceDurationMinutes = 0
		}
		s.autoAdvance(ctx, caller, session)
		return nil
	})
}

// CancelSession abandons the workflow instance.
func (s *DefaultBookingWizardService) CancelSession(ctx context.Context, caller models.Caller, sessionID string) error {
	if _, err := s.loadSession(ctx, caller, sessionID); err != nil {
		return err
	}
	if err := s.Store.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("failed to cancel booking session: %w", err)
	}
	s.logger().Info("CancelSession: booking session abandoned", zap.String("sessionID", sessionID))
	return nil
}

// ValidateSlot checks a date and slot before they enter a selection.
func ValidateSlot(date string, slot models.TimeSlot) error {
	if _, err := time.Parse(DateFormat, date); err != nil {
		return fmt.Errorf("%w: date must be formatted yyyy-MM-dd", ErrInvalidSelection)
	}
	start, err := time.Parse(TimeFormat, slot.StartTime)
	if err != nil {
		return fmt.Errorf("%w: startTime must be formatted HH:mm", ErrInvalidSelection)
	}
	end, err := time.Parse(TimeFormat, slot.EndTime)
	if err != nil {
		return fmt.Errorf("%w: endTime must be formatted HH:mm", ErrInvalidSelection)
	}
	if !end.After(start) {
		return fmt.Errorf("%w: %s-%s", ErrSlotCrossesMidnight, slot.StartTime, slot.EndTime)
	}
	return nil
}

// mutate loads the session, checks it is editable and, when step is set,
// that the wizard currently shows that step, applies fn and saves.
func (s *DefaultBookingWizardService) mutate(ctx context.Context, caller models.Caller, sessionID string, step models.StepKind, fn func(*models.BookingSession) error) (*models.BookingSession, error) {
	session, err := s.loadSession(ctx, caller, sessionID)
	if err != nil {
		return nil, err
	}
	if s.isSubmitting(session) {
		return nil, ErrSubmissionInProgress
	}
	if session.Submission == models.SubmissionSubmitting {
		session.Submission = models.SubmissionIdle
	}
	if step != "" {
		current, ok := StepAt(session.Steps, session.CurrentStep)
		if !ok || current.ID != step {
			return nil, fmt.Errorf("%w: wizard is on %q", ErrStepMismatch, current.ID)
		}
	}
	if err := fn(session); err != nil {
		return nil, err
	}
	if err := s.saveSession(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// isSubmitting ignores a submitting marker older than the lock TTL; its
// owner died without cleaning up.
func (s *DefaultBookingWizardService) isSubmitting(session *models.BookingSession) bool {
	if session.Submission != models.SubmissionSubmitting {
		return false
	}
	return s.now().Sub(session.UpdatedAt) < s.submitLockTTL()
}

func (s *DefaultBookingWizardService) loadSession(ctx context.Context, caller models.Caller, sessionID string) (*models.BookingSession, error) {
	if strings.TrimSpace(sessionID) == "" {
		return nil, ErrSessionNotFound
	}
	session, err := s.Store.Get(ctx, sessionID)
	if errors.Is(err, sessionRepo.ErrNotFound) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}
	// Sessions of other tenants are invisible rather than forbidden.
	if session.TenantID != caller.TenantID {
		return nil, ErrSessionNotFound
	}
	return session, nil
}

// saveSession writes the session back only if it is unchanged since it was
// loaded and has not been discarded.
func (s *DefaultBookingWizardService) saveSession(ctx context.Context, session *models.BookingSession) error {
	session.UpdatedAt = s.now()
	err := s.Store.Save(ctx, session)
	switch {
	case errors.Is(err, sessionRepo.ErrNotFound):
		return ErrSessionNotFound
	case errors.Is(err, sessionRepo.ErrConflict):
		return ErrSessionConflict
	}
	return err
}

func (s *DefaultBookingWizardService) loadPreselectedService(ctx context.Context, caller models.Caller, session *models.BookingSession) error {
	serviceID := *session.Context.PreselectedServiceID
	partner, err := s.Fleet.GetPartner(ctx, caller.Token, session.Context.PartnerID)
	if err != nil {
		// Duration is only a hint for the slot picker; the backend validates at submit.
		s.logger().Warn("StartSession: partner details unavailable",
			zap.String("partnerID", session.Context.PartnerID),
			zap.Error(err),
		)
		return nil
	}
	svc, ok := partner.FindService(serviceID)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownService, serviceID)
	}
	session.ServiceDurationMinutes = svc.DurationMinutes
	return nil
}

// autoAdvance fetches the fleet and applies the single-vehicle policy. A
// failed fetch leaves the session on the first step.
func (s *DefaultBookingWizardService) autoAdvance(ctx context.Context, caller models.Caller, session *models.BookingSession) {
	vehicles, err := s.Fleet.ListVehicles(ctx, caller.Token)
	if err != nil {
		s.logger().Warn("autoAdvance: vehicle list unavailable", zap.String("sessionID", session.SessionID), zap.Error(err))
		return
	}
	sel, step, applied := ApplyAutoAdvance(session.Steps, session.Selection, vehicles)
	session.Selection = sel
	session.CurrentStep = step
	session.AutoAdvanced = applied
}
