package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fleetbooking/models"
	"fleetbooking/services/fleet"

	"go.uber.org/zap"
)

// validTransitions is the submission state table. failed is transient: the
// controller moves straight back to idle so the user can resubmit.
var validTransitions = map[models.SubmissionStatus][]models.SubmissionStatus{
	models.SubmissionIdle:       {models.SubmissionSubmitting},
	models.SubmissionSubmitting: {models.SubmissionSucceeded, models.SubmissionFailed},
	models.SubmissionFailed:     {models.SubmissionIdle},
	models.SubmissionSucceeded:  {},
}

func transition(from, to models.SubmissionStatus) error {
	for _, allowed := range validTransitions[from] {
		if allowed == to {
			return nil
		}
	}
	return &TransitionError{From: string(from), To: string(to)}
}

// Submit confirms the summary step: it composes the booking request, calls
// the backend once and either discards the session or returns it to idle
// with the selection intact.
//
// On a backend failure both a result (carrying the error notification) and
// the error are returned.
func (s *DefaultBookingWizardService) Submit(ctx context.Context, caller models.Caller, sessionID string) (*models.SubmissionResult, error) {
	if _, err := s.loadSession(ctx, caller, sessionID); err != nil {
		return nil, err
	}

	token, acquired, err := s.Store.AcquireSubmitLock(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !acquired {
		s.Metrics.SubmissionFinished("rejected", 0)
		return nil, ErrSubmissionInProgress
	}
	// The lock outlives the request context only as long as needed.
	bg := context.WithoutCancel(ctx)
	defer func() {
		if err := s.Store.ReleaseSubmitLock(bg, sessionID, token); err != nil {
			s.logger().Warn("Submit: failed to release submit lock", zap.String("sessionID", sessionID), zap.Error(err))
		}
	}()

	// Reload under the lock: a concurrent submit may have completed and
	// discarded the session in between.
	session, err := s.loadSession(ctx, caller, sessionID)
	if err != nil {
		return nil, err
	}

	step, _ := StepAt(session.Steps, session.CurrentStep)
	if step.ID != models.StepSummary {
		return nil, ErrNotOnSummary
	}
	if !CanAdvance(session.Selection, models.StepSummary) {
		return nil, ErrIncompleteSelection
	}

	// A fresh marker means another submitter is still inside its backend
	// call even if its lock has already expired.
	if s.isSubmitting(session) {
		s.Metrics.SubmissionFinished("rejected", 0)
		return nil, ErrSubmissionInProgress
	}
	if session.Submission == models.SubmissionSubmitting {
		s.logger().Warn("Submit: clearing stale submitting marker", zap.String("sessionID", sessionID))
		session.Submission = models.SubmissionIdle
	}
	if err := transition(session.Submission, models.SubmissionSubmitting); err != nil {
		return nil, err
	}
	session.Submission = models.SubmissionSubmitting
	if err := s.saveSession(ctx, session); err != nil {
		return nil, err
	}

	req, err := Compose(session.Selection, session.Context)
	if err != nil {
		s.logger().Error("Submit: gated selection failed to compose",
			zap.String("sessionID", sessionID),
			zap.Error(err),
		)
		// Aborted before the backend call; nothing to report as failed.
		session.Submission = models.SubmissionIdle
		if saveErr := s.saveSession(bg, session); saveErr != nil {
			s.logger().Error("Submit: failed to reset session", zap.String("sessionID", sessionID), zap.Error(saveErr))
		}
		s.Metrics.SubmissionFinished("composition_error", 0)
		return nil, err
	}

	// A client that navigates away must not cut the backend call short.
	callCtx, cancel := context.WithTimeout(bg, s.submitTimeout())
	defer cancel()

	started := s.now()
	created, err := s.Fleet.CreateBooking(callCtx, caller.Token, req)
	elapsed := s.now().Sub(started)
	if err != nil {
		return s.failSubmission(bg, caller, session, req, err, elapsed)
	}
	return s.completeSubmission(bg, caller, session, req, created, elapsed)
}

func (s *DefaultBookingWizardService) failSubmission(ctx context.Context, caller models.Caller, session *models.BookingSession, req models.BookingRequest, cause error, elapsed time.Duration) (*models.SubmissionResult, error) {
	if err := transition(session.Submission, models.SubmissionFailed); err != nil {
		return nil, err
	}
	message := fleet.UserMessage(cause)
	if message == "" {
		message = fallbackFailure
	}

	s.logger().Warn("Submit: booking creation failed",
		zap.String("sessionID", session.SessionID),
		zap.String("partnerID", req.PartnerID),
		zap.Duration("elapsed", elapsed),
		zap.Error(cause),
	)
	s.record(ctx, caller, session, req, models.SubmissionFailed, "", cause)
	s.Metrics.SubmissionFinished(string(models.SubmissionFailed), elapsed)

	// failed -> idle; the selection is saved untouched for a resubmit.
	session.Submission = models.SubmissionIdle
	if err := s.saveSession(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to restore booking session after failed submission: %w", err)
	}

	view := View(session)
	result := &models.SubmissionResult{
		Status:       models.SubmissionFailed,
		Notification: models.Notification{Level: "error", Message: message},
		Session:      &view,
	}
	return result, fmt.Errorf("create booking: %w", cause)
}

func (s *DefaultBookingWizardService) completeSubmission(ctx context.Context, caller models.Caller, session *models.BookingSession, req models.BookingRequest, created *models.CreatedBooking, elapsed time.Duration) (*models.SubmissionResult, error) {
	if err := transition(session.Submission, models.SubmissionSucceeded); err != nil {
		return nil, err
	}
	session.Submission = models.SubmissionSucceeded

	bookingID := ""
	if created != nil {
		bookingID = created.ID
	}

	// The workflow instance is done; nothing may reuse it.
	if err := s.Store.Delete(ctx, session.SessionID); err != nil {
		s.logger().Error("Submit: failed to discard booking session", zap.String("sessionID", session.SessionID), zap.Error(err))
	}

	s.logger().Info("Submit: booking created",
		zap.String("sessionID", session.SessionID),
		zap.String("bookingID", bookingID),
		zap.String("partnerID", req.PartnerID),
		zap.Duration("elapsed", elapsed),
	)
	s.record(ctx, caller, session, req, models.SubmissionSucceeded, bookingID, nil)
	s.Metrics.SubmissionFinished(string(models.SubmissionSucceeded), elapsed)
	s.scheduleReminder(ctx, caller, req, bookingID)
	s.notifyCreated(ctx, caller, req, bookingID)

	return &models.SubmissionResult{
		Status:       models.SubmissionSucceeded,
		Notification: models.Notification{Level: "success", Message: successMessage},
		Booking:      created,
		Redirect:     s.bookingsListPath(),
	}, nil
}

func (s *DefaultBookingWizardService) record(ctx context.Context, caller models.Caller, session *models.BookingSession, req models.BookingRequest, outcome models.SubmissionStatus, bookingID string, cause error) {
	if s.Records == nil {
		return
	}
	rec := models.SubmissionRecord{
		SessionID:     session.SessionID,
		TenantID:      session.TenantID,
		UserID:        caller.UserID,
		PartnerID:     req.PartnerID,
		ServiceID:     req.ServiceID,
		VehicleID:     req.VehicleID,
		ScheduledDate: req.ScheduledDate,
		ScheduledTime: req.ScheduledTime,
		Outcome:       outcome,
		BookingID:     bookingID,
		CreatedAt:     s.now(),
	}
	if cause != nil {
		rec.Error = cause.Error()
	}
	if _, err := s.Records.Create(ctx, rec); err != nil {
		s.logger().Warn("Submit: failed to record submission", zap.String("sessionID", session.SessionID), zap.Error(err))
	}
}

func (s *DefaultBookingWizardService) scheduleReminder(ctx context.Context, caller models.Caller, req models.BookingRequest, bookingID string) {
	if s.Reminders == nil || s.Options.ReminderLeadTime <= 0 {
		return
	}
	start, err := StartInstant(req, s.location())
	if err != nil {
		s.logger().Warn("Submit: cannot compute reminder time", zap.Error(err))
		return
	}
	fireAt := start.Add(-s.Options.ReminderLeadTime)
	if !fireAt.After(s.now()) {
		return
	}

	payload := models.ReminderPayload{
		TenantID:  caller.TenantID,
		UserID:    caller.UserID,
		BookingID: bookingID,
		PartnerID: req.PartnerID,
		VehicleID: req.VehicleID,
		Title:     "Upcoming service booking",
		Body:      fmt.Sprintf("Service on %s at %s", req.ScheduledDate, req.ScheduledTime),
		FireDate:  fireAt.Format(time.RFC3339),
	}
	if err := s.Reminders.ScheduleReminder(ctx, payload, fireAt); err != nil {
		s.logger().Warn("Submit: failed to schedule reminder", zap.String("bookingID", bookingID), zap.Error(err))
	}
}

func (s *DefaultBookingWizardService) notifyCreated(ctx context.Context, caller models.Caller, req models.BookingRequest, bookingID string) {
	if s.Notifier == nil {
		return
	}
	notice := models.BookingNotice{
		TenantID:  caller.TenantID,
		UserID:    caller.UserID,
		BookingID: bookingID,
		Request:   req,
	}
	if err := s.Notifier.NotifyBookingCreated(ctx, notice); err != nil {
		s.logger().Warn("Submit: failed to push booking notice", zap.String("bookingID", bookingID), zap.Error(err))
	}
}

// ListSubmissions returns the tenant's most recent confirm attempts.
func (s *DefaultBookingWizardService) ListSubmissions(ctx context.Context, caller models.Caller, limit int64) ([]models.SubmissionRecord, error) {
	if s.Records == nil {
		return []models.SubmissionRecord{}, nil
	}
	if limit <= 0 {
		limit = defaultSubmissionsLimit
	}
	if limit > maxSubmissionsLimit {
		limit = maxSubmissionsLimit
	}
	records, err := s.Records.GetByTenantID(ctx, caller.TenantID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list submissions: %w", err)
	}
	return records, nil
}

// IsCompositionError reports whether err came from the composer.
func IsCompositionError(err error) bool {
	var ce *CompositionError
	return errors.As(err, &ce)
}
