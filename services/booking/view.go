package booking

import "fleetbooking/models"

// View builds what the wizard UI renders for a session.
func View(session *models.BookingSession) models.BookingSessionView {
	view := models.BookingSessionView{
		SessionID:              session.SessionID,
		PartnerID:              session.Context.PartnerID,
		Steps:                  session.Steps,
		TotalSteps:             len(session.Steps),
		CurrentStep:            session.CurrentStep,
		Selection:              session.Selection,
		Submission:             session.Submission,
		ServiceDurationMinutes: session.ServiceDurationMinutes,
	}
	if step, ok := StepAt(session.Steps, session.CurrentStep); ok {
		view.CurrentStepID = step.ID
		view.CanAdvance = CanAdvance(session.Selection, step.ID)
	}
	return view
}
