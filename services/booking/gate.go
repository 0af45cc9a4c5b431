package booking

import "fleetbooking/models"

// CanAdvance reports whether the wizard may leave the given step.
// On the summary step it means the selection may be submitted.
func CanAdvance(sel models.SelectionState, at models.StepKind) bool {
	switch at {
	case models.StepVehicle:
		return sel.VehicleID != nil
	case models.StepService:
		return sel.ServiceID != nil
	case models.StepSlot:
		return sel.Date != nil && sel.Slot != nil
	case models.StepSummary:
		// Re-checked here so a caller jumping steps cannot submit a partial selection.
		return sel.VehicleID != nil && sel.ServiceID != nil && sel.Date != nil && sel.Slot != nil
	default:
		return false
	}
}
