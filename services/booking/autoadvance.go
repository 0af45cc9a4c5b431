package booking

import "fleetbooking/models"

// ApplyAutoAdvance preselects the only vehicle of a single-vehicle fleet and
// moves past the vehicle step. It returns the selection, the step to show and
// whether anything was applied. A selection that already has a vehicle is
// left alone.
func ApplyAutoAdvance(steps []models.StepDescriptor, sel models.SelectionState, vehicles []models.Vehicle) (models.SelectionState, int, bool) {
	if len(vehicles) != 1 || sel.VehicleID != nil {
		return sel, 1, false
	}

	vehicleOrdinal, ok := StepOrdinal(steps, models.StepVehicle)
	if !ok {
		return sel, 1, false
	}
	next, ok := StepAt(steps, vehicleOrdinal+1)
	if !ok {
		return sel, 1, false
	}

	return SetVehicle(sel, vehicles[0].ID), next.Ordinal, true
}
