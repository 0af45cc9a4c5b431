package booking

import "fleetbooking/models"

// NewSelection returns the empty selection of a workflow, with the service
// already chosen when it came from the route.
func NewSelection(wctx models.WorkflowContext) models.SelectionState {
	var sel models.SelectionState
	if wctx.HasPreselectedService() {
		sel.ServiceID = strPtr(*wctx.PreselectedServiceID)
	}
	return sel
}

// The setters below never touch their input: each returns a copy with fresh
// pointers for the changed field, so earlier states stay valid.

func SetVehicle(sel models.SelectionState, vehicleID string) models.SelectionState {
	sel.VehicleID = strPtr(vehicleID)
	return sel
}

func SetService(sel models.SelectionState, serviceID string) models.SelectionState {
	sel.ServiceID = strPtr(serviceID)
	return sel
}

// SetDateAndSlot sets both fields at once; a slot never exists without its date.
func SetDateAndSlot(sel models.SelectionState, date string, slot models.TimeSlot) models.SelectionState {
	sel.Date = strPtr(date)
	sel.Slot = &models.TimeSlot{StartTime: slot.StartTime, EndTime: slot.EndTime}
	return sel
}

func SetNotes(sel models.SelectionState, notes string) models.SelectionState {
	sel.Notes = notes
	return sel
}

func strPtr(s string) *string {
	return &s
}
