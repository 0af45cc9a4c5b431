package models

// StepKind identifies one screen of the booking wizard.
type StepKind string

const (
	StepVehicle StepKind = "vehicle"
	StepService StepKind = "service"
	StepSlot    StepKind = "slot"
	StepSummary StepKind = "summary"
)

// StepDescriptor is one entry of a step sequence. Ordinals start at 1.
type StepDescriptor struct {
	ID      StepKind `json:"id"`
	Label   string   `json:"label"`
	Ordinal int      `json:"ordinal"`
}

// WorkflowContext is fixed for the lifetime of a booking session.
type WorkflowContext struct {
	PartnerID            string  `json:"partnerId"`
	PreselectedServiceID *string `json:"preselectedServiceId"`
}

// HasPreselectedService reports whether the service step is skipped.
func (w WorkflowContext) HasPreselectedService() bool {
	return w.PreselectedServiceID != nil && *w.PreselectedServiceID != ""
}

// TimeSlot is a wall-clock interval, both ends formatted "15:04".
type TimeSlot struct {
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
}

// SelectionState accumulates the user's choices step by step.
// Date and Slot are always set together.
type SelectionState struct {
	VehicleID *string   `json:"vehicleId"`
	ServiceID *string   `json:"serviceId"`
	Date      *string   `json:"date"`
	Slot      *TimeSlot `json:"slot"`
	Notes     string    `json:"notes"`
}

// Caller identifies who is driving a booking session.
type Caller struct {
	TenantID string
	UserID   string
	Token    string
}
