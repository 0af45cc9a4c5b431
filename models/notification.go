package models

// ReminderPayload is the body of a booking reminder task.
type ReminderPayload struct {
	TenantID  string `json:"tenantId"`
	UserID    string `json:"userId"`
	BookingID string `json:"bookingId"`
	PartnerID string `json:"partnerId"`
	VehicleID string `json:"vehicleId"`
	Title     string `json:"title"`
	Body      string `json:"body"`
	FireDate  string `json:"fireDate"`
}

// BookingNotice is pushed to a tenant when a booking is created.
type BookingNotice struct {
	TenantID  string
	UserID    string
	BookingID string
	Request   BookingRequest
}
