package models

import "encoding/json"

// Vehicle is an entry of the tenant's fleet.
type Vehicle struct {
	ID           string `json:"id"`
	Registration string `json:"registration"`
	Brand        string `json:"brand"`
	Model        string `json:"model"`
}

// Partner is a service provider of the booking marketplace.
type Partner struct {
	ID          string           `json:"id"`
	CompanyName string           `json:"companyName"`
	Services    []PartnerService `json:"services"`
}

// PartnerService is one bookable service of a partner.
type PartnerService struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	DurationMinutes int     `json:"durationMinutes"`
	Price           float64 `json:"price,omitempty"`
}

// FindService returns the partner's service with the given id.
func (p Partner) FindService(serviceID string) (PartnerService, bool) {
	for _, s := range p.Services {
		if s.ID == serviceID {
			return s, true
		}
	}
	return PartnerService{}, false
}

// BookingRequest is the create-booking wire payload.
type BookingRequest struct {
	PartnerID     string `json:"partnerId"`
	ServiceID     string `json:"serviceId"`
	VehicleID     string `json:"vehicleId"`
	ScheduledDate string `json:"scheduledDate"`
	ScheduledTime string `json:"scheduledTime"`
	EndTime       string `json:"endTime"`
	CustomerNotes string `json:"customerNotes,omitempty"`
}

// CreatedBooking is the backend's answer to a create-booking call.
// Only the id is interpreted; the full body is kept as-is.
type CreatedBooking struct {
	ID  string          `json:"id"`
	Raw json.RawMessage `json:"raw,omitempty"`
}
