// File: models/records.go
package models

import "time"

// SubmissionRecord is the audit entry of one confirm attempt.
type SubmissionRecord struct {
	ID            string           `bson:"id" json:"id"`
	SessionID     string           `bson:"sessionId" json:"sessionId"`
	TenantID      string           `bson:"tenantId" json:"tenantId"`
	UserID        string           `bson:"userId" json:"userId"`
	PartnerID     string           `bson:"partnerId" json:"partnerId"`
	ServiceID     string           `bson:"serviceId,omitempty" json:"serviceId,omitempty"`
	VehicleID     string           `bson:"vehicleId,omitempty" json:"vehicleId,omitempty"`
	ScheduledDate string           `bson:"scheduledDate,omitempty" json:"scheduledDate,omitempty"`
	ScheduledTime string           `bson:"scheduledTime,omitempty" json:"scheduledTime,omitempty"`
	Outcome       SubmissionStatus `bson:"outcome" json:"outcome"`
	BookingID     string           `bson:"bookingId,omitempty" json:"bookingId,omitempty"`
	Error         string           `bson:"error,omitempty" json:"error,omitempty"`
	CreatedAt     time.Time        `bson:"createdAt" json:"createdAt"`
}
