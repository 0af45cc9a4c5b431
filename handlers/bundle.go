package handlers

import (
	"github.com/gin-gonic/gin"
)

// HandlerBundle groups the endpoint handlers the router mounts.
type HandlerBundle struct {
	// Booking wizard endpoints
	StartSession    gin.HandlerFunc
	GetSession      gin.HandlerFunc
	SelectVehicle   gin.HandlerFunc
	SelectService   gin.HandlerFunc
	SelectSlot      gin.HandlerFunc
	SetNotes        gin.HandlerFunc
	NextStep        gin.HandlerFunc
	PreviousStep    gin.HandlerFunc
	RestartSession  gin.HandlerFunc
	SubmitBooking   gin.HandlerFunc
	CancelSession   gin.HandlerFunc
	ListSubmissions gin.HandlerFunc

	// Operational endpoints
	Health gin.HandlerFunc
}

// NewHandlerBundle wires the booking and health handlers into a bundle.
func NewHandlerBundle(bh *BookingHandler, hh *HealthHandler) *HandlerBundle {
	return &HandlerBundle{
		StartSession:    bh.StartSession,
		GetSession:      bh.GetSession,
		SelectVehicle:   bh.SelectVehicle,
		SelectService:   bh.SelectService,
		SelectSlot:      bh.SelectSlot,
		SetNotes:        bh.SetNotes,
		NextStep:        bh.NextStep,
		PreviousStep:    bh.PreviousStep,
		RestartSession:  bh.RestartSession,
		SubmitBooking:   bh.SubmitBooking,
		CancelSession:   bh.CancelSession,
		ListSubmissions: bh.ListSubmissions,
		Health:          hh.Health,
	}
}
