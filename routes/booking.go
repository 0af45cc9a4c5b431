package routes

import (
	"fleetbooking/handlers"

	"github.com/gin-gonic/gin"
)

// RegisterBookingRoutes registers the booking wizard endpoints. auth must
// set the caller identity the handlers read.
func RegisterBookingRoutes(r *gin.Engine, hb *handlers.HandlerBundle, auth gin.HandlerFunc) {
	api := r.Group("/api")
	api.Use(auth)
	{
		api.POST("/partners/:partnerID/booking-sessions", hb.StartSession)
		api.GET("/booking-submissions", hb.ListSubmissions)
	}

	sessions := api.Group("/booking-sessions/:sessionID")
	{
		sessions.GET("", hb.GetSession)
		sessions.PUT("/vehicle", hb.SelectVehicle)
		sessions.PUT("/service", hb.SelectService)
		sessions.PUT("/slot", hb.SelectSlot)
		sessions.PUT("/notes", hb.SetNotes)
		sessions.POST("/next", hb.NextStep)
		sessions.POST("/previous", hb.PreviousStep)
		sessions.POST("/restart", hb.RestartSession)
		sessions.POST("/submit", hb.SubmitBooking)
		sessions.DELETE("", hb.CancelSession)
	}
}
