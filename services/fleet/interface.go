package fleet

import (
	"context"

	"fleetbooking/models"
)

// FleetAPI is the slice of the fleet REST backend the booking wizard uses.
// Every call forwards the caller's bearer token.
type FleetAPI interface {
	ListVehicles(ctx context.Context, token string) ([]models.Vehicle, error)
	GetPartner(ctx context.Context, token, partnerID string) (*models.Partner, error)
	CreateBooking(ctx context.Context, token string, req models.BookingRequest) (*models.CreatedBooking, error)
}
