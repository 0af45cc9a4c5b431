package booking

import (
	"fmt"
	"strings"
	"time"

	"fleetbooking/models"
)

const (
	DateFormat = "2006-01-02"
	TimeFormat = "15:04"

	dateTimeLayout = DateFormat + "T" + TimeFormat
)

// Compose turns a complete selection into the create-booking payload.
//
// Start and end are rebuilt from "<date>T<HH:mm>" and formatted back, so both
// endpoints share the selected calendar date. Times are wall-clock values with
// no zone attached; UTC is only the neutral parse location.
func Compose(sel models.SelectionState, wctx models.WorkflowContext) (models.BookingRequest, error) {
	switch {
	case wctx.PartnerID == "":
		return models.BookingRequest{}, &CompositionError{Field: "partnerId", Err: ErrIncompleteSelection}
	case sel.VehicleID == nil:
		return models.BookingRequest{}, &CompositionError{Field: "vehicleId", Err: ErrIncompleteSelection}
	case sel.ServiceID == nil:
		return models.BookingRequest{}, &CompositionError{Field: "serviceId", Err: ErrIncompleteSelection}
	case sel.Date == nil:
		return models.BookingRequest{}, &CompositionError{Field: "date", Err: ErrIncompleteSelection}
	case sel.Slot == nil:
		return models.BookingRequest{}, &CompositionError{Field: "slot", Err: ErrIncompleteSelection}
	}

	start, err := composeInstant(*sel.Date, sel.Slot.StartTime)
	if err != nil {
		return models.BookingRequest{}, &CompositionError{Field: "slot.startTime", Err: err}
	}
	end, err := composeInstant(*sel.Date, sel.Slot.EndTime)
	if err != nil {
		return models.BookingRequest{}, &CompositionError{Field: "slot.endTime", Err: err}
	}
	if !end.After(start) {
		return models.BookingRequest{}, &CompositionError{Field: "slot", Err: ErrSlotCrossesMidnight}
	}

	req := models.BookingRequest{
		PartnerID:     wctx.PartnerID,
		ServiceID:     *sel.ServiceID,
		VehicleID:     *sel.VehicleID,
		ScheduledDate: start.Format(DateFormat),
		ScheduledTime: start.Format(TimeFormat),
		EndTime:       end.Format(TimeFormat),
	}
	if strings.TrimSpace(sel.Notes) != "" {
		req.CustomerNotes = sel.Notes
	}
	return req, nil
}

// StartInstant returns the booking start as a time in loc.
func StartInstant(req models.BookingRequest, loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(dateTimeLayout, req.ScheduledDate+"T"+req.ScheduledTime, loc)
}

func composeInstant(date, clock string) (time.Time, error) {
	t, err := time.ParseInLocation(dateTimeLayout, date+"T"+clock, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q %q", ErrInvalidSelection, date, clock)
	}
	return t, nil
}
