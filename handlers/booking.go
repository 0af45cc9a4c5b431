package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"fleetbooking/middleware"
	"fleetbooking/models"
	"fleetbooking/services/booking"
	"fleetbooking/services/fleet"
	"fleetbooking/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// BookingHandler exposes the booking wizard over HTTP.
type BookingHandler struct {
	Svc    booking.BookingWizardService
	Logger *zap.Logger
}

func NewBookingHandler(svc booking.BookingWizardService, logger *zap.Logger) *BookingHandler {
	return &BookingHandler{Svc: svc, Logger: logger}
}

type startSessionRequest struct {
	ServiceID string `json:"serviceId"`
}

type selectVehicleRequest struct {
	VehicleID string `json:"vehicleId" binding:"required"`
}

type selectServiceRequest struct {
	ServiceID string `json:"serviceId" binding:"required"`
}

type selectSlotRequest struct {
	Date      string `json:"date" binding:"required"`
	StartTime string `json:"startTime" binding:"required"`
	EndTime   string `json:"endTime" binding:"required"`
}

type setNotesRequest struct {
	Notes string `json:"notes"`
}

// StartSession handles POST /api/partners/:partnerID/booking-sessions.
func (h *BookingHandler) StartSession(c *gin.Context) {
	logger := h.loggerFor(c)
	caller, ok := callerFrom(c, logger)
	if !ok {
		return
	}

	var req startSessionRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.JSONError(c, logger, http.StatusBadRequest, "invalid input", err.Error())
			return
		}
	}
	if req.ServiceID == "" {
		req.ServiceID = c.Query("serviceId")
	}

	session, err := h.Svc.StartSession(c.Request.Context(), caller, c.Param("partnerID"), req.ServiceID)
	if err != nil {
		h.writeError(c, logger, "StartSession", err)
		return
	}
	c.JSON(http.StatusCreated, booking.View(session))
}

// GetSession handles GET /api/booking-sessions/:sessionID.
func (h *BookingHandler) GetSession(c *gin.Context) {
	logger := h.loggerFor(c)
	caller, ok := callerFrom(c, logger)
	if !ok {
		return
	}
	session, err := h.Svc.GetSession(c.Request.Context(), caller, c.Param("sessionID"))
	if err != nil {
		h.writeError(c, logger, "GetSession", err)
		return
	}
	c.JSON(http.StatusOK, booking.View(session))
}

func (h *BookingHandler) SelectVehicle(c *gin.Context) {
	logger := h.loggerFor(c)
	caller, ok := callerFrom(c, logger)
	if !ok {
		return
	}
	var req selectVehicleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, logger, http.StatusBadRequest, "invalid input", err.Error())
		return
	}
	session, err := h.Svc.SelectVehicle(c.Request.Context(), caller, c.Param("sessionID"), req.VehicleID)
	h.respondSession(c, logger, "SelectVehicle", session, err)
}

func (h *BookingHandler) SelectService(c *gin.Context) {
	logger := h.loggerFor(c)
	caller, ok := callerFrom(c, logger)
	if !ok {
		return
	}
	var req selectServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, logger, http.StatusBadRequest, "invalid input", err.Error())
		return
	}
	session, err := h.Svc.SelectService(c.Request.Context(), caller, c.Param("sessionID"), req.ServiceID)
	h.respondSession(c, logger, "SelectService", session, err)
}

func (h *BookingHandler) SelectSlot(c *gin.Context) {
	logger := h.loggerFor(c)
	caller, ok := callerFrom(c, logger)
	if !ok {
		return
	}
	var req selectSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, logger, http.StatusBadRequest, "invalid input", err.Error())
		return
	}
	slot := models.TimeSlot{StartTime: req.StartTime, EndTime: req.EndTime}
	session, err := h.Svc.SelectSlot(c.Request.Context(), caller, c.Param("sessionID"), req.Date, slot)
	h.respondSession(c, logger, "SelectSlot", session, err)
}

func (h *BookingHandler) SetNotes(c *gin.Context) {
	logger := h.loggerFor(c)
	caller, ok := callerFrom(c, logger)
	if !ok {
		return
	}
	var req setNotesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, logger, http.StatusBadRequest, "invalid input", err.Error())
		return
	}
	session, err := h.Svc.SetNotes(c.Request.Context(), caller, c.Param("sessionID"), req.Notes)
	h.respondSession(c, logger, "SetNotes", session, err)
}

func (h *BookingHandler) NextStep(c *gin.Context) {
	logger := h.loggerFor(c)
	caller, ok := callerFrom(c, logger)
	if !ok {
		return
	}
	session, err := h.Svc.Next(c.Request.Context(), caller, c.Param("sessionID"))
	h.respondSession(c, logger, "Next", session, err)
}

func (h *BookingHandler) PreviousStep(c *gin.Context) {
	logger := h.loggerFor(c)
	caller, ok := callerFrom(c, logger)
	if !ok {
		return
	}
	session, err := h.Svc.Previous(c.Request.Context(), caller, c.Param("sessionID"))
	h.respondSession(c, logger, "Previous", session, err)
}

func (h *BookingHandler) RestartSession(c *gin.Context) {
	logger := h.loggerFor(c)
	caller, ok := callerFrom(c, logger)
	if !ok {
		return
	}
	session, err := h.Svc.Restart(c.Request.Context(), caller, c.Param("sessionID"))
	h.respondSession(c, logger, "Restart", session, err)
}

// SubmitBooking handles POST /api/booking-sessions/:sessionID/submit.
// A rejected submission still answers with the result so the UI can show
// the notification and keep the selection.
func (h *BookingHandler) SubmitBooking(c *gin.Context) {
	logger := h.loggerFor(c)
	caller, ok := callerFrom(c, logger)
	if !ok {
		return
	}

	result, err := h.Svc.Submit(c.Request.Context(), caller, c.Param("sessionID"))
	if err != nil && result != nil {
		status := http.StatusBadGateway
		var apiErr *fleet.APIError
		if errors.As(err, &apiErr) && apiErr.IsClientError() {
			status = http.StatusUnprocessableEntity
		}
		logger.Warn("SubmitBooking: backend rejected booking", zap.Int("status", status), zap.Error(err))
		c.JSON(status, result)
		return
	}
	if err != nil {
		h.writeError(c, logger, "Submit", err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

// CancelSession handles DELETE /api/booking-sessions/:sessionID.
func (h *BookingHandler) CancelSession(c *gin.Context) {
	logger := h.loggerFor(c)
	caller, ok := callerFrom(c, logger)
	if !ok {
		return
	}
	if err := h.Svc.CancelSession(c.Request.Context(), caller, c.Param("sessionID")); err != nil {
		h.writeError(c, logger, "CancelSession", err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ListSubmissions handles GET /api/booking-submissions.
func (h *BookingHandler) ListSubmissions(c *gin.Context) {
	logger := h.loggerFor(c)
	caller, ok := callerFrom(c, logger)
	if !ok {
		return
	}

	var limit int64
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || parsed < 0 {
			utils.JSONError(c, logger, http.StatusBadRequest, "invalid input", "limit must be a positive integer")
			return
		}
		limit = parsed
	}

	records, err := h.Svc.ListSubmissions(c.Request.Context(), caller, limit)
	if err != nil {
		h.writeError(c, logger, "ListSubmissions", err)
		return
	}
	if records == nil {
		records = []models.SubmissionRecord{}
	}
	c.JSON(http.StatusOK, gin.H{"submissions": records})
}

// loggerFor prefers the request-scoped logger over the handler's own.
func (h *BookingHandler) loggerFor(c *gin.Context) *zap.Logger {
	if _, exists := c.Get("logger"); exists || h.Logger == nil {
		return getLogger(c)
	}
	return h.Logger
}

func (h *BookingHandler) respondSession(c *gin.Context, logger *zap.Logger, op string, session *models.BookingSession, err error) {
	if err != nil {
		h.writeError(c, logger, op, err)
		return
	}
	c.JSON(http.StatusOK, booking.View(session))
}

// writeError maps service errors onto HTTP statuses.
func (h *BookingHandler) writeError(c *gin.Context, logger *zap.Logger, op string, err error) {
	var apiErr *fleet.APIError

	switch {
	case booking.IsCompositionError(err):
		logger.Error(op+": composition failed", zap.Error(err))
		utils.JSONError(c, logger, http.StatusInternalServerError, "internal error", "The booking could not be prepared.")
	case errors.Is(err, booking.ErrSessionNotFound):
		utils.JSONError(c, logger, http.StatusNotFound, "not found", err.Error())
	case errors.Is(err, booking.ErrInvalidSelection),
		errors.Is(err, booking.ErrSlotCrossesMidnight),
		errors.Is(err, booking.ErrUnknownService):
		utils.JSONError(c, logger, http.StatusBadRequest, "invalid input", err.Error())
	case errors.Is(err, booking.ErrStepMismatch),
		errors.Is(err, booking.ErrStepIncomplete),
		errors.Is(err, booking.ErrAtFirstStep),
		errors.Is(err, booking.ErrAtLastStep),
		errors.Is(err, booking.ErrNotOnSummary),
		errors.Is(err, booking.ErrIncompleteSelection),
		errors.Is(err, booking.ErrSubmissionInProgress),
		errors.Is(err, booking.ErrSessionConflict):
		utils.JSONError(c, logger, http.StatusConflict, "conflict", err.Error())
	case errors.As(err, &apiErr) && apiErr.IsClientError():
		message := apiErr.Message
		if message == "" {
			message = "The fleet backend rejected the request."
		}
		utils.JSONError(c, logger, http.StatusUnprocessableEntity, "backend rejected", message)
	case errors.As(err, &apiErr):
		utils.JSONError(c, logger, http.StatusBadGateway, "backend unavailable", "The fleet backend is unavailable.")
	default:
		logger.Error(op+": unexpected error", zap.Error(err))
		utils.JSONError(c, logger, http.StatusInternalServerError, "internal error", "An unexpected error occurred. Please try again later.")
	}
}

// callerFrom reads the identity set by the auth middleware.
func callerFrom(c *gin.Context, logger *zap.Logger) (models.Caller, bool) {
	caller := models.Caller{
		TenantID: c.GetString(middleware.ContextTenantID),
		UserID:   c.GetString(middleware.ContextUserID),
		Token:    c.GetString(middleware.ContextAuthToken),
	}
	if caller.TenantID == "" || caller.UserID == "" {
		utils.JSONError(c, logger, http.StatusUnauthorized, "unauthorized", "Missing caller identity")
		return models.Caller{}, false
	}
	return caller, true
}
