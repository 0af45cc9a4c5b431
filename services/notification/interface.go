package notification

import (
	"context"
	"fmt"
	"regexp"

	"fleetbooking/models"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

// NotificationService pushes booking events to a tenant's devices.
type NotificationService interface {
	NotifyBookingCreated(ctx context.Context, notice models.BookingNotice) error
	SendBookingReminder(ctx context.Context, payload models.ReminderPayload) error
}

// messageSender is the part of *messaging.Client we use.
type messageSender interface {
	Send(ctx context.Context, message *messaging.Message) (string, error)
}

// FCMNotificationService publishes to one FCM topic per tenant.
type FCMNotificationService struct {
	sender messageSender
	logger *zap.Logger
}

// NewFCMNotificationService initializes Firebase from a service account file.
func NewFCMNotificationService(ctx context.Context, credentialsFile string, logger *zap.Logger) (*FCMNotificationService, error) {
	app, err := firebase.NewApp(ctx, nil, option.WithCredentialsFile(credentialsFile))
	if err != nil {
		return nil, fmt.Errorf("notification service initialization error: %w", err)
	}
	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("notification service initialization error: messaging client: %w", err)
	}
	return &FCMNotificationService{sender: client, logger: logger}, nil
}

var topicUnsafe = regexp.MustCompile(`[^a-zA-Z0-9\-_.~%]`)

// TenantTopic returns the FCM topic a tenant's devices subscribe to.
func TenantTopic(tenantID string) string {
	return "tenant-" + topicUnsafe.ReplaceAllString(tenantID, "_")
}

func (s *FCMNotificationService) NotifyBookingCreated(ctx context.Context, notice models.BookingNotice) error {
	msg := bookingCreatedMessage(notice)
	id, err := s.sender.Send(ctx, msg)
	if err != nil {
		return fmt.Errorf("NotifyBookingCreated: failed to send FCM message: %w", err)
	}
	s.logger.Debug("booking notice sent", zap.String("messageID", id), zap.String("tenantID", notice.TenantID))
	return nil
}

func (s *FCMNotificationService) SendBookingReminder(ctx context.Context, payload models.ReminderPayload) error {
	msg := &messaging.Message{
		Topic: TenantTopic(payload.TenantID),
		Notification: &messaging.Notification{
			Title: payload.Title,
			Body:  payload.Body,
		},
		Data: map[string]string{
			"type":      "booking_reminder",
			"bookingId": payload.BookingID,
			"partnerId": payload.PartnerID,
			"vehicleId": payload.VehicleID,
			"fireDate":  payload.FireDate,
		},
		Android: &messaging.AndroidConfig{
			Priority: "high",
		},
	}
	if _, err := s.sender.Send(ctx, msg); err != nil {
		return fmt.Errorf("SendBookingReminder: failed to send FCM message: %w", err)
	}
	return nil
}

func bookingCreatedMessage(notice models.BookingNotice) *messaging.Message {
	req := notice.Request
	return &messaging.Message{
		Topic: TenantTopic(notice.TenantID),
		Notification: &messaging.Notification{
			Title: "Booking confirmed",
			Body:  fmt.Sprintf("Service booked on %s from %s to %s", req.ScheduledDate, req.ScheduledTime, req.EndTime),
		},
		Data: map[string]string{
			"type":          "booking_created",
			"bookingId":     notice.BookingID,
			"partnerId":     req.PartnerID,
			"serviceId":     req.ServiceID,
			"vehicleId":     req.VehicleID,
			"scheduledDate": req.ScheduledDate,
			"scheduledTime": req.ScheduledTime,
			"createdBy":     notice.UserID,
		},
	}
}

// LogNotificationService only logs. Used when Firebase is not configured.
type LogNotificationService struct {
	Logger *zap.Logger
}

func (s *LogNotificationService) NotifyBookingCreated(_ context.Context, notice models.BookingNotice) error {
	s.Logger.Info("booking created",
		zap.String("tenantID", notice.TenantID),
		zap.String("bookingID", notice.BookingID),
		zap.String("partnerID", notice.Request.PartnerID),
		zap.String("scheduledDate", notice.Request.ScheduledDate),
	)
	return nil
}

func (s *LogNotificationService) SendBookingReminder(_ context.Context, payload models.ReminderPayload) error {
	s.Logger.Info("booking reminder",
		zap.String("tenantID", payload.TenantID),
		zap.String("bookingID", payload.BookingID),
		zap.String("title", payload.Title),
	)
	return nil
}
