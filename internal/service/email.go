package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/resend/resend-go/v2"

	"github.com/templui/lifeos/internal/model"
)

type EmailService struct {
	client     *resend.Client
	fromEmail  string
	coachEmail string
	audienceID string
	isDev      bool
	appURL     string
	appName    string
	loc        *time.Location
}

func NewEmailService(apiKey, fromEmail, coachEmail, audienceID, appURL, appName string, isDev bool, loc *time.Location) *EmailService {
	var client *resend.Client
	if apiKey != "" && !isDev {
		client = resend.NewClient(apiKey)
	}
	if loc == nil {
		loc = time.UTC
	}

	return &EmailService{
		client:     client,
		fromEmail:  fromEmail,
		coachEmail: coachEmail,
		audienceID: audienceID,
		isDev:      isDev,
		appURL:     appURL,
		appName:    appName,
		loc:        loc,
	}
}

func (s *EmailService) send(ctx context.Context, kind, to, subject, body string) error {
	if s.isDev {
		slog.Info("email sent (dev mode)", "type", kind, "to", to, "subject", subject)
		return nil
	}

	if s.client == nil {
		return fmt.Errorf("email service not configured (missing RESEND_API_KEY)")
	}

	params := &resend.SendEmailRequest{
		From:    s.fromEmail,
		To:      []string{to},
		Subject: subject,
		Text:    body,
	}

	_, err := s.client.Emails.SendWithContext(ctx, params)
	if err == nil {
		slog.Info("email sent", "type", kind, "to", to)
	}
	return err
}

func (s *EmailService) SendBookingConfirmation(ctx context.Context, booking *model.Booking) error {
	subject, body := bookingConfirmationTemplate(booking.Name, s.formatSession(booking), s.appName)
	return s.send(ctx, "booking_confirmation", booking.Email, subject, body)
}

// SendBookingNotification tells the coach about a new booking.
// Without COACH_EMAIL the notification is skipped.
func (s *EmailService) SendBookingNotification(ctx context.Context, booking *model.Booking) error {
	if s.coachEmail == "" {
		slog.Debug("coach notification skipped, COACH_EMAIL not set", "booking_id", booking.ID)
		return nil
	}
	adminURL := fmt.Sprintf("%s/api/admin/bookings/%s", s.appURL, booking.ID)
	subject, body := bookingNotificationTemplate(booking, s.formatSession(booking), adminURL)
	return s.send(ctx, "booking_notification", s.coachEmail, subject, body)
}

func (s *EmailService) SendBookingCancellation(ctx context.Context, booking *model.Booking) error {
	subject, body := bookingCancellationTemplate(booking.Name, s.formatSession(booking), s.appName)
	return s.send(ctx, "booking_cancellation", booking.Email, subject, body)
}

func (s *EmailService) formatSession(booking *model.Booking) string {
	start := booking.StartAt.In(s.loc)
	end := booking.EndAt.In(s.loc)
	return fmt.Sprintf("%s, %s - %s (%s)",
		start.Format("Monday, January 2, 2006"),
		start.Format("15:04"),
		end.Format("15:04"),
		s.loc.String(),
	)
}

func (s *EmailService) SubscribeNewsletter(email string) error {
	if s.isDev {
		slog.Info("newsletter subscription (dev mode)", "email", email)
		return nil
	}

	if s.client == nil {
		return fmt.Errorf("email service not configured (missing RESEND_API_KEY)")
	}

	if s.audienceID == "" {
		// If no audience ID is configured, just log and return
		slog.Warn("newsletter subscription requested but no audience configured", "email", email)
		return nil
	}

	params := &resend.CreateContactRequest{
		Email:      email,
		AudienceId: s.audienceID,
	}

	_, err := s.client.Contacts.Create(params)
	if err != nil {
		slog.Warn("newsletter subscription failed", "error", err, "email", email)
		// Ignore errors to prevent email enumeration
		// This includes duplicates, invalid emails, or API issues
		return nil
	}

	slog.Info("newsletter subscription successful", "email", email)
	return nil
}
