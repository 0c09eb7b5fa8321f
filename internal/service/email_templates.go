package service

import (
	"fmt"

	"github.com/templui/lifeos/internal/model"
)

func bookingConfirmationTemplate(name, session, appName string) (string, string) {
	subject := fmt.Sprintf("Your session is booked: %s", session)
	body := fmt.Sprintf(`Hi %s,

Thanks for booking a session. Here are the details:

%s

If you can't make it, just reply to this email and we'll find another time.

Best,
The %s Team`, name, session, appName)

	return subject, body
}

func bookingNotificationTemplate(booking *model.Booking, session, adminURL string) (string, string) {
	subject := fmt.Sprintf("New booking: %s", booking.Name)

	phone := booking.Phone
	if phone == "" {
		phone = "-"
	}
	message := booking.Message
	if message == "" {
		message = "-"
	}

	body := fmt.Sprintf(`New session booked.

When:    %s
Name:    %s
Email:   %s
Phone:   %s

Message:
%s

Manage: %s`, session, booking.Name, booking.Email, phone, message, adminURL)

	return subject, body
}

func bookingCancellationTemplate(name, session, appName string) (string, string) {
	subject := "Your session was cancelled"
	body := fmt.Sprintf(`Hi %s,

Your session on %s has been cancelled.

Feel free to book a new time whenever it suits you.

Best,
The %s Team`, name, session, appName)

	return subject, body
}
