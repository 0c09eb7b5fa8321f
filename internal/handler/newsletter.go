package handler

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/templui/lifeos/internal/render"
	"github.com/templui/lifeos/internal/validation"
)

// NewsletterSubscriber adds an address to the mailing list.
type NewsletterSubscriber interface {
	SubscribeNewsletter(email string) error
}

type NewsletterHandler struct {
	subscriber NewsletterSubscriber
}

func NewNewsletterHandler(subscriber NewsletterSubscriber) *NewsletterHandler {
	return &NewsletterHandler{
		subscriber: subscriber,
	}
}

type newsletterRequest struct {
	Email string `json:"email"`
}

type newsletterResponse struct {
	Subscribed bool `json:"subscribed"`
}

// Subscribe validates the address and reports success even when the provider
// rejects it, so the endpoint cannot be used to probe for members.
func (h *NewsletterHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	var req newsletterRequest
	err := render.Decode(w, r, &req)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	email := strings.TrimSpace(strings.ToLower(req.Email))
	err = validation.ValidateEmail(email)
	if err != nil {
		render.Error(w, r, validation.Field("email", err.Error()))
		return
	}

	err = h.subscriber.SubscribeNewsletter(email)
	if err != nil {
		slog.Warn("newsletter subscription error", "error", err)
	}

	render.JSON(w, http.StatusOK, newsletterResponse{Subscribed: true})
}
