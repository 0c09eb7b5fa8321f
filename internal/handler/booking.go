package handler

import (
	"net/http"
	"time"

	"github.com/templui/lifeos/internal/render"
	"github.com/templui/lifeos/internal/service"
	"github.com/templui/lifeos/internal/validation"
)

type BookingHandler struct {
	bookingService *service.BookingService
}

func NewBookingHandler(bookingService *service.BookingService) *BookingHandler {
	return &BookingHandler{
		bookingService: bookingService,
	}
}

// Slots lists bookable slots for visitors.
func (h *BookingHandler) Slots(w http.ResponseWriter, r *http.Request) {
	from, to, err := h.timeRange(r)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	slots, err := h.bookingService.AvailableSlots(from, to)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	render.List(w, slots)
}

func (h *BookingHandler) Book(w http.ResponseWriter, r *http.Request) {
	var input service.BookingInput
	err := render.Decode(w, r, &input)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	booking, err := h.bookingService.Book(r.Context(), input)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	render.JSON(w, http.StatusCreated, booking)
}

func (h *BookingHandler) Availability(w http.ResponseWriter, r *http.Request) {
	blocks, err := h.bookingService.ListAvailability()
	if err != nil {
		render.Error(w, r, err)
		return
	}

	render.List(w, blocks)
}

type availabilityRequest struct {
	Weekday     int `json:"weekday"`
	StartMinute int `json:"start_minute"`
	EndMinute   int `json:"end_minute"`
}

func (h *BookingHandler) AddAvailability(w http.ResponseWriter, r *http.Request) {
	var req availabilityRequest
	err := render.Decode(w, r, &req)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	block, err := h.bookingService.AddAvailability(req.Weekday, req.StartMinute, req.EndMinute)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	render.JSON(w, http.StatusCreated, block)
}

func (h *BookingHandler) DeleteAvailability(w http.ResponseWriter, r *http.Request) {
	err := h.bookingService.DeleteAvailability(r.PathValue("id"))
	if err != nil {
		render.Error(w, r, err)
		return
	}

	render.NoContent(w)
}

func (h *BookingHandler) AllSlots(w http.ResponseWriter, r *http.Request) {
	from, to, err := h.timeRange(r)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	slots, err := h.bookingService.AllSlots(from, to)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	render.List(w, slots)
}

type slotRequest struct {
	StartAt         time.Time `json:"start_at"`
	DurationMinutes int       `json:"duration_minutes"`
}

func (h *BookingHandler) AddSlot(w http.ResponseWriter, r *http.Request) {
	var req slotRequest
	err := render.Decode(w, r, &req)
	if err != nil {
		render.Error(w, r, err)
		return
	}
	if req.StartAt.IsZero() {
		render.Error(w, r, validation.Field("start_at", "is required"))
		return
	}
	if req.DurationMinutes < 0 {
		render.Error(w, r, validation.Field("duration_minutes", "must not be negative"))
		return
	}

	slot, err := h.bookingService.AddOneOffSlot(req.StartAt, time.Duration(req.DurationMinutes)*time.Minute)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	render.JSON(w, http.StatusCreated, slot)
}

type generateRequest struct {
	Days int `json:"days"`
}

type generateResponse struct {
	Created int `json:"created"`
	Days    int `json:"days"`
}

// GenerateSlots expands weekly availability. An empty body uses the
// configured horizon.
func (h *BookingHandler) GenerateSlots(w http.ResponseWriter, r *http.Request) {
	req := generateRequest{Days: h.bookingService.HorizonDays()}
	if r.ContentLength != 0 {
		err := render.Decode(w, r, &req)
		if err != nil {
			render.Error(w, r, err)
			return
		}
	}

	created, err := h.bookingService.Generate(r.Context(), req.Days)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	render.JSON(w, http.StatusOK, generateResponse{Created: created, Days: req.Days})
}

// PreviewSlots shows the windows that generation would consider.
func (h *BookingHandler) PreviewSlots(w http.ResponseWriter, r *http.Request) {
	days, err := queryInt(r, "days", h.bookingService.HorizonDays())
	if err != nil {
		render.Error(w, r, err)
		return
	}
	minutes, err := queryInt(r, "duration", 0)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	windows, err := h.bookingService.Preview(days, time.Duration(minutes)*time.Minute)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	render.List(w, windows)
}

func (h *BookingHandler) DeleteSlot(w http.ResponseWriter, r *http.Request) {
	err := h.bookingService.DeleteSlot(r.PathValue("id"))
	if err != nil {
		render.Error(w, r, err)
		return
	}

	render.NoContent(w)
}

func (h *BookingHandler) Bookings(w http.ResponseWriter, r *http.Request) {
	bookings, err := h.bookingService.Bookings(r.URL.Query().Get("status"))
	if err != nil {
		render.Error(w, r, err)
		return
	}

	render.List(w, bookings)
}

func (h *BookingHandler) Booking(w http.ResponseWriter, r *http.Request) {
	booking, err := h.bookingService.Booking(r.PathValue("id"))
	if err != nil {
		render.Error(w, r, err)
		return
	}

	render.JSON(w, http.StatusOK, booking)
}

func (h *BookingHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	booking, err := h.bookingService.Cancel(r.Context(), r.PathValue("id"))
	if err != nil {
		render.Error(w, r, err)
		return
	}

	render.JSON(w, http.StatusOK, booking)
}

func (h *BookingHandler) timeRange(r *http.Request) (time.Time, time.Time, error) {
	loc := h.bookingService.Location()
	from, err := queryTime(r, "from", loc)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	to, err := queryTime(r, "to", loc)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return from, to, nil
}
