package handler

import (
	"net/http"

	"github.com/templui/lifeos/internal/render"
	"github.com/templui/lifeos/internal/service"
)

type HabitHandler struct {
	habitService *service.HabitService
}

func NewHabitHandler(habitService *service.HabitService) *HabitHandler {
	return &HabitHandler{
		habitService: habitService,
	}
}

// List returns active habits unless ?all=true.
func (h *HabitHandler) List(w http.ResponseWriter, r *http.Request) {
	all, err := queryBool(r, "all")
	if err != nil {
		render.Error(w, r, err)
		return
	}

	habits, err := h.habitService.Habits(all == nil || !*all)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	render.List(w, habits)
}

func (h *HabitHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input service.HabitInput
	err := render.Decode(w, r, &input)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	habit, err := h.habitService.Create(input)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	render.JSON(w, http.StatusCreated, habit)
}

func (h *HabitHandler) Get(w http.ResponseWriter, r *http.Request) {
	habit, err := h.habitService.ByID(r.PathValue("id"))
	if err != nil {
		render.Error(w, r, err)
		return
	}

	render.JSON(w, http.StatusOK, habit)
}

func (h *HabitHandler) Update(w http.ResponseWriter, r *http.Request) {
	var input service.HabitInput
	err := render.Decode(w, r, &input)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	habit, err := h.habitService.Update(r.PathValue("id"), input)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	render.JSON(w, http.StatusOK, habit)
}

func (h *HabitHandler) Delete(w http.ResponseWriter, r *http.Request) {
	err := h.habitService.Delete(r.PathValue("id"))
	if err != nil {
		render.Error(w, r, err)
		return
	}

	render.NoContent(w)
}

// Checkin is idempotent: 201 for a new check-in, 200 when it already existed.
func (h *HabitHandler) Checkin(w http.ResponseWriter, r *http.Request) {
	checkin, created, err := h.habitService.Checkin(r.PathValue("id"), r.PathValue("day"))
	if err != nil {
		render.Error(w, r, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	render.JSON(w, status, checkin)
}

func (h *HabitHandler) Uncheck(w http.ResponseWriter, r *http.Request) {
	err := h.habitService.Uncheck(r.PathValue("id"), r.PathValue("day"))
	if err != nil {
		render.Error(w, r, err)
		return
	}

	render.NoContent(w)
}

func (h *HabitHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.habitService.Stats(r.PathValue("id"))
	if err != nil {
		render.Error(w, r, err)
		return
	}

	render.JSON(w, http.StatusOK, stats)
}
