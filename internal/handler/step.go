package handler

import (
	"net/http"
	"time"

	"github.com/templui/lifeos/internal/render"
	"github.com/templui/lifeos/internal/repository"
	"github.com/templui/lifeos/internal/service"
)

type StepHandler struct {
	stepService *service.StepService
	loc         *time.Location
}

func NewStepHandler(stepService *service.StepService, loc *time.Location) *StepHandler {
	return &StepHandler{
		stepService: stepService,
		loc:         loc,
	}
}

// List filters by ?goal_id=, ?completed= and ?due_before=.
func (h *StepHandler) List(w http.ResponseWriter, r *http.Request) {
	completed, err := queryBool(r, "completed")
	if err != nil {
		render.Error(w, r, err)
		return
	}
	dueBefore, err := queryTime(r, "due_before", h.loc)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	filter := repository.StepFilter{
		GoalID:    r.URL.Query().Get("goal_id"),
		Completed: completed,
	}
	if !dueBefore.IsZero() {
		filter.DueBefore = &dueBefore
	}

	steps, err := h.stepService.Steps(filter)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	render.List(w, steps)
}

func (h *StepHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input service.StepInput
	err := render.Decode(w, r, &input)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	step, err := h.stepService.Create(input)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	render.JSON(w, http.StatusCreated, step)
}

func (h *StepHandler) Get(w http.ResponseWriter, r *http.Request) {
	step, err := h.stepService.ByID(r.PathValue("id"))
	if err != nil {
		render.Error(w, r, err)
		return
	}

	render.JSON(w, http.StatusOK, step)
}

func (h *StepHandler) Update(w http.ResponseWriter, r *http.Request) {
	var input service.StepInput
	err := render.Decode(w, r, &input)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	step, err := h.stepService.Update(r.PathValue("id"), input)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	render.JSON(w, http.StatusOK, step)
}

func (h *StepHandler) Complete(w http.ResponseWriter, r *http.Request) {
	step, err := h.stepService.Complete(r.PathValue("id"))
	if err != nil {
		render.Error(w, r, err)
		return
	}

	render.JSON(w, http.StatusOK, step)
}

func (h *StepHandler) Uncomplete(w http.ResponseWriter, r *http.Request) {
	step, err := h.stepService.Uncomplete(r.PathValue("id"))
	if err != nil {
		render.Error(w, r, err)
		return
	}

	render.JSON(w, http.StatusOK, step)
}

func (h *StepHandler) Delete(w http.ResponseWriter, r *http.Request) {
	err := h.stepService.Delete(r.PathValue("id"))
	if err != nil {
		render.Error(w, r, err)
		return
	}

	render.NoContent(w)
}
