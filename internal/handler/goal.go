package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/templui/lifeos/internal/render"
	"github.com/templui/lifeos/internal/repository"
	"github.com/templui/lifeos/internal/service"
	"github.com/templui/lifeos/internal/validation"
)

type GoalHandler struct {
	goalService *service.GoalService
}

func NewGoalHandler(goalService *service.GoalService) *GoalHandler {
	return &GoalHandler{
		goalService: goalService,
	}
}

func (h *GoalHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	sortBy := q.Get("sort")
	switch sortBy {
	case "", repository.GoalSortRecent, repository.GoalSortProgress, repository.GoalSortTitle:
	default:
		render.Error(w, r, validation.Field("sort", fmt.Sprintf("invalid value %q", sortBy)))
		return
	}

	goals, err := h.goalService.Goals(repository.GoalFilter{
		Status: q.Get("status"),
		AreaID: q.Get("area_id"),
		SortBy: sortBy,
	})
	if err != nil {
		render.Error(w, r, err)
		return
	}

	render.List(w, goals)
}

func (h *GoalHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input service.GoalInput
	err := render.Decode(w, r, &input)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	goal, err := h.goalService.Create(input)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	render.JSON(w, http.StatusCreated, goal)
}

// Get returns the goal with its steps and metrics.
func (h *GoalHandler) Get(w http.ResponseWriter, r *http.Request) {
	goal, err := h.goalService.Goal(r.PathValue("id"))
	if err != nil {
		render.Error(w, r, err)
		return
	}

	render.JSON(w, http.StatusOK, goal)
}

func (h *GoalHandler) Update(w http.ResponseWriter, r *http.Request) {
	var input service.GoalInput
	err := render.Decode(w, r, &input)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	goal, err := h.goalService.Update(r.PathValue("id"), input)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	render.JSON(w, http.StatusOK, goal)
}

type progressRequest struct {
	Progress *int `json:"progress"`
}

func (h *GoalHandler) SetProgress(w http.ResponseWriter, r *http.Request) {
	var req progressRequest
	err := render.Decode(w, r, &req)
	if err != nil {
		render.Error(w, r, err)
		return
	}
	if req.Progress == nil {
		render.Error(w, r, validation.Field("progress", "is required"))
		return
	}

	goal, err := h.goalService.SetProgress(r.PathValue("id"), *req.Progress)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	render.JSON(w, http.StatusOK, goal)
}

func (h *GoalHandler) Recalculate(w http.ResponseWriter, r *http.Request) {
	goal, err := h.goalService.Recalculate(r.PathValue("id"))
	if err != nil {
		render.Error(w, r, err)
		return
	}

	render.JSON(w, http.StatusOK, goal)
}

// Delete detaches steps and metrics unless ?cascade=true.
func (h *GoalHandler) Delete(w http.ResponseWriter, r *http.Request) {
	cascade, err := queryBool(r, "cascade")
	if err != nil {
		render.Error(w, r, err)
		return
	}

	err = h.goalService.Delete(r.PathValue("id"), cascade != nil && *cascade)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	render.NoContent(w)
}

func (h *GoalHandler) Export(w http.ResponseWriter, r *http.Request) {
	export, err := h.goalService.Export()
	if err != nil {
		render.Error(w, r, err)
		return
	}

	filename := fmt.Sprintf("goals-%s.json", time.Now().UTC().Format("2006-01-02"))
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	render.JSON(w, http.StatusOK, export)
}
