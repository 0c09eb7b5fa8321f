package handler

import (
	"net/http"

	"github.com/templui/lifeos/internal/render"
	"github.com/templui/lifeos/internal/service"
)

type AreaHandler struct {
	areaService *service.AreaService
}

func NewAreaHandler(areaService *service.AreaService) *AreaHandler {
	return &AreaHandler{
		areaService: areaService,
	}
}

func (h *AreaHandler) List(w http.ResponseWriter, r *http.Request) {
	areas, err := h.areaService.Areas()
	if err != nil {
		render.Error(w, r, err)
		return
	}

	render.List(w, areas)
}

func (h *AreaHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input service.AreaInput
	err := render.Decode(w, r, &input)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	area, err := h.areaService.Create(input)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	render.JSON(w, http.StatusCreated, area)
}

func (h *AreaHandler) Get(w http.ResponseWriter, r *http.Request) {
	area, err := h.areaService.ByID(r.PathValue("id"))
	if err != nil {
		render.Error(w, r, err)
		return
	}

	render.JSON(w, http.StatusOK, area)
}

func (h *AreaHandler) Update(w http.ResponseWriter, r *http.Request) {
	var input service.AreaInput
	err := render.Decode(w, r, &input)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	area, err := h.areaService.Update(r.PathValue("id"), input)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	render.JSON(w, http.StatusOK, area)
}

func (h *AreaHandler) Delete(w http.ResponseWriter, r *http.Request) {
	err := h.areaService.Delete(r.PathValue("id"))
	if err != nil {
		render.Error(w, r, err)
		return
	}

	render.NoContent(w)
}
