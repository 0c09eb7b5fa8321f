package handler

import (
	"net/http"

	"github.com/templui/lifeos/internal/render"
	"github.com/templui/lifeos/internal/service"
)

type ContentHandler struct {
	inspirationService *service.InspirationService
	principleService   *service.PrincipleService
}

func NewContentHandler(inspirationService *service.InspirationService, principleService *service.PrincipleService) *ContentHandler {
	return &ContentHandler{
		inspirationService: inspirationService,
		principleService:   principleService,
	}
}

type reorderRequest struct {
	IDs []string `json:"ids"`
}

// PublishedInspirations filters by ?kind=article|video|book.
func (h *ContentHandler) PublishedInspirations(w http.ResponseWriter, r *http.Request) {
	h.inspirations(w, r, true)
}

func (h *ContentHandler) Inspirations(w http.ResponseWriter, r *http.Request) {
	h.inspirations(w, r, false)
}

func (h *ContentHandler) inspirations(w http.ResponseWriter, r *http.Request, publishedOnly bool) {
	inspirations, err := h.inspirationService.Inspirations(r.URL.Query().Get("kind"), publishedOnly)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	render.List(w, inspirations)
}

func (h *ContentHandler) CreateInspiration(w http.ResponseWriter, r *http.Request) {
	var input service.InspirationInput
	err := render.Decode(w, r, &input)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	inspiration, err := h.inspirationService.Create(input)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	render.JSON(w, http.StatusCreated, inspiration)
}

func (h *ContentHandler) GetInspiration(w http.ResponseWriter, r *http.Request) {
	inspiration, err := h.inspirationService.ByID(r.PathValue("id"))
	if err != nil {
		render.Error(w, r, err)
		return
	}

	render.JSON(w, http.StatusOK, inspiration)
}

func (h *ContentHandler) UpdateInspiration(w http.ResponseWriter, r *http.Request) {
	var input service.InspirationInput
	err := render.Decode(w, r, &input)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	inspiration, err := h.inspirationService.Update(r.PathValue("id"), input)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	render.JSON(w, http.StatusOK, inspiration)
}

func (h *ContentHandler) ReorderInspirations(w http.ResponseWriter, r *http.Request) {
	var req reorderRequest
	err := render.Decode(w, r, &req)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	err = h.inspirationService.Reorder(req.IDs)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	render.NoContent(w)
}

func (h *ContentHandler) DeleteInspiration(w http.ResponseWriter, r *http.Request) {
	err := h.inspirationService.Delete(r.PathValue("id"))
	if err != nil {
		render.Error(w, r, err)
		return
	}

	render.NoContent(w)
}

func (h *ContentHandler) Principles(w http.ResponseWriter, r *http.Request) {
	principles, err := h.principleService.Principles()
	if err != nil {
		render.Error(w, r, err)
		return
	}

	render.List(w, principles)
}

func (h *ContentHandler) CreatePrinciple(w http.ResponseWriter, r *http.Request) {
	var input service.PrincipleInput
	err := render.Decode(w, r, &input)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	principle, err := h.principleService.Create(input)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	render.JSON(w, http.StatusCreated, principle)
}

func (h *ContentHandler) UpdatePrinciple(w http.ResponseWriter, r *http.Request) {
	var input service.PrincipleInput
	err := render.Decode(w, r, &input)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	principle, err := h.principleService.Update(r.PathValue("id"), input)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	render.JSON(w, http.StatusOK, principle)
}

func (h *ContentHandler) ReorderPrinciples(w http.ResponseWriter, r *http.Request) {
	var req reorderRequest
	err := render.Decode(w, r, &req)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	err = h.principleService.Reorder(req.IDs)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	render.NoContent(w)
}

func (h *ContentHandler) DeletePrinciple(w http.ResponseWriter, r *http.Request) {
	err := h.principleService.Delete(r.PathValue("id"))
	if err != nil {
		render.Error(w, r, err)
		return
	}

	render.NoContent(w)
}
