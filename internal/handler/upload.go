package handler

import (
	"log/slog"
	"net/http"

	"github.com/templui/lifeos/internal/render"
	"github.com/templui/lifeos/internal/service"
	"github.com/templui/lifeos/internal/validation"
)

const maxUploadBytes = 10 << 20

type UploadHandler struct {
	fileService *service.FileService
}

func NewUploadHandler(fileService *service.FileService) *UploadHandler {
	return &UploadHandler{
		fileService: fileService,
	}
}

// Upload stores an image sent as multipart field "file". Optional fields
// owner_type and owner_id attach it to an article or inspiration.
func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	if !h.fileService.Enabled() {
		render.Error(w, r, service.ErrStorageDisabled)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	err := r.ParseMultipartForm(maxUploadBytes)
	if err != nil {
		render.Error(w, r, validation.Field("file", "failed to parse multipart form"))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		render.Error(w, r, validation.Field("file", "is required"))
		return
	}
	defer func() {
		closeErr := file.Close()
		if closeErr != nil {
			slog.Error("failed to close file", "error", closeErr)
		}
	}()

	record, err := h.fileService.Upload(r.Context(), r.FormValue("owner_type"), r.FormValue("owner_id"), file, header)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	render.JSON(w, http.StatusCreated, record)
}

func (h *UploadHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	files, err := h.fileService.Files(q.Get("owner_type"), q.Get("owner_id"))
	if err != nil {
		render.Error(w, r, err)
		return
	}

	render.List(w, files)
}

func (h *UploadHandler) Delete(w http.ResponseWriter, r *http.Request) {
	err := h.fileService.Delete(r.Context(), r.PathValue("id"))
	if err != nil {
		render.Error(w, r, err)
		return
	}

	render.NoContent(w)
}
