package handler

import (
	"net/http"

	"github.com/templui/lifeos/internal/model"
	"github.com/templui/lifeos/internal/render"
	"github.com/templui/lifeos/internal/service"
	"github.com/templui/lifeos/internal/units"
)

type MetricHandler struct {
	metricService *service.MetricService
}

func NewMetricHandler(metricService *service.MetricService) *MetricHandler {
	return &MetricHandler{
		metricService: metricService,
	}
}

func (h *MetricHandler) List(w http.ResponseWriter, r *http.Request) {
	metrics, err := h.metricService.Metrics(r.URL.Query().Get("goal_id"))
	if err != nil {
		render.Error(w, r, err)
		return
	}

	render.List(w, metrics)
}

func (h *MetricHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input service.MetricInput
	err := render.Decode(w, r, &input)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	metric, err := h.metricService.Create(input)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	render.JSON(w, http.StatusCreated, metric)
}

func (h *MetricHandler) Get(w http.ResponseWriter, r *http.Request) {
	metric, err := h.metricService.ByID(r.PathValue("id"))
	if err != nil {
		render.Error(w, r, err)
		return
	}

	render.JSON(w, http.StatusOK, metric)
}

func (h *MetricHandler) Update(w http.ResponseWriter, r *http.Request) {
	var input service.MetricInput
	err := render.Decode(w, r, &input)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	metric, err := h.metricService.Update(r.PathValue("id"), input)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	render.JSON(w, http.StatusOK, metric)
}

func (h *MetricHandler) Delete(w http.ResponseWriter, r *http.Request) {
	err := h.metricService.Delete(r.PathValue("id"))
	if err != nil {
		render.Error(w, r, err)
		return
	}

	render.NoContent(w)
}

func (h *MetricHandler) Entries(w http.ResponseWriter, r *http.Request) {
	entries, err := h.metricService.Entries(r.PathValue("id"))
	if err != nil {
		render.Error(w, r, err)
		return
	}

	render.List(w, entries)
}

type entryResponse struct {
	Entry  *model.MetricEntry `json:"entry"`
	Metric *model.Metric      `json:"metric"`
}

// AddEntry returns the stored entry together with the re-aggregated metric.
func (h *MetricHandler) AddEntry(w http.ResponseWriter, r *http.Request) {
	var input service.EntryInput
	err := render.Decode(w, r, &input)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	entry, metric, err := h.metricService.AddEntry(r.PathValue("id"), input)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	render.JSON(w, http.StatusCreated, entryResponse{Entry: entry, Metric: metric})
}

func (h *MetricHandler) DeleteEntry(w http.ResponseWriter, r *http.Request) {
	metric, err := h.metricService.DeleteEntry(r.PathValue("id"), r.PathValue("entryID"))
	if err != nil {
		render.Error(w, r, err)
		return
	}

	render.JSON(w, http.StatusOK, metric)
}

// Units lists the supported units grouped by dimension.
func (h *MetricHandler) Units(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, http.StatusOK, units.Units())
}
