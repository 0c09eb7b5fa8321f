package handler

import (
	"net/http"

	"github.com/templui/lifeos/internal/render"
	"github.com/templui/lifeos/internal/service"
)

type ArticleHandler struct {
	articleService *service.ArticleService
}

func NewArticleHandler(articleService *service.ArticleService) *ArticleHandler {
	return &ArticleHandler{
		articleService: articleService,
	}
}

// Published lists published articles, newest first.
func (h *ArticleHandler) Published(w http.ResponseWriter, r *http.Request) {
	articles, err := h.articleService.Articles(true)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	render.List(w, articles)
}

func (h *ArticleHandler) Show(w http.ResponseWriter, r *http.Request) {
	article, err := h.articleService.Published(r.PathValue("slug"))
	if err != nil {
		render.Error(w, r, err)
		return
	}

	render.JSON(w, http.StatusOK, article)
}

// List includes drafts.
func (h *ArticleHandler) List(w http.ResponseWriter, r *http.Request) {
	articles, err := h.articleService.Articles(false)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	render.List(w, articles)
}

func (h *ArticleHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input service.ArticleInput
	err := render.Decode(w, r, &input)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	article, err := h.articleService.Create(input)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	render.JSON(w, http.StatusCreated, article)
}

func (h *ArticleHandler) Get(w http.ResponseWriter, r *http.Request) {
	article, err := h.articleService.ByID(r.PathValue("id"))
	if err != nil {
		render.Error(w, r, err)
		return
	}

	render.JSON(w, http.StatusOK, article)
}

func (h *ArticleHandler) Update(w http.ResponseWriter, r *http.Request) {
	var input service.ArticleInput
	err := render.Decode(w, r, &input)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	article, err := h.articleService.Update(r.PathValue("id"), input)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	render.JSON(w, http.StatusOK, article)
}

func (h *ArticleHandler) Publish(w http.ResponseWriter, r *http.Request) {
	article, err := h.articleService.Publish(r.PathValue("id"))
	if err != nil {
		render.Error(w, r, err)
		return
	}

	render.JSON(w, http.StatusOK, article)
}

func (h *ArticleHandler) Unpublish(w http.ResponseWriter, r *http.Request) {
	article, err := h.articleService.Unpublish(r.PathValue("id"))
	if err != nil {
		render.Error(w, r, err)
		return
	}

	render.JSON(w, http.StatusOK, article)
}

func (h *ArticleHandler) Delete(w http.ResponseWriter, r *http.Request) {
	err := h.articleService.Delete(r.PathValue("id"))
	if err != nil {
		render.Error(w, r, err)
		return
	}

	render.NoContent(w)
}
