package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"blogsync/internal/logger"
	"blogsync/internal/models"
	"blogsync/internal/services"
	helpers "blogsync/internal/utils/helpres"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

type PostReader interface {
	Paginate(ctx context.Context, page, limit int, opts models.ListOptions) (models.PaginatedPosts, error)
	Get(ctx context.Context, slug string) (*models.Post, error)
	Tags(ctx context.Context) ([]string, error)
	Categories(ctx context.Context) ([]string, error)
	Search(ctx context.Context, query string) ([]models.PostMeta, error)
}

type PostHandler struct {
	posts PostReader
}

func NewPostHandler(posts PostReader) *PostHandler {
	return &PostHandler{posts: posts}
}

// List godoc
// @Summary Список опубликованных постов
// @Tags posts
// @Produce json
// @Param page query int false "Страница (с 1)"
// @Param limit query int false "Постов на странице"
// @Param tag query string false "Фильтр по тегу"
// @Param category query string false "Фильтр по категории"
// @Param featured query bool false "Только избранные"
// @Success 200 {object} models.PaginatedPosts
// @Failure 400 {object} helpers.Response
// @Failure 500 {object} helpers.Response
// @Router /api/posts [get]
func (h *PostHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	page, err := queryInt(q.Get("page"), 1)
	if err != nil {
		helpers.Error(w, http.StatusBadRequest, "invalid page")
		return
	}
	limit, err := queryInt(q.Get("limit"), 0)
	if err != nil || limit > 100 {
		helpers.Error(w, http.StatusBadRequest, "invalid limit")
		return
	}

	opts := models.ListOptions{
		Tag:      strings.TrimSpace(q.Get("tag")),
		Category: strings.TrimSpace(q.Get("category")),
	}
	if raw := q.Get("featured"); raw != "" {
		featured, err := strconv.ParseBool(raw)
		if err != nil {
			helpers.Error(w, http.StatusBadRequest, "invalid featured")
			return
		}
		opts.Featured = &featured
	}

	res, err := h.posts.Paginate(r.Context(), page, limit, opts)
	if err != nil {
		logger.WithCtx(r.Context()).Error("Ошибка получения списка постов", zap.Error(err))
		helpers.Error(w, http.StatusInternalServerError, "failed to load posts")
		return
	}
	helpers.JSON(w, http.StatusOK, res)
}

// Get godoc
// @Summary Пост по slug
// @Tags posts
// @Produce json
// @Param slug path string true "Slug поста"
// @Success 200 {object} models.Post
// @Failure 404 {object} helpers.Response
// @Failure 500 {object} helpers.Response
// @Router /api/posts/{slug} [get]
func (h *PostHandler) Get(w http.ResponseWriter, r *http.Request) {
	slug := mux.Vars(r)["slug"]

	post, err := h.posts.Get(r.Context(), slug)
	if errors.Is(err, services.ErrPostNotFound) {
		helpers.Error(w, http.StatusNotFound, "post not found")
		return
	}
	if err != nil {
		logger.WithCtx(r.Context()).Error("Ошибка получения поста", zap.String("slug", slug), zap.Error(err))
		helpers.Error(w, http.StatusInternalServerError, "failed to render post")
		return
	}
	helpers.JSON(w, http.StatusOK, post)
}

// Tags godoc
// @Summary Все теги опубликованных постов
// @Tags posts
// @Produce json
// @Success 200 {array} string
// @Router /api/tags [get]
func (h *PostHandler) Tags(w http.ResponseWriter, r *http.Request) {
	tags, err := h.posts.Tags(r.Context())
	if err != nil {
		logger.WithCtx(r.Context()).Error("Ошибка получения тегов", zap.Error(err))
		helpers.Error(w, http.StatusInternalServerError, "failed to load tags")
		return
	}
	helpers.JSON(w, http.StatusOK, tags)
}

// Categories godoc
// @Summary Все категории опубликованных постов
// @Tags posts
// @Produce json
// @Success 200 {array} string
// @Router /api/categories [get]
func (h *PostHandler) Categories(w http.ResponseWriter, r *http.Request) {
	cats, err := h.posts.Categories(r.Context())
	if err != nil {
		logger.WithCtx(r.Context()).Error("Ошибка получения категорий", zap.Error(err))
		helpers.Error(w, http.StatusInternalServerError, "failed to load categories")
		return
	}
	helpers.JSON(w, http.StatusOK, cats)
}

// Search godoc
// @Summary Поиск по заголовку, описанию и тегам
// @Tags posts
// @Produce json
// @Param q query string true "Строка поиска"
// @Success 200 {array} models.PostMeta
// @Router /api/search [get]
func (h *PostHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	found, err := h.posts.Search(r.Context(), query)
	if err != nil {
		logger.WithCtx(r.Context()).Error("Ошибка поиска", zap.String("q", query), zap.Error(err))
		helpers.Error(w, http.StatusInternalServerError, "search failed")
		return
	}
	helpers.JSON(w, http.StatusOK, found)
}

func queryInt(raw string, def int) (int, error) {
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return 0, errors.New("invalid integer")
	}
	return v, nil
}
