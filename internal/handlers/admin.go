package handlers

import (
	"context"
	"errors"
	"net/http"

	"blogsync/internal/logger"
	"blogsync/internal/models"
	"blogsync/internal/notion"
	"blogsync/internal/revalidate"
	"blogsync/internal/services"
	helpers "blogsync/internal/utils/helpres"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

type PageMirrorer interface {
	MirrorPage(ctx context.Context, pageID string) ([]models.ImageAsset, error)
	ListAssets(ctx context.Context, pageID string) ([]models.ImageAsset, error)
	Configured() bool
}

type AdminHandler struct {
	mirror      PageMirrorer
	invalidator revalidate.Invalidator
}

func NewAdminHandler(mirror PageMirrorer, invalidator revalidate.Invalidator) *AdminHandler {
	return &AdminHandler{mirror: mirror, invalidator: invalidator}
}

type mirrorPageResponse struct {
	PageID string              `json:"pageId"`
	Images []models.ImageAsset `json:"images"`
}

// MirrorPage godoc
// @Summary Перезалить картинки страницы в CDN (только admin)
// @Tags admin
// @Security ApiKeyAuth
// @Produce json
// @Param id path string true "ID страницы Notion"
// @Success 200 {object} mirrorPageResponse
// @Failure 404 {object} helpers.Response
// @Failure 503 {object} helpers.Response
// @Router /api/admin/pages/{id}/mirror [post]
func (h *AdminHandler) MirrorPage(w http.ResponseWriter, r *http.Request) {
	pageID := mux.Vars(r)["id"]
	log := logger.WithCtx(r.Context()).With(zap.String("page_id", pageID))

	if !h.mirror.Configured() {
		log.Warn("Зеркалирование запрошено, но Cloudinary не настроен")
		helpers.Error(w, http.StatusServiceUnavailable, "image mirroring is not configured")
		return
	}

	assets, err := h.mirror.MirrorPage(r.Context(), pageID)
	if errors.Is(err, notion.ErrNotFound) {
		helpers.Error(w, http.StatusNotFound, "page not found")
		return
	}
	if err != nil {
		log.Error("Ошибка ручного зеркалирования", zap.Error(err))
		helpers.Error(w, http.StatusInternalServerError, "mirror failed")
		return
	}

	// новые ссылки попадут в HTML только после сброса кэша
	if h.invalidator != nil {
		if err := h.invalidator.InvalidateTag(r.Context(), services.TagPosts); err != nil {
			log.Warn("Не удалось сбросить кэш после зеркалирования", zap.Error(err))
		}
	}

	log.Info("Картинки страницы перезалиты", zap.Int("images", len(assets)))
	helpers.JSON(w, http.StatusOK, mirrorPageResponse{PageID: pageID, Images: assets})
}

// ListImages godoc
// @Summary Зеркальные копии картинок страницы (только admin)
// @Tags admin
// @Security ApiKeyAuth
// @Produce json
// @Param id path string true "ID страницы Notion"
// @Success 200 {array} models.ImageAsset
// @Router /api/admin/pages/{id}/images [get]
func (h *AdminHandler) ListImages(w http.ResponseWriter, r *http.Request) {
	pageID := mux.Vars(r)["id"]
	assets, err := h.mirror.ListAssets(r.Context(), pageID)
	if err != nil {
		logger.WithCtx(r.Context()).Error("Ошибка чтения журнала картинок", zap.String("page_id", pageID), zap.Error(err))
		helpers.Error(w, http.StatusInternalServerError, "failed to list images")
		return
	}
	if assets == nil {
		assets = []models.ImageAsset{}
	}
	helpers.JSON(w, http.StatusOK, assets)
}
