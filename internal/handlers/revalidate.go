package handlers

import (
	"crypto/subtle"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"blogsync/internal/logger"
	"blogsync/internal/revalidate"
	"blogsync/internal/services"
	helpers "blogsync/internal/utils/helpres"

	"go.uber.org/zap"
)

// defaultRevalidatePaths: что сбрасывается, если в теле нет ни path, ни tag.
var defaultRevalidatePaths = []string{services.HomePath, services.ListPath}

type RevalidateHandler struct {
	invalidator revalidate.Invalidator
	token       string
	now         func() time.Time
}

func NewRevalidateHandler(invalidator revalidate.Invalidator, token string) *RevalidateHandler {
	return &RevalidateHandler{invalidator: invalidator, token: token, now: time.Now}
}

type revalidateRequest struct {
	Path string `json:"path"`
	Tag  string `json:"tag"`
}

type revalidateResponse struct {
	Revalidated bool     `json:"revalidated"`
	Type        string   `json:"type"`
	Value       string   `json:"value,omitempty"`
	Paths       []string `json:"paths,omitempty"`
	Now         int64    `json:"now"`
}

type revalidateErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// Revalidate godoc
// @Summary Сбросить кэш по пути или тегу
// @Tags revalidate
// @Accept json
// @Produce json
// @Param x-revalidate-token header string true "Токен ревалидации"
// @Param input body revalidateRequest false "path или tag; пустое тело сбрасывает / и /blog"
// @Success 200 {object} revalidateResponse
// @Failure 401 {object} revalidateErrorResponse
// @Failure 500 {object} revalidateErrorResponse
// @Router /api/revalidate [post]
func (h *RevalidateHandler) Revalidate(w http.ResponseWriter, r *http.Request) {
	log := logger.WithCtx(r.Context())

	if h.token == "" {
		log.Error("REVALIDATE_TOKEN не задан")
		helpers.Raw(w, http.StatusInternalServerError, revalidateErrorResponse{
			Error:   "Server configuration error",
			Message: "REVALIDATE_TOKEN is not set",
		})
		return
	}

	got := r.Header.Get(revalidate.TokenHeader)
	if subtle.ConstantTimeCompare([]byte(got), []byte(h.token)) != 1 {
		log.Warn("Неверный токен ревалидации")
		helpers.Raw(w, http.StatusUnauthorized, revalidateErrorResponse{Error: "Invalid token"})
		return
	}

	var req revalidateRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, 64<<10)).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		log.Warn("Невалидный JSON при ревалидации", zap.Error(err))
		helpers.Raw(w, http.StatusBadRequest, revalidateErrorResponse{Error: "Invalid JSON"})
		return
	}
	req.Path = strings.TrimSpace(req.Path)
	req.Tag = strings.TrimSpace(req.Tag)

	ctx := r.Context()
	resp := revalidateResponse{Revalidated: true}
	var err error

	switch {
	case req.Path != "":
		resp.Type, resp.Value = "path", req.Path
		err = h.invalidator.InvalidatePath(ctx, req.Path)
	case req.Tag != "":
		resp.Type, resp.Value = "tag", req.Tag
		err = h.invalidator.InvalidateTag(ctx, req.Tag)
	default:
		resp.Type, resp.Paths = "all", defaultRevalidatePaths
		for _, p := range defaultRevalidatePaths {
			if e := h.invalidator.InvalidatePath(ctx, p); e != nil {
				err = errors.Join(err, e)
			}
		}
	}

	if err != nil {
		log.Error("Ошибка ревалидации", zap.String("type", resp.Type), zap.Error(err))
		helpers.Raw(w, http.StatusInternalServerError, revalidateErrorResponse{
			Error:   "Error revalidating",
			Message: err.Error(),
		})
		return
	}

	log.Info("Кэш сброшен", zap.String("type", resp.Type), zap.String("value", resp.Value))
	resp.Now = h.now().UnixMilli()
	helpers.Raw(w, http.StatusOK, resp)
}

type revalidateStatusResponse struct {
	Status     string `json:"status"`
	Configured bool   `json:"configured"`
	Message    string `json:"message"`
}

// Status godoc
// @Summary Состояние эндпоинта ревалидации
// @Tags revalidate
// @Produce json
// @Success 200 {object} revalidateStatusResponse
// @Router /api/revalidate [get]
func (h *RevalidateHandler) Status(w http.ResponseWriter, r *http.Request) {
	resp := revalidateStatusResponse{
		Status:     "ok",
		Configured: h.token != "",
		Message:    "Revalidation endpoint is ready",
	}
	if h.token == "" {
		resp.Status = "misconfigured"
		resp.Message = "REVALIDATE_TOKEN is not set"
	}
	helpers.Raw(w, http.StatusOK, resp)
}
