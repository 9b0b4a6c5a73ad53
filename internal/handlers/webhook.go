package handlers

import (
	"context"
	"io"
	"net/http"

	"blogsync/internal/logger"
	"blogsync/internal/services"
	"blogsync/internal/signature"
	helpers "blogsync/internal/utils/helpres"
	"blogsync/internal/webhook"

	"go.uber.org/zap"
)

// maxWebhookBody: Notion шлёт небольшие JSON, 1 МБ с запасом.
const maxWebhookBody = 1 << 20

type EventDispatcher interface {
	Dispatch(ctx context.Context, events []webhook.Event) services.Summary
	Ready() error
}

type NotionWebhookHandler struct {
	dispatcher EventDispatcher
	secret     string
	cacheReady bool
}

func NewNotionWebhookHandler(dispatcher EventDispatcher, secret string, cacheReady bool) *NotionWebhookHandler {
	return &NotionWebhookHandler{dispatcher: dispatcher, secret: secret, cacheReady: cacheReady}
}

type challengeResponse struct {
	Challenge string `json:"challenge"`
}

type webhookErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

type webhookStatusResponse struct {
	Status          string          `json:"status"`
	Configured      map[string]bool `json:"configured"`
	Message         string          `json:"message"`
	RequiredEnvVars []string        `json:"requiredEnvVars"`
}

// Handle godoc
// @Summary Вебхук Notion
// @Description Проверяет подпись, разбирает события и инвалидирует кэш страниц.
// @Tags webhook
// @Accept json
// @Produce json
// @Param X-Notion-Signature header string false "sha256=<hex>"
// @Success 200 {object} services.Summary
// @Failure 401 {object} webhookErrorResponse
// @Failure 500 {object} webhookErrorResponse
// @Router /api/webhook/notion [post]
func (h *NotionWebhookHandler) Handle(w http.ResponseWriter, r *http.Request) {
	log := logger.WithCtx(r.Context())

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxWebhookBody))
	if err != nil {
		log.Warn("Не удалось прочитать тело вебхука", zap.Error(err))
		helpers.Raw(w, http.StatusInternalServerError, webhookErrorResponse{
			Error:   "Webhook processing failed",
			Message: err.Error(),
		})
		return
	}

	req, parseErr := webhook.Parse(body)

	// url_verification приходит до того, как у подписчика появился секрет
	if parseErr == nil && req.Verification {
		log.Info("Notion: подтверждение подписки на вебхук")
		helpers.Raw(w, http.StatusOK, challengeResponse{Challenge: req.Challenge})
		return
	}

	if h.secret != "" {
		sig := r.Header.Get(signature.Header)
		if sig == "" {
			log.Warn("Вебхук без подписи")
			helpers.Raw(w, http.StatusUnauthorized, webhookErrorResponse{Error: "Missing signature"})
			return
		}
		if !signature.Verify(body, sig, h.secret) {
			log.Warn("Неверная подпись вебхука")
			helpers.Raw(w, http.StatusUnauthorized, webhookErrorResponse{Error: "Invalid signature"})
			return
		}
	}

	if parseErr != nil {
		log.Error("Ошибка разбора вебхука", zap.Error(parseErr))
		helpers.Raw(w, http.StatusInternalServerError, webhookErrorResponse{
			Error:   "Webhook processing failed",
			Message: parseErr.Error(),
		})
		return
	}

	if err := h.dispatcher.Ready(); err != nil {
		log.Error("Диспетчер вебхуков не готов", zap.Error(err))
		helpers.Raw(w, http.StatusInternalServerError, webhookErrorResponse{
			Error:   "Webhook processing failed",
			Message: err.Error(),
		})
		return
	}

	// Notion не ждёт долго и может оборвать соединение; обработка доводится до конца.
	summary := h.dispatcher.Dispatch(context.WithoutCancel(r.Context()), req.Events)
	helpers.Raw(w, http.StatusOK, summary)
}

// Status godoc
// @Summary Состояние вебхука Notion
// @Tags webhook
// @Produce json
// @Success 200 {object} webhookStatusResponse
// @Router /api/webhook/notion [get]
func (h *NotionWebhookHandler) Status(w http.ResponseWriter, r *http.Request) {
	ready := h.dispatcher.Ready() == nil
	resp := webhookStatusResponse{
		Status: "ok",
		Configured: map[string]bool{
			"dispatcher": ready,
			"signature":  h.secret != "",
			"cache":      h.cacheReady,
		},
		Message:         "Notion webhook endpoint is ready",
		RequiredEnvVars: []string{"NOTION_API_KEY", "NOTION_DATABASE_ID", "NOTION_WEBHOOK_SECRET"},
	}
	if !ready {
		resp.Status = "misconfigured"
		resp.Message = "Webhook dispatcher is not configured"
	}
	helpers.Raw(w, http.StatusOK, resp)
}
