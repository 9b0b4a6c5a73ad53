package routes

import (
	"net/http"

	"blogsync/internal/handlers"
	"blogsync/internal/middleware"

	"github.com/gorilla/mux"
)

func InitRoutes(
	router *mux.Router,
	jwtSecret string,
	webhookHandler *handlers.NotionWebhookHandler,
	revalidateHandler *handlers.RevalidateHandler,
	postHandler *handlers.PostHandler,
	adminHandler *handlers.AdminHandler,
	logsHandler *handlers.LogsHandler,
) {
	router.Use(middleware.RequestID, middleware.Recoverer, middleware.Logging)

	router.HandleFunc("/healthz", handlers.Healthz).Methods(http.MethodGet)

	api := router.PathPrefix("/api").Subrouter()

	// --- Вебхук и ревалидация ---
	api.HandleFunc("/webhook/notion", webhookHandler.Handle).Methods(http.MethodPost)
	api.HandleFunc("/webhook/notion", webhookHandler.Status).Methods(http.MethodGet)
	api.HandleFunc("/revalidate", revalidateHandler.Revalidate).Methods(http.MethodPost)
	api.HandleFunc("/revalidate", revalidateHandler.Status).Methods(http.MethodGet)

	// --- Публичное чтение постов ---
	api.HandleFunc("/posts", postHandler.List).Methods(http.MethodGet)
	api.HandleFunc("/posts/{slug}", postHandler.Get).Methods(http.MethodGet)
	api.HandleFunc("/tags", postHandler.Tags).Methods(http.MethodGet)
	api.HandleFunc("/categories", postHandler.Categories).Methods(http.MethodGet)
	api.HandleFunc("/search", postHandler.Search).Methods(http.MethodGet)

	// --- Админка (JWT, роль admin) ---
	admin := api.PathPrefix("/admin").Subrouter()
	admin.Use(middleware.JWTAuth(jwtSecret), middleware.OnlyRole("admin"))
	admin.HandleFunc("/pages/{id}/mirror", adminHandler.MirrorPage).Methods(http.MethodPost, http.MethodOptions)
	admin.HandleFunc("/pages/{id}/images", adminHandler.ListImages).Methods(http.MethodGet)
	admin.HandleFunc("/logs", logsHandler.Search).Methods(http.MethodGet)
	admin.HandleFunc("/logs/days", logsHandler.Days).Methods(http.MethodGet)
}
