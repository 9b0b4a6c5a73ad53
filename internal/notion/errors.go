package notion

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrNotFound: страница/блок не найдены или интеграции не дали доступ.
	ErrNotFound = errors.New("notion: object not found")
	// ErrNoDataSource: у базы нет ни одного data source.
	ErrNoDataSource = errors.New("notion: database has no data sources")
	// ErrNotConfigured: не задан API-ключ или ID базы.
	ErrNotConfigured = errors.New("notion: NOTION_API_KEY/NOTION_DATABASE_ID are not configured")
)

// APIError: тело ошибки Notion API: {"object":"error","status":404,"code":"object_not_found","message":"..."}.
type APIError struct {
	Status  int    `json:"status"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("notion api: %d %s: %s", e.Status, e.Code, e.Message)
}

func (e *APIError) Is(target error) bool {
	return target == ErrNotFound && (e.Status == http.StatusNotFound || e.Code == "object_not_found")
}

func (e *APIError) retryable() bool {
	return e.Status == http.StatusTooManyRequests || e.Status >= http.StatusInternalServerError
}
