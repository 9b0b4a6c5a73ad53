package handlers

import (
	"net/http"

	helpers "blogsync/internal/utils/helpres"
)

// Healthz godoc
// @Summary Liveness
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /healthz [get]
func Healthz(w http.ResponseWriter, r *http.Request) {
	helpers.Raw(w, http.StatusOK, map[string]string{"status": "ok"})
}
