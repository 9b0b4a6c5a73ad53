package helpers

import (
	"encoding/json"
	"net/http"
)

type Response struct {
	Data  interface{} `json:"data,omitempty"`
	Error string      `json:"error,omitempty"`
}

// JSON: ответ в обёртке {"data": ...}.
func JSON(w http.ResponseWriter, status int, data interface{}) {
	Raw(w, status, Response{Data: data})
}

func Error(w http.ResponseWriter, status int, errMsg string) {
	Raw(w, status, Response{Error: errMsg})
}

// Raw: тело как есть, без обёртки (для вебхука и revalidate, где формат задан извне).
func Raw(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	err := json.NewEncoder(w).Encode(body)
	if err != nil {
		return
	}
}
