package handlers

import (
	"encoding/json"
	"net/http"
	"time"
)

// HealthHandler reports service liveness and which storage backend is active.
type HealthHandler struct {
	storage string
	started time.Time
}

// NewHealthHandler records the backend selected at startup ("mongodb" or
// "memory").
func NewHealthHandler(storage string) *HealthHandler {
	return &HealthHandler{
		storage: storage,
		started: time.Now(),
	}
}

// GET /api/health
func (h *HealthHandler) HealthCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":  "ok",
		"storage": h.storage,
		"uptime":  time.Since(h.started).String(),
	})
}
