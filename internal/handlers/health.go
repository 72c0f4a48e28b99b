package handlers

import (
	"log/slog"
	"net/http"

	"github.com/mfigueira/aventuria/internal/services"
	"github.com/mfigueira/aventuria/internal/storage"
)

// HealthResponse reports service liveness and component reachability.
type HealthResponse struct {
	Status  string `json:"status"`
	Storage string `json:"storage"`
	Oracle  string `json:"oracle"`
}

// HealthHandler serves GET /health.
type HealthHandler struct {
	store  storage.Storage
	oracle services.OracleService
	logger *slog.Logger
}

func NewHealthHandler(store storage.Storage, oracle services.OracleService, logger *slog.Logger) *HealthHandler {
	return &HealthHandler{store: store, oracle: oracle, logger: logger}
}

func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, h.logger, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	resp := HealthResponse{Status: "ok", Storage: "ok", Oracle: "configured"}
	status := http.StatusOK
	if err := h.store.Ping(r.Context()); err != nil {
		h.logger.Error("storage health check failed", "error", err)
		resp.Status = "degraded"
		resp.Storage = "unreachable"
		status = http.StatusServiceUnavailable
	}
	if h.oracle == nil {
		resp.Status = "degraded"
		resp.Oracle = "not configured"
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, h.logger, status, resp)
}
