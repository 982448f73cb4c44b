package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	log "github.com/sirupsen/logrus"

	"portalkombat/internal/domain"
	"portalkombat/internal/service"
)

const (
	defaultHistoryLimit = 20
	maxHistoryLimit     = 500
)

// StatusSource is what the handlers read from
type StatusSource interface {
	Status(ctx context.Context) service.Status
	History(ctx context.Context, limit int) ([]domain.Attempt, error)
}

// StatusHandler serves daemon status and login history
type StatusHandler struct {
	src StatusSource
}

// NewStatusHandler creates a new status handler
func NewStatusHandler(src StatusSource) *StatusHandler {
	return &StatusHandler{src: src}
}

// GetStatus returns the daemon snapshot
func (h *StatusHandler) GetStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.src.Status(r.Context()))
}

// GetHistory returns recent login attempts
func (h *StatusHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	limit := defaultHistoryLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = min(n, maxHistoryLimit)
	}

	attempts, err := h.src.History(r.Context(), limit)
	if errors.Is(err, service.ErrHistoryDisabled) {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	if err != nil {
		log.WithField("err", err).Error("Failed to read login history")
		writeError(w, http.StatusInternalServerError, "Failed to read history")
		return
	}

	writeJSON(w, http.StatusOK, attempts)
}

// NotFound answers unknown routes
func NotFound(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusNotFound, "Not Found")
}

// MethodNotAllowed answers known routes with the wrong method
func MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusMethodNotAllowed, "Method Not Allowed")
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Failed to encode JSON: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
