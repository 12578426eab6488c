package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"sciencegpt-backend/internal/curriculum"
	"sciencegpt-backend/internal/middleware"
	"sciencegpt-backend/internal/models"
)

const (
	settingsAppliedMessage   = "✅ Settings applied!"
	settingsUnchangedMessage = "Settings are already up to date!"
)

type SettingsHandler struct {
	catalog *curriculum.Catalog
	logger  *slog.Logger
}

func NewSettingsHandler(catalog *curriculum.Catalog, logger *slog.Logger) *SettingsHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &SettingsHandler{catalog: catalog, logger: logger}
}

func (h *SettingsHandler) Get(w http.ResponseWriter, r *http.Request) {
	sess := middleware.GetSession(r.Context())
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"settings": sess.Settings(),
	})
}

// Update applies new settings. A change drops the session's cached
// suggestions and facts.
func (h *SettingsHandler) Update(w http.ResponseWriter, r *http.Request) {
	sess := middleware.GetSession(r.Context())

	var req models.Settings
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}
	req.Subject = strings.TrimSpace(req.Subject)
	req.Language = strings.TrimSpace(req.Language)
	req.Topic = strings.TrimSpace(req.Topic)
	if req.Topic == "" {
		req.Topic = models.AllTopics
	}

	if err := h.catalog.Validate(req); err != nil {
		handleServiceError(w, r, err)
		return
	}

	changed, err := sess.ApplySettings(r.Context(), req)
	if err != nil {
		// The settings are applied; only the cache namespace failed to clear.
		h.logger.Warn("failed to invalidate session cache", "session_id", sess.ID, "error", err)
	}

	message := settingsUnchangedMessage
	if changed {
		message = settingsAppliedMessage
	}
	writeJSON(w, http.StatusOK, models.ApplySettingsResponse{
		Settings: req,
		Changed:  changed,
		Message:  message,
	})
}
