package handlers

import (
	"net/http"
	"time"

	"sciencegpt-backend/internal/middleware"
	"sciencegpt-backend/internal/models"
)

type ProgressHandler struct {
	now func() time.Time
}

func NewProgressHandler() *ProgressHandler {
	return &ProgressHandler{now: time.Now}
}

func (h *ProgressHandler) Get(w http.ResponseWriter, r *http.Request) {
	tracker := middleware.GetSession(r.Context()).Progress

	writeJSON(w, http.StatusOK, models.ProgressResponse{
		Stats:          tracker.Stats(),
		BySubject:      tracker.BySubject(),
		WeeklyActivity: tracker.WeeklyActivity(),
	})
}

// Export downloads the full history as indented JSON.
func (h *ProgressHandler) Export(w http.ResponseWriter, r *http.Request) {
	data, err := middleware.GetSession(r.Context()).Progress.Export()
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to export progress", r))
		return
	}

	filename := "learning_progress_" + h.now().Format("20060102_150405") + ".json"
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

func (h *ProgressHandler) Clear(w http.ResponseWriter, r *http.Request) {
	middleware.GetSession(r.Context()).Progress.Clear()

	writeJSON(w, http.StatusOK, map[string]string{"message": "Progress cleared"})
}
