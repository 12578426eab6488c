package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"sciencegpt-backend/internal/curriculum"
)

type CurriculumHandler struct {
	catalog *curriculum.Catalog
}

func NewCurriculumHandler(catalog *curriculum.Catalog) *CurriculumHandler {
	return &CurriculumHandler{catalog: catalog}
}

type subjectResponse struct {
	Name   string   `json:"name"`
	Topics []string `json:"topics"`
}

func (h *CurriculumHandler) List(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"grades":    h.catalog.Grades(),
		"languages": h.catalog.Languages(),
		"defaults":  h.catalog.Defaults(),
	})
}

func (h *CurriculumHandler) Grade(w http.ResponseWriter, r *http.Request) {
	grade, err := strconv.Atoi(chi.URLParam(r, "grade"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid grade", r))
		return
	}
	if _, ok := h.catalog.Grade(grade); !ok {
		writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "Grade not found", r))
		return
	}

	subjects := []subjectResponse{}
	for _, name := range h.catalog.Subjects(grade) {
		subjects = append(subjects, subjectResponse{
			Name:   name,
			Topics: h.catalog.TopicOptions(grade, name),
		})
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"grade":    grade,
		"subjects": subjects,
	})
}
