package handlers

import (
	"net/http"

	"sciencegpt-backend/internal/middleware"
	"sciencegpt-backend/internal/session"
)

type tokenIssuer interface {
	IssueToken(sessionID string) (string, error)
}

type socketCloser interface {
	CloseSession(sessionID string)
}

type SessionHandler struct {
	sessions *session.Manager
	tokens   tokenIssuer
	sockets  socketCloser
}

func NewSessionHandler(sessions *session.Manager, tokens tokenIssuer, sockets socketCloser) *SessionHandler {
	return &SessionHandler{sessions: sessions, tokens: tokens, sockets: sockets}
}

func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	sess := h.sessions.Create()

	token, err := h.tokens.IssueToken(sess.ID)
	if err != nil {
		h.sessions.Delete(r.Context(), sess.ID)
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to create session", r))
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"session_id": sess.ID,
		"token":      token,
		"settings":   sess.Settings(),
	})
}

func (h *SessionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	sess := middleware.GetSession(r.Context())

	h.sessions.Delete(r.Context(), sess.ID)
	if h.sockets != nil {
		h.sockets.CloseSession(sess.ID)
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Session ended"})
}
