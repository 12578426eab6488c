package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"sciencegpt-backend/internal/session"
)

type contextKey string

const SessionKey contextKey = "session"

// tokenLifetime bounds a token's validity; the session behind it also
// expires when idle.
const tokenLifetime = 24 * time.Hour

// SessionLookup resolves a live session by id.
type SessionLookup interface {
	Get(id string) (*session.Session, bool)
}

// SessionAuth issues and verifies the signed tokens that bind a browser to
// its session.
type SessionAuth struct {
	Secret   []byte
	sessions SessionLookup
}

func NewSessionAuth(secret string, sessions SessionLookup) *SessionAuth {
	return &SessionAuth{Secret: []byte(secret), sessions: sessions}
}

// IssueToken creates a session token.
func (a *SessionAuth) IssueToken(sessionID string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"session_id": sessionID,
		"exp":        now.Add(tokenLifetime).Unix(),
		"iat":        now.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(a.Secret)
}

// ParseToken verifies a token and returns the session id it names.
func (a *SessionAuth) ParseToken(tokenStr string) (string, error) {
	token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return a.Secret, nil
	})
	if err != nil {
		return "", err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", errors.New("invalid token claims")
	}

	sessionID, ok := claims["session_id"].(string)
	if !ok || sessionID == "" {
		return "", fmt.Errorf("token has no session id")
	}
	return sessionID, nil
}

// Middleware validates the session token and attaches the session to the
// context. The token comes from the Authorization header, or from the
// "token" query parameter for websocket upgrades.
func (a *SessionAuth) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenStr, ok := bearerToken(r)
		if !ok {
			writeError(w, http.StatusUnauthorized, "SESSION_INVALID", "Missing session token", r)
			return
		}

		sessionID, err := a.ParseToken(tokenStr)
		if err != nil {
			if errors.Is(err, jwt.ErrTokenExpired) {
				writeError(w, http.StatusUnauthorized, "SESSION_INVALID", "Session has expired", r)
			} else {
				writeError(w, http.StatusUnauthorized, "SESSION_INVALID", "Invalid session token", r)
			}
			return
		}

		sess, ok := a.sessions.Get(sessionID)
		if !ok {
			writeError(w, http.StatusUnauthorized, "SESSION_INVALID", "Session not found or expired", r)
			return
		}

		ctx := context.WithValue(r.Context(), SessionKey, sess)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func bearerToken(r *http.Request) (string, bool) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		token := r.URL.Query().Get("token")
		return token, token != ""
	}

	// Must be Bearer format
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

// GetSession extracts the session attached by SessionAuth.
func GetSession(ctx context.Context) *session.Session {
	sess, _ := ctx.Value(SessionKey).(*session.Session)
	return sess
}

// WithSession attaches a session to ctx.
func WithSession(ctx context.Context, sess *session.Session) context.Context {
	return context.WithValue(ctx, SessionKey, sess)
}

// Exclusive lets one state-mutating request run per session at a time. A
// second one is rejected rather than queued.
func Exclusive(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess := GetSession(r.Context())
		if sess == nil {
			writeError(w, http.StatusUnauthorized, "SESSION_INVALID", "Missing session", r)
			return
		}
		if !sess.TryAcquire() {
			writeError(w, http.StatusConflict, "REQUEST_IN_PROGRESS", "Another request for this session is still running", r)
			return
		}
		defer sess.Release()

		next.ServeHTTP(w, r)
	})
}

func writeError(w http.ResponseWriter, status int, code, message string, r *http.Request) {
	requestID := r.Header.Get("X-Request-ID")
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"error": map[string]interface{}{
			"code":       code,
			"message":    message,
			"request_id": requestID,
		},
	})
}
