package models

import "time"

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ChatMessage represents a single message in a session transcript.
type ChatMessage struct {
	Role            string    `json:"role"` // "user" or "assistant"
	Content         string    `json:"content"`
	VideoURL        *string   `json:"video_url,omitempty"`
	VideoSummary    *string   `json:"video_summary,omitempty"`
	OriginalEnglish *string   `json:"original_english,omitempty"`
	Timestamp       time.Time `json:"timestamp"`
}

// ChatRequest is the payload sent to the chat endpoint.
type ChatRequest struct {
	Message string `json:"message"`
}

// ChatResponse is returned after a question has gone through the pipeline.
type ChatResponse struct {
	Answer      Answer  `json:"answer"`
	PointsAdded int     `json:"points_added"`
	NewBadges   []Badge `json:"new_badges"`
}

type TranscriptResponse struct {
	Messages []ChatMessage `json:"messages"`
}
