package models

// WebSocket message types
const (
	WSTypeStageUpdate = "stage_update"
	WSTypeCompleted   = "completed"
)

type WSMessage struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

// StageUpdate reports which pipeline step a session's request is in.
type StageUpdate struct {
	RequestID string `json:"request_id"`
	Step      int    `json:"step"`
	StepName  string `json:"step_name"`
}

// API Error response
type APIError struct {
	Code      string            `json:"code"`
	Message   string            `json:"message"`
	Fields    map[string]string `json:"fields,omitempty"`
	RequestID string            `json:"request_id"`
}

type ErrorResponse struct {
	Error APIError `json:"error"`
}
