package services

import (
	"context"

	"sciencegpt-backend/internal/models"
)

// Pipeline step names reported to the session's progress stream.
const (
	StepTranslatingQuestion = "translating_question"
	StepGeneratingAnswer    = "generating_answer"
	StepTranslatingAnswer   = "translating_answer"
	StepSearchingVideo      = "searching_video"
	StepSummarizingVideo    = "summarizing_video"
	StepCompleted           = "completed"
)

// Publisher delivers progress messages to a session's listeners.
type Publisher interface {
	Publish(ctx context.Context, sessionID string, msg models.WSMessage) error
}

// progressReporter numbers the steps of one request. A nil publisher or an
// empty session id makes it a no-op.
type progressReporter struct {
	pub       Publisher
	sessionID string
	requestID string
	step      int
}

func (r *progressReporter) stage(ctx context.Context, name string) {
	r.step++
	r.send(ctx, models.WSTypeStageUpdate, name)
}

func (r *progressReporter) done(ctx context.Context) {
	r.step++
	r.send(ctx, models.WSTypeCompleted, StepCompleted)
}

func (r *progressReporter) send(ctx context.Context, typ, name string) {
	if r.pub == nil || r.sessionID == "" {
		return
	}
	// Progress is advisory; a dropped event never fails the request.
	_ = r.pub.Publish(ctx, r.sessionID, models.WSMessage{
		Type: typ,
		Payload: models.StageUpdate{
			RequestID: r.requestID,
			Step:      r.step,
			StepName:  name,
		},
	})
}
