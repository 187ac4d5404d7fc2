package repository

import "context"

// Waiting markers for the single-step conversational flows.
const (
	WaitingMessageAnalysis = "message_analysis"
	WaitingURLCheck        = "url_check"
)

// ConversationState tracks what the next free-text message from a user
// should be treated as. Stored with a TTL; absence means default flow.
type ConversationState struct {
	WaitingFor string `json:"waiting_for"`
}

type StateRepository interface {
	SetState(ctx context.Context, tgID int64, state *ConversationState) error
	GetState(ctx context.Context, tgID int64) (*ConversationState, error)
	ClearState(ctx context.Context, tgID int64) error
}
