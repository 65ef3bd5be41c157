package interfaces

import (
	"context"

	"project_armada/internal/entities"
)

// RowSource reads every row of the tabular data source
type RowSource interface {
	FetchAllRows(ctx context.Context) ([]entities.Row, error)
}

// StateStore keeps the per-chat conversation state
type StateStore interface {
	Get(ctx context.Context, chatID int64) (entities.Session, error)
	Set(ctx context.Context, chatID int64, category string) error
	Clear(ctx context.Context, chatID int64) error
}

// Messenger delivers a reply to a chat
type Messenger interface {
	SendReply(ctx context.Context, chatID int64, reply entities.Reply) error
}

// UsageRecorder counts messages per chat. Errors are logged, never fatal to a turn.
type UsageRecorder interface {
	IncrementReceived(ctx context.Context, chatID int64) error
	IncrementSent(ctx context.Context, chatID int64) error
}
