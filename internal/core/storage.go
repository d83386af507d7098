package core

import "context"

type MessageStore interface {
	AddBatch(ctx context.Context, msgs []IncomingMessage) (int, error)
	Messages(ctx context.Context) []MessageRecord
}

// ConversationMemory is the stateful side store keyed by conversation id.
type ConversationMemory interface {
	GetContext(ctx context.Context, conversationID string, limit int) ([]Turn, error)
	AppendMemory(ctx context.Context, ep Episode) error
}

type EpisodesRepository interface {
	ConversationMemory
	AppendTurn(ctx context.Context, conversationID string, turn Turn) error
	ListEpisodes(ctx context.Context, limit int) ([]Episode, error)
}
