package sqlite

import (
	"context"
	"fmt"
	"slices"

	"github.com/sandevgo/mimic/internal/core"
	"github.com/sandevgo/mimic/pkg/log"
)

func (r *EpisodeRepo) AppendTurn(ctx context.Context, conversationID string, turn core.Turn) error {
	query := `INSERT INTO turns (conversation_id, sender, text, created_at) VALUES (?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query, conversationID, turn.Sender, turn.Text, formatTime(r.now()))
	if err != nil {
		return fmt.Errorf("failed to insert turn: %w", err)
	}
	return nil
}

// GetContext returns the last limit turns of a conversation, oldest first.
func (r *EpisodeRepo) GetContext(ctx context.Context, conversationID string, limit int) ([]core.Turn, error) {
	if limit <= 0 {
		return nil, nil
	}

	query := `SELECT sender, text FROM turns WHERE conversation_id = ? ORDER BY id DESC LIMIT ?`
	rows, err := r.db.QueryContext(ctx, query, conversationID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query turns: %w", err)
	}
	defer rows.Close()

	var turns []core.Turn
	for rows.Next() {
		var t core.Turn
		if err := rows.Scan(&t.Sender, &t.Text); err != nil {
			return nil, fmt.Errorf("failed to scan turn: %w", err)
		}
		turns = append(turns, t)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	slices.Reverse(turns)

	log.FromCtx(ctx).Debug().Str("conversation", conversationID).Int("count", len(turns)).Msg("loaded conversation turns")
	return turns, nil
}
