package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/sandevgo/mimic/internal/core"
	"github.com/sandevgo/mimic/pkg/log"
)

// EpisodeRepo stores retrieval episodes and live conversation turns.
type EpisodeRepo struct {
	db  *sql.DB
	now func() time.Time
}

var _ core.EpisodesRepository = (*EpisodeRepo)(nil)

func NewEpisodeRepo(db *sql.DB) *EpisodeRepo {
	return &EpisodeRepo{
		db:  db,
		now: time.Now,
	}
}

// AppendMemory stores an episode, assigning an id and creation time when
// they are missing.
func (r *EpisodeRepo) AppendMemory(ctx context.Context, ep core.Episode) error {
	if ep.ID == "" {
		ep.ID = uuid.NewString()
	}
	if ep.CreatedAt.IsZero() {
		ep.CreatedAt = r.now()
	}

	query := `INSERT INTO episodes (id, conversation_id, query, matched_text, similarity, explanation, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		ep.ID, ep.ConversationID, ep.Query, ep.MatchedText, ep.Similarity, ep.Explanation, formatTime(ep.CreatedAt))
	if err != nil {
		return fmt.Errorf("failed to insert episode: %w", err)
	}
	return nil
}

// ListEpisodes returns the newest episodes first.
func (r *EpisodeRepo) ListEpisodes(ctx context.Context, limit int) ([]core.Episode, error) {
	query := `SELECT id, conversation_id, query, matched_text, similarity, explanation, created_at
		FROM episodes ORDER BY created_at DESC, rowid DESC LIMIT ?`
	return r.queryEpisodes(ctx, query, limit)
}

// ConversationEpisodes returns the newest episodes of one conversation first.
func (r *EpisodeRepo) ConversationEpisodes(ctx context.Context, conversationID string, limit int) ([]core.Episode, error) {
	query := `SELECT id, conversation_id, query, matched_text, similarity, explanation, created_at
		FROM episodes WHERE conversation_id = ? ORDER BY created_at DESC, rowid DESC LIMIT ?`
	return r.queryEpisodes(ctx, query, conversationID, limit)
}

// PruneBefore deletes episodes and turns created before cutoff.
func (r *EpisodeRepo) PruneBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin prune: %w", err)
	}
	defer tx.Rollback()

	ts := formatTime(cutoff)
	var total int64
	for _, query := range []string{
		`DELETE FROM episodes WHERE created_at < ?`,
		`DELETE FROM turns WHERE created_at < ?`,
	} {
		res, err := tx.ExecContext(ctx, query, ts)
		if err != nil {
			return 0, fmt.Errorf("failed to prune: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return 0, err
		}
		total += n
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit prune: %w", err)
	}

	log.FromCtx(ctx).Debug().Int64("deleted", total).Time("cutoff", cutoff).Msg("pruned episodic memory")
	return total, nil
}

func (r *EpisodeRepo) queryEpisodes(ctx context.Context, query string, args ...any) ([]core.Episode, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query episodes: %w", err)
	}
	defer rows.Close()

	var episodes []core.Episode
	for rows.Next() {
		var ep core.Episode
		var createdAt string
		if err := rows.Scan(&ep.ID, &ep.ConversationID, &ep.Query, &ep.MatchedText, &ep.Similarity, &ep.Explanation, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan episode: %w", err)
		}
		if ep.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, fmt.Errorf("bad episode timestamp %q: %w", createdAt, err)
		}
		episodes = append(episodes, ep)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return episodes, nil
}

// Timestamps are stored as fixed-width UTC text so lexical order matches time
// order.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	return time.Parse(timeLayout, s)
}
