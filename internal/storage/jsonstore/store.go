// Package jsonstore keeps one user's message history in a single JSON
// document and rewrites it after every mutating batch.
package jsonstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/sandevgo/mimic/internal/core"
	"github.com/sandevgo/mimic/internal/service/features"
	"github.com/sandevgo/mimic/pkg/log"
)

var (
	ErrEmptyText     = errors.New("empty text")
	ErrMissingSender = errors.New("missing sender")
)

var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	time.DateTime,
	time.DateOnly,
}

type document struct {
	Messages []core.MessageRecord `json:"messages"`
}

// Store is owned by a single process; the mutex only orders goroutines
// inside it.
type Store struct {
	path     string
	mu       sync.RWMutex
	messages []core.MessageRecord
	now      func() time.Time
}

var _ core.MessageStore = (*Store)(nil)

func New(path string) *Store {
	return &Store{
		path: path,
		now:  time.Now,
	}
}

// Open creates the store and loads it. A missing or unreadable file leaves
// the store empty.
func Open(ctx context.Context, path string) *Store {
	s := New(path)
	if err := s.Load(ctx); err != nil {
		log.FromCtx(ctx).Warn().Err(err).Str("path", path).Msg("message store unreadable, starting empty")
	}
	return s
}

func (s *Store) Path() string {
	return s.path
}

// Load replaces the in-memory messages with the file contents, dropping
// records with blank text. On any error
// the store is left empty and the error is returned for logging.
func (s *Store) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.messages = nil

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			log.FromCtx(ctx).Debug().Str("path", s.path).Msg("message store not found, starting empty")
			return nil
		}
		return fmt.Errorf("failed to read message store: %w", err)
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("failed to parse message store: %w", err)
	}

	for _, rec := range doc.Messages {
		if strings.TrimSpace(rec.Text) == "" {
			continue
		}
		s.messages = append(s.messages, rec)
	}
	log.FromCtx(ctx).Debug().
		Int("count", len(s.messages)).
		Int("skipped", len(doc.Messages)-len(s.messages)).
		Msg("loaded message store")
	return nil
}

// Messages returns a snapshot of the stored records.
func (s *Store) Messages(ctx context.Context) []core.MessageRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]core.MessageRecord, len(s.messages))
	copy(out, s.messages)
	return out
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.messages)
}

// AddBatch appends every valid message and persists the whole store once.
// Invalid messages are logged and skipped; only a persistence failure is
// returned.
func (s *Store) AddBatch(ctx context.Context, msgs []core.IncomingMessage) (int, error) {
	logger := log.Component(ctx, "message_store")

	s.mu.Lock()
	defer s.mu.Unlock()

	added := 0
	for i, msg := range msgs {
		rec, err := buildRecord(msg, s.now())
		if err != nil {
			if errors.Is(err, ErrEmptyText) {
				logger.Debug().Int("index", i).Msg("skipping empty message")
				continue
			}
			logger.Warn().Err(err).Int("index", i).Msg("skipping invalid message")
			continue
		}
		s.messages = append(s.messages, rec)
		added++
	}

	if added == 0 {
		return 0, nil
	}

	if err := s.persist(); err != nil {
		return added, err
	}

	logger.Info().Int("added", added).Int("total", len(s.messages)).Msg("message batch stored")
	return added, nil
}

// Rewrite replaces the whole store with records.
func (s *Store) Rewrite(ctx context.Context, records []core.MessageRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.messages = make([]core.MessageRecord, 0, len(records))
	for _, rec := range records {
		if strings.TrimSpace(rec.Text) == "" {
			continue
		}
		s.messages = append(s.messages, rec)
	}
	return s.persist()
}

func (s *Store) Clear(ctx context.Context) error {
	return s.Rewrite(ctx, nil)
}

// Compact drops blank records and duplicate text/context pairs, and fills in
// missing keywords. It returns how many records were removed.
func (s *Store) Compact(ctx context.Context) (int, error) {
	records := s.Messages(ctx)

	seen := make(map[[2]string]struct{}, len(records))
	kept := make([]core.MessageRecord, 0, len(records))

	for _, rec := range records {
		if strings.TrimSpace(rec.Text) == "" {
			continue
		}
		key := [2]string{strings.TrimSpace(rec.Text), strings.TrimSpace(rec.Context)}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}

		if len(rec.Keywords) == 0 {
			rec.Keywords = features.ExtractKeywords(rec.Text)
		}
		kept = append(kept, rec)
	}

	if err := s.Rewrite(ctx, kept); err != nil {
		return 0, err
	}

	removed := len(records) - len(kept)
	log.Component(ctx, "message_store").Info().Int("removed", removed).Int("total", len(kept)).Msg("message store compacted")
	return removed, nil
}

func (s *Store) persist() error {
	doc := document{Messages: s.messages}
	if doc.Messages == nil {
		doc.Messages = []core.MessageRecord{}
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal message store: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("failed to create store directory: %w", err)
	}

	if err := os.WriteFile(s.path, data, 0644); err != nil {
		return fmt.Errorf("failed to write message store: %w", err)
	}

	return nil
}

func buildRecord(msg core.IncomingMessage, now time.Time) (core.MessageRecord, error) {
	text := strings.TrimSpace(msg.Text)
	if text == "" {
		return core.MessageRecord{}, ErrEmptyText
	}

	sender := strings.TrimSpace(msg.Sender)
	if sender == "" {
		return core.MessageRecord{}, ErrMissingSender
	}

	ts := strings.TrimSpace(msg.Timestamp)
	if ts == "" {
		ts = now.UTC().Format(time.RFC3339)
	} else if !validTimestamp(ts) {
		return core.MessageRecord{}, fmt.Errorf("invalid timestamp %q", ts)
	}

	return core.MessageRecord{
		Text:         text,
		Context:      strings.TrimSpace(msg.PreviousMessage),
		Sender:       sender,
		Timestamp:    ts,
		Keywords:     features.ExtractKeywords(text),
		ModelVersion: msg.ModelVersion,
		Channel:      msg.Channel,
		Metadata:     msg.Metadata,
	}, nil
}

func validTimestamp(ts string) bool {
	for _, layout := range timestampLayouts {
		if _, err := time.Parse(layout, ts); err == nil {
			return true
		}
	}
	return false
}
