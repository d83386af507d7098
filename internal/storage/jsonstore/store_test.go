package jsonstore

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sandevgo/mimic/internal/core"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s := New(filepath.Join(t.TempDir(), "users", "u1", "messages.json"))
	s.now = func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) }
	return s
}

func TestStore_Load_MissingFile(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)

	require.NoError(t, s.Load(context.Background()))
	assert.Empty(t, s.Messages(context.Background()))
}

func TestStore_Open_MalformedFileStartsEmpty(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "messages.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))

	s := Open(context.Background(), path)
	assert.Equal(t, 0, s.Len())

	assert.Error(t, s.Load(context.Background()))
	assert.Equal(t, 0, s.Len())
}

func TestStore_Load_DropsBlankRecords(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "messages.json")
	data, err := json.Marshal(document{Messages: []core.MessageRecord{
		{Text: "   ", Sender: "me"},
		{Text: "see you at six", Sender: "me"},
		{Text: "", Sender: "me"},
	}})
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0644))

	s := Open(context.Background(), path)
	got := s.Messages(context.Background())
	require.Len(t, got, 1)
	assert.Equal(t, "see you at six", got[0].Text)
}

func TestStore_AddBatch_ValidatesRecords(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	ctx := context.Background()

	added, err := s.AddBatch(ctx, []core.IncomingMessage{
		{Text: "  I love hiking in the mountains  ", Sender: "user", PreviousMessage: " any plans? "},
		{Text: "   ", Sender: "user"},
		{Text: "no sender here"},
		{Text: "bad time", Sender: "user", Timestamp: "yesterday-ish"},
		{Text: "game was great", Sender: "user", Timestamp: "2025-05-01T10:00:00Z", Channel: "discord"},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, added)

	msgs := s.Messages(ctx)
	require.Len(t, msgs, 2)

	assert.Equal(t, "I love hiking in the mountains", msgs[0].Text)
	assert.Equal(t, "any plans?", msgs[0].Context)
	assert.Equal(t, "2026-01-02T03:04:05Z", msgs[0].Timestamp)
	assert.Equal(t, []string{"love", "hiking", "mountains"}, msgs[0].Keywords)

	assert.Equal(t, "2025-05-01T10:00:00Z", msgs[1].Timestamp)
	assert.Equal(t, "discord", msgs[1].ChannelName())
}

func TestStore_AddBatch_Persists(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.AddBatch(ctx, []core.IncomingMessage{{Text: "hello there friend", Sender: "user"}})
	require.NoError(t, err)

	data, err := os.ReadFile(s.Path())
	require.NoError(t, err)

	var doc map[string][]map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))
	require.Len(t, doc["messages"], 1)
	assert.Equal(t, "hello there friend", doc["messages"][0]["text"])

	info, err := os.Stat(s.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0644), info.Mode().Perm())

	reopened := Open(ctx, s.Path())
	assert.Equal(t, s.Messages(ctx), reopened.Messages(ctx))
}

func TestStore_AddBatch_NothingValidSkipsWrite(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)

	added, err := s.AddBatch(context.Background(), []core.IncomingMessage{{Text: ""}})
	require.NoError(t, err)
	assert.Zero(t, added)

	_, statErr := os.Stat(s.Path())
	assert.True(t, os.IsNotExist(statErr))
}

func TestStore_Messages_ReturnsCopy(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.AddBatch(ctx, []core.IncomingMessage{{Text: "original text", Sender: "user"}})
	require.NoError(t, err)

	msgs := s.Messages(ctx)
	msgs[0].Text = "mutated"

	assert.Equal(t, "original text", s.Messages(ctx)[0].Text)
}

func TestStore_CompactAndClear(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Rewrite(ctx, []core.MessageRecord{
		{Text: "same words", Context: "ctx", Sender: "user"},
		{Text: "same words", Context: "ctx", Sender: "user"},
		{Text: "same words", Context: "other", Sender: "user"},
		{Text: "  ", Sender: "user"},
	}))
	assert.Equal(t, 3, s.Len())

	removed, err := s.Compact(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	msgs := s.Messages(ctx)
	require.Len(t, msgs, 2)
	assert.Equal(t, []string{"same", "words"}, msgs[0].Keywords)

	require.NoError(t, s.Clear(ctx))
	assert.Zero(t, s.Len())

	data, err := os.ReadFile(s.Path())
	require.NoError(t, err)
	assert.JSONEq(t, `{"messages": []}`, string(data))
}
