// Package retrieval ranks stored messages against a query by combining
// keyword overlap, intent, topics, conversation context and fact
// consistency, then picks a diverse top-K.
package retrieval

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/sandevgo/mimic/internal/core"
	"github.com/sandevgo/mimic/internal/service/facts"
	"github.com/sandevgo/mimic/pkg/log"
)

// MessageSource is the read side of the message store.
type MessageSource interface {
	Messages(ctx context.Context) []core.MessageRecord
}

// Query is built per retrieval call.
type Query struct {
	Text           string
	History        []core.Turn
	ConversationID string
	TopK           int
	Channel        string
}

type Engine struct {
	store   MessageSource
	memory  core.ConversationMemory
	tracker *facts.Tracker
	scorer  *Scorer
	opts    Options
}

// NewEngine wires the engine. memory may be nil.
func NewEngine(store MessageSource, memory core.ConversationMemory, tracker *facts.Tracker, opts Options) *Engine {
	if tracker == nil {
		tracker = facts.NewDefaultTracker()
	}
	return &Engine{
		store:   store,
		memory:  memory,
		tracker: tracker,
		scorer:  NewScorer(tracker),
		opts:    opts,
	}
}

// RetrieveSimilar returns the stored messages best suited to ground a reply
// to q. It never fails: every problem degrades to fewer results.
func (e *Engine) RetrieveSimilar(ctx context.Context, q Query) []core.ScoredCandidate {
	logger := log.FromCtx(ctx).With().Str("component", "retrieval").Logger()

	records := e.store.Messages(ctx)
	if len(records) == 0 {
		logger.Debug().Msg("message store is empty")
		return nil
	}

	topK := q.TopK
	if topK <= 0 {
		topK = e.opts.DefaultTopK
	}

	history := e.history(ctx, q)
	qf := NewQueryFeatures(q.Text, history, e.opts.ContextTurns, e.opts.FactTurns, e.tracker)

	ranked := e.Rank(records, qf, q.Channel)
	selected := SelectDiverse(ranked, topK)
	results := e.preferQuality(selected)

	logger.Debug().
		Int("candidates", len(records)).
		Int("passed", len(ranked)).
		Int("returned", len(results)).
		Msg("retrieval finished")

	e.recordEpisodes(ctx, q, results)
	return results
}

// Rank scores every record allowed by the channel filter and returns the
// ones above MinScore, best first.
func (e *Engine) Rank(records []core.MessageRecord, qf QueryFeatures, channel string) []core.ScoredCandidate {
	ranked := make([]core.ScoredCandidate, 0, len(records))

	for _, rec := range records {
		if channel != "" && !strings.EqualFold(rec.ChannelName(), channel) {
			continue
		}
		cand := e.scorer.Score(rec, qf)
		if cand.Similarity <= e.opts.MinScore {
			continue
		}
		ranked = append(ranked, cand)
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Similarity > ranked[j].Similarity
	})
	return ranked
}

func (e *Engine) history(ctx context.Context, q Query) []core.Turn {
	if len(q.History) > 0 || q.ConversationID == "" || e.memory == nil {
		return q.History
	}

	turns, err := e.memory.GetContext(ctx, q.ConversationID, max(e.opts.ContextTurns, e.opts.FactTurns))
	if err != nil {
		log.FromCtx(ctx).Warn().Err(err).Str("conversation_id", q.ConversationID).Msg("failed to load conversation context")
		return nil
	}
	return turns
}

func (e *Engine) preferQuality(selected []core.ScoredCandidate) []core.ScoredCandidate {
	quality := make([]core.ScoredCandidate, 0, len(selected))
	for _, c := range selected {
		if c.Similarity > e.opts.QualityScore {
			quality = append(quality, c)
		}
	}
	if len(quality) > 0 {
		return quality
	}

	limit := e.opts.FallbackLimit
	if limit <= 0 {
		return nil
	}
	if len(selected) < limit {
		limit = len(selected)
	}
	return selected[:limit]
}

// recordEpisodes logs every quality result to the episodic memory. Failures
// stay here.
func (e *Engine) recordEpisodes(ctx context.Context, q Query, results []core.ScoredCandidate) {
	if e.memory == nil {
		return
	}

	logger := log.FromCtx(ctx)
	for _, c := range results {
		if c.Similarity <= e.opts.QualityScore {
			continue
		}
		ep := core.Episode{
			ConversationID: q.ConversationID,
			Query:          q.Text,
			MatchedText:    c.Text,
			Similarity:     c.Similarity,
			Explanation:    Explain(c),
			CreatedAt:      time.Now().UTC(),
		}
		if err := e.memory.AppendMemory(ctx, ep); err != nil {
			logger.Debug().Err(err).Msg("failed to record retrieval episode")
		}
	}
}
