package retrieval

import (
	"strings"

	"github.com/sandevgo/mimic/internal/core"
	"github.com/sandevgo/mimic/internal/service/facts"
	"github.com/sandevgo/mimic/internal/service/features"
)

const (
	questionAnswerBonus = 0.2
	greetingBonus       = 0.15
	opinionBonus        = 0.1
	toneBonus           = 0.1
	topicWeight         = 0.15
	contextTopicWeight  = 0.1

	genericMultiplier    = 0.5
	offContextMultiplier = 0.7

	// shortReplyWords bounds what still counts as a reply to a greeting.
	shortReplyWords = 6
)

const (
	PenaltyGeneric    = "generic"
	PenaltyOffContext = "off_context"
)

var genericResponses = map[string]struct{}{
	"yes": {}, "no": {}, "maybe": {}, "ok": {}, "okay": {},
	"sure": {}, "thanks": {}, "hello": {}, "hi": {}, "hey": {},
}

// QueryFeatures is everything extracted once per retrieval call.
type QueryFeatures struct {
	Text               string
	Keywords           []string
	Intent             features.Intent
	Topics             features.TopicSet
	ConversationTopics features.TopicSet
	Facts              facts.Facts

	historyLen       int
	lastUser         string
	lastUserKeywords []string
	lastUserIntent   features.Intent
}

// NewQueryFeatures extracts the query signals and folds in the last
// contextTurns turns of history for topic context and the last factTurns
// turns for fact tracking. A window of 0 disables that signal.
func NewQueryFeatures(text string, history []core.Turn, contextTurns, factTurns int, tracker *facts.Tracker) QueryFeatures {
	q := QueryFeatures{
		Text:       text,
		Keywords:   features.ExtractKeywords(text),
		Intent:     features.AnalyzeIntent(text),
		Topics:     features.ExtractTopics(text),
		historyLen: len(history),
	}

	for _, turn := range tail(history, contextTurns) {
		q.ConversationTopics = q.ConversationTopics.Union(features.ExtractTopics(turn.Text))
	}

	if tracker != nil {
		q.Facts = tracker.Extract(tail(history, factTurns))
	}

	for i := len(history) - 1; i >= 0; i-- {
		if !history[i].IsClone() {
			q.lastUser = history[i].Text
			q.lastUserKeywords = features.ExtractKeywords(q.lastUser)
			q.lastUserIntent = features.AnalyzeIntent(q.lastUser)
			break
		}
	}

	return q
}

type Scorer struct {
	tracker *facts.Tracker
}

func NewScorer(tracker *facts.Tracker) *Scorer {
	return &Scorer{tracker: tracker}
}

// Score computes the composite relevance of one stored record.
func (s *Scorer) Score(rec core.MessageRecord, q QueryFeatures) core.ScoredCandidate {
	if len(rec.Keywords) == 0 {
		rec.Keywords = features.ExtractKeywords(rec.Text)
	}

	intent := features.AnalyzeIntent(rec.Text)
	topics := features.ExtractTopics(rec.Text)

	var c core.ScoreComponents
	c.KeywordSimilarity = features.Jaccard(q.Keywords, rec.Keywords)

	if q.Intent.IsQuestion && strings.Contains(rec.Context, "?") {
		c.IntentMatch += questionAnswerBonus
	}
	if q.Intent.IsGreeting && intent.IsGreeting {
		c.IntentMatch += greetingBonus
	}
	if q.Intent.IsOpinion && intent.IsOpinion {
		c.IntentMatch += opinionBonus
	}
	if q.Intent.Tone == intent.Tone {
		c.IntentMatch += toneBonus
	}

	c.TopicMatch = topicWeight * float64(q.Topics.Common(topics))
	c.ContextMatch = contextTopicWeight * float64(q.ConversationTopics.Common(topics))

	if s.tracker != nil {
		c.FactConsistency = s.tracker.CheckConsistency(rec.Text, q.Facts)
	}

	cand := core.ScoredCandidate{
		MessageRecord:   rec,
		ScoreComponents: c,
		Similarity:      c.Sum(),
	}

	if isGeneric(rec.Text) {
		cand.Similarity *= genericMultiplier
		cand.Penalties = append(cand.Penalties, PenaltyGeneric)
	}

	if q.offContext(rec) {
		cand.Similarity *= offContextMultiplier
		cand.Penalties = append(cand.Penalties, PenaltyOffContext)
	}

	return cand
}

func isGeneric(text string) bool {
	_, ok := genericResponses[strings.ToLower(strings.TrimSpace(text))]
	return ok
}

// offContext is true when the record has nothing to do with the latest user
// turn: no shared keyword, not an answer to a trailing question and not a
// short reply to a greeting.
func (q QueryFeatures) offContext(rec core.MessageRecord) bool {
	if q.historyLen < 2 || q.lastUser == "" {
		return false
	}
	if features.Overlaps(rec.Keywords, q.lastUserKeywords) {
		return false
	}

	trimmed := strings.TrimSpace(q.lastUser)
	if strings.HasSuffix(trimmed, "?") && !features.AnalyzeIntent(rec.Text).IsQuestion {
		return false
	}
	if q.lastUserIntent.IsGreeting && len(features.Tokenize(rec.Text)) <= shortReplyWords {
		return false
	}

	return true
}

// tail returns the last n turns. A window of 0 selects no turns.
func tail(turns []core.Turn, n int) []core.Turn {
	if n <= 0 {
		return nil
	}
	if len(turns) <= n {
		return turns
	}
	return turns[len(turns)-n:]
}
