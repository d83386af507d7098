package retrieval

import (
	"testing"

	"github.com/sandevgo/mimic/internal/core"
	"github.com/sandevgo/mimic/internal/service/facts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newQuery(text string, history ...core.Turn) QueryFeatures {
	return NewQueryFeatures(text, history, DefaultContextTurns, DefaultFactTurns, facts.NewDefaultTracker())
}

func TestScorer_Components(t *testing.T) {
	s := NewScorer(facts.NewDefaultTracker())

	got := s.Score(core.MessageRecord{
		Text:    "I love Thai curry",
		Context: "what's your favorite food?",
	}, newQuery("What's your favorite food?"))

	assert.Zero(t, got.ScoreComponents.KeywordSimilarity)
	assert.InDelta(t, 0.2, got.ScoreComponents.IntentMatch, 1e-9)
	assert.InDelta(t, 0.15, got.ScoreComponents.TopicMatch, 1e-9)
	assert.Zero(t, got.ScoreComponents.ContextMatch)
	assert.Zero(t, got.ScoreComponents.FactConsistency)
	assert.InDelta(t, 0.35, got.Similarity, 1e-9)
	assert.Equal(t, []string{"love", "thai", "curry"}, got.Keywords, "keywords recomputed when missing")
}

func TestScorer_IntentBonusesStack(t *testing.T) {
	s := NewScorer(nil)

	got := s.Score(core.MessageRecord{
		Text:    "hey! I think it is great",
		Context: "hello, how do you feel?",
	}, newQuery("hey, what do you think? great day"))

	// question+context, greeting, opinion, tone
	assert.InDelta(t, 0.2+0.15+0.1+0.1, got.ScoreComponents.IntentMatch, 1e-9)
}

func TestScorer_ContextTopics(t *testing.T) {
	s := NewScorer(nil)
	q := newQuery("so anyway",
		core.Turn{Sender: core.SenderUser, Text: "my flight got delayed"},
		core.Turn{Sender: core.SenderClone, Text: "ugh airports"},
	)

	got := s.Score(core.MessageRecord{Text: "the hotel was nice though", Keywords: []string{"hotel", "nice", "though"}}, q)
	assert.InDelta(t, 0.1, got.ScoreComponents.ContextMatch, 1e-9)
}

func TestScorer_GenericPenalty(t *testing.T) {
	s := NewScorer(nil)
	q := newQuery("meeting tomorrow")
	keywords := []string{"meeting", "tomorrow"}

	generic := s.Score(core.MessageRecord{Text: "ok", Keywords: keywords}, q)
	regular := s.Score(core.MessageRecord{Text: "sounds fine", Keywords: keywords}, q)

	require.Equal(t, regular.ScoreComponents, generic.ScoreComponents)
	assert.InDelta(t, regular.Similarity*0.5, generic.Similarity, 1e-9)
	assert.Contains(t, generic.Penalties, PenaltyGeneric)
	assert.Empty(t, regular.Penalties)
}

func TestScorer_FactConsistency(t *testing.T) {
	s := NewScorer(facts.NewDefaultTracker())
	q := newQuery("who is the greatest?",
		core.Turn{Sender: core.SenderUser, Text: "settle this for me"},
		core.Turn{Sender: core.SenderClone, Text: "jordan is the goat"},
	)

	lebron := s.Score(core.MessageRecord{Text: "lebron is the greatest of all time"}, q)
	jordan := s.Score(core.MessageRecord{Text: "jordan is the greatest of all time"}, q)

	assert.Less(t, lebron.ScoreComponents.FactConsistency, jordan.ScoreComponents.FactConsistency)
	assert.Negative(t, lebron.ScoreComponents.FactConsistency)
	assert.Greater(t, jordan.Similarity, lebron.Similarity)
}

func TestQueryFeatures_ZeroWindowsUseNoHistory(t *testing.T) {
	history := []core.Turn{
		{Sender: core.SenderUser, Text: "my flight got delayed"},
		{Sender: core.SenderClone, Text: "jordan is the goat"},
	}

	q := NewQueryFeatures("so anyway", history, 0, 0, facts.NewDefaultTracker())
	assert.Empty(t, q.ConversationTopics)
	assert.Empty(t, q.Facts)

	q = NewQueryFeatures("so anyway", history, 1, 1, facts.NewDefaultTracker())
	assert.NotEmpty(t, q.Facts)

	got := NewScorer(facts.NewDefaultTracker()).Score(core.MessageRecord{Text: "lebron is the greatest of all time"},
		NewQueryFeatures("who is the greatest?", history, 0, 0, facts.NewDefaultTracker()))
	assert.Zero(t, got.ScoreComponents.FactConsistency)
}

func TestScorer_ContinuityPenalty(t *testing.T) {
	s := NewScorer(nil)

	tests := []struct {
		name    string
		history []core.Turn
		text    string
		want    bool
	}{
		{
			name:    "short history never penalized",
			history: []core.Turn{{Sender: core.SenderUser, Text: "the deadline is friday"}},
			text:    "bananas are yellow",
			want:    false,
		},
		{
			name: "unrelated to last user turn",
			history: []core.Turn{
				{Sender: core.SenderUser, Text: "did you finish the report"},
				{Sender: core.SenderClone, Text: "almost done"},
				{Sender: core.SenderUser, Text: "cool, the deadline is friday"},
			},
			text: "bananas are yellow",
			want: true,
		},
		{
			name: "shares a keyword",
			history: []core.Turn{
				{Sender: core.SenderUser, Text: "did you finish the report"},
				{Sender: core.SenderClone, Text: "almost done"},
				{Sender: core.SenderUser, Text: "cool, the deadline is friday"},
			},
			text: "the deadline moved again",
			want: false,
		},
		{
			name: "answer to trailing question",
			history: []core.Turn{
				{Sender: core.SenderClone, Text: "brb"},
				{Sender: core.SenderUser, Text: "where are you?"},
			},
			text: "at home",
			want: false,
		},
		{
			name: "question does not answer a question",
			history: []core.Turn{
				{Sender: core.SenderClone, Text: "brb"},
				{Sender: core.SenderUser, Text: "where are you?"},
			},
			text: "are you there?",
			want: true,
		},
		{
			name: "short reply to greeting",
			history: []core.Turn{
				{Sender: core.SenderClone, Text: "long time"},
				{Sender: core.SenderUser, Text: "hey there"},
			},
			text: "yo what's good",
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := s.Score(core.MessageRecord{Text: tt.text}, newQuery("anything", tt.history...))
			if tt.want {
				assert.Contains(t, got.Penalties, PenaltyOffContext)
				assert.InDelta(t, got.ScoreComponents.Sum()*0.7, got.Similarity, 1e-9)
			} else {
				assert.NotContains(t, got.Penalties, PenaltyOffContext)
			}
		})
	}
}

func TestExplain(t *testing.T) {
	c := core.ScoredCandidate{
		ScoreComponents: core.ScoreComponents{KeywordSimilarity: 0.5, IntentMatch: 0.1},
		Similarity:      0.3,
		Penalties:       []string{PenaltyGeneric},
	}

	assert.Equal(t,
		"keywords 0.50 + intent 0.10 + topics 0.00 + context 0.00 + facts 0.00 x0.5 (generic) = 0.30",
		Explain(c))
}
