package facts

import (
	"regexp"
	"testing"

	"github.com/sandevgo/mimic/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTracker_Extract(t *testing.T) {
	tr := NewDefaultTracker()

	tests := []struct {
		name  string
		turns []core.Turn
		want  map[string][]string
	}{
		{
			name:  "no turns",
			turns: nil,
			want:  map[string][]string{},
		},
		{
			name: "user claims are ignored",
			turns: []core.Turn{
				{Sender: core.SenderUser, Text: "lebron is the goat"},
			},
			want: map[string][]string{},
		},
		{
			name: "clone superlative",
			turns: []core.Turn{
				{Sender: core.SenderUser, Text: "who is the best ever?"},
				{Sender: core.SenderClone, Text: "Jordan is the GOAT, no question"},
			},
			want: map[string][]string{"sports.best_player": {"jordan"}},
		},
		{
			name: "last mention wins",
			turns: []core.Turn{
				{Sender: "assistant", Text: "jordan is the best"},
				{Sender: "assistant", Text: "ok fine, kobe is the greatest"},
			},
			want: map[string][]string{"sports.best_player": {"kobe"}},
		},
		{
			name: "prediction and trade",
			turns: []core.Turn{
				{Sender: core.SenderClone, Text: "I think the Celtics will win this year"},
				{Sender: core.SenderClone, Text: "did you hear durant moved to the suns"},
			},
			want: map[string][]string{
				"sports.title_pick": {"celtics"},
				"sports.trade":      {"durant", "suns"},
			},
		},
		{
			name: "claim without opinion cue is not tracked",
			turns: []core.Turn{
				{Sender: core.SenderClone, Text: "celtics win tonight"},
			},
			want: map[string][]string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tr.Extract(tt.turns)
			values := make(map[string][]string, len(got))
			for k, f := range got {
				values[k] = f.Values
			}
			assert.Equal(t, tt.want, values)
		})
	}
}

func TestTracker_CheckConsistency(t *testing.T) {
	tr := NewDefaultTracker()
	facts := tr.Extract([]core.Turn{
		{Sender: core.SenderClone, Text: "jordan is the goat"},
	})
	require.Len(t, facts, 1)

	agree := tr.CheckConsistency("jordan is the greatest of all time", facts)
	disagree := tr.CheckConsistency("lebron is the greatest of all time", facts)
	unrelated := tr.CheckConsistency("pasta for dinner again", facts)
	mention := tr.CheckConsistency("the goat debate is over, jordan", facts)

	assert.InDelta(t, 0.5, agree, 1e-9)
	assert.InDelta(t, -0.3, disagree, 1e-9)
	assert.Less(t, disagree, agree)
	assert.Zero(t, unrelated)
	assert.InDelta(t, 0.5, mention, 1e-9)
}

func TestTracker_CheckConsistency_Stacks(t *testing.T) {
	tr := NewDefaultTracker()
	facts := tr.Extract([]core.Turn{
		{Sender: core.SenderClone, Text: "jordan is the goat"},
		{Sender: core.SenderClone, Text: "the celtics will win it all"},
	})

	got := tr.CheckConsistency("lebron is the best and the lakers will win the title", facts)
	assert.InDelta(t, -0.6, got, 1e-9)

	got = tr.CheckConsistency("jordan is the best and the celtics will win the title", facts)
	assert.InDelta(t, 1.0, got, 1e-9)
}

func TestTracker_CheckConsistency_SubjectSlots(t *testing.T) {
	tr := NewDefaultTracker()
	facts := tr.Extract([]core.Turn{
		{Sender: core.SenderClone, Text: "durant moved to the suns"},
	})

	assert.InDelta(t, -0.3, tr.CheckConsistency("durant signed with the nets", facts), 1e-9)
	assert.InDelta(t, 0.5, tr.CheckConsistency("yeah durant got traded to the suns", facts), 1e-9)
	assert.Zero(t, tr.CheckConsistency("curry signed with the warriors", facts))
}

func TestTracker_TradeNeedsBasketballContext(t *testing.T) {
	tr := NewDefaultTracker()

	errand := tr.Extract([]core.Turn{{Sender: core.SenderClone, Text: "I went to the store earlier"}})
	assert.Empty(t, errand)

	trade := tr.Extract([]core.Turn{{Sender: core.SenderClone, Text: "durant got traded to the suns"}})
	require.Contains(t, trade, "sports.trade")

	tests := []struct {
		name string
		text string
		want float64
	}{
		{"travel remark", "I went to the beach with friends", 0},
		{"errand", "I went to the store again", 0},
		{"signed without team context", "durant signed with the agency", 0},
		{"same trade", "durant was traded to the suns", 0.5},
		{"different team", "durant signed with the nets", -0.3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, tr.CheckConsistency(tt.text, trade), 1e-9)
		})
	}
}

func TestTracker_PronounsAreNotEntities(t *testing.T) {
	tr := NewDefaultTracker()

	facts := tr.Extract([]core.Turn{{Sender: core.SenderClone, Text: "Jordan? honestly he's the goat"}})
	assert.NotContains(t, facts, "sports.best_player")

	facts = tr.Extract([]core.Turn{
		{Sender: core.SenderClone, Text: "jordan is the goat"},
		{Sender: core.SenderClone, Text: "and that is the best part, he was the greatest"},
	})
	require.Contains(t, facts, "sports.best_player")
	assert.Equal(t, []string{"jordan"}, facts["sports.best_player"].Values)

	agree := tr.CheckConsistency("jordan is the greatest of all time", facts)
	disagree := tr.CheckConsistency("lebron is the greatest of all time", facts)
	assert.Greater(t, agree, disagree)
	assert.Zero(t, tr.CheckConsistency("he is the greatest, trust me", facts))

	values, ok := DefaultRules()[0].match("they are great but kobe is the best")
	require.True(t, ok)
	assert.Equal(t, []string{"kobe"}, values)
}

func TestTracker_Register(t *testing.T) {
	tr := NewTracker(nil, DefaultGates())
	tr.Register(Rule{
		Key:            "food.favorite",
		Domain:         "food",
		Pattern:        regexp.MustCompile(`(?i)\bfavorite food is ([a-z]+)`),
		Slots:          []string{"dish"},
		Cues:           []string{"food", "dish"},
		RequireOpinion: true,
		Support:        0.4,
		Contradict:     -0.2,
	})

	facts := tr.Extract([]core.Turn{{Sender: core.SenderClone, Text: "my favorite food is ramen"}})
	require.Contains(t, facts, "food.favorite")

	assert.InDelta(t, 0.4, tr.CheckConsistency("honestly my favorite food is ramen", facts), 1e-9)
	assert.InDelta(t, -0.2, tr.CheckConsistency("my favorite food is tacos", facts), 1e-9)
}
