package features

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractTopics(t *testing.T) {
	tests := []struct {
		name string
		text string
		want TopicSet
	}{
		{name: "none", text: "What's the weather?", want: 0},
		{name: "personal", text: "What's your favorite food?", want: TopicSet(TopicPersonal)},
		{name: "multiple", text: "Booked a flight for the work meeting", want: TopicSet(TopicTravel | TopicWork)},
		{name: "whole tokens only", text: "showcase of the category", want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractTopics(tt.text))
		})
	}
}

func TestTopicSet(t *testing.T) {
	a := TopicSet(TopicWork | TopicTravel)
	b := TopicSet(TopicTravel | TopicPersonal)

	assert.Equal(t, 1, a.Common(b))
	assert.Equal(t, 3, a.Union(b).Len())
	assert.Equal(t, "work,travel", a.String())
	assert.True(t, a.Has(TopicWork))
	assert.False(t, a.Has(TopicPersonal))
}

func TestExtractTopicsFromTurns(t *testing.T) {
	got := ExtractTopicsFromTurns("new job starts monday", "and then a beach trip")
	assert.Equal(t, TopicSet(TopicWork|TopicTravel), got)
}
