package retrieval

import (
	"testing"

	"github.com/sandevgo/mimic/internal/core"
	"github.com/stretchr/testify/assert"
)

func TestFormatExamples(t *testing.T) {
	results := []core.ScoredCandidate{
		{MessageRecord: core.MessageRecord{Text: "I love Thai curry", Context: "favorite food?"}},
		{MessageRecord: core.MessageRecord{Text: " see you at noon "}},
		{MessageRecord: core.MessageRecord{Text: "this one does not fit", Context: "anything else?"}},
	}

	tests := []struct {
		name      string
		maxTokens int
		want      string
	}{
		{
			name:      "unlimited",
			maxTokens: 0,
			want: "Them: favorite food?\nMe: I love Thai curry\n\n" +
				"Me: see you at noon\n\n" +
				"Them: anything else?\nMe: this one does not fit\n\n",
		},
		{
			name:      "budget stops before overflow",
			maxTokens: 13,
			want: "Them: favorite food?\nMe: I love Thai curry\n\n" +
				"Me: see you at noon\n\n",
		},
		{
			name:      "budget too small for anything",
			maxTokens: 2,
			want:      "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatExamples(results, tt.maxTokens, WordCounter{}))
		})
	}
}

func TestWordCounter(t *testing.T) {
	assert.Equal(t, 0, WordCounter{}.Count(""))
	assert.Equal(t, 3, WordCounter{}.Count(" one two\nthree "))
}
