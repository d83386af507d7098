package retrieval

import (
	"fmt"
	"strings"

	"github.com/pkoukk/tiktoken-go"
	"github.com/sandevgo/mimic/internal/core"
)

const DefaultEncoding = "cl100k_base"

type TokenCounter interface {
	Count(text string) int
}

type TiktokenCounter struct {
	enc *tiktoken.Tiktoken
}

func NewTiktokenCounter(encoding string) (*TiktokenCounter, error) {
	enc, err := tiktoken.GetEncoding(encoding)
	if err != nil {
		return nil, fmt.Errorf("failed to load tiktoken encoding %q: %w", encoding, err)
	}
	return &TiktokenCounter{enc: enc}, nil
}

func (c *TiktokenCounter) Count(text string) int {
	if text == "" {
		return 0
	}
	return len(c.enc.Encode(text, nil, nil))
}

// WordCounter approximates tokens by whitespace-separated words. Used when
// the BPE ranks cannot be loaded.
type WordCounter struct{}

func (WordCounter) Count(text string) int {
	return len(strings.Fields(text))
}

// FormatExamples renders results as reply examples for a generation prompt,
// stopping before the block that would exceed maxTokens. maxTokens <= 0
// means no limit.
func FormatExamples(results []core.ScoredCandidate, maxTokens int, counter TokenCounter) string {
	var b strings.Builder
	used := 0

	for _, r := range results {
		block := formatExample(r)
		cost := counter.Count(block)
		if maxTokens > 0 && used+cost > maxTokens {
			break
		}
		b.WriteString(block)
		used += cost
	}

	return b.String()
}

func formatExample(r core.ScoredCandidate) string {
	var b strings.Builder
	if ctx := strings.TrimSpace(r.Context); ctx != "" {
		b.WriteString("Them: ")
		b.WriteString(ctx)
		b.WriteByte('\n')
	}
	b.WriteString("Me: ")
	b.WriteString(strings.TrimSpace(r.Text))
	b.WriteString("\n\n")
	return b.String()
}
