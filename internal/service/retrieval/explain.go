package retrieval

import (
	"fmt"
	"strings"

	"github.com/sandevgo/mimic/internal/core"
)

// Explain renders a one-line breakdown of how a candidate was scored.
func Explain(c core.ScoredCandidate) string {
	sc := c.ScoreComponents

	var b strings.Builder
	fmt.Fprintf(&b, "keywords %.2f + intent %.2f + topics %.2f + context %.2f + facts %.2f",
		sc.KeywordSimilarity, sc.IntentMatch, sc.TopicMatch, sc.ContextMatch, sc.FactConsistency)

	for _, p := range c.Penalties {
		switch p {
		case PenaltyGeneric:
			fmt.Fprintf(&b, " x%.1f (generic)", genericMultiplier)
		case PenaltyOffContext:
			fmt.Fprintf(&b, " x%.1f (off context)", offContextMultiplier)
		}
	}

	fmt.Fprintf(&b, " = %.2f", c.Similarity)
	return b.String()
}
