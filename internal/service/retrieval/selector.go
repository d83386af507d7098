package retrieval

import (
	"math"

	"github.com/sandevgo/mimic/internal/core"
	"github.com/sandevgo/mimic/internal/service/features"
)

// SelectDiverse greedily picks up to topK candidates from a ranked list. The
// top candidate always goes first; every next pick maximizes
// score × (1 − mean keyword overlap with the picks so far).
func SelectDiverse(ranked []core.ScoredCandidate, topK int) []core.ScoredCandidate {
	if topK <= 0 || len(ranked) == 0 {
		return nil
	}
	if len(ranked) <= topK {
		out := make([]core.ScoredCandidate, len(ranked))
		copy(out, ranked)
		return out
	}

	remaining := append([]core.ScoredCandidate(nil), ranked...)
	selected := make([]core.ScoredCandidate, 0, topK)

	selected = append(selected, remaining[0])
	remaining = remaining[1:]

	for len(selected) < topK && len(remaining) > 0 {
		bestIdx := -1
		best := math.Inf(-1)

		for i, cand := range remaining {
			total := 0.0
			for _, sel := range selected {
				total += features.Jaccard(cand.Keywords, sel.Keywords)
			}
			diversity := 1 - total/float64(len(selected))

			if current := diversity * cand.Similarity; current > best {
				best = current
				bestIdx = i
			}
		}

		if bestIdx == -1 {
			break
		}
		selected = append(selected, remaining[bestIdx])
		remaining = append(remaining[:bestIdx], remaining[bestIdx+1:]...)
	}

	return selected
}
