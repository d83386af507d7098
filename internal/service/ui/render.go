package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/sandevgo/mimic/internal/core"
	"github.com/sandevgo/mimic/internal/service/retrieval"
)

// RenderResults formats retrieval results for the terminal.
func RenderResults(results []core.ScoredCandidate) string {
	if len(results) == 0 {
		return DescStyle.Render("no matching messages") + "\n"
	}

	var sb strings.Builder
	for i, r := range results {
		header := fmt.Sprintf("%d. %s", i+1, ScoreStyle.Render(fmt.Sprintf("%.2f", r.Similarity)))
		if ch := r.ChannelName(); ch != "" {
			header += " " + DescStyle.Render("#"+ch)
		}
		if len(r.Penalties) > 0 {
			header += " " + PenaltyStyle.Render(strings.Join(r.Penalties, ","))
		}
		sb.WriteString(header + "\n")

		if r.Context != "" {
			sb.WriteString(QuoteStyle.Render(DescStyle.Render("them: "+r.Context)) + "\n")
		}
		sb.WriteString(QuoteStyle.Render("me:   "+r.Text) + "\n")
		sb.WriteString(DescStyle.Render(retrieval.Explain(r)) + "\n\n")
	}
	return sb.String()
}

// RenderEpisodes formats the episodic log, newest first.
func RenderEpisodes(episodes []core.Episode) string {
	if len(episodes) == 0 {
		return DescStyle.Render("no episodes recorded") + "\n"
	}

	var sb strings.Builder
	for _, ep := range episodes {
		sb.WriteString(fmt.Sprintf("%s %s %s\n",
			DescStyle.Render(ep.CreatedAt.Local().Format(time.DateTime)),
			UsageStyle.Render(ep.ConversationID),
			ScoreStyle.Render(fmt.Sprintf("%.2f", ep.Similarity)),
		))
		sb.WriteString(QuoteStyle.Render("query: "+ep.Query) + "\n")
		sb.WriteString(QuoteStyle.Render("match: "+ep.MatchedText) + "\n")
		if ep.Explanation != "" {
			sb.WriteString(DescStyle.Render(ep.Explanation) + "\n")
		}
		sb.WriteString("\n")
	}
	return sb.String()
}
