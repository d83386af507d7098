// Package facts keeps the clone self-consistent: it remembers what the clone
// has claimed in the current conversation and scores candidate replies
// against those claims.
package facts

import (
	"strings"

	"github.com/sandevgo/mimic/internal/core"
	"github.com/sandevgo/mimic/internal/service/features"
)

// Fact is the latest claim recorded for a rule.
type Fact struct {
	Key    string
	Domain string
	Values []string
	Source string
}

// Facts maps rule keys to the last-mentioned claim.
type Facts map[string]Fact

type Tracker struct {
	rules []Rule
	gates []OpinionGate
}

func NewTracker(rules []Rule, gates []OpinionGate) *Tracker {
	return &Tracker{rules: rules, gates: gates}
}

func NewDefaultTracker() *Tracker {
	return NewTracker(DefaultRules(), DefaultGates())
}

// Register adds a rule; a rule with an existing key replaces it.
func (t *Tracker) Register(r Rule) {
	for i := range t.rules {
		if t.rules[i].Key == r.Key {
			t.rules[i] = r
			return
		}
	}
	t.rules = append(t.rules, r)
}

// Extract walks clone turns oldest to newest. User turns never become facts.
func (t *Tracker) Extract(turns []core.Turn) Facts {
	facts := make(Facts)

	for _, turn := range turns {
		if !turn.IsClone() || strings.TrimSpace(turn.Text) == "" {
			continue
		}

		opinion := t.isOpinion(turn.Text)
		tokens := features.Tokenize(turn.Text)
		for _, r := range t.rules {
			if r.RequireOpinion && !opinion {
				continue
			}
			if !r.inDomain(tokens) {
				continue
			}
			values, ok := r.match(turn.Text)
			if !ok {
				continue
			}
			facts[r.Key] = Fact{Key: r.Key, Domain: r.Domain, Values: values, Source: turn.Text}
		}
	}

	return facts
}

// CheckConsistency sums, over every tracked fact the text talks about, a
// reward for agreeing and a penalty for contradicting. The result is not
// clamped.
func (t *Tracker) CheckConsistency(text string, facts Facts) float64 {
	if len(facts) == 0 || text == "" {
		return 0
	}

	tokens := features.Tokenize(text)
	score := 0.0

	for _, r := range t.rules {
		fact, ok := facts[r.Key]
		if !ok || !r.referencedBy(tokens) || !r.inDomain(tokens) {
			continue
		}

		values, ok := r.match(text)
		if !ok {
			// No claim of its own; reward only an explicit mention.
			if mentions(tokens, fact.Values[r.SubjectSlots:]) {
				score += r.Support
			}
			continue
		}

		if !equalValues(values[:r.SubjectSlots], fact.Values[:r.SubjectSlots]) {
			continue
		}
		if equalValues(values[r.SubjectSlots:], fact.Values[r.SubjectSlots:]) {
			score += r.Support
		} else {
			score += r.Contradict
		}
	}

	return score
}

func (t *Tracker) isOpinion(text string) bool {
	for _, g := range t.gates {
		if g.Pattern.MatchString(text) {
			return true
		}
	}
	return false
}

// match returns the slot values of the first occurrence whose entities are
// not pronouns or other function words.
func (r Rule) match(text string) ([]string, bool) {
	for _, m := range r.Pattern.FindAllStringSubmatch(text, -1) {
		if len(m)-1 < len(r.Slots) {
			continue
		}
		if values, ok := slotValues(m[1:len(r.Slots)+1]); ok {
			return values, true
		}
	}
	return nil, false
}

func slotValues(groups []string) ([]string, bool) {
	values := make([]string, len(groups))
	for i, g := range groups {
		v := strings.ToLower(strings.TrimSpace(g))
		if _, stop := entityStopWords[v]; stop || v == "" {
			return nil, false
		}
		values[i] = v
	}
	return values, true
}

func (r Rule) referencedBy(tokens []string) bool {
	return containsCue(tokens, r.Cues)
}

func (r Rule) inDomain(tokens []string) bool {
	return len(r.DomainCues) == 0 || containsCue(tokens, r.DomainCues)
}

func containsCue(tokens []string, cues []string) bool {
	joined := " " + strings.Join(tokens, " ") + " "
	for _, cue := range cues {
		if strings.Contains(joined, " "+cue+" ") {
			return true
		}
	}
	return false
}

func mentions(tokens []string, values []string) bool {
	if len(values) == 0 {
		return false
	}
	set := make(map[string]struct{}, len(tokens))
	for _, tok := range tokens {
		set[tok] = struct{}{}
	}
	for _, v := range values {
		if _, ok := set[v]; !ok {
			return false
		}
	}
	return true
}

func equalValues(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
