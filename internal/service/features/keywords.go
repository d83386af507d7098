// Package features turns raw message text into the lexical signals used by
// retrieval: keywords, intent flags and topic tags. Everything here is pure
// and deterministic.
package features

import (
	"regexp"
	"strings"
)

var nonWord = regexp.MustCompile(`[^\p{L}\p{N}_\s]`)

// minKeywordLen is the shortest token kept as a keyword.
const minKeywordLen = 3

var stopWords = toSet(
	"the", "a", "an", "and", "or", "but", "in", "on", "at", "to", "for", "of",
	"with", "by", "is", "are", "was", "were", "be", "been", "being",
	"have", "has", "had", "do", "does", "did", "will", "would", "could", "should",
	"this", "that", "these", "those", "i", "you", "he", "she", "it", "we", "they",
	"me", "him", "her", "us", "them", "my", "your", "its", "our", "their",
)

// Tokenize lowercases text, blanks out punctuation and splits on whitespace.
func Tokenize(text string) []string {
	return strings.Fields(nonWord.ReplaceAllString(strings.ToLower(text), " "))
}

// ExtractKeywords returns the content words of text in first-seen order.
func ExtractKeywords(text string) []string {
	tokens := Tokenize(text)
	out := make([]string, 0, len(tokens))
	seen := make(map[string]struct{}, len(tokens))

	for _, tok := range tokens {
		if len([]rune(tok)) < minKeywordLen {
			continue
		}
		if _, stop := stopWords[tok]; stop {
			continue
		}
		if _, dup := seen[tok]; dup {
			continue
		}
		seen[tok] = struct{}{}
		out = append(out, tok)
	}

	return out
}

// Jaccard is |A∩B| / |A∪B| with the denominator floored at 1.
func Jaccard(a, b []string) float64 {
	setA := toSet(a...)
	setB := toSet(b...)

	inter := 0
	for k := range setA {
		if _, ok := setB[k]; ok {
			inter++
		}
	}

	union := len(setA) + len(setB) - inter
	if union < 1 {
		union = 1
	}
	return float64(inter) / float64(union)
}

// Overlaps reports whether a and b share at least one element.
func Overlaps(a, b []string) bool {
	setB := toSet(b...)
	for _, k := range a {
		if _, ok := setB[k]; ok {
			return true
		}
	}
	return false
}

func toSet(items ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(items))
	for _, it := range items {
		set[it] = struct{}{}
	}
	return set
}

func containsAny(text string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(text, n) {
			return true
		}
	}
	return false
}
