package features

import "strings"

type Tone string

const (
	TonePositive Tone = "positive"
	ToneNegative Tone = "negative"
	ToneNeutral  Tone = "neutral"
)

// Intent flags are evaluated independently and may overlap.
type Intent struct {
	IsQuestion bool `json:"is_question"`
	IsGreeting bool `json:"is_greeting"`
	IsRequest  bool `json:"is_request"`
	IsPersonal bool `json:"is_personal"`
	IsOpinion  bool `json:"is_opinion"`
	Tone       Tone `json:"emotional_tone"`
}

var (
	questionWords = toSet("what", "how", "when", "where", "who", "why", "which")
	greetingWords = toSet("hi", "hello", "hey", "morning", "afternoon", "evening")
	personalWords = toSet("i", "me", "my", "mine", "myself", "you", "your", "yours", "yourself", "we", "us", "our")
	positiveWords = toSet("good", "great", "awesome", "excellent", "happy", "love", "wonderful", "amazing")
	negativeWords = toSet("bad", "terrible", "awful", "hate", "sad", "angry", "horrible", "worst")

	requestPhrases = []string{"can you", "could you", "please", "help", "show me", "tell me"}
	opinionPhrases = []string{"think", "believe", "feel", "opinion", "view", "perspective"}
)

func AnalyzeIntent(text string) Intent {
	lower := strings.ToLower(text)
	tokens := Tokenize(text)

	intent := Intent{
		IsQuestion: strings.Contains(text, "?") || hasAny(tokens, questionWords),
		IsGreeting: hasAny(tokens, greetingWords),
		IsRequest:  containsAny(lower, requestPhrases),
		IsPersonal: hasAny(tokens, personalWords),
		IsOpinion:  containsAny(lower, opinionPhrases),
		Tone:       ToneNeutral,
	}

	pos, neg := countIn(tokens, positiveWords), countIn(tokens, negativeWords)
	switch {
	case pos > neg:
		intent.Tone = TonePositive
	case neg > pos:
		intent.Tone = ToneNegative
	}

	return intent
}

func hasAny(tokens []string, set map[string]struct{}) bool {
	return countIn(tokens, set) > 0
}

func countIn(tokens []string, set map[string]struct{}) int {
	n := 0
	for _, t := range tokens {
		if _, ok := set[t]; ok {
			n++
		}
	}
	return n
}
