package features

import (
	"math/bits"
	"strings"
)

type Topic uint8

const (
	TopicWork Topic = 1 << iota
	TopicTechnology
	TopicPersonal
	TopicEducation
	TopicEntertainment
	TopicTravel
)

var topicNames = map[Topic]string{
	TopicWork:          "work",
	TopicTechnology:    "technology",
	TopicPersonal:      "personal",
	TopicEducation:     "education",
	TopicEntertainment: "entertainment",
	TopicTravel:        "travel",
}

var topicKeywords = map[Topic]map[string]struct{}{
	TopicWork:          toSet("work", "job", "office", "meeting", "project", "deadline", "boss", "career", "client", "salary"),
	TopicTechnology:    toSet("computer", "software", "code", "programming", "app", "internet", "tech", "ai", "phone", "data"),
	TopicPersonal:      toSet("family", "friend", "love", "favorite", "home", "feel", "life", "hobby", "food", "birthday"),
	TopicEducation:     toSet("school", "university", "college", "class", "study", "exam", "teacher", "student", "course", "learn"),
	TopicEntertainment: toSet("movie", "music", "game", "show", "book", "sports", "basketball", "concert", "netflix", "song"),
	TopicTravel:        toSet("travel", "trip", "flight", "vacation", "hotel", "beach", "city", "country", "visit", "airport"),
}

func (t Topic) String() string {
	return topicNames[t]
}

// TopicSet is a bitmask of Topic values.
type TopicSet uint8

func (s TopicSet) Has(t Topic) bool {
	return s&TopicSet(t) != 0
}

func (s TopicSet) Union(o TopicSet) TopicSet {
	return s | o
}

// Common counts the topics present in both sets.
func (s TopicSet) Common(o TopicSet) int {
	return bits.OnesCount8(uint8(s & o))
}

func (s TopicSet) Len() int {
	return bits.OnesCount8(uint8(s))
}

func (s TopicSet) String() string {
	names := make([]string, 0, s.Len())
	for t := TopicWork; t <= TopicTravel; t <<= 1 {
		if s.Has(t) {
			names = append(names, t.String())
		}
	}
	return strings.Join(names, ",")
}

// ExtractTopics tags text with every category whose keywords occur in it as
// whole tokens.
func ExtractTopics(text string) TopicSet {
	var set TopicSet
	for _, tok := range Tokenize(text) {
		for topic, words := range topicKeywords {
			if _, ok := words[tok]; ok {
				set |= TopicSet(topic)
			}
		}
	}
	return set
}

// ExtractTopicsFromTurns unions the topics of every text.
func ExtractTopicsFromTurns(texts ...string) TopicSet {
	var set TopicSet
	for _, t := range texts {
		set = set.Union(ExtractTopics(t))
	}
	return set
}
