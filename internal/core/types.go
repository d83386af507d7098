package core

import (
	"strings"
	"time"
)

const (
	MimicName    = "mimic"
	MimicVersion = "0.1.0"
)

const (
	SenderUser  = "user"
	SenderClone = "clone"
)

// MessageRecord is a stored utterance together with the turn it answered.
type MessageRecord struct {
	Text         string            `json:"text"`
	Context      string            `json:"context"`
	Sender       string            `json:"sender"`
	Timestamp    string            `json:"timestamp"`
	Keywords     []string          `json:"keywords"`
	ModelVersion string            `json:"model_version,omitempty"`
	Channel      string            `json:"channel,omitempty"`
	Metadata     map[string]string `json:"metadata,omitempty"`
}

// ChannelName returns the record channel, falling back to metadata.channel
// written by older ingestion paths.
func (r MessageRecord) ChannelName() string {
	if r.Channel != "" {
		return r.Channel
	}
	return r.Metadata["channel"]
}

// IncomingMessage is what ingestion adapters hand over to the store.
type IncomingMessage struct {
	Text            string            `json:"text" yaml:"text"`
	Sender          string            `json:"sender" yaml:"sender"`
	Timestamp       string            `json:"timestamp,omitempty" yaml:"timestamp,omitempty"`
	PreviousMessage string            `json:"previous_message,omitempty" yaml:"previous_message,omitempty"`
	Channel         string            `json:"channel,omitempty" yaml:"channel,omitempty"`
	ModelVersion    string            `json:"model_version,omitempty" yaml:"model_version,omitempty"`
	Metadata        map[string]string `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// Turn is one entry of a live conversation.
type Turn struct {
	Sender string `json:"sender"`
	Text   string `json:"text"`
}

// IsClone reports whether the turn was produced by the clone itself.
func (t Turn) IsClone() bool {
	return IsCloneSender(t.Sender)
}

func IsCloneSender(sender string) bool {
	switch strings.ToLower(strings.TrimSpace(sender)) {
	case SenderClone, "assistant", "bot":
		return true
	}
	return false
}

type ScoreComponents struct {
	KeywordSimilarity float64 `json:"keywordSimilarity"`
	IntentMatch       float64 `json:"intentMatch"`
	TopicMatch        float64 `json:"topicMatch"`
	ContextMatch      float64 `json:"contextMatch"`
	FactConsistency   float64 `json:"factConsistency"`
}

// Sum is the composite score before penalties.
func (c ScoreComponents) Sum() float64 {
	return c.KeywordSimilarity + c.IntentMatch + c.TopicMatch + c.ContextMatch + c.FactConsistency
}

// ScoredCandidate lives for the duration of one retrieval call.
type ScoredCandidate struct {
	MessageRecord
	Similarity      float64         `json:"similarity"`
	ScoreComponents ScoreComponents `json:"scoreComponents"`
	Penalties       []string        `json:"penalties,omitempty"`
}

// Episode is an audit entry of an accepted retrieval.
type Episode struct {
	ID             string    `json:"id"`
	ConversationID string    `json:"conversation_id"`
	Query          string    `json:"query"`
	MatchedText    string    `json:"matched_text"`
	Similarity     float64   `json:"similarity"`
	Explanation    string    `json:"explanation"`
	CreatedAt      time.Time `json:"created_at"`
}
