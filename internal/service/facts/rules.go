package facts

import "regexp"

const (
	defaultSupport    = 0.5
	defaultContradict = -0.3
)

// Rule describes one trackable fact. Pattern capture groups fill Slots in
// order; the first SubjectSlots slots identify what the fact is about, the
// rest carry the claimed value.
type Rule struct {
	Key            string
	Domain         string
	Pattern        *regexp.Regexp
	Slots          []string
	SubjectSlots   int
	Cues           []string
	// DomainCues, when set, must appear in a turn before it is recorded and
	// in a candidate before it is scored.
	DomainCues     []string
	RequireOpinion bool
	Support        float64
	Contradict     float64
}

// OpinionGate marks a turn as carrying a claim worth tracking.
type OpinionGate struct {
	Name    string
	Pattern *regexp.Regexp
}

func DefaultGates() []OpinionGate {
	return []OpinionGate{
		{Name: "superlative", Pattern: regexp.MustCompile(`(?i)\b(best|greatest|goat|worst|top|number one)\b`)},
		{Name: "comparative", Pattern: regexp.MustCompile(`(?i)\b(better|worse) than\b`)},
		{Name: "preference", Pattern: regexp.MustCompile(`(?i)\b(prefer|favorite|favourite|love|rather)\b`)},
		{Name: "belief", Pattern: regexp.MustCompile(`(?i)\b(think|believe|bet|pretty sure|no doubt|gonna|will)\b`)},
	}
}

// entityStopWords never name a player or team.
var entityStopWords = map[string]struct{}{
	"he": {}, "she": {}, "it": {}, "they": {}, "that": {}, "this": {}, "who": {},
	"i": {}, "we": {}, "you": {}, "him": {}, "her": {}, "them": {}, "there": {},
	"what": {}, "which": {}, "everyone": {}, "someone": {}, "nobody": {}, "one": {},
}

var basketballCues = []string{
	"nba", "team", "season", "playoffs", "roster", "contract", "trade", "traded", "draft",
	"lakers", "celtics", "bulls", "warriors", "heat", "knicks", "suns", "nets", "bucks",
	"nuggets", "mavericks", "mavs", "clippers", "spurs", "rockets", "sixers", "raptors",
	"jazz", "thunder", "blazers", "kings", "pelicans", "grizzlies", "timberwolves",
	"hawks", "hornets", "magic", "pistons", "pacers", "cavaliers", "cavs", "wizards",
}

// DefaultRules tracks basketball opinions: who is the best, who wins it all
// and who moved where.
func DefaultRules() []Rule {
	return []Rule{
		{
			Key:            "sports.best_player",
			Domain:         "sports",
			Pattern:        regexp.MustCompile(`(?i)\b([a-z]+)(?:\s+is|\s+was|'s)\s+(?:the\s+|a\s+)?(?:best|greatest|goat)\b`),
			Slots:          []string{"player"},
			Cues:           []string{"best", "greatest", "goat", "better"},
			RequireOpinion: true,
			Support:        defaultSupport,
			Contradict:     defaultContradict,
		},
		{
			Key:            "sports.title_pick",
			Domain:         "sports",
			Pattern:        regexp.MustCompile(`(?i)\b(?:the\s+)?([a-z]+)\s+(?:will|are going to|gonna|should)\s+win\b`),
			Slots:          []string{"team"},
			Cues:           []string{"win", "wins", "champion", "championship", "title", "finals", "ring"},
			RequireOpinion: true,
			Support:        defaultSupport,
			Contradict:     defaultContradict,
		},
		{
			Key:          "sports.trade",
			Domain:       "sports",
			Pattern:      regexp.MustCompile(`(?i)\b([a-z]+)\s+(?:moved|traded|went|signed|is going|got traded|was traded)\s+(?:to|with)\s+(?:the\s+)?([a-z]+)\b`),
			Slots:        []string{"player", "team"},
			SubjectSlots: 1,
			Cues:         []string{"trade", "traded", "signed", "signing"},
			DomainCues:   basketballCues,
			Support:      defaultSupport,
			Contradict:   defaultContradict,
		},
	}
}
