package retrieval

const (
	DefaultMinScore      = 0.25
	DefaultQualityScore  = 0.3
	DefaultFallbackLimit = 3
	DefaultTopK          = 5
	DefaultContextTurns  = 5
	DefaultFactTurns     = 10
)

// Options holds the retrieval thresholds. Candidates scoring at or below
// MinScore are discarded; results above QualityScore are preferred, and when
// none clear it at most FallbackLimit weaker results are returned.
type Options struct {
	MinScore      float64
	QualityScore  float64
	FallbackLimit int
	DefaultTopK   int
	ContextTurns  int
	FactTurns     int
}

func DefaultOptions() Options {
	return Options{
		MinScore:      DefaultMinScore,
		QualityScore:  DefaultQualityScore,
		FallbackLimit: DefaultFallbackLimit,
		DefaultTopK:   DefaultTopK,
		ContextTurns:  DefaultContextTurns,
		FactTurns:     DefaultFactTurns,
	}
}
