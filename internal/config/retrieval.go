package config

import (
	"context"
	"errors"

	"github.com/caarlos0/env/v11"

	"github.com/sandevgo/mimic/internal/service/retrieval"
	"github.com/sandevgo/mimic/pkg/log"
)

// RetrievalConfig mirrors retrieval.Options plus the prompt budget.
type RetrievalConfig struct {
	MinScore      float64 `env:"MIMIC_MIN_SCORE" envDefault:"0.25"`
	QualityScore  float64 `env:"MIMIC_QUALITY_SCORE" envDefault:"0.3"`
	FallbackLimit int     `env:"MIMIC_FALLBACK_LIMIT" envDefault:"3"`
	TopK          int     `env:"MIMIC_TOP_K" envDefault:"5"`
	// Turn windows of 0 switch off topic context or fact tracking.
	ContextTurns  int     `env:"MIMIC_CONTEXT_TURNS" envDefault:"5"`
	FactTurns     int     `env:"MIMIC_FACT_TURNS" envDefault:"10"`
	PromptTokens  int     `env:"MIMIC_PROMPT_TOKENS" envDefault:"512"`
}

func NewRetrievalConfig(ctx context.Context) *RetrievalConfig {
	c, err := env.ParseAs[RetrievalConfig]()
	if err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse Retrieval config")
	}
	if err := c.Validate(); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("invalid Retrieval config")
	}
	return &c
}

func (c RetrievalConfig) Validate() error {
	var errs []error
	if c.TopK <= 0 {
		errs = append(errs, errors.New("MIMIC_TOP_K must be positive"))
	}
	if c.FallbackLimit < 0 {
		errs = append(errs, errors.New("MIMIC_FALLBACK_LIMIT must not be negative"))
	}
	if c.ContextTurns < 0 || c.FactTurns < 0 {
		errs = append(errs, errors.New("turn windows must not be negative"))
	}
	if c.PromptTokens <= 0 {
		errs = append(errs, errors.New("MIMIC_PROMPT_TOKENS must be positive"))
	}
	return errors.Join(errs...)
}

func (c RetrievalConfig) ToOptions() retrieval.Options {
	return retrieval.Options{
		MinScore:      c.MinScore,
		QualityScore:  c.QualityScore,
		FallbackLimit: c.FallbackLimit,
		DefaultTopK:   c.TopK,
		ContextTurns:  c.ContextTurns,
		FactTurns:     c.FactTurns,
	}
}
