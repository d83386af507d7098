package config

import (
	"context"
	"fmt"
	"path/filepath"
	"regexp"

	"github.com/caarlos0/env/v9"

	"github.com/sandevgo/mimic/pkg/log"
)

var userIDPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

type AppConfig struct {
	RuntimePath string `env:"MIMIC_RUNTIME_PATH" envDefault:".mimic"`
	UserID      string `env:"MIMIC_USER_ID" envDefault:"default"`

	// Episodic side log
	RecordEpisodes bool `env:"MIMIC_RECORD_EPISODES" envDefault:"true"`
	EpisodeBuffer  int  `env:"MIMIC_EPISODE_BUFFER" envDefault:"64"`
}

func NewAppConfig(ctx context.Context) *AppConfig {
	c := &AppConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse App config")
	}
	c.RuntimePath = resolveRuntimePath(c.RuntimePath)

	if err := c.Validate(); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("invalid App config")
	}
	return c
}

// Validate rejects user ids that would escape the runtime directory.
func (c AppConfig) Validate() error {
	if !userIDPattern.MatchString(c.UserID) {
		return fmt.Errorf("invalid user id %q", c.UserID)
	}
	return nil
}

func (c AppConfig) GetRuntimePath() string {
	return c.RuntimePath
}

func (c AppConfig) GetUserID() string {
	return c.UserID
}

func (c AppConfig) GetUserPath() string {
	return filepath.Join(c.RuntimePath, "users", c.UserID)
}

func (c AppConfig) GetStorePath() string {
	return filepath.Join(c.GetUserPath(), "messages.json")
}

func (c AppConfig) GetEpisodesPath() string {
	return filepath.Join(c.GetUserPath(), "episodes.db")
}

func (c AppConfig) GetEnvPath() string {
	return filepath.Join(c.RuntimePath, ".env")
}
