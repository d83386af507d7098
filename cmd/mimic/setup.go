package main

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	"github.com/sandevgo/mimic/internal/config"
	"github.com/sandevgo/mimic/internal/core"
	"github.com/sandevgo/mimic/internal/service/episodes"
	"github.com/sandevgo/mimic/internal/service/facts"
	"github.com/sandevgo/mimic/internal/service/retrieval"
	"github.com/sandevgo/mimic/internal/storage/jsonstore"
	"github.com/sandevgo/mimic/internal/storage/sqlite"
	"github.com/sandevgo/mimic/pkg/log"
	"github.com/sandevgo/mimic/pkg/retry"
	"github.com/sandevgo/mimic/pkg/srv"
)

// App holds everything one command invocation needs.
type App struct {
	Config    *config.AppConfig
	Retrieval *config.RetrievalConfig
	Store     *jsonstore.Store
	Episodes  *sqlite.EpisodeRepo
	Recorder  *episodes.Recorder
	Engine    *retrieval.Engine

	services []srv.Service
}

func NewApp(ctx context.Context) (*App, error) {
	if err := initEnv(ctx, config.GetRuntimePath()); err != nil {
		return nil, err
	}
	if userID != "" {
		os.Setenv("MIMIC_USER_ID", userID)
	}

	// 1. Configuration
	appCfg := config.NewAppConfig(ctx)
	retrievalCfg := config.NewRetrievalConfig(ctx)

	// 2. Storage
	store := jsonstore.Open(ctx, appCfg.GetStorePath())

	db, repo, err := initEpisodes(ctx, appCfg)
	if err != nil {
		return nil, err
	}

	app := &App{
		Config:    appCfg,
		Retrieval: retrievalCfg,
		Store:     store,
		Episodes:  repo,
	}
	app.services = append(app.services, srv.NewCleanup(db.Close))

	// 3. Episodic side log, written off the retrieval path
	var memory core.ConversationMemory = repo
	if appCfg.RecordEpisodes {
		retryCfg := retry.NewLocalConfig()
		retryCfg.ShouldRetry = sqlite.IsBusy

		app.Recorder = episodes.NewRecorder(repo, appCfg.EpisodeBuffer, retryCfg)
		app.services = append(app.services, app.Recorder)
		memory = app.Recorder
	}

	// 4. Retrieval
	app.Engine = retrieval.NewEngine(store, memory, facts.NewDefaultTracker(), retrievalCfg.ToOptions())

	srv.StartServices(ctx, app.services)
	return app, nil
}

// Close flushes queued episodes and closes the database.
func (a *App) Close(ctx context.Context) {
	srv.StopServices(ctx, a.services)
}

func initEpisodes(ctx context.Context, cfg *config.AppConfig) (*sql.DB, *sqlite.EpisodeRepo, error) {
	db, err := sqlite.NewDB(ctx, cfg.GetEpisodesPath())
	if err != nil {
		return nil, nil, err
	}
	return db, sqlite.NewEpisodeRepo(db), nil
}

func initEnv(ctx context.Context, runtimePath string) error {
	logger := log.FromCtx(ctx)
	envFile := filepath.Join(runtimePath, ".env")

	if _, err := os.Stat(envFile); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	if err := godotenv.Load(envFile); err != nil {
		logger.Warn().Err(err).Str("path", envFile).Msg("failed to load .env file")
		return err
	}

	logger.Debug().Str("path", envFile).Msg("loaded .env file")
	return nil
}
