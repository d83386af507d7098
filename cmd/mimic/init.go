package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sandevgo/mimic/internal/config"
	"github.com/sandevgo/mimic/internal/service/ui"
	"github.com/sandevgo/mimic/pkg/env"
	"github.com/sandevgo/mimic/pkg/log"
)

var initForce bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the runtime directory and a default .env",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, flushLog := setupLogger(cmd.Context())
		defer flushLog()

		runtimePath := config.GetRuntimePath()
		appCfg := &config.AppConfig{RuntimePath: runtimePath, UserID: userID}
		if appCfg.UserID != "" {
			if err := appCfg.Validate(); err != nil {
				return err
			}
		}

		envPath := appCfg.GetEnvPath()
		if _, err := os.Stat(envPath); err == nil && !initForce {
			return fmt.Errorf("%s already exists, use --force to overwrite", envPath)
		}

		if err := os.MkdirAll(runtimePath, 0755); err != nil {
			return fmt.Errorf("failed to create runtime directory: %w", err)
		}

		appEnv, err := env.MarshalEnv(appCfg)
		if err != nil {
			return err
		}
		retrievalEnv, err := env.MarshalEnv(&config.RetrievalConfig{})
		if err != nil {
			return err
		}

		if err := os.WriteFile(envPath, []byte(appEnv+retrievalEnv), 0600); err != nil {
			return fmt.Errorf("failed to write .env: %w", err)
		}

		log.FromCtx(ctx).Info().Str("path", envPath).Msg("wrote default configuration")
		fmt.Fprintln(cmd.OutOrStdout(), ui.TitleStyle.Render("initialized "+runtimePath))
		return nil
	},
}

func init() {
	initCmd.Flags().BoolVarP(&initForce, "force", "f", false, "overwrite an existing .env")
	rootCmd.AddCommand(initCmd)
}
