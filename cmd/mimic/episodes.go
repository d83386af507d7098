package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sandevgo/mimic/internal/core"
	"github.com/sandevgo/mimic/internal/service/ui"
)

var episodesOpts struct {
	limit        int
	conversation string
	asJSON       bool
}

var episodesCmd = &cobra.Command{
	Use:   "episodes",
	Short: "List recorded retrieval episodes",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, flushLog := setupLogger(cmd.Context())
		defer flushLog()

		app, err := NewApp(ctx)
		if err != nil {
			return err
		}
		defer app.Close(context.WithoutCancel(ctx))

		var eps []core.Episode
		if episodesOpts.conversation != "" {
			eps, err = app.Episodes.ConversationEpisodes(ctx, episodesOpts.conversation, episodesOpts.limit)
		} else {
			eps, err = app.Episodes.ListEpisodes(ctx, episodesOpts.limit)
		}
		if err != nil {
			return err
		}

		if episodesOpts.asJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(eps)
		}
		fmt.Fprint(cmd.OutOrStdout(), ui.RenderEpisodes(eps))
		return nil
	},
}

func init() {
	f := episodesCmd.Flags()
	f.IntVarP(&episodesOpts.limit, "limit", "n", 20, "maximum number of episodes")
	f.StringVar(&episodesOpts.conversation, "conversation", "", "only this conversation")
	f.BoolVar(&episodesOpts.asJSON, "json", false, "print episodes as JSON")
	rootCmd.AddCommand(episodesCmd)
}
