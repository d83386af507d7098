package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sandevgo/mimic/internal/ingest"
	"github.com/sandevgo/mimic/pkg/log"
)

var ingestOpts struct {
	sender  string
	channel string
	self    string
	noClean bool
	noLink  bool
}

var ingestCmd = &cobra.Command{
	Use:   "ingest FILE...",
	Short: "Import chat or mail exports into the message store",
	Long: `Reads .json, .csv, .tsv, .yaml and .yml exports. Markup is stripped and
replies are linked to the message they answered unless disabled.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, flushLog := setupLogger(cmd.Context())
		defer flushLog()

		app, err := NewApp(ctx)
		if err != nil {
			return err
		}
		defer app.Close(context.WithoutCancel(ctx))

		opts := ingest.Options{
			Sender:      ingestOpts.sender,
			Channel:     ingestOpts.channel,
			Self:        ingestOpts.self,
			Clean:       !ingestOpts.noClean,
			LinkReplies: !ingestOpts.noLink,
		}

		logger := log.FromCtx(ctx)
		total := 0
		for _, path := range args {
			msgs, err := ingest.Import(ctx, path, opts)
			if err != nil {
				return fmt.Errorf("import %s: %w", path, err)
			}

			added, err := app.Store.AddBatch(ctx, msgs)
			if err != nil {
				return fmt.Errorf("store %s: %w", path, err)
			}
			logger.Info().Str("path", path).Int("read", len(msgs)).Int("added", added).Msg("file ingested")
			total += added
		}

		fmt.Fprintf(cmd.OutOrStdout(), "added %d messages (%d stored)\n", total, app.Store.Len())
		return nil
	},
}

func init() {
	f := ingestCmd.Flags()
	f.StringVar(&ingestOpts.sender, "sender", "", "sender for messages that have none")
	f.StringVar(&ingestOpts.channel, "channel", "", "channel for messages that have none")
	f.StringVar(&ingestOpts.self, "self", "", "keep only this sender's messages, stored as the user")
	f.BoolVar(&ingestOpts.noClean, "no-clean", false, "keep markup as is")
	f.BoolVar(&ingestOpts.noLink, "no-link", false, "do not infer previous messages")
	rootCmd.AddCommand(ingestCmd)
}
