package main

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sandevgo/mimic/internal/core"
	"github.com/sandevgo/mimic/pkg/log"
)

var turnCmd = &cobra.Command{
	Use:   "turn CONVERSATION SENDER TEXT",
	Short: "Append a turn to a stored conversation",
	Long:  `Records what was said so later queries in the same conversation see it as context. SENDER is "user" or "clone".`,
	Args:  cobra.MinimumNArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, flushLog := setupLogger(cmd.Context())
		defer flushLog()

		app, err := NewApp(ctx)
		if err != nil {
			return err
		}
		defer app.Close(context.WithoutCancel(ctx))

		turn := core.Turn{Sender: args[1], Text: strings.Join(args[2:], " ")}
		if err := app.Episodes.AppendTurn(ctx, args[0], turn); err != nil {
			return err
		}

		log.FromCtx(ctx).Debug().Str("conversation", args[0]).Bool("clone", turn.IsClone()).Msg("turn stored")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(turnCmd)
}
