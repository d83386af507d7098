package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var cleanupOpts struct {
	clear     bool
	pruneDays int
}

var cleanupCmd = &cobra.Command{
	Use:   "cleanup",
	Short: "Compact the message store and prune old episodes",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, flushLog := setupLogger(cmd.Context())
		defer flushLog()

		app, err := NewApp(ctx)
		if err != nil {
			return err
		}
		defer app.Close(context.WithoutCancel(ctx))

		out := cmd.OutOrStdout()

		if cleanupOpts.clear {
			if err := app.Store.Clear(ctx); err != nil {
				return err
			}
			fmt.Fprintln(out, "message store cleared")
		} else {
			removed, err := app.Store.Compact(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "removed %d messages, %d left\n", removed, app.Store.Len())
		}

		if cleanupOpts.pruneDays > 0 {
			cutoff := time.Now().AddDate(0, 0, -cleanupOpts.pruneDays)
			deleted, err := app.Episodes.PruneBefore(ctx, cutoff)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "pruned %d episodic rows older than %d days\n", deleted, cleanupOpts.pruneDays)
		}
		return nil
	},
}

func init() {
	f := cleanupCmd.Flags()
	f.BoolVar(&cleanupOpts.clear, "clear", false, "delete every stored message")
	f.IntVar(&cleanupOpts.pruneDays, "prune-days", 0, "delete episodes and turns older than this many days")
	rootCmd.AddCommand(cleanupCmd)
}
