package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sandevgo/mimic/internal/core"
	"github.com/sandevgo/mimic/internal/service/retrieval"
	"github.com/sandevgo/mimic/internal/service/ui"
)

var queryOpts struct {
	channel      string
	topK         int
	historyFile  string
	conversation string
	prompt       bool
	asJSON       bool
}

var queryCmd = &cobra.Command{
	Use:   "query TEXT",
	Short: "Find the stored replies that best answer TEXT",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, flushLog := setupLogger(cmd.Context())
		defer flushLog()

		app, err := NewApp(ctx)
		if err != nil {
			return err
		}
		defer app.Close(context.WithoutCancel(ctx))

		q := retrieval.Query{
			Text:           strings.Join(args, " "),
			ConversationID: queryOpts.conversation,
			TopK:           queryOpts.topK,
			Channel:        queryOpts.channel,
		}

		if queryOpts.historyFile != "" {
			if q.History, err = readHistory(queryOpts.historyFile); err != nil {
				return err
			}
		}

		results := app.Engine.RetrieveSimilar(ctx, q)

		if q.ConversationID != "" {
			turn := core.Turn{Sender: core.SenderUser, Text: q.Text}
			if err := app.Episodes.AppendTurn(ctx, q.ConversationID, turn); err != nil {
				return err
			}
		}

		out := cmd.OutOrStdout()
		switch {
		case queryOpts.asJSON:
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(results)
		case queryOpts.prompt:
			counter, err := retrieval.NewTiktokenCounter(retrieval.DefaultEncoding)
			if err != nil {
				return err
			}
			fmt.Fprint(out, retrieval.FormatExamples(results, app.Retrieval.PromptTokens, counter))
		default:
			fmt.Fprint(out, ui.RenderResults(results))
		}
		return nil
	},
}

func readHistory(path string) ([]core.Turn, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var turns []core.Turn
	if err := json.Unmarshal(data, &turns); err != nil {
		return nil, fmt.Errorf("parsing history %s: %w", path, err)
	}
	return turns, nil
}

func init() {
	f := queryCmd.Flags()
	f.StringVarP(&queryOpts.channel, "channel", "c", "", "only consider messages from this channel")
	f.IntVarP(&queryOpts.topK, "top-k", "k", 0, "number of results (default from MIMIC_TOP_K)")
	f.StringVar(&queryOpts.historyFile, "history", "", "JSON file with the conversation so far")
	f.StringVar(&queryOpts.conversation, "conversation", "", "conversation id for stored context and episodes")
	f.BoolVarP(&queryOpts.prompt, "prompt", "p", false, "print results as prompt examples")
	f.BoolVar(&queryOpts.asJSON, "json", false, "print results as JSON")
	rootCmd.AddCommand(queryCmd)
}
