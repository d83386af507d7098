// Package ingest turns chat and mail exports into messages for the store.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sandevgo/mimic/internal/core"
	"github.com/sandevgo/mimic/pkg/log"
)

var ErrUnsupportedFormat = errors.New("unsupported file format")

// Importer reads one export format.
type Importer interface {
	CanHandle(path string) bool
	Import(ctx context.Context, path string) ([]core.IncomingMessage, error)
}

func DefaultImporters() []Importer {
	return []Importer{
		&JSONImporter{},
		&CSVImporter{},
		&YAMLImporter{},
	}
}

func ImporterFor(path string, importers []Importer) (Importer, error) {
	for _, imp := range importers {
		if imp.CanHandle(path) {
			return imp, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
}

type Options struct {
	// Sender fills messages that carry none.
	Sender string
	// Channel fills messages that carry none.
	Channel string
	// Self keeps only this sender's messages after replies are linked and
	// stores them as the user.
	Self        string
	Clean       bool
	LinkReplies bool
}

// Import reads path with the matching importer and normalizes the result.
func Import(ctx context.Context, path string, opts Options) ([]core.IncomingMessage, error) {
	imp, err := ImporterFor(path, DefaultImporters())
	if err != nil {
		return nil, err
	}

	msgs, err := imp.Import(ctx, path)
	if err != nil {
		return nil, err
	}

	out := Normalize(msgs, opts)
	log.Component(ctx, "ingest").Debug().
		Str("path", path).
		Int("read", len(msgs)).
		Int("kept", len(out)).
		Msg("export imported")

	return out, nil
}

// Normalize applies opts to msgs and returns a new slice.
func Normalize(msgs []core.IncomingMessage, opts Options) []core.IncomingMessage {
	out := make([]core.IncomingMessage, len(msgs))
	copy(out, msgs)

	for i := range out {
		if out[i].Sender == "" {
			out[i].Sender = opts.Sender
		}
		if out[i].Channel == "" {
			out[i].Channel = opts.Channel
		}
		if opts.Clean {
			out[i].Text = CleanText(out[i].Text)
			out[i].PreviousMessage = CleanText(out[i].PreviousMessage)
		}
	}

	if opts.LinkReplies {
		out = LinkReplies(out)
	}

	if opts.Self == "" {
		return out
	}

	kept := out[:0]
	for _, msg := range out {
		if !strings.EqualFold(strings.TrimSpace(msg.Sender), opts.Self) {
			continue
		}
		msg.Sender = core.SenderUser
		kept = append(kept, msg)
	}
	return kept
}

// LinkReplies fills a missing previous message with the nearest earlier
// message from someone else.
func LinkReplies(msgs []core.IncomingMessage) []core.IncomingMessage {
	out := make([]core.IncomingMessage, len(msgs))
	copy(out, msgs)

	for i := range out {
		if strings.TrimSpace(out[i].PreviousMessage) != "" {
			continue
		}
		for j := i - 1; j >= 0; j-- {
			if strings.EqualFold(strings.TrimSpace(out[j].Sender), strings.TrimSpace(out[i].Sender)) {
				continue
			}
			out[i].PreviousMessage = out[j].Text
			break
		}
	}
	return out
}
