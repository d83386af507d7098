package ingest

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sandevgo/mimic/internal/core"
)

// CSVImporter handles .csv and .tsv files with a header row. Unknown
// columns end up in metadata.
type CSVImporter struct{}

func (c *CSVImporter) CanHandle(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".csv" || ext == ".tsv"
}

func (c *CSVImporter) Import(ctx context.Context, path string) ([]core.IncomingMessage, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	if strings.ToLower(filepath.Ext(path)) == ".tsv" {
		reader.Comma = '\t'
	}
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parsing CSV %s: %w", path, err)
	}

	if len(records) < 2 {
		return nil, nil
	}

	headers := make([]string, len(records[0]))
	for i, h := range records[0] {
		headers[i] = strings.ToLower(strings.TrimSpace(h))
	}

	msgs := make([]core.IncomingMessage, 0, len(records)-1)
	for _, row := range records[1:] {
		var msg core.IncomingMessage
		for j, val := range row {
			if j >= len(headers) {
				break
			}
			val = strings.TrimSpace(val)
			if val == "" {
				continue
			}
			setField(&msg, headers[j], val)
		}
		msgs = append(msgs, msg)
	}

	return msgs, nil
}

func setField(msg *core.IncomingMessage, column, val string) {
	switch column {
	case "text", "message", "body":
		msg.Text = val
	case "sender", "from", "author":
		msg.Sender = val
	case "timestamp", "date", "time":
		msg.Timestamp = val
	case "previous_message", "context", "reply_to":
		msg.PreviousMessage = val
	case "channel":
		msg.Channel = val
	case "model_version":
		msg.ModelVersion = val
	default:
		if msg.Metadata == nil {
			msg.Metadata = make(map[string]string)
		}
		msg.Metadata[column] = val
	}
}
