package ingest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sandevgo/mimic/internal/core"
)

// JSONImporter reads a message array or a {"messages": [...]} document.
type JSONImporter struct{}

func (j *JSONImporter) CanHandle(path string) bool {
	return strings.ToLower(filepath.Ext(path)) == ".json"
}

func (j *JSONImporter) Import(ctx context.Context, path string) ([]core.IncomingMessage, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, nil
	}

	if data[0] == '[' {
		var msgs []core.IncomingMessage
		if err := json.Unmarshal(data, &msgs); err != nil {
			return nil, fmt.Errorf("parsing JSON %s: %w", path, err)
		}
		return msgs, nil
	}

	var doc struct {
		Messages []core.IncomingMessage `json:"messages"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing JSON %s: %w", path, err)
	}
	return doc.Messages, nil
}
