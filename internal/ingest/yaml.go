package ingest

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/sandevgo/mimic/internal/core"
)

// YAMLImporter reads a message list or a document with a messages key.
type YAMLImporter struct{}

func (y *YAMLImporter) CanHandle(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

func (y *YAMLImporter) Import(ctx context.Context, path string) ([]core.IncomingMessage, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("invalid YAML in %s: %w", path, err)
	}
	if len(root.Content) == 0 {
		return nil, nil
	}

	node := root.Content[0]
	switch node.Kind {
	case yaml.SequenceNode:
		var msgs []core.IncomingMessage
		if err := node.Decode(&msgs); err != nil {
			return nil, fmt.Errorf("invalid YAML in %s: %w", path, err)
		}
		return msgs, nil
	case yaml.MappingNode:
		var doc struct {
			Messages []core.IncomingMessage `yaml:"messages"`
		}
		if err := node.Decode(&doc); err != nil {
			return nil, fmt.Errorf("invalid YAML in %s: %w", path, err)
		}
		return doc.Messages, nil
	default:
		return nil, fmt.Errorf("invalid YAML in %s: expected a list or a messages document", path)
	}
}
