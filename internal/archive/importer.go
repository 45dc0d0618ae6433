package archive

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Import formats.
const (
	FormatYAML = "yaml"
	FormatJSON = "json"
)

type importDocument struct {
	Entries []NewEntry `json:"entries" yaml:"entries"`
}

// FormatFromPath guesses the import format from a file extension.
func FormatFromPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return ""
	}
}

// ReadImport decodes entries from a YAML or JSON document. The document is
// either a list of entries or a mapping with an "entries" list. An empty
// format sniffs the first non-blank byte.
func ReadImport(r io.Reader, format string) ([]NewEntry, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read import: %w", err)
	}
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, nil
	}
	if format == "" {
		format = FormatYAML
		if trimmed[0] == '{' || trimmed[0] == '[' {
			format = FormatJSON
		}
	}

	var entries []NewEntry
	switch format {
	case FormatJSON:
		entries, err = decodeJSON(trimmed)
	case FormatYAML:
		entries, err = decodeYAML(trimmed)
	default:
		return nil, fmt.Errorf("unknown import format %q", format)
	}
	if err != nil {
		return nil, err
	}

	for i := range entries {
		entries[i].Date = strings.TrimSpace(entries[i].Date)
		if err := entries[i].Validate(); err != nil {
			return nil, fmt.Errorf("entry %d: %w", i+1, err)
		}
	}
	return entries, nil
}

func decodeJSON(data []byte) ([]NewEntry, error) {
	if data[0] == '[' {
		var list []NewEntry
		if err := json.Unmarshal(data, &list); err != nil {
			return nil, fmt.Errorf("parse json import: %w", err)
		}
		return list, nil
	}
	var doc importDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse json import: %w", err)
	}
	return doc.Entries, nil
}

func decodeYAML(data []byte) ([]NewEntry, error) {
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, fmt.Errorf("parse yaml import: %w", err)
	}
	if len(node.Content) == 0 {
		return nil, nil
	}
	root := node.Content[0]
	if root.Kind == yaml.SequenceNode {
		var list []NewEntry
		if err := root.Decode(&list); err != nil {
			return nil, fmt.Errorf("parse yaml import: %w", err)
		}
		return list, nil
	}
	var doc importDocument
	if err := root.Decode(&doc); err != nil {
		return nil, fmt.Errorf("parse yaml import: %w", err)
	}
	return doc.Entries, nil
}
