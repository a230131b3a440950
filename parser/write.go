package parser

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.yaml.in/yaml/v4"

	"github.com/erraggy/oasmerge/internal/fileutil"
)

// OutputFormatForPath returns YAML for .yml/.yaml paths and JSON otherwise.
func OutputFormatForPath(path string) SourceFormat {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return SourceFormatYAML
	default:
		return SourceFormatJSON
	}
}

// MarshalDocument encodes doc as two-space indented JSON or as block YAML.
// Both encodings keep the model's field order.
func MarshalDocument(doc *Document, format SourceFormat) ([]byte, error) {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("parser: failed to marshal document: %w", err)
	}
	if format != SourceFormatYAML {
		return append(data, '\n'), nil
	}

	// JSON is a subset of YAML: decoding it into a node keeps the key order,
	// and clearing the flow styles yields conventional block YAML.
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, fmt.Errorf("parser: failed to convert document to YAML: %w", err)
	}
	blockStyle(&node)
	out, err := yaml.Marshal(&node)
	if err != nil {
		return nil, fmt.Errorf("parser: failed to marshal YAML: %w", err)
	}
	return out, nil
}

func blockStyle(n *yaml.Node) {
	switch n.Kind {
	case yaml.MappingNode, yaml.SequenceNode:
		n.Style = 0
	case yaml.ScalarNode:
		if n.Style == yaml.DoubleQuotedStyle {
			n.Style = 0
		}
	}
	for _, c := range n.Content {
		blockStyle(c)
	}
}

// WriteDocument writes doc to path, choosing the encoding from the extension.
func WriteDocument(doc *Document, path string) error {
	data, err := MarshalDocument(doc, OutputFormatForPath(path))
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, fileutil.OwnerReadWrite); err != nil {
		return fmt.Errorf("parser: failed to write %s: %w", path, err)
	}
	return nil
}
