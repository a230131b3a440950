// Package config loads and validates the merge configuration file.
//
// A configuration lists the inputs to merge, in order, together with the
// per-input policies, and names the output file. It may be written as JSON
// or YAML; either way it is validated against an embedded JSON Schema
// before it is decoded.
package config

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/jsonschema-go/jsonschema"
	"go.yaml.in/yaml/v4"

	"github.com/erraggy/oasmerge/joiner"
	"github.com/erraggy/oasmerge/oaserrors"
	"github.com/erraggy/oasmerge/parser"
)

// DefaultFile is read when no configuration path is given.
const DefaultFile = "openapi-merge.json"

//go:embed schema.json
var schemaJSON []byte

// Configuration is a decoded configuration file.
type Configuration struct {
	// Inputs are merged in order; at least one is required
	Inputs []Input `json:"inputs"`
	// Output is the file the merged document is written to
	Output string `json:"output"`

	// Dir is the directory of the configuration file. Relative input files
	// and the output path are resolved against it.
	Dir string `json:"-"`
}

// Input is one configured input document and its policies.
type Input struct {
	InputFile                  string              `json:"inputFile,omitempty"`
	InputURL                   string              `json:"inputURL,omitempty"`
	PathModification           *PathModification   `json:"pathModification,omitempty"`
	OperationSelection         *OperationSelection `json:"operationSelection,omitempty"`
	Description                *Description        `json:"description,omitempty"`
	Dispute                    *Dispute            `json:"dispute,omitempty"`
	DisputePrefix              string              `json:"disputePrefix,omitempty"`
	AllowDuplicateOperationIDs bool                `json:"allowDuplicateOperationIds,omitempty"`
}

// PathModification mirrors joiner.PathModification.
type PathModification struct {
	StripStart string `json:"stripStart,omitempty"`
	Prepend    string `json:"prepend,omitempty"`
}

// OperationSelection mirrors joiner.OperationSelection.
type OperationSelection struct {
	IncludeTags  []string   `json:"includeTags,omitempty"`
	ExcludeTags  []string   `json:"excludeTags,omitempty"`
	IncludePaths []PathRule `json:"includePaths,omitempty"`
	ExcludePaths []PathRule `json:"excludePaths,omitempty"`
}

// PathRule selects operations by method and path prefix.
type PathRule struct {
	Path   string `json:"path"`
	Method string `json:"method"`
}

// Description controls how an input's info.description is merged.
type Description struct {
	Append bool   `json:"append"`
	Title  *Title `json:"title,omitempty"`
}

// Title is the Markdown heading written above an appended description.
type Title struct {
	Value        string `json:"value"`
	HeadingLevel int    `json:"headingLevel,omitempty"`
}

// Dispute renames colliding components and operationIds of an input.
type Dispute struct {
	Prefix      string `json:"prefix,omitempty"`
	Suffix      string `json:"suffix,omitempty"`
	AlwaysApply bool   `json:"alwaysApply,omitempty"`
}

// Load reads, validates and decodes the configuration at path.
// An empty path means DefaultFile in the working directory.
func Load(path string) (*Configuration, error) {
	if path == "" {
		path = DefaultFile
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &oaserrors.ConfigError{
			Option:  "config",
			Value:   path,
			Message: fmt.Sprintf("could not find or read '%s'", path),
			Cause:   err,
		}
	}
	cfg, err := Parse(data)
	if err != nil {
		var cfgErr *oaserrors.ConfigError
		if errors.As(err, &cfgErr) && cfgErr.Value == nil {
			cfgErr.Value = path
		}
		return nil, err
	}
	cfg.Dir = filepath.Dir(path)
	return cfg, nil
}

// Parse validates and decodes configuration bytes. JSON is tried first,
// then YAML.
func Parse(data []byte) (*Configuration, error) {
	normalized, err := toJSON(data)
	if err != nil {
		return nil, &oaserrors.ConfigError{
			Option:  "config",
			Message: "could not parse configuration",
			Cause:   err,
		}
	}
	if err := validate(normalized); err != nil {
		return nil, &oaserrors.ConfigError{
			Option:  "config",
			Message: "configuration does not match the schema",
			Cause:   err,
		}
	}

	var cfg Configuration
	if err := json.Unmarshal(normalized, &cfg); err != nil {
		return nil, &oaserrors.ConfigError{
			Option:  "config",
			Message: "could not decode configuration",
			Cause:   err,
		}
	}
	return &cfg, nil
}

// toJSON returns data unchanged when it is JSON and converts YAML otherwise.
func toJSON(data []byte) ([]byte, error) {
	if json.Valid(data) {
		return data, nil
	}
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, errors.New("configuration is empty")
	}
	out, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("config: YAML configuration is not representable as JSON: %w", err)
	}
	return out, nil
}

// resolvedSchema is compiled on first use.
var resolvedSchema = sync.OnceValues(func() (*jsonschema.Resolved, error) {
	var schema jsonschema.Schema
	if err := json.Unmarshal(schemaJSON, &schema); err != nil {
		return nil, fmt.Errorf("config: invalid embedded schema: %w", err)
	}
	return schema.Resolve(nil)
})

func validate(data []byte) error {
	resolved, err := resolvedSchema()
	if err != nil {
		return err
	}
	var instance any
	if err := json.Unmarshal(data, &instance); err != nil {
		return err
	}
	return resolved.Validate(instance)
}

// Path resolves p against the configuration directory unless it is
// absolute.
func (c *Configuration) Path(p string) string {
	if filepath.IsAbs(p) || c.Dir == "" {
		return p
	}
	return filepath.Join(c.Dir, p)
}

// OutputPath is the resolved output file.
func (c *Configuration) OutputPath() string {
	return c.Path(c.Output)
}

// OutputFormat is YAML for .yml/.yaml outputs and JSON otherwise.
func (c *Configuration) OutputFormat() parser.SourceFormat {
	return parser.OutputFormatForPath(c.Output)
}

// Source is the resolved file path or the URL of the input.
func (c *Configuration) Source(in Input) string {
	if in.InputURL != "" {
		return in.InputURL
	}
	return c.Path(in.InputFile)
}

// LocalFiles lists the resolved paths of every file input.
func (c *Configuration) LocalFiles() []string {
	var files []string
	for _, in := range c.Inputs {
		if in.InputFile != "" {
			files = append(files, c.Path(in.InputFile))
		}
	}
	return files
}

// Policy converts the input's settings into a joiner.Input without a
// document.
func (in Input) Policy() joiner.Input {
	policy := joiner.Input{
		AllowDuplicateOperationIDs: in.AllowDuplicateOperationIDs,
	}
	if pm := in.PathModification; pm != nil {
		policy.PathModification = joiner.PathModification{StripStart: pm.StripStart, Prepend: pm.Prepend}
	}
	if sel := in.OperationSelection; sel != nil {
		policy.OperationSelection = &joiner.OperationSelection{
			IncludeTags:  sel.IncludeTags,
			ExcludeTags:  sel.ExcludeTags,
			IncludePaths: pathRules(sel.IncludePaths),
			ExcludePaths: pathRules(sel.ExcludePaths),
		}
	}
	if d := in.Description; d != nil {
		policy.Description = &joiner.DescriptionRule{Append: d.Append}
		if d.Title != nil {
			policy.Description.Title = &joiner.DescriptionTitle{Value: d.Title.Value, HeadingLevel: d.Title.HeadingLevel}
		}
	}
	switch {
	case in.Dispute != nil:
		policy.Dispute = &joiner.Dispute{
			Prefix:      in.Dispute.Prefix,
			Suffix:      in.Dispute.Suffix,
			AlwaysApply: in.Dispute.AlwaysApply,
		}
	case in.DisputePrefix != "":
		// legacy form: a prefix applied on collision only
		policy.Dispute = &joiner.Dispute{Prefix: in.DisputePrefix}
	}
	return policy
}

func pathRules(rules []PathRule) []joiner.PathRule {
	if len(rules) == 0 {
		return nil
	}
	out := make([]joiner.PathRule, len(rules))
	for i, r := range rules {
		out[i] = joiner.PathRule{Path: r.Path, Method: r.Method}
	}
	return out
}
