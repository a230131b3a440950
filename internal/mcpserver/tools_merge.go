package mcpserver

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/erraggy/oasmerge/internal/fileutil"
	"github.com/erraggy/oasmerge/internal/httputil"
	"github.com/erraggy/oasmerge/internal/pathutil"
	"github.com/erraggy/oasmerge/joiner"
	"github.com/erraggy/oasmerge/parser"
)

type pathRuleInput struct {
	Path   string `json:"path"   jsonschema:"Path prefix the operation's path must start with"`
	Method string `json:"method" jsonschema:"HTTP method (any case)"`
}

type mergeSpec struct {
	Spec specInput `json:"spec" jsonschema:"The document to merge"`

	StripStart string `json:"strip_start,omitempty" jsonschema:"Prefix removed from the start of every path of this input"`
	Prepend    string `json:"prepend,omitempty"     jsonschema:"Prefix added in front of every path of this input (after strip_start)"`

	IncludeTags  []string        `json:"include_tags,omitempty"  jsonschema:"Keep only operations with at least one of these tags"`
	ExcludeTags  []string        `json:"exclude_tags,omitempty"  jsonschema:"Drop operations with any of these tags (wins over include_tags)"`
	IncludePaths []pathRuleInput `json:"include_paths,omitempty" jsonschema:"Keep only operations matching one of these method and path-prefix rules"`
	ExcludePaths []pathRuleInput `json:"exclude_paths,omitempty" jsonschema:"Drop operations matching any of these method and path-prefix rules"`

	DisputePrefix string `json:"dispute_prefix,omitempty" jsonschema:"Prefix used to rename colliding components and operationIds of this input"`
	DisputeSuffix string `json:"dispute_suffix,omitempty" jsonschema:"Suffix used to rename colliding components and operationIds of this input"`
	DisputeAlways bool   `json:"dispute_always,omitempty" jsonschema:"Apply the dispute prefix or suffix to every component, not just colliding ones"`

	AppendDescription bool   `json:"append_description,omitempty" jsonschema:"Append this input's info.description to the merged description"`
	DescriptionTitle  string `json:"description_title,omitempty"  jsonschema:"Markdown heading written above the appended description"`
	HeadingLevel      int    `json:"heading_level,omitempty"      jsonschema:"Heading level of description_title, 1 to 6 (default 1)"`

	AllowDuplicateOperationIDs bool `json:"allow_duplicate_operation_ids,omitempty" jsonschema:"Keep this input's operationIds even if an earlier input already uses them"`
}

type mergeInput struct {
	Inputs []mergeSpec `json:"inputs"           jsonschema:"Documents to merge, in priority order (the first input supplies info and wins ties)"`
	Format string      `json:"format,omitempty" jsonschema:"Format of the inline result: yaml or json. Ignored when output is set (the extension decides)."`
	Output string      `json:"output,omitempty" jsonschema:"File path to write the merged document. If omitted the result is returned inline."`
}

type renameItem struct {
	Kind     string `json:"kind"`
	Input    int    `json:"input"`
	Category string `json:"category,omitempty"`
	From     string `json:"from"`
	To       string `json:"to"`
}

type mergeOutput struct {
	InputCount          int          `json:"input_count"`
	Version             string       `json:"version"`
	Title               string       `json:"title"`
	PathCount           int          `json:"path_count"`
	OperationCount      int          `json:"operation_count"`
	ComponentCount      int          `json:"component_count"`
	SharedCount         int          `json:"shared_count"`
	SecuritySchemesFrom int          `json:"security_schemes_from"`
	Renames             []renameItem `json:"renames,omitempty"`
	WrittenTo           string       `json:"written_to,omitempty"`
	Document            string       `json:"document,omitempty"`
	Summary             string       `json:"summary"`
}

func handleMerge(ctx context.Context, _ *mcp.CallToolRequest, input mergeInput) (*mcp.CallToolResult, mergeOutput, error) {
	if len(input.Inputs) == 0 {
		return errResult(fmt.Errorf("at least 1 input is required")), mergeOutput{}, nil
	}
	if len(input.Inputs) > cfg.MaxMergeInputs {
		return errResult(fmt.Errorf("too many inputs: got %d, maximum is %d; set OASMERGE_MAX_MERGE_INPUTS to increase",
			len(input.Inputs), cfg.MaxMergeInputs)), mergeOutput{}, nil
	}
	format, err := resultFormat(input.Format, input.Output)
	if err != nil {
		return errResult(err), mergeOutput{}, nil
	}

	inputs := make([]joiner.Input, 0, len(input.Inputs))
	for i, spec := range input.Inputs {
		in, err := spec.toJoinerInput()
		if err != nil {
			return errResult(fmt.Errorf("inputs[%d]: %w", i, err)), mergeOutput{}, nil
		}
		in.Document, err = spec.Spec.resolve(ctx)
		if err != nil {
			return errResult(fmt.Errorf("inputs[%d]: %w", i, err)), mergeOutput{}, nil
		}
		inputs = append(inputs, in)
	}

	result, err := joiner.New(joiner.Config{Logger: logger}).Merge(inputs)
	if err != nil {
		return errResult(err), mergeOutput{}, nil
	}

	output := summarize(result, len(inputs))
	if err := deliver(&output, result.Document, input.Output, format); err != nil {
		return errResult(err), mergeOutput{}, nil
	}
	return nil, output, nil
}

// toJoinerInput converts the per-input rules. The document is resolved
// separately.
func (s mergeSpec) toJoinerInput() (joiner.Input, error) {
	in := joiner.Input{
		PathModification:           joiner.PathModification{StripStart: s.StripStart, Prepend: s.Prepend},
		AllowDuplicateOperationIDs: s.AllowDuplicateOperationIDs,
	}

	if len(s.IncludeTags)+len(s.ExcludeTags)+len(s.IncludePaths)+len(s.ExcludePaths) > 0 {
		include, err := toPathRules(s.IncludePaths)
		if err != nil {
			return joiner.Input{}, fmt.Errorf("include_paths: %w", err)
		}
		exclude, err := toPathRules(s.ExcludePaths)
		if err != nil {
			return joiner.Input{}, fmt.Errorf("exclude_paths: %w", err)
		}
		in.OperationSelection = &joiner.OperationSelection{
			IncludeTags:  s.IncludeTags,
			ExcludeTags:  s.ExcludeTags,
			IncludePaths: include,
			ExcludePaths: exclude,
		}
	}

	switch {
	case s.DisputePrefix != "" && s.DisputeSuffix != "":
		return joiner.Input{}, fmt.Errorf("dispute_prefix and dispute_suffix are mutually exclusive")
	case s.DisputePrefix != "" || s.DisputeSuffix != "":
		in.Dispute = &joiner.Dispute{Prefix: s.DisputePrefix, Suffix: s.DisputeSuffix, AlwaysApply: s.DisputeAlways}
	case s.DisputeAlways:
		return joiner.Input{}, fmt.Errorf("dispute_always requires dispute_prefix or dispute_suffix")
	}

	if s.HeadingLevel < 0 || s.HeadingLevel > 6 {
		return joiner.Input{}, fmt.Errorf("heading_level must be between 1 and 6, got %d", s.HeadingLevel)
	}
	if s.AppendDescription {
		in.Description = &joiner.DescriptionRule{Append: true}
		if s.DescriptionTitle != "" {
			in.Description.Title = &joiner.DescriptionTitle{Value: s.DescriptionTitle, HeadingLevel: s.HeadingLevel}
		}
	}
	return in, nil
}

func toPathRules(rules []pathRuleInput) ([]joiner.PathRule, error) {
	out := makeSlice[joiner.PathRule](len(rules))
	for _, r := range rules {
		if !httputil.IsMethod(r.Method) {
			return nil, fmt.Errorf("invalid method %q; valid values: %s", r.Method, strings.Join(httputil.Methods, ", "))
		}
		out = append(out, joiner.PathRule{Path: r.Path, Method: r.Method})
	}
	return out, nil
}

// resultFormat picks the encoding of the merged document: the output file's
// extension when writing, else the requested format, else the server default.
func resultFormat(requested, output string) (parser.SourceFormat, error) {
	if output != "" {
		return parser.OutputFormatForPath(output), nil
	}
	if requested == "" {
		requested = cfg.MergeFormat
	}
	switch strings.ToLower(requested) {
	case formatYAML:
		return parser.SourceFormatYAML, nil
	case formatJSON:
		return parser.SourceFormatJSON, nil
	default:
		return "", fmt.Errorf("invalid format: %q; valid values: yaml, json", requested)
	}
}

// summarize describes a successful merge without the document itself.
func summarize(result *joiner.Result, inputCount int) mergeOutput {
	doc := result.Document
	output := mergeOutput{
		InputCount:          inputCount,
		Version:             doc.OpenAPI,
		PathCount:           len(doc.Paths),
		ComponentCount:      componentCount(doc.Components),
		SharedCount:         len(result.Shared),
		SecuritySchemesFrom: result.SecuritySchemesFrom,
	}
	if doc.Info != nil {
		output.Title = doc.Info.Title
	}
	for _, item := range doc.Paths {
		output.OperationCount += len(item.Methods())
	}

	output.Renames = makeSlice[renameItem](len(result.Renames))
	for _, r := range result.Renames {
		output.Renames = append(output.Renames, renameItem{
			Kind:     string(r.Kind),
			Input:    r.InputIndex,
			Category: r.Category,
			From:     r.From,
			To:       r.To,
		})
	}

	output.Summary = buildMergeSummary(output)
	return output
}

func componentCount(c *parser.Components) int {
	if c == nil {
		return 0
	}
	return len(c.Schemas) + len(c.Responses) + len(c.Parameters) + len(c.Examples) +
		len(c.RequestBodies) + len(c.Headers) + len(c.SecuritySchemes) + len(c.Links) + len(c.Callbacks) +
		len(c.PathItems)
}

func buildMergeSummary(output mergeOutput) string {
	summary := "Merged " + formatCount(output.InputCount, "input") + " into " + output.Version + " document"
	summary += " with " + formatCount(output.PathCount, "path")
	summary += ", " + formatCount(output.OperationCount, "operation")
	summary += " and " + formatCount(output.ComponentCount, "component") + "."

	if output.SharedCount > 0 {
		summary += " " + formatCount(output.SharedCount, "duplicate component") + " shared."
	}
	if len(output.Renames) > 0 {
		summary += " " + formatCount(len(output.Renames), "rename") + "."
	}
	return summary
}

// deliver writes the document to path, or stores it inline when path is
// empty.
func deliver(output *mergeOutput, doc *parser.Document, path string, format parser.SourceFormat) error {
	data, err := parser.MarshalDocument(doc, format)
	if err != nil {
		return err
	}
	if path == "" {
		output.Document = string(data)
		return nil
	}

	cleanPath, err := pathutil.SanitizeOutputPath(path)
	if err != nil {
		return fmt.Errorf("invalid output path: %w", err)
	}
	if err := os.WriteFile(cleanPath, data, fileutil.OwnerReadWrite); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	output.WrittenTo = cleanPath
	return nil
}
