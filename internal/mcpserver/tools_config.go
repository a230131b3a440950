package mcpserver

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/erraggy/oasmerge/internal/config"
	"github.com/erraggy/oasmerge/internal/loader"
	"github.com/erraggy/oasmerge/joiner"
)

type mergeConfigInput struct {
	Config string `json:"config,omitempty"  jsonschema:"Path to the configuration file (default openapi-merge.json in the server's working directory)"`
	DryRun bool   `json:"dry_run,omitempty" jsonschema:"Return the merged document inline instead of writing the configured output"`
}

func handleMergeConfig(ctx context.Context, _ *mcp.CallToolRequest, input mergeConfigInput) (*mcp.CallToolResult, mergeOutput, error) {
	conf, err := config.Load(input.Config)
	if err != nil {
		return errResult(err), mergeOutput{}, nil
	}
	if len(conf.Inputs) > cfg.MaxMergeInputs {
		return errResult(fmt.Errorf("too many inputs: got %d, maximum is %d; set OASMERGE_MAX_MERGE_INPUTS to increase",
			len(conf.Inputs), cfg.MaxMergeInputs)), mergeOutput{}, nil
	}

	opts := []loader.Option{loader.WithLogger(logger)}
	if !cfg.AllowPrivateIPs {
		opts = append(opts, loader.WithHTTPClient(newSafeHTTPClient()))
	}
	inputs, err := loader.Load(ctx, conf, opts...)
	if err != nil {
		return errResult(err), mergeOutput{}, nil
	}

	result, err := joiner.New(joiner.Config{Logger: logger}).Merge(inputs)
	if err != nil {
		return errResult(err), mergeOutput{}, nil
	}

	output := summarize(result, len(inputs))
	path := conf.OutputPath()
	if input.DryRun {
		path = ""
	}
	if err := deliver(&output, result.Document, path, conf.OutputFormat()); err != nil {
		return errResult(err), mergeOutput{}, nil
	}
	return nil, output, nil
}

type validateConfigInput struct {
	Config  string `json:"config,omitempty"  jsonschema:"Path to the configuration file"`
	Content string `json:"content,omitempty" jsonschema:"Inline configuration (JSON or YAML)"`
}

type configInputSummary struct {
	Source   string `json:"source"`
	Dispute  string `json:"dispute,omitempty"`
	Selected bool   `json:"selected,omitempty"`
}

type validateConfigOutput struct {
	Valid      bool                 `json:"valid"`
	InputCount int                  `json:"input_count"`
	Inputs     []configInputSummary `json:"inputs,omitempty"`
	Output     string               `json:"output"`
}

func handleValidateConfig(_ context.Context, _ *mcp.CallToolRequest, input validateConfigInput) (*mcp.CallToolResult, validateConfigOutput, error) {
	var (
		conf *config.Configuration
		err  error
	)
	switch {
	case input.Config != "" && input.Content != "":
		return errResult(fmt.Errorf("exactly one of config or content must be provided")), validateConfigOutput{}, nil
	case input.Content != "":
		conf, err = config.Parse([]byte(input.Content))
	default:
		conf, err = config.Load(input.Config)
	}
	if err != nil {
		return errResult(err), validateConfigOutput{}, nil
	}

	output := validateConfigOutput{
		Valid:      true,
		InputCount: len(conf.Inputs),
		Inputs:     makeSlice[configInputSummary](len(conf.Inputs)),
		Output:     conf.OutputPath(),
	}
	for _, in := range conf.Inputs {
		summary := configInputSummary{
			Source:   conf.Source(in),
			Selected: in.OperationSelection != nil,
		}
		if d := in.Policy().Dispute; d != nil {
			summary.Dispute = d.Apply("{name}")
		}
		output.Inputs = append(output.Inputs, summary)
	}
	return nil, output, nil
}
