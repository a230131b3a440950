// Package mcpserver implements an MCP (Model Context Protocol) server
// that exposes the oasmerge merge engine as MCP tools over stdio.
package mcpserver

import (
	"context"
	"regexp"
	"strconv"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/erraggy/oasmerge"
	"github.com/erraggy/oasmerge/parser"
)

const serverInstructions = `oasmerge MCP server: merges several OpenAPI 3 documents into one, deduplicating identical components and renaming colliding ones.

Tools:
- merge: merge documents given inline, by file or by URL, each with its own path modification, operation selection, dispute and description rules
- merge_config: run an openapi-merge.json configuration file
- validate_config: check a configuration file against its schema without loading any input

Configuration: All defaults are configurable via OASMERGE_* environment variables set in your MCP client config. The Go MCP SDK does not support initializationOptions; use env vars instead.

Key settings:
- OASMERGE_MERGE_FORMAT (default: yaml): format of inline merge results (yaml or json)
- OASMERGE_MAX_MERGE_INPUTS (default: 20): maximum number of inputs per merge call
- OASMERGE_CACHE_FILE_TTL (default: 15m): cache TTL for local file inputs
- OASMERGE_CACHE_URL_TTL (default: 5m): cache TTL for URL-fetched inputs
- OASMERGE_CACHE_ENABLED (default: true): disable input caching entirely
- OASMERGE_ALLOW_PRIVATE_IPS (default: false): allow URL inputs on private networks

Caching: Decoded inputs are cached per session. File entries use path+mtime as key (auto-invalidated on change). URL entries are cached with a shorter TTL. A background sweeper removes expired entries every 60s.`

// logger receives load and merge diagnostics. Both it and the slog default
// write to stderr; stdout belongs to the transport.
var logger parser.Logger = parser.NewSlogAdapter(nil)

// Run starts the MCP server over stdio and blocks until the client disconnects
// or the context is cancelled. A nil log keeps the slog default.
func Run(ctx context.Context, log parser.Logger) error {
	if log != nil {
		logger = log
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var swept <-chan struct{}
	if cfg.CacheEnabled {
		swept = specCache.startSweeper(ctx, cfg.CacheSweepInterval)
	}

	server := newServer()
	err := server.Run(ctx, &mcp.StdioTransport{})

	cancel()
	if swept != nil {
		<-swept
	}
	return err
}

func newServer() *mcp.Server {
	server := mcp.NewServer(
		&mcp.Implementation{Name: "oasmerge", Version: oasmerge.Version()},
		&mcp.ServerOptions{
			Instructions: serverInstructions,
		},
	)
	registerAllTools(server)
	return server
}

func registerAllTools(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "merge",
		Description: "Merge OpenAPI 3 documents, in order, into a single document. Each input is given as spec.file, spec.url or spec.content and may carry its own rules: strip_start/prepend rewrite its paths; include_tags, exclude_tags, include_paths and exclude_paths select its operations; dispute_prefix or dispute_suffix renames its colliding components and operationIds (dispute_always applies the rename to every component); append_description adds its info.description under an optional Markdown heading. Identical components are shared, different ones are renamed and their $refs rewritten. Two inputs defining the same method on the same path is an error. Use output to write to a file instead of returning inline.",
	}, handleMerge)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "merge_config",
		Description: "Run an openapi-merge configuration file (JSON or YAML): load every input it lists, merge them and write the result to the configured output. Input files and the output are relative to the configuration file. Use dry_run=true to return the merged document inline without writing it.",
	}, handleMergeConfig)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "validate_config",
		Description: "Validate an openapi-merge configuration file or inline configuration against its schema. Does not load any input. Returns the number of inputs and the output path.",
	}, handleValidateConfig)
}

// makeSlice returns nil when n is 0 (preserving omitempty JSON semantics),
// otherwise returns make([]T, 0, n) for pre-allocated appending.
func makeSlice[T any](n int) []T {
	if n == 0 {
		return nil
	}
	return make([]T, 0, n)
}

func formatCount(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return strconv.Itoa(n) + " " + noun + "s"
}

// sanitizeError strips absolute filesystem paths from error messages
// to prevent leaking internal directory structure to MCP clients.
var pathPattern = regexp.MustCompile(`(?:/(?:home|tmp|var|Users|etc|opt|usr|private|root|mnt|srv|run|snap|nix)[a-zA-Z0-9._/-]*)`)

func sanitizeError(err error) string {
	if err == nil {
		return ""
	}
	return pathPattern.ReplaceAllString(err.Error(), "<path>")
}

// errResult creates an MCP error result from an error.
func errResult(err error) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{&mcp.TextContent{Text: sanitizeError(err)}},
	}
}
