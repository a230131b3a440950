package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/erraggy/oasmerge"
	"github.com/erraggy/oasmerge/internal/cliutil"
	"github.com/erraggy/oasmerge/internal/config"
	"github.com/erraggy/oasmerge/internal/loader"
	"github.com/erraggy/oasmerge/internal/pathutil"
	"github.com/erraggy/oasmerge/joiner"
	"github.com/erraggy/oasmerge/oaserrors"
	"github.com/erraggy/oasmerge/parser"
)

// Process exit codes.
const (
	exitOK     = 0
	exitConfig = 1
	exitLoad   = 2
	exitMerge  = 3
)

// exitError carries the process exit code for a failed run.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

// exitCode maps a command error to the process exit code. Errors that did not
// come from a run (bad flags, unknown subcommands) count as configuration
// failures.
func exitCode(err error) int {
	if err == nil {
		return exitOK
	}
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	return exitConfig
}

// report prints err for a human reader.
func report(w io.Writer, err error) {
	var mergeErr *oaserrors.MergeError
	if errors.As(err, &mergeErr) {
		cliutil.Writef(w, "Error merging files: %s (%s)\n", mergeErr.Message, mergeErr.Kind)
		return
	}
	cliutil.Writef(w, "Error: %v\n", err)
}

// pipeline is one configuration's load, merge and write cycle.
type pipeline struct {
	configPath string
	logger     *zap.Logger
	httpClient *http.Client
}

// run loads the configuration and its inputs, merges them and writes the
// result. The configuration is returned whenever it could be loaded, even if a
// later phase failed, so that callers know which files it depends on.
func (p *pipeline) run(ctx context.Context) (*config.Configuration, error) {
	sw := cliutil.NewStopwatch()
	lib := newZapAdapter(p.logger)

	cfg, err := config.Load(p.configPath)
	if err != nil {
		return nil, &exitError{code: exitConfig, err: err}
	}
	p.logger.Info("loaded configuration",
		zap.String("config", p.configPath),
		zap.Int("inputs", len(cfg.Inputs)),
		zap.Duration("elapsed", sw.Lap()))

	opts := []loader.Option{
		loader.WithLogger(lib),
		loader.WithUserAgent(oasmerge.UserAgent()),
	}
	if p.httpClient != nil {
		opts = append(opts, loader.WithHTTPClient(p.httpClient))
	}
	inputs, err := loader.Load(ctx, cfg, opts...)
	if err != nil {
		return cfg, &exitError{code: exitLoad, err: err}
	}
	p.logger.Info("loaded inputs, merging",
		zap.Int("inputs", len(inputs)),
		zap.Duration("elapsed", sw.Lap()))

	result, err := joiner.New(joiner.Config{Logger: lib}).Merge(inputs)
	if err != nil {
		return cfg, &exitError{code: exitMerge, err: err}
	}
	output := cfg.OutputPath()
	p.logger.Info("inputs merged, writing output",
		zap.String("output", output),
		zap.Int("renames", len(result.Renames)),
		zap.Int("shared", len(result.Shared)),
		zap.Duration("elapsed", sw.Lap()))

	if err := write(result.Document, output); err != nil {
		return cfg, &exitError{code: exitMerge, err: err}
	}
	p.logger.Info("finished writing",
		zap.String("output", output),
		zap.Duration("elapsed", sw.Lap()),
		zap.Duration("total", sw.Total()))
	return cfg, nil
}

func write(doc *parser.Document, output string) error {
	cleaned, err := pathutil.SanitizeOutputPath(output)
	if err != nil {
		return fmt.Errorf("invalid output path: %w", err)
	}
	return parser.WriteDocument(doc, cleaned)
}
