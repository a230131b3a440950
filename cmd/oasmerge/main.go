// Command oasmerge merges the OpenAPI 3 documents named by a configuration
// file into a single document.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/erraggy/oasmerge"
	"github.com/erraggy/oasmerge/internal/cliutil"
	"github.com/erraggy/oasmerge/internal/config"
	"github.com/erraggy/oasmerge/internal/mcpserver"
)

// watchDebounce is how long a burst of file events must be quiet before the
// merge runs again.
const watchDebounce = 300 * time.Millisecond

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := execute(ctx, os.Args[1:], os.Stdout, os.Stderr, newLogger)
	stop()
	os.Exit(code)
}

// rootOptions holds the flags and the logger shared by every subcommand.
type rootOptions struct {
	configPath string
	watch      bool
	verbose    bool

	buildLogger func(verbose bool) (*zap.Logger, error)
	logger      *zap.Logger
}

// execute runs the command line and returns the process exit code.
func execute(ctx context.Context, args []string, stdout, stderr io.Writer, buildLogger func(bool) (*zap.Logger, error)) int {
	opts := &rootOptions{buildLogger: buildLogger}
	cmd := newRootCmd(opts, stdout, stderr)
	if args == nil {
		// cobra falls back to os.Args for nil
		args = []string{}
	}
	cmd.SetArgs(args)

	err := cmd.ExecuteContext(ctx)
	if opts.logger != nil {
		_ = opts.logger.Sync()
	}
	if err != nil {
		report(stderr, err)
	}
	return exitCode(err)
}

func newRootCmd(opts *rootOptions, stdout, stderr io.Writer) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "oasmerge",
		Short: "Merge multiple OpenAPI 3 documents into one",
		Long: `oasmerge reads a configuration file (openapi-merge.json by default) that
lists input documents and how each one is treated, then writes a single
merged OpenAPI 3 document to the configured output path.

Exit codes: 1 configuration error, 2 input load error, 3 merge error.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logger, err := opts.buildLogger(opts.verbose)
			if err != nil {
				return &exitError{code: exitConfig, err: fmt.Errorf("failed to initialize logger: %w", err)}
			}
			opts.logger = logger
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			p := &pipeline{configPath: opts.configPath, logger: opts.logger}
			if opts.watch {
				return watch(cmd.Context(), p, watchDebounce, stderr)
			}
			_, err := p.run(cmd.Context())
			return err
		},
	}
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	rootCmd.Flags().StringVarP(&opts.configPath, "config", "c", config.DefaultFile, "path to the merge configuration file")
	rootCmd.Flags().BoolVarP(&opts.watch, "watch", "w", false, "merge again whenever the configuration or a local input changes")
	rootCmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(&cobra.Command{
		Use:   "mcp",
		Short: "Serve the merge tools over the Model Context Protocol (stdio)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return mcpserver.Run(cmd.Context(), newZapAdapter(opts.logger))
		},
	})
	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			cliutil.Writef(cmd.OutOrStdout(), "oasmerge\n%s\n", oasmerge.BuildInfo())
		},
	})

	return rootCmd
}
