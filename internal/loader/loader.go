// Package loader acquires every input named by a configuration.
//
// Inputs are read or fetched concurrently and returned in configuration
// order, each paired with its merge policy.
package loader

import (
	"context"
	"errors"
	"net/http"

	"golang.org/x/sync/errgroup"

	"github.com/erraggy/oasmerge/internal/config"
	"github.com/erraggy/oasmerge/joiner"
	"github.com/erraggy/oasmerge/oaserrors"
	"github.com/erraggy/oasmerge/parser"
)

// DefaultConcurrency bounds the number of inputs loaded at once.
const DefaultConcurrency = 8

type loadConfig struct {
	concurrency int
	httpClient  *http.Client
	userAgent   string
	logger      parser.Logger
}

// Option configures Load.
type Option func(*loadConfig)

// WithConcurrency sets how many inputs are loaded at once (minimum 1).
func WithConcurrency(n int) Option {
	return func(c *loadConfig) {
		if n > 0 {
			c.concurrency = n
		}
	}
}

// WithHTTPClient sets the client used for URL inputs.
func WithHTTPClient(client *http.Client) Option {
	return func(c *loadConfig) {
		c.httpClient = client
	}
}

// WithUserAgent overrides the User-Agent header sent for URL inputs.
func WithUserAgent(ua string) Option {
	return func(c *loadConfig) {
		c.userAgent = ua
	}
}

// WithLogger sets the logger.
func WithLogger(l parser.Logger) Option {
	return func(c *loadConfig) {
		if l != nil {
			c.logger = l
		}
	}
}

// Load acquires the documents of cfg and returns them, in order, as merge
// inputs. The first failing input (by position) is reported as a
// *oaserrors.LoadError.
func Load(ctx context.Context, cfg *config.Configuration, opts ...Option) ([]joiner.Input, error) {
	lc := &loadConfig{
		concurrency: DefaultConcurrency,
		logger:      parser.NopLogger{},
	}
	for _, opt := range opts {
		opt(lc)
	}

	inputs := make([]joiner.Input, len(cfg.Inputs))
	errs := make([]error, len(cfg.Inputs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(lc.concurrency)
	for i, in := range cfg.Inputs {
		source := cfg.Source(in)
		g.Go(func() error {
			lc.logger.Info("loading input", "index", i, "source", source)
			doc, err := lc.parse(gctx, source, in.InputURL != "")
			if err != nil {
				errs[i] = &oaserrors.LoadError{InputIndex: i, Source: source, Cause: err}
				return errs[i]
			}
			inputs[i] = in.Policy()
			inputs[i].Document = doc
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		// A sibling failure cancels gctx; prefer a real failure over the
		// cancellations it caused, unless the caller itself cancelled.
		for _, e := range errs {
			if e == nil {
				continue
			}
			if ctx.Err() == nil && errors.Is(e, context.Canceled) {
				continue
			}
			return nil, e
		}
		return nil, err
	}
	return inputs, nil
}

func (lc *loadConfig) parse(ctx context.Context, source string, isURL bool) (*parser.Document, error) {
	opts := []parser.Option{
		parser.WithContext(ctx),
		parser.WithLogger(lc.logger),
	}
	if isURL {
		opts = append(opts, parser.WithURL(source))
		if lc.httpClient != nil {
			opts = append(opts, parser.WithHTTPClient(lc.httpClient))
		}
		if lc.userAgent != "" {
			opts = append(opts, parser.WithUserAgent(lc.userAgent))
		}
	} else {
		opts = append(opts, parser.WithFilePath(source))
	}
	return parser.ParseWithOptions(opts...)
}
