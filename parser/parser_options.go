package parser

import (
	"context"
	"net/http"
)

// parseConfig collects the settings applied by Option values.
type parseConfig struct {
	filePath   string
	url        string
	data       []byte
	sourceName string

	ctx        context.Context
	httpClient *http.Client
	userAgent  string
	logger     Logger
}

// Option configures ParseWithOptions.
type Option func(*parseConfig) error

// WithFilePath reads the document from a local file.
func WithFilePath(path string) Option {
	return func(c *parseConfig) error {
		c.filePath = path
		return nil
	}
}

// WithURL fetches the document from an http(s) URL.
func WithURL(url string) Option {
	return func(c *parseConfig) error {
		c.url = url
		return nil
	}
}

// WithBytes decodes the document from raw bytes.
func WithBytes(data []byte) Option {
	return func(c *parseConfig) error {
		if data == nil {
			data = []byte{}
		}
		c.data = data
		return nil
	}
}

// WithSourceName labels in-memory input in errors and log records.
func WithSourceName(name string) Option {
	return func(c *parseConfig) error {
		c.sourceName = name
		return nil
	}
}

// WithContext bounds URL fetches.
func WithContext(ctx context.Context) Option {
	return func(c *parseConfig) error {
		if ctx != nil {
			c.ctx = ctx
		}
		return nil
	}
}

// WithHTTPClient sets the client used for URL fetches.
// The default client has a 30 second timeout.
func WithHTTPClient(client *http.Client) Option {
	return func(c *parseConfig) error {
		c.httpClient = client
		return nil
	}
}

// WithUserAgent overrides the User-Agent header sent with URL fetches.
func WithUserAgent(ua string) Option {
	return func(c *parseConfig) error {
		c.userAgent = ua
		return nil
	}
}

// WithLogger sets the structured logger.
func WithLogger(l Logger) Option {
	return func(c *parseConfig) error {
		if l != nil {
			c.logger = l
		}
		return nil
	}
}
