package parser

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"go.yaml.in/yaml/v4"

	"github.com/erraggy/oasmerge"
	"github.com/erraggy/oasmerge/oaserrors"
)

// SourceFormat is the textual encoding an input was decoded from.
type SourceFormat string

const (
	// SourceFormatJSON indicates the input was valid JSON.
	SourceFormatJSON SourceFormat = "json"
	// SourceFormatYAML indicates the input was decoded by the YAML fallback.
	SourceFormatYAML SourceFormat = "yaml"
)

// defaultTimeout bounds a single URL fetch when no client is configured.
const defaultTimeout = 30 * time.Second

// ParseBytes decodes a document from raw bytes.
func ParseBytes(data []byte) (*Document, error) {
	return ParseWithOptions(WithBytes(data))
}

// ParseFile reads and decodes the document at path.
func ParseFile(path string) (*Document, error) {
	return ParseWithOptions(WithFilePath(path))
}

// ParseURL fetches and decodes the document at an http(s) URL.
func ParseURL(ctx context.Context, url string) (*Document, error) {
	return ParseWithOptions(WithURL(url), WithContext(ctx))
}

// Load decodes a document from either a local path or an http(s) URL.
func Load(ctx context.Context, source string) (*Document, error) {
	if IsURL(source) {
		return ParseURL(ctx, source)
	}
	return ParseFile(source)
}

// ParseWithOptions decodes a document using functional options.
// Exactly one of WithFilePath, WithURL or WithBytes must be given.
//
// Example:
//
//	doc, err := parser.ParseWithOptions(
//		parser.WithFilePath("api.yaml"),
//		parser.WithLogger(parser.NewSlogAdapter(slog.Default())),
//	)
func ParseWithOptions(opts ...Option) (*Document, error) {
	cfg := &parseConfig{
		ctx:    context.Background(),
		logger: NopLogger{},
	}
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}

	sources := 0
	for _, set := range []bool{cfg.filePath != "", cfg.url != "", cfg.data != nil} {
		if set {
			sources++
		}
	}
	if sources != 1 {
		return nil, &oaserrors.ConfigError{
			Option:  "source",
			Value:   sources,
			Message: "exactly one of WithFilePath, WithURL or WithBytes is required",
		}
	}

	var (
		data   []byte
		source string
		err    error
	)
	switch {
	case cfg.filePath != "":
		source = cfg.filePath
		data, err = os.ReadFile(cfg.filePath)
		if err != nil {
			return nil, fmt.Errorf("parser: failed to read file: %w", err)
		}
	case cfg.url != "":
		source = cfg.url
		data, err = cfg.fetchURL(cfg.url)
		if err != nil {
			return nil, err
		}
	default:
		source = cfg.sourceName
		data = cfg.data
	}

	doc, format, err := decode(data, source)
	if err != nil {
		return nil, err
	}
	cfg.logger.Debug("parsed document",
		"source", source,
		"format", string(format),
		"paths", len(doc.Paths),
	)
	return doc, nil
}

// decode tries JSON first and falls back to YAML.
func decode(data []byte, source string) (*Document, SourceFormat, error) {
	var doc Document
	jsonErr := json.Unmarshal(data, &doc)
	if jsonErr == nil {
		return &doc, SourceFormatJSON, nil
	}

	yamlErr := decodeYAML(data, &doc)
	if yamlErr == nil {
		return &doc, SourceFormatYAML, nil
	}

	return nil, "", &oaserrors.ParseError{
		Path:    source,
		Message: fmt.Sprintf("not valid JSON (%v) and not valid YAML", jsonErr),
		Cause:   yamlErr,
	}
}

// decodeYAML decodes YAML into a generic value, normalizes non-string keys
// and feeds the result through the JSON decoders so both encodings share one
// code path into the model.
func decodeYAML(data []byte, doc *Document) error {
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw == nil {
		return errors.New("document is empty")
	}
	converted, err := json.Marshal(normalizeYAML(raw))
	if err != nil {
		return err
	}
	*doc = Document{}
	return json.Unmarshal(converted, doc)
}

// normalizeYAML converts map[any]any (produced for numeric keys such as
// response codes) into map[string]any, recursively.
func normalizeYAML(v any) any {
	switch t := v.(type) {
	case map[string]any:
		for k, val := range t {
			t[k] = normalizeYAML(val)
		}
		return t
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[fmt.Sprint(k)] = normalizeYAML(val)
		}
		return out
	case []any:
		for i, val := range t {
			t[i] = normalizeYAML(val)
		}
		return t
	case time.Time:
		return t.Format(time.RFC3339)
	default:
		return v
	}
}

// IsURL determines if the given source is a URL (http:// or https://)
func IsURL(source string) bool {
	return strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://")
}

// fetchURL fetches content from a URL
func (c *parseConfig) fetchURL(urlStr string) ([]byte, error) {
	client := c.httpClient
	if client == nil {
		client = &http.Client{Timeout: defaultTimeout}
	}

	req, err := http.NewRequestWithContext(c.ctx, http.MethodGet, urlStr, nil)
	if err != nil {
		return nil, fmt.Errorf("parser: failed to create request: %w", err)
	}

	userAgent := c.userAgent
	if userAgent == "" {
		userAgent = oasmerge.UserAgent()
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := client.Do(req) //nolint:gosec // URL comes from the user's merge configuration
	if err != nil {
		return nil, fmt.Errorf("parser: failed to fetch URL: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("parser: HTTP %d: %s", resp.StatusCode, resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parser: failed to read response body: %w", err)
	}
	c.logger.Debug("fetched URL", "url", urlStr, "bytes", len(data))
	return data, nil
}
