package mcpserver

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// serverConfig holds all configurable MCP server defaults.
// Loaded once at startup from environment variables via loadConfig().
type serverConfig struct {
	// Cache settings.
	CacheEnabled       bool
	CacheMaxSize       int
	CacheFileTTL       time.Duration
	CacheURLTTL        time.Duration
	CacheContentTTL    time.Duration
	CacheSweepInterval time.Duration

	// Merge tool defaults.
	MergeFormat    string
	MaxMergeInputs int

	// Input limits.
	MaxInlineSize   int64
	AllowPrivateIPs bool
}

// cfg is the active server configuration, initialized at package load time.
var cfg = loadConfig()

// loadConfig reads configuration from OASMERGE_* environment variables.
// Invalid values log a warning and fall back to the hardcoded default.
func loadConfig() *serverConfig {
	return &serverConfig{
		CacheEnabled:       envBool("OASMERGE_CACHE_ENABLED", true),
		CacheMaxSize:       envInt("OASMERGE_CACHE_MAX_SIZE", 10),
		CacheFileTTL:       envDuration("OASMERGE_CACHE_FILE_TTL", 15*time.Minute),
		CacheURLTTL:        envDuration("OASMERGE_CACHE_URL_TTL", 5*time.Minute),
		CacheContentTTL:    envDuration("OASMERGE_CACHE_CONTENT_TTL", 15*time.Minute),
		CacheSweepInterval: envDuration("OASMERGE_CACHE_SWEEP_INTERVAL", 60*time.Second),
		MergeFormat:        envFormat("OASMERGE_MERGE_FORMAT", formatYAML),
		MaxMergeInputs:     envInt("OASMERGE_MAX_MERGE_INPUTS", 20),
		MaxInlineSize:      int64(envInt("OASMERGE_MAX_INLINE_SIZE", 10*1024*1024)),
		AllowPrivateIPs:    envBool("OASMERGE_ALLOW_PRIVATE_IPS", false),
	}
}

func envBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		slog.Warn("invalid bool env var, using default", "key", key, "value", v, "default", fallback) //nolint:gosec // G706: values are structured log fields, not format strings
		return fallback
	}
	return b
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		slog.Warn("invalid int env var, using default", "key", key, "value", v, "default", fallback) //nolint:gosec // G706: values are structured log fields, not format strings
		return fallback
	}
	return n
}

// Output formats accepted by the merge tool.
const (
	formatYAML = "yaml"
	formatJSON = "json"
)

func envFormat(key, fallback string) string {
	v := strings.ToLower(os.Getenv(key))
	switch v {
	case "":
		return fallback
	case formatYAML, formatJSON:
		return v
	default:
		slog.Warn("invalid format env var, using default", "key", key, "value", v, "default", fallback) //nolint:gosec // G706: values are structured log fields, not format strings
		return fallback
	}
}

func envDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		slog.Warn("invalid duration env var, using default", "key", key, "value", v, "default", fallback) //nolint:gosec // G706: values are structured log fields, not format strings
		return fallback
	}
	return d
}
