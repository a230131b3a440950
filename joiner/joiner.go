package joiner

import (
	"strings"

	"github.com/erraggy/oasmerge/parser"
)

// Input is one document to merge together with the policies that apply to it.
type Input struct {
	// Document is the parsed input. It is copied before merging and never
	// modified.
	Document *parser.Document
	// PathModification rewrites every path of the input
	PathModification PathModification
	// OperationSelection filters the input's operations (nil keeps all)
	OperationSelection *OperationSelection
	// Dispute renames colliding components and operationIds (nil uses
	// numeric suffixes only)
	Dispute *Dispute
	// Description controls whether info.description is appended to the
	// merged description (nil skips this input)
	Description *DescriptionRule
	// AllowDuplicateOperationIDs exempts the input's operationIds from the
	// global uniqueness check
	AllowDuplicateOperationIDs bool
}

// PathModification strips a leading prefix from every path and then
// prepends another.
type PathModification struct {
	// StripStart is removed from the start of a path when present
	StripStart string
	// Prepend is added in front of every path
	Prepend string
}

// Apply returns the rewritten path.
func (m PathModification) Apply(path string) string {
	return m.Prepend + strings.TrimPrefix(path, m.StripStart)
}

// DescriptionRule appends an input's info.description to the merged one.
type DescriptionRule struct {
	// Append includes this input's description
	Append bool
	// Title, when set, is written as a Markdown heading above the description
	Title *DescriptionTitle
}

// DescriptionTitle is a Markdown heading.
type DescriptionTitle struct {
	// Value is the heading text
	Value string
	// HeadingLevel is 1 through 6; zero means 1
	HeadingLevel int
}

// Config configures a Joiner.
type Config struct {
	// Logger receives debug output about renames and deduplication
	Logger parser.Logger
}

// DefaultConfig returns a configuration that discards log output.
func DefaultConfig() Config {
	return Config{Logger: parser.NopLogger{}}
}

// Joiner merges documents.
//
// A Joiner holds no state between calls; Merge may be called concurrently.
type Joiner struct {
	config Config
}

// New creates a Joiner.
func New(config Config) *Joiner {
	if config.Logger == nil {
		config.Logger = parser.NopLogger{}
	}
	return &Joiner{config: config}
}

// Result is a successful merge.
type Result struct {
	// Document is the merged document
	Document *parser.Document
	// Renames lists every identifier that changed, in the order decided
	Renames []Rename
	// Shared lists entries that were dropped in favor of an equivalent
	// entry already in the merged document
	Shared []Rename
	// SecuritySchemesFrom is the index of the input whose securitySchemes
	// were kept (-1 if none defined any)
	SecuritySchemesFrom int
}

// RenameKind classifies a Rename.
type RenameKind string

const (
	// RenameComponent is a component moved to a different name
	RenameComponent RenameKind = "component"
	// RenamePath is a path changed by a path modification
	RenamePath RenameKind = "path"
	// RenameOperationID is an operationId changed to stay unique
	RenameOperationID RenameKind = "operationId"
)

// Rename records one identifier decision of the merge.
type Rename struct {
	// Kind is what was renamed
	Kind RenameKind
	// InputIndex is the zero-based input the identifier belongs to
	InputIndex int
	// Category is the component category (component renames only)
	Category string
	// From is the identifier in the input
	From string
	// To is the identifier in the merged document
	To string
}

// Merge merges inputs in order and returns the merged document.
//
// Merge conflicts are *oaserrors.MergeError values. An input without a
// document is a *oaserrors.ConfigError, reported before anything is merged.
// No document is returned on failure.
func Merge(inputs []Input, opts ...Option) (*parser.Document, error) {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	result, err := New(cfg).Merge(inputs)
	if err != nil {
		return nil, err
	}
	return result.Document, nil
}

// Option configures a Merge call.
type Option func(*Config)

// WithLogger sets the logger used for debug output.
func WithLogger(l parser.Logger) Option {
	return func(c *Config) {
		c.Logger = l
	}
}
