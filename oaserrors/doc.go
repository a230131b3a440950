// Package oaserrors provides structured error types for oasmerge.
//
// Import path: github.com/erraggy/oasmerge/oaserrors
//
// This package enables programmatic error handling via [errors.Is] and [errors.As],
// allowing callers to distinguish a bad configuration from an unreachable input
// from a merge that could not be completed.
//
// # Error Types
//
//   - [MergeError]: the merge engine gave up; carries a [MergeErrorKind]
//   - [ParseError]: an input was neither valid JSON nor valid YAML
//   - [LoadError]: an input could not be read from disk or fetched
//   - [ConfigError]: the merge configuration is missing or invalid
//
// # Sentinel Errors
//
// Every error type matches its own sentinel with errors.Is. A [MergeError]
// additionally matches the sentinel of its kind:
//
//	merged, err := joiner.Merge(inputs)
//	if errors.Is(err, oaserrors.ErrDuplicatePaths) {
//		// two inputs registered the same method on the same path
//	}
//
// # Extracting Details
//
//	var mergeErr *oaserrors.MergeError
//	if errors.As(err, &mergeErr) {
//		fmt.Printf("input %d: %s\n", mergeErr.InputIndex, mergeErr.Kind)
//	}
package oaserrors
