// Package fileutil holds the file permission modes used when oasmerge writes
// merged documents.
package fileutil

import "os"

// OwnerReadWrite is the file permission mode for merged documents, which may
// contain API details that should not be world-readable.
const OwnerReadWrite os.FileMode = 0o600
