package pathutil

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// SanitizeOutputPath checks that a merged document can be written to path and
// returns it cleaned and absolute.
//
// The target may be a new file or an existing regular file. Symlinks and
// directories are refused, and the parent directory must already exist since
// nothing creates it.
func SanitizeOutputPath(path string) (string, error) {
	if path == "" {
		return "", errors.New("pathutil: output path is empty")
	}
	abs, err := filepath.Abs(filepath.Clean(path))
	if err != nil {
		return "", fmt.Errorf("pathutil: cannot resolve absolute path: %w", err)
	}

	info, err := os.Lstat(abs)
	switch {
	case err == nil:
		if info.Mode()&os.ModeSymlink != 0 {
			return "", fmt.Errorf("pathutil: refusing to write to symlink: %s", abs)
		}
		if info.IsDir() {
			return "", fmt.Errorf("pathutil: output path is a directory: %s", abs)
		}
	case errors.Is(err, os.ErrNotExist):
		dir := filepath.Dir(abs)
		parent, err := os.Stat(dir)
		if err != nil {
			return "", fmt.Errorf("pathutil: output directory %s does not exist: %w", dir, err)
		}
		if !parent.IsDir() {
			return "", fmt.Errorf("pathutil: output parent %s is not a directory", dir)
		}
	default:
		return "", fmt.Errorf("pathutil: cannot stat path: %w", err)
	}

	return abs, nil
}
