package pipeline

import (
	"os"
	"path/filepath"

	apperrors "github.com/toyamagu-2021/argocd-app-migrator/internal/errors"
)

// writeAtomic writes data to path via a temp file in the same directory
// followed by a rename, so a mid-write failure never corrupts a previously
// valid output file.
func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return apperrors.NewWriteError("failed to create output directory", err,
			map[string]interface{}{"dir": dir})
	}

	tmp, err := os.CreateTemp(dir, ".appset-*.json.tmp")
	if err != nil {
		return apperrors.NewWriteError("failed to create temp file", err,
			map[string]interface{}{"dir": dir})
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return apperrors.NewWriteError("failed to write output", err,
			map[string]interface{}{"path": path})
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return apperrors.NewWriteError("failed to flush output", err,
			map[string]interface{}{"path": path})
	}

	if err := os.Chmod(tmpName, 0o644); err != nil {
		os.Remove(tmpName)
		return apperrors.NewWriteError("failed to set output permissions", err,
			map[string]interface{}{"path": path})
	}

	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return apperrors.NewWriteError("failed to move output into place", err,
			map[string]interface{}{"path": path})
	}
	return nil
}
