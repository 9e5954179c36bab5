// Package archive relocates split originals and removes failed jobs'
// partial outputs. It is the only package that deletes or moves files.
package archive

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// ArchiveOriginal moves sourcePath into archiveDir, creating the folder if
// absent. Creation is idempotent so being called once per job instead of
// once per run is harmless. Returns the archived path.
//
// Callers treat an error here as archival-incomplete, not as job failure:
// the original stays in place rather than risking data loss.
func ArchiveOriginal(sourcePath, archiveDir string) (string, error) {
	if err := os.MkdirAll(archiveDir, 0o755); err != nil {
		return "", fmt.Errorf("create archive folder %s: %w", archiveDir, err)
	}

	dest := filepath.Join(archiveDir, filepath.Base(sourcePath))
	if err := MoveFile(sourcePath, dest); err != nil {
		return "", fmt.Errorf("archive %s: %w", filepath.Base(sourcePath), err)
	}
	return dest, nil
}

// CleanupOutputs removes every listed path that exists. Used on any job
// failure; paths that were never written are skipped silently. Removal is
// unconditional across the list: a half-complete split is not a usable
// result, so even the part that encoded cleanly is deleted.
func CleanupOutputs(paths ...string) {
	for _, p := range paths {
		if p == "" {
			continue
		}
		if _, err := os.Stat(p); err == nil {
			_ = os.Remove(p)
		}
	}
}

// MoveFile renames src to dest, falling back to copy+delete when the
// rename crosses a filesystem boundary.
func MoveFile(src, dest string) error {
	if err := os.Rename(src, dest); err == nil {
		return nil
	}

	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dest, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		_ = os.Remove(dest)
		return err
	}
	if err := out.Close(); err != nil {
		_ = os.Remove(dest)
		return err
	}
	return os.Remove(src)
}
