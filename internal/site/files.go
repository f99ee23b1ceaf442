package site

import (
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/gunkustom/GunKustom-docs-internal/internal/logfields"
)

// copyDirContents recursively copies files and directories from src to dst.
func copyDirContents(src, dst string, logger *slog.Logger) error {
	return filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		relPath, err := filepath.Rel(src, path)
		if err != nil {
			return fmt.Errorf("failed to get relative path for %s: %w", path, err)
		}
		dstPath := filepath.Join(dst, relPath)

		if d.IsDir() {
			// New directories get os.ModePerm filtered by umask, not the source mode.
			if err := os.MkdirAll(dstPath, os.ModePerm); err != nil {
				return fmt.Errorf("failed to create directory %s: %w", dstPath, err)
			}
			return nil
		}
		if err := copyFile(path, dstPath, logger); err != nil {
			return fmt.Errorf("failed to copy file from %s to %s: %w", path, dstPath, err)
		}
		return nil
	})
}

// copyFile copies a single file, creating the destination directory and
// preserving the source permissions when possible.
func copyFile(srcFile, dstFile string, logger *slog.Logger) error {
	srcF, err := os.Open(srcFile)
	if err != nil {
		return fmt.Errorf("failed to open source file %s: %w", srcFile, err)
	}
	defer srcF.Close()

	dstDir := filepath.Dir(dstFile)
	if err := os.MkdirAll(dstDir, os.ModePerm); err != nil {
		return fmt.Errorf("failed to create destination directory %s: %w", dstDir, err)
	}

	dstF, err := os.Create(dstFile)
	if err != nil {
		return fmt.Errorf("failed to create destination file %s: %w", dstFile, err)
	}
	defer dstF.Close()

	if _, err := io.Copy(dstF, srcF); err != nil {
		return fmt.Errorf("failed to copy data from %s to %s: %w", srcFile, dstFile, err)
	}

	srcInfo, err := os.Stat(srcFile)
	if err != nil {
		logger.Warn("Could not stat source file to preserve permissions", logfields.Path(srcFile), logfields.Error(err))
		return nil
	}
	if err := os.Chmod(dstFile, srcInfo.Mode()); err != nil {
		logger.Warn("Could not set permissions", logfields.Path(dstFile), logfields.Error(err))
	}
	return nil
}

// writeFile writes data to dir/rel, creating parent directories.
func writeFile(dir, rel string, data []byte) error {
	p := filepath.Join(dir, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(p), os.ModePerm); err != nil {
		return fmt.Errorf("failed to create directory '%s': %w", filepath.Dir(p), err)
	}
	if err := os.WriteFile(p, data, 0o644); err != nil {
		return fmt.Errorf("failed to write '%s': %w", p, err)
	}
	return nil
}
