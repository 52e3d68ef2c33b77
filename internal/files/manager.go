package files

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
)

// Manager moves processed workbooks into the archive directory and answers
// whether a release has already been archived.
type Manager struct {
	archiveDir string
	logger     *slog.Logger
}

// NewManager creates a new file manager instance
func NewManager(archiveDir string, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		archiveDir: archiveDir,
		logger:     logger.With(slog.String("component", "archiver")),
	}
}

// ArchiveDir returns the directory archived files are moved to.
func (m *Manager) ArchiveDir() string {
	return m.archiveDir
}

// IsArchived reports whether a file with the given base name is in the archive.
func (m *Manager) IsArchived(name string) bool {
	_, err := os.Stat(filepath.Join(m.archiveDir, filepath.Base(name)))
	return err == nil
}

// Archive moves path into the archive directory, replacing a previous copy.
func (m *Manager) Archive(path string) error {
	dst := filepath.Join(m.archiveDir, filepath.Base(path))
	if err := m.MoveFile(path, dst); err != nil {
		return fmt.Errorf("archive %s: %w", filepath.Base(path), err)
	}
	m.logger.Info("File archived",
		slog.String("file", filepath.Base(path)),
		slog.String("archive_dir", m.archiveDir))
	return nil
}

// ArchiveAll archives every path, continuing past failures. The returned
// error joins every failure.
func (m *Manager) ArchiveAll(paths []string) error {
	var errs []error
	for _, p := range paths {
		if err := m.Archive(p); err != nil {
			m.logger.Error("Archive failed", slog.String("file", p), slog.String("error", err.Error()))
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// CopyFile copies a file from source to destination
func (m *Manager) CopyFile(src, dst string) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return fmt.Errorf("failed to create destination directory: %w", err)
	}

	srcFile, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open source file: %w", err)
	}
	defer srcFile.Close()

	dstFile, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("failed to create destination file: %w", err)
	}
	defer dstFile.Close()

	if _, err := io.Copy(dstFile, srcFile); err != nil {
		return fmt.Errorf("failed to copy file content: %w", err)
	}

	return dstFile.Sync()
}

// MoveFile moves a file from source to destination. Rename is tried first;
// across file systems it falls back to copy and delete.
func (m *Manager) MoveFile(src, dst string) error {
	m.logger.Debug("Moving file",
		slog.String("src", src),
		slog.String("dst", dst))

	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return fmt.Errorf("failed to create destination directory: %w", err)
	}

	if err := os.Rename(src, dst); err == nil {
		return nil
	}

	if err := m.CopyFile(src, dst); err != nil {
		return err
	}

	return os.Remove(src)
}
