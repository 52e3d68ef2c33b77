package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// Paths contains the resolved, absolute locations used by a run.
// This is the single source of truth for file paths in the application.
type Paths struct {
	BaseDir     string
	DownloadDir string
	ArchiveDir  string
	DataDir     string
	LogsDir     string
	LogFile     string
	Database    string
	AuditDB     string
}

// ResolvePaths turns the configured paths into absolute ones. Relative
// entries are joined to Paths.BaseDir, or the working directory.
func (c *Config) ResolvePaths() (*Paths, error) {
	base := c.Paths.BaseDir
	if base == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get working directory: %w", err)
		}
		base = wd
	}
	base, err := filepath.Abs(base)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve base directory %s: %w", base, err)
	}

	abs := func(p string) string {
		if filepath.IsAbs(p) {
			return filepath.Clean(p)
		}
		return filepath.Join(base, p)
	}

	return &Paths{
		BaseDir:     base,
		DownloadDir: abs(c.Paths.DownloadDir),
		ArchiveDir:  abs(c.Paths.ArchiveDir),
		DataDir:     abs(c.Paths.DataDir),
		LogsDir:     filepath.Dir(abs(c.Logging.FilePath)),
		LogFile:     abs(c.Logging.FilePath),
		Database:    abs(c.Database.Path),
		AuditDB:     abs(c.Database.AuditPath),
	}, nil
}

// EnsureDirectories creates all required directories if they don't exist
func (p *Paths) EnsureDirectories() error {
	directories := []string{
		p.DataDir,
		p.DownloadDir,
		p.ArchiveDir,
		p.LogsDir,
		filepath.Dir(p.Database),
		filepath.Dir(p.AuditDB),
	}

	logger := slog.Default()

	for _, dir := range directories {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
		logger.Debug("Ensured directory exists", slog.String("directory", dir))
	}

	return nil
}

// FileExists checks if a file exists
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}
