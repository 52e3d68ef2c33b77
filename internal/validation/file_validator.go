package validation

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	apperrors "gstattrade/internal/errors"
)

// zipSignature opens every xlsx package.
var zipSignature = []byte("PK\x03\x04")

var (
	// ErrNotWorkbook reports a file that is not an xlsx workbook.
	ErrNotWorkbook = errors.New("not an xlsx workbook")
	// ErrTemporaryFile reports an editor lock file such as "~$book.xlsx".
	ErrTemporaryFile = errors.New("temporary Excel file")
)

// FileValidator checks input files before they enter the pipeline
type FileValidator struct {
	logger *slog.Logger
}

// NewFileValidator creates a new file validator
func NewFileValidator(logger *slog.Logger) *FileValidator {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileValidator{
		logger: logger,
	}
}

// ValidateFile checks that path exists, is a regular file and is readable
func (v *FileValidator) ValidateFile(path string) error {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		v.logger.Error("File does not exist",
			slog.String("file", path))
		return fmt.Errorf("file %s does not exist", path)
	}
	if err != nil {
		v.logger.Error("Failed to stat file",
			slog.String("file", path),
			slog.String("error", err.Error()))
		return fmt.Errorf("failed to stat file %s: %w", path, err)
	}
	if info.IsDir() {
		v.logger.Error("Path is a directory, not a file",
			slog.String("path", path))
		return fmt.Errorf("%s is a directory, not a file", path)
	}

	file, err := os.Open(path)
	if err != nil {
		v.logger.Error("File is not readable",
			slog.String("file", path),
			slog.String("error", err.Error()))
		return fmt.Errorf("file %s is not readable: %w", path, err)
	}
	file.Close()

	v.logger.Debug("File validated",
		slog.String("file", path),
		slog.Int64("size", info.Size()))
	return nil
}

// ValidateWorkbook checks that path names an xlsx workbook: a readable file
// with the .xlsx extension, not an editor lock file, holding a zip package.
func (v *FileValidator) ValidateWorkbook(path string) error {
	if err := v.ValidateFile(path); err != nil {
		return err
	}

	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".xlsx" {
		v.logger.Error("File is not an Excel file",
			slog.String("file", path),
			slog.String("extension", ext))
		return apperrors.NewValidationError(fmt.Sprintf("unexpected extension %q", ext), ErrNotWorkbook).
			WithContext("file", path)
	}

	if strings.HasPrefix(filepath.Base(path), "~$") {
		v.logger.Warn("Skipping temporary Excel file",
			slog.String("file", path))
		return apperrors.NewValidationError("editor lock file", ErrTemporaryFile).WithContext("file", path)
	}

	return v.ValidateContent(path)
}

// ValidateContent checks that the file at path starts with the zip
// signature. Release servers answer missing files with an HTML page and a
// 200 status, which this rejects.
func (v *FileValidator) ValidateContent(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	head := make([]byte, len(zipSignature))
	if _, err := io.ReadFull(f, head); err != nil || !bytes.Equal(head, zipSignature) {
		v.logger.Warn("File content is not a workbook",
			slog.String("file", path))
		return apperrors.NewValidationError("missing zip signature", ErrNotWorkbook).WithContext("file", path)
	}
	return nil
}
