package validation

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "gstattrade/internal/errors"
	"gstattrade/internal/infrastructure"
	"gstattrade/internal/shared/testutil"
)

func newTestValidator() *FileValidator {
	return NewFileValidator(infrastructure.NewLogger(&bytes.Buffer{}, "debug"))
}

func TestFileValidator_ValidateFile(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "release.xlsx")
	require.NoError(t, os.WriteFile(file, []byte("PK\x03\x04"), 0644))

	tests := []struct {
		name          string
		path          string
		errorContains string
	}{
		{name: "readable file", path: file},
		{name: "missing file", path: filepath.Join(dir, "missing.xlsx"), errorContains: "does not exist"},
		{name: "directory", path: dir, errorContains: "is a directory"},
	}

	v := newTestValidator()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.ValidateFile(tt.path)
			if tt.errorContains == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.errorContains)
		})
	}
}

func TestFileValidator_ValidateWorkbook(t *testing.T) {
	dir := t.TempDir()
	write := func(name, content string) string {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
		return path
	}

	tests := []struct {
		name    string
		path    string
		wantErr error
	}{
		{name: "zip package", path: write("ITR Q32023A.xlsx", "PK\x03\x04rest")},
		{name: "upper case extension", path: write("ITR Q42023A.XLSX", "PK\x03\x04rest")},
		{name: "legacy format", path: write("old.xls", "PK\x03\x04"), wantErr: ErrNotWorkbook},
		{name: "csv export", path: write("table.csv", "a,b"), wantErr: ErrNotWorkbook},
		{name: "lock file", path: write("~$ITR Q32023A.xlsx", "PK\x03\x04"), wantErr: ErrTemporaryFile},
		{name: "html error page", path: write("ITR Q12024A.xlsx", "<!DOCTYPE html>"), wantErr: ErrNotWorkbook},
		{name: "truncated", path: write("ITR Q22024A.xlsx", "PK"), wantErr: ErrNotWorkbook},
	}

	v := newTestValidator()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.ValidateWorkbook(tt.path)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestFileValidator_LogsRejectedContent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ITR Q12024A.xlsx")
	require.NoError(t, os.WriteFile(path, []byte("<html>"), 0644))

	logger, logs := testutil.NewTestLogger(t)
	err := NewFileValidator(logger).ValidateWorkbook(path)

	assert.ErrorIs(t, err, ErrNotWorkbook)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeValidation))
	testutil.AssertLogContains(t, logs, slog.LevelWarn, "File content is not a workbook")
	assert.True(t, logs.ContainsAttr("file", path))
}

func TestFileValidator_ValidateContentIgnoresName(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".download-123")
	require.NoError(t, os.WriteFile(path, []byte("PK\x03\x04"), 0644))

	assert.NoError(t, newTestValidator().ValidateContent(path))
}
