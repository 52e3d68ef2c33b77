package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppError(t *testing.T) {
	cause := stderrors.New("connection reset")

	tests := []struct {
		name     string
		err      *AppError
		wantType ErrorType
		wantMsg  string
	}{
		{
			name:     "network with cause",
			err:      NewNetworkError("download failed", cause),
			wantType: ErrTypeNetwork,
			wantMsg:  "[NETWORK] download failed: connection reset",
		},
		{
			name:     "storage",
			err:      NewStorageError("insert failed", cause),
			wantType: ErrTypeStorage,
			wantMsg:  "[STORAGE] insert failed: connection reset",
		},
		{
			name:     "parsing",
			err:      NewParsingError("cannot open workbook", cause),
			wantType: ErrTypeParsing,
			wantMsg:  "[PARSING] cannot open workbook: connection reset",
		},
		{
			name:     "not found without cause",
			err:      NewNotFoundError("sheet 1.4"),
			wantType: ErrTypeNotFound,
			wantMsg:  "[NOT_FOUND] sheet 1.4 not found",
		},
		{
			name:     "validation",
			err:      NewValidationError("bad schema", nil),
			wantType: ErrTypeValidation,
			wantMsg:  "[VALIDATION] bad schema",
		},
		{
			name:     "config",
			err:      NewConfigError("bad config", nil),
			wantType: ErrTypeConfig,
			wantMsg:  "[CONFIG] bad config",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantType, tt.err.Type)
			assert.Equal(t, tt.wantMsg, tt.err.Error())
			assert.True(t, IsType(fmt.Errorf("wrapped: %w", tt.err), tt.wantType))
		})
	}
}

func TestAppErrorUnwrapAndContext(t *testing.T) {
	cause := stderrors.New("disk full")
	err := NewStorageError("write staging table", cause).
		WithContext("table", "Exports_by_departments").
		WithContext("rows", 3)

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "Exports_by_departments", err.Context["table"])
	assert.Equal(t, 3, err.Context["rows"])

	var bare AppError
	bare.WithContext("k", "v")
	assert.Equal(t, "v", bare.Context["k"])

	assert.False(t, IsType(cause, ErrTypeStorage))
	assert.False(t, IsType(err, ErrTypeNetwork))
}

func TestFromAppError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"not found", NewNotFoundError("table"), http.StatusNotFound, "NOT_FOUND"},
		{"validation", NewValidationError("bad", nil), http.StatusBadRequest, "VALIDATION"},
		{"storage", fmt.Errorf("load: %w", NewStorageError("locked", nil)), http.StatusServiceUnavailable, "STORAGE"},
		{"parsing", NewParsingError("bad", nil), http.StatusInternalServerError, "PARSING"},
		{"plain error", stderrors.New("boom"), http.StatusInternalServerError, "INTERNAL_SERVER_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			apiErr := FromAppError(tt.err)
			require.NotNil(t, apiErr)
			assert.Equal(t, tt.wantStatus, apiErr.StatusCode)
			assert.Equal(t, tt.wantCode, apiErr.ErrorCode)
		})
	}
}
