package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeColumnNotFound, "column missing")

	assert.Equal(t, ErrCodeColumnNotFound, err.Code)
	assert.Equal(t, "column missing", err.Message)
	assert.Equal(t, SeverityError, err.Severity)
	assert.NotEmpty(t, err.Stack)
	assert.NotZero(t, err.Timestamp)
}

func TestWrap(t *testing.T) {
	cause := fmt.Errorf("underlying failure")
	err := Wrap(cause, ErrCodeStoreQuery, "query failed")

	require.NotNil(t, err)
	assert.Equal(t, ErrCodeStoreQuery, err.Code)
	assert.Equal(t, cause, err.Cause)
	assert.ErrorIs(t, err, cause)
}

func TestWrapNil(t *testing.T) {
	assert.Nil(t, Wrap(nil, ErrCodeStoreQuery, "ignored"))
}

func TestWrapInheritsContext(t *testing.T) {
	inner := New(ErrCodeStoreQuery, "inner").WithContext("table", "transactions")
	outer := Wrap(inner, ErrCodeInternal, "outer")

	assert.Equal(t, "transactions", outer.Context["table"])
}

func TestErrorFormatting(t *testing.T) {
	err := New(ErrCodeEmptyDataset, "dataset is empty").
		WithSuggestions("Add data rows", "Check the input file")

	msg := err.Error()
	assert.Contains(t, msg, "TSTE1002")
	assert.Contains(t, msg, "dataset is empty")
	assert.Contains(t, msg, "1. Add data rows")
	assert.Contains(t, msg, "2. Check the input file")
}

func TestIs(t *testing.T) {
	err := ColumnNotFoundError("city", []string{"name"})
	target := New(ErrCodeColumnNotFound, "different message")

	assert.True(t, errors.Is(err, target))
	assert.False(t, errors.Is(err, New(ErrCodeEmptyDataset, "x")))
}

func TestGetErrorCode(t *testing.T) {
	assert.Equal(t, ErrCodeEmptyDataset, GetErrorCode(EmptyDatasetError()))
	assert.Equal(t, ErrCodeInternal, GetErrorCode(fmt.Errorf("plain error")))

	wrapped := fmt.Errorf("outer: %w", ColumnNotFoundError("c", nil))
	assert.Equal(t, ErrCodeColumnNotFound, GetErrorCode(wrapped))
}

func TestConstructors(t *testing.T) {
	tests := []struct {
		name string
		err  *AppError
		code ErrorCode
	}{
		{"column not found", ColumnNotFoundError("city", []string{"name", "age"}), ErrCodeColumnNotFound},
		{"empty dataset", EmptyDatasetError(), ErrCodeEmptyDataset},
		{"csv", CSVError("bad file", "/tmp/x.csv", fmt.Errorf("eof")), ErrCodeCSVMalformed},
		{"store", StoreError("query failed", "SELECT 1", fmt.Errorf("closed")), ErrCodeStoreQuery},
		{"config", ConfigError("bad delimiter", "dataset.delimiter"), ErrCodeConfigInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, tt.err.Code)
		})
	}
}

func TestStoreErrorTruncatesQuery(t *testing.T) {
	long := ""
	for i := 0; i < 50; i++ {
		long += "SELECT * FROM t;"
	}
	err := StoreError("failed", long, fmt.Errorf("x"))

	stored, ok := err.Context["query"].(string)
	require.True(t, ok)
	assert.LessOrEqual(t, len(stored), 203)
	assert.Contains(t, stored, "...")
}
