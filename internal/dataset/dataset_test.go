package dataset

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tabstat/pkg/errors"
)

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestReadCSV(t *testing.T) {
	path := writeCSV(t, `transaction_type,amount,account_id
sale,120.50,1
purchase,80.00,2
sale,45.25,1
scam,999.99,3
`)

	ds, err := ReadCSV(path, ',')
	require.NoError(t, err)

	assert.Equal(t, 4, ds.Len())
	assert.Equal(t, []string{"transaction_type", "amount", "account_id"}, ds.Columns())

	schema := ds.Schema()
	assert.Equal(t, TypeText, schema[0].Type)
	assert.Equal(t, TypeReal, schema[1].Type)
	assert.Equal(t, TypeInteger, schema[2].Type)

	assert.Equal(t, "sale", ds.Value(0, "transaction_type"))
	assert.Equal(t, 120.50, ds.Value(0, "amount"))
	assert.Equal(t, int64(1), ds.Value(0, "account_id"))
}

func TestReadCSVTypeInference(t *testing.T) {
	tests := []struct {
		name     string
		cells    string
		expected Type
	}{
		{"all integers", "1\n2\n3", TypeInteger},
		{"mixed int and float", "1\n2.5\n3", TypeReal},
		{"all floats", "1.5\n2.5", TypeReal},
		{"numeric then text", "1\n2\nhello", TypeText},
		{"empty cells ignored", "1\n\n3", TypeInteger},
		{"all empty", "\n\n", TypeText},
		{"scientific notation", "1e3\n2e-2", TypeReal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeCSV(t, "col\n"+tt.cells+"\n")
			ds, err := ReadCSV(path, ',')
			require.NoError(t, err)
			assert.Equal(t, tt.expected, ds.Schema()[0].Type)
		})
	}
}

func TestReadCSVEmptyCellsAreNil(t *testing.T) {
	path := writeCSV(t, "name,age\nAlice,30\nBob,\n")

	ds, err := ReadCSV(path, ',')
	require.NoError(t, err)
	assert.Equal(t, int64(30), ds.Value(0, "age"))
	assert.Nil(t, ds.Value(1, "age"))
}

func TestReadCSVCustomDelimiter(t *testing.T) {
	path := writeCSV(t, "name;age\nAlice;30\n")

	ds, err := ReadCSV(path, ';')
	require.NoError(t, err)
	assert.Equal(t, []string{"name", "age"}, ds.Columns())
	assert.Equal(t, int64(30), ds.Value(0, "age"))
}

func TestReadCSVHeaderOnly(t *testing.T) {
	path := writeCSV(t, "name,age\n")

	ds, err := ReadCSV(path, ',')
	require.NoError(t, err)
	assert.Equal(t, 0, ds.Len())
	assert.Equal(t, []string{"name", "age"}, ds.Columns())
}

func TestReadCSVEmptyFile(t *testing.T) {
	path := writeCSV(t, "")

	_, err := ReadCSV(path, ',')
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeCSVNoHeader, errors.GetErrorCode(err))
}

func TestReadCSVFileNotFound(t *testing.T) {
	_, err := ReadCSV("/nonexistent/data.csv", ',')
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeFileNotFound, errors.GetErrorCode(err))
}

func TestReadCSVMalformed(t *testing.T) {
	path := writeCSV(t, "a,b\n1,2,3\n")

	_, err := ReadCSV(path, ',')
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeCSVMalformed, errors.GetErrorCode(err))
}

func TestColumnParse(t *testing.T) {
	tests := []struct {
		name      string
		column    Column
		input     string
		expected  interface{}
		wantError bool
	}{
		{"text", Column{"city", TypeText}, "Oslo", "Oslo", false},
		{"integer", Column{"age", TypeInteger}, "42", int64(42), false},
		{"real", Column{"amount", TypeReal}, "3.14", 3.14, false},
		{"empty is nil", Column{"age", TypeInteger}, "", nil, false},
		{"bad integer", Column{"age", TypeInteger}, "abc", nil, true},
		{"bad real", Column{"amount", TypeReal}, "abc", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.column.Parse(tt.input)
			if tt.wantError {
				require.Error(t, err)
				assert.Equal(t, errors.ErrCodeTypeMismatch, errors.GetErrorCode(err))
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.expected, got)
			}
		})
	}
}

func TestAppendArityMismatch(t *testing.T) {
	ds := New([]Column{{"a", TypeText}, {"b", TypeText}})

	assert.Error(t, ds.Append("only one"))
	assert.NoError(t, ds.Append("one", "two"))
	assert.Equal(t, 1, ds.Len())
}

func TestColumnLookup(t *testing.T) {
	ds := New([]Column{{"name", TypeText}, {"age", TypeInteger}})

	col, ok := ds.Column("age")
	assert.True(t, ok)
	assert.Equal(t, TypeInteger, col.Type)

	_, ok = ds.Column("missing")
	assert.False(t, ok)
}
