package dataset

import (
	"fmt"
	"strconv"

	"tabstat/pkg/errors"
)

// Type identifies the storage type of a column. Every value in a column
// is either of the column's type or nil (empty CSV cell).
type Type int

const (
	TypeText Type = iota
	TypeInteger
	TypeReal
)

// String returns the SQL-ish name of the type
func (t Type) String() string {
	switch t {
	case TypeInteger:
		return "INTEGER"
	case TypeReal:
		return "REAL"
	default:
		return "TEXT"
	}
}

// Column is a named, typed attribute present in every row
type Column struct {
	Name string
	Type Type
}

// Parse converts a raw cell into the column's value type. An empty cell
// becomes nil.
func (c Column) Parse(s string) (interface{}, error) {
	if s == "" {
		return nil, nil
	}
	switch c.Type {
	case TypeInteger:
		v, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return nil, errors.New(errors.ErrCodeTypeMismatch,
				fmt.Sprintf("value %q is not an integer (column %s)", s, c.Name)).
				WithContext("column", c.Name)
		}
		return v, nil
	case TypeReal:
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, errors.New(errors.ErrCodeTypeMismatch,
				fmt.Sprintf("value %q is not a number (column %s)", s, c.Name)).
				WithContext("column", c.Name)
		}
		return v, nil
	default:
		return s, nil
	}
}

// Dataset is an ordered, immutable-after-load collection of rows with a
// fixed schema. Values are string, int64, float64, or nil.
type Dataset struct {
	columns []Column
	index   map[string]int
	rows    [][]interface{}
}

// New creates an empty dataset with the given schema
func New(columns []Column) *Dataset {
	index := make(map[string]int, len(columns))
	for i, c := range columns {
		index[c.Name] = i
	}
	return &Dataset{columns: columns, index: index}
}

// Append adds one row. The value count must match the schema.
func (d *Dataset) Append(values ...interface{}) error {
	if len(values) != len(d.columns) {
		return errors.New(errors.ErrCodeInvalidInput,
			fmt.Sprintf("row has %d values, schema has %d columns", len(values), len(d.columns)))
	}
	d.rows = append(d.rows, values)
	return nil
}

// Len returns the number of rows
func (d *Dataset) Len() int {
	return len(d.rows)
}

// Columns returns the column names in schema order
func (d *Dataset) Columns() []string {
	names := make([]string, len(d.columns))
	for i, c := range d.columns {
		names[i] = c.Name
	}
	return names
}

// Schema returns the full typed schema
func (d *Dataset) Schema() []Column {
	out := make([]Column, len(d.columns))
	copy(out, d.columns)
	return out
}

// Column looks up a column by name
func (d *Dataset) Column(name string) (Column, bool) {
	i, ok := d.index[name]
	if !ok {
		return Column{}, false
	}
	return d.columns[i], true
}

// Value returns the value at row i for the named column. The column must
// exist; callers validate names against the schema first.
func (d *Dataset) Value(i int, column string) interface{} {
	return d.rows[i][d.index[column]]
}
