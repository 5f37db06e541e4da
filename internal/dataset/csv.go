package dataset

import (
	"encoding/csv"
	"os"
	"strconv"

	"tabstat/pkg/errors"
)

// ReadCSV loads a CSV file into a dataset. The first record is the header;
// column types are inferred from the data: INTEGER if every non-empty cell
// parses as an integer, REAL if every non-empty cell parses as a number,
// TEXT otherwise.
func ReadCSV(path string, delimiter rune) (*Dataset, error) {
	f, err := os.Open(path) // #nosec G304 - user-supplied input file
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(err, errors.ErrCodeFileNotFound, "input file not found").
				WithContext("path", path)
		}
		return nil, errors.CSVError("failed to open input file", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	if delimiter != 0 {
		r.Comma = delimiter
	}
	records, err := r.ReadAll()
	if err != nil {
		return nil, errors.CSVError("failed to parse CSV", path, err)
	}
	if len(records) == 0 {
		return nil, errors.New(errors.ErrCodeCSVNoHeader, "CSV file has no header row").
			WithContext("path", path)
	}

	header := records[0]
	body := records[1:]

	columns := make([]Column, len(header))
	for i, name := range header {
		columns[i] = Column{Name: name, Type: inferType(body, i)}
	}

	ds := New(columns)
	for _, record := range body {
		values := make([]interface{}, len(columns))
		for i, cell := range record {
			v, err := columns[i].Parse(cell)
			if err != nil {
				return nil, err
			}
			values[i] = v
		}
		if err := ds.Append(values...); err != nil {
			return nil, err
		}
	}
	return ds, nil
}

// inferType scans one column of the body records and picks the narrowest
// type that fits every non-empty cell
func inferType(records [][]string, col int) Type {
	sawValue := false
	allInt := true
	allReal := true

	for _, record := range records {
		if col >= len(record) || record[col] == "" {
			continue
		}
		sawValue = true
		cell := record[col]
		if allInt {
			if _, err := strconv.ParseInt(cell, 10, 64); err != nil {
				allInt = false
			}
		}
		if allReal {
			if _, err := strconv.ParseFloat(cell, 64); err != nil {
				allReal = false
			}
		}
	}

	switch {
	case !sawValue:
		return TypeText
	case allInt:
		return TypeInteger
	case allReal:
		return TypeReal
	default:
		return TypeText
	}
}
