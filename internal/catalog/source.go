package catalog

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Table is a header plus data rows, independent of the file format it came from.
type Table struct {
	Header []string
	Rows   [][]string
}

// ReadCSV reads a comma separated table. Rows may be ragged.
func ReadCSV(r io.Reader) (*Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, &DatasetError{Message: "cannot parse csv", Cause: err}
	}
	if len(records) == 0 {
		return nil, &DatasetError{Message: "dataset has no header"}
	}

	return &Table{Header: records[0], Rows: records[1:]}, nil
}

// ReadXLSX reads one sheet of a workbook. An empty sheet name selects the
// first sheet.
func ReadXLSX(path, sheet string) (*Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, &DatasetError{Source: path, Message: "cannot open workbook", Cause: err}
	}
	defer f.Close()

	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, &DatasetError{Source: path, Message: "workbook has no sheets"}
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, &DatasetError{Source: path, Message: fmt.Sprintf("cannot read sheet %q", sheet), Cause: err}
	}
	if len(rows) == 0 {
		return nil, &DatasetError{Source: path, Message: "dataset has no header"}
	}

	return &Table{Header: rows[0], Rows: rows[1:]}, nil
}

// LoadFile reads the dataset at path, picking the reader by extension, and
// builds the catalog.
func LoadFile(path, sheet string) (*Catalog, error) {
	table, err := readTable(path, sheet)
	if err != nil {
		return nil, err
	}

	c, err := Load(table)
	if err != nil {
		var dsErr *DatasetError
		if errors.As(err, &dsErr) && dsErr.Source == "" {
			dsErr.Source = path
		}
		return nil, err
	}
	return c, nil
}

func readTable(path, sheet string) (*Table, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".csv":
		f, err := os.Open(path)
		if err != nil {
			return nil, &DatasetError{Source: path, Message: "cannot open dataset", Cause: err}
		}
		defer f.Close()

		table, err := ReadCSV(f)
		if err != nil {
			var dsErr *DatasetError
			if errors.As(err, &dsErr) {
				dsErr.Source = path
			}
			return nil, err
		}
		return table, nil
	case ".xlsx":
		return ReadXLSX(path, sheet)
	default:
		return nil, &DatasetError{Source: path, Message: fmt.Sprintf("unsupported dataset format %q", ext)}
	}
}
