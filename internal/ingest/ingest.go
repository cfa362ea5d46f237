// Package ingest reads uploaded tables into memory. It accepts CSV and XLSX
// files and Postgres tables.
package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"appointment-visit-audit/internal/dataset"
)

// ErrUnsupportedFormat is returned for files that are neither CSV nor XLSX.
var ErrUnsupportedFormat = errors.New("unsupported file type")

// Load reads path according to its extension. An empty path means nothing
// was uploaded and yields a nil table.
func Load(path string) (*dataset.Table, error) {
	if strings.TrimSpace(path) == "" {
		return nil, nil
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		file, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer file.Close()
		return ReadCSV(file, filepath.Base(path))
	case ".xlsx":
		file, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer file.Close()
		return ReadXLSX(file, filepath.Base(path))
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Base(path))
	}
}

// ReadCSV parses a CSV stream with a header row.
func ReadCSV(r io.Reader, name string) (*dataset.Table, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	headers, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("%s: unable to read header: %w", name, err)
	}
	if len(headers) > 0 {
		headers[0] = strings.TrimPrefix(headers[0], "\ufeff")
	}

	table := dataset.New(name, headers)
	for {
		record, err := reader.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("%s: unable to read CSV: %w", name, err)
		}
		if len(record) == 0 {
			continue
		}
		table.Append(record...)
	}
	return table, nil
}

// ReadXLSX parses the first sheet of a workbook; its first row is the header.
func ReadXLSX(r io.Reader, name string) (*dataset.Table, error) {
	book, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("%s: unable to open workbook: %w", name, err)
	}
	defer book.Close()

	sheets := book.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%s: workbook has no sheets", name)
	}
	rows, err := book.Rows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("%s: unable to read sheet %s: %w", name, sheets[0], err)
	}
	defer rows.Close()

	var table *dataset.Table
	for rows.Next() {
		values, err := rows.Columns()
		if err != nil {
			return nil, fmt.Errorf("%s: unable to read row: %w", name, err)
		}
		if table == nil {
			table = dataset.New(name, trimAll(values))
			continue
		}
		if isBlank(values) {
			continue
		}
		table.Append(values...)
	}
	if err := rows.Error(); err != nil {
		return nil, fmt.Errorf("%s: unable to read sheet %s: %w", name, sheets[0], err)
	}
	if table == nil {
		return nil, fmt.Errorf("%s: unable to read header: sheet %s is empty", name, sheets[0])
	}
	return table, nil
}

func trimAll(values []string) []string {
	out := make([]string, len(values))
	for i, value := range values {
		out[i] = strings.TrimSpace(value)
	}
	return out
}

func isBlank(values []string) bool {
	for _, value := range values {
		if strings.TrimSpace(value) != "" {
			return false
		}
	}
	return true
}
