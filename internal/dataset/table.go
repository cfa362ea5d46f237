// Package dataset holds uploaded tables in memory before normalization.
package dataset

import "database/sql"

// Table is a parsed upload: a header row and rows of nullable text cells.
// Cells missing from a short row read as null.
type Table struct {
	Name    string
	Columns []string
	Rows    [][]sql.NullString
}

func New(name string, columns []string) *Table {
	return &Table{Name: name, Columns: append([]string{}, columns...)}
}

// Append adds a row of raw strings; empty strings become nulls.
func (t *Table) Append(values ...string) {
	row := make([]sql.NullString, len(values))
	for i, value := range values {
		if value != "" {
			row[i] = sql.NullString{String: value, Valid: true}
		}
	}
	t.Rows = append(t.Rows, row)
}

func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// Index returns the position of the first column named name, or -1.
func (t *Table) Index(name string) int {
	for idx, column := range t.Columns {
		if column == name {
			return idx
		}
	}
	return -1
}

// Cell returns the value at row, col. Out of range reads are null.
func (t *Table) Cell(row, col int) (string, bool) {
	if col < 0 || row < 0 || row >= len(t.Rows) || col >= len(t.Rows[row]) {
		return "", false
	}
	cell := t.Rows[row][col]
	return cell.String, cell.Valid
}

// RenameColumns returns a copy of t with every column passed through fn.
// Rows are shared with t and must not be modified.
func (t *Table) RenameColumns(fn func(string) string) *Table {
	renamed := make([]string, len(t.Columns))
	for idx, column := range t.Columns {
		renamed[idx] = fn(column)
	}
	return &Table{Name: t.Name, Columns: renamed, Rows: t.Rows}
}
