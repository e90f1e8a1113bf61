package ingest

import (
	"fmt"
	"strings"
)

// Table is a raw tabular input: a header row followed by data rows
type Table struct {
	Name   string
	Header []string
	Rows   [][]string
}

// SchemaError reports a required column missing from an input table
type SchemaError struct {
	Table  string
	Column string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("%s table is missing required column %q", e.Table, e.Column)
}

// NewTable builds a Table from raw records, treating the first record as the header
func NewTable(name string, records [][]string) Table {
	table := Table{Name: name}
	if len(records) == 0 {
		return table
	}

	table.Header = make([]string, len(records[0]))
	for i, cell := range records[0] {
		table.Header[i] = strings.TrimSpace(strings.TrimPrefix(cell, "\ufeff"))
	}
	table.Rows = records[1:]

	return table
}

// FromValues builds a Table from spreadsheet API values, where cells may be any JSON type
func FromValues(name string, values [][]interface{}) Table {
	records := make([][]string, len(values))
	for i, row := range values {
		records[i] = make([]string, len(row))
		for j, cell := range row {
			if cell == nil {
				continue
			}
			records[i][j] = fmt.Sprint(cell)
		}
	}
	return NewTable(name, records)
}

// columnIndex finds a header column by name, ignoring case and surrounding whitespace
func (t Table) columnIndex(name string) int {
	for i, header := range t.Header {
		if strings.EqualFold(header, name) {
			return i
		}
	}
	return -1
}

// columns resolves required and optional columns to their indexes.
// Optional columns that are absent map to -1.
func (t Table) columns(required []string, optional []string) (map[string]int, error) {
	indexes := make(map[string]int, len(required)+len(optional))

	for _, name := range required {
		index := t.columnIndex(name)
		if index == -1 {
			return nil, &SchemaError{Table: t.Name, Column: name}
		}
		indexes[name] = index
	}

	for _, name := range optional {
		indexes[name] = t.columnIndex(name)
	}

	return indexes, nil
}

// cell returns a trimmed cell value, or "" if the row is too short or the column absent
func cell(row []string, index int) string {
	if index < 0 || index >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[index])
}
