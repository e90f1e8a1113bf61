package ingest

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// ReadCSV reads delimited text into a Table. Rows may have differing lengths.
func ReadCSV(name string, r io.Reader) (Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return Table{}, fmt.Errorf("failed to parse %s csv: %w", name, err)
	}

	return NewTable(name, records), nil
}

// ReadCSVFile reads a CSV file into a Table.
// Files that are not valid UTF-8 are decoded as ISO-8859-1, which is what
// spreadsheet exports from the counselling office typically use.
func ReadCSVFile(name, path string) (Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Table{}, fmt.Errorf("failed to read %s file %s: %w", name, filepath.Base(path), err)
	}

	if !utf8.Valid(data) {
		data, err = charmap.ISO8859_1.NewDecoder().Bytes(data)
		if err != nil {
			return Table{}, fmt.Errorf("failed to decode %s file: %w", name, err)
		}
	}

	return ReadCSV(name, bytes.NewReader(data))
}
