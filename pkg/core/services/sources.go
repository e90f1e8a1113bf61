package services

import (
	"fmt"

	"github.com/jakechorley/seat-allotment/internal/config"
	"github.com/jakechorley/seat-allotment/pkg/ingest"
)

// TableClient reads input tables from spreadsheet tabs
type TableClient interface {
	ReadTable(name, spreadsheetID, tab string) (ingest.Table, error)
}

// LoadTable reads one input table from its source.
// tables may be nil when every source is a file.
func LoadTable(name string, source *config.Source, tables TableClient) (ingest.Table, error) {
	if source == nil {
		return ingest.Table{}, fmt.Errorf("no source configured for %s table", name)
	}

	if !source.IsSheet() {
		return ingest.ReadCSVFile(name, source.File)
	}

	if tables == nil {
		return ingest.Table{}, fmt.Errorf("%s table is a spreadsheet tab but no sheets client is available", name)
	}
	return tables.ReadTable(name, source.SpreadsheetID, source.Tab)
}

// NeedsSheets reports whether any input is read from a spreadsheet
func NeedsSheets(inputs config.Inputs) bool {
	for _, source := range []*config.Source{inputs.Candidates, inputs.Seats, inputs.Options} {
		if source != nil && source.IsSheet() {
			return true
		}
	}
	return false
}

// describeInputs summarises the sources of a run for its record
func describeInputs(inputs config.Inputs) string {
	return fmt.Sprintf("candidates=%s seats=%s options=%s",
		describeSource(inputs.Candidates), describeSource(inputs.Seats), describeSource(inputs.Options))
}

func describeSource(source *config.Source) string {
	if source == nil {
		return "-"
	}
	return source.String()
}
