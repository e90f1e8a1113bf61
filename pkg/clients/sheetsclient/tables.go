package sheetsclient

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/jakechorley/seat-allotment/pkg/ingest"
)

// ReadTable reads a whole tab as an ingest table; the first row is the header
func (c *Client) ReadTable(name, spreadsheetID, tab string) (ingest.Table, error) {
	values, err := c.GetValues(spreadsheetID, quoteTab(tab))
	if err != nil {
		return ingest.Table{}, fmt.Errorf("failed to read %s tab %q: %w", name, tab, err)
	}

	return ingest.FromValues(name, values), nil
}

// PublishAllotments writes records (header first) to tabTitle, creating the tab if needed.
// An existing tab with the same title is cleared and overwritten.
func (c *Client) PublishAllotments(spreadsheetID, tabTitle string, records [][]string) error {
	titles, err := c.SheetTitles(spreadsheetID)
	if err != nil {
		return err
	}

	if slices.Contains(titles, tabTitle) {
		if err := c.ClearValues(spreadsheetID, quoteTab(tabTitle)); err != nil {
			return fmt.Errorf("failed to clear tab %q: %w", tabTitle, err)
		}
	} else {
		if _, err := c.CreateSheet(spreadsheetID, tabTitle); err != nil {
			return fmt.Errorf("failed to create tab %q: %w", tabTitle, err)
		}
	}

	if err := c.UpdateValues(spreadsheetID, quoteTab(tabTitle)+"!A1", toSheetRows(records)); err != nil {
		return fmt.Errorf("failed to write tab %q: %w", tabTitle, err)
	}

	return nil
}

// RunTabTitle names the results tab of a run, e.g. "Allotment 2025-07-14 1a2b3c4d"
func RunTabTitle(runID string, createdAt time.Time) string {
	shortID := runID
	if len(shortID) > 8 {
		shortID = shortID[:8]
	}
	return fmt.Sprintf("Allotment %s %s", createdAt.UTC().Format("2006-01-02"), shortID)
}

// quoteTab turns a tab title into an A1 range reference
func quoteTab(tab string) string {
	return "'" + strings.ReplaceAll(tab, "'", "''") + "'"
}

func toSheetRows(records [][]string) [][]interface{} {
	rows := make([][]interface{}, 0, len(records))
	for _, record := range records {
		row := make([]interface{}, len(record))
		for i, value := range record {
			row[i] = value
		}
		rows = append(rows, row)
	}
	return rows
}
