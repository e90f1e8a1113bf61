package services

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jakechorley/seat-allotment/pkg/core/model"
	"github.com/jakechorley/seat-allotment/pkg/export"
)

// ExportOptions controls which result files are written and where
type ExportOptions struct {
	Dir      string
	BaseName string
	// Extended adds OPNO and AllotCode columns
	Extended bool
	PDF      bool
}

// WriteResults writes <base>.csv with one row per allotment, <base>_seats.csv with the
// seat balances, and <base>.pdf when requested. It returns the paths written.
func WriteResults(allotments []model.Allotment, balances []export.SeatBalanceRow, opts ExportOptions) ([]string, error) {
	dir := opts.Dir
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	base := opts.BaseName
	if base == "" {
		base = "allotment"
	}

	dataset := export.AllotmentDataset(allotments, opts.Extended)
	csvExporter := export.NewCSVExporter()

	var paths []string

	data, err := csvExporter.Render(dataset)
	if err != nil {
		return nil, fmt.Errorf("failed to render allotments: %w", err)
	}
	path := filepath.Join(dir, base+".csv")
	if err := os.WriteFile(path, data, 0644); err != nil {
		return nil, fmt.Errorf("failed to write %s: %w", path, err)
	}
	paths = append(paths, path)

	if balances != nil {
		data, err := csvExporter.Render(export.SeatBalanceDataset(balances))
		if err != nil {
			return nil, fmt.Errorf("failed to render seat balances: %w", err)
		}
		path := filepath.Join(dir, base+"_seats.csv")
		if err := os.WriteFile(path, data, 0644); err != nil {
			return nil, fmt.Errorf("failed to write %s: %w", path, err)
		}
		paths = append(paths, path)
	}

	if opts.PDF {
		data, err := export.NewPDFExporter().Render(dataset, "Seat allotment")
		if err != nil {
			return nil, fmt.Errorf("failed to render pdf: %w", err)
		}
		path := filepath.Join(dir, base+".pdf")
		if err := os.WriteFile(path, data, 0644); err != nil {
			return nil, fmt.Errorf("failed to write %s: %w", path, err)
		}
		paths = append(paths, path)
	}

	return paths, nil
}
