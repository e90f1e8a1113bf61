package services

import (
	"fmt"
	"sort"

	"github.com/jakechorley/seat-allotment/pkg/db"
	"github.com/jakechorley/seat-allotment/pkg/export"
)

// sortRunsNewestFirst orders runs by creation time, most recent first
func sortRunsNewestFirst(runs []db.Run) {
	sort.SliceStable(runs, func(i, j int) bool {
		return runs[i].CreatedAt.After(runs[j].CreatedAt)
	})
}

// findRun returns the run with runID, or the latest run when runID is empty
func findRun(runs []db.Run, runID string) (*db.Run, error) {
	if len(runs) == 0 {
		return nil, fmt.Errorf("no runs found - please run an allotment first")
	}

	if runID == "" {
		latest := &runs[0]
		for i := 1; i < len(runs); i++ {
			if runs[i].CreatedAt.After(latest.CreatedAt) {
				latest = &runs[i]
			}
		}
		return latest, nil
	}

	for i := range runs {
		if runs[i].ID == runID {
			return &runs[i], nil
		}
	}

	return nil, fmt.Errorf("run not found: %s", runID)
}

// BalanceRows converts stored seat balances into export rows
func BalanceRows(balances []db.SeatBalance) []export.SeatBalanceRow {
	rows := make([]export.SeatBalanceRow, 0, len(balances))
	for _, b := range balances {
		rows = append(rows, export.SeatBalanceRow{
			Group:     b.Group,
			Type:      b.Type,
			College:   b.College,
			Course:    b.Course,
			Category:  b.Category,
			Initial:   b.Initial,
			Remaining: b.Remaining,
		})
	}
	return rows
}
