package postgres

import (
	"context"
	"fmt"

	"github.com/jakechorley/seat-allotment/pkg/db"
)

// GetAllotments retrieves the allotments of a run in the order they were made
func (d *DB) GetAllotments(ctx context.Context, runID string) ([]db.Allotment, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT run_id, roll_no, rank, candidate_category, grp, typ, college, course, seat_category, option_no, allot_code
		FROM allotment
		WHERE run_id = $1
		ORDER BY seq
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query allotments: %w", err)
	}
	defer rows.Close()

	var allotments []db.Allotment
	for rows.Next() {
		var a db.Allotment
		if err := rows.Scan(&a.RunID, &a.RollNo, &a.Rank, &a.CandidateCategory, &a.Group, &a.Type, &a.College, &a.Course, &a.SeatCategory, &a.OptionNo, &a.AllotCode); err != nil {
			return nil, fmt.Errorf("failed to scan allotment: %w", err)
		}
		allotments = append(allotments, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating allotments: %w", err)
	}

	return allotments, nil
}

// GetSeatBalances retrieves the per-bucket seat balances of a run
func (d *DB) GetSeatBalances(ctx context.Context, runID string) ([]db.SeatBalance, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT run_id, grp, typ, college, course, category, initial_seats, remaining_seats
		FROM seat_balance
		WHERE run_id = $1
		ORDER BY grp, typ, college, course, category
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query seat balances: %w", err)
	}
	defer rows.Close()

	var balances []db.SeatBalance
	for rows.Next() {
		var b db.SeatBalance
		if err := rows.Scan(&b.RunID, &b.Group, &b.Type, &b.College, &b.Course, &b.Category, &b.Initial, &b.Remaining); err != nil {
			return nil, fmt.Errorf("failed to scan seat balance: %w", err)
		}
		balances = append(balances, b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating seat balances: %w", err)
	}

	return balances, nil
}
