package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jakechorley/seat-allotment/pkg/db"
)

// GetRuns retrieves all run records, oldest first
func (d *DB) GetRuns(ctx context.Context) ([]db.Run, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT id, created_at, tie_break, candidate_count, allotted_count, inputs, published_datetime
		FROM allotment_run
		ORDER BY created_at
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []db.Run
	for rows.Next() {
		var r db.Run
		var publishedDatetime *time.Time
		if err := rows.Scan(&r.ID, &r.CreatedAt, &r.TieBreak, &r.CandidateCount, &r.AllottedCount, &r.Inputs, &publishedDatetime); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		if publishedDatetime != nil {
			r.PublishedDatetime = publishedDatetime.UTC().Format(time.RFC3339)
		}
		runs = append(runs, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating runs: %w", err)
	}

	return runs, nil
}

// SaveRun inserts a run together with its allotments and seat balances in one transaction
func (d *DB) SaveRun(ctx context.Context, run *db.Run, allotments []db.Allotment, balances []db.SeatBalance) error {
	tx, err := d.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO allotment_run (id, created_at, tie_break, candidate_count, allotted_count, inputs)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, run.ID, run.CreatedAt.UTC(), run.TieBreak, run.CandidateCount, run.AllottedCount, run.Inputs)
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}

	for i, a := range allotments {
		_, err := tx.Exec(ctx, `
			INSERT INTO allotment (run_id, seq, roll_no, rank, candidate_category, grp, typ, college, course, seat_category, option_no, allot_code)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		`, run.ID, i, a.RollNo, a.Rank, a.CandidateCategory, a.Group, a.Type, a.College, a.Course, a.SeatCategory, a.OptionNo, a.AllotCode)
		if err != nil {
			return fmt.Errorf("failed to insert allotment for roll %d: %w", a.RollNo, err)
		}
	}

	for _, b := range balances {
		_, err := tx.Exec(ctx, `
			INSERT INTO seat_balance (run_id, grp, typ, college, course, category, initial_seats, remaining_seats)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		`, run.ID, b.Group, b.Type, b.College, b.Course, b.Category, b.Initial, b.Remaining)
		if err != nil {
			return fmt.Errorf("failed to insert seat balance: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// SetRunPublishedDatetime sets the published_datetime for a run
func (d *DB) SetRunPublishedDatetime(ctx context.Context, runID string, datetime time.Time) error {
	_, err := d.pool.Exec(ctx, `
		UPDATE allotment_run SET published_datetime = $2 WHERE id = $1
	`, runID, datetime.UTC())
	if err != nil {
		return fmt.Errorf("failed to set run published_datetime: %w", err)
	}
	return nil
}
