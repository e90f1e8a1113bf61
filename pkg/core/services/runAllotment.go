package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jakechorley/seat-allotment/internal/config"
	"github.com/jakechorley/seat-allotment/pkg/core/allotment"
	"github.com/jakechorley/seat-allotment/pkg/core/model"
	"github.com/jakechorley/seat-allotment/pkg/db"
	"github.com/jakechorley/seat-allotment/pkg/ingest"
	"github.com/jakechorley/seat-allotment/pkg/metrics"
)

// RunAllotmentStore defines the database operations needed for saving a run
type RunAllotmentStore interface {
	SaveRun(ctx context.Context, run *db.Run, allotments []db.Allotment, balances []db.SeatBalance) error
}

// RunAllotmentParams configures a single allotment run
type RunAllotmentParams struct {
	Inputs   config.Inputs
	TieBreak allotment.TieBreak
	// DryRun skips saving the run even when a store is available
	DryRun bool
}

// RunAllotmentResult contains the outcome of a run and everything needed to report on it
type RunAllotmentResult struct {
	// RunID is empty when the run was not saved
	RunID     string
	CreatedAt time.Time

	Input      allotment.Input
	Outcome    *allotment.Outcome
	Initial    map[allotment.SeatKey]int
	Pool       *allotment.SeatPool
	Violations []allotment.Violation
	Metrics    *metrics.RunMetrics

	// Success is false when the outcome failed validation; such runs are never saved
	Success bool
}

// CandidateCount is the number of candidate rows read for the run
func (r *RunAllotmentResult) CandidateCount() int {
	return len(r.Input.Candidates)
}

// AllottedCount is the number of allotments made
func (r *RunAllotmentResult) AllottedCount() int {
	if r.Outcome == nil {
		return 0
	}
	return len(r.Outcome.Allotments)
}

// Summary is the one-line aggregate of a run. Candidates considered excludes
// excluded rows and repeated roll numbers, which are reported separately.
func (r *RunAllotmentResult) Summary() string {
	var stats allotment.Stats
	if r.Outcome != nil {
		stats = r.Outcome.Stats
	}
	return fmt.Sprintf("%d allotted of %d candidates considered (%d rows, %d excluded, %d duplicates)",
		r.AllottedCount(), stats.Considered, r.CandidateCount(), stats.Excluded, stats.Duplicates)
}

// SeatBalances pairs each bucket's initial capacity with what is left
func (r *RunAllotmentResult) SeatBalances() []db.SeatBalance {
	return db.NewSeatBalances(r.RunID, r.Initial, r.Pool)
}

// RunAllotment reads the three input tables, runs the matching engine and validates the outcome.
// When store is non-nil and the run is not a dry run, a valid run is saved under a new run ID.
// tables may be nil when every input is a file.
func RunAllotment(
	ctx context.Context,
	store RunAllotmentStore,
	tables TableClient,
	params RunAllotmentParams,
	logger *zap.Logger,
) (*RunAllotmentResult, error) {
	logger.Debug("Starting runAllotment",
		zap.String("tie_break", string(params.TieBreak)),
		zap.Bool("dry_run", params.DryRun),
		zap.Bool("has_store", store != nil))

	// Step 1: Read and coerce the input tables
	input, seatRows, err := loadInputs(params.Inputs, tables, logger)
	if err != nil {
		return nil, err
	}

	// Step 2: Build the seat pool
	pool := allotment.NewSeatPool(seatRows)
	initial := pool.Snapshot()
	logger.Debug("Built seat pool",
		zap.Int("buckets", len(initial)),
		zap.Int("seats", pool.Total()))

	// Step 3: Run the engine
	runMetrics := metrics.NewRunMetrics()
	started := time.Now()
	outcome, err := allotment.Run(ctx, input, pool, allotment.Options{TieBreak: params.TieBreak})
	if err != nil {
		return nil, fmt.Errorf("failed to run allotment: %w", err)
	}
	runMetrics.ObserveOutcome(outcome, pool, time.Since(started))

	logger.Debug("Allotment finished",
		zap.Int("considered", outcome.Stats.Considered),
		zap.Int("allotted", outcome.Stats.Allotted),
		zap.Int("unallotted", outcome.Stats.Unallotted),
		zap.Int("excluded", outcome.Stats.Excluded),
		zap.Int("duplicates", outcome.Stats.Duplicates),
		zap.Int("skipped_undecodable", outcome.Stats.Skips[allotment.SkipUndecodable]),
		zap.Int("skipped_no_bucket", outcome.Stats.Skips[allotment.SkipNoBucket]),
		zap.Int("skipped_no_seat", outcome.Stats.Skips[allotment.SkipNoSeat]))

	// Step 4: Re-check the outcome
	violations := allotment.ValidateOutcome(input, initial, pool, outcome)

	result := &RunAllotmentResult{
		CreatedAt:  time.Now().UTC(),
		Input:      input,
		Outcome:    outcome,
		Initial:    initial,
		Pool:       pool,
		Violations: violations,
		Metrics:    runMetrics,
		Success:    len(violations) == 0,
	}

	if !result.Success {
		for _, v := range violations {
			logger.Error("Allotment invariant violated",
				zap.String("rule", v.Rule),
				zap.Int("roll_no", v.RollNo),
				zap.String("detail", v.Message))
		}
		return result, nil
	}

	// Step 5: Save the run
	if store == nil || params.DryRun {
		logger.Debug("Run not saved", zap.Bool("dry_run", params.DryRun))
		return result, nil
	}

	result.RunID = uuid.New().String()
	run := &db.Run{
		ID:             result.RunID,
		CreatedAt:      result.CreatedAt,
		TieBreak:       tieBreakName(params.TieBreak),
		CandidateCount: result.CandidateCount(),
		AllottedCount:  result.AllottedCount(),
		Inputs:         describeInputs(params.Inputs),
	}

	logger.Debug("Saving run", zap.String("run_id", run.ID))
	if err := store.SaveRun(ctx, run, db.NewAllotments(run.ID, outcome.Allotments), result.SeatBalances()); err != nil {
		return nil, fmt.Errorf("failed to save run: %w", err)
	}

	return result, nil
}

// loadInputs reads the seat, option and candidate tables in that order.
// A *ingest.SchemaError is returned unwrapped.
func loadInputs(inputs config.Inputs, tables TableClient, logger *zap.Logger) (allotment.Input, []model.SeatRow, error) {
	seatTable, err := LoadTable(ingest.TableSeats, inputs.Seats, tables)
	if err != nil {
		return allotment.Input{}, nil, err
	}
	seatRows, err := ingest.ParseSeats(seatTable)
	if err != nil {
		return allotment.Input{}, nil, err
	}
	logger.Debug("Read seats", zap.String("source", describeSource(inputs.Seats)), zap.Int("rows", len(seatRows)))

	optionTable, err := LoadTable(ingest.TablePreferences, inputs.Options, tables)
	if err != nil {
		return allotment.Input{}, nil, err
	}
	preferences, err := ingest.ParsePreferences(optionTable)
	if err != nil {
		return allotment.Input{}, nil, err
	}
	logger.Debug("Read options", zap.String("source", describeSource(inputs.Options)), zap.Int("rows", len(preferences)))

	candidateTable, err := LoadTable(ingest.TableCandidates, inputs.Candidates, tables)
	if err != nil {
		return allotment.Input{}, nil, err
	}
	candidates, err := ingest.ParseCandidates(candidateTable)
	if err != nil {
		return allotment.Input{}, nil, err
	}
	logger.Debug("Read candidates", zap.String("source", describeSource(inputs.Candidates)), zap.Int("rows", len(candidates)))

	return allotment.Input{Candidates: candidates, Preferences: preferences}, seatRows, nil
}

func tieBreakName(t allotment.TieBreak) string {
	if t == "" {
		return string(allotment.TieBreakInputOrder)
	}
	return string(t)
}
