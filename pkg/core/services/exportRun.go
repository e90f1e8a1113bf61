package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/jakechorley/seat-allotment/pkg/core/model"
	"github.com/jakechorley/seat-allotment/pkg/db"
)

// ExportRunStore defines the database operations needed for re-exporting a saved run
type ExportRunStore interface {
	GetRuns(ctx context.Context) ([]db.Run, error)
	GetAllotments(ctx context.Context, runID string) ([]db.Allotment, error)
	GetSeatBalances(ctx context.Context, runID string) ([]db.SeatBalance, error)
}

// SavedRun is a stored run with its allotments in result order
type SavedRun struct {
	Run        db.Run
	Allotments []model.Allotment
	Balances   []db.SeatBalance
}

// LoadRun fetches a saved run and its allotments.
// If runID is empty, it defaults to the latest run.
func LoadRun(ctx context.Context, store ExportRunStore, logger *zap.Logger, runID string) (*SavedRun, error) {
	logger.Debug("Starting loadRun", zap.String("run_id", runID))

	runs, err := store.GetRuns(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch runs: %w", err)
	}

	run, err := findRun(runs, runID)
	if err != nil {
		return nil, err
	}
	logger.Debug("Using run", zap.String("id", run.ID), zap.Time("created_at", run.CreatedAt))

	records, err := store.GetAllotments(ctx, run.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch allotments for run %s: %w", run.ID, err)
	}

	balances, err := store.GetSeatBalances(ctx, run.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch seat balances for run %s: %w", run.ID, err)
	}

	allotments := make([]model.Allotment, 0, len(records))
	for _, record := range records {
		allotments = append(allotments, record.ToModel())
	}

	if len(allotments) != run.AllottedCount {
		logger.Warn("Stored allotments do not match run record",
			zap.String("run_id", run.ID),
			zap.Int("expected", run.AllottedCount),
			zap.Int("found", len(allotments)))
	}

	return &SavedRun{Run: *run, Allotments: allotments, Balances: balances}, nil
}

// ExportRun loads a saved run and writes its result files
func ExportRun(ctx context.Context, store ExportRunStore, logger *zap.Logger, runID string, opts ExportOptions) (*SavedRun, []string, error) {
	saved, err := LoadRun(ctx, store, logger, runID)
	if err != nil {
		return nil, nil, err
	}

	if opts.BaseName == "" {
		opts.BaseName = "allotment_" + saved.Run.ID
	}

	paths, err := WriteResults(saved.Allotments, BalanceRows(saved.Balances), opts)
	if err != nil {
		return nil, nil, err
	}

	logger.Debug("Exported run", zap.String("run_id", saved.Run.ID), zap.Strings("files", paths))
	return saved, paths, nil
}
