package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/jakechorley/seat-allotment/pkg/db"
)

// ListRunsStore defines the database operations needed for listing runs
type ListRunsStore interface {
	GetRuns(ctx context.Context) ([]db.Run, error)
}

// ListRuns returns every saved run, newest first
func ListRuns(ctx context.Context, store ListRunsStore, logger *zap.Logger) ([]db.Run, error) {
	logger.Debug("Fetching runs")
	runs, err := store.GetRuns(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch runs: %w", err)
	}
	logger.Debug("Found runs", zap.Int("count", len(runs)))

	sortRunsNewestFirst(runs)
	return runs, nil
}
