package services

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/jakechorley/seat-allotment/internal/config"
	"github.com/jakechorley/seat-allotment/pkg/clients/sheetsclient"
	"github.com/jakechorley/seat-allotment/pkg/export"
)

// PublishRunStore defines the database operations needed for publishing a run
type PublishRunStore interface {
	ExportRunStore
	SetRunPublishedDatetime(ctx context.Context, runID string, datetime time.Time) error
}

// ResultsPublisher writes result rows to a spreadsheet tab
type ResultsPublisher interface {
	PublishAllotments(spreadsheetID, tabTitle string, records [][]string) error
}

// PublishedRun describes where a run was published
type PublishedRun struct {
	RunID    string
	TabTitle string
	Rows     int
}

// PublishRun writes a saved run's allotments to a tab of the results spreadsheet
// named after the run, then records the publish time.
// If runID is empty, it defaults to the latest run.
func PublishRun(
	ctx context.Context,
	store PublishRunStore,
	publisher ResultsPublisher,
	cfg *config.Config,
	logger *zap.Logger,
	runID string,
) (*PublishedRun, error) {
	logger.Debug("Starting publishRun", zap.String("run_id", runID))

	if cfg.ResultsSheetID == "" {
		return nil, fmt.Errorf("resultsSheetID is not configured")
	}

	saved, err := LoadRun(ctx, store, logger, runID)
	if err != nil {
		return nil, err
	}

	records := export.AllotmentDataset(saved.Allotments, cfg.ExtendedExport).Records()
	tabTitle := sheetsclient.RunTabTitle(saved.Run.ID, saved.Run.CreatedAt)

	logger.Debug("Publishing run",
		zap.String("run_id", saved.Run.ID),
		zap.String("tab", tabTitle),
		zap.Int("rows", len(saved.Allotments)))
	if err := publisher.PublishAllotments(cfg.ResultsSheetID, tabTitle, records); err != nil {
		return nil, fmt.Errorf("failed to publish run: %w", err)
	}

	if err := store.SetRunPublishedDatetime(ctx, saved.Run.ID, time.Now()); err != nil {
		return nil, fmt.Errorf("failed to record publish time: %w", err)
	}

	return &PublishedRun{RunID: saved.Run.ID, TabTitle: tabTitle, Rows: len(saved.Allotments)}, nil
}
