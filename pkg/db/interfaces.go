package db

import (
	"context"
	"time"
)

// RunStore defines the interface for allotment run database operations
type RunStore interface {
	GetRuns(ctx context.Context) ([]Run, error)
	SaveRun(ctx context.Context, run *Run, allotments []Allotment, balances []SeatBalance) error
}

// Database defines the interface for all database operations.
// postgres.DB implements this interface.
type Database interface {
	RunStore
	GetAllotments(ctx context.Context, runID string) ([]Allotment, error)
	GetSeatBalances(ctx context.Context, runID string) ([]SeatBalance, error)
	SetRunPublishedDatetime(ctx context.Context, runID string, datetime time.Time) error
}
