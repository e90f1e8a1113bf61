package services

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jakechorley/seat-allotment/internal/config"
	"github.com/jakechorley/seat-allotment/pkg/core/model"
	"github.com/jakechorley/seat-allotment/pkg/db"
)

func seededStore() *mockStore {
	store := newMockStore()
	store.runs = []db.Run{
		{ID: "run-old", CreatedAt: time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC), TieBreak: "input_order", CandidateCount: 2, AllottedCount: 1},
		{ID: "run-new", CreatedAt: time.Date(2025, 7, 1, 10, 0, 0, 0, time.UTC), TieBreak: "roll_number", CandidateCount: 3, AllottedCount: 2},
		{ID: "run-mid", CreatedAt: time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC), TieBreak: "input_order", CandidateCount: 1, AllottedCount: 0},
	}
	store.allotments["run-old"] = []db.Allotment{
		{RunID: "run-old", RollNo: 5, Rank: 1, Group: "B", Type: "G", College: "KKM", Course: "PH", SeatCategory: "SM", OptionNo: 1, AllotCode: "BGPHKKMSMSM"},
	}
	store.allotments["run-new"] = []db.Allotment{
		{RunID: "run-new", RollNo: 1, Rank: 1, CandidateCategory: "", Group: "B", Type: "G", College: "KKM", Course: "PH", SeatCategory: "SM", OptionNo: 1, AllotCode: "BGPHKKMSMSM"},
		{RunID: "run-new", RollNo: 2, Rank: 2, CandidateCategory: "EZ", Group: "B", Type: "G", College: "KKM", Course: "PH", SeatCategory: "EZ", OptionNo: 1, AllotCode: "BGPHKKMEZEZ"},
	}
	store.balances["run-new"] = []db.SeatBalance{
		{RunID: "run-new", Group: "B", Type: "G", College: "KKM", Course: "PH", Category: "EZ", Initial: 1, Remaining: 0},
		{RunID: "run-new", Group: "B", Type: "G", College: "KKM", Course: "PH", Category: "SM", Initial: 2, Remaining: 1},
	}
	return store
}

func TestListRuns_NewestFirst(t *testing.T) {
	runs, err := ListRuns(context.Background(), seededStore(), zap.NewNop())
	require.NoError(t, err)

	require.Len(t, runs, 3)
	assert.Equal(t, "run-new", runs[0].ID)
	assert.Equal(t, "run-mid", runs[1].ID)
	assert.Equal(t, "run-old", runs[2].ID)
}

func TestListRuns_Error(t *testing.T) {
	store := newMockStore()
	store.getRunsErr = errors.New("boom")

	_, err := ListRuns(context.Background(), store, zap.NewNop())
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to fetch runs")
}

func TestLoadRun(t *testing.T) {
	tests := []struct {
		name          string
		runID         string
		expectedID    string
		expectedRolls []int
		expectedError string
	}{
		{name: "defaults to latest", runID: "", expectedID: "run-new", expectedRolls: []int{1, 2}},
		{name: "specific run", runID: "run-old", expectedID: "run-old", expectedRolls: []int{5}},
		{name: "run with no allotments", runID: "run-mid", expectedID: "run-mid", expectedRolls: []int{}},
		{name: "unknown run", runID: "run-missing", expectedError: "run not found: run-missing"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			saved, err := LoadRun(context.Background(), seededStore(), zap.NewNop(), tt.runID)
			if tt.expectedError != "" {
				assert.EqualError(t, err, tt.expectedError)
				return
			}
			require.NoError(t, err)

			assert.Equal(t, tt.expectedID, saved.Run.ID)
			rolls := make([]int, 0, len(saved.Allotments))
			for _, a := range saved.Allotments {
				rolls = append(rolls, a.RollNo)
			}
			assert.Equal(t, tt.expectedRolls, rolls)
		})
	}
}

func TestLoadRun_NoRuns(t *testing.T) {
	_, err := LoadRun(context.Background(), newMockStore(), zap.NewNop(), "")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "no runs found")
}

func TestLoadRun_AllotmentsError(t *testing.T) {
	store := seededStore()
	store.getAllotmentsErr = errors.New("timeout")

	_, err := LoadRun(context.Background(), store, zap.NewNop(), "")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to fetch allotments for run run-new")
}

func TestExportRun_WritesFiles(t *testing.T) {
	dir := t.TempDir()

	saved, paths, err := ExportRun(context.Background(), seededStore(), zap.NewNop(), "", ExportOptions{Dir: dir, PDF: true})
	require.NoError(t, err)
	assert.Equal(t, "run-new", saved.Run.ID)

	assert.Equal(t, []string{
		filepath.Join(dir, "allotment_run-new.csv"),
		filepath.Join(dir, "allotment_run-new_seats.csv"),
		filepath.Join(dir, "allotment_run-new.pdf"),
	}, paths)

	data, err := os.ReadFile(paths[0])
	require.NoError(t, err)
	assert.Equal(t, "RollNo,ARank,CandidateCategory,grp,typ,College,Course,SeatCategoryAllotted\n"+
		"1,1,,B,G,KKM,PH,SM\n"+
		"2,2,EZ,B,G,KKM,PH,EZ\n", string(data))

	seats, err := os.ReadFile(paths[1])
	require.NoError(t, err)
	assert.Contains(t, string(seats), "B,G,KKM,PH,SM,2,1,1\n")
}

func TestWriteResults_ExtendedWithoutBalances(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "out")
	allotments := []model.Allotment{
		{RollNo: 7, Rank: 3, CandidateCategory: "EZ", Group: "B", Type: "G", College: "KKM", Course: "PH", SeatCategory: "EZ", OptionNo: 2, AllotCode: "BGPHKKMEZEZ"},
	}

	paths, err := WriteResults(allotments, nil, ExportOptions{Dir: dir, BaseName: "round1", Extended: true})
	require.NoError(t, err)
	require.Equal(t, []string{filepath.Join(dir, "round1.csv")}, paths)

	data, err := os.ReadFile(paths[0])
	require.NoError(t, err)
	assert.Equal(t, "RollNo,ARank,CandidateCategory,grp,typ,College,Course,SeatCategoryAllotted,OPNO,AllotCode\n"+
		"7,3,EZ,B,G,KKM,PH,EZ,2,BGPHKKMEZEZ\n", string(data))
}

func TestPublishRun(t *testing.T) {
	store := seededStore()
	publisher := &mockPublisher{}
	cfg := &config.Config{ResultsSheetID: "results-sheet"}

	published, err := PublishRun(context.Background(), store, publisher, cfg, zap.NewNop(), "")
	require.NoError(t, err)

	assert.Equal(t, "run-new", published.RunID)
	assert.Equal(t, "Allotment 2025-07-01 run-new", published.TabTitle)
	assert.Equal(t, 2, published.Rows)

	assert.Equal(t, "results-sheet", publisher.spreadsheetID)
	assert.Equal(t, published.TabTitle, publisher.tabTitle)
	require.Len(t, publisher.records, 3)
	assert.Equal(t, []string{"RollNo", "ARank", "CandidateCategory", "grp", "typ", "College", "Course", "SeatCategoryAllotted"}, publisher.records[0])
	assert.Equal(t, []string{"2", "2", "EZ", "B", "G", "KKM", "PH", "EZ"}, publisher.records[2])

	assert.Contains(t, store.published, "run-new")
}

func TestPublishRun_RequiresResultsSheet(t *testing.T) {
	_, err := PublishRun(context.Background(), seededStore(), &mockPublisher{}, &config.Config{}, zap.NewNop(), "")
	assert.EqualError(t, err, "resultsSheetID is not configured")
}

func TestPublishRun_PublisherError(t *testing.T) {
	store := seededStore()
	publisher := &mockPublisher{err: errors.New("quota exceeded")}
	cfg := &config.Config{ResultsSheetID: "results-sheet"}

	_, err := PublishRun(context.Background(), store, publisher, cfg, zap.NewNop(), "run-old")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to publish run")
	assert.Empty(t, store.published, "publish time is only recorded after a successful write")
}
