package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jakechorley/seat-allotment/internal/config"
	"github.com/jakechorley/seat-allotment/pkg/db"
	"github.com/jakechorley/seat-allotment/pkg/ingest"
)

// mockStore implements db.Database for testing
type mockStore struct {
	runs       []db.Run
	allotments map[string][]db.Allotment
	balances   map[string][]db.SeatBalance
	published  map[string]time.Time

	getRunsErr       error
	saveErr          error
	getAllotmentsErr error
	publishErr       error
}

func newMockStore() *mockStore {
	return &mockStore{
		allotments: make(map[string][]db.Allotment),
		balances:   make(map[string][]db.SeatBalance),
		published:  make(map[string]time.Time),
	}
}

func (m *mockStore) GetRuns(ctx context.Context) ([]db.Run, error) {
	if m.getRunsErr != nil {
		return nil, m.getRunsErr
	}
	runs := make([]db.Run, len(m.runs))
	copy(runs, m.runs)
	return runs, nil
}

func (m *mockStore) SaveRun(ctx context.Context, run *db.Run, allotments []db.Allotment, balances []db.SeatBalance) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.runs = append(m.runs, *run)
	m.allotments[run.ID] = allotments
	m.balances[run.ID] = balances
	return nil
}

func (m *mockStore) GetAllotments(ctx context.Context, runID string) ([]db.Allotment, error) {
	if m.getAllotmentsErr != nil {
		return nil, m.getAllotmentsErr
	}
	return m.allotments[runID], nil
}

func (m *mockStore) GetSeatBalances(ctx context.Context, runID string) ([]db.SeatBalance, error) {
	return m.balances[runID], nil
}

func (m *mockStore) SetRunPublishedDatetime(ctx context.Context, runID string, datetime time.Time) error {
	if m.publishErr != nil {
		return m.publishErr
	}
	m.published[runID] = datetime
	return nil
}

// mockTables implements TableClient for testing
type mockTables struct {
	values map[string][][]interface{}
	reads  []string
}

func (m *mockTables) ReadTable(name, spreadsheetID, tab string) (ingest.Table, error) {
	key := spreadsheetID + "/" + tab
	m.reads = append(m.reads, key)
	values, ok := m.values[key]
	if !ok {
		return ingest.Table{}, fmt.Errorf("tab %s not found", key)
	}
	return ingest.FromValues(name, values), nil
}

// mockPublisher implements ResultsPublisher for testing
type mockPublisher struct {
	spreadsheetID string
	tabTitle      string
	records       [][]string
	err           error
}

func (m *mockPublisher) PublishAllotments(spreadsheetID, tabTitle string, records [][]string) error {
	if m.err != nil {
		return m.err
	}
	m.spreadsheetID = spreadsheetID
	m.tabTitle = tabTitle
	m.records = records
	return nil
}

const (
	testSeatsCSV = "grp,typ,college,course,category,SEAT\n" +
		"B,G,KKM,PH,SM,1\n" +
		"B,G,KKM,PH,EZ,1\n"
	testOptionsCSV = "RollNo,OPNO,Optn,ValidOption,Delflg\n" +
		"1,1,BGPHKKM,Y,N\n" +
		"2,1,BGPHKKM,Y,N\n" +
		"3,1,BGPHKKM,Y,N\n"
	testCandidatesCSV = "RollNo,ARank,Category,AIQ\n" +
		"3,3,EZ,\n" +
		"1,1,,\n" +
		"2,2,EZ,\n"
)

// writeInputs writes the three input tables to dir and returns file sources for them
func writeInputs(t *testing.T, seats, options, candidates string) config.Inputs {
	t.Helper()
	dir := t.TempDir()

	write := func(name, content string) *config.Source {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
		return &config.Source{File: path}
	}

	return config.Inputs{
		Seats:      write("seats.csv", seats),
		Options:    write("options.csv", options),
		Candidates: write("candidates.csv", candidates),
	}
}
