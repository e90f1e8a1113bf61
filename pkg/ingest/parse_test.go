package ingest

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jakechorley/seat-allotment/pkg/core/model"
)

func mustReadCSV(t *testing.T, name, data string) Table {
	t.Helper()
	table, err := ReadCSV(name, strings.NewReader(data))
	require.NoError(t, err)
	return table
}

func TestParseSeats(t *testing.T) {
	table := mustReadCSV(t, TableSeats, `grp,typ,college,course,category,SEAT
b, g ,kkm,ph,sm,3
B,G,KKM,PH,SM,2
B,G,KKM,PH,EZ,abc
B,G,TVM,PH,SC,-1
B,G,TVM,PH,MU,4.0
`)

	rows, err := ParseSeats(table)
	require.NoError(t, err)
	require.Len(t, rows, 5)

	assert.Equal(t, model.SeatRow{Group: "B", Type: "G", College: "KKM", Course: "PH", Category: "SM", Seats: 3}, rows[0])
	assert.Equal(t, 0, rows[2].Seats, "non-numeric count coerced to zero")
	assert.Equal(t, 0, rows[3].Seats, "negative count coerced to zero")
	assert.Equal(t, 4, rows[4].Seats, "whole decimal accepted")
}

func TestParseSeats_MissingColumn(t *testing.T) {
	table := mustReadCSV(t, TableSeats, "grp,typ,college,course,SEAT\nB,G,KKM,PH,1\n")

	_, err := ParseSeats(table)
	require.Error(t, err)

	var schemaErr *SchemaError
	require.True(t, errors.As(err, &schemaErr))
	assert.Equal(t, "category", schemaErr.Column)
	assert.Equal(t, TableSeats, schemaErr.Table)
	assert.Contains(t, err.Error(), `missing required column "category"`)
}

func TestParseSeats_HeaderCaseInsensitive(t *testing.T) {
	table := mustReadCSV(t, TableSeats, "\ufeffGRP, Typ ,College,Course,Category,seat\nB,G,KKM,PH,SM,1\n")

	rows, err := ParseSeats(table)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 1, rows[0].Seats)
}

func TestParsePreferences(t *testing.T) {
	table := mustReadCSV(t, TablePreferences, `RollNo,OPNO,Optn,ValidOption,Delflg
101,1, bgphkkm ,Y,N
101,2,BGPHTVM,T,
101,3,BGPHEKM,N,N
101,4,BGPHKTM,Y,y
x,5,BGPHKTM,Y,N
`)

	prefs, err := ParsePreferences(table)
	require.NoError(t, err)
	require.Len(t, prefs, 5)

	assert.Equal(t, model.Preference{RollNo: 101, OptionNo: 1, Code: "BGPHKKM", Valid: true}, prefs[0])
	assert.True(t, prefs[1].Valid, "T counts as valid")
	assert.False(t, prefs[2].Valid)
	assert.True(t, prefs[3].Deleted)
	assert.Equal(t, 0, prefs[4].RollNo)
}

func TestParsePreferences_DefaultFlags(t *testing.T) {
	table := mustReadCSV(t, TablePreferences, "RollNo,OPNO,Optn\n7,1,BGPHKKM\n")

	prefs, err := ParsePreferences(table)
	require.NoError(t, err)
	require.Len(t, prefs, 1)
	assert.True(t, prefs[0].Valid)
	assert.False(t, prefs[0].Deleted)
	assert.True(t, prefs[0].Participates())
}

func TestParsePreferences_MissingColumn(t *testing.T) {
	table := mustReadCSV(t, TablePreferences, "RollNo,Optn\n7,BGPHKKM\n")

	_, err := ParsePreferences(table)
	var schemaErr *SchemaError
	require.ErrorAs(t, err, &schemaErr)
	assert.Equal(t, "OPNO", schemaErr.Column)
}

func TestParseCandidates(t *testing.T) {
	table := mustReadCSV(t, TableCandidates, `RollNo,ARank,Category,AIQ,Status
1,15, ez ,,
2,,NA,,
3,abc,,Y,
4,7,SC,,S
0,1,SM,,
,2,SM,,
5,3.0,SM,no,
`)

	candidates, err := ParseCandidates(table)
	require.NoError(t, err)
	require.Len(t, candidates, 5)

	assert.Equal(t, model.Candidate{RollNo: 1, Rank: 15, Category: "EZ"}, candidates[0])
	assert.Equal(t, model.UnrankedSentinel, candidates[1].Rank)
	assert.Equal(t, "NA", candidates[1].Category)
	assert.Equal(t, model.UnrankedSentinel, candidates[2].Rank)
	assert.True(t, candidates[2].Excluded, "AIQ=Y excludes")
	assert.True(t, candidates[3].Excluded, "surrendered status excludes")
	assert.Equal(t, 5, candidates[4].RollNo)
	assert.Equal(t, 3, candidates[4].Rank)
	assert.False(t, candidates[4].Excluded)
}

func TestParseCandidates_OptionalColumnsAbsent(t *testing.T) {
	table := mustReadCSV(t, TableCandidates, "RollNo\n9\n")

	candidates, err := ParseCandidates(table)
	require.NoError(t, err)
	require.Len(t, candidates, 1)
	assert.Equal(t, model.Candidate{RollNo: 9, Rank: model.UnrankedSentinel}, candidates[0])
}

func TestParseCandidates_MissingRollNo(t *testing.T) {
	table := mustReadCSV(t, TableCandidates, "ARank,Category\n1,SM\n")

	_, err := ParseCandidates(table)
	var schemaErr *SchemaError
	require.ErrorAs(t, err, &schemaErr)
	assert.Equal(t, "RollNo", schemaErr.Column)
}

func TestParseInt(t *testing.T) {
	tests := []struct {
		in       string
		expected int
		ok       bool
	}{
		{"12", 12, true},
		{"12.0", 12, true},
		{"-3", -3, true},
		{"", 0, false},
		{"abc", 0, false},
		{"NaN", 0, false},
		{"12.5", 0, false},
		{"1e30", 0, false},
		{"-1e30", 0, false},
		{"2024000123.0", 2024000123, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			n, ok := parseInt(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.expected, n)
		})
	}
}
