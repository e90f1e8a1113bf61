package ingest

import (
	"math"
	"strconv"
	"strings"

	"github.com/jakechorley/seat-allotment/pkg/core/model"
)

// Table names used in schema errors
const (
	TableCandidates  = "candidates"
	TableSeats       = "seats"
	TablePreferences = "options"
)

// Seat matrix columns
const (
	colGroup    = "grp"
	colType     = "typ"
	colCollege  = "college"
	colCourse   = "course"
	colCategory = "category"
	colSeat     = "SEAT"
)

// Option entry columns
const (
	colRollNo      = "RollNo"
	colOptionNo    = "OPNO"
	colOption      = "Optn"
	colValidOption = "ValidOption"
	colDelflg      = "Delflg"
)

// Candidate columns
const (
	colRank           = "ARank"
	colCandidateCat   = "Category"
	colAIQ            = "AIQ"
	colStatus         = "Status"
	statusSurrendered = "S"
)

var seatColumns = []string{colGroup, colType, colCollege, colCourse, colCategory, colSeat}

// ParseSeats converts a seat matrix into seat rows.
// Every seat column is required; a non-numeric or negative SEAT count becomes 0.
func ParseSeats(t Table) ([]model.SeatRow, error) {
	cols, err := t.columns(seatColumns, nil)
	if err != nil {
		return nil, err
	}

	rows := make([]model.SeatRow, 0, len(t.Rows))
	for _, row := range t.Rows {
		seats, ok := parseInt(cell(row, cols[colSeat]))
		if !ok || seats < 0 {
			seats = 0
		}

		rows = append(rows, model.SeatRow{
			Group:    upper(cell(row, cols[colGroup])),
			Type:     upper(cell(row, cols[colType])),
			College:  upper(cell(row, cols[colCollege])),
			Course:   upper(cell(row, cols[colCourse])),
			Category: model.NormalizeCategory(cell(row, cols[colCategory])),
			Seats:    seats,
		})
	}

	return rows, nil
}

// ParsePreferences converts option entries into preferences.
// ValidOption defaults to "Y" and Delflg to "N" when the columns are absent.
func ParsePreferences(t Table) ([]model.Preference, error) {
	cols, err := t.columns(
		[]string{colRollNo, colOptionNo, colOption},
		[]string{colValidOption, colDelflg},
	)
	if err != nil {
		return nil, err
	}

	prefs := make([]model.Preference, 0, len(t.Rows))
	for _, row := range t.Rows {
		rollNo, _ := parseInt(cell(row, cols[colRollNo]))
		optionNo, _ := parseInt(cell(row, cols[colOptionNo]))

		validFlag := "Y"
		if cols[colValidOption] != -1 {
			validFlag = upper(cell(row, cols[colValidOption]))
		}
		deleteFlag := "N"
		if cols[colDelflg] != -1 {
			deleteFlag = upper(cell(row, cols[colDelflg]))
		}

		prefs = append(prefs, model.Preference{
			RollNo:   rollNo,
			OptionNo: optionNo,
			Code:     upper(cell(row, cols[colOption])),
			Valid:    validFlag == "Y" || validFlag == "T",
			Deleted:  deleteFlag == "Y",
		})
	}

	return prefs, nil
}

// ParseCandidates converts the candidate list.
// A missing or non-numeric ARank becomes model.UnrankedSentinel. Rows without a
// usable roll number are dropped.
func ParseCandidates(t Table) ([]model.Candidate, error) {
	cols, err := t.columns(
		[]string{colRollNo},
		[]string{colRank, colCandidateCat, colAIQ, colStatus},
	)
	if err != nil {
		return nil, err
	}

	candidates := make([]model.Candidate, 0, len(t.Rows))
	for _, row := range t.Rows {
		rollNo, ok := parseInt(cell(row, cols[colRollNo]))
		if !ok || rollNo == 0 {
			continue
		}

		rank, ok := parseInt(cell(row, cols[colRank]))
		if !ok {
			rank = model.UnrankedSentinel
		}

		excluded := isTruthy(cell(row, cols[colAIQ])) ||
			upper(cell(row, cols[colStatus])) == statusSurrendered

		candidates = append(candidates, model.Candidate{
			RollNo:   rollNo,
			Rank:     rank,
			Category: upper(cell(row, cols[colCandidateCat])),
			Excluded: excluded,
		})
	}

	return candidates, nil
}

// maxExactFloat is the largest magnitude below which every integer is exact in a float64
const maxExactFloat = 1 << 53

// parseInt accepts plain integers and whole-valued decimals ("12", "12.0").
// Fractional or out-of-range values are rejected.
func parseInt(s string) (int, bool) {
	if s == "" {
		return 0, false
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n, true
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, false
	}
	if math.Abs(f) > maxExactFloat {
		return 0, false
	}
	return int(f), true
}

func isTruthy(s string) bool {
	switch upper(s) {
	case "Y", "YES", "T", "TRUE", "1":
		return true
	}
	return false
}

func upper(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}
