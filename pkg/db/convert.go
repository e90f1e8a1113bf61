package db

import (
	"sort"

	"github.com/jakechorley/seat-allotment/pkg/core/allotment"
	"github.com/jakechorley/seat-allotment/pkg/core/model"
)

// NewAllotments converts engine allotments into records for runID, keeping their order
func NewAllotments(runID string, allotments []model.Allotment) []Allotment {
	records := make([]Allotment, 0, len(allotments))
	for _, a := range allotments {
		records = append(records, Allotment{
			RunID:             runID,
			RollNo:            a.RollNo,
			Rank:              a.Rank,
			CandidateCategory: a.CandidateCategory,
			Group:             a.Group,
			Type:              a.Type,
			College:           a.College,
			Course:            a.Course,
			SeatCategory:      string(a.SeatCategory),
			OptionNo:          a.OptionNo,
			AllotCode:         a.AllotCode,
		})
	}
	return records
}

// ToModel converts a stored record back into an engine allotment
func (a Allotment) ToModel() model.Allotment {
	return model.Allotment{
		RollNo:            a.RollNo,
		Rank:              a.Rank,
		CandidateCategory: a.CandidateCategory,
		Group:             a.Group,
		Type:              a.Type,
		College:           a.College,
		Course:            a.Course,
		SeatCategory:      model.Category(a.SeatCategory),
		OptionNo:          a.OptionNo,
		AllotCode:         a.AllotCode,
	}
}

// NewSeatBalances pairs the initial snapshot with the pool after the run.
// Records are sorted by bucket key.
func NewSeatBalances(runID string, initial map[allotment.SeatKey]int, pool *allotment.SeatPool) []SeatBalance {
	keys := make([]allotment.SeatKey, 0, len(initial))
	for key := range initial {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].String() < keys[j].String() })

	balances := make([]SeatBalance, 0, len(keys))
	for _, key := range keys {
		balances = append(balances, SeatBalance{
			RunID:     runID,
			Group:     key.Group,
			Type:      key.Type,
			College:   key.College,
			Course:    key.Course,
			Category:  string(key.Category),
			Initial:   initial[key],
			Remaining: pool.Remaining(key),
		})
	}
	return balances
}
