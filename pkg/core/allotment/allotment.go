package allotment

import (
	"context"
	"fmt"
	"sort"

	"github.com/jakechorley/seat-allotment/pkg/core/model"
)

// TieBreak decides the order of candidates that share a rank
type TieBreak string

const (
	// TieBreakInputOrder keeps equal-rank candidates in their input row order
	TieBreakInputOrder TieBreak = "input_order"

	// TieBreakRollNumber orders equal-rank candidates by ascending roll number
	TieBreakRollNumber TieBreak = "roll_number"
)

// IsValid reports whether t is a known policy. The empty value means TieBreakInputOrder.
func (t TieBreak) IsValid() bool {
	return t == "" || t == TieBreakInputOrder || t == TieBreakRollNumber
}

// SkipReason explains why a preference entry did not yield a seat
type SkipReason string

const (
	SkipUndecodable SkipReason = "undecodable"
	SkipNoBucket    SkipReason = "no_bucket"
	SkipNoSeat      SkipReason = "no_seat"
)

// Options configures a run
type Options struct {
	TieBreak TieBreak
}

// Input holds the typed records for one run
type Input struct {
	Candidates  []model.Candidate
	Preferences []model.Preference
}

// Stats summarises a run
type Stats struct {
	Considered int
	Allotted   int
	Unallotted int
	Excluded   int
	Duplicates int
	Skips      map[SkipReason]int
}

// Outcome is the result of a run
type Outcome struct {
	// Allotments in the order they were made, which is rank order
	Allotments []model.Allotment

	// Unallotted roll numbers of candidates who exhausted their preferences
	Unallotted []int

	// Excluded roll numbers of candidates skipped by the exclusion flag
	Excluded []int

	Stats Stats
}

// engine holds the state of a single run
type engine struct {
	pool        *SeatPool
	prefsByRoll map[int][]model.Preference
	seen        map[int]bool
	outcome     *Outcome
}

// Run assigns seats to candidates in rank order.
// Each candidate gets the first of their preferences that has an eligible bucket with
// capacity left; there is no backtracking and no upgrade once a seat is taken.
// The pool is mutated in place. ctx is checked between candidates.
func Run(ctx context.Context, input Input, pool *SeatPool, opts Options) (*Outcome, error) {
	if pool == nil {
		return nil, fmt.Errorf("seat pool is required")
	}
	if !opts.TieBreak.IsValid() {
		return nil, fmt.Errorf("unknown tie-break policy %q", opts.TieBreak)
	}

	e := &engine{
		pool:        pool,
		prefsByRoll: indexPreferences(input.Preferences),
		seen:        make(map[int]bool),
		outcome: &Outcome{
			Allotments: []model.Allotment{},
			Unallotted: []int{},
			Excluded:   []int{},
			Stats:      Stats{Skips: make(map[SkipReason]int)},
		},
	}

	candidates := SortCandidates(input.Candidates, opts.TieBreak)

	// Main allotment loop
	for _, candidate := range candidates {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		// A roll number listed twice is only ever considered at its first row,
		// whether that row was excluded, unallotted or allotted
		if e.seen[candidate.RollNo] {
			e.outcome.Stats.Duplicates++
			continue
		}
		e.seen[candidate.RollNo] = true

		if candidate.Excluded {
			e.outcome.Excluded = append(e.outcome.Excluded, candidate.RollNo)
			e.outcome.Stats.Excluded++
			continue
		}

		e.outcome.Stats.Considered++

		allotment, ok := e.allotCandidate(candidate)
		if !ok {
			e.outcome.Unallotted = append(e.outcome.Unallotted, candidate.RollNo)
			e.outcome.Stats.Unallotted++
			continue
		}

		e.outcome.Allotments = append(e.outcome.Allotments, allotment)
		e.outcome.Stats.Allotted++
	}

	return e.outcome, nil
}

// SortCandidates returns a copy of candidates ordered by ascending rank
func SortCandidates(candidates []model.Candidate, tieBreak TieBreak) []model.Candidate {
	sorted := make([]model.Candidate, len(candidates))
	copy(sorted, candidates)

	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Rank != sorted[j].Rank {
			return sorted[i].Rank < sorted[j].Rank
		}
		if tieBreak == TieBreakRollNumber {
			return sorted[i].RollNo < sorted[j].RollNo
		}
		return false
	})

	return sorted
}

// indexPreferences groups participating preference entries by roll number,
// each list sorted by ascending option number
func indexPreferences(prefs []model.Preference) map[int][]model.Preference {
	byRoll := make(map[int][]model.Preference)
	for _, pref := range prefs {
		if !pref.Participates() {
			continue
		}
		byRoll[pref.RollNo] = append(byRoll[pref.RollNo], pref)
	}

	for roll := range byRoll {
		sort.SliceStable(byRoll[roll], func(i, j int) bool {
			return byRoll[roll][i].OptionNo < byRoll[roll][j].OptionNo
		})
	}

	return byRoll
}

// allotCandidate walks the candidate's preferences and commits the first seat found
func (e *engine) allotCandidate(candidate model.Candidate) (model.Allotment, bool) {
	for _, pref := range e.prefsByRoll[candidate.RollNo] {
		option, ok := DecodeOption(pref.Code)
		if !ok {
			e.outcome.Stats.Skips[SkipUndecodable]++
			continue
		}

		buckets := e.pool.Buckets(option.Group, option.Type, option.College, option.Course)
		if len(buckets) == 0 {
			e.outcome.Stats.Skips[SkipNoBucket]++
			continue
		}

		key, ok := e.selectBucket(buckets, candidate.Category)
		if !ok {
			e.outcome.Stats.Skips[SkipNoSeat]++
			continue
		}

		// Decision and consumption happen together
		e.pool.Consume(key)

		return model.Allotment{
			RollNo:            candidate.RollNo,
			Rank:              candidate.Rank,
			CandidateCategory: candidate.Category,
			Group:             key.Group,
			Type:              key.Type,
			College:           key.College,
			Course:            key.Course,
			SeatCategory:      key.Category,
			OptionNo:          pref.OptionNo,
			AllotCode:         AllotCode(key.Group, key.Type, key.Course, key.College, string(key.Category)),
		}, true
	}

	return model.Allotment{}, false
}

// selectBucket returns the first bucket, in category priority order, that has
// capacity left and that the candidate is eligible for
func (e *engine) selectBucket(buckets []SeatKey, candidateCategory string) (SeatKey, bool) {
	byCategory := make(map[model.Category][]SeatKey)
	for _, key := range buckets {
		byCategory[key.Category] = append(byCategory[key.Category], key)
	}

	for _, category := range PriorityOrder(buckets) {
		for _, key := range byCategory[category] {
			if e.pool.Remaining(key) > 0 && Eligible(string(key.Category), candidateCategory) {
				return key, true
			}
		}
	}

	return SeatKey{}, false
}

// PriorityOrder lists the distinct categories present in buckets:
// open categories first in their fixed order, then the rest alphabetically.
func PriorityOrder(buckets []SeatKey) []model.Category {
	present := make(map[model.Category]bool)
	for _, key := range buckets {
		present[key.Category] = true
	}

	order := make([]model.Category, 0, len(present))
	for _, open := range model.OpenCategories {
		if present[open] {
			order = append(order, open)
		}
	}

	rest := make([]model.Category, 0, len(present))
	for category := range present {
		if !category.IsOpen() {
			rest = append(rest, category)
		}
	}
	sort.Slice(rest, func(i, j int) bool { return rest[i] < rest[j] })

	return append(order, rest...)
}
