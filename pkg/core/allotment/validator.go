package allotment

import "fmt"

// Violation describes one broken invariant in a finished run
type Violation struct {
	Rule    string
	RollNo  int
	Message string
}

func (v Violation) Error() string {
	return fmt.Sprintf("%s: %s", v.Rule, v.Message)
}

// Rules checked by ValidateOutcome
const (
	RuleCapacity      = "capacity"
	RuleSingleSeat    = "single_seat"
	RuleRankOrder     = "rank_order"
	RuleExcluded      = "excluded"
	RuleEligibility   = "eligibility"
	RuleUnknownBucket = "unknown_bucket"
)

// ValidateOutcome re-checks a finished run against its inputs.
// initial is the pool snapshot taken before the run, pool is the pool after it.
// An empty slice means the run is consistent.
func ValidateOutcome(input Input, initial map[SeatKey]int, pool *SeatPool, outcome *Outcome) []Violation {
	var violations []Violation

	excluded := make(map[int]bool)
	for _, c := range input.Candidates {
		if c.Excluded {
			excluded[c.RollNo] = true
		}
	}

	used := make(map[SeatKey]int)
	seen := make(map[int]bool)
	lastRank := 0

	for i, a := range outcome.Allotments {
		key := SeatKey{Group: a.Group, Type: a.Type, College: a.College, Course: a.Course, Category: a.SeatCategory}

		if _, exists := initial[key]; !exists {
			violations = append(violations, Violation{
				Rule:    RuleUnknownBucket,
				RollNo:  a.RollNo,
				Message: fmt.Sprintf("roll %d allotted to unknown bucket %s", a.RollNo, key),
			})
		}
		used[key]++

		if seen[a.RollNo] {
			violations = append(violations, Violation{
				Rule:    RuleSingleSeat,
				RollNo:  a.RollNo,
				Message: fmt.Sprintf("roll %d allotted more than once", a.RollNo),
			})
		}
		seen[a.RollNo] = true

		if i > 0 && a.Rank < lastRank {
			violations = append(violations, Violation{
				Rule:    RuleRankOrder,
				RollNo:  a.RollNo,
				Message: fmt.Sprintf("roll %d (rank %d) allotted after rank %d", a.RollNo, a.Rank, lastRank),
			})
		}
		lastRank = a.Rank

		if excluded[a.RollNo] {
			violations = append(violations, Violation{
				Rule:    RuleExcluded,
				RollNo:  a.RollNo,
				Message: fmt.Sprintf("excluded roll %d was allotted", a.RollNo),
			})
		}

		if !Eligible(string(a.SeatCategory), a.CandidateCategory) {
			violations = append(violations, Violation{
				Rule:    RuleEligibility,
				RollNo:  a.RollNo,
				Message: fmt.Sprintf("roll %d (category %q) not eligible for %s seat", a.RollNo, a.CandidateCategory, a.SeatCategory),
			})
		}
	}

	for key, start := range initial {
		remaining := pool.Remaining(key)
		if remaining < 0 || remaining != start-used[key] {
			violations = append(violations, Violation{
				Rule:    RuleCapacity,
				Message: fmt.Sprintf("bucket %s: initial %d, allotted %d, remaining %d", key, start, used[key], remaining),
			})
		}
	}

	return violations
}
