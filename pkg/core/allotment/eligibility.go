package allotment

import "github.com/jakechorley/seat-allotment/pkg/core/model"

// Eligible decides whether a candidate of candidateCategory may occupy a seat
// advertised under seatCategory.
//
//   - open seats (AM, SM) admit anyone
//   - a candidate without a declared category (empty, NA, NULL, NAN) cannot take a reserved seat
//   - otherwise the categories must match exactly after normalization
//
// This is the single place reservation rules live.
func Eligible(seatCategory, candidateCategory string) bool {
	seat := model.NormalizeCategory(seatCategory)
	if seat.IsOpen() {
		return true
	}

	cand := model.NormalizeCategory(candidateCategory)
	if cand.IsNotApplicable() {
		return false
	}

	return seat == cand
}
