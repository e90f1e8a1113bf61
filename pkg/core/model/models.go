package model

import "strings"

// Category is a normalized reservation/seat category code (e.g. "SM", "EZ", "SC")
type Category string

const (
	CategoryAM Category = "AM"
	CategorySM Category = "SM"
)

// OpenCategories are the open/general designators in their fixed priority order.
// A seat advertised under one of these admits any candidate.
var OpenCategories = []Category{CategoryAM, CategorySM}

// notApplicable holds the sentinels meaning "no declared category"
var notApplicable = map[Category]bool{
	"":     true,
	"NA":   true,
	"NULL": true,
	"NAN":  true,
}

// NormalizeCategory trims and upper-cases a raw category code
func NormalizeCategory(raw string) Category {
	return Category(strings.ToUpper(strings.TrimSpace(raw)))
}

// IsOpen reports whether c is an open/general seat category
func (c Category) IsOpen() bool {
	for _, open := range OpenCategories {
		if c == open {
			return true
		}
	}
	return false
}

// IsNotApplicable reports whether c is empty or one of the "no category" sentinels
func (c Category) IsNotApplicable() bool {
	return notApplicable[c]
}

// UnrankedSentinel is the rank given to candidates with a missing or unreadable rank,
// so they sort after every ranked candidate.
const UnrankedSentinel = 999999

// Candidate is one ranked applicant
type Candidate struct {
	RollNo   int
	Rank     int
	Category string // trimmed and upper-cased at ingest
	Excluded bool   // handled by a separate allotment track
}

// Preference is one option entry submitted by a candidate
type Preference struct {
	RollNo   int
	OptionNo int // lower = more preferred
	Code     string
	Valid    bool
	Deleted  bool
}

// Participates reports whether the entry takes part in matching
func (p Preference) Participates() bool {
	return p.OptionNo != 0 && p.Valid && !p.Deleted
}

// SeatRow is one raw seat-matrix row. Rows with the same key are additive.
type SeatRow struct {
	Group    string
	Type     string
	College  string
	Course   string
	Category Category
	Seats    int
}

// Allotment is the immutable record of one candidate receiving one seat
type Allotment struct {
	RollNo            int
	Rank              int
	CandidateCategory string
	Group             string
	Type              string
	College           string
	Course            string
	SeatCategory      Category
	OptionNo          int
	AllotCode         string
}
