package db

import "time"

// Run represents a database allotment run record
type Run struct {
	ID             string
	CreatedAt      time.Time
	TieBreak       string
	CandidateCount int
	AllottedCount  int
	// Inputs describes where the three tables were read from
	Inputs string
	// PublishedDatetime is RFC3339, empty until the run is published
	PublishedDatetime string
}

// Allotment represents a database allotment record
type Allotment struct {
	RunID             string
	RollNo            int
	Rank              int
	CandidateCategory string
	Group             string
	Type              string
	College           string
	Course            string
	SeatCategory      string
	OptionNo          int
	AllotCode         string
}

// SeatBalance represents the seats of one bucket before and after a run
type SeatBalance struct {
	RunID     string
	Group     string
	Type      string
	College   string
	Course    string
	Category  string
	Initial   int
	Remaining int
}
