package export

import "strconv"

// SeatBalanceRow is one bucket's capacity before and after a run
type SeatBalanceRow struct {
	Group     string
	Type      string
	College   string
	Course    string
	Category  string
	Initial   int
	Remaining int
}

// SeatBalanceHeaders are the seat summary columns, in order
var SeatBalanceHeaders = []string{"grp", "typ", "College", "Course", "category", "SEAT", "Allotted", "Remaining"}

// SeatBalanceDataset builds a dataset with one row per bucket
func SeatBalanceDataset(balances []SeatBalanceRow) Dataset {
	rows := make([]map[string]string, 0, len(balances))
	for _, b := range balances {
		rows = append(rows, map[string]string{
			"grp":       b.Group,
			"typ":       b.Type,
			"College":   b.College,
			"Course":    b.Course,
			"category":  b.Category,
			"SEAT":      strconv.Itoa(b.Initial),
			"Allotted":  strconv.Itoa(b.Initial - b.Remaining),
			"Remaining": strconv.Itoa(b.Remaining),
		})
	}
	return Dataset{Headers: append([]string{}, SeatBalanceHeaders...), Rows: rows}
}
