package export

import (
	"strconv"

	"github.com/jakechorley/seat-allotment/pkg/core/model"
)

// Dataset is tabular export content
type Dataset struct {
	Headers []string
	Rows    []map[string]string
}

// AllotmentHeaders are the result columns, in order
var AllotmentHeaders = []string{
	"RollNo",
	"ARank",
	"CandidateCategory",
	"grp",
	"typ",
	"College",
	"Course",
	"SeatCategoryAllotted",
}

// ExtendedHeaders are appended when an extended export is requested
var ExtendedHeaders = []string{"OPNO", "AllotCode"}

// AllotmentDataset builds a dataset with one row per allotment, in result order
func AllotmentDataset(allotments []model.Allotment, extended bool) Dataset {
	headers := append([]string{}, AllotmentHeaders...)
	if extended {
		headers = append(headers, ExtendedHeaders...)
	}

	rows := make([]map[string]string, 0, len(allotments))
	for _, a := range allotments {
		row := map[string]string{
			"RollNo":               strconv.Itoa(a.RollNo),
			"ARank":                strconv.Itoa(a.Rank),
			"CandidateCategory":    a.CandidateCategory,
			"grp":                  a.Group,
			"typ":                  a.Type,
			"College":              a.College,
			"Course":               a.Course,
			"SeatCategoryAllotted": string(a.SeatCategory),
		}
		if extended {
			row["OPNO"] = strconv.Itoa(a.OptionNo)
			row["AllotCode"] = a.AllotCode
		}
		rows = append(rows, row)
	}

	return Dataset{Headers: headers, Rows: rows}
}

// Records flattens the dataset into header + rows, in column order
func (d Dataset) Records() [][]string {
	records := make([][]string, 0, len(d.Rows)+1)
	records = append(records, append([]string{}, d.Headers...))
	for _, row := range d.Rows {
		record := make([]string, len(d.Headers))
		for i, header := range d.Headers {
			record[i] = row[header]
		}
		records = append(records, record)
	}
	return records
}
