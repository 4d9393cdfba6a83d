package prep

import (
	"sort"
	"strings"

	"github.com/rs/zerolog/log"
)

// Column names of the input table
const (
	ColumnPlaceID            = "Place ID"
	ColumnLocation           = "Location"
	ColumnPersonalityTraits  = "Personality Traits"
	ColumnTourismCategory    = "Tourism Category"
	ColumnTravelMotivation   = "Travel Motivation"
	ColumnTravellingConcerns = "Travelling Concerns"
)

// RequiredColumns must be present in the cleaned table.
var RequiredColumns = []string{
	ColumnPlaceID,
	ColumnLocation,
	ColumnPersonalityTraits,
	ColumnTourismCategory,
	ColumnTravelMotivation,
	ColumnTravellingConcerns,
}

// RawTable is the input as read from disk. A cell is missing when it is blank.
type RawTable struct {
	Header []string
	Rows   [][]string
}

// CleanedRecord is one row of the cleaned table.
type CleanedRecord struct {
	// Row is the position of the record in the cleaned table
	Row int

	// PlaceID is nil when the source cell was missing; it is never filled
	PlaceID *string

	Location           string
	PersonalityTraits  string
	TourismCategory    string
	TravelMotivation   string
	TravellingConcerns string
}

// Attribute returns the value of one of the four categorical attribute columns.
func (r CleanedRecord) Attribute(column string) string {
	switch column {
	case ColumnPersonalityTraits:
		return r.PersonalityTraits
	case ColumnTourismCategory:
		return r.TourismCategory
	case ColumnTravelMotivation:
		return r.TravelMotivation
	case ColumnTravellingConcerns:
		return r.TravellingConcerns
	}
	return ""
}

func isMissing(cell string) bool {
	return strings.TrimSpace(cell) == ""
}

// Clean drops empty rows and columns, fills missing cells with the column mode (except
// for the Place ID column) and maps the result to typed records.
func Clean(table RawTable) ([]CleanedRecord, error) {
	rows := make([][]string, 0, len(table.Rows))
	for _, row := range table.Rows {
		if !rowEmpty(row) {
			rows = append(rows, row)
		}
	}
	if dropped := len(table.Rows) - len(rows); dropped > 0 {
		log.Debug().Int("Rows", dropped).Msg("Dropped empty rows")
	}
	if len(rows) == 0 {
		return nil, &DataError{Stage: StageClean, Reason: "no non-empty rows in input"}
	}

	columns := map[string]int{}
	for i, name := range table.Header {
		if columnEmpty(rows, i) {
			log.Debug().Str("Column", name).Msg("Dropped empty column")
			continue
		}
		if _, ok := columns[name]; !ok {
			columns[name] = i
		}
	}
	for _, name := range RequiredColumns {
		if _, ok := columns[name]; !ok {
			return nil, &SchemaError{Stage: StageClean, Column: name, Reason: "required column is missing or empty"}
		}
	}

	modes := map[string]string{}
	for name, i := range columns {
		if name == ColumnPlaceID {
			continue
		}
		modes[name] = columnMode(rows, i)
	}

	value := func(row []string, name string) string {
		i := columns[name]
		if i >= len(row) || isMissing(row[i]) {
			return modes[name]
		}
		return strings.TrimSpace(row[i])
	}

	records := make([]CleanedRecord, len(rows))
	for r, row := range rows {
		records[r] = CleanedRecord{
			Row:                r,
			Location:           value(row, ColumnLocation),
			PersonalityTraits:  value(row, ColumnPersonalityTraits),
			TourismCategory:    value(row, ColumnTourismCategory),
			TravelMotivation:   value(row, ColumnTravelMotivation),
			TravellingConcerns: value(row, ColumnTravellingConcerns),
		}
		if i := columns[ColumnPlaceID]; i < len(row) && !isMissing(row[i]) {
			id := row[i]
			records[r].PlaceID = &id
		}
	}
	return records, nil
}

func rowEmpty(row []string) bool {
	for _, cell := range row {
		if !isMissing(cell) {
			return false
		}
	}
	return true
}

func columnEmpty(rows [][]string, column int) bool {
	for _, row := range rows {
		if column < len(row) && !isMissing(row[column]) {
			return false
		}
	}
	return true
}

// columnMode returns the most frequent non-missing value of a column. Ties go to the
// lexically smallest value.
func columnMode(rows [][]string, column int) string {
	counts := map[string]int{}
	for _, row := range rows {
		if column < len(row) && !isMissing(row[column]) {
			counts[strings.TrimSpace(row[column])]++
		}
	}
	values := make([]string, 0, len(counts))
	for v := range counts {
		values = append(values, v)
	}
	sort.Strings(values)

	mode, best := "", 0
	for _, v := range values {
		if counts[v] > best {
			mode, best = v, counts[v]
		}
	}
	return mode
}
