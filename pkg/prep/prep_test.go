package prep

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

var testHeader = []string{"Place ID", "Location", "Personality Traits", "Tourism Category", "Travel Motivation", "Travelling Concerns", "Notes"}

func testTable() RawTable {
	return RawTable{
		Header: testHeader,
		Rows: [][]string{
			{"P1", "Ella", "Introvert", "Nature", "Relaxation", "Budget, Family & Kids", ""},
			{"", "Kandy", "Introvert", "Nature", "", "Budget, Family & Kids", ""},
			{"", "", "", "", "", "", ""},
			{"P3", "Galle", "Extrovert", "Beach", "Adventure", "Safety", ""},
			{"P4", "Mirissa", "Extrovert", "Beach", "", "", ""},
		},
	}
}

func TestClean(t *testing.T) {
	records, err := Clean(testTable())
	require.NoError(t, err)
	require.Equal(t, 4, len(records))

	// the all-empty row is gone and positions are renumbered
	names := make([]string, len(records))
	for i, r := range records {
		require.Equal(t, i, r.Row)
		names[i] = r.Location
	}
	require.Equal(t, []string{"Ella", "Kandy", "Galle", "Mirissa"}, names)

	// Place ID is never filled
	require.NotNil(t, records[0].PlaceID)
	require.Equal(t, "P1", *records[0].PlaceID)
	require.Nil(t, records[1].PlaceID)

	// Travel Motivation ties 1-1 between "Relaxation" and "Adventure"; the smaller value wins
	require.Equal(t, "Adventure", records[1].TravelMotivation)
	require.Equal(t, "Adventure", records[3].TravelMotivation)
	// "Budget, Family & Kids" is the most frequent concern
	require.Equal(t, "Budget, Family & Kids", records[3].TravellingConcerns)
}

func TestClean_NoRows(t *testing.T) {
	_, err := Clean(RawTable{Header: testHeader, Rows: [][]string{{"", " ", "", "", "", "", ""}}})
	var dataErr *DataError
	require.True(t, errors.As(err, &dataErr))
	require.Equal(t, StageClean, dataErr.Stage)
}

func TestClean_MissingColumn(t *testing.T) {
	table := testTable()
	table.Header = append([]string{}, testHeader...)
	table.Header[4] = "Motivation"
	_, err := Clean(table)
	var schemaErr *SchemaError
	require.True(t, errors.As(err, &schemaErr))
	require.Equal(t, ColumnTravelMotivation, schemaErr.Column)
}

func TestClean_EmptyRequiredColumn(t *testing.T) {
	table := testTable()
	for _, row := range table.Rows {
		row[0] = ""
	}
	_, err := Clean(table)
	var schemaErr *SchemaError
	require.True(t, errors.As(err, &schemaErr))
	require.Equal(t, ColumnPlaceID, schemaErr.Column)
}

func TestGroupKeyOf(t *testing.T) {
	r := CleanedRecord{PersonalityTraits: "A", TourismCategory: "B", TravelMotivation: "X", TravellingConcerns: "C"}
	require.Equal(t, "A|B|C", GroupKeyOf(r))
	require.Equal(t, GroupKeyOf(r), GroupKeyOf(r))

	r.TravelMotivation = "Y"
	require.Equal(t, "A|B|C", GroupKeyOf(r))
}

func TestBuildGroupKeys_SeparatorInValue(t *testing.T) {
	_, err := BuildGroupKeys([]CleanedRecord{{PersonalityTraits: "A", TourismCategory: "B|C", TravellingConcerns: "D"}})
	var schemaErr *SchemaError
	require.True(t, errors.As(err, &schemaErr))
	require.Equal(t, StageGroupKey, schemaErr.Stage)
	require.Equal(t, ColumnTourismCategory, schemaErr.Column)
}

func TestNormalizeColumnName(t *testing.T) {
	require.Equal(t, "travelling_concerns_budget_family_and_kids", NormalizeColumnName("Travelling Concerns", "Budget, Family & Kids"))
	require.Equal(t, "tourism_category_nature", NormalizeColumnName("Tourism Category", "Nature"))
}

func expandTestTable(t *testing.T) FeatureSet {
	records, err := Clean(testTable())
	require.NoError(t, err)
	keys, err := BuildGroupKeys(records)
	require.NoError(t, err)
	fs, err := Expand(records, keys)
	require.NoError(t, err)
	return fs
}

func TestExpand(t *testing.T) {
	fs := expandTestTable(t)

	require.Equal(t, []string{
		"personality_traits_introvert",
		"personality_traits_extrovert",
		"tourism_category_nature",
		"tourism_category_beach",
		"travel_motivation_relaxation",
		"travel_motivation_adventure",
		"travelling_concerns_budget_family_and_kids",
		"travelling_concerns_safety",
	}, fs.Columns)

	require.Equal(t, []float64{1, 0, 1, 0, 1, 0, 1, 0}, fs.Records[0].Features)
	require.Equal(t, []float64{0, 1, 0, 1, 0, 1, 0, 1}, fs.Records[2].Features)
	require.Equal(t, "Introvert|Nature|Budget, Family & Kids", fs.Records[0].GroupKey)

	seen := map[string]bool{}
	for _, c := range fs.Columns {
		require.False(t, seen[c], "duplicate column %s", c)
		seen[c] = true
	}
	for _, r := range fs.Records {
		require.Equal(t, len(fs.Columns), len(r.Features))
		for _, v := range r.Features {
			require.True(t, v == 0 || v == 1)
		}
	}

	m := fs.Dense()
	rows, cols := m.Dims()
	require.Equal(t, 4, rows)
	require.Equal(t, 8, cols)
	require.Equal(t, 1.0, m.At(3, 6))
	require.Equal(t, 0.0, m.At(3, 7))
}

func TestExpand_Deterministic(t *testing.T) {
	a := expandTestTable(t)
	b := expandTestTable(t)
	require.Equal(t, a.Columns, b.Columns)
	require.Equal(t, a.Records, b.Records)
}

func TestExpand_Collision(t *testing.T) {
	records := []CleanedRecord{
		{PersonalityTraits: "A", TourismCategory: "B", TravelMotivation: "M", TravellingConcerns: "Family & Kids"},
		{PersonalityTraits: "A", TourismCategory: "B", TravelMotivation: "M", TravellingConcerns: "family and kids"},
	}
	keys, err := BuildGroupKeys(records)
	require.NoError(t, err)
	_, err = Expand(records, keys)
	var schemaErr *SchemaError
	require.True(t, errors.As(err, &schemaErr))
	require.Equal(t, StageExpand, schemaErr.Stage)
	require.Equal(t, "family and kids", schemaErr.Value)
}

func TestEncode(t *testing.T) {
	fs := expandTestTable(t)
	encoder, encoded, err := Encode(fs)
	require.NoError(t, err)
	require.Equal(t, 3, encoder.Size())

	for _, r := range encoded {
		key, ok := encoder.Decode(r.Label)
		require.True(t, ok)
		require.Equal(t, r.GroupKey, key)
	}
	require.Equal(t, []string{
		"Extrovert|Beach|Budget, Family & Kids",
		"Extrovert|Beach|Safety",
		"Introvert|Nature|Budget, Family & Kids",
	}, encoder.Classes())
	require.Equal(t, []int{2, 2, 1, 0}, []int{encoded[0].Label, encoded[1].Label, encoded[2].Label, encoded[3].Label})
}

func TestBuildGroupIndex(t *testing.T) {
	records, err := Clean(testTable())
	require.NoError(t, err)
	keys, err := BuildGroupKeys(records)
	require.NoError(t, err)

	index := BuildGroupIndex(records, keys)
	require.Equal(t, 3, len(index))
	require.Equal(t, 4, index.Size())

	nature := index["Introvert|Nature|Budget, Family & Kids"]
	require.Equal(t, 2, len(nature))
	require.Equal(t, "Ella", nature[0].Name)
	require.Equal(t, "P1", *nature[0].PlaceID)
	require.Equal(t, "Kandy", nature[1].Name)
	require.Nil(t, nature[1].PlaceID)

	for _, locations := range index {
		for _, l := range locations {
			require.NotEmpty(t, l.Name)
		}
	}
}
