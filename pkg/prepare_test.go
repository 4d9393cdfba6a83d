package pkg

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"tourprep/pkg/config"
	"tourprep/pkg/io"
	"tourprep/pkg/prep"
)

const testData = `Place ID,Location,Personality Traits,Tourism Category,Travel Motivation,Travelling Concerns,Unused
P01,Ella Rock,Introvert,Nature,Relaxation,"Budget, Family & Kids",
P02,Horton Plains,Introvert,Nature,Adventure,"Budget, Family & Kids",
,Knuckles,Introvert,Nature,,"Budget, Family & Kids",
P04,Adam's Peak,Introvert,Nature,Spiritual,"Budget, Family & Kids",
P05,Galle Fort,Extrovert,Culture,Leisure,Safety,
P06,Kandy Temple,Extrovert,Culture,Spiritual,Safety,
P07,Colombo Museum,Extrovert,Culture,,Safety,
P08,Mirissa,Ambivert,Beach,Leisure,Crowds,
P09,Unawatuna,Ambivert,Beach,Relaxation,Crowds,
,,,,,,
P10,Arugam Bay,Ambivert,Beach,Adventure,Crowds,
`

func testConfig(t *testing.T, data string) config.Config {
	dir := t.TempDir()
	input := filepath.Join(dir, "data.csv")
	require.NoError(t, os.WriteFile(input, []byte(data), 0o644))

	cfg := config.Default()
	cfg.Input = input
	cfg.SplitOutput = filepath.Join(dir, "processed_data.gob")
	cfg.MetadataOutput = filepath.Join(dir, "model_metadata.gob")
	cfg.MetricsFile = filepath.Join(dir, "tourprep.prom")
	return cfg
}

func TestPrepare(t *testing.T) {
	cfg := testConfig(t, testData)

	result, err := Prepare(cfg)
	require.NoError(t, err)

	require.Equal(t, 10, result.Split.Size())
	require.Equal(t, 3, result.Metadata.LocationEncoder.Size())
	require.Equal(t, 3, len(result.Metadata.LocationGroups))
	require.Equal(t, 10, result.Metadata.LocationGroups.Size())
	require.Contains(t, result.Metadata.FeatureColumns, "travelling_concerns_budget_family_and_kids")

	// the empty Unused column and the empty row are dropped, nothing else is
	culture := result.Metadata.LocationGroups["Extrovert|Culture|Safety"]
	require.Equal(t, 3, len(culture))
	require.Equal(t, "Colombo Museum", culture[2].Name)

	nature := result.Metadata.LocationGroups["Introvert|Nature|Budget, Family & Kids"]
	require.Equal(t, 4, len(nature))
	require.Nil(t, nature[2].PlaceID)
	require.Equal(t, "Knuckles", nature[2].Name)

	train, test := result.Split.ClassCounts()
	for label := 0; label < 3; label++ {
		require.GreaterOrEqual(t, train[label], 1)
		require.GreaterOrEqual(t, test[label], 1)
	}

	loaded, err := io.LoadMetadata(cfg.MetadataOutput, io.Gob)
	require.NoError(t, err)
	require.Equal(t, result.Metadata.FeatureColumns, loaded.FeatureColumns)
	require.Equal(t, result.Metadata.LocationGroups, loaded.LocationGroups)

	split, err := io.LoadSplit(cfg.SplitOutput, io.Gob)
	require.NoError(t, err)
	require.Equal(t, result.Split, split)

	prom, err := os.ReadFile(cfg.MetricsFile)
	require.NoError(t, err)
	require.True(t, strings.Contains(string(prom), "tourprep_records 10"))
}

func TestPrepare_Reproducible(t *testing.T) {
	first, err := Prepare(testConfig(t, testData))
	require.NoError(t, err)
	second, err := Prepare(testConfig(t, testData))
	require.NoError(t, err)
	require.Equal(t, first.Split, second.Split)
	require.Equal(t, first.Metadata, second.Metadata)
}

func TestPrepare_InsufficientClass(t *testing.T) {
	data := `Place ID,Location,Personality Traits,Tourism Category,Travel Motivation,Travelling Concerns
1,One,A,B,M,C
2,Two,A,B,M,C
3,Three,A,B,M,C
4,Four,A,B,M,C
5,Five,D,E,M,F
`
	cfg := testConfig(t, data)
	_, err := Prepare(cfg)

	var insufficient *prep.InsufficientDataError
	require.True(t, errors.As(err, &insufficient))
	require.Equal(t, "D|E|F", insufficient.Class)

	for _, path := range []string{cfg.SplitOutput, cfg.MetadataOutput, cfg.MetricsFile} {
		_, err := os.Stat(path)
		require.True(t, os.IsNotExist(err), path)
	}
}

func TestPrepare_MissingColumn(t *testing.T) {
	cfg := testConfig(t, "Place ID,Location,Personality Traits\n1,One,A\n")
	_, err := Prepare(cfg)

	var schemaErr *prep.SchemaError
	require.True(t, errors.As(err, &schemaErr))
	require.Equal(t, prep.ColumnTourismCategory, schemaErr.Column)
	_, err = os.Stat(cfg.MetadataOutput)
	require.True(t, os.IsNotExist(err))
}

func TestInspect(t *testing.T) {
	cfg := testConfig(t, testData)
	cfg.Format = "msgpack"
	_, err := Prepare(cfg)
	require.NoError(t, err)

	metadata, err := Inspect(InspectParameters{MetadataFile: cfg.MetadataOutput, Format: "msgpack", Label: -1})
	require.NoError(t, err)
	require.Equal(t, 3, metadata.LocationEncoder.Size())

	_, err = Inspect(InspectParameters{MetadataFile: cfg.MetadataOutput, Format: "msgpack", Label: 2})
	require.NoError(t, err)
	_, err = Inspect(InspectParameters{MetadataFile: cfg.MetadataOutput, Format: "msgpack", Label: 9})
	require.Error(t, err)

	_, err = Inspect(InspectParameters{MetadataFile: cfg.MetadataOutput, Format: "msgpack", Label: -1, Group: "Ambivert|Beach|Crowds"})
	require.NoError(t, err)
	_, err = Inspect(InspectParameters{MetadataFile: cfg.MetadataOutput, Format: "msgpack", Label: -1, Group: "nope"})
	require.Error(t, err)

	// a msgpack bundle is not readable as gob
	_, err = Inspect(InspectParameters{MetadataFile: cfg.MetadataOutput, Format: "gob", Label: -1})
	require.Error(t, err)
}
