package pkg

import (
	"github.com/rs/zerolog/log"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"tourprep/pkg/model"
)

const (
	exampleGroups         = 3
	exampleGroupLocations = 3
)

func placeID(l model.Location) string {
	if l.PlaceID == nil {
		return ""
	}
	return *l.PlaceID
}

func logGroup(key string, locations []model.Location, limit int) {
	log.Info().Str("Group", key).Int("Locations", len(locations)).Msg("Location group")
	for i, l := range locations {
		if i == limit {
			break
		}
		log.Info().Str("Name", l.Name).Str("PlaceID", placeID(l)).Msg("")
	}
}

// groupSizes returns the number of locations of every group in key order.
func groupSizes(groups model.GroupIndex) []float64 {
	keys := groups.Keys()
	sizes := make([]float64, len(keys))
	for i, key := range keys {
		sizes[i] = float64(len(groups[key]))
	}
	return sizes
}

func logSummary(r *Result) {
	m := r.Metadata
	log.Info().
		Int("Features", m.FeatureCount()).
		Int("Samples", r.Split.Size()).
		Int("Groups", m.LocationEncoder.Size()).
		Int("Train", len(r.Split.TrainY)).
		Int("Test", len(r.Split.TestY)).
		Msg("Dataset information")

	for i, key := range m.LocationGroups.Keys() {
		if i == exampleGroups {
			break
		}
		logGroup(key, m.LocationGroups[key], exampleGroupLocations)
	}

	log.Debug().Strs("Columns", m.FeatureColumns).Msg("Features used")

	sizes := groupSizes(m.LocationGroups)
	if len(sizes) == 0 {
		return
	}
	log.Info().
		Float64("Mean", stat.Mean(sizes, nil)).
		Float64("Min", floats.Min(sizes)).
		Float64("Max", floats.Max(sizes)).
		Msg("Locations per group")
}
