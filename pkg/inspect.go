package pkg

import (
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"tourprep/pkg/io"
	"tourprep/pkg/model"
)

type InspectParameters struct {
	MetadataFile string
	Format       string

	// Group lists the locations of one group key when set
	Group string

	// Label decodes one encoded label when non-negative
	Label int
}

// Inspect loads a metadata bundle and logs its schema, or a single group when asked for one.
func Inspect(p InspectParameters) (*model.Metadata, error) {
	codec, err := io.ParseCodec(p.Format)
	if err != nil {
		return nil, err
	}
	metadata, err := io.LoadMetadata(p.MetadataFile, codec)
	if err != nil {
		return nil, err
	}

	switch {
	case p.Label >= 0:
		key, locations, ok := metadata.Recommend(p.Label)
		if !ok {
			return nil, errors.Errorf("label %d is not known to the encoder in %s", p.Label, p.MetadataFile)
		}
		log.Info().Int("Label", p.Label).Msg("Decoded label")
		logGroup(key, locations, len(locations))
	case p.Group != "":
		locations, ok := metadata.LocationGroups[p.Group]
		if !ok {
			return nil, errors.Errorf("group %q not found in %s", p.Group, p.MetadataFile)
		}
		label, _ := metadata.LocationEncoder.Encode(p.Group)
		log.Info().Int("Label", label).Msg("Encoded group")
		logGroup(p.Group, locations, len(locations))
	default:
		log.Info().
			Int("Features", metadata.FeatureCount()).
			Int("Groups", metadata.LocationEncoder.Size()).
			Int("Locations", metadata.LocationGroups.Size()).
			Msg("Metadata")
		for i, column := range metadata.FeatureColumns {
			log.Info().Int("Index", i).Str("Column", column).Msg("")
		}
		for _, key := range metadata.LocationEncoder.Classes() {
			label, _ := metadata.LocationEncoder.Encode(key)
			log.Info().Int("Label", label).Str("Group", key).Int("Locations", len(metadata.LocationGroups[key])).Msg("")
		}
	}
	return metadata, nil
}
