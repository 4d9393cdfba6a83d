package pkg

import (
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"tourprep/pkg/config"
	"tourprep/pkg/io"
	"tourprep/pkg/metrics"
	"tourprep/pkg/model"
	"tourprep/pkg/prep"
)

// Result holds the artifacts of a successful run.
type Result struct {
	Split    *model.Split
	Metadata *model.Metadata
}

// Prepare runs the whole pipeline over cfg.Input and writes the split and metadata
// artifacts. Any stage failure aborts the run before anything is written.
func Prepare(cfg config.Config) (*Result, error) {
	codec, err := io.ParseCodec(cfg.Format)
	if err != nil {
		return nil, err
	}
	run := metrics.NewRun()

	start := time.Now()
	table, err := io.LoadTable(io.DataParameters{DataFile: cfg.Input, Delimiter: cfg.DelimiterRune()})
	if err != nil {
		return nil, errors.Wrapf(err, "error reading data from %s", cfg.Input)
	}
	run.Stage(string(prep.StageLoad), start)

	start = time.Now()
	records, err := prep.Clean(table)
	if err != nil {
		return nil, err
	}
	run.Stage(string(prep.StageClean), start)
	log.Debug().Int("Records", len(records)).Msg("Cleaned table")

	start = time.Now()
	keys, err := prep.BuildGroupKeys(records)
	if err != nil {
		return nil, err
	}
	run.Stage(string(prep.StageGroupKey), start)

	start = time.Now()
	features, err := prep.Expand(records, keys)
	if err != nil {
		return nil, err
	}
	run.Stage(string(prep.StageExpand), start)
	log.Debug().Int("Features", len(features.Columns)).Msg("Expanded binary features")

	start = time.Now()
	encoder, encoded, err := prep.Encode(features)
	if err != nil {
		return nil, err
	}
	run.Stage(string(prep.StageEncode), start)

	start = time.Now()
	split, err := io.StratifiedSplit(encoded, features.Columns, io.SplitParameters{TestFraction: cfg.TestFraction, RndSeed: cfg.Seed})
	if err != nil {
		return nil, err
	}
	run.Stage(string(prep.StageSplit), start)

	metadata := &model.Metadata{
		LocationEncoder: encoder,
		FeatureColumns:  features.Columns,
		LocationGroups:  prep.BuildGroupIndex(records, keys),
	}

	start = time.Now()
	if err := io.SaveArtifacts(cfg.SplitOutput, cfg.MetadataOutput, codec, split, metadata); err != nil {
		return nil, errors.Wrapf(err, "%s", prep.StagePersist)
	}
	run.Stage(string(prep.StagePersist), start)
	log.Info().Str("Split", cfg.SplitOutput).Str("Metadata", cfg.MetadataOutput).Str("Format", string(codec)).Msg("Saved artifacts")

	run.Records.Set(float64(len(records)))
	run.Features.Set(float64(len(features.Columns)))
	run.Groups.Set(float64(encoder.Size()))
	run.Split.WithLabelValues("train").Set(float64(len(split.TrainY)))
	run.Split.WithLabelValues("test").Set(float64(len(split.TestY)))
	if cfg.MetricsFile != "" {
		if err := run.WriteTextfile(cfg.MetricsFile); err != nil {
			log.Error().Err(err).Str("File", cfg.MetricsFile).Msg("Error writing metrics")
		}
	}

	result := &Result{Split: split, Metadata: metadata}
	logSummary(result)
	return result, nil
}
