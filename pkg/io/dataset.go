package io

import (
	"fmt"
	"math"
	"sort"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"

	"tourprep/pkg/model"
	"tourprep/pkg/prep"
)

type SplitParameters struct {
	TestFraction float64
	RndSeed      uint64
}

// DefaultSplitParameters holds the 80/20 split with the fixed seed used for reproducible runs.
var DefaultSplitParameters = SplitParameters{TestFraction: 0.2, RndSeed: 42}

// StratifiedSplit partitions records into train and test subsets preserving the share of
// every label. Each class contributes round(TestFraction*n) records to the test subset,
// at least one and at most n-1, chosen by a permutation seeded with RndSeed. Both
// subsets keep the order of the input records.
func StratifiedSplit(records []prep.EncodedRecord, columns []string, p SplitParameters) (*model.Split, error) {
	if p.TestFraction <= 0 || p.TestFraction >= 1 {
		return nil, &prep.DataError{Stage: prep.StageSplit, Reason: fmt.Sprintf("test fraction %.3f must be between 0 and 1", p.TestFraction)}
	}
	if len(records) == 0 {
		return nil, &prep.DataError{Stage: prep.StageSplit, Reason: "no records to split"}
	}

	classIndices := map[int][]int{}
	for i, r := range records {
		classIndices[r.Label] = append(classIndices[r.Label], i)
	}
	labels := make([]int, 0, len(classIndices))
	for label := range classIndices {
		labels = append(labels, label)
	}
	sort.Ints(labels)

	for _, label := range labels {
		if n := len(classIndices[label]); n < 2 {
			return nil, &prep.InsufficientDataError{Stage: prep.StageSplit, Class: records[classIndices[label][0]].GroupKey, Count: n}
		}
	}

	rnd := rand.New(rand.NewSource(p.RndSeed))
	inTest := make([]bool, len(records))
	for _, label := range labels {
		indices := classIndices[label]
		testSize := classTestSize(len(indices), p.TestFraction)
		perm := rnd.Perm(len(indices))
		for _, j := range perm[:testSize] {
			inTest[indices[j]] = true
		}
	}

	split := &model.Split{Columns: columns}
	for i, r := range records {
		if inTest[i] {
			split.TestX = append(split.TestX, r.Features)
			split.TestY = append(split.TestY, r.Label)
			split.TestRows = append(split.TestRows, r.Row)
		} else {
			split.TrainX = append(split.TrainX, r.Features)
			split.TrainY = append(split.TrainY, r.Label)
			split.TrainRows = append(split.TrainRows, r.Row)
		}
	}
	log.Debug().Int("Train", len(split.TrainY)).Int("Test", len(split.TestY)).Int("Classes", len(labels)).Msg("Split records")
	return split, nil
}

func classTestSize(n int, testFraction float64) int {
	size := int(math.Round(testFraction * float64(n)))
	if size < 1 {
		size = 1
	}
	if size > n-1 {
		size = n - 1
	}
	return size
}
