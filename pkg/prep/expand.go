package prep

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gonum.org/v1/gonum/mat"
)

// FeatureAttributes are expanded into indicator columns in this order.
var FeatureAttributes = []string{
	ColumnPersonalityTraits,
	ColumnTourismCategory,
	ColumnTravelMotivation,
	ColumnTravellingConcerns,
}

var columnNameReplacer = strings.NewReplacer(" ", "_", ",", "", "&", "and")

// NormalizeColumnName builds an indicator column name from an attribute and one of its values.
func NormalizeColumnName(attribute, value string) string {
	lower := cases.Lower(language.Und).String(attribute + "_" + value)
	return columnNameReplacer.Replace(lower)
}

// ExpandedRecord is a cleaned record with its group key and indicator features.
type ExpandedRecord struct {
	CleanedRecord
	GroupKey string

	// Features holds one 0/1 value per schema column
	Features []float64
}

// FeatureSet is the output of Expand. Columns is the feature schema and fixes the
// position of every value in ExpandedRecord.Features.
type FeatureSet struct {
	Columns []string
	Records []ExpandedRecord
}

// Dense returns the feature matrix with one row per record.
func (fs FeatureSet) Dense() *mat.Dense {
	if len(fs.Records) == 0 || len(fs.Columns) == 0 {
		return nil
	}
	m := mat.NewDense(len(fs.Records), len(fs.Columns), nil)
	for i, r := range fs.Records {
		m.SetRow(i, r.Features)
	}
	return m
}

type indicator struct {
	attribute string
	value     string
}

// Expand creates one indicator column per distinct attribute value. Values are taken in
// first-seen order within each attribute, attributes in FeatureAttributes order.
func Expand(records []CleanedRecord, keys []string) (FeatureSet, error) {
	if len(keys) != len(records) {
		return FeatureSet{}, &DataError{Stage: StageExpand, Reason: fmt.Sprintf("got %d group keys for %d records", len(keys), len(records))}
	}

	var columns []string
	var indicators []indicator
	owners := map[string]indicator{}

	for _, attribute := range FeatureAttributes {
		seen := map[string]struct{}{}
		for _, r := range records {
			value := r.Attribute(attribute)
			if isMissing(value) {
				continue
			}
			if _, ok := seen[value]; ok {
				continue
			}
			seen[value] = struct{}{}

			name := NormalizeColumnName(attribute, value)
			if owner, ok := owners[name]; ok {
				return FeatureSet{}, &SchemaError{
					Stage:  StageExpand,
					Column: attribute,
					Value:  value,
					Reason: fmt.Sprintf("feature column %q already produced by %s %q", name, owner.attribute, owner.value),
				}
			}
			owners[name] = indicator{attribute: attribute, value: value}
			columns = append(columns, name)
			indicators = append(indicators, indicator{attribute: attribute, value: value})
		}
	}

	expanded := make([]ExpandedRecord, len(records))
	for i, r := range records {
		features := make([]float64, len(indicators))
		for j, ind := range indicators {
			if r.Attribute(ind.attribute) == ind.value {
				features[j] = 1
			}
		}
		expanded[i] = ExpandedRecord{CleanedRecord: r, GroupKey: keys[i], Features: features}
	}
	return FeatureSet{Columns: columns, Records: expanded}, nil
}
