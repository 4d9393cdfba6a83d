package prep

import (
	"tourprep/pkg/model"
)

// EncodedRecord is an expanded record with its integer target label.
type EncodedRecord struct {
	ExpandedRecord
	Label int
}

// Encode fits a label encoder over the group keys of fs and labels every record.
func Encode(fs FeatureSet) (model.LabelEncoder, []EncodedRecord, error) {
	keys := make([]string, len(fs.Records))
	for i, r := range fs.Records {
		keys[i] = r.GroupKey
	}
	encoder := model.FitLabelEncoder(keys)

	encoded := make([]EncodedRecord, len(fs.Records))
	for i, r := range fs.Records {
		label, ok := encoder.Encode(r.GroupKey)
		if !ok {
			return model.LabelEncoder{}, nil, &DataError{Stage: StageEncode, Reason: "group key " + r.GroupKey + " missing from fitted encoder"}
		}
		encoded[i] = EncodedRecord{ExpandedRecord: r, Label: label}
	}
	return encoder, encoded, nil
}
