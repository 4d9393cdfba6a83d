package prep

import "strings"

// GroupKeySeparator joins the three attributes of a group key. Attribute values may not contain it.
const GroupKeySeparator = "|"

// GroupKeyOf returns the group key of a record.
func GroupKeyOf(r CleanedRecord) string {
	return r.PersonalityTraits + GroupKeySeparator + r.TourismCategory + GroupKeySeparator + r.TravellingConcerns
}

// BuildGroupKeys returns the group key of every record, in record order.
func BuildGroupKeys(records []CleanedRecord) ([]string, error) {
	keys := make([]string, len(records))
	for i, r := range records {
		for _, column := range []string{ColumnPersonalityTraits, ColumnTourismCategory, ColumnTravellingConcerns} {
			if v := r.Attribute(column); strings.Contains(v, GroupKeySeparator) {
				return nil, &SchemaError{Stage: StageGroupKey, Column: column, Value: v, Reason: "value contains the group key separator " + GroupKeySeparator}
			}
		}
		keys[i] = GroupKeyOf(r)
	}
	return keys, nil
}
