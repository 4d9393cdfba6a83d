package prep

import "tourprep/pkg/model"

// BuildGroupIndex groups the locations of all records by group key, keeping table order.
// Records without a Place ID are kept with a nil identifier.
func BuildGroupIndex(records []CleanedRecord, keys []string) model.GroupIndex {
	index := model.GroupIndex{}
	for i, r := range records {
		index[keys[i]] = append(index[keys[i]], model.Location{Name: r.Location, PlaceID: r.PlaceID})
	}
	return index
}
