package model

import "sort"

// LabelEncoder implements a bidirectional mapping between a group key and its integer label
type LabelEncoder struct {
	NameToIndex map[string]int
	IndexToName map[int]string
}

func (f LabelEncoder) Set(name string, index int) {
	f.NameToIndex[name] = index
	f.IndexToName[index] = name
}

func (f LabelEncoder) Size() int {
	return len(f.IndexToName)
}

// Encode returns the label assigned to name at fit time.
func (f LabelEncoder) Encode(name string) (int, bool) {
	index, ok := f.NameToIndex[name]
	return index, ok
}

// Decode returns the group key a label was assigned to.
func (f LabelEncoder) Decode(index int) (string, bool) {
	name, ok := f.IndexToName[index]
	return name, ok
}

// Classes returns the fitted keys ordered by label.
func (f LabelEncoder) Classes() []string {
	classes := make([]string, f.Size())
	for index, name := range f.IndexToName {
		classes[index] = name
	}
	return classes
}

func NewLabelEncoder() LabelEncoder {
	return LabelEncoder{
		NameToIndex: map[string]int{},
		IndexToName: map[int]string{},
	}
}

// FitLabelEncoder assigns labels 0..k-1 to the distinct keys in lexical order, so the
// same set of keys always yields the same encoder regardless of row order.
func FitLabelEncoder(keys []string) LabelEncoder {
	distinct := make([]string, 0, len(keys))
	seen := map[string]struct{}{}
	for _, key := range keys {
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		distinct = append(distinct, key)
	}
	sort.Strings(distinct)

	encoder := NewLabelEncoder()
	for i, key := range distinct {
		encoder.Set(key, i)
	}
	return encoder
}

// Location is one member of a location group. PlaceID is nil when the source row had no identifier.
type Location struct {
	Name    string
	PlaceID *string
}

// GroupIndex maps a group key to its member locations in table order
type GroupIndex map[string][]Location

// Keys returns the group keys in lexical order.
func (g GroupIndex) Keys() []string {
	keys := make([]string, 0, len(g))
	for key := range g {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Size returns the total number of locations across all groups.
func (g GroupIndex) Size() int {
	size := 0
	for _, locations := range g {
		size += len(locations)
	}
	return size
}

type Metadata struct {
	// LocationEncoder maps group keys to the labels used as training targets
	LocationEncoder LabelEncoder

	// FeatureColumns is the ordered binary feature schema; a scorer must build feature
	// vectors in exactly this order
	FeatureColumns []string

	// LocationGroups lists the locations behind every group key
	LocationGroups GroupIndex
}

func NewMetadata() *Metadata {
	return &Metadata{
		LocationEncoder: NewLabelEncoder(),
		LocationGroups:  GroupIndex{},
	}
}

func (d *Metadata) FeatureCount() int {
	return len(d.FeatureColumns)
}

// Recommend returns the locations of the group a predicted label stands for.
func (d *Metadata) Recommend(label int) (string, []Location, bool) {
	key, ok := d.LocationEncoder.Decode(label)
	if !ok {
		return "", nil, false
	}
	locations, ok := d.LocationGroups[key]
	return key, locations, ok
}
