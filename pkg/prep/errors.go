package prep

import "fmt"

// Stage names the pipeline step an error was raised in.
type Stage string

const (
	StageLoad     Stage = "load"
	StageClean    Stage = "clean"
	StageGroupKey Stage = "group-key"
	StageExpand   Stage = "expand"
	StageEncode   Stage = "encode"
	StageSplit    Stage = "split"
	StagePersist  Stage = "persist"
)

// DataError reports structurally invalid or empty input.
type DataError struct {
	Stage  Stage
	Reason string
}

func (e *DataError) Error() string {
	return fmt.Sprintf("%s: data error: %s", e.Stage, e.Reason)
}

// SchemaError reports a missing required column or two values colliding on one feature column.
type SchemaError struct {
	Stage  Stage
	Column string
	Value  string
	Reason string
}

func (e *SchemaError) Error() string {
	if e.Value != "" {
		return fmt.Sprintf("%s: schema error in column %q, value %q: %s", e.Stage, e.Column, e.Value, e.Reason)
	}
	return fmt.Sprintf("%s: schema error in column %q: %s", e.Stage, e.Column, e.Reason)
}

// InsufficientDataError reports a class too small to appear in both train and test subsets.
type InsufficientDataError struct {
	Stage Stage
	Class string
	Count int
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("%s: class %q has %d member(s), at least 2 are required for a stratified split", e.Stage, e.Class, e.Count)
}
