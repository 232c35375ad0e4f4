package trends

import (
	"errors"
	"fmt"
)

// ErrEmptyPlayerID is returned when a record has no player id.
var ErrEmptyPlayerID = errors.New("record has empty player id")

// ErrNoSnapshot is returned when a view is requested before any successful refresh.
var ErrNoSnapshot = errors.New("no trend snapshot loaded")

// DataFetchError reports a failed or malformed read from a trend data source.
type DataFetchError struct {
	Source string
	Op     string
	Err    error
}

func (e *DataFetchError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Source, e.Op, e.Err)
}

func (e *DataFetchError) Unwrap() error { return e.Err }

// NewDataFetchError wraps err unless it already is a DataFetchError.
func NewDataFetchError(source, op string, err error) error {
	if err == nil {
		return nil
	}
	var fe *DataFetchError
	if errors.As(err, &fe) {
		return err
	}
	return &DataFetchError{Source: source, Op: op, Err: err}
}

// InvalidCriteriaError reports a filter or sort option that is not recognized
// or has an unusable value.
type InvalidCriteriaError struct {
	Key    string
	Value  string
	Reason string
}

func (e *InvalidCriteriaError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("invalid criteria %q: %s", e.Key, e.Reason)
	}
	return fmt.Sprintf("invalid criteria %q=%q: %s", e.Key, e.Value, e.Reason)
}

func invalid(key, value, reason string) error {
	return &InvalidCriteriaError{Key: key, Value: value, Reason: reason}
}
