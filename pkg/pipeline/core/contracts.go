package core

import (
	"context"
	"strconv"
	"strings"
)

// WorkItem is one (entity, attribute) pair to query.
type WorkItem struct {
	Entity    string
	Attribute string
}

// AttributeType is the shape the vendor API uses to represent an attribute.
type AttributeType int

const (
	// Simple attributes carry a flat "values" list.
	Simple AttributeType = iota
	// NonSimple attributes carry a "group" list of sub-records.
	NonSimple
)

func (t AttributeType) String() string {
	switch t {
	case NonSimple:
		return "Non-Simple"
	default:
		return "Simple"
	}
}

// ParseAttributeType is the inverse of AttributeType.String. Unrecognized input is Simple.
func ParseAttributeType(raw string) AttributeType {
	s := strings.ToLower(strings.TrimSpace(raw))
	s = strings.ReplaceAll(s, "-", "")
	s = strings.ReplaceAll(s, " ", "")
	if s == "nonsimple" {
		return NonSimple
	}
	return Simple
}

// QueryResult is the normalized outcome of querying one WorkItem.
//
// Count and Error are mutually exclusive in rendered output: a non-empty Error
// replaces the count cell.
type QueryResult struct {
	Entity    string
	Attribute string
	Type      AttributeType
	Count     int
	Error     string
	Sample    string
}

// Failed reports whether the query did not produce a usable count.
func (r QueryResult) Failed() bool {
	return r.Error != ""
}

// CountCell renders the count column: the integer count, or the error string.
func (r QueryResult) CountCell() string {
	if r.Failed() {
		return r.Error
	}
	return strconv.Itoa(r.Count)
}

// Processor transforms one input item into one output item.
type Processor[In any, Out any] interface {
	Process(ctx context.Context, in In) (Out, error)
}

// ProcessFunc adapts a function to the Processor interface.
type ProcessFunc[In any, Out any] func(ctx context.Context, in In) (Out, error)

func (f ProcessFunc[In, Out]) Process(ctx context.Context, in In) (Out, error) {
	return f(ctx, in)
}

// ConfigError marks a failure that must stop the run before any network call:
// missing required settings or an upload with the wrong shape.
type ConfigError struct {
	Err error
}

func (e *ConfigError) Error() string {
	if e == nil || e.Err == nil {
		return "configuration error"
	}
	return "configuration error: " + e.Err.Error()
}

func (e *ConfigError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// NewConfigError wraps err as a ConfigError. A nil err yields nil.
func NewConfigError(err error) error {
	if err == nil {
		return nil
	}
	return &ConfigError{Err: err}
}
