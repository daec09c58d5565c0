package model

import (
	"errors"
	"fmt"
)

var (
	ErrMissingColumn = errors.New("missing column")
	ErrEmptyJoin     = errors.New("empty join result")
	ErrSourceLoad    = errors.New("source load failed")
)

// MissingColumnError reports a required column absent from a source table.
type MissingColumnError struct {
	Source string
	Column string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("%s: column %q not found", e.Source, e.Column)
}

func (e *MissingColumnError) Is(target error) bool { return target == ErrMissingColumn }

// RequireColumns returns a MissingColumnError for the first absent column.
func RequireColumns(source string, has func(string) bool, cols ...string) error {
	for _, c := range cols {
		if !has(c) {
			return &MissingColumnError{Source: source, Column: c}
		}
	}
	return nil
}

// SourceLoadError is the only error that aborts a run.
type SourceLoadError struct {
	Source string
	Path   string
	Err    error
}

func (e *SourceLoadError) Error() string {
	return fmt.Sprintf("load %s source from %s: %v", e.Source, e.Path, e.Err)
}

func (e *SourceLoadError) Unwrap() error { return e.Err }

func (e *SourceLoadError) Is(target error) bool { return target == ErrSourceLoad }
