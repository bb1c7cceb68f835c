package core

import (
	"errors"
	"fmt"
)

var (
	// ErrLimitExceeded is returned when a bulk request carries more drafts than
	// the committer accepts. Nothing is written when it is returned.
	ErrLimitExceeded = errors.New("bulk limit exceeded")

	// ErrUnsupportedFormat is returned for an import format other than csv, json or xml.
	ErrUnsupportedFormat = errors.New("unsupported import format")

	// ErrImportNotFound is returned when a cached import preview has expired
	// or belongs to another owner.
	ErrImportNotFound = errors.New("import not found")

	// ErrInvalidRecurrence is returned by RecurrenceRule.Validate.
	ErrInvalidRecurrence = errors.New("invalid recurrence rule")

	// ErrCommitDeadline is the reason recorded for drafts that were not
	// attempted because the commit context expired.
	ErrCommitDeadline = errors.New("commit deadline exceeded")

	// ErrFileTooLarge is returned when an upload exceeds the configured size.
	ErrFileTooLarge = errors.New("file too large")

	// ErrEmptyFile is returned for an upload with no content.
	ErrEmptyFile = errors.New("empty file")
)

// ParseError reports that raw input could not be interpreted as the declared
// format at all. No rows are returned alongside it.
type ParseError struct {
	Format Format
	Reason string
	Err    error
}

func (e *ParseError) Error() string {
	msg := fmt.Sprintf("parse %s: %s", e.Format, e.Reason)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

func parseErrorf(format Format, err error, reason string, args ...any) *ParseError {
	return &ParseError{Format: format, Reason: fmt.Sprintf(reason, args...), Err: err}
}

// DateError reports a timestamp value that could not be parsed.
type DateError struct {
	Value string
}

func (e *DateError) Error() string {
	return fmt.Sprintf("invalid date %q", e.Value)
}

// LimitError carries the size of a rejected bulk request.
type LimitError struct {
	Count int
	Max   int
}

func (e *LimitError) Error() string {
	return fmt.Sprintf("bulk limit exceeded: %d sessions requested, at most %d allowed", e.Count, e.Max)
}

func (e *LimitError) Unwrap() error {
	return ErrLimitExceeded
}
