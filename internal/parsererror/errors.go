// Package parsererror defines the typed errors raised while turning statement
// content into transactions. Per-line errors (NoMatch, InvalidDate,
// InvalidAmount) are recovered by the pipeline; InvalidFormatError is the
// only structural failure that reaches callers.
package parsererror

import (
	"errors"
	"fmt"
)

// Sentinels for errors.Is checks.
var (
	ErrNoMatch       = errors.New("no match")
	ErrInvalidDate   = errors.New("invalid date")
	ErrInvalidAmount = errors.New("invalid amount")
	ErrInvalidFormat = errors.New("invalid format")
)

// NoMatchError is returned by a field extraction strategy that cannot locate
// both a date and an amount in its input.
type NoMatchError struct {
	Mode    string
	Missing string
	Raw     string
}

func (e *NoMatchError) Error() string {
	return fmt.Sprintf("%s extraction: no %s found in %q", e.Mode, e.Missing, snippet(e.Raw))
}

func (e *NoMatchError) Unwrap() error { return ErrNoMatch }

// InvalidDateError means no accepted date format parsed the value.
type InvalidDateError struct {
	Value string
}

func (e *InvalidDateError) Error() string {
	return fmt.Sprintf("invalid date %q: no accepted format matches", e.Value)
}

func (e *InvalidDateError) Unwrap() error { return ErrInvalidDate }

// InvalidAmountError means the amount failed to parse or was zero.
type InvalidAmountError struct {
	Value  string
	Reason string
}

func (e *InvalidAmountError) Error() string {
	return fmt.Sprintf("invalid amount %q: %s", e.Value, e.Reason)
}

func (e *InvalidAmountError) Unwrap() error { return ErrInvalidAmount }

// ParseError represents a loader failing to read a field of its input.
type ParseError struct {
	Parser string
	Field  string
	Value  string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: failed to parse %s='%s': %v",
		e.Parser, e.Field, e.Value, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// InvalidFormatError represents input that is not a valid page-unit sequence
// at all, or a file a loader cannot read in its expected format.
type InvalidFormatError struct {
	FilePath             string
	ExpectedFormat       string
	ActualContentSnippet string
	Msg                  string
}

func (e *InvalidFormatError) Error() string {
	if e.ActualContentSnippet != "" {
		return fmt.Sprintf("invalid format in '%s': %s. Expected: %s. Content snippet: '%s'",
			e.FilePath, e.Msg, e.ExpectedFormat, e.ActualContentSnippet)
	}
	return fmt.Sprintf("invalid format in '%s': %s. Expected: %s",
		e.FilePath, e.Msg, e.ExpectedFormat)
}

func (e *InvalidFormatError) Unwrap() error { return ErrInvalidFormat }

// Reason maps a per-line error to the short label used in skip statistics
// and log fields.
func Reason(err error) string {
	switch {
	case errors.Is(err, ErrNoMatch):
		return "no_match"
	case errors.Is(err, ErrInvalidDate):
		return "invalid_date"
	case errors.Is(err, ErrInvalidAmount):
		return "invalid_amount"
	case err == nil:
		return ""
	default:
		return "other"
	}
}

func snippet(s string) string {
	const max = 80
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max]) + "..."
}
