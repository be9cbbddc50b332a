package leapsec

import (
	"errors"
	"fmt"

	"github.com/roach88/gpstime/internal/calendar"
)

// Error codes for leap-second table problems.
const (
	// ErrCodeMalformedTable indicates the resource could not be used at all.
	ErrCodeMalformedTable = "MALFORMED_TABLE"

	// ErrCodeExtrapolated marks a lookup outside the table's date range.
	ErrCodeExtrapolated = "EXTRAPOLATED"
)

// MalformedTableError reports an unparseable, empty or non-monotonic
// leap-second resource. No partial table is ever returned alongside it.
type MalformedTableError struct {
	// Source names the resource (file path or "bundled").
	Source string

	// Line is the 1-based line number, or 0 when the problem is not tied
	// to a single line (e.g. an empty table).
	Line int

	// Text is the offending line, trimmed.
	Text string

	// Reason describes what was wrong.
	Reason string
}

// Error implements the error interface.
func (e *MalformedTableError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s: %s:%d: %s (%q)", ErrCodeMalformedTable, e.Source, e.Line, e.Reason, e.Text)
	}
	return fmt.Sprintf("%s: %s: %s", ErrCodeMalformedTable, e.Source, e.Reason)
}

// IsMalformedTable reports whether err is, or wraps, a *MalformedTableError.
func IsMalformedTable(err error) bool {
	var me *MalformedTableError
	return errors.As(err, &me)
}

// ExtrapolationWarning is a non-fatal signal that a lookup fell outside the
// dates covered by the table. The offset that came with it is the nearest
// known value, not an observed one.
type ExtrapolationWarning struct {
	// Query is the instant that was looked up.
	Query calendar.Instant

	// Boundary is the effective date of the entry whose offset was used.
	Boundary calendar.Instant

	// Offset is the extrapolated GPS-UTC value in seconds.
	Offset int

	// BeforeFirst is true when Query precedes the first entry and false
	// when it follows the last one.
	BeforeFirst bool
}

// Error implements the error interface so the warning can be logged or
// wrapped like any other diagnostic.
func (w *ExtrapolationWarning) Error() string {
	if w.BeforeFirst {
		return fmt.Sprintf("%s: %s is before the first leap-second entry (%s), using GPS-UTC = %d s",
			ErrCodeExtrapolated, w.Query, w.Boundary, w.Offset)
	}
	return fmt.Sprintf("%s: %s is beyond the last leap-second entry (%s), using GPS-UTC = %d s",
		ErrCodeExtrapolated, w.Query, w.Boundary, w.Offset)
}

// IsExtrapolation reports whether err is, or wraps, an *ExtrapolationWarning.
func IsExtrapolation(err error) bool {
	var w *ExtrapolationWarning
	return errors.As(err, &w)
}
