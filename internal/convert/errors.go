package convert

import (
	"errors"
	"fmt"
	"strings"

	"github.com/roach88/gpstime/internal/calendar"
	"github.com/roach88/gpstime/internal/leapsec"
)

const (
	// ErrCodeConflictingInput means zero or several input kinds were supplied.
	ErrCodeConflictingInput = "CONFLICTING_INPUT"

	// ErrCodePreEpoch marks a converted instant earlier than the GPS epoch.
	ErrCodePreEpoch = "PRE_GPS_EPOCH"
)

// ConflictingInputError is returned by Convert unless exactly one input kind
// is set.
type ConflictingInputError struct {
	Supplied []Kind
}

// Error implements the error interface.
func (e *ConflictingInputError) Error() string {
	if len(e.Supplied) == 0 {
		return ErrCodeConflictingInput + ": no input supplied, exactly one is required"
	}
	names := make([]string, len(e.Supplied))
	for i, k := range e.Supplied {
		names[i] = k.String()
	}
	return fmt.Sprintf("%s: %d inputs supplied (%s), exactly one is required",
		ErrCodeConflictingInput, len(e.Supplied), strings.Join(names, ", "))
}

// IsConflictingInput reports whether err is, or wraps, a
// *ConflictingInputError.
func IsConflictingInput(err error) bool {
	var ce *ConflictingInputError
	return errors.As(err, &ce)
}

// PreEpochWarning is attached to a Result whose UTC instant falls before
// 1980-01-06. The GPS fields are still computed and carry a negative week.
type PreEpochWarning struct {
	UTC calendar.Instant
}

// Error implements the error interface.
func (w *PreEpochWarning) Error() string {
	return fmt.Sprintf("%s: %s is before the GPS epoch 1980-01-06 00:00:00, GPS week is negative",
		ErrCodePreEpoch, w.UTC)
}

// IsPreEpoch reports whether err is, or wraps, a *PreEpochWarning.
func IsPreEpoch(err error) bool {
	var pw *PreEpochWarning
	return errors.As(err, &pw)
}

// WarningCode returns the stable code of a warning carried in
// Result.Warnings, or "WARNING" for anything else.
func WarningCode(err error) string {
	switch {
	case leapsec.IsExtrapolation(err):
		return leapsec.ErrCodeExtrapolated
	case IsPreEpoch(err):
		return ErrCodePreEpoch
	}
	return "WARNING"
}
