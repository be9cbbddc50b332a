package calendar

import (
	"errors"
	"fmt"
)

// ErrCodeInvalidCalendar identifies calendar validation failures.
const ErrCodeInvalidCalendar = "INVALID_CALENDAR"

// InvalidCalendarError reports a date or time field outside its valid range.
// It is returned before any conversion is attempted.
type InvalidCalendarError struct {
	// Field names the offending component ("year", "month", "day", "hour",
	// "minute", "second", "doy" or "mjd").
	Field string

	// Value is the rejected value, formatted for display.
	Value string

	// Message describes the accepted range.
	Message string
}

// Error implements the error interface.
func (e *InvalidCalendarError) Error() string {
	return fmt.Sprintf("%s: invalid %s %s: %s", ErrCodeInvalidCalendar, e.Field, e.Value, e.Message)
}

// IsInvalidCalendar reports whether err is, or wraps, an *InvalidCalendarError.
func IsInvalidCalendar(err error) bool {
	var ce *InvalidCalendarError
	return errors.As(err, &ce)
}

func invalidInt(field string, value int, format string, args ...any) *InvalidCalendarError {
	return &InvalidCalendarError{
		Field:   field,
		Value:   fmt.Sprintf("%d", value),
		Message: fmt.Sprintf(format, args...),
	}
}

func invalidFloat(field string, value float64, format string, args ...any) *InvalidCalendarError {
	return &InvalidCalendarError{
		Field:   field,
		Value:   fmt.Sprintf("%g", value),
		Message: fmt.Sprintf(format, args...),
	}
}
