// Package gps converts between UTC civil instants and GPS week/time-of-week,
// bridging the two with a leap-second table.
package gps

import (
	"errors"
	"fmt"
	"math"

	"github.com/roach88/gpstime/internal/calendar"
	"github.com/roach88/gpstime/internal/leapsec"
)

const (
	// EpochMJD is the MJD of the GPS epoch, 1980-01-06T00:00:00 UTC.
	EpochMJD = 44244

	DaysPerWeek    = 7
	SecondsPerWeek = DaysPerWeek * calendar.SecondsPerDay

	// MinWeek and MaxWeek are the weeks holding 0001-01-01 and 9999-12-31,
	// the ends of the calendar domain.
	MinWeek = -103260
	MaxWeek = 418462
)

// ErrCodeInvalidInstant identifies out-of-range GPS week or time-of-week.
const ErrCodeInvalidInstant = "INVALID_GPS_TIME"

// Instant is a point in GPS time. Weeks before the epoch are negative;
// TOW is always in [0, SecondsPerWeek) for instants produced here.
type Instant struct {
	Week int
	TOW  float64
}

// DOW returns the day of week, 0 (Sunday) through 6.
func (g Instant) DOW() int {
	return int(math.Floor(g.TOW / calendar.SecondsPerDay))
}

// Validate checks g as caller-supplied input: the week must be on or after
// the epoch and TOW inside a single week.
func (g Instant) Validate() error {
	if g.Week < 0 || g.Week > MaxWeek {
		return &InvalidInstantError{Field: "week", Value: fmt.Sprintf("%d", g.Week), Message: fmt.Sprintf("must be between 0 and %d", MaxWeek)}
	}
	return validateTOW(g.TOW)
}

// FromWeekDOW returns the instant at the start of day dow of week.
func FromWeekDOW(week, dow int) (Instant, error) {
	if dow < 0 || dow >= DaysPerWeek {
		return Instant{}, &InvalidInstantError{Field: "dow", Value: fmt.Sprintf("%d", dow), Message: "must be between 0 and 6"}
	}
	g := Instant{Week: week, TOW: float64(dow * calendar.SecondsPerDay)}
	if err := g.Validate(); err != nil {
		return Instant{}, err
	}
	return g, nil
}

// InvalidInstantError reports a GPS week, day-of-week or time-of-week out
// of range.
type InvalidInstantError struct {
	Field   string
	Value   string
	Message string
}

// Error implements the error interface.
func (e *InvalidInstantError) Error() string {
	return fmt.Sprintf("%s: invalid %s %s: %s", ErrCodeInvalidInstant, e.Field, e.Value, e.Message)
}

// IsInvalidInstant reports whether err is, or wraps, an *InvalidInstantError.
func IsInvalidInstant(err error) bool {
	var ie *InvalidInstantError
	return errors.As(err, &ie)
}

func validateTOW(tow float64) error {
	if !(tow >= 0 && tow < SecondsPerWeek) {
		return &InvalidInstantError{
			Field:   "tow",
			Value:   fmt.Sprintf("%g", tow),
			Message: fmt.Sprintf("must be at least 0 and less than %d", SecondsPerWeek),
		}
	}
	return nil
}

// FromUTC converts a UTC instant to GPS time using the offset in effect at
// c itself. The returned Lookup carries that offset and any extrapolation
// warning.
func FromUTC(table *leapsec.Table, c calendar.Instant) (Instant, leapsec.Lookup, error) {
	if err := c.Validate(); err != nil {
		return Instant{}, leapsec.Lookup{}, err
	}
	lookup := table.Lookup(c)
	g, err := FromUTCOffset(c, lookup.Offset)
	return g, lookup, err
}

// FromUTCOffset converts a UTC instant to GPS time with an explicit GPS-UTC
// offset in seconds.
func FromUTCOffset(c calendar.Instant, offset int) (Instant, error) {
	if err := c.Validate(); err != nil {
		return Instant{}, err
	}

	days := c.DayNumber() - EpochMJD
	week := floorDiv(days, DaysPerWeek)
	tow := float64((days-week*DaysPerWeek)*calendar.SecondsPerDay) + calendar.TimeOfDay(c) + float64(offset)

	week, tow = carryWeek(week, tow)
	return Instant{Week: week, TOW: tow}, nil
}

// ToUTC converts GPS time back to UTC.
//
// The table is indexed by UTC but the input is GPS time, so the offset is
// bootstrapped: a first estimate uses the latest known offset, the offset
// at that estimate gives a candidate, and if the candidate lands on the
// other side of a table boundary one more lookup settles it. Two passes
// are enough because a single transition moves the estimate by at most the
// offset's magnitude.
func ToUTC(table *leapsec.Table, g Instant) (calendar.Instant, leapsec.Lookup, error) {
	approx, err := ToUTCOffset(g, table.Latest().Offset)
	if err != nil {
		return calendar.Instant{}, leapsec.Lookup{}, err
	}

	lookup := table.Lookup(approx)
	utc, err := ToUTCOffset(g, lookup.Offset)
	if err != nil {
		return calendar.Instant{}, leapsec.Lookup{}, err
	}

	if refined := table.Lookup(utc); refined.Offset != lookup.Offset {
		lookup = refined
		utc, err = ToUTCOffset(g, lookup.Offset)
		if err != nil {
			return calendar.Instant{}, leapsec.Lookup{}, err
		}
	}
	return utc, lookup, nil
}

// ToUTCOffset converts GPS time to UTC with an explicit GPS-UTC offset in
// seconds. Negative weeks are accepted so that instants before the epoch
// round-trip.
func ToUTCOffset(g Instant, offset int) (calendar.Instant, error) {
	if g.Week < MinWeek || g.Week > MaxWeek {
		return calendar.Instant{}, &InvalidInstantError{
			Field:   "week",
			Value:   fmt.Sprintf("%d", g.Week),
			Message: fmt.Sprintf("must be between %d and %d", MinWeek, MaxWeek),
		}
	}
	if err := validateTOW(g.TOW); err != nil {
		return calendar.Instant{}, err
	}

	week, tow := carryWeek(g.Week, g.TOW-float64(offset))
	return calendar.FromDayNumber(EpochMJD+week*DaysPerWeek, tow)
}

// carryWeek moves a time-of-week that an offset pushed outside
// [0, SecondsPerWeek) into the adjacent week.
func carryWeek(week int, tow float64) (int, float64) {
	if tow >= SecondsPerWeek {
		tow -= SecondsPerWeek
		week++
	} else if tow < 0 {
		tow += SecondsPerWeek
		week--
	}
	return week, tow
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
