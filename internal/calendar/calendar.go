package calendar

import (
	"fmt"
	"math"
)

// Time unit constants.
const (
	SecondsPerMinute = 60
	SecondsPerHour   = 3600
	SecondsPerDay    = 86400

	MinYear = 1
	MaxYear = 9999

	// BJTOffsetSeconds is the fixed Beijing Time offset from UTC.
	BJTOffsetSeconds = 8 * SecondsPerHour

	microsPerSecond int64 = 1_000_000
	microsPerMinute       = SecondsPerMinute * microsPerSecond
	microsPerHour         = SecondsPerHour * microsPerSecond
	microsPerDay          = SecondsPerDay * microsPerSecond
)

var daysBeforeMonth = [13]int{0, 0, 31, 59, 90, 120, 151, 181, 212, 243, 273, 304, 334}

// Instant is a civil date and time of day. Unless a caller says otherwise
// (see ToBJT) it is read as UTC.
type Instant struct {
	Year   int
	Month  int
	Day    int
	Hour   int
	Minute int
	Second float64
}

// New builds a validated Instant.
func New(year, month, day, hour, minute int, second float64) (Instant, error) {
	c := Instant{Year: year, Month: month, Day: day, Hour: hour, Minute: minute, Second: second}
	if err := c.Validate(); err != nil {
		return Instant{}, err
	}
	return c, nil
}

// Date builds a validated Instant at 00:00:00 of the given day.
func Date(year, month, day int) (Instant, error) {
	return New(year, month, day, 0, 0, 0)
}

// Validate checks every field against its range, month lengths included.
func (c Instant) Validate() error {
	if c.Year < MinYear || c.Year > MaxYear {
		return invalidInt("year", c.Year, "must be between %d and %d", MinYear, MaxYear)
	}
	if c.Month < 1 || c.Month > 12 {
		return invalidInt("month", c.Month, "must be between 1 and 12")
	}
	if maxDay := DaysInMonth(c.Year, c.Month); c.Day < 1 || c.Day > maxDay {
		return invalidInt("day", c.Day, "must be between 1 and %d for %04d-%02d", maxDay, c.Year, c.Month)
	}
	if c.Hour < 0 || c.Hour > 23 {
		return invalidInt("hour", c.Hour, "must be between 0 and 23")
	}
	if c.Minute < 0 || c.Minute > 59 {
		return invalidInt("minute", c.Minute, "must be between 0 and 59")
	}
	// Written as a negated range test so NaN is rejected too.
	if !(c.Second >= 0 && c.Second < 60) {
		return invalidFloat("second", c.Second, "must be at least 0 and less than 60")
	}
	return nil
}

// String formats the instant as "YYYY-MM-DD HH:MM:SS". Fractional seconds
// are truncated, never rounded up into the next second.
func (c Instant) String() string {
	return fmt.Sprintf("%04d-%02d-%02d %02d:%02d:%02d",
		c.Year, c.Month, c.Day, c.Hour, c.Minute, int(c.Second))
}

// DateOnly returns the instant's date at 00:00:00.
func (c Instant) DateOnly() Instant {
	return Instant{Year: c.Year, Month: c.Month, Day: c.Day}
}

// Compare returns -1, 0 or +1 as c is before, equal to or after o, at
// microsecond resolution.
func (c Instant) Compare(o Instant) int {
	cd, cm := normalize(c.DayNumber(), c.microsOfDay())
	od, om := normalize(o.DayNumber(), o.microsOfDay())
	switch {
	case cd < od:
		return -1
	case cd > od:
		return 1
	}
	switch {
	case cm < om:
		return -1
	case cm > om:
		return 1
	}
	return 0
}

// Before reports whether c is strictly earlier than o.
func (c Instant) Before(o Instant) bool {
	return c.Compare(o) < 0
}

// IsLeapYear applies the Gregorian rule: divisible by 4, except centuries
// not divisible by 400.
func IsLeapYear(year int) bool {
	return (year%4 == 0 && year%100 != 0) || year%400 == 0
}

// DaysInMonth returns the length of month in year, or 0 for an invalid month.
func DaysInMonth(year, month int) int {
	switch month {
	case 1, 3, 5, 7, 8, 10, 12:
		return 31
	case 4, 6, 9, 11:
		return 30
	case 2:
		if IsLeapYear(year) {
			return 29
		}
		return 28
	}
	return 0
}

// DaysInYear returns 366 for leap years and 365 otherwise.
func DaysInYear(year int) int {
	if IsLeapYear(year) {
		return 366
	}
	return 365
}

// DayOfYear returns the 1-based ordinal day of c within its year.
func DayOfYear(c Instant) int {
	doy := daysBeforeMonth[c.Month] + c.Day
	if c.Month > 2 && IsLeapYear(c.Year) {
		doy++
	}
	return doy
}

// TimeOfDay returns the seconds elapsed since midnight, in [0, 86400).
func TimeOfDay(c Instant) float64 {
	return float64(c.Hour*SecondsPerHour+c.Minute*SecondsPerMinute) + c.Second
}

// FromYearDOY expands a year and a possibly fractional day-of-year
// (1.0 is 00:00:00 on January 1) into an Instant.
func FromYearDOY(year int, doy float64) (Instant, error) {
	if year < MinYear || year > MaxYear {
		return Instant{}, invalidInt("year", year, "must be between %d and %d", MinYear, MaxYear)
	}
	if math.IsNaN(doy) || doy < 1 || doy >= float64(DaysInYear(year)+1) {
		return Instant{}, invalidFloat("doy", doy, "must be at least 1 and less than %d for %04d", DaysInYear(year)+1, year)
	}
	whole := math.Floor(doy)
	micros := int64(math.Round((doy - whole) * float64(microsPerDay)))
	day := dayNumber(year, 1, 1) + int(whole) - 1
	return fromDayMicros(day, micros)
}

// AddSeconds shifts c by a signed number of seconds with full date
// rollover. The result is not range-checked against MinYear/MaxYear.
func (c Instant) AddSeconds(seconds float64) Instant {
	micros := c.microsOfDay() + int64(math.Round(seconds*float64(microsPerSecond)))
	day, micros := normalize(c.DayNumber(), micros)
	return civil(day, micros)
}

// ToBJT converts a UTC instant to Beijing Time (UTC+8). BJT shares UTC's
// leap seconds, so this is a plain eight-hour shift.
func ToBJT(c Instant) Instant {
	return c.AddSeconds(BJTOffsetSeconds)
}

// FromBJT converts a Beijing Time instant back to UTC.
func FromBJT(c Instant) Instant {
	return c.AddSeconds(-BJTOffsetSeconds)
}

// microsOfDay returns the time of day in whole microseconds, rounding the
// seconds field to the nearest microsecond.
func (c Instant) microsOfDay() int64 {
	return int64(c.Hour)*microsPerHour +
		int64(c.Minute)*microsPerMinute +
		int64(math.Round(c.Second*float64(microsPerSecond)))
}

// normalize folds micros outside [0, microsPerDay) into the day number.
func normalize(day int, micros int64) (int, int64) {
	carry := floorDiv64(micros, microsPerDay)
	return day + int(carry), micros - carry*microsPerDay
}

// fromDayMicros normalizes and range-checks a (day, micros) pair.
func fromDayMicros(day int, micros int64) (Instant, error) {
	day, micros = normalize(day, micros)
	c := civil(day, micros)
	if c.Year < MinYear || c.Year > MaxYear {
		return Instant{}, invalidInt("year", c.Year, "must be between %d and %d", MinYear, MaxYear)
	}
	return c, nil
}

// civil builds an Instant from a normalized (day, micros) pair.
func civil(day int, micros int64) Instant {
	year, month, dom := civilDate(day)
	hour := micros / microsPerHour
	micros -= hour * microsPerHour
	minute := micros / microsPerMinute
	micros -= minute * microsPerMinute
	return Instant{
		Year:   year,
		Month:  month,
		Day:    dom,
		Hour:   int(hour),
		Minute: int(minute),
		Second: float64(micros) / float64(microsPerSecond),
	}
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func floorDiv64(a, b int64) int64 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
