package calendar

import "math"

const (
	// mjdBase aligns the Gregorian day count below with MJD 0 = 1858-11-17.
	// Between 1900-03-01 and 2100-02-28 the century term is -13 and the
	// whole expression reduces to the familiar "... - 679019".
	mjdBase = 679006

	// jdnAtMJD0 is the Julian Day Number of the civil day that starts at
	// MJD 0 (JD 2400000.5 + 0.5).
	jdnAtMJD0 = 2400001
)

// ToMJD returns the Modified Julian Date of c: the integer part counts days
// since 1858-11-17T00:00:00 and the fraction is time of day / 86400.
func ToMJD(c Instant) (float64, error) {
	if err := c.Validate(); err != nil {
		return 0, err
	}
	return float64(c.DayNumber()) + TimeOfDay(c)/SecondsPerDay, nil
}

// FromMJD is the inverse of ToMJD. The day fraction is resolved to the
// nearest microsecond; a fraction that reaches a whole day rolls over to
// 00:00:00 of the following date.
func FromMJD(mjd float64) (Instant, error) {
	if math.IsNaN(mjd) || math.IsInf(mjd, 0) {
		return Instant{}, invalidFloat("mjd", mjd, "must be a finite number")
	}
	day := math.Floor(mjd)
	if day < float64(minDayNumber) || day > float64(maxDayNumber) {
		return Instant{}, invalidFloat("mjd", mjd, "must fall within years %d to %d", MinYear, MaxYear)
	}
	micros := int64(math.Round((mjd - day) * float64(microsPerDay)))
	return fromDayMicros(int(day), micros)
}

// FromDayNumber builds an Instant from an integer MJD day and seconds into
// that day. secondOfDay may be negative or exceed a day; the excess rolls
// into the date.
func FromDayNumber(day int, secondOfDay float64) (Instant, error) {
	if math.IsNaN(secondOfDay) || math.IsInf(secondOfDay, 0) {
		return Instant{}, invalidFloat("second", secondOfDay, "must be a finite number")
	}
	return fromDayMicros(day, int64(math.Round(secondOfDay*float64(microsPerSecond))))
}

// DayNumber returns the integer MJD of c's date.
func (c Instant) DayNumber() int {
	return dayNumber(c.Year, c.Month, c.Day)
}

var (
	minDayNumber = dayNumber(MinYear, 1, 1)
	maxDayNumber = dayNumber(MaxYear, 12, 31)
)

// dayNumber folds January and February into months 13 and 14 of the
// previous year so that the leap day falls at the end of the counting
// year, then applies the Gregorian century correction. Every division
// floors toward negative infinity.
func dayNumber(year, month, day int) int {
	y, m := year, month
	if m <= 2 {
		y--
		m += 12
	}
	a := floorDiv(y, 100)
	b := 2 - a + floorDiv(a, 4)
	return int(math.Floor(365.25*float64(y))) +
		int(math.Floor(30.6001*float64(m+1))) +
		day + b - mjdBase
}

// civilDate recovers year, month and day from an integer MJD using the
// Julian Day Number decomposition with the Gregorian century correction
// applied unconditionally.
func civilDate(mjdDay int) (year, month, day int) {
	z := mjdDay + jdnAtMJD0
	alpha := int(math.Floor((float64(z) - 1867216.25) / 36524.25))
	a := z + 1 + alpha - floorDiv(alpha, 4)
	b := a + 1524
	c := int(math.Floor((float64(b) - 122.1) / 365.25))
	d := int(math.Floor(365.25 * float64(c)))
	e := int(math.Floor(float64(b-d) / 30.6001))

	day = b - d - int(math.Floor(30.6001*float64(e)))
	if e < 14 {
		month = e - 1
	} else {
		month = e - 13
	}
	if month > 2 {
		year = c - 4716
	} else {
		year = c - 4715
	}
	return year, month, day
}
