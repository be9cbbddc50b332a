// Package calendar maps proleptic Gregorian civil date/times onto the
// Modified Julian Date day count and back.
//
// Instants are plain values. Every constructor validates its fields and
// returns an *InvalidCalendarError for out-of-range input; the arithmetic
// helpers (ToMJD, DayOfYear, ToBJT, ...) assume an already valid Instant.
//
// Internally an instant is handled as an integer MJD day plus an integer
// count of microseconds into that day. Splitting the two keeps whole-second
// inputs exact and guarantees the seconds field never reaches 60: a day
// fraction that rounds up to a full day carries into the next date.
//
// Supported years are 1 through 9999. No Julian calendar cutover is
// modeled; dates before 1582-10-15 are proleptic Gregorian.
package calendar
