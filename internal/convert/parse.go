package convert

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/roach88/gpstime/internal/calendar"
	"github.com/roach88/gpstime/internal/gps"
)

// ErrCodeInvalidInput marks text that does not parse as the requested kind.
const ErrCodeInvalidInput = "INVALID_INPUT"

// InvalidInputError reports unparseable input text.
type InvalidInputError struct {
	Kind   Kind
	Text   string
	Reason string
}

// Error implements the error interface.
func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("%s: %s %q: %s", ErrCodeInvalidInput, e.Kind, e.Text, e.Reason)
}

// IsInvalidInput reports whether err is, or wraps, an *InvalidInputError.
func IsInvalidInput(err error) bool {
	var ie *InvalidInputError
	return errors.As(err, &ie)
}

// normalizeText folds compatibility characters (full-width digits,
// punctuation and spaces) to ASCII and trims the result.
func normalizeText(s string) string {
	return strings.TrimSpace(norm.NFKC.String(s))
}

// ParseInput parses text as an instant of the given kind. Text is ignored
// for KindNow.
func ParseInput(kind Kind, text string) (Input, error) {
	switch kind {
	case KindUTC:
		c, err := parseDateTime(KindUTC, text)
		if err != nil {
			return Input{}, err
		}
		return Input{UTC: &c}, nil
	case KindBJT:
		c, err := parseDateTime(KindBJT, text)
		if err != nil {
			return Input{}, err
		}
		return Input{BJT: &c}, nil
	case KindMJD:
		mjd, err := ParseMJD(text)
		if err != nil {
			return Input{}, err
		}
		return Input{MJD: &mjd}, nil
	case KindYearDOY:
		yd, err := ParseYearDOY(text)
		if err != nil {
			return Input{}, err
		}
		return Input{YearDOY: &yd}, nil
	case KindGPSWeekDOW:
		wd, err := ParseWeekDOW(text)
		if err != nil {
			return Input{}, err
		}
		return Input{GPSWeekDOW: &wd}, nil
	case KindGPSWeekTOW:
		g, err := ParseWeekTOW(text)
		if err != nil {
			return Input{}, err
		}
		return Input{GPSWeekTOW: &g}, nil
	case KindNow:
		return Input{Now: true}, nil
	}
	return Input{}, fmt.Errorf("unsupported input kind %s", kind)
}

// ParseDateTime parses "YYYY-MM-DD HH:MM:SS[.fff]". A "T" separator is
// accepted in place of the space, and a bare date means 00:00:00.
func ParseDateTime(text string) (calendar.Instant, error) {
	return parseDateTime(KindUTC, text)
}

// parseDateTime is ParseDateTime with errors tagged by kind.
func parseDateTime(kind Kind, text string) (calendar.Instant, error) {
	s := normalizeText(text)
	fail := func(reason string) (calendar.Instant, error) {
		return calendar.Instant{}, &InvalidInputError{Kind: kind, Text: text, Reason: reason}
	}

	datePart, timePart, hasTime := strings.Cut(strings.Replace(s, "T", " ", 1), " ")
	timePart = strings.TrimSpace(timePart)

	ymd := strings.Split(datePart, "-")
	if len(ymd) != 3 {
		return fail("expected YYYY-MM-DD HH:MM:SS")
	}
	var date [3]int
	for i, f := range ymd {
		v, err := strconv.Atoi(f)
		if err != nil {
			return fail(fmt.Sprintf("date field %q is not an integer", f))
		}
		date[i] = v
	}

	var (
		hour, minute int
		second       float64
	)
	if hasTime && timePart != "" {
		hms := strings.Split(timePart, ":")
		if len(hms) != 3 {
			return fail("expected time as HH:MM:SS")
		}
		var err error
		if hour, err = strconv.Atoi(hms[0]); err != nil {
			return fail(fmt.Sprintf("hour %q is not an integer", hms[0]))
		}
		if minute, err = strconv.Atoi(hms[1]); err != nil {
			return fail(fmt.Sprintf("minute %q is not an integer", hms[1]))
		}
		if second, err = strconv.ParseFloat(hms[2], 64); err != nil {
			return fail(fmt.Sprintf("second %q is not a number", hms[2]))
		}
	}

	return calendar.New(date[0], date[1], date[2], hour, minute, second)
}

// ParseMJD parses a decimal Modified Julian Date.
func ParseMJD(text string) (float64, error) {
	mjd, err := strconv.ParseFloat(normalizeText(text), 64)
	if err != nil {
		return 0, &InvalidInputError{Kind: KindMJD, Text: text, Reason: "not a number"}
	}
	return mjd, nil
}

// ParseYearDOY parses "YYYY,DOY" where DOY may carry a fractional day.
func ParseYearDOY(text string) (YearDOY, error) {
	a, b, err := splitPair(KindYearDOY, text)
	if err != nil {
		return YearDOY{}, err
	}
	year, err := strconv.Atoi(a)
	if err != nil {
		return YearDOY{}, &InvalidInputError{Kind: KindYearDOY, Text: text, Reason: fmt.Sprintf("year %q is not an integer", a)}
	}
	doy, err := strconv.ParseFloat(b, 64)
	if err != nil {
		return YearDOY{}, &InvalidInputError{Kind: KindYearDOY, Text: text, Reason: fmt.Sprintf("day of year %q is not a number", b)}
	}
	return YearDOY{Year: year, DOY: doy}, nil
}

// ParseWeekDOW parses "WEEK,DOW".
func ParseWeekDOW(text string) (WeekDOW, error) {
	a, b, err := splitPair(KindGPSWeekDOW, text)
	if err != nil {
		return WeekDOW{}, err
	}
	week, err := strconv.Atoi(a)
	if err != nil {
		return WeekDOW{}, &InvalidInputError{Kind: KindGPSWeekDOW, Text: text, Reason: fmt.Sprintf("week %q is not an integer", a)}
	}
	dow, err := strconv.Atoi(b)
	if err != nil {
		return WeekDOW{}, &InvalidInputError{Kind: KindGPSWeekDOW, Text: text, Reason: fmt.Sprintf("day of week %q is not an integer", b)}
	}
	return WeekDOW{Week: week, DOW: dow}, nil
}

// ParseWeekTOW parses "WEEK,TOW" where TOW may be fractional.
func ParseWeekTOW(text string) (gps.Instant, error) {
	a, b, err := splitPair(KindGPSWeekTOW, text)
	if err != nil {
		return gps.Instant{}, err
	}
	week, err := strconv.Atoi(a)
	if err != nil {
		return gps.Instant{}, &InvalidInputError{Kind: KindGPSWeekTOW, Text: text, Reason: fmt.Sprintf("week %q is not an integer", a)}
	}
	tow, err := strconv.ParseFloat(b, 64)
	if err != nil {
		return gps.Instant{}, &InvalidInputError{Kind: KindGPSWeekTOW, Text: text, Reason: fmt.Sprintf("time of week %q is not a number", b)}
	}
	return gps.Instant{Week: week, TOW: tow}, nil
}

func splitPair(kind Kind, text string) (string, string, error) {
	a, b, ok := strings.Cut(normalizeText(text), ",")
	if !ok {
		return "", "", &InvalidInputError{Kind: kind, Text: text, Reason: "expected two comma-separated values"}
	}
	return strings.TrimSpace(a), strings.TrimSpace(b), nil
}
