package convert

import (
	"fmt"

	"github.com/roach88/gpstime/internal/calendar"
	"github.com/roach88/gpstime/internal/gps"
)

// Kind names one input representation.
type Kind int

const (
	KindUTC Kind = iota
	KindMJD
	KindBJT
	KindYearDOY
	KindGPSWeekDOW
	KindGPSWeekTOW
	KindNow
)

var kindNames = [...]string{
	KindUTC:        "utc",
	KindMJD:        "mjd",
	KindBJT:        "bjt",
	KindYearDOY:    "year-doy",
	KindGPSWeekDOW: "gps-week-dow",
	KindGPSWeekTOW: "gps-week-tow",
	KindNow:        "now",
}

// String returns the kind's stable name, as stored in conversion history.
func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("kind(%d)", int(k))
	}
	return kindNames[k]
}

// ParseKind is the inverse of Kind.String.
func ParseKind(s string) (Kind, error) {
	for k, name := range kindNames {
		if name == s {
			return Kind(k), nil
		}
	}
	return 0, fmt.Errorf("unknown input kind %q", s)
}

// YearDOY is a year with a possibly fractional day of year; 1.0 is
// January 1 at 00:00:00.
type YearDOY struct {
	Year int
	DOY  float64
}

// WeekDOW selects the start of a day within a GPS week.
type WeekDOW struct {
	Week int
	DOW  int
}

// Input carries exactly one instant. Set one field; the others stay nil
// (or false for Now).
type Input struct {
	UTC        *calendar.Instant
	MJD        *float64
	BJT        *calendar.Instant
	YearDOY    *YearDOY
	GPSWeekDOW *WeekDOW
	GPSWeekTOW *gps.Instant
	Now        bool
}

// Kinds lists the input kinds that are set, in Kind order.
func (in Input) Kinds() []Kind {
	var kinds []Kind
	if in.UTC != nil {
		kinds = append(kinds, KindUTC)
	}
	if in.MJD != nil {
		kinds = append(kinds, KindMJD)
	}
	if in.BJT != nil {
		kinds = append(kinds, KindBJT)
	}
	if in.YearDOY != nil {
		kinds = append(kinds, KindYearDOY)
	}
	if in.GPSWeekDOW != nil {
		kinds = append(kinds, KindGPSWeekDOW)
	}
	if in.GPSWeekTOW != nil {
		kinds = append(kinds, KindGPSWeekTOW)
	}
	if in.Now {
		kinds = append(kinds, KindNow)
	}
	return kinds
}

// Kind returns the single kind that is set, or a *ConflictingInputError.
func (in Input) Kind() (Kind, error) {
	kinds := in.Kinds()
	if len(kinds) != 1 {
		return 0, &ConflictingInputError{Supplied: kinds}
	}
	return kinds[0], nil
}
