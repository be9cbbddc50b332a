package convert

import (
	"fmt"
	"math"
	"time"

	"github.com/roach88/gpstime/internal/calendar"
	"github.com/roach88/gpstime/internal/gps"
	"github.com/roach88/gpstime/internal/leapsec"
)

// Clock supplies the current time for KindNow.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock.
type SystemClock struct{}

// Now returns time.Now.
func (SystemClock) Now() time.Time { return time.Now() }

// Option configures a Converter.
type Option func(*Converter)

// WithClock replaces the wall clock used for KindNow.
func WithClock(clock Clock) Option {
	return func(c *Converter) {
		c.clock = clock
	}
}

// Converter turns any Input into a full Result against one leap-second table.
type Converter struct {
	table *leapsec.Table
	clock Clock
}

// New returns a Converter reading offsets from table. table must not be nil.
func New(table *leapsec.Table, opts ...Option) *Converter {
	if table == nil {
		panic("convert.New: nil leap-second table")
	}
	c := &Converter{table: table, clock: SystemClock{}}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Table returns the leap-second table the converter reads.
func (c *Converter) Table() *leapsec.Table {
	return c.table
}

// Result holds every representation of one instant. It is either fully
// populated or not returned at all.
type Result struct {
	Kind Kind

	UTC calendar.Instant
	BJT calendar.Instant
	MJD float64

	Year int
	DOY  int
	TOD  float64

	Week int
	DOW  int
	TOW  float64

	// Offset is GPS-UTC in seconds at UTC.
	Offset int

	// Warnings holds non-fatal conditions: *leapsec.ExtrapolationWarning
	// and *PreEpochWarning.
	Warnings []error
}

// Convert normalizes in to a UTC instant and derives every other field from
// it.
func (c *Converter) Convert(in Input) (*Result, error) {
	kind, err := in.Kind()
	if err != nil {
		return nil, err
	}

	utc, err := c.normalize(kind, in)
	if err != nil {
		return nil, fmt.Errorf("convert %s input: %w", kind, err)
	}

	res, err := c.fanOut(utc)
	if err != nil {
		return nil, fmt.Errorf("convert %s input: %w", kind, err)
	}
	res.Kind = kind
	return res, nil
}

// normalize reduces any input to a validated UTC instant.
func (c *Converter) normalize(kind Kind, in Input) (calendar.Instant, error) {
	switch kind {
	case KindUTC:
		if err := in.UTC.Validate(); err != nil {
			return calendar.Instant{}, err
		}
		return *in.UTC, nil

	case KindMJD:
		return calendar.FromMJD(*in.MJD)

	case KindBJT:
		if err := in.BJT.Validate(); err != nil {
			return calendar.Instant{}, err
		}
		utc := calendar.FromBJT(*in.BJT)
		if err := utc.Validate(); err != nil {
			return calendar.Instant{}, err
		}
		return utc, nil

	case KindYearDOY:
		return calendar.FromYearDOY(in.YearDOY.Year, in.YearDOY.DOY)

	case KindGPSWeekDOW:
		g, err := gps.FromWeekDOW(in.GPSWeekDOW.Week, in.GPSWeekDOW.DOW)
		if err != nil {
			return calendar.Instant{}, err
		}
		utc, _, err := gps.ToUTC(c.table, g)
		return utc, err

	case KindGPSWeekTOW:
		if err := in.GPSWeekTOW.Validate(); err != nil {
			return calendar.Instant{}, err
		}
		utc, _, err := gps.ToUTC(c.table, *in.GPSWeekTOW)
		return utc, err

	case KindNow:
		return FromTime(c.clock.Now())
	}
	return calendar.Instant{}, fmt.Errorf("unsupported input kind %s", kind)
}

// fanOut derives the full Result from one UTC instant.
func (c *Converter) fanOut(utc calendar.Instant) (*Result, error) {
	mjd, err := calendar.ToMJD(utc)
	if err != nil {
		return nil, err
	}

	g, lookup, err := gps.FromUTC(c.table, utc)
	if err != nil {
		return nil, err
	}

	res := &Result{
		UTC:    utc,
		BJT:    calendar.ToBJT(utc),
		MJD:    mjd,
		Year:   utc.Year,
		DOY:    calendar.DayOfYear(utc),
		TOD:    calendar.TimeOfDay(utc),
		Week:   g.Week,
		DOW:    g.DOW(),
		TOW:    g.TOW,
		Offset: lookup.Offset,
	}
	if lookup.Warning != nil {
		res.Warnings = append(res.Warnings, lookup.Warning)
	}
	if utc.DayNumber() < gps.EpochMJD {
		res.Warnings = append(res.Warnings, &PreEpochWarning{UTC: utc})
	}
	return res, nil
}

// FromTime converts t to a UTC calendar instant at microsecond resolution.
func FromTime(t time.Time) (calendar.Instant, error) {
	t = t.UTC().Round(time.Microsecond)
	second := float64(t.Second()) + math.Round(float64(t.Nanosecond())/1e3)/1e6
	return calendar.New(t.Year(), int(t.Month()), t.Day(), t.Hour(), t.Minute(), second)
}

// Fields is the flat, serializable view of a Result, keyed the way every
// output format names them.
type Fields struct {
	UTC    string  `json:"utc" yaml:"utc"`
	BJT    string  `json:"bjt" yaml:"bjt"`
	MJD    float64 `json:"mjd" yaml:"mjd"`
	Year   int     `json:"year" yaml:"year"`
	DOY    int     `json:"doy" yaml:"doy"`
	TOD    float64 `json:"tod" yaml:"tod"`
	Week   int     `json:"week" yaml:"week"`
	DOW    int     `json:"dow" yaml:"dow"`
	TOW    float64 `json:"tow" yaml:"tow"`
	Offset int     `json:"gps_utc_offset" yaml:"gps_utc_offset"`
}

// Fields flattens r.
func (r *Result) Fields() Fields {
	return Fields{
		UTC:    r.UTC.String(),
		BJT:    r.BJT.String(),
		MJD:    r.MJD,
		Year:   r.Year,
		DOY:    r.DOY,
		TOD:    r.TOD,
		Week:   r.Week,
		DOW:    r.DOW,
		TOW:    r.TOW,
		Offset: r.Offset,
	}
}

// WarningCodes returns the code of each warning, in order.
func (r *Result) WarningCodes() []string {
	if len(r.Warnings) == 0 {
		return nil
	}
	codes := make([]string, len(r.Warnings))
	for i, w := range r.Warnings {
		codes[i] = WarningCode(w)
	}
	return codes
}
