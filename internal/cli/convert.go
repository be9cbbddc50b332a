package cli

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/roach88/gpstime/internal/convert"
	"github.com/roach88/gpstime/internal/leapsec"
	"github.com/roach88/gpstime/internal/store"
)

// ConvertOptions holds flags for the convert command.
type ConvertOptions struct {
	*RootOptions
	Now        bool
	DateTime   string
	YearDOY    string
	MJD        string
	BJT        string
	GPSWeekDOW string
	GPSWeekTOW string
	Record     string
}

// inputFlags pairs each input flag with the kind it selects.
var inputFlags = []struct {
	name string
	kind convert.Kind
}{
	{"datetime", convert.KindUTC},
	{"mjd", convert.KindMJD},
	{"bjt", convert.KindBJT},
	{"year-doy", convert.KindYearDOY},
	{"gps-week-dow", convert.KindGPSWeekDOW},
	{"gps-week-tow", convert.KindGPSWeekTOW},
	{"now", convert.KindNow},
}

// ConvertOutput is the payload of a successful conversion.
type ConvertOutput struct {
	convert.Fields `yaml:",inline"`

	Kind       string   `json:"input_kind" yaml:"input_kind"`
	Input      string   `json:"input,omitempty" yaml:"input,omitempty"`
	LeapSource string   `json:"leap_second_source" yaml:"leap_second_source"`
	Warnings   []string `json:"warnings,omitempty" yaml:"warnings,omitempty"`
	RecordID   string   `json:"record_id,omitempty" yaml:"record_id,omitempty"`
}

// RenderText prints one "LABEL: value" line per field.
func (o ConvertOutput) RenderText(w io.Writer) error {
	lines := []struct {
		label string
		value string
	}{
		{"UTC", o.UTC},
		{"BJT", o.BJT},
		{"MJD", formatFloat(o.MJD)},
		{"YEAR", strconv.Itoa(o.Year)},
		{"DOY", strconv.Itoa(o.DOY)},
		{"TOD", formatFloat(o.TOD)},
		{"WEEK", strconv.Itoa(o.Week)},
		{"DOW", strconv.Itoa(o.DOW)},
		{"TOW", formatFloat(o.TOW)},
	}
	for _, l := range lines {
		if _, err := fmt.Fprintf(w, "%-5s %s\n", l.label+":", l.value); err != nil {
			return err
		}
	}
	return nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// NewConvertCommand creates the convert command.
func NewConvertCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ConvertOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "convert",
		Short: "Show one instant in every supported time format",
		Long: `Show one instant as UTC, BJT, MJD, year, day of year, time of day,
GPS week, day of week and time of week.

Exactly one input flag is required.

Example:
  gpstime convert --now
  gpstime convert --datetime "2017-01-01 00:00:00"
  gpstime convert --gps-week-tow 2405,475219 --format json
  gpstime convert --year-doy 2024,61.5 --record ./history.db`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConvert(opts, cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Now, "now", false, "convert the current time")
	cmd.Flags().StringVar(&opts.DateTime, "datetime", "", "UTC date and time (YYYY-MM-DD HH:MM:SS)")
	cmd.Flags().StringVar(&opts.YearDOY, "year-doy", "", "year and day of year (YYYY,DOY; DOY may be fractional)")
	cmd.Flags().StringVar(&opts.MJD, "mjd", "", "Modified Julian Date")
	cmd.Flags().StringVar(&opts.BJT, "bjt", "", "Beijing Time (YYYY-MM-DD HH:MM:SS)")
	cmd.Flags().StringVar(&opts.GPSWeekDOW, "gps-week-dow", "", "GPS week and day of week (WEEK,DOW)")
	cmd.Flags().StringVar(&opts.GPSWeekTOW, "gps-week-tow", "", "GPS week and time of week (WEEK,TOW; TOW may be fractional)")
	cmd.Flags().StringVar(&opts.Record, "record", "", "append the conversion to this SQLite history database")

	return cmd
}

func runConvert(opts *ConvertOptions, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)
	log := opts.logger()

	kind, text, err := opts.selectInput(cmd)
	if err != nil {
		return fail(formatter, err)
	}
	log.WithField("kind", kind).Debug("input selected")

	in, err := convert.ParseInput(kind, text)
	if err != nil {
		return fail(formatter, err)
	}

	table, src, err := opts.loadTable()
	if err != nil {
		return failTable(formatter, err)
	}

	var convOpts []convert.Option
	if opts.Clock != nil {
		convOpts = append(convOpts, convert.WithClock(opts.Clock))
	}
	res, err := convert.New(table, convOpts...).Convert(in)
	if err != nil {
		return fail(formatter, err)
	}
	logWarnings(log, res.Warnings)

	out := ConvertOutput{
		Fields:     res.Fields(),
		Kind:       kind.String(),
		Input:      text,
		LeapSource: src.String(),
		Warnings:   res.WarningCodes(),
	}

	if opts.Record != "" {
		id, err := recordConversion(cmd.Context(), opts.Record, out, table)
		if err != nil {
			return failWith(formatter, ErrCodeHistory, ExitCommandError, err)
		}
		out.RecordID = id
		log.WithField("id", id).Debug("conversion recorded")
	}

	return formatter.Success(out)
}

// selectInput returns the single input flag that was set, in the order
// listed by inputFlags.
func (o *ConvertOptions) selectInput(cmd *cobra.Command) (convert.Kind, string, error) {
	values := map[convert.Kind]string{
		convert.KindUTC:        o.DateTime,
		convert.KindMJD:        o.MJD,
		convert.KindBJT:        o.BJT,
		convert.KindYearDOY:    o.YearDOY,
		convert.KindGPSWeekDOW: o.GPSWeekDOW,
		convert.KindGPSWeekTOW: o.GPSWeekTOW,
	}

	var supplied []convert.Kind
	for _, f := range inputFlags {
		if f.kind == convert.KindNow {
			if o.Now {
				supplied = append(supplied, f.kind)
			}
			continue
		}
		if cmd.Flags().Changed(f.name) {
			supplied = append(supplied, f.kind)
		}
	}
	if len(supplied) != 1 {
		return 0, "", &convert.ConflictingInputError{Supplied: supplied}
	}
	return supplied[0], values[supplied[0]], nil
}

func logWarnings(log *logrus.Logger, warnings []error) {
	for _, w := range warnings {
		log.WithField("code", convert.WarningCode(w)).Warn(w.Error())
	}
}

func recordConversion(ctx context.Context, path string, out ConvertOutput, table *leapsec.Table) (string, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	st, err := store.Open(path)
	if err != nil {
		return "", fmt.Errorf("open history %s: %w", path, err)
	}
	defer st.Close()

	rec, err := st.Append(ctx, store.Record{
		Kind:        out.Kind,
		Input:       out.Input,
		TableSource: table.Source(),
		Result:      out.Fields,
		Warnings:    out.Warnings,
	})
	if err != nil {
		return "", err
	}
	return rec.ID, nil
}

// failTable reports a table resolution or parse failure.
func failTable(formatter *OutputFormatter, err error) error {
	code, exit := classify(err)
	if code == ErrCodeGeneric {
		code, exit = ErrCodeConfig, ExitCommandError
	}
	return failWith(formatter, code, exit, err)
}
