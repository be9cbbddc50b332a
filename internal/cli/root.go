package cli

import (
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/roach88/gpstime/internal/config"
	"github.com/roach88/gpstime/internal/convert"
	"github.com/roach88/gpstime/internal/leapsec"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose        bool
	Format         string // "text" | "json" | "yaml"
	LeapSecondFile string
	ConfigDir      string

	// Clock overrides the wall clock for --now (for testing).
	// If nil, convert.SystemClock is used.
	Clock convert.Clock

	log *logrus.Logger
}

// Version is the release version, set at build time with
// -ldflags "-X github.com/roach88/gpstime/internal/cli.Version=...".
var Version = "dev"

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json", "yaml"}

// NewRootCommand creates the root command for the gpstime CLI.
func NewRootCommand() *cobra.Command {
	return newRootCommand(&RootOptions{})
}

func newRootCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "gpstime",
		Short:   "gpstime - GPS/UTC time converter",
		Version: Version,
		Long: `Convert one instant between UTC, Beijing Time, Modified Julian Date,
year and day of year, and GPS week / day of week / time of week.

GPS time is bridged to UTC with a GPS-UTC leap-second table (GPSUTC.BSW).`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			opts.log = newLogger(cmd.ErrOrStderr(), opts.Verbose)
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (text|json|yaml)")
	cmd.PersistentFlags().StringVar(&opts.LeapSecondFile, "leap-second-file", "",
		"path to a GPSUTC.BSW leap-second file (overrides "+config.EnvLeapSecondFile+" and the config dir)")
	cmd.PersistentFlags().StringVar(&opts.ConfigDir, "config-dir", "",
		"per-user config directory (default <user config dir>/"+config.AppDirName+")")

	cmd.AddCommand(NewConvertCommand(opts))
	cmd.AddCommand(NewTableCommand(opts))
	cmd.AddCommand(NewHistoryCommand(opts))

	return cmd
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}

// newLogger builds the diagnostic logger. It always writes to w (stderr in
// production) so stdout carries only command output.
func newLogger(w io.Writer, verbose bool) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(w)
	log.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})
	if verbose {
		log.SetLevel(logrus.DebugLevel)
	}
	return log
}

func (o *RootOptions) logger() *logrus.Logger {
	if o.log == nil {
		o.log = newLogger(io.Discard, false)
	}
	return o.log
}

func (o *RootOptions) formatter(cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    o.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   o.Verbose,
	}
}

func (o *RootOptions) resolver() *config.Resolver {
	opts := []config.Option{config.WithExplicitPath(o.LeapSecondFile)}
	if o.ConfigDir != "" {
		opts = append(opts, config.WithConfigDir(o.ConfigDir))
	}
	return config.NewResolver(opts...)
}

// loadTable resolves and parses the leap-second table, logging the source.
func (o *RootOptions) loadTable() (*leapsec.Table, config.Source, error) {
	table, src, err := o.resolver().Load()
	if err != nil {
		return nil, src, err
	}
	o.logger().WithFields(logrus.Fields{
		"source":  src.String(),
		"entries": table.Len(),
		"latest":  table.Latest().Effective.String(),
	}).Debug("leap-second table loaded")
	return table, src, nil
}
