package cli

import (
	"errors"
	"fmt"
	"io"
	"io/fs"

	"github.com/spf13/cobra"

	"github.com/roach88/gpstime/internal/leapsec"
)

// TableEntry is one leap-second row in command output.
type TableEntry struct {
	Effective string `json:"effective" yaml:"effective"`
	Offset    int    `json:"gps_utc_offset" yaml:"gps_utc_offset"`
}

// TableOutput is the payload of table show.
type TableOutput struct {
	Source  string       `json:"source" yaml:"source"`
	Entries []TableEntry `json:"entries" yaml:"entries"`
}

// RenderText prints the source followed by one row per entry.
func (o TableOutput) RenderText(w io.Writer) error {
	if _, err := fmt.Fprintf(w, "Source: %s\n", o.Source); err != nil {
		return err
	}
	fmt.Fprintf(w, "%-19s  %s\n", "VALID SINCE", "GPS-UTC")
	for _, e := range o.Entries {
		if _, err := fmt.Fprintf(w, "%-19s  %d\n", e.Effective, e.Offset); err != nil {
			return err
		}
	}
	return nil
}

// TablePathOutput is the payload of table path.
type TablePathOutput struct {
	Kind string `json:"kind" yaml:"kind"`
	Path string `json:"path,omitempty" yaml:"path,omitempty"`
}

// RenderText prints the path, or "bundled" for the built-in copy.
func (o TablePathOutput) RenderText(w io.Writer) error {
	if o.Path == "" {
		_, err := fmt.Fprintln(w, o.Kind)
		return err
	}
	_, err := fmt.Fprintf(w, "%s (%s)\n", o.Path, o.Kind)
	return err
}

// TableInstallOutput is the payload of table install.
type TableInstallOutput struct {
	Path    string `json:"path" yaml:"path"`
	Entries int    `json:"entries" yaml:"entries"`
}

// RenderText prints the installed path.
func (o TableInstallOutput) RenderText(w io.Writer) error {
	_, err := fmt.Fprintf(w, "Installed leap-second table (%d entries) to %s\n", o.Entries, o.Path)
	return err
}

// NewTableCommand creates the table command and its subcommands.
func NewTableCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "table",
		Short: "Inspect or install the GPS-UTC leap-second table",
		Long: `Inspect or install the GPS-UTC leap-second table.

The table is looked up in this order: --leap-second-file, the
GPS_LEAP_SECOND_FILE environment variable, leap_second_file in
<config dir>/config.yaml, <config dir>/GPSUTC.BSW, then the copy
built into gpstime.`,
	}

	cmd.AddCommand(newTableShowCommand(rootOpts))
	cmd.AddCommand(newTablePathCommand(rootOpts))
	cmd.AddCommand(newTableInstallCommand(rootOpts))

	return cmd
}

func newTableShowCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "show",
		Short:         "List the entries of the resolved table",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := rootOpts.formatter(cmd)
			table, src, err := rootOpts.loadTable()
			if err != nil {
				return failTable(formatter, err)
			}

			out := TableOutput{Source: src.String()}
			for _, e := range table.Entries() {
				out.Entries = append(out.Entries, TableEntry{Effective: e.Effective.String(), Offset: e.Offset})
			}
			return formatter.Success(out)
		},
	}
}

func newTablePathCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "path",
		Short:         "Show which table source would be used",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := rootOpts.formatter(cmd)
			src, err := rootOpts.resolver().Resolve()
			if err != nil {
				return failTable(formatter, err)
			}
			return formatter.Success(TablePathOutput{Kind: string(src.Kind), Path: src.Path})
		},
	}
}

func newTableInstallCommand(rootOpts *RootOptions) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "install",
		Short: "Copy the built-in table into the config directory",
		Long: `Copy the built-in GPSUTC.BSW into the per-user config directory so it
can be edited when a new leap second is announced.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := rootOpts.formatter(cmd)
			path, err := rootOpts.resolver().Install(force)
			if err != nil {
				if errors.Is(err, fs.ErrExist) {
					err = fmt.Errorf("%w (use --force to overwrite)", err)
				}
				return failWith(formatter, ErrCodeWriteFailed, ExitCommandError, err)
			}
			rootOpts.logger().WithField("path", path).Debug("leap-second table installed")

			table, err := leapsec.LoadFile(path)
			if err != nil {
				return failTable(formatter, err)
			}
			return formatter.Success(TableInstallOutput{Path: path, Entries: table.Len()})
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing table")
	return cmd
}
