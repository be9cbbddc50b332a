package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/gpstime/internal/convert"
	"github.com/roach88/gpstime/internal/store"
)

// HistoryOptions holds flags for the history command.
type HistoryOptions struct {
	*RootOptions
	DBPath string
	Limit  int
	Kind   string
	Since  string
	Clear  bool
}

// HistoryEntry is one stored conversion in command output.
type HistoryEntry struct {
	ID          string         `json:"id" yaml:"id"`
	RecordedAt  string         `json:"recorded_at" yaml:"recorded_at"`
	Kind        string         `json:"input_kind" yaml:"input_kind"`
	Input       string         `json:"input,omitempty" yaml:"input,omitempty"`
	TableSource string         `json:"table_source" yaml:"table_source"`
	Result      convert.Fields `json:"result" yaml:"result"`
	Warnings    []string       `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}

// HistoryOutput is the payload of history.
type HistoryOutput struct {
	Records []HistoryEntry `json:"records" yaml:"records"`
}

// RenderText prints one line per record, newest first.
func (o HistoryOutput) RenderText(w io.Writer) error {
	if len(o.Records) == 0 {
		_, err := fmt.Fprintln(w, "No conversions recorded.")
		return err
	}
	for _, r := range o.Records {
		input := r.Input
		if input == "" {
			input = "-"
		}
		line := fmt.Sprintf("%s  %s  %-12s %-24s -> %s  week %d tow %s",
			r.RecordedAt, r.ID, r.Kind, input, r.Result.UTC, r.Result.Week, formatFloat(r.Result.TOW))
		if len(r.Warnings) > 0 {
			line += "  [" + strings.Join(r.Warnings, ",") + "]"
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// HistoryClearOutput is the payload of history --clear.
type HistoryClearOutput struct {
	Deleted int64 `json:"deleted" yaml:"deleted"`
}

// RenderText prints the number of deleted records.
func (o HistoryClearOutput) RenderText(w io.Writer) error {
	_, err := fmt.Fprintf(w, "Deleted %d record(s).\n", o.Deleted)
	return err
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HistoryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List conversions recorded with convert --record",
		Long: `List conversions recorded with convert --record, newest first.

Example:
  gpstime history --db ./history.db
  gpstime history --db ./history.db --kind gps-week-tow --limit 5
  gpstime history --db ./history.db --since 2026-01-01T00:00:00Z --format json
  gpstime history --db ./history.db --clear`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.DBPath, "db", "", "path to the SQLite history database (required)")
	cmd.Flags().IntVar(&opts.Limit, "limit", 20, "maximum number of records (0 for all)")
	cmd.Flags().StringVar(&opts.Kind, "kind", "", "only show records of this input kind")
	cmd.Flags().StringVar(&opts.Since, "since", "", "only show records at or after this RFC 3339 time")
	cmd.Flags().BoolVar(&opts.Clear, "clear", false, "delete all recorded conversions")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func runHistory(opts *HistoryOptions, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)
	ctx := cmd.Context()

	listOpts, err := opts.listOptions()
	if err != nil {
		return failWith(formatter, ErrCodeInvalidInput, ExitCommandError, err)
	}

	st, err := store.Open(opts.DBPath)
	if err != nil {
		return failWith(formatter, ErrCodeHistory, ExitCommandError,
			fmt.Errorf("open history %s: %w", opts.DBPath, err))
	}
	defer st.Close()

	if opts.Clear {
		n, err := st.Clear(ctx)
		if err != nil {
			return failWith(formatter, ErrCodeHistory, ExitCommandError, err)
		}
		opts.logger().WithField("deleted", n).Debug("history cleared")
		return formatter.Success(HistoryClearOutput{Deleted: n})
	}

	records, err := st.List(ctx, listOpts)
	if err != nil {
		return failWith(formatter, ErrCodeHistory, ExitCommandError, err)
	}

	out := HistoryOutput{Records: make([]HistoryEntry, 0, len(records))}
	for _, r := range records {
		out.Records = append(out.Records, HistoryEntry{
			ID:          r.ID,
			RecordedAt:  r.RecordedAt.Format(time.RFC3339Nano),
			Kind:        r.Kind,
			Input:       r.Input,
			TableSource: r.TableSource,
			Result:      r.Result,
			Warnings:    r.Warnings,
		})
	}
	return formatter.Success(out)
}

func (o *HistoryOptions) listOptions() (store.ListOptions, error) {
	if o.Limit < 0 {
		return store.ListOptions{}, fmt.Errorf("--limit must not be negative, got %d", o.Limit)
	}
	lo := store.ListOptions{Limit: o.Limit}

	if o.Kind != "" {
		kind, err := convert.ParseKind(o.Kind)
		if err != nil {
			return store.ListOptions{}, err
		}
		lo.Kind = kind.String()
	}
	if o.Since != "" {
		since, err := time.Parse(time.RFC3339, o.Since)
		if err != nil {
			return store.ListOptions{}, fmt.Errorf("--since: %w", err)
		}
		lo.Since = since
	}
	return lo, nil
}
