package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/roach88/worklens/internal/model"
	"github.com/roach88/worklens/internal/summary"
)

// TimesheetOptions holds flags for the timesheet command.
type TimesheetOptions struct {
	*RootOptions
	From string
	To   string
	By   string // "day" | "project"
}

// NewTimesheetCommand creates the timesheet command.
func NewTimesheetCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TimesheetOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "timesheet",
		Short: "Report hours worked per day or per project",
		Long: `Report work-session hours over an inclusive date range, grouped per day
or per project. Bounds accept dates, timestamps and date keywords.

Example:
  worklens timesheet --from this_week --to today
  worklens timesheet --from 2024-03-01 --to 2024-03-31 --by project`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTimesheet(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.From, "from", "this_week", "first day of the range")
	cmd.Flags().StringVar(&opts.To, "to", "today", "last day of the range")
	cmd.Flags().StringVar(&opts.By, "by", "day", "grouping (day|project)")

	return cmd
}

func runTimesheet(opts *TimesheetOptions, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	if opts.By != "day" && opts.By != "project" {
		_ = formatter.Error(ErrCodeGeneric, fmt.Sprintf("invalid --by %q: must be day or project", opts.By), nil)
		return NewExitError(ExitCommandError, "invalid grouping")
	}

	st, err := opts.openStore()
	if err != nil {
		_ = formatter.Error(ErrCodeDatabase, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer func() {
		if closeErr := st.Close(); closeErr != nil {
			slog.Error("error closing database", "error", closeErr)
		}
	}()

	svc, err := opts.newService(st, cmd.ErrOrStderr())
	if err != nil {
		_ = formatter.Error(ErrCodeConfig, err.Error(), nil)
		return WrapExitError(ExitCommandError, "invalid configuration", err)
	}

	r, err := svc.ParseRange(opts.From, opts.To)
	if err != nil {
		return formatter.QueryError("invalid range", err)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	var records []model.Record
	if opts.By == "project" {
		records, err = svc.ProjectTotals(ctx, r)
	} else {
		records, err = svc.Timesheet(ctx, r)
	}
	if err != nil {
		return formatter.QueryError("timesheet failed", err)
	}

	total := 0.0
	lines := make([]string, 0, len(records)+1)
	for _, rec := range records {
		switch row := rec.(type) {
		case model.DailyTotal:
			total += row.Hours
			lines = append(lines, fmt.Sprintf("  %s  %6.1fh  %d session(s)", row.Date, row.Hours, row.Sessions))
		case model.ProjectTotal:
			total += row.Hours
			name := row.Project
			if name == "" {
				name = "(no project)"
			}
			lines = append(lines, fmt.Sprintf("  %-24s %6.1fh  %d session(s)", name, row.Hours, row.Sessions))
		}
	}
	lines = append(lines, fmt.Sprintf("Total %.1fh from %s to %s", total, r.From, r.To))

	return formatter.Result(model.NewEntityResults(records), summary.Summarize(records), lines)
}
