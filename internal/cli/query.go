package cli

import (
	"context"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/roach88/worklens/internal/model"
	"github.com/roach88/worklens/internal/summary"
)

// NewQueryCommand creates the query command.
func NewQueryCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "query <request-file>",
		Short: "Run a structured query request",
		Long: `Run a structured query request against the database.

The request file may be CUE, YAML or JSON:

  entity_type: "work_session"
  filters: [{field: "date", operator: "gte", value: "this_week"}]
  aggregation: {function: "sum", field: "duration_hours", group_by: ["project.name"]}

Example:
  worklens query week.cue
  worklens query --format json --db ./work.db totals.yaml`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuery(rootOpts, args[0], cmd)
		},
	}
}

func runQuery(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	req, err := LoadRequest(path)
	if err != nil {
		_ = formatter.Error(loadErrorCode(err), err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to load request", err)
	}
	formatter.VerboseLog("Loaded %s request from %s", req.EntityType, path)

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

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	result, err := svc.Execute(ctx, *req)
	if err != nil {
		return formatter.QueryError("query failed", err)
	}

	switch out := result.(type) {
	case *model.EntityResults:
		return formatter.Result(out, summary.Summarize(out.Results), renderRecords(out.Results))
	case *model.AggregationOutput:
		return formatter.Result(out, "", renderAggregation(out))
	}
	return formatter.Success(result)
}
