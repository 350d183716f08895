package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/worklens/internal/model"
	"github.com/roach88/worklens/internal/queryir"
	"github.com/roach88/worklens/internal/querysql"
)

// PlanOutput describes a built plan and the SQL it compiles to.
type PlanOutput struct {
	Entity      model.EntityType       `json:"entity"`
	Joins       []string               `json:"joins"`
	Aggregation *model.AggregationSpec `json:"aggregation,omitempty"`
	SQL         string                 `json:"sql"`
	Params      []any                  `json:"params"`
	Fingerprint string                 `json:"fingerprint"`
	JoinSet     string                 `json:"join_set"`
}

// NewPlanCommand creates the plan command.
func NewPlanCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "plan <request-file>",
		Short: "Show the plan and SQL for a request without running it",
		Long: `Build the plan for a request and print its joins, compiled SQL,
parameters and fingerprints. The database is not opened.

Example:
  worklens plan week.cue
  worklens plan --format json totals.yaml`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlan(rootOpts, args[0], cmd)
		},
	}
}

func runPlan(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	req, err := LoadRequest(path)
	if err != nil {
		_ = formatter.Error(loadErrorCode(err), err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to load request", err)
	}

	svc, err := opts.newService(nil, io.Discard)
	if err != nil {
		_ = formatter.Error(ErrCodeConfig, err.Error(), nil)
		return WrapExitError(ExitCommandError, "invalid configuration", err)
	}

	plan, err := svc.Plan(*req)
	if err != nil {
		return formatter.QueryError("plan failed", err)
	}

	out, err := describePlan(req.EntityType, plan.Query, plan.Aggregation)
	if err != nil {
		_ = formatter.Error(ErrCodeGeneric, err.Error(), nil)
		return WrapExitError(ExitFailure, "failed to compile plan", err)
	}

	lines := []string{
		"Entity:      " + string(out.Entity),
		fmt.Sprintf("Joins:       %v", out.Joins),
		"SQL:         " + out.SQL,
		fmt.Sprintf("Params:      %v", out.Params),
		"Fingerprint: " + out.Fingerprint,
		"Join set:    " + out.JoinSet,
	}
	return formatter.Result(out, "", lines)
}

func describePlan(entity model.EntityType, q queryir.Query, agg *model.AggregationSpec) (*PlanOutput, error) {
	sql, params, err := querysql.NewSQLCompiler().Compile(q)
	if err != nil {
		return nil, err
	}
	fp, err := queryir.Fingerprint(q)
	if err != nil {
		return nil, err
	}
	joinSet, err := queryir.JoinSetFingerprint(q)
	if err != nil {
		return nil, err
	}
	if params == nil {
		params = []any{}
	}
	return &PlanOutput{
		Entity:      entity,
		Joins:       queryir.JoinPaths(q),
		Aggregation: agg,
		SQL:         sql,
		Params:      params,
		Fingerprint: fp,
		JoinSet:     joinSet,
	}, nil
}
