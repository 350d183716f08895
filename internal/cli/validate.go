package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/worklens/internal/compiler"
	"github.com/roach88/worklens/internal/dates"
	"github.com/roach88/worklens/internal/querybuild"
	"github.com/roach88/worklens/internal/schema"
)

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <request-file>",
		Short: "Check a request and report every problem found",
		Long: `Check a request against the schema registry without running it.

Unlike query and plan, which stop at the first error, validate checks each
filter, the aggregation and the pagination separately and reports them all.

Example:
  worklens validate week.cue
  worklens validate --format json totals.yaml`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}
}

func runValidate(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	req, err := LoadRequest(path)
	if err != nil {
		_ = formatter.Error(loadErrorCode(err), err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to load request", err)
	}

	cfg, err := opts.Config()
	if err != nil {
		_ = formatter.Error(ErrCodeConfig, err.Error(), nil)
		return WrapExitError(ExitCommandError, "invalid configuration", err)
	}
	loc, err := cfg.Location()
	if err != nil {
		_ = formatter.Error(ErrCodeConfig, err.Error(), nil)
		return WrapExitError(ExitCommandError, "invalid configuration", err)
	}

	clock := opts.Clock
	if clock == nil {
		clock = time.Now
	}
	builder := querybuild.New(schema.Default(), dates.NewResolver(clock, loc),
		querybuild.Options{MaxLimit: cfg.Query.MaxLimit})

	errs := compiler.Validate(builder, *req)
	if len(errs) > 0 {
		_ = formatter.Error(ErrCodeInvalidRequest,
			fmt.Sprintf("%d problem(s) in %s", len(errs), path), errs)
		if formatter.Format != "json" {
			for _, e := range errs {
				fmt.Fprintf(formatter.Writer, "  %s\n", e.Error())
			}
		}
		return NewExitError(ExitFailure, "validation failed")
	}

	return formatter.Success(fmt.Sprintf("%s: valid %s request", path, req.EntityType))
}
