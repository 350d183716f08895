package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/worklens/internal/model"
)

// ImportOutput reports rows added per entity and the resulting table sizes.
type ImportOutput struct {
	Imported map[model.EntityType]int `json:"imported"`
	Totals   map[model.EntityType]int `json:"totals"`
}

// NewImportCommand creates the import command.
func NewImportCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "import <fixture.yaml>",
		Short: "Load records from a YAML fixture file",
		Long: `Load records into the database from a YAML document keyed by table
name. Rows are inserted in reference order inside one transaction; on any
error nothing is written. Rows without an id get a UUIDv7.

  employers:
    - {id: emp-acme, name: Acme Corp, is_current: true}
  projects:
    - {name: Alpha, client_id: cli-globex, tags: [web]}

Example:
  worklens import --db ./work.db fixtures.yaml`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(rootOpts, args[0], cmd)
		},
	}
}

func runImport(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	f, err := os.Open(path)
	if err != nil {
		_ = formatter.Error(ErrCodeNotFound, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to open fixtures", err)
	}
	defer f.Close()

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

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	counts, err := st.ImportFixtures(ctx, f)
	if err != nil {
		_ = formatter.Error(ErrCodeImportFailed, err.Error(), nil)
		return WrapExitError(ExitFailure, "import failed", err)
	}

	totals, err := st.Counts(ctx)
	if err != nil {
		_ = formatter.Error(ErrCodeDatabase, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to count records", err)
	}

	imported := 0
	lines := []string{}
	for _, et := range model.EntityTypes {
		if n, ok := counts[et]; ok {
			imported += n
			lines = append(lines, fmt.Sprintf("  %-13s +%-4d %d total", et, n, totals[et]))
		}
	}
	out := ImportOutput{Imported: counts, Totals: totals}
	return formatter.Result(out, fmt.Sprintf("Imported %d record(s) from %s", imported, path), lines)
}
