package cli

import (
	"fmt"
	"io"
	"log/slog"
	"slices"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/worklens/internal/config"
	"github.com/roach88/worklens/internal/service"
	"github.com/roach88/worklens/internal/store"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose   bool
	Format    string // "json" | "text"
	ConfigDir string
	Database  string // overrides database.path when set

	// Clock and IDs override the service defaults (for testing).
	Clock func() time.Time
	IDs   service.IDGenerator

	cfg *config.Config
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the worklens CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "worklens",
		Short: "worklens - structured queries over tracked work",
		Long: `Query work sessions, meetings, projects, clients, people, employers,
notes and reminders with structured filter and aggregation requests.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			if _, err := opts.Config(); err != nil {
				return WrapExitError(ExitCommandError, "failed to load config", err)
			}
			return nil
		},
	}

	// Global flags
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.ConfigDir, "config", "", "directory containing worklens.yaml")
	cmd.PersistentFlags().StringVar(&opts.Database, "db", "", "path to SQLite database (overrides config)")

	// Add subcommands
	cmd.AddCommand(NewQueryCommand(opts))
	cmd.AddCommand(NewPlanCommand(opts))
	cmd.AddCommand(NewValidateCommand(opts))
	cmd.AddCommand(NewSchemaCommand(opts))
	cmd.AddCommand(NewImportCommand(opts))
	cmd.AddCommand(NewTimesheetCommand(opts))

	return cmd
}

// Config loads configuration once and applies flag overrides.
func (o *RootOptions) Config() (config.Config, error) {
	if o.cfg == nil {
		cfg, err := config.Load(o.ConfigDir)
		if err != nil {
			return config.Config{}, err
		}
		if o.Database != "" {
			cfg.Database.Path = o.Database
		}
		o.cfg = &cfg
	}
	return *o.cfg, nil
}

// Logger builds a text logger on w at the configured level; --verbose
// lowers it to Debug.
func (o *RootOptions) Logger(w io.Writer) *slog.Logger {
	level := slog.LevelInfo
	if cfg, err := o.Config(); err == nil {
		if l, err := cfg.LogLevel(); err == nil {
			level = l
		}
	}
	if o.Verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// newService builds a Service over storage with configured limits, timezone
// and logging.
func (o *RootOptions) newService(storage service.Storage, logOut io.Writer) (*service.Service, error) {
	cfg, err := o.Config()
	if err != nil {
		return nil, err
	}
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}
	return service.New(storage, service.Options{
		DefaultLimit: cfg.Query.DefaultLimit,
		MaxLimit:     cfg.Query.MaxLimit,
		Clock:        o.Clock,
		Location:     loc,
		IDs:          o.IDs,
		Logger:       o.Logger(logOut),
	}), nil
}

// openStore opens the configured database.
func (o *RootOptions) openStore() (*store.Store, error) {
	cfg, err := o.Config()
	if err != nil {
		return nil, err
	}
	return store.Open(cfg.Database.Path)
}

// formatter builds the output formatter for cmd.
func (o *RootOptions) formatter(cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    o.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(), // Verbose logs go to stderr to avoid corrupting JSON
		Verbose:   o.Verbose,
	}
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	return slices.Contains(ValidFormats, format)
}
