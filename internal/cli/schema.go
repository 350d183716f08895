package cli

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/roach88/worklens/internal/model"
	"github.com/roach88/worklens/internal/schema"
)

// EntitySchema describes one entity type for the schema command.
type EntitySchema struct {
	Entity   model.EntityType    `json:"entity"`
	Table    string              `json:"table"`
	Fields   []FieldSchema       `json:"fields"`
	Renames  map[string]string   `json:"renames"`
	Paths    map[string][]string `json:"paths"`
	Ordering string              `json:"default_order,omitempty"`
}

// FieldSchema is one storage field.
type FieldSchema struct {
	Name string `json:"name"`
	Kind string `json:"kind"`
}

// NewSchemaCommand creates the schema command.
func NewSchemaCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "schema [entity]",
		Short: "List queryable entities, fields and relationship paths",
		Long: `Without arguments, list the queryable entity types. With an entity type,
show its fields, external field names and relationship paths.

Example:
  worklens schema
  worklens schema work_session --format json`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSchema(rootOpts, args, cmd)
		},
	}
}

func runSchema(opts *RootOptions, args []string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)
	registry := schema.Default()

	if len(args) == 0 {
		entities := registry.Entities()
		lines := make([]string, len(entities))
		for i, et := range entities {
			m, _ := registry.ModelFor(et)
			lines[i] = fmt.Sprintf("  %-13s %s", et, m.Table)
		}
		return formatter.Result(entities, fmt.Sprintf("%d entity types", len(entities)), lines)
	}

	et, err := model.ParseEntityType(args[0])
	if err != nil {
		return formatter.QueryError("unknown entity", err)
	}
	desc, err := describeEntity(registry, et)
	if err != nil {
		return formatter.QueryError("unknown entity", err)
	}
	return formatter.Result(desc, fmt.Sprintf("%s (table %s)", desc.Entity, desc.Table), entityLines(desc))
}

func describeEntity(registry *schema.Registry, et model.EntityType) (*EntitySchema, error) {
	m, err := registry.ModelFor(et)
	if err != nil {
		return nil, err
	}
	renames, err := registry.FieldNameMap(et)
	if err != nil {
		return nil, err
	}
	paths, err := registry.RelationshipPaths(et)
	if err != nil {
		return nil, err
	}

	desc := &EntitySchema{
		Entity:  et,
		Table:   m.Table,
		Renames: map[string]string(renames),
		Paths:   make(map[string][]string, len(paths)),
	}
	for _, f := range m.Fields {
		desc.Fields = append(desc.Fields, FieldSchema{Name: f.Name, Kind: string(f.Kind)})
	}
	for prefix, chain := range paths {
		names := make([]string, len(chain))
		for i, c := range chain {
			names[i] = string(c)
		}
		desc.Paths[prefix] = names
	}
	if name, ok := m.DefaultOrderField(); ok {
		desc.Ordering = name + " desc"
	}
	return desc, nil
}

func entityLines(desc *EntitySchema) []string {
	lines := []string{"Fields:"}
	for _, f := range desc.Fields {
		lines = append(lines, fmt.Sprintf("  %-16s %s", f.Name, f.Kind))
	}

	if len(desc.Renames) > 0 {
		lines = append(lines, "Field names:")
		names := make([]string, 0, len(desc.Renames))
		for name := range desc.Renames {
			names = append(names, name)
		}
		slices.Sort(names)
		for _, name := range names {
			lines = append(lines, fmt.Sprintf("  %-16s -> %s", name, desc.Renames[name]))
		}
	}

	if len(desc.Paths) > 0 {
		lines = append(lines, "Paths:")
		prefixes := make([]string, 0, len(desc.Paths))
		for p := range desc.Paths {
			prefixes = append(prefixes, p)
		}
		slices.Sort(prefixes)
		for _, p := range prefixes {
			lines = append(lines, fmt.Sprintf("  %-24s %v", p, desc.Paths[p]))
		}
	}

	if desc.Ordering != "" {
		lines = append(lines, "Default order: "+desc.Ordering)
	}
	return lines
}
