package schema

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/roach88/worklens/internal/model"
)

// FieldKind is the storage type of a field.
type FieldKind string

const (
	KindText      FieldKind = "text"
	KindInt       FieldKind = "int"
	KindReal      FieldKind = "real"
	KindBool      FieldKind = "bool"
	KindDate      FieldKind = "date"
	KindTimestamp FieldKind = "timestamp"
	KindTags      FieldKind = "tags" // JSON array of strings
	KindRef       FieldKind = "ref"  // id of a related row
)

var fieldKinds = []FieldKind{KindText, KindInt, KindReal, KindBool, KindDate, KindTimestamp, KindTags, KindRef}

// Field describes one storage column.
type Field struct {
	Name string
	Kind FieldKind
}

// Relation is a to-one link from an entity to another through a local
// foreign key column.
type Relation struct {
	Name        string
	Target      model.EntityType
	LocalColumn string
}

// Definition declares one entity type. It is the input to New.
type Definition struct {
	Entity    model.EntityType
	Table     string
	Fields    []Field
	Relations []Relation

	// Renames maps external field names to storage field names. Relation
	// names are added automatically, mapping to their local column.
	Renames map[string]string

	// Paths maps a dot-path prefix to the chain of entity types it joins.
	Paths map[string][]model.EntityType
}

// Model is the registry handle for one entity type.
type Model struct {
	Entity    model.EntityType
	Table     string
	Fields    []Field
	fields    map[string]Field
	relations map[string]Relation
}

// Field returns the storage field with the given name.
func (m *Model) Field(name string) (Field, bool) {
	f, ok := m.fields[name]
	return f, ok
}

// Relation returns the relation with the given name.
func (m *Model) Relation(name string) (Relation, bool) {
	r, ok := m.relations[name]
	return r, ok
}

// Columns returns the storage column names in declaration order.
func (m *Model) Columns() []string {
	cols := make([]string, len(m.Fields))
	for i, f := range m.Fields {
		cols[i] = f.Name
	}
	return cols
}

// DefaultOrderField returns the field results are ordered by, descending,
// when the request imposes no order: created_at if present, else start_time,
// else none.
func (m *Model) DefaultOrderField() (string, bool) {
	for _, name := range []string{"created_at", "start_time"} {
		if _, ok := m.fields[name]; ok {
			return name, true
		}
	}
	return "", false
}

// PathTable maps a relationship prefix to its ordered join chain.
type PathTable map[string][]model.EntityType

// FieldNameMap maps external field names to storage field names.
type FieldNameMap map[string]string

// Registry is the validated, read-only schema.
type Registry struct {
	order   []model.EntityType
	models  map[model.EntityType]*Model
	byTable map[string]model.EntityType
	paths   map[model.EntityType]PathTable
	names   map[model.EntityType]FieldNameMap
}

// New validates the definitions and builds a registry.
func New(defs []Definition) (*Registry, error) {
	r := &Registry{
		models:  make(map[model.EntityType]*Model, len(defs)),
		byTable: make(map[string]model.EntityType, len(defs)),
		paths:   make(map[model.EntityType]PathTable, len(defs)),
		names:   make(map[model.EntityType]FieldNameMap, len(defs)),
	}

	for _, def := range defs {
		if err := r.addModel(def); err != nil {
			return nil, err
		}
	}

	// Targets and chains can only be checked once every model is known.
	for _, def := range defs {
		if err := r.linkModel(def); err != nil {
			return nil, err
		}
	}

	return r, nil
}

func (r *Registry) addModel(def Definition) error {
	if !def.Entity.Valid() {
		return fmt.Errorf("schema: unknown entity type %q", def.Entity)
	}
	if _, dup := r.models[def.Entity]; dup {
		return fmt.Errorf("schema: entity %s defined twice", def.Entity)
	}
	if def.Table == "" {
		return fmt.Errorf("schema: entity %s has no table", def.Entity)
	}
	if other, dup := r.byTable[def.Table]; dup {
		return fmt.Errorf("schema: table %s used by %s and %s", def.Table, other, def.Entity)
	}

	m := &Model{
		Entity:    def.Entity,
		Table:     def.Table,
		Fields:    slices.Clone(def.Fields),
		fields:    make(map[string]Field, len(def.Fields)),
		relations: make(map[string]Relation, len(def.Relations)),
	}
	for _, f := range def.Fields {
		if !slices.Contains(fieldKinds, f.Kind) {
			return fmt.Errorf("schema: %s.%s has unknown kind %q", def.Entity, f.Name, f.Kind)
		}
		if _, dup := m.fields[f.Name]; dup {
			return fmt.Errorf("schema: %s.%s declared twice", def.Entity, f.Name)
		}
		m.fields[f.Name] = f
	}
	if id, ok := m.fields["id"]; !ok || id.Kind != KindText {
		return fmt.Errorf("schema: %s must declare a text id field", def.Entity)
	}

	names := make(FieldNameMap, len(def.Renames)+len(def.Relations))
	for _, rel := range def.Relations {
		col, ok := m.fields[rel.LocalColumn]
		if !ok || col.Kind != KindRef {
			return fmt.Errorf("schema: %s relation %s: %s is not a ref field", def.Entity, rel.Name, rel.LocalColumn)
		}
		if _, dup := m.relations[rel.Name]; dup {
			return fmt.Errorf("schema: %s relation %s declared twice", def.Entity, rel.Name)
		}
		m.relations[rel.Name] = rel
		if rel.Name != rel.LocalColumn {
			names[rel.Name] = rel.LocalColumn
		}
	}
	for external, internal := range def.Renames {
		if _, ok := m.fields[internal]; !ok {
			return fmt.Errorf("schema: %s rename %s -> %s: no such field", def.Entity, external, internal)
		}
		if _, shadows := m.fields[external]; shadows {
			return fmt.Errorf("schema: %s rename %s shadows a storage field", def.Entity, external)
		}
		names[external] = internal
	}

	r.order = append(r.order, def.Entity)
	r.models[def.Entity] = m
	r.byTable[def.Table] = def.Entity
	r.names[def.Entity] = names
	return nil
}

func (r *Registry) linkModel(def Definition) error {
	m := r.models[def.Entity]
	for _, rel := range m.relations {
		if _, ok := r.models[rel.Target]; !ok {
			return fmt.Errorf("schema: %s relation %s targets undefined entity %s", def.Entity, rel.Name, rel.Target)
		}
	}

	table := make(PathTable, len(def.Paths))
	for prefix, chain := range def.Paths {
		segments := strings.Split(prefix, ".")
		if len(segments) != len(chain) {
			return fmt.Errorf("schema: %s path %q has %d segments but a chain of %d", def.Entity, prefix, len(segments), len(chain))
		}
		current := m
		for i, seg := range segments {
			rel, ok := current.relations[seg]
			if !ok {
				return fmt.Errorf("schema: %s path %q: %s has no relation %q", def.Entity, prefix, current.Entity, seg)
			}
			if rel.Target != chain[i] {
				return fmt.Errorf("schema: %s path %q: hop %d reaches %s, chain says %s", def.Entity, prefix, i, rel.Target, chain[i])
			}
			current = r.models[rel.Target]
		}
		table[prefix] = slices.Clone(chain)
	}

	// Every ancestor of a registered prefix must itself be registered so
	// joins can be emitted hop by hop.
	for prefix := range table {
		for i := strings.LastIndexByte(prefix, '.'); i > 0; i = strings.LastIndexByte(prefix[:i], '.') {
			if _, ok := table[prefix[:i]]; !ok {
				return fmt.Errorf("schema: %s path %q registered without its prefix %q", def.Entity, prefix, prefix[:i])
			}
		}
	}

	r.paths[def.Entity] = table
	return nil
}

// Entities returns the registered entity types in definition order.
func (r *Registry) Entities() []model.EntityType {
	return slices.Clone(r.order)
}

// ModelFor returns the handle for an entity type.
func (r *Registry) ModelFor(et model.EntityType) (*Model, error) {
	m, ok := r.models[et]
	if !ok {
		return nil, model.NewUnsupportedEntityTypeError(string(et))
	}
	return m, nil
}

// EntityTypeFor is the inverse of ModelFor, keyed by table name.
func (r *Registry) EntityTypeFor(table string) (model.EntityType, error) {
	et, ok := r.byTable[table]
	if !ok {
		return "", model.NewUnsupportedEntityTypeError(table)
	}
	return et, nil
}

// RelationshipPaths returns a copy of the entity's path table.
func (r *Registry) RelationshipPaths(et model.EntityType) (PathTable, error) {
	table, ok := r.paths[et]
	if !ok {
		return nil, model.NewUnsupportedEntityTypeError(string(et))
	}
	out := make(PathTable, len(table))
	for prefix, chain := range table {
		out[prefix] = slices.Clone(chain)
	}
	return out, nil
}

// FieldNameMap returns a copy of the entity's external-to-storage name map.
func (r *Registry) FieldNameMap(et model.EntityType) (FieldNameMap, error) {
	names, ok := r.names[et]
	if !ok {
		return nil, model.NewUnsupportedEntityTypeError(string(et))
	}
	return maps.Clone(names), nil
}

// Prefixes returns the entity's registered relationship prefixes, sorted.
func (r *Registry) Prefixes(et model.EntityType) []string {
	return slices.Sorted(maps.Keys(r.paths[et]))
}

// storageName applies the entity's rename map to an external field name.
func (r *Registry) storageName(et model.EntityType, name string) string {
	if internal, ok := r.names[et][name]; ok {
		return internal
	}
	return name
}
