package schema

import (
	"strings"

	"github.com/roach88/worklens/internal/model"
)

// FieldRef is a resolved field path.
type FieldRef struct {
	// Path is the external dot-path as requested.
	Path string

	// Prefix is the relationship prefix ("" for the queried entity itself).
	Prefix string

	// Entity owns the field: the queried entity or the chain's last hop.
	Entity model.EntityType

	// Field is the storage field after renaming.
	Field Field
}

// Hop is one join step along a relationship prefix.
type Hop struct {
	// Prefix is the path up to and including this hop, e.g. "project.client".
	Prefix string

	// Parent is the prefix this hop joins from ("" for the queried entity).
	Parent string

	From     model.EntityType
	Relation Relation
}

// ResolvePath resolves a dot-separated field path on et into a field
// reference and the chain of entity types that must be joined to reach it.
// The chain is empty for single-segment paths.
func (r *Registry) ResolvePath(et model.EntityType, path string) (FieldRef, []model.EntityType, error) {
	root, err := r.ModelFor(et)
	if err != nil {
		return FieldRef{}, nil, err
	}

	idx := strings.LastIndexByte(path, '.')
	if idx < 0 {
		f, err := r.lookupField(root, path)
		if err != nil {
			return FieldRef{}, nil, err
		}
		return FieldRef{Path: path, Entity: et, Field: f}, []model.EntityType{}, nil
	}

	prefix, name := path[:idx], path[idx+1:]
	chain, ok := r.paths[et][prefix]
	if !ok {
		return FieldRef{}, nil, model.NewRelationshipPathNotFoundError(et, prefix)
	}

	target := r.models[chain[len(chain)-1]]
	f, err := r.lookupField(target, name)
	if err != nil {
		return FieldRef{}, nil, err
	}

	out := make([]model.EntityType, len(chain))
	copy(out, chain)
	return FieldRef{Path: path, Prefix: prefix, Entity: target.Entity, Field: f}, out, nil
}

func (r *Registry) lookupField(m *Model, name string) (Field, error) {
	f, ok := m.fields[r.storageName(m.Entity, name)]
	if !ok {
		return Field{}, model.NewFieldNotFoundError(m.Entity, name)
	}
	return f, nil
}

// Hops expands a registered prefix into its join steps, ancestors first.
func (r *Registry) Hops(et model.EntityType, prefix string) ([]Hop, error) {
	root, err := r.ModelFor(et)
	if err != nil {
		return nil, err
	}
	if _, ok := r.paths[et][prefix]; !ok {
		return nil, model.NewRelationshipPathNotFoundError(et, prefix)
	}

	segments := strings.Split(prefix, ".")
	hops := make([]Hop, 0, len(segments))
	current := root
	parent := ""
	for i, seg := range segments {
		rel := current.relations[seg]
		path := strings.Join(segments[:i+1], ".")
		hops = append(hops, Hop{Prefix: path, Parent: parent, From: current.Entity, Relation: rel})
		current = r.models[rel.Target]
		parent = path
	}
	return hops, nil
}
