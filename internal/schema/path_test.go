package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/worklens/internal/model"
)

func TestResolveSingleSegmentPathsHaveEmptyChain(t *testing.T) {
	r := Default()

	for _, et := range r.Entities() {
		m, err := r.ModelFor(et)
		require.NoError(t, err)
		for _, f := range m.Fields {
			ref, chain, err := r.ResolvePath(et, f.Name)
			require.NoError(t, err, "%s.%s", et, f.Name)
			assert.NotNil(t, chain)
			assert.Empty(t, chain)
			assert.Equal(t, et, ref.Entity)
			assert.Equal(t, f, ref.Field)
			assert.Empty(t, ref.Prefix)
		}
	}
}

func TestResolveMultiSegmentPathsMatchRegisteredChain(t *testing.T) {
	r := Default()

	for _, et := range r.Entities() {
		paths, err := r.RelationshipPaths(et)
		require.NoError(t, err)
		for prefix, want := range paths {
			ref, chain, err := r.ResolvePath(et, prefix+".id")
			require.NoError(t, err, "%s %s", et, prefix)
			assert.Equal(t, want, chain)
			assert.Equal(t, want[len(want)-1], ref.Entity)
			assert.Equal(t, prefix, ref.Prefix)
			assert.Equal(t, "id", ref.Field.Name)
		}
	}
}

func TestResolvePath(t *testing.T) {
	r := Default()

	tests := []struct {
		name      string
		entity    model.EntityType
		path      string
		wantField string
		wantKind  FieldKind
		wantOwner model.EntityType
		wantChain []model.EntityType
		wantCode  model.ErrorCode
	}{
		{"own field", model.EntityWorkSession, "duration_hours", "duration_hours", KindReal, model.EntityWorkSession, []model.EntityType{}, ""},
		{"renamed relation field", model.EntityWorkSession, "on_behalf_of", "on_behalf_of_id", KindRef, model.EntityWorkSession, []model.EntityType{}, ""},
		{"renamed own field", model.EntityNote, "content", "body", KindText, model.EntityNote, []model.EntityType{}, ""},
		{"joined field", model.EntityWorkSession, "project.name", "name", KindText, model.EntityProject, []model.EntityType{model.EntityProject}, ""},
		{"renamed joined field", model.EntityProject, "client.client_type", "type", KindText, model.EntityClient, []model.EntityType{model.EntityClient}, ""},
		{"deep path", model.EntityWorkSession, "project.client.employer.name", "name", KindText, model.EntityEmployer,
			[]model.EntityType{model.EntityProject, model.EntityClient, model.EntityEmployer}, ""},
		{"aliased relation", model.EntityWorkSession, "on_behalf_of.email", "email", KindText, model.EntityPerson, []model.EntityType{model.EntityPerson}, ""},
		{"unknown field", model.EntityWorkSession, "colour", "", "", "", nil, model.ErrCodeFieldNotFound},
		{"empty path", model.EntityWorkSession, "", "", "", "", nil, model.ErrCodeFieldNotFound},
		{"unknown joined field", model.EntityWorkSession, "project.colour", "", "", "", nil, model.ErrCodeFieldNotFound},
		{"unregistered prefix", model.EntityWorkSession, "client.name", "", "", "", nil, model.ErrCodeRelationshipPathNotFound},
		{"empty segment", model.EntityWorkSession, "project..name", "", "", "", nil, model.ErrCodeRelationshipPathNotFound},
		{"employer has no paths", model.EntityEmployer, "client.name", "", "", "", nil, model.ErrCodeRelationshipPathNotFound},
		{"unknown entity", "invoice", "id", "", "", "", nil, model.ErrCodeUnsupportedEntityType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ref, chain, err := r.ResolvePath(tt.entity, tt.path)
			if tt.wantCode != "" {
				require.Error(t, err)
				assert.Equal(t, tt.wantCode, model.CodeOf(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.path, ref.Path)
			assert.Equal(t, tt.wantField, ref.Field.Name)
			assert.Equal(t, tt.wantKind, ref.Field.Kind)
			assert.Equal(t, tt.wantOwner, ref.Entity)
			assert.Equal(t, tt.wantChain, chain)
		})
	}
}

func TestResolvePathIsDeterministic(t *testing.T) {
	r := Default()
	ref1, chain1, err := r.ResolvePath(model.EntityMeeting, "organizer.employer.name")
	require.NoError(t, err)
	ref2, chain2, err := r.ResolvePath(model.EntityMeeting, "organizer.employer.name")
	require.NoError(t, err)
	assert.Equal(t, ref1, ref2)
	assert.Equal(t, chain1, chain2)

	chain1[0] = model.EntityNote
	_, chain3, _ := r.ResolvePath(model.EntityMeeting, "organizer.employer.name")
	assert.Equal(t, model.EntityPerson, chain3[0])
}

func TestHops(t *testing.T) {
	r := Default()

	hops, err := r.Hops(model.EntityWorkSession, "project.client.employer")
	require.NoError(t, err)
	require.Len(t, hops, 3)

	assert.Equal(t, Hop{Prefix: "project", Parent: "", From: model.EntityWorkSession,
		Relation: Relation{"project", model.EntityProject, "project_id"}}, hops[0])
	assert.Equal(t, Hop{Prefix: "project.client", Parent: "project", From: model.EntityProject,
		Relation: Relation{"client", model.EntityClient, "client_id"}}, hops[1])
	assert.Equal(t, Hop{Prefix: "project.client.employer", Parent: "project.client", From: model.EntityClient,
		Relation: Relation{"employer", model.EntityEmployer, "employer_id"}}, hops[2])

	_, err = r.Hops(model.EntityWorkSession, "client")
	assert.True(t, model.IsCode(err, model.ErrCodeRelationshipPathNotFound))
}
