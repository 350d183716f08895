package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashDeterminism(t *testing.T) {
	a, err := Hash(DomainPlan, map[string]any{"entity": "work_session", "limit": 10})
	require.NoError(t, err)
	b, err := Hash(DomainPlan, map[string]any{"limit": 10, "entity": "work_session"})
	require.NoError(t, err)
	assert.Equal(t, a, b)
	assert.Len(t, a, 64)
}

func TestHashDomainSeparation(t *testing.T) {
	a, err := Hash(DomainPlan, []string{"project"})
	require.NoError(t, err)
	b, err := Hash(DomainJoinSet, []string{"project"})
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestHashWithDomainNullSeparator(t *testing.T) {
	// "ab" + "c" must not collide with "a" + "bc"
	assert.NotEqual(t, hashWithDomain("ab", []byte("c")), hashWithDomain("a", []byte("bc")))
}

func TestHashError(t *testing.T) {
	_, err := Hash(DomainPlan, struct{}{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), DomainPlan)
}
