package resolve_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shpitdev/syndigo-attribute-checker/pkg/pipeline/core"
	"github.com/shpitdev/syndigo-attribute-checker/pkg/pipeline/resolve"
)

func TestFlat(t *testing.T) {
	got := resolve.Flat(" finishedgood ", []string{"color", "", "size", "color", "  ", " weight", "size"})
	assert.Equal(t, []core.WorkItem{
		{Entity: "finishedgood", Attribute: "color"},
		{Entity: "finishedgood", Attribute: "size"},
		{Entity: "finishedgood", Attribute: "weight"},
	}, got)
}

func TestFlat_CountMatchesDistinctNonBlank(t *testing.T) {
	in := []string{"b", "a", "b", "", "c", "a", "d"}
	got := resolve.Flat("sku", in)
	require.Len(t, got, 4)
	assert.Equal(t, "b", got[0].Attribute)
	assert.Equal(t, "a", got[1].Attribute)
}

func TestRelationship(t *testing.T) {
	pairs := []resolve.Pair{
		{Entity: "sku", Attribute: "weight"},
		{Entity: "finishedgood", Attribute: "size"},
		{Entity: "sku", Attribute: "color"},
		{Entity: "finishedgood", Attribute: "color"},
		{Entity: "finishedgood", Attribute: "size"},
		{Entity: "", Attribute: "orphan"},
		{Entity: "sku", Attribute: ""},
	}

	t.Run("all entities", func(t *testing.T) {
		got, err := resolve.Relationship(pairs, "all")
		require.NoError(t, err)
		assert.Equal(t, []core.WorkItem{
			{Entity: "finishedgood", Attribute: "color"},
			{Entity: "finishedgood", Attribute: "size"},
			{Entity: "sku", Attribute: "color"},
			{Entity: "sku", Attribute: "weight"},
		}, got)
	})

	t.Run("empty filter means all", func(t *testing.T) {
		got, err := resolve.Relationship(pairs, "")
		require.NoError(t, err)
		assert.Len(t, got, 4)
	})

	t.Run("single entity", func(t *testing.T) {
		got, err := resolve.Relationship(pairs, "sku")
		require.NoError(t, err)
		assert.Equal(t, []core.WorkItem{
			{Entity: "sku", Attribute: "color"},
			{Entity: "sku", Attribute: "weight"},
		}, got)
	})

	t.Run("unknown entity is a config error", func(t *testing.T) {
		_, err := resolve.Relationship(pairs, "bundle")
		var ce *core.ConfigError
		require.True(t, errors.As(err, &ce), "got %v", err)
	})
}

func TestSelectsAll(t *testing.T) {
	assert.True(t, resolve.SelectsAll(""))
	assert.True(t, resolve.SelectsAll(" ALL "))
	assert.False(t, resolve.SelectsAll("sku"))
}
