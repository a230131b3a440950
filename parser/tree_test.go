package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTree(t *testing.T) {
	t.Run("pointer case becomes a Pointer leaf", func(t *testing.T) {
		got := Tree(NewRef[Schema]("#/components/schemas/Pet"))
		assert.Equal(t, Pointer("#/components/schemas/Pet"), got)
	})

	t.Run("concrete case mirrors JSON", func(t *testing.T) {
		minLen := 0
		s := &Schema{
			Type:      "object",
			MinLength: &minLen,
			Required:  []string{"id"},
			Properties: map[string]*RefOr[Schema]{
				"id":    NewValue(&Schema{Type: "integer"}),
				"owner": NewRef[Schema]("#/components/schemas/Owner"),
			},
			Extra: map[string]any{"x-go-type": "Pet"},
		}
		want := map[string]any{
			"type":      "object",
			"minLength": float64(0),
			"required":  []any{"id"},
			"properties": map[string]any{
				"id":    map[string]any{"type": "integer"},
				"owner": Pointer("#/components/schemas/Owner"),
			},
			"x-go-type": "Pet",
		}
		assert.Equal(t, want, Tree(NewValue(s)))
	})

	t.Run("path item $ref stays a string", func(t *testing.T) {
		got := Tree(&PathItem{Ref: "#/paths/~1a"})
		assert.Equal(t, map[string]any{"$ref": "#/paths/~1a"}, got)
	})

	t.Run("$ref inside example data stays data", func(t *testing.T) {
		ex := &Example{Value: map[string]any{"$ref": "not a pointer"}}
		got := Tree(ex)
		require.IsType(t, map[string]any{}, got)
		assert.Equal(t, map[string]any{"$ref": "not a pointer"}, got.(map[string]any)["value"])
	})

	t.Run("additionalProperties forms", func(t *testing.T) {
		no := false
		assert.Equal(t, false, Tree(&AdditionalProperties{Allowed: &no}))
		assert.Equal(t, Pointer("#/components/schemas/V"),
			Tree(&AdditionalProperties{Schema: NewRef[Schema]("#/components/schemas/V")}))
	})

	t.Run("nil values", func(t *testing.T) {
		assert.Nil(t, Tree(nil))
		assert.Nil(t, Tree((*Schema)(nil)))
		assert.Nil(t, Tree((*RefOr[Schema])(nil)))
	})

	t.Run("tree equality matches decoded equality", func(t *testing.T) {
		a, err := ParseBytes([]byte(petsYAML))
		require.NoError(t, err)
		b, err := ParseBytes([]byte(petsYAML))
		require.NoError(t, err)
		assert.Equal(t, Tree(a.Components.Schemas["Pet"]), Tree(b.Components.Schemas["Pet"]))
	})
}

func TestPointerIsInternal(t *testing.T) {
	assert.True(t, Pointer("#/components/schemas/A").IsInternal())
	assert.False(t, Pointer("other.yaml#/components/schemas/A").IsInternal())
}

func TestRefOrJSON(t *testing.T) {
	var r RefOr[Schema]
	require.NoError(t, r.UnmarshalJSON([]byte(`{"$ref":"#/components/schemas/A","description":"alias"}`)))
	assert.True(t, r.IsRef())
	assert.Equal(t, "alias", r.Extra["description"])

	data, err := r.MarshalJSON()
	require.NoError(t, err)
	assert.JSONEq(t, `{"$ref":"#/components/schemas/A","description":"alias"}`, string(data))

	var v RefOr[Schema]
	require.NoError(t, v.UnmarshalJSON([]byte(`{"type":"string"}`)))
	assert.False(t, v.IsRef())
	require.NotNil(t, v.Value)
	assert.Equal(t, "string", v.Value.Type)
}
