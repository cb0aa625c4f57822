package common

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlotUnmarshalJSON(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		input      string
		wantOK     bool
		wantName   string
		wantWeight float64
	}{
		{name: "null_is_empty", input: `null`},
		{name: "singleton_is_neighbor", input: `{"002": 1.5}`, wantOK: true, wantName: "002", wantWeight: 1.5},
		{name: "integer_weight", input: `{"003-HallA": 2}`, wantOK: true, wantName: "003-HallA", wantWeight: 2},
		{name: "empty_object_is_empty", input: `{}`},
		{name: "two_keys_is_empty", input: `{"002": 1, "003": 1}`},
		{name: "string_weight_is_empty", input: `{"002": "far"}`},
		{name: "plain_string_is_empty", input: `"002"`},
		{name: "array_is_empty", input: `[1, 2]`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var slot Slot
			require.NoError(t, json.Unmarshal([]byte(tc.input), &slot))

			name, weight, ok := slot.Neighbor()
			assert.Equal(t, tc.wantOK, ok)
			assert.Equal(t, tc.wantName, name)
			assert.Equal(t, tc.wantWeight, weight)
		})
	}
}

func TestAdjacencyJSON(t *testing.T) {
	t.Run("round_trip", func(t *testing.T) {
		in := `[null,{"002":1.5},null,null]`

		var adj Adjacency
		require.NoError(t, json.Unmarshal([]byte(in), &adj))
		assert.Equal(t, 1, adj.Populated())
		assert.True(t, adj.Declares("002"))

		out, err := json.Marshal(adj)
		require.NoError(t, err)
		assert.JSONEq(t, in, string(out))
	})

	t.Run("short_array_is_padded", func(t *testing.T) {
		var adj Adjacency
		require.NoError(t, json.Unmarshal([]byte(`[{"002":1}]`), &adj))

		assert.False(t, adj[Forward].IsEmpty())
		assert.True(t, adj[Back].IsEmpty())
		assert.True(t, adj[Left].IsEmpty())
		assert.True(t, adj[Right].IsEmpty())
	})

	t.Run("long_array_is_truncated", func(t *testing.T) {
		var adj Adjacency
		require.NoError(t, json.Unmarshal([]byte(`[null,null,null,{"004":1},{"005":1}]`), &adj))

		assert.Equal(t, 1, adj.Populated())
		assert.False(t, adj.Declares("005"))
	})

	t.Run("malformed_slots_are_dropped", func(t *testing.T) {
		var adj Adjacency
		require.NoError(t, json.Unmarshal([]byte(`[{},{"002":1,"003":1},{"004":2},null]`), &adj))

		assert.Equal(t, 1, adj.Populated())
		name, weight, ok := adj[Left].Neighbor()
		assert.True(t, ok)
		assert.Equal(t, "004", name)
		assert.Equal(t, 2.0, weight)
	})

	t.Run("not_an_array_fails", func(t *testing.T) {
		var adj Adjacency
		assert.Error(t, json.Unmarshal([]byte(`{"002":1}`), &adj))
	})
}

func TestMinimapIsUnset(t *testing.T) {
	var nilMap *Minimap
	assert.True(t, nilMap.IsUnset())

	sentinel := UnsetMinimap
	assert.True(t, sentinel.IsUnset())

	placed := &Minimap{Image: "floor1.png", X: 10, Y: 20}
	assert.False(t, placed.IsUnset())

	sameImageOtherPos := &Minimap{Image: "missing.png", X: 1, Y: 0}
	assert.False(t, sameImageOtherPos.IsUnset())
}

func TestDirectionString(t *testing.T) {
	assert.Equal(t, "forward", Forward.String())
	assert.Equal(t, "back", Back.String())
	assert.Equal(t, "left", Left.String())
	assert.Equal(t, "right", Right.String())
	assert.Equal(t, "unknown", Direction(7).String())
}

func TestParseAdjacency(t *testing.T) {
	t.Parallel()

	adj, err := ParseAdjacency([]byte(`[{"002": 1.5}, null]`))
	require.NoError(t, err)
	name, weight, ok := adj[Forward].Neighbor()
	assert.True(t, ok)
	assert.Equal(t, "002", name)
	assert.Equal(t, 1.5, weight)
	assert.Equal(t, 1, adj.Populated())

	adj, err = ParseAdjacency([]byte(`null`))
	require.NoError(t, err)
	assert.Equal(t, 0, adj.Populated())

	rejected := map[string]string{
		"string_weight":   `[{"002": "far"}, null, null, null]`,
		"null_weight":     `[null, {"002": null}]`,
		"two_keys":        `[{"002": 1, "003": 1}]`,
		"empty_object":    `[{}]`,
		"plain_string":    `["002"]`,
		"five_slots":      `[null, null, null, null, null]`,
		"object_not_list": `{"002": 1}`,
	}
	for name, input := range rejected {
		t.Run(name, func(t *testing.T) {
			_, err := ParseAdjacency([]byte(input))
			assert.ErrorIs(t, err, ErrMalformedAdjacency)
		})
	}
}
