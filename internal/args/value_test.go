package args

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromJSON_Scalars(t *testing.T) {
	tests := []struct {
		name string
		json string
		kind Kind
	}{
		{"null", `null`, KindNull},
		{"bool", `true`, KindBool},
		{"int", `42`, KindInt},
		{"negative int", `-7`, KindInt},
		{"float", `3.14`, KindFloat},
		{"exponent", `1e3`, KindFloat},
		{"string", `"hello"`, KindString},
		{"list", `[1,2]`, KindList},
		{"map", `{"a":1}`, KindMap},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := FromJSON([]byte(tt.json))
			require.NoError(t, err)
			assert.Equal(t, tt.kind, v.Kind())
		})
	}
}

func TestFromJSON_IntPayload(t *testing.T) {
	v, err := FromJSON([]byte(`9007199254740993`)) // above 2^53, must stay exact
	require.NoError(t, err)
	i, ok := v.AsInt()
	require.True(t, ok)
	assert.Equal(t, int64(9007199254740993), i)
}

func TestFromJSON_MapPreservesKeyOrder(t *testing.T) {
	v, err := FromJSON([]byte(`{"z":1,"a":2,"m":{"y":1,"b":2}}`))
	require.NoError(t, err)
	m, ok := v.AsMap()
	require.True(t, ok)
	assert.Equal(t, []string{"z", "a", "m"}, m.Keys())

	nested, ok := m.values["m"].AsMap()
	require.True(t, ok)
	assert.Equal(t, []string{"y", "b"}, nested.Keys())
}

func TestFromJSON_NestedList(t *testing.T) {
	v, err := FromJSON([]byte(`[1, 2.5, "x", [true], null]`))
	require.NoError(t, err)
	list, ok := v.AsList()
	require.True(t, ok)
	require.Len(t, list, 5)
	assert.Equal(t, KindInt, list[0].Kind())
	assert.Equal(t, KindFloat, list[1].Kind())
	assert.Equal(t, KindString, list[2].Kind())
	assert.Equal(t, KindList, list[3].Kind())
	assert.Equal(t, KindNull, list[4].Kind())
}

func TestFromJSON_Malformed(t *testing.T) {
	for _, bad := range []string{``, `{`, `[1,`, `{"a"}`, `1 2`, `{"a":1}extra`} {
		t.Run(bad, func(t *testing.T) {
			_, err := FromJSON([]byte(bad))
			assert.Error(t, err)
		})
	}
}

func TestFromJSONObject(t *testing.T) {
	m, err := FromJSONObject([]byte(`{"a":1}`))
	require.NoError(t, err)
	assert.Equal(t, 1, m.Len())

	m, err = FromJSONObject(nil)
	require.NoError(t, err)
	assert.Equal(t, 0, m.Len())

	m, err = FromJSONObject([]byte(`null`))
	require.NoError(t, err)
	assert.Equal(t, 0, m.Len())

	_, err = FromJSONObject([]byte(`[1,2]`))
	assert.Error(t, err)
}

func TestAsFloat_WidensInt(t *testing.T) {
	f, ok := Int(5).AsFloat()
	require.True(t, ok)
	assert.Equal(t, 5.0, f)

	_, ok = String("5").AsFloat()
	assert.False(t, ok)
}

func TestMap_SetGet(t *testing.T) {
	m := NewMap()
	m.Set("a", Int(1))
	m.Set("b", String("x"))
	m.Set("a", Int(2)) // repeated key keeps position

	assert.Equal(t, []string{"a", "b"}, m.Keys())
	v, ok := m.Get("a")
	require.True(t, ok)
	i, _ := v.AsInt()
	assert.Equal(t, int64(2), i)

	_, ok = m.Get("missing")
	assert.False(t, ok)
}

func TestMap_NilSafe(t *testing.T) {
	var m *Map
	_, ok := m.Get("a")
	assert.False(t, ok)
	assert.Equal(t, 0, m.Len())
	assert.Nil(t, m.Keys())
}
