package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStringList_Scan(t *testing.T) {
	t.Run("ValidJSONArray", func(t *testing.T) {
		var l StringList
		err := l.Scan([]byte(`["recyclable","hazardous"]`))
		require.NoError(t, err)
		assert.Equal(t, StringList{"recyclable", "hazardous"}, l)
	})

	t.Run("StringSource", func(t *testing.T) {
		var l StringList
		err := l.Scan(`["clean"]`)
		require.NoError(t, err)
		assert.Equal(t, StringList{"clean"}, l)
	})

	t.Run("CorruptedDataDegradesToEmpty", func(t *testing.T) {
		var l StringList
		err := l.Scan([]byte(`{"not":"an array`))
		require.NoError(t, err)
		assert.Empty(t, l)
		assert.NotNil(t, l)
	})

	t.Run("NullColumnDegradesToEmpty", func(t *testing.T) {
		var l StringList
		err := l.Scan(nil)
		require.NoError(t, err)
		assert.Empty(t, l)
	})

	t.Run("JSONNullDegradesToEmpty", func(t *testing.T) {
		var l StringList
		err := l.Scan([]byte(`null`))
		require.NoError(t, err)
		assert.Empty(t, l)
		assert.NotNil(t, l)
	})

	t.Run("UnsupportedSourceType", func(t *testing.T) {
		var l StringList
		err := l.Scan(42)
		assert.Error(t, err)
	})
}

func TestStringList_Value(t *testing.T) {
	t.Run("NilEncodesAsEmptyArray", func(t *testing.T) {
		var l StringList
		v, err := l.Value()
		require.NoError(t, err)
		assert.Equal(t, `[]`, v)
	})

	t.Run("RoundTrip", func(t *testing.T) {
		l := StringList{"biodegradable", "wet"}
		v, err := l.Value()
		require.NoError(t, err)

		var back StringList
		require.NoError(t, back.Scan(v))
		assert.Equal(t, l, back)
	})
}

func TestStringList_Contains(t *testing.T) {
	l := StringList{"recyclable", "clean"}
	assert.True(t, l.Contains("clean"))
	assert.False(t, l.Contains("hazardous"))
}
