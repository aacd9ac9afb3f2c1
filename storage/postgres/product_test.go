package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVectorTextFormat(t *testing.T) {
	t.Run("round trip", func(t *testing.T) {
		original := []float32{0.5, -1.25, 0, 3}
		text := formatVector(original)
		assert.Equal(t, "[0.5,-1.25,0,3]", text)

		parsed, err := parseVector(&text)
		require.NoError(t, err)
		assert.Equal(t, original, parsed)
	})

	t.Run("null maps to nil", func(t *testing.T) {
		parsed, err := parseVector(nil)
		require.NoError(t, err)
		assert.Nil(t, parsed)
	})

	t.Run("empty brackets map to nil", func(t *testing.T) {
		empty := "[]"
		parsed, err := parseVector(&empty)
		require.NoError(t, err)
		assert.Nil(t, parsed)
	})

	t.Run("bad element", func(t *testing.T) {
		bad := "[1,abc]"
		_, err := parseVector(&bad)
		assert.Error(t, err)
	})
}

func TestVectorParamNull(t *testing.T) {
	assert.Nil(t, vectorParam(nil))
	assert.Nil(t, vectorParam([]float32{}))

	param := vectorParam([]float32{1, 2})
	require.NotNil(t, param)
	assert.Equal(t, "[1,2]", *param)
}
