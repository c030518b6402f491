package resetcode

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGenerator(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		gen, err := NewGenerator("", 0)

		require.NoError(t, err)
		assert.Equal(t, DefaultLength, gen.Length())
	})

	tests := []struct {
		name     string
		alphabet string
	}{
		{name: "lower-case characters", alphabet: "abcd"},
		{name: "duplicate characters", alphabet: "ABCA"},
		{name: "whitespace", alphabet: "AB C"},
		{name: "single character", alphabet: "A"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen, err := NewGenerator(tt.alphabet, 6)

			assert.Nil(t, gen)
			assert.True(t, errors.Is(err, ErrInvalidAlphabet))
		})
	}
}

func TestGenerator_Generate(t *testing.T) {
	gen, err := NewGenerator(DefaultAlphabet, DefaultLength)
	require.NoError(t, err)

	t.Run("produces codes from the alphabet", func(t *testing.T) {
		for i := 0; i < 200; i++ {
			code, err := gen.Generate(DefaultLength)
			require.NoError(t, err)

			assert.Len(t, code, DefaultLength)
			assert.True(t, gen.Valid(code))
			assert.False(t, strings.ContainsAny(code, "IO01"))
		}
	})

	t.Run("honours requested length", func(t *testing.T) {
		code, err := gen.Generate(12)

		require.NoError(t, err)
		assert.Len(t, code, 12)
	})

	t.Run("rejects non-positive length", func(t *testing.T) {
		_, err := gen.Generate(0)

		assert.Error(t, err)
	})

	t.Run("codes differ", func(t *testing.T) {
		seen := make(map[string]struct{})
		for i := 0; i < 50; i++ {
			code, err := gen.Generate(DefaultLength)
			require.NoError(t, err)
			seen[code] = struct{}{}
		}

		assert.Greater(t, len(seen), 45)
	})
}

func TestGenerator_Valid(t *testing.T) {
	gen, err := NewGenerator("ABC234", 6)
	require.NoError(t, err)

	assert.True(t, gen.Valid("ABC234"))
	assert.True(t, gen.Valid("abc234"))
	assert.True(t, gen.Valid(" a2b3c4 "))
	assert.False(t, gen.Valid("ABC23"))
	assert.False(t, gen.Valid("ABC2345"))
	assert.False(t, gen.Valid("ABCDEF"))
	assert.False(t, gen.Valid(""))
}
