package di

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInstanceKey_Equality(t *testing.T) {
	a := NewInstanceKey("Logger")
	b := NewInstanceKey("Logger")
	assert.Equal(t, a, b)
	assert.Equal(t, a.Hash(), b.Hash())

	withParams := NewInstanceKey("Logger", "Int")
	assert.NotEqual(t, a, withParams)
	assert.NotEqual(t, a.Hash(), withParams.Hash())

	ordered := NewInstanceKey("Logger", "Int", "String")
	reordered := NewInstanceKey("Logger", "String", "Int")
	assert.NotEqual(t, ordered, reordered)
}

func TestInstanceKey_SeparatorIsNotAmbiguous(t *testing.T) {
	// ("A", "B,C") must differ from ("A", "B", "C") even though naive
	// joining on a comma would collapse them.
	joined := NewInstanceKey("A", "B,C")
	split := NewInstanceKey("A", "B", "C")
	assert.NotEqual(t, joined, split)
	assert.NotEqual(t, joined.Hash(), split.Hash())
}

func TestInstanceKey_Accessors(t *testing.T) {
	key := NewInstanceKey("MovieManaging", "Int", "String")
	assert.Equal(t, "MovieManaging", key.AbstractType())
	assert.Equal(t, []string{"Int", "String"}, key.ParameterTypes())
	assert.Equal(t, "MovieManaging(Int, String)", key.String())

	bare := NewInstanceKey("Logger")
	assert.Nil(t, bare.ParameterTypes())
	assert.Equal(t, "Logger", bare.String())
}
