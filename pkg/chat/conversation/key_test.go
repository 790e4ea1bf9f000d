package conversation

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestDeriveIsSymmetric(t *testing.T) {
	for i := 0; i < 50; i++ {
		a := uuid.New()
		b := uuid.New()
		assert.Equal(t, Derive(a, b), Derive(b, a))
	}
}

func TestDeriveDistinctPairsDistinctKeys(t *testing.T) {
	a := uuid.New()
	b := uuid.New()
	c := uuid.New()

	assert.NotEqual(t, Derive(a, b), Derive(a, c))
	assert.NotEqual(t, Derive(a, b), Derive(b, c))
}

func TestMatches(t *testing.T) {
	a := uuid.New()
	b := uuid.New()
	c := uuid.New()

	key := Derive(a, b)
	assert.True(t, key.Matches(a, b))
	assert.True(t, key.Matches(b, a))
	assert.False(t, key.Matches(a, c))
	assert.False(t, key.Matches(c, b))
}
