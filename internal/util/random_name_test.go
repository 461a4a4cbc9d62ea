package util

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRandomGameName(t *testing.T) {
	a := assert.New(t)

	random = rand.New(rand.NewSource(42)) // nolint:gosec
	name1 := RandomGameName()
	name2 := RandomGameName()

	random = rand.New(rand.NewSource(42)) // nolint:gosec
	a.Equal(name1, RandomGameName())
	a.Equal(name2, RandomGameName())

	a.Regexp(`^[A-Z][a-z]+ [A-Z][a-z]+$`, name1)
}
