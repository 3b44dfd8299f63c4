package contenthash

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSum_Deterministic(t *testing.T) {
	data := []byte("albedo texture payload")

	assert.Equal(t, Sum(data), Sum(data))

	// Unrelated calls in between must not affect the digest.
	_ = Sum([]byte("something else"))
	assert.Equal(t, Sum(data), Sum([]byte("albedo texture payload")))
}

func TestSum_DistinctContent(t *testing.T) {
	a := Sum([]byte("mesh-a"))
	b := Sum([]byte("mesh-b"))
	assert.NotEqual(t, a, b)
}

func TestSum_FixedWidth(t *testing.T) {
	assert.Len(t, Sum(nil), 16)
	assert.Len(t, Sum([]byte{0}), 16)
	assert.Len(t, Sum(make([]byte, 1<<16)), 16)
}
