package helpers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPtrAndSafeValue(t *testing.T) {
	p := Ptr("pizza")
	assert.Equal(t, "pizza", SafeValue(p))
	assert.Equal(t, "", SafeValue[string](nil))
	assert.Equal(t, 0.0, SafeValue[float64](nil))
}

func TestSafeLastN(t *testing.T) {
	s := []int{1, 2, 3, 4, 5}
	assert.Equal(t, []int{4, 5}, SafeLastN(s, 2))
	assert.Equal(t, s, SafeLastN(s, 10))
	assert.Empty(t, SafeLastN(s, 0))
}

func TestClamp(t *testing.T) {
	assert.Equal(t, 0.0, Clamp(-3.2, 0.0, 100.0))
	assert.Equal(t, 100.0, Clamp(104.5, 0.0, 100.0))
	assert.Equal(t, 42.0, Clamp(42.0, 0.0, 100.0))
	assert.Equal(t, 5, Clamp(5, 1, 10))
}
