package ptr

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTo(t *testing.T) {
	p := To("mit")
	assert.Equal(t, "mit", *p)

	n := To(32768)
	*n = 1
	assert.Equal(t, 1, *n)
}

func TestDeref(t *testing.T) {
	assert.Equal(t, "mit", Deref(To("mit"), "unknown"))
	assert.Equal(t, "unknown", Deref[string](nil, "unknown"))
}

func TestClone(t *testing.T) {
	assert.Nil(t, Clone[int](nil))

	orig := To(4096)
	c := Clone(orig)
	*c = 1
	assert.Equal(t, 4096, *orig)
}

func TestEqual(t *testing.T) {
	assert.True(t, Equal[int](nil, nil))
	assert.False(t, Equal(To(1), nil))
	assert.False(t, Equal(nil, To(1)))
	assert.True(t, Equal(To(1), To(1)))
	assert.False(t, Equal(To(1), To(2)))
}
