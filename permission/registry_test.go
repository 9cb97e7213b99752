package permission

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryAssignsSequentialBits(t *testing.T) {
	reg := NewRegistry(false)
	a, err := reg.Register("a")
	require.NoError(t, err)
	b, err := reg.Register("b")
	require.NoError(t, err)
	again, err := reg.Register("a")
	require.NoError(t, err)

	assert.Equal(t, 0, a)
	assert.Equal(t, 1, b)
	assert.Equal(t, a, again)
	name, ok := reg.Name(1)
	assert.True(t, ok)
	assert.Equal(t, "b", name)
}

func TestRegistryLimit(t *testing.T) {
	reg := NewRegistry(true)
	for i := 0; i < MaxBits-1; i++ {
		_, err := reg.Register(string(rune('A' + i)))
		require.NoError(t, err, "register %d", i)
	}
	_, err := reg.Register("overflow")
	assert.ErrorIs(t, err, ErrPermissionLimit)
	assert.Equal(t, MaxBits, reg.Count())
}

func TestRegistryRootBit(t *testing.T) {
	bit, ok := NewRegistry(true).RootBit()
	assert.True(t, ok)
	assert.Equal(t, MaxBits-1, bit)

	_, ok = NewRegistry(false).RootBit()
	assert.False(t, ok)
}

func TestRegistryFrozen(t *testing.T) {
	reg := NewRegistry(false)
	reg.Freeze()
	assert.True(t, reg.Frozen())
	_, err := reg.Register("late")
	assert.ErrorIs(t, err, ErrRegistryFrozen)
	_, err = reg.Register("")
	assert.Error(t, err)
}

func TestMaskBits(t *testing.T) {
	var m Mask
	m = m.Set(0).Set(5).Set(63).Set(64)
	assert.Equal(t, []int{0, 5, 63}, m.Bits())
	assert.True(t, m.Has(5, -1))
	m = m.Clear(5)
	assert.False(t, m.Has(5, -1))
	assert.True(t, m.Has(5, 63), "root bit grants every permission")
}
