package permission

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCacheSetAndQuery(t *testing.T) {
	c := NewCache(nil)
	require.NoError(t, c.Set([]string{"editor"}, []string{"doc.read", "doc.write"}))

	assert.True(t, c.Loaded())
	assert.Equal(t, []string{"editor"}, c.Roles())
	assert.True(t, c.HasRole("editor"))
	assert.True(t, c.Has("doc.read"))
	assert.True(t, c.Has("doc.write"))
	assert.False(t, c.Has("doc.delete"))
	assert.Equal(t, []string{"doc.read", "doc.write"}, c.Permissions())
}

func TestCacheRootGrantsEverything(t *testing.T) {
	reg := NewRegistry(true)
	_, err := reg.Register("billing.view")
	require.NoError(t, err)

	c := NewCache(reg)
	require.NoError(t, c.Set([]string{"admin"}, []string{RootPermission}))
	assert.True(t, c.Has("billing.view"))
	assert.False(t, c.Has("never.registered"))
}

func TestCacheFrozenRegistryRejectsUnknown(t *testing.T) {
	reg := NewRegistry(false)
	_, err := reg.Register("doc.read")
	require.NoError(t, err)
	reg.Freeze()

	c := NewCache(reg)
	require.NoError(t, c.Set([]string{"viewer"}, []string{"doc.read"}))

	err = c.Set([]string{"editor"}, []string{"doc.read", "doc.write"})
	require.ErrorIs(t, err, ErrUnknownPermission)
	assert.Equal(t, []string{"viewer"}, c.Roles(), "failed Set must not change the cache")
}

func TestCacheLogoutIdempotent(t *testing.T) {
	c := NewCache(nil)
	require.NoError(t, c.Set([]string{"editor"}, []string{"doc.read"}))
	v := c.Version()

	require.NoError(t, c.Logout(context.Background()))
	require.NoError(t, c.Logout(context.Background()))

	assert.False(t, c.Loaded())
	assert.Empty(t, c.Roles())
	assert.False(t, c.Has("doc.read"))
	assert.Greater(t, c.Version(), v)
}

func TestCacheRolesReturnsCopy(t *testing.T) {
	c := NewCache(nil)
	roles := []string{"editor"}
	require.NoError(t, c.Set(roles, nil))

	roles[0] = "mutated"
	got := c.Roles()
	got[0] = "mutated too"
	assert.Equal(t, []string{"editor"}, c.Roles())
}

func TestCacheConcurrentAccess(t *testing.T) {
	c := NewCache(nil)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				if i%2 == 0 {
					_ = c.Set([]string{"r"}, []string{"p"})
				} else {
					_ = c.Logout(context.Background())
				}
				_ = c.Has("p")
				_ = c.Roles()
			}
		}(i)
	}
	wg.Wait()
}
