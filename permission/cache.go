package permission

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
)

// Cache holds the roles and permission mask of the signed-in client.
//
// Cache is safe for concurrent use.
type Cache struct {
	registry *Registry

	mu      sync.RWMutex
	roles   []string
	mask    Mask
	loaded  bool
	version uint64
}

// NewCache creates a Cache over registry. A nil registry gets an open one
// with root reservation, so any permission name is accepted until 63 are
// known.
func NewCache(registry *Registry) *Cache {
	if registry == nil {
		registry = NewRegistry(true)
	}
	return &Cache{registry: registry}
}

// Set replaces the cached roles and permissions. With a frozen registry an
// unknown permission fails the whole call and leaves the cache unchanged.
func (c *Cache) Set(roles, permissions []string) error {
	var mask Mask
	for _, perm := range permissions {
		bit, ok := c.registry.Bit(perm)
		if !ok {
			var err error
			bit, err = c.registry.Register(perm)
			if err != nil {
				if errors.Is(err, ErrRegistryFrozen) {
					err = ErrUnknownPermission
				}
				return fmt.Errorf("%w: %s", err, perm)
			}
		}
		mask = mask.Set(bit)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.roles = slices.Clone(roles)
	c.mask = mask
	c.loaded = true
	c.version++
	return nil
}

// Roles returns a copy of the cached roles.
func (c *Cache) Roles() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.roles)
}

// HasRole reports whether role is cached.
func (c *Cache) HasRole(role string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Contains(c.roles, role)
}

// Has reports whether perm is granted.
func (c *Cache) Has(perm string) bool {
	bit, ok := c.registry.Bit(perm)
	if !ok {
		return false
	}
	rootBit, _ := c.registry.RootBit()

	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.mask.Has(bit, rootBit)
}

// Permissions returns the granted permission names in bit order.
func (c *Cache) Permissions() []string {
	c.mu.RLock()
	mask := c.mask
	c.mu.RUnlock()

	bits := mask.Bits()
	out := make([]string, 0, len(bits))
	for _, bit := range bits {
		if name, ok := c.registry.Name(bit); ok {
			out = append(out, name)
		}
	}
	return out
}

// Loaded reports whether Set was called since the last Logout.
func (c *Cache) Loaded() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loaded
}

// Version increases on every Set and Logout. Readers holding derived state
// compare versions to notice a change.
func (c *Cache) Version() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.version
}

// Logout drops all roles and permissions. It never fails and is safe to call
// repeatedly.
func (c *Cache) Logout(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.roles = nil
	c.mask = 0
	c.loaded = false
	c.version++
	return nil
}
