package permission

import (
	"errors"
	"sync"
)

// RootPermission is the name bound to the reserved root bit.
const RootPermission = "*"

var (
	// ErrRegistryFrozen is returned when registering into a frozen registry.
	ErrRegistryFrozen = errors.New("registry frozen")
	// ErrPermissionLimit is returned when all bits are assigned.
	ErrPermissionLimit = errors.New("permission limit exceeded")
	// ErrUnknownPermission is returned for names a frozen registry lacks.
	ErrUnknownPermission = errors.New("permission not registered")
)

// Registry maps permission names to bit positions within a [Mask].
type Registry struct {
	rootReserved bool
	rootBit      int

	mu        sync.RWMutex
	nameToBit map[string]int
	bitToName map[int]string
	frozen    bool
}

// NewRegistry creates a Registry. rootReserved binds the highest bit to
// [RootPermission].
func NewRegistry(rootReserved bool) *Registry {
	r := &Registry{
		rootReserved: rootReserved,
		rootBit:      -1,
		nameToBit:    make(map[string]int),
		bitToName:    make(map[int]string),
	}
	if rootReserved {
		r.rootBit = MaxBits - 1
		r.nameToBit[RootPermission] = r.rootBit
		r.bitToName[r.rootBit] = RootPermission
	}
	return r
}

// Register assigns the next free bit to name, or returns the existing bit.
func (r *Registry) Register(name string) (int, error) {
	if name == "" {
		return -1, errors.New("permission name cannot be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if bit, ok := r.nameToBit[name]; ok {
		return bit, nil
	}
	if r.frozen {
		return -1, ErrRegistryFrozen
	}

	limit := MaxBits
	if r.rootReserved {
		limit = r.rootBit
	}
	next := len(r.bitToName)
	if r.rootReserved {
		next-- // root is already in the maps
	}
	if next >= limit {
		return -1, ErrPermissionLimit
	}

	r.nameToBit[name] = next
	r.bitToName[next] = name
	return next, nil
}

// Bit returns the bit for name.
func (r *Registry) Bit(name string) (int, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	bit, ok := r.nameToBit[name]
	return bit, ok
}

// Name returns the permission bound to bit.
func (r *Registry) Name(bit int) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	name, ok := r.bitToName[bit]
	return name, ok
}

// Freeze prevents further registrations.
func (r *Registry) Freeze() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.frozen = true
}

// Frozen reports whether Freeze was called.
func (r *Registry) Frozen() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.frozen
}

// Count returns the number of registered permissions, root included.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.nameToBit)
}

// RootBit returns the reserved root bit, or -1 and false.
func (r *Registry) RootBit() (int, bool) {
	if !r.rootReserved {
		return -1, false
	}
	return r.rootBit, true
}
