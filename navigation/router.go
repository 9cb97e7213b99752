// Package navigation is an in-process router that plays the navigator role
// for the liveness monitor: it records the current location and runs the
// handler registered for it.
package navigation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
)

var (
	// ErrUnknownRoute is returned by a strict router for unregistered paths.
	ErrUnknownRoute = errors.New("unknown route")
	// ErrInvalidPath is returned for paths that do not start with "/".
	ErrInvalidPath = errors.New("invalid path")
)

// HandlerFunc renders the view for a path.
type HandlerFunc func(ctx context.Context, path string) error

// DefaultHistoryLimit bounds Router.History when Options.HistoryLimit is 0.
const DefaultHistoryLimit = 64

// Options configures a [Router].
type Options struct {
	// Strict makes Navigate fail for paths with no handler.
	Strict bool
	// HistoryLimit caps the remembered navigations.
	HistoryLimit int
}

// Router dispatches navigations to registered handlers.
//
// Router is safe for concurrent use. Handlers run outside the router lock.
type Router struct {
	opts Options

	mu       sync.RWMutex
	handlers map[string]HandlerFunc
	current  string
	history  []string
}

// NewRouter creates a Router.
func NewRouter(opts Options) *Router {
	if opts.HistoryLimit <= 0 {
		opts.HistoryLimit = DefaultHistoryLimit
	}
	return &Router{
		opts:     opts,
		handlers: make(map[string]HandlerFunc),
	}
}

// Handle registers fn for path, replacing any earlier handler.
func (r *Router) Handle(path string, fn HandlerFunc) error {
	path, err := cleanPath(path)
	if err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers[path] = fn
	return nil
}

// Navigate moves to path and runs its handler. The location changes even
// when the handler fails; a navigation to the current path runs the handler
// again.
func (r *Router) Navigate(ctx context.Context, path string) error {
	path, err := cleanPath(path)
	if err != nil {
		return err
	}

	r.mu.Lock()
	fn, ok := r.handlers[path]
	if !ok && r.opts.Strict {
		r.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrUnknownRoute, path)
	}
	r.current = path
	r.history = append(r.history, path)
	if over := len(r.history) - r.opts.HistoryLimit; over > 0 {
		r.history = append(r.history[:0:0], r.history[over:]...)
	}
	r.mu.Unlock()

	if fn == nil {
		return nil
	}
	if err := fn(ctx, path); err != nil {
		return fmt.Errorf("navigate %s: %w", path, err)
	}
	return nil
}

// Current returns the last navigated path, or "" before the first one.
func (r *Router) Current() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.current
}

// History returns the remembered paths, oldest first.
func (r *Router) History() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, len(r.history))
	copy(out, r.history)
	return out
}

func cleanPath(path string) (string, error) {
	path = strings.TrimSpace(path)
	if !strings.HasPrefix(path, "/") {
		return "", fmt.Errorf("%w: %q", ErrInvalidPath, path)
	}
	return path, nil
}
