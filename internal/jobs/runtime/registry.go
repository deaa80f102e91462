package runtime

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"sync"
)

// Handler executes one job type. Handlers report terminal state through the Context.
type Handler interface {
	Type() string
	Run(ctx *Context) error
}

var ErrDuplicateHandler = errors.New("handler already registered")

// Registry maps job_type to the handler that runs it.
type Registry struct {
	mu       sync.RWMutex
	handlers map[string]Handler
}

// NewRegistry registers every handler up front and fails on the first bad one.
func NewRegistry(handlers ...Handler) (*Registry, error) {
	r := &Registry{handlers: make(map[string]Handler, len(handlers))}
	for _, h := range handlers {
		if err := r.Register(h); err != nil {
			return nil, err
		}
	}
	return r, nil
}

func (r *Registry) Register(h Handler) error {
	if h == nil {
		return errors.New("nil job handler")
	}
	jobType := h.Type()
	if jobType == "" {
		return fmt.Errorf("job handler %T has an empty type", h)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, dup := r.handlers[jobType]; dup {
		return fmt.Errorf("%w: job_type=%s", ErrDuplicateHandler, jobType)
	}
	r.handlers[jobType] = h
	return nil
}

func (r *Registry) Get(jobType string) (Handler, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	h, ok := r.handlers[jobType]
	return h, ok
}

// Types lists registered job types, sorted.
func (r *Registry) Types() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Sorted(maps.Keys(r.handlers))
}
