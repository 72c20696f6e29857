package executor

import (
	"sync"

	"go.trai.ch/zapret/internal/core/domain"
	"go.trai.ch/zapret/internal/core/ports"
)

var _ ports.ExecutorProvider = (*Registry)(nil)

// Registry holds the executor shared by all operation handlers.
type Registry struct {
	mu      sync.RWMutex
	current ports.Executor
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Initialize installs e as the current executor, replacing any previous one.
func (r *Registry) Initialize(e ports.Executor) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.current = e
}

// Current returns the installed executor.
func (r *Registry) Current() (ports.Executor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.current == nil {
		return nil, domain.ErrExecutorNotInitialized
	}
	return r.current, nil
}
