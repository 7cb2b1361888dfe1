package queries

import (
	"sync"

	"optiroute/internal/core/application/usecases/commands"
)

// LastOptimizationStore caches the most recent optimization result in
// memory. The command handler writes through the commands.ResultSink
// interface, the query handler reads. Safe for concurrent use.
type LastOptimizationStore struct {
	mu   sync.RWMutex
	last *commands.OptimizationResult
}

// NewLastOptimizationStore creates an empty store.
func NewLastOptimizationStore() *LastOptimizationStore {
	return &LastOptimizationStore{}
}

// Set replaces the cached result. Implements commands.ResultSink.
func (s *LastOptimizationStore) Set(result *commands.OptimizationResult) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.last = result
}

// Get returns the cached result, or nil before the first run.
func (s *LastOptimizationStore) Get() *commands.OptimizationResult {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.last
}
