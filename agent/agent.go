// Package agent defines the agents and executions that own written files and
// the lookup contract used to resolve them by id.
package agent

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// ErrNotFound is returned when an agent or execution id does not resolve.
var ErrNotFound = errors.New("not found")

// Agent is the owner of a set of executions.
type Agent struct {
	ID   int64
	Name string
}

// Execution is a single run of an agent.
type Execution struct {
	ID      int64
	AgentID int64
	Name    string
}

// Registry looks up agents and executions by id.
type Registry interface {
	GetAgent(ctx context.Context, id int64) (Agent, error)
	GetExecution(ctx context.Context, id int64) (Execution, error)
}

var _ Registry = &MemoryRegistry{}

// MemoryRegistry is a Registry backed by maps. It is used by the CLI, where
// agents are described by flags, and by tests.
type MemoryRegistry struct {
	mu         sync.RWMutex
	agents     map[int64]Agent
	executions map[int64]Execution
}

func NewMemoryRegistry() *MemoryRegistry {
	return &MemoryRegistry{
		agents:     make(map[int64]Agent),
		executions: make(map[int64]Execution),
	}
}

// AddAgent stores or replaces an agent.
func (r *MemoryRegistry) AddAgent(a Agent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.agents[a.ID] = a
}

// AddExecution stores or replaces an execution. Its agent must already exist.
func (r *MemoryRegistry) AddExecution(e Execution) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.agents[e.AgentID]; !ok {
		return fmt.Errorf("execution %d: agent %d: %w", e.ID, e.AgentID, ErrNotFound)
	}
	r.executions[e.ID] = e
	return nil
}

func (r *MemoryRegistry) GetAgent(_ context.Context, id int64) (Agent, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.agents[id]
	if !ok {
		return Agent{}, fmt.Errorf("agent %d: %w", id, ErrNotFound)
	}
	return a, nil
}

func (r *MemoryRegistry) GetExecution(_ context.Context, id int64) (Execution, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.executions[id]
	if !ok {
		return Execution{}, fmt.Errorf("execution %d: %w", id, ErrNotFound)
	}
	return e, nil
}
