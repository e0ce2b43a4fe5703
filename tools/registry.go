// Package tools provides the executor registry and the catalog of
// backend-proxy tools exposed to the model.
package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
)

// ExecutorFunc runs a tool with JSON-encoded arguments.
type ExecutorFunc func(ctx context.Context, args json.RawMessage) (json.RawMessage, error)

// Definition describes a tool to the model: name, description and a JSON
// schema for its parameters.
type Definition struct {
	Name        string
	Description string
	Parameters  map[string]any
}

// Registry stores tool definitions and executors keyed by tool name.
type Registry struct {
	mu        sync.RWMutex
	defs      []Definition
	executors map[string]ExecutorFunc
}

// NewRegistry creates an empty tool registry.
func NewRegistry() *Registry {
	return &Registry{
		executors: make(map[string]ExecutorFunc),
	}
}

// Register adds a tool definition with its executor.
func (r *Registry) Register(def Definition, exec ExecutorFunc) error {
	if def.Name == "" {
		return fmt.Errorf("tool name is required")
	}
	if exec == nil {
		return fmt.Errorf("executor is required")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.executors[def.Name]; exists {
		return fmt.Errorf("executor already registered for %s", def.Name)
	}
	r.defs = append(r.defs, def)
	r.executors[def.Name] = exec
	return nil
}

// MustRegister adds a tool or panics.
func (r *Registry) MustRegister(def Definition, exec ExecutorFunc) {
	if err := r.Register(def, exec); err != nil {
		panic(err)
	}
}

// Definitions returns the registered tool definitions in registration order.
func (r *Registry) Definitions() []Definition {
	r.mu.RLock()
	defer r.mu.RUnlock()
	defs := make([]Definition, len(r.defs))
	copy(defs, r.defs)
	return defs
}

// Execute runs the executor for the tool name.
func (r *Registry) Execute(ctx context.Context, toolName string, args json.RawMessage) (json.RawMessage, error) {
	if toolName == "" {
		return nil, fmt.Errorf("tool name is required")
	}
	r.mu.RLock()
	exec := r.executors[toolName]
	r.mu.RUnlock()
	if exec == nil {
		return nil, fmt.Errorf("no executor registered for %s", toolName)
	}
	return exec(ctx, args)
}
