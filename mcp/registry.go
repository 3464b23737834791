package mcp

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/redmcp/mcperrors"
	"github.com/redmcp/validate"
)

// ToolHandler runs a tool with already validated params.
type ToolHandler func(ctx context.Context, params validate.Params) (any, error)

// ToolDefinition is one registered tool. It is never mutated after registration.
type ToolDefinition struct {
	Name        string
	Description string
	Params      validate.Schema
	Handler     ToolHandler

	validator *validate.Validator
}

// Validate checks raw params against the tool's schema.
func (d *ToolDefinition) Validate(raw map[string]any) (validate.Params, error) {
	return d.validator.Validate(raw)
}

// Example is a request line invoking the tool with placeholder values.
func (d *ToolDefinition) Example() string {
	return d.validator.Example()
}

var ErrRegistrySealed = errors.New("registry is sealed")

// Registry maps tool names to definitions.
//
// Tools are registered once at startup by a single goroutine and the registry
// is sealed before the transport starts. Lookups after that are read-only, so
// no lock is taken.
type Registry struct {
	tools  map[string]*ToolDefinition
	sealed bool
}

func NewRegistry() *Registry {
	return &Registry{tools: make(map[string]*ToolDefinition)}
}

// Register adds a tool. The name must be unique.
func (r *Registry) Register(def ToolDefinition) error {
	if r.sealed {
		return fmt.Errorf("register %q: %w", def.Name, ErrRegistrySealed)
	}
	if def.Name == "" {
		return errors.New("tool name must not be empty")
	}
	if def.Handler == nil {
		return fmt.Errorf("tool %q has no handler", def.Name)
	}
	if _, ok := r.tools[def.Name]; ok {
		return &mcperrors.DuplicateToolError{Name: def.Name}
	}

	v, err := validate.Compile(def.Name, def.Params)
	if err != nil {
		return err
	}
	def.validator = v
	r.tools[def.Name] = &def
	return nil
}

// Seal ends the registration phase.
func (r *Registry) Seal() {
	r.sealed = true
}

// Lookup returns the named tool or a *mcperrors.ToolNotFoundError.
func (r *Registry) Lookup(name string) (*ToolDefinition, error) {
	def, ok := r.tools[name]
	if !ok {
		return nil, &mcperrors.ToolNotFoundError{Name: name, Available: r.ListNames()}
	}
	return def, nil
}

// ListNames returns the registered tool names in sorted order.
func (r *Registry) ListNames() []string {
	names := make([]string, 0, len(r.tools))
	for name := range r.tools {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (r *Registry) Len() int { return len(r.tools) }
