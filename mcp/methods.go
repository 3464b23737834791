package mcp

import (
	"context"

	"github.com/redmcp/validate"
)

const (
	// Lists the names of every registered tool.
	ToolListToolNames = "list-tool-names"

	// Returns the parameter schema and an example request of one tool.
	ToolDescribeTool = "describe-tool"
)

// RegisterIntrospection adds the tools that let a caller discover the rest of
// the registry. They never touch the network.
func RegisterIntrospection(r *Registry) error {
	defs := []ToolDefinition{
		{
			Name:        ToolListToolNames,
			Description: "List the names of all available tools.",
			Handler: func(context.Context, validate.Params) (any, error) {
				return map[string]any{"tools": r.ListNames()}, nil
			},
		},
		{
			Name:        ToolDescribeTool,
			Description: "Describe the parameters of a tool and show an example request.",
			Params: validate.Schema{
				{Name: "name", Type: validate.TypeString, Required: true, Description: "Tool name", Example: "create-issue"},
			},
			Handler: func(_ context.Context, p validate.Params) (any, error) {
				def, err := r.Lookup(p.String("name"))
				if err != nil {
					return nil, err
				}
				return describeTool(def), nil
			},
		},
	}
	for _, def := range defs {
		if err := r.Register(def); err != nil {
			return err
		}
	}
	return nil
}

func describeTool(def *ToolDefinition) map[string]any {
	params := make([]map[string]any, 0, len(def.Params))
	for _, p := range def.Params {
		entry := map[string]any{
			"name":     p.Name,
			"type":     string(p.Type),
			"required": p.Required,
		}
		if p.Description != "" {
			entry["description"] = p.Description
		}
		if p.Default != nil {
			entry["default"] = p.Default
		}
		params = append(params, entry)
	}
	return map[string]any{
		"name":          def.Name,
		"description":   def.Description,
		"parameters":    params,
		"input_schema":  def.Params.JSONSchema(),
		"example_usage": def.Example(),
	}
}
