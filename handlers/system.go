package handlers

import (
	"context"

	"github.com/redmcp/mcp"
	"github.com/redmcp/models"
	"github.com/redmcp/validate"
)

const ToolHealthCheck = "health-check"

func (t *Tools) system() []mcp.ToolDefinition {
	return []mcp.ToolDefinition{
		{
			Name:        ToolHealthCheck,
			Description: "Check that the tracker is reachable and the credential is accepted.",
			Handler: func(ctx context.Context, _ validate.Params) (any, error) {
				if _, err := t.api.Get(ctx, models.Users.ItemPath("current"), nil); err != nil {
					return nil, err
				}
				return map[string]any{"status": "ok"}, nil
			},
		},
	}
}
