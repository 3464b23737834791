package handlers

import (
	"context"

	"github.com/redmcp/mcp"
	"github.com/redmcp/models"
	"github.com/redmcp/validate"
)

func (t *Tools) users() []mcp.ToolDefinition {
	return []mcp.ToolDefinition{
		{
			Name:        "list-users",
			Description: "List users. Requires administrator rights on the tracker.",
			Params: validate.Schema{
				{Name: "status", Type: validate.TypeInteger, Enum: []any{1, 2, 3}, Description: "1 active, 2 registered, 3 locked"},
				{Name: "name", Type: validate.TypeString, Description: "Filter on login, first name, last name or mail"},
				{Name: "group_id", Type: validate.TypeInteger, Minimum: validate.Bound(1)},
				limitParam,
				offsetParam,
				fetchAllParam,
			},
			Handler: func(ctx context.Context, p validate.Params) (any, error) {
				return t.list(ctx, models.Users, models.Users.ListPath(), p, "status", "name", "group_id")
			},
		},
		{
			Name:        "get-user",
			Description: `Get one user. user_id "current" is the credential's own user.`,
			Params: validate.Schema{
				{Name: "user_id", Type: validate.TypeString, Required: true, Pattern: `^([0-9]+|current)$`, Example: "current"},
				{Name: "include", Type: validate.TypeString, Description: "memberships, groups"},
			},
			Handler: func(ctx context.Context, p validate.Params) (any, error) {
				return t.get(ctx, models.Users.ItemPath(p.String("user_id")), p)
			},
		},
	}
}
