package handlers

import (
	"context"

	"github.com/redmcp/mcp"
	"github.com/redmcp/models"
	"github.com/redmcp/validate"
)

func (t *Tools) groups() []mcp.ToolDefinition {
	return []mcp.ToolDefinition{
		{
			Name:        "list-groups",
			Description: "List user groups. Requires administrator rights on the tracker.",
			Handler: func(ctx context.Context, p validate.Params) (any, error) {
				return t.api.ListAll(ctx, models.Groups.ListPath(), models.Groups.CollectionKey, nil)
			},
		},
		{
			Name:        "get-group",
			Description: "Get one group.",
			Params: validate.Schema{
				{Name: "group_id", Type: validate.TypeInteger, Required: true, Minimum: validate.Bound(1)},
				{Name: "include", Type: validate.TypeString, Description: "users, memberships"},
			},
			Handler: func(ctx context.Context, p validate.Params) (any, error) {
				return t.get(ctx, models.Groups.ItemPath(p.Int("group_id")), p)
			},
		},
	}
}

// enumerations are the small fixed lists the tracker is configured with.
func (t *Tools) enumerations() []mcp.ToolDefinition {
	listing := func(name, desc string, res models.Resource) mcp.ToolDefinition {
		return mcp.ToolDefinition{
			Name:        name,
			Description: desc,
			Handler: func(ctx context.Context, _ validate.Params) (any, error) {
				return t.api.ListAll(ctx, res.ListPath(), res.CollectionKey, nil)
			},
		}
	}
	return []mcp.ToolDefinition{
		listing("list-issue-statuses", "List the issue statuses.", models.IssueStatuses),
		listing("list-trackers", "List the trackers.", models.Trackers),
		listing("list-issue-priorities", "List the issue priorities.", models.IssuePriorities),
	}
}
