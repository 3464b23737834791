package handlers

import (
	"context"

	"github.com/redmcp/mcp"
	"github.com/redmcp/models"
	"github.com/redmcp/validate"
)

func (t *Tools) projects() []mcp.ToolDefinition {
	projectID := validate.Param{
		Name: "project_id", Type: validate.TypeString, Required: true,
		Description: "Numeric id or identifier of the project", Example: "my-project",
	}

	return []mcp.ToolDefinition{
		{
			Name:        "list-projects",
			Description: "List projects visible to the credential.",
			Params:      validate.Schema{includeParam, limitParam, offsetParam, fetchAllParam},
			Handler: func(ctx context.Context, p validate.Params) (any, error) {
				return t.list(ctx, models.Projects, models.Projects.ListPath(), p, "include")
			},
		},
		{
			Name:        "get-project",
			Description: "Get one project.",
			Params:      validate.Schema{projectID, includeParam},
			Handler: func(ctx context.Context, p validate.Params) (any, error) {
				return t.get(ctx, models.Projects.ItemPath(p.String("project_id")), p)
			},
		},
		{
			Name:        "create-project",
			Description: "Create a project.",
			Params: validate.Schema{
				{Name: "name", Type: validate.TypeString, Required: true},
				{Name: "identifier", Type: validate.TypeString, Required: true, Pattern: `^[a-z][a-z0-9_\-]{0,99}$`,
					Description: "Unique lowercase identifier used in URLs", Example: "my-project"},
				{Name: "description", Type: validate.TypeString},
				{Name: "is_public", Type: validate.TypeBoolean},
				{Name: "parent_id", Type: validate.TypeInteger, Minimum: validate.Bound(1)},
				{Name: "inherit_members", Type: validate.TypeBoolean},
			},
			Handler: func(ctx context.Context, p validate.Params) (any, error) {
				body := models.Projects.Wrap(fields(p, "name", "identifier", "description", "is_public", "parent_id", "inherit_members"))
				return t.api.Post(ctx, models.Projects.ListPath(), body)
			},
		},
		{
			Name:        "update-project",
			Description: "Update fields of an existing project.",
			Params: validate.Schema{
				projectID,
				{Name: "name", Type: validate.TypeString},
				{Name: "description", Type: validate.TypeString},
				{Name: "is_public", Type: validate.TypeBoolean},
			},
			Handler: func(ctx context.Context, p validate.Params) (any, error) {
				return t.update(ctx, models.Projects, p.String("project_id"), p, "name", "description", "is_public")
			},
		},
	}
}
