package handlers

import (
	"context"

	"github.com/redmcp/mcp"
	"github.com/redmcp/models"
	"github.com/redmcp/validate"
)

var (
	versionStatuses = []any{"open", "locked", "closed"}
	versionSharings = []any{"none", "descendants", "hierarchy", "tree", "system"}
)

func (t *Tools) versions() []mcp.ToolDefinition {
	projectID := validate.Param{Name: "project_id", Type: validate.TypeString, Required: true, Example: "my-project"}
	versionID := validate.Param{Name: "version_id", Type: validate.TypeInteger, Required: true, Minimum: validate.Bound(1)}

	return []mcp.ToolDefinition{
		{
			Name:        "list-versions",
			Description: "List the versions of a project.",
			Params:      validate.Schema{projectID},
			Handler: func(ctx context.Context, p validate.Params) (any, error) {
				return t.api.Get(ctx, models.Versions.NestedListPath(models.Projects, p.String("project_id")), nil)
			},
		},
		{
			Name:        "get-version",
			Description: "Get one version.",
			Params:      validate.Schema{versionID},
			Handler: func(ctx context.Context, p validate.Params) (any, error) {
				return t.api.Get(ctx, models.Versions.ItemPath(p.Int("version_id")), nil)
			},
		},
		{
			Name:        "create-version",
			Description: "Create a version in a project.",
			Params: validate.Schema{
				projectID,
				{Name: "name", Type: validate.TypeString, Required: true, Example: "1.0"},
				{Name: "status", Type: validate.TypeString, Enum: versionStatuses},
				{Name: "sharing", Type: validate.TypeString, Enum: versionSharings},
				dateParam("due_date", "YYYY-MM-DD"),
				{Name: "description", Type: validate.TypeString},
			},
			Handler: func(ctx context.Context, p validate.Params) (any, error) {
				path := models.Versions.NestedListPath(models.Projects, p.String("project_id"))
				body := models.Versions.Wrap(fields(p, "name", "status", "sharing", "due_date", "description"))
				return t.api.Post(ctx, path, body)
			},
		},
		{
			Name:        "update-version",
			Description: "Update fields of an existing version.",
			Params: validate.Schema{
				versionID,
				{Name: "name", Type: validate.TypeString},
				{Name: "status", Type: validate.TypeString, Enum: versionStatuses},
				dateParam("due_date", "YYYY-MM-DD"),
				{Name: "description", Type: validate.TypeString},
			},
			Handler: func(ctx context.Context, p validate.Params) (any, error) {
				return t.update(ctx, models.Versions, p.Int("version_id"), p, "name", "status", "due_date", "description")
			},
		},
	}
}
