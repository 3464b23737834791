package handlers

import (
	"context"

	"github.com/redmcp/mcp"
	"github.com/redmcp/mcperrors"
	"github.com/redmcp/models"
	"github.com/redmcp/validate"
)

func (t *Tools) timeEntries() []mcp.ToolDefinition {
	createSchema := validate.Schema{
		{Name: "hours", Type: validate.TypeNumber, Required: true, Minimum: validate.Bound(0), Example: 1.5},
		{Name: "issue_id", Type: validate.TypeInteger, Minimum: validate.Bound(1)},
		{Name: "project_id", Type: validate.TypeString},
		dateParam("spent_on", "Day the time was spent, YYYY-MM-DD. Defaults to today on the tracker"),
		{Name: "activity_id", Type: validate.TypeInteger, Minimum: validate.Bound(1)},
		{Name: "comments", Type: validate.TypeString},
	}

	return []mcp.ToolDefinition{
		{
			Name:        "list-time-entries",
			Description: "List time entries, optionally filtered.",
			Params: validate.Schema{
				{Name: "project_id", Type: validate.TypeString},
				{Name: "issue_id", Type: validate.TypeInteger, Minimum: validate.Bound(1)},
				{Name: "user_id", Type: validate.TypeString, Description: `A user id or "me"`},
				dateParam("from", "First day, YYYY-MM-DD"),
				dateParam("to", "Last day, YYYY-MM-DD"),
				limitParam,
				offsetParam,
				fetchAllParam,
			},
			Handler: func(ctx context.Context, p validate.Params) (any, error) {
				return t.list(ctx, models.TimeEntries, models.TimeEntries.ListPath(), p,
					"project_id", "issue_id", "user_id", "from", "to")
			},
		},
		{
			Name:        "create-time-entry",
			Description: "Log time against an issue or a project. One of issue_id or project_id is required.",
			Params:      createSchema,
			Handler: func(ctx context.Context, p validate.Params) (any, error) {
				// the tracker needs one of the two; the schema cannot say so
				if !p.Has("issue_id") && !p.Has("project_id") {
					return nil, &mcperrors.MissingParameterError{
						ParamHint: mcperrors.ParamHint{
							Tool:     "create-time-entry",
							Accepted: createSchema.Names(),
							Example:  validate.ExampleUsage("create-time-entry", createSchema),
						},
						Name: "issue_id",
					}
				}
				body := models.TimeEntries.Wrap(fields(p, "hours", "issue_id", "project_id", "spent_on", "activity_id", "comments"))
				return t.api.Post(ctx, models.TimeEntries.ListPath(), body)
			},
		},
	}
}
