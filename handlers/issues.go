package handlers

import (
	"context"

	"github.com/redmcp/mcp"
	"github.com/redmcp/models"
	"github.com/redmcp/validate"
)

func (t *Tools) issues() []mcp.ToolDefinition {
	issueID := validate.Param{Name: "issue_id", Type: validate.TypeInteger, Required: true, Minimum: validate.Bound(1)}
	ref := func(name string) validate.Param {
		return validate.Param{Name: name, Type: validate.TypeInteger, Minimum: validate.Bound(1)}
	}

	return []mcp.ToolDefinition{
		{
			Name:        "list-issues",
			Description: "List issues, optionally filtered.",
			Params: validate.Schema{
				{Name: "project_id", Type: validate.TypeString, Description: "Numeric id or identifier of the project"},
				{Name: "status_id", Type: validate.TypeString, Description: `"open", "closed", "*" or a status id`},
				{Name: "tracker_id", Type: validate.TypeInteger},
				{Name: "assigned_to_id", Type: validate.TypeString, Description: `A user id or "me"`},
				{Name: "sort", Type: validate.TypeString, Description: "Column to sort with, append :desc to invert", Example: "updated_on:desc"},
				limitParam,
				offsetParam,
				fetchAllParam,
			},
			Handler: func(ctx context.Context, p validate.Params) (any, error) {
				return t.list(ctx, models.Issues, models.Issues.ListPath(), p,
					"project_id", "status_id", "tracker_id", "assigned_to_id", "sort")
			},
		},
		{
			Name:        "get-issue",
			Description: "Get one issue.",
			Params: validate.Schema{
				issueID,
				{Name: "include", Type: validate.TypeString, Description: "children, attachments, relations, changesets, journals, watchers", Example: "journals"},
			},
			Handler: func(ctx context.Context, p validate.Params) (any, error) {
				return t.get(ctx, models.Issues.ItemPath(p.Int("issue_id")), p)
			},
		},
		{
			Name:        "create-issue",
			Description: "Create an issue in a project.",
			Params: validate.Schema{
				{Name: "project_id", Type: validate.TypeString, Required: true, Description: "Numeric id or identifier of the project", Example: "my-project"},
				{Name: "subject", Type: validate.TypeString, Required: true},
				{Name: "description", Type: validate.TypeString},
				ref("tracker_id"),
				ref("status_id"),
				ref("priority_id"),
				ref("assigned_to_id"),
				ref("parent_issue_id"),
				dateParam("start_date", "YYYY-MM-DD"),
				dateParam("due_date", "YYYY-MM-DD"),
				{Name: "estimated_hours", Type: validate.TypeNumber, Minimum: validate.Bound(0)},
			},
			Handler: func(ctx context.Context, p validate.Params) (any, error) {
				body := models.Issues.Wrap(fields(p,
					"project_id", "subject", "description", "tracker_id", "status_id", "priority_id",
					"assigned_to_id", "parent_issue_id", "start_date", "due_date", "estimated_hours"))
				return t.api.Post(ctx, models.Issues.ListPath(), body)
			},
		},
		{
			Name:        "update-issue",
			Description: "Update fields of an existing issue. notes adds a journal entry.",
			Params: validate.Schema{
				issueID,
				{Name: "subject", Type: validate.TypeString},
				{Name: "description", Type: validate.TypeString},
				ref("status_id"),
				ref("priority_id"),
				ref("assigned_to_id"),
				{Name: "done_ratio", Type: validate.TypeInteger, Minimum: validate.Bound(0), Maximum: validate.Bound(100)},
				dateParam("due_date", "YYYY-MM-DD"),
				{Name: "notes", Type: validate.TypeString},
			},
			Handler: func(ctx context.Context, p validate.Params) (any, error) {
				return t.update(ctx, models.Issues, p.Int("issue_id"), p,
					"subject", "description", "status_id", "priority_id", "assigned_to_id", "done_ratio", "due_date", "notes")
			},
		},
		{
			Name:        "delete-issue",
			Description: "Delete an issue.",
			Params:      validate.Schema{issueID},
			Handler: func(ctx context.Context, p validate.Params) (any, error) {
				return t.remove(ctx, models.Issues, p.Int("issue_id"))
			},
		},
	}
}
