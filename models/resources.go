// Package models describes the remote tracker's resources: where they live and
// which envelope keys wrap them. Entity fields themselves are never modelled;
// payloads pass through as decoded JSON.
package models

import (
	"fmt"
	"net/url"
)

// Resource locates one kind of remote entity.
type Resource struct {
	// Collection is the listing path, without the .json suffix.
	Collection string
	// CollectionKey names the record array in a listing envelope.
	CollectionKey string
	// Key wraps a single record in request and response bodies.
	Key string
}

var (
	Issues          = Resource{Collection: "/issues", CollectionKey: "issues", Key: "issue"}
	Projects        = Resource{Collection: "/projects", CollectionKey: "projects", Key: "project"}
	Users           = Resource{Collection: "/users", CollectionKey: "users", Key: "user"}
	Versions        = Resource{Collection: "/versions", CollectionKey: "versions", Key: "version"}
	Groups          = Resource{Collection: "/groups", CollectionKey: "groups", Key: "group"}
	TimeEntries     = Resource{Collection: "/time_entries", CollectionKey: "time_entries", Key: "time_entry"}
	IssueStatuses   = Resource{Collection: "/issue_statuses", CollectionKey: "issue_statuses", Key: "issue_status"}
	Trackers        = Resource{Collection: "/trackers", CollectionKey: "trackers", Key: "tracker"}
	IssuePriorities = Resource{Collection: "/enumerations/issue_priorities", CollectionKey: "issue_priorities", Key: "issue_priority"}
)

// ListPath is the listing endpoint.
func (r Resource) ListPath() string {
	return r.Collection + ".json"
}

// ItemPath is the endpoint of one record. id is path-escaped.
func (r Resource) ItemPath(id any) string {
	return fmt.Sprintf("%s/%s.json", r.Collection, url.PathEscape(fmt.Sprint(id)))
}

// NestedListPath is a listing scoped under a parent record, e.g. a project's versions.
func (r Resource) NestedListPath(parent Resource, parentID any) string {
	return fmt.Sprintf("%s/%s%s.json", parent.Collection, url.PathEscape(fmt.Sprint(parentID)), r.Collection)
}

// Wrap puts fields under the resource key, the body shape the API expects for
// create and update.
func (r Resource) Wrap(fields map[string]any) map[string]any {
	return map[string]any{r.Key: fields}
}
