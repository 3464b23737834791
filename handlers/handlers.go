// Package handlers is the tool table: every tool that maps onto the remote
// tracker's REST API, with its parameter schema and the handler that calls it.
package handlers

import (
	"context"
	"net/url"
	"strconv"

	"github.com/redmcp/mcp"
	"github.com/redmcp/models"
	"github.com/redmcp/validate"
)

// API is the part of the remote client the handlers use.
type API interface {
	Get(ctx context.Context, path string, query url.Values) (any, error)
	Post(ctx context.Context, path string, body any) (any, error)
	Put(ctx context.Context, path string, body any) (any, error)
	Delete(ctx context.Context, path string) (any, error)
	ListAll(ctx context.Context, path, key string, query url.Values) (map[string]any, error)
}

// Tools builds the tool definitions around one API.
type Tools struct {
	api API
}

func New(api API) *Tools {
	return &Tools{api: api}
}

// Definitions returns every remote tool in registration order.
func (t *Tools) Definitions() []mcp.ToolDefinition {
	var defs []mcp.ToolDefinition
	for _, group := range [][]mcp.ToolDefinition{
		t.system(),
		t.projects(),
		t.issues(),
		t.users(),
		t.versions(),
		t.groups(),
		t.enumerations(),
		t.timeEntries(),
	} {
		defs = append(defs, group...)
	}
	return defs
}

// Register adds every remote tool to reg.
func Register(reg *mcp.Registry, api API) error {
	for _, def := range New(api).Definitions() {
		if err := reg.Register(def); err != nil {
			return err
		}
	}
	return nil
}

// Parameters shared by several tools.
var (
	limitParam = validate.Param{
		Name: "limit", Type: validate.TypeInteger, Minimum: validate.Bound(1), Maximum: validate.Bound(100),
		Description: "Return one page of at most this many records instead of every record",
	}
	offsetParam = validate.Param{
		Name: "offset", Type: validate.TypeInteger, Minimum: validate.Bound(0),
		Description: "Number of records to skip",
	}
	fetchAllParam = validate.Param{
		Name: "fetch_all", Type: validate.TypeBoolean, Default: false,
		Description: "Assemble every page even when limit is given",
	}
	includeParam = validate.Param{
		Name: "include", Type: validate.TypeString,
		Description: "Comma separated associations to embed",
	}
	dateParam = func(name, desc string) validate.Param {
		return validate.Param{Name: name, Type: validate.TypeString, Pattern: `^\d{4}-\d{2}-\d{2}$`, Description: desc, Example: "2024-01-31"}
	}
)

// list runs a listing call. Without a limit, or with fetch_all, every page is
// assembled; otherwise one page is fetched as the caller asked.
func (t *Tools) list(ctx context.Context, res models.Resource, path string, p validate.Params, filters ...string) (any, error) {
	q := query(p, filters...)
	if p.Has("offset") {
		q.Set("offset", strconv.FormatInt(p.Int("offset"), 10))
	}
	if p.Has("limit") && !p.Bool("fetch_all") {
		q.Set("limit", strconv.FormatInt(p.Int("limit"), 10))
		return t.api.Get(ctx, path, q)
	}
	return t.api.ListAll(ctx, path, res.CollectionKey, q)
}

// get fetches one record, passing include through when given.
func (t *Tools) get(ctx context.Context, path string, p validate.Params) (any, error) {
	return t.api.Get(ctx, path, query(p, "include"))
}

// update PUTs the given fields. The API answers updates with an empty body, so
// an acknowledgement is returned in that case.
func (t *Tools) update(ctx context.Context, res models.Resource, id any, p validate.Params, names ...string) (any, error) {
	out, err := t.api.Put(ctx, res.ItemPath(id), res.Wrap(fields(p, names...)))
	if err != nil {
		return nil, err
	}
	if out == nil {
		return map[string]any{"id": id, "updated": true}, nil
	}
	return out, nil
}

func (t *Tools) remove(ctx context.Context, res models.Resource, id any) (any, error) {
	out, err := t.api.Delete(ctx, res.ItemPath(id))
	if err != nil {
		return nil, err
	}
	if out == nil {
		return map[string]any{"id": id, "deleted": true}, nil
	}
	return out, nil
}

// query copies the named params that are present into a query string.
func query(p validate.Params, names ...string) url.Values {
	q := url.Values{}
	for _, name := range names {
		if v, ok := p[name]; ok {
			q.Set(name, queryValue(v))
		}
	}
	return q
}

func queryValue(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	}
	return ""
}

// fields copies the named params that are present into a request body.
func fields(p validate.Params, names ...string) map[string]any {
	out := make(map[string]any, len(names))
	for _, name := range names {
		if v, ok := p[name]; ok {
			out[name] = v
		}
	}
	return out
}
