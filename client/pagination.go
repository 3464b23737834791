package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
)

// PageCursor tracks a multi-page listing while it is being assembled.
type PageCursor struct {
	Offset     int
	Limit      int
	TotalCount int
}

// ListAll fetches every page of a listing endpoint and returns the first page's
// envelope with the key array replaced by all records.
//
// Paging starts at the query's offset (default 0) and advances by the page
// limit until the offset reaches the total_count of the first page, or a page
// comes back shorter than the limit. Endpoints whose first page has no
// total_count are not paginated and are returned as they are.
func (c *Client) ListAll(ctx context.Context, path, key string, query url.Values) (map[string]any, error) {
	start := 0
	if s := query.Get("offset"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("invalid offset %q", s)
		}
		start = n
	}

	cursor := PageCursor{Offset: start, Limit: c.pageSize, TotalCount: -1}
	requested := make(map[int]bool)
	records := make([]any, 0)
	var first map[string]any

	for !requested[cursor.Offset] {
		requested[cursor.Offset] = true

		q := cloneValues(query)
		q.Set("offset", strconv.Itoa(cursor.Offset))
		q.Set("limit", strconv.Itoa(cursor.Limit))
		res, err := c.Get(ctx, path, q)
		if err != nil {
			return nil, err
		}

		page, ok := res.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("GET %s: expected a JSON object envelope, got %T", path, res)
		}
		items, err := pageItems(page, key)
		if err != nil {
			return nil, fmt.Errorf("GET %s: %w", path, err)
		}

		if first == nil {
			first = page
			total, ok := intField(page, "total_count")
			if !ok {
				return page, nil
			}
			cursor.TotalCount = total
		}
		records = append(records, items...)

		// the server may cap the page size below what was asked for
		if limit, ok := intField(page, "limit"); ok && limit > 0 && limit < cursor.Limit {
			cursor.Limit = limit
		}
		if len(items) < cursor.Limit {
			break
		}
		cursor.Offset += max(cursor.Limit, len(items))
		if cursor.Offset >= cursor.TotalCount {
			break
		}
	}

	out := make(map[string]any, len(first))
	for k, v := range first {
		out[k] = v
	}
	out[key] = records
	out["total_count"] = cursor.TotalCount
	out["offset"] = start
	out["limit"] = len(records)
	return out, nil
}

func pageItems(page map[string]any, key string) ([]any, error) {
	raw, ok := page[key]
	if !ok || raw == nil {
		return nil, nil
	}
	items, ok := raw.([]any)
	if !ok {
		return nil, fmt.Errorf("expected %q to be an array, got %T", key, raw)
	}
	return items, nil
}

func intField(m map[string]any, name string) (int, bool) {
	switch v := m[name].(type) {
	case json.Number:
		n, err := strconv.Atoi(v.String())
		return n, err == nil
	case float64:
		return int(v), true
	case int:
		return v, true
	}
	return 0, false
}

func cloneValues(v url.Values) url.Values {
	out := make(url.Values, len(v)+2)
	for k, vals := range v {
		out[k] = append([]string(nil), vals...)
	}
	return out
}
