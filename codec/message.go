package codec

import (
	"bytes"
	"encoding/json"
)

// Request is a single tool invocation read from one input line.
type Request struct {
	ID       json.RawMessage `json:"id,omitempty"`
	Method   string          `json:"method"`
	ToolName string          `json:"tool_name,omitempty"`
	Params   json.RawMessage `json:"params,omitempty"`
}

// Response answers exactly one Request. Result and Error are never both set.
type Response struct {
	ID     json.RawMessage `json:"id"`
	Result json.RawMessage `json:"result,omitempty"`
	Error  *Error          `json:"error,omitempty"`
}

// Error is the structured failure payload of a Response.
type Error struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Detail  map[string]any `json:"detail,omitempty"`
}

// MethodToolsCall is the MCP style envelope wrapping a tool name and its arguments.
const MethodToolsCall = "tools/call"

type toolsCallParams struct {
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments"`
}

var null = json.RawMessage("null")

// Tool returns the tool name and raw arguments addressed by the request.
// The tools/call envelope is unwrapped; tool_name is accepted as an alias of method.
func (r *Request) Tool() (string, json.RawMessage) {
	name := r.Method
	if name == "" {
		name = r.ToolName
	}
	if name == MethodToolsCall && len(r.Params) > 0 {
		var call toolsCallParams
		if err := json.Unmarshal(r.Params, &call); err == nil && call.Name != "" {
			return call.Name, call.Arguments
		}
	}
	return name, r.Params
}

// NewResult builds a success response. A nil payload is sent as JSON null.
func NewResult(id json.RawMessage, result json.RawMessage) Response {
	if len(result) == 0 {
		result = null
	}
	return Response{ID: id, Result: result}
}

// NewError builds a failure response.
func NewError(id json.RawMessage, e Error) Response {
	return Response{ID: id, Error: &e}
}

// IsNull reports whether a raw JSON value is absent or the literal null.
func IsNull(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, null)
}
