package validate

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/redmcp/mcperrors"
)

// Type is the declared type tag of a tool parameter.
type Type string

const (
	TypeString  Type = "string"
	TypeInteger Type = "integer"
	TypeNumber  Type = "number"
	TypeBoolean Type = "boolean"
	TypeObject  Type = "object"
	TypeArray   Type = "array"
)

// Param declares one tool parameter.
type Param struct {
	Name        string
	Type        Type
	Required    bool
	Default     any
	Description string

	// Constraints checked against the tool's JSON Schema after type conversion.
	Enum    []any
	Minimum *float64
	Maximum *float64
	Pattern string

	// Example overrides the generated placeholder in example usages.
	Example any
}

// Schema is the ordered parameter list of a tool.
type Schema []Param

// Names returns the declared parameter names in declaration order.
func (s Schema) Names() []string {
	names := make([]string, 0, len(s))
	for _, p := range s {
		names = append(names, p.Name)
	}
	return names
}

func (s Schema) lookup(name string) (Param, bool) {
	for _, p := range s {
		if p.Name == name {
			return p, true
		}
	}
	return Param{}, false
}

// check runs the structural checks: unknown keys, missing required values and
// type conversion. It returns a new map holding converted values and defaults.
func (s Schema) check(raw map[string]any, hint mcperrors.ParamHint) (Params, error) {
	unknown := make([]string, 0)
	for name := range raw {
		if _, ok := s.lookup(name); !ok {
			unknown = append(unknown, name)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return nil, &mcperrors.UnknownParameterError{ParamHint: hint, Name: unknown[0]}
	}

	for _, p := range s {
		if v, ok := raw[p.Name]; p.Required && (!ok || v == nil) {
			return nil, &mcperrors.MissingParameterError{ParamHint: hint, Name: p.Name}
		}
	}

	out := make(Params, len(raw))
	for _, p := range s {
		v, ok := raw[p.Name]
		if !ok || v == nil {
			if p.Default != nil {
				out[p.Name] = p.Default
			}
			continue
		}
		converted, ok := convert(p.Type, v)
		if !ok {
			return nil, &mcperrors.TypeMismatchError{
				ParamHint: hint,
				Name:      p.Name,
				Expected:  string(p.Type),
				Got:       describe(v),
			}
		}
		out[p.Name] = converted
	}
	return out, nil
}

func convert(t Type, v any) (any, bool) {
	switch t {
	case TypeString:
		switch x := v.(type) {
		case string:
			return x, true
		case json.Number:
			return x.String(), true
		case bool:
			return strconv.FormatBool(x), true
		case float64:
			return strconv.FormatFloat(x, 'f', -1, 64), true
		case int:
			return strconv.Itoa(x), true
		case int64:
			return strconv.FormatInt(x, 10), true
		}
	case TypeInteger:
		switch x := v.(type) {
		case json.Number:
			return toInt(x.String())
		case string:
			return toInt(strings.TrimSpace(x))
		case float64:
			return floatToInt(x)
		case int:
			return int64(x), true
		case int64:
			return x, true
		}
	case TypeNumber:
		switch x := v.(type) {
		case json.Number:
			f, err := x.Float64()
			return f, err == nil
		case string:
			f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
			return f, err == nil && !math.IsNaN(f) && !math.IsInf(f, 0)
		case float64:
			return x, true
		case int:
			return float64(x), true
		case int64:
			return float64(x), true
		}
	case TypeBoolean:
		switch x := v.(type) {
		case bool:
			return x, true
		case string:
			switch strings.ToLower(strings.TrimSpace(x)) {
			case "true":
				return true, true
			case "false":
				return false, true
			}
		}
	case TypeObject:
		if m, ok := v.(map[string]any); ok {
			return m, true
		}
	case TypeArray:
		if a, ok := v.([]any); ok {
			return a, true
		}
	}
	return nil, false
}

func toInt(s string) (any, bool) {
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i, true
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, false
	}
	return floatToInt(f)
}

func floatToInt(f float64) (any, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) || math.Abs(f) > 1<<53 {
		return nil, false
	}
	return int64(f), true
}

// describe names the JSON type of a decoded value for error messages.
func describe(v any) string {
	switch x := v.(type) {
	case nil:
		return "null"
	case string:
		return fmt.Sprintf("string %q", x)
	case json.Number:
		return "number " + x.String()
	case float64, int, int64:
		return fmt.Sprintf("number %v", x)
	case bool:
		return fmt.Sprintf("boolean %t", x)
	case map[string]any:
		return "object"
	case []any:
		return "array"
	}
	return fmt.Sprintf("%T", v)
}
