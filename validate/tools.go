package validate

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/redmcp/mcperrors"

	"github.com/xeipuuv/gojsonschema"
)

// Validator checks the params of one tool. It is built once at registration and
// is read-only afterwards.
type Validator struct {
	tool     string
	schema   Schema
	compiled *gojsonschema.Schema
	hint     mcperrors.ParamHint
}

// Compile prepares a Validator for tool. It fails when the schema itself is
// broken: duplicate or empty names, unknown type tags, or constraints that do not
// form a valid JSON Schema.
func Compile(tool string, schema Schema) (*Validator, error) {
	seen := make(map[string]bool, len(schema))
	for _, p := range schema {
		if p.Name == "" {
			return nil, fmt.Errorf("tool %q: parameter with empty name", tool)
		}
		if seen[p.Name] {
			return nil, fmt.Errorf("tool %q: parameter %q declared twice", tool, p.Name)
		}
		seen[p.Name] = true
		if !p.Type.valid() {
			return nil, fmt.Errorf("tool %q: parameter %q has unknown type %q", tool, p.Name, p.Type)
		}
	}

	compiled, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(schema.JSONSchema()))
	if err != nil {
		return nil, fmt.Errorf("internal schema error for tool %q: %w", tool, err)
	}

	return &Validator{
		tool:     tool,
		schema:   schema,
		compiled: compiled,
		hint: mcperrors.ParamHint{
			Tool:     tool,
			Accepted: schema.Names(),
			Example:  ExampleUsage(tool, schema),
		},
	}, nil
}

func (t Type) valid() bool {
	switch t {
	case TypeString, TypeInteger, TypeNumber, TypeBoolean, TypeObject, TypeArray:
		return true
	}
	return false
}

func (v *Validator) Example() string { return v.hint.Example }

// Validate checks raw params and returns them converted to their declared types
// with defaults filled in. No I/O happens here.
func (v *Validator) Validate(raw map[string]any) (Params, error) {
	params, err := v.schema.check(raw, v.hint)
	if err != nil {
		return nil, err
	}

	result, err := v.compiled.Validate(gojsonschema.NewGoLoader(map[string]any(params)))
	if err != nil {
		return nil, fmt.Errorf("internal validation error for tool %q: %w", v.tool, err)
	}
	if result.Valid() {
		return params, nil
	}

	errs := result.Errors()
	sort.SliceStable(errs, func(i, j int) bool { return errs[i].Field() < errs[j].Field() })
	first := errs[0]
	return nil, &mcperrors.TypeMismatchError{
		ParamHint: v.hint,
		Name:      first.Field(),
		Expected:  first.Description(),
		Got:       describe(first.Value()),
	}
}

// JSONSchema renders the schema as a JSON Schema object document.
func (s Schema) JSONSchema() map[string]any {
	props := make(map[string]any, len(s))
	required := make([]any, 0)
	for _, p := range s {
		prop := map[string]any{"type": string(p.Type)}
		if p.Description != "" {
			prop["description"] = p.Description
		}
		if p.Default != nil {
			prop["default"] = p.Default
		}
		if len(p.Enum) > 0 {
			prop["enum"] = p.Enum
		}
		if p.Minimum != nil {
			prop["minimum"] = *p.Minimum
		}
		if p.Maximum != nil {
			prop["maximum"] = *p.Maximum
		}
		if p.Pattern != "" {
			prop["pattern"] = p.Pattern
		}
		props[p.Name] = prop
		if p.Required {
			required = append(required, p.Name)
		}
	}

	doc := map[string]any{
		"type":                 "object",
		"properties":           props,
		"additionalProperties": false,
	}
	if len(required) > 0 {
		doc["required"] = required
	}
	return doc
}

// maxExampleOptionals bounds how many optional params an example usage shows.
const maxExampleOptionals = 2

// ExampleUsage builds one request line invoking tool with every required param
// set to a placeholder of the right type, plus at most two optional params.
// Keys keep declaration order.
func ExampleUsage(tool string, schema Schema) string {
	buf := new(bytes.Buffer)
	name, _ := json.Marshal(tool)
	fmt.Fprintf(buf, `{"method":%s,"params":{`, name)

	n, optionals := 0, 0
	for _, p := range schema {
		if !p.Required {
			if optionals == maxExampleOptionals {
				continue
			}
			optionals++
		}
		key, _ := json.Marshal(p.Name)
		val, err := json.Marshal(placeholder(p))
		if err != nil {
			val = []byte("null")
		}
		if n > 0 {
			buf.WriteByte(',')
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
		n++
	}
	buf.WriteString("}}")
	return buf.String()
}

func placeholder(p Param) any {
	switch {
	case p.Example != nil:
		return p.Example
	case len(p.Enum) > 0:
		return p.Enum[0]
	case p.Default != nil:
		return p.Default
	}

	switch p.Type {
	case TypeInteger:
		if p.Minimum != nil && *p.Minimum > 1 {
			return int64(*p.Minimum)
		}
		return 1
	case TypeNumber:
		return 1.5
	case TypeBoolean:
		return true
	case TypeObject:
		return map[string]any{}
	case TypeArray:
		return []any{}
	}
	return "example"
}

// Bound is a helper for declaring Minimum and Maximum.
func Bound(v float64) *float64 { return &v }
