package validate

// Params holds validated parameters. Values have already been converted to the
// declared type: string, int64, float64, bool, map[string]any or []any.
type Params map[string]any

func (p Params) Has(name string) bool {
	_, ok := p[name]
	return ok
}

func (p Params) String(name string) string {
	s, _ := p[name].(string)
	return s
}

func (p Params) Int(name string) int64 {
	i, _ := p[name].(int64)
	return i
}

func (p Params) Float(name string) float64 {
	f, _ := p[name].(float64)
	return f
}

func (p Params) Bool(name string) bool {
	b, _ := p[name].(bool)
	return b
}
