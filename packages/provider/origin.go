package provider

// Origin tells where a resolved value came from.
type Origin string

const (
	OriginExtracted Origin = "extracted"
	OriginFallback  Origin = "fallback"
	OriginAbsent    Origin = "absent"
)

// Resolved is a variable value together with its origin.
type Resolved struct {
	Name   string
	Value  string
	Origin Origin
}

// Found reports whether any source produced a value.
func (r Resolved) Found() bool {
	return r.Origin != OriginAbsent
}

// Resolve looks name up like GetValue and also reports the origin.
func (v *ValueExtractor) Resolve(name string) Resolved {
	if cur := v.current.Load(); cur != nil {
		if val, ok := cur.values.Get(name); ok {
			return Resolved{Name: name, Value: val, Origin: OriginExtracted}
		}
	}
	if v.fallback != nil {
		if val, ok := v.fallback.Lookup(name); ok {
			return Resolved{Name: name, Value: val, Origin: OriginFallback}
		}
	}
	return Resolved{Name: name, Origin: OriginAbsent}
}

// ResolveAll resolves every configured variable in name order.
func (v *ValueExtractor) ResolveAll() []Resolved {
	names := v.Names()
	out := make([]Resolved, 0, len(names))
	for _, name := range names {
		out = append(out, v.Resolve(name))
	}
	return out
}
