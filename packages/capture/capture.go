package capture

import (
	"sort"
	"strings"

	"github.com/tidwall/gjson"
)

// Separator joins the fragments of a multi-value extraction. Consumers that
// need individual values split on it.
const Separator = ","

// ReportFunc receives every variable after an extraction pass. found is false
// when the pattern did not match and value is then empty.
type ReportFunc func(name, value string, found bool)

// Values is an immutable snapshot of one extraction pass.
type Values struct {
	values map[string]string
	found  map[string]bool
}

// Get returns the extracted value for name. ok is false both for unknown
// names and for variables whose pattern did not match.
func (v *Values) Get(name string) (string, bool) {
	if v == nil || !v.found[name] {
		return "", false
	}
	return v.values[name], true
}

// Has reports whether name took part in the extraction pass.
func (v *Values) Has(name string) bool {
	if v == nil {
		return false
	}
	_, ok := v.found[name]
	return ok
}

// Each calls fn for every variable in name order.
func (v *Values) Each(fn func(name, value string, found bool)) {
	if v == nil {
		return
	}
	names := make([]string, 0, len(v.found))
	for name := range v.found {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fn(name, v.values[name], v.found[name])
	}
}

// Map returns the found values as a plain map.
func (v *Values) Map() map[string]string {
	result := make(map[string]string)
	v.Each(func(name, value string, found bool) {
		if found {
			result[name] = value
		}
	})
	return result
}

func (v *Values) Len() int {
	if v == nil {
		return 0
	}
	return len(v.found)
}

// Extractor runs every pattern of a Registry against response payloads.
type Extractor struct {
	registry *Registry
	report   ReportFunc
}

type ExtractorOption func(*Extractor)

// WithReportFunc installs a hook that observes each extracted variable.
func WithReportFunc(fn ReportFunc) ExtractorOption {
	return func(e *Extractor) {
		e.report = fn
	}
}

func NewExtractor(registry *Registry, opts ...ExtractorOption) *Extractor {
	e := &Extractor{registry: registry}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Registry returns the registry the extractor was built with.
func (e *Extractor) Registry() *Registry {
	return e.registry
}

// Extract evaluates all patterns against body and returns a new snapshot.
// Previously extracted values play no part in the result.
func (e *Extractor) Extract(body string) *Values {
	values := ExtractAll(e.registry, body)
	if e.report != nil {
		values.Each(e.report)
	}
	return values
}

// ExtractAll evaluates all patterns of registry against body.
func ExtractAll(registry *Registry, body string) *Values {
	result := &Values{
		values: make(map[string]string, registry.Len()),
		found:  make(map[string]bool, registry.Len()),
	}

	var (
		doc    gjson.Result
		parsed bool
		isJSON bool
	)
	for _, p := range registry.patterns {
		text := body
		if p.Path != "" {
			if !parsed {
				isJSON = gjson.Valid(body)
				if isJSON {
					doc = gjson.Parse(body)
				}
				parsed = true
			}
			scoped := doc.Get(p.Path)
			if !isJSON || !scoped.Exists() {
				result.found[p.Name] = false
				continue
			}
			text = scoped.String()
		}

		value, ok := p.Match(text)
		result.values[p.Name] = value
		result.found[p.Name] = ok
	}

	return result
}

// Match scans text for all non-overlapping matches of the pattern and joins
// the fragments with Separator. ok is false when nothing matched.
func (p *Pattern) Match(text string) (string, bool) {
	matches := p.re.FindAllStringSubmatchIndex(text, -1)
	if len(matches) == 0 {
		return "", false
	}

	groups := p.re.NumSubexp()
	fragments := make([]string, 0, len(matches)*max(groups, 1))
	for _, m := range matches {
		if groups == 0 {
			fragments = append(fragments, text[m[0]:m[1]])
			continue
		}
		for g := 1; g <= groups; g++ {
			start, end := m[2*g], m[2*g+1]
			if start < 0 {
				// group did not participate in this match
				fragments = append(fragments, "")
				continue
			}
			fragments = append(fragments, text[start:end])
		}
	}

	return strings.Join(fragments, Separator), true
}
