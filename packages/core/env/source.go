package env

import (
	"os"
)

// Source is anything that can supply a value by name.
type Source interface {
	Lookup(name string) (string, bool)
}

// MapSource serves values from a fixed table, such as configuration overrides.
type MapSource map[string]string

func (m MapSource) Lookup(name string) (string, bool) {
	v, ok := m[name]
	return v, ok
}

// OSEnv looks names up in the process environment. When Prefix is set the
// name is looked up as Prefix+name.
type OSEnv struct {
	Prefix string
}

func (e OSEnv) Lookup(name string) (string, bool) {
	return os.LookupEnv(e.Prefix + name)
}

// Chain tries each source in order and returns the first value found.
type Chain []Source

func (c Chain) Lookup(name string) (string, bool) {
	for _, src := range c {
		if src == nil {
			continue
		}
		if v, ok := src.Lookup(name); ok {
			return v, true
		}
	}
	return "", false
}

// With returns a new chain with src tried before the existing sources.
func (c Chain) With(src Source) Chain {
	out := make(Chain, 0, len(c)+1)
	out = append(out, src)
	return append(out, c...)
}
