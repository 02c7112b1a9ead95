// Package provider exposes variables extracted from the latest HTTP response
// and falls back to other value sources when a variable was not extracted.
package provider

import (
	"sync/atomic"

	"github.com/abdul-hamid-achik/respvars/packages/capture"
	"github.com/abdul-hamid-achik/respvars/packages/core/env"
	"github.com/abdul-hamid-achik/respvars/packages/http"
)

// state pairs an extractor with the values it last produced so both are
// replaced together.
type state struct {
	extractor *capture.Extractor
	values    *capture.Values
}

// ValueExtractor looks values up first in the most recent extraction pass
// and then in its fallback source. OnResponse must not be called
// concurrently with itself; GetValue may be called at any time and always
// sees a complete snapshot.
type ValueExtractor struct {
	fallback env.Source
	report   capture.ReportFunc
	current  atomic.Pointer[state]
}

type Option func(*ValueExtractor)

// WithReportFunc observes every variable after each extraction pass.
func WithReportFunc(fn capture.ReportFunc) Option {
	return func(v *ValueExtractor) {
		v.report = fn
	}
}

// New creates an unconfigured ValueExtractor. fallback may be nil.
func New(fallback env.Source, opts ...Option) *ValueExtractor {
	v := &ValueExtractor{fallback: fallback}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Configure compiles defs and installs them with an empty value set. On
// error the previous configuration stays in place.
func (v *ValueExtractor) Configure(defs []capture.Definition) error {
	registry, err := capture.Compile(defs)
	if err != nil {
		return err
	}

	v.current.Store(&state{
		extractor: capture.NewExtractor(registry, capture.WithReportFunc(v.report)),
	})
	return nil
}

// Configured reports whether Configure has succeeded at least once.
func (v *ValueExtractor) Configured() bool {
	return v.current.Load() != nil
}

// OnResponse replaces all extracted values with those found in resp.
// req is accepted for context only.
func (v *ValueExtractor) OnResponse(req *http.Request, resp *http.Response) {
	v.Extract(resp.Payload())
}

// Extract replaces all extracted values with those found in body.
func (v *ValueExtractor) Extract(body string) {
	cur := v.current.Load()
	if cur == nil {
		return
	}
	values := cur.extractor.Extract(body)
	// a concurrent Configure wins; its empty value set must not be
	// overwritten with values from the old patterns
	v.current.CompareAndSwap(cur, &state{extractor: cur.extractor, values: values})
}

// GetValue returns the extracted value for name, or the fallback's value
// when the latest pass did not produce one.
func (v *ValueExtractor) GetValue(name string) (string, bool) {
	r := v.Resolve(name)
	return r.Value, r.Found()
}

// Lookup implements env.Source.
func (v *ValueExtractor) Lookup(name string) (string, bool) {
	return v.GetValue(name)
}

// Snapshot returns the values of the latest extraction pass, or nil before
// the first response.
func (v *ValueExtractor) Snapshot() *capture.Values {
	if cur := v.current.Load(); cur != nil {
		return cur.values
	}
	return nil
}

// Names returns the configured variable names.
func (v *ValueExtractor) Names() []string {
	if cur := v.current.Load(); cur != nil {
		return cur.extractor.Registry().Names()
	}
	return nil
}
