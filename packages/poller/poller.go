// Package poller drives the request/response loop: it renders a request
// template from the current variables, performs the request and feeds the
// response back into the value extractor.
package poller

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/abdul-hamid-achik/respvars/packages/core/env"
	"github.com/abdul-hamid-achik/respvars/packages/history"
	"github.com/abdul-hamid-achik/respvars/packages/http"
	"github.com/abdul-hamid-achik/respvars/packages/logger"
	"github.com/abdul-hamid-achik/respvars/packages/provider"
	"golang.org/x/time/rate"
)

// DefaultInterval is used when neither an interval nor a rate is set.
const DefaultInterval = 30 * time.Second

// Doer performs HTTP requests. *http.Client satisfies it.
type Doer interface {
	Do(ctx context.Context, req *http.Request) (*http.Response, error)
}

// Recorder persists extraction passes. *history.Store satisfies it.
type Recorder interface {
	Record(ctx context.Context, p history.Pass) error
}

// Template describes the request sent on every poll. URL, header values and
// body may contain ${name} placeholders.
type Template struct {
	Method  string
	URL     string
	Headers map[string]string
	// Query parameters are added to the URL; values may hold placeholders.
	Query   map[string]string
	Body    string
	Timeout time.Duration
}

// Config controls the pace of a poll run.
type Config struct {
	Template Template
	// Interval between requests; ignored when Rate is set.
	Interval time.Duration
	// Rate in requests per second.
	Rate float64
	// MaxIterations stops the run after this many requests; zero runs until
	// the context is cancelled.
	MaxIterations int
}

// Result describes one completed poll.
type Result struct {
	Request  *http.Request
	Response *http.Response
	Err      error
}

type Poller struct {
	client   Doer
	values   *provider.ValueExtractor
	resolver *env.Resolver
	limiter  *rate.Limiter
	stats    *Stats
	history  Recorder
	log      logger.Logger
	onResult func(Result)

	template atomic.Pointer[Template]
	maxIter  int
}

type Option func(*Poller)

// WithHistory records every extraction pass.
func WithHistory(r Recorder) Option {
	return func(p *Poller) {
		p.history = r
	}
}

func WithLogger(l logger.Logger) Option {
	return func(p *Poller) {
		p.log = l
	}
}

// WithResultFunc is called after every poll, successful or not.
func WithResultFunc(fn func(Result)) Option {
	return func(p *Poller) {
		p.onResult = fn
	}
}

// New creates a poller. Placeholders are resolved through values, which
// falls back to its own sources for names it did not extract.
func New(cfg Config, client Doer, values *provider.ValueExtractor, opts ...Option) *Poller {
	p := &Poller{
		client:  client,
		values:  values,
		stats:   NewStats(),
		log:     logger.NewNop(),
		maxIter: cfg.MaxIterations,
	}
	for _, opt := range opts {
		opt(p)
	}

	p.resolver = env.NewResolver(values, env.WithWarnFunc(logger.WarnFunc(p.log)))
	p.limiter = rate.NewLimiter(limitFor(cfg), 1)
	p.SetTemplate(cfg.Template)

	return p
}

func limitFor(cfg Config) rate.Limit {
	if cfg.Rate > 0 {
		return rate.Limit(cfg.Rate)
	}
	interval := cfg.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}
	return rate.Every(interval)
}

// SetTemplate replaces the request template used by subsequent polls.
func (p *Poller) SetTemplate(t Template) {
	p.template.Store(&t)
}

func (p *Poller) Stats() *Stats {
	return p.stats
}

// Run polls until ctx is cancelled or MaxIterations is reached. Request
// failures are logged and counted but do not stop the run.
func (p *Poller) Run(ctx context.Context) error {
	for i := 0; p.maxIter <= 0 || i < p.maxIter; i++ {
		if err := p.limiter.Wait(ctx); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("waiting for rate limiter: %w", err)
		}

		if err := p.PollOnce(ctx); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			p.log.Warn("poll failed", logger.Err(err))
		}
	}
	return nil
}

// Render builds the next request from the template and current values.
func (p *Poller) Render() *http.Request {
	t := p.template.Load()

	req := http.NewRequest(t.Method, p.resolver.Resolve(t.URL))
	for k, v := range p.resolver.ResolveAll(t.Headers) {
		req.SetHeader(k, v)
	}
	for k, v := range p.resolver.ResolveAll(t.Query) {
		req.SetQueryParam(k, v)
	}
	if t.Body != "" {
		req.SetBody(p.resolver.Resolve(t.Body))
	}
	if t.Timeout > 0 {
		req.SetTimeout(t.Timeout)
	}
	return req
}

// PollOnce performs a single request and applies its response.
func (p *Poller) PollOnce(ctx context.Context) error {
	req := p.Render()
	log := p.log.With(logger.String("request_id", req.ID))

	resp, err := p.client.Do(ctx, req)
	if err != nil {
		p.stats.RecordError()
		p.notify(Result{Request: req, Err: err})
		return fmt.Errorf("%s %s: %w", req.Method, req.URL, err)
	}
	p.stats.RecordResponse(resp)

	log.Debug("response received",
		logger.Int("status", resp.StatusCode),
		logger.Int("bytes", len(resp.Body)),
		logger.String("content_type", resp.ContentType()),
	)

	p.values.OnResponse(req, resp)

	snapshot := p.values.Snapshot()
	if len(snapshot.Map()) > 0 {
		p.stats.RecordExtraction()
	}

	var recordErr error
	if p.history != nil && snapshot != nil {
		if err := p.history.Record(ctx, history.NewPass(snapshot, req.ID, resp.StatusCode)); err != nil {
			recordErr = fmt.Errorf("recording history: %w", err)
		}
	}

	p.notify(Result{Request: req, Response: resp, Err: recordErr})
	return recordErr
}

func (p *Poller) notify(r Result) {
	if p.onResult != nil {
		p.onResult(r)
	}
}
