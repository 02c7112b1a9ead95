package poller

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"
	"github.com/abdul-hamid-achik/respvars/packages/http"
)

const (
	minLatencyUs = 1
	maxLatencyUs = 60_000_000
)

// Stats aggregates request outcomes and latencies for a poll run.
type Stats struct {
	mu sync.Mutex

	total        atomic.Int64
	success      atomic.Int64
	statusErrors atomic.Int64
	errors       atomic.Int64
	extracted    atomic.Int64

	// latency histogram in microseconds
	histogram *hdrhistogram.Histogram

	startTime time.Time
}

// Summary is a point-in-time view of Stats.
type Summary struct {
	Duration     time.Duration
	Total        int64
	Success      int64
	StatusErrors int64
	Errors       int64
	// Extracted counts passes in which at least one variable matched.
	Extracted int64

	P50  time.Duration
	P95  time.Duration
	P99  time.Duration
	Min  time.Duration
	Max  time.Duration
	Mean time.Duration
}

func NewStats() *Stats {
	return &Stats{
		// 1us to 60s range, 3 significant digits
		histogram: hdrhistogram.New(minLatencyUs, maxLatencyUs, 3),
		startTime: time.Now(),
	}
}

// RecordResponse records a request that produced a response, counting
// non-2xx statuses separately from successes.
func (s *Stats) RecordResponse(resp *http.Response) {
	s.total.Add(1)
	if resp.IsSuccess() {
		s.success.Add(1)
	} else {
		s.statusErrors.Add(1)
	}
	s.recordLatency(resp.Duration)
}

// RecordError records a request that failed before a response arrived.
func (s *Stats) RecordError() {
	s.total.Add(1)
	s.errors.Add(1)
}

func (s *Stats) recordLatency(duration time.Duration) {
	latencyUs := duration.Microseconds()
	if latencyUs < minLatencyUs {
		latencyUs = minLatencyUs
	}
	if latencyUs > maxLatencyUs {
		latencyUs = maxLatencyUs
	}

	s.mu.Lock()
	_ = s.histogram.RecordValue(latencyUs)
	s.mu.Unlock()
}

// RecordExtraction counts a pass that produced at least one value.
func (s *Stats) RecordExtraction() {
	s.extracted.Add(1)
}

func (s *Stats) Summary() Summary {
	s.mu.Lock()
	defer s.mu.Unlock()

	us := func(v int64) time.Duration {
		return time.Duration(v) * time.Microsecond
	}

	sum := Summary{
		Duration:     time.Since(s.startTime),
		Total:        s.total.Load(),
		Success:      s.success.Load(),
		StatusErrors: s.statusErrors.Load(),
		Errors:       s.errors.Load(),
		Extracted:    s.extracted.Load(),
	}
	if s.histogram.TotalCount() > 0 {
		sum.P50 = us(s.histogram.ValueAtQuantile(50))
		sum.P95 = us(s.histogram.ValueAtQuantile(95))
		sum.P99 = us(s.histogram.ValueAtQuantile(99))
		sum.Min = us(s.histogram.Min())
		sum.Max = us(s.histogram.Max())
		sum.Mean = us(int64(s.histogram.Mean()))
	}
	return sum
}
