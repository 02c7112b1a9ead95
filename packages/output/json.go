package output

import (
	"encoding/json"
	"io"
	"os"
	"time"

	"github.com/abdul-hamid-achik/respvars/packages/history"
	"github.com/abdul-hamid-achik/respvars/packages/poller"
	"github.com/abdul-hamid-achik/respvars/packages/provider"
)

// JSONVariable is one resolved variable. Value is null when absent.
type JSONVariable struct {
	Name   string  `json:"name"`
	Value  *string `json:"value"`
	Origin string  `json:"origin"`
}

// JSONSummary is a poll summary with latencies in milliseconds.
type JSONSummary struct {
	Total        int64   `json:"total"`
	Success      int64   `json:"success"`
	StatusErrors int64   `json:"statusErrors"`
	Errors       int64   `json:"errors"`
	Extracted    int64   `json:"extracted"`
	P50          float64 `json:"p50"`
	P95          float64 `json:"p95"`
	P99          float64 `json:"p99"`
	Max          float64 `json:"max"`
	Duration     float64 `json:"duration"`
}

// JSONPass is one recorded extraction pass.
type JSONPass struct {
	ID         string             `json:"id"`
	RecordedAt string             `json:"recordedAt"`
	RequestID  string             `json:"requestId,omitempty"`
	StatusCode int                `json:"statusCode"`
	Values     map[string]*string `json:"values"`
}

// JSONFormatter writes one JSON document per call.
type JSONFormatter struct {
	writer io.Writer
}

type JSONOption func(*JSONFormatter)

func NewJSONFormatter(opts ...JSONOption) *JSONFormatter {
	f := &JSONFormatter{writer: os.Stdout}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func WithJSONWriter(w io.Writer) JSONOption {
	return func(f *JSONFormatter) {
		if w != nil {
			f.writer = w
		}
	}
}

func (f *JSONFormatter) encode(v any) {
	enc := json.NewEncoder(f.writer)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

func (f *JSONFormatter) FormatVariables(vars []provider.Resolved) {
	out := make([]JSONVariable, 0, len(vars))
	for _, v := range vars {
		jv := JSONVariable{Name: v.Name, Origin: string(v.Origin)}
		if v.Found() {
			value := v.Value
			jv.Value = &value
		}
		out = append(out, jv)
	}
	f.encode(map[string]any{"variables": out})
}

func ms(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}

func (f *JSONFormatter) FormatSummary(sum poller.Summary) {
	f.encode(map[string]any{"summary": JSONSummary{
		Total:        sum.Total,
		Success:      sum.Success,
		StatusErrors: sum.StatusErrors,
		Errors:       sum.Errors,
		Extracted:    sum.Extracted,
		P50:          ms(sum.P50),
		P95:          ms(sum.P95),
		P99:          ms(sum.P99),
		Max:          ms(sum.Max),
		Duration:     ms(sum.Duration),
	}})
}

func (f *JSONFormatter) FormatPasses(passes []history.Pass) {
	out := make([]JSONPass, 0, len(passes))
	for _, p := range passes {
		jp := JSONPass{
			ID:         p.ID,
			RecordedAt: p.RecordedAt.UTC().Format(time.RFC3339Nano),
			RequestID:  p.RequestID,
			StatusCode: p.StatusCode,
			Values:     make(map[string]*string, len(p.Values)),
		}
		for _, v := range p.Values {
			if v.Found {
				value := v.Value
				jp.Values[v.Name] = &value
			} else {
				jp.Values[v.Name] = nil
			}
		}
		out = append(out, jp)
	}
	f.encode(map[string]any{"passes": out})
}

func (f *JSONFormatter) FormatError(err error) {
	f.encode(map[string]string{"error": err.Error()})
}
