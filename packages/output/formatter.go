package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/abdul-hamid-achik/respvars/packages/history"
	"github.com/abdul-hamid-achik/respvars/packages/poller"
	"github.com/abdul-hamid-achik/respvars/packages/provider"
)

// Formatter is implemented by every output format.
type Formatter interface {
	FormatVariables(vars []provider.Resolved)
	FormatSummary(sum poller.Summary)
	FormatPasses(passes []history.Pass)
	FormatError(err error)
}

// New returns the formatter for format ("console" or "json").
func New(format string, w io.Writer, noColor bool) (Formatter, error) {
	switch strings.ToLower(format) {
	case "", "console":
		return NewConsoleFormatter(WithWriter(w), WithNoColor(noColor)), nil
	case "json":
		return NewJSONFormatter(WithJSONWriter(w)), nil
	default:
		return nil, fmt.Errorf("unknown output format %q (want console or json)", format)
	}
}

// truncate shortens long values for display
func truncate(s string, maxLen int) string {
	if maxLen <= 0 || len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
