package output

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/abdul-hamid-achik/respvars/packages/history"
	"github.com/abdul-hamid-achik/respvars/packages/poller"
	"github.com/abdul-hamid-achik/respvars/packages/provider"
	"github.com/fatih/color"
)

const maxValueLen = 120

type ConsoleFormatter struct {
	writer  io.Writer
	noColor bool
}

type ConsoleOption func(*ConsoleFormatter)

func NewConsoleFormatter(opts ...ConsoleOption) *ConsoleFormatter {
	f := &ConsoleFormatter{
		writer: os.Stdout,
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.noColor {
		color.NoColor = true
	}
	return f
}

func WithWriter(w io.Writer) ConsoleOption {
	return func(f *ConsoleFormatter) {
		if w != nil {
			f.writer = w
		}
	}
}

func WithNoColor(nc bool) ConsoleOption {
	return func(f *ConsoleFormatter) {
		f.noColor = nc
	}
}

func (f *ConsoleFormatter) FormatVariables(vars []provider.Resolved) {
	green := color.New(color.FgGreen).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()
	dim := color.New(color.Faint).SprintFunc()
	bold := color.New(color.Bold).SprintFunc()

	width := 0
	for _, v := range vars {
		width = max(width, len(v.Name))
	}

	for _, v := range vars {
		name := bold(fmt.Sprintf("%-*s", width, v.Name))
		switch v.Origin {
		case provider.OriginExtracted:
			fmt.Fprintf(f.writer, "  %s = %s\n", name, green(truncate(v.Value, maxValueLen)))
		case provider.OriginFallback:
			fmt.Fprintf(f.writer, "  %s = %s %s\n", name, yellow(truncate(v.Value, maxValueLen)), dim("(fallback)"))
		default:
			fmt.Fprintf(f.writer, "  %s = %s\n", name, dim("<absent>"))
		}
	}
}

func (f *ConsoleFormatter) FormatSummary(sum poller.Summary) {
	green := color.New(color.FgGreen).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()
	cyan := color.New(color.FgCyan).SprintFunc()
	bold := color.New(color.Bold).SprintFunc()

	fmt.Fprintf(f.writer, "\n%s\n", bold("Poll summary"))
	fmt.Fprintf(f.writer, "  Requests:  %d (%s", sum.Total, green(fmt.Sprintf("%d ok", sum.Success)))
	if sum.StatusErrors > 0 {
		fmt.Fprintf(f.writer, ", %s", red(fmt.Sprintf("%d non-2xx", sum.StatusErrors)))
	}
	if sum.Errors > 0 {
		fmt.Fprintf(f.writer, ", %s", red(fmt.Sprintf("%d failed", sum.Errors)))
	}
	fmt.Fprintf(f.writer, ")\n")
	fmt.Fprintf(f.writer, "  Extracted: %d passes with values\n", sum.Extracted)
	fmt.Fprintf(f.writer, "  Latency:   %s\n", cyan(fmt.Sprintf("p50=%s p95=%s p99=%s max=%s",
		sum.P50, sum.P95, sum.P99, sum.Max)))
	fmt.Fprintf(f.writer, "  Time:      %s\n", sum.Duration.Round(time.Millisecond))
}

func (f *ConsoleFormatter) FormatPasses(passes []history.Pass) {
	bold := color.New(color.Bold).SprintFunc()
	dim := color.New(color.Faint).SprintFunc()
	green := color.New(color.FgGreen).SprintFunc()

	if len(passes) == 0 {
		fmt.Fprintf(f.writer, "%s\n", dim("no history recorded"))
		return
	}

	for _, p := range passes {
		fmt.Fprintf(f.writer, "%s %s %s\n",
			bold(p.RecordedAt.Local().Format("2006-01-02 15:04:05")),
			dim(p.ID),
			dim(fmt.Sprintf("status=%d", p.StatusCode)))
		for _, v := range p.Values {
			if v.Found {
				fmt.Fprintf(f.writer, "  %s = %s\n", v.Name, green(truncate(v.Value, maxValueLen)))
			} else {
				fmt.Fprintf(f.writer, "  %s = %s\n", v.Name, dim("<absent>"))
			}
		}
	}
}

func (f *ConsoleFormatter) FormatError(err error) {
	red := color.New(color.FgRed).SprintFunc()
	fmt.Fprintf(f.writer, "%s %v\n", red("Error:"), err)
}
