package logger

import (
	"fmt"

	"github.com/abdul-hamid-achik/respvars/packages/capture"
)

// ExtractionReporter returns a capture.ReportFunc that logs every variable
// assignment at info level.
func ExtractionReporter(l Logger) capture.ReportFunc {
	return func(name, value string, found bool) {
		l.Info("variable assigned",
			String("variable", name),
			String("value", value),
			Bool("found", found),
		)
	}
}

// WarnFunc adapts the logger to printf-style warning hooks.
func WarnFunc(l Logger) func(format string, args ...any) {
	return func(format string, args ...any) {
		l.Warn(fmt.Sprintf(format, args...))
	}
}
