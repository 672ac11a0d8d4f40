package output

import (
	"fmt"
	"io"
	"strings"
)

// TextWriter outputs a human-readable text report.
type TextWriter struct{}

func (t *TextWriter) Write(w io.Writer, report *Report) error {
	ew := &errWriter{w: w}

	generated := 0
	cached := 0
	for _, r := range report.Results {
		switch r.Source {
		case "generated":
			generated++
		case "cache":
			cached++
		}
	}

	ew.printf("Conjure — generation run %s\n", report.RunID)
	ew.printf("Provider: %s (model: %s)\n", report.Provider, report.Model)
	ew.println(strings.Repeat("─", 60))
	ew.printf("Artifacts: %d total (%d generated, %d from cache)\n",
		len(report.Results), generated, cached)
	ew.println(strings.Repeat("─", 60))

	for _, r := range report.Results {
		ew.printf("\n  %-10s %s  [%s]\n", r.Kind, r.Name, r.Source)
		if r.Path != "" {
			ew.printf("    -> %s\n", r.Path)
		}
		if r.Value != "" {
			ew.printf("    = %s\n", r.Value)
		}
	}

	ew.printf("\n%s\n", strings.Repeat("─", 60))
	ew.printf("Completed in %dms\n", report.TotalMs)

	return ew.err
}

// errWriter wraps an io.Writer and captures the first error.
type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) printf(format string, args ...interface{}) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintf(ew.w, format, args...)
}

func (ew *errWriter) println(s string) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintln(ew.w, s)
}
