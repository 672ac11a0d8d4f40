package output

import (
	"fmt"
	"io"
	"os"
)

// Result records the outcome for one declared artifact in a gen run.
type Result struct {
	Name   string `json:"name"`
	Kind   string `json:"kind"`   // function | constant
	Source string `json:"source"` // cache | generated
	Path   string `json:"path,omitempty"`
	Value  string `json:"value,omitempty"` // constants only
}

// Report summarizes a gen run.
type Report struct {
	Tool     string   `json:"tool"`
	Version  string   `json:"version"`
	RunID    string   `json:"runId"`
	Provider string   `json:"provider"`
	Model    string   `json:"model"`
	Results  []Result `json:"results"`
	TotalMs  int64    `json:"totalMs"`
}

// Writer writes a report in a specific format.
type Writer interface {
	Write(w io.Writer, report *Report) error
}

// GetWriter returns a writer for the specified format.
func GetWriter(format string) (Writer, error) {
	switch format {
	case "text":
		return &TextWriter{}, nil
	case "json":
		return &JSONWriter{}, nil
	default:
		return nil, fmt.Errorf("unsupported output format: %s", format)
	}
}

// WriteReport writes the report to the specified output (file path or stdout).
func WriteReport(report *Report, format, outPath string) error {
	writer, err := GetWriter(format)
	if err != nil {
		return err
	}

	var w io.Writer
	if outPath != "" {
		f, err := os.Create(outPath)
		if err != nil {
			return fmt.Errorf("creating output file: %w", err)
		}
		defer f.Close()
		w = f
	} else {
		w = os.Stdout
	}

	return writer.Write(w, report)
}
