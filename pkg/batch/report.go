package batch

import (
	"encoding/json"
	"io"
	"os"
)

// Report is the JSON document written after a batch run.
type Report struct {
	Summary Summary  `json:"summary"`
	Records []Record `json:"records"`
}

// NewReport builds a report from records, computing the summary.
func NewReport(records []Record) Report {
	return Report{Summary: Summarize(records), Records: records}
}

// Write serializes the report as indented JSON.
func (r Report) Write(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

// WriteFile writes the report to path, creating or truncating it.
func (r Report) WriteFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := r.Write(f); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
