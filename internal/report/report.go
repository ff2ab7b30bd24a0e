// Package report assembles validation results for export.
package report

import (
	"encoding/json"
	"io"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"botlint/internal/finding"
	"botlint/internal/usage"
)

// Report is the outcome of one validation run.
type Report struct {
	RunID       string            `json:"runId" yaml:"runId"`
	Source      string            `json:"source" yaml:"source"`
	GeneratedAt time.Time         `json:"generatedAt" yaml:"generatedAt"`
	Findings    []finding.Finding `json:"findings" yaml:"findings"`
	Suggestions []string          `json:"suggestions" yaml:"suggestions"`
	Usage       *usage.Result     `json:"usage,omitempty" yaml:"usage,omitempty"`
	Summary     Summary           `json:"summary" yaml:"summary"`
}

// Summary counts findings.
type Summary struct {
	Total      int                      `json:"total" yaml:"total"`
	ByKind     map[finding.Kind]int     `json:"byKind" yaml:"byKind"`
	BySeverity map[finding.Severity]int `json:"bySeverity" yaml:"bySeverity"`
}

// Entry pairs a finding with its suggestion.
type Entry struct {
	Finding    finding.Finding
	Suggestion string
}

// NewRunID returns a fresh run identifier.
func NewRunID() string {
	return uuid.NewString()
}

// Build assembles a report. suggestions may be shorter than findings;
// missing positions are empty.
func Build(runID, source string, findings []finding.Finding, suggestions []string, u *usage.Result) *Report {
	if runID == "" {
		runID = NewRunID()
	}
	if findings == nil {
		findings = []finding.Finding{}
	}
	aligned := make([]string, len(findings))
	copy(aligned, suggestions)

	return &Report{
		RunID:       runID,
		Source:      source,
		GeneratedAt: time.Now().UTC(),
		Findings:    findings,
		Suggestions: aligned,
		Usage:       u,
		Summary:     Summarize(findings),
	}
}

// Summarize counts findings by kind and severity.
func Summarize(findings []finding.Finding) Summary {
	return Summary{
		Total:      len(findings),
		ByKind:     finding.CountByKind(findings),
		BySeverity: finding.CountBySeverity(findings),
	}
}

// Entries zips findings with their suggestions.
func (r *Report) Entries() []Entry {
	out := make([]Entry, len(r.Findings))
	for i, f := range r.Findings {
		out[i] = Entry{Finding: f}
		if i < len(r.Suggestions) {
			out[i].Suggestion = r.Suggestions[i]
		}
	}
	return out
}

// HasStructureError reports whether the document itself was rejected.
func (r *Report) HasStructureError() bool {
	return finding.Has(r.Findings, finding.KindDataStructureError)
}

// EncodeJSON writes r as indented JSON.
func EncodeJSON(w io.Writer, r *Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

// EncodeYAML writes r as YAML.
func EncodeYAML(w io.Writer, r *Report) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(r); err != nil {
		return err
	}
	return enc.Close()
}

// Decode reads a report written by EncodeJSON.
func Decode(data []byte) (*Report, error) {
	var r Report
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, err
	}
	return &r, nil
}
