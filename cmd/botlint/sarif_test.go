package main

import (
	"encoding/json"
	"testing"

	"botlint/internal/finding"
	"botlint/internal/report"
)

func TestFormatReportAsSARIF(t *testing.T) {
	findings := []finding.Finding{
		finding.PageLink(finding.At("Order", "Start"), "Refund"),
		finding.HandlerMissing(finding.At("Order", "Pay")),
		finding.PageLink(finding.At("Order", "Size"), "Gone"),
		finding.CustomCheck("Tone is friendly"),
	}
	r := report.Build("run-1", "bot.json", findings, []string{"", "", "fix it", ""}, nil)

	out, err := FormatReportAsSARIF(r, "1.2.3")
	if err != nil {
		t.Fatalf("FormatReportAsSARIF() error = %v", err)
	}

	var doc SARIFReport
	if err := json.Unmarshal([]byte(out), &doc); err != nil {
		t.Fatalf("invalid SARIF JSON: %v", err)
	}
	if doc.Version != "2.1.0" || len(doc.Runs) != 1 {
		t.Fatalf("version = %q, runs = %d", doc.Version, len(doc.Runs))
	}
	run := doc.Runs[0]

	if run.AutomationDetails == nil || run.AutomationDetails.ID != "run-1" {
		t.Errorf("automationDetails = %+v, want run-1", run.AutomationDetails)
	}
	if got := len(run.Tool.Driver.Rules); got != 3 {
		t.Errorf("rules = %d, want 3 distinct kinds", got)
	}
	if len(run.Results) != 4 {
		t.Fatalf("results = %d, want 4", len(run.Results))
	}

	first, third := run.Results[0], run.Results[2]
	if first.RuleID != "botlint/PageLinkError" || first.Level != "error" {
		t.Errorf("first result = %s/%s", first.RuleID, first.Level)
	}
	if third.RuleIndex != first.RuleIndex {
		t.Errorf("same kind got rule indexes %d and %d", first.RuleIndex, third.RuleIndex)
	}
	if third.Properties["suggestion"] != "fix it" {
		t.Errorf("suggestion property = %v", third.Properties["suggestion"])
	}
	if first.Fingerprints["botlint/v1"] == third.Fingerprints["botlint/v1"] {
		t.Error("distinct findings share a fingerprint")
	}

	loc := first.Locations[0]
	if loc.PhysicalLocation == nil || loc.PhysicalLocation.ArtifactLocation.URI != "bot.json" {
		t.Errorf("physical location = %+v", loc.PhysicalLocation)
	}
	if loc.LogicalLocations[0].FullyQualifiedName != "Order > Start" {
		t.Errorf("logical location = %+v", loc.LogicalLocations[0])
	}

	overall := run.Results[3].Locations[0].LogicalLocations[0]
	if overall.Name != finding.Overall || overall.Kind != "module" {
		t.Errorf("custom check location = %+v, want overall module", overall)
	}
}

func TestFormatReportAsSARIF_Stdin(t *testing.T) {
	r := report.Build("run-2", "-", []finding.Finding{finding.HandlerMissing(finding.At("F", "P"))}, nil, nil)
	out, err := FormatReportAsSARIF(r, "dev")
	if err != nil {
		t.Fatal(err)
	}
	var doc SARIFReport
	if err := json.Unmarshal([]byte(out), &doc); err != nil {
		t.Fatal(err)
	}
	if loc := doc.Runs[0].Results[0].Locations[0]; loc.PhysicalLocation != nil {
		t.Errorf("stdin input got physical location %+v", loc.PhysicalLocation)
	}
}

func TestSeverityToSARIFLevel(t *testing.T) {
	tests := []struct {
		sev  finding.Severity
		want string
	}{
		{finding.SeverityError, "error"},
		{finding.SeverityWarning, "warning"},
		{finding.SeverityInfo, "note"},
	}
	for _, tt := range tests {
		if got := severityToSARIFLevel(tt.sev); got != tt.want {
			t.Errorf("severityToSARIFLevel(%s) = %s, want %s", tt.sev, got, tt.want)
		}
	}
}
