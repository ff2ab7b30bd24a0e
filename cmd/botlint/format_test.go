package main

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"botlint/internal/finding"
	"botlint/internal/history"
	"botlint/internal/report"
	"botlint/internal/usage"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		allowed []OutputFormat
		want    OutputFormat
		wantErr bool
	}{
		{"json", []OutputFormat{FormatHuman, FormatJSON}, FormatJSON, false},
		{"SARIF", []OutputFormat{FormatSARIF}, FormatSARIF, false},
		{"yaml", []OutputFormat{FormatHuman, FormatJSON}, "", true},
		{"", []OutputFormat{FormatHuman}, "", true},
	}
	for _, tt := range tests {
		got, err := parseFormat(tt.in, tt.allowed...)
		if (err != nil) != tt.wantErr {
			t.Errorf("parseFormat(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("parseFormat(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSummaryLine(t *testing.T) {
	tests := []struct {
		name     string
		findings []finding.Finding
		want     string
	}{
		{"none", nil, "0 findings"},
		{
			"mixed",
			[]finding.Finding{
				finding.HandlerMissing(finding.At("F", "P")),
				finding.CustomCheck("a"),
			},
			"2 findings (1 error, 1 info)",
		},
		{
			"plural",
			[]finding.Finding{
				finding.HandlerMissing(finding.At("F", "P")),
				finding.HandlerMissing(finding.At("F", "Q")),
				finding.DuplicateIntent([]string{"X"}),
			},
			"3 findings (2 errors, 1 warning)",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := summaryLine(report.Summarize(tt.findings)); got != tt.want {
				t.Errorf("summaryLine() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFormatReportHuman(t *testing.T) {
	u := usage.Result{
		DeclaredIntents: []string{"A", "B"},
		Findings:        []finding.Finding{finding.UnusedIntent([]string{"B"})},
	}
	r := report.Build("run-9", "bot.json", []finding.Finding{
		finding.HandlerMissing(finding.At("Order", "Pay")),
	}, []string{"Add a handler"}, &u)

	out := formatReportHuman(r)
	for _, want := range []string{
		"run-9",
		"Source: bot.json",
		"[HandlerMissing] Order > Pay:",
		"→ Add a handler",
		"Intents:  2 declared",
		"1 finding (1 error)",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestFormatReportHuman_Clean(t *testing.T) {
	out := formatReportHuman(report.Build("run-0", "", nil, nil, nil))
	if !strings.Contains(out, "No problems found") {
		t.Errorf("clean report output:\n%s", out)
	}
}

func TestWriteReport_JSONRoundTrip(t *testing.T) {
	r := report.Build("run-3", "bot.json", []finding.Finding{
		finding.PageLink(finding.At("F", "P"), "Missing"),
	}, []string{"s"}, nil)

	var buf bytes.Buffer
	if err := writeReport(&buf, r, FormatJSON); err != nil {
		t.Fatal(err)
	}
	got, err := report.Decode(buf.Bytes())
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if got.RunID != "run-3" || len(got.Findings) != 1 || got.Findings[0].Location != finding.At("F", "P") {
		t.Errorf("round trip = %+v", got)
	}
}

func TestFormatRunsHuman(t *testing.T) {
	if out := formatRunsHuman(nil); !strings.Contains(out, "No archived runs") {
		t.Errorf("empty output = %q", out)
	}
	out := formatRunsHuman([]history.Run{{
		RunID:       "run-1",
		Source:      "bot.json",
		GeneratedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		Total:       3,
		Errors:      2,
	}})
	if !strings.Contains(out, "run-1") || !strings.Contains(out, "bot.json") {
		t.Errorf("runs output:\n%s", out)
	}
}

func TestSortedKeys(t *testing.T) {
	got := sortedKeys(map[string]int{"b": 1, "a": 2, "c": 3})
	if strings.Join(got, ",") != "a,b,c" {
		t.Errorf("sortedKeys() = %v", got)
	}
}
