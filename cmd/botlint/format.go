package main

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"botlint/internal/finding"
	"botlint/internal/history"
	"botlint/internal/lint"
	"botlint/internal/report"
	"botlint/internal/typo"
	"botlint/internal/usage"
	"botlint/internal/version"
)

// OutputFormat represents the output format type
type OutputFormat string

const (
	FormatJSON  OutputFormat = "json"
	FormatHuman OutputFormat = "human"
	FormatYAML  OutputFormat = "yaml"
	FormatSARIF OutputFormat = "sarif"
)

// parseFormat accepts the formats listed in allowed.
func parseFormat(s string, allowed ...OutputFormat) (OutputFormat, error) {
	for _, f := range allowed {
		if strings.EqualFold(s, string(f)) {
			return f, nil
		}
	}
	names := make([]string, len(allowed))
	for i, f := range allowed {
		names[i] = string(f)
	}
	return "", fmt.Errorf("unsupported format %q (use: %s)", s, strings.Join(names, ", "))
}

var (
	colorError   = lipgloss.Color("196")
	colorWarning = lipgloss.Color("220")
	colorInfo    = lipgloss.Color("39")
	colorSuccess = lipgloss.Color("42")
	colorDim     = lipgloss.Color("241")

	headerStyle     = lipgloss.NewStyle().Bold(true)
	locationStyle   = lipgloss.NewStyle().Bold(true)
	dimStyle        = lipgloss.NewStyle().Foreground(colorDim)
	successStyle    = lipgloss.NewStyle().Foreground(colorSuccess)
	suggestionStyle = lipgloss.NewStyle().Foreground(colorInfo).PaddingLeft(4)
)

func severityStyle(s finding.Severity) lipgloss.Style {
	switch s {
	case finding.SeverityError:
		return lipgloss.NewStyle().Foreground(colorError).Bold(true)
	case finding.SeverityWarning:
		return lipgloss.NewStyle().Foreground(colorWarning)
	default:
		return lipgloss.NewStyle().Foreground(colorInfo)
	}
}

func severityIcon(s finding.Severity) string {
	switch s {
	case finding.SeverityError:
		return "✗"
	case finding.SeverityWarning:
		return "!"
	default:
		return "·"
	}
}

func writeJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

// writeReport renders r in format.
func writeReport(w io.Writer, r *report.Report, format OutputFormat) error {
	switch format {
	case FormatJSON:
		return report.EncodeJSON(w, r)
	case FormatYAML:
		return report.EncodeYAML(w, r)
	case FormatSARIF:
		out, err := FormatReportAsSARIF(r, version.Version)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, out)
		return err
	default:
		_, err := io.WriteString(w, formatReportHuman(r))
		return err
	}
}

func formatReportHuman(r *report.Report) string {
	var b strings.Builder

	b.WriteString(headerStyle.Render("botlint report") + " " + dimStyle.Render(r.RunID) + "\n")
	if r.Source != "" {
		b.WriteString(dimStyle.Render("Source: "+r.Source) + "\n")
	}
	b.WriteString("\n")

	if len(r.Findings) == 0 {
		b.WriteString(successStyle.Render("✓ No problems found") + "\n")
	}
	for _, e := range r.Entries() {
		writeFindingHuman(&b, e.Finding, e.Suggestion)
	}

	if r.Usage != nil {
		b.WriteString("\n")
		b.WriteString(formatUsageHuman(*r.Usage))
	}

	b.WriteString("\n")
	b.WriteString(summaryLine(r.Summary) + "\n")
	return b.String()
}

func writeFindingHuman(b *strings.Builder, f finding.Finding, suggestion string) {
	sev := f.Severity()
	style := severityStyle(sev)
	fmt.Fprintf(b, "%s %s %s: %s\n",
		style.Render(severityIcon(sev)),
		style.Render("["+string(f.Kind)+"]"),
		locationStyle.Render(f.Location.String()),
		f.Message,
	)
	if suggestion == "" {
		suggestion = f.Suggestion
	}
	if suggestion != "" {
		b.WriteString(suggestionStyle.Render("→ "+suggestion) + "\n")
	}
}

func summaryLine(s report.Summary) string {
	if s.Total == 0 {
		return successStyle.Render("0 findings")
	}
	parts := []string{}
	for _, sev := range []finding.Severity{finding.SeverityError, finding.SeverityWarning, finding.SeverityInfo} {
		if n := s.BySeverity[sev]; n > 0 {
			word := string(sev)
			if sev != finding.SeverityInfo {
				word = plural(word, n)
			}
			parts = append(parts, severityStyle(sev).Render(fmt.Sprintf("%d %s", n, word)))
		}
	}
	return fmt.Sprintf("%d %s (%s)", s.Total, plural("finding", s.Total), strings.Join(parts, ", "))
}

func plural(word string, n int) string {
	if n == 1 {
		return word
	}
	return word + "s"
}

func formatUsageHuman(u usage.Result) string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("Intent & entity usage") + "\n")
	fmt.Fprintf(&b, "  Intents:  %d declared\n", len(u.DeclaredIntents))
	fmt.Fprintf(&b, "  Entities: %d declared\n", len(u.DeclaredEntities))
	if len(u.Findings) == 0 {
		b.WriteString("  " + successStyle.Render("✓ every declaration is used exactly once") + "\n")
		return b.String()
	}
	for _, f := range u.Findings {
		style := severityStyle(f.Severity())
		fmt.Fprintf(&b, "  %s %s\n", style.Render(severityIcon(f.Severity())), f.Message)
	}
	return b.String()
}

func formatSummaryHuman(s *lint.Summary) string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("Scenarios") + "\n")
	for _, sc := range s.Scenarios {
		fmt.Fprintf(&b, "\n%s\n", locationStyle.Render(sc.Flow))
		fmt.Fprintf(&b, "  %s\n", sc.Describe())
		if len(sc.KeyPages) > 0 {
			fmt.Fprintf(&b, "  %s %s\n", dimStyle.Render("Key pages:"), strings.Join(sc.KeyPages, ", "))
		}
		if sc.Guide != "" {
			fmt.Fprintf(&b, "  %s %s\n", dimStyle.Render("Guide:"), sc.Guide)
		}
	}

	b.WriteString("\n" + headerStyle.Render("Variables") + "\n")
	if len(s.Variables) == 0 {
		b.WriteString(dimStyle.Render("  (none)") + "\n")
		return b.String()
	}
	for _, name := range sortedKeys(s.Variables) {
		uses := s.Variables[name]
		fmt.Fprintf(&b, "\n%s %s\n", locationStyle.Render(name), dimStyle.Render(fmt.Sprintf("(%d %s)", len(uses), plural("assignment", len(uses)))))
		for _, u := range uses {
			fmt.Fprintf(&b, "  %s > %s  %s = %s  %s\n", u.Flow, u.Page, u.Variable, u.Value, dimStyle.Render("["+u.HandlerType+" "+u.Where+"]"))
		}
	}
	return b.String()
}

func formatTyposHuman(entries []lint.TypoEntry) string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("Typo check") + "\n\n")
	counts := make(map[typo.Status]int)
	for _, e := range entries {
		counts[e.Verdict.Status]++
		var label string
		switch e.Verdict.Status {
		case typo.StatusTypo:
			label = severityStyle(finding.SeverityWarning).Render(e.Label)
		case typo.StatusClean:
			label = successStyle.Render(e.Label)
		default:
			label = dimStyle.Render(e.Label)
		}
		fmt.Fprintf(&b, "%s > %s  %q\n    %s\n", e.Flow, e.Page, e.Text, label)
	}
	fmt.Fprintf(&b, "\n%d %s: %d typo, %d clean, %d unknown\n",
		len(entries), plural("text", len(entries)),
		counts[typo.StatusTypo], counts[typo.StatusClean], counts[typo.StatusUnknown])
	return b.String()
}

func formatRunsHuman(runs []history.Run) string {
	if len(runs) == 0 {
		return dimStyle.Render("No archived runs") + "\n"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", headerStyle.Render(fmt.Sprintf("%-36s  %-20s  %6s  %6s  %8s  %s", "RUN", "GENERATED", "TOTAL", "ERRORS", "WARNINGS", "SOURCE")))
	for _, r := range runs {
		fmt.Fprintf(&b, "%-36s  %-20s  %6d  %6d  %8d  %s\n",
			r.RunID, r.GeneratedAt.Local().Format("2006-01-02 15:04:05"), r.Total, r.Errors, r.Warnings, r.Source)
	}
	return b.String()
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
