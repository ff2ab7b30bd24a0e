package main

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"botlint/internal/finding"
	"botlint/internal/report"
)

// SARIF 2.1.0 schema types
// See: https://docs.oasis-open.org/sarif/sarif/v2.1.0/sarif-v2.1.0.html

// SARIFReport is the top-level SARIF document.
type SARIFReport struct {
	Schema  string     `json:"$schema"`
	Version string     `json:"version"`
	Runs    []SARIFRun `json:"runs"`
}

// SARIFRun represents a single analysis run.
type SARIFRun struct {
	Tool              SARIFTool              `json:"tool"`
	AutomationDetails *SARIFAutomation       `json:"automationDetails,omitempty"`
	Results           []SARIFResult          `json:"results"`
	Properties        map[string]interface{} `json:"properties,omitempty"`
}

// SARIFAutomation identifies the run.
type SARIFAutomation struct {
	ID string `json:"id"`
}

// SARIFTool describes the analysis tool.
type SARIFTool struct {
	Driver SARIFDriver `json:"driver"`
}

// SARIFDriver describes the primary analysis component.
type SARIFDriver struct {
	Name            string      `json:"name"`
	Version         string      `json:"version,omitempty"`
	SemanticVersion string      `json:"semanticVersion,omitempty"`
	Rules           []SARIFRule `json:"rules,omitempty"`
}

// SARIFRule describes a rule that detected an issue.
type SARIFRule struct {
	ID                   string                  `json:"id"`
	Name                 string                  `json:"name,omitempty"`
	ShortDescription     *SARIFMessage           `json:"shortDescription,omitempty"`
	DefaultConfiguration *SARIFRuleConfiguration `json:"defaultConfiguration,omitempty"`
}

// SARIFRuleConfiguration describes the default configuration for a rule.
type SARIFRuleConfiguration struct {
	Level string `json:"level,omitempty"` // error, warning, note, none
}

// SARIFResult represents a single finding.
type SARIFResult struct {
	RuleID       string                 `json:"ruleId"`
	RuleIndex    int                    `json:"ruleIndex"`
	Level        string                 `json:"level,omitempty"`
	Message      SARIFMessage           `json:"message"`
	Locations    []SARIFLocation        `json:"locations,omitempty"`
	Fingerprints map[string]string      `json:"fingerprints,omitempty"`
	Properties   map[string]interface{} `json:"properties,omitempty"`
}

// SARIFMessage contains text in various formats.
type SARIFMessage struct {
	Text string `json:"text,omitempty"`
}

// SARIFLocation places a result. Bot exports have no line structure, so
// findings use logical locations (flow, then page).
type SARIFLocation struct {
	PhysicalLocation *SARIFPhysicalLocation `json:"physicalLocation,omitempty"`
	LogicalLocations []SARIFLogicalLocation `json:"logicalLocations,omitempty"`
}

// SARIFPhysicalLocation identifies the exported file.
type SARIFPhysicalLocation struct {
	ArtifactLocation *SARIFArtifactLocation `json:"artifactLocation,omitempty"`
}

// SARIFArtifactLocation identifies a file.
type SARIFArtifactLocation struct {
	URI string `json:"uri,omitempty"`
}

// SARIFLogicalLocation names a flow or page.
type SARIFLogicalLocation struct {
	Name               string `json:"name"`
	FullyQualifiedName string `json:"fullyQualifiedName,omitempty"`
	Kind               string `json:"kind,omitempty"`
}

// FormatReportAsSARIF converts a report to SARIF.
func FormatReportAsSARIF(r *report.Report, version string) (string, error) {
	ruleIndex := make(map[finding.Kind]int)
	var rules []SARIFRule
	for _, f := range r.Findings {
		if _, ok := ruleIndex[f.Kind]; ok {
			continue
		}
		ruleIndex[f.Kind] = len(rules)
		rules = append(rules, SARIFRule{
			ID:               ruleID(f.Kind),
			Name:             string(f.Kind),
			ShortDescription: &SARIFMessage{Text: string(f.Kind)},
			DefaultConfiguration: &SARIFRuleConfiguration{
				Level: severityToSARIFLevel(f.Severity()),
			},
		})
	}

	results := make([]SARIFResult, 0, len(r.Findings))
	for _, e := range r.Entries() {
		f := e.Finding
		res := SARIFResult{
			RuleID:    ruleID(f.Kind),
			RuleIndex: ruleIndex[f.Kind],
			Level:     severityToSARIFLevel(f.Severity()),
			Message:   SARIFMessage{Text: f.Message},
			Locations: []SARIFLocation{sarifLocation(r.Source, f.Location)},
			Fingerprints: map[string]string{
				"botlint/v1": fingerprint(f),
			},
		}
		if e.Suggestion != "" {
			res.Properties = map[string]interface{}{"suggestion": e.Suggestion}
		}
		results = append(results, res)
	}

	doc := SARIFReport{
		Schema:  "https://raw.githubusercontent.com/oasis-tcs/sarif-spec/master/Schemata/sarif-schema-2.1.0.json",
		Version: "2.1.0",
		Runs: []SARIFRun{
			{
				Tool: SARIFTool{
					Driver: SARIFDriver{
						Name:            "botlint",
						Version:         version,
						SemanticVersion: version,
						Rules:           rules,
					},
				},
				AutomationDetails: &SARIFAutomation{ID: r.RunID},
				Results:           results,
			},
		},
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal SARIF: %w", err)
	}
	return string(data), nil
}

func ruleID(k finding.Kind) string {
	return "botlint/" + string(k)
}

func sarifLocation(source string, loc finding.Location) SARIFLocation {
	out := SARIFLocation{}
	if source != "" && source != "-" {
		out.PhysicalLocation = &SARIFPhysicalLocation{
			ArtifactLocation: &SARIFArtifactLocation{URI: source},
		}
	}
	if loc.IsOverall() {
		out.LogicalLocations = []SARIFLogicalLocation{{Name: finding.Overall, Kind: "module"}}
		return out
	}
	out.LogicalLocations = []SARIFLogicalLocation{
		{Name: loc.Page, FullyQualifiedName: loc.String(), Kind: "member"},
	}
	return out
}

// severityToSARIFLevel converts a finding severity to a SARIF level.
func severityToSARIFLevel(s finding.Severity) string {
	switch s {
	case finding.SeverityError:
		return "error"
	case finding.SeverityWarning:
		return "warning"
	default:
		return "note"
	}
}

// fingerprint identifies a finding across runs.
func fingerprint(f finding.Finding) string {
	h := sha256.Sum256([]byte(string(f.Kind) + "|" + f.Location.String() + "|" + f.Message))
	return hex.EncodeToString(h[:16])
}
