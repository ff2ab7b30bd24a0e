// Package finding defines the validation result record shared by the
// rule engine, the usage analyzer and every exporter.
package finding

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// Kind identifies the rule family that produced a finding.
type Kind string

const (
	KindPageLinkError      Kind = "PageLinkError"
	KindHandlerMissing     Kind = "HandlerMissing"
	KindIntentError        Kind = "IntentError"
	KindEventWarning       Kind = "EventWarning"
	KindConditionError     Kind = "ConditionError"
	KindConditionWarning   Kind = "ConditionWarning"
	KindCustomCheck        Kind = "CustomCheck"
	KindDataStructureError Kind = "DataStructureError"
	KindValidationError    Kind = "ValidationError"
	KindDuplicateIntent    Kind = "DuplicateIntent"
	KindDuplicateEntity    Kind = "DuplicateEntity"
	KindUnusedIntent       Kind = "UnusedIntent"
	KindUnusedEntity       Kind = "UnusedEntity"
)

// Kinds lists every kind in reporting order.
var Kinds = []Kind{
	KindDataStructureError,
	KindValidationError,
	KindPageLinkError,
	KindHandlerMissing,
	KindIntentError,
	KindEventWarning,
	KindConditionError,
	KindConditionWarning,
	KindCustomCheck,
	KindDuplicateIntent,
	KindDuplicateEntity,
	KindUnusedIntent,
	KindUnusedEntity,
}

// Severity ranks findings for SARIF levels and summaries.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// Severity returns the severity of a kind.
func (k Kind) Severity() Severity {
	switch k {
	case KindPageLinkError, KindHandlerMissing, KindIntentError, KindConditionError,
		KindDataStructureError, KindValidationError:
		return SeverityError
	case KindEventWarning, KindConditionWarning, KindDuplicateIntent, KindDuplicateEntity:
		return SeverityWarning
	default:
		return SeverityInfo
	}
}

// Overall is the rendered form of the document-wide location.
const Overall = "overall"

// Location is a (flow, page) pair built with At. The zero value means
// document-wide, so a page whose names are both empty is still a page.
type Location struct {
	Flow string
	Page string

	isPage bool
}

// At returns the location of a page.
func At(flow, page string) Location {
	return Location{Flow: flow, Page: page, isPage: true}
}

// IsOverall reports whether l is the document-wide sentinel.
func (l Location) IsOverall() bool {
	return !l.isPage
}

// String renders "Flow > Page", or Overall for the sentinel.
func (l Location) String() string {
	if l.IsOverall() {
		return Overall
	}
	return l.Flow + " > " + l.Page
}

// ParseLocation is the inverse of Location.String.
func ParseLocation(s string) Location {
	if s == "" || s == Overall {
		return Location{}
	}
	flow, page, ok := strings.Cut(s, " > ")
	if !ok {
		return At("", s)
	}
	return At(flow, page)
}

// Finding is one validation result.
type Finding struct {
	Kind       Kind
	Message    string
	Location   Location
	Suggestion string
	Detail     Detail
}

// Severity returns the severity of the finding's kind.
func (f Finding) Severity() Severity {
	return f.Kind.Severity()
}

// wire is the exported record shape. The first four fields are always present.
type wire struct {
	Type          Kind     `json:"type" yaml:"type"`
	Message       string   `json:"message" yaml:"message"`
	Location      string   `json:"location" yaml:"location"`
	Suggestion    string   `json:"suggestion" yaml:"suggestion"`
	UsedIntent    string   `json:"used_intent,omitempty" yaml:"used_intent,omitempty"`
	UsedCondition string   `json:"used_condition,omitempty" yaml:"used_condition,omitempty"`
	MissingVars   []string `json:"missing_vars,omitempty" yaml:"missing_vars,omitempty"`
	Target        string   `json:"target,omitempty" yaml:"target,omitempty"`
	EventType     string   `json:"event_type,omitempty" yaml:"event_type,omitempty"`
	Names         []string `json:"names,omitempty" yaml:"names,omitempty"`
	Problem       Problem  `json:"problem,omitempty" yaml:"problem,omitempty"`
}

func (f Finding) toWire() wire {
	w := wire{
		Type:       f.Kind,
		Message:    f.Message,
		Location:   f.Location.String(),
		Suggestion: f.Suggestion,
	}
	switch d := f.Detail.(type) {
	case IntentDetail:
		w.UsedIntent = d.UsedIntent
	case ConditionDetail:
		w.UsedCondition = d.UsedCondition
		w.Problem = d.Problem
	case MissingVarsDetail:
		w.UsedCondition = d.UsedCondition
		w.MissingVars = d.MissingVars
	case PageLinkDetail:
		w.Target = d.Target
	case EventDetail:
		w.EventType = d.EventType
	case NamesDetail:
		w.Names = d.Names
	}
	return w
}

func fromWire(w wire) Finding {
	f := Finding{
		Kind:       w.Type,
		Message:    w.Message,
		Location:   ParseLocation(w.Location),
		Suggestion: w.Suggestion,
	}
	switch {
	case len(w.MissingVars) > 0:
		f.Detail = MissingVarsDetail{UsedCondition: w.UsedCondition, MissingVars: w.MissingVars}
	case w.UsedCondition != "" || w.Problem != "":
		f.Detail = ConditionDetail{UsedCondition: w.UsedCondition, Problem: w.Problem}
	case w.UsedIntent != "":
		f.Detail = IntentDetail{UsedIntent: w.UsedIntent}
	case w.Target != "":
		f.Detail = PageLinkDetail{Target: w.Target}
	case w.EventType != "":
		f.Detail = EventDetail{EventType: w.EventType}
	case len(w.Names) > 0:
		f.Detail = NamesDetail{Names: w.Names}
	}
	return f
}

// MarshalJSON writes the flat record shape consumed by exporters.
func (f Finding) MarshalJSON() ([]byte, error) {
	return json.Marshal(f.toWire())
}

// UnmarshalJSON reads the flat record shape.
func (f *Finding) UnmarshalJSON(data []byte) error {
	var w wire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*f = fromWire(w)
	return nil
}

// MarshalYAML writes the same shape as MarshalJSON.
func (f Finding) MarshalYAML() (any, error) {
	return f.toWire(), nil
}

// String renders "[Kind] message (location)".
func (f Finding) String() string {
	return fmt.Sprintf("[%s] %s (%s)", f.Kind, f.Message, f.Location)
}

// CountByKind tallies findings per kind.
func CountByKind(findings []Finding) map[Kind]int {
	counts := make(map[Kind]int)
	for _, f := range findings {
		counts[f.Kind]++
	}
	return counts
}

// CountBySeverity tallies findings per severity.
func CountBySeverity(findings []Finding) map[Severity]int {
	counts := make(map[Severity]int)
	for _, f := range findings {
		counts[f.Severity()]++
	}
	return counts
}

// Has reports whether any finding has kind k.
func Has(findings []Finding, k Kind) bool {
	for _, f := range findings {
		if f.Kind == k {
			return true
		}
	}
	return false
}

// SortedKinds returns the keys of counts in Kinds order, unknown kinds last.
func SortedKinds(counts map[Kind]int) []Kind {
	rank := make(map[Kind]int, len(Kinds))
	for i, k := range Kinds {
		rank[k] = i
	}
	out := make([]Kind, 0, len(counts))
	for k := range counts {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool {
		ri, iok := rank[out[i]]
		rj, jok := rank[out[j]]
		if iok != jok {
			return iok
		}
		if ri != rj {
			return ri < rj
		}
		return out[i] < out[j]
	})
	return out
}
