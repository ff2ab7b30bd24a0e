// Package usage reports duplicate and unreferenced intent and entity
// declarations.
package usage

import (
	"sort"
	"strings"

	"botlint/internal/botdoc"
	"botlint/internal/finding"
)

// Result holds the declarations and the findings derived from them.
type Result struct {
	// DeclaredIntents and DeclaredEntities keep declaration order and
	// duplicates.
	DeclaredIntents  []string          `json:"declaredIntents"`
	DeclaredEntities []string          `json:"declaredEntities"`
	Findings         []finding.Finding `json:"findings"`
}

// Analyze inspects raw. A document that fails to parse yields an empty
// Result; the rule engine reports the shape problem.
func Analyze(raw any) Result {
	g, err := botdoc.Parse(raw)
	if err != nil {
		return Result{}
	}
	return AnalyzeGraph(g)
}

// AnalyzeGraph inspects an already parsed document.
func AnalyzeGraph(g *botdoc.Graph) Result {
	var res Result
	for _, in := range g.Intents {
		res.DeclaredIntents = append(res.DeclaredIntents, in.Name)
	}
	for _, e := range g.Entities {
		res.DeclaredEntities = append(res.DeclaredEntities, e.Name)
	}

	usedIntents := make(map[string]struct{})
	usedEntities := make(map[string]struct{})
	intentSet := distinct(res.DeclaredIntents)
	entitySet := distinct(res.DeclaredEntities)

	g.EachHandler(func(_ *botdoc.Page, h *botdoc.Handler) {
		if h.IntentTrigger != nil {
			usedIntents[h.IntentTrigger.Name] = struct{}{}
		}
		cond := h.ConditionStatement
		if cond == "" {
			return
		}
		// Substring containment is deliberately coarse.
		for name := range intentSet {
			if name != "" && strings.Contains(cond, name) {
				usedIntents[name] = struct{}{}
			}
		}
		for name := range entitySet {
			if name != "" && strings.Contains(cond, name) {
				usedEntities[name] = struct{}{}
			}
		}
	})

	if dups := duplicates(res.DeclaredIntents); len(dups) > 0 {
		res.Findings = append(res.Findings, finding.DuplicateIntent(dups))
	}
	if dups := duplicates(res.DeclaredEntities); len(dups) > 0 {
		res.Findings = append(res.Findings, finding.DuplicateEntity(dups))
	}
	if unused := difference(intentSet, usedIntents); len(unused) > 0 {
		res.Findings = append(res.Findings, finding.UnusedIntent(unused))
	}
	if unused := difference(entitySet, usedEntities); len(unused) > 0 {
		res.Findings = append(res.Findings, finding.UnusedEntity(unused))
	}
	return res
}

func distinct(names []string) map[string]struct{} {
	set := make(map[string]struct{}, len(names))
	for _, n := range names {
		set[n] = struct{}{}
	}
	return set
}

// duplicates returns names declared more than once, in first-seen order.
func duplicates(names []string) []string {
	counts := make(map[string]int, len(names))
	var order []string
	for _, n := range names {
		if counts[n] == 0 {
			order = append(order, n)
		}
		counts[n]++
	}
	var out []string
	for _, n := range order {
		if counts[n] > 1 {
			out = append(out, n)
		}
	}
	return out
}

// difference returns the sorted members of a not in b.
func difference(a, b map[string]struct{}) []string {
	var out []string
	for n := range a {
		if _, ok := b[n]; !ok {
			out = append(out, n)
		}
	}
	sort.Strings(out)
	return out
}
