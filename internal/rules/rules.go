package rules

import (
	"botlint/internal/botdoc"
	"botlint/internal/condition"
	"botlint/internal/finding"
)

// Rule checks one page. Rules must not depend on each other's findings.
type Rule interface {
	Name() string
	CheckPage(rc *RunContext, p *botdoc.Page) []finding.Finding
}

// RunContext carries the registries of one validation run. It is built
// before any page is checked and not modified afterwards.
type RunContext struct {
	Graph    *botdoc.Graph
	Intents  map[string]struct{}
	Entities map[string]struct{}
	Checker  *condition.Checker
}

func newRunContext(g *botdoc.Graph, c *condition.Checker) *RunContext {
	return &RunContext{
		Graph:    g,
		Intents:  g.IntentNames(),
		Entities: g.EntityNames(),
		Checker:  c,
	}
}

func pageLoc(p *botdoc.Page) finding.Location {
	return finding.At(p.Location())
}

// DefaultRules returns the built-in rules in reporting order.
func DefaultRules() []Rule {
	return []Rule{
		PageLinkRule{},
		HandlerMissingRule{},
		HandlerRule{},
	}
}

// PageLinkRule reports CUSTOM transitions to pages that exist nowhere in
// the document.
type PageLinkRule struct{}

func (PageLinkRule) Name() string { return "page-link" }

func (PageLinkRule) CheckPage(rc *RunContext, p *botdoc.Page) []finding.Finding {
	var out []finding.Finding
	for _, h := range p.Handlers {
		if !h.TransitionTarget.IsCustomLink() {
			continue
		}
		if !rc.Graph.HasTarget(h.TransitionTarget) {
			out = append(out, finding.PageLink(pageLoc(p), h.TransitionTarget.Page))
		}
	}
	return out
}

// HandlerMissingRule reports pages without handlers.
type HandlerMissingRule struct{}

func (HandlerMissingRule) Name() string { return "handler-missing" }

func (HandlerMissingRule) CheckPage(_ *RunContext, p *botdoc.Page) []finding.Finding {
	if p.HasHandlers {
		return nil
	}
	return []finding.Finding{finding.HandlerMissing(pageLoc(p))}
}

// HandlerCheck inspects one handler of the page at loc.
type HandlerCheck func(rc *RunContext, loc finding.Location, h *botdoc.Handler) []finding.Finding

// DefaultHandlerChecks checks intent triggers, conditions and event
// triggers, in that order.
func DefaultHandlerChecks() []HandlerCheck {
	return []HandlerCheck{
		checkIntent,
		checkCondition,
		func(_ *RunContext, loc finding.Location, h *botdoc.Handler) []finding.Finding {
			return checkEvent(loc, h)
		},
	}
}

// HandlerRule runs Checks, or DefaultHandlerChecks when nil, over each
// handler. A handler whose checks panic yields a ValidationError and the
// remaining handlers are still checked.
type HandlerRule struct {
	Checks []HandlerCheck
}

func (HandlerRule) Name() string { return "handler" }

func (r HandlerRule) CheckPage(rc *RunContext, p *botdoc.Page) []finding.Finding {
	checks := r.Checks
	if checks == nil {
		checks = DefaultHandlerChecks()
	}
	var out []finding.Finding
	loc := pageLoc(p)
	for i := range p.Handlers {
		out = append(out, checkHandler(rc, loc, &p.Handlers[i], checks)...)
	}
	return out
}

func checkHandler(rc *RunContext, loc finding.Location, h *botdoc.Handler, checks []HandlerCheck) (out []finding.Finding) {
	defer func() {
		if r := recover(); r != nil {
			out = append(out, finding.Validation(loc, r))
		}
	}()
	for _, check := range checks {
		out = append(out, check(rc, loc, h)...)
	}
	return out
}

func checkIntent(rc *RunContext, loc finding.Location, h *botdoc.Handler) []finding.Finding {
	if h.Type != botdoc.HandlerIntent || h.IntentTrigger == nil {
		return nil
	}
	name := h.IntentTrigger.Name
	if name == "" {
		return nil
	}
	if _, ok := rc.Intents[name]; ok {
		return nil
	}
	return []finding.Finding{finding.Intent(loc, name)}
}

func checkCondition(rc *RunContext, loc finding.Location, h *botdoc.Handler) []finding.Finding {
	if h.Type != botdoc.HandlerCondition {
		return nil
	}
	if h.ConditionMalformed {
		return []finding.Finding{finding.ParseFailure(loc, h.ConditionStatement, "conditionStatement is not a string")}
	}
	if h.ConditionStatement == "" {
		return nil
	}
	presets := make([]string, 0, len(h.Presets))
	for _, pr := range h.Presets {
		presets = append(presets, pr.Name)
	}
	return rc.Checker.Check(h.ConditionStatement, condition.Scope{
		Location: loc,
		Presets:  presets,
		Intents:  rc.Intents,
		Entities: rc.Entities,
	})
}

func checkEvent(loc finding.Location, h *botdoc.Handler) []finding.Finding {
	if h.Type != botdoc.HandlerEvent || h.EventTrigger == nil {
		return nil
	}
	t := h.EventTrigger.Type
	if t == "" || condition.IsEventType(t) {
		return nil
	}
	return []finding.Finding{finding.Event(loc, t, condition.EventTypes)}
}
