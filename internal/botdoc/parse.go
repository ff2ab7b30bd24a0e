package botdoc

import (
	"encoding/json"
	"fmt"

	"botlint/internal/errors"
)

// ShapeError reports a document whose top level cannot be walked at all.
type ShapeError struct {
	Message string
}

func (e *ShapeError) Error() string {
	return e.Message
}

// Shape error messages.
const (
	MsgInvalidStructure = "invalid data structure"
	MsgFlowsNotList     = "flows is not a list"
)

// Decode reads JSON bytes into an untyped tree.
func Decode(data []byte) (any, error) {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, errors.New(errors.DocumentUnreadable, "bot export is not valid JSON", err)
	}
	return raw, nil
}

// Parse converts an untyped document into a Graph. It fails only when
// context.flows is missing or not a list; malformed nodes below that are
// skipped.
func Parse(raw any) (*Graph, error) {
	root, ok := asMap(raw)
	if !ok {
		return nil, &ShapeError{Message: MsgInvalidStructure}
	}
	ctx, ok := asMap(root["context"])
	if !ok {
		return nil, &ShapeError{Message: MsgInvalidStructure}
	}
	flowsRaw, ok := ctx["flows"]
	if !ok {
		return nil, &ShapeError{Message: MsgInvalidStructure}
	}
	flows, ok := flowsRaw.([]any)
	if !ok {
		return nil, &ShapeError{Message: MsgFlowsNotList}
	}

	g := &Graph{pages: make(map[string]struct{})}
	for _, fv := range flows {
		flow, ok := parseFlow(fv)
		if !ok {
			continue
		}
		for _, p := range flow.Pages {
			g.pages[p.key] = struct{}{}
		}
		g.Flows = append(g.Flows, flow)
	}

	for _, key := range []string{"openIntents", "userIntents"} {
		for _, iv := range asList(ctx[key]) {
			if in, ok := parseIntent(iv); ok {
				g.Intents = append(g.Intents, in)
			}
		}
	}
	for _, ev := range asList(ctx["customEntities"]) {
		if e, ok := parseEntity(ev); ok {
			g.Entities = append(g.Entities, e)
		}
	}

	return g, nil
}

// ParseBytes decodes and parses in one step.
func ParseBytes(data []byte) (*Graph, error) {
	raw, err := Decode(data)
	if err != nil {
		return nil, err
	}
	return Parse(raw)
}

// flowsOf returns context.flows when the top level is well formed.
func flowsOf(raw any) ([]any, bool) {
	root, ok := asMap(raw)
	if !ok {
		return nil, false
	}
	ctx, ok := asMap(root["context"])
	if !ok {
		return nil, false
	}
	flows, ok := ctx["flows"].([]any)
	return flows, ok
}

func parseFlow(v any) (Flow, bool) {
	m, ok := asMap(v)
	if !ok {
		return Flow{}, false
	}
	nameRaw, hasName := m["name"]
	pagesRaw, hasPages := m["pages"]
	if !hasName || !hasPages {
		return Flow{}, false
	}

	flow := Flow{Name: nameOf(nameRaw)}
	for _, pv := range asList(pagesRaw) {
		if p, ok := parsePage(flow.Name, pv); ok {
			flow.Pages = append(flow.Pages, p)
		}
	}
	return flow, true
}

func parsePage(flowName string, v any) (Page, bool) {
	m, ok := asMap(v)
	if !ok {
		return Page{}, false
	}
	nameRaw, hasName := m["name"]
	if !hasName {
		return Page{}, false
	}

	p := Page{
		Flow:        flowName,
		Name:        nameOf(nameRaw),
		key:         nameKey(nameRaw),
		HasHandlers: truthy(m["handlers"]),
	}
	if rec := mapField(m, "record"); rec != nil {
		p.RecordText = stringField(rec, "text")
	}
	if action := mapField(m, "action"); action != nil {
		p.Responses = parseResponses(action["responses"])
	}
	for _, hv := range asList(m["handlers"]) {
		if h, ok := parseHandler(hv); ok {
			p.Handlers = append(p.Handlers, h)
		}
	}
	return p, true
}

func parseHandler(v any) (Handler, bool) {
	m, ok := asMap(v)
	if !ok {
		return Handler{}, false
	}

	h := Handler{Type: HandlerType(stringField(m, "type"))}

	switch cond := m["conditionStatement"].(type) {
	case nil:
	case string:
		h.ConditionStatement = cond
	default:
		h.ConditionStatement = fmt.Sprint(cond)
		h.ConditionMalformed = truthy(cond)
	}

	if it := mapField(m, "intentTrigger"); it != nil {
		h.IntentTrigger = &IntentTrigger{Name: nameOf(it["name"])}
	}
	if et := mapField(m, "eventTrigger"); et != nil {
		h.EventTrigger = &EventTrigger{Type: nameOf(et["type"])}
	}
	if tt := mapField(m, "transitionTarget"); tt != nil {
		h.TransitionTarget = &TransitionTarget{
			Type:    stringField(tt, "type"),
			Page:    nameOf(tt["page"]),
			pageKey: nameKey(tt["page"]),
		}
	}
	if action := mapField(m, "action"); action != nil {
		h.ActionPresets = parsePresets(action["parameterPresets"])
		h.Responses = parseResponses(action["responses"])
	}
	h.Presets = parsePresets(m["parameterPresets"])

	return h, true
}

func parsePresets(v any) []Preset {
	var out []Preset
	for _, pv := range asList(v) {
		m, ok := asMap(pv)
		if !ok {
			continue
		}
		nameRaw, hasName := m["name"]
		if !hasName {
			continue
		}
		out = append(out, Preset{Name: nameOf(nameRaw), Value: m["value"]})
	}
	return out
}

func parseResponses(v any) []Response {
	var out []Response
	for _, rv := range asList(v) {
		m, ok := asMap(rv)
		if !ok {
			continue
		}
		r := Response{Type: stringField(m, "type")}
		if rec := mapField(m, "record"); rec != nil {
			if s := stringField(rec, "text"); s != "" {
				r.Texts = append(r.Texts, s)
			}
		}
		if s := stringField(m, "text"); s != "" {
			r.Texts = append(r.Texts, s)
		}
		if r.Type == "MESSAGE" {
			payload := mapField(m, "customPayload")
			content := mapField(payload, "content")
			r.TemplateID = stringField(content, "templateId")
			if r.TemplateID == "" {
				r.TemplateID = stringField(payload, "templateId")
			}
			for _, item := range asList(content["item"]) {
				section := mapField(asMapOrNil(item), "section")
				for _, si := range asList(section["item"]) {
					text := mapField(asMapOrNil(si), "text")
					if s := stringField(text, "text"); s != "" {
						r.Texts = append(r.Texts, s)
					}
				}
			}
		}
		out = append(out, r)
	}
	return out
}

func asMapOrNil(v any) map[string]any {
	m, _ := asMap(v)
	return m
}

func parseIntent(v any) (Intent, bool) {
	m, ok := asMap(v)
	if !ok || !truthy(m["name"]) {
		return Intent{}, false
	}
	return Intent{
		Name:                    nameOf(m["name"]),
		Sentences:               stringList(m["sentences"]),
		RepresentativeSentences: stringList(m["representativeSentences"]),
	}, true
}

func parseEntity(v any) (Entity, bool) {
	m, ok := asMap(v)
	if !ok || !truthy(m["name"]) {
		return Entity{}, false
	}
	e := Entity{Name: nameOf(m["name"])}
	for _, ev := range asList(m["entityValues"]) {
		vm, ok := asMap(ev)
		if !ok {
			continue
		}
		e.Values = append(e.Values, EntityValue{
			Representative: nameOf(vm["representative"]),
			Synonyms:       stringList(vm["synonyms"]),
		})
	}
	return e, true
}

func stringList(v any) []string {
	var out []string
	for _, item := range asList(v) {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
