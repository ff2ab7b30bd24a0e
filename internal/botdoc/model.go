// Package botdoc parses bot builder exports into a typed graph of flows,
// pages and handlers, plus the intent and entity registries.
package botdoc

// HandlerType is the kind of trigger a handler reacts to. The set is open:
// unknown types are kept and simply not checked.
type HandlerType string

const (
	HandlerIntent    HandlerType = "INTENT"
	HandlerCondition HandlerType = "CONDITION"
	HandlerEvent     HandlerType = "EVENT"
)

// TransitionCustom is the transition type that names a target page.
const TransitionCustom = "CUSTOM"

// Graph is the typed form of a bot document.
type Graph struct {
	Flows    []Flow
	Intents  []Intent
	Entities []Entity

	pages map[string]struct{}
}

// Flow is a named group of pages. Names are not guaranteed unique.
type Flow struct {
	Name  string
	Pages []Page
}

// Page is a node within a flow.
type Page struct {
	Flow     string
	Name     string
	// key is the registry identity of the raw name; see nameKey.
	key      string
	Handlers []Handler
	// HasHandlers reflects the raw handlers field, including entries that
	// were skipped as malformed.
	HasHandlers bool
	// RecordText is the page's record.text, used as scenario guide text.
	RecordText string
	Responses  []Response
}

// Handler reacts to an intent, condition or event on a page.
type Handler struct {
	Type               HandlerType
	ConditionStatement string
	// ConditionMalformed is set when conditionStatement is present but
	// not a string.
	ConditionMalformed bool
	IntentTrigger      *IntentTrigger
	EventTrigger       *EventTrigger
	TransitionTarget   *TransitionTarget
	ActionPresets      []Preset
	Presets            []Preset
	Responses          []Response
}

// IntentTrigger names the intent an INTENT handler fires on.
type IntentTrigger struct {
	Name string
}

// EventTrigger names the event an EVENT handler fires on.
type EventTrigger struct {
	Type string
}

// TransitionTarget is where a handler moves the conversation.
type TransitionTarget struct {
	Type string
	Page string

	pageKey string
}

// IsCustomLink reports whether the target names a page to jump to.
func (t *TransitionTarget) IsCustomLink() bool {
	return t != nil && t.Type == TransitionCustom && t.Page != ""
}

// Preset is a (name, value) parameter binding.
type Preset struct {
	Name  string
	Value any
}

// Response is one entry of an action's responses list.
type Response struct {
	Type       string
	TemplateID string
	// Texts holds the raw candidate strings: record.text, text and the
	// MESSAGE payload section texts, in that order.
	Texts []string
}

// Intent is a declared user-utterance category.
type Intent struct {
	Name                    string
	Sentences               []string
	RepresentativeSentences []string
}

// Entity is a declared extractable value type.
type Entity struct {
	Name   string
	Values []EntityValue
}

// EntityValue is one representative value of an entity and its synonyms.
type EntityValue struct {
	Representative string
	Synonyms       []string
}

// Location returns the page's finding location parts.
func (p *Page) Location() (flow, page string) {
	return p.Flow, p.Name
}

// PageRegistry returns the set of page keys across all flows. String names
// are their own key.
func (g *Graph) PageRegistry() map[string]struct{} {
	return g.pages
}

// HasPage reports whether any flow declares a page with this string name.
func (g *Graph) HasPage(name string) bool {
	_, ok := g.pages[name]
	return ok
}

// HasTarget reports whether t names a declared page. Names compare by JSON
// type as well as value.
func (g *Graph) HasTarget(t *TransitionTarget) bool {
	if t == nil {
		return false
	}
	key := t.pageKey
	if key == "" {
		key = t.Page
	}
	_, ok := g.pages[key]
	return ok
}

// IntentNames returns the set of declared intent names.
func (g *Graph) IntentNames() map[string]struct{} {
	set := make(map[string]struct{}, len(g.Intents))
	for _, in := range g.Intents {
		set[in.Name] = struct{}{}
	}
	return set
}

// EntityNames returns the set of declared entity names.
func (g *Graph) EntityNames() map[string]struct{} {
	set := make(map[string]struct{}, len(g.Entities))
	for _, e := range g.Entities {
		set[e.Name] = struct{}{}
	}
	return set
}

// EachPage calls fn for every page in document order.
func (g *Graph) EachPage(fn func(*Page)) {
	for i := range g.Flows {
		for j := range g.Flows[i].Pages {
			fn(&g.Flows[i].Pages[j])
		}
	}
}

// EachHandler calls fn for every handler in document order.
func (g *Graph) EachHandler(fn func(*Page, *Handler)) {
	g.EachPage(func(p *Page) {
		for k := range p.Handlers {
			fn(p, &p.Handlers[k])
		}
	})
}
