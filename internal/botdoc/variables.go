package botdoc

// Preset locations reported by VariableUsage.
const (
	WhereAction  = "action.parameterPresets"
	WhereHandler = "parameterPresets"
)

// VariableUse is one preset assignment in a handler.
type VariableUse struct {
	Flow        string `json:"flow"`
	Page        string `json:"page"`
	HandlerType string `json:"handlerType"`
	Condition   string `json:"condition,omitempty"`
	Variable    string `json:"variable"`
	Value       string `json:"value"`
	Where       string `json:"where"`
}

// VariableUsage lists every preset assignment, action presets before
// handler presets for each handler.
func (g *Graph) VariableUsage() []VariableUse {
	var out []VariableUse
	g.EachHandler(func(p *Page, h *Handler) {
		add := func(presets []Preset, where string) {
			for _, pr := range presets {
				out = append(out, VariableUse{
					Flow:        p.Flow,
					Page:        p.Name,
					HandlerType: string(h.Type),
					Condition:   h.ConditionStatement,
					Variable:    pr.Name,
					Value:       nameOf(pr.Value),
					Where:       where,
				})
			}
		}
		add(h.ActionPresets, WhereAction)
		add(h.Presets, WhereHandler)
	})
	return out
}

// VariablesByName groups VariableUsage rows by variable name.
func (g *Graph) VariablesByName() map[string][]VariableUse {
	out := make(map[string][]VariableUse)
	for _, u := range g.VariableUsage() {
		out[u.Variable] = append(out[u.Variable], u)
	}
	return out
}
