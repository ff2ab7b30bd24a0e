package botdoc

// PageRef identifies one page occurrence.
type PageRef struct {
	Flow string `json:"flow"`
	Page string `json:"page"`
}

// Extraction is the flat view of a document.
type Extraction struct {
	// Flows is context.flows exactly as found.
	Flows []any
	// Pages has one entry per page occurrence, duplicates included.
	Pages    []PageRef
	Handlers []Handler
	// Variables is the union of action and handler preset names in
	// first-seen order.
	Variables []string
}

// Extract walks a raw document into its flat view. A document without a
// usable context.flows list yields an empty Extraction.
func Extract(raw any) Extraction {
	flows, ok := flowsOf(raw)
	if !ok {
		return Extraction{}
	}
	g, err := Parse(raw)
	if err != nil {
		return Extraction{}
	}

	ex := Extraction{Flows: flows}
	seen := make(map[string]struct{})
	addVar := func(name string) {
		if _, dup := seen[name]; dup {
			return
		}
		seen[name] = struct{}{}
		ex.Variables = append(ex.Variables, name)
	}

	g.EachPage(func(p *Page) {
		ex.Pages = append(ex.Pages, PageRef{Flow: p.Flow, Page: p.Name})
		for _, h := range p.Handlers {
			ex.Handlers = append(ex.Handlers, h)
			for _, pr := range h.ActionPresets {
				addVar(pr.Name)
			}
			for _, pr := range h.Presets {
				addVar(pr.Name)
			}
		}
	})
	return ex
}
