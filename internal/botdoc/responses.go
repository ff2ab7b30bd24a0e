package botdoc

import (
	"html"
	"regexp"
	"strings"
)

// Response text origins.
const (
	OriginPage    = "page"
	OriginHandler = "handler"
)

var (
	paragraphRe = regexp.MustCompile(`(?s)<p>(.*?)</p>`)
	lineBreakRe = regexp.MustCompile(`(?i)<br\s*/?>`)
)

// ResponseText is one user-facing paragraph of a page or handler response.
type ResponseText struct {
	Flow         string `json:"flow"`
	Page         string `json:"page"`
	Origin       string `json:"origin"`
	HandlerType  string `json:"handlerType,omitempty"`
	Condition    string `json:"condition,omitempty"`
	ResponseType string `json:"responseType,omitempty"`
	TemplateID   string `json:"templateId,omitempty"`
	Text         string `json:"text"`
}

// ResponseTexts collects the <p> paragraphs of every response, page-level
// responses before handler-level ones for each page.
func (g *Graph) ResponseTexts() []ResponseText {
	var out []ResponseText
	g.EachPage(func(p *Page) {
		base := ResponseText{Flow: p.Flow, Page: p.Name, Origin: OriginPage}
		out = appendParagraphs(out, base, p.Responses)
		for _, h := range p.Handlers {
			hb := ResponseText{
				Flow:        p.Flow,
				Page:        p.Name,
				Origin:      OriginHandler,
				HandlerType: string(h.Type),
				Condition:   h.ConditionStatement,
			}
			out = appendParagraphs(out, hb, h.Responses)
		}
	})
	return out
}

func appendParagraphs(out []ResponseText, base ResponseText, responses []Response) []ResponseText {
	for _, r := range responses {
		for _, text := range r.Texts {
			for _, para := range Paragraphs(text) {
				rt := base
				rt.ResponseType = r.Type
				rt.TemplateID = r.TemplateID
				rt.Text = para
				out = append(out, rt)
			}
		}
	}
	return out
}

// Paragraphs extracts the cleaned contents of every <p>...</p> in s.
// Line breaks are removed, entities decoded and empty paragraphs dropped.
func Paragraphs(s string) []string {
	var out []string
	for _, m := range paragraphRe.FindAllStringSubmatch(s, -1) {
		p := strings.TrimSpace(m[1])
		p = lineBreakRe.ReplaceAllString(p, "")
		if p == "" {
			continue
		}
		p = html.UnescapeString(p)
		if p == "" || p == "null" {
			continue
		}
		out = append(out, p)
	}
	return out
}
