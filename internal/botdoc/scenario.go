package botdoc

import (
	"context"
	"fmt"
	"strings"
)

// maxPathExpansions bounds the search per flow; the best path found so far
// is kept once it is spent.
const maxPathExpansions = 100_000

// Scenario summarises one flow as its main path of CUSTOM transitions.
type Scenario struct {
	Flow string `json:"flow"`
	// Path is the longest acyclic transition path from the first page.
	Path []string `json:"path"`
	// Guide is the first page's record text, or its first response text.
	Guide string `json:"guide,omitempty"`
	// KeyPages are the first three page names.
	KeyPages []string `json:"keyPages"`
}

// Describe renders the scenario as a sentence.
func (s Scenario) Describe() string {
	switch len(s.Path) {
	case 0:
		return "The scenario flow could not be determined."
	case 1:
		return fmt.Sprintf("This flow starts at '%s' and consists of a single page.", s.Path[0])
	case 2:
		return fmt.Sprintf("This flow starts at '%s' and moves to '%s'.", s.Path[0], s.Path[1])
	default:
		last := len(s.Path) - 1
		return fmt.Sprintf("This flow starts at '%s', passes through %s and ends at '%s'.",
			s.Path[0], strings.Join(s.Path[1:last], ", "), s.Path[last])
	}
}

// Scenarios returns one Scenario per flow in document order. It stops with
// ctx.Err() when ctx is done.
func (g *Graph) Scenarios(ctx context.Context) ([]Scenario, error) {
	out := make([]Scenario, 0, len(g.Flows))
	for _, f := range g.Flows {
		s := Scenario{Flow: f.Name}
		if len(f.Pages) == 0 {
			out = append(out, s)
			continue
		}
		for i := 0; i < len(f.Pages) && i < 3; i++ {
			s.KeyPages = append(s.KeyPages, f.Pages[i].Name)
		}
		path, err := longestPath(ctx, f.Pages[0].Name, linksOf(f))
		if err != nil {
			return nil, err
		}
		s.Path = path
		s.Guide = guideText(&f.Pages[0])
		out = append(out, s)
	}
	return out, nil
}

// linksOf maps each page name to its distinct CUSTOM targets in first-seen order.
func linksOf(f Flow) map[string][]string {
	links := make(map[string][]string)
	seen := make(map[[2]string]struct{})
	for _, p := range f.Pages {
		for _, h := range p.Handlers {
			if !h.TransitionTarget.IsCustomLink() {
				continue
			}
			edge := [2]string{p.Name, h.TransitionTarget.Page}
			if _, dup := seen[edge]; dup {
				continue
			}
			seen[edge] = struct{}{}
			links[p.Name] = append(links[p.Name], h.TransitionTarget.Page)
		}
	}
	return links
}

// longestPath runs a DFS from start over links, never revisiting a page.
// The first path found wins ties. The search ends early once a path covers
// every page reachable from start, or after maxPathExpansions steps.
func longestPath(ctx context.Context, start string, links map[string][]string) ([]string, error) {
	best := []string{start}
	reachable := reachableCount(start, links)
	visited := map[string]bool{start: true}
	path := []string{start}
	steps := 0
	var err error

	var dfs func(cur string) bool
	dfs = func(cur string) bool {
		if len(path) > len(best) {
			best = append([]string(nil), path...)
		}
		if len(best) == reachable {
			return true
		}
		for _, next := range links[cur] {
			if visited[next] {
				continue
			}
			steps++
			if steps > maxPathExpansions {
				return true
			}
			if steps%1024 == 0 {
				if err = ctx.Err(); err != nil {
					return true
				}
			}
			visited[next] = true
			path = append(path, next)
			done := dfs(next)
			path = path[:len(path)-1]
			visited[next] = false
			if done {
				return true
			}
		}
		return false
	}
	if err = ctx.Err(); err != nil {
		return nil, err
	}
	dfs(start)
	if err != nil {
		return nil, err
	}
	return best, nil
}

// reachableCount counts the pages reachable from start, start included.
func reachableCount(start string, links map[string][]string) int {
	seen := map[string]bool{start: true}
	queue := []string{start}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, next := range links[cur] {
			if !seen[next] {
				seen[next] = true
				queue = append(queue, next)
			}
		}
	}
	return len(seen)
}

func guideText(p *Page) string {
	if p.RecordText != "" {
		return p.RecordText
	}
	for _, r := range p.Responses {
		if len(r.Texts) > 0 {
			return r.Texts[0]
		}
	}
	return ""
}
