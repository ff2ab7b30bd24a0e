package botdoc

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"testing"
	"time"
)

func TestScenarios(t *testing.T) {
	g := mustParse(t, `{"context": {"flows": [
		{"name": "Order", "pages": [
			{"name": "A", "record": {"text": "Welcome"}, "handlers": [
				{"transitionTarget": {"type": "CUSTOM", "page": "B"}},
				{"transitionTarget": {"type": "CUSTOM", "page": "C"}}
			]},
			{"name": "B", "handlers": [{"transitionTarget": {"type": "CUSTOM", "page": "A"}}]},
			{"name": "C", "handlers": [{"transitionTarget": {"type": "CUSTOM", "page": "D"}}]},
			{"name": "D", "handlers": [{"transitionTarget": {"type": "SYSTEM", "page": "E"}}]}
		]},
		{"name": "Empty", "pages": []}
	]}}`)

	got, err := g.Scenarios(context.Background())
	if err != nil {
		t.Fatalf("Scenarios() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len(Scenarios()) = %d, want 2", len(got))
	}

	order := got[0]
	if want := []string{"A", "C", "D"}; !reflect.DeepEqual(order.Path, want) {
		t.Errorf("Path = %v, want %v", order.Path, want)
	}
	if order.Guide != "Welcome" {
		t.Errorf("Guide = %q, want %q", order.Guide, "Welcome")
	}
	if want := []string{"A", "B", "C"}; !reflect.DeepEqual(order.KeyPages, want) {
		t.Errorf("KeyPages = %v, want %v", order.KeyPages, want)
	}
	if d := order.Describe(); !strings.Contains(d, "passes through C") {
		t.Errorf("Describe() = %q", d)
	}

	if got[1].Path != nil {
		t.Errorf("empty flow Path = %v, want nil", got[1].Path)
	}
	if d := got[1].Describe(); !strings.Contains(d, "could not be determined") {
		t.Errorf("Describe() = %q", d)
	}
}

func TestLongestPath_FirstFoundWinsTies(t *testing.T) {
	links := map[string][]string{"S": {"X", "Y"}}
	got, err := longestPath(context.Background(), "S", links)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got, []string{"S", "X"}) {
		t.Errorf("longestPath() = %v, want [S X]", got)
	}
}

// completeLinks links every one of n pages to every other page.
func completeLinks(n int) map[string][]string {
	links := make(map[string][]string, n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if i != j {
				links[fmt.Sprintf("P%d", i)] = append(links[fmt.Sprintf("P%d", i)], fmt.Sprintf("P%d", j))
			}
		}
	}
	return links
}

func TestLongestPath_DenseFlowIsFast(t *testing.T) {
	var b strings.Builder
	b.WriteString(`{"context": {"flows": [{"name": "Dense", "pages": [`)
	const n = 14
	for i := 0; i < n; i++ {
		if i > 0 {
			b.WriteString(",")
		}
		fmt.Fprintf(&b, `{"name": "P%d", "handlers": [`, i)
		first := true
		for j := 0; j < n; j++ {
			if i == j {
				continue
			}
			if !first {
				b.WriteString(",")
			}
			first = false
			fmt.Fprintf(&b, `{"transitionTarget": {"type": "CUSTOM", "page": "P%d"}}`, j)
		}
		b.WriteString("]}")
	}
	b.WriteString("]}]}}")
	g := mustParse(t, b.String())

	start := time.Now()
	got, err := g.Scenarios(context.Background())
	if err != nil {
		t.Fatalf("Scenarios() error = %v", err)
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Errorf("Scenarios() took %v on a %d-page complete flow", elapsed, n)
	}
	if len(got[0].Path) != n {
		t.Errorf("len(Path) = %d, want %d", len(got[0].Path), n)
	}
}

func TestLongestPath_ExpansionBudget(t *testing.T) {
	// The sink is reachable only from P0, so no path covers every page and
	// the search runs until the budget is spent.
	links := completeLinks(13)
	links["P0"] = append(links["P0"], "Sink")

	start := time.Now()
	got, err := longestPath(context.Background(), "P0", links)
	if err != nil {
		t.Fatal(err)
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Errorf("longestPath() took %v", elapsed)
	}
	if len(got) != 13 {
		t.Errorf("len(longestPath()) = %d, want 13", len(got))
	}
}

func TestLongestPath_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := longestPath(ctx, "P0", completeLinks(4)); !errors.Is(err, context.Canceled) {
		t.Errorf("longestPath() error = %v, want context.Canceled", err)
	}
	g := mustParse(t, sampleDoc)
	if _, err := g.Scenarios(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Scenarios() error = %v, want context.Canceled", err)
	}
}

func TestVariableUsage(t *testing.T) {
	g := mustParse(t, sampleDoc)
	got := g.VariableUsage()
	want := []VariableUse{
		{Flow: "Main", Page: "Start", HandlerType: "CONDITION", Condition: "{$age} >= 20", Variable: "adult", Value: "true", Where: WhereAction},
		{Flow: "Main", Page: "Start", HandlerType: "CONDITION", Condition: "{$age} >= 20", Variable: "age", Value: "20", Where: WhereHandler},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("VariableUsage() = %+v, want %+v", got, want)
	}
	if n := len(g.VariablesByName()["age"]); n != 1 {
		t.Errorf("VariablesByName()[age] has %d rows, want 1", n)
	}
}
