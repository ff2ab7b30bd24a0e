package condition

import (
	"reflect"
	"strings"
	"testing"

	"botlint/internal/finding"
)

var loc = finding.At("F1", "P1")

func kinds(fs []finding.Finding) []finding.Kind {
	var out []finding.Kind
	for _, f := range fs {
		out = append(out, f.Kind)
	}
	return out
}

func TestCheck_BooleanCasing(t *testing.T) {
	c := NewChecker()
	tests := []struct {
		cond string
		want int
	}{
		{"true", 1},
		{"TRUE", 1},
		{" tRuE ", 1},
		{"True", 0},
		{"  True  ", 0},
		{"truest", 0},
		{"{$x} == true", 0},
	}
	for _, tt := range tests {
		t.Run(tt.cond, func(t *testing.T) {
			got := 0
			for _, f := range c.Check(tt.cond, Scope{Location: loc, Presets: []string{"x"}}) {
				if d, ok := f.Detail.(finding.ConditionDetail); ok && d.Problem == finding.ProblemBooleanCasing {
					got++
				}
			}
			if got != tt.want {
				t.Errorf("boolean casing findings for %q = %d, want %d", tt.cond, got, tt.want)
			}
		})
	}
}

func TestCheck_MissingVars(t *testing.T) {
	c := NewChecker()
	scope := Scope{
		Location: loc,
		Presets:  []string{"age"},
		Intents:  map[string]struct{}{"Greeting": {}},
		Entities: map[string]struct{}{"Drink": {}},
	}

	got := c.Check("{$age} > 1 AND {$Greeting} == {$city} OR {$Drink} == {$zip} AND {$city} EXISTS", scope)
	if len(got) != 1 {
		t.Fatalf("Check() returned %d findings, want 1: %v", len(got), got)
	}
	f := got[0]
	if f.Kind != finding.KindConditionWarning {
		t.Errorf("Kind = %v, want ConditionWarning", f.Kind)
	}
	d, ok := f.Detail.(finding.MissingVarsDetail)
	if !ok {
		t.Fatalf("Detail = %T, want MissingVarsDetail", f.Detail)
	}
	if want := []string{"city", "zip", "city"}; !reflect.DeepEqual(d.MissingVars, want) {
		t.Errorf("MissingVars = %v, want %v", d.MissingVars, want)
	}
}

func TestCheck_NLUIntentExempt(t *testing.T) {
	c := NewChecker()
	// No registries at all: the sentinels must still never be reported.
	got := c.Check("{$__NLU_INTENT__} == 'Order' OR {$NLU_INTENT} == 'Order'", Scope{Location: loc})
	for _, f := range got {
		if d, ok := f.Detail.(finding.MissingVarsDetail); ok {
			for _, v := range d.MissingVars {
				if v == "__NLU_INTENT__" || v == "NLU_INTENT" {
					t.Errorf("sentinel %q reported missing", v)
				}
			}
		}
	}
	if len(got) != 0 {
		t.Errorf("Check() = %v, want no findings", got)
	}
}

func TestCheck_Functions(t *testing.T) {
	c := NewChecker()
	got := c.Check("foo(1) + getLength({$s}) > bar (2)", Scope{Location: loc, Presets: []string{"s"}})
	if want := []finding.Kind{finding.KindConditionError, finding.KindConditionError}; !reflect.DeepEqual(kinds(got), want) {
		t.Fatalf("kinds = %v, want %v", kinds(got), want)
	}
	if !strings.Contains(got[0].Message, "foo") || !strings.Contains(got[1].Message, "bar") {
		t.Errorf("messages = %q, %q", got[0].Message, got[1].Message)
	}
}

func TestCheck_ReservedNotAFunction(t *testing.T) {
	c := NewChecker()
	if got := c.Check("True(1)", Scope{Location: loc}); len(got) != 0 {
		t.Errorf("Check(True(1)) = %v, want none", got)
	}
}

func TestCheck_OperatorsAllAllowed(t *testing.T) {
	c := NewChecker()
	cond := "{$a} + {$b} - 1 * 2 / 3 >= 4 AND {$c} != 5 OR {$d} NOT EXISTS AND {$e} IN 'x' AND NOT {$f} <= 1 AND {$g} < 2 AND {$h} > 3 AND {$i} == 4"
	scope := Scope{Location: loc, Presets: []string{"a", "b", "c", "d", "e", "f", "g", "h", "i"}}
	if got := c.Check(cond, scope); len(got) != 0 {
		t.Errorf("Check() = %v, want none", got)
	}
}

func TestChecker_AllowLists(t *testing.T) {
	c := NewChecker()
	tests := []struct {
		name    string
		allowed func(string) bool
		in      string
		want    bool
	}{
		{"operator", c.AllowsOperator, "NOT EXISTS", true},
		{"operator case", c.AllowsOperator, "and", false},
		{"operator unknown", c.AllowsOperator, "=>", false},
		{"function", c.AllowsFunction, "getLength", true},
		{"function case", c.AllowsFunction, "GetLength", false},
		{"reserved is not a function", c.AllowsFunction, "True", false},
	}
	for _, tt := range tests {
		if got := tt.allowed(tt.in); got != tt.want {
			t.Errorf("%s: allowed(%q) = %v, want %v", tt.name, tt.in, got, tt.want)
		}
	}

	narrow := newChecker(setOf("=="), setOf("sum"))
	got := narrow.Check("sum({$a}) > 1 AND trim({$a}) == 2", Scope{Location: loc, Presets: []string{"a"}})
	if want := []finding.Kind{finding.KindConditionError, finding.KindConditionError, finding.KindConditionError}; !reflect.DeepEqual(kinds(got), want) {
		t.Fatalf("kinds = %v, want %v", kinds(got), want)
	}
}

func TestOperators(t *testing.T) {
	tests := []struct {
		cond string
		want []string
	}{
		{"a >= b", []string{">="}},
		{"a => b", []string{">"}},
		{"{$x} NOT EXISTS", []string{"NOT EXISTS"}},
		{"INDEX == 1", []string{"=="}},
		{"a AND b OR NOT c", []string{"AND", "OR", "NOT"}},
	}
	for _, tt := range tests {
		if got := Operators(tt.cond); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("Operators(%q) = %v, want %v", tt.cond, got, tt.want)
		}
	}
}

func TestParamRefsAndCalls(t *testing.T) {
	if got := ParamRefs("{$a} {$b_2} {$-bad} {$a}"); !reflect.DeepEqual(got, []string{"a", "b_2", "a"}) {
		t.Errorf("ParamRefs() = %v", got)
	}
	if got := FunctionCalls("trim({$a}) == toUpper ('x')"); !reflect.DeepEqual(got, []string{"trim", "toUpper"}) {
		t.Errorf("FunctionCalls() = %v", got)
	}
}

// Both the operator and the function check report on the same condition.
func TestCheck_NoShortCircuit(t *testing.T) {
	narrowed := setOf("==")
	c := newChecker(narrowed, functions)

	got := c.Check("foo(1) + 2 == 3", Scope{Location: loc})
	var problems []finding.Problem
	for _, f := range got {
		problems = append(problems, f.Detail.(finding.ConditionDetail).Problem)
	}
	want := []finding.Problem{finding.ProblemUnknownOperator, finding.ProblemUnknownFunction}
	if !reflect.DeepEqual(problems, want) {
		t.Errorf("problems = %v, want %v", problems, want)
	}
}

func TestCheck_PanicBecomesParseFailure(t *testing.T) {
	c := NewChecker()
	c.checks = append([]check{{"boom", func(string, Scope) []finding.Finding { panic("bad input") }}}, c.checks...)

	got := c.Check("foo()", Scope{Location: loc})
	if len(got) != 2 {
		t.Fatalf("Check() returned %d findings, want 2: %v", len(got), got)
	}
	d := got[0].Detail.(finding.ConditionDetail)
	if d.Problem != finding.ProblemParseFailure || !strings.Contains(got[0].Message, "bad input") {
		t.Errorf("first finding = %+v, want parse failure", got[0])
	}
	if got[1].Detail.(finding.ConditionDetail).Problem != finding.ProblemUnknownFunction {
		t.Errorf("second finding = %+v, want unknown function", got[1])
	}
}

func TestIsEventType(t *testing.T) {
	if !IsEventType("USER_DIALOG_START") {
		t.Error("USER_DIALOG_START should be allowed")
	}
	if IsEventType("user_dialog_start") {
		t.Error("event types are case-sensitive")
	}
	if len(EventTypes) != 12 {
		t.Errorf("len(EventTypes) = %d, want 12", len(EventTypes))
	}
}
