// Package condition checks handler condition statements against the
// allowed operators, functions and parameter references.
package condition

import (
	"fmt"
	"regexp"
	"strings"

	"botlint/internal/finding"
)

var (
	paramRefRe = regexp.MustCompile(`\{\$([a-zA-Z0-9_]+)\}`)
	operatorRe = regexp.MustCompile(`(==|!=|>=|<=|>|<|\bNOT EXISTS\b|\bEXISTS\b|\bIN\b|\bNOT\b|\bAND\b|\bOR\b|\+|-|\*|/)`)
	functionRe = regexp.MustCompile(`([a-zA-Z_][a-zA-Z0-9_]*)\s*\(`)
)

// Scope is what a condition may refer to.
type Scope struct {
	Location finding.Location
	// Presets are the names of the handler's own parameterPresets.
	Presets  []string
	Intents  map[string]struct{}
	Entities map[string]struct{}
}

func (s Scope) resolves(name string) bool {
	for _, p := range s.Presets {
		if p == name {
			return true
		}
	}
	if _, ok := s.Intents[name]; ok {
		return true
	}
	_, ok := s.Entities[name]
	return ok
}

type check struct {
	name string
	run  func(cond string, s Scope) []finding.Finding
}

// Checker runs the condition checks in a fixed order.
type Checker struct {
	operators map[string]struct{}
	functions map[string]struct{}
	checks    []check
}

// NewChecker creates a checker with the built-in allow-lists.
func NewChecker() *Checker {
	return newChecker(operators, functions)
}

func newChecker(ops, funcs map[string]struct{}) *Checker {
	c := &Checker{operators: ops, functions: funcs}
	c.checks = []check{
		{"boolean-casing", checkBooleanCasing},
		{"parameter-refs", checkParamRefs},
		{"operators", c.checkOperators},
		{"functions", c.checkFunctions},
	}
	return c
}

// Check runs every check against cond. A check that panics contributes a
// single parse-failure finding and the remaining checks still run.
func (c *Checker) Check(cond string, s Scope) []finding.Finding {
	var out []finding.Finding
	for _, ch := range c.checks {
		out = append(out, runGuarded(ch, cond, s)...)
	}
	return out
}

func runGuarded(ch check, cond string, s Scope) (out []finding.Finding) {
	defer func() {
		if r := recover(); r != nil {
			out = []finding.Finding{finding.ParseFailure(s.Location, cond, fmt.Sprintf("%s: %v", ch.name, r))}
		}
	}()
	return ch.run(cond, s)
}

func checkBooleanCasing(cond string, s Scope) []finding.Finding {
	t := strings.TrimSpace(cond)
	if t == "" || IsReserved(t) {
		return nil
	}
	if strings.EqualFold(t, "true") {
		return []finding.Finding{finding.BooleanCasing(s.Location, cond)}
	}
	return nil
}

func checkParamRefs(cond string, s Scope) []finding.Finding {
	var missing []string
	for _, ref := range ParamRefs(cond) {
		if has(nluIntentRefs, ref) {
			continue
		}
		if !s.resolves(ref) {
			missing = append(missing, ref)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	return []finding.Finding{finding.MissingVars(s.Location, cond, missing)}
}

// AllowsOperator reports whether op is on the checker's operator list.
func (c *Checker) AllowsOperator(op string) bool { return has(c.operators, op) }

// AllowsFunction reports whether name is on the checker's function list.
func (c *Checker) AllowsFunction(name string) bool { return has(c.functions, name) }

func (c *Checker) checkOperators(cond string, s Scope) []finding.Finding {
	var out []finding.Finding
	for _, op := range Operators(cond) {
		if !c.AllowsOperator(op) {
			out = append(out, finding.UnknownOperator(s.Location, cond, op))
		}
	}
	return out
}

func (c *Checker) checkFunctions(cond string, s Scope) []finding.Finding {
	var out []finding.Finding
	for _, fn := range FunctionCalls(cond) {
		if !c.AllowsFunction(fn) && !IsReserved(fn) {
			out = append(out, finding.UnknownFunction(s.Location, cond, fn))
		}
	}
	return out
}

// ParamRefs returns the names of every {$name} reference in order.
func ParamRefs(cond string) []string {
	return submatches(paramRefRe, cond)
}

// Operators returns every operator token in order.
func Operators(cond string) []string {
	return submatches(operatorRe, cond)
}

// FunctionCalls returns the identifier of every call in order.
func FunctionCalls(cond string) []string {
	return submatches(functionRe, cond)
}

func submatches(re *regexp.Regexp, s string) []string {
	var out []string
	for _, m := range re.FindAllStringSubmatch(s, -1) {
		out = append(out, m[1])
	}
	return out
}
