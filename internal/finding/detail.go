package finding

// Detail carries the kind-specific fields of a finding.
// Only types in this package implement it.
type Detail interface {
	detail()
}

// IntentDetail names the unregistered intent of an IntentError.
type IntentDetail struct {
	UsedIntent string
}

// Problem identifies which condition check produced a ConditionError.
type Problem string

const (
	ProblemBooleanCasing   Problem = "boolean-casing"
	ProblemUnknownOperator Problem = "unknown-operator"
	ProblemUnknownFunction Problem = "unknown-function"
	ProblemParseFailure    Problem = "parse-failure"
)

// ConditionDetail carries the offending condition of a ConditionError.
type ConditionDetail struct {
	UsedCondition string
	Problem       Problem
}

// MissingVarsDetail lists unresolved parameter references of a ConditionWarning.
type MissingVarsDetail struct {
	UsedCondition string
	MissingVars   []string
}

// PageLinkDetail names the missing transition target.
type PageLinkDetail struct {
	Target string
}

// EventDetail names the unknown event type.
type EventDetail struct {
	EventType string
}

// NamesDetail lists the names behind a usage finding.
type NamesDetail struct {
	Names []string
}

func (IntentDetail) detail()      {}
func (ConditionDetail) detail()   {}
func (MissingVarsDetail) detail() {}
func (PageLinkDetail) detail()    {}
func (EventDetail) detail()       {}
func (NamesDetail) detail()       {}
