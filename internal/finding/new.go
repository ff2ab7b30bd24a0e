package finding

import (
	"fmt"
	"strings"
)

// DataStructure reports a document whose top-level shape is unusable.
func DataStructure(message string) Finding {
	return Finding{
		Kind:       KindDataStructureError,
		Message:    message,
		Suggestion: "Upload a valid bot builder JSON export.",
	}
}

// Validation reports an unexpected failure while checking loc.
func Validation(loc Location, cause any) Finding {
	return Finding{
		Kind:       KindValidationError,
		Message:    fmt.Sprintf("error during validation: %v", cause),
		Location:   loc,
		Suggestion: "Check the data structure and try again.",
	}
}

// PageLink reports a CUSTOM transition to a page that does not exist.
func PageLink(loc Location, target string) Finding {
	return Finding{
		Kind:       KindPageLinkError,
		Message:    "transition to non-existent page: " + target,
		Location:   loc,
		Suggestion: fmt.Sprintf("Check that page '%s' exists, or correct the page name.", target),
		Detail:     PageLinkDetail{Target: target},
	}
}

// HandlerMissing reports a page without handlers.
func HandlerMissing(loc Location) Finding {
	return Finding{
		Kind:       KindHandlerMissing,
		Message:    "page has no handlers",
		Location:   loc,
		Suggestion: "Add the required event handlers.",
	}
}

// Intent reports an intent trigger naming an undeclared intent.
func Intent(loc Location, name string) Finding {
	return Finding{
		Kind:       KindIntentError,
		Message:    "unregistered intent name used: " + name,
		Location:   loc,
		Suggestion: fmt.Sprintf("%s is not a registered intent name.", name),
		Detail:     IntentDetail{UsedIntent: name},
	}
}

// Event reports an event trigger outside the allowed set.
func Event(loc Location, eventType string, allowed []string) Finding {
	return Finding{
		Kind:       KindEventWarning,
		Message:    "event type not allowed: " + eventType,
		Location:   loc,
		Suggestion: "Use only allowed event types: " + strings.Join(allowed, ", "),
		Detail:     EventDetail{EventType: eventType},
	}
}

// BooleanCasing reports a boolean literal that is not exactly "True".
func BooleanCasing(loc Location, cond string) Finding {
	return Finding{
		Kind:       KindConditionError,
		Message:    fmt.Sprintf("boolean literal must be exactly 'True', got '%s'", cond),
		Location:   loc,
		Suggestion: fmt.Sprintf("Change condition '%s' to 'True'.", cond),
		Detail:     ConditionDetail{UsedCondition: cond, Problem: ProblemBooleanCasing},
	}
}

// MissingVars reports parameter references that resolve nowhere.
func MissingVars(loc Location, cond string, names []string) Finding {
	list := strings.Join(names, ", ")
	return Finding{
		Kind:       KindConditionWarning,
		Message:    fmt.Sprintf("parameter(s) %s referenced in condition not found in parameterPresets, intents or entities", list),
		Location:   loc,
		Suggestion: fmt.Sprintf("Variable(s) %s are not registered.", list),
		Detail:     MissingVarsDetail{UsedCondition: cond, MissingVars: names},
	}
}

// UnknownOperator reports an operator outside the allow-list.
func UnknownOperator(loc Location, cond, op string) Finding {
	return Finding{
		Kind:       KindConditionError,
		Message:    "operator not allowed: " + op,
		Location:   loc,
		Suggestion: fmt.Sprintf("Condition uses disallowed operator '%s'. Condition: '%s'", op, cond),
		Detail:     ConditionDetail{UsedCondition: cond, Problem: ProblemUnknownOperator},
	}
}

// UnknownFunction reports a function call outside the allow-list.
func UnknownFunction(loc Location, cond, fn string) Finding {
	return Finding{
		Kind:       KindConditionError,
		Message:    "function not allowed: " + fn,
		Location:   loc,
		Suggestion: fmt.Sprintf("Condition uses disallowed function '%s'. Condition: '%s'", fn, cond),
		Detail:     ConditionDetail{UsedCondition: cond, Problem: ProblemUnknownFunction},
	}
}

// ParseFailure reports a condition check that failed internally.
func ParseFailure(loc Location, cond string, cause any) Finding {
	return Finding{
		Kind:       KindConditionError,
		Message:    fmt.Sprintf("condition parse error: %v", cause),
		Location:   loc,
		Suggestion: "Check the condition format.",
		Detail:     ConditionDetail{UsedCondition: cond, Problem: ProblemParseFailure},
	}
}

// CustomCheck records a caller-supplied checklist item.
func CustomCheck(description string) Finding {
	return Finding{
		Kind:       KindCustomCheck,
		Message:    "custom check: " + description,
		Suggestion: "Add the check logic manually.",
	}
}

// DuplicateIntent reports intent names declared more than once.
func DuplicateIntent(names []string) Finding {
	return Finding{
		Kind:       KindDuplicateIntent,
		Message:    "duplicate intent names: " + strings.Join(names, ", "),
		Suggestion: "Rename or merge the duplicated intents.",
		Detail:     NamesDetail{Names: names},
	}
}

// DuplicateEntity reports entity names declared more than once.
func DuplicateEntity(names []string) Finding {
	return Finding{
		Kind:       KindDuplicateEntity,
		Message:    "duplicate entity names: " + strings.Join(names, ", "),
		Suggestion: "Rename or merge the duplicated entities.",
		Detail:     NamesDetail{Names: names},
	}
}

// UnusedIntent reports declared intents never referenced.
func UnusedIntent(names []string) Finding {
	return Finding{
		Kind:       KindUnusedIntent,
		Message:    "unused intents: " + strings.Join(names, ", "),
		Suggestion: "Remove the intents or reference them from a handler.",
		Detail:     NamesDetail{Names: names},
	}
}

// UnusedEntity reports declared entities never referenced.
func UnusedEntity(names []string) Finding {
	return Finding{
		Kind:       KindUnusedEntity,
		Message:    "unused entities: " + strings.Join(names, ", "),
		Suggestion: "Remove the entities or reference them from a condition.",
		Detail:     NamesDetail{Names: names},
	}
}
