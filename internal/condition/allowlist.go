package condition

// The allow-lists are case-sensitive and fixed.

var operators = setOf(
	"/", "*", "+", "-", "==", "!=", ">=", "<=", ">", "<",
	"EXISTS", "NOT EXISTS", "IN", "NOT", "AND", "OR",
)

var functions = setOf(
	"sum", "getNumber", "isValidDatetime", "getLength", "convertDateFormat",
	"addDays", "isBefore", "trim", "replaceAll", "mergeStrings", "toUpper", "toLower",
)

var reservedWords = setOf(
	"True", "{$USER_TEXT_INPUT}", "{$__NLU_INTENT__}", "{$NLU_INTENT}",
	"SLOT_FILLING_COMPLETED", "ASKING_SLOT",
)

// EventTypes lists the allowed eventTrigger types in display order.
var EventTypes = []string{
	"NO_MATCH_EVENT", "PAUSE_EVENT", "WAKE_EVENT", "WEBHOOK_FAILED_EVENT",
	"USER_DIALOG_START", "USER_DIALOG_END", "USER_DIALOG_WAIT_TIMEOUT",
	"USER_BUTTON_CLICK", "USER_FILE_UPLOAD_SUCCESS", "USER_FILE_UPLOAD_FAIL",
	"USER_TRANSFER_AGENT", "BOT_TRANSITION_NOT_ALLOWED",
}

var eventTypes = setOf(EventTypes...)

// nluIntentRefs are parameter references that always resolve.
var nluIntentRefs = setOf("__NLU_INTENT__", "NLU_INTENT")

// IsReserved reports whether tok is a reserved literal token.
func IsReserved(tok string) bool { return has(reservedWords, tok) }

// IsEventType reports whether t is an allowed event type.
func IsEventType(t string) bool { return has(eventTypes, t) }

func setOf(items ...string) map[string]struct{} {
	m := make(map[string]struct{}, len(items))
	for _, s := range items {
		m[s] = struct{}{}
	}
	return m
}

func has(set map[string]struct{}, s string) bool {
	_, ok := set[s]
	return ok
}
