// Package oracle talks to the chat-completions service used for fix
// suggestions and typo checks.
package oracle

import (
	"context"
	"regexp"
	"strings"
	"unicode/utf8"
)

// Suggester produces free-text fix suggestions. It never fails: problems
// come back as descriptive text.
type Suggester interface {
	SuggestFix(ctx context.Context, problem, instruction string) string
}

// TypoChecker checks a batch of texts. The whole batch fails together.
type TypoChecker interface {
	CheckTypos(ctx context.Context, texts []string) ([]TypoResult, error)
}

// TypoResult is the verdict for one text.
type TypoResult struct {
	Text   string `json:"text"`
	IsTypo bool   `json:"typo"`
	Reason string `json:"reason"`
}

// Operation names used in logs and metrics.
const (
	OpSuggest = "suggest"
	OpTypos   = "typos"
)

// UnavailableText is returned by SuggestFix when no credential is set.
const UnavailableText = "[oracle unavailable: API key not configured]"

// MeaninglessReason is the verdict for texts never sent to the service.
const MeaninglessReason = "meaningless text (blank, symbols only or too short)"

var (
	jamoOnlyRe   = regexp.MustCompile(`^[ㄱ-ㅎㅏ-ㅣ]+$`)
	meaningfulRe = regexp.MustCompile(`[A-Za-z0-9가-힣]`)
)

// IsMeaningless reports whether text is too degenerate to check: blank,
// only Hangul jamo, free of letters, digits and Hangul syllables, or at
// most two characters long.
func IsMeaningless(text string) bool {
	t := strings.TrimSpace(text)
	switch {
	case t == "":
		return true
	case jamoOnlyRe.MatchString(t):
		return true
	case !meaningfulRe.MatchString(text):
		return true
	case utf8.RuneCountInString(t) <= 2:
		return true
	}
	return false
}
