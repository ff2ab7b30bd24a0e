// Package suggest maps findings to fix suggestions, locally or through the
// oracle.
package suggest

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"botlint/internal/finding"
	"botlint/internal/oracle"
	"botlint/internal/slogutil"
)

// OraclePrefix marks oracle-sourced suggestions.
const OraclePrefix = "AI suggestion:"

// Instruction is sent with every oracle request.
const Instruction = "Suggest how to fix this error."

// oracleKinds are delegated to the oracle when it is enabled.
var oracleKinds = map[finding.Kind]bool{
	finding.KindConditionError: true,
	finding.KindPageLinkError:  true,
	finding.KindIntentError:    true,
}

// Mapper produces one suggestion per finding.
type Mapper struct {
	oracle oracle.Suggester
	logger *slog.Logger
}

// Option configures a Mapper.
type Option func(*Mapper)

// WithLogger sets the mapper logger.
func WithLogger(l *slog.Logger) Option {
	return func(m *Mapper) { m.logger = l }
}

// NewMapper creates a mapper. s may be nil when the oracle is never used.
func NewMapper(s oracle.Suggester, opts ...Option) *Mapper {
	m := &Mapper{oracle: s}
	for _, opt := range opts {
		opt(m)
	}
	m.logger = slogutil.OrDiscard(m.logger)
	return m
}

// Suggest returns suggestions aligned with findings. Kinds without a
// template map to "". Oracle calls run one at a time in finding order.
func (m *Mapper) Suggest(ctx context.Context, findings []finding.Finding, useOracle bool) []string {
	out := make([]string, len(findings))
	delegated := 0
	for i, f := range findings {
		if useOracle && m.oracle != nil && oracleKinds[f.Kind] {
			out[i] = m.fromOracle(ctx, f)
			delegated++
			continue
		}
		out[i] = Local(f)
	}
	m.logger.Debug("Suggestions mapped", "findings", len(findings), "oracle", delegated)
	return out
}

func (m *Mapper) fromOracle(ctx context.Context, f finding.Finding) string {
	problem := fmt.Sprintf("error: %s\nlocation: %s", f.Message, f.Location)
	return WithPrefix(m.oracle.SuggestFix(ctx, problem, Instruction))
}

// WithPrefix adds OraclePrefix unless text already starts with it.
func WithPrefix(text string) string {
	if strings.HasPrefix(strings.TrimSpace(text), OraclePrefix) {
		return text
	}
	return OraclePrefix + " " + text
}

// Local returns the template suggestion for f, or "".
func Local(f finding.Finding) string {
	switch f.Kind {
	case finding.KindPageLinkError:
		return fmt.Sprintf("%s: '%s'. '%s'", f.Location, f.Message, f.Suggestion)
	case finding.KindHandlerMissing:
		return fmt.Sprintf("%s has no handlers. Add a default handler such as 'USER_DIALOG_START'.", f.Location)
	case finding.KindConditionError:
		return fmt.Sprintf("Review the condition at %s. '%s'", f.Location, f.Suggestion)
	case finding.KindCustomCheck:
		return "Custom check item: " + f.Message
	default:
		return ""
	}
}
