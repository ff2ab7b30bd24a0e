// Package rules runs the structural rule set over a bot document.
package rules

import (
	"log/slog"
	"time"

	"botlint/internal/botdoc"
	"botlint/internal/condition"
	"botlint/internal/finding"
	"botlint/internal/metrics"
	"botlint/internal/slogutil"
)

// Engine validates documents. It holds only immutable configuration and is
// safe for concurrent use.
type Engine struct {
	logger  *slog.Logger
	metrics *metrics.Recorder
	checker *condition.Checker
	rules   []Rule
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the engine logger.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// WithMetrics sets the metrics recorder.
func WithMetrics(m *metrics.Recorder) Option {
	return func(e *Engine) { e.metrics = m }
}

// WithChecker replaces the condition checker.
func WithChecker(c *condition.Checker) Option {
	return func(e *Engine) { e.checker = c }
}

// WithRules replaces the page rules.
func WithRules(rules ...Rule) Option {
	return func(e *Engine) { e.rules = rules }
}

// NewEngine creates an engine with the default rules.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		checker: condition.NewChecker(),
		rules:   DefaultRules(),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.logger = slogutil.WithComponent(e.logger, "rules")
	return e
}

// Validate checks raw and returns its findings. Custom checks are appended
// as document-wide CustomCheck findings. Validate never panics.
func (e *Engine) Validate(raw any, customChecks []string) (out []finding.Finding) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("Validation aborted", "panic", r)
			out = append(out, finding.Validation(finding.Location{}, r))
		}
		e.metrics.ObserveValidation(out)
		e.logger.Debug("Validation complete",
			"findings", len(out),
			"duration", time.Since(start))
	}()

	g, err := botdoc.Parse(raw)
	if err != nil {
		e.logger.Info("Document rejected", "error", err)
		return []finding.Finding{finding.DataStructure(err.Error())}
	}

	rc := newRunContext(g, e.checker)
	g.EachPage(func(p *botdoc.Page) {
		for _, rule := range e.rules {
			out = append(out, e.runRule(rule, rc, p)...)
		}
	})

	for _, check := range customChecks {
		out = append(out, finding.CustomCheck(check))
	}
	return out
}

// ValidateBytes decodes data and validates it. Unreadable JSON is the only
// error; shape problems are reported as findings.
func (e *Engine) ValidateBytes(data []byte, customChecks []string) ([]finding.Finding, error) {
	raw, err := botdoc.Decode(data)
	if err != nil {
		return nil, err
	}
	return e.Validate(raw, customChecks), nil
}

func (e *Engine) runRule(rule Rule, rc *RunContext, p *botdoc.Page) (out []finding.Finding) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Warn("Rule failed",
				"rule", rule.Name(),
				"flow", p.Flow,
				"page", p.Name,
				"panic", r)
			out = []finding.Finding{finding.Validation(pageLoc(p), r)}
		}
	}()
	return rule.CheckPage(rc, p)
}
