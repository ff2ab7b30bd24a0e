// Package lint ties the rule engine, suggestion mapper, usage analysis,
// typo runner and history archive into the operations exposed by the CLI
// and the HTTP API.
package lint

import (
	"context"
	stderrors "errors"
	"log/slog"

	"botlint/internal/botdoc"
	"botlint/internal/errors"
	"botlint/internal/finding"
	"botlint/internal/history"
	"botlint/internal/report"
	"botlint/internal/rules"
	"botlint/internal/slogutil"
	"botlint/internal/suggest"
	"botlint/internal/typo"
	"botlint/internal/usage"
)

// Service runs lint operations. A nil Engine or Mapper falls back to the
// defaults; Typos and Store are optional.
type Service struct {
	Engine *rules.Engine
	Mapper *suggest.Mapper
	Typos  *typo.Runner
	Store  *history.Store
	Logger *slog.Logger
}

// ValidateOptions controls one validation run.
type ValidateOptions struct {
	Source       string
	CustomChecks []string
	UseOracle    bool
	WithUsage    bool
	Save         bool
}

// Validate checks data and builds a report. Only unreadable JSON and
// archive failures are errors.
func (s *Service) Validate(ctx context.Context, data []byte, opts ValidateOptions) (*report.Report, error) {
	logger := slogutil.OrDiscard(s.Logger)

	raw, err := botdoc.Decode(data)
	if err != nil {
		return nil, err
	}

	engine, mapper := s.Engine, s.Mapper
	if engine == nil {
		engine = rules.NewEngine(rules.WithLogger(logger))
	}
	if mapper == nil {
		mapper = suggest.NewMapper(nil, suggest.WithLogger(logger))
	}

	findings := engine.Validate(raw, opts.CustomChecks)
	suggestions := mapper.Suggest(ctx, findings, opts.UseOracle)

	var u *usage.Result
	if opts.WithUsage {
		res := usage.Analyze(raw)
		u = &res
	}

	r := report.Build("", opts.Source, findings, suggestions, u)
	logger.Info("Validation complete",
		"run", r.RunID,
		"source", opts.Source,
		"findings", r.Summary.Total,
		"errors", r.Summary.BySeverity[finding.SeverityError],
	)

	if opts.Save {
		if s.Store == nil {
			return r, errors.New(errors.HistoryUnavailable, "history is disabled", nil)
		}
		if err := s.Store.Save(r); err != nil {
			return r, err
		}
	}
	return r, nil
}

// Usage decodes data and reports intent and entity usage.
func (s *Service) Usage(data []byte) (usage.Result, error) {
	raw, err := botdoc.Decode(data)
	if err != nil {
		return usage.Result{}, err
	}
	return usage.Analyze(raw), nil
}

// Summary describes a document's flows and variables.
type Summary struct {
	Scenarios []botdoc.Scenario             `json:"scenarios"`
	Variables map[string][]botdoc.VariableUse `json:"variables"`
}

// Summarize decodes data and lists scenarios and variable usage.
func (s *Service) Summarize(ctx context.Context, data []byte) (*Summary, error) {
	g, err := parse(data)
	if err != nil {
		return nil, err
	}
	scenarios, err := g.Scenarios(ctx)
	if err != nil {
		return nil, err
	}
	return &Summary{Scenarios: scenarios, Variables: g.VariablesByName()}, nil
}

// TypoEntry is one response text with its verdict.
type TypoEntry struct {
	botdoc.ResponseText
	Verdict typo.Verdict `json:"verdict"`
	Label   string       `json:"label"`
}

// CheckTypos runs the typo checker over every response text of data.
func (s *Service) CheckTypos(ctx context.Context, data []byte) ([]TypoEntry, error) {
	if s.Typos == nil {
		return nil, errors.New(errors.OracleUnavailable, "typo checks need the oracle", nil)
	}
	g, err := parse(data)
	if err != nil {
		return nil, err
	}

	texts := g.ResponseTexts()
	results := s.Typos.Run(ctx, texts)

	out := make([]TypoEntry, 0, len(texts))
	for _, t := range texts {
		v, ok := results.Lookup(t.Flow, t.Text)
		if !ok {
			v = typo.Verdict{Status: typo.StatusUnknown}
		}
		out = append(out, TypoEntry{
			ResponseText: t,
			Verdict:      v,
			Label:        results.Label(t.Flow, t.Text),
		})
	}
	return out, nil
}

// parse decodes and parses data, turning shape problems into
// DocumentInvalid errors.
func parse(data []byte) (*botdoc.Graph, error) {
	raw, err := botdoc.Decode(data)
	if err != nil {
		return nil, err
	}
	g, err := botdoc.Parse(raw)
	if err != nil {
		var shape *botdoc.ShapeError
		if stderrors.As(err, &shape) {
			return nil, errors.New(errors.DocumentInvalid, shape.Message, nil)
		}
		return nil, err
	}
	return g, nil
}
