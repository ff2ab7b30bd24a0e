// Package typo checks response texts for typos, one oracle batch per flow.
package typo

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	"botlint/internal/botdoc"
	"botlint/internal/oracle"
	"botlint/internal/slogutil"
)

// DefaultWorkers bounds concurrent oracle calls.
const DefaultWorkers = 5

// Status is the verdict for one text.
type Status string

const (
	StatusTypo    Status = "typo"
	StatusClean   Status = "clean"
	StatusUnknown Status = "unknown"
)

// Key identifies a text within a flow. Text is whitespace-trimmed.
type Key struct {
	Flow string
	Text string
}

// NewKey builds a normalised key.
func NewKey(flow, text string) Key {
	return Key{Flow: flow, Text: strings.TrimSpace(text)}
}

// Verdict is the outcome for one key.
type Verdict struct {
	Status Status `json:"status"`
	Reason string `json:"reason,omitempty"`
}

// Results maps keys to verdicts.
type Results map[Key]Verdict

// Lookup returns the verdict for a flow's text.
func (r Results) Lookup(flow, text string) (Verdict, bool) {
	v, ok := r[NewKey(flow, text)]
	return v, ok
}

// Label renders the verdict for display. Texts that were never checked
// read as "unknown".
func (r Results) Label(flow, text string) string {
	v, ok := r.Lookup(flow, text)
	if !ok {
		return string(StatusUnknown)
	}
	switch v.Status {
	case StatusTypo:
		return "typo: " + v.Reason
	case StatusClean:
		return "no typo"
	default:
		return string(StatusUnknown)
	}
}

// Counts tallies verdicts per status.
func (r Results) Counts() map[Status]int {
	out := make(map[Status]int)
	for _, v := range r {
		out[v.Status]++
	}
	return out
}

// Runner fans typo checks out per flow.
type Runner struct {
	Checker oracle.TypoChecker
	// Workers bounds concurrent batches. Zero means DefaultWorkers.
	Workers int
	Logger  *slog.Logger
}

type batch struct {
	flow  string
	texts []string
}

// Run checks every text. A failed batch marks that flow's texts unknown
// and never affects other flows.
func (r *Runner) Run(ctx context.Context, texts []botdoc.ResponseText) Results {
	logger := slogutil.WithComponent(r.Logger, "typo")
	batches := groupByFlow(texts)
	slots := make([]Results, len(batches))

	workers := r.Workers
	if workers <= 0 {
		workers = DefaultWorkers
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, b := range batches {
		g.Go(func() error {
			slots[i] = r.runBatch(gctx, logger, b)
			// Never fail the group: siblings must keep running.
			return nil
		})
	}
	_ = g.Wait()

	out := make(Results)
	for _, slot := range slots {
		for k, v := range slot {
			out[k] = v
		}
	}
	return out
}

func (r *Runner) runBatch(ctx context.Context, logger *slog.Logger, b batch) (res Results) {
	res = make(Results, len(b.texts))
	defer func() {
		if p := recover(); p != nil {
			logger.Error("Typo batch panicked", "flow", b.flow, "panic", p)
			res = unknownAll(b, fmt.Sprintf("panic: %v", p))
		}
	}()

	verdicts, err := r.Checker.CheckTypos(ctx, b.texts)
	if err != nil {
		logger.Warn("Typo batch failed", "flow", b.flow, "texts", len(b.texts), "error", err)
		return unknownAll(b, err.Error())
	}

	for _, v := range verdicts {
		status := StatusClean
		if v.IsTypo {
			status = StatusTypo
		}
		res[NewKey(b.flow, v.Text)] = Verdict{Status: status, Reason: v.Reason}
	}
	logger.Debug("Typo batch complete", "flow", b.flow, "texts", len(b.texts), "verdicts", len(verdicts))
	return res
}

func unknownAll(b batch, reason string) Results {
	res := make(Results, len(b.texts))
	for _, t := range b.texts {
		res[NewKey(b.flow, t)] = Verdict{Status: StatusUnknown, Reason: reason}
	}
	return res
}

// groupByFlow groups texts by flow in first-seen order, dropping repeats.
func groupByFlow(texts []botdoc.ResponseText) []batch {
	index := make(map[string]int)
	seen := make(map[Key]struct{})
	var out []batch
	for _, t := range texts {
		k := NewKey(t.Flow, t.Text)
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		i, ok := index[t.Flow]
		if !ok {
			i = len(out)
			index[t.Flow] = i
			out = append(out, batch{flow: t.Flow})
		}
		out[i].texts = append(out[i].texts, t.Text)
	}
	return out
}
