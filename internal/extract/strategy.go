// Package extract implements the resilient multi-strategy field
// extraction engine.
//
// Each target field declares an ordered chain of independent strategies.
// Strategies run strictly in declared priority order and the first
// candidate that passes the field's acceptance check wins; there is no
// voting or merging. A strategy that finds several matches takes the
// first in document order. Failures never escape a pipeline: a panic or
// a rejected candidate simply advances the chain, and an exhausted
// chain leaves the field empty.
package extract

import (
	"context"

	"go.uber.org/zap"

	"github.com/fundsift/fundsift/internal/document"
	"github.com/fundsift/fundsift/internal/live"
)

// Candidate is a provisional, unvalidated extraction result produced by
// one strategy within a field pipeline.
type Candidate struct {
	Raw        string
	StrategyID string
	Priority   int
}

// Strategy attempts to pull a raw value for one field out of a page.
type Strategy interface {
	ID() string
	Attempt(ctx context.Context, d *document.Document, page live.Page) (string, bool)
}

// AttemptFunc adapts a function to the Strategy interface.
type AttemptFunc func(ctx context.Context, d *document.Document, page live.Page) (string, bool)

type strategyFunc struct {
	id string
	fn AttemptFunc
}

func (s strategyFunc) ID() string { return s.id }

func (s strategyFunc) Attempt(ctx context.Context, d *document.Document, page live.Page) (string, bool) {
	return s.fn(ctx, d, page)
}

// New wraps fn as a named strategy.
func New(id string, fn AttemptFunc) Strategy {
	return strategyFunc{id: id, fn: fn}
}

// FieldSpec is the static configuration for one extracted field: its
// ordered fallback strategies and the acceptance check that validates
// and canonicalizes a raw candidate. Never mutated at run time.
type FieldSpec struct {
	Name       string
	Strategies []Strategy
	Accept     func(raw string) (string, bool)
}

// resolve runs a field chain to completion and returns the canonical
// value, or "" when every strategy failed or was rejected.
func (e *Engine) resolve(ctx context.Context, d *document.Document, page live.Page, spec FieldSpec) string {
	accept := spec.Accept
	if accept == nil {
		accept = func(raw string) (string, bool) { return raw, raw != "" }
	}

	for priority, strat := range spec.Strategies {
		raw, ok := e.attempt(ctx, strat, d, page)
		if !ok {
			continue
		}
		cand := Candidate{Raw: raw, StrategyID: strat.ID(), Priority: priority}
		val, ok := accept(cand.Raw)
		if !ok {
			// Out-of-bounds or malformed candidate: discard silently.
			continue
		}
		e.log.Debug("field resolved",
			zap.String("field", spec.Name),
			zap.String("strategy", cand.StrategyID),
			zap.Int("priority", cand.Priority))
		if e.metrics != nil {
			e.metrics.RecordField(spec.Name, true)
		}
		return val
	}

	e.log.Debug("strategies exhausted", zap.String("field", spec.Name))
	if e.metrics != nil {
		e.metrics.RecordField(spec.Name, false)
	}
	return ""
}

// resolveInt is resolve for integer-valued fields (ranks, ratings).
func (e *Engine) resolveInt(ctx context.Context, d *document.Document, page live.Page, name string, strategies []Strategy, accept func(string) (int, bool)) int {
	for priority, strat := range strategies {
		raw, ok := e.attempt(ctx, strat, d, page)
		if !ok {
			continue
		}
		if v, ok := accept(raw); ok {
			e.log.Debug("field resolved",
				zap.String("field", name),
				zap.String("strategy", strat.ID()),
				zap.Int("priority", priority))
			if e.metrics != nil {
				e.metrics.RecordField(name, true)
			}
			return v
		}
	}
	e.log.Debug("strategies exhausted", zap.String("field", name))
	if e.metrics != nil {
		e.metrics.RecordField(name, false)
	}
	return 0
}

// attempt isolates one strategy execution; panics convert to a miss so
// no failure can cross a field pipeline boundary.
func (e *Engine) attempt(ctx context.Context, s Strategy, d *document.Document, page live.Page) (raw string, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			e.log.Debug("strategy panic recovered",
				zap.String("strategy", s.ID()),
				zap.Any("panic", r))
			raw, ok = "", false
		}
	}()
	return s.Attempt(ctx, d, page)
}
