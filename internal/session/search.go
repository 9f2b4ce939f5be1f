package session

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel/trace"

	"github.com/stacklok/wordfinder/internal/filtering"
	"github.com/stacklok/wordfinder/internal/otel"
	"github.com/stacklok/wordfinder/internal/telemetry"
)

// Query is a complete set of constraints applied in one go
type Query struct {
	Language string `json:"language"`
	Length   int    `json:"length"`
	Excluded string `json:"excluded,omitempty"`
	Included string `json:"included,omitempty"`
	Pattern  string `json:"pattern,omitempty"`
}

// Search loads the words for the query's language and length and applies
// exclusion, inclusion and pattern in that order on a fresh engine.
// An include request that conflicts with the excluded letters is skipped and
// reported in the result. Nothing is kept after the call returns.
func (m *Manager) Search(ctx context.Context, query Query) (Result, error) {
	ctx, span := otel.StartSpan(ctx, m.tracer, "session.Search",
		trace.WithAttributes(
			otel.AttrLanguage.String(query.Language),
			otel.AttrWordLength.Int(query.Length),
		),
	)
	defer span.End()

	words, err := m.source.Words(ctx, query.Language, query.Length)
	if err != nil {
		otel.RecordError(span, err)
		return Result{}, fmt.Errorf("failed to load words: %w", err)
	}

	engine := filtering.NewEngine()
	words = engine.ByLength(words, query.Length)
	result := Result{Applied: true}

	if query.Excluded != "" {
		words, err = engine.ExcludeLetters(words, query.Excluded)
		if err != nil {
			otel.RecordError(span, err)
			return Result{}, err
		}
	}

	if query.Included != "" {
		var filtered []string
		filtered, err = engine.IncludeLetters(words, query.Included)
		var conflict *filtering.ConflictError
		switch {
		case errors.As(err, &conflict):
			result.Applied = false
			result.Conflict = conflict.Letters
			span.SetAttributes(otel.AttrConflict.String(conflict.Letters))
			m.metrics.RecordOperation(filtering.OpInclude, telemetry.OutcomeConflict, len(words))
		case err != nil:
			return Result{}, err
		default:
			words = filtered
		}
	}

	if query.Pattern != "" {
		var report filtering.PatternReport
		words, report = engine.ByPattern(words, query.Pattern)
		result.Contradictions = report.Contradictions
		result.Unsatisfiable = report.Unsatisfiable
	}

	otel.RecordResult(span, len(words))
	m.metrics.RecordOperation(opSearch, telemetry.OutcomeApplied, len(words))

	result.View = View{
		Language: query.Language,
		Length:   query.Length,
		State:    engine.Snapshot(),
		Count:    len(words),
	}
	result.Words = words
	return result, nil
}
