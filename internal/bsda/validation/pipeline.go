// Package validation implements the BSDA validation engine: the field
// schema, the business rule set, the completion transformers, the
// sealed-field policy and the merge algorithm, orchestrated by two parse
// entry points.
//
// Every stage aggregates its issues instead of failing fast; a stage only
// stops the pipeline when its failure would make later stages meaningless
// (shape failures abort before business rules, which assume shape-correct
// input).
package validation

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/petersg83/trackdechets/internal/bsda"
	"github.com/petersg83/trackdechets/internal/bsda/validation/ports"
	"github.com/petersg83/trackdechets/internal/platform/metrics"
)

// Parse is the fully synchronous entry point: schema, sync transformers and
// sync business rules, no external lookups. It returns the normalized
// document or an aggregated ShapeError / ValidationError.
func Parse(b bsda.Bsda, vctx Context) (bsda.Bsda, error) {
	normalize(&b)

	c := &collector{}
	checkShape(&b, c)
	if !c.empty() {
		return bsda.Bsda{}, &ShapeError{Issues: c.issues}
	}

	if vctx.EnableCompletionTransformers {
		applySyncTransformers(&b)
	}

	checkRules(&b, vctx, c)
	if !c.empty() {
		return bsda.Bsda{}, &ValidationError{Issues: c.issues}
	}
	return b, nil
}

// Validator runs the asynchronous entry points against injected
// collaborators. The engine never sees a concrete registry or store.
type Validator struct {
	registry ports.CompanyRegistry
	previous ports.PreviousBsdaFinder
	logger   *slog.Logger
	metrics  *metrics.Metrics
}

func New(registry ports.CompanyRegistry, previous ports.PreviousBsdaFinder, logger *slog.Logger, m *metrics.Metrics) (*Validator, error) {
	if registry == nil {
		return nil, errors.New("company registry is required")
	}
	if previous == nil {
		return nil, errors.New("previous bsda finder is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Validator{registry: registry, previous: previous, logger: logger, metrics: m}, nil
}

// ParseAsync additionally resolves every company reference (and grouped
// bordereaux when enabled), runs the completion transformers when the context
// asks for them, then both rule groups. Lookups run concurrently; the first
// transport failure fails the whole parse, no partial result survives.
func (v *Validator) ParseAsync(ctx context.Context, b bsda.Bsda, vctx Context) (bsda.Bsda, error) {
	start := time.Now()
	parsed, err := v.parseAsync(ctx, b, vctx)
	v.metrics.ObserveParseLatency(time.Since(start))
	v.metrics.CountParse("parse_async", outcome(err))
	return parsed, err
}

func (v *Validator) parseAsync(ctx context.Context, b bsda.Bsda, vctx Context) (bsda.Bsda, error) {
	normalize(&b)

	c := &collector{}
	checkShape(&b, c)
	if !c.empty() {
		return bsda.Bsda{}, &ShapeError{Issues: c.issues}
	}

	data, err := v.gather(ctx, &b, vctx)
	if err != nil {
		return bsda.Bsda{}, err
	}

	if vctx.EnableCompletionTransformers {
		applySyncTransformers(&b)
		applyAsyncTransformers(&b, data)
	}

	checkRules(&b, vctx, c)
	checkAsyncRules(&b, vctx, data, c)
	if !c.empty() {
		v.logger.DebugContext(ctx, "bsda parse failed",
			"bsda_id", b.ID,
			"issues", len(c.issues),
		)
		return bsda.Bsda{}, &ValidationError{Issues: c.issues}
	}
	return b, nil
}

// MergeInputAndParseAsync is the partial-update entry point: it applies the
// input onto the persisted document under the sealed-field policy, then runs
// the merged document through ParseAsync. Re-submitting a sealed field's
// current value is absorbed silently and never appears in UpdatedFields.
func (v *Validator) MergeInputAndParseAsync(ctx context.Context, persisted bsda.Bsda, input Input, vctx Context) (*MergeResult, error) {
	merged, updatedFields, err := mergeInput(persisted, input, vctx.User)
	if err != nil {
		v.metrics.CountParse("merge", "sealed_field_violation")
		return nil, err
	}

	parsed, err := v.ParseAsync(ctx, merged, vctx)
	if err != nil {
		return nil, err
	}
	if updatedFields == nil {
		updatedFields = []string{}
	}
	return &MergeResult{Bsda: parsed, UpdatedFields: updatedFields}, nil
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case isValidationFailure(err):
		return "invalid"
	default:
		return "error"
	}
}

func isValidationFailure(err error) bool {
	var shapeErr *ShapeError
	var ruleErr *ValidationError
	return errors.As(err, &shapeErr) || errors.As(err, &ruleErr)
}
