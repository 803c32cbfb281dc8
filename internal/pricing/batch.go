package pricing

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/tileit-labs/quote-cli/internal/survey"
)

// RowError records a single property that could not be priced. Row
// failures never abort the batch.
type RowError struct {
	Address string `json:"address"`
	Err     error  `json:"-"`
	Message string `json:"error"`
}

// Batch prices a collection of properties under one profile, isolating
// per-property failures.
type Batch struct {
	engine  *Engine
	workers int
}

// NewBatch creates a batch processor. workers bounds how many properties
// are priced concurrently; values below 2 keep the batch sequential.
// Either way the output preserves input order.
func NewBatch(profile *Profile, workers int) *Batch {
	if workers < 1 {
		workers = 1
	}
	return &Batch{engine: NewEngine(profile), workers: workers}
}

// Process prices every property in input order. The profile is validated
// once before any pricing starts; a structurally invalid profile returns a
// single error and no quotes. Per-property failures are collected as
// RowErrors keyed by address and the failed property is excluded from the
// results. Pricing is pure CPU work and does not observe ctx cancellation.
func (b *Batch) Process(ctx context.Context, props []survey.Property) ([]QuoteResult, []RowError, error) {
	if err := b.engine.profile.Validate(); err != nil {
		return nil, nil, eris.Wrap(err, "pricing: invalid profile")
	}

	results := make([]*QuoteResult, len(props))
	rowErrs := make([]*RowError, len(props))

	if b.workers > 1 {
		var g errgroup.Group
		g.SetLimit(b.workers)
		for i, prop := range props {
			g.Go(func() error {
				results[i], rowErrs[i] = b.quoteOne(prop)
				return nil
			})
		}
		// Workers never return errors; row failures land in rowErrs.
		_ = g.Wait()
	} else {
		for i, prop := range props {
			results[i], rowErrs[i] = b.quoteOne(prop)
		}
	}

	quotes := make([]QuoteResult, 0, len(props))
	var errs []RowError
	for i := range props {
		if rowErrs[i] != nil {
			errs = append(errs, *rowErrs[i])
			continue
		}
		quotes = append(quotes, *results[i])
	}

	zap.L().Info("pricing: batch complete",
		zap.Int("properties", len(props)),
		zap.Int("quoted", len(quotes)),
		zap.Int("failed", len(errs)),
	)
	return quotes, errs, nil
}

func (b *Batch) quoteOne(prop survey.Property) (*QuoteResult, *RowError) {
	q, err := b.engine.Quote(prop)
	if err != nil {
		zap.L().Warn("pricing: row failed",
			zap.String("address", prop.Address),
			zap.Error(err),
		)
		return nil, &RowError{Address: prop.Address, Err: err, Message: err.Error()}
	}
	return q, nil
}
