package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/couchcryptid/wind-data-cleaner/internal/domain"
	"github.com/couchcryptid/wind-data-cleaner/internal/observability"
	"github.com/jonboulle/clockwork"
)

// Extractor reads the whole source table.
type Extractor interface {
	Extract(ctx context.Context) (domain.Table, error)
}

// Loader writes the cleaned dataset to its destination.
type Loader interface {
	Load(ctx context.Context, ds domain.Dataset) error
}

// Pipeline runs one extract-clean-load pass.
type Pipeline struct {
	extractor Extractor
	loader    Loader
	logger    *slog.Logger
	metrics   *observability.Metrics
	clock     clockwork.Clock
}

// New creates a Pipeline. A nil clock uses real time.
func New(e Extractor, l Loader, logger *slog.Logger, metrics *observability.Metrics, clock clockwork.Clock) *Pipeline {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Pipeline{
		extractor: e,
		loader:    l,
		logger:    logger,
		metrics:   metrics,
		clock:     clock,
	}
}

// Run cleans the source with the given schema. The loader is called at most
// once, after every row has been validated and sorted; an error from any
// earlier step leaves the destination untouched.
func (p *Pipeline) Run(ctx context.Context, sel domain.Selector) (domain.Report, error) {
	start := p.clock.Now()

	report, err := p.run(ctx, sel)

	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	p.metrics.RunsTotal.WithLabelValues(sel.String(), outcome).Inc()
	p.metrics.RunDuration.Observe(p.clock.Since(start).Seconds())

	return report, err
}

func (p *Pipeline) run(ctx context.Context, sel domain.Selector) (domain.Report, error) {
	// Fail on an unknown schema before touching the source.
	if _, err := domain.Lookup(sel); err != nil {
		return domain.Report{Selector: sel}, err
	}

	table, err := p.extractor.Extract(ctx)
	if err != nil {
		return domain.Report{Selector: sel}, fmt.Errorf("extract: %w", err)
	}
	p.logger.Info("source loaded", "schema", sel.String(), "rows", len(table.Records), "columns", len(table.Header))

	ds, report, err := Clean(table, sel, p.logger)
	if err != nil {
		return report, fmt.Errorf("clean: %w", err)
	}

	p.metrics.RowsRead.Add(float64(report.Read))
	p.metrics.RowsAdmitted.Add(float64(report.Admitted))
	for reason, n := range report.Rejected {
		p.metrics.RowsRejected.WithLabelValues(reason).Add(float64(n))
	}

	if err := p.loader.Load(ctx, ds); err != nil {
		return report, fmt.Errorf("load: %w", err)
	}

	p.logger.Info("dataset cleaned",
		"schema", sel.String(),
		"read", report.Read,
		"admitted", report.Admitted,
		"rejected", report.RejectedTotal(),
		"invalid_value", report.Rejected[domain.ReasonInvalidValue],
		"out_of_range", report.Rejected[domain.ReasonOutOfRange],
	)
	return report, nil
}
