// Package report loads records and runs the metrics engine over them. It is
// the single entry point the API and web pages use for financial figures.
package report

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/erazemk/watchdesk/internal/metrics"
	"github.com/erazemk/watchdesk/internal/model"
)

// Source provides the records reports are computed from.
type Source interface {
	ListWatches(ctx context.Context, status string) ([]model.Watch, error)
	ListExpenses(ctx context.Context) ([]model.Expense, error)
}

// Service computes reports from a Source. Every call reloads the records;
// nothing is cached.
type Service struct {
	source Source
	tracer trace.Tracer

	// Now returns the current time. Tests replace it.
	Now func() time.Time
	// TopN is the size of the best and worst performer lists.
	TopN int
}

// NewService creates a report service over source.
func NewService(source Source) *Service {
	return &Service{
		source: source,
		tracer: otel.Tracer("github.com/erazemk/watchdesk/internal/report"),
		Now:    time.Now,
		TopN:   metrics.DefaultTopN,
	}
}

// Snapshot computes every metric for period p.
func (s *Service) Snapshot(ctx context.Context, p metrics.Period) (metrics.Snapshot, error) {
	ctx, span := s.tracer.Start(ctx, "report.snapshot",
		trace.WithAttributes(attribute.String("period", p.String())),
	)
	defer span.End()

	watches, expenses, err := s.load(ctx)
	if err != nil {
		fail(span, err)
		return metrics.Snapshot{}, err
	}

	snap := metrics.Compute(watches, expenses, p, s.options())
	span.SetAttributes(attribute.Int("sold.count", snap.SoldCount))
	return snap, nil
}

// Compare computes periods a and b and pairs the named metrics. Unknown names
// are ignored; no names selects the default set.
func (s *Service) Compare(ctx context.Context, a, b metrics.Period, names []string) (metrics.Comparison, error) {
	ctx, span := s.tracer.Start(ctx, "report.compare",
		trace.WithAttributes(
			attribute.String("period.a", a.String()),
			attribute.String("period.b", b.String()),
			attribute.StringSlice("metrics", names),
		),
	)
	defer span.End()

	watches, expenses, err := s.load(ctx)
	if err != nil {
		fail(span, err)
		return metrics.Comparison{}, err
	}

	return metrics.Compare(watches, expenses, a, b, metrics.LookupMetrics(names), s.options()), nil
}

// Dashboard computes the whole-business summary.
func (s *Service) Dashboard(ctx context.Context) (metrics.DashboardStats, error) {
	ctx, span := s.tracer.Start(ctx, "report.dashboard")
	defer span.End()

	watches, expenses, err := s.load(ctx)
	if err != nil {
		fail(span, err)
		return metrics.DashboardStats{}, err
	}

	return metrics.Dashboard(watches, expenses, s.options()), nil
}

func (s *Service) load(ctx context.Context) ([]model.Watch, []model.Expense, error) {
	watches, err := s.source.ListWatches(ctx, "")
	if err != nil {
		return nil, nil, fmt.Errorf("loading watches: %w", err)
	}
	expenses, err := s.source.ListExpenses(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("loading expenses: %w", err)
	}
	return watches, expenses, nil
}

func (s *Service) options() metrics.Options {
	return metrics.Options{Now: s.Now(), TopN: s.TopN}
}

func fail(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
