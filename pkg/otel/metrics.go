package otel

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics records admission and answer quality counters.
type Metrics struct {
	requests     metric.Int64Counter
	interactions metric.Int64Counter
	warnings     metric.Int64Counter
}

// NewMetrics creates the instruments on mp, or on the global provider when
// mp is nil.
func NewMetrics(mp metric.MeterProvider) (*Metrics, error) {
	if mp == nil {
		mp = otel.GetMeterProvider()
	}

	meter := mp.Meter(instrumentationName)

	requests, err := meter.Int64Counter("lahde.requests",
		metric.WithDescription("Chat requests by admission outcome"),
		metric.WithUnit("{request}"),
	)

	if err != nil {
		return nil, err
	}

	interactions, err := meter.Int64Counter("lahde.interactions",
		metric.WithDescription("Completed chat turns by answer confidence"),
		metric.WithUnit("{interaction}"),
	)

	if err != nil {
		return nil, err
	}

	warnings, err := meter.Int64Counter("lahde.validation.warnings",
		metric.WithDescription("Validation warnings raised on completed turns"),
		metric.WithUnit("{warning}"),
	)

	if err != nil {
		return nil, err
	}

	return &Metrics{
		requests:     requests,
		interactions: interactions,
		warnings:     warnings,
	}, nil
}

func (m *Metrics) RecordAdmission(ctx context.Context, allowed bool) {
	outcome := "admitted"

	if !allowed {
		outcome = "rejected"
	}

	m.requests.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
}

func (m *Metrics) RecordInteraction(ctx context.Context, confidence string, warnings []string) {
	m.interactions.Add(ctx, 1, metric.WithAttributes(attribute.String("confidence", confidence)))

	for _, w := range warnings {
		m.warnings.Add(ctx, 1, metric.WithAttributes(attribute.String("warning", w)))
	}
}
