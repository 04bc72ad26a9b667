package otel

import (
	"context"
	"time"

	"github.com/adrianliechti/lahde/pkg/provider"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/semconv/v1.38.0/genaiconv"
	"go.opentelemetry.io/otel/trace"
)

type Responder interface {
	Observable
	provider.Responder
}

type observableResponder struct {
	model    string
	provider string

	responder provider.Responder

	operationDurationMetric genaiconv.ClientOperationDuration
}

func NewResponder(provider, model string, p provider.Responder) Responder {
	meter := otel.Meter(instrumentationName)

	operationDurationMetric, _ := genaiconv.NewClientOperationDuration(meter)

	return &observableResponder{
		responder: p,

		model:    model,
		provider: provider,

		operationDurationMetric: operationDurationMetric,
	}
}

func (p *observableResponder) otelSetup() {
}

// Respond starts a span that stays open until the returned stream is closed.
func (p *observableResponder) Respond(ctx context.Context, req *provider.Request) (provider.Stream, error) {
	model := p.model

	if req != nil && req.Model != "" {
		model = req.Model
	}

	ctx, span := otel.Tracer(instrumentationName).Start(ctx, "chat "+model)

	if req != nil {
		span.SetAttributes(
			attribute.Int("lahde.tools", len(req.Tools)),
			attribute.String("lahde.tool_choice", string(req.ToolChoice)),
		)
	}

	stream, err := p.responder.Respond(ctx, req)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		span.End()

		return nil, err
	}

	return &observableStream{
		Stream: stream,

		ctx:   ctx,
		span:  span,
		model: model,
		start: time.Now(),

		parent: p,
	}, nil
}

type observableStream struct {
	provider.Stream

	ctx   context.Context
	span  trace.Span
	model string
	start time.Time

	events int
	closed bool

	parent *observableResponder
}

func (s *observableStream) Next() bool {
	if !s.Stream.Next() {
		return false
	}

	s.events++
	return true
}

func (s *observableStream) Close() error {
	err := s.Stream.Close()

	if s.closed {
		return err
	}

	s.closed = true

	s.span.SetAttributes(attribute.Int("lahde.events", s.events))

	if serr := s.Stream.Err(); serr != nil {
		s.span.RecordError(serr)
		s.span.SetStatus(codes.Error, serr.Error())
	}

	s.parent.operationDurationMetric.Record(s.ctx, time.Since(s.start).Seconds(),
		genaiconv.OperationNameChat,
		genaiconv.ProviderNameAttr(s.parent.provider),
		s.parent.operationDurationMetric.AttrRequestModel(s.model),
	)

	s.span.End()

	return err
}
