package relay

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/adrianliechti/lahde/pkg/provider"
	"github.com/adrianliechti/lahde/pkg/validator"
)

const (
	EventValidationWarning  = "validation.warning"
	EventResponseDisclaimer = "response.disclaimer"
	EventError              = "error"
)

const DisclaimerMessage = "⚠️ Huomio: Tämän vastauksen luotettavuus on matala. Tarkista tiedot alkuperäisistä lähteistä ennen kuin toimit niiden perusteella."

var (
	ErrStreamFailed = errors.New("stream failed")
	ErrAborted      = errors.New("stream aborted")
)

// Turn is the outcome of a completed relay.
type Turn struct {
	Text      string
	ToolCalls []validator.ToolCall

	Result    validator.Result
	Citations []string
}

type ValidationWarning struct {
	Confidence validator.Confidence `json:"confidence"`
	Warnings   []string             `json:"warnings"`
	Messages   []string             `json:"messages"`
}

type Disclaimer struct {
	Message string `json:"message"`
}

type StreamError struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

type Relay struct {
	validator *validator.Validator
}

type Option func(*Relay)

func WithValidator(v *validator.Validator) Option {
	return func(r *Relay) {
		r.validator = v
	}
}

func New(options ...Option) *Relay {
	r := &Relay{
		validator: validator.New(),
	}

	for _, option := range options {
		option(r)
	}

	return r
}

// Forward copies every upstream event to sink as {event, data} as soon as it
// arrives, then validates the accumulated answer and appends the supplementary
// frames. The stream is always closed.
//
// An upstream failure is reported to sink as a terminal error frame and
// returned wrapping ErrStreamFailed. A cancelled context or a failed write
// returns ErrAborted without further frames.
func (r *Relay) Forward(ctx context.Context, stream provider.Stream, sink Sink) (*Turn, error) {
	defer stream.Close()

	var text strings.Builder
	var calls []validator.ToolCall

	for {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrAborted, err)
		}

		if !stream.Next() {
			break
		}

		event := stream.Event()

		if err := sink.Send(event.Type, event.Data); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrAborted, err)
		}

		switch event.Kind {
		case provider.EventKindText:
			text.WriteString(event.Text)

		case provider.EventKindToolCall:
			calls = append(calls, validator.ToolCall{
				Type: event.Call.Type,
				Name: event.Call.Name,
			})
		}
	}

	if err := stream.Err(); err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("%w: %w", ErrAborted, ctx.Err())
		}

		slog.Error("upstream stream failed", "error", err)

		if serr := sink.Send(EventError, StreamError{
			Error:   "stream_failed",
			Message: "The response stream ended unexpectedly",
		}); serr != nil {
			slog.Debug("error frame not delivered", "error", serr)
		}

		return nil, fmt.Errorf("%w: %w", ErrStreamFailed, err)
	}

	turn := &Turn{
		Text:      text.String(),
		ToolCalls: calls,
	}

	turn.Result = r.validator.Validate(turn.Text, turn.ToolCalls)
	turn.Citations = r.validator.ExtractCitations(turn.Text)

	if err := Supplement(sink, turn.Result); err != nil {
		return turn, fmt.Errorf("%w: %w", ErrAborted, err)
	}

	return turn, nil
}

// Supplement sends a validation.warning frame when result carries warnings and
// a response.disclaimer frame when its confidence is low.
func Supplement(sink Sink, result validator.Result) error {
	if len(result.Warnings) > 0 {
		messages := make([]string, 0, len(result.Warnings))

		for _, w := range result.Warnings {
			messages = append(messages, validator.Describe(w))
		}

		warning := ValidationWarning{
			Confidence: result.Confidence,
			Warnings:   result.Warnings,
			Messages:   messages,
		}

		if err := sink.Send(EventValidationWarning, warning); err != nil {
			return err
		}
	}

	if result.Confidence == validator.ConfidenceLow {
		if err := sink.Send(EventResponseDisclaimer, Disclaimer{Message: DisclaimerMessage}); err != nil {
			return err
		}
	}

	return nil
}
