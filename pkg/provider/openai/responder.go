package openai

import (
	"context"
	"errors"

	"github.com/adrianliechti/lahde/pkg/provider"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/packages/ssestream"
	"github.com/openai/openai-go/v3/responses"
)

var _ provider.Responder = (*Responder)(nil)

type Responder struct {
	*Config
	responses responses.ResponseService
}

func NewResponder(url, model string, options ...Option) (*Responder, error) {
	cfg := &Config{
		url:   url,
		model: model,
	}

	for _, option := range options {
		option(cfg)
	}

	if cfg.model == "" {
		return nil, errors.New("missing model")
	}

	return &Responder{
		Config:    cfg,
		responses: responses.NewResponseService(cfg.Options()...),
	}, nil
}

// Respond opens a streaming response and waits for the first event, so
// connection and authorization failures surface here rather than mid-stream.
func (r *Responder) Respond(ctx context.Context, req *provider.Request) (provider.Stream, error) {
	if req == nil {
		req = new(provider.Request)
	}

	params := r.convertRequest(req)

	var opts []option.RequestOption

	// descriptors are already in wire form
	if len(req.Tools) > 0 {
		opts = append(opts, option.WithJSONSet("tools", req.Tools))

		if req.ToolChoice != "" {
			opts = append(opts, option.WithJSONSet("tool_choice", string(req.ToolChoice)))
		}
	}

	s := &stream{
		stream: r.responses.NewStreaming(ctx, params, opts...),
	}

	if !s.advance() {
		if err := s.Err(); err != nil {
			s.Close()
			return nil, err
		}
	}

	s.primed = true

	return s, nil
}

func (r *Responder) convertRequest(req *provider.Request) responses.ResponseNewParams {
	model := req.Model

	if model == "" {
		model = r.model
	}

	params := responses.ResponseNewParams{
		Model: model,

		Input: convertInput(req.Messages),

		ParallelToolCalls: openai.Bool(req.ParallelToolCalls),

		Store: openai.Bool(false),
	}

	if req.Instructions != "" {
		params.Instructions = openai.String(req.Instructions)
	}

	return params
}

func convertInput(messages []provider.Message) responses.ResponseNewParamsInputUnion {
	var result []responses.ResponseInputItemUnionParam

	for _, m := range messages {
		var role responses.EasyInputMessageRole

		switch m.Role {
		case provider.MessageRoleUser:
			role = responses.EasyInputMessageRoleUser
		case provider.MessageRoleAssistant:
			role = responses.EasyInputMessageRoleAssistant
		case provider.MessageRoleSystem:
			role = responses.EasyInputMessageRoleSystem
		case provider.MessageRoleDeveloper:
			role = responses.EasyInputMessageRoleDeveloper
		default:
			continue
		}

		result = append(result, responses.ResponseInputItemUnionParam{
			OfMessage: &responses.EasyInputMessageParam{
				Role: role,

				Content: responses.EasyInputMessageContentUnionParam{
					OfString: openai.String(m.Content),
				},
			},
		})
	}

	return responses.ResponseNewParamsInputUnion{
		OfInputItemList: result,
	}
}

var _ provider.Stream = (*stream)(nil)

type stream struct {
	stream *ssestream.Stream[responses.ResponseStreamEventUnion]

	event  provider.Event
	primed bool

	done bool
	err  error
}

func (s *stream) Next() bool {
	if s.primed {
		s.primed = false
		return !s.done
	}

	return s.advance()
}

func (s *stream) advance() bool {
	if s.done {
		return false
	}

	if !s.stream.Next() {
		s.done = true

		if err := s.stream.Err(); err != nil {
			s.err = convertError(err)
		}

		return false
	}

	event, err := provider.ParseEvent([]byte(s.stream.Current().RawJSON()))

	if err != nil {
		s.done = true
		s.err = convertError(err)

		return false
	}

	s.event = event

	return true
}

func (s *stream) Event() provider.Event {
	return s.event
}

func (s *stream) Err() error {
	return s.err
}

func (s *stream) Close() error {
	return s.stream.Close()
}
