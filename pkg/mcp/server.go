package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/adrianliechti/lahde/pkg/validator"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	ToolValidateAnswer   = "validate_answer"
	ToolExtractCitations = "extract_citations"
)

var ErrMissingAnswer = errors.New("answer is required")

// Server exposes the answer validator as MCP tools.
type Server struct {
	impl *mcp.Implementation
	opts *mcp.ServerOptions

	validator *validator.Validator
}

type Option func(*Server)

func WithValidator(v *validator.Validator) Option {
	return func(s *Server) {
		s.validator = v
	}
}

func New(name string, options ...Option) *Server {
	s := &Server{
		impl: &mcp.Implementation{
			Name: name,
		},

		opts: &mcp.ServerOptions{
			KeepAlive: time.Second * 30,
		},

		validator: validator.New(),
	}

	for _, option := range options {
		option(s)
	}

	return s
}

type ValidateArgs struct {
	Answer    string               `json:"answer"`
	ToolCalls []validator.ToolCall `json:"tool_calls,omitempty"`
}

type ValidateResult struct {
	validator.Result

	Citations []string `json:"citations"`
}

type CitationsArgs struct {
	Answer string `json:"answer"`
}

type CitationsResult struct {
	Citations []string `json:"citations"`
}

func (s *Server) Server(ctx context.Context) (*mcp.Server, error) {
	server := mcp.NewServer(s.impl, s.opts)

	validateInput, err := parseSchema(validateSchema)

	if err != nil {
		return nil, err
	}

	citationsInput, err := parseSchema(citationsSchema)

	if err != nil {
		return nil, err
	}

	server.AddTool(&mcp.Tool{
		Name:        ToolValidateAnswer,
		Description: "Validate an assistant answer and rate its confidence. Pass the tool calls made while answering so grounding can be checked.",

		InputSchema: validateInput,
	}, s.handleValidate)

	server.AddTool(&mcp.Tool{
		Name:        ToolExtractCitations,
		Description: "Extract the cited sources from the sources section of an assistant answer.",

		InputSchema: citationsInput,
	}, s.handleCitations)

	return server, nil
}

func (s *Server) Validate(args ValidateArgs) (*ValidateResult, error) {
	if args.Answer == "" {
		return nil, ErrMissingAnswer
	}

	result := &ValidateResult{
		Result:    s.validator.Validate(args.Answer, args.ToolCalls),
		Citations: s.validator.ExtractCitations(args.Answer),
	}

	return result, nil
}

func (s *Server) Citations(args CitationsArgs) (*CitationsResult, error) {
	if args.Answer == "" {
		return nil, ErrMissingAnswer
	}

	return &CitationsResult{
		Citations: s.validator.ExtractCitations(args.Answer),
	}, nil
}

func (s *Server) handleValidate(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args ValidateArgs

	if err := decodeArguments(req, &args); err != nil {
		return errorResult(err), nil
	}

	result, err := s.Validate(args)

	if err != nil {
		return errorResult(err), nil
	}

	return jsonResult(result), nil
}

func (s *Server) handleCitations(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args CitationsArgs

	if err := decodeArguments(req, &args); err != nil {
		return errorResult(err), nil
	}

	result, err := s.Citations(args)

	if err != nil {
		return errorResult(err), nil
	}

	return jsonResult(result), nil
}

func decodeArguments(req *mcp.CallToolRequest, v any) error {
	if req.Params == nil {
		return nil
	}

	r := req.Params.Arguments

	if len(r) == 0 {
		return nil
	}

	return json.Unmarshal(r, v)
}

func jsonResult(v any) *mcp.CallToolResult {
	data, _ := json.Marshal(v)

	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{
				Text: string(data),
			},
		},
	}
}

func errorResult(err error) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,

		Content: []mcp.Content{
			&mcp.TextContent{
				Text: err.Error(),
			},
		},
	}
}

func parseSchema(data string) (*jsonschema.Schema, error) {
	schema := new(jsonschema.Schema)

	if err := schema.UnmarshalJSON([]byte(data)); err != nil {
		return nil, err
	}

	return schema, nil
}

const validateSchema = `{
	"type": "object",
	"properties": {
		"answer": {
			"type": "string",
			"description": "The assistant answer to validate"
		},
		"tool_calls": {
			"type": "array",
			"description": "Tool calls made while producing the answer",
			"items": {
				"type": "object",
				"properties": {
					"type": {"type": "string"},
					"name": {"type": "string"}
				},
				"required": ["type"]
			}
		}
	},
	"required": ["answer"]
}`

const citationsSchema = `{
	"type": "object",
	"properties": {
		"answer": {
			"type": "string",
			"description": "The assistant answer to extract sources from"
		}
	},
	"required": ["answer"]
}`
