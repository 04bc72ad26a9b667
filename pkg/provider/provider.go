package provider

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/adrianliechti/lahde/pkg/tool"
)

var (
	ErrUpstream = errors.New("upstream failure")
)

// Responder starts a streaming model turn. Failures before the first event
// are returned as errors wrapping ErrUpstream.
type Responder interface {
	Respond(ctx context.Context, req *Request) (Stream, error)
}

// Stream is a pull based sequence of upstream events. Err reports the error
// that ended the sequence, if any. Close releases the upstream connection.
type Stream interface {
	Next() bool
	Event() Event
	Err() error
	Close() error
}

type ToolChoice string

const (
	ToolChoiceAuto     ToolChoice = "auto"
	ToolChoiceRequired ToolChoice = "required"
)

type Request struct {
	Model string

	Instructions string
	Messages     []Message

	Tools      []tool.Descriptor
	ToolChoice ToolChoice

	ParallelToolCalls bool
}

type MessageRole string

const (
	MessageRoleSystem    MessageRole = "system"
	MessageRoleDeveloper MessageRole = "developer"
	MessageRoleUser      MessageRole = "user"
	MessageRoleAssistant MessageRole = "assistant"
)

type Message struct {
	Role    MessageRole `json:"role"`
	Content string      `json:"content"`
}

// UnmarshalJSON accepts content either as a string or as a list of
// {type, text} parts, which are joined by newlines.
func (m *Message) UnmarshalJSON(data []byte) error {
	var raw struct {
		Role    MessageRole     `json:"role"`
		Content json.RawMessage `json:"content"`
	}

	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	m.Role = raw.Role
	m.Content = ""

	if len(raw.Content) == 0 || string(raw.Content) == "null" {
		return nil
	}

	var text string

	if err := json.Unmarshal(raw.Content, &text); err == nil {
		m.Content = text
		return nil
	}

	var parts []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	}

	if err := json.Unmarshal(raw.Content, &parts); err != nil {
		return errors.New("message content must be a string or a list of parts")
	}

	var texts []string

	for _, p := range parts {
		if p.Text != "" {
			texts = append(texts, p.Text)
		}
	}

	m.Content = strings.Join(texts, "\n")

	return nil
}

// LastUserMessage returns the content of the last user message.
func LastUserMessage(messages []Message) string {
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role == MessageRoleUser {
			return messages[i].Content
		}
	}

	return ""
}
