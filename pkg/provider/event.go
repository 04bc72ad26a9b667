package provider

import (
	"encoding/json"
	"errors"
	"slices"
	"strings"
)

type EventKind string

const (
	EventKindOther    EventKind = "other"
	EventKindText     EventKind = "text"
	EventKindToolCall EventKind = "tool_call"
)

const (
	EventTypeTextDelta      = "response.output_text.delta"
	EventTypeOutputItemAdd  = "response.output_item.added"
	EventTypeOutputItemDone = "response.output_item.done"
)

// ToolCallPrefixes lists the stream event type prefixes that report a tool
// invocation in progress.
var ToolCallPrefixes = []string{
	"response.file_search_call.",
	"response.web_search_call.",
	"response.code_interpreter_call.",
	"response.function_call_arguments.",
	"response.mcp_call.",
	"response.mcp_call_arguments.",
	"response.image_generation_call.",
	"response.custom_tool_call_input.",
}

// ToolCallItems lists the output item types that are tool invocations. They
// are matched both as bare event types and as the item of output item events.
var ToolCallItems = []string{
	"file_search_call",
	"web_search_call",
	"code_interpreter_call",
	"function_call",
	"mcp_call",
	"image_generation_call",
	"custom_tool_call",
	"computer_call",
	"local_shell_call",
}

// Event is one decoded upstream stream event. Data holds the event exactly as
// received.
type Event struct {
	Type string
	Kind EventKind

	Text string
	Call *ToolCall

	Data json.RawMessage
}

type ToolCall struct {
	Type string
	Name string
}

// ParseEvent decodes a raw upstream event and classifies it.
func ParseEvent(data []byte) (Event, error) {
	var wire struct {
		Type  string          `json:"type"`
		Delta json.RawMessage `json:"delta"`

		Item *struct {
			Type string `json:"type"`
			Name string `json:"name"`
		} `json:"item"`
	}

	if err := json.Unmarshal(data, &wire); err != nil {
		return Event{}, err
	}

	if wire.Type == "" {
		return Event{}, errors.New("event without type")
	}

	event := Event{
		Type: wire.Type,
		Kind: EventKindOther,

		Data: json.RawMessage(slices.Clone(data)),
	}

	switch {
	case wire.Type == EventTypeTextDelta:
		var delta string

		if err := json.Unmarshal(wire.Delta, &delta); err != nil {
			return Event{}, errors.New("text delta without text")
		}

		event.Kind = EventKindText
		event.Text = delta

	case wire.Type == EventTypeOutputItemAdd || wire.Type == EventTypeOutputItemDone:
		if wire.Item != nil && slices.Contains(ToolCallItems, wire.Item.Type) {
			event.Kind = EventKindToolCall
			event.Call = &ToolCall{Type: wire.Item.Type, Name: wire.Item.Name}
		}

	case slices.Contains(ToolCallItems, wire.Type) || hasToolCallPrefix(wire.Type):
		event.Kind = EventKindToolCall
		event.Call = &ToolCall{Type: wire.Type}
	}

	return event, nil
}

func hasToolCallPrefix(t string) bool {
	for _, p := range ToolCallPrefixes {
		if strings.HasPrefix(t, p) {
			return true
		}
	}

	return false
}
