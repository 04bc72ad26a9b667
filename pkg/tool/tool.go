package tool

import (
	"errors"
	"strings"
)

var (
	ErrInvalidTool = errors.New("invalid tool")
)

// State is the per-request tool configuration sent by the chat client.
type State struct {
	WebSearchEnabled       bool `json:"webSearchEnabled"`
	FileSearchEnabled      bool `json:"fileSearchEnabled"`
	FunctionsEnabled       bool `json:"functionsEnabled"`
	CodeInterpreterEnabled bool `json:"codeInterpreterEnabled"`
	MCPEnabled             bool `json:"mcpEnabled"`

	VectorStore *VectorStore `json:"vectorStore,omitempty"`

	WebSearchConfig WebSearchConfig `json:"webSearchConfig"`
	MCPConfig       MCPConfig       `json:"mcpConfig"`
}

type VectorStore struct {
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`
}

type WebSearchConfig struct {
	UserLocation *UserLocation `json:"user_location,omitempty"`

	AllowedDomains []string `json:"allowed_domains,omitempty"`
}

type UserLocation struct {
	Type string `json:"type,omitempty"`

	Country string `json:"country,omitempty"`
	Region  string `json:"region,omitempty"`
	City    string `json:"city,omitempty"`
}

func (l *UserLocation) empty() bool {
	return l == nil || (l.Country == "" && l.Region == "" && l.City == "")
}

type MCPConfig struct {
	ServerLabel string `json:"server_label"`
	ServerURL   string `json:"server_url"`

	AllowedTools string `json:"allowed_tools"`
	SkipApproval bool   `json:"skip_approval"`
}

func (s State) VectorStoreID() string {
	if s.VectorStore == nil {
		return ""
	}

	return strings.TrimSpace(s.VectorStore.ID)
}

// Grounded reports whether answers must come from a search tool.
func (s State) Grounded() bool {
	return s.FileSearchEnabled || s.WebSearchEnabled
}

// AllowedDomains returns the trimmed, non-empty web search domains.
func (s State) AllowedDomains() []string {
	var result []string

	for _, d := range s.WebSearchConfig.AllowedDomains {
		if d = strings.TrimSpace(d); d != "" {
			result = append(result, d)
		}
	}

	return result
}

type Type string

const (
	TypeWebSearch       Type = "web_search"
	TypeFileSearch      Type = "file_search"
	TypeCodeInterpreter Type = "code_interpreter"
	TypeFunction        Type = "function"
	TypeMCP             Type = "mcp"
)

// Descriptor is a provider facing tool entry. Only the fields of its Type are set.
type Descriptor struct {
	Type Type `json:"type"`

	// web_search
	UserLocation *UserLocation `json:"user_location,omitempty"`

	// file_search
	VectorStoreIDs []string `json:"vector_store_ids,omitempty"`

	// code_interpreter
	Container *Container `json:"container,omitempty"`

	// function
	Name        string         `json:"name,omitempty"`
	Description string         `json:"description,omitempty"`
	Parameters  map[string]any `json:"parameters,omitempty"`
	Strict      *bool          `json:"strict,omitempty"`

	// mcp
	ServerLabel     string   `json:"server_label,omitempty"`
	ServerURL       string   `json:"server_url,omitempty"`
	RequireApproval string   `json:"require_approval,omitempty"`
	AllowedTools    []string `json:"allowed_tools,omitempty"`
}

type Container struct {
	Type string `json:"type"`
}

// Validate checks the required fields of the descriptor's variant.
func (d Descriptor) Validate() error {
	switch d.Type {
	case TypeWebSearch:
		return nil

	case TypeFileSearch:
		if len(d.VectorStoreIDs) == 0 {
			return errors.New("file_search requires a vector store id")
		}

		for _, id := range d.VectorStoreIDs {
			if id == "" {
				return errors.New("file_search requires a vector store id")
			}
		}

		return nil

	case TypeCodeInterpreter:
		if d.Container == nil || d.Container.Type == "" {
			return errors.New("code_interpreter requires a container")
		}

		return nil

	case TypeFunction:
		if d.Name == "" {
			return errors.New("function requires a name")
		}

		if d.Parameters == nil {
			return errors.New("function requires parameters")
		}

		return nil

	case TypeMCP:
		if d.ServerURL == "" || d.ServerLabel == "" {
			return errors.New("mcp requires server url and label")
		}

		return nil
	}

	return ErrInvalidTool
}
