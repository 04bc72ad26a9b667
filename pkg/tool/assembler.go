package tool

import (
	"log/slog"
	"strings"
	"time"
)

const DefaultInstructions = `You are a helpful assistant for an organization's internal knowledge base.

Answer questions using the documents and web pages available through your search tools. Base every answer on what those sources actually say and do not fill gaps with general knowledge.

If the sources do not contain an answer, say that you could not find one instead of guessing.

Keep answers concise and formatted in markdown. Reply in the language of the question.`

const citationsPolicy = `Citations policy:
- Always include a final section titled "Lähteet:" listing every source you used.
- For file-based sources list the file names. For web sources list the full URLs and titles.
- Do not answer without citing sources.`

const domainsPolicy = `Web search constraints:
- Restrict any web searches strictly to the following domains (and their exact subpaths only).
- Prefer results from these domains exclusively; do not cite or use other sites.
- Use site: filters when searching (e.g., site:example.com).
Allowed domains:`

// Assembler turns a client tool state into provider tool descriptors and
// developer instructions.
type Assembler struct {
	instructions string
	functions    []Function

	forceFileSearch bool
	vectorStoreID   string

	now func() time.Time
}

type Option func(*Assembler)

func New(options ...Option) *Assembler {
	a := &Assembler{
		instructions: DefaultInstructions,
		functions:    DefaultFunctions,

		now: time.Now,
	}

	for _, option := range options {
		option(a)
	}

	return a
}

func WithInstructions(instructions string) Option {
	return func(a *Assembler) {
		if instructions != "" {
			a.instructions = instructions
		}
	}
}

func WithFunctions(functions ...Function) Option {
	return func(a *Assembler) {
		a.functions = functions
	}
}

// WithForcedFileSearch enables file search on every request. vectorStoreID is
// used when the request does not name a vector store.
func WithForcedFileSearch(vectorStoreID string) Option {
	return func(a *Assembler) {
		a.forceFileSearch = true
		a.vectorStoreID = strings.TrimSpace(vectorStoreID)
	}
}

func WithClock(now func() time.Time) Option {
	return func(a *Assembler) {
		a.now = now
	}
}

// Prepare applies the server side policy to a client tool state.
func (a *Assembler) Prepare(state State) State {
	if !a.forceFileSearch {
		return state
	}

	state.FileSearchEnabled = true

	if state.VectorStoreID() == "" && a.vectorStoreID != "" {
		state.VectorStore = &VectorStore{ID: a.vectorStoreID}
	}

	return state
}

func (a *Assembler) Tools(state State) []Descriptor {
	return Build(state, a.functions)
}

func (a *Assembler) Instructions(state State) string {
	return Instructions(a.instructions, state, a.now())
}

// Build returns the descriptors enabled in state. Tools missing required
// configuration are skipped.
func Build(state State, functions []Function) []Descriptor {
	var result []Descriptor

	add := func(d Descriptor) {
		if err := d.Validate(); err != nil {
			slog.Warn("skipping tool", "type", d.Type, "error", err)
			return
		}

		result = append(result, d)
	}

	if state.WebSearchEnabled {
		d := Descriptor{
			Type: TypeWebSearch,
		}

		if loc := state.WebSearchConfig.UserLocation; !loc.empty() {
			d.UserLocation = &UserLocation{
				Type: "approximate",

				Country: loc.Country,
				Region:  loc.Region,
				City:    loc.City,
			}
		}

		add(d)
	}

	if state.FileSearchEnabled {
		if id := state.VectorStoreID(); id != "" {
			add(Descriptor{
				Type:           TypeFileSearch,
				VectorStoreIDs: []string{id},
			})
		} else {
			slog.Warn("file search enabled without vector store, skipping file search tool")
		}
	}

	if state.CodeInterpreterEnabled {
		add(Descriptor{
			Type:      TypeCodeInterpreter,
			Container: &Container{Type: "auto"},
		})
	}

	if state.FunctionsEnabled {
		for _, f := range functions {
			add(f.Descriptor())
		}
	}

	if state.MCPEnabled {
		cfg := state.MCPConfig

		d := Descriptor{
			Type: TypeMCP,

			ServerLabel: strings.TrimSpace(cfg.ServerLabel),
			ServerURL:   strings.TrimSpace(cfg.ServerURL),
		}

		if cfg.SkipApproval {
			d.RequireApproval = "never"
		}

		for _, name := range strings.Split(cfg.AllowedTools, ",") {
			if name = strings.TrimSpace(name); name != "" {
				d.AllowedTools = append(d.AllowedTools, name)
			}
		}

		add(d)
	}

	return result
}

// Instructions composes the developer prompt: the base prompt with the current
// date, the allowed domains when web search is enabled, and the citations
// policy.
func Instructions(base string, state State, now time.Time) string {
	var b strings.Builder

	b.WriteString(strings.TrimSpace(base))
	b.WriteString("\n\nToday is ")
	b.WriteString(now.Format("Monday, January 2, 2006"))
	b.WriteString(".")

	if domains := state.AllowedDomains(); state.WebSearchEnabled && len(domains) > 0 {
		b.WriteString("\n\n")
		b.WriteString(domainsPolicy)

		for _, d := range domains {
			b.WriteString("\n- ")
			b.WriteString(d)
		}
	}

	b.WriteString("\n\n")
	b.WriteString(citationsPolicy)

	return b.String()
}
