package validator

import (
	"regexp"
	"slices"
	"strings"
	"unicode/utf8"
)

type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// downgrade lowers c by one level.
func (c Confidence) downgrade() Confidence {
	if c == ConfidenceHigh {
		return ConfidenceMedium
	}

	return ConfidenceLow
}

// atMost limits c to the given level.
func (c Confidence) atMost(limit Confidence) Confidence {
	if rank(c) > rank(limit) {
		return limit
	}

	return c
}

func rank(c Confidence) int {
	switch c {
	case ConfidenceHigh:
		return 2
	case ConfidenceMedium:
		return 1
	default:
		return 0
	}
}

const (
	WarningUngrounded       = "ungrounded"
	WarningMissingCitations = "missing citations"
	WarningUncertain        = "uncertain language"
	WarningShort            = "unusually short"
	WarningGeneric          = "generic/ungrounded"
)

var warningMessages = map[string]string{
	WarningUngrounded:       "No search tool was used - answer may not be grounded in knowledge base",
	WarningMissingCitations: "No citations section found in response",
	WarningUncertain:        "Response contains uncertainty phrases",
	WarningShort:            "Response is unusually short",
	WarningGeneric:          "Response appears generic without knowledge base grounding",
}

// Describe returns a human readable explanation for a warning code.
func Describe(warning string) string {
	if m, ok := warningMessages[warning]; ok {
		return m
	}

	return warning
}

// ToolCall is the part of a streamed tool invocation the validator looks at.
type ToolCall struct {
	Type string `json:"type"`
	Name string `json:"name,omitempty"`
}

type Result struct {
	Valid      bool       `json:"isValid"`
	Warnings   []string   `json:"warnings"`
	Confidence Confidence `json:"confidence"`
}

const (
	greetingMaxLength = 150
	shortAnswerLength = 50
)

var DefaultSearchTools = []string{
	"file_search",
	"web_search",
}

type Validator struct {
	classifier  Classifier
	searchTools []string

	sources *regexp.Regexp
}

type Option func(*Validator)

func WithClassifier(c Classifier) Option {
	return func(v *Validator) {
		v.classifier = c
	}
}

func WithSearchTools(tools ...string) Option {
	return func(v *Validator) {
		v.searchTools = tools
	}
}

func New(options ...Option) *Validator {
	v := &Validator{
		classifier:  Merge(Finnish, English),
		searchTools: DefaultSearchTools,
	}

	for _, option := range options {
		option(v)
	}

	v.sources = sectionPattern(v.classifier.SourceHeadings())

	return v
}

var defaultValidator = New()

// Validate classifies answer with the default Finnish and English lexicon.
func Validate(answer string, calls []ToolCall) Result {
	return defaultValidator.Validate(answer, calls)
}

func (v *Validator) Validate(answer string, calls []ToolCall) Result {
	length := utf8.RuneCountInString(strings.TrimSpace(answer))

	if length < greetingMaxLength && v.classifier.IsGreeting(answer) {
		return Result{
			Valid:      true,
			Warnings:   []string{},
			Confidence: ConfidenceHigh,
		}
	}

	warnings := []string{}
	confidence := ConfidenceHigh

	searched := v.searchToolUsed(calls)

	if !searched {
		warnings = append(warnings, WarningUngrounded)
		confidence = ConfidenceLow
	}

	if !v.classifier.HasSources(answer) {
		warnings = append(warnings, WarningMissingCitations)
		confidence = confidence.downgrade()
	}

	if v.classifier.IsUncertain(answer) {
		warnings = append(warnings, WarningUncertain)

		if confidence == ConfidenceHigh {
			confidence = ConfidenceMedium
		}
	}

	// admitting that no answer exists is trusted over everything checked so far
	dontKnow := v.classifier.IsDontKnow(answer)

	if dontKnow {
		confidence = ConfidenceHigh
	}

	if length < shortAnswerLength && !dontKnow {
		warnings = append(warnings, WarningShort)
		confidence = confidence.atMost(ConfidenceMedium)
	}

	if !searched && v.classifier.IsGeneric(answer) {
		warnings = append(warnings, WarningGeneric)
		confidence = ConfidenceLow
	}

	return Result{
		Valid:      len(warnings) == 0 || dontKnow,
		Warnings:   warnings,
		Confidence: confidence,
	}
}

func (v *Validator) searchToolUsed(calls []ToolCall) bool {
	for _, call := range calls {
		if slices.Contains(v.searchTools, call.Type) || slices.Contains(v.searchTools, call.Name) {
			return true
		}

		for _, t := range v.searchTools {
			if strings.Contains(call.Type, t) {
				return true
			}
		}
	}

	return false
}
