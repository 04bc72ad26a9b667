package validator

import (
	"slices"
	"strings"
)

// Classifier recognises the phrase families the validator reacts to.
// Implementations decide how language specific matching is done.
type Classifier interface {
	IsGreeting(text string) bool
	IsUncertain(text string) bool
	IsDontKnow(text string) bool
	IsGeneric(text string) bool

	HasSources(text string) bool
	SourceHeadings() []string
}

// Lexicon is a phrase list classifier. Phrase matching is a lower-cased
// substring test; source headings are matched verbatim. Short phrases match
// inside words too, so "hi" counts "this" and "which" as greetings. A
// word-boundary matcher belongs in its own Classifier.
type Lexicon struct {
	Greetings   []string
	Uncertainty []string
	DontKnow    []string
	Generic     []string

	Headings []string
}

var _ Classifier = Lexicon{}

var Finnish = Lexicon{
	Greetings: []string{
		"hei",
		"moi",
		"terve",
		"huomenta",
		"päivää",
		"iltaa",
	},

	Uncertainty: []string{
		"en ole varma",
		"saattaa",
		"ehkä",
		"luultavasti",
		"mahdollisesti",
	},

	DontKnow: []string{
		"en löydä",
		"en tiedä",
		"minulla ei ole",
	},

	Generic: []string{
		"yleisesti",
		"tavallisesti",
		"normaalisti",
	},

	Headings: []string{
		"Lähteet:",
	},
}

var English = Lexicon{
	Greetings: []string{
		"hello",
		"hi",
	},

	Uncertainty: []string{
		"not sure",
		"maybe",
		"perhaps",
		"possibly",
		"might",
		"could be",
	},

	DontKnow: []string{
		"i don't know",
		"i don't have",
		"cannot find",
	},

	Generic: []string{
		"usually",
		"generally",
		"typically",
	},

	Headings: []string{
		"Sources:",
	},
}

// Merge concatenates lexicons, keeping the order they are given in.
func Merge(lexicons ...Lexicon) Lexicon {
	var result Lexicon

	for _, l := range lexicons {
		result.Greetings = append(result.Greetings, l.Greetings...)
		result.Uncertainty = append(result.Uncertainty, l.Uncertainty...)
		result.DontKnow = append(result.DontKnow, l.DontKnow...)
		result.Generic = append(result.Generic, l.Generic...)
		result.Headings = append(result.Headings, l.Headings...)
	}

	return result
}

func (l Lexicon) IsGreeting(text string) bool {
	return containsAny(text, l.Greetings)
}

func (l Lexicon) IsUncertain(text string) bool {
	return containsAny(text, l.Uncertainty)
}

func (l Lexicon) IsDontKnow(text string) bool {
	return containsAny(text, l.DontKnow)
}

func (l Lexicon) IsGeneric(text string) bool {
	return containsAny(text, l.Generic)
}

func (l Lexicon) HasSources(text string) bool {
	return slices.ContainsFunc(l.Headings, func(h string) bool {
		return strings.Contains(text, h)
	})
}

func (l Lexicon) SourceHeadings() []string {
	return l.Headings
}

func containsAny(text string, phrases []string) bool {
	lower := strings.ToLower(text)

	return slices.ContainsFunc(phrases, func(p string) bool {
		return strings.Contains(lower, p)
	})
}
