package validator

import (
	"regexp"
	"strings"
)

var (
	bulletPattern   = regexp.MustCompile(`^[-*]\s*`)
	numberedPattern = regexp.MustCompile(`^\d+\.\s*`)
)

// ExtractCitations returns the list entries of the first sources section using
// the default headings.
func ExtractCitations(answer string) []string {
	return defaultValidator.ExtractCitations(answer)
}

// ExtractCitations finds the first sources heading and collects the bullet or
// numbered lines that follow it, up to a blank line or the end of the text.
// Order and duplicates are preserved.
func (v *Validator) ExtractCitations(answer string) []string {
	citations := []string{}

	if v.sources == nil {
		return citations
	}

	match := v.sources.FindStringSubmatch(answer)

	if match == nil {
		return citations
	}

	for _, line := range strings.Split(match[1], "\n") {
		line = strings.TrimSpace(line)

		if line == "" {
			continue
		}

		if !strings.HasPrefix(line, "-") && !strings.HasPrefix(line, "*") && !numberedPattern.MatchString(line) {
			continue
		}

		line = bulletPattern.ReplaceAllString(line, "")
		line = numberedPattern.ReplaceAllString(line, "")

		citations = append(citations, line)
	}

	return citations
}

func sectionPattern(headings []string) *regexp.Regexp {
	if len(headings) == 0 {
		return nil
	}

	quoted := make([]string, 0, len(headings))

	for _, h := range headings {
		quoted = append(quoted, regexp.QuoteMeta(h))
	}

	return regexp.MustCompile(`(?i)(?:` + strings.Join(quoted, "|") + `)([\s\S]*?)(?:\n\n|$)`)
}
