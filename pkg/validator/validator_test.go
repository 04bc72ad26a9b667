package validator

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

const groundedAnswer = `Vuosilomaa kertyy kaksi ja puoli päivää jokaiselta täydeltä lomanmääräytymiskuukaudelta, kun työsuhde on jatkunut yli vuoden. Loma pidetään pääosin kesälomakaudella.

Lähteet:
- henkilostoopas.pdf
`

func TestValidateGreeting(t *testing.T) {
	result := Validate("Hei, mitä kuuluu?", nil)

	require.True(t, result.Valid)
	require.Empty(t, result.Warnings)
	require.Equal(t, ConfidenceHigh, result.Confidence)
}

func TestValidateLongGreetingIsChecked(t *testing.T) {
	answer := "Hei! " + strings.Repeat("Tässä on pitkä vastaus ilman mitään lähdeluetteloa. ", 5)

	result := Validate(answer, nil)

	require.False(t, result.Valid)
	require.Contains(t, result.Warnings, WarningUngrounded)
}

func TestValidateGreetingMatchesInsideWords(t *testing.T) {
	answer := "Check this policy."

	require.True(t, English.IsGreeting(answer))

	result := Validate(answer, nil)

	require.True(t, result.Valid)
	require.Empty(t, result.Warnings)
	require.Equal(t, ConfidenceHigh, result.Confidence)
}

func TestValidateUngroundedWithoutCitations(t *testing.T) {
	answer := strings.Repeat("Vuosilomaa kertyy kaksi ja puoli päivää kuukaudessa kun työsuhde on jatkunut vuoden. ", 3)

	result := Validate(answer, nil)

	require.False(t, result.Valid)
	require.Contains(t, result.Warnings, WarningUngrounded)
	require.Contains(t, result.Warnings, WarningMissingCitations)
	require.Equal(t, ConfidenceLow, result.Confidence)
}

func TestValidateDontKnowOverrides(t *testing.T) {
	result := Validate("En löydä tähän vastausta tietokannastani...", nil)

	require.True(t, result.Valid)
	require.Equal(t, ConfidenceHigh, result.Confidence)
	require.Contains(t, result.Warnings, WarningMissingCitations)
	require.NotContains(t, result.Warnings, WarningShort)
}

func TestValidateGrounded(t *testing.T) {
	calls := []ToolCall{
		{Type: "response.file_search_call.completed"},
	}

	result := Validate(groundedAnswer, calls)

	require.True(t, result.Valid)
	require.Empty(t, result.Warnings)
	require.Equal(t, ConfidenceHigh, result.Confidence)
}

func TestValidateSearchToolMatching(t *testing.T) {
	tests := []struct {
		name string
		call ToolCall
		want bool
	}{
		{"exact type", ToolCall{Type: "file_search"}, true},
		{"function name", ToolCall{Type: "function", Name: "web_search"}, true},
		{"stream event", ToolCall{Type: "response.web_search_call.searching"}, true},
		{"output item", ToolCall{Type: "file_search_call"}, true},
		{"other tool", ToolCall{Type: "response.code_interpreter_call.completed"}, false},
		{"function call", ToolCall{Type: "function_call", Name: "get_weather"}, false},
	}

	v := New()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, v.searchToolUsed([]ToolCall{tt.call}))
		})
	}
}

func TestValidateMissingCitationsDowngrades(t *testing.T) {
	answer := strings.Replace(groundedAnswer, "Lähteet:", "Tiedostot:", 1)

	result := Validate(answer, []ToolCall{{Type: "file_search_call"}})

	require.Equal(t, []string{WarningMissingCitations}, result.Warnings)
	require.Equal(t, ConfidenceMedium, result.Confidence)
}

func TestValidateUncertainty(t *testing.T) {
	answer := strings.Replace(groundedAnswer, "Loma pidetään", "Loma luultavasti pidetään", 1)

	result := Validate(answer, []ToolCall{{Type: "file_search_call"}})

	require.Equal(t, []string{WarningUncertain}, result.Warnings)
	require.Equal(t, ConfidenceMedium, result.Confidence)
	require.False(t, result.Valid)
}

func TestValidateUncertaintyDoesNotWorsenLow(t *testing.T) {
	answer := strings.Repeat("Vuosiloma on luultavasti kaksi ja puoli päivää kuukaudessa vuoden työsuhteen jälkeen. ", 3)

	result := Validate(answer, nil)

	require.Contains(t, result.Warnings, WarningUncertain)
	require.Equal(t, ConfidenceLow, result.Confidence)
}

func TestValidateShortAnswer(t *testing.T) {
	result := Validate("Kyllä.\n\nLähteet:\n- ohje.pdf", []ToolCall{{Type: "file_search"}})

	require.Equal(t, []string{WarningShort}, result.Warnings)
	require.Equal(t, ConfidenceMedium, result.Confidence)
}

func TestValidateShortAnswerNeverUpgrades(t *testing.T) {
	result := Validate("Kyllä vain.", nil)

	require.Contains(t, result.Warnings, WarningShort)
	require.Equal(t, ConfidenceLow, result.Confidence)
}

func TestValidateGenericWithoutSearch(t *testing.T) {
	answer := strings.Repeat("Yleisesti vuosilomaa kertyy kaksi ja puoli päivää kuukaudessa vuoden jälkeen. ", 3) + "\n\nLähteet:\n- yleistieto"

	result := Validate(answer, nil)

	require.Contains(t, result.Warnings, WarningGeneric)
	require.Equal(t, ConfidenceLow, result.Confidence)
}

func TestValidateGenericWithSearch(t *testing.T) {
	answer := strings.Replace(groundedAnswer, "Loma pidetään", "Loma pidetään tavallisesti", 1)

	result := Validate(answer, []ToolCall{{Type: "file_search"}})

	require.Empty(t, result.Warnings)
	require.Equal(t, ConfidenceHigh, result.Confidence)
}

func TestValidateCustomClassifier(t *testing.T) {
	swedish := Lexicon{
		Greetings: []string{"hej"},
		Headings:  []string{"Källor:"},
	}

	v := New(WithClassifier(swedish))

	require.Equal(t, ConfidenceHigh, v.Validate("Hej hej!", nil).Confidence)

	answer := strings.Repeat("Semesterdagar tjänas in under intjänandeåret enligt semesterlagen. ", 3) + "\n\nKällor:\n- semesterlagen.pdf"

	result := v.Validate(answer, []ToolCall{{Type: "file_search"}})
	require.Empty(t, result.Warnings)

	require.Equal(t, []string{"semesterlagen.pdf"}, v.ExtractCitations(answer))
}

func TestDescribe(t *testing.T) {
	require.Equal(t, "No citations section found in response", Describe(WarningMissingCitations))
	require.Equal(t, "custom", Describe("custom"))
}
