package usecase

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseReadingContent_ContractJSON(t *testing.T) {
	raw := `{
		"content": "Space exploration has fascinated humanity.\n\nModern telescopes reveal distant galaxies.",
		"difficult_words": ["exploration", "telescopes"],
		"definitions": {"exploration": "travel to discover", "telescopes": "viewing instruments"}
	}`

	got := parseReadingContent(raw)
	require.Contains(t, got.Content, "Space exploration")
	require.Equal(t, []string{"exploration", "telescopes"}, got.DifficultWords)
	require.Equal(t, "travel to discover", got.Definitions["exploration"])
}

func TestParseReadingContent_MissingOptionalFields(t *testing.T) {
	got := parseReadingContent(`{"content": "Just text."}`)
	require.Equal(t, "Just text.", got.Content)
	require.NotNil(t, got.DifficultWords)
	require.Empty(t, got.DifficultWords)
	require.NotNil(t, got.Definitions)
}

func TestParseReadingContent_FallbackOnPlainText(t *testing.T) {
	raw := "The magnificent archaeological discoveries transformed our understanding. Archaeological work continues."

	got := parseReadingContent(raw)
	require.Equal(t, raw, got.Content, "fallback keeps the raw text as content")
	require.Contains(t, got.DifficultWords, "magnificent")
	require.Contains(t, got.DifficultWords, "archaeological")
	require.Contains(t, got.DifficultWords, "discoveries")
	require.Contains(t, got.DifficultWords, "transformed")
	require.Contains(t, got.DifficultWords, "understanding")
	require.Empty(t, got.Definitions)
}

func TestFallbackDifficultWords_DedupesCaseInsensitive(t *testing.T) {
	words := fallbackDifficultWords("Wonderful wonderful WONDERFUL surprises")
	require.Equal(t, []string{"wonderful", "surprises"}, words)
}

func TestFallbackDifficultWords_ShortWordsExcluded(t *testing.T) {
	// The cutoff is exclusive at eight letters.
	words := fallbackDifficultWords("eightlet exactly12 abcdefghi")
	require.NotContains(t, words, "eightlet")
	require.Contains(t, words, "exactly12")
	require.Contains(t, words, "abcdefghi")
}
