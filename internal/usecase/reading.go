package usecase

import (
	"encoding/json"
	"log/slog"
	"regexp"
	"strings"
)

// readingPayload is the JSON contract the reading prompt instructs the
// model to produce.
type readingPayload struct {
	Content        string            `json:"content"`
	DifficultWords []string          `json:"difficult_words"`
	Definitions    map[string]string `json:"definitions"`
}

// ReadResult is the shaped reading-content response.
type ReadResult struct {
	Content        string            `json:"content"`
	DifficultWords []string          `json:"difficultWords"`
	Definitions    map[string]string `json:"definitions"`
}

var wordPattern = regexp.MustCompile(`[\w']+`)

// minDifficultWordLen is exclusive: a word qualifies with more than eight
// letters, matching the client's original heuristic.
const minDifficultWordLen = 8

// parseReadingContent decodes the model's reading payload. When the model
// violates the JSON contract the raw text is kept as content and
// fallbackDifficultWords supplies the vocabulary list with no definitions.
// This is the deterministic secondary path, not a silent catch-all.
func parseReadingContent(raw string) ReadResult {
	var payload readingPayload
	if err := json.Unmarshal([]byte(strings.TrimSpace(raw)), &payload); err != nil || payload.Content == "" {
		slog.Warn("reading content was not contract JSON, using fallback extraction", "err", err)
		return ReadResult{
			Content:        raw,
			DifficultWords: fallbackDifficultWords(raw),
			Definitions:    map[string]string{},
		}
	}
	if payload.DifficultWords == nil {
		payload.DifficultWords = []string{}
	}
	if payload.Definitions == nil {
		payload.Definitions = map[string]string{}
	}
	return ReadResult{
		Content:        payload.Content,
		DifficultWords: payload.DifficultWords,
		Definitions:    payload.Definitions,
	}
}

// fallbackDifficultWords picks unique long words from free text, lowercased
// in order of first appearance.
func fallbackDifficultWords(text string) []string {
	seen := make(map[string]struct{})
	words := []string{}
	for _, w := range wordPattern.FindAllString(text, -1) {
		if len(w) <= minDifficultWordLen {
			continue
		}
		lower := strings.ToLower(w)
		if _, ok := seen[lower]; ok {
			continue
		}
		seen[lower] = struct{}{}
		words = append(words, lower)
	}
	return words
}
