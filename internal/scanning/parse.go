package scanning

import (
	"encoding/json"
	"fmt"
	"strings"
)

type wordsResponse struct {
	Words []Word `json:"words"`
}

// parseWordsJSON parses the word list returned by an LLM recognizer
func parseWordsJSON(text string) ([]Word, error) {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSpace(text)

	// Models sometimes wrap the object in prose
	startIdx := strings.Index(text, "{")
	if startIdx == -1 {
		return nil, fmt.Errorf("no JSON object found in response")
	}
	endIdx := strings.LastIndex(text, "}")
	if endIdx < startIdx {
		return nil, fmt.Errorf("invalid JSON object in response")
	}
	text = text[startIdx : endIdx+1]

	var resp wordsResponse
	if err := json.Unmarshal([]byte(text), &resp); err != nil {
		return nil, fmt.Errorf("unmarshaling json: %w", err)
	}

	// Models give fractions now and then
	words := resp.Words
	if allFractional(words) {
		for i := range words {
			words[i].Confidence *= 100
		}
	}

	return cleanWords(words), nil
}

// allFractional reports whether every confidence is in (0, 1]
func allFractional(words []Word) bool {
	if len(words) == 0 {
		return false
	}
	for _, w := range words {
		if w.Confidence <= 0 || w.Confidence > 1 {
			return false
		}
	}
	return true
}
