package scanning

import (
	"context"
	"strings"
)

// Word is a single OCR-recognized token with its position on the page
type Word struct {
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"` // 0-100
	Block      int     `json:"block_num"`
	Line       int     `json:"line_num"`
	Position   int     `json:"word_num"`
}

// Recognizer defines the interface for word-level OCR
type Recognizer interface {
	// Recognize runs OCR over an image/PDF and returns the recognized words.
	// Words with confidence <= 0 or empty text are never returned.
	Recognize(ctx context.Context, imageData []byte, contentType string) ([]Word, error)
	// Close closes the recognizer and releases resources
	Close() error
}

// cleanWords drops words the OCR engine was not confident about at all
func cleanWords(words []Word) []Word {
	out := make([]Word, 0, len(words))
	for _, w := range words {
		w.Text = strings.TrimSpace(w.Text)
		if w.Confidence <= 0 || w.Text == "" {
			continue
		}
		out = append(out, w)
	}
	return out
}

// MeanConfidence returns the average confidence over words, or 0 for none
func MeanConfidence(words []Word) float64 {
	if len(words) == 0 {
		return 0
	}
	var total float64
	for _, w := range words {
		total += w.Confidence
	}
	return total / float64(len(words))
}
