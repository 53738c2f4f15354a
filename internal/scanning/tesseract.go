package scanning

import (
	"context"
	"fmt"

	"github.com/otiai10/gosseract/v2"
)

// Tesseract implements the Recognizer interface using a local Tesseract install
type Tesseract struct {
	languages []string
}

// NewTesseract creates a Tesseract Recognizer for the given languages (default "eng")
func NewTesseract(languages ...string) *Tesseract {
	if len(languages) == 0 {
		languages = []string{"eng"}
	}
	return &Tesseract{languages: languages}
}

// Recognize runs Tesseract and returns words with their block/line/word indices
func (t *Tesseract) Recognize(ctx context.Context, imageData []byte, contentType string) ([]Word, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	pngData, err := preparePNG(imageData, contentType)
	if err != nil {
		return nil, err
	}

	client := gosseract.NewClient()
	defer client.Close()

	if err := client.SetLanguage(t.languages...); err != nil {
		return nil, fmt.Errorf("set languages: %w", err)
	}
	if err := client.SetImageFromBytes(pngData); err != nil {
		return nil, fmt.Errorf("set image: %w", err)
	}

	boxes, err := client.GetBoundingBoxesVerbose()
	if err != nil {
		return nil, fmt.Errorf("tesseract OCR failed: %w", err)
	}

	return wordsFromBoxes(boxes), nil
}

// wordsFromBoxes maps word-level bounding boxes to Words, dropping unusable ones
func wordsFromBoxes(boxes []gosseract.BoundingBox) []Word {
	words := make([]Word, 0, len(boxes))
	for _, b := range boxes {
		words = append(words, Word{
			Text:       b.Word,
			Confidence: b.Confidence,
			Block:      b.BlockNum,
			Line:       b.LineNum,
			Position:   b.WordNum,
		})
	}
	return cleanWords(words)
}

// Close is a no-op; a client is created per call
func (t *Tesseract) Close() error {
	return nil
}
