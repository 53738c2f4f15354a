package verification

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/zombor/license-verifier/internal/extraction"
	"github.com/zombor/license-verifier/internal/scanning"
)

// FieldExtractor finds fields in aggregated OCR lines
type FieldExtractor interface {
	Extract(lines scanning.Lines) map[string]extraction.Field
}

// Engine runs OCR, extraction and validation for one document at a time
type Engine struct {
	recognizer scanning.Recognizer
	extractor  FieldExtractor
	validator  *Validator
}

// NewEngine creates an Engine
func NewEngine(recognizer scanning.Recognizer, extractor FieldExtractor, validator *Validator) *Engine {
	return &Engine{
		recognizer: recognizer,
		extractor:  extractor,
		validator:  validator,
	}
}

// Analyze reads the document at path and returns the OCR stage result.
// Failures are reported in the result, never as an error.
func (e *Engine) Analyze(ctx context.Context, path string) OCRResult {
	data, err := os.ReadFile(path)
	if err != nil {
		slog.Error("Failed to read document", "path", path, "error", err)
		return OCRResult{Status: OCRError, Error: fmt.Sprintf("reading document: %v", err)}
	}

	contentType := scanning.ContentTypeFromPath(path, data)
	words, err := e.recognizer.Recognize(ctx, data, contentType)
	if err != nil {
		slog.Error("Failed to recognize document",
			"path", path,
			"content_type", contentType,
			"file_size", len(data),
			"error", err,
		)
		return OCRResult{Status: OCRError, Error: err.Error()}
	}

	confidences := make([]float64, len(words))
	for i, w := range words {
		confidences[i] = w.Confidence
	}

	lines := scanning.GroupLines(words)
	return OCRResult{
		Status:     OCRSuccess,
		Confidence: scanning.MeanConfidence(words),
		Details: Details{
			Words:           words,
			Lines:           lines,
			TotalWords:      len(words),
			WordConfidences: confidences,
			Fields:          e.extractor.Extract(lines),
		},
	}
}

// Verify runs the whole pipeline for the document at path.
// A panic anywhere in the pipeline becomes an error decision.
func (e *Engine) Verify(ctx context.Context, path string) (decision Decision) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("Verification failed", "path", path, "panic", r)
			decision = Decision{Status: StatusError, Reason: fmt.Sprint(r)}
		}
	}()

	return e.validator.Validate(e.Analyze(ctx, path))
}
