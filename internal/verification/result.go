package verification

import (
	"github.com/zombor/license-verifier/internal/extraction"
	"github.com/zombor/license-verifier/internal/scanning"
)

// OCR stage statuses
const (
	OCRSuccess = "success"
	OCRError   = "error"
)

// OCRResult is what the OCR stage hands to the validator
type OCRResult struct {
	Status     string  `json:"status"`
	Confidence float64 `json:"confidence"` // overall, only meaningful on success
	Error      string  `json:"error,omitempty"`
	Details    Details `json:"details"`
}

// Details holds the raw OCR output behind a result
type Details struct {
	Words           []scanning.Word             `json:"words"`
	Lines           scanning.Lines              `json:"lines"`
	TotalWords      int                         `json:"total_words"`
	WordConfidences []float64                   `json:"word_confidences"`
	Fields          map[string]extraction.Field `json:"fields"`
}

// Failed reports whether the OCR stage did not succeed
func (r OCRResult) Failed() bool {
	return r.Status != OCRSuccess
}
