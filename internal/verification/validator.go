package verification

import (
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/zombor/license-verifier/internal/extraction"
)

// expiryLayout is DD-MM-YYYY
const expiryLayout = "02-01-2006"

// TimeSource provides the current time
type TimeSource interface {
	Now() time.Time
}

type defaultTimeSource struct{}

func (t *defaultTimeSource) Now() time.Time {
	return time.Now()
}

// Validator turns an OCR result into a Decision
type Validator struct {
	requirements Requirements
	timeSource   TimeSource
}

// NewValidator creates a Validator that checks expiry against the wall clock
func NewValidator(requirements Requirements) *Validator {
	return NewValidatorWithTime(requirements, &defaultTimeSource{})
}

// NewValidatorWithTime creates a Validator with a custom time source for testing
func NewValidatorWithTime(requirements Requirements, timeSrc TimeSource) *Validator {
	return &Validator{
		requirements: requirements,
		timeSource:   timeSrc,
	}
}

// Validate runs the checks in order and stops at the first failing one
func (v *Validator) Validate(result OCRResult) Decision {
	if result.Failed() {
		return Decision{
			Status: StatusRejected,
			Reason: ReasonOCRFailed,
			Error:  result.Error,
		}
	}

	if result.Confidence < v.requirements.MinOverallConfidence {
		slog.Warn("Overall OCR confidence below minimum",
			"confidence", result.Confidence,
			"min_confidence", v.requirements.MinOverallConfidence,
		)
	}

	fields := result.Details.Fields
	info := make(map[string]string, len(v.requirements.RequiredFields)+1)
	patterns := make(map[string]string, len(info))
	collect := func(name string) extraction.Field {
		field := fields[name]
		info[name] = field.Value
		if field.Pattern != "" {
			patterns[name] = field.Pattern
		}
		return field
	}
	reject := func(reason string) Decision {
		return Decision{Status: StatusRejected, Reason: reason, ExtractedInfo: info, Patterns: patterns}
	}

	var missing, lowConfidence []string
	for _, name := range v.requirements.RequiredFields {
		field := collect(name)
		if field.Value == "" {
			missing = append(missing, name)
			continue
		}
		if threshold, ok := v.requirements.FieldConfidenceThresholds[name]; ok && field.Confidence < threshold {
			lowConfidence = append(lowConfidence, fmt.Sprintf("%s (%.1f%%)", name, field.Confidence))
		}
	}
	if fields[extraction.FieldLicenseClass].Value != "" {
		collect(extraction.FieldLicenseClass)
	}

	if len(missing) > 0 {
		return reject(ReasonMissingFields + strings.Join(missing, ", "))
	}

	if len(lowConfidence) > 0 {
		d := reject(ReasonLowConfidence + strings.Join(lowConfidence, ", "))
		d.NeedsBetterImage = true
		return d
	}

	now := v.timeSource.Now()
	expiry, err := time.ParseInLocation(expiryLayout, fields[extraction.FieldExpiryDate].Value, now.Location())
	if err != nil {
		return reject(ReasonInvalidExpiry)
	}
	if expiry.Before(now) {
		return reject(ReasonExpired)
	}

	if class := info[extraction.FieldLicenseClass]; class != "" && !slices.Contains(v.requirements.AcceptableClasses, class) {
		return reject(fmt.Sprintf("License class %s not acceptable for ride sharing", class))
	}

	confidence := result.Confidence
	return Decision{
		Status:           StatusPendingReview,
		Reason:           ReasonAwaitingReview,
		ExtractedInfo:    info,
		Patterns:         patterns,
		Confidence:       &confidence,
		NeedsHumanReview: true,
	}
}
