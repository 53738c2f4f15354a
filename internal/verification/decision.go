package verification

// Decision statuses
const (
	StatusRejected      = "rejected"
	StatusPendingReview = "pending_review"
	StatusError         = "error"
)

// Decision reasons
const (
	ReasonOCRFailed      = "Failed to extract text from document"
	ReasonMissingFields  = "Could not extract required fields: "
	ReasonLowConfidence  = "Low confidence in fields: "
	ReasonInvalidExpiry  = "Invalid expiry date format"
	ReasonExpired        = "License is expired"
	ReasonAwaitingReview = "Valid information extracted, awaiting human verification"
)

// Decision is the outcome of verifying one document
type Decision struct {
	Status        string            `json:"status"`
	Reason        string            `json:"reason,omitempty"`
	Error         string            `json:"error,omitempty"`
	ExtractedInfo map[string]string `json:"extracted_info,omitempty"`
	// Patterns holds the pattern that produced each extracted value
	Patterns         map[string]string `json:"patterns,omitempty"`
	Confidence       *float64          `json:"confidence,omitempty"`
	NeedsHumanReview bool              `json:"needs_human_review,omitempty"`
	NeedsBetterImage bool              `json:"needs_better_image,omitempty"`
}
