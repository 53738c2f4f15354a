package document

import (
	"errors"
	"time"

	"github.com/zombor/license-verifier/internal/verification"
)

// DocumentTypeDriverLicense is the only document type currently verified
const DocumentTypeDriverLicense = "driver_license"

// ReasonUnsupportedType is the rejection reason for any other document type
const ReasonUnsupportedType = "Currently only processing driver's licenses"

var (
	// ErrUnsupportedDocumentType is returned for document types that are not verified
	ErrUnsupportedDocumentType = errors.New("unsupported document type")
	// ErrNotFound is returned when a verification does not exist
	ErrNotFound = errors.New("verification not found")
	// ErrNoPattern is returned when a verification holds no pattern for a field
	ErrNoPattern = errors.New("no pattern recorded for field")
)

// Verification is a stored upload together with its verification decision
type Verification struct {
	ID           string                `json:"id"`
	DocumentType string                `json:"document_type"`
	Filename     string                `json:"filename"`
	ContentType  string                `json:"content_type"`
	Decision     verification.Decision `json:"decision"`
	CreatedAt    time.Time             `json:"created_at"`
}
