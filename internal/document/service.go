package document

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/zombor/license-verifier/internal/verification"
)

// IDGenerator generates unique IDs for verifications
type IDGenerator interface {
	Generate() string
}

// TimeSource provides the current time
type TimeSource interface {
	Now() time.Time
}

// defaultIDGenerator generates random UUIDs
type defaultIDGenerator struct{}

func (g *defaultIDGenerator) Generate() string {
	return uuid.NewString()
}

// defaultTimeSource provides the current time
type defaultTimeSource struct{}

func (t *defaultTimeSource) Now() time.Time {
	return time.Now()
}

// Verifier verifies the document stored at path
type Verifier interface {
	Verify(ctx context.Context, path string) verification.Decision
}

// PatternLedger records feedback on extraction patterns
type PatternLedger interface {
	RecordFeedback(field, pattern string, correct bool) error
	TopPatterns(field string, n int) []string
}

// Service handles document operations
type Service struct {
	db          DB
	verifier    Verifier
	storage     Storage
	patterns    PatternLedger
	idGenerator IDGenerator
	timeSource  TimeSource
}

// NewService creates a new Service with default ID generator and time source
func NewService(db DB, verifier Verifier, storage Storage, patterns PatternLedger) *Service {
	return NewServiceWithDeps(db, verifier, storage, patterns, &defaultIDGenerator{}, &defaultTimeSource{})
}

// NewServiceWithDeps creates a new Service with custom dependencies for testing
func NewServiceWithDeps(db DB, verifier Verifier, storage Storage, patterns PatternLedger, idGen IDGenerator, timeSrc TimeSource) *Service {
	return &Service{
		db:          db,
		verifier:    verifier,
		storage:     storage,
		patterns:    patterns,
		idGenerator: idGen,
		timeSource:  timeSrc,
	}
}

var (
	filenameNoise = regexp.MustCompile(`[^a-zA-Z0-9\s\-_]`)
	whitespace    = regexp.MustCompile(`\s+`)
)

// sanitizeFilename cleans up a filename by removing special characters and truncating length
func sanitizeFilename(filename string) string {
	ext := filepath.Ext(filename)
	base := strings.TrimSuffix(filename, ext)

	base = filenameNoise.ReplaceAllString(base, "")
	base = whitespace.ReplaceAllString(base, " ")
	base = strings.TrimSpace(base)

	maxLen := 50
	if len(base) > maxLen {
		base = base[:maxLen]
	}
	if base == "" {
		base = "license"
	}

	return base + ext
}

func checkDocumentType(documentType string) error {
	if !strings.EqualFold(strings.TrimSpace(documentType), DocumentTypeDriverLicense) {
		return fmt.Errorf("%w: %q", ErrUnsupportedDocumentType, documentType)
	}
	return nil
}

// UnsupportedDecision is the decision for document types that are not verified
func UnsupportedDecision() verification.Decision {
	return verification.Decision{Status: verification.StatusRejected, Reason: ReasonUnsupportedType}
}

// VerifyDocument verifies a document already on disk without storing anything
func (s *Service) VerifyDocument(ctx context.Context, path, documentType string) verification.Decision {
	if err := checkDocumentType(documentType); err != nil {
		return UnsupportedDecision()
	}

	decision := s.verifier.Verify(ctx, path)
	slog.Info("Processed document", "path", path, "status", decision.Status, "reason", decision.Reason)
	return decision
}

// ProcessDocument stores an upload, verifies it and saves the result
func (s *Service) ProcessDocument(ctx context.Context, filename string, data []byte, contentType, documentType string) (*Verification, error) {
	if err := checkDocumentType(documentType); err != nil {
		return nil, err
	}

	id := s.idGenerator.Generate()
	now := s.timeSource.Now()

	saved, err := s.storage.Save(fmt.Sprintf("%s_%s", id, sanitizeFilename(filename)), data)
	if err != nil {
		return nil, fmt.Errorf("saving file: %w", err)
	}

	decision := s.verifier.Verify(ctx, s.storage.Path(saved))
	slog.Info("Processed document",
		"document_id", id,
		"filename", filename,
		"status", decision.Status,
		"reason", decision.Reason,
	)

	v := &Verification{
		ID:           id,
		DocumentType: DocumentTypeDriverLicense,
		Filename:     saved,
		ContentType:  contentType,
		Decision:     decision,
		CreatedAt:    now,
	}

	if err := s.db.SaveVerification(v); err != nil {
		// Clean up file if database save fails
		if delErr := s.storage.Delete(saved); delErr != nil {
			slog.Warn("Failed to delete file", "filename", saved, "error", delErr)
		}
		return nil, fmt.Errorf("saving verification to database: %w", err)
	}

	return v, nil
}

// GetVerification retrieves a verification by ID
func (s *Service) GetVerification(id string) (*Verification, error) {
	v, err := s.db.GetVerification(id)
	if err != nil {
		return nil, fmt.Errorf("getting verification: %w", err)
	}
	return v, nil
}

// ListVerifications returns all verifications
func (s *Service) ListVerifications() ([]*Verification, error) {
	list, err := s.db.ListVerifications()
	if err != nil {
		return nil, fmt.Errorf("listing verifications: %w", err)
	}
	return list, nil
}

// DeleteVerification removes a verification and its file
func (s *Service) DeleteVerification(id string) error {
	v, err := s.db.GetVerification(id)
	if err != nil {
		return fmt.Errorf("getting verification for deletion: %w", err)
	}

	if err := s.storage.Delete(v.Filename); err != nil {
		// Log error but continue with database deletion
		slog.Warn("Failed to delete file", "filename", v.Filename, "error", err)
	}

	if err := s.db.DeleteVerification(id); err != nil {
		return fmt.Errorf("deleting verification from database: %w", err)
	}
	return nil
}

// GetVerificationFile retrieves the uploaded file for a verification
func (s *Service) GetVerificationFile(id string) ([]byte, string, error) {
	v, err := s.db.GetVerification(id)
	if err != nil {
		return nil, "", fmt.Errorf("getting verification: %w", err)
	}

	data, err := s.storage.Get(v.Filename)
	if err != nil {
		return nil, "", fmt.Errorf("getting verification file: %w", err)
	}

	return data, v.ContentType, nil
}

// RecordFeedback tells the ledger whether a pattern produced a correct value
func (s *Service) RecordFeedback(field, pattern string, correct bool) error {
	if err := s.patterns.RecordFeedback(field, pattern, correct); err != nil {
		return fmt.Errorf("recording feedback: %w", err)
	}
	return nil
}

// RecordVerificationFeedback judges the pattern a stored verification used for a field
func (s *Service) RecordVerificationFeedback(id, field string, correct bool) error {
	v, err := s.db.GetVerification(id)
	if err != nil {
		return fmt.Errorf("getting verification: %w", err)
	}

	pattern, ok := v.Decision.Patterns[field]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNoPattern, field)
	}
	return s.RecordFeedback(field, pattern, correct)
}

// TopPatterns returns the most successful patterns for a field
func (s *Service) TopPatterns(field string, n int) []string {
	return s.patterns.TopPatterns(field, n)
}
