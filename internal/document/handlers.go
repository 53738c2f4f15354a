package document

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/zombor/license-verifier/internal/scanning"
)

// maxUploadSize bounds multipart uploads; phone photos of a card stay well under it
const maxUploadSize = int64(20 << 20)

// writeJSON encodes v with the given status code
func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Error encoding response", "error", err)
	}
}

func writeJSONError(w http.ResponseWriter, code int, message string) {
	writeJSON(w, code, map[string]string{"error": message})
}

// handleListVerifications returns a list of all verifications
func (s *Server) handleListVerifications(w http.ResponseWriter, r *http.Request) {
	list, err := s.service.ListVerifications()
	if err != nil {
		slog.Error("Error listing verifications", "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// handleUploadDocument stores and verifies an uploaded document
func (s *Server) handleUploadDocument(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		slog.Error("Error parsing multipart form", "error", err)
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSONError(w, http.StatusRequestEntityTooLarge, "File is too large. Maximum size is 20MB.")
			return
		}
		writeJSONError(w, http.StatusBadRequest, "Error parsing form")
		return
	}

	f, header, err := r.FormFile("file")
	if err != nil {
		slog.Error("Error getting file from form", "error", err)
		writeJSONError(w, http.StatusBadRequest, "No file provided")
		return
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		slog.Error("Error reading file data", "error", err, "filename", header.Filename)
		writeJSONError(w, http.StatusInternalServerError, "Error reading file. Please try again.")
		return
	}

	contentType := strings.ToLower(strings.TrimSpace(header.Header.Get("Content-Type")))
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = scanning.ContentTypeFromPath(header.Filename, data)
	}

	documentType := r.FormValue("document_type")
	if documentType == "" {
		documentType = DocumentTypeDriverLicense
	}

	v, err := s.service.ProcessDocument(r.Context(), header.Filename, data, contentType, documentType)
	if errors.Is(err, ErrUnsupportedDocumentType) {
		writeJSON(w, http.StatusUnprocessableEntity, UnsupportedDecision())
		return
	}
	if err != nil {
		slog.Error("Error processing document", "filename", header.Filename, "error", err)
		writeJSONError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, v)
}

// handleGetVerification returns a single verification
func (s *Server) handleGetVerification(w http.ResponseWriter, r *http.Request) {
	v, err := s.service.GetVerification(r.PathValue("id"))
	if errors.Is(err, ErrNotFound) {
		http.Error(w, "Verification not found", http.StatusNotFound)
		return
	}
	if err != nil {
		slog.Error("Error getting verification", "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

// handleGetVerificationFile returns the uploaded file of a verification
func (s *Server) handleGetVerificationFile(w http.ResponseWriter, r *http.Request) {
	data, contentType, err := s.service.GetVerificationFile(r.PathValue("id"))
	if err != nil {
		http.Error(w, "File not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Write(data)
}

// handleDeleteVerification deletes a verification
func (s *Server) handleDeleteVerification(w http.ResponseWriter, r *http.Request) {
	err := s.service.DeleteVerification(r.PathValue("id"))
	if errors.Is(err, ErrNotFound) {
		http.Error(w, "Verification not found", http.StatusNotFound)
		return
	}
	if err != nil {
		slog.Error("Error deleting verification", "error", err)
		http.Error(w, "Error deleting verification", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type feedbackRequest struct {
	VerificationID string `json:"verification_id"`
	Field          string `json:"field"`
	Pattern        string `json:"pattern"`
	Correct        bool   `json:"correct"`
}

// handleFeedback records whether a pattern extracted a correct value.
// The pattern is either named directly or looked up from a stored verification.
func (s *Server) handleFeedback(w http.ResponseWriter, r *http.Request) {
	var req feedbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Field == "" || (req.Pattern == "" && req.VerificationID == "") {
		writeJSONError(w, http.StatusBadRequest, "field and pattern or verification_id are required")
		return
	}

	var err error
	if req.Pattern != "" {
		err = s.service.RecordFeedback(req.Field, req.Pattern, req.Correct)
	} else {
		err = s.service.RecordVerificationFeedback(req.VerificationID, req.Field, req.Correct)
	}
	switch {
	case errors.Is(err, ErrNotFound):
		writeJSONError(w, http.StatusNotFound, "Verification not found")
		return
	case errors.Is(err, ErrNoPattern):
		writeJSONError(w, http.StatusBadRequest, "Verification has no pattern for field")
		return
	case err != nil:
		slog.Error("Error recording feedback", "field", req.Field, "error", err)
		writeJSONError(w, http.StatusInternalServerError, "Error recording feedback")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// handleTopPatterns returns the most successful patterns for a field
func (s *Server) handleTopPatterns(w http.ResponseWriter, r *http.Request) {
	n := 3
	if raw := r.URL.Query().Get("n"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			writeJSONError(w, http.StatusBadRequest, "n must be a positive integer")
			return
		}
		n = parsed
	}

	patterns := s.service.TopPatterns(r.PathValue("field"), n)
	if patterns == nil {
		patterns = []string{}
	}
	writeJSON(w, http.StatusOK, patterns)
}
