package verification

import "github.com/zombor/license-verifier/internal/extraction"

// Requirements configures the License Validator
type Requirements struct {
	RequiredFields            []string
	FieldConfidenceThresholds map[string]float64
	AcceptableClasses         []string
	// MinOverallConfidence is advisory: results below it are logged, not rejected
	MinOverallConfidence float64
}

// DefaultRequirements returns the requirements used for ride sharing drivers
func DefaultRequirements() Requirements {
	return Requirements{
		RequiredFields: []string{
			extraction.FieldLicenseNumber,
			extraction.FieldExpiryDate,
			extraction.FieldName,
		},
		FieldConfidenceThresholds: map[string]float64{
			extraction.FieldLicenseNumber: 70,
			extraction.FieldName:          75,
			extraction.FieldExpiryDate:    75,
			extraction.FieldLicenseClass:  75,
		},
		AcceptableClasses:    []string{"A", "B", "C", "LMV", "MCWG"},
		MinOverallConfidence: 85,
	}
}
