package extraction

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Field names of a driver's license
const (
	FieldName          = "name"
	FieldLicenseNumber = "license_number"
	FieldExpiryDate    = "expiry_date"
	FieldLicenseClass  = "license_class"
)

// headerTexts is boilerplate printed on license cards
var headerTexts = []string{
	"UNION OF INDIA",
	"VEHICLES THROUGHOUT INDIA",
	"AUTHORISATION TO DRIVE",
	"FOLLOWING CLASS",
	"STATE MOTOR DRIVING",
	"SIGNATURE",
	"IMPRESSION OF",
	"OLD",
	"NEW",
	"PETH",
	"STAND",
	"DISTRICT",
	"COLONY",
}

// locationTokens mark a value captured from an address block
var locationTokens = []string{"street", "road", "nagar", "colony", "peth", "stand", "district", "dist", "tal"}

func isHeaderText(text string) bool {
	return containsAnyFold(text, headerTexts)
}

func hasLocationToken(text string) bool {
	return containsAnyFold(text, locationTokens)
}

func containsAnyFold(text string, needles []string) bool {
	text = strings.ToLower(text)
	for _, n := range needles {
		if strings.Contains(text, strings.ToLower(n)) {
			return true
		}
	}
	return false
}

var (
	namePrefix   = regexp.MustCompile(`(?i)^(?:Name\s*[-:.]|\s*Us\s+|\s*S/W\s+of\s+|\s*[SW]/[ODW]\s+)`)
	nameRelation = regexp.MustCompile(`(?i)\s+(?:S/O|D/O|W/O|S/|D/|W/|of|SO|DO|WO)\s+.*$`)
	nameMetadata = regexp.MustCompile(`(?i)\s*(?:DOB|BG|ADD?|PIN|Age).*$`)
	nameLocation = regexp.MustCompile(`(?i)\s*(?:STREET|ROAD|NAGAR|COLONY|PETH|STAND|DISTRICT|DIST|TAL|VILLAGE|VLG).*$`)

	classNoise     = regexp.MustCompile(`[^A-Z0-9\s]`)
	canonicalClass = regexp.MustCompile(`^(MCWG|LMV|MC|TRANS)`)
)

// cleanName strips label prefixes, relation suffixes, metadata and address tails from a name line
func cleanName(text string) string {
	text = namePrefix.ReplaceAllString(text, "")
	text = nameRelation.ReplaceAllString(text, "")
	text = nameMetadata.ReplaceAllString(text, "")
	text = nameLocation.ReplaceAllString(text, "")
	return strings.TrimSpace(text)
}

// cleanClass upper-cases and drops punctuation
func cleanClass(text string) string {
	text = strings.TrimSpace(strings.ToUpper(text))
	return classNoise.ReplaceAllString(text, "")
}

// titleName capitalizes each token of a name
func titleName(value string) string {
	// Casers keep state, so one per call
	caser := cases.Title(language.Und)
	parts := strings.Fields(value)
	for i, p := range parts {
		parts[i] = caser.String(p)
	}
	return strings.Join(parts, " ")
}

// truncateClass keeps only a leading canonical class token, dropping trailing dates
func truncateClass(value string) string {
	if m := canonicalClass.FindStringSubmatch(value); m != nil {
		return m[1]
	}
	return value
}

func patterns(policy Policy, exprs ...string) []Pattern {
	out := make([]Pattern, len(exprs))
	for i, expr := range exprs {
		out[i] = NewPattern(expr, policy)
	}
	return out
}

// LicenseSpecs returns the field table for driver's licenses, in extraction order
func LicenseSpecs() []Spec {
	return []Spec{
		{
			Name: FieldLicenseNumber,
			Patterns: patterns(Policy{ExcludeHeaders: true},
				`(?:DL|License)\s*(?:No\.?|Number:?)[:\s-]*([A-Z0-9\s-]+)(?:\s+DO[!}])?`,
				`(?:MH|KA|DL)\d{2}\s*\d{8,12}`,
				`(?:MH|KA|DL)\d{2}\s*\d{4,8}[A-Z]?`,
			),
		},
		{
			Name: FieldName,
			Patterns: patterns(Policy{
				Preprocess:        cleanName,
				MinWordConfidence: 75,
				ExcludeHeaders:    true,
				MaxLineWords:      4,
			},
				`(?:Name\s*[-:.]|\bUs\b|\bS/W\s+of\b)\s*[-:]?\s*([A-Z][A-Za-z]+(?:\s+[A-Z][A-Za-z]+)+)`,
				`(?:^|\s)([A-Z][A-Za-z]+(?:\s+[A-Z][A-Za-z]+)+)\s*(?:S/O|D/O|W/O|S/|D/|W/|of|SO|DO|WO)`,
				`\b([A-Z]+\s+[A-Z]+(?:\s+[A-Z]+)?)\b(?:\s*(?:S/O|D/O|W/O|of))?`,
				`\b([A-Z][a-z]+(?:\s+[A-Z][a-z]+){1,2})\b`,
				`(?:Sri|Shri|Smt|Mr|Mrs|Ms)\s+([A-Z][A-Za-z]+(?:\s+[A-Z][A-Za-z]+)+)`,
			),
			Post: titleName,
		},
		{
			Name: FieldExpiryDate,
			Patterns: patterns(Policy{ExcludeHeaders: true},
				`Valid\s+Till[.:\s;]*(\d{2}[-/]\d{2}[-/]\d{4})`,
				`Valid\s+Until[.:\s;]*(\d{2}[-/]\d{2}[-/]\d{4})`,
				`Expiry[.:\s;]*(\d{2}[-/]\d{2}[-/]\d{4})`,
			),
		},
		{
			Name: FieldLicenseClass,
			Patterns: patterns(Policy{
				Preprocess:        cleanClass,
				MinWordConfidence: 70,
			},
				`\b(?:MCWG|LMV|MC|TRANS)\b`,
				`(?:Class|COV)[.:\s]*([A-Z]+(?:\s*[A-Z0-9]*)*)`,
				`\b(?:MCWG|LMV)[-\s]*(?:\d{2}[-/]\d{2}[-/]\d{4})?`,
			),
			Post: truncateClass,
		},
	}
}
