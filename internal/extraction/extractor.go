package extraction

import (
	"log/slog"
	"regexp"
	"slices"
	"strings"

	"github.com/zombor/license-verifier/internal/scanning"
)

// Field is the extracted value of one semantic field.
// Confidence is the mean confidence of the words the value was read from.
type Field struct {
	Value      string  `json:"value"`
	Confidence float64 `json:"confidence"`
	Pattern    string  `json:"pattern,omitempty"` // pattern that produced the value
}

// Policy controls how a pattern is applied to a line
type Policy struct {
	Preprocess        func(string) string // applied to the line text before matching
	MinWordConfidence float64             // words below this are ignored
	ExcludeHeaders    bool                // reject header/boilerplate lines and values
	MaxLineWords      int                 // skip longer lines; 0 disables the check
}

// Pattern is a case-insensitive regular expression paired with its Policy
type Pattern struct {
	Expr   string
	Policy Policy
	re     *regexp.Regexp
}

// NewPattern compiles expr case-insensitively; it panics on an invalid expression
func NewPattern(expr string, policy Policy) Pattern {
	return Pattern{
		Expr:   expr,
		Policy: policy,
		re:     regexp.MustCompile("(?i)" + expr),
	}
}

// Spec describes how to find one field
type Spec struct {
	Name     string
	Patterns []Pattern
	// Post normalizes the winning value; nil leaves it as is
	Post func(string) string
}

// Recorder receives the pattern that won each extraction
type Recorder interface {
	RecordSuccess(field, pattern string) error
}

// Extractor finds fields in OCR lines
type Extractor struct {
	specs    []Spec
	recorder Recorder
}

// NewExtractor creates an Extractor for specs. recorder may be nil.
func NewExtractor(specs []Spec, recorder Recorder) *Extractor {
	return &Extractor{
		specs:    specs,
		recorder: recorder,
	}
}

// Extract returns one Field per spec. Fields that were not found have an empty value.
func (e *Extractor) Extract(lines scanning.Lines) map[string]Field {
	ordered := lines.Ordered()
	fields := make(map[string]Field, len(e.specs))
	for _, spec := range e.specs {
		field := e.matchField(spec, ordered)
		if field.Value != "" && spec.Post != nil {
			field.Value = spec.Post(field.Value)
		}
		fields[spec.Name] = field
	}
	return fields
}

// matchField tries every pattern on every line and keeps the most confident candidate
func (e *Extractor) matchField(spec Spec, lines []scanning.Line) Field {
	var best Field
	for _, p := range spec.Patterns {
		for _, line := range lines {
			candidate, ok := matchLine(p, line.Words)
			if ok && candidate.Confidence > best.Confidence {
				best = candidate
			}
		}
	}

	if best.Value == "" {
		return Field{}
	}

	if e.recorder != nil {
		if err := e.recorder.RecordSuccess(spec.Name, best.Pattern); err != nil {
			slog.Warn("Failed to record pattern success", "field", spec.Name, "error", err)
		}
	}
	return best
}

// matchLine applies one pattern to one line
func matchLine(p Pattern, words []scanning.Word) (Field, bool) {
	if p.Policy.MinWordConfidence > 0 {
		kept := make([]scanning.Word, 0, len(words))
		for _, w := range words {
			if w.Confidence >= p.Policy.MinWordConfidence {
				kept = append(kept, w)
			}
		}
		words = kept
	}
	if len(words) == 0 {
		return Field{}, false
	}
	// Long lines are addresses or headers
	if p.Policy.MaxLineWords > 0 && len(words) > p.Policy.MaxLineWords {
		return Field{}, false
	}

	text := scanning.Line{Words: words}.Text()
	if p.Policy.ExcludeHeaders && isHeaderText(text) {
		return Field{}, false
	}
	if p.Policy.Preprocess != nil {
		text = p.Policy.Preprocess(text)
	}

	m := p.re.FindStringSubmatch(text)
	if m == nil {
		return Field{}, false
	}
	value := m[0]
	if len(m) > 1 {
		value = m[1]
	}
	value = strings.TrimSpace(value)
	if value == "" {
		return Field{}, false
	}

	if p.Policy.ExcludeHeaders && isHeaderText(value) {
		return Field{}, false
	}
	if hasLocationToken(value) {
		return Field{}, false
	}

	matched := matchedWords(value, words)
	if len(matched) == 0 {
		return Field{}, false
	}
	return Field{
		Value:      value,
		Confidence: scanning.MeanConfidence(matched),
		Pattern:    p.Expr,
	}, true
}

// matchedWords resolves which words of the line make up value
func matchedWords(value string, words []scanning.Word) []scanning.Word {
	tokens := strings.Fields(value)
	out := make([]scanning.Word, 0, len(words))
	for _, w := range words {
		if slices.Contains(tokens, w.Text) || strings.Contains(w.Text, value) || anyPartIn(w.Text, value) {
			out = append(out, w)
		}
	}
	return out
}

func anyPartIn(text, value string) bool {
	for _, part := range strings.Fields(text) {
		if strings.Contains(value, part) {
			return true
		}
	}
	return false
}
