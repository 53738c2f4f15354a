package scanning

import (
	"fmt"
	"sort"
	"strings"
)

// LineKey identifies a text line by its block and line index
type LineKey struct {
	Block int
	Line  int
}

// String renders the key the way it appears in OCR details output
func (k LineKey) String() string {
	return fmt.Sprintf("block_%d_line_%d", k.Block, k.Line)
}

// MarshalText lets LineKey be used as a JSON object key
func (k LineKey) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Line is the ordered sequence of words sharing a LineKey
type Line struct {
	Key   LineKey `json:"-"`
	Words []Word  `json:"words"`
}

// Text joins the words of the line with single spaces
func (l Line) Text() string {
	return joinWords(l.Words)
}

func joinWords(words []Word) string {
	parts := make([]string, len(words))
	for i, w := range words {
		parts[i] = w.Text
	}
	return strings.Join(parts, " ")
}

// Lines maps each line key to its line
type Lines map[LineKey]Line

// GroupLines groups words by (block, line) and sorts each line by word position.
// It does no filtering; an empty input yields an empty mapping.
func GroupLines(words []Word) Lines {
	lines := make(Lines)
	for _, w := range words {
		key := LineKey{Block: w.Block, Line: w.Line}
		line := lines[key]
		line.Key = key
		line.Words = append(line.Words, w)
		lines[key] = line
	}

	for key, line := range lines {
		sort.SliceStable(line.Words, func(i, j int) bool {
			return line.Words[i].Position < line.Words[j].Position
		})
		lines[key] = line
	}

	return lines
}

// Ordered returns the lines sorted by block, then line index
func (ls Lines) Ordered() []Line {
	out := make([]Line, 0, len(ls))
	for _, l := range ls {
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Key.Block != out[j].Key.Block {
			return out[i].Key.Block < out[j].Key.Block
		}
		return out[i].Key.Line < out[j].Key.Line
	})
	return out
}
