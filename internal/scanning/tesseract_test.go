package scanning

import (
	"image"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/otiai10/gosseract/v2"
)

var _ = Describe("wordsFromBoxes", func() {
	var (
		boxes []gosseract.BoundingBox
		words []Word
	)

	JustBeforeEach(func() {
		words = wordsFromBoxes(boxes)
	})

	When("tesseract returns word boxes", func() {
		BeforeEach(func() {
			boxes = []gosseract.BoundingBox{
				{Box: image.Rect(10, 10, 60, 30), Word: "Name:", Confidence: 91.2, BlockNum: 2, ParNum: 1, LineNum: 3, WordNum: 1},
				{Box: image.Rect(70, 10, 120, 30), Word: " JOHN ", Confidence: 96.5, BlockNum: 2, ParNum: 1, LineNum: 3, WordNum: 2},
			}
		})

		It("should map text, confidence and position", func() {
			Expect(words).To(Equal([]Word{
				{Text: "Name:", Confidence: 91.2, Block: 2, Line: 3, Position: 1},
				{Text: "JOHN", Confidence: 96.5, Block: 2, Line: 3, Position: 2},
			}))
		})
	})

	When("some boxes are unusable", func() {
		BeforeEach(func() {
			boxes = []gosseract.BoundingBox{
				{Word: "LMV", Confidence: 88, BlockNum: 1, LineNum: 1, WordNum: 1},
				{Word: "~", Confidence: 0, BlockNum: 1, LineNum: 1, WordNum: 2},
				{Word: "   ", Confidence: 70, BlockNum: 1, LineNum: 1, WordNum: 3},
				{Word: "x", Confidence: -1, BlockNum: 1, LineNum: 1, WordNum: 4},
			}
		})

		It("should drop empty and zero-confidence words", func() {
			Expect(words).To(HaveLen(1))
			Expect(words[0].Text).To(Equal("LMV"))
		})
	})

	When("there are no boxes", func() {
		BeforeEach(func() {
			boxes = nil
		})

		It("should return an empty list", func() {
			Expect(words).To(BeEmpty())
		})
	})
})
