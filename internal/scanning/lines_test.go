package scanning

import (
	"encoding/json"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("GroupLines", func() {
	var (
		words []Word
		lines Lines
	)

	JustBeforeEach(func() {
		lines = GroupLines(words)
	})

	When("words come from several blocks out of order", func() {
		BeforeEach(func() {
			words = []Word{
				{Text: "Smith", Confidence: 90, Block: 1, Line: 1, Position: 3},
				{Text: "LMV", Confidence: 85, Block: 2, Line: 1, Position: 1},
				{Text: "Name:", Confidence: 90, Block: 1, Line: 1, Position: 1},
				{Text: "John", Confidence: 90, Block: 1, Line: 1, Position: 2},
				{Text: "Class:", Confidence: 85, Block: 1, Line: 2, Position: 1},
			}
		})

		It("should create one line per block and line index", func() {
			Expect(lines).To(HaveLen(3))
			Expect(lines).To(HaveKey(LineKey{Block: 1, Line: 1}))
			Expect(lines).To(HaveKey(LineKey{Block: 1, Line: 2}))
			Expect(lines).To(HaveKey(LineKey{Block: 2, Line: 1}))
		})

		It("should sort words by position", func() {
			Expect(lines[LineKey{Block: 1, Line: 1}].Text()).To(Equal("Name: John Smith"))
		})

		It("should put every word in exactly one line", func() {
			total := 0
			for _, l := range lines {
				total += len(l.Words)
			}
			Expect(total).To(Equal(len(words)))
		})

		It("should order lines by block then line", func() {
			ordered := lines.Ordered()
			Expect(ordered).To(HaveLen(3))
			Expect(ordered[0].Key).To(Equal(LineKey{Block: 1, Line: 1}))
			Expect(ordered[1].Key).To(Equal(LineKey{Block: 1, Line: 2}))
			Expect(ordered[2].Key).To(Equal(LineKey{Block: 2, Line: 1}))
		})

		It("should marshal with readable keys", func() {
			data, err := json.Marshal(lines)
			Expect(err).NotTo(HaveOccurred())
			Expect(string(data)).To(ContainSubstring(`"block_2_line_1"`))
		})
	})

	When("there are no words", func() {
		BeforeEach(func() {
			words = nil
		})

		It("should return an empty mapping", func() {
			Expect(lines).To(BeEmpty())
		})
	})
})
