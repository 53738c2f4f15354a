package scanning

import (
	"context"
	"net/http"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/onsi/gomega/ghttp"
)

var _ = Describe("Ollama", func() {
	var (
		server     *ghttp.Server
		recognizer *Ollama
		words      []Word
		err        error
	)

	BeforeEach(func() {
		server = ghttp.NewServer()
		recognizer, err = NewOllama(server.URL(), "qwen2-vl")
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		server.Close()
	})

	JustBeforeEach(func() {
		// PNG input skips conversion
		words, err = recognizer.Recognize(context.Background(), []byte("fake png"), "image/png")
	})

	When("the model answers with words", func() {
		BeforeEach(func() {
			server.AppendHandlers(ghttp.CombineHandlers(
				ghttp.VerifyRequest(http.MethodPost, "/api/chat"),
				ghttp.VerifyContentType("application/json"),
				ghttp.RespondWithJSONEncoded(http.StatusOK, ollamaChatResponse{
					Done: true,
					Message: ollamaMessage{
						Role:    "assistant",
						Content: `{"words": [{"text": "Expiry:", "confidence": 93, "block_num": 1, "line_num": 4, "word_num": 1}]}`,
					},
				}),
			))
		})

		It("should not return an error", func() {
			Expect(err).NotTo(HaveOccurred())
		})

		It("should return the parsed words", func() {
			Expect(words).To(Equal([]Word{{Text: "Expiry:", Confidence: 93, Block: 1, Line: 4, Position: 1}}))
		})
	})

	When("the API fails", func() {
		BeforeEach(func() {
			server.AppendHandlers(ghttp.RespondWith(http.StatusInternalServerError, "model not loaded"))
		})

		It("returns the error", func() {
			Expect(err).To(MatchError(ContainSubstring("status 500")))
		})
	})
})

var _ = Describe("ContentTypeFromPath", func() {
	It("should map known extensions", func() {
		Expect(ContentTypeFromPath("scan.JPG", nil)).To(Equal("image/jpeg"))
		Expect(ContentTypeFromPath("scan.pdf", nil)).To(Equal("application/pdf"))
		Expect(ContentTypeFromPath("IMG_0001.HEIC", nil)).To(Equal("image/heic"))
		Expect(ContentTypeFromPath("scan.bmp", nil)).To(Equal("image/bmp"))
		Expect(ContentTypeFromPath("scan.TIF", nil)).To(Equal("image/tiff"))
		Expect(ContentTypeFromPath("scan.tiff", nil)).To(Equal("image/tiff"))
		Expect(ContentTypeFromPath("scan.webp", nil)).To(Equal("image/webp"))
	})

	It("should sniff unknown extensions", func() {
		png := []byte("\x89PNG\r\n\x1a\n0000000000")
		Expect(ContentTypeFromPath("upload.bin", png)).To(Equal("image/png"))
	})
})

var _ = Describe("isHEICFormat", func() {
	It("should detect a heic brand", func() {
		Expect(isHEICFormat([]byte("\x00\x00\x00\x18ftypheic0000"))).To(BeTrue())
	})

	It("should reject short or foreign data", func() {
		Expect(isHEICFormat([]byte("ftyp"))).To(BeFalse())
		Expect(isHEICFormat([]byte("\x00\x00\x00\x18ftypisom0000"))).To(BeFalse())
	})
})
