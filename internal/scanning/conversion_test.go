package scanning

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/color"
	"image/png"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

// onePixelWebP is a 1x1 lossless WebP
const onePixelWebP = "UklGRhoAAABXRUJQVlA4TA0AAAAvAAAAEAcQERGIiP4HAA=="

func testImage() image.Image {
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	for x := 0; x < 2; x++ {
		for y := 0; y < 2; y++ {
			img.Set(x, y, color.RGBA{R: 200, G: 10, B: 10, A: 255})
		}
	}
	return img
}

var _ = Describe("preparePNG", func() {
	var (
		filename string
		data     []byte
		out      []byte
		err      error
	)

	JustBeforeEach(func() {
		out, err = preparePNG(data, ContentTypeFromPath(filename, data))
	})

	expectPNG := func(width, height int) {
		Expect(err).NotTo(HaveOccurred())
		img, decodeErr := png.Decode(bytes.NewReader(out))
		Expect(decodeErr).NotTo(HaveOccurred())
		Expect(img.Bounds().Dx()).To(Equal(width))
		Expect(img.Bounds().Dy()).To(Equal(height))
	}

	When("the scan is a BMP", func() {
		BeforeEach(func() {
			filename = "license.bmp"
			var buf bytes.Buffer
			Expect(bmp.Encode(&buf, testImage())).To(Succeed())
			data = buf.Bytes()
		})

		It("should convert it to PNG", func() {
			expectPNG(2, 2)
		})
	})

	When("the scan is a TIFF", func() {
		BeforeEach(func() {
			filename = "license.tiff"
			var buf bytes.Buffer
			Expect(tiff.Encode(&buf, testImage(), nil)).To(Succeed())
			data = buf.Bytes()
		})

		It("should convert it to PNG", func() {
			expectPNG(2, 2)
		})

		When("the extension is .tif", func() {
			BeforeEach(func() {
				filename = "license.tif"
			})

			It("should convert it to PNG", func() {
				expectPNG(2, 2)
			})
		})
	})

	When("the scan is a WebP", func() {
		BeforeEach(func() {
			filename = "license.webp"
			var decodeErr error
			data, decodeErr = base64.StdEncoding.DecodeString(onePixelWebP)
			Expect(decodeErr).NotTo(HaveOccurred())
		})

		It("should convert it to PNG", func() {
			expectPNG(1, 1)
		})
	})

	When("the scan is already a PNG", func() {
		BeforeEach(func() {
			filename = "license.png"
			var buf bytes.Buffer
			Expect(png.Encode(&buf, testImage())).To(Succeed())
			data = buf.Bytes()
		})

		It("should pass it through unchanged", func() {
			Expect(err).NotTo(HaveOccurred())
			Expect(out).To(Equal(data))
		})
	})

	When("the data is not an image", func() {
		BeforeEach(func() {
			filename = "license.bmp"
			data = []byte("not an image at all")
		})

		It("should return an unsupported format error", func() {
			Expect(err).To(MatchError(ContainSubstring("unsupported image format")))
		})
	})
})
