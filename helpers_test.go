package photoenhance

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"
)

func gradient(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{
				R: uint8(x * 255 / max(1, w-1)),
				G: uint8(y * 255 / max(1, h-1)),
				B: 96,
				A: 255,
			})
		}
	}
	return img
}

func solid(w, h int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(img.Pix); i += bytesPerPixel {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = c.R, c.G, c.B, c.A
	}
	return img
}

func encodeJPEG(t testing.TB, img image.Image, quality int) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
		t.Fatalf("encode jpeg: %v", err)
	}
	return buf.Bytes()
}

func encodePNG(t testing.TB, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

// withMetadata inserts a fake EXIF segment and a two-chunk ICC profile.
func withMetadata(t testing.TB, jpegData []byte) []byte {
	t.Helper()
	exif := append(append([]byte(nil), exifSig...), "MM\x00\x2a\x00\x00\x00\x08"...)
	icc1 := append(append([]byte(nil), iccSig...), 1, 2)
	icc1 = append(icc1, "profile Display "...)
	icc2 := append(append([]byte(nil), iccSig...), 2, 2)
	icc2 = append(icc2, "P3 data"...)

	// Chunks out of order, Extract must sort them.
	out, err := InsertJPEGMetadata(jpegData, &JPEGMetadata{EXIF: exif, ICC: [][]byte{icc2, icc1}})
	if err != nil {
		t.Fatalf("insert metadata: %v", err)
	}
	return out
}
