package photoenhance

import (
	"bufio"
	"errors"
	"fmt"
	"image"
	"image/draw"
	_ "image/gif" // Register GIF decoder.
	"image/jpeg"
	"image/png"
	"io"

	_ "golang.org/x/image/bmp"  // Register BMP decoder.
	_ "golang.org/x/image/tiff" // Register TIFF decoder.
	_ "golang.org/x/image/webp" // Register WebP decoder.
)

// Inspect reads only the image header and reports its format and dimensions.
func Inspect(r io.Reader) (Info, error) {
	cfg, format, err := image.DecodeConfig(bufio.NewReader(r))
	if err != nil {
		return Info{}, decodeError(err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return Info{}, ErrEmptyImage
	}
	return Info{Format: format, Width: cfg.Width, Height: cfg.Height}, nil
}

// Decode decodes an image in any registered format and returns the decoder name.
func Decode(r io.Reader) (image.Image, string, error) {
	img, format, err := image.Decode(bufio.NewReader(r))
	if err != nil {
		return nil, "", decodeError(err)
	}
	if img.Bounds().Empty() {
		return nil, "", ErrEmptyImage
	}
	return img, format, nil
}

func decodeError(err error) error {
	if errors.Is(err, image.ErrFormat) {
		return ErrUnsupportedFormat
	}
	return fmt.Errorf("decode: %w: %w", ErrCorruptImage, err)
}

// ToNRGBA returns a copy of img as non-premultiplied RGBA with the origin at (0, 0).
// This is the same layout as a canvas pixel buffer.
func ToNRGBA(img image.Image) *image.NRGBA {
	b := img.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	switch src := img.(type) {
	case *image.NRGBA:
		rowBytes := b.Dx() * bytesPerPixel
		for y := 0; y < b.Dy(); y++ {
			so := src.PixOffset(b.Min.X, b.Min.Y+y)
			copy(dst.Pix[y*dst.Stride:y*dst.Stride+rowBytes], src.Pix[so:so+rowBytes])
		}
	default:
		draw.Draw(dst, dst.Rect, img, b.Min, draw.Src)
	}
	return dst
}

// Encode writes img in the given format. Quality applies to JPEG only, values outside
// 1-100 use the default. FormatAuto encodes PNG.
func Encode(w io.Writer, img image.Image, f Format, quality int) error {
	switch f {
	case FormatJPEG:
		if quality < 1 || quality > 100 {
			quality = defaultJPEGQuality
		}
		return jpeg.Encode(w, img, &jpeg.Options{Quality: quality})
	case FormatPNG, FormatAuto:
		enc := png.Encoder{CompressionLevel: png.DefaultCompression}
		return enc.Encode(w, img)
	default:
		return ErrUnsupportedFormat
	}
}
