package photoenhance

import (
	"context"
	"fmt"
	"image"
	"math"

	"golang.org/x/sync/errgroup"
)

// ContrastFactor returns the multiplier of the contrast remap around mid-gray.
//
// The value is 129.5 for contrast 1 and 1 for contrast 0, and it diverges as contrast*255
// approaches 259 (contrast ~1.0157). Values past that point flip the sign of the factor.
func ContrastFactor(contrast float64) float64 {
	c := float64(contrast * 255)
	return float64(259*(c+255)) / float64(255*(259-c))
}

// adjustment holds the per-call constants of a preset.
type adjustment struct {
	factor     float64
	rMul       float64
	gMul       float64
	bMul       float64
	saturation float64
}

func newAdjustment(p Preset) adjustment {
	rMul, gMul, bMul := channelMultipliers(p)
	return adjustment{
		factor:     ContrastFactor(p.Contrast),
		rMul:       rMul,
		gMul:       gMul,
		bMul:       bMul,
		saturation: p.Saturation,
	}
}

// channelMultipliers returns the brightness/warmth scale of the red, green and blue channels.
func channelMultipliers(p Preset) (r, g, b float64) {
	return p.Brightness + p.Warmth, p.Brightness, p.Brightness - p.Warmth
}

// Explicit float64 conversions prevent fused multiply-add so that results are identical on
// every architecture.
func (a adjustment) pixel(r, g, b uint8) (uint8, uint8, uint8) {
	rf := float64(a.factor*(float64(r)-midGray)) + midGray
	gf := float64(a.factor*(float64(g)-midGray)) + midGray
	bf := float64(a.factor*(float64(b)-midGray)) + midGray

	rf *= a.rMul
	gf *= a.gMul
	bf *= a.bMul

	gray := float64(lumaR*rf) + float64(lumaG*gf) + float64(lumaB*bf)

	return toByte(gray + float64((rf-gray)*a.saturation)),
		toByte(gray + float64((gf-gray)*a.saturation)),
		toByte(gray + float64((bf-gray)*a.saturation))
}

// toByte clamps v to [0, 255] and rounds half to even. NaN maps to 0.
func toByte(v float64) uint8 {
	if !(v > 0) {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(math.RoundToEven(v))
}

func adjustRange(pix []byte, a adjustment) {
	n := len(pix) - len(pix)%bytesPerPixel
	for i := 0; i < n; i += bytesPerPixel {
		pix[i], pix[i+1], pix[i+2] = a.pixel(pix[i], pix[i+1], pix[i+2])
	}
}

// Apply adjusts the RGB channels of an interleaved RGBA buffer in place and returns it.
// Alpha bytes are not touched. A trailing partial pixel is left as is.
func Apply(pix []byte, p Preset) []byte {
	adjustRange(pix, newAdjustment(p))
	return pix
}

// ApplyParallel is Apply with the buffer split across worker goroutines.
// The result is byte-identical to Apply.
func ApplyParallel(pix []byte, p Preset) []byte {
	a := newAdjustment(p)
	pixels := len(pix) / bytesPerPixel
	if pixels < parallelThreshold {
		adjustRange(pix, a)
		return pix
	}
	parallelFor(pixels, func(start, end int) {
		adjustRange(pix[start*bytesPerPixel:end*bytesPerPixel], a)
	})
	return pix
}

// ApplyContext adjusts a copy of pix and returns it. The input is never modified.
// If ctx is done before all pixels are processed, no buffer is returned.
func ApplyContext(ctx context.Context, pix []byte, p Preset) ([]byte, error) {
	if len(pix)%bytesPerPixel != 0 {
		return nil, fmt.Errorf("%w: length %d is not a multiple of %d", ErrInvalidBuffer, len(pix), bytesPerPixel)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	out := make([]byte, len(pix))
	copy(out, pix)

	a := newAdjustment(p)
	pixels := len(out) / bytesPerPixel

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workerLimit())
	for start := 0; start < pixels; start += chunkPixels {
		end := min(start+chunkPixels, pixels)
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			adjustRange(out[start*bytesPerPixel:end*bytesPerPixel], a)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// ApplyImage adjusts img in place, row by row.
func ApplyImage(img *image.NRGBA, p Preset) {
	a := newAdjustment(p)
	b := img.Rect
	w, h := b.Dx(), b.Dy()
	if w <= 0 || h <= 0 {
		return
	}
	rowBytes := w * bytesPerPixel
	parallelFor(h, func(start, end int) {
		for y := start; y < end; y++ {
			off := y * img.Stride
			adjustRange(img.Pix[off:off+rowBytes], a)
		}
	})
}
