package photoenhance

import (
	"image"
	"strings"
)

// Interpolation selects the built-in interpolation mode.
type Interpolation int

const (
	// InterpolationNearest is nearest-neighbor sampling.
	InterpolationNearest Interpolation = iota
	// InterpolationBilinear is linear sampling.
	InterpolationBilinear
	// InterpolationBicubic is cubic sampling.
	InterpolationBicubic
	// InterpolationMitchellNetravali is Mitchell-Netravali sampling.
	InterpolationMitchellNetravali
	// InterpolationLanczos2 is Lanczos sampling with a=2.
	InterpolationLanczos2
	// InterpolationLanczos3 is Lanczos sampling with a=3.
	InterpolationLanczos3
)

var interpolationNames = map[string]Interpolation{
	"nearest":  InterpolationNearest,
	"bilinear": InterpolationBilinear,
	"bicubic":  InterpolationBicubic,
	"mitchell": InterpolationMitchellNetravali,
	"lanczos2": InterpolationLanczos2,
	"lanczos3": InterpolationLanczos3,
}

// ParseInterpolation parses an interpolation name such as "lanczos2".
func ParseInterpolation(s string) (Interpolation, bool) {
	interp, ok := interpolationNames[strings.ToLower(strings.TrimSpace(s))]
	return interp, ok
}

// FitWithin downsizes img so that neither side exceeds maxDim, keeping the aspect ratio.
// Images that already fit, and maxDim <= 0, return img unchanged.
func FitWithin(img *image.NRGBA, maxDim int, interp Interpolation) *image.NRGBA {
	w, h := img.Rect.Dx(), img.Rect.Dy()
	if maxDim <= 0 || (w <= maxDim && h <= maxDim) || w <= 0 || h <= 0 {
		return img
	}
	dw, dh := fitSize(w, h, maxDim)
	if img.Rect.Min != (image.Point{}) {
		img = ToNRGBA(img)
	}
	return resampleNRGBA(img, dw, dh, interp)
}

func fitSize(w, h, maxDim int) (int, int) {
	if w >= h {
		return maxDim, max(1, (h*maxDim+w/2)/w)
	}
	return max(1, (w*maxDim+h/2)/h), maxDim
}
