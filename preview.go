package photoenhance

import (
	"context"
	"image"

	"github.com/nfnt/resize"
	"golang.org/x/sync/errgroup"
)

// Preview is a small adjusted rendition of an image for one preset.
type Preview struct {
	Preset Preset
	Image  *image.NRGBA
}

// Thumbnail downsizes img to fit within maxW x maxH, keeping the aspect ratio.
// Images that already fit are returned unchanged.
func Thumbnail(img image.Image, maxW, maxH uint) image.Image {
	return resize.Thumbnail(maxW, maxH, img, resize.Lanczos3)
}

// PreviewPresets renders a thumbnail of img no larger than size x size for every preset,
// in catalog order. Size 0 uses the default preview size.
func PreviewPresets(ctx context.Context, img image.Image, size uint) ([]Preview, error) {
	if size == 0 {
		size = defaultPreviewSize
	}
	if img.Bounds().Empty() {
		return nil, ErrEmptyImage
	}
	base := ToNRGBA(Thumbnail(img, size, size))

	presets := Presets()
	out := make([]Preview, len(presets))

	g, ctx := errgroup.WithContext(ctx)
	for i, p := range presets {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			thumb := ToNRGBA(base)
			ApplyImage(thumb, p)
			out[i] = Preview{Preset: p, Image: thumb}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
