package photoenhance

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"
)

// Enhance decodes an image, applies the named preset and encodes the result.
//
// An unknown preset name falls back to the first preset. The source is bounded by
// EnhanceOptions.MaxPixels before decoding and downsized to EnhanceOptions.MaxDimension
// before the adjustment.
func Enhance(ctx context.Context, data []byte, presetName string, opts ...func(o *EnhanceOptions)) (*EnhanceResult, error) {
	if len(data) == 0 {
		return nil, ErrEmptyImage
	}

	opt := EnhanceOptions{
		MaxDimension:  defaultMaxDimension,
		MaxPixels:     defaultMaxPixels,
		Interpolation: InterpolationLanczos2,
	}
	for _, applyOpt := range opts {
		applyOpt(&opt)
	}

	info, err := Inspect(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("inspect: %w", err)
	}
	if opt.MaxPixels > 0 && info.Pixels() > opt.MaxPixels {
		return nil, fmt.Errorf("%w: %dx%d exceeds %d pixels", ErrImageTooLarge, info.Width, info.Height, opt.MaxPixels)
	}

	src, srcFormat, err := Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	work := FitWithin(ToNRGBA(src), opt.MaxDimension, opt.Interpolation)
	preset := PresetByName(presetName)

	pix, err := ApplyContext(ctx, work.Pix, preset)
	if err != nil {
		return nil, fmt.Errorf("adjust: %w", err)
	}
	work.Pix = pix

	res := EnhanceResult{
		Format:    opt.Format,
		Preset:    preset,
		SrcFormat: srcFormat,
		SrcWidth:  info.Width,
		SrcHeight: info.Height,
		Width:     work.Rect.Dx(),
		Height:    work.Rect.Dy(),
	}
	if res.Format == FormatAuto {
		res.Format = FormatPNG
		if srcFormat == "jpeg" {
			res.Format = FormatJPEG
		}
	}

	if res.Format == FormatJPEG {
		res.Quality = opt.Quality
		if res.Quality <= 0 && srcFormat == "jpeg" {
			res.Quality, _ = EstimateJPEGQuality(data)
		}
		if res.Quality <= 0 || res.Quality > 100 {
			res.Quality = defaultJPEGQuality
		}
	}

	res.Data, err = encodeResult(work, data, srcFormat, res.Format, res.Quality, opt.KeepMetadata)
	if err != nil {
		return nil, err
	}

	if opt.OnResult != nil {
		opt.OnResult(&res)
	}

	return &res, nil
}

func encodeResult(img image.Image, src []byte, srcFormat string, f Format, quality int, keepMeta bool) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, img, f, quality); err != nil {
		return nil, fmt.Errorf("encode: %w", err)
	}
	if !keepMeta || f != FormatJPEG || srcFormat != "jpeg" {
		return buf.Bytes(), nil
	}
	meta, err := ExtractJPEGMetadata(src)
	if err != nil {
		return nil, fmt.Errorf("extract metadata: %w", err)
	}
	out, err := InsertJPEGMetadata(buf.Bytes(), meta)
	if err != nil {
		return nil, fmt.Errorf("insert metadata: %w", err)
	}
	return out, nil
}

// EnhanceFile reads an image from inPath, enhances it and writes the result to outPath.
// When outPath is a directory, the result file name is used inside it.
func EnhanceFile(ctx context.Context, inPath, outPath, presetName string, opts ...func(o *EnhanceOptions)) (*EnhanceResult, error) {
	data, err := os.ReadFile(filepath.Clean(inPath))
	if err != nil {
		return nil, err
	}
	res, err := Enhance(ctx, data, presetName, opts...)
	if err != nil {
		return nil, err
	}
	if st, err := os.Stat(outPath); err == nil && st.IsDir() {
		outPath = filepath.Join(outPath, res.Filename())
	} else if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}
	if err := os.WriteFile(filepath.Clean(outPath), res.Data, 0o644); err != nil {
		return nil, fmt.Errorf("write result: %w", err)
	}
	return res, nil
}
