package photoenhance

import (
	"bytes"
	"context"
	"errors"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

func TestEnhancePNG(t *testing.T) {
	src := encodePNG(t, solid(10, 6, color.NRGBA{R: 128, G: 128, B: 128, A: 255}))

	var seen *EnhanceResult
	res, err := Enhance(context.Background(), src, "vintage-film", func(o *EnhanceOptions) {
		o.OnResult = func(r *EnhanceResult) { seen = r }
	})
	if err != nil {
		t.Fatalf("enhance: %v", err)
	}
	if seen != res {
		t.Fatalf("OnResult not called with the result")
	}
	if res.Format != FormatPNG || res.Quality != 0 || res.SrcFormat != "png" || res.Preset.Name != "Vintage Film" {
		t.Fatalf("unexpected result: %+v", res)
	}
	if res.Width != 10 || res.Height != 6 || res.SrcWidth != 10 || res.SrcHeight != 6 {
		t.Fatalf("unexpected size: %+v", res)
	}
	if res.Filename() != "enhanced-vintage-film.png" {
		t.Fatalf("filename: %s", res.Filename())
	}

	img, err := png.Decode(bytes.NewReader(res.Data))
	if err != nil {
		t.Fatalf("decode result: %v", err)
	}
	want := color.NRGBA{R: 135, G: 132, B: 128, A: 255}
	if got := color.NRGBAModel.Convert(img.At(9, 5)); got != want {
		t.Fatalf("pixel: got %v want %v", got, want)
	}
}

func TestEnhanceJPEGKeepsMetadataAndQuality(t *testing.T) {
	src := withMetadata(t, encodeJPEG(t, gradient(64, 48), 75))

	res, err := Enhance(context.Background(), src, "Golden Hour", func(o *EnhanceOptions) {
		o.KeepMetadata = true
	})
	if err != nil {
		t.Fatalf("enhance: %v", err)
	}
	if res.Format != FormatJPEG || res.Quality != 75 {
		t.Fatalf("format %v quality %d", res.Format, res.Quality)
	}
	if q, ok := EstimateJPEGQuality(res.Data); !ok || q != 75 {
		t.Fatalf("output quality %d", q)
	}

	m, err := ExtractJPEGMetadata(res.Data)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if len(m.EXIF) == 0 || len(m.ICC) != 2 || m.ColorProfile() != "Display P3" {
		t.Fatalf("metadata not carried over")
	}

	res, err = Enhance(context.Background(), src, "Golden Hour", func(o *EnhanceOptions) {
		o.Quality = 60
	})
	if err != nil {
		t.Fatalf("enhance: %v", err)
	}
	if q, _ := EstimateJPEGQuality(res.Data); q != 60 {
		t.Fatalf("explicit quality ignored: %d", q)
	}
	m, err = ExtractJPEGMetadata(res.Data)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if !m.Empty() {
		t.Fatalf("metadata must be dropped without KeepMetadata")
	}
}

func TestEnhanceFormatConversion(t *testing.T) {
	src := encodeJPEG(t, gradient(8, 8), 90)

	res, err := Enhance(context.Background(), src, "", func(o *EnhanceOptions) {
		o.Format = FormatPNG
		o.KeepMetadata = true
	})
	if err != nil {
		t.Fatalf("enhance: %v", err)
	}
	if res.Format != FormatPNG || res.Preset.Name != "Auto Enhance" {
		t.Fatalf("unexpected result: %v %s", res.Format, res.Preset.Name)
	}
	if _, err := png.Decode(bytes.NewReader(res.Data)); err != nil {
		t.Fatalf("decode png: %v", err)
	}

	res, err = Enhance(context.Background(), encodePNG(t, gradient(8, 8)), "Cool Studio", func(o *EnhanceOptions) {
		o.Format = FormatJPEG
	})
	if err != nil {
		t.Fatalf("enhance: %v", err)
	}
	if res.Quality != defaultJPEGQuality {
		t.Fatalf("png source must use the default quality, got %d", res.Quality)
	}
}

func TestEnhanceLimits(t *testing.T) {
	src := encodePNG(t, gradient(120, 80))

	_, err := Enhance(context.Background(), src, "Auto Enhance", func(o *EnhanceOptions) {
		o.MaxPixels = 120*80 - 1
	})
	if !errors.Is(err, ErrImageTooLarge) {
		t.Fatalf("expected ErrImageTooLarge, got %v", err)
	}

	res, err := Enhance(context.Background(), src, "Auto Enhance", func(o *EnhanceOptions) {
		o.MaxDimension = 60
	})
	if err != nil {
		t.Fatalf("enhance: %v", err)
	}
	if res.Width != 60 || res.Height != 40 || res.SrcWidth != 120 {
		t.Fatalf("unexpected size %dx%d", res.Width, res.Height)
	}
}

func TestEnhanceErrors(t *testing.T) {
	if _, err := Enhance(context.Background(), nil, "Auto Enhance"); !errors.Is(err, ErrEmptyImage) {
		t.Fatalf("expected ErrEmptyImage, got %v", err)
	}
	if _, err := Enhance(context.Background(), []byte("GIF89a?"), "Auto Enhance"); err == nil {
		t.Fatalf("expected error for a broken gif")
	}
	if _, err := Enhance(context.Background(), []byte("hello world"), "Auto Enhance"); !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("expected ErrUnsupportedFormat, got %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Enhance(ctx, encodePNG(t, gradient(4, 4)), "Auto Enhance"); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestEnhanceFile(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "photo.jpg")
	if err := os.WriteFile(in, encodeJPEG(t, gradient(20, 10), 85), 0o600); err != nil {
		t.Fatal(err)
	}

	res, err := EnhanceFile(context.Background(), in, dir, "Cool Studio")
	if err != nil {
		t.Fatalf("enhance file: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(dir, "enhanced-cool-studio.jpg"))
	if err != nil {
		t.Fatalf("read result: %v", err)
	}
	if !bytes.Equal(data, res.Data) {
		t.Fatalf("written data differs")
	}

	out := filepath.Join(dir, "custom.png")
	if _, err := EnhanceFile(context.Background(), in, out, "Cool Studio", func(o *EnhanceOptions) { o.Format = FormatPNG }); err != nil {
		t.Fatalf("enhance file: %v", err)
	}
	if _, err := os.Stat(out); err != nil {
		t.Fatalf("stat: %v", err)
	}

	if _, err := EnhanceFile(context.Background(), filepath.Join(dir, "missing.jpg"), out, ""); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected ErrNotExist, got %v", err)
	}
}
