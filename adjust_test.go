package photoenhance

import (
	"bytes"
	"context"
	"errors"
	"image"
	"math"
	"math/rand"
	"testing"
)

func presetByName(t *testing.T, name string) Preset {
	t.Helper()
	p, ok := LookupPreset(name)
	if !ok {
		t.Fatalf("preset %q not found", name)
	}
	return p
}

func randomPixels(n int, seed int64) []byte {
	pix := make([]byte, n*bytesPerPixel)
	rand.New(rand.NewSource(seed)).Read(pix)
	return pix
}

func TestApplyGoldenPixels(t *testing.T) {
	cases := []struct {
		preset string
		in     [4]byte
		want   [4]byte
	}{
		{preset: "Auto Enhance", in: [4]byte{200, 150, 100, 255}, want: [4]byte{0, 0, 255, 255}},
		{preset: "Auto Enhance", in: [4]byte{128, 128, 128, 255}, want: [4]byte{137, 134, 132, 255}},
		{preset: "Auto Enhance", in: [4]byte{130, 129, 127, 17}, want: [4]byte{81, 108, 162, 17}},
		{preset: "Vintage Film", in: [4]byte{130, 129, 127, 255}, want: [4]byte{177, 153, 112, 255}},
		{preset: "Vintage Film", in: [4]byte{128, 128, 128, 0}, want: [4]byte{135, 132, 128, 0}},
	}
	for _, tc := range cases {
		pix := tc.in
		out := Apply(pix[:], presetByName(t, tc.preset))
		if !bytes.Equal(out, tc.want[:]) {
			t.Errorf("%s %v: got %v want %v", tc.preset, tc.in, out, tc.want)
		}
	}
}

func TestApplyInPlace(t *testing.T) {
	pix := []byte{10, 20, 30, 40}
	out := Apply(pix, DefaultPreset())
	if &out[0] != &pix[0] {
		t.Fatalf("Apply must return the input slice")
	}
}

func TestContrastFactor(t *testing.T) {
	if f := ContrastFactor(0); f != 1 {
		t.Fatalf("factor(0) = %v, want 1", f)
	}
	if f := ContrastFactor(1); math.Abs(f-129.5) > 1e-9 {
		t.Fatalf("factor(1) = %v, want 129.5", f)
	}
	want := map[string]float64{
		"Auto Enhance": -25.29767441860465,
		"Golden Hour":  -60.68,
		"Cool Studio":  -20.642105263157877,
		"Vintage Film": 20.38032786885248,
	}
	for _, p := range Presets() {
		if f := ContrastFactor(p.Contrast); math.Abs(f-want[p.Name]) > 1e-9 {
			t.Errorf("%s: factor %v, want %v", p.Name, f, want[p.Name])
		}
	}
}

func TestApplyIdentity(t *testing.T) {
	identity := Preset{Name: "identity", Brightness: 1, Contrast: 0, Warmth: 0, Saturation: 1}
	pix := randomPixels(4096, 1)
	want := append([]byte(nil), pix...)

	Apply(pix, identity)
	if !bytes.Equal(pix, want) {
		t.Fatalf("identity preset changed pixels")
	}
}

func TestApplyClamp(t *testing.T) {
	bright := Preset{Brightness: 3, Contrast: 0, Saturation: 1}
	pix := []byte{200, 250, 100, 255}
	Apply(pix, bright)
	if !bytes.Equal(pix, []byte{255, 255, 255, 255}) {
		t.Fatalf("got %v, want saturated white", pix)
	}

	dark := Preset{Brightness: -1, Contrast: 0, Saturation: 1}
	pix = []byte{200, 250, 100, 255}
	Apply(pix, dark)
	if !bytes.Equal(pix, []byte{0, 0, 0, 255}) {
		t.Fatalf("got %v, want black", pix)
	}
}

func TestApplyClampRandom(t *testing.T) {
	pole := 259.0 / 255
	contrasts := []float64{-3, -1, 0, 0.5, 1, 1.015, pole - 1e-6, pole, pole + 1e-6, 1.02, 1.5, 4}
	rnd := rand.New(rand.NewSource(7))
	uniform := func() float64 { return rnd.Float64()*10 - 5 }

	for i := 0; i < 200; i++ {
		p := Preset{
			Brightness: uniform(),
			Contrast:   contrasts[i%len(contrasts)],
			Warmth:     uniform(),
			Saturation: uniform(),
		}
		n := 257
		if i%25 == 0 {
			n = parallelThreshold + 3
		}
		in := randomPixels(n, int64(i))
		seq := Apply(append([]byte(nil), in...), p)
		par := ApplyParallel(append([]byte(nil), in...), p)
		if !bytes.Equal(seq, par) {
			t.Fatalf("%+v: parallel output differs", p)
		}
		for j := 3; j < len(in); j += bytesPerPixel {
			if seq[j] != in[j] {
				t.Fatalf("%+v: alpha of pixel %d changed", p, j/bytesPerPixel)
			}
		}
	}
}

func TestApplyGrayscale(t *testing.T) {
	for _, p := range Presets() {
		p.Saturation = 0
		pix := randomPixels(1024, 2)
		Apply(pix, p)
		for i := 0; i < len(pix); i += bytesPerPixel {
			if pix[i] != pix[i+1] || pix[i+1] != pix[i+2] {
				t.Fatalf("%s: pixel %d not gray: %v", p.Name, i/bytesPerPixel, pix[i:i+3])
			}
		}
	}
}

func TestChannelMultipliersWarmth(t *testing.T) {
	warm := Preset{Brightness: 1.05, Warmth: 0.07}
	cool := warm
	cool.Warmth = -warm.Warmth

	wr, wg, wb := channelMultipliers(warm)
	cr, cg, cb := channelMultipliers(cool)
	if wr != cb || wb != cr || wg != cg {
		t.Fatalf("warmth sign must swap red and blue multipliers: warm (%v %v %v), cool (%v %v %v)", wr, wg, wb, cr, cg, cb)
	}
}

func TestApplyPreservesAlpha(t *testing.T) {
	pix := randomPixels(2048, 3)
	alpha := make([]byte, 0, 2048)
	for i := 3; i < len(pix); i += bytesPerPixel {
		alpha = append(alpha, pix[i])
	}

	for _, p := range Presets() {
		Apply(pix, p)
		for i, j := 3, 0; i < len(pix); i, j = i+bytesPerPixel, j+1 {
			if pix[i] != alpha[j] {
				t.Fatalf("%s: alpha of pixel %d changed", p.Name, j)
			}
		}
	}
}

func TestApplyTrailingBytes(t *testing.T) {
	pix := []byte{128, 128, 128, 255, 1, 2, 3}
	Apply(pix, presetByName(t, "Vintage Film"))
	if !bytes.Equal(pix, []byte{135, 132, 128, 255, 1, 2, 3}) {
		t.Fatalf("got %v", pix)
	}
}

func TestToByte(t *testing.T) {
	cases := map[float64]uint8{
		-3:          0,
		math.NaN():  0,
		0.5:         0,
		1.5:         2,
		2.5:         2,
		254.5:       254,
		254.6:       255,
		300:         255,
		math.Inf(1): 255,
	}
	for in, want := range cases {
		if got := toByte(in); got != want {
			t.Errorf("toByte(%v) = %d, want %d", in, got, want)
		}
	}
}

func TestApplyParallelMatchesApply(t *testing.T) {
	for _, n := range []int{1, 1000, parallelThreshold + 123} {
		for _, p := range Presets() {
			pix := randomPixels(n, int64(n))
			want := Apply(append([]byte(nil), pix...), p)
			got := ApplyParallel(pix, p)
			if !bytes.Equal(got, want) {
				t.Fatalf("%s, %d pixels: parallel result differs", p.Name, n)
			}
		}
	}
}

func TestApplyContext(t *testing.T) {
	p := presetByName(t, "Golden Hour")
	pix := randomPixels(3*chunkPixels+5, 4)
	orig := append([]byte(nil), pix...)

	got, err := ApplyContext(context.Background(), pix, p)
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if !bytes.Equal(pix, orig) {
		t.Fatalf("input was modified")
	}
	if want := Apply(append([]byte(nil), pix...), p); !bytes.Equal(got, want) {
		t.Fatalf("result differs from Apply")
	}
}

func TestApplyContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	pix := randomPixels(16, 5)
	orig := append([]byte(nil), pix...)

	out, err := ApplyContext(ctx, pix, DefaultPreset())
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if out != nil {
		t.Fatalf("expected no result on cancellation")
	}
	if !bytes.Equal(pix, orig) {
		t.Fatalf("input was modified")
	}
}

func TestApplyContextInvalidBuffer(t *testing.T) {
	_, err := ApplyContext(context.Background(), make([]byte, 7), DefaultPreset())
	if !errors.Is(err, ErrInvalidBuffer) {
		t.Fatalf("expected ErrInvalidBuffer, got %v", err)
	}
}

func TestApplyImageSubImage(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	for i := range img.Pix {
		img.Pix[i] = 128
	}
	sub := img.SubImage(image.Rect(1, 1, 3, 3)).(*image.NRGBA)
	ApplyImage(sub, presetByName(t, "Vintage Film"))

	if got := img.NRGBAAt(1, 1); got.R != 135 || got.G != 132 || got.B != 128 || got.A != 128 {
		t.Fatalf("inner pixel: %v", got)
	}
	if got := img.NRGBAAt(0, 0); got.R != 128 || got.G != 128 || got.B != 128 {
		t.Fatalf("outer pixel changed: %v", got)
	}
	if got := img.NRGBAAt(3, 1); got.R != 128 {
		t.Fatalf("pixel right of the sub-image changed: %v", got)
	}
}

func BenchmarkApply(b *testing.B) {
	pix := randomPixels(1920*1080, 6)
	p := DefaultPreset()
	b.SetBytes(int64(len(pix)))
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		Apply(pix, p)
	}
}

func BenchmarkApplyParallel(b *testing.B) {
	pix := randomPixels(1920*1080, 6)
	p := DefaultPreset()
	b.SetBytes(int64(len(pix)))
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		ApplyParallel(pix, p)
	}
}
