package photoenhance

import (
	"image"
	"math"
	"sync"

	lru "github.com/hashicorp/golang-lru"
)

// kernel is a separable reconstruction filter with the given number of taps at scale 1.
type kernel struct {
	taps int
	at   func(float64) float64
}

func kernelFor(interp Interpolation) kernel {
	switch interp {
	case InterpolationBilinear:
		return kernel{taps: 2, at: linearKernel}
	case InterpolationBicubic:
		return kernel{taps: 4, at: cubicKernel}
	case InterpolationMitchellNetravali:
		return kernel{taps: 4, at: mitchellNetravaliKernel}
	case InterpolationLanczos2:
		return kernel{taps: 4, at: lanczos2Kernel}
	case InterpolationLanczos3:
		return kernel{taps: 6, at: lanczos3Kernel}
	default:
		return kernel{taps: 2, at: nearestKernel}
	}
}

// axisWeights holds, for every destination index, the first source index and
// the normalized coefficients of its taps.
type axisWeights struct {
	first  []int
	coeffs []float32
	taps   int
}

type axisKey struct {
	src, dst int
	interp   Interpolation
}

// axisWeightsCacheSize bounds the number of cached weight tables.
const axisWeightsCacheSize = 64

var axisWeightsCache = func() *lru.Cache {
	c, err := lru.New(axisWeightsCacheSize)
	if err != nil {
		panic(err)
	}
	return c
}()

var scratchPool = sync.Pool{
	New: func() any {
		buf := make([]float32, 0)
		return &buf
	},
}

func weightsFor(src, dst int, interp Interpolation) axisWeights {
	key := axisKey{src: src, dst: dst, interp: interp}
	if cached, ok := axisWeightsCache.Get(key); ok {
		return cached.(axisWeights)
	}

	k := kernelFor(interp)
	scale := float64(src) / float64(dst)
	taps := k.taps * int(math.Max(math.Ceil(scale), 1))
	shrink := math.Min(1/scale, 1)

	w := axisWeights{
		first:  make([]int, dst),
		coeffs: make([]float32, dst*taps),
		taps:   taps,
	}
	for i := 0; i < dst; i++ {
		center := scale*(float64(i)+0.5) - 0.5
		first := int(center) - taps/2 + 1
		w.first[i] = first
		row := w.coeffs[i*taps : (i+1)*taps]

		var sum float64
		for t := range row {
			v := k.at((center - float64(first+t)) * shrink)
			row[t] = float32(v)
			sum += v
		}
		if sum != 0 {
			inv := float32(1 / sum)
			for t := range row {
				row[t] *= inv
			}
		}
	}
	axisWeightsCache.Add(key, w)
	return w
}

// resampleNRGBA scales src (with origin at 0,0) to w x h pixels.
func resampleNRGBA(src *image.NRGBA, w, h int, interp Interpolation) *image.NRGBA {
	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	srcW, srcH := src.Rect.Dx(), src.Rect.Dy()
	if interp == InterpolationNearest {
		sampleNearest(dst, src, srcW, srcH)
		return dst
	}

	wx := weightsFor(srcW, w, interp)
	wy := weightsFor(srcH, h, interp)

	// Horizontal pass into a float scratch of w x srcH pixels.
	tmp := getScratch(w * srcH * bytesPerPixel)
	defer putScratch(tmp)
	parallelFor(srcH, func(start, end int) {
		for y := start; y < end; y++ {
			in := src.Pix[y*src.Stride:]
			out := tmp[y*w*bytesPerPixel:]
			for x := 0; x < w; x++ {
				var acc [4]float32
				coeffs := wx.coeffs[x*wx.taps : (x+1)*wx.taps]
				for t, c := range coeffs {
					sx := clampIndex(wx.first[x]+t, srcW) * bytesPerPixel
					acc[0] += float32(in[sx]) * c
					acc[1] += float32(in[sx+1]) * c
					acc[2] += float32(in[sx+2]) * c
					acc[3] += float32(in[sx+3]) * c
				}
				copy(out[x*bytesPerPixel:], acc[:])
			}
		}
	})

	// Vertical pass straight into the destination pixels.
	parallelFor(h, func(start, end int) {
		for y := start; y < end; y++ {
			coeffs := wy.coeffs[y*wy.taps : (y+1)*wy.taps]
			out := dst.Pix[y*dst.Stride:]
			for x := 0; x < w; x++ {
				var acc [4]float32
				for t, c := range coeffs {
					off := (clampIndex(wy.first[y]+t, srcH)*w + x) * bytesPerPixel
					acc[0] += tmp[off] * c
					acc[1] += tmp[off+1] * c
					acc[2] += tmp[off+2] * c
					acc[3] += tmp[off+3] * c
				}
				o := x * bytesPerPixel
				out[o] = clampToByte(acc[0])
				out[o+1] = clampToByte(acc[1])
				out[o+2] = clampToByte(acc[2])
				out[o+3] = clampToByte(acc[3])
			}
		}
	})
	return dst
}

func sampleNearest(dst, src *image.NRGBA, srcW, srcH int) {
	w, h := dst.Rect.Dx(), dst.Rect.Dy()
	parallelFor(h, func(start, end int) {
		for y := start; y < end; y++ {
			in := src.Pix[(y*srcH/h)*src.Stride:]
			out := dst.Pix[y*dst.Stride:]
			for x := 0; x < w; x++ {
				sx := (x * srcW / w) * bytesPerPixel
				copy(out[x*bytesPerPixel:(x+1)*bytesPerPixel], in[sx:sx+bytesPerPixel])
			}
		}
	})
}

func clampIndex(i, n int) int {
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}

func getScratch(n int) []float32 {
	bufPtr := scratchPool.Get().(*[]float32)
	buf := *bufPtr
	if cap(buf) < n {
		return make([]float32, n)
	}
	buf = buf[:n]
	clear(buf)
	return buf
}

func putScratch(buf []float32) {
	buf = buf[:0]
	scratchPool.Put(&buf)
}

func nearestKernel(in float64) float64 {
	if in >= -0.5 && in < 0.5 {
		return 1
	}
	return 0
}

func linearKernel(in float64) float64 {
	in = math.Abs(in)
	if in <= 1 {
		return 1 - in
	}
	return 0
}

func cubicKernel(in float64) float64 {
	in = math.Abs(in)
	if in <= 1 {
		return in*in*(1.5*in-2.5) + 1.0
	}
	if in <= 2 {
		return in*(in*(2.5-0.5*in)-4.0) + 2.0
	}
	return 0
}

func mitchellNetravaliKernel(in float64) float64 {
	in = math.Abs(in)
	if in <= 1 {
		return (7.0*in*in*in - 12.0*in*in + 5.33333333333) * 0.16666666666
	}
	if in <= 2 {
		return (-2.33333333333*in*in*in + 12.0*in*in - 20.0*in + 10.6666666667) * 0.16666666666
	}
	return 0
}

func sinc(x float64) float64 {
	x = math.Abs(x) * math.Pi
	if x >= 1.220703e-4 {
		return math.Sin(x) / x
	}
	return 1
}

func lanczos2Kernel(in float64) float64 {
	if in > -2 && in < 2 {
		return sinc(in) * sinc(in*0.5)
	}
	return 0
}

func lanczos3Kernel(in float64) float64 {
	if in > -3 && in < 3 {
		return sinc(in) * sinc(in*0.3333333333333333)
	}
	return 0
}

func clampToByte(v float32) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(v + 0.5)
}
