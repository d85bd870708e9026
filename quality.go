package photoenhance

import (
	"github.com/vearutop/photoenhance/internal/jpegx"
)

// EstimateJPEGQuality estimates the quality setting a JPEG was encoded with by matching its
// luminance quantization table against scaled Annex K tables. It returns false if the data
// has no 8-bit luminance table.
func EstimateJPEGQuality(jpegData []byte) (int, bool) {
	var (
		quant [jpegx.BlockSize]int
		found bool
	)
	err := walkSegments(jpegData, func(marker byte, payload []byte) bool {
		if marker != markerDQT {
			return true
		}
		found = lumaQuantFromDQT(payload, &quant)
		return !found
	})
	if err != nil || !found {
		return 0, false
	}

	best, bestDiff := 0, -1
	for q := 1; q <= 100; q++ {
		diff := 0
		for k := 0; k < jpegx.BlockSize; k++ {
			d := jpegx.ScaleQuant(jpegx.LuminanceQuant[jpegx.Unzig[k]], q) - quant[k]
			if d < 0 {
				d = -d
			}
			diff += d
		}
		if bestDiff < 0 || diff < bestDiff {
			best, bestDiff = q, diff
		}
	}
	return best, true
}

// lumaQuantFromDQT copies table 0 of a DQT payload (zig-zag order) into quant.
func lumaQuantFromDQT(seg []byte, quant *[jpegx.BlockSize]int) bool {
	pos := 0
	for pos < len(seg) {
		precision := seg[pos] >> 4
		id := seg[pos] & 0x0F
		pos++
		size := jpegx.BlockSize
		if precision != 0 {
			size *= 2
		}
		if pos+size > len(seg) {
			return false
		}
		if id == 0 && precision == 0 {
			for k := 0; k < jpegx.BlockSize; k++ {
				quant[k] = int(seg[pos+k])
			}
			return true
		}
		pos += size
	}
	return false
}
