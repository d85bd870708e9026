package photoenhance

const (
	bytesPerPixel = 4
	midGray       = 128.0
)

// Luminance weights used as the desaturation target.
const (
	lumaR = 0.30
	lumaG = 0.59
	lumaB = 0.11
)

const (
	defaultJPEGQuality  = 92
	defaultMaxDimension = 4096
	defaultMaxPixels    = 50_000_000
	defaultPreviewSize  = 160

	// parallelThreshold is the pixel count below which the adjustment runs on the calling goroutine.
	parallelThreshold = 1 << 16
	// chunkPixels is the number of pixels processed by one ApplyContext task.
	chunkPixels = 1 << 15
)
