package photoenhance

import (
	"errors"
	"strings"
)

var (
	// ErrEmptyImage is returned for images with no pixels.
	ErrEmptyImage = errors.New("empty image")
	// ErrUnsupportedFormat is returned when the input cannot be decoded or the output format is unknown.
	ErrUnsupportedFormat = errors.New("unsupported image format")
	// ErrImageTooLarge is returned when the decoded image would exceed the pixel limit.
	ErrImageTooLarge = errors.New("image too large")
	// ErrCorruptImage is returned when a recognized image fails to decode.
	ErrCorruptImage = errors.New("corrupt image")
	// ErrInvalidBuffer is returned when a pixel buffer length is not a multiple of 4.
	ErrInvalidBuffer = errors.New("invalid pixel buffer")
)

// Format identifies an output encoding.
type Format int

const (
	// FormatAuto keeps JPEG for JPEG input and uses PNG otherwise.
	FormatAuto Format = iota
	FormatPNG
	FormatJPEG
)

// ParseFormat parses an output format name. Empty and "auto" map to FormatAuto.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return FormatAuto, nil
	case "png":
		return FormatPNG, nil
	case "jpeg", "jpg":
		return FormatJPEG, nil
	default:
		return FormatAuto, ErrUnsupportedFormat
	}
}

func (f Format) String() string {
	switch f {
	case FormatPNG:
		return "png"
	case FormatJPEG:
		return "jpeg"
	default:
		return "auto"
	}
}

// Ext returns the file extension, without the dot.
func (f Format) Ext() string {
	if f == FormatJPEG {
		return "jpg"
	}
	return "png"
}

// ContentType returns the MIME type of the encoding.
func (f Format) ContentType() string {
	if f == FormatJPEG {
		return "image/jpeg"
	}
	return "image/png"
}

// Info describes an encoded image without decoding its pixels.
type Info struct {
	Format string // decoder name, e.g. "jpeg", "png", "webp"
	Width  int
	Height int
}

// Pixels returns Width*Height.
func (i Info) Pixels() int {
	return i.Width * i.Height
}

// EnhanceOptions controls the Enhance pipeline.
type EnhanceOptions struct {
	Format Format
	// Quality is the JPEG quality (1-100). Zero keeps the estimated quality of a JPEG source
	// or uses the default.
	Quality int
	// MaxDimension bounds the longest side of the working image, <= 0 disables downsizing.
	MaxDimension int
	// MaxPixels bounds the source pixel count, <= 0 disables the check.
	MaxPixels     int
	Interpolation Interpolation
	// KeepMetadata copies EXIF and ICC segments of a JPEG source into a JPEG result.
	KeepMetadata bool
	OnResult     func(res *EnhanceResult)
}

// EnhanceResult contains the encoded adjusted image.
type EnhanceResult struct {
	Data      []byte
	Format    Format
	Quality   int // zero for PNG
	Preset    Preset
	SrcFormat string
	SrcWidth  int
	SrcHeight int
	Width     int
	Height    int
}

// Filename returns a download file name for the result.
func (r *EnhanceResult) Filename() string {
	return "enhanced-" + r.Preset.Slug() + "." + r.Format.Ext()
}
