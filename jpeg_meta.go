package photoenhance

import (
	"bytes"
	"encoding/binary"
	"errors"
	"sort"
)

const (
	markerStart = 0xFF
	markerSOI   = 0xD8
	markerEOI   = 0xD9
	markerSOS   = 0xDA
	markerDQT   = 0xDB
	markerAPP1  = 0xE1
	markerAPP2  = 0xE2
)

var (
	exifSig = []byte{'E', 'x', 'i', 'f', 0, 0}
	iccSig  = []byte{'I', 'C', 'C', '_', 'P', 'R', 'O', 'F', 'I', 'L', 'E', 0}
)

var errInvalidJPEG = errors.New("invalid jpeg")

// JPEGMetadata holds the APP payloads carried over from a source JPEG.
// Payloads include their signature prefix.
type JPEGMetadata struct {
	EXIF []byte
	ICC  [][]byte // in chunk sequence order
}

// Empty reports whether there is nothing to carry over.
func (m *JPEGMetadata) Empty() bool {
	return m == nil || (len(m.EXIF) == 0 && len(m.ICC) == 0)
}

// ColorProfile guesses the color space name of the embedded ICC profile.
// It returns "sRGB" when there is no profile.
func (m *JPEGMetadata) ColorProfile() string {
	var profile []byte
	if m != nil {
		profile = joinICCProfile(m.ICC)
	}
	if len(profile) == 0 {
		return "sRGB"
	}
	lower := bytes.ToLower(profile)
	switch {
	case bytes.Contains(lower, []byte("display p3")) || bytes.Contains(lower, []byte("dci-p3")):
		return "Display P3"
	case bytes.Contains(lower, []byte("adobe rgb")) || bytes.Contains(lower, []byte("adobergb")):
		return "Adobe RGB"
	case bytes.Contains(lower, []byte("srgb")):
		return "sRGB"
	default:
		return "unknown"
	}
}

// ExtractJPEGMetadata returns the EXIF and ICC segments of a JPEG.
func ExtractJPEGMetadata(jpegData []byte) (*JPEGMetadata, error) {
	m := &JPEGMetadata{}
	type iccChunk struct {
		seq  int
		data []byte
	}
	var chunks []iccChunk

	err := walkSegments(jpegData, func(marker byte, payload []byte) bool {
		switch {
		case marker == markerAPP1 && m.EXIF == nil && bytes.HasPrefix(payload, exifSig):
			m.EXIF = append([]byte(nil), payload...)
		case marker == markerAPP2 && bytes.HasPrefix(payload, iccSig) && len(payload) >= len(iccSig)+2:
			chunks = append(chunks, iccChunk{seq: int(payload[len(iccSig)]), data: append([]byte(nil), payload...)})
		}
		return true
	})
	if err != nil {
		return nil, err
	}

	sort.SliceStable(chunks, func(i, j int) bool { return chunks[i].seq < chunks[j].seq })
	for _, c := range chunks {
		m.ICC = append(m.ICC, c.data)
	}
	return m, nil
}

// InsertJPEGMetadata returns a copy of jpegData with the metadata segments placed right after SOI.
func InsertJPEGMetadata(jpegData []byte, m *JPEGMetadata) ([]byte, error) {
	if len(jpegData) < 2 || jpegData[0] != markerStart || jpegData[1] != markerSOI {
		return nil, errInvalidJPEG
	}
	if m.Empty() {
		return jpegData, nil
	}
	var out bytes.Buffer
	out.Grow(len(jpegData) + len(m.EXIF) + 4*(len(m.ICC)+1))
	out.WriteByte(markerStart)
	out.WriteByte(markerSOI)
	if len(m.EXIF) > 0 {
		if err := writeAppSegment(&out, markerAPP1, m.EXIF); err != nil {
			return nil, err
		}
	}
	for _, seg := range m.ICC {
		if err := writeAppSegment(&out, markerAPP2, seg); err != nil {
			return nil, err
		}
	}
	out.Write(jpegData[2:])
	return out.Bytes(), nil
}

func writeAppSegment(out *bytes.Buffer, marker byte, payload []byte) error {
	if len(payload)+2 > 0xFFFF {
		return errors.New("app segment too large")
	}
	out.WriteByte(markerStart)
	out.WriteByte(marker)
	length := uint16(len(payload) + 2)
	out.WriteByte(byte(length >> 8))
	out.WriteByte(byte(length))
	out.Write(payload)
	return nil
}

// walkSegments calls fn for every marker segment before the first scan.
// Iteration stops early when fn returns false.
func walkSegments(data []byte, fn func(marker byte, payload []byte) bool) error {
	if len(data) < 4 || data[0] != markerStart || data[1] != markerSOI {
		return errInvalidJPEG
	}
	pos := 2
	for pos+3 < len(data) {
		if data[pos] != markerStart {
			pos++
			continue
		}
		for pos < len(data) && data[pos] == markerStart {
			pos++
		}
		if pos >= len(data) {
			break
		}
		marker := data[pos]
		pos++
		if marker == markerSOS || marker == markerEOI {
			return nil
		}
		if marker >= 0xD0 && marker <= 0xD7 {
			continue
		}
		if pos+1 >= len(data) {
			return errors.New("truncated marker")
		}
		segLen := int(binary.BigEndian.Uint16(data[pos:]))
		if segLen < 2 || pos+segLen > len(data) {
			return errors.New("invalid segment length")
		}
		if !fn(marker, data[pos+2:pos+segLen]) {
			return nil
		}
		pos += segLen
	}
	return nil
}

func joinICCProfile(chunks [][]byte) []byte {
	total := 0
	for _, c := range chunks {
		if len(c) > len(iccSig)+2 {
			total += len(c) - len(iccSig) - 2
		}
	}
	if total == 0 {
		return nil
	}
	out := make([]byte, 0, total)
	for _, c := range chunks {
		if len(c) > len(iccSig)+2 {
			out = append(out, c[len(iccSig)+2:]...)
		}
	}
	return out
}
