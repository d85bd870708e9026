// Package photoenhance provides a pure-Go implementation of preset-based photo color adjustment.
//
// A Preset bundles four scalar parameters (brightness, contrast, warmth, saturation) that are
// applied per pixel to an interleaved RGBA buffer. The package also contains the glue needed to
// run the adjustment on uploaded files: decoding, working-size resize, encoding, JPEG metadata
// carry-over and preview thumbnails.
package photoenhance
