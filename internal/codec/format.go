// Package codec provides the decode and encode providers used by surfio.
//
// Decoding goes through the standard image registry so every registered
// format (PNG, JPEG, GIF, BMP, TIFF, WebP, TGA) can be loaded. Encoding is
// limited to the formats a surface can be saved as.
package codec

import (
	"path/filepath"

	"golang.org/x/text/cases"
)

// Format identifies an encodable file format.
type Format uint8

const (
	// FormatPNG is lossless PNG. It is also the format used for paths
	// without an extension.
	FormatPNG Format = iota

	// FormatBMP is an uncompressed 32-bit BMP.
	FormatBMP

	// FormatJPEG is baseline JPEG. Alpha is discarded.
	FormatJPEG

	// FormatTGA is a run-length encoded 32-bit Truevision TGA.
	FormatTGA

	// formatCount is the number of formats (for internal use).
	formatCount
)

// FormatInfo contains metadata about a file format.
type FormatInfo struct {
	// Name is the short format name.
	Name string

	// Extension is the canonical file extension, including the dot.
	Extension string

	// Lossless reports whether encoding preserves every sample exactly.
	Lossless bool
}

var formatInfoTable = [formatCount]FormatInfo{
	FormatPNG:  {Name: "PNG", Extension: ".png", Lossless: true},
	FormatBMP:  {Name: "BMP", Extension: ".bmp", Lossless: true},
	FormatJPEG: {Name: "JPEG", Extension: ".jpg", Lossless: false},
	FormatTGA:  {Name: "TGA", Extension: ".tga", Lossless: true},
}

// Info returns the FormatInfo for this format.
func (f Format) Info() FormatInfo {
	if f >= formatCount {
		return FormatInfo{}
	}
	return formatInfoTable[f]
}

// String returns the short format name.
func (f Format) String() string {
	if !f.IsValid() {
		return "Unknown"
	}
	return f.Info().Name
}

// Extension returns the canonical file extension, including the dot.
func (f Format) Extension() string {
	return f.Info().Extension
}

// Lossless reports whether the format round-trips samples exactly.
func (f Format) Lossless() bool {
	return f.Info().Lossless
}

// IsValid returns true if the format is a valid known format.
func (f Format) IsValid() bool {
	return f < formatCount
}

// Formats returns every encodable format in declaration order.
func Formats() []Format {
	out := make([]Format, 0, formatCount)
	for f := range formatCount {
		out = append(out, f)
	}
	return out
}

// FromExtension maps a file extension (with the leading dot) to a format,
// ignoring case. An empty extension maps to PNG.
func FromExtension(ext string) (Format, bool) {
	if ext == "" {
		return FormatPNG, true
	}
	folded := cases.Fold().String(ext)
	for f, info := range formatInfoTable {
		if folded == info.Extension {
			return Format(f), true
		}
	}
	return 0, false
}

// FromPath maps the last extension of the final path element to a format.
// Dots in directory names are ignored.
func FromPath(path string) (Format, bool) {
	return FromExtension(filepath.Ext(path))
}
