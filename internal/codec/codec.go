package codec

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"

	// Decoders reachable through image.Decode.
	_ "image/gif"

	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/gogpu/surfio/internal/tga"
)

// Codec errors.
var (
	// ErrTooLarge is returned when an image exceeds the configured limits.
	ErrTooLarge = errors.New("codec: image too large")

	// ErrUnknownFormat is returned when no encoder exists for a format.
	ErrUnknownFormat = errors.New("codec: unknown format")
)

// DefaultQuality is the JPEG quality used when none is configured.
const DefaultQuality = 80

// Limits bounds the size of buffers allocated for a single image.
// Zero fields mean no limit.
type Limits struct {
	MaxDimension int
	MaxPixels    int64
}

// DefaultLimits caps images at 32768 pixels per side and 64 Mi pixels in
// total, keeping a single sample buffer under 256 MiB.
var DefaultLimits = Limits{
	MaxDimension: 32768,
	MaxPixels:    64 * 1024 * 1024,
}

// Check returns ErrTooLarge if a width x height buffer exceeds the limits.
func (l Limits) Check(width, height int) error {
	if l.MaxDimension > 0 && (width > l.MaxDimension || height > l.MaxDimension) {
		return fmt.Errorf("%w: %dx%d exceeds %d per side", ErrTooLarge, width, height, l.MaxDimension)
	}
	if l.MaxPixels > 0 && int64(width)*int64(height) > l.MaxPixels {
		return fmt.Errorf("%w: %d pixels exceeds %d", ErrTooLarge, int64(width)*int64(height), l.MaxPixels)
	}
	return nil
}

// Decode reads an image in any registered format and returns it as a
// straight-alpha sample buffer anchored at the origin, together with the
// format name. The image header is checked against limits before the pixel
// data is decoded, so dimensions over the limits are reported as
// ErrTooLarge even when the pixel data behind them is corrupt.
//
// The returned buffer is freshly allocated and owned by the caller.
func Decode(r io.Reader, limits Limits) (*image.NRGBA, string, error) {
	var head bytes.Buffer
	cfg, name, err := image.DecodeConfig(io.TeeReader(r, &head))
	if err != nil {
		return nil, "", err
	}
	if err := limits.Check(cfg.Width, cfg.Height); err != nil {
		return nil, name, err
	}

	img, name, err := image.Decode(io.MultiReader(&head, r))
	if err != nil {
		return nil, name, err
	}
	b := img.Bounds()
	slogger().Debug("codec: decoded image", "format", name, "width", b.Dx(), "height", b.Dy())

	if nrgba, ok := img.(*image.NRGBA); ok && b.Min == (image.Point{}) {
		return nrgba, name, nil
	}
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	xdraw.Draw(dst, dst.Bounds(), img, b.Min, xdraw.Src)
	return dst, name, nil
}

// Encoder writes straight-alpha samples in one file format.
// quality is only meaningful to lossy formats.
type Encoder interface {
	Encode(w io.Writer, img image.Image, quality int) error
}

// EncoderFunc adapts a function to the Encoder interface.
type EncoderFunc func(w io.Writer, img image.Image, quality int) error

// Encode calls f(w, img, quality).
func (f EncoderFunc) Encode(w io.Writer, img image.Image, quality int) error {
	return f(w, img, quality)
}

var defaultEncoders = [formatCount]Encoder{
	FormatPNG:  EncoderFunc(encodePNG),
	FormatBMP:  EncoderFunc(encodeBMP),
	FormatJPEG: EncoderFunc(encodeJPEG),
	FormatTGA:  EncoderFunc(encodeTGA),
}

// DefaultEncoder returns the built-in encoder for f.
func DefaultEncoder(f Format) (Encoder, error) {
	if !f.IsValid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownFormat, f)
	}
	return defaultEncoders[f], nil
}

func encodePNG(w io.Writer, img image.Image, _ int) error {
	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("codec: encode PNG: %w", err)
	}
	return nil
}

func encodeBMP(w io.Writer, img image.Image, _ int) error {
	if err := writeBMP(w, img); err != nil {
		return fmt.Errorf("codec: encode BMP: %w", err)
	}
	return nil
}

func encodeJPEG(w io.Writer, img image.Image, quality int) error {
	if quality < 1 {
		quality = 1
	}
	if quality > 100 {
		quality = 100
	}
	if err := jpeg.Encode(w, opaqueRGB(img), &jpeg.Options{Quality: quality}); err != nil {
		return fmt.Errorf("codec: encode JPEG: %w", err)
	}
	return nil
}

// encodeTGA ignores quality: TGA output is always lossless.
func encodeTGA(w io.Writer, img image.Image, _ int) error {
	if err := tga.Encode(w, img, nil); err != nil {
		return fmt.Errorf("codec: encode TGA: %w", err)
	}
	return nil
}

// opaqueRGB copies the straight colour channels of img into an opaque
// image. JPEG has no alpha, and reading a translucent NRGBA through
// At().RGBA() would premultiply it again.
func opaqueRGB(img image.Image) *image.RGBA {
	b := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	src, ok := img.(*image.NRGBA)
	if !ok {
		src = image.NewNRGBA(dst.Rect)
		xdraw.Draw(src, src.Rect, img, b.Min, xdraw.Src)
		b = src.Rect
	}
	for y := range dst.Rect.Dy() {
		s := src.Pix[src.PixOffset(b.Min.X, b.Min.Y+y):]
		d := dst.Pix[y*dst.Stride : y*dst.Stride+dst.Rect.Dx()*4]
		for i := 0; i < len(d); i += 4 {
			d[i+0], d[i+1], d[i+2], d[i+3] = s[i+0], s[i+1], s[i+2], 0xff
		}
	}
	return dst
}
