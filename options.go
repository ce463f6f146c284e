package surfio

import (
	"image"

	"github.com/gogpu/surfio/internal/codec"
	"github.com/gogpu/surfio/internal/resample"
	"github.com/gogpu/surfio/internal/sample"
)

// Format identifies a file format a surface can be saved as.
type Format = codec.Format

// Save formats.
const (
	// FormatPNG is lossless PNG, also used for paths without an extension.
	FormatPNG = codec.FormatPNG

	// FormatBMP is lossless 32-bit BMP.
	FormatBMP = codec.FormatBMP

	// FormatJPEG is JPEG at DefaultQuality unless WithQuality says otherwise.
	FormatJPEG = codec.FormatJPEG

	// FormatTGA is lossless run-length encoded TGA.
	FormatTGA = codec.FormatTGA
)

// DefaultQuality is the quality parameter handed to encoders by default.
const DefaultQuality = codec.DefaultQuality

// Encoder writes straight-alpha samples in one file format.
type Encoder = codec.Encoder

// EncoderFunc adapts a function to the Encoder interface.
type EncoderFunc = codec.EncoderFunc

// InterpolationMode selects the kernel of the default resizer.
type InterpolationMode = resample.InterpolationMode

// Interpolation modes.
const (
	// InterpNearest selects the closest pixel.
	InterpNearest = resample.InterpNearest

	// InterpBilinear is the default: linear weights, area-preserving when
	// downscaling.
	InterpBilinear = resample.InterpBilinear

	// InterpBicubic uses the Catmull-Rom kernel.
	InterpBicubic = resample.InterpBicubic
)

// ParseInterpolation maps "nearest", "bilinear" or "bicubic" to a mode.
func ParseInterpolation(name string) (InterpolationMode, bool) {
	return resample.ParseInterpolation(name)
}

// Resizer scales the whole of src onto the whole of dst. Both buffers hold
// straight-alpha samples. Implementations must not retain either buffer.
type Resizer interface {
	Resize(dst, src *image.NRGBA) error
}

// Option configures a load or save call.
//
// Example:
//
//	s, err := surfio.LoadCropped("photo.jpg", 256, 256,
//	    surfio.WithInterpolation(surfio.InterpBicubic))
type Option func(*options)

// options holds the configuration of a single call.
type options struct {
	resizer  Resizer
	interp   InterpolationMode
	encoders map[Format]Encoder
	quality  int
	limits   codec.Limits
	pool     *sample.Pool
}

// defaultOptions returns the default call options.
func defaultOptions() options {
	return options{
		interp:  InterpBilinear,
		quality: DefaultQuality,
		limits:  codec.DefaultLimits,
		pool:    sample.Default(),
	}
}

func buildOptions(opts []Option) options {
	o := defaultOptions()
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return o
}

// WithResizer replaces the resize provider used by LoadCropped.
func WithResizer(r Resizer) Option {
	return func(o *options) {
		o.resizer = r
	}
}

// WithInterpolation selects the kernel of the default resizer.
// It has no effect when WithResizer is also given.
func WithInterpolation(m InterpolationMode) Option {
	return func(o *options) {
		o.interp = m
	}
}

// WithEncoder overrides the encoder used for format f.
func WithEncoder(f Format, e Encoder) Option {
	return func(o *options) {
		if o.encoders == nil {
			o.encoders = make(map[Format]Encoder)
		}
		o.encoders[f] = e
	}
}

// WithQuality sets the quality parameter handed to the encoder.
// Only JPEG interprets it; values are clamped to 1..100 there.
func WithQuality(q int) Option {
	return func(o *options) {
		o.quality = q
	}
}

// WithMaxPixels bounds the pixel count of any buffer a call allocates.
// Zero or a negative value removes the bound.
func WithMaxPixels(n int64) Option {
	return func(o *options) {
		o.limits.MaxPixels = max(n, 0)
	}
}

// WithMaxDimension bounds the width and height of any buffer a call
// allocates. Zero or a negative value removes the bound.
func WithMaxDimension(n int) Option {
	return func(o *options) {
		o.limits.MaxDimension = max(n, 0)
	}
}

func withPool(p *sample.Pool) Option {
	return func(o *options) {
		o.pool = p
	}
}

func (o *options) resizerOrDefault() Resizer {
	if o.resizer != nil {
		return o.resizer
	}
	return resample.Resizer{Mode: o.interp}
}

func (o *options) encoder(f Format) (Encoder, error) {
	if e, ok := o.encoders[f]; ok && e != nil {
		return e, nil
	}
	return codec.DefaultEncoder(f)
}
