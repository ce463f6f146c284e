// Package resample scales straight-alpha sample buffers.
//
// It is the default resize provider of surfio and is a thin layer over the
// interpolators of golang.org/x/image/draw.
package resample

import (
	"errors"
	"image"

	xdraw "golang.org/x/image/draw"
)

// ErrEmpty is returned when either the source or the destination has no pixels.
var ErrEmpty = errors.New("resample: empty image")

// InterpolationMode selects the resampling kernel.
type InterpolationMode uint8

const (
	// InterpNearest selects the closest pixel (no interpolation).
	// Fast but produces blocky results when scaling.
	InterpNearest InterpolationMode = iota

	// InterpBilinear performs linear interpolation. When downscaling the
	// kernel support grows with the scale factor, so the result is
	// area-preserving rather than aliased.
	InterpBilinear

	// InterpBicubic uses the Catmull-Rom kernel.
	// Highest quality but slower than bilinear.
	InterpBicubic
)

// String returns a string representation of the interpolation mode.
func (m InterpolationMode) String() string {
	switch m {
	case InterpNearest:
		return "Nearest"
	case InterpBilinear:
		return "Bilinear"
	case InterpBicubic:
		return "Bicubic"
	default:
		return "Unknown"
	}
}

// ParseInterpolation maps a case-sensitive lower-case name ("nearest",
// "bilinear", "bicubic") to a mode.
func ParseInterpolation(name string) (InterpolationMode, bool) {
	switch name {
	case "nearest":
		return InterpNearest, true
	case "bilinear":
		return InterpBilinear, true
	case "bicubic":
		return InterpBicubic, true
	default:
		return 0, false
	}
}

func (m InterpolationMode) interpolator() xdraw.Interpolator {
	switch m {
	case InterpNearest:
		return xdraw.NearestNeighbor
	case InterpBicubic:
		return xdraw.CatmullRom
	default:
		return xdraw.BiLinear
	}
}

// Resizer scales src into dst, filling dst.Bounds() entirely.
type Resizer struct {
	Mode InterpolationMode
}

// Resize scales the whole of src onto the whole of dst.
// Every channel, alpha included, is resampled; colour is weighted by alpha
// so that transparent neighbours do not bleed into opaque pixels.
func (r Resizer) Resize(dst, src *image.NRGBA) error {
	if dst == nil || src == nil {
		return ErrEmpty
	}
	sr, dr := src.Bounds(), dst.Bounds()
	if sr.Empty() || dr.Empty() {
		return ErrEmpty
	}

	if sr.Size() == dr.Size() {
		for y := range sr.Dy() {
			copy(dst.Pix[dst.PixOffset(dr.Min.X, dr.Min.Y+y):][:dr.Dx()*4],
				src.Pix[src.PixOffset(sr.Min.X, sr.Min.Y+y):][:sr.Dx()*4])
		}
		return nil
	}

	r.Mode.interpolator().Scale(dst, dr, src, sr, xdraw.Src, nil)
	return nil
}
