package surfio

import (
	"errors"
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"

	"github.com/gogpu/surfio/internal/codec"
)

// Load decodes the image file at path into a premultiplied surface of the
// image's own size. Any format registered with the image package can be
// read: PNG, JPEG, GIF, BMP, TIFF, WebP and TGA out of the box.
func Load(path string, opts ...Option) (*Surface, error) {
	if path == "" {
		return nil, opError("load", path, ErrInvalidArgument, errors.New("empty path"))
	}
	o := buildOptions(opts)

	f, err := openFile(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	return decodeSurface(f, path, &o)
}

// Decode is Load reading the encoded image from r.
func Decode(r io.Reader, opts ...Option) (*Surface, error) {
	if r == nil {
		return nil, opError("decode", "", ErrInvalidArgument, errors.New("nil reader"))
	}
	o := buildOptions(opts)
	return decodeSurface(r, "", &o)
}

// LoadCropped decodes the image file at path and returns a surface of
// exactly targetW x targetH pixels.
//
// The image is scaled, preserving its aspect ratio, until it covers the
// target box ("fill", not "fit"), then the overflow on the single
// overflowing axis is cropped away symmetrically. The result never contains
// synthesized padding.
//
// An empty path or a non-positive target size fails with ErrInvalidArgument
// before the file is touched.
func LoadCropped(path string, targetW, targetH int, opts ...Option) (*Surface, error) {
	if path == "" {
		return nil, opError("load", path, ErrInvalidArgument, errors.New("empty path"))
	}
	if err := checkTarget(targetW, targetH); err != nil {
		return nil, opError("load", path, ErrInvalidArgument, err)
	}
	o := buildOptions(opts)
	if err := o.limits.Check(targetW, targetH); err != nil {
		return nil, opError("load", path, ErrAllocation, err)
	}

	f, err := openFile(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	return decodeCropped(f, path, targetW, targetH, &o)
}

// DecodeCropped is LoadCropped reading the encoded image from r.
func DecodeCropped(r io.Reader, targetW, targetH int, opts ...Option) (*Surface, error) {
	if r == nil {
		return nil, opError("decode", "", ErrInvalidArgument, errors.New("nil reader"))
	}
	if err := checkTarget(targetW, targetH); err != nil {
		return nil, opError("decode", "", ErrInvalidArgument, err)
	}
	o := buildOptions(opts)
	if err := o.limits.Check(targetW, targetH); err != nil {
		return nil, opError("decode", "", ErrAllocation, err)
	}
	return decodeCropped(r, "", targetW, targetH, &o)
}

func checkTarget(w, h int) error {
	if w <= 0 || h <= 0 {
		return fmt.Errorf("target size %dx%d must be positive", w, h)
	}
	return nil
}

func openFile(path string) (*os.File, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, opError("decode", path, ErrDecode, err)
	}
	return f, nil
}

// decodeSamples runs the decode provider and classifies its failures.
// Header dimensions over the limits are an allocation failure even when the
// data behind the header is corrupt; nothing beyond the header is read then.
// The returned buffer is never pooled, so a source-sized buffer does not
// outlive the call.
func decodeSamples(r io.Reader, path string, o *options) (*image.NRGBA, error) {
	src, _, err := codec.Decode(r, o.limits)
	if err != nil {
		if errors.Is(err, codec.ErrTooLarge) {
			return nil, opError("decode", path, ErrAllocation, err)
		}
		return nil, opError("decode", path, ErrDecode, err)
	}
	if src.Rect.Empty() {
		return nil, opError("decode", path, ErrDecode, errors.New("empty image"))
	}
	return src, nil
}

func decodeSurface(r io.Reader, path string, o *options) (*Surface, error) {
	src, err := decodeSamples(r, path, o)
	if err != nil {
		return nil, err
	}
	return ToSurface(src)
}

func decodeCropped(r io.Reader, path string, targetW, targetH int, o *options) (*Surface, error) {
	src, err := decodeSamples(r, path, o)
	if err != nil {
		return nil, err
	}

	srcW, srcH := src.Rect.Dx(), src.Rect.Dy()
	newW, newH := fillSize(srcW, srcH, targetW, targetH)
	if err := o.limits.Check(newW, newH); err != nil {
		return nil, opError("resample", path, ErrAllocation, err)
	}

	scaled := src
	if newW != srcW || newH != srcH {
		scaled = o.pool.Get(newW, newH)
		defer o.pool.Put(scaled)
		if err := o.resizerOrDefault().Resize(scaled, src); err != nil {
			return nil, opError("resample", path, ErrResample, err)
		}
	}

	dst, err := NewSurface(targetW, targetH)
	if err != nil {
		return nil, err
	}

	offX, offY := cropOffset(newW, newH, targetW, targetH)
	Logger().Debug("surfio: crop to fill",
		"path", path,
		"src", image.Pt(srcW, srcH),
		"scaled", image.Pt(newW, newH),
		"target", image.Pt(targetW, targetH),
		"offset", image.Pt(offX, offY))

	for y := range targetH {
		premultiplyRow(dst.Row(y), scaled.Pix[scaled.PixOffset(offX, offY+y):])
	}
	return dst, nil
}

// fillSize returns the size that covers the target box while keeping the
// source aspect ratio. One dimension equals the target's, the other is at
// least the target's.
func fillSize(srcW, srcH, targetW, targetH int) (int, int) {
	sw, sh := int64(srcW), int64(srcH)
	tw, th := int64(targetW), int64(targetH)
	if sh*tw > th*sw {
		return targetW, int(tw * sh / sw)
	}
	return int(th * sw / sh), targetH
}

// cropOffset centers the target window on the overflowing axis.
func cropOffset(scaledW, scaledH, targetW, targetH int) (x, y int) {
	if scaledH > targetH {
		return 0, (scaledH - targetH) / 2
	}
	return (scaledW - targetW) / 2, 0
}
