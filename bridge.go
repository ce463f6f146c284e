package surfio

import (
	"encoding/binary"
	"fmt"
	"image"
)

// ToSurface converts straight-alpha samples into a newly allocated, tightly
// packed premultiplied surface of the same size.
//
// Each channel is scaled with truncating integer division, c' = c*a/255. The
// truncation is part of the format contract and keeps round trips
// deterministic.
func ToSurface(samples *image.NRGBA) (*Surface, error) {
	if samples == nil {
		return nil, fmt.Errorf("surfio: to surface: %w: nil samples", ErrInvalidArgument)
	}
	b := samples.Bounds()
	s, err := NewSurface(b.Dx(), b.Dy())
	if err != nil {
		return nil, err
	}
	for y := range s.Height {
		premultiplyRow(s.Row(y), samples.Pix[samples.PixOffset(b.Min.X, b.Min.Y+y):])
	}
	return s, nil
}

// ToSamples converts a surface into a newly allocated, tightly packed
// straight-alpha buffer.
//
// Channels are recovered with c = c'*255/a (truncating). Fully transparent
// pixels become transparent black: their colour is not recoverable from a
// premultiplied surface.
func ToSamples(s *Surface) (*image.NRGBA, error) {
	if err := validSurface(s); err != nil {
		return nil, err
	}
	dst := image.NewNRGBA(image.Rect(0, 0, s.Width, s.Height))
	for y := range s.Height {
		unpremultiplyRow(dst.Pix[y*dst.Stride:], s.Row(y))
	}
	return dst, nil
}

// ToSamplesInto is ToSamples writing into a caller-supplied buffer, which
// must have exactly the surface's dimensions. Padding in dst, if any, is left
// untouched.
func ToSamplesInto(dst *image.NRGBA, s *Surface) error {
	if err := validSurface(s); err != nil {
		return err
	}
	if dst == nil || dst.Rect.Dx() != s.Width || dst.Rect.Dy() != s.Height {
		return fmt.Errorf("surfio: to samples: %w: destination does not match %dx%d surface",
			ErrInvalidArgument, s.Width, s.Height)
	}
	for y := range s.Height {
		unpremultiplyRow(dst.Pix[dst.PixOffset(dst.Rect.Min.X, dst.Rect.Min.Y+y):], s.Row(y))
	}
	return nil
}

func validSurface(s *Surface) error {
	if s == nil {
		return fmt.Errorf("surfio: %w: nil surface", ErrInvalidArgument)
	}
	if err := checkLayout(s.Width, s.Height, s.Stride); err != nil {
		return err
	}
	if len(s.Pix) < s.Stride*s.Height {
		return fmt.Errorf("surfio: %w: %d pixel bytes for %d rows of stride %d",
			ErrInvalidArgument, len(s.Pix), s.Height, s.Stride)
	}
	return nil
}

// premultiplyRow converts len(dst)/4 R,G,B,A samples from src into packed
// premultiplied surface words in dst.
func premultiplyRow(dst, src []byte) {
	for i := 0; i+BytesPerPixel <= len(dst); i += BytesPerPixel {
		a := uint32(src[i+3])
		r := uint32(src[i+0]) * a / 255
		g := uint32(src[i+1]) * a / 255
		b := uint32(src[i+2]) * a / 255
		binary.NativeEndian.PutUint32(dst[i:], a<<24|r<<16|g<<8|b)
	}
}

// unpremultiplyRow converts len(src)/4 packed surface words into straight
// R,G,B,A samples in dst.
func unpremultiplyRow(dst, src []byte) {
	for i := 0; i+BytesPerPixel <= len(src); i += BytesPerPixel {
		p := binary.NativeEndian.Uint32(src[i:])
		a := p >> 24
		if a == 0 {
			dst[i+0], dst[i+1], dst[i+2], dst[i+3] = 0, 0, 0, 0
			continue
		}
		dst[i+0] = clamp255(((p >> 16) & 0xff) * 255 / a)
		dst[i+1] = clamp255(((p >> 8) & 0xff) * 255 / a)
		dst[i+2] = clamp255((p & 0xff) * 255 / a)
		dst[i+3] = uint8(a)
	}
}

// clamp255 guards surfaces written without honouring the premultiplied
// invariant, where a channel exceeds alpha.
func clamp255(v uint32) uint8 {
	if v > 255 {
		return 255
	}
	return uint8(v)
}
