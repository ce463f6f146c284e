package surfio

import (
	"encoding/binary"
	"fmt"
	"image"
	"image/color"
	"math"
)

// BytesPerPixel is the size of one surface pixel.
const BytesPerPixel = 4

// Surface is a rectangular premultiplied-alpha pixel buffer in the layout the
// rasterizer draws into.
//
// Each pixel is a native-endian 32-bit word a<<24 | r<<16 | g<<8 | b, where
// r, g and b are already scaled by a/255, so r, g, b <= a always holds.
// Rows are Stride bytes apart; Stride may exceed Width*4.
//
// A Surface is owned by whoever created it. The functions in this package
// read or fill surfaces but never keep references to them.
type Surface struct {
	Width  int
	Height int
	Stride int
	Pix    []byte
}

// NewSurface allocates a zeroed (transparent black), tightly packed surface.
// Zero-sized surfaces are valid.
func NewSurface(width, height int) (*Surface, error) {
	return NewSurfaceWithStride(width, height, width*BytesPerPixel)
}

// NewSurfaceWithStride allocates a zeroed surface with padded rows.
// Stride must be at least width*4.
func NewSurfaceWithStride(width, height, stride int) (*Surface, error) {
	if err := checkLayout(width, height, stride); err != nil {
		return nil, err
	}
	return &Surface{
		Width:  width,
		Height: height,
		Stride: stride,
		Pix:    make([]byte, stride*height),
	}, nil
}

// SurfaceFromPixels wraps existing pixel memory without copying.
// pix must hold at least stride*height bytes.
func SurfaceFromPixels(pix []byte, width, height, stride int) (*Surface, error) {
	if err := checkLayout(width, height, stride); err != nil {
		return nil, err
	}
	if len(pix) < stride*height {
		return nil, fmt.Errorf("surfio: %w: %d bytes for %d rows of stride %d",
			ErrInvalidArgument, len(pix), height, stride)
	}
	return &Surface{
		Width:  width,
		Height: height,
		Stride: stride,
		Pix:    pix[:stride*height],
	}, nil
}

func checkLayout(width, height, stride int) error {
	if width < 0 || height < 0 {
		return fmt.Errorf("surfio: %w: dimensions %dx%d", ErrInvalidArgument, width, height)
	}
	if stride < width*BytesPerPixel {
		return fmt.Errorf("surfio: %w: stride %d below %d", ErrInvalidArgument, stride, width*BytesPerPixel)
	}
	if stride > 0 && height > math.MaxInt/stride {
		return fmt.Errorf("surfio: %w: %d rows of %d bytes overflow", ErrAllocation, height, stride)
	}
	return nil
}

// Clone returns a tightly packed deep copy.
func (s *Surface) Clone() *Surface {
	c := &Surface{
		Width:  s.Width,
		Height: s.Height,
		Stride: s.Width * BytesPerPixel,
	}
	c.Pix = make([]byte, c.Stride*c.Height)
	for y := range s.Height {
		copy(c.Row(y), s.Row(y))
	}
	return c
}

// Row returns the Width*4 pixel bytes of row y, excluding padding.
func (s *Surface) Row(y int) []byte {
	if y < 0 || y >= s.Height {
		return nil
	}
	start := y * s.Stride
	return s.Pix[start : start+s.Width*BytesPerPixel]
}

// PixelAt returns the packed premultiplied ARGB word at (x, y), or 0 outside
// the surface.
func (s *Surface) PixelAt(x, y int) uint32 {
	if x < 0 || x >= s.Width || y < 0 || y >= s.Height {
		return 0
	}
	return binary.NativeEndian.Uint32(s.Pix[y*s.Stride+x*BytesPerPixel:])
}

// SetPixel stores a packed premultiplied ARGB word at (x, y).
// Out-of-bounds writes are ignored.
func (s *Surface) SetPixel(x, y int, argb uint32) {
	if x < 0 || x >= s.Width || y < 0 || y >= s.Height {
		return
	}
	binary.NativeEndian.PutUint32(s.Pix[y*s.Stride+x*BytesPerPixel:], argb)
}

// Fill sets every pixel to argb.
func (s *Surface) Fill(argb uint32) {
	for y := range s.Height {
		row := s.Row(y)
		for i := 0; i < len(row); i += BytesPerPixel {
			binary.NativeEndian.PutUint32(row[i:], argb)
		}
	}
}

// PackARGB packs already-premultiplied channels into a surface word.
func PackARGB(a, r, g, b uint8) uint32 {
	return uint32(a)<<24 | uint32(r)<<16 | uint32(g)<<8 | uint32(b)
}

// UnpackARGB splits a surface word into its premultiplied channels.
func UnpackARGB(p uint32) (a, r, g, b uint8) {
	return uint8(p >> 24), uint8(p >> 16), uint8(p >> 8), uint8(p)
}

// ColorModel implements the image.Image interface.
func (s *Surface) ColorModel() color.Model {
	return color.RGBAModel
}

// Bounds implements the image.Image interface.
func (s *Surface) Bounds() image.Rectangle {
	return image.Rect(0, 0, s.Width, s.Height)
}

// At implements the image.Image interface. The returned color.RGBA is
// premultiplied, matching the surface contents.
func (s *Surface) At(x, y int) color.Color {
	a, r, g, b := UnpackARGB(s.PixelAt(x, y))
	return color.RGBA{R: r, G: g, B: b, A: a}
}
