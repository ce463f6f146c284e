package surfio

import (
	"encoding/binary"
	"image"
	"image/color"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSurface(t *testing.T) {
	s, err := NewSurface(7, 3)
	require.NoError(t, err)
	assert.Equal(t, 7, s.Width)
	assert.Equal(t, 3, s.Height)
	assert.Equal(t, 28, s.Stride)
	assert.Len(t, s.Pix, 28*3)
	assert.Equal(t, image.Rect(0, 0, 7, 3), s.Bounds())
	assert.Equal(t, color.RGBAModel, s.ColorModel())
}

func TestNewSurface_Layouts(t *testing.T) {
	tests := []struct {
		name          string
		width, height int
		stride        int
		wantErr       error
	}{
		{name: "zero sized", width: 0, height: 0, stride: 0},
		{name: "zero height", width: 5, height: 0, stride: 20},
		{name: "padded", width: 5, height: 2, stride: 32},
		{name: "negative width", width: -1, height: 2, stride: 0, wantErr: ErrInvalidArgument},
		{name: "short stride", width: 5, height: 2, stride: 19, wantErr: ErrInvalidArgument},
		{name: "overflow", width: 1, height: math.MaxInt / 8, stride: 64, wantErr: ErrAllocation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := NewSurfaceWithStride(tt.width, tt.height, tt.stride)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, s)
				return
			}
			require.NoError(t, err)
			assert.Len(t, s.Pix, tt.stride*tt.height)
		})
	}
}

func TestSurfaceFromPixels(t *testing.T) {
	pix := make([]byte, 100)
	s, err := SurfaceFromPixels(pix, 2, 3, 12)
	require.NoError(t, err)
	assert.Len(t, s.Pix, 36)

	s.SetPixel(1, 2, 0xff010203)
	assert.Equal(t, uint32(0xff010203), binary.NativeEndian.Uint32(pix[2*12+4:]), "must share memory")

	_, err = SurfaceFromPixels(pix[:35], 2, 3, 12)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestSurface_PixelAccess(t *testing.T) {
	s, err := NewSurfaceWithStride(3, 2, 16)
	require.NoError(t, err)

	word := PackARGB(0x80, 0x40, 0x20, 0x10)
	assert.Equal(t, uint32(0x80402010), word)

	s.SetPixel(2, 1, word)
	assert.Equal(t, word, s.PixelAt(2, 1))

	var want [4]byte
	binary.NativeEndian.PutUint32(want[:], word)
	assert.Equal(t, want[:], s.Pix[16+8:16+12], "pixels are native-endian words")

	a, r, g, b := UnpackARGB(s.PixelAt(2, 1))
	assert.Equal(t, [4]uint8{0x80, 0x40, 0x20, 0x10}, [4]uint8{a, r, g, b})
	assert.Equal(t, color.RGBA{R: 0x40, G: 0x20, B: 0x10, A: 0x80}, s.At(2, 1))

	// Out of bounds is ignored on write and zero on read.
	s.SetPixel(3, 0, word)
	s.SetPixel(-1, 0, word)
	assert.Equal(t, uint32(0), s.PixelAt(3, 0))
	assert.Equal(t, uint32(0), s.PixelAt(0, -1))
	assert.Nil(t, s.Row(2))
}

func TestSurface_FillAndClonePadding(t *testing.T) {
	s, err := NewSurfaceWithStride(2, 2, 12)
	require.NoError(t, err)
	for i := range s.Pix {
		s.Pix[i] = 0xee
	}
	s.Fill(PackARGB(255, 1, 2, 3))

	// Padding bytes are not touched by Fill.
	assert.Equal(t, []byte{0xee, 0xee, 0xee, 0xee}, s.Pix[8:12])

	c := s.Clone()
	assert.Equal(t, 8, c.Stride)
	assert.Len(t, c.Pix, 16)
	for y := range 2 {
		for x := range 2 {
			assert.Equal(t, PackARGB(255, 1, 2, 3), c.PixelAt(x, y))
		}
	}

	c.SetPixel(0, 0, 0)
	assert.NotEqual(t, c.PixelAt(0, 0), s.PixelAt(0, 0), "clone must not share memory")
}
