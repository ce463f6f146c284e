package surfio

import (
	"image"
	"image/color"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToSurface_Truncates(t *testing.T) {
	tests := []struct {
		name string
		in   color.NRGBA
		want uint32
	}{
		{name: "opaque", in: color.NRGBA{R: 200, G: 100, B: 50, A: 255}, want: 0xffc86432},
		// 200*128/255 = 100.39, 100*128/255 = 50.19, 50*128/255 = 25.09
		{name: "half", in: color.NRGBA{R: 200, G: 100, B: 50, A: 128}, want: PackARGB(128, 100, 50, 25)},
		{name: "faint", in: color.NRGBA{R: 255, G: 254, B: 1, A: 1}, want: PackARGB(1, 1, 0, 0)},
		{name: "transparent", in: color.NRGBA{R: 255, G: 128, B: 9, A: 0}, want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img := image.NewNRGBA(image.Rect(0, 0, 1, 1))
			img.SetNRGBA(0, 0, tt.in)

			s, err := ToSurface(img)
			require.NoError(t, err)
			assert.Equal(t, tt.want, s.PixelAt(0, 0))
		})
	}
}

func TestToSurface_PremultipliedInvariant(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	s, err := ToSurface(randNRGBA(rng, 64, 64))
	require.NoError(t, err)

	for y := range s.Height {
		for x := range s.Width {
			a, r, g, b := UnpackARGB(s.PixelAt(x, y))
			assert.LessOrEqual(t, r, a)
			assert.LessOrEqual(t, g, a)
			assert.LessOrEqual(t, b, a)
		}
	}
}

func TestToSurface_SubImage(t *testing.T) {
	img := opaqueFunc(8, 8, func(x, y int) (uint8, uint8, uint8) {
		return uint8(x), uint8(y), 0
	})
	sub := img.SubImage(image.Rect(2, 3, 5, 7)).(*image.NRGBA)

	s, err := ToSurface(sub)
	require.NoError(t, err)
	assert.Equal(t, 3, s.Width)
	assert.Equal(t, 4, s.Height)
	assert.Equal(t, PackARGB(255, 2, 3, 0), s.PixelAt(0, 0))
	assert.Equal(t, PackARGB(255, 4, 6, 0), s.PixelAt(2, 3))
}

func TestToSamples_Truncates(t *testing.T) {
	s, err := NewSurface(3, 1)
	require.NoError(t, err)
	s.SetPixel(0, 0, PackARGB(128, 100, 50, 25))
	s.SetPixel(1, 0, PackARGB(255, 10, 20, 30))
	// Not a valid premultiplied pixel; channels clamp instead of wrapping.
	s.SetPixel(2, 0, PackARGB(10, 200, 10, 0))

	img, err := ToSamples(s)
	require.NoError(t, err)
	// 100*255/128 = 199.2, 50*255/128 = 99.6, 25*255/128 = 49.8
	assert.Equal(t, color.NRGBA{R: 199, G: 99, B: 49, A: 128}, img.NRGBAAt(0, 0))
	assert.Equal(t, color.NRGBA{R: 10, G: 20, B: 30, A: 255}, img.NRGBAAt(1, 0))
	assert.Equal(t, color.NRGBA{R: 255, G: 255, B: 0, A: 10}, img.NRGBAAt(2, 0))
}

func TestToSamples_ZeroAlphaIsBlack(t *testing.T) {
	s, err := NewSurface(4, 4)
	require.NoError(t, err)
	s.Fill(PackARGB(0, 0x33, 0x22, 0x11))

	img, err := ToSamples(s)
	require.NoError(t, err)
	for i, v := range img.Pix {
		require.Zero(t, v, "byte %d", i)
	}
}

func TestToSamples_IgnoresPadding(t *testing.T) {
	s, err := NewSurfaceWithStride(3, 2, 20)
	require.NoError(t, err)
	for i := range s.Pix {
		s.Pix[i] = 0xab
	}
	s.Fill(PackARGB(255, 1, 2, 3))

	img, err := ToSamples(s)
	require.NoError(t, err)
	assert.Equal(t, 12, img.Stride)
	assert.Len(t, img.Pix, 24)
	for y := range 2 {
		for x := range 3 {
			assert.Equal(t, color.NRGBA{R: 1, G: 2, B: 3, A: 255}, img.NRGBAAt(x, y))
		}
	}
}

func TestBridge_ZeroSized(t *testing.T) {
	s, err := ToSurface(image.NewNRGBA(image.Rect(0, 0, 0, 0)))
	require.NoError(t, err)
	assert.Equal(t, 0, s.Width)
	assert.Equal(t, 0, s.Height)

	img, err := ToSamples(s)
	require.NoError(t, err)
	assert.True(t, img.Rect.Empty())
	assert.Empty(t, img.Pix)
}

func TestBridge_InvalidArguments(t *testing.T) {
	_, err := ToSurface(nil)
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = ToSamples(nil)
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = ToSamples(&Surface{Width: 2, Height: 2, Stride: 8, Pix: make([]byte, 15)})
	assert.ErrorIs(t, err, ErrInvalidArgument)

	s, err := NewSurface(2, 2)
	require.NoError(t, err)
	assert.ErrorIs(t, ToSamplesInto(image.NewNRGBA(image.Rect(0, 0, 2, 3)), s), ErrInvalidArgument)
	assert.ErrorIs(t, ToSamplesInto(nil, s), ErrInvalidArgument)
}

func TestToSamplesInto_SubImage(t *testing.T) {
	s, err := NewSurface(2, 2)
	require.NoError(t, err)
	s.Fill(PackARGB(255, 9, 8, 7))

	big := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	dst := big.SubImage(image.Rect(1, 1, 3, 3)).(*image.NRGBA)
	require.NoError(t, ToSamplesInto(dst, s))

	assert.Equal(t, color.NRGBA{R: 9, G: 8, B: 7, A: 255}, big.NRGBAAt(1, 1))
	assert.Equal(t, color.NRGBA{R: 9, G: 8, B: 7, A: 255}, big.NRGBAAt(2, 2))
	assert.Equal(t, color.NRGBA{}, big.NRGBAAt(0, 0))
	assert.Equal(t, color.NRGBA{}, big.NRGBAAt(3, 1))
}

// Every valid premultiplied pixel survives surface -> samples -> surface
// with alpha intact and each channel at most one step lower.
func TestBridge_RoundTripAllValues(t *testing.T) {
	s, err := NewSurface(256, 256)
	require.NoError(t, err)
	for a := range 256 {
		for c := range 256 {
			v := min(c, a)
			s.SetPixel(c, a, PackARGB(uint8(a), uint8(v), uint8(v/2), uint8(a-v)))
		}
	}

	img, err := ToSamples(s)
	require.NoError(t, err)
	back, err := ToSurface(img)
	require.NoError(t, err)

	for y := range 256 {
		for x := range 256 {
			wa, wr, wg, wb := UnpackARGB(s.PixelAt(x, y))
			ga, gr, gg, gb := UnpackARGB(back.PixelAt(x, y))
			require.Equal(t, wa, ga, "alpha at %d,%d", x, y)
			for _, ch := range [][2]uint8{{wr, gr}, {wg, gg}, {wb, gb}} {
				require.LessOrEqual(t, ch[1], ch[0], "pixel %d,%d", x, y)
				require.LessOrEqual(t, int(ch[0])-int(ch[1]), 1, "pixel %d,%d", x, y)
			}
		}
	}
}
