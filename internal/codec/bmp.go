package codec

import (
	"bufio"
	"encoding/binary"
	"errors"
	"image"
	"image/color"
	"io"

	"golang.org/x/image/bmp"
)

// BMP layout constants for 32-bit images with an alpha channel.
// golang.org/x/image/bmp reads alpha only from headers larger than
// BITMAPINFOHEADER, so translucent images get a BITMAPV4HEADER with
// BI_BITFIELDS masks.
const (
	bmpFileHeaderLen = 14
	bmpV4HeaderLen   = 108
	bmpBitFields     = 3
	bmpSRGB          = 0x73524742 // "sRGB"
	bmpPixelsPerM    = 2835       // 72 DPI
	bmpMaxExtent     = 1<<31 - 1
)

var errBMPSize = errors.New("codec: BMP image too large")

// writeBMP encodes m as BMP. Opaque images use the 24-bit encoder from
// golang.org/x/image/bmp; anything with alpha is written as straight BGRA.
func writeBMP(w io.Writer, m image.Image) error {
	if o, ok := m.(interface{ Opaque() bool }); ok && o.Opaque() {
		return bmp.Encode(w, m)
	}

	b := m.Bounds()
	dx, dy := b.Dx(), b.Dy()
	if dx <= 0 || dy <= 0 || dx > bmpMaxExtent || dy > bmpMaxExtent {
		return errBMPSize
	}
	imageSize := uint64(dx) * uint64(dy) * 4
	if imageSize > 1<<32-1-bmpFileHeaderLen-bmpV4HeaderLen {
		return errBMPSize
	}

	var h [bmpFileHeaderLen + bmpV4HeaderLen]byte
	le := binary.LittleEndian
	h[0], h[1] = 'B', 'M'
	le.PutUint32(h[2:], uint32(len(h))+uint32(imageSize))
	le.PutUint32(h[10:], uint32(len(h)))

	v4 := h[bmpFileHeaderLen:]
	le.PutUint32(v4[0:], bmpV4HeaderLen)
	le.PutUint32(v4[4:], uint32(dx))
	le.PutUint32(v4[8:], uint32(dy)) // positive height: bottom-up rows
	le.PutUint16(v4[12:], 1)
	le.PutUint16(v4[14:], 32)
	le.PutUint32(v4[16:], bmpBitFields)
	le.PutUint32(v4[20:], uint32(imageSize))
	le.PutUint32(v4[24:], bmpPixelsPerM)
	le.PutUint32(v4[28:], bmpPixelsPerM)
	le.PutUint32(v4[40:], 0x00ff0000)
	le.PutUint32(v4[44:], 0x0000ff00)
	le.PutUint32(v4[48:], 0x000000ff)
	le.PutUint32(v4[52:], 0xff000000)
	le.PutUint32(v4[56:], bmpSRGB)

	bw := bufio.NewWriter(w)
	if _, err := bw.Write(h[:]); err != nil {
		return err
	}
	row := make([]byte, dx*4)
	for y := b.Max.Y - 1; y >= b.Min.Y; y-- {
		bgraRow(row, m, b.Min.X, y)
		if _, err := bw.Write(row); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// bgraRow fills dst with the straight-alpha row y of m in B,G,R,A order.
func bgraRow(dst []byte, m image.Image, x0, y int) {
	if src, ok := m.(*image.NRGBA); ok {
		p := src.Pix[src.PixOffset(x0, y):]
		for i := 0; i < len(dst); i += 4 {
			dst[i+0], dst[i+1], dst[i+2], dst[i+3] = p[i+2], p[i+1], p[i+0], p[i+3]
		}
		return
	}
	for i := 0; i < len(dst); i += 4 {
		c := color.NRGBAModel.Convert(m.At(x0+i/4, y)).(color.NRGBA)
		dst[i+0], dst[i+1], dst[i+2], dst[i+3] = c.B, c.G, c.R, c.A
	}
}
