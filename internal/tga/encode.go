// Package tga implements a Truevision TGA image encoder and decoder.
//
// The encoder writes 32-bit top-left-origin true-colour images, run-length
// encoded unless told otherwise. The decoder reads uncompressed and RLE
// true-colour (24/32-bit) and greyscale (8-bit) images in any origin. Colour
// mapped images are not supported.
package tga

import (
	"bufio"
	"errors"
	"image"
	"image/color"
	"io"
)

const headerLen = 18

// Image types.
const (
	typeTrueColor    = 2
	typeGray         = 3
	typeRLETrueColor = 10
	typeRLEGray      = 11
)

// Image descriptor bits.
const (
	descRightLeft = 0x10
	descTopDown   = 0x20
)

const (
	maxPacketLen   = 128
	maxImageExtent = 0xffff
)

var errInvalidSize = errors.New("tga: invalid image size")

// Options are the encoding parameters.
type Options struct {
	// Uncompressed disables run-length encoding.
	Uncompressed bool
}

// Encode writes the image m to w in TGA format.
// A nil o encodes with run-length compression.
func Encode(w io.Writer, m image.Image, o *Options) error {
	b := m.Bounds()
	width, height := b.Dx(), b.Dy()
	if width <= 0 || height <= 0 || width > maxImageExtent || height > maxImageExtent {
		return errInvalidSize
	}
	rle := o == nil || !o.Uncompressed

	var hdr [headerLen]byte
	hdr[2] = typeTrueColor
	if rle {
		hdr[2] = typeRLETrueColor
	}
	hdr[12] = byte(width)
	hdr[13] = byte(width >> 8)
	hdr[14] = byte(height)
	hdr[15] = byte(height >> 8)
	hdr[16] = 32
	hdr[17] = descTopDown | 8

	bw := bufio.NewWriter(w)
	if _, err := bw.Write(hdr[:]); err != nil {
		return err
	}

	row := make([]byte, width*4)
	for y := range height {
		bgraRow(row, m, b.Min.X, b.Min.Y+y)
		var err error
		if rle {
			err = writeRLERow(bw, row)
		} else {
			_, err = bw.Write(row)
		}
		if err != nil {
			return err
		}
	}
	return bw.Flush()
}

// bgraRow fills row with the straight-alpha B,G,R,A bytes of scanline y.
func bgraRow(row []byte, m image.Image, x0, y int) {
	if src, ok := m.(*image.NRGBA); ok {
		pix := src.Pix[src.PixOffset(x0, y):]
		for i := 0; i < len(row); i += 4 {
			row[i+0] = pix[i+2]
			row[i+1] = pix[i+1]
			row[i+2] = pix[i+0]
			row[i+3] = pix[i+3]
		}
		return
	}
	for i := 0; i < len(row); i += 4 {
		c := color.NRGBAModel.Convert(m.At(x0+i/4, y)).(color.NRGBA)
		row[i+0] = c.B
		row[i+1] = c.G
		row[i+2] = c.R
		row[i+3] = c.A
	}
}

// writeRLERow emits run and raw packets for one scanline. Packets never span
// scanlines.
func writeRLERow(w *bufio.Writer, row []byte) error {
	n := len(row) / 4
	same := func(i, j int) bool {
		return row[i*4] == row[j*4] && row[i*4+1] == row[j*4+1] &&
			row[i*4+2] == row[j*4+2] && row[i*4+3] == row[j*4+3]
	}

	for i := 0; i < n; {
		j := i + 1
		for j < n && j-i < maxPacketLen && same(i, j) {
			j++
		}
		if j-i > 1 {
			if err := w.WriteByte(0x80 | byte(j-i-1)); err != nil {
				return err
			}
			if _, err := w.Write(row[i*4 : i*4+4]); err != nil {
				return err
			}
			i = j
			continue
		}

		j = i + 1
		for j < n && j-i < maxPacketLen && !(j+1 < n && same(j, j+1)) {
			j++
		}
		if err := w.WriteByte(byte(j - i - 1)); err != nil {
			return err
		}
		if _, err := w.Write(row[i*4 : j*4]); err != nil {
			return err
		}
		i = j
	}
	return nil
}
