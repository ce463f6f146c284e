package tga

import (
	"bufio"
	"errors"
	"image"
	"image/color"
	"io"
)

// ErrUnsupported means that the input TGA image uses a valid but unsupported
// feature.
var ErrUnsupported = errors.New("tga: unsupported TGA image")

var errInvalidFormat = errors.New("tga: invalid format")

func init() {
	// TGA has no signature; match on the colour map type and image type bytes.
	for _, magic := range []string{"?\x00\x02", "?\x00\x03", "?\x00\x0a", "?\x00\x0b"} {
		image.RegisterFormat("tga", magic, Decode, DecodeConfig)
	}
}

type header struct {
	idLen      int
	imageType  byte
	width      int
	height     int
	depth      int
	descriptor byte
}

func (h header) gray() bool {
	return h.imageType == typeGray || h.imageType == typeRLEGray
}

func (h header) rle() bool {
	return h.imageType == typeRLETrueColor || h.imageType == typeRLEGray
}

func decodeHeader(r io.Reader) (header, error) {
	var b [headerLen]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		return header{}, err
	}

	h := header{
		idLen:      int(b[0]),
		imageType:  b[2],
		width:      int(b[12]) | int(b[13])<<8,
		height:     int(b[14]) | int(b[15])<<8,
		depth:      int(b[16]),
		descriptor: b[17],
	}
	if b[1] != 0 {
		return header{}, ErrUnsupported
	}
	switch h.imageType {
	case typeTrueColor, typeRLETrueColor:
		if h.depth != 24 && h.depth != 32 {
			return header{}, ErrUnsupported
		}
	case typeGray, typeRLEGray:
		if h.depth != 8 {
			return header{}, ErrUnsupported
		}
	default:
		return header{}, ErrUnsupported
	}
	if h.width == 0 || h.height == 0 {
		return header{}, errInvalidFormat
	}
	return h, nil
}

// DecodeConfig returns the colour model and dimensions of a TGA image without
// decoding the entire image.
func DecodeConfig(r io.Reader) (image.Config, error) {
	h, err := decodeHeader(r)
	if err != nil {
		return image.Config{}, err
	}
	model := color.NRGBAModel
	if h.gray() {
		model = color.GrayModel
	}
	return image.Config{ColorModel: model, Width: h.width, Height: h.height}, nil
}

// Decode reads a TGA image from r and returns it as an image.Image.
// True-colour images decode to *image.NRGBA, greyscale to *image.Gray.
func Decode(r io.Reader) (image.Image, error) {
	h, err := decodeHeader(r)
	if err != nil {
		return nil, err
	}

	br := bufio.NewReader(r)
	if _, err := br.Discard(h.idLen); err != nil {
		return nil, unexpected(err)
	}

	bpp := h.depth / 8
	raw := make([]byte, h.width*h.height*bpp)
	if h.rle() {
		err = readRLE(br, raw, bpp)
	} else {
		_, err = io.ReadFull(br, raw)
	}
	if err != nil {
		return nil, unexpected(err)
	}

	rect := image.Rect(0, 0, h.width, h.height)
	rowLen := h.width * bpp
	if h.gray() {
		img := image.NewGray(rect)
		for y := range h.height {
			src := raw[h.fileRow(y)*rowLen:][:rowLen]
			dst := img.Pix[y*img.Stride:][:h.width]
			for x := range h.width {
				dst[h.fileCol(x)] = src[x]
			}
		}
		return img, nil
	}

	img := image.NewNRGBA(rect)
	alpha := h.depth == 32
	for y := range h.height {
		src := raw[h.fileRow(y)*rowLen:][:rowLen]
		dst := img.Pix[y*img.Stride:][:h.width*4]
		for x := range h.width {
			s := src[x*bpp:]
			d := dst[h.fileCol(x)*4:]
			d[0], d[1], d[2] = s[2], s[1], s[0]
			if alpha {
				d[3] = s[3]
			} else {
				d[3] = 0xff
			}
		}
	}
	return img, nil
}

// fileRow maps the y-th stored scanline to its image row.
func (h header) fileRow(y int) int {
	if h.descriptor&descTopDown != 0 {
		return y
	}
	return h.height - 1 - y
}

// fileCol maps the x-th stored pixel of a scanline to its image column.
func (h header) fileCol(x int) int {
	if h.descriptor&descRightLeft != 0 {
		return h.width - 1 - x
	}
	return x
}

// readRLE expands run-length packets into dst. Packets may span scanlines.
func readRLE(r *bufio.Reader, dst []byte, bpp int) error {
	for off := 0; off < len(dst); {
		p, err := r.ReadByte()
		if err != nil {
			return err
		}
		n := (int(p&0x7f) + 1) * bpp
		if off+n > len(dst) {
			return errInvalidFormat
		}
		if p&0x80 == 0 {
			if _, err := io.ReadFull(r, dst[off:off+n]); err != nil {
				return err
			}
			off += n
			continue
		}
		if _, err := io.ReadFull(r, dst[off:off+bpp]); err != nil {
			return err
		}
		for i := off + bpp; i < off+n; i += bpp {
			copy(dst[i:i+bpp], dst[off:off+bpp])
		}
		off += n
	}
	return nil
}

func unexpected(err error) error {
	if err == io.EOF {
		return io.ErrUnexpectedEOF
	}
	return err
}
