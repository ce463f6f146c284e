package surfio

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"io"
	"math/rand"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

// randNRGBA returns a w x h image of random straight-alpha samples.
func randNRGBA(rng *rand.Rand, w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	rng.Read(img.Pix)
	return img
}

// opaqueFunc builds an opaque image whose colour is computed per pixel.
func opaqueFunc(w, h int, fn func(x, y int) (r, g, b uint8)) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			r, g, b := fn(x, y)
			img.SetNRGBA(x, y, color.NRGBA{R: r, G: g, B: b, A: 255})
		}
	}
	return img
}

// writePNG encodes img into dir/name and returns the path.
func writePNG(t *testing.T, dir, name string, img image.Image) string {
	t.Helper()
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
	return path
}

func pngBytes(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

// encodeCall is one encoder invocation seen by a recorder.
type encodeCall struct {
	format  Format
	bounds  image.Rectangle
	quality int
}

// recorder collects encoder invocations across formats.
type recorder struct {
	mu    sync.Mutex
	calls []encodeCall
}

// options installs a recording encoder for every format. Each one writes a
// single byte so the output file is observable.
func (r *recorder) options() []Option {
	var opts []Option
	for _, f := range []Format{FormatPNG, FormatBMP, FormatJPEG, FormatTGA} {
		opts = append(opts, WithEncoder(f, EncoderFunc(func(w io.Writer, img image.Image, quality int) error {
			r.mu.Lock()
			r.calls = append(r.calls, encodeCall{format: f, bounds: img.Bounds(), quality: quality})
			r.mu.Unlock()
			_, err := w.Write([]byte{byte(f)})
			return err
		})))
	}
	return opts
}

func (r *recorder) formats() []Format {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Format, 0, len(r.calls))
	for _, c := range r.calls {
		out = append(out, c.format)
	}
	return out
}

// resizerFunc adapts a function to the Resizer interface.
type resizerFunc func(dst, src *image.NRGBA) error

func (f resizerFunc) Resize(dst, src *image.NRGBA) error { return f(dst, src) }
