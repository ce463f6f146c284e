package surfio

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/gogpu/surfio/internal/codec"
)

// FormatFromPath selects the save format from the extension of the last
// path element, ignoring case: ".png", ".bmp", ".jpg" and ".tga" are
// recognized and a path without an extension means PNG. Any other extension
// fails with ErrUnsupportedFormat.
func FormatFromPath(path string) (Format, error) {
	f, ok := codec.FromPath(path)
	if !ok {
		return 0, opError("save", path, ErrUnsupportedFormat,
			fmt.Errorf("no encoder for extension %q", filepath.Ext(path)))
	}
	return f, nil
}

// Save writes s to path, choosing the encoder by extension (see
// FormatFromPath). Surface pixels are un-premultiplied into a tightly packed
// straight-alpha buffer before encoding; padding in s is never written.
//
// JPEG is written at DefaultQuality unless WithQuality is given. PNG, BMP and
// TGA are lossless, except that fully transparent pixels are always written
// as transparent black.
//
// For an unsupported extension no file is created. If encoding fails the
// partially written file is removed.
func Save(s *Surface, path string, opts ...Option) error {
	if path == "" {
		return opError("save", path, ErrInvalidArgument, errors.New("empty path"))
	}
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	o := buildOptions(opts)

	return encodeSurface(s, path, format, &o, func(enc func(io.Writer) error) error {
		return writeFile(path, enc)
	})
}

// Encode writes s to w in the given format.
func Encode(w io.Writer, s *Surface, format Format, opts ...Option) error {
	if w == nil {
		return opError("encode", "", ErrInvalidArgument, errors.New("nil writer"))
	}
	if !format.IsValid() {
		return opError("encode", "", ErrUnsupportedFormat, fmt.Errorf("format %d", format))
	}
	o := buildOptions(opts)

	return encodeSurface(s, "", format, &o, func(enc func(io.Writer) error) error {
		return enc(w)
	})
}

// encodeSurface converts s into pooled samples and hands an encoding closure
// to sink, which decides where the bytes go.
func encodeSurface(s *Surface, path string, format Format, o *options, sink func(func(io.Writer) error) error) error {
	if err := validSurface(s); err != nil {
		return err
	}
	if err := o.limits.Check(s.Width, s.Height); err != nil {
		return opError("encode", path, ErrAllocation, err)
	}
	enc, err := o.encoder(format)
	if err != nil {
		return opError("encode", path, ErrUnsupportedFormat, err)
	}

	samples := o.pool.Get(s.Width, s.Height)
	defer o.pool.Put(samples)
	if err := ToSamplesInto(samples, s); err != nil {
		return err
	}

	Logger().Debug("surfio: encode",
		"path", path,
		"format", format.String(),
		"width", s.Width,
		"height", s.Height,
		"quality", o.quality)

	if err := sink(func(w io.Writer) error {
		return enc.Encode(w, samples, o.quality)
	}); err != nil {
		return opError("encode", path, ErrEncode, err)
	}
	return nil
}

// writeFile creates path, runs enc against a buffered writer and removes the
// file again if anything fails.
func writeFile(path string, enc func(io.Writer) error) (err error) {
	path = filepath.Clean(path)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create file: %w", err)
	}
	defer func() {
		if err == nil {
			return
		}
		_ = f.Close()
		if rmErr := os.Remove(path); rmErr != nil {
			Logger().Warn("surfio: remove partial output", "path", path, "error", rmErr)
		}
	}()

	bw := bufio.NewWriter(f)
	if err := enc(bw); err != nil {
		return err
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("write file: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close file: %w", err)
	}
	return nil
}
