// Package surfio moves pixels between image files and the premultiplied
// surfaces a 2D rasterizer draws into.
//
// # Overview
//
// Rasterizers composite in premultiplied alpha and address pixels as
// native-endian 32-bit ARGB words; image files store straight alpha with
// bytes in R,G,B,A order. surfio bridges the two in both directions and adds
// the two operations applications need around it:
//
//   - Load / Decode: decode a file into a surface of the image's own size.
//   - LoadCropped / DecodeCropped: decode, scale to cover a target box, and
//     center-crop to exactly that box.
//   - Save / Encode: un-premultiply and encode as PNG, BMP, JPEG or TGA,
//     chosen by file extension.
//
// # Quick Start
//
//	thumb, err := surfio.LoadCropped("photo.jpg", 128, 128)
//	if err != nil {
//	    return err
//	}
//	// ... draw into thumb.Pix ...
//	if err := surfio.Save(thumb, "thumb.png"); err != nil {
//	    return err
//	}
//
// # Pixel Contract
//
// A Surface pixel is the word a<<24 | r<<16 | g<<8 | b stored with
// encoding/binary.NativeEndian, with r, g, b <= a. Premultiplication and its
// inverse use truncating integer division (c*a/255 and c*255/a), so a
// surface that goes through a lossless file and back comes out with the same
// alpha and with each colour channel at most one step lower. Fully
// transparent pixels are always written as transparent black.
//
// # Errors
//
// Every failure wraps one of ErrInvalidArgument, ErrDecode, ErrAllocation,
// ErrResample, ErrUnsupportedFormat or ErrEncode; test with errors.Is. No
// surface is returned together with an error.
//
// # Concurrency
//
// All calls are synchronous and start no goroutines. Decoded source images
// are released with the call; target-sized intermediates come from a
// mutex-guarded pool with a fixed byte budget and are returned before a call
// finishes, on every path. Concurrent calls on distinct surfaces and paths
// are safe.
package surfio
