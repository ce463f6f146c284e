// Package sample manages the transient straight-alpha RGBA buffers that sit
// between the decoders, the resampler and the encoders.
//
// Buffers are plain *image.NRGBA values so they can be handed directly to the
// standard image codecs and to golang.org/x/image/draw.
package sample

import (
	"image"
	"sync"
)

// DefaultMaxBytes is the retention budget of the package-level pool.
const DefaultMaxBytes = 32 << 20

// Pool is a thread-safe pool for reusing sample buffers.
//
// Pool groups buffers by their dimensions, allowing efficient reuse of
// identically-sized intermediates when the same target box is loaded or the
// same surface size is saved repeatedly. The total size of retained buffers
// can be capped; buffers that would exceed the cap are dropped for the
// garbage collector.
//
// Thread safety: All methods are safe for concurrent use.
type Pool struct {
	mu       sync.Mutex
	buckets  map[poolKey][]*image.NRGBA
	maxSize  int // max buffers per bucket
	maxBytes int // max retained Pix bytes, 0 = unlimited
	retained int
}

type poolKey struct {
	width  int
	height int
}

// NewPool creates a new sample buffer pool with the given maximum buffers per bucket.
// A maxPerBucket of 0 means unlimited (use with caution).
func NewPool(maxPerBucket int) *Pool {
	return NewBoundedPool(maxPerBucket, 0)
}

// NewBoundedPool is NewPool with a cap on the total bytes of pixel data the
// pool keeps alive. A maxBytes of 0 means unlimited.
func NewBoundedPool(maxPerBucket, maxBytes int) *Pool {
	return &Pool{
		buckets:  make(map[poolKey][]*image.NRGBA),
		maxSize:  maxPerBucket,
		maxBytes: max(maxBytes, 0),
	}
}

// Get retrieves a tightly packed buffer of the given size from the pool or
// allocates a new one. Reused buffers are cleared to transparent black.
// Negative dimensions are treated as zero.
func (p *Pool) Get(width, height int) *image.NRGBA {
	width, height = max(width, 0), max(height, 0)
	key := poolKey{width: width, height: height}

	p.mu.Lock()
	bucket := p.buckets[key]
	if len(bucket) > 0 {
		buf := bucket[len(bucket)-1]
		bucket[len(bucket)-1] = nil
		if len(bucket) == 1 {
			delete(p.buckets, key)
		} else {
			p.buckets[key] = bucket[:len(bucket)-1]
		}
		p.retained -= len(buf.Pix)
		p.mu.Unlock()

		clear(buf.Pix)
		return buf
	}
	p.mu.Unlock()

	return image.NewNRGBA(image.Rect(0, 0, width, height))
}

// Put returns a buffer to the pool for reuse.
// Buffers that are nil, not tightly packed, or not anchored at the origin are
// discarded, as are buffers whose bucket is full or that would push the pool
// over its byte budget.
func (p *Pool) Put(buf *image.NRGBA) {
	if buf == nil {
		return
	}
	b := buf.Rect
	if b.Min != (image.Point{}) || buf.Stride != b.Dx()*4 || len(buf.Pix) != buf.Stride*b.Dy() {
		return
	}

	key := poolKey{width: b.Dx(), height: b.Dy()}

	p.mu.Lock()
	defer p.mu.Unlock()

	bucket := p.buckets[key]
	if p.maxSize > 0 && len(bucket) >= p.maxSize {
		return
	}
	if p.maxBytes > 0 && p.retained+len(buf.Pix) > p.maxBytes {
		return
	}
	p.buckets[key] = append(bucket, buf)
	p.retained += len(buf.Pix)
}

// Len reports how many buffers of the given size are currently pooled.
func (p *Pool) Len(width, height int) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.buckets[poolKey{width: width, height: height}])
}

// Retained reports the total pixel bytes currently held by the pool.
func (p *Pool) Retained() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.retained
}

var defaultPool = NewBoundedPool(4, DefaultMaxBytes)

// Default returns the package-level pool shared by the loader and the saver.
func Default() *Pool {
	return defaultPool
}
