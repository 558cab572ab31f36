package xv6fs

import "fmt"

// Image is a byte-level view of an xv6 file system image. It has no
// cache and no state beyond the slice itself: every read and write goes
// straight through to buf, the same way the original tools operated
// directly on a mmap'd region. Callers (pkg/image, or a test building an
// in-memory fixture) own the slice's lifetime.
type Image struct {
	buf []byte

	// OnWarning, if set, is called for non-fatal conditions that the
	// original implementation logged to its warning channel and then
	// continued past: freeing an already-free block, unlinking an inode
	// whose link count was already wrong, and so on. The core never logs
	// by itself; internal/clilog wires this to slog for the front ends.
	OnWarning func(op, msg string)
}

// NewImage wraps buf, a whole xv6 image, for reading and writing.
func NewImage(buf []byte) *Image {
	return &Image{buf: buf}
}

// Bytes returns the image's backing slice; nothing in this package
// otherwise hands it out.
func (im *Image) Bytes() []byte { return im.buf }

// Size returns the size of the image in blocks, as distinct from the
// logical block count recorded in the superblock (which only covers the
// data region).
func (im *Image) Size() int { return len(im.buf) / BSIZE }

func (im *Image) block(b uint32) []byte {
	start := int(b) * BSIZE
	return im.buf[start : start+BSIZE]
}

func (im *Image) warn(op, format string, args ...any) {
	if im.OnWarning != nil {
		im.OnWarning(op, fmt.Sprintf(format, args...))
	}
}
