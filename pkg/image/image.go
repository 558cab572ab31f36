// Package image memory-maps an xv6 disk image file for reading and
// writing, giving pkg/xv6fs the plain byte slice it operates on. There is
// no caching layer between the two: every xv6fs read or write lands on
// the mapped page directly, visible to any other process sharing the
// mapping, and Close flushes it back to the file.
package image

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// Image is a memory-mapped view of a disk image file.
type Image struct {
	f    *os.File
	data []byte
}

// Open maps an existing image file for reading and writing.
func Open(path string) (*Image, error) {
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return nil, err
	}
	im, err := mapFile(f)
	if err != nil {
		f.Close()
		return nil, err
	}
	return im, nil
}

// Create truncates (or creates) the file at path to size bytes and maps
// it for reading and writing. It is the counterpart newfs uses to lay
// down a brand-new image.
func Create(path string, size int64) (*Image, error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return nil, err
	}
	if err := f.Truncate(size); err != nil {
		f.Close()
		return nil, err
	}
	im, err := mapFile(f)
	if err != nil {
		f.Close()
		return nil, err
	}
	return im, nil
}

func mapFile(f *os.File) (*Image, error) {
	fi, err := f.Stat()
	if err != nil {
		return nil, err
	}
	size := fi.Size()
	if size == 0 {
		return nil, fmt.Errorf("image: %s: empty file", f.Name())
	}
	data, err := unix.Mmap(int(f.Fd()), 0, int(size), unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		return nil, fmt.Errorf("image: mmap %s: %w", f.Name(), err)
	}
	return &Image{f: f, data: data}, nil
}

// Bytes returns the mapped image as a byte slice.
func (im *Image) Bytes() []byte { return im.data }

// Sync flushes outstanding writes to the mapped region back to the
// underlying file.
func (im *Image) Sync() error {
	return unix.Msync(im.data, unix.MS_SYNC)
}

// Close syncs and unmaps the image and closes its file.
func (im *Image) Close() error {
	syncErr := unix.Msync(im.data, unix.MS_SYNC)
	unmapErr := unix.Munmap(im.data)
	closeErr := im.f.Close()
	switch {
	case syncErr != nil:
		return syncErr
	case unmapErr != nil:
		return unmapErr
	default:
		return closeErr
	}
}
