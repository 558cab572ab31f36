// Package xv6fs implements the on-disk structures and operations of an
// xv6-riscv file system image: the superblock, the free-block bitmap, the
// inode table, directories, and the path-resolution and high-level
// operations built on top of them.
//
// The package performs no I/O of its own. Every exported type operates on
// a byte slice handed to it by the caller (see Image), which in the three
// command-line front ends is a memory-mapped disk image file from
// pkg/image. This mirrors xv6's own kernel/user split: the file system
// code manipulates buffers: acquiring, mapping, and releasing them is
// somebody else's job.
package xv6fs

const (
	// BSIZE is the size in bytes of every block in an xv6 image, including
	// the boot block, the superblock, log blocks, inode blocks, bitmap
	// blocks, and data blocks.
	BSIZE = 512

	// DinodeSize is the on-disk size of one inode record.
	DinodeSize = 64

	// IPB is the number of inode records that fit in one block.
	IPB = BSIZE / DinodeSize

	// DirentSize is the on-disk size of one directory entry.
	DirentSize = 16

	// DIRSIZ is the maximum length of one path component, not including a
	// terminating NUL.
	DIRSIZ = 14

	// NDIRECT is the number of direct block pointers in a dinode.
	NDIRECT = 12

	// NINDIRECT is the number of block pointers that fit in one indirect
	// block.
	NINDIRECT = BSIZE / 4

	// MAXFILE is the largest number of blocks a file can occupy.
	MAXFILE = NDIRECT + NINDIRECT

	// MAXFILESIZE is the largest file size in bytes representable by a
	// dinode's direct and singly-indirect block pointers.
	MAXFILESIZE = MAXFILE * BSIZE

	// BPB is the number of bits (block numbers) tracked by one bitmap
	// block.
	BPB = BSIZE * 8

	// Magic identifies a well-formed xv6 file system image.
	Magic = 0x10203040

	// RootInum is the inode number of the file system root directory.
	RootInum = 1
)

// Inode types, stored in the dinode's Type field. Zero means the inode is
// free.
const (
	TypeFree = 0
	TypeDir  = 1
	TypeFile = 2
	TypeDev  = 3
)
