package xv6fs

import "encoding/binary"

// Superblock describes the region layout of an xv6 image: it is the
// decoded form of block 1. Every field is a 32-bit little-endian unsigned
// integer on disk, in this order.
type Superblock struct {
	Magic      uint32
	Size       uint32 // total blocks, meta + data
	NBlocks    uint32 // data blocks only
	NInodes    uint32
	NLog       uint32
	LogStart   uint32
	InodeStart uint32
	BmapStart  uint32
}

func (im *Image) sblock() []byte { return im.block(1) }

// Superblock decodes and returns block 1.
func (im *Image) Superblock() Superblock {
	b := im.sblock()
	return Superblock{
		Magic:      binary.LittleEndian.Uint32(b[0:4]),
		Size:       binary.LittleEndian.Uint32(b[4:8]),
		NBlocks:    binary.LittleEndian.Uint32(b[8:12]),
		NInodes:    binary.LittleEndian.Uint32(b[12:16]),
		NLog:       binary.LittleEndian.Uint32(b[16:20]),
		LogStart:   binary.LittleEndian.Uint32(b[20:24]),
		InodeStart: binary.LittleEndian.Uint32(b[24:28]),
		BmapStart:  binary.LittleEndian.Uint32(b[28:32]),
	}
}

// PutSuperblock encodes sb into block 1.
func (im *Image) PutSuperblock(sb Superblock) {
	b := im.sblock()
	binary.LittleEndian.PutUint32(b[0:4], sb.Magic)
	binary.LittleEndian.PutUint32(b[4:8], sb.Size)
	binary.LittleEndian.PutUint32(b[8:12], sb.NBlocks)
	binary.LittleEndian.PutUint32(b[12:16], sb.NInodes)
	binary.LittleEndian.PutUint32(b[16:20], sb.NLog)
	binary.LittleEndian.PutUint32(b[20:24], sb.LogStart)
	binary.LittleEndian.PutUint32(b[24:28], sb.InodeStart)
	binary.LittleEndian.PutUint32(b[28:32], sb.BmapStart)
}

// NiBlocks is the number of blocks occupied by the inode table. Like the
// original, this is ninodes/IPB + 1, not a strict ceiling: one inode
// block's worth of slack is always reserved, even when ninodes divides
// IPB evenly.
func (sb Superblock) NiBlocks() uint32 { return sb.NInodes/IPB + 1 }

// NmBlocks is the number of blocks occupied by the free-block bitmap,
// computed the same way as NiBlocks.
func (sb Superblock) NmBlocks() uint32 { return sb.Size/BPB + 1 }

// FirstDataBlock is the block number of the first data block.
func (sb Superblock) FirstDataBlock() uint32 { return sb.BmapStart + sb.NmBlocks() }

// LastDataBlock is the block number of the last data block.
func (sb Superblock) LastDataBlock() uint32 { return sb.FirstDataBlock() + sb.NBlocks - 1 }

// IsValidDataBlock reports whether b falls within the image's data
// region.
func (sb Superblock) IsValidDataBlock(b uint32) bool {
	return sb.FirstDataBlock() <= b && b <= sb.LastDataBlock()
}

// InodeBlock returns the block number holding inode inum's record.
func (sb Superblock) InodeBlock(inum uint32) uint32 { return sb.InodeStart + inum/IPB }

// BitmapBlock returns the block number of the bitmap block that tracks
// data block b.
func (sb Superblock) BitmapBlock(b uint32) uint32 { return sb.BmapStart + b/BPB }

func (im *Image) inodeBytes(inum uint32) []byte {
	sb := im.Superblock()
	blk := im.block(sb.InodeBlock(inum))
	off := (inum % IPB) * DinodeSize
	return blk[off : off+DinodeSize]
}

func bitPos(b uint32) (byteIdx uint32, mask byte) {
	return (b % BPB) / 8, byte(1 << (b % 8))
}
