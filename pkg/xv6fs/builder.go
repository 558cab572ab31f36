package xv6fs

// Setupfs formats buf as a fresh xv6 image: size total blocks, ninodes
// inodes, and nlog log blocks. It lays out the boot block, superblock,
// log, inode table, and free-block bitmap in that order, marks the
// reserved prefix (everything before the first data block) allocated,
// and creates the root directory (inode 1) with "." and ".." entries
// pointing at itself.
func Setupfs(buf []byte, size, ninodes, nlog uint32) (*Image, error) {
	for i := range buf {
		buf[i] = 0
	}

	niblocks := ninodes/IPB + 1
	nmblocks := size/BPB + 1
	logstart := uint32(2)
	inodestart := logstart + nlog
	bmapstart := inodestart + niblocks
	nmeta := 2 + nlog + niblocks + nmblocks
	if nmeta > size {
		return nil, invalidArgf("setupfs", "%d: image too small for %d inodes and %d log blocks", size, ninodes, nlog)
	}
	nblocks := size - nmeta

	im := NewImage(buf)
	im.PutSuperblock(Superblock{
		Magic:      Magic,
		Size:       size,
		NBlocks:    nblocks,
		NInodes:    ninodes,
		NLog:       nlog,
		LogStart:   logstart,
		InodeStart: inodestart,
		BmapStart:  bmapstart,
	})

	sb := im.Superblock()
	reserved := bmapstart + nmblocks
	for b := uint32(0); b < reserved; b++ {
		bp := im.block(sb.BitmapBlock(b))
		byteIdx, mask := bitPos(b)
		bp[byteIdx] |= mask
	}

	root, err := im.Ialloc(TypeDir)
	if err != nil {
		return nil, err
	}
	if root.Ino != RootInum {
		return nil, fatalf("setupfs", "root inode is #%d, not #%d", root.Ino, RootInum)
	}
	if err := im.Daddent(root, ".", root); err != nil {
		return nil, err
	}
	if err := im.Daddent(root, "..", root); err != nil {
		return nil, err
	}
	return im, nil
}
