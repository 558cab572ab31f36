package xv6fs

import "encoding/binary"

// Iread reads len(buf) bytes of d's content starting at off, clipping to
// d.Size, and returns the number of bytes actually read.
func (im *Image) Iread(d *Dinode, buf []byte, off uint32) (int, error) {
	if d.Type == TypeDev {
		return 0, invalidArgf("iread", "inode #%d: a device file", d.Ino)
	}
	n := uint32(len(buf))
	if off > d.Size || off+n < off {
		return 0, invalidArgf("iread", "inode #%d: read out of range", d.Ino)
	}
	if off+n > d.Size {
		n = d.Size - off
	}

	sb := im.Superblock()
	var t uint32
	for t < n {
		b, err := im.Bmap(d, off/BSIZE)
		if err != nil {
			return int(t), err
		}
		if !sb.IsValidDataBlock(b) {
			return int(t), invalidArgf("iread", "%d: invalid data block", b)
		}
		boff := off % BSIZE
		m := min32(n-t, BSIZE-boff)
		copy(buf[t:t+m], im.block(b)[boff:boff+m])
		t += m
		off += m
	}
	return int(t), nil
}

// Iwrite writes len(buf) bytes to d's content starting at off, growing
// d.Size if the write extends past the current end of file. It fails if
// off+len(buf) would exceed MAXFILESIZE.
func (im *Image) Iwrite(d *Dinode, buf []byte, off uint32) (int, error) {
	if d.Type == TypeDev {
		return 0, invalidArgf("iwrite", "inode #%d: a device file", d.Ino)
	}
	n := uint32(len(buf))
	if off > d.Size || off+n < off || off+n > MAXFILESIZE {
		return 0, invalidArgf("iwrite", "inode #%d: write out of range", d.Ino)
	}

	sb := im.Superblock()
	var t uint32
	for t < n {
		b, err := im.Bmap(d, off/BSIZE)
		if err != nil {
			return int(t), err
		}
		if !sb.IsValidDataBlock(b) {
			return int(t), invalidArgf("iwrite", "%d: invalid data block", b)
		}
		boff := off % BSIZE
		m := min32(n-t, BSIZE-boff)
		copy(im.block(b)[boff:boff+m], buf[t:t+m])
		t += m
		off += m
	}
	if t > 0 && off > d.Size {
		d.Size = off
		d.Put()
	}
	return int(t), nil
}

// Itruncate resizes d's content to size, freeing any direct and indirect
// data blocks beyond the new size (and the indirect block itself, if it
// becomes entirely unused), or zero-filling the newly exposed range when
// growing.
func (im *Image) Itruncate(d *Dinode, size uint32) error {
	if d.Type == TypeDev {
		return invalidArgf("itruncate", "inode #%d: a device file", d.Ino)
	}
	if size > MAXFILESIZE {
		return invalidArgf("itruncate", "%d: exceeds maximum file size", size)
	}

	if size < d.Size {
		n := divceil(d.Size, BSIZE) // blocks currently in use
		k := divceil(size, BSIZE)   // blocks to keep
		nd := min32(n, NDIRECT)
		kd := min32(k, NDIRECT)
		for i := kd; i < nd; i++ {
			if err := im.Bfree(d.Addrs[i]); err != nil {
				return err
			}
			d.Addrs[i] = 0
		}

		if n > NDIRECT {
			iaddr := d.Addrs[NDIRECT]
			ib := im.block(iaddr)
			ni := maxI32(int32(n)-NDIRECT, 0)
			ki := maxI32(int32(k)-NDIRECT, 0)
			for i := ki; i < ni; i++ {
				off := uint32(i) * 4
				addr := binary.LittleEndian.Uint32(ib[off : off+4])
				if err := im.Bfree(addr); err != nil {
					return err
				}
				binary.LittleEndian.PutUint32(ib[off:off+4], 0)
			}
			if ki == 0 {
				if err := im.Bfree(iaddr); err != nil {
					return err
				}
				d.Addrs[NDIRECT] = 0
			}
		}
	} else {
		n := size - d.Size
		var t uint32
		off := d.Size
		for t < n {
			b, err := im.Bmap(d, off/BSIZE)
			if err != nil {
				return err
			}
			boff := off % BSIZE
			m := min32(n-t, BSIZE-boff)
			blk := im.block(b)
			for i := uint32(0); i < m; i++ {
				blk[boff+i] = 0
			}
			t += m
			off += m
		}
	}

	d.Size = size
	d.Put()
	return nil
}

func min32(a, b uint32) uint32 {
	if a < b {
		return a
	}
	return b
}

func maxI32(a, b int32) uint32 {
	if a > b {
		return uint32(a)
	}
	return uint32(b)
}

func divceil(a, b uint32) uint32 { return (a + b - 1) / b }
