package xv6fs

import "encoding/binary"

// Bmap returns the data block number holding the n'th block (0-based) of
// inode d's content, allocating and linking a fresh block — and, for n >=
// NDIRECT, a fresh indirect block — on first reference. A single call
// allocates at most two blocks: the indirect block and the data block.
func (im *Image) Bmap(d *Dinode, n uint32) (uint32, error) {
	if n < NDIRECT {
		addr := d.Addrs[n]
		if addr == 0 {
			a, err := im.Balloc()
			if err != nil {
				return 0, err
			}
			addr = a
			d.Addrs[n] = addr
			d.Put()
		}
		return addr, nil
	}

	n -= NDIRECT
	if n >= NINDIRECT {
		return 0, invalidArgf("bmap", "%d: out of range", n+NDIRECT)
	}

	iaddr := d.Addrs[NDIRECT]
	if iaddr == 0 {
		a, err := im.Balloc()
		if err != nil {
			return 0, err
		}
		iaddr = a
		d.Addrs[NDIRECT] = iaddr
		d.Put()
	}

	ib := im.block(iaddr)
	off := n * 4
	addr := binary.LittleEndian.Uint32(ib[off : off+4])
	if addr == 0 {
		a, err := im.Balloc()
		if err != nil {
			return 0, err
		}
		addr = a
		binary.LittleEndian.PutUint32(ib[off:off+4], addr)
	}
	return addr, nil
}
