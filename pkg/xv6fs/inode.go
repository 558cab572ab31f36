package xv6fs

import "encoding/binary"

// Dinode is the decoded form of one on-disk inode record. Callers get
// one back from Iget or Ialloc, mutate the fields they need, and call
// Put to write it back: the same decode/mutate/Update cycle the teacher's
// FNode type uses, just against xv6's smaller, fixed-size record.
type Dinode struct {
	Type  uint16
	Major uint16
	Minor uint16
	NLink uint16
	Size  uint32
	Addrs [NDIRECT + 1]uint32 // [NDIRECT] is the singly-indirect block

	im  *Image
	Ino uint32
}

func (d *Dinode) decode(b []byte) {
	d.Type = binary.LittleEndian.Uint16(b[0:2])
	d.Major = binary.LittleEndian.Uint16(b[2:4])
	d.Minor = binary.LittleEndian.Uint16(b[4:6])
	d.NLink = binary.LittleEndian.Uint16(b[6:8])
	d.Size = binary.LittleEndian.Uint32(b[8:12])
	for i := range d.Addrs {
		off := 12 + i*4
		d.Addrs[i] = binary.LittleEndian.Uint32(b[off : off+4])
	}
}

func (d *Dinode) encode(b []byte) {
	binary.LittleEndian.PutUint16(b[0:2], d.Type)
	binary.LittleEndian.PutUint16(b[2:4], d.Major)
	binary.LittleEndian.PutUint16(b[4:6], d.Minor)
	binary.LittleEndian.PutUint16(b[6:8], d.NLink)
	binary.LittleEndian.PutUint32(b[8:12], d.Size)
	for i, a := range d.Addrs {
		off := 12 + i*4
		binary.LittleEndian.PutUint32(b[off:off+4], a)
	}
}

// IsDir reports whether d is a directory.
func (d *Dinode) IsDir() bool { return d.Type == TypeDir }

// Put writes d's current field values back to the image.
func (d *Dinode) Put() { d.encode(d.im.inodeBytes(d.Ino)) }

// Iget decodes and returns inode inum. inum must be in (0, ninodes); inode
// 0 is never a valid inode number, it marks a free dinode slot.
func (im *Image) Iget(inum uint32) (*Dinode, error) {
	sb := im.Superblock()
	if inum == 0 || inum >= sb.NInodes {
		return nil, invalidArgf("iget", "%d: invalid inode number", inum)
	}
	d := &Dinode{im: im, Ino: inum}
	d.decode(im.inodeBytes(inum))
	return d, nil
}

// Ialloc scans the inode table for a free slot (Type == TypeFree), zeroes
// it, sets its type to typ, and returns it. The caller is responsible for
// setting NLink and adding a directory entry that points at it.
func (im *Image) Ialloc(typ uint16) (*Dinode, error) {
	sb := im.Superblock()
	for inum := uint32(1); inum < sb.NInodes; inum++ {
		raw := im.inodeBytes(inum)
		if binary.LittleEndian.Uint16(raw[0:2]) != TypeFree {
			continue
		}
		for i := range raw {
			raw[i] = 0
		}
		binary.LittleEndian.PutUint16(raw[0:2], typ)
		d := &Dinode{im: im, Ino: inum, Type: typ}
		return d, nil
	}
	return nil, fatalf("ialloc", "cannot allocate an inode")
}

// Ifree marks inode inum free. It warns, rather than fails, if the inode
// was already free or still has outstanding links: both indicate the
// caller's bookkeeping is off, but neither corrupts the image further.
func (im *Image) Ifree(inum uint32) error {
	d, err := im.Iget(inum)
	if err != nil {
		return err
	}
	if d.Type == TypeFree {
		im.warn("ifree", "inode #%d is already free", inum)
	}
	if d.NLink != 0 {
		im.warn("ifree", "inode #%d: nlink is %d, not 0", inum, d.NLink)
	}
	d.Type = TypeFree
	d.Put()
	return nil
}
