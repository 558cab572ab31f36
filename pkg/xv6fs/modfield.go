package xv6fs

import "encoding/binary"

// SuperblockField reads one named superblock field. Valid names are
// size, nblocks, ninodes, nlog, logstart, inodestart, and bmapstart
// (magic is intentionally not exposed here: modfs deals in the fields an
// operator would plausibly want to hand-edit, and corrupting the magic
// is rarely one of them).
func (im *Image) SuperblockField(name string) (uint32, error) {
	sb := im.Superblock()
	switch name {
	case "size":
		return sb.Size, nil
	case "nblocks":
		return sb.NBlocks, nil
	case "ninodes":
		return sb.NInodes, nil
	case "nlog":
		return sb.NLog, nil
	case "logstart":
		return sb.LogStart, nil
	case "inodestart":
		return sb.InodeStart, nil
	case "bmapstart":
		return sb.BmapStart, nil
	default:
		return 0, invalidArgf("superblock", "%s: no such field", name)
	}
}

// SetSuperblockField overwrites one named superblock field; see
// SuperblockField for the valid names.
func (im *Image) SetSuperblockField(name string, val uint32) error {
	sb := im.Superblock()
	switch name {
	case "size":
		sb.Size = val
	case "nblocks":
		sb.NBlocks = val
	case "ninodes":
		sb.NInodes = val
	case "nlog":
		sb.NLog = val
	case "logstart":
		sb.LogStart = val
	case "inodestart":
		sb.InodeStart = val
	case "bmapstart":
		sb.BmapStart = val
	default:
		return invalidArgf("superblock", "%s: no such field", name)
	}
	im.PutSuperblock(sb)
	return nil
}

// BitmapBit reports whether data block bnum is marked allocated.
func (im *Image) BitmapBit(bnum uint32) (bool, error) {
	sb := im.Superblock()
	if bnum >= sb.Size {
		return false, invalidArgf("bitmap", "%d: invalid block number", bnum)
	}
	bp := im.block(sb.BitmapBlock(bnum))
	byteIdx, mask := bitPos(bnum)
	return bp[byteIdx]&mask != 0, nil
}

// SetBitmapBit sets or clears data block bnum's allocation bit.
func (im *Image) SetBitmapBit(bnum uint32, val bool) error {
	sb := im.Superblock()
	if bnum >= sb.Size {
		return invalidArgf("bitmap", "%d: invalid block number", bnum)
	}
	bp := im.block(sb.BitmapBlock(bnum))
	byteIdx, mask := bitPos(bnum)
	if val {
		bp[byteIdx] |= mask
	} else {
		bp[byteIdx] &^= mask
	}
	return nil
}

// InodeField reads one named field (type, nlink, size, or indirect) of
// inode inum.
func (im *Image) InodeField(inum uint32, field string) (uint32, error) {
	d, err := im.Iget(inum)
	if err != nil {
		return 0, err
	}
	switch field {
	case "type":
		return uint32(d.Type), nil
	case "nlink":
		return uint32(d.NLink), nil
	case "size":
		return d.Size, nil
	case "indirect":
		return d.Addrs[NDIRECT], nil
	default:
		return 0, invalidArgf("inode", "%s: no such field", field)
	}
}

// SetInodeField overwrites one named field of inode inum.
func (im *Image) SetInodeField(inum uint32, field string, val uint32) error {
	d, err := im.Iget(inum)
	if err != nil {
		return err
	}
	switch field {
	case "type":
		d.Type = uint16(val)
	case "nlink":
		d.NLink = uint16(val)
	case "size":
		d.Size = val
	case "indirect":
		d.Addrs[NDIRECT] = val
	default:
		return invalidArgf("inode", "%s: no such field", field)
	}
	d.Put()
	return nil
}

// InodeAddr reads the n'th block pointer of inode inum: a direct pointer
// for n < NDIRECT, or an entry of its indirect block otherwise.
func (im *Image) InodeAddr(inum, n uint32) (uint32, error) {
	d, err := im.Iget(inum)
	if err != nil {
		return 0, err
	}
	if n < NDIRECT {
		return d.Addrs[n], nil
	}
	if n >= NDIRECT+NINDIRECT {
		return 0, invalidArgf("inode", "%d: out of range", n)
	}
	b := d.Addrs[NDIRECT]
	sb := im.Superblock()
	if !sb.IsValidDataBlock(b) {
		return 0, invalidArgf("inode", "%d: not a valid data block", b)
	}
	ib := im.block(b)
	off := (n - NDIRECT) * 4
	return binary.LittleEndian.Uint32(ib[off : off+4]), nil
}

// SetInodeAddr overwrites the n'th block pointer of inode inum, following
// the same direct/indirect split as InodeAddr.
func (im *Image) SetInodeAddr(inum, n, val uint32) error {
	d, err := im.Iget(inum)
	if err != nil {
		return err
	}
	if n < NDIRECT {
		d.Addrs[n] = val
		d.Put()
		return nil
	}
	if n >= NDIRECT+NINDIRECT {
		return invalidArgf("inode", "%d: out of range", n)
	}
	b := d.Addrs[NDIRECT]
	sb := im.Superblock()
	if !sb.IsValidDataBlock(b) {
		return invalidArgf("inode", "%d: not a valid data block", b)
	}
	ib := im.block(b)
	off := (n - NDIRECT) * 4
	binary.LittleEndian.PutUint32(ib[off:off+4], val)
	return nil
}

// DirentInum looks up name inside the directory at path and returns the
// inode number its entry holds.
func (im *Image) DirentInum(root *Dinode, path, name string) (uint32, error) {
	dp, err := im.Ilookup(root, path)
	if err != nil {
		return 0, invalidArgf("dirent", "%s: no such directory", path)
	}
	if !dp.IsDir() {
		return 0, invalidArgf("dirent", "%s: not a directory", path)
	}
	buf, _, err := im.rawDirentAt(dp, name)
	if err != nil {
		return 0, err
	}
	var de Dirent
	de.decode(buf)
	return uint32(de.Inum), nil
}

// SetDirentInum overwrites the inode number of the entry named name
// inside the directory at path, leaving the name field untouched.
func (im *Image) SetDirentInum(root *Dinode, path, name string, inum uint32) error {
	dp, err := im.Ilookup(root, path)
	if err != nil {
		return invalidArgf("dirent", "%s: no such directory", path)
	}
	if !dp.IsDir() {
		return invalidArgf("dirent", "%s: not a directory", path)
	}
	buf, off, err := im.rawDirentAt(dp, name)
	if err != nil {
		return err
	}
	var de Dirent
	de.decode(buf)
	de.Inum = uint16(inum)
	de.encode(buf)
	if n, werr := im.Iwrite(dp, buf, off); werr != nil || n != DirentSize {
		return invalidArgf("dirent", "%s: write error", name)
	}
	return nil
}

// DeleteDirent zeroes the entry named name inside the directory at path,
// freeing the slot without touching the inode it used to reference.
func (im *Image) DeleteDirent(root *Dinode, path, name string) error {
	dp, err := im.Ilookup(root, path)
	if err != nil {
		return invalidArgf("dirent", "%s: no such directory", path)
	}
	if !dp.IsDir() {
		return invalidArgf("dirent", "%s: not a directory", path)
	}
	_, off, err := im.rawDirentAt(dp, name)
	if err != nil {
		return err
	}
	zero := make([]byte, DirentSize)
	if n, werr := im.Iwrite(dp, zero, off); werr != nil || n != DirentSize {
		return invalidArgf("dirent", "%s: write error", name)
	}
	return nil
}

// rawDirentAt scans dp's entries (including unused ones, unlike Dlookup)
// for one named name and returns its raw bytes and offset. modfs needs
// this lower-level access because it must still locate an entry slot
// that exists on disk but whose inum it is about to overwrite.
func (im *Image) rawDirentAt(dp *Dinode, name string) ([]byte, uint32, error) {
	name = truncName(name)
	buf := make([]byte, DirentSize)
	for off := uint32(0); off < dp.Size; off += DirentSize {
		n, err := im.Iread(dp, buf, off)
		if err != nil || n != DirentSize {
			return nil, 0, invalidArgf("dirent", "inode #%d: read error", dp.Ino)
		}
		var de Dirent
		de.decode(buf)
		if direntName(de.Name) == name {
			return buf, off, nil
		}
	}
	return nil, 0, &NotFound{Op: "dirent", Name: name}
}
