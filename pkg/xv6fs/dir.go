package xv6fs

import (
	"bytes"
	"encoding/binary"
)

// Dirent is the decoded form of one 16-byte directory entry: an inode
// number and a name, padded with NUL bytes and not necessarily
// NUL-terminated if it fills all DIRSIZ bytes. Inum == 0 marks an unused
// slot; Dlookup and Daddent never compare its Name.
type Dirent struct {
	Inum uint16
	Name [DIRSIZ]byte
}

func (de *Dirent) decode(b []byte) {
	de.Inum = binary.LittleEndian.Uint16(b[0:2])
	copy(de.Name[:], b[2:2+DIRSIZ])
}

func (de *Dirent) encode(b []byte) {
	binary.LittleEndian.PutUint16(b[0:2], de.Inum)
	copy(b[2:2+DIRSIZ], de.Name[:])
}

func direntName(raw [DIRSIZ]byte) string {
	if i := bytes.IndexByte(raw[:], 0); i >= 0 {
		return string(raw[:i])
	}
	return string(raw[:])
}

func truncName(name string) string {
	if len(name) > DIRSIZ {
		return name[:DIRSIZ]
	}
	return name
}

func encodeName(name string) [DIRSIZ]byte {
	var b [DIRSIZ]byte
	copy(b[:], name)
	return b
}

// Dlookup looks for name among dir's entries and returns the inode it
// names along with the byte offset of its dirent within dir, for callers
// that need to overwrite or remove it in place.
func (im *Image) Dlookup(dir *Dinode, name string) (*Dinode, uint32, error) {
	if !dir.IsDir() {
		return nil, 0, invalidArgf("dlookup", "inode #%d: not a directory", dir.Ino)
	}
	name = truncName(name)
	buf := make([]byte, DirentSize)
	for off := uint32(0); off < dir.Size; off += DirentSize {
		n, err := im.Iread(dir, buf, off)
		if err != nil || n != DirentSize {
			return nil, 0, invalidArgf("dlookup", "inode #%d: read error", dir.Ino)
		}
		var de Dirent
		de.decode(buf)
		if de.Inum == 0 {
			continue
		}
		if direntName(de.Name) == name {
			target, err := im.Iget(uint32(de.Inum))
			if err != nil {
				return nil, 0, err
			}
			return target, off, nil
		}
	}
	return nil, 0, &NotFound{Op: "dlookup", Name: name}
}

// Daddent adds an entry named name for target in dir, reusing the first
// free (Inum == 0) slot it finds and stopping there: like the original,
// it does not keep scanning past that slot to detect a same-named entry
// further along. If no free slot turns up before dir.Size, the entry is
// appended. Unless name is ".", target's link count is incremented.
func (im *Image) Daddent(dir *Dinode, name string, target *Dinode) error {
	if !dir.IsDir() {
		return invalidArgf("daddent", "inode #%d: not a directory", dir.Ino)
	}
	name = truncName(name)
	buf := make([]byte, DirentSize)
	off := uint32(0)
	for ; off < dir.Size; off += DirentSize {
		n, err := im.Iread(dir, buf, off)
		if err != nil || n != DirentSize {
			return invalidArgf("daddent", "inode #%d: read error", dir.Ino)
		}
		var de Dirent
		de.decode(buf)
		if de.Inum == 0 {
			break
		}
		if direntName(de.Name) == name {
			return invalidArgf("daddent", "%s: file exists", name)
		}
	}

	var de Dirent
	de.Inum = uint16(target.Ino)
	de.Name = encodeName(name)
	de.encode(buf)
	n, err := im.Iwrite(dir, buf, off)
	if err != nil || n != DirentSize {
		return invalidArgf("daddent", "inode #%d: write error", dir.Ino)
	}
	if name != "." {
		target.NLink++
		target.Put()
	}
	return nil
}

// Emptydir reports whether dir contains only its own "." and ".."
// entries.
func (im *Image) Emptydir(dir *Dinode) (bool, error) {
	if !dir.IsDir() {
		return false, invalidArgf("emptydir", "inode #%d: not a directory", dir.Ino)
	}
	nent := 0
	buf := make([]byte, DirentSize)
	for off := uint32(0); off < dir.Size; off += DirentSize {
		n, err := im.Iread(dir, buf, off)
		if err != nil || n != DirentSize {
			return false, invalidArgf("emptydir", "inode #%d: read error", dir.Ino)
		}
		var de Dirent
		de.decode(buf)
		if de.Inum != 0 {
			nent++
		}
	}
	return nent == 2, nil
}

// Dmkparlink rewrites child's ".." entry to point at parent and bumps
// parent's link count. Used after moving a directory to a new parent.
func (im *Image) Dmkparlink(parent, child *Dinode) error {
	if !parent.IsDir() {
		return invalidArgf("dmkparlink", "inode #%d: not a directory", parent.Ino)
	}
	if !child.IsDir() {
		return invalidArgf("dmkparlink", "inode #%d: not a directory", child.Ino)
	}
	_, off, err := im.Dlookup(child, "..")
	if err != nil {
		return err
	}
	var de Dirent
	de.Inum = uint16(parent.Ino)
	de.Name = encodeName("..")
	buf := make([]byte, DirentSize)
	de.encode(buf)
	n, err := im.Iwrite(child, buf, off)
	if err != nil || n != DirentSize {
		return invalidArgf("dmkparlink", "inode #%d: write error", child.Ino)
	}
	parent.NLink++
	parent.Put()
	return nil
}
