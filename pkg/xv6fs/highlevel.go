package xv6fs

import (
	"encoding/binary"
	"io"
	"math/bits"
)

// BufSize is the chunk size used when streaming file content in or out
// of an image: two blocks.
const BufSize = 1024

// DirEntry describes one entry produced by Ls.
type DirEntry struct {
	Name string
	Inum uint32
	Type uint16
	Size uint32
}

// Ls lists dir's entries. If ip does not name a directory, Ls returns a
// single entry describing ip itself, under the name path was resolved
// from (an inode carries no name of its own).
func (im *Image) Ls(ip *Dinode, path string) ([]DirEntry, error) {
	if !ip.IsDir() {
		return []DirEntry{{Name: path, Inum: ip.Ino, Type: ip.Type, Size: ip.Size}}, nil
	}
	var entries []DirEntry
	buf := make([]byte, DirentSize)
	for off := uint32(0); off < ip.Size; off += DirentSize {
		n, err := im.Iread(ip, buf, off)
		if err != nil || n != DirentSize {
			return nil, invalidArgf("ls", "inode #%d: read error", ip.Ino)
		}
		var de Dirent
		de.decode(buf)
		if de.Inum == 0 {
			continue
		}
		sub, err := im.Iget(uint32(de.Inum))
		if err != nil {
			return nil, err
		}
		entries = append(entries, DirEntry{
			Name: direntName(de.Name),
			Inum: uint32(de.Inum),
			Type: sub.Type,
			Size: sub.Size,
		})
	}
	return entries, nil
}

// Get streams ip's content to w.
func (im *Image) Get(w io.Writer, ip *Dinode) error {
	if ip.IsDir() {
		return invalidArgf("get", "inode #%d: a directory", ip.Ino)
	}
	buf := make([]byte, BufSize)
	for off := uint32(0); off < ip.Size; off += BufSize {
		n, err := im.Iread(ip, buf, off)
		if err != nil {
			return err
		}
		if _, werr := w.Write(buf[:n]); werr != nil {
			return werr
		}
	}
	return nil
}

// Put replaces ip's content with r's: it truncates ip to zero length,
// then streams r's content in from offset 0.
func (im *Image) Put(r io.Reader, ip *Dinode) error {
	if err := im.Itruncate(ip, 0); err != nil {
		return err
	}
	buf := make([]byte, BufSize)
	var off uint32
	for {
		n, rerr := r.Read(buf)
		if n > 0 {
			if _, werr := im.Iwrite(ip, buf[:n], off); werr != nil {
				return werr
			}
			off += uint32(n)
		}
		if rerr == io.EOF {
			return nil
		}
		if rerr != nil {
			return rerr
		}
	}
}

// Rm removes the plain file named by path. It refuses to remove a
// directory; use Rmdir for that.
func (im *Image) Rm(root *Dinode, path string) error {
	ip, err := im.Ilookup(root, path)
	if err != nil {
		return &NotFound{Op: "rm", Name: path}
	}
	if ip.IsDir() {
		return invalidArgf("rm", "%s: a directory", path)
	}
	return im.Iunlink(root, path)
}

// Cp copies the plain file at spath to dpath, creating dpath (or a file
// of the source's basename inside it, if dpath names an existing
// directory) and overwriting an existing plain file at dpath in place.
func (im *Image) Cp(root *Dinode, spath, dpath string) error {
	sip, err := im.Ilookup(root, spath)
	if err != nil {
		return &NotFound{Op: "cp", Name: spath}
	}
	if sip.Type != TypeFile {
		return invalidArgf("cp", "%s: not a plain file", spath)
	}

	dip, derr := im.Ilookup(root, dpath)
	if derr != nil {
		ddir, dname := Splitpath(dpath)
		if dname == "" {
			return invalidArgf("cp", "%s: no such directory", dpath)
		}
		ddip, ierr := im.Ilookup(root, ddir)
		if ierr != nil || !ddip.IsDir() {
			return invalidArgf("cp", "%s: no such directory", ddir)
		}
		newIp, cerr := im.Icreat(ddip, dname, TypeFile)
		if cerr != nil {
			return invalidArgf("cp", "%s: cannot create", dpath)
		}
		dip = newIp
	} else {
		switch dip.Type {
		case TypeDir:
			_, sname := Splitpath(spath)
			newIp, cerr := im.Icreat(dip, sname, TypeFile)
			if cerr != nil {
				return invalidArgf("cp", "%s: cannot create", sname)
			}
			dip = newIp
		case TypeFile:
			if terr := im.Itruncate(dip, 0); terr != nil {
				return terr
			}
		default:
			return invalidArgf("cp", "%s: a device file", dpath)
		}
	}

	buf := make([]byte, BufSize)
	for off := uint32(0); off < sip.Size; off += BufSize {
		n, rerr := im.Iread(sip, buf, off)
		if rerr != nil {
			return invalidArgf("cp", "%s: read error", spath)
		}
		if _, werr := im.Iwrite(dip, buf[:n], off); werr != nil {
			return invalidArgf("cp", "%s: write error", dpath)
		}
	}
	return nil
}

// Mv moves spath to dpath, following the same destination-resolution
// rules as Cp, plus directory-specific handling: moving a directory into
// an existing empty directory of the same name replaces it, and the
// moved directory's ".." is fixed up via Dmkparlink.
func (im *Image) Mv(root *Dinode, spath, dpath string) error {
	sip, err := im.Ilookup(root, spath)
	if err != nil {
		return &NotFound{Op: "mv", Name: spath}
	}
	if sip.Ino == root.Ino {
		return invalidArgf("mv", "%s: the root directory", spath)
	}

	ddir, dname := Splitpath(dpath)
	dip, derr := im.Ilookup(root, dpath)

	if derr != nil {
		if dname == "" {
			return invalidArgf("mv", "%s: no such directory", dpath)
		}
		ddip, ierr := im.Ilookup(root, ddir)
		if ierr != nil || !ddip.IsDir() {
			return invalidArgf("mv", "%s: no such directory", ddir)
		}
		if aerr := im.Daddent(ddip, dname, sip); aerr != nil {
			return aerr
		}
		if uerr := im.Iunlink(root, spath); uerr != nil {
			return uerr
		}
		if sip.IsDir() {
			return im.Dmkparlink(ddip, sip)
		}
		return nil
	}

	switch dip.Type {
	case TypeDir:
		_, sname := Splitpath(spath)
		existing, _, lerr := im.Dlookup(dip, sname)
		if lerr != nil {
			if aerr := im.Daddent(dip, sname, sip); aerr != nil {
				return aerr
			}
			if uerr := im.Iunlink(root, spath); uerr != nil {
				return uerr
			}
			if sip.IsDir() {
				return im.Dmkparlink(dip, sip)
			}
			return nil
		}
		switch existing.Type {
		case TypeDir:
			if !sip.IsDir() {
				return invalidArgf("mv", "%s: not a directory", spath)
			}
			empty, eerr := im.Emptydir(existing)
			if eerr != nil {
				return eerr
			}
			if !empty {
				return invalidArgf("mv", "%s/%s: directory not empty", ddir, sname)
			}
			if uerr := im.Iunlink(dip, sname); uerr != nil {
				return uerr
			}
			if aerr := im.Daddent(dip, sname, sip); aerr != nil {
				return aerr
			}
			if uerr := im.Iunlink(root, spath); uerr != nil {
				return uerr
			}
			return im.Dmkparlink(dip, sip)
		case TypeFile:
			if sip.Type != TypeFile {
				return invalidArgf("mv", "%s: not a plain file", spath)
			}
			if uerr := im.Iunlink(dip, sname); uerr != nil {
				return uerr
			}
			if aerr := im.Daddent(dip, sname, sip); aerr != nil {
				return aerr
			}
			return im.Iunlink(root, spath)
		default:
			return invalidArgf("mv", "%s: a device file", dpath)
		}
	case TypeFile:
		if sip.Type != TypeFile {
			return invalidArgf("mv", "%s: not a plain file", spath)
		}
		if uerr := im.Iunlink(root, dpath); uerr != nil {
			return uerr
		}
		ddip, ierr := im.Ilookup(root, ddir)
		if ierr != nil || !ddip.IsDir() {
			return invalidArgf("mv", "%s: no such directory", ddir)
		}
		if aerr := im.Daddent(ddip, dname, sip); aerr != nil {
			return aerr
		}
		return im.Iunlink(root, spath)
	default:
		return invalidArgf("mv", "%s: a device file", dpath)
	}
}

// Ln adds a second directory entry named dpath for the plain file at
// spath. If dpath names an existing directory, the link is created
// inside it under spath's own basename.
func (im *Image) Ln(root *Dinode, spath, dpath string) error {
	sip, err := im.Ilookup(root, spath)
	if err != nil {
		return &NotFound{Op: "ln", Name: spath}
	}
	if sip.Type != TypeFile {
		return invalidArgf("ln", "%s: a directory or a device file", spath)
	}

	ddir, dname := Splitpath(dpath)
	dip, derr := im.Ilookup(root, ddir)
	if derr != nil || !dip.IsDir() {
		return invalidArgf("ln", "%s: no such directory", ddir)
	}

	if dname == "" {
		_, dname = Splitpath(spath)
		if _, _, lerr := im.Dlookup(dip, dname); lerr == nil {
			return invalidArgf("ln", "%s: file exists", dname)
		}
	} else if existing, _, lerr := im.Dlookup(dip, dname); lerr == nil {
		if !existing.IsDir() {
			return invalidArgf("ln", "%s: file exists", dname)
		}
		_, dname = Splitpath(spath)
		dip = existing
	}

	if aerr := im.Daddent(dip, dname, sip); aerr != nil {
		return invalidArgf("ln", "%s: cannot create a link", dname)
	}
	return nil
}

// Mkdir creates an empty directory at path.
func (im *Image) Mkdir(root *Dinode, path string) error {
	if _, err := im.Ilookup(root, path); err == nil {
		return invalidArgf("mkdir", "%s: file exists", path)
	}
	if _, err := im.Icreat(root, path, TypeDir); err != nil {
		return invalidArgf("mkdir", "%s: cannot create", path)
	}
	return nil
}

// Rmdir removes the empty directory at path.
func (im *Image) Rmdir(root *Dinode, path string) error {
	ip, err := im.Ilookup(root, path)
	if err != nil {
		return &NotFound{Op: "rmdir", Name: path}
	}
	if !ip.IsDir() {
		return invalidArgf("rmdir", "%s: not a directory", path)
	}
	empty, eerr := im.Emptydir(ip)
	if eerr != nil {
		return eerr
	}
	if !empty {
		return invalidArgf("rmdir", "%s: directory not empty", path)
	}
	return im.Iunlink(root, path)
}

// InodeInfo is the per-inode detail reported by Info: its metadata plus
// every block number reachable from it (direct blocks, the indirect
// block itself, then the blocks it points to).
type InodeInfo struct {
	Inum   uint32
	Type   uint16
	NLink  uint16
	Size   uint32
	Blocks []uint32
}

// Info reports ip's metadata and block list.
func (im *Image) Info(ip *Dinode) InodeInfo {
	info := InodeInfo{Inum: ip.Ino, Type: ip.Type, NLink: ip.NLink, Size: ip.Size}
	if ip.Size == 0 {
		return info
	}
	for i := 0; i < NDIRECT && ip.Addrs[i] != 0; i++ {
		info.Blocks = append(info.Blocks, ip.Addrs[i])
	}
	iaddr := ip.Addrs[NDIRECT]
	if iaddr == 0 {
		return info
	}
	info.Blocks = append(info.Blocks, iaddr)
	ib := im.block(iaddr)
	for i := 0; i < BSIZE/4; i++ {
		off := i * 4
		v := binary.LittleEndian.Uint32(ib[off : off+4])
		if v == 0 {
			break
		}
		info.Blocks = append(info.Blocks, v)
	}
	return info
}

// DiskInfo is the image-wide summary reported by Diskinfo.
type DiskInfo struct {
	TotalBlocks  uint32
	NInodes      uint32
	MaxFileSize  uint32
	LogStart     uint32
	LogEnd       uint32
	InodeStart   uint32
	InodeEnd     uint32
	BmapStart    uint32
	BmapEnd      uint32
	DataStart    uint32
	DataEnd      uint32
	UsedBlocks   int
	UsedDirs     int
	UsedFiles    int
	UsedDevs     int
}

// Diskinfo reports the region layout of the whole image along with
// allocation counts derived by walking the bitmap and inode table.
func (im *Image) Diskinfo() DiskInfo {
	sb := im.Superblock()
	ni, nm := sb.NiBlocks(), sb.NmBlocks()
	di := DiskInfo{
		TotalBlocks: sb.Size,
		NInodes:     sb.NInodes,
		MaxFileSize: MAXFILESIZE,
		LogStart:    sb.LogStart,
		LogEnd:      sb.LogStart + sb.NLog - 1,
		InodeStart:  sb.InodeStart,
		InodeEnd:    sb.InodeStart + ni - 1,
		BmapStart:   sb.BmapStart,
		BmapEnd:     sb.BmapStart + nm - 1,
		DataStart:   sb.FirstDataBlock(),
		DataEnd:     sb.LastDataBlock(),
	}

	for b := sb.BmapStart; b < sb.BmapStart+nm; b++ {
		for _, byteVal := range im.block(b) {
			di.UsedBlocks += bits.OnesCount8(byteVal)
		}
	}

	for inum := uint32(0); inum < sb.NInodes; inum++ {
		switch binary.LittleEndian.Uint16(im.inodeBytes(inum)[0:2]) {
		case TypeDir:
			di.UsedDirs++
		case TypeFile:
			di.UsedFiles++
		case TypeDev:
			di.UsedDevs++
		}
	}
	return di
}
