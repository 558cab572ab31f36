package xv6fs

// Skipelem strips any leading slashes from path, then returns the next
// path component (truncated to DIRSIZ bytes, as the on-disk name field
// would be) and the remainder of the path starting at the following
// slash, if any. An empty name means path was empty or held only
// slashes.
func Skipelem(path string) (name, rest string) {
	i := 0
	for i < len(path) && path[i] == '/' {
		i++
	}
	path = path[i:]
	j := 0
	for j < len(path) && path[j] != '/' {
		j++
	}
	name = path[:j]
	if len(name) > DIRSIZ {
		name = name[:DIRSIZ]
	}
	return name, path[j:]
}

// Splitpath splits path into the directory portion (everything up to and
// including the separators before the last component) and the last
// component itself. Given "/a/b/c" it returns ("/a/b/", "c").
func Splitpath(path string) (dir, base string) {
	s, p := 0, 0
	for p < len(path) {
		for p < len(path) && path[p] == '/' {
			p++
		}
		s = p
		for p < len(path) && path[p] != '/' {
			p++
		}
	}
	return path[:s], path[s:p]
}

// Ilookup resolves path against root and returns the inode it names, or
// a NotFound error naming the first missing component. An empty or
// all-slashes path resolves to root itself.
func (im *Image) Ilookup(root *Dinode, path string) (*Dinode, error) {
	rp := root
	for {
		var name string
		name, path = Skipelem(path)
		if name == "" {
			return rp, nil
		}
		ip, _, err := im.Dlookup(rp, name)
		if err != nil {
			return nil, &NotFound{Op: "ilookup", Name: name}
		}
		if path == "" {
			return ip, nil
		}
		if !ip.IsDir() {
			return nil, invalidArgf("ilookup", "%s: not a directory", name)
		}
		rp = ip
	}
}

// Icreat resolves path's directory prefix against root, creates a new
// inode of type typ for its last component, and links it in. It fails if
// the final component already exists or any directory along the way is
// missing.
func (im *Image) Icreat(root *Dinode, path string, typ uint16) (*Dinode, error) {
	rp := root
	for {
		var name string
		name, path = Skipelem(path)
		if name == "" {
			return nil, invalidArgf("icreat", "empty file name")
		}
		ip, _, err := im.Dlookup(rp, name)
		exists := err == nil

		if path == "" {
			if exists {
				return nil, invalidArgf("icreat", "%s: file exists", name)
			}
			newIp, aerr := im.Ialloc(typ)
			if aerr != nil {
				return nil, aerr
			}
			if derr := im.Daddent(rp, name, newIp); derr != nil {
				return nil, derr
			}
			if newIp.IsDir() {
				if derr := im.Daddent(newIp, ".", newIp); derr != nil {
					return nil, derr
				}
				if derr := im.Daddent(newIp, "..", rp); derr != nil {
					return nil, derr
				}
			}
			return newIp, nil
		}

		if !exists || !ip.IsDir() {
			return nil, invalidArgf("icreat", "%s: no such directory", name)
		}
		rp = ip
	}
}

// Iunlink resolves path against root and removes its directory entry,
// decrementing (and, if it reaches zero, truncating and freeing) the
// inode it named. Unlinking "." or ".." is refused.
func (im *Image) Iunlink(root *Dinode, path string) error {
	rp := root
	for {
		var name string
		name, path = Skipelem(path)
		if name == "" {
			return invalidArgf("iunlink", "empty file name")
		}
		ip, off, err := im.Dlookup(rp, name)
		exists := err == nil

		if exists && path == "" {
			if name == "." || name == ".." {
				return invalidArgf("iunlink", `cannot unlink "." or ".."`)
			}
			zero := make([]byte, DirentSize)
			n, werr := im.Iwrite(rp, zero, off)
			if werr != nil || n != DirentSize {
				return invalidArgf("iunlink", "inode #%d: write error", rp.Ino)
			}
			if ip.IsDir() {
				pp, _, perr := im.Dlookup(ip, "..")
				if perr == nil && pp.Ino == rp.Ino {
					rp.NLink--
					rp.Put()
				}
			}
			ip.NLink--
			ip.Put()
			if ip.NLink == 0 {
				if ip.Type != TypeDev {
					if terr := im.Itruncate(ip, 0); terr != nil {
						return terr
					}
				}
				if ferr := im.Ifree(ip.Ino); ferr != nil {
					return ferr
				}
			}
			return nil
		}

		if !exists || !ip.IsDir() {
			return invalidArgf("iunlink", "%s: no such directory", name)
		}
		rp = ip
	}
}
