package xv6fs_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/wtakuo/opfs/pkg/xv6fs"
)

func TestSkipelem(t *testing.T) {
	cases := []struct {
		path, name, rest string
	}{
		{"a/bb/c", "a", "/bb/c"},
		{"///a//bb", "a", "//bb"},
		{"a", "a", ""},
		{"", "", ""},
		{"////", "", ""},
	}
	for _, c := range cases {
		name, rest := xv6fs.Skipelem(c.path)
		assert.Equal(t, c.name, name, "path=%q", c.path)
		assert.Equal(t, c.rest, rest, "path=%q", c.path)
	}
}

func TestSkipelemTruncatesLongNames(t *testing.T) {
	name, _ := xv6fs.Skipelem("abcdefghijklmnopqrstuvwxyz")
	assert.Len(t, name, xv6fs.DIRSIZ)
	assert.Equal(t, "abcdefghijklmn", name)
}

func TestSplitpath(t *testing.T) {
	cases := []struct {
		path, dir, base string
	}{
		{"/a/b/c", "/a/b/", "c"},
		{"a", "", "a"},
		{"/a", "/", "a"},
		{"a/b", "a/", "b"},
	}
	for _, c := range cases {
		dir, base := xv6fs.Splitpath(c.path)
		assert.Equal(t, c.dir, dir, "path=%q", c.path)
		assert.Equal(t, c.base, base, "path=%q", c.path)
	}
}

func TestIlookupRoot(t *testing.T) {
	fs, root := newFixture(t, 1024, 200, 30)
	ip, err := fs.Ilookup(root, "/")
	assert := assert.New(t)
	assert.NoError(err)
	assert.Equal(root.Ino, ip.Ino)

	ip, err = fs.Ilookup(root, "")
	assert.NoError(err)
	assert.Equal(root.Ino, ip.Ino)
}

func TestIlookupMissing(t *testing.T) {
	fs, root := newFixture(t, 1024, 200, 30)
	_, err := fs.Ilookup(root, "/nope")
	assert.Error(t, err)
	var nf *xv6fs.NotFound
	assert.ErrorAs(t, err, &nf)
}

func TestIcreatAndIunlink(t *testing.T) {
	fs, root := newFixture(t, 1024, 200, 30)
	assert := assert.New(t)

	ip, err := fs.Icreat(root, "hello", xv6fs.TypeFile)
	assert.NoError(err)
	assert.EqualValues(1, ip.NLink)

	_, err = fs.Icreat(root, "hello", xv6fs.TypeFile)
	assert.Error(err, "creating an existing name should fail")

	found, err := fs.Ilookup(root, "hello")
	assert.NoError(err)
	assert.Equal(ip.Ino, found.Ino)

	err = fs.Iunlink(root, "hello")
	assert.NoError(err)

	_, err = fs.Ilookup(root, "hello")
	assert.Error(err)
}
