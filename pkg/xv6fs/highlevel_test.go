package xv6fs_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wtakuo/opfs/pkg/xv6fs"
)

func putString(t *testing.T, fs *xv6fs.Image, ip *xv6fs.Dinode, content string) {
	t.Helper()
	require.NoError(t, fs.Put(strings.NewReader(content), ip))
}

func TestPutAndGetRoundTrip(t *testing.T) {
	fs, root := newFixture(t, 1024, 200, 30)
	ip, err := fs.Icreat(root, "greeting", xv6fs.TypeFile)
	require.NoError(t, err)

	content := strings.Repeat("xv6 is tiny. ", 200) // spans multiple blocks
	putString(t, fs, ip, content)

	var buf bytes.Buffer
	require.NoError(t, fs.Get(&buf, ip))
	assert.Equal(t, content, buf.String())
	assert.EqualValues(t, len(content), ip.Size)
}

func TestMkdirLsRmdir(t *testing.T) {
	fs, root := newFixture(t, 1024, 200, 30)
	assert := assert.New(t)
	require := require.New(t)

	require.NoError(fs.Mkdir(root, "/sub"))
	assert.Error(fs.Mkdir(root, "/sub"), "mkdir over an existing entry should fail")

	sub, err := fs.Ilookup(root, "/sub")
	require.NoError(err)
	assert.True(sub.IsDir())

	empty, err := fs.Emptydir(sub)
	require.NoError(err)
	assert.True(empty)

	require.NoError(fs.Rmdir(root, "/sub"))
	_, err = fs.Ilookup(root, "/sub")
	assert.Error(err)
}

func TestRmdirRefusesNonEmpty(t *testing.T) {
	fs, root := newFixture(t, 1024, 200, 30)
	require.NoError(t, fs.Mkdir(root, "/sub"))
	sub, err := fs.Ilookup(root, "/sub")
	require.NoError(t, err)
	_, err = fs.Icreat(sub, "leaf", xv6fs.TypeFile)
	require.NoError(t, err)

	err = fs.Rmdir(root, "/sub")
	assert.Error(t, err)
}

func TestCpCreatesAndOverwrites(t *testing.T) {
	fs, root := newFixture(t, 1024, 200, 30)
	require := require.New(t)

	src, err := fs.Icreat(root, "src", xv6fs.TypeFile)
	require.NoError(err)
	putString(t, fs, src, "original content")

	require.NoError(fs.Cp(root, "/src", "/dst"))
	dst, err := fs.Ilookup(root, "/dst")
	require.NoError(err)
	var buf bytes.Buffer
	require.NoError(fs.Get(&buf, dst))
	assert.Equal(t, "original content", buf.String())

	putString(t, fs, src, "changed")
	require.NoError(fs.Cp(root, "/src", "/dst"))
	dst, err = fs.Ilookup(root, "/dst")
	require.NoError(err)
	buf.Reset()
	require.NoError(fs.Get(&buf, dst))
	assert.Equal(t, "changed", buf.String())
}

func TestMvRenameWithinDirectory(t *testing.T) {
	fs, root := newFixture(t, 1024, 200, 30)
	require := require.New(t)

	src, err := fs.Icreat(root, "src", xv6fs.TypeFile)
	require.NoError(err)
	putString(t, fs, src, "payload")

	require.NoError(fs.Mv(root, "/src", "/dst"))
	_, err = fs.Ilookup(root, "/src")
	assert.Error(t, err)
	dst, err := fs.Ilookup(root, "/dst")
	require.NoError(err)
	assert.Equal(t, src.Ino, dst.Ino)
}

func TestMvDirectoryFixesParentLink(t *testing.T) {
	fs, root := newFixture(t, 1024, 200, 30)
	require := require.New(t)

	require.NoError(fs.Mkdir(root, "/a"))
	require.NoError(fs.Mkdir(root, "/b"))
	a, err := fs.Ilookup(root, "/a")
	require.NoError(err)

	require.NoError(fs.Mv(root, "/a", "/b/a"))
	moved, err := fs.Ilookup(root, "/b/a")
	require.NoError(err)
	assert.Equal(t, a.Ino, moved.Ino)

	parent, _, err := fs.Dlookup(moved, "..")
	require.NoError(err)
	b, err := fs.Ilookup(root, "/b")
	require.NoError(err)
	assert.Equal(t, b.Ino, parent.Ino)
}

func TestLnAddsSecondName(t *testing.T) {
	fs, root := newFixture(t, 1024, 200, 30)
	require := require.New(t)

	src, err := fs.Icreat(root, "src", xv6fs.TypeFile)
	require.NoError(err)
	putString(t, fs, src, "shared")

	require.NoError(fs.Ln(root, "/src", "/also"))
	also, err := fs.Ilookup(root, "/also")
	require.NoError(err)
	assert.Equal(t, src.Ino, also.Ino)
	assert.EqualValues(t, 2, also.NLink)
}

func TestRmRefusesDirectory(t *testing.T) {
	fs, root := newFixture(t, 1024, 200, 30)
	require.NoError(t, fs.Mkdir(root, "/sub"))
	assert.Error(t, fs.Rm(root, "/sub"))
}

func TestDiskinfoCountsAllocations(t *testing.T) {
	fs, root := newFixture(t, 1024, 200, 30)
	_, err := fs.Icreat(root, "f1", xv6fs.TypeFile)
	require.NoError(t, err)
	require.NoError(t, fs.Mkdir(root, "/d1"))

	di := fs.Diskinfo()
	assert.EqualValues(t, 1024, di.TotalBlocks)
	assert.Equal(t, 2, di.UsedDirs) // root + d1
	assert.Equal(t, 1, di.UsedFiles)
}
