package xv6fs_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wtakuo/opfs/pkg/xv6fs"
)

func TestDaddentRejectsDuplicateName(t *testing.T) {
	fs, root := newFixture(t, 1024, 200, 30)
	a, err := fs.Ialloc(xv6fs.TypeFile)
	require.NoError(t, err)
	require.NoError(t, fs.Daddent(root, "dup", a))

	b, err := fs.Ialloc(xv6fs.TypeFile)
	require.NoError(t, err)
	err = fs.Daddent(root, "dup", b)
	assert.Error(t, err)
}

func TestDaddentReusesFreedSlot(t *testing.T) {
	fs, root := newFixture(t, 1024, 200, 30)
	sizeBefore := root.Size

	require.NoError(t, fs.Mkdir(root, "/tmp"))
	require.NoError(t, fs.Rmdir(root, "/tmp")) // zeroes the slot, doesn't shrink root

	require.NoError(t, fs.Mkdir(root, "/again"))
	assert.Equal(t, sizeBefore+xv6fs.DirentSize, root.Size, "new entry should reuse the freed slot, not grow the directory")
}

func TestDlookupSkipsUnusedSlots(t *testing.T) {
	fs, root := newFixture(t, 1024, 200, 30)
	require.NoError(t, fs.Mkdir(root, "/a"))
	require.NoError(t, fs.Rmdir(root, "/a"))
	require.NoError(t, fs.Mkdir(root, "/b"))

	_, err := fs.Ilookup(root, "/a")
	assert.Error(t, err)
	_, err = fs.Ilookup(root, "/b")
	assert.NoError(t, err)
}

func TestEmptydirOnNonDirectoryFails(t *testing.T) {
	fs, root := newFixture(t, 1024, 200, 30)
	f, err := fs.Icreat(root, "f", xv6fs.TypeFile)
	require.NoError(t, err)
	_, err = fs.Emptydir(f)
	assert.Error(t, err)
}
