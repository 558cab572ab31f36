package xv6fs_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wtakuo/opfs/pkg/xv6fs"
)

func TestSuperblockFieldGetSet(t *testing.T) {
	fs, _ := newFixture(t, 1024, 200, 30)

	v, err := fs.SuperblockField("ninodes")
	require.NoError(t, err)
	assert.EqualValues(t, 200, v)

	require.NoError(t, fs.SetSuperblockField("ninodes", 999))
	v, err = fs.SuperblockField("ninodes")
	require.NoError(t, err)
	assert.EqualValues(t, 999, v)

	_, err = fs.SuperblockField("nope")
	assert.Error(t, err)
}

func TestInodeFieldAndAddrs(t *testing.T) {
	fs, root := newFixture(t, 1024, 200, 30)
	ip, err := fs.Icreat(root, "f", xv6fs.TypeFile)
	require.NoError(t, err)

	require.NoError(t, fs.SetInodeField(ip.Ino, "size", 42))
	v, err := fs.InodeField(ip.Ino, "size")
	require.NoError(t, err)
	assert.EqualValues(t, 42, v)

	b, err := fs.Balloc()
	require.NoError(t, err)
	require.NoError(t, fs.SetInodeAddr(ip.Ino, 0, b))
	v, err = fs.InodeAddr(ip.Ino, 0)
	require.NoError(t, err)
	assert.Equal(t, b, v)
}

func TestDirentInumGetSetDelete(t *testing.T) {
	fs, root := newFixture(t, 1024, 200, 30)
	_, err := fs.Icreat(root, "f", xv6fs.TypeFile)
	require.NoError(t, err)

	inum, err := fs.DirentInum(root, "/", "f")
	require.NoError(t, err)
	assert.NotZero(t, inum)

	require.NoError(t, fs.SetDirentInum(root, "/", "f", inum+100))
	v, err := fs.DirentInum(root, "/", "f")
	require.NoError(t, err)
	assert.EqualValues(t, inum+100, v)

	require.NoError(t, fs.SetDirentInum(root, "/", "f", inum)) // restore
	require.NoError(t, fs.DeleteDirent(root, "/", "f"))
	_, err = fs.DirentInum(root, "/", "f")
	assert.Error(t, err)
}
