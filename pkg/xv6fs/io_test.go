package xv6fs_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wtakuo/opfs/pkg/xv6fs"
)

// bigFixture sizes an image generously enough to grow a file across the
// direct/indirect boundary (NDIRECT+1 blocks and beyond).
func bigFixture(t *testing.T) (*xv6fs.Image, *xv6fs.Dinode) {
	return newFixture(t, 4096, 200, 30)
}

func TestIwriteGrowsAcrossIndirectBoundary(t *testing.T) {
	fs, root := bigFixture(t)
	ip, err := fs.Icreat(root, "big", xv6fs.TypeFile)
	require.NoError(t, err)

	data := make([]byte, (xv6fs.NDIRECT+5)*xv6fs.BSIZE)
	for i := range data {
		data[i] = byte(i)
	}
	n, err := fs.Iwrite(ip, data, 0)
	require.NoError(t, err)
	assert.Equal(t, len(data), n)
	assert.EqualValues(t, len(data), ip.Size)
	assert.NotZero(t, ip.Addrs[xv6fs.NDIRECT], "indirect block should be allocated")

	buf := make([]byte, len(data))
	n, err = fs.Iread(ip, buf, 0)
	require.NoError(t, err)
	assert.Equal(t, len(data), n)
	assert.Equal(t, data, buf)
}

func TestItruncateFreesIndirectBlockWhenFullyShrunk(t *testing.T) {
	fs, root := bigFixture(t)
	ip, err := fs.Icreat(root, "big", xv6fs.TypeFile)
	require.NoError(t, err)

	data := make([]byte, (xv6fs.NDIRECT+5)*xv6fs.BSIZE)
	_, err = fs.Iwrite(ip, data, 0)
	require.NoError(t, err)
	iaddr := ip.Addrs[xv6fs.NDIRECT]
	require.NotZero(t, iaddr)

	require.NoError(t, fs.Itruncate(ip, xv6fs.NDIRECT*xv6fs.BSIZE))
	assert.Zero(t, ip.Addrs[xv6fs.NDIRECT])

	alloc, err := fs.BitmapBit(iaddr)
	require.NoError(t, err)
	assert.False(t, alloc, "freed indirect block should be marked free")
}

func TestItruncateGrowZeroFills(t *testing.T) {
	fs, root := bigFixture(t)
	ip, err := fs.Icreat(root, "sparse", xv6fs.TypeFile)
	require.NoError(t, err)

	require.NoError(t, fs.Itruncate(ip, 2*xv6fs.BSIZE))
	buf := make([]byte, 2*xv6fs.BSIZE)
	n, err := fs.Iread(ip, buf, 0)
	require.NoError(t, err)
	assert.Equal(t, len(buf), n)
	for _, b := range buf {
		assert.Zero(t, b)
	}
}

func TestIreadClipsToFileSize(t *testing.T) {
	fs, root := bigFixture(t)
	ip, err := fs.Icreat(root, "short", xv6fs.TypeFile)
	require.NoError(t, err)
	_, err = fs.Iwrite(ip, []byte("hi"), 0)
	require.NoError(t, err)

	buf := make([]byte, 100)
	n, err := fs.Iread(ip, buf, 0)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}
