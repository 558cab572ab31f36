package xv6fs_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wtakuo/opfs/pkg/xv6fs"
)

// newFixture formats a small in-memory image and returns it along with
// its root directory inode, ready for a test to populate.
func newFixture(t *testing.T, blocks, inodes, logBlocks uint32) (*xv6fs.Image, *xv6fs.Dinode) {
	t.Helper()
	buf := make([]byte, blocks*xv6fs.BSIZE)
	fs, err := xv6fs.Setupfs(buf, blocks, inodes, logBlocks)
	require.NoError(t, err)
	root, err := fs.Iget(xv6fs.RootInum)
	require.NoError(t, err)
	return fs, root
}
