package xv6fs_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wtakuo/opfs/pkg/xv6fs"
)

func TestBallocAndBfree(t *testing.T) {
	fs, _ := newFixture(t, 1024, 200, 30)
	sb := fs.Superblock()

	b, err := fs.Balloc()
	require.NoError(t, err)
	assert.True(t, sb.IsValidDataBlock(b))

	alloc, err := fs.BitmapBit(b)
	require.NoError(t, err)
	assert.True(t, alloc)

	require.NoError(t, fs.Bfree(b))
	alloc, err = fs.BitmapBit(b)
	require.NoError(t, err)
	assert.False(t, alloc)
}

func TestBallocDoesNotReuseLiveBlocks(t *testing.T) {
	fs, _ := newFixture(t, 1024, 200, 30)
	seen := map[uint32]bool{}
	for i := 0; i < 20; i++ {
		b, err := fs.Balloc()
		require.NoError(t, err)
		assert.False(t, seen[b], "block %d allocated twice", b)
		seen[b] = true
	}
}

func TestBallocExhaustion(t *testing.T) {
	fs, _ := newFixture(t, 64, 16, 4)
	sb := fs.Superblock()
	// The root directory created by Setupfs already holds one data block.
	n := sb.LastDataBlock() - sb.FirstDataBlock()
	for i := uint32(0); i < n; i++ {
		_, err := fs.Balloc()
		require.NoError(t, err)
	}
	_, err := fs.Balloc()
	assert.Error(t, err)
	assert.ErrorIs(t, err, xv6fs.ErrFatal)
}

func TestBfreeAlreadyFreeWarns(t *testing.T) {
	fs, _ := newFixture(t, 1024, 200, 30)
	var warned bool
	fs.OnWarning = func(op, msg string) { warned = true }

	b, err := fs.Balloc()
	require.NoError(t, err)
	require.NoError(t, fs.Bfree(b))
	warned = false
	require.NoError(t, fs.Bfree(b))
	assert.True(t, warned)
}
