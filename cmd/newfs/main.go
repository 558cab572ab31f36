// Command newfs formats a fresh xv6 file system image: a raw file of the
// requested total number of blocks, holding the boot block, superblock,
// log, inode table, and free-block bitmap, with every remaining block in
// the data region and an empty root directory already in place.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/wtakuo/opfs/internal/clilog"
	"github.com/wtakuo/opfs/pkg/image"
	"github.com/wtakuo/opfs/pkg/xv6fs"
)

var (
	nInodes uint32
	nLog    uint32
	quiet   bool

	rootCmd = &cobra.Command{
		Use:           "newfs image-file total-blocks",
		Short:         "Format a fresh xv6 file system image",
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          run,
	}
)

func run(cmd *cobra.Command, args []string) error {
	logger := clilog.Setup(quiet)

	path := args[0]
	var size uint32
	if _, err := fmt.Sscanf(args[1], "%d", &size); err != nil {
		return fmt.Errorf("newfs: %s: not a block count", args[1])
	}

	disk, err := image.Create(path, int64(size)*xv6fs.BSIZE)
	if err != nil {
		return err
	}
	defer disk.Close()

	logger.Info("formatting image", "file", path, "blocks", size, "inodes", nInodes, "log blocks", nLog)

	fs, err := xv6fs.Setupfs(disk.Bytes(), size, nInodes, nLog)
	if err != nil {
		return err
	}
	fs.OnWarning = clilog.Warner(logger)

	sb := fs.Superblock()
	logger.Info("image formatted",
		"data blocks", sb.NBlocks,
		"inode blocks", sb.NiBlocks(),
		"bitmap blocks", sb.NmBlocks(),
		"first data block", sb.FirstDataBlock(),
		"last data block", sb.LastDataBlock(),
	)
	return nil
}

func main() {
	rootCmd.Flags().Uint32VarP(&nInodes, "inodes", "i", 200, "number of inodes")
	rootCmd.Flags().Uint32VarP(&nLog, "log-blocks", "l", 30, "number of log blocks")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress informational output")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
