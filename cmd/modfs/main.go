// Command modfs reads or overwrites individual on-disk fields of an xv6
// file system image: superblock fields, a bitmap bit, an inode's
// metadata or block pointers, or a directory entry's inode number. It is
// the low-level complement to opfs: where opfs understands files and
// directories, modfs only understands raw fields, which makes it useful
// for building test fixtures and for poking at deliberately corrupted
// images.
package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/wtakuo/opfs/internal/clilog"
	"github.com/wtakuo/opfs/pkg/image"
	"github.com/wtakuo/opfs/pkg/xv6fs"
)

var (
	imageFileName string
	logger        *slog.Logger

	rootCmd = &cobra.Command{
		Use:           "modfs",
		Short:         "Read or overwrite raw on-disk fields of an xv6 image",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

func openImage() (*image.Image, *xv6fs.Image, error) {
	disk, err := image.Open(imageFileName)
	if err != nil {
		return nil, nil, err
	}
	fs := xv6fs.NewImage(disk.Bytes())
	fs.OnWarning = clilog.Warner(logger)
	return disk, fs, nil
}

func parseUint(s string) (uint32, error) {
	var v uint32
	if _, err := fmt.Sscanf(s, "%d", &v); err != nil {
		return 0, fmt.Errorf("%s: not a number", s)
	}
	return v, nil
}

func main() {
	rootCmd.PersistentFlags().StringVarP(&imageFileName, "filename", "f", "fs.img", "xv6 image file to use")
	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		logger = clilog.Setup(false)
	}

	rootCmd.AddCommand(superblockCmd, bitmapCmd, inodeCmd, direntCmd)

	if err := rootCmd.Execute(); err != nil {
		if logger == nil {
			logger = clilog.Setup(false)
		}
		logger.Error(err.Error())
		if errors.Is(err, xv6fs.ErrFatal) {
			os.Exit(1)
		}
		os.Exit(1)
	}
}
