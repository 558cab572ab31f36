// Command opfs inspects and manipulates an existing xv6 file system
// image: listing directories, copying files in and out, linking,
// renaming, and reporting layout and allocation statistics.
package main

import (
	"errors"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/wtakuo/opfs/internal/clilog"
	"github.com/wtakuo/opfs/pkg/image"
	"github.com/wtakuo/opfs/pkg/xv6fs"
)

var (
	imageFileName string
	quiet         bool
	logger        *slog.Logger

	rootCmd = &cobra.Command{
		Use:           "opfs",
		Short:         "Inspect and manipulate an xv6 file system image",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

// session holds an open image and its root inode for the duration of one
// subcommand invocation.
type session struct {
	disk *image.Image
	fs   *xv6fs.Image
	root *xv6fs.Dinode
}

func openSession() (*session, error) {
	disk, err := image.Open(imageFileName)
	if err != nil {
		return nil, err
	}
	fs := xv6fs.NewImage(disk.Bytes())
	fs.OnWarning = clilog.Warner(logger)
	root, err := fs.Iget(xv6fs.RootInum)
	if err != nil {
		disk.Close()
		return nil, err
	}
	return &session{disk: disk, fs: fs, root: root}, nil
}

func (s *session) close() error {
	return s.disk.Close()
}

func main() {
	rootCmd.PersistentFlags().StringVarP(&imageFileName, "filename", "f", "fs.img", "xv6 image file to use")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress informational output")
	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		logger = clilog.Setup(quiet)
	}

	rootCmd.AddCommand(
		lsCmd, getCmd, putCmd, rmCmd, cpCmd, mvCmd, lnCmd,
		mkdirCmd, rmdirCmd, infoCmd, diskinfoCmd, fsckCmd,
	)

	if err := rootCmd.Execute(); err != nil {
		if logger == nil {
			logger = clilog.Setup(quiet)
		}
		logger.Error(err.Error())
		var fatal *xv6fs.Fatal
		if errors.As(err, &fatal) || errors.Is(err, xv6fs.ErrFatal) {
			os.Exit(1)
		}
		os.Exit(1)
	}
}
