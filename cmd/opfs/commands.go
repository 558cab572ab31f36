package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rodaine/table"
	"github.com/spf13/cobra"

	"github.com/wtakuo/opfs/pkg/xv6fs"
)

func typeName(t uint16) string {
	switch t {
	case xv6fs.TypeDir:
		return "dir"
	case xv6fs.TypeFile:
		return "file"
	case xv6fs.TypeDev:
		return "dev"
	default:
		return "free"
	}
}

var lsCmd = &cobra.Command{
	Use:   "ls [path]",
	Short: "List a directory, or describe a file",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := "/"
		if len(args) == 1 {
			path = args[0]
		}
		s, err := openSession()
		if err != nil {
			return err
		}
		defer s.close()

		ip, err := s.fs.Ilookup(s.root, path)
		if err != nil {
			return err
		}
		entries, err := s.fs.Ls(ip, path)
		if err != nil {
			return err
		}

		tbl := table.New("inum", "type", "size", "name")
		tbl.WithWriter(os.Stdout)
		for _, e := range entries {
			tbl.AddRow(e.Inum, typeName(e.Type), e.Size, e.Name)
		}
		tbl.Print()
		return nil
	},
}

var outputFileName string

var getCmd = &cobra.Command{
	Use:   "get src [local]",
	Short: "Copy a file out of the image",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession()
		if err != nil {
			return err
		}
		defer s.close()

		ip, err := s.fs.Ilookup(s.root, args[0])
		if err != nil {
			return err
		}

		dest := outputFileName
		if dest == "" {
			if len(args) == 2 {
				dest = args[1]
			} else {
				dest = filepath.Base(args[0])
			}
		}

		var w io.Writer
		if dest == "-" {
			w = os.Stdout
		} else {
			f, err := os.OpenFile(dest, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
			if err != nil {
				return err
			}
			defer f.Close()
			w = f
		}

		if err := s.fs.Get(w, ip); err != nil {
			return err
		}
		logger.Info("fetched file", "src", args[0], "bytes", ip.Size, "dst", dest)
		return nil
	},
}

var putCmd = &cobra.Command{
	Use:   "put local dst",
	Short: "Copy a local file into the image",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		local, dst := args[0], args[1]
		f, err := os.Open(local)
		if err != nil {
			return err
		}
		defer f.Close()

		s, err := openSession()
		if err != nil {
			return err
		}
		defer s.close()

		ip, err := s.fs.Ilookup(s.root, dst)
		if err != nil {
			ddir, dname := xv6fs.Splitpath(dst)
			if dname == "" {
				return fmt.Errorf("put: %s: no such directory", dst)
			}
			dip, err := s.fs.Ilookup(s.root, ddir)
			if err != nil {
				return err
			}
			ip, err = s.fs.Icreat(dip, dname, xv6fs.TypeFile)
			if err != nil {
				return err
			}
		} else if ip.Type == xv6fs.TypeDir {
			base := filepath.Base(local)
			ip, err = s.fs.Icreat(ip, base, xv6fs.TypeFile)
			if err != nil {
				return err
			}
		} else if ip.Type != xv6fs.TypeFile {
			return fmt.Errorf("put: %s: a device file", dst)
		} else if err := s.fs.Itruncate(ip, 0); err != nil {
			return err
		}

		if err := s.fs.Put(f, ip); err != nil {
			return err
		}
		logger.Info("stored file", "src", local, "dst", dst, "bytes", ip.Size)
		return nil
	},
}

var rmCmd = &cobra.Command{
	Use:   "rm path",
	Short: "Remove a plain file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession()
		if err != nil {
			return err
		}
		defer s.close()
		return s.fs.Rm(s.root, args[0])
	},
}

var cpCmd = &cobra.Command{
	Use:   "cp src dst",
	Short: "Copy a file within the image",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession()
		if err != nil {
			return err
		}
		defer s.close()
		return s.fs.Cp(s.root, args[0], args[1])
	},
}

var mvCmd = &cobra.Command{
	Use:   "mv src dst",
	Short: "Move or rename a file or directory",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession()
		if err != nil {
			return err
		}
		defer s.close()
		return s.fs.Mv(s.root, args[0], args[1])
	},
}

var lnCmd = &cobra.Command{
	Use:   "ln src dst",
	Short: "Add a second directory entry for a file",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession()
		if err != nil {
			return err
		}
		defer s.close()
		return s.fs.Ln(s.root, args[0], args[1])
	},
}

var mkdirCmd = &cobra.Command{
	Use:   "mkdir path",
	Short: "Create an empty directory",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession()
		if err != nil {
			return err
		}
		defer s.close()
		return s.fs.Mkdir(s.root, args[0])
	},
}

var rmdirCmd = &cobra.Command{
	Use:   "rmdir path",
	Short: "Remove an empty directory",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession()
		if err != nil {
			return err
		}
		defer s.close()
		return s.fs.Rmdir(s.root, args[0])
	},
}

var infoCmd = &cobra.Command{
	Use:   "info path",
	Short: "Report an inode's metadata and block list",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession()
		if err != nil {
			return err
		}
		defer s.close()

		ip, err := s.fs.Ilookup(s.root, args[0])
		if err != nil {
			return err
		}
		info := s.fs.Info(ip)
		fmt.Printf("inode #%d: type %s, nlink %d, size %d\n",
			info.Inum, typeName(info.Type), info.NLink, info.Size)
		if len(info.Blocks) > 0 {
			fmt.Print("blocks:")
			for _, b := range info.Blocks {
				fmt.Printf(" %d", b)
			}
			fmt.Println()
			fmt.Printf("number of blocks: %d\n", len(info.Blocks))
		}
		return nil
	},
}

var diskinfoCmd = &cobra.Command{
	Use:   "diskinfo",
	Short: "Report image layout and allocation statistics",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession()
		if err != nil {
			return err
		}
		defer s.close()

		di := s.fs.Diskinfo()
		tbl := table.New("field", "value")
		tbl.WithWriter(os.Stdout)
		tbl.AddRow("total blocks", di.TotalBlocks)
		tbl.AddRow("total bytes", uint64(di.TotalBlocks)*xv6fs.BSIZE)
		tbl.AddRow("inodes", di.NInodes)
		tbl.AddRow("max file size", di.MaxFileSize)
		tbl.AddRow("log blocks", fmt.Sprintf("%d-%d", di.LogStart, di.LogEnd))
		tbl.AddRow("inode blocks", fmt.Sprintf("%d-%d", di.InodeStart, di.InodeEnd))
		tbl.AddRow("bitmap blocks", fmt.Sprintf("%d-%d", di.BmapStart, di.BmapEnd))
		tbl.AddRow("data blocks", fmt.Sprintf("%d-%d", di.DataStart, di.DataEnd))
		tbl.AddRow("used blocks", di.UsedBlocks)
		tbl.AddRow("directories", di.UsedDirs)
		tbl.AddRow("plain files", di.UsedFiles)
		tbl.AddRow("device files", di.UsedDevs)
		tbl.Print()
		return nil
	},
}

func init() {
	getCmd.Flags().StringVarP(&outputFileName, "output", "o", "", "destination path (default: the source basename; - for stdout)")
}
