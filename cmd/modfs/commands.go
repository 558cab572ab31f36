package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wtakuo/opfs/pkg/xv6fs"
)

// superblock field [val]
var superblockCmd = &cobra.Command{
	Use:   "superblock field [val]",
	Short: "Get or set a superblock field (size, nblocks, ninodes, nlog, logstart, inodestart, bmapstart)",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		disk, fs, err := openImage()
		if err != nil {
			return err
		}
		defer disk.Close()

		field := args[0]
		if len(args) == 1 {
			v, err := fs.SuperblockField(field)
			if err != nil {
				return err
			}
			fmt.Println(v)
			return nil
		}
		v, err := parseUint(args[1])
		if err != nil {
			return err
		}
		return fs.SetSuperblockField(field, v)
	},
}

// bitmap bnum [val]
var bitmapCmd = &cobra.Command{
	Use:   "bitmap bnum [val]",
	Short: "Get or set one free-block bitmap bit",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		disk, fs, err := openImage()
		if err != nil {
			return err
		}
		defer disk.Close()

		bnum, err := parseUint(args[0])
		if err != nil {
			return err
		}
		if len(args) == 1 {
			alloc, err := fs.BitmapBit(bnum)
			if err != nil {
				return err
			}
			if alloc {
				fmt.Println(1)
			} else {
				fmt.Println(0)
			}
			return nil
		}
		val, err := parseUint(args[1])
		if err != nil {
			return err
		}
		if val != 0 && val != 1 {
			return fmt.Errorf("bitmap: val must be 0 or 1")
		}
		return fs.SetBitmapBit(bnum, val == 1)
	},
}

// inode {type,nlink,size,indirect} inum [val]
// inode addrs inum n [val]
var inodeCmd = &cobra.Command{
	Use:   "inode field inum [n] [val]",
	Short: "Get or set a field of one inode (type, nlink, size, indirect, addrs)",
	Args:  cobra.RangeArgs(2, 4),
	RunE: func(cmd *cobra.Command, args []string) error {
		disk, fs, err := openImage()
		if err != nil {
			return err
		}
		defer disk.Close()

		field := args[0]
		inum, err := parseUint(args[1])
		if err != nil {
			return err
		}

		if field == "addrs" {
			if len(args) < 3 {
				return fmt.Errorf("usage: modfs inode addrs inum n [val]")
			}
			n, err := parseUint(args[2])
			if err != nil {
				return err
			}
			if len(args) == 3 {
				v, err := fs.InodeAddr(inum, n)
				if err != nil {
					return err
				}
				fmt.Println(v)
				return nil
			}
			v, err := parseUint(args[3])
			if err != nil {
				return err
			}
			return fs.SetInodeAddr(inum, n, v)
		}

		if len(args) == 2 {
			v, err := fs.InodeField(inum, field)
			if err != nil {
				return err
			}
			fmt.Println(v)
			return nil
		}
		if len(args) != 3 {
			return fmt.Errorf("usage: modfs inode %s inum [val]", field)
		}
		v, err := parseUint(args[2])
		if err != nil {
			return err
		}
		return fs.SetInodeField(inum, field, v)
	},
}

// dirent path name [val|delete]
var direntCmd = &cobra.Command{
	Use:   "dirent path name [val|delete]",
	Short: "Get or set the inode number of one directory entry",
	Args:  cobra.RangeArgs(2, 3),
	RunE: func(cmd *cobra.Command, args []string) error {
		disk, fs, err := openImage()
		if err != nil {
			return err
		}
		defer disk.Close()

		root, err := fs.Iget(xv6fs.RootInum)
		if err != nil {
			return err
		}
		path, name := args[0], args[1]

		if len(args) == 2 {
			inum, err := fs.DirentInum(root, path, name)
			if err != nil {
				return err
			}
			fmt.Println(inum)
			return nil
		}
		if args[2] == "delete" {
			return fs.DeleteDirent(root, path, name)
		}
		inum, err := parseUint(args[2])
		if err != nil {
			return err
		}
		return fs.SetDirentInum(root, path, name, inum)
	},
}
