// Command list prints the directory tree of a FAT12 disk image, one row per
// live entry, with subdirectories bracketed by a header and indented.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v2"

	fat12errors "github.com/tomkern/fat12/errors"
	"github.com/tomkern/fat12/fat12"
)

func main() {
	app := &cli.App{
		Name:      "list",
		Usage:     "Print the directory tree of a FAT12 disk image",
		ArgsUsage: "<image>",
		Action:    run,
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	if c.Args().Len() != 1 {
		return cli.Exit(fat12errors.ErrBadUsage.WithMessage("usage: list <image>").Error(), 1)
	}

	image, err := fat12.OpenImageFile(c.Args().Get(0), false)
	if err != nil {
		return cli.Exit(fmt.Sprintf("Failed to open %s", c.Args().Get(0)), 1)
	}

	v, err := fat12.Open(image, false)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}
	defer v.Close()

	entries, err := v.List()
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	fmt.Println("ROOT")
	fmt.Println("==================")

	for _, e := range entries {
		depth := strings.Count(e.Path, "/") - 1
		indent := strings.Repeat("   ", depth)

		kind := "F"
		if e.Dirent.IsDirectory() {
			kind = "D"
		}
		fmt.Printf("%s%s %10d %-20s %s %s\n", indent, kind, e.Dirent.Size,
			e.Dirent.DisplayName(), fat12.FormatDate(e.Dirent.CreatedDate), fat12.FormatTime(e.Dirent.CreatedTime))

		if e.Dirent.IsDirectory() {
			childIndent := strings.Repeat("   ", depth+1)
			fmt.Printf("%s%s\n", childIndent, e.Dirent.DisplayName())
			fmt.Printf("%s==================\n", childIndent)
		}
	}
	return nil
}
