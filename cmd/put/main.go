// Command put inserts a host file into a FAT12 disk image, either into the
// root directory or a named subdirectory.
package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v2"

	fat12errors "github.com/tomkern/fat12/errors"
	"github.com/tomkern/fat12/fat12"
)

func main() {
	app := &cli.App{
		Name:      "put",
		Usage:     "Insert a host file into a FAT12 disk image",
		ArgsUsage: "<image> [destination] <filename>",
		Action:    run,
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	if c.Args().Len() != 2 && c.Args().Len() != 3 {
		return cli.Exit(fat12errors.ErrBadUsage.WithMessage("usage: put <image> [destination] <filename>").Error(), 1)
	}

	imagePath := c.Args().Get(0)
	var destDirName, fileName string
	if c.Args().Len() == 2 {
		destDirName = ""
		fileName = c.Args().Get(1)
	} else {
		destDirName = c.Args().Get(1)
		fileName = c.Args().Get(2)
	}

	host := fat12.OSHostFS{}
	reader, size, modTime, err := host.Open(fileName)
	if err != nil {
		fmt.Println("File not found.")
		os.Exit(1)
	}

	uppName := strings.ToUpper(fileName)

	image, err := fat12.OpenImageFile(imagePath, true)
	if err != nil {
		reader.Close()
		return cli.Exit(fmt.Sprintf("Failed to open %s", imagePath), 1)
	}

	v, err := fat12.Open(image, true)
	if err != nil {
		reader.Close()
		return cli.Exit(err.Error(), 1)
	}

	err = v.Insert(uppName, destDirName, reader, size, modTime)
	switch {
	case err == nil:
		return fat12.CloseAll(v.Close, reader.Close)
	case errors.Is(err, fat12errors.ErrDuplicateName):
		fmt.Println("There is a file of the same name in the disk.")
	case errors.Is(err, fat12errors.ErrNoDirectoryFound), errors.Is(err, fat12errors.ErrRootFull):
		fmt.Println("The directory not found.")
	case errors.Is(err, fat12errors.ErrNoSpace):
		fmt.Println("No enough free space in the disk image.")
	default:
		fat12.CloseAll(v.Close, reader.Close)
		return cli.Exit(err.Error(), 1)
	}
	fat12.CloseAll(v.Close, reader.Close)
	os.Exit(1)
	return nil
}
