// Command get extracts a file from the root directory of a FAT12 disk image
// into the current host directory.
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
		Name:      "get",
		Usage:     "Extract a file from a FAT12 disk image",
		ArgsUsage: "<image> <filename>",
		Action:    run,
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	if c.Args().Len() != 2 {
		return cli.Exit(fat12errors.ErrBadUsage.WithMessage("usage: get <image> <filename>").Error(), 1)
	}

	imagePath := c.Args().Get(0)
	name := strings.ToUpper(c.Args().Get(1))

	host := fat12.OSHostFS{}
	if host.Exists(name) {
		return reportAndExit(fat12errors.ErrLocalExists)
	}

	image, err := fat12.OpenImageFile(imagePath, false)
	if err != nil {
		return cli.Exit(fmt.Sprintf("Failed to open %s", imagePath), 1)
	}

	v, err := fat12.Open(image, false)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	data, err := v.Extract(name)
	if err != nil {
		v.Close()
		if errors.Is(err, fat12errors.ErrNotFound) {
			return reportAndExit(fat12errors.ErrNotFound)
		}
		return cli.Exit(err.Error(), 1)
	}

	out, err := host.Create(name)
	if err != nil {
		v.Close()
		return cli.Exit(err.Error(), 1)
	}

	if _, err := out.Write(data); err != nil {
		fat12.CloseAll(v.Close, out.Close)
		return cli.Exit(err.Error(), 1)
	}
	return fat12.CloseAll(v.Close, out.Close)
}

// reportAndExit prints the diagnostic spec.md §6 assigns to a FatError kind
// and exits non-zero, matching the original CLI's one-line-then-exit(1)
// behavior on expected failures.
func reportAndExit(err error) error {
	switch {
	case errors.Is(err, fat12errors.ErrLocalExists):
		fmt.Println("There is a file of the same name in the local directory.")
	case errors.Is(err, fat12errors.ErrNotFound):
		fmt.Println("File not found.")
	default:
		fmt.Println(err.Error())
	}
	os.Exit(1)
	return nil
}
