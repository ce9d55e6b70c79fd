// Command info prints summary statistics about a FAT12 disk image: OEM name,
// volume label, total and free size, live file count, and FAT layout.
package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	fat12errors "github.com/tomkern/fat12/errors"
	"github.com/tomkern/fat12/fat12"
	"github.com/tomkern/fat12/geometry"
)

func main() {
	app := &cli.App{
		Name:      "info",
		Usage:     "Print summary statistics about a FAT12 disk image",
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
		return cli.Exit(fat12errors.ErrBadUsage.WithMessage("usage: info <image>").Error(), 1)
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
	fileCount := 0
	for _, e := range entries {
		if !e.Dirent.IsDirectory() {
			fileCount++
		}
	}

	label, _ := v.VolumeLabel()
	g := v.Geometry()

	if _, ok := geometry.IdentifyByTotalSectors(g.TotalSectors); !ok {
		fmt.Fprintf(os.Stderr, "warning: image's total sector count (%d) does not match any known floppy format\n", g.TotalSectors)
	}

	fmt.Printf("OS Name: %s\n", g.OEMName)
	fmt.Printf("Label of the disk: %s\n", label)
	fmt.Printf("Total size of the disk: %d\n", g.TotalSizeBytes())
	fmt.Printf("Free size of the disk: %d\n", int64(v.FreeClusterCount())*int64(g.BytesPerSector))
	fmt.Printf("The number of files in the disk: %d\n", fileCount)
	fmt.Printf("Number of FAT copies: %d\n", g.NumFATs)
	fmt.Printf("Sectors per FAT: %d\n", g.SectorsPerFAT)
	return nil
}
