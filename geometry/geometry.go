// Package geometry holds the published geometries of standard FAT12 floppy
// formats, for diagnostic use only: the info utility consults it to flag an
// image whose total sector count matches no known format, but this never
// changes the geometry a Volume actually uses, which always comes from the
// bytes on disk (see fat12.ReadBootSector).
package geometry

import (
	_ "embed"
	"fmt"
	"strings"

	"github.com/gocarina/gocsv"
)

// Geometry is one row of the known-formats table.
type Geometry struct {
	Name            string `csv:"name"`
	Slug            string `csv:"slug"`
	BytesPerSector  uint   `csv:"bytes_per_sector"`
	SectorsPerTrack uint   `csv:"sectors_per_track"`
	Heads           uint   `csv:"heads"`
	TotalSectors    uint   `csv:"total_sectors"`
	SectorsPerFAT   uint   `csv:"sectors_per_fat"`
	NumFATs         uint   `csv:"num_fats"`
	RootEntryCount  uint   `csv:"root_entry_count"`
}

// TotalSizeBytes is the nominal capacity of this format.
func (g Geometry) TotalSizeBytes() int64 {
	return int64(g.BytesPerSector) * int64(g.TotalSectors)
}

//go:embed geometries.csv
var rawCSV string

var bySlug = map[string]Geometry{}
var byTotalSectors = map[uint]Geometry{}

func init() {
	reader := strings.NewReader(rawCSV)
	err := gocsv.UnmarshalToCallback(reader, func(row Geometry) error {
		if _, exists := bySlug[row.Slug]; exists {
			return fmt.Errorf("duplicate geometry slug %q", row.Slug)
		}
		bySlug[row.Slug] = row
		byTotalSectors[row.TotalSectors] = row
		return nil
	})
	if err != nil {
		panic(fmt.Errorf("geometry: malformed embedded table: %w", err))
	}
}

// Lookup returns the known geometry with the given slug (e.g. "1440kb").
func Lookup(slug string) (Geometry, bool) {
	g, ok := bySlug[slug]
	return g, ok
}

// IdentifyByTotalSectors returns the known floppy geometry, if any, whose
// total sector count matches totalSectors exactly.
func IdentifyByTotalSectors(totalSectors uint) (Geometry, bool) {
	g, ok := byTotalSectors[totalSectors]
	return g, ok
}
