package fat12

import (
	"fmt"
	"time"
)

// PackDate encodes a calendar date into the 16-bit FAT representation:
// bits 15-9 are (year - 1980), bits 8-5 are the month, bits 4-0 are the day.
func PackDate(year, month, day int) uint16 {
	return uint16((year-1980)<<9) | uint16(month&0x0F)<<5 | uint16(day&0x1F)
}

// PackTime encodes an hour/minute pair into the 16-bit FAT representation.
// Seconds are always zero: FAT only stores seconds to 2-second resolution via
// bits this driver does not populate, matching the reference tool which never
// set them either.
func PackTime(hour, minute int) uint16 {
	return uint16(hour&0x1F)<<11 | uint16(minute&0x3F)<<5
}

// UnpackDate decodes a FAT date field into year/month/day.
func UnpackDate(v uint16) (year, month, day int) {
	year = int((v>>9)&0x7F) + 1980
	month = int((v >> 5) & 0x0F)
	day = int(v & 0x1F)
	return
}

// UnpackTime decodes a FAT time field into hour/minute. Seconds are ignored,
// per the specification's coarse-to-2-seconds rule.
func UnpackTime(v uint16) (hour, minute int) {
	hour = int((v >> 11) & 0x1F)
	minute = int((v >> 5) & 0x3F)
	return
}

// FormatDate renders a packed FAT date the way the list utility prints it:
// "YYYY/MM/DD".
func FormatDate(v uint16) string {
	y, m, d := UnpackDate(v)
	return fmt.Sprintf("%04d/%02d/%02d", y, m, d)
}

// FormatTime renders a packed FAT time the way the list utility prints it:
// "HH:MM".
func FormatTime(v uint16) string {
	h, m := UnpackTime(v)
	return fmt.Sprintf("%02d:%02d", h, m)
}

// PackModTime converts a host file's modification time into the packed
// date/time pair stored in a directory entry's create/modify fields. The
// reference tool derives both from the same timestamp (it has no distinct
// notion of "created" versus "modified" for an inserted file), so this driver
// does the same.
func PackModTime(t time.Time) (date, clock uint16) {
	date = PackDate(t.Year(), int(t.Month()), t.Day())
	clock = PackTime(t.Hour(), t.Minute())
	return
}
