package utils

import (
	"fmt"

	"github.com/dustin/go-humanize"
)

const decimalUnitBase = 1000

// FormatFileSize converts a byte length into a decimal (base 1000) human-readable string.
// Lengths below one kilobyte are spelled out in bytes.
func FormatFileSize(bytes int64) string {
	if bytes < 0 {
		bytes = 0
	}
	if bytes == 1 {
		return "1 byte"
	}
	if bytes < decimalUnitBase {
		return fmt.Sprintf("%d bytes", bytes)
	}
	return humanize.Bytes(uint64(bytes))
}

// Pluralize returns singular when count is one and plural otherwise.
func Pluralize(count int, singular string, plural string) string {
	if count == 1 {
		return singular
	}
	return plural
}
