package utils

import (
	"fmt"
)

const fileSizeBase = 1024

var fileSizeUnits = []string{"B", "KB", "MB", "GB", "TB"}

// FormatFileSize converts a byte length into binary-scaled units. Bytes are
// printed as an integer, every larger unit with one decimal place.
func FormatFileSize(bytes int64) string {
	if bytes <= 0 {
		return "0 " + fileSizeUnits[0]
	}
	value := float64(bytes)
	unitIndex := 0
	for value >= fileSizeBase && unitIndex < len(fileSizeUnits)-1 {
		value /= fileSizeBase
		unitIndex++
	}
	if unitIndex == 0 {
		return fmt.Sprintf("%d %s", bytes, fileSizeUnits[unitIndex])
	}
	return fmt.Sprintf("%.1f %s", value, fileSizeUnits[unitIndex])
}
