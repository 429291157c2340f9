package commands

import (
	"slices"
	"strings"

	"github.com/temirov/treer/internal/services/filesystem"
)

// orderEntries returns directories before files. Each group is sorted by name,
// or by modification time with name as the tiebreak when byModifiedTime is set.
// Unreadable modification times sort as the Unix epoch.
func orderEntries(entries []filesystem.Entry, byModifiedTime bool) []filesystem.Entry {
	var directories, files []filesystem.Entry
	for _, entry := range entries {
		if entry.IsDir {
			directories = append(directories, entry)
		} else {
			files = append(files, entry)
		}
	}

	compare := compareEntryNames
	if byModifiedTime {
		compare = compareEntryModifiedTimes
	}
	slices.SortFunc(directories, compare)
	slices.SortFunc(files, compare)

	ordered := make([]filesystem.Entry, 0, len(entries))
	ordered = append(ordered, directories...)
	return append(ordered, files...)
}

func compareEntryNames(left, right filesystem.Entry) int {
	return strings.Compare(left.Name, right.Name)
}

func compareEntryModifiedTimes(left, right filesystem.Entry) int {
	if timeOrder := left.ModifiedOrEpoch().Compare(right.ModifiedOrEpoch()); timeOrder != 0 {
		return timeOrder
	}
	return compareEntryNames(left, right)
}
