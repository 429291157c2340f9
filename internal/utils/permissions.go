package utils

import (
	"io/fs"
	"strings"
)

const permissionSymbols = "rwxrwxrwx"

// FormatPermissions renders permission bits as a bracketed ls-style block,
// e.g. [drwxr-xr-x].
func FormatPermissions(mode fs.FileMode, isDir bool) string {
	var builder strings.Builder
	builder.Grow(len(permissionSymbols) + 3)
	builder.WriteByte('[')
	if isDir {
		builder.WriteByte('d')
	} else {
		builder.WriteByte('-')
	}
	for index := 0; index < len(permissionSymbols); index++ {
		bit := fs.FileMode(1) << uint(len(permissionSymbols)-1-index)
		if mode&bit != 0 {
			builder.WriteByte(permissionSymbols[index])
		} else {
			builder.WriteByte('-')
		}
	}
	builder.WriteByte(']')
	return builder.String()
}
