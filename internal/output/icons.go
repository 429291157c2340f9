package output

import (
	"strings"

	"github.com/temirov/treer/internal/types"
)

const (
	directoryIcon = "\ue5fe"
	defaultIcon   = "\U000f0214"
)

var extensionIcons = buildExtensionIcons(map[string][]string{
	"\U000f021f": {"png", "jpg", "jpeg", "gif", "svg", "ico", "tiff", "webp", "bmp"},
	"\U000f0223": {"mp3", "wav", "flac", "aac", "ogg"},
	"\U000f022b": {"mp4", "avi", "mov", "wmv", "flv", "webm", "mkv"},
	"\uf1c6":     {"zip", "rar", "tar", "7z", "gz", "xz"},
	"\U000f0219": {"md", "txt", "xml", "yml", "yaml"},
	"\U000f1184": {"lock", "key", "pem", "crt", "p12", "pfx"},
	"\U000f107b": {"toml", "ini", "cfg", "conf"},
	"\U000f0c7e": {"json", "csv", "log", "sql"},
})

func buildExtensionIcons(iconGroups map[string][]string) map[string]string {
	icons := make(map[string]string)
	for icon, extensions := range iconGroups {
		for _, extension := range extensions {
			icons[extension] = icon
		}
	}
	return icons
}

// IconFor returns the nerd-font glyph shown before an entry name. Extensions
// are matched case-sensitively.
func IconFor(name string, isDir bool) string {
	if isDir {
		return directoryIcon
	}
	if icon, known := extensionIcons[fileExtension(name)]; known {
		return icon
	}
	return defaultIcon
}

// fileExtension returns the text after the final dot. A leading dot marks a
// hidden name, not an extension, so ".bashrc" has none.
func fileExtension(name string) string {
	trimmedName := strings.TrimPrefix(name, types.HiddenMarker)
	separatorIndex := strings.LastIndex(trimmedName, ".")
	if separatorIndex < 0 {
		return ""
	}
	return trimmedName[separatorIndex+1:]
}
