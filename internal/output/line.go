package output

import (
	"fmt"
	"strings"

	"github.com/temirov/treer/internal/services/filesystem"
	"github.com/temirov/treer/internal/types"
	"github.com/temirov/treer/internal/utils"
)

// NoHighlightedAncestor marks a branch on which no entry has been highlighted yet.
const NoHighlightedAncestor = int(^uint(0) >> 1)

const (
	sizeSuffixFormat = " (%s)"
	dateSuffixFormat = " [%s]"
	summaryFormat    = "%d %s, %d %s"
)

// EntryLine carries everything needed to draw one tree entry.
type EntryLine struct {
	Entry       filesystem.Entry
	IndentState []bool
	IsLast      bool
	Highlighted bool
	// DisplayPath replaces Entry.Path in full-path mode when set.
	DisplayPath string
	// FurthestHighlighted is the shallowest depth highlighted on the path
	// from the root to this entry, or NoHighlightedAncestor.
	FurthestHighlighted int
}

// LineFormatter renders tree entries according to the display switches of TreeOptions.
type LineFormatter struct {
	options types.TreeOptions
	glyphs  GlyphSet
	palette Palette
}

// NewLineFormatter constructs a LineFormatter.
func NewLineFormatter(options types.TreeOptions, palette Palette) *LineFormatter {
	return &LineFormatter{
		options: options,
		glyphs:  SelectGlyphs(options.ASCII),
		palette: palette,
	}
}

// Format renders line without a trailing newline.
func (formatter *LineFormatter) Format(line EntryLine) string {
	var builder strings.Builder
	entry := line.Entry

	if formatter.options.PrintPermissions {
		builder.WriteString(utils.FormatPermissions(entry.Mode, entry.IsDir))
		builder.WriteByte(' ')
	}

	if !formatter.options.NoIndent {
		for indentLevel, ancestorWasLast := range line.IndentState {
			indentUnit := formatter.glyphs.IndentFor(ancestorWasLast)
			if !ancestorWasLast && line.FurthestHighlighted < indentLevel {
				indentUnit = formatter.palette.Accent(indentUnit)
			}
			builder.WriteString(indentUnit)
		}
		branch := formatter.glyphs.BranchFor(line.IsLast)
		if line.FurthestHighlighted < len(line.IndentState) {
			branch = formatter.palette.Accent(branch)
		}
		builder.WriteString(branch)
	}

	displayName := entry.Name
	if formatter.options.FullPath {
		displayName = entry.Path
		if line.DisplayPath != "" {
			displayName = line.DisplayPath
		}
	}
	if formatter.options.Icons {
		displayName = IconFor(entry.Name, entry.IsDir) + " " + displayName
	}
	if line.Highlighted {
		displayName = formatter.palette.Emphasize(displayName)
	}
	builder.WriteString(displayName)

	if formatter.options.PrintSize && !entry.IsDir {
		builder.WriteString(fmt.Sprintf(sizeSuffixFormat, utils.FormatFileSize(entry.Size)))
	}

	if formatter.options.PrintDate {
		formattedDate := utils.UnknownDate
		if entry.ModTimeErr == nil {
			formattedDate = utils.FormatTimestamp(entry.ModTime)
		}
		builder.WriteString(fmt.Sprintf(dateSuffixFormat, formattedDate))
	}

	return builder.String()
}

// FormatSummaryLine renders the directory and file tallies, e.g. "1 directory, 2 files".
func FormatSummaryLine(summary types.TreeSummary) string {
	return fmt.Sprintf(
		summaryFormat,
		summary.Directories,
		utils.PluralizeCount(summary.Directories, "directory", "directories"),
		summary.Files,
		utils.PluralizeCount(summary.Files, "file", "files"),
	)
}
