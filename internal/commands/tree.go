// Package commands contains the traversal logic behind the tree command.
package commands

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/temirov/treer/internal/output"
	"github.com/temirov/treer/internal/services/filesystem"
	"github.com/temirov/treer/internal/types"
)

const (
	// warningSkipSubdirectoryMessage is logged when a visible subdirectory cannot be listed.
	warningSkipSubdirectoryMessage = "skipping subdirectory"
	// warningModificationTimeMessage is logged when an entry's modification time is unavailable.
	warningModificationTimeMessage = "unable to read modification time"

	// errorReadRootDirectoryFormat is used when the tree root cannot be listed.
	errorReadRootDirectoryFormat = "reading root directory %s: %w"
	// errorWriteOutputFormat is used when the output writer rejects a line.
	errorWriteOutputFormat = "writing tree output: %w"

	summaryLineFormat = "\n%s\n"
)

// TreeRenderer prints the entries of a resolved Membership as an indented tree.
// It applies no filtering of its own: an entry is printed exactly when the
// membership marks it visible.
type TreeRenderer struct {
	provider  filesystem.Provider
	options   types.TreeOptions
	logger    *zap.Logger
	formatter *output.LineFormatter
}

// renderTarget pairs an output stream with the formatter that draws its lines.
type renderTarget struct {
	formatter *output.LineFormatter
	writer    io.Writer
}

type renderTargets []renderTarget

func (targets renderTargets) writeText(text string) error {
	for _, target := range targets {
		if _, writeError := io.WriteString(target.writer, text); writeError != nil {
			return fmt.Errorf(errorWriteOutputFormat, writeError)
		}
	}
	return nil
}

func (targets renderTargets) writeEntry(line output.EntryLine) error {
	for _, target := range targets {
		if _, writeError := fmt.Fprintln(target.writer, target.formatter.Format(line)); writeError != nil {
			return fmt.Errorf(errorWriteOutputFormat, writeError)
		}
	}
	return nil
}

// NewTreeRenderer constructs a TreeRenderer. Highlighting is drawn only when
// options.Highlight is set.
func NewTreeRenderer(provider filesystem.Provider, options types.TreeOptions, logger *zap.Logger) *TreeRenderer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TreeRenderer{
		provider:  provider,
		options:   options,
		logger:    logger,
		formatter: output.NewLineFormatter(options, output.NewPalette(options.Highlight)),
	}
}

// Render writes the root line, every visible entry below rootPath and the
// summary line to writer, and returns the tallies it printed.
func (renderer *TreeRenderer) Render(rootPath string, membership Membership, writer io.Writer) (types.TreeSummary, error) {
	return renderer.render(rootPath, membership, renderTargets{{formatter: renderer.formatter, writer: writer}})
}

// RenderWithPlainCopy renders like Render and, during the same walk, writes an
// undecorated copy of every line to plainWriter.
func (renderer *TreeRenderer) RenderWithPlainCopy(rootPath string, membership Membership, writer io.Writer, plainWriter io.Writer) (types.TreeSummary, error) {
	plainFormatter := output.NewLineFormatter(renderer.options, output.NewPalette(false))
	return renderer.render(rootPath, membership, renderTargets{
		{formatter: renderer.formatter, writer: writer},
		{formatter: plainFormatter, writer: plainWriter},
	})
}

func (renderer *TreeRenderer) render(rootPath string, membership Membership, targets renderTargets) (types.TreeSummary, error) {
	var summary types.TreeSummary

	rootDisplayName := filepath.Base(rootPath)
	switch {
	case renderer.options.FullPath:
		rootDisplayName = filepath.Clean(rootPath)
	case renderer.options.RootLabel != "":
		rootDisplayName = renderer.options.RootLabel
	}
	if writeError := targets.writeText(rootDisplayName + "\n"); writeError != nil {
		return summary, writeError
	}

	if renderError := renderer.renderDirectory(rootPath, rootPath, nil, output.NoHighlightedAncestor, membership, targets, &summary); renderError != nil {
		return summary, renderError
	}

	if writeError := targets.writeText(fmt.Sprintf(summaryLineFormat, output.FormatSummaryLine(summary))); writeError != nil {
		return summary, writeError
	}
	return summary, nil
}

// typedEntryPath spells entryPath below the root the way the root was typed,
// so "." yields "./sub/a.txt". Without a typed root the absolute path is kept.
func (renderer *TreeRenderer) typedEntryPath(rootPath string, entryPath string) string {
	typedRoot := renderer.options.TypedRoot
	if typedRoot == "" {
		return entryPath
	}
	relativePath, relativeError := filepath.Rel(rootPath, entryPath)
	if relativeError != nil {
		return entryPath
	}
	if !strings.HasSuffix(typedRoot, string(filepath.Separator)) {
		typedRoot += string(filepath.Separator)
	}
	return typedRoot + relativePath
}

// renderDirectory prints the visible children of directoryPath. indentState
// holds one flag per ancestor level, set when that ancestor was the last
// child of its parent. Each call works on its own copy.
func (renderer *TreeRenderer) renderDirectory(rootPath string, directoryPath string, indentState []bool, furthestHighlighted int, membership Membership, targets renderTargets, summary *types.TreeSummary) error {
	depth := len(indentState)
	directoryEntries, readDirectoryError := renderer.provider.ReadDir(directoryPath)
	if readDirectoryError != nil {
		if depth == 0 {
			return fmt.Errorf(errorReadRootDirectoryFormat, directoryPath, readDirectoryError)
		}
		renderer.logger.Warn(warningSkipSubdirectoryMessage, zap.String("path", directoryPath), zap.Error(readDirectoryError))
		return nil
	}

	var retainedEntries []filesystem.Entry
	for _, directoryEntry := range directoryEntries {
		if !membership.IsVisible(directoryEntry.Path) {
			continue
		}
		if directoryEntry.ModTimeErr != nil {
			renderer.logger.Warn(warningModificationTimeMessage, zap.String("path", directoryEntry.Path), zap.Error(directoryEntry.ModTimeErr))
		}
		retainedEntries = append(retainedEntries, directoryEntry)
	}

	orderedEntries := orderEntries(retainedEntries, renderer.options.SortByModifiedTime)
	for entryIndex, directoryEntry := range orderedEntries {
		isLast := entryIndex == len(orderedEntries)-1
		highlighted := membership.IsHighlighted(directoryEntry.Path)
		branchHighlight := furthestHighlighted
		if highlighted && depth < branchHighlight {
			branchHighlight = depth
		}

		entryLine := output.EntryLine{
			Entry:               directoryEntry,
			IndentState:         indentState,
			IsLast:              isLast,
			Highlighted:         highlighted,
			FurthestHighlighted: branchHighlight,
		}
		if renderer.options.FullPath {
			entryLine.DisplayPath = renderer.typedEntryPath(rootPath, directoryEntry.Path)
		}
		if writeError := targets.writeEntry(entryLine); writeError != nil {
			return writeError
		}

		if !directoryEntry.IsDir {
			summary.Files++
			continue
		}
		summary.Directories++
		childIndentState := make([]bool, depth, depth+1)
		copy(childIndentState, indentState)
		childIndentState = append(childIndentState, isLast)
		if renderError := renderer.renderDirectory(rootPath, directoryEntry.Path, childIndentState, branchHighlight, membership, targets, summary); renderError != nil {
			return renderError
		}
	}
	return nil
}

// ResolveTree lists rootPath and decides which entries below it are visible
// and highlighted.
func ResolveTree(provider filesystem.Provider, options types.TreeOptions, logger *zap.Logger, rootPath string) (Membership, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	rootChildren, readRootError := provider.ReadDir(rootPath)
	if readRootError != nil {
		return Membership{}, fmt.Errorf(errorReadRootDirectoryFormat, rootPath, readRootError)
	}
	resolver := &MembershipResolver{Provider: provider, Options: options, Logger: logger}
	return resolver.Resolve(rootChildren)
}

// PrintTree resolves which entries below rootPath are visible and renders
// them to writer.
func PrintTree(provider filesystem.Provider, options types.TreeOptions, logger *zap.Logger, rootPath string, writer io.Writer) (types.TreeSummary, error) {
	membership, resolveError := ResolveTree(provider, options, logger, rootPath)
	if resolveError != nil {
		return types.TreeSummary{}, resolveError
	}
	return NewTreeRenderer(provider, options, logger).Render(rootPath, membership, writer)
}
