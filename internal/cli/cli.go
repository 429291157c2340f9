// Package cli provides the command line interface.
package cli

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/treer/internal/commands"
	"github.com/temirov/treer/internal/config"
	"github.com/temirov/treer/internal/patterns"
	"github.com/temirov/treer/internal/services/clipboard"
	"github.com/temirov/treer/internal/services/filesystem"
	"github.com/temirov/treer/internal/types"
	"github.com/temirov/treer/internal/utils"
)

const (
	allFlagName         = "all"
	asciiFlagName       = "ascii"
	directoriesFlagName = "directories"
	dateFlagName        = "date"
	fullPathFlagName    = "full"
	levelFlagName       = "level"
	noIndentFlagName    = "no-indent"
	excludeFlagName     = "exclude"
	sizeFlagName        = "size"
	permissionsFlagName = "permissions"
	patternFlagName     = "pattern"
	timeFlagName        = "time"
	highlightFlagName   = "highlight"
	iconsFlagName       = "icons"
	gitignoreFlagName   = "gitignore"
	copyFlagName        = "copy"
	configFlagName      = "config"
	verboseFlagName     = "verbose"
	versionFlagName     = "version"
	globalFlagName      = "global"
	forceFlagName       = "force"

	allFlagDescription         = "show hidden entries"
	asciiFlagDescription       = "draw the tree with ASCII characters"
	directoriesFlagDescription = "list directories only"
	dateFlagDescription        = "print the last modification date"
	fullPathFlagDescription    = "print the full path of every entry"
	levelFlagDescription       = "descend at most this many levels"
	noIndentFlagDescription    = "omit indentation and branch lines"
	excludeFlagDescription     = "exclude entries whose name matches the pattern"
	sizeFlagDescription        = "print file sizes"
	permissionsFlagDescription = "print permission bits"
	patternFlagDescription     = "list only entries matching the pattern, with their ancestors and descendants"
	timeFlagDescription        = "sort by last modification time"
	highlightFlagDescription   = "highlight pattern matches: auto, always or never"
	iconsFlagDescription       = "print nerd font icons"
	gitignoreFlagDescription   = "honor .gitignore and .ignore files in the root directory"
	copyFlagDescription        = "copy the rendered tree to the clipboard"
	configFlagDescription      = "configuration file to use instead of ./.treer.yaml"
	verboseFlagDescription     = "log debug details to standard error"
	versionFlagDescription     = "display application version"
	globalFlagDescription      = "write the configuration to the user configuration directory"
	forceFlagDescription       = "overwrite an existing configuration file"

	rootUse              = "treer [path]"
	rootShortDescription = "print a directory tree"
	rootLongDescription  = `treer lists the contents of a directory as an indented tree.
Entries can be filtered by name with --exclude and --pattern. A pattern keeps
every matching entry together with its ancestors and descendants and, with
--highlight, marks the matches in color.

Switches take an optional value (--all=false, -a no). A path spelled like a
boolean (1, 0, true, no, ...) written right after a switch is read as that
value, so give the path first or after "--": treer 1 -a, treer -a -- 1.`
	rootUsageExample = `  # Show Go sources with the directories that lead to them
  treer -P '*.go' --highlight always ./internal

  # Two levels, ASCII glyphs, sizes and dates
  treer -L 2 -A -s -D`
	initUse              = types.CommandInit
	initShortDescription = "write a default configuration file"

	versionTemplate          = "treer version: %s\n"
	configurationWrittenText = "configuration written to %s\n"
	defaultPath              = "."
	noColorEnvironmentKey    = "NO_COLOR"

	errorHighlightModeFormat   = "invalid --highlight value %q; accepted values: auto, always, never"
	errorLevelFormat           = "invalid --level value %d; it must be at least 1"
	errorWorkingDirectory      = "unable to determine working directory: %w"
	errorAbsolutePathFormat    = "abs failed for '%s': %w"
	errorPathMissingFormat     = "path '%s' does not exist"
	errorStatFormat            = "stat failed for '%s': %w"
	errorNotDirectoryFormat    = "path '%s' is not a directory"
	errorLoadIgnoreFilesFormat = "loading ignore files in %s: %w"
	errorClipboardCopyFormat   = "copy to clipboard: %w"
	errorLoggerFormat          = "create logger: %w"
)

// Dependencies holds the collaborators of the command tree. Zero values are
// replaced with the host implementations.
type Dependencies struct {
	FileSystem        afero.Fs
	Clipboard         clipboard.Copier
	Logger            *zap.Logger
	WorkingDirectory  string
	HomeDirectory     string
	IsTerminal        func(io.Writer) bool
	LookupEnvironment func(string) (string, bool)
}

func (dependencies Dependencies) withDefaults() Dependencies {
	if dependencies.FileSystem == nil {
		dependencies.FileSystem = afero.NewOsFs()
	}
	if dependencies.Clipboard == nil {
		dependencies.Clipboard = clipboard.NewService()
	}
	if dependencies.IsTerminal == nil {
		dependencies.IsTerminal = isTerminalWriter
	}
	if dependencies.LookupEnvironment == nil {
		dependencies.LookupEnvironment = os.LookupEnv
	}
	return dependencies
}

// isTerminalWriter reports whether writer is a terminal.
func isTerminalWriter(writer io.Writer) bool {
	file, isFile := writer.(*os.File)
	if !isFile {
		return false
	}
	return isatty.IsTerminal(file.Fd()) || isatty.IsCygwinTerminal(file.Fd())
}

// Execute runs the treer application with the process arguments.
func Execute(logger *zap.Logger) error {
	rootCommand := NewRootCommand(Dependencies{Logger: logger})
	rootCommand.SetArgs(normalizeBooleanFlagArguments(rootCommand, os.Args[1:]))
	return rootCommand.Execute()
}

// treeFlags stores the values of the tree command flags.
type treeFlags struct {
	showHidden      bool
	ascii           bool
	directoriesOnly bool
	printDate       bool
	fullPath        bool
	level           int
	noIndent        bool
	excludes        []string
	printSize       bool
	permissions     bool
	includes        []string
	sortByTime      bool
	highlightMode   string
	icons           bool
	gitignore       bool
	copyToClipboard bool
	configPath      string
	verbose         bool
	showVersion     bool
}

// NewRootCommand builds the root Cobra command.
func NewRootCommand(dependencies Dependencies) *cobra.Command {
	dependencies = dependencies.withDefaults()
	var flags treeFlags

	rootCommand := &cobra.Command{
		Use:          rootUse,
		Short:        rootShortDescription,
		Long:         rootLongDescription,
		Example:      rootUsageExample,
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE: func(command *cobra.Command, arguments []string) error {
			if flags.showVersion {
				_, printError := fmt.Fprintf(command.OutOrStdout(), versionTemplate, utils.GetApplicationVersion())
				return printError
			}
			rootPath := defaultPath
			if len(arguments) > 0 {
				rootPath = arguments[0]
			}
			return runTree(command, dependencies, flags, rootPath)
		},
	}

	flagSet := rootCommand.Flags()
	registerBooleanFlag(flagSet, &flags.showHidden, allFlagName, "a", false, allFlagDescription)
	registerBooleanFlag(flagSet, &flags.ascii, asciiFlagName, "A", false, asciiFlagDescription)
	registerBooleanFlag(flagSet, &flags.directoriesOnly, directoriesFlagName, "d", false, directoriesFlagDescription)
	registerBooleanFlag(flagSet, &flags.printDate, dateFlagName, "D", false, dateFlagDescription)
	registerBooleanFlag(flagSet, &flags.fullPath, fullPathFlagName, "f", false, fullPathFlagDescription)
	flagSet.IntVarP(&flags.level, levelFlagName, "L", 0, levelFlagDescription)
	registerBooleanFlag(flagSet, &flags.noIndent, noIndentFlagName, "i", false, noIndentFlagDescription)
	flagSet.StringArrayVarP(&flags.excludes, excludeFlagName, "I", nil, excludeFlagDescription)
	registerBooleanFlag(flagSet, &flags.printSize, sizeFlagName, "s", false, sizeFlagDescription)
	registerBooleanFlag(flagSet, &flags.permissions, permissionsFlagName, "p", false, permissionsFlagDescription)
	flagSet.StringArrayVarP(&flags.includes, patternFlagName, "P", nil, patternFlagDescription)
	registerBooleanFlag(flagSet, &flags.sortByTime, timeFlagName, "t", false, timeFlagDescription)
	flagSet.StringVar(&flags.highlightMode, highlightFlagName, types.HighlightAuto, highlightFlagDescription)
	registerBooleanFlag(flagSet, &flags.icons, iconsFlagName, "", false, iconsFlagDescription)
	registerBooleanFlag(flagSet, &flags.gitignore, gitignoreFlagName, "", false, gitignoreFlagDescription)
	registerBooleanFlag(flagSet, &flags.copyToClipboard, copyFlagName, "", false, copyFlagDescription)
	flagSet.StringVar(&flags.configPath, configFlagName, "", configFlagDescription)
	registerBooleanFlag(flagSet, &flags.verbose, verboseFlagName, "", false, verboseFlagDescription)
	registerBooleanFlag(flagSet, &flags.showVersion, versionFlagName, "", false, versionFlagDescription)

	rootCommand.AddCommand(createInitCommand(dependencies))
	rootCommand.InitDefaultHelpCmd()
	rootCommand.InitDefaultCompletionCmd()
	return rootCommand
}

// createInitCommand returns the init subcommand.
func createInitCommand(dependencies Dependencies) *cobra.Command {
	var global bool
	var force bool

	initCommand := &cobra.Command{
		Use:   initUse,
		Short: initShortDescription,
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			target := config.InitTargetLocal
			if global {
				target = config.InitTargetGlobal
			}
			writtenPath, initError := config.InitializeConfiguration(config.InitOptions{
				Target:           target,
				Force:            force,
				WorkingDirectory: dependencies.WorkingDirectory,
				HomeDirectory:    dependencies.HomeDirectory,
				FileSystem:       dependencies.FileSystem,
			})
			if initError != nil {
				return initError
			}
			_, printError := fmt.Fprintf(command.OutOrStdout(), configurationWrittenText, writtenPath)
			return printError
		},
	}
	registerBooleanFlag(initCommand.Flags(), &global, globalFlagName, "", false, globalFlagDescription)
	registerBooleanFlag(initCommand.Flags(), &force, forceFlagName, "", false, forceFlagDescription)
	return initCommand
}

// runTree resolves flags against configuration files and prints the tree.
func runTree(command *cobra.Command, dependencies Dependencies, flags treeFlags, rootArgument string) error {
	workingDirectory := dependencies.WorkingDirectory
	if workingDirectory == "" {
		currentDirectory, workingDirectoryError := os.Getwd()
		if workingDirectoryError != nil {
			return fmt.Errorf(errorWorkingDirectory, workingDirectoryError)
		}
		workingDirectory = currentDirectory
	}

	logger := dependencies.Logger
	if flags.verbose || logger == nil {
		verboseLogger, loggerError := utils.NewApplicationLogger(flags.verbose)
		if loggerError != nil {
			return fmt.Errorf(errorLoggerFormat, loggerError)
		}
		logger = verboseLogger
	}

	applicationConfiguration, configurationError := config.LoadApplicationConfiguration(config.LoadOptions{
		WorkingDirectory: workingDirectory,
		ExplicitFilePath: flags.configPath,
		HomeDirectory:    dependencies.HomeDirectory,
		FileSystem:       dependencies.FileSystem,
	})
	if configurationError != nil {
		return configurationError
	}
	settings := resolveSettings(command, flags, applicationConfiguration.Tree)

	highlightEnabled, highlightError := resolveHighlight(settings.highlightMode, dependencies, command.OutOrStdout())
	if highlightError != nil {
		return highlightError
	}

	options := types.TreeOptions{
		ShowHidden:         settings.showHidden,
		DirectoriesOnly:    settings.directoriesOnly,
		SortByModifiedTime: settings.sortByTime,
		ASCII:              settings.ascii,
		FullPath:           settings.fullPath,
		NoIndent:           settings.noIndent,
		PrintSize:          settings.printSize,
		PrintPermissions:   settings.permissions,
		PrintDate:          settings.printDate,
		Highlight:          highlightEnabled,
		Icons:              settings.icons,
	}
	if settings.level != 0 {
		if settings.level < 1 {
			return fmt.Errorf(errorLevelFormat, settings.level)
		}
		maxDepth := settings.level
		options.MaxDepth = &maxDepth
	}

	excludePatterns, excludeError := patterns.CompileAll(settings.excludes)
	if excludeError != nil {
		return excludeError
	}
	includePatterns, includeError := patterns.CompileAll(settings.includes)
	if includeError != nil {
		return includeError
	}
	options.ExcludePatterns = excludePatterns
	options.IncludePatterns = includePatterns

	provider := filesystem.NewProvider(dependencies.FileSystem)
	validatedRoot, rootError := resolveRootPath(provider, workingDirectory, rootArgument)
	if rootError != nil {
		return rootError
	}
	rootPath := validatedRoot.AbsolutePath
	options.RootLabel = validatedRoot.DisplayPath
	options.TypedRoot = rootArgument

	if settings.gitignore {
		ignoreMatcher, ignoreError := patterns.LoadIgnoreMatcher(dependencies.FileSystem, rootPath)
		if ignoreError != nil {
			return fmt.Errorf(errorLoadIgnoreFilesFormat, rootPath, ignoreError)
		}
		options.IgnoreMatcher = ignoreMatcher
	}

	logger.Debug("rendering tree", zap.String("root", rootPath), zap.Bool("highlight", highlightEnabled))

	membership, resolveError := commands.ResolveTree(provider, options, logger, rootPath)
	if resolveError != nil {
		return resolveError
	}
	renderer := commands.NewTreeRenderer(provider, options, logger)

	var rendered bytes.Buffer
	var plain bytes.Buffer
	var renderError error
	if settings.copyToClipboard {
		_, renderError = renderer.RenderWithPlainCopy(rootPath, membership, &rendered, &plain)
	} else {
		_, renderError = renderer.Render(rootPath, membership, &rendered)
	}
	if renderError != nil {
		return renderError
	}
	if _, writeError := command.OutOrStdout().Write(rendered.Bytes()); writeError != nil {
		return writeError
	}

	if !settings.copyToClipboard {
		return nil
	}
	clipboardText := plain.String()
	if copyError := dependencies.Clipboard.Copy(clipboardText); copyError != nil {
		return fmt.Errorf(errorClipboardCopyFormat, copyError)
	}
	return nil
}

// resolveSettings overlays configuration values onto every flag the user did not set.
func resolveSettings(command *cobra.Command, flags treeFlags, configuration config.TreeConfiguration) treeFlags {
	flagSet := command.Flags()
	overlayBool := func(flagName string, target *bool, configured *bool) {
		if configured != nil && !flagSet.Changed(flagName) {
			*target = *configured
		}
	}

	settings := flags
	overlayBool(allFlagName, &settings.showHidden, configuration.All)
	overlayBool(asciiFlagName, &settings.ascii, configuration.ASCII)
	overlayBool(directoriesFlagName, &settings.directoriesOnly, configuration.DirectoriesOnly)
	overlayBool(dateFlagName, &settings.printDate, configuration.Date)
	overlayBool(fullPathFlagName, &settings.fullPath, configuration.FullPath)
	overlayBool(noIndentFlagName, &settings.noIndent, configuration.NoIndent)
	overlayBool(sizeFlagName, &settings.printSize, configuration.Size)
	overlayBool(permissionsFlagName, &settings.permissions, configuration.Permissions)
	overlayBool(timeFlagName, &settings.sortByTime, configuration.SortByTime)
	overlayBool(iconsFlagName, &settings.icons, configuration.Icons)
	overlayBool(gitignoreFlagName, &settings.gitignore, configuration.Gitignore)
	overlayBool(copyFlagName, &settings.copyToClipboard, configuration.Copy)
	if configuration.Level != nil && !flagSet.Changed(levelFlagName) {
		settings.level = *configuration.Level
	}
	if configuration.Highlight != "" && !flagSet.Changed(highlightFlagName) {
		settings.highlightMode = configuration.Highlight
	}
	if !flagSet.Changed(excludeFlagName) {
		settings.excludes = configuration.Exclude
	}
	if !flagSet.Changed(patternFlagName) {
		settings.includes = configuration.Pattern
	}
	return settings
}

// resolveHighlight turns a highlight mode into a decision. Auto highlights only
// when writer is a terminal and NO_COLOR is unset.
func resolveHighlight(mode string, dependencies Dependencies, writer io.Writer) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case types.HighlightAlways:
		return true, nil
	case types.HighlightNever:
		return false, nil
	case types.HighlightAuto, "":
		if _, noColor := dependencies.LookupEnvironment(noColorEnvironmentKey); noColor {
			return false, nil
		}
		return dependencies.IsTerminal(writer), nil
	default:
		return false, fmt.Errorf(errorHighlightModeFormat, mode)
	}
}

// resolveRootPath validates the tree root and returns its absolute path
// together with the label printed on the first line.
func resolveRootPath(provider filesystem.Provider, workingDirectory string, rootArgument string) (types.ValidatedPath, error) {
	statPath := rootArgument
	if !filepath.IsAbs(statPath) {
		statPath = filepath.Join(workingDirectory, statPath)
	}
	absolutePath, absolutePathError := filepath.Abs(statPath)
	if absolutePathError != nil {
		return types.ValidatedPath{}, fmt.Errorf(errorAbsolutePathFormat, rootArgument, absolutePathError)
	}

	rootEntry, fileStatusError := provider.Stat(absolutePath)
	if fileStatusError != nil {
		if errors.Is(fileStatusError, os.ErrNotExist) {
			return types.ValidatedPath{}, fmt.Errorf(errorPathMissingFormat, rootArgument)
		}
		return types.ValidatedPath{}, fmt.Errorf(errorStatFormat, rootArgument, fileStatusError)
	}
	if !rootEntry.IsDir {
		return types.ValidatedPath{}, fmt.Errorf(errorNotDirectoryFormat, rootArgument)
	}

	return types.ValidatedPath{DisplayPath: rootLabel(rootArgument), AbsolutePath: absolutePath, IsDir: true}, nil
}

// rootLabel returns the last element of the typed path, or "." when it has none.
func rootLabel(rootArgument string) string {
	label := filepath.Base(filepath.Clean(rootArgument))
	if label == ".." || label == string(filepath.Separator) {
		return defaultPath
	}
	return label
}
