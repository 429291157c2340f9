// Package types defines every cross‑package data structure used by the treer CLI.
package types

const (
	CommandInit = "init"

	HighlightAuto   = "auto"
	HighlightAlways = "always"
	HighlightNever  = "never"

	// HiddenMarker prefixes the names of hidden entries.
	HiddenMarker = "."

	// DefaultRecursionLimit bounds how many directory levels a traversal may descend.
	DefaultRecursionLimit = 1024
)

// ValidatedPath is an input path that already passed existence checks.
type ValidatedPath struct {
	DisplayPath  string
	AbsolutePath string
	IsDir        bool
}

// NameMatcher reports whether an entry name matches a compiled wildcard pattern.
type NameMatcher interface {
	Match(name string) bool
}

// IgnoreMatcher reports whether a path is excluded by ignore-file rules.
type IgnoreMatcher interface {
	Match(path string, isDir bool) bool
}

// TreeOptions is the immutable per-invocation configuration shared by the
// membership resolver and the tree renderer.
type TreeOptions struct {
	ShowHidden         bool
	DirectoriesOnly    bool
	MaxDepth           *int
	ExcludePatterns    []NameMatcher
	IncludePatterns    []NameMatcher
	IgnoreMatcher      IgnoreMatcher
	SortByModifiedTime bool
	RecursionLimit     int

	ASCII            bool
	FullPath         bool
	NoIndent         bool
	PrintSize        bool
	PrintPermissions bool
	PrintDate        bool
	Highlight        bool
	Icons            bool
	// RootLabel replaces the base name of the root on the first line unless
	// FullPath is set.
	RootLabel string
	// TypedRoot is the root as the user spelled it. In FullPath mode entry
	// paths are printed below it instead of as absolute paths.
	TypedRoot string
}

// HasIncludePatterns reports whether a search pattern set was configured.
func (options TreeOptions) HasIncludePatterns() bool {
	return len(options.IncludePatterns) > 0
}

// EffectiveRecursionLimit returns the configured traversal budget or the default one.
func (options TreeOptions) EffectiveRecursionLimit() int {
	if options.RecursionLimit <= 0 {
		return DefaultRecursionLimit
	}
	return options.RecursionLimit
}

// TreeSummary holds the directory and file tallies of one rendered tree.
type TreeSummary struct {
	Directories int
	Files       int
}
