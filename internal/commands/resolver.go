package commands

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/temirov/treer/internal/patterns"
	"github.com/temirov/treer/internal/services/filesystem"
	"github.com/temirov/treer/internal/types"
)

const (
	// debugUnreadableDirectoryMessage is logged when the resolver cannot list a directory.
	debugUnreadableDirectoryMessage = "treating unreadable directory as empty"

	// errorRecursionLimitFormat is used when a traversal descends past its budget.
	errorRecursionLimitFormat = "%w: %s is more than %d levels deep"
)

// ErrRecursionLimit reports a tree deeper than the configured traversal budget.
var ErrRecursionLimit = errors.New("recursion limit exceeded")

// Membership records which paths a tree render prints and which of them matched
// an include pattern by name. Every highlighted path is also visible.
type Membership struct {
	visible     map[string]struct{}
	highlighted map[string]struct{}
}

func newMembership() Membership {
	return Membership{
		visible:     make(map[string]struct{}),
		highlighted: make(map[string]struct{}),
	}
}

// IsVisible reports whether path is printed.
func (membership Membership) IsVisible(path string) bool {
	_, visible := membership.visible[path]
	return visible
}

// IsHighlighted reports whether the name at path matched an include pattern.
func (membership Membership) IsHighlighted(path string) bool {
	_, highlighted := membership.highlighted[path]
	return highlighted
}

// VisiblePaths returns the visible paths in lexical order.
func (membership Membership) VisiblePaths() []string {
	return sortedKeys(membership.visible)
}

// HighlightedPaths returns the highlighted paths in lexical order.
func (membership Membership) HighlightedPaths() []string {
	return sortedKeys(membership.highlighted)
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for key := range set {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// MembershipResolver decides which entries below a root must be printed.
//
// Hidden, directory-only, depth, exclude and ignore-file rules prune an entry
// and its whole subtree. Of the remaining entries, a name matching an include
// pattern keeps the entry, its ancestors and its descendants visible. Without
// include patterns every entry that survives pruning is visible.
type MembershipResolver struct {
	Provider filesystem.Provider
	Options  types.TreeOptions
	Logger   *zap.Logger
}

// Resolve walks rootChildren and everything below them and returns the resulting membership.
func (resolver *MembershipResolver) Resolve(rootChildren []filesystem.Entry) (Membership, error) {
	if resolver.Logger == nil {
		resolver.Logger = zap.NewNop()
	}
	membership := newMembership()
	for _, child := range rootChildren {
		if _, resolveError := resolver.resolveEntry(child, 1, false, membership); resolveError != nil {
			return Membership{}, resolveError
		}
	}
	return membership, nil
}

// resolveEntry returns whether entry ends up visible. The decision for a
// directory is made after all of its children have been resolved.
func (resolver *MembershipResolver) resolveEntry(entry filesystem.Entry, depth int, ancestorMatched bool, membership Membership) (bool, error) {
	if !resolver.admits(entry, depth) {
		return false, nil
	}
	recursionLimit := resolver.Options.EffectiveRecursionLimit()
	if depth > recursionLimit {
		return false, fmt.Errorf(errorRecursionLimitFormat, ErrRecursionLimit, entry.Path, recursionLimit)
	}

	nameMatched := !resolver.Options.HasIncludePatterns()
	if patterns.MatchesAny(resolver.Options.IncludePatterns, entry.Name) {
		nameMatched = true
		membership.highlighted[entry.Path] = struct{}{}
	}

	visible := nameMatched || ancestorMatched
	if entry.IsDir && resolver.descendsBelow(depth) {
		children, readError := resolver.Provider.ReadDir(entry.Path)
		if readError != nil {
			resolver.Logger.Debug(debugUnreadableDirectoryMessage, zap.String("path", entry.Path), zap.Error(readError))
		}
		for _, child := range children {
			childVisible, resolveError := resolver.resolveEntry(child, depth+1, ancestorMatched || nameMatched, membership)
			if resolveError != nil {
				return false, resolveError
			}
			if childVisible {
				visible = true
			}
		}
	}

	if visible {
		membership.visible[entry.Path] = struct{}{}
	}
	return visible, nil
}

// admits applies the pruning rules that no pattern match can override.
func (resolver *MembershipResolver) admits(entry filesystem.Entry, depth int) bool {
	options := resolver.Options
	if !options.ShowHidden && strings.HasPrefix(entry.Name, types.HiddenMarker) {
		return false
	}
	if options.DirectoriesOnly && !entry.IsDir {
		return false
	}
	if options.MaxDepth != nil && depth > *options.MaxDepth {
		return false
	}
	if patterns.MatchesAny(options.ExcludePatterns, entry.Name) {
		return false
	}
	if options.IgnoreMatcher != nil && options.IgnoreMatcher.Match(entry.Path, entry.IsDir) {
		return false
	}
	return true
}

// descendsBelow reports whether children of an entry at depth can pass the depth rule.
func (resolver *MembershipResolver) descendsBelow(depth int) bool {
	return resolver.Options.MaxDepth == nil || depth < *resolver.Options.MaxDepth
}
