package commands_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/temirov/treer/internal/commands"
	"github.com/temirov/treer/internal/services/filesystem"
	"github.com/temirov/treer/internal/types"
)

const resolverRootPath = "/project"

// prefixIgnoreMatcher ignores every path below one of its prefixes.
type prefixIgnoreMatcher []string

func (matcher prefixIgnoreMatcher) Match(path string, isDir bool) bool {
	for _, prefix := range matcher {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

func newProjectProvider() stubProvider {
	return stubProvider{
		children: map[string][]filesystem.Entry{
			resolverRootPath: {
				stubDirectory(resolverRootPath, "docs"),
				stubDirectory(resolverRootPath, "src"),
				stubDirectory(resolverRootPath, ".git"),
				stubFile(resolverRootPath, "README"),
			},
			resolverRootPath + "/docs": {
				stubFile(resolverRootPath+"/docs", "guide.md"),
				stubFile(resolverRootPath+"/docs", "notes.txt"),
			},
			resolverRootPath + "/src": {
				stubFile(resolverRootPath+"/src", "main.go"),
				stubDirectory(resolverRootPath+"/src", "internal"),
			},
			resolverRootPath + "/src/internal": {
				stubFile(resolverRootPath+"/src/internal", "helper.md"),
			},
			resolverRootPath + "/.git": {
				stubFile(resolverRootPath+"/.git", "config.md"),
			},
		},
	}
}

func resolveProject(testingHandle *testing.T, provider stubProvider, options types.TreeOptions) commands.Membership {
	testingHandle.Helper()
	resolver := &commands.MembershipResolver{Provider: provider, Options: options}
	rootChildren, readError := provider.ReadDir(resolverRootPath)
	require.NoError(testingHandle, readError)
	membership, resolveError := resolver.Resolve(rootChildren)
	require.NoError(testingHandle, resolveError)
	return membership
}

func projectPaths(relativePaths ...string) []string {
	absolutePaths := make([]string, 0, len(relativePaths))
	for _, relativePath := range relativePaths {
		absolutePaths = append(absolutePaths, resolverRootPath+"/"+relativePath)
	}
	return absolutePaths
}

func TestMembershipResolver(testingHandle *testing.T) {
	testCases := []struct {
		name                string
		options             func(*testing.T) types.TreeOptions
		expectedVisible     []string
		expectedHighlighted []string
	}{
		{
			name:            "everything that survives pruning is visible without include patterns",
			options:         func(*testing.T) types.TreeOptions { return types.TreeOptions{} },
			expectedVisible: projectPaths("README", "docs", "docs/guide.md", "docs/notes.txt", "src", "src/internal", "src/internal/helper.md", "src/main.go"),
		},
		{
			name: "matched files keep their ancestors",
			options: func(t *testing.T) types.TreeOptions {
				return types.TreeOptions{IncludePatterns: compilePatterns(t, "*.md")}
			},
			expectedVisible:     projectPaths("docs", "docs/guide.md", "src", "src/internal", "src/internal/helper.md"),
			expectedHighlighted: projectPaths("docs/guide.md", "src/internal/helper.md"),
		},
		{
			name: "matched directories keep their descendants",
			options: func(t *testing.T) types.TreeOptions {
				return types.TreeOptions{IncludePatterns: compilePatterns(t, "src")}
			},
			expectedVisible:     projectPaths("src", "src/internal", "src/internal/helper.md", "src/main.go"),
			expectedHighlighted: projectPaths("src"),
		},
		{
			name: "exclude wins over include",
			options: func(t *testing.T) types.TreeOptions {
				return types.TreeOptions{
					IncludePatterns: compilePatterns(t, "*.md"),
					ExcludePatterns: compilePatterns(t, "internal"),
				}
			},
			expectedVisible:     projectPaths("docs", "docs/guide.md"),
			expectedHighlighted: projectPaths("docs/guide.md"),
		},
		{
			name: "depth limit prunes before matching",
			options: func(t *testing.T) types.TreeOptions {
				return types.TreeOptions{IncludePatterns: compilePatterns(t, "*.md"), MaxDepth: depthLimit(2)}
			},
			expectedVisible:     projectPaths("docs", "docs/guide.md"),
			expectedHighlighted: projectPaths("docs/guide.md"),
		},
		{
			name: "hidden entries are pruned with their subtree",
			options: func(t *testing.T) types.TreeOptions {
				return types.TreeOptions{IncludePatterns: compilePatterns(t, "config.md")}
			},
		},
		{
			name: "hidden entries are resolved when shown",
			options: func(t *testing.T) types.TreeOptions {
				return types.TreeOptions{IncludePatterns: compilePatterns(t, "config.md"), ShowHidden: true}
			},
			expectedVisible:     projectPaths(".git", ".git/config.md"),
			expectedHighlighted: projectPaths(".git/config.md"),
		},
		{
			name: "directories only never shows files but still matches directories",
			options: func(t *testing.T) types.TreeOptions {
				return types.TreeOptions{DirectoriesOnly: true, IncludePatterns: compilePatterns(t, "int*")}
			},
			expectedVisible:     projectPaths("src", "src/internal"),
			expectedHighlighted: projectPaths("src/internal"),
		},
		{
			name: "ignore matcher prunes paths",
			options: func(*testing.T) types.TreeOptions {
				return types.TreeOptions{IgnoreMatcher: prefixIgnoreMatcher{resolverRootPath + "/src"}}
			},
			expectedVisible: projectPaths("README", "docs", "docs/guide.md", "docs/notes.txt"),
		},
	}

	for _, testCase := range testCases {
		testingHandle.Run(testCase.name, func(t *testing.T) {
			membership := resolveProject(t, newProjectProvider(), testCase.options(t))
			assert.ElementsMatch(t, testCase.expectedVisible, membership.VisiblePaths())
			assert.ElementsMatch(t, testCase.expectedHighlighted, membership.HighlightedPaths())
			for _, highlightedPath := range membership.HighlightedPaths() {
				assert.True(t, membership.IsVisible(highlightedPath), highlightedPath)
			}
		})
	}
}

func TestMembershipResolverUnreadableDirectory(testingHandle *testing.T) {
	provider := newProjectProvider()
	provider.failures = map[string]error{resolverRootPath + "/src": errors.New("permission denied")}

	membership := resolveProject(testingHandle, provider, types.TreeOptions{})
	assert.True(testingHandle, membership.IsVisible(resolverRootPath+"/src"))
	assert.False(testingHandle, membership.IsVisible(resolverRootPath+"/src/main.go"))

	membership = resolveProject(testingHandle, provider, types.TreeOptions{IncludePatterns: compilePatterns(testingHandle, "*.go")})
	assert.Empty(testingHandle, membership.VisiblePaths())
}

func TestMembershipResolverIsDeterministic(testingHandle *testing.T) {
	options := types.TreeOptions{IncludePatterns: compilePatterns(testingHandle, "*.md", "main*")}
	first := resolveProject(testingHandle, newProjectProvider(), options)
	second := resolveProject(testingHandle, newProjectProvider(), options)
	assert.Equal(testingHandle, first.VisiblePaths(), second.VisiblePaths())
	assert.Equal(testingHandle, first.HighlightedPaths(), second.HighlightedPaths())
}
