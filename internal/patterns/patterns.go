// Package patterns compiles the wildcard and ignore-file rules used to filter tree entries.
package patterns

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gobwas/glob"

	"github.com/temirov/treer/internal/types"
)

const errorInvalidPatternFormat = "%w %q: %v"

// ErrInvalidPattern reports a wildcard pattern that cannot be compiled.
var ErrInvalidPattern = errors.New("invalid pattern")

// namePattern keeps the source text next to the compiled glob for diagnostics.
type namePattern struct {
	source   string
	compiled glob.Glob
}

// Match reports whether name matches the pattern.
func (pattern namePattern) Match(name string) bool {
	return pattern.compiled.Match(name)
}

// String returns the pattern as the user wrote it.
func (pattern namePattern) String() string {
	return pattern.source
}

// Compile compiles a single wildcard pattern matched against entry names.
// Supported syntax: *, ?, [abc], [!abc], [a-z] and {alt1,alt2}.
func Compile(rawPattern string) (types.NameMatcher, error) {
	compiled, compileError := glob.Compile(rawPattern)
	if compileError != nil {
		return nil, fmt.Errorf(errorInvalidPatternFormat, ErrInvalidPattern, rawPattern, compileError)
	}
	return namePattern{source: rawPattern, compiled: compiled}, nil
}

// CompileAll compiles rawPatterns in order, skipping blank entries. The first
// malformed pattern aborts compilation.
func CompileAll(rawPatterns []string) ([]types.NameMatcher, error) {
	compiledPatterns := make([]types.NameMatcher, 0, len(rawPatterns))
	for _, rawPattern := range rawPatterns {
		trimmedPattern := strings.TrimSpace(rawPattern)
		if trimmedPattern == "" {
			continue
		}
		compiledPattern, compileError := Compile(trimmedPattern)
		if compileError != nil {
			return nil, compileError
		}
		compiledPatterns = append(compiledPatterns, compiledPattern)
	}
	return compiledPatterns, nil
}

// MatchesAny reports whether name matches at least one of matchers.
func MatchesAny(matchers []types.NameMatcher, name string) bool {
	for _, matcher := range matchers {
		if matcher.Match(name) {
			return true
		}
	}
	return false
}
