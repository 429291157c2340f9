package patterns

import (
	"fmt"
	"os"
	"path/filepath"

	gitignore "github.com/monochromegane/go-gitignore"
	"github.com/spf13/afero"

	"github.com/temirov/treer/internal/types"
	"github.com/temirov/treer/internal/utils"
)

const errorLoadIgnoreFileFormat = "loading %s from %s: %w"

// ignoreFileNames lists the ignore files honored at the traversal root, in evaluation order.
var ignoreFileNames = []string{utils.IgnoreFileName, utils.GitIgnoreFileName}

// ignoreMatchers excludes a path when any of its members does.
type ignoreMatchers []gitignore.IgnoreMatcher

// Match reports whether path is ignored by any loaded ignore file.
func (matchers ignoreMatchers) Match(path string, isDir bool) bool {
	for _, matcher := range matchers {
		if matcher.Match(path, isDir) {
			return true
		}
	}
	return false
}

// LoadIgnoreMatcher reads the .ignore and .gitignore files found directly in
// rootDirectoryPath. Paths passed to the returned matcher must be rooted at
// rootDirectoryPath. A nil matcher is returned when neither file exists.
func LoadIgnoreMatcher(fileSystem afero.Fs, rootDirectoryPath string) (types.IgnoreMatcher, error) {
	var matchers ignoreMatchers
	for _, ignoreFileName := range ignoreFileNames {
		ignoreFilePath := filepath.Join(rootDirectoryPath, ignoreFileName)
		ignoreFile, openError := fileSystem.Open(ignoreFilePath)
		if openError != nil {
			if os.IsNotExist(openError) {
				continue
			}
			return nil, fmt.Errorf(errorLoadIgnoreFileFormat, ignoreFileName, rootDirectoryPath, openError)
		}
		matcher := gitignore.NewGitIgnoreFromReader(rootDirectoryPath, ignoreFile)
		closeError := ignoreFile.Close()
		if closeError != nil {
			return nil, fmt.Errorf(errorLoadIgnoreFileFormat, ignoreFileName, rootDirectoryPath, closeError)
		}
		matchers = append(matchers, matcher)
	}
	if len(matchers) == 0 {
		return nil, nil
	}
	return matchers, nil
}
