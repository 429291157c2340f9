// Package filesystem lists directory entries for the tree commands.
package filesystem

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"time"

	"github.com/spf13/afero"
)

const (
	errorReadDirectoryFormat = "reading directory %s: %w"
	errorStatPathFormat      = "stat %s: %w"
)

// Entry describes one filesystem object as seen by a traversal.
type Entry struct {
	Path       string
	Name       string
	IsDir      bool
	ModTime    time.Time
	ModTimeErr error
	Size       int64
	Mode       fs.FileMode
}

// ModifiedOrEpoch returns the modification time, or the Unix epoch when it could not be read.
func (entry Entry) ModifiedOrEpoch() time.Time {
	if entry.ModTimeErr != nil {
		return time.Unix(0, 0)
	}
	return entry.ModTime
}

// Provider enumerates the children of a directory.
type Provider interface {
	ReadDir(directoryPath string) ([]Entry, error)
	Stat(path string) (Entry, error)
}

// directoryEntryReader is implemented by files, such as *os.File, that list
// entry types straight from the directory.
type directoryEntryReader interface {
	ReadDir(count int) ([]fs.DirEntry, error)
}

// AferoProvider implements Provider on top of an afero filesystem.
type AferoProvider struct {
	fileSystem afero.Fs
}

// NewProvider constructs a Provider backed by fileSystem.
func NewProvider(fileSystem afero.Fs) *AferoProvider {
	return &AferoProvider{fileSystem: fileSystem}
}

// ReadDir lists the children of directoryPath. Entry metadata comes from
// Lstat, so symbolic links are reported as links and never followed. A child
// whose metadata cannot be read is still returned, with ModTimeErr set.
func (provider *AferoProvider) ReadDir(directoryPath string) ([]Entry, error) {
	childNames, childKinds, listError := provider.listDirectory(directoryPath)
	if listError != nil {
		return nil, fmt.Errorf(errorReadDirectoryFormat, directoryPath, listError)
	}
	entries := make([]Entry, 0, len(childNames))
	for _, childName := range childNames {
		childPath := filepath.Join(directoryPath, childName)
		fileInfo, statError := provider.lstat(childPath)
		if statError != nil {
			if errors.Is(statError, fs.ErrNotExist) {
				continue
			}
			entries = append(entries, Entry{
				Path:       childPath,
				Name:       childName,
				IsDir:      childKinds[childName],
				ModTimeErr: fmt.Errorf(errorStatPathFormat, childPath, statError),
			})
			continue
		}
		entries = append(entries, newEntry(childPath, fileInfo))
	}
	return entries, nil
}

// listDirectory returns the child names of directoryPath and, when the
// underlying file can report them without a stat call, which of them are directories.
func (provider *AferoProvider) listDirectory(directoryPath string) ([]string, map[string]bool, error) {
	directory, openError := provider.fileSystem.Open(directoryPath)
	if openError != nil {
		return nil, nil, openError
	}
	defer directory.Close()

	childKinds := make(map[string]bool)
	if entryReader, supportsEntries := directory.(directoryEntryReader); supportsEntries {
		directoryEntries, readError := entryReader.ReadDir(-1)
		if readError != nil {
			return nil, nil, readError
		}
		childNames := make([]string, 0, len(directoryEntries))
		for _, directoryEntry := range directoryEntries {
			childNames = append(childNames, directoryEntry.Name())
			childKinds[directoryEntry.Name()] = directoryEntry.IsDir()
		}
		return childNames, childKinds, nil
	}

	childNames, readError := directory.Readdirnames(-1)
	if readError != nil {
		return nil, nil, readError
	}
	return childNames, childKinds, nil
}

func (provider *AferoProvider) lstat(path string) (fs.FileInfo, error) {
	if lstater, supportsLstat := provider.fileSystem.(afero.Lstater); supportsLstat {
		fileInfo, _, statError := lstater.LstatIfPossible(path)
		return fileInfo, statError
	}
	return provider.fileSystem.Stat(path)
}

// Stat describes a single path.
func (provider *AferoProvider) Stat(path string) (Entry, error) {
	fileInfo, statError := provider.fileSystem.Stat(path)
	if statError != nil {
		return Entry{}, fmt.Errorf(errorStatPathFormat, path, statError)
	}
	return newEntry(path, fileInfo), nil
}

func newEntry(path string, fileInfo fs.FileInfo) Entry {
	return Entry{
		Path:    path,
		Name:    fileInfo.Name(),
		IsDir:   fileInfo.IsDir(),
		ModTime: fileInfo.ModTime(),
		Size:    fileInfo.Size(),
		Mode:    fileInfo.Mode().Perm(),
	}
}

var _ Provider = (*AferoProvider)(nil)
