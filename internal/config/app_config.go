// Package config loads and writes treer configuration files.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
	"github.com/spf13/viper"

	"github.com/temirov/treer/internal/types"
	"github.com/temirov/treer/internal/utils"
)

const (
	errorWorkingDirectoryFormat    = "determine working directory: %w"
	errorResolveConfigPathFormat   = "resolve configuration path %s: %w"
	errorStatConfigurationFormat   = "stat configuration %s: %w"
	errorConfigurationIsDirFormat  = "configuration path %s is a directory"
	errorReadConfigurationFormat   = "read configuration from %s: %w"
	errorDecodeConfigurationFormat = "decode configuration from %s: %w"
)

// LoadOptions controls how application configuration is discovered.
type LoadOptions struct {
	WorkingDirectory string
	ExplicitFilePath string
	// HomeDirectory overrides the user home directory used for the global file.
	HomeDirectory string
	// FileSystem defaults to the host filesystem.
	FileSystem afero.Fs
}

// ApplicationConfiguration holds command-specific configuration defaults.
type ApplicationConfiguration struct {
	Tree TreeConfiguration `mapstructure:"tree" yaml:"tree"`
}

// TreeConfiguration mirrors the tree command flags. Nil pointers and empty
// strings mean "not configured".
type TreeConfiguration struct {
	All             *bool    `mapstructure:"all" yaml:"all"`
	ASCII           *bool    `mapstructure:"ascii" yaml:"ascii"`
	DirectoriesOnly *bool    `mapstructure:"directories" yaml:"directories"`
	Date            *bool    `mapstructure:"date" yaml:"date"`
	FullPath        *bool    `mapstructure:"full" yaml:"full"`
	Level           *int     `mapstructure:"level" yaml:"level,omitempty"`
	NoIndent        *bool    `mapstructure:"no_indent" yaml:"no_indent"`
	Size            *bool    `mapstructure:"size" yaml:"size"`
	Permissions     *bool    `mapstructure:"permissions" yaml:"permissions"`
	SortByTime      *bool    `mapstructure:"time" yaml:"time"`
	Highlight       string   `mapstructure:"highlight" yaml:"highlight"`
	Icons           *bool    `mapstructure:"icons" yaml:"icons"`
	Gitignore       *bool    `mapstructure:"gitignore" yaml:"gitignore"`
	Copy            *bool    `mapstructure:"copy" yaml:"copy"`
	Exclude         []string `mapstructure:"exclude" yaml:"exclude"`
	Pattern         []string `mapstructure:"pattern" yaml:"pattern"`
}

// DefaultConfiguration returns the values written by the init command.
func DefaultConfiguration() ApplicationConfiguration {
	disabled := false
	return ApplicationConfiguration{
		Tree: TreeConfiguration{
			All:             cloneBool(&disabled),
			ASCII:           cloneBool(&disabled),
			DirectoriesOnly: cloneBool(&disabled),
			Date:            cloneBool(&disabled),
			FullPath:        cloneBool(&disabled),
			NoIndent:        cloneBool(&disabled),
			Size:            cloneBool(&disabled),
			Permissions:     cloneBool(&disabled),
			SortByTime:      cloneBool(&disabled),
			Highlight:       types.HighlightAuto,
			Icons:           cloneBool(&disabled),
			Gitignore:       cloneBool(&disabled),
			Copy:            cloneBool(&disabled),
			Exclude:         []string{},
			Pattern:         []string{},
		},
	}
}

// LoadApplicationConfiguration loads configuration from global and local files.
// Values from the local file override the global ones.
func LoadApplicationConfiguration(options LoadOptions) (ApplicationConfiguration, error) {
	fileSystem := options.FileSystem
	if fileSystem == nil {
		fileSystem = afero.NewOsFs()
	}

	workingDirectory := options.WorkingDirectory
	if workingDirectory == "" {
		currentDirectory, err := os.Getwd()
		if err != nil {
			return ApplicationConfiguration{}, fmt.Errorf(errorWorkingDirectoryFormat, err)
		}
		workingDirectory = currentDirectory
	}

	var merged ApplicationConfiguration

	homeDirectory := options.HomeDirectory
	if homeDirectory == "" {
		if resolvedHome, err := os.UserHomeDir(); err == nil {
			homeDirectory = resolvedHome
		}
	}
	if homeDirectory != "" {
		globalPath := filepath.Join(homeDirectory, utils.GlobalConfigDirectoryName, utils.ConfigFileName)
		globalConfig, loadErr := loadConfigurationFromPath(fileSystem, globalPath)
		if loadErr != nil {
			return ApplicationConfiguration{}, loadErr
		}
		merged = merged.Merge(globalConfig)
	}

	localPath, resolveErr := resolveLocalConfigPath(workingDirectory, options.ExplicitFilePath)
	if resolveErr != nil {
		return ApplicationConfiguration{}, resolveErr
	}
	if localPath != "" {
		localConfig, loadErr := loadConfigurationFromPath(fileSystem, localPath)
		if loadErr != nil {
			return ApplicationConfiguration{}, loadErr
		}
		merged = merged.Merge(localConfig)
	}

	merged.Tree.Exclude = utils.DeduplicatePatterns(merged.Tree.Exclude)
	merged.Tree.Pattern = utils.DeduplicatePatterns(merged.Tree.Pattern)

	return merged, nil
}

func resolveLocalConfigPath(workingDirectory, explicitPath string) (string, error) {
	if explicitPath != "" {
		if filepath.IsAbs(explicitPath) {
			return explicitPath, nil
		}
		if workingDirectory == "" {
			absolute, err := filepath.Abs(explicitPath)
			if err != nil {
				return "", fmt.Errorf(errorResolveConfigPathFormat, explicitPath, err)
			}
			return absolute, nil
		}
		return filepath.Join(workingDirectory, explicitPath), nil
	}
	if workingDirectory == "" {
		return "", nil
	}
	return filepath.Join(workingDirectory, utils.ConfigFileName), nil
}

func loadConfigurationFromPath(fileSystem afero.Fs, path string) (ApplicationConfiguration, error) {
	if path == "" {
		return ApplicationConfiguration{}, nil
	}
	info, statErr := fileSystem.Stat(path)
	if statErr != nil {
		if os.IsNotExist(statErr) {
			return ApplicationConfiguration{}, nil
		}
		return ApplicationConfiguration{}, fmt.Errorf(errorStatConfigurationFormat, path, statErr)
	}
	if info.IsDir() {
		return ApplicationConfiguration{}, fmt.Errorf(errorConfigurationIsDirFormat, path)
	}

	reader := viper.New()
	reader.SetFs(fileSystem)
	reader.SetConfigFile(path)
	reader.SetConfigType("yaml")
	if readErr := reader.ReadInConfig(); readErr != nil {
		return ApplicationConfiguration{}, fmt.Errorf(errorReadConfigurationFormat, path, readErr)
	}
	var config ApplicationConfiguration
	if decodeErr := reader.Unmarshal(&config); decodeErr != nil {
		return ApplicationConfiguration{}, fmt.Errorf(errorDecodeConfigurationFormat, path, decodeErr)
	}
	return config, nil
}

// Merge overlays override onto the receiver returning the combined configuration.
func (config ApplicationConfiguration) Merge(override ApplicationConfiguration) ApplicationConfiguration {
	result := config
	result.Tree = result.Tree.merge(override.Tree)
	return result
}

func (config TreeConfiguration) merge(override TreeConfiguration) TreeConfiguration {
	result := config
	overlayBool(&result.All, override.All)
	overlayBool(&result.ASCII, override.ASCII)
	overlayBool(&result.DirectoriesOnly, override.DirectoriesOnly)
	overlayBool(&result.Date, override.Date)
	overlayBool(&result.FullPath, override.FullPath)
	if override.Level != nil {
		result.Level = cloneInt(override.Level)
	}
	overlayBool(&result.NoIndent, override.NoIndent)
	overlayBool(&result.Size, override.Size)
	overlayBool(&result.Permissions, override.Permissions)
	overlayBool(&result.SortByTime, override.SortByTime)
	if override.Highlight != "" {
		result.Highlight = override.Highlight
	}
	overlayBool(&result.Icons, override.Icons)
	overlayBool(&result.Gitignore, override.Gitignore)
	overlayBool(&result.Copy, override.Copy)
	if len(override.Exclude) > 0 {
		result.Exclude = append([]string{}, utils.DeduplicatePatterns(override.Exclude)...)
	}
	if len(override.Pattern) > 0 {
		result.Pattern = append([]string{}, utils.DeduplicatePatterns(override.Pattern)...)
	}
	return result
}

func overlayBool(target **bool, override *bool) {
	if override != nil {
		*target = cloneBool(override)
	}
}

func cloneBool(value *bool) *bool {
	if value == nil {
		return nil
	}
	cloned := *value
	return &cloned
}

func cloneInt(value *int) *int {
	if value == nil {
		return nil
	}
	cloned := *value
	return &cloned
}
