package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds filesystem locations and logging options shared by the binaries.
type Config struct {
	// ExtensionsDir is the base directory holding the manifest, the staged
	// bundles and the per-platform install directories.
	ExtensionsDir string `yaml:"extensions_dir"`
	// ManifestFilename is the manifest file name inside ExtensionsDir.
	ManifestFilename string `yaml:"manifest_filename"`
	// LogLevel is the minimum level for log output (debug, info, warn, error).
	LogLevel string `yaml:"log_level"`
}

const (
	// DefaultConfigFilename is the default filename for settings.
	DefaultConfigFilename = "ext-bundle-settings.yaml"

	// DefaultExtensionsDir is the default base directory for extension files.
	DefaultExtensionsDir = "extensions"

	// DefaultManifestFilename is the default manifest file name.
	DefaultManifestFilename = "manifest.json"

	// DefaultLogLevel is used when no level is configured.
	DefaultLogLevel = "info"

	// DefaultFilePermissions is the default file permission for config files.
	DefaultFilePermissions = 0o600

	// bundlesDirName is the staging directory name under ExtensionsDir.
	bundlesDirName = "bundles"
)

// errConfigIsNotSet is returned when a nil configuration is provided.
var errConfigIsNotSet = errors.New("configuration is not set")

// Default returns a configuration populated with documented defaults.
func Default() *Config {
	return &Config{
		ExtensionsDir:    DefaultExtensionsDir,
		ManifestFilename: DefaultManifestFilename,
		LogLevel:         DefaultLogLevel,
	}
}

// Load reads configuration from the provided path and fills in defaults.
// A missing file is not an error: defaults are returned so the tool works
// without any settings file at all.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultConfigFilename
	}

	contents, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}

		return nil, fmt.Errorf("read settings: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(contents, &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal settings: %w", err)
	}

	Validate(&cfg)

	return &cfg, nil
}

// Save writes the configuration to the provided path.
func Save(path string, cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if path == "" {
		path = DefaultConfigFilename
	}

	Validate(cfg)

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	// Restrict permissions.
	if err := os.WriteFile(filepath.Clean(path), data, DefaultFilePermissions); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}

	return nil
}

// Validate fills in defaults for any unset field.
func Validate(cfg *Config) {
	if cfg.ExtensionsDir == "" {
		cfg.ExtensionsDir = DefaultExtensionsDir
	}

	if cfg.ManifestFilename == "" {
		cfg.ManifestFilename = DefaultManifestFilename
	}

	if cfg.LogLevel == "" {
		cfg.LogLevel = DefaultLogLevel
	}
}

// ManifestPath returns the full path of the manifest file.
func (c *Config) ManifestPath() string {
	return filepath.Join(c.ExtensionsDir, c.ManifestFilename)
}

// BundleDir returns the staging directory holding source binaries for a platform.
func (c *Config) BundleDir(platformKey string) string {
	return filepath.Join(c.ExtensionsDir, bundlesDirName, platformKey)
}

// InstallDir returns the install target directory for a platform.
// It is a sibling of the bundles directory.
func (c *Config) InstallDir(platformKey string) string {
	return filepath.Join(c.ExtensionsDir, platformKey)
}
