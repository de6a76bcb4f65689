package workspacecfg

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// FileName is the workspace config file looked up in the workspace root.
const FileName = "bonebudget.yaml"

// Store backends.
const (
	StoreFile   = "file"
	StoreSQLite = "sqlite"
	StoreNone   = "none"
)

var validate = validator.New()

// WorkspaceConfig models the persisted workspace settings.
type WorkspaceConfig struct {
	// Platform is the default threshold table.
	Platform string `yaml:"platform" validate:"required"`
	// ThresholdsFile optionally adds or overrides threshold tables.
	ThresholdsFile string `yaml:"thresholds_file,omitempty"`
	Store          string `yaml:"store" validate:"oneof=file sqlite none"`
	// StorePath is a directory for the file store and a database file for
	// sqlite. Relative paths resolve against the workspace.
	StorePath     string `yaml:"store_path,omitempty"`
	Parallel      int    `yaml:"parallel" validate:"gte=0"`
	TelemetryFile string `yaml:"telemetry_file,omitempty"`
	Debug         bool   `yaml:"debug"`

	workspace string
}

// Default returns the settings used when no config file exists.
func Default() *WorkspaceConfig {
	return &WorkspaceConfig{
		Platform: "pc",
		Store:    StoreFile,
	}
}

// ConfigPath returns the config file path for workspace.
func ConfigPath(workspace string) string {
	if workspace == "" {
		workspace = "."
	}
	return filepath.Join(workspace, FileName)
}

// Load reads the workspace configuration, falling back to defaults when the
// file is missing.
func Load(workspace string) (*WorkspaceConfig, error) {
	cfg := Default()
	cfg.workspace = workspace
	data, err := os.ReadFile(ConfigPath(workspace))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", ConfigPath(workspace), err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", ConfigPath(workspace), err)
	}
	return cfg, nil
}

// Save writes the configuration back to disk.
func Save(workspace string, cfg *WorkspaceConfig) error {
	if cfg == nil {
		return errors.New("workspace config missing")
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	path := ConfigPath(workspace)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Validate checks field values.
func (c *WorkspaceConfig) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid workspace config: %w", err)
	}
	return nil
}

// Resolve makes path absolute relative to the workspace the config was
// loaded from.
func (c *WorkspaceConfig) Resolve(path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	base := c.workspace
	if base == "" {
		base = "."
	}
	return filepath.Join(base, path)
}

// ReportStorePath returns the resolved store location, defaulting to
// .bonebudget/ under the workspace.
func (c *WorkspaceConfig) ReportStorePath() string {
	if c.StorePath != "" {
		return c.Resolve(c.StorePath)
	}
	if c.Store == StoreSQLite {
		return c.Resolve(filepath.Join(".bonebudget", "reports.db"))
	}
	return c.Resolve(".bonebudget")
}
