package model

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// DisplayConfig holds UI/rendering preferences.
type DisplayConfig struct {
	Theme       string `mapstructure:"theme" yaml:"theme"`
	PreviewRows int    `mapstructure:"preview_rows" yaml:"preview_rows"`
}

// AppConfig is the top-level application configuration.
type AppConfig struct {
	// DataFile is the path of the CSV file holding the task collection.
	DataFile string `mapstructure:"data_file" yaml:"data_file"`

	Display DisplayConfig `mapstructure:"display" yaml:"display"`
}

// DefaultConfigPath returns the default path for the configuration file,
// located at ~/.config/kanban/config.yaml.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "config.yaml")
	}
	return filepath.Join(home, ".config", "kanban", "config.yaml")
}

// defaultDataFile returns the default location of the task CSV,
// under ~/.local/share/kanban.
func defaultDataFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join("data", "tasks.csv")
	}
	return filepath.Join(home, ".local", "share", "kanban", "tasks.csv")
}

// defaultAppConfig returns a sensible default configuration.
func defaultAppConfig() *AppConfig {
	return &AppConfig{
		DataFile: defaultDataFile(),
		Display: DisplayConfig{
			Theme:       "default",
			PreviewRows: 3,
		},
	}
}

// LoadConfig reads configuration from the given YAML file path using Viper.
// If the file does not exist, it returns a default configuration.
func LoadConfig(path string) (*AppConfig, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	// Set defaults so missing keys resolve to sensible values.
	v.SetDefault("data_file", defaultDataFile())
	v.SetDefault("display.theme", "default")
	v.SetDefault("display.preview_rows", 3)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(*os.PathError); ok {
			return defaultAppConfig(), nil
		}
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return defaultAppConfig(), nil
		}
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	cfg := defaultAppConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if cfg.Display.PreviewRows <= 0 {
		cfg.Display.PreviewRows = 3
	}

	return cfg, nil
}

// SaveConfig writes the given configuration to a YAML file at path,
// creating parent directories if needed.
func SaveConfig(path string, cfg *AppConfig) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.Set("data_file", cfg.DataFile)
	v.Set("display", cfg.Display)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}

	return nil
}
