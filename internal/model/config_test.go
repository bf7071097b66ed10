package model

import (
	"path/filepath"
	"testing"
)

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "config.yaml"))
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.DataFile == "" {
		t.Errorf("default data file should not be empty")
	}
	if cfg.Display.PreviewRows != 3 {
		t.Errorf("preview rows: got %d, want 3", cfg.Display.PreviewRows)
	}
}

func TestConfigSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	want := &AppConfig{
		DataFile: "/tmp/board/tasks.csv",
		Display: DisplayConfig{
			Theme:       "default",
			PreviewRows: 5,
		},
	}
	if err := SaveConfig(path, want); err != nil {
		t.Fatalf("SaveConfig failed: %v", err)
	}

	got, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if got.DataFile != want.DataFile {
		t.Errorf("data file: got %q, want %q", got.DataFile, want.DataFile)
	}
	if got.Display.PreviewRows != 5 {
		t.Errorf("preview rows: got %d, want 5", got.Display.PreviewRows)
	}
}
