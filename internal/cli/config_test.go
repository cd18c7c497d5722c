package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/tablescape/foodweb/pkg/layout"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Width != int(layout.DefaultWidth) {
		t.Errorf("Width = %d, want %d", cfg.Width, int(layout.DefaultWidth))
	}
	if cfg.Height != int(layout.DefaultHeight) {
		t.Errorf("Height = %d, want %d", cfg.Height, int(layout.DefaultHeight))
	}
	if cfg.Server.Addr == "" {
		t.Error("default server addr should not be empty")
	}
}

func TestLoadConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
dataset = "data/food.json"
width = 1920
height = 1080
seed = 7

[server]
addr = ":9090"
redis = "localhost:6379"

[colors]
core_flow = "#004400"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error: %v", err)
	}

	if cfg.Dataset != "data/food.json" {
		t.Errorf("Dataset = %q", cfg.Dataset)
	}
	if cfg.Width != 1920 || cfg.Height != 1080 {
		t.Errorf("frame = %dx%d, want 1920x1080", cfg.Width, cfg.Height)
	}
	if cfg.Seed != 7 {
		t.Errorf("Seed = %d, want 7", cfg.Seed)
	}
	if cfg.Server.Addr != ":9090" {
		t.Errorf("Server.Addr = %q", cfg.Server.Addr)
	}
	if cfg.Server.Redis != "localhost:6379" {
		t.Errorf("Server.Redis = %q", cfg.Server.Redis)
	}
	if cfg.Colors["core_flow"] != "#004400" {
		t.Errorf("Colors = %v", cfg.Colors)
	}
}

func TestLoadConfigPartial(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte(`seed = 99`), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error: %v", err)
	}

	// Unset keys keep their defaults.
	if cfg.Seed != 99 {
		t.Errorf("Seed = %d, want 99", cfg.Seed)
	}
	if cfg.Width != int(layout.DefaultWidth) {
		t.Errorf("Width = %d, want default", cfg.Width)
	}
}

func TestLoadConfigErrors(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		content string
	}{
		{name: "invalid toml", content: `width = [`},
		{name: "unknown key", content: `wdith = 100`},
		{name: "non-positive frame", content: `width = 0`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, tt.name+".toml")
			if err := os.WriteFile(path, []byte(tt.content), 0o644); err != nil {
				t.Fatal(err)
			}
			if _, err := LoadConfig(path); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestLoadConfigMissingExplicitPath(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
		t.Error("explicitly named missing config should error")
	}
}

func TestConfigFrame(t *testing.T) {
	cfg := &Config{Width: 640, Height: 480}
	f := cfg.Frame()
	if f.Width != 640 || f.Height != 480 {
		t.Errorf("Frame() = %+v", f)
	}
}
