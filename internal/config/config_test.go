package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Output.Format != "text" {
		t.Errorf("expected default format text, got %s", cfg.Output.Format)
	}
	if cfg.Output.PrintAll || cfg.Output.Sort {
		t.Errorf("expected print_all and sort off by default, got %+v", cfg.Output)
	}
	if cfg.Parse.ASTDump {
		t.Error("expected ast_dump off by default")
	}
	if cfg.Parse.HeaderLanguage != "cpp" {
		t.Errorf("expected header_language cpp, got %s", cfg.Parse.HeaderLanguage)
	}
	if cfg.Database.BuildPath != "" {
		t.Errorf("expected empty build_path, got %s", cfg.Database.BuildPath)
	}

	if err := Validate(cfg); err != nil {
		t.Errorf("default config should be valid: %v", err)
	}
}

func TestValidate(t *testing.T) {
	tmpDir := t.TempDir()
	notDir := filepath.Join(tmpDir, "file.txt")
	if err := os.WriteFile(notDir, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr bool
	}{
		{
			name:    "valid default config",
			modify:  func(c *Config) {},
			wantErr: false,
		},
		{
			name: "yaml format",
			modify: func(c *Config) {
				c.Output.Format = "yaml"
			},
			wantErr: false,
		},
		{
			name: "format is case-insensitive",
			modify: func(c *Config) {
				c.Output.Format = "YAML"
			},
			wantErr: false,
		},
		{
			name: "invalid format",
			modify: func(c *Config) {
				c.Output.Format = "xml"
			},
			wantErr: true,
		},
		{
			name: "c header language",
			modify: func(c *Config) {
				c.Parse.HeaderLanguage = "c"
			},
			wantErr: false,
		},
		{
			name: "invalid header language",
			modify: func(c *Config) {
				c.Parse.HeaderLanguage = "objc"
			},
			wantErr: true,
		},
		{
			name: "existing build path",
			modify: func(c *Config) {
				c.Database.BuildPath = tmpDir
			},
			wantErr: false,
		},
		{
			name: "missing build path",
			modify: func(c *Config) {
				c.Database.BuildPath = filepath.Join(tmpDir, "nope")
			},
			wantErr: true,
		},
		{
			name: "build path is a file",
			modify: func(c *Config) {
				c.Database.BuildPath = notDir
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(cfg)
			err := Validate(cfg)
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("expected ErrInvalidConfig, got %v", err)
			}
		})
	}
}

func TestMerge(t *testing.T) {
	defaults := DefaultConfig()

	t.Run("empty loaded uses all defaults", func(t *testing.T) {
		merged := Merge(&Config{}, defaults)

		if merged.Output.Format != defaults.Output.Format {
			t.Errorf("expected format %s, got %s", defaults.Output.Format, merged.Output.Format)
		}
		if merged.Parse.HeaderLanguage != defaults.Parse.HeaderLanguage {
			t.Errorf("expected header language %s, got %s", defaults.Parse.HeaderLanguage, merged.Parse.HeaderLanguage)
		}
	})

	t.Run("loaded values take precedence", func(t *testing.T) {
		loaded := &Config{
			Output: OutputConfig{
				Format:   "json",
				PrintAll: true,
			},
			Parse: ParseConfig{
				ASTDump: true,
			},
			Database: DatabaseConfig{
				BuildPath: "build",
			},
		}
		merged := Merge(loaded, defaults)

		if merged.Output.Format != "json" {
			t.Errorf("expected format json, got %s", merged.Output.Format)
		}
		if !merged.Output.PrintAll {
			t.Error("expected print_all true")
		}
		if !merged.Parse.ASTDump {
			t.Error("expected ast_dump true")
		}
		if merged.Database.BuildPath != "build" {
			t.Errorf("expected build_path build, got %s", merged.Database.BuildPath)
		}

		// Unset values should use defaults
		if merged.Output.Sort {
			t.Error("expected sort to keep its default")
		}
		if merged.Parse.HeaderLanguage != "cpp" {
			t.Errorf("expected default header language, got %s", merged.Parse.HeaderLanguage)
		}
	})
}

func TestFindConfigDir(t *testing.T) {
	tmpDir := t.TempDir()

	// Create nested directories: tmpDir/project/subdir
	projectDir := filepath.Join(tmpDir, "project")
	subDir := filepath.Join(projectDir, "subdir")
	if err := os.MkdirAll(subDir, 0755); err != nil {
		t.Fatal(err)
	}

	t.Run("no config dir returns error", func(t *testing.T) {
		_, err := FindConfigDir(subDir)
		if !errors.Is(err, ErrConfigNotFound) {
			t.Errorf("expected ErrConfigNotFound, got %v", err)
		}
	})

	configDir := filepath.Join(projectDir, ConfigDirName)
	if err := os.Mkdir(configDir, 0755); err != nil {
		t.Fatal(err)
	}

	t.Run("finds config dir in current directory", func(t *testing.T) {
		found, err := FindConfigDir(projectDir)
		if err != nil {
			t.Errorf("unexpected error: %v", err)
		}
		if found != configDir {
			t.Errorf("expected %s, got %s", configDir, found)
		}
	})

	t.Run("finds config dir in parent directory", func(t *testing.T) {
		found, err := FindConfigDir(subDir)
		if err != nil {
			t.Errorf("unexpected error: %v", err)
		}
		if found != configDir {
			t.Errorf("expected %s, got %s", configDir, found)
		}
	})
}

func TestLoadFromPath(t *testing.T) {
	tmpDir := t.TempDir()

	t.Run("loads valid config file", func(t *testing.T) {
		configPath := filepath.Join(tmpDir, "config.yaml")
		content := `
output:
  format: yaml
  sort: true
parse:
  header_language: c
`
		if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}

		cfg, err := LoadFromPath(configPath)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if cfg.Output.Format != "yaml" {
			t.Errorf("expected format yaml, got %s", cfg.Output.Format)
		}
		if !cfg.Output.Sort {
			t.Error("expected sort true")
		}
		if cfg.Parse.HeaderLanguage != "c" {
			t.Errorf("expected header language c, got %s", cfg.Parse.HeaderLanguage)
		}
		if cfg.Output.PrintAll {
			t.Error("expected default print_all false")
		}
	})

	t.Run("returns defaults for non-existent file", func(t *testing.T) {
		cfg, err := LoadFromPath(filepath.Join(tmpDir, "nonexistent.yaml"))
		if err != nil {
			t.Errorf("unexpected error: %v", err)
		}

		if cfg.Output.Format != DefaultConfig().Output.Format {
			t.Errorf("expected default format, got %s", cfg.Output.Format)
		}
	})

	t.Run("returns error for invalid YAML", func(t *testing.T) {
		configPath := filepath.Join(tmpDir, "invalid.yaml")
		if err := os.WriteFile(configPath, []byte("invalid: yaml: content"), 0644); err != nil {
			t.Fatal(err)
		}

		_, err := LoadFromPath(configPath)
		if err == nil {
			t.Error("expected error for invalid YAML")
		}
	})

	t.Run("returns error for invalid config values", func(t *testing.T) {
		configPath := filepath.Join(tmpDir, "bad-values.yaml")
		content := `
output:
  format: html
`
		if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}

		_, err := LoadFromPath(configPath)
		if !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("expected ErrInvalidConfig, got %v", err)
		}
	})

	t.Run("resolves relative build path against project root", func(t *testing.T) {
		projectDir := filepath.Join(tmpDir, "proj")
		configDir := filepath.Join(projectDir, ConfigDirName)
		if err := os.MkdirAll(filepath.Join(projectDir, "build"), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.MkdirAll(configDir, 0755); err != nil {
			t.Fatal(err)
		}
		configPath := filepath.Join(configDir, ConfigFileName)
		if err := os.WriteFile(configPath, []byte("database:\n  build_path: build\n"), 0644); err != nil {
			t.Fatal(err)
		}

		cfg, err := LoadFromPath(configPath)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := filepath.Join(projectDir, "build")
		if cfg.Database.BuildPath != want {
			t.Errorf("expected build path %s, got %s", want, cfg.Database.BuildPath)
		}
	})
}

func TestLoad(t *testing.T) {
	tmpDir := t.TempDir()

	t.Run("returns defaults when no config dir exists", func(t *testing.T) {
		cfg, err := Load(tmpDir)
		if err != nil {
			t.Errorf("unexpected error: %v", err)
		}

		if cfg.Output.Format != DefaultConfig().Output.Format {
			t.Errorf("expected default config")
		}
	})

	t.Run("loads config from nested directory", func(t *testing.T) {
		configDir := filepath.Join(tmpDir, ConfigDirName)
		if err := os.Mkdir(configDir, 0755); err != nil {
			t.Fatal(err)
		}
		content := "output:\n  print_all: true\n"
		if err := os.WriteFile(filepath.Join(configDir, ConfigFileName), []byte(content), 0644); err != nil {
			t.Fatal(err)
		}

		subDir := filepath.Join(tmpDir, "src", "lib")
		if err := os.MkdirAll(subDir, 0755); err != nil {
			t.Fatal(err)
		}

		cfg, err := Load(subDir)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !cfg.Output.PrintAll {
			t.Error("expected print_all from config file")
		}
	})
}
