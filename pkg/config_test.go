package dupescan

import (
	"os"
	"path/filepath"
	"slices"
	"testing"
)

func TestConfigDefaults(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "dupescan", "config")

	config, err := LoadConfig(configPath)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	all := config.GetAllConfig()
	if all.Hash.Default != HashNameSHA256 {
		t.Errorf("Expected default hash algorithm 'sha256', got '%s'", all.Hash.Default)
	}
	if all.Output.Format != OutputFormatHuman {
		t.Errorf("Expected default format 'human', got '%s'", all.Output.Format)
	}
	if all.Symlink.Mode != SymlinkModeNone {
		t.Errorf("Expected default symlink mode 'none', got '%s'", all.Symlink.Mode)
	}
	if all.Performance.ReadDirBatch != DefaultReadDirBatch {
		t.Errorf("Expected read_dir_batch %d, got %d", DefaultReadDirBatch, all.Performance.ReadDirBatch)
	}
	if len(all.Scan.Roots) != 0 || all.Scan.KeepGoing {
		t.Errorf("Expected no default roots and keep_going off, got %+v", all.Scan)
	}
	if err := config.Validate(); err != nil {
		t.Errorf("Defaults failed validation: %v", err)
	}

	// A missing file is not written back
	if _, err := os.Stat(configPath); !os.IsNotExist(err) {
		t.Error("Config file should not be created on load")
	}
}

func TestConfigLoadFromFile(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config")
	content := `[filehash]
default = blake2b-256

[output]
format = fdupes

[symlink]
mode = contained

[performance]
hash_buffer = 64k
read_dir_batch = 32

[scan]
roots = /srv/a, /srv/b
keep_going = true
`
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	config, err := LoadConfig(configPath)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	all := config.GetAllConfig()
	if all.Hash.Default != HashNameBLAKE2b256 {
		t.Errorf("Expected blake2b-256, got '%s'", all.Hash.Default)
	}
	if all.Output.Format != OutputFormatFdupes {
		t.Errorf("Expected fdupes, got '%s'", all.Output.Format)
	}
	if all.Symlink.Mode != SymlinkModeContained {
		t.Errorf("Expected contained, got '%s'", all.Symlink.Mode)
	}
	if all.Performance.HashBuffer != "64k" || all.Performance.ReadDirBatch != 32 {
		t.Errorf("Unexpected performance config %+v", all.Performance)
	}
	if !slices.Equal(all.Scan.Roots, []string{"/srv/a", "/srv/b"}) {
		t.Errorf("Expected two roots, got %v", all.Scan.Roots)
	}
	if !all.Scan.KeepGoing {
		t.Error("Expected keep_going true")
	}
	// Sections absent from the file fall back to defaults
	if all.Verbose.Level != 0 {
		t.Errorf("Expected verbose level 0, got %d", all.Verbose.Level)
	}
}

func TestConfigOverrides(t *testing.T) {
	config, err := LoadConfig(filepath.Join(t.TempDir(), "config"))
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	err = config.ApplyOverrides([]string{
		"default:sha3-256",
		"format:json",
		"level:2",
		"debug:scan,hash",
		"mode:all",
		"roots:/x,/y",
	})
	if err != nil {
		t.Fatalf("Failed to apply overrides: %v", err)
	}

	all := config.GetAllConfig()
	if all.Hash.Default != "sha3-256" {
		t.Errorf("Expected sha3-256 after override, got '%s'", all.Hash.Default)
	}
	if all.Output.Format != "json" {
		t.Errorf("Expected json after override, got '%s'", all.Output.Format)
	}
	if all.Verbose.Level != 2 {
		t.Errorf("Expected verbose level 2 after override, got %d", all.Verbose.Level)
	}
	if all.Verbose.Debug != "scan,hash" {
		t.Errorf("Expected debug flags 'scan,hash' after override, got '%s'", all.Verbose.Debug)
	}
	if all.Symlink.Mode != "all" {
		t.Errorf("Expected symlink mode 'all', got '%s'", all.Symlink.Mode)
	}
	if !slices.Equal(all.Scan.Roots, []string{"/x", "/y"}) {
		t.Errorf("Expected roots [/x /y], got %v", all.Scan.Roots)
	}
}

func TestConfigOverridesInvalid(t *testing.T) {
	config, err := LoadConfig(filepath.Join(t.TempDir(), "config"))
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	for _, override := range []string{"nocolon", "unknown:value"} {
		if err := config.ApplyOverrides([]string{override}); err == nil {
			t.Errorf("Expected error for override %q", override)
		}
	}
}

func TestConfigValidate(t *testing.T) {
	testCases := []struct {
		override string
		valid    bool
	}{
		{"default:sha512/256", true},
		{"default:md5", false},
		{"format:xml", false},
		{"level:7", false},
		{"mode:sometimes", false},
		{"hash_buffer:lots", false},
		{"hash_buffer:4M", true},
	}

	for _, tc := range testCases {
		t.Run(tc.override, func(t *testing.T) {
			config, err := LoadConfig(filepath.Join(t.TempDir(), "config"))
			if err != nil {
				t.Fatalf("Failed to load config: %v", err)
			}
			if err := config.ApplyOverrides([]string{tc.override}); err != nil {
				t.Fatalf("Failed to apply override: %v", err)
			}
			err = config.Validate()
			if tc.valid && err != nil {
				t.Errorf("Expected valid, got %v", err)
			}
			if !tc.valid && err == nil {
				t.Error("Expected validation error")
			}
		})
	}
}

func TestConfigSave(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "nested", "config")

	config, err := LoadConfig(configPath)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}
	if err := config.ApplyOverrides([]string{"format:fdupes"}); err != nil {
		t.Fatalf("Failed to apply override: %v", err)
	}
	if err := config.Save(); err != nil {
		t.Fatalf("Failed to save config: %v", err)
	}

	reloaded, err := LoadConfig(configPath)
	if err != nil {
		t.Fatalf("Failed to reload config: %v", err)
	}
	if reloaded.Path() != configPath {
		t.Errorf("Expected path %s, got %s", configPath, reloaded.Path())
	}
	if format := reloaded.GetOutputConfig().Format; format != OutputFormatFdupes {
		t.Errorf("Expected saved format 'fdupes', got '%s'", format)
	}
}

func TestHashAlgorithmValidation(t *testing.T) {
	testCases := []struct {
		algorithm string
		valid     bool
	}{
		{"sha256", true},
		{"sha512/256", true},
		{"sha512_256", true},
		{"sha3-256", true},
		{"blake2b-256", true},
		{"blake2b", true},
		{"sha1", false},
		{"md5", false},
		{"", false},
	}

	for _, tc := range testCases {
		err := ValidateHashAlgorithm(tc.algorithm)
		if tc.valid && err != nil {
			t.Errorf("Expected %s to be valid, got error: %v", tc.algorithm, err)
		}
		if !tc.valid && err == nil {
			t.Errorf("Expected %s to be invalid, but got no error", tc.algorithm)
		}
	}
}
