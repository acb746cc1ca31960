package dupescan

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-ini/ini"
)

const (
	configDirName  = "dupescan"
	configFileName = "config"
)

// Config represents the dupescan configuration file
type Config struct {
	configPath string
	ini        *ini.File
}

// HashConfig represents hash algorithm configuration
type HashConfig struct {
	Default string // Default hash algorithm
}

// OutputConfig represents output format configuration
type OutputConfig struct {
	Format string // human, json, fdupes
}

// VerboseConfig represents verbosity configuration
type VerboseConfig struct {
	Level int    // 0=quiet, 1=basic, 2=detailed, 3=trace
	Debug string // comma-separated debug flags
}

// SymlinkConfig represents symlink handling configuration
type SymlinkConfig struct {
	Mode string // none, contained, all
}

// PerformanceConfig represents performance-related configuration
type PerformanceConfig struct {
	HashBuffer   string // read chunk size for hashing (default: "1M")
	ReadDirBatch int    // directory entries per read (default: 256)
}

// ScanConfig represents scan root and filtering configuration
type ScanConfig struct {
	Roots      []string // default roots when none are given on the command line
	IgnoreFile string   // optional ignore pattern file
	KeepGoing  bool     // continue with later roots after a root fails
}

// AllConfig represents all configuration options
type AllConfig struct {
	Hash        *HashConfig
	Output      *OutputConfig
	Verbose     *VerboseConfig
	Symlink     *SymlinkConfig
	Performance *PerformanceConfig
	Scan        *ScanConfig
}

// DefaultConfigPath returns $XDG_CONFIG_HOME/dupescan/config or the platform equivalent.
func DefaultConfigPath() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to locate user config directory: %w", err)
	}
	return filepath.Join(base, configDirName, configFileName), nil
}

// LoadConfig loads configuration from configPath. A missing file yields the
// defaults; it is not written back.
func LoadConfig(configPath string) (*Config, error) {
	cfg := &Config{
		configPath: configPath,
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		cfg.ini = ini.Empty()
		if err := cfg.setDefaults(); err != nil {
			return nil, fmt.Errorf("failed to set default config: %w", err)
		}
		return cfg, nil
	}

	iniFile, err := ini.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}
	cfg.ini = iniFile
	return cfg, nil
}

// setDefaults sets default configuration values
func (c *Config) setDefaults() error {
	defaults := []struct {
		section, key, value string
	}{
		{"filehash", "default", HashNameSHA256},
		{"output", "format", OutputFormatHuman},
		{"verbose", "level", "0"},
		{"verbose", "debug", ""},
		{"symlink", "mode", SymlinkModeNone},
		{"performance", "hash_buffer", "1M"},
		{"performance", "read_dir_batch", strconv.Itoa(DefaultReadDirBatch)},
		{"scan", "roots", ""},
		{"scan", "ignore_file", ""},
		{"scan", "keep_going", "false"},
	}

	for _, d := range defaults {
		section, err := c.ini.NewSection(d.section)
		if err != nil {
			return fmt.Errorf("failed to create %s section: %w", d.section, err)
		}
		if _, err := section.NewKey(d.key, d.value); err != nil {
			return fmt.Errorf("failed to set default %s.%s: %w", d.section, d.key, err)
		}
	}
	return nil
}

// GetHashConfig returns the hash configuration
func (c *Config) GetHashConfig() *HashConfig {
	hashConfig := &HashConfig{
		Default: HashNameSHA256,
	}

	if c.ini.HasSection("filehash") {
		section := c.ini.Section("filehash")
		if section.HasKey("default") {
			hashConfig.Default = section.Key("default").String()
		}
	}

	return hashConfig
}

// GetOutputConfig returns the output configuration
func (c *Config) GetOutputConfig() *OutputConfig {
	outputConfig := &OutputConfig{
		Format: OutputFormatHuman,
	}

	if c.ini.HasSection("output") {
		section := c.ini.Section("output")
		if section.HasKey("format") {
			outputConfig.Format = section.Key("format").String()
		}
	}

	return outputConfig
}

// GetVerboseConfig returns the verbose configuration
func (c *Config) GetVerboseConfig() *VerboseConfig {
	verboseConfig := &VerboseConfig{}

	if c.ini.HasSection("verbose") {
		section := c.ini.Section("verbose")
		if section.HasKey("level") {
			if level, err := section.Key("level").Int(); err == nil {
				verboseConfig.Level = level
			}
		}
		if section.HasKey("debug") {
			verboseConfig.Debug = section.Key("debug").String()
		}
	}

	return verboseConfig
}

// GetSymlinkConfig returns the symlink configuration
func (c *Config) GetSymlinkConfig() *SymlinkConfig {
	symlinkConfig := &SymlinkConfig{
		Mode: SymlinkModeNone,
	}

	if c.ini.HasSection("symlink") {
		section := c.ini.Section("symlink")
		if section.HasKey("mode") {
			symlinkConfig.Mode = section.Key("mode").String()
		}
	}

	return symlinkConfig
}

// GetPerformanceConfig returns the performance configuration
func (c *Config) GetPerformanceConfig() *PerformanceConfig {
	performanceConfig := &PerformanceConfig{
		HashBuffer:   "1M",
		ReadDirBatch: DefaultReadDirBatch,
	}

	if c.ini.HasSection("performance") {
		section := c.ini.Section("performance")
		if section.HasKey("hash_buffer") {
			if bufferSize := section.Key("hash_buffer").String(); bufferSize != "" {
				performanceConfig.HashBuffer = bufferSize
			}
		}
		if section.HasKey("read_dir_batch") {
			if batch, err := section.Key("read_dir_batch").Int(); err == nil && batch > 0 {
				performanceConfig.ReadDirBatch = batch
			}
		}
	}

	return performanceConfig
}

// GetScanConfig returns the scan configuration
func (c *Config) GetScanConfig() *ScanConfig {
	scanConfig := &ScanConfig{}

	if c.ini.HasSection("scan") {
		section := c.ini.Section("scan")
		if section.HasKey("roots") {
			for _, root := range section.Key("roots").Strings(",") {
				if root != "" {
					scanConfig.Roots = append(scanConfig.Roots, root)
				}
			}
		}
		if section.HasKey("ignore_file") {
			scanConfig.IgnoreFile = section.Key("ignore_file").String()
		}
		if section.HasKey("keep_going") {
			if keepGoing, err := section.Key("keep_going").Bool(); err == nil {
				scanConfig.KeepGoing = keepGoing
			}
		}
	}

	return scanConfig
}

// GetAllConfig returns all configuration options
func (c *Config) GetAllConfig() *AllConfig {
	return &AllConfig{
		Hash:        c.GetHashConfig(),
		Output:      c.GetOutputConfig(),
		Verbose:     c.GetVerboseConfig(),
		Symlink:     c.GetSymlinkConfig(),
		Performance: c.GetPerformanceConfig(),
		Scan:        c.GetScanConfig(),
	}
}

// Path returns the file the configuration was loaded from (or will be saved to).
func (c *Config) Path() string {
	return c.configPath
}

// Save saves the configuration to disk
func (c *Config) Save() error {
	if err := os.MkdirAll(filepath.Dir(c.configPath), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	return c.ini.SaveTo(c.configPath)
}

// overrideKeys maps override keys to their section and key.
var overrideKeys = map[string][2]string{
	"default":        {"filehash", "default"},
	"format":         {"output", "format"},
	"level":          {"verbose", "level"},
	"debug":          {"verbose", "debug"},
	"mode":           {"symlink", "mode"},
	"hash_buffer":    {"performance", "hash_buffer"},
	"read_dir_batch": {"performance", "read_dir_batch"},
	"roots":          {"scan", "roots"},
	"ignore_file":    {"scan", "ignore_file"},
	"keep_going":     {"scan", "keep_going"},
}

// ApplyOverrides applies command-line overrides to the configuration
// Accepts strings like "default:sha256", "format:json", "level:2", "mode:contained"
func (c *Config) ApplyOverrides(overrides []string) error {
	for _, override := range overrides {
		parts := strings.SplitN(override, ":", 2)
		if len(parts) != 2 {
			return fmt.Errorf("invalid override format '%s', expected 'key:value'", override)
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])

		target, ok := overrideKeys[key]
		if !ok {
			return fmt.Errorf("unsupported override key '%s' (supported: default, format, level, debug, mode, hash_buffer, read_dir_batch, roots, ignore_file, keep_going)", key)
		}
		c.ini.Section(target[0]).Key(target[1]).SetValue(value)
	}

	return nil
}

// Validate checks every value that has a restricted domain.
func (c *Config) Validate() error {
	all := c.GetAllConfig()
	if err := ValidateHashAlgorithm(all.Hash.Default); err != nil {
		return err
	}
	if err := ValidateOutputFormat(all.Output.Format); err != nil {
		return err
	}
	if err := ValidateVerboseLevel(all.Verbose.Level); err != nil {
		return err
	}
	if err := ValidateSymlinkMode(all.Symlink.Mode); err != nil {
		return err
	}
	if _, err := ParseHumanSize(all.Performance.HashBuffer); err != nil {
		return fmt.Errorf("invalid hash buffer: %w", err)
	}
	return nil
}

// ValidateHashAlgorithm validates that a hash algorithm is supported
func ValidateHashAlgorithm(algorithm string) error {
	if _, ok := HashTypeFromName(algorithm); !ok {
		return fmt.Errorf("unsupported hash algorithm: %s (supported: sha256, sha512/256, sha3-256, blake2b-256)", algorithm)
	}
	return nil
}

// ValidateOutputFormat validates that an output format is supported
func ValidateOutputFormat(format string) error {
	switch strings.ToLower(format) {
	case OutputFormatHuman, OutputFormatJSON, OutputFormatFdupes:
		return nil
	default:
		return fmt.Errorf("unsupported output format: %s (supported: human, json, fdupes)", format)
	}
}

// ValidateVerboseLevel validates that a verbose level is valid
func ValidateVerboseLevel(level int) error {
	if level < VerboseQuiet || level > VerboseTrace {
		return fmt.Errorf("invalid verbose level: %d (supported: 0-3)", level)
	}
	return nil
}

// ValidateSymlinkMode validates that a symlink mode is supported
func ValidateSymlinkMode(mode string) error {
	switch strings.ToLower(mode) {
	case SymlinkModeNone, SymlinkModeContained, SymlinkModeAll:
		return nil
	default:
		return fmt.Errorf("unsupported symlink mode: %s (supported: none, contained, all)", mode)
	}
}
