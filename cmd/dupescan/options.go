package main

import (
	"fmt"
	"strconv"
	"strings"

	dupescan "github.com/mattkeenan/dupescan/pkg"
)

var version = "dev"

// Args holds the command line. Flags that are set become config overrides,
// so the command line always wins over the config file.
type Args struct {
	Roots     []string `arg:"positional" help:"directories to scan (default: [scan] roots from the config file)"`
	Config    string   `arg:"-c,--config" help:"config file (default: $XDG_CONFIG_HOME/dupescan/config)"`
	Format    string   `arg:"-f,--format" help:"output format: human, json, fdupes"`
	Output    string   `arg:"-o,--output" help:"write the report to FILE instead of stdout; a .zst suffix compresses it"`
	Algorithm string   `arg:"-a,--algorithm" help:"hash algorithm: sha256, sha512/256, sha3-256, blake2b-256"`
	Buffer    string   `arg:"--buffer" help:"hash read buffer size, e.g. 1M"`
	Symlinks  string   `arg:"--symlinks" help:"symlink mode: none, contained, all"`
	Ignore    []string `arg:"-i,--ignore,separate" help:"ignore pattern, glob or re:REGEX (repeatable)"`
	KeepGoing bool     `arg:"-k,--keep-going" help:"scan the remaining roots when a root cannot be opened"`
	Verbose   int      `arg:"-v,--verbose" default:"-1" help:"verbose level 0-3"`
	Debug     string   `arg:"--debug" help:"comma-separated debug flags, e.g. scan"`
	Override  []string `arg:"--override,separate" help:"config override key:value (repeatable)"`
}

// Description returns the program description for go-arg
func (Args) Description() string {
	return "dupescan - find duplicate files by content fingerprint"
}

// Version returns the version string for go-arg
func (Args) Version() string {
	return "dupescan " + version
}

// overrides converts the flags that were set into config overrides, after
// any explicit --override values.
func (a *Args) overrides() []string {
	out := append([]string{}, a.Override...)
	add := func(key, value string) {
		if value != "" {
			out = append(out, key+":"+value)
		}
	}
	add("format", a.Format)
	add("default", a.Algorithm)
	add("hash_buffer", a.Buffer)
	add("mode", a.Symlinks)
	add("debug", a.Debug)
	if a.Verbose >= 0 {
		add("level", strconv.Itoa(a.Verbose))
	}
	if a.KeepGoing {
		add("keep_going", "true")
	}
	return out
}

// settings is the resolved configuration for one run.
type settings struct {
	roots     []string
	format    string
	keepGoing bool
	options   dupescan.ScanOptions
}

// resolveSettings loads the config file, applies the command line and builds
// the scan options.
func resolveSettings(args *Args) (*settings, error) {
	configPath := args.Config
	if configPath == "" {
		if path, err := dupescan.DefaultConfigPath(); err == nil {
			configPath = path
		}
	}

	cfg, err := dupescan.LoadConfig(configPath)
	if err != nil {
		return nil, err
	}
	if err := cfg.ApplyOverrides(args.overrides()); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	all := cfg.GetAllConfig()

	dupescan.SetVerboseLevel(all.Verbose.Level)
	dupescan.SetDebugFlags(all.Verbose.Debug)
	dupescan.VerboseLog(dupescan.VerboseDetail, "config: %s", cfg.Path())

	algorithm, err := dupescan.GetHashAlgorithm(all.Hash.Default)
	if err != nil {
		return nil, err
	}
	bufferSize, err := dupescan.ParseHumanSize(all.Performance.HashBuffer)
	if err != nil {
		return nil, fmt.Errorf("invalid hash buffer: %w", err)
	}

	ignore := dupescan.NewIgnoreManager()
	if all.Scan.IgnoreFile != "" {
		if err := ignore.LoadIgnoreFile(all.Scan.IgnoreFile); err != nil {
			return nil, err
		}
	}
	for _, pattern := range args.Ignore {
		if err := ignore.AddPattern(pattern); err != nil {
			return nil, err
		}
	}

	roots := args.Roots
	if len(roots) == 0 {
		roots = all.Scan.Roots
	}

	return &settings{
		roots:     roots,
		format:    strings.ToLower(all.Output.Format),
		keepGoing: all.Scan.KeepGoing,
		options: dupescan.ScanOptions{
			Algorithm:    algorithm,
			BufferSize:   bufferSize,
			ReadDirBatch: all.Performance.ReadDirBatch,
			SymlinkMode:  all.Symlink.Mode,
			Ignore:       ignore,
		},
	}, nil
}
