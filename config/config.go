// Package config loads armgen's build configuration from a TOML file,
// mirroring the nested-struct/DefaultConfig pattern the original emulator
// tooling used for its own settings.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/BurntSushi/toml"
)

// Config holds armgen's settings file. cmd/armgen-serve reads
// Service.ListenAddr and Service.MaxSessions; no package in this module
// reads the other fields, which are only loaded and saved.
type Config struct {
	// Target settings name a default microarchitecture, ABI variant,
	// assembly dialect and high-register strategy.
	Target struct {
		Microarchitecture string `toml:"microarchitecture"` // e.g. "cortex-m4"
		ABI               string `toml:"abi"`                // "arm_gnueabi" or "arm_gnueabihf"
		Dialect           string `toml:"dialect"`             // "gas" or "armcc"
		HighRegStrategy   string `toml:"high_register_strategy"` // "push_w", "stmdb", "auto"
	} `toml:"target"`

	// Validation settings toggle the optional analysis passes.
	Validation struct {
		CheckStackAlignment bool `toml:"check_stack_alignment"`
	} `toml:"validation"`

	// Trace settings name an instruction-trace switch and output file;
	// the build pipeline has no trace sink that reads them.
	Trace struct {
		Enabled    bool   `toml:"enabled"`
		OutputFile string `toml:"output_file"`
	} `toml:"trace"`

	// Service settings configure cmd/armgen-serve's HTTP+WebSocket build
	// service.
	Service struct {
		ListenAddr     string `toml:"listen_addr"`
		MaxSessions    int    `toml:"max_sessions"`
		BroadcastDepth int    `toml:"broadcast_depth"`
	} `toml:"service"`

	// Inspect settings hold display options for the terminal UI;
	// cmd/armgen-inspect does not load them.
	Inspect struct {
		ColorOutput   bool `toml:"color_output"`
		ShowLiveness  bool `toml:"show_liveness"`
		ShowAvailable bool `toml:"show_available"`
	} `toml:"inspect"`
}

// DefaultConfig returns a Config populated with armgen's defaults.
func DefaultConfig() *Config {
	cfg := &Config{}

	cfg.Target.Microarchitecture = "default"
	cfg.Target.ABI = "arm_gnueabihf"
	cfg.Target.Dialect = "gas"
	cfg.Target.HighRegStrategy = "auto"

	cfg.Validation.CheckStackAlignment = true

	cfg.Trace.Enabled = false
	cfg.Trace.OutputFile = "armgen-trace.log"

	cfg.Service.ListenAddr = ":8088"
	cfg.Service.MaxSessions = 32
	cfg.Service.BroadcastDepth = 256

	cfg.Inspect.ColorOutput = true
	cfg.Inspect.ShowLiveness = true
	cfg.Inspect.ShowAvailable = false

	return cfg
}

// GetConfigPath returns the platform-specific config file path.
func GetConfigPath() string {
	var configDir string

	switch runtime.GOOS {
	case "windows":
		configDir = os.Getenv("APPDATA")
		if configDir == "" {
			configDir = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
		configDir = filepath.Join(configDir, "armgen")

	case "darwin", "linux":
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "config.toml"
		}
		configDir = filepath.Join(homeDir, ".config", "armgen")

	default:
		return "config.toml"
	}

	if err := os.MkdirAll(configDir, 0750); err != nil {
		return "config.toml"
	}

	return filepath.Join(configDir, "config.toml")
}

// Load loads configuration from the default config file.
func Load() (*Config, error) {
	return LoadFrom(GetConfigPath())
}

// LoadFrom loads configuration from the specified file, falling back to
// DefaultConfig when the file doesn't exist.
func LoadFrom(path string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return cfg, nil
}

// Save saves configuration to the default config file.
func (c *Config) Save() error {
	return c.SaveTo(GetConfigPath())
}

// SaveTo saves configuration to the specified file.
func (c *Config) SaveTo(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.Create(path) // #nosec G304 -- user config file path
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer f.Close()

	encoder := toml.NewEncoder(f)
	if err := encoder.Encode(c); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	return nil
}
