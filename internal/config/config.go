// Package config loads the databroom user configuration file.
//
// The file is TOML and lives at $XDG_CONFIG_HOME/databroom/config.toml, or
// ~/.config/databroom/config.toml when XDG_CONFIG_HOME is unset:
//
//	lang = "r"
//	no_cache = false
//	quiet = false
//	info = true
//	empty_threshold = 0.8
//
// A missing default file is not an error; a missing file named explicitly
// with --config is. Command-line flags always override file values.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/databroom/databroom/pkg/buildinfo"
	"github.com/databroom/databroom/pkg/codegen"
	"github.com/databroom/databroom/pkg/errors"
	"github.com/databroom/databroom/pkg/ops"
)

// FileName is the configuration file name inside the config directory.
const FileName = "config.toml"

// Config holds user defaults for the CLI.
type Config struct {
	Lang           string  `toml:"lang"`
	NoCache        bool    `toml:"no_cache"`
	Quiet          bool    `toml:"quiet"`
	Info           bool    `toml:"info"`
	EmptyThreshold float64 `toml:"empty_threshold"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Lang:           string(codegen.Python),
		EmptyThreshold: ops.DefaultEmptyThreshold,
	}
}

// Path returns the default configuration file location.
func Path() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, buildinfo.Name, FileName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home dir: %w", err)
	}
	return filepath.Join(home, ".config", buildinfo.Name, FileName), nil
}

// Load reads the configuration at path, or the default location when path
// is empty. Values absent from the file keep their defaults.
func Load(path string) (Config, error) {
	explicit := path != ""
	if !explicit {
		p, err := Path()
		if err != nil {
			return Default(), nil
		}
		path = p
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return Default(), nil
		}
		if os.IsNotExist(err) {
			return Config{}, errors.New(errors.ErrCodeFileNotFound, "config file not found: %s", path)
		}
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	return Parse(data)
}

// Parse decodes TOML configuration data over the defaults and validates it.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	md, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid config file")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return Config{}, errors.New(errors.ErrCodeInvalidInput, "unknown config key %q", undecoded[0].String())
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks that every field holds a usable value.
func (c Config) Validate() error {
	if _, err := codegen.ParseLang(c.Lang); err != nil {
		return err
	}
	if !(c.EmptyThreshold >= 0 && c.EmptyThreshold <= 1) {
		return errors.New(errors.ErrCodeInvalidArgument,
			"empty_threshold must be between 0 and 1, got %g", c.EmptyThreshold)
	}
	return nil
}

// Save writes c to path, creating parent directories as needed.
func Save(path string, c Config) error {
	if err := c.Validate(); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create config: %w", err)
	}
	if err := toml.NewEncoder(f).Encode(c); err != nil {
		f.Close()
		return fmt.Errorf("encode config: %w", err)
	}
	return f.Close()
}
