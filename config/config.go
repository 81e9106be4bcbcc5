// Package config holds the file-backed settings shared by the picaparse
// commands. TOML and YAML are both accepted, chosen by file extension.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"unicode/utf8"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/fid-judaica/picaparse/pica"
)

type Config struct {
	Separator  string     `toml:"separator" yaml:"separator"`
	Identifier Identifier `toml:"identifier" yaml:"identifier"`
	Fields     []string   `toml:"fields" yaml:"fields"`
	Database   Database   `toml:"database" yaml:"database"`
	Server     Server     `toml:"server" yaml:"server"`
}

// Identifier configures how record header lines are recognized: the
// required line prefix and the zero-based position of the ppn among the
// whitespace-separated tokens.
type Identifier struct {
	Prefix string `toml:"prefix" yaml:"prefix"`
	Token  int    `toml:"token" yaml:"token"`
}

type Database struct {
	// Path names the sqlite database file.
	Path string `toml:"path" yaml:"path"`
	// DSN selects Postgres instead when set.
	DSN string `toml:"dsn" yaml:"dsn"`
}

type Server struct {
	Addr string `toml:"addr" yaml:"addr"`
}

// Default returns the settings used when no config file is given.
func Default() *Config {
	return &Config{
		Separator:  string(pica.DefaultSeparator),
		Identifier: Identifier{Prefix: "SET:", Token: 6},
		Fields:     slices.Clone(DefaultFields),
		Database:   Database{Path: "pica.db"},
		Server:     Server{Addr: ":8080"},
	}
}

// Load reads the config file at path over the defaults, so omitted keys
// keep their default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := Default()
	switch ext := filepath.Ext(path); ext {
	case ".toml":
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("unsupported config format %q (expected .toml, .yaml or .yml)", ext)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if utf8.RuneCountInString(c.Separator) != 1 {
		return fmt.Errorf("separator %q must be exactly one rune", c.Separator)
	}
	if c.Identifier.Token < 0 {
		return fmt.Errorf("identifier token %d must not be negative", c.Identifier.Token)
	}
	return nil
}

// Sep returns the separator as a rune. Validate guarantees there is
// exactly one.
func (c *Config) Sep() rune {
	r, _ := utf8.DecodeRuneInString(c.Separator)
	return r
}

// Options translates the config into parsing options.
func (c *Config) Options() []pica.Option {
	return []pica.Option{
		pica.WithSeparator(c.Sep()),
		pica.WithIdentifier(pica.PrefixIdentifier(c.Identifier.Prefix, c.Identifier.Token)),
	}
}
