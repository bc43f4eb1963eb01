// Package config loads csv2po settings from defaults, an optional .env file,
// an optional TOML file and CSV2PO_* environment variables, in that order.
// Command-line flags are applied on top by the caller.
package config

import (
	"bytes"
	"os"
	"strconv"
	"unicode/utf8"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
	"github.com/sirupsen/logrus"
	"golang.org/x/xerrors"
)

const EnvPrefix = "CSV2PO_"

type Config struct {
	ProjectName string `toml:"project_name"`
	OutputDir   string `toml:"output_dir"`
	// Delimiter is a single character, or "tab". Empty picks the default
	// for the input's extension.
	Delimiter string `toml:"delimiter"`
	Sheet     string `toml:"sheet"`
	Strict    bool   `toml:"strict"`
	LogLevel  string `toml:"log_level"`
}

func Default() *Config {
	return &Config{LogLevel: "info"}
}

// Load builds the configuration. path may be empty, in which case no TOML
// file is read. The result is not validated, since flags may still override
// it; call Validate once everything is merged.
func Load(path string) (*Config, error) {
	// .env is optional; variables may come from the environment directly.
	_ = godotenv.Load()

	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, xerrors.Errorf("config: reading %s: %w", path, err)
		}
		dec := toml.NewDecoder(bytes.NewReader(data)).DisallowUnknownFields()
		if err := dec.Decode(cfg); err != nil {
			return nil, xerrors.Errorf("config: parsing %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) applyEnv() error {
	strs := map[string]*string{
		"PROJECT_NAME": &c.ProjectName,
		"OUTPUT_DIR":   &c.OutputDir,
		"DELIMITER":    &c.Delimiter,
		"SHEET":        &c.Sheet,
		"LOG_LEVEL":    &c.LogLevel,
	}
	for key, dst := range strs {
		if v, ok := os.LookupEnv(EnvPrefix + key); ok {
			*dst = v
		}
	}

	if v, ok := os.LookupEnv(EnvPrefix + "STRICT"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return xerrors.Errorf("config: %sSTRICT=%q: %w", EnvPrefix, v, err)
		}
		c.Strict = b
	}
	return nil
}

// DelimiterRune returns the configured delimiter, or 0 when none is set.
func (c *Config) DelimiterRune() (rune, error) {
	switch c.Delimiter {
	case "":
		return 0, nil
	case "tab", `\t`:
		return '\t', nil
	}

	if utf8.RuneCountInString(c.Delimiter) != 1 {
		return 0, xerrors.Errorf("config: delimiter %q must be a single character", c.Delimiter)
	}
	r, _ := utf8.DecodeRuneInString(c.Delimiter)
	switch r {
	case '"', '\r', '\n', utf8.RuneError:
		return 0, xerrors.Errorf("config: delimiter %q is not allowed", c.Delimiter)
	}
	return r, nil
}

// Level returns the parsed log level.
func (c *Config) Level() (logrus.Level, error) {
	if c.LogLevel == "" {
		return logrus.InfoLevel, nil
	}
	lvl, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		return 0, xerrors.Errorf("config: %w", err)
	}
	return lvl, nil
}

// Validate checks every field that can be wrong independently of the input.
func (c *Config) Validate() error {
	if _, err := c.DelimiterRune(); err != nil {
		return err
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}
