// Package config loads the annocfg settings file.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"

	"github.com/benji-bou/annocfg/core/convert"
	"github.com/benji-bou/annocfg/core/shader"
	"github.com/benji-bou/annocfg/helper"
	"gopkg.in/yaml.v3"
)

var ErrInvalid = errors.New("invalid configuration")

// TextureQualities are the texture variants shipped with the game, "0" being
// the highest resolution.
var TextureQualities = []string{"0", "1", "2"}

type Config struct {
	LogLevel       string `yaml:"log_level" json:"log_level"`
	TextureQuality string `yaml:"texture_quality" json:"texture_quality"`
	ModFolder      string `yaml:"mod_folder" json:"mod_folder"`
	SequencesFile  string `yaml:"sequences_file" json:"sequences_file"`
	Listen         string `yaml:"listen" json:"listen"`
}

type Option = helper.Option[Config]

func Default() Config {
	return Config{
		LogLevel:       "info",
		TextureQuality: "0",
		Listen:         ":8080",
	}
}

func WithLogLevel(level string) Option {
	return func(c *Config) {
		c.LogLevel = level
	}
}

func WithTextureQuality(q string) Option {
	return func(c *Config) {
		c.TextureQuality = q
	}
}

func WithModFolder(path string) Option {
	return func(c *Config) {
		c.ModFolder = path
	}
}

func WithSequencesFile(path string) Option {
	return func(c *Config) {
		c.SequencesFile = path
	}
}

func WithListen(addr string) Option {
	return func(c *Config) {
		c.Listen = addr
	}
}

// New returns the defaults with opt applied on top.
func New(opt ...Option) (Config, error) {
	c := helper.Configure(Default(), opt...)
	return c, c.Validate()
}

// Load decodes YAML over the defaults, then applies opt. Keys missing from
// the document keep their default.
func Load(r io.Reader, opt ...Option) (Config, error) {
	c := Default()
	if err := yaml.NewDecoder(r).Decode(&c); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	c = helper.Configure(c, opt...)
	return c, c.Validate()
}

// LoadFile is Load on the file at path. An empty path yields the defaults.
func LoadFile(path string, opt ...Option) (Config, error) {
	if path == "" {
		return New(opt...)
	}
	f, err := os.Open(path) // #nosec G304
	if err != nil {
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()
	slog.Debug("loading config", "path", path)
	return Load(f, opt...)
}

func (c Config) Validate() error {
	if _, err := helper.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	if !slices.Contains(TextureQualities, c.TextureQuality) {
		return fmt.Errorf("%w: texture_quality %q not in %v", ErrInvalid, c.TextureQuality, TextureQualities)
	}
	return nil
}

func (c Config) Level() slog.Level {
	level, _ := helper.ParseLevel(c.LogLevel)
	return level
}

// Settings returns the shader export settings.
func (c Config) Settings() shader.Settings {
	return shader.Settings{TextureQuality: c.TextureQuality}
}

// Registry builds the converter registry, reading the sequence table from
// SequencesFile when set. extra options apply last.
func (c Config) Registry(extra ...convert.Option) (*convert.Registry, error) {
	opt := make([]convert.Option, 0, len(extra)+1)
	if c.SequencesFile != "" {
		f, err := os.Open(c.SequencesFile) // #nosec G304
		if err != nil {
			return nil, fmt.Errorf("open sequences: %w", err)
		}
		defer f.Close()
		table, err := convert.LoadSequences(f)
		if err != nil {
			return nil, err
		}
		opt = append(opt, convert.WithSequences(table))
	}
	return convert.NewRegistry(append(opt, extra...)...), nil
}
