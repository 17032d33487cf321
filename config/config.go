// Package config loads exprdoc settings from a TOML or JSON file.
package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/rubiojr/exprdoc/codec"
	"github.com/rubiojr/exprdoc/document"
	"github.com/rubiojr/exprdoc/ident"
	"github.com/rubiojr/exprdoc/typereg"
)

const (
	FormatTOML FileFormat = "toml"
	FormatJSON FileFormat = "json"
)

// FileFormat is the syntax a settings file is written in.
type FileFormat string

// Config holds the user-facing settings. Empty fields take their defaults
// in Normalise.
type Config struct {
	Identifiers string `json:"identifiers" toml:"identifiers"`
	TypeNames   string `json:"type_names"  toml:"type_names"`
	Members     string `json:"members"     toml:"members"`
	MaxDepth    int    `json:"max_depth"   toml:"max_depth"`
	Format      string `json:"format"      toml:"format"`
	Store       string `json:"store"       toml:"store"`
}

// Handle records where a Config came from.
type Handle struct {
	Path   string
	Format FileFormat
}

// Default returns the settings used when no file exists.
func Default() Config {
	return Config{
		Identifiers: ident.Preserve.String(),
		TypeNames:   typereg.FullNames.String(),
		Members:     codec.PublicFields.String(),
		MaxDepth:    codec.DefaultMaxDepth,
		Format:      "json",
		Store:       filepath.Join(Dir(), "documents.db"),
	}
}

// Dir is the directory searched for settings.toml and settings.json.
// EXPRDOC_CONFIG_DIR overrides it.
func Dir() string {
	if d := os.Getenv("EXPRDOC_CONFIG_DIR"); d != "" {
		return d
	}
	base, err := os.UserConfigDir()
	if err != nil {
		return ".exprdoc"
	}
	return filepath.Join(base, "exprdoc")
}

// Load reads path, or when path is empty the first of settings.toml and
// settings.json found in Dir. Missing files yield Default. Parse errors
// fail immediately.
func Load(path string) (Config, Handle, error) {
	var candidates []Handle
	if path != "" {
		candidates = []Handle{{Path: path, Format: formatOf(path)}}
	} else {
		dir := Dir()
		candidates = []Handle{
			{Path: filepath.Join(dir, "settings.toml"), Format: FormatTOML},
			{Path: filepath.Join(dir, "settings.json"), Format: FormatJSON},
		}
	}

	var accumulated error
	for _, candidate := range candidates {
		data, err := os.ReadFile(candidate.Path)
		if errors.Is(err, fs.ErrNotExist) {
			if path != "" {
				return Config{}, Handle{}, fmt.Errorf("read config %q: %w", path, err)
			}
			continue
		}
		if err != nil {
			accumulated = errors.Join(accumulated, fmt.Errorf("read config %q: %w", candidate.Path, err))
			continue
		}
		cfg, err := Parse(data, candidate.Format)
		if err != nil {
			return Config{}, Handle{}, fmt.Errorf("parse config %q: %w", candidate.Path, err)
		}
		return cfg, candidate, nil
	}
	if accumulated != nil {
		return Config{}, Handle{}, accumulated
	}
	return Default(), candidates[0], nil
}

// Parse decodes data in the given format, fills defaults and validates the
// result.
func Parse(data []byte, format FileFormat) (Config, error) {
	var cfg Config
	switch format {
	case FormatTOML:
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return Config{}, err
		}
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&cfg); err != nil {
			return Config{}, err
		}
	default:
		return Config{}, fmt.Errorf("unsupported config format %q", format)
	}
	cfg = cfg.Normalise()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func formatOf(path string) FileFormat {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return FormatJSON
	}
	return FormatTOML
}

// Normalise replaces empty fields with their defaults.
func (c Config) Normalise() Config {
	d := Default()
	if c.Identifiers == "" {
		c.Identifiers = d.Identifiers
	}
	if c.TypeNames == "" {
		c.TypeNames = d.TypeNames
	}
	if c.Members == "" {
		c.Members = d.Members
	}
	if c.MaxDepth <= 0 {
		c.MaxDepth = d.MaxDepth
	}
	if c.Format == "" {
		c.Format = d.Format
	}
	if c.Store == "" {
		c.Store = d.Store
	}
	return c
}

// Validate reports every setting that does not parse.
func (c Config) Validate() error {
	var errs []error
	if _, err := ident.ParseConvention(c.Identifiers); err != nil {
		errs = append(errs, fmt.Errorf("identifiers: %w", err))
	}
	if _, err := typereg.ParseNameStyle(c.TypeNames); err != nil {
		errs = append(errs, fmt.Errorf("type_names: %w", err))
	}
	if _, err := codec.ParseMemberPolicy(c.Members); err != nil {
		errs = append(errs, fmt.Errorf("members: %w", err))
	}
	if _, err := document.FormatFor(c.Format); err != nil {
		errs = append(errs, fmt.Errorf("format: %w", err))
	}
	return errors.Join(errs...)
}

// Options builds the codec options described by c.
func (c Config) Options() (codec.Options, error) {
	conv, err := ident.ParseConvention(c.Identifiers)
	if err != nil {
		return codec.Options{}, err
	}
	members, err := codec.ParseMemberPolicy(c.Members)
	if err != nil {
		return codec.Options{}, err
	}
	return codec.Options{Identifiers: conv, Members: members, MaxDepth: c.MaxDepth}, nil
}

// Registry returns a fresh registry using the configured type name style.
func (c Config) Registry() (*typereg.Registry, error) {
	style, err := typereg.ParseNameStyle(c.TypeNames)
	if err != nil {
		return nil, err
	}
	return typereg.New(typereg.WithNameStyle(style)), nil
}

// DocumentFormat returns the configured default document format.
func (c Config) DocumentFormat() (document.Format, error) {
	return document.FormatFor(c.Format)
}

// Save writes c to the handle's path in the handle's format, replacing any
// existing file atomically.
func Save(c Config, h Handle) error {
	if h.Path == "" {
		h.Path = filepath.Join(Dir(), "settings.toml")
	}
	if h.Format == "" {
		h.Format = formatOf(h.Path)
	}
	if err := os.MkdirAll(filepath.Dir(h.Path), 0o755); err != nil {
		return fmt.Errorf("ensure config directory: %w", err)
	}

	var (
		data []byte
		err  error
	)
	switch h.Format {
	case FormatTOML:
		data, err = toml.Marshal(c)
	case FormatJSON:
		data, err = json.MarshalIndent(c, "", "  ")
	default:
		return fmt.Errorf("unsupported config format %q", h.Format)
	}
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := writeFileAtomic(h.Path, data, 0o644); err != nil {
		return fmt.Errorf("write config %q: %w", h.Path, err)
	}
	return nil
}

func writeFileAtomic(path string, data []byte, perm fs.FileMode) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".exprdoc-config-*.tmp")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.Write(data); err != nil {
		return errors.Join(err, tmp.Close())
	}
	if err := tmp.Chmod(perm); err != nil {
		return errors.Join(err, tmp.Close())
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmpPath, path)
}
