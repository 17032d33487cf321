package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rubiojr/exprdoc/codec"
	"github.com/rubiojr/exprdoc/ident"
	"github.com/rubiojr/exprdoc/typereg"
)

func TestLoadDefaultsWhenMissing(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("EXPRDOC_CONFIG_DIR", dir)

	cfg, h, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, filepath.Join(dir, "settings.toml"), h.Path)
	assert.Equal(t, FormatTOML, h.Format)
	assert.Equal(t, filepath.Join(dir, "documents.db"), cfg.Store)
}

func TestLoadPrefersTOML(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("EXPRDOC_CONFIG_DIR", dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "settings.toml"), []byte(`
identifiers = "snake"
type_names = "short"
members = "public,private"
max_depth = 50
format = "yaml"
`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "settings.json"), []byte(`{"format":"xml"}`), 0o644))

	cfg, h, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, FormatTOML, h.Format)
	assert.Equal(t, "snake", cfg.Identifiers)
	assert.Equal(t, "short", cfg.TypeNames)
	assert.Equal(t, 50, cfg.MaxDepth)
	assert.Equal(t, "yaml", cfg.Format)

	opts, err := cfg.Options()
	require.NoError(t, err)
	assert.Equal(t, codec.Options{Identifiers: ident.SnakeLower, Members: codec.AllFields, MaxDepth: 50}, opts)

	reg, err := cfg.Registry()
	require.NoError(t, err)
	assert.Equal(t, typereg.ShortNames, reg.Style())

	f, err := cfg.DocumentFormat()
	require.NoError(t, err)
	assert.Equal(t, "yaml", f.Name())
}

func TestLoadJSONFallback(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("EXPRDOC_CONFIG_DIR", dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "settings.json"), []byte(`{"format":"xml","identifiers":"kebab"}`), 0o644))

	cfg, h, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, FormatJSON, h.Format)
	assert.Equal(t, "xml", cfg.Format)
	assert.Equal(t, "kebab", cfg.Identifiers)
	assert.Equal(t, codec.DefaultMaxDepth, cfg.MaxDepth)
}

func TestLoadExplicitPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.json")
	_, _, err := Load(path)
	require.Error(t, err)

	require.NoError(t, os.WriteFile(path, []byte(`{"members":"all"}`), 0o644))
	cfg, h, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, FormatJSON, h.Format)
	assert.Equal(t, "all", cfg.Members)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name   string
		data   string
		format FileFormat
		want   string
	}{
		{"bad toml", `identifiers = `, FormatTOML, ""},
		{"unknown json field", `{"colour":"red"}`, FormatJSON, "colour"},
		{"bad convention", `identifiers = "shouty"`, FormatTOML, "identifiers"},
		{"bad style", `type_names = "tiny"`, FormatTOML, "type_names"},
		{"bad members", `members = "protected"`, FormatTOML, "members"},
		{"bad format", `format = "csv"`, FormatTOML, "format"},
		{"bad file format", `{}`, FileFormat("ini"), "unsupported"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data), tt.format)
			require.Error(t, err)
			if tt.want != "" {
				assert.Contains(t, err.Error(), tt.want)
			}
		})
	}
}

func TestValidateJoinsErrors(t *testing.T) {
	cfg := Default()
	cfg.Identifiers = "x"
	cfg.Format = "y"
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "identifiers")
	assert.Contains(t, err.Error(), "format")
}

func TestSaveRoundTrip(t *testing.T) {
	for _, format := range []FileFormat{FormatTOML, FormatJSON} {
		t.Run(string(format), func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "nested", "settings."+string(format))
			cfg := Default()
			cfg.Identifiers = "camel"
			cfg.MaxDepth = 12
			require.NoError(t, Save(cfg, Handle{Path: path, Format: format}))

			got, h, err := Load(path)
			require.NoError(t, err)
			assert.Equal(t, format, h.Format)
			assert.Equal(t, cfg, got)
		})
	}
}
