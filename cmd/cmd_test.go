package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rubiojr/exprdoc/ast"
	"github.com/rubiojr/exprdoc/codec"
	"github.com/rubiojr/exprdoc/document"
	"github.com/rubiojr/exprdoc/typereg"
)

// run executes the CLI with args and returns what it wrote to stdout.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	c := New("test")
	c.Writer = &out
	c.ErrWriter = &errOut
	err := c.Run(context.Background(), append([]string{"exprdoc"}, args...))
	return out.String(), err
}

func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("EXPRDOC_CONFIG_DIR", dir)
	t.Setenv("EXPRDOC_CONFIG", "")
	return dir
}

func writeSample(t *testing.T, dir, name, file string) string {
	t.Helper()
	path := filepath.Join(dir, file)
	_, err := run(t, "sample", "-o", path, name)
	require.NoError(t, err)
	return path
}

func TestSampleList(t *testing.T) {
	isolate(t)
	out, err := run(t, "sample")
	require.NoError(t, err)
	for _, name := range sampleNames() {
		assert.Contains(t, out, name)
	}
}

func TestSampleUnknown(t *testing.T) {
	isolate(t)
	_, err := run(t, "sample", "nope")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown sample")
}

func TestSampleFormats(t *testing.T) {
	isolate(t)
	tests := []struct {
		args []string
		want string
	}{
		{[]string{"sample", "add"}, `"name": "add"`},
		{[]string{"sample", "--to", "xml", "add"}, "<add"},
		{[]string{"--format", "yaml", "sample", "add"}, "name: add"},
	}
	for _, tt := range tests {
		out, err := run(t, tt.args...)
		require.NoError(t, err, tt.args)
		assert.Contains(t, out, tt.want)
	}
}

func TestRoundtripSamples(t *testing.T) {
	isolate(t)
	for _, name := range sampleNames() {
		t.Run(name, func(t *testing.T) {
			out, err := run(t, "roundtrip", "--sample", name)
			require.NoError(t, err, out)
			assert.NotContains(t, out, "FAIL")
		})
	}
}

func TestConvertAndPrint(t *testing.T) {
	dir := isolate(t)
	src := writeSample(t, dir, "add", "add.json")
	dst := filepath.Join(dir, "add.yaml")

	_, err := run(t, "convert", "-o", dst, src)
	require.NoError(t, err)
	data, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Contains(t, string(data), "name: add")

	out, err := run(t, "print", dst)
	require.NoError(t, err)
	assert.Equal(t, "(2 + 3)\n", out)

	out, err = run(t, "roundtrip", dst)
	require.NoError(t, err)
	assert.Contains(t, out, "xml   ok")
}

func TestEqual(t *testing.T) {
	dir := isolate(t)
	a := writeSample(t, dir, "lambda", "a.json")
	b := writeSample(t, dir, "lambda", "b.xml")
	c := writeSample(t, dir, "add", "c.json")

	out, err := run(t, "equal", a, b)
	require.NoError(t, err)
	assert.Contains(t, out, "equal")

	out, err = run(t, "equal", a, c)
	assert.ErrorIs(t, err, ErrTreesDiffer)
	assert.Contains(t, out, "nodeType")
}

func TestDiff(t *testing.T) {
	dir := isolate(t)
	a := writeSample(t, dir, "add", "a.json")
	b := writeSample(t, dir, "add", "b.yaml")
	c := writeSample(t, dir, "lambda", "c.json")

	out, err := run(t, "diff", a, b)
	require.NoError(t, err)
	assert.Empty(t, out)

	out, err = run(t, "diff", a, c)
	assert.ErrorIs(t, err, ErrTreesDiffer)
	assert.Contains(t, out, "--- "+a)
	assert.Contains(t, out, "+++ "+c)
	assert.NotContains(t, out, colorAdd)
}

func TestColorize(t *testing.T) {
	diff := "--- a\n+++ b\n@@ -1 +1 @@\n-x\n+y\n"
	assert.Equal(t, diff, colorize(diff, false))
	colored := colorize(diff, true)
	assert.Contains(t, colored, colorDel+"-x"+colorReset)
	assert.Contains(t, colored, colorAdd+"+y"+colorReset)
	assert.Contains(t, colored, "--- a\n")
}

func TestCheck(t *testing.T) {
	dir := isolate(t)
	docs := filepath.Join(dir, "docs")
	require.NoError(t, os.Mkdir(docs, 0o755))
	for _, name := range []string{"add", "loop", "switch"} {
		writeSample(t, docs, name, name+".json")
	}

	out, err := run(t, "check", "-j", "3", docs)
	require.NoError(t, err)
	assert.Contains(t, out, "ok   "+filepath.Join(docs, "loop.json"))

	require.NoError(t, os.WriteFile(filepath.Join(docs, "bad.json"),
		[]byte(`{"name":"add","attrs":{"type":"int","version":"1"}}`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(docs, "notes.txt"), []byte("skip"), 0o644))

	out, err = run(t, "check", "-q", "-j", "2", docs)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 4")
	assert.Contains(t, out, "FAIL")
	assert.NotContains(t, out, "ok ")
}

func TestCheckLint(t *testing.T) {
	dir := isolate(t)
	for _, name := range sampleNames() {
		writeSample(t, dir, name, name+".json")
	}
	out, err := run(t, "check", "--lint", dir)
	require.NoError(t, err, out)

	f := ast.NewFactory()
	x := f.Parameter(intType, "x")
	json, err := document.FormatFor("json")
	require.NoError(t, err)
	data, err := codec.Marshal(typereg.New(), codec.Options{}, json, f.Negate(x))
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "free.json"), data, 0o644))

	out, err = run(t, "check", dir)
	require.NoError(t, err, out)
	out, err = run(t, "check", "--lint", dir)
	require.Error(t, err)
	assert.Contains(t, out, "bound-parameters")
}

func TestStore(t *testing.T) {
	dir := isolate(t)
	db := filepath.Join(dir, "docs.db")
	src := writeSample(t, dir, "lambda", "lambda.json")

	out, err := run(t, "store", "--db", db, "put", "mul", src)
	require.NoError(t, err)
	assert.Contains(t, out, " mul\n")

	out, err = run(t, "store", "--db", db, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "mul")

	out, err = run(t, "store", "--db", db, "get", "--to", "xml", "mul")
	require.NoError(t, err)
	assert.Contains(t, out, "<lambda")

	_, err = run(t, "store", "--db", db, "rm", "mul")
	require.NoError(t, err)
	_, err = run(t, "store", "--db", db, "get", "mul")
	require.Error(t, err)
}

func TestStoreUsesConfiguredPath(t *testing.T) {
	dir := isolate(t)
	src := writeSample(t, dir, "add", "add.json")
	_, err := run(t, "store", "put", "add", src)
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(dir, "documents.db"))
}

func TestConfigFile(t *testing.T) {
	dir := isolate(t)
	cfg := filepath.Join(dir, "custom.toml")
	require.NoError(t, os.WriteFile(cfg, []byte(`format = "xml"`), 0o644))

	out, err := run(t, "--config", cfg, "sample", "add")
	require.NoError(t, err)
	assert.Contains(t, out, "<add")

	require.NoError(t, os.WriteFile(cfg, []byte(`format = "csv"`), 0o644))
	_, err = run(t, "--config", cfg, "sample", "add")
	require.Error(t, err)

	_, err = run(t, "--identifiers", "shouty", "sample", "add")
	require.Error(t, err)
}

func TestDevCommands(t *testing.T) {
	isolate(t)
	out, err := run(t, "dev", "kinds")
	require.NoError(t, err)
	assert.Contains(t, out, "add\n")
	assert.Contains(t, out, "debugInfo (not serializable)")

	out, err = run(t, "dev", "kinds", "--case", "snake")
	require.NoError(t, err)
	assert.Contains(t, out, "debug_info (not serializable)")

	out, err = run(t, "dev", "types")
	require.NoError(t, err)
	assert.Contains(t, out, "guid")
	assert.Contains(t, out, "uuid.UUID")

	out, err = run(t, "dev", "names")
	require.NoError(t, err)
	assert.Contains(t, out, "labelTarget")
}
