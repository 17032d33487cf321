package store

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	bolt "go.etcd.io/bbolt"

	"github.com/rubiojr/exprdoc/document"
)

func openTemp(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "sub", "docs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleDoc(value string) *document.Node {
	return document.New("constant").
		SetAttr("type", "int").
		SetAttr("version", "1").
		Append(document.NewText("value", value))
}

func TestPutGet(t *testing.T) {
	s := openTemp(t)

	digest, err := s.Put("two", sampleDoc("2"))
	require.NoError(t, err)
	assert.Len(t, digest, 2*digestBytes)

	got, err := s.Get("two")
	require.NoError(t, err)
	assert.True(t, sampleDoc("2").Equal(got))

	again, err := s.Put("two", sampleDoc("2"))
	require.NoError(t, err)
	assert.Equal(t, digest, again)

	other, err := s.Put("two", sampleDoc("3"))
	require.NoError(t, err)
	assert.NotEqual(t, digest, other)
}

func TestGetMissing(t *testing.T) {
	s := openTemp(t)
	_, err := s.Get("nope")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, s.Delete("nope"), ErrNotFound)
}

func TestEmptyName(t *testing.T) {
	s := openTemp(t)
	_, err := s.Put("", sampleDoc("1"))
	assert.ErrorIs(t, err, ErrName)
}

func TestListAndDelete(t *testing.T) {
	s := openTemp(t)
	for _, name := range []string{"b", "a", "c"} {
		_, err := s.Put(name, sampleDoc(name))
		require.NoError(t, err)
	}

	entries, err := s.List()
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "a", entries[0].Name)
	assert.Equal(t, "c", entries[2].Name)
	for _, e := range entries {
		assert.NotEmpty(t, e.Digest)
		assert.Positive(t, e.Size)
	}

	require.NoError(t, s.Delete("b"))
	entries, err = s.List()
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestCorruptDigest(t *testing.T) {
	s := openTemp(t)
	_, err := s.Put("x", sampleDoc("1"))
	require.NoError(t, err)

	require.NoError(t, s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(documentsBucket).Put([]byte("x"), []byte(`{"name":"constant"}`))
	}))
	_, err = s.Get("x")
	assert.ErrorIs(t, err, ErrCorrupt)
}

func TestReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "docs.db")
	s, err := Open(path)
	require.NoError(t, err)
	_, err = s.Put("kept", sampleDoc("7"))
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s, err = Open(path)
	require.NoError(t, err)
	defer s.Close()
	got, err := s.Get("kept")
	require.NoError(t, err)
	assert.Equal(t, "7", got.Child("value").Text)
}
