// Package store keeps encoded expression documents in a bbolt file.
//
// Documents are stored in their JSON form under a caller-chosen name. A
// digest of the stored bytes sits in a second bucket and is checked on
// every read.
package store

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/rubiojr/exprdoc/document"
)

const (
	Perm        = 0o600
	digestBytes = 12
)

var (
	documentsBucket = []byte("documents")
	digestsBucket   = []byte("digests")
)

var (
	ErrNotFound = errors.New("document not found")
	ErrCorrupt  = errors.New("document digest mismatch")
	ErrName     = errors.New("invalid document name")
)

// Entry describes a stored document.
type Entry struct {
	Name   string
	Digest string
	Size   int
}

// Store is a handle on an open document database. It is safe for
// concurrent use.
type Store struct {
	db     *bolt.DB
	format document.Format
}

// Open opens or creates the database at path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("store: %w", err)
	}
	db, err := bolt.Open(path, Perm, &bolt.Options{Timeout: 3 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("store: open %q: %w", path, err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		for _, b := range [][]byte{documentsBucket, digestsBucket} {
			if _, err := tx.CreateBucketIfNotExists(b); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("store: init %q: %w", path, err)
	}
	format, err := document.FormatFor("json")
	if err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db: db, format: format}, nil
}

// Close releases the database file.
func (s *Store) Close() error {
	return s.db.Close()
}

// Digest returns the hex digest recorded for data.
func Digest(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:digestBytes])
}

// Put stores doc under name, replacing any previous document, and returns
// its digest.
func (s *Store) Put(name string, doc *document.Node) (string, error) {
	if name == "" {
		return "", ErrName
	}
	data, err := s.format.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("store: encode %q: %w", name, err)
	}
	digest := Digest(data)
	err = s.db.Update(func(tx *bolt.Tx) error {
		if err := tx.Bucket(documentsBucket).Put([]byte(name), data); err != nil {
			return err
		}
		return tx.Bucket(digestsBucket).Put([]byte(name), []byte(digest))
	})
	if err != nil {
		return "", fmt.Errorf("store: put %q: %w", name, err)
	}
	return digest, nil
}

// Get returns the document stored under name.
func (s *Store) Get(name string) (*document.Node, error) {
	var data []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(documentsBucket).Get([]byte(name))
		if v == nil {
			return ErrNotFound
		}
		if d := tx.Bucket(digestsBucket).Get([]byte(name)); string(d) != Digest(v) {
			return ErrCorrupt
		}
		// v is only valid inside the transaction.
		data = append([]byte(nil), v...)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("store: get %q: %w", name, err)
	}
	doc, err := s.format.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("store: decode %q: %w", name, err)
	}
	return doc, nil
}

// List returns the stored documents in name order.
func (s *Store) List() ([]Entry, error) {
	var entries []Entry
	err := s.db.View(func(tx *bolt.Tx) error {
		digests := tx.Bucket(digestsBucket)
		return tx.Bucket(documentsBucket).ForEach(func(k, v []byte) error {
			entries = append(entries, Entry{
				Name:   string(k),
				Digest: string(digests.Get(k)),
				Size:   len(v),
			})
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("store: list: %w", err)
	}
	return entries, nil
}

// Delete removes name. Deleting a missing document returns ErrNotFound.
func (s *Store) Delete(name string) error {
	err := s.db.Update(func(tx *bolt.Tx) error {
		docs := tx.Bucket(documentsBucket)
		if docs.Get([]byte(name)) == nil {
			return ErrNotFound
		}
		if err := docs.Delete([]byte(name)); err != nil {
			return err
		}
		return tx.Bucket(digestsBucket).Delete([]byte(name))
	})
	if err != nil {
		return fmt.Errorf("store: delete %q: %w", name, err)
	}
	return nil
}
