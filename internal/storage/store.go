package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"
)

var (
	pagesBucket = []byte("pages")
	metaBucket  = []byte("metadata")

	schemaKey     = []byte("schema")
	schemaVersion = []byte("1")
)

// ErrNotFound is returned by GetPage when no entry exists for a key.
var ErrNotFound = errors.New("page not found")

type Store struct {
	db *bolt.DB
}

func NewStore(dbPath string, timeout time.Duration) (*Store, error) {
	if timeout <= 0 {
		timeout = 1 * time.Second
	}
	db, err := bolt.Open(dbPath, 0o600, &bolt.Options{Timeout: timeout})
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		meta, createErr := tx.CreateBucketIfNotExists(metaBucket)
		if createErr != nil {
			return createErr
		}
		// Cached pages from an older layout are dropped rather than migrated.
		if v := meta.Get(schemaKey); v != nil && string(v) != string(schemaVersion) {
			if delErr := tx.DeleteBucket(pagesBucket); delErr != nil && !errors.Is(delErr, bolt.ErrBucketNotFound) {
				return delErr
			}
		}
		if _, createErr := tx.CreateBucketIfNotExists(pagesBucket); createErr != nil {
			return createErr
		}
		return meta.Put(schemaKey, schemaVersion)
	})

	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating buckets: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) SavePage(page *Page) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(pagesBucket)
		data, err := json.Marshal(page)
		if err != nil {
			return err
		}
		return b.Put([]byte(page.Key), data)
	})
}

func (s *Store) GetPage(key string) (*Page, error) {
	var page Page
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(pagesBucket)
		data := b.Get([]byte(key))
		if data == nil {
			return ErrNotFound
		}
		return json.Unmarshal(data, &page)
	})
	if err != nil {
		return nil, err
	}
	return &page, nil
}

func (s *Store) DeletePage(key string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(pagesBucket).Delete([]byte(key))
	})
}

// Purge removes pages fetched before cutoff, plus any that no longer decode.
func (s *Store) Purge(cutoff time.Time) (int, error) {
	removed := 0
	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(pagesBucket)
		var stale [][]byte
		err := b.ForEach(func(k, v []byte) error {
			var page Page
			if err := json.Unmarshal(v, &page); err != nil || page.FetchedAt.Before(cutoff) {
				stale = append(stale, append([]byte(nil), k...))
			}
			return nil
		})
		if err != nil {
			return err
		}
		for _, k := range stale {
			if err := b.Delete(k); err != nil {
				return err
			}
		}
		removed = len(stale)
		return nil
	})
	return removed, err
}

// Count returns the number of cached pages.
func (s *Store) Count() (int, error) {
	n := 0
	err := s.db.View(func(tx *bolt.Tx) error {
		n = tx.Bucket(pagesBucket).Stats().KeyN
		return nil
	})
	return n, err
}
