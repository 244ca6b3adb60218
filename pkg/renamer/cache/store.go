package cache

import (
	"errors"

	"github.com/dgraph-io/badger/v4"
)

// ErrNotFound is returned when a cache entry doesn't exist.
var ErrNotFound = errors.New("cache entry not found")

// Store wraps Badger for cache operations.
type Store struct {
	db *badger.DB
}

// OpenStore opens or creates a cache store at the given path.
func OpenStore(path string) (*Store, error) {
	opts := badger.DefaultOptions(path)
	opts.Logger = nil // Disable badger logging

	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}

	return &Store{db: db}, nil
}

// Close closes the store.
func (s *Store) Close() error {
	return s.db.Close()
}

// Get retrieves the entry for path.
func (s *Store) Get(path string) (*CachedEntry, error) {
	var entry CachedEntry

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(MakeKey(path))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}

		return item.Value(entry.Decode)
	})

	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// Put stores the entry for path.
func (s *Store) Put(path string, entry *CachedEntry) error {
	value, err := entry.Encode()
	if err != nil {
		return err
	}

	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(MakeKey(path), value)
	})
}

// Delete removes the entry for path.
func (s *Store) Delete(path string) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(MakeKey(path))
	})
}

// DeletePrefix removes every entry whose path starts with dir, and returns how
// many were removed. An empty dir removes everything.
func (s *Store) DeletePrefix(dir string) (int, error) {
	prefix := MakeKeyPrefix(dir)
	var keys [][]byte

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			keys = append(keys, it.Item().KeyCopy(nil))
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	if err := s.deleteKeys(keys); err != nil {
		return 0, err
	}
	return len(keys), nil
}

// deleteKeys removes keys through a write batch, which splits large deletes
// across transactions.
func (s *Store) deleteKeys(keys [][]byte) error {
	wb := s.db.NewWriteBatch()
	defer wb.Cancel()

	for _, key := range keys {
		if err := wb.Delete(key); err != nil {
			return err
		}
	}
	return wb.Flush()
}

// PutBatch stores multiple entries efficiently in a single write batch.
func (s *Store) PutBatch(entries map[string]*CachedEntry) error {
	wb := s.db.NewWriteBatch()
	defer wb.Cancel()

	for path, entry := range entries {
		value, err := entry.Encode()
		if err != nil {
			return err
		}
		if err := wb.Set(MakeKey(path), value); err != nil {
			return err
		}
	}

	return wb.Flush()
}

// Each calls fn for every entry of this cache version until fn returns false.
func (s *Store) Each(fn func(path string, entry *CachedEntry) bool) error {
	prefix := MakeKeyPrefix("")

	return s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			item := it.Item()
			path, ok := ParseKey(item.Key())
			if !ok {
				continue
			}
			var entry CachedEntry
			if err := item.Value(entry.Decode); err != nil {
				return err
			}
			if !fn(path, &entry) {
				return nil
			}
		}
		return nil
	})
}

// Count returns the number of entries of this cache version.
func (s *Store) Count() (int, error) {
	prefix := MakeKeyPrefix("")
	count := 0

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			count++
		}
		return nil
	})
	return count, err
}
