package badger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/dgraph-io/badger/v4"

	"github.com/kailas-cloud/recipedex/internal/db"
)

// HSet merges fields into the hash at key, creating it when absent.
func (s *Store) HSet(ctx context.Context, key string, fields map[string]string) error {
	if len(fields) == 0 {
		return nil
	}
	return s.update(ctx, db.OpHSet, func(txn *badger.Txn) error {
		current, err := readHash(txn, key)
		if err != nil {
			return err
		}
		for k, v := range fields {
			current[k] = v
		}
		data, err := json.Marshal(current)
		if err != nil {
			return fmt.Errorf("encode hash %s: %w", key, err)
		}
		return txn.Set([]byte(key), data)
	})
}

// HGetAll returns all fields of a hash. A missing key yields an empty map.
func (s *Store) HGetAll(ctx context.Context, key string) (map[string]string, error) {
	var out map[string]string
	err := s.view(ctx, db.OpHGetAll, func(txn *badger.Txn) error {
		var err error
		out, err = readHash(txn, key)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// HGetAllMulti reads several hashes from one consistent snapshot.
func (s *Store) HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error) {
	if len(keys) == 0 {
		return nil, nil
	}
	out := make([]map[string]string, len(keys))
	err := s.view(ctx, db.OpHGetAll, func(txn *badger.Txn) error {
		for i, key := range keys {
			m, err := readHash(txn, key)
			if err != nil {
				return err
			}
			out[i] = m
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Del deletes a key. Deleting a missing key is not an error.
func (s *Store) Del(ctx context.Context, key string) error {
	return s.update(ctx, db.OpDel, func(txn *badger.Txn) error {
		return txn.Delete([]byte(key))
	})
}

// Exists checks if a key exists.
func (s *Store) Exists(ctx context.Context, key string) (bool, error) {
	var found bool
	err := s.view(ctx, db.OpExists, func(txn *badger.Txn) error {
		_, err := txn.Get([]byte(key))
		switch {
		case errors.Is(err, badger.ErrKeyNotFound):
			return nil
		case err != nil:
			return err
		}
		found = true
		return nil
	})
	return found, err
}

// Scan returns the keys matching a glob pattern. Keys are walked from the
// literal prefix of the pattern and matched with path.Match, so '/' in a key
// is never matched by '*'.
func (s *Store) Scan(ctx context.Context, pattern string) ([]string, error) {
	if _, err := path.Match(pattern, ""); err != nil {
		return nil, &db.Error{Op: db.OpScan, Err: err}
	}
	prefix := pattern
	if i := strings.IndexAny(pattern, `*?[\`); i >= 0 {
		prefix = pattern[:i]
	}

	var keys []string
	err := s.view(ctx, db.OpScan, func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = []byte(prefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			key := string(it.Item().Key())
			if ok, _ := path.Match(pattern, key); ok {
				keys = append(keys, key)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return keys, nil
}

func readHash(txn *badger.Txn, key string) (map[string]string, error) {
	item, err := txn.Get([]byte(key))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, err
	}
	m := map[string]string{}
	err = item.Value(func(val []byte) error {
		return json.Unmarshal(val, &m)
	})
	if err != nil {
		return nil, fmt.Errorf("decode hash %s: %w", key, err)
	}
	return m, nil
}
