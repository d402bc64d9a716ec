package badger

import (
	"context"
	"errors"
	"strconv"

	"github.com/dgraph-io/badger/v4"

	"github.com/kailas-cloud/recipedex/internal/db"
)

// Get retrieves a value by key.
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	var data []byte
	err := s.view(ctx, db.OpGet, func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		data, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, db.ErrKeyNotFound
	}
	if err != nil {
		return nil, err
	}
	return data, nil
}

// Set stores a value at the given key.
func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	return s.update(ctx, db.OpSet, func(txn *badger.Txn) error {
		return txn.Set([]byte(key), value)
	})
}

// Incr atomically increments a decimal counter, creating it at 1 when absent.
func (s *Store) Incr(ctx context.Context, key string) (int64, error) {
	var n int64
	err := s.update(ctx, db.OpIncr, func(txn *badger.Txn) error {
		n = 0
		item, err := txn.Get([]byte(key))
		switch {
		case errors.Is(err, badger.ErrKeyNotFound):
		case err != nil:
			return err
		default:
			err = item.Value(func(val []byte) error {
				v, perr := strconv.ParseInt(string(val), 10, 64)
				if perr != nil {
					return &db.Error{Op: db.OpIncr, Err: db.ErrNotInteger}
				}
				n = v
				return nil
			})
			if err != nil {
				return err
			}
		}
		n++
		return txn.Set([]byte(key), strconv.AppendInt(nil, n, 10))
	})
	if err != nil {
		return 0, err
	}
	return n, nil
}
