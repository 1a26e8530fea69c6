package badgerstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	badgerdb "github.com/dgraph-io/badger/v4"

	"go-offline-worker/internal/interfaces"
	"go-offline-worker/internal/models"
)

const prefixRecord = "deferred:"

// Ensure Store implements interfaces.RecordStore
var _ interfaces.RecordStore = (*Store)(nil)

// Store keeps deferred writes in BadgerDB, one key per record. Record ids
// are time ordered so key order is creation order.
type Store struct {
	db *badgerdb.DB
}

func keyRecord(id string) []byte {
	return []byte(prefixRecord + id)
}

// Open opens the store at path. An empty path keeps the store in memory.
func Open(path string, logger badgerdb.Logger) (*Store, error) {
	opts := badgerdb.DefaultOptions(path).WithLogger(logger)
	if path == "" {
		opts = opts.WithInMemory(true)
	}

	db, err := badgerdb.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger db: %w", err)
	}
	return &Store{db: db}, nil
}

// Put stores the record, replacing any record with the same id
func (s *Store) Put(ctx context.Context, record *models.DeferredWrite) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if record == nil || record.ID == "" {
		return errors.New("record id is required")
	}

	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to encode record: %w", err)
	}

	return s.db.Update(func(txn *badgerdb.Txn) error {
		if err := txn.Set(keyRecord(record.ID), data); err != nil {
			return fmt.Errorf("failed to store record: %w", err)
		}
		return nil
	})
}

// List returns every record in key order
func (s *Store) List(ctx context.Context) ([]*models.DeferredWrite, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var records []*models.DeferredWrite

	err := s.db.View(func(txn *badgerdb.Txn) error {
		prefix := []byte(prefixRecord)
		opts := badgerdb.DefaultIteratorOptions
		opts.Prefix = prefix

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			item := it.Item()
			err := item.Value(func(val []byte) error {
				var record models.DeferredWrite
				if err := json.Unmarshal(val, &record); err != nil {
					return fmt.Errorf("failed to decode record %s: %w", item.Key(), err)
				}
				records = append(records, &record)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return records, nil
}

// Delete removes the record with the given id
func (s *Store) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return s.db.Update(func(txn *badgerdb.Txn) error {
		if _, err := txn.Get(keyRecord(id)); err != nil {
			if errors.Is(err, badgerdb.ErrKeyNotFound) {
				return interfaces.ErrRecordNotFound
			}
			return err
		}
		return txn.Delete(keyRecord(id))
	})
}

// Close closes the underlying database
func (s *Store) Close() error {
	return s.db.Close()
}
