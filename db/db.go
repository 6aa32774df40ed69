package db

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/dgraph-io/badger/v4"
	"jsonl2csv/models"
)

const runKeyPrefix = "run:"

type DB struct {
	badgerDB *badger.DB
}

func New(dbPath string) (*DB, error) {
	opts := badger.DefaultOptions(dbPath)
	opts.Logger = nil // Disable badger logging for cleaner output

	badgerDB, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	return &DB{badgerDB: badgerDB}, nil
}

func (d *DB) Close() error {
	return d.badgerDB.Close()
}

// StoreRun persists a conversion run record keyed by run id.
func (d *DB) StoreRun(record *models.RunRecord) error {
	return d.badgerDB.Update(func(txn *badger.Txn) error {
		data, err := json.Marshal(record)
		if err != nil {
			return err
		}
		key := []byte(runKeyPrefix + record.RunID)
		return txn.Set(key, data)
	})
}

// GetRun returns the record for one run id, or badger.ErrKeyNotFound.
func (d *DB) GetRun(runID string) (*models.RunRecord, error) {
	var record models.RunRecord

	err := d.badgerDB.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(runKeyPrefix + runID))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &record)
		})
	})
	if err != nil {
		return nil, err
	}

	return &record, nil
}

// ListRuns returns all run records, newest first. Run ids start with a
// timestamp, so lexical order is chronological.
func (d *DB) ListRuns() ([]models.RunRecord, error) {
	var records []models.RunRecord

	err := d.badgerDB.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(runKeyPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			err := it.Item().Value(func(val []byte) error {
				var record models.RunRecord
				if err := json.Unmarshal(val, &record); err != nil {
					return err
				}
				records = append(records, record)
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

	sort.Slice(records, func(i, j int) bool {
		return records[i].RunID > records[j].RunID
	})

	return records, nil
}

// IsNotFound reports whether err means the run id has no record.
func IsNotFound(err error) bool {
	return err == badger.ErrKeyNotFound
}
