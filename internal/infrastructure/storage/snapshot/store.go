// Package snapshotstore persists the canonical store's snapshot across
// restarts. The snapshot is written as one value, there is nothing to query.
package snapshotstore

import (
	"encoding/json"
	"path/filepath"

	badger "github.com/dgraph-io/badger/v3"

	"github.com/keysafe-network/keysafe-daemon/internal/core/domain"
)

var stateKey = []byte("state")

// Store is a badger-backed snapshot store.
type Store struct {
	db *badger.DB
}

// NewStore opens (or creates) the snapshot database under the given data
// directory.
func NewStore(datadir string) (*Store, error) {
	opts := badger.DefaultOptions(filepath.Join(datadir, "snapshot")).
		WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}
	return &Store{db: db}, nil
}

// Save overwrites the persisted snapshot.
func (s *Store) Save(snapshot domain.Snapshot) error {
	buf, err := json.Marshal(snapshot)
	if err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(stateKey, buf)
	})
}

// Load returns the persisted snapshot, or nil when none has been saved yet.
func (s *Store) Load() (*domain.Snapshot, error) {
	var snapshot *domain.Snapshot
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(stateKey)
		if err != nil {
			if err == badger.ErrKeyNotFound {
				return nil
			}
			return err
		}
		return item.Value(func(val []byte) error {
			snapshot = &domain.Snapshot{}
			return json.Unmarshal(val, snapshot)
		})
	})
	if err != nil {
		return nil, err
	}
	return snapshot, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}
