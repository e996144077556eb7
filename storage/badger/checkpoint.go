// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package badger

import (
	"context"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/lectern/core"
	"github.com/poiesic/lectern/storage"
)

// CheckpointStore implements storage.CheckpointStore for BadgerDB.
type CheckpointStore struct {
	backend *Backend
	table   string
}

var _ storage.CheckpointStore = (*CheckpointStore)(nil)

// NewCheckpointStore creates a checkpoint store for a table.
func NewCheckpointStore(backend *Backend, table string) (*CheckpointStore, error) {
	if err := validateTable(table); err != nil {
		return nil, err
	}
	return &CheckpointStore{
		backend: backend,
		table:   table,
	}, nil
}

// SaveCheckpoint records the last processed record ID for a named job.
func (r *CheckpointStore) SaveCheckpoint(ctx context.Context, name string, lastID core.ID) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		if err := tx.Set(makeCheckpointKey(r.table, name), storage.MarshalID(lastID)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// LoadCheckpoint returns the last processed ID for a named job.
// The boolean is false if no checkpoint exists.
func (r *CheckpointStore) LoadCheckpoint(ctx context.Context, name string) (core.ID, bool, error) {
	var (
		lastID core.ID
		found  bool
	)
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get(makeCheckpointKey(r.table, name))
		if err != nil {
			if err == badger.ErrKeyNotFound {
				return nil
			}
			return err
		}

		found = true
		return item.Value(func(val []byte) error {
			var unmarshalErr error
			lastID, unmarshalErr = storage.UnmarshalID(val)
			return unmarshalErr
		})
	}, false)

	return lastID, found, err
}

// ClearCheckpoint removes the checkpoint for a named job.
func (r *CheckpointStore) ClearCheckpoint(ctx context.Context, name string) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		if err := tx.Delete(makeCheckpointKey(r.table, name)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}
