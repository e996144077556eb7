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


package reembed

import (
	"context"

	"github.com/poiesic/lectern/core"
	"github.com/poiesic/lectern/storage"
)

const (
	// DefaultBatchSize is the default number of records to fetch in each batch
	DefaultBatchSize = 100
)

// RecordIterator walks every record of a table in ID order, in batches.
type RecordIterator struct {
	store     storage.VectorStore
	batchSize int
	after     core.ID

	// OnSkip, if set, is called with the number of records skipped in a batch.
	OnSkip func(n int)
}

// NewRecordIterator creates a new record iterator.
// A batchSize of zero or less uses DefaultBatchSize.
func NewRecordIterator(store storage.VectorStore, batchSize int) *RecordIterator {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &RecordIterator{
		store:     store,
		batchSize: batchSize,
	}
}

// StartAfter skips records with IDs up to and including id, which is how an
// interrupted run resumes from its checkpoint.
func (it *RecordIterator) StartAfter(id core.ID) {
	it.after = id
}

// ForEach calls fn for each batch until the table is exhausted or fn fails.
// Batches hold at most batchSize records; skipping can make them smaller.
func (it *RecordIterator) ForEach(ctx context.Context, fn func([]*core.EmbeddingRecord) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return it.store.ForEach(ctx, it.batchSize, func(records []*core.EmbeddingRecord) error {
		if it.after > 0 {
			kept := records[:0]
			for _, r := range records {
				if r.Id > it.after {
					kept = append(kept, r)
				}
			}
			if skipped := len(records) - len(kept); skipped > 0 && it.OnSkip != nil {
				it.OnSkip(skipped)
			}
			records = kept
		}
		if len(records) == 0 {
			return nil
		}
		if err := fn(records); err != nil {
			return err
		}
		return ctx.Err()
	})
}
