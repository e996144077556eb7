package badger

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"math"
	"slices"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/lectern/core"
	"github.com/poiesic/lectern/storage"
)

// VectorStore implements storage.VectorStore for one BadgerDB table.
// Similarity search is a brute-force cosine scan over the table.
type VectorStore struct {
	backend    *Backend
	table      string
	dimensions int
	idSeq      *badger.Sequence
	logger     *slog.Logger
}

var _ storage.VectorStore = (*VectorStore)(nil)

// NewVectorStore creates a store scoped to table. dimensions of zero disables
// the dimensionality check.
func NewVectorStore(backend *Backend, table string, dimensions int) (*VectorStore, error) {
	if err := validateTable(table); err != nil {
		return nil, fmt.Errorf("%w: %q", err, table)
	}
	if dimensions < 0 {
		return nil, fmt.Errorf("%w: negative dimensions %d", storage.ErrInvalidQuery, dimensions)
	}

	idSeq, err := backend.GetSequence(makeSequenceKey(table))
	if err != nil {
		return nil, err
	}

	return &VectorStore{
		backend:    backend,
		table:      table,
		dimensions: dimensions,
		idSeq:      idSeq,
		logger:     slog.Default().With("component", "vector-store", "table", table),
	}, nil
}

// Table returns the table name.
func (s *VectorStore) Table() string {
	return s.table
}

// Dimensions returns the configured dimensionality.
func (s *VectorStore) Dimensions() int {
	return s.dimensions
}

// Close releases the ID sequence.
func (s *VectorStore) Close() error {
	return s.idSeq.Release()
}

func (s *VectorStore) checkDimensions(vector []float32) error {
	if s.dimensions > 0 && len(vector) != s.dimensions {
		return fmt.Errorf("%w: table %s expects %d, got %d",
			storage.ErrDimensionMismatch, s.table, s.dimensions, len(vector))
	}
	return nil
}

// Insert adds records in a single transaction. Every record is validated
// before anything is written, so a bad record leaves the table untouched.
func (s *VectorStore) Insert(ctx context.Context, records ...*core.EmbeddingRecord) ([]*core.EmbeddingRecord, error) {
	if len(records) == 0 {
		return records, nil
	}

	for i, record := range records {
		if record != nil && record.DocumentID != "" {
			if _, ok := core.DocumentIDFromMetadata(record.Metadata); !ok {
				if record.Metadata == nil {
					record.Metadata = make(map[string]string, 1)
				}
				record.Metadata[core.MetadataDocumentID] = record.DocumentID
			}
		}
		if err := core.ValidateRecord(record); err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		if err := s.checkDimensions(record.Vector); err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		core.NormalizeRecord(record)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	err := s.backend.WithTx(func(tx *badger.Txn) error {
		now := time.Now().UTC()
		for _, record := range records {
			nextID, err := s.idSeq.Next()
			if err != nil {
				return err
			}
			// BadgerDB sequences can return 0 on first call, so we skip it
			if nextID == 0 {
				nextID, err = s.idSeq.Next()
				if err != nil {
					return err
				}
			}
			record.Id = core.ID(nextID)
			record.InsertedAt = now

			if err := tx.Set(makeRecordKey(s.table, record.Id), storage.MarshalEmbeddingRecord(record)); err != nil {
				return err
			}
			if err := tx.Set(makeDocKey(s.table, record.DocumentID, record.Id), storage.MarshalID(record.Id)); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("inserted records", "count", len(records))
	return records, nil
}

// SimilaritySearch scans the table and returns the k records with the highest
// cosine similarity to vector. Ties are broken by ascending record ID so
// repeated queries return identical results.
func (s *VectorStore) SimilaritySearch(ctx context.Context, vector []float32, k int) ([]*core.SearchResult, error) {
	if k <= 0 {
		return nil, fmt.Errorf("%w: k must be positive, got %d", storage.ErrInvalidQuery, k)
	}
	if len(vector) == 0 {
		return nil, fmt.Errorf("%w: empty query vector", storage.ErrInvalidQuery)
	}
	if err := s.checkDimensions(vector); err != nil {
		return nil, err
	}

	queryNorm := norm(vector)
	var results []*core.SearchResult
	skipped := 0

	err := s.backend.WithTx(func(tx *badger.Txn) error {
		return s.scanRecords(ctx, tx, func(record *core.EmbeddingRecord) error {
			if len(record.Vector) != len(vector) {
				skipped++
				return nil
			}
			results = append(results, &core.SearchResult{
				Record: record,
				Score:  cosineSimilarity(vector, queryNorm, record.Vector),
			})
			return nil
		})
	}, false)
	if err != nil {
		return nil, err
	}

	if skipped > 0 {
		s.logger.Warn("skipped records with mismatched vector length", "count", skipped)
	}

	slices.SortFunc(results, func(a, b *core.SearchResult) int {
		if a.Score != b.Score {
			return cmp.Compare(b.Score, a.Score)
		}
		return cmp.Compare(a.Record.Id, b.Record.Id)
	})

	if len(results) > k {
		results = results[:k]
	}
	return results, nil
}

// UpdateVectors replaces vectors of existing records in one transaction.
func (s *VectorStore) UpdateVectors(ctx context.Context, records ...*core.EmbeddingRecord) error {
	for i, record := range records {
		if record == nil {
			return fmt.Errorf("record %d: %w", i, core.ErrInvalidRecord)
		}
		if err := s.checkDimensions(record.Vector); err != nil {
			return fmt.Errorf("record %d: %w", i, err)
		}
	}

	return s.backend.WithTx(func(tx *badger.Txn) error {
		for _, record := range records {
			if err := ctx.Err(); err != nil {
				return err
			}
			key := makeRecordKey(s.table, record.Id)
			existing, err := readRecord(tx, key)
			if err != nil {
				return err
			}
			if existing == nil {
				return fmt.Errorf("%w: id %d", storage.ErrNotFound, record.Id)
			}
			existing.Vector = record.Vector
			if err := tx.Set(key, storage.MarshalEmbeddingRecord(existing)); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// DeleteByDocument removes every record indexed under documentID.
func (s *VectorStore) DeleteByDocument(ctx context.Context, documentID string) (int, error) {
	if err := core.ValidateDocumentID(documentID); err != nil {
		return 0, err
	}

	deleted := 0
	err := s.backend.WithTx(func(tx *badger.Txn) error {
		ids, indexKeys, err := s.documentIDs(ctx, tx, documentID)
		if err != nil {
			return err
		}
		for i, id := range ids {
			if err := tx.Delete(makeRecordKey(s.table, id)); err != nil {
				return err
			}
			if err := tx.Delete(indexKeys[i]); err != nil {
				return err
			}
		}
		deleted = len(ids)
		return tx.Commit()
	}, true)
	if err != nil {
		return 0, err
	}

	s.logger.Debug("deleted document", "document_id", documentID, "count", deleted)
	return deleted, nil
}

// CountByDocument counts index entries for documentID without decoding records.
func (s *VectorStore) CountByDocument(ctx context.Context, documentID string) (int, error) {
	if err := core.ValidateDocumentID(documentID); err != nil {
		return 0, err
	}

	count := 0
	err := s.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = makeDocPrefix(s.table, documentID)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			count++
		}
		return nil
	}, false)
	return count, err
}

// ListByDocument returns a document's records ordered by SequenceIndex, then ID.
func (s *VectorStore) ListByDocument(ctx context.Context, documentID string) ([]*core.EmbeddingRecord, error) {
	if err := core.ValidateDocumentID(documentID); err != nil {
		return nil, err
	}

	var results []*core.EmbeddingRecord
	err := s.backend.WithTx(func(tx *badger.Txn) error {
		ids, _, err := s.documentIDs(ctx, tx, documentID)
		if err != nil {
			return err
		}
		for _, id := range ids {
			record, err := readRecord(tx, makeRecordKey(s.table, id))
			if err != nil {
				return err
			}
			if record != nil {
				results = append(results, record)
			}
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}

	slices.SortFunc(results, func(a, b *core.EmbeddingRecord) int {
		if a.SequenceIndex != b.SequenceIndex {
			return cmp.Compare(a.SequenceIndex, b.SequenceIndex)
		}
		return cmp.Compare(a.Id, b.Id)
	})
	return results, nil
}

// Count returns the number of records in the table.
func (s *VectorStore) Count(ctx context.Context) (int, error) {
	count := 0
	err := s.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = makeRecordPrefix(s.table)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			count++
		}
		return nil
	}, false)
	return count, err
}

// ForEach visits every record in ID order, in batches of at most batchSize.
func (s *VectorStore) ForEach(ctx context.Context, batchSize int, fn func([]*core.EmbeddingRecord) error) error {
	if batchSize <= 0 {
		return fmt.Errorf("%w: batch size must be positive, got %d", storage.ErrInvalidQuery, batchSize)
	}

	// Records are read in per-batch transactions so fn may write to the table.
	var after *core.ID
	for {
		var batch []*core.EmbeddingRecord
		err := s.backend.WithTx(func(tx *badger.Txn) error {
			opts := badger.DefaultIteratorOptions
			opts.Prefix = makeRecordPrefix(s.table)
			iter := tx.NewIterator(opts)
			defer iter.Close()

			if after == nil {
				iter.Rewind()
			} else {
				iter.Seek(makeRecordKey(s.table, *after+1))
			}
			for ; iter.Valid() && len(batch) < batchSize; iter.Next() {
				if err := ctx.Err(); err != nil {
					return err
				}
				record, err := decodeItem(iter.Item())
				if err != nil {
					return err
				}
				batch = append(batch, record)
			}
			return nil
		}, false)
		if err != nil {
			return err
		}
		if len(batch) == 0 {
			return nil
		}

		if err := fn(batch); err != nil {
			return err
		}
		last := batch[len(batch)-1].Id
		after = &last
		if len(batch) < batchSize {
			return nil
		}
	}
}

// Helper methods

// scanRecords decodes every record of the table within tx.
func (s *VectorStore) scanRecords(ctx context.Context, tx *badger.Txn, fn func(*core.EmbeddingRecord) error) error {
	opts := badger.DefaultIteratorOptions
	opts.Prefix = makeRecordPrefix(s.table)
	iter := tx.NewIterator(opts)
	defer iter.Close()

	for iter.Rewind(); iter.Valid(); iter.Next() {
		if err := ctx.Err(); err != nil {
			return err
		}
		record, err := decodeItem(iter.Item())
		if err != nil {
			return err
		}
		if err := fn(record); err != nil {
			return err
		}
	}
	return nil
}

// documentIDs returns the record IDs and index keys stored for a document.
func (s *VectorStore) documentIDs(ctx context.Context, tx *badger.Txn, documentID string) ([]core.ID, [][]byte, error) {
	var (
		ids  []core.ID
		keys [][]byte
	)

	opts := badger.DefaultIteratorOptions
	opts.Prefix = makeDocPrefix(s.table, documentID)
	iter := tx.NewIterator(opts)
	defer iter.Close()

	for iter.Rewind(); iter.Valid(); iter.Next() {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}
		item := iter.Item()
		var id core.ID
		if err := item.Value(func(val []byte) error {
			var err error
			id, err = storage.UnmarshalID(val)
			return err
		}); err != nil {
			return nil, nil, err
		}
		ids = append(ids, id)
		keys = append(keys, item.KeyCopy(nil))
	}
	return ids, keys, nil
}

// readRecord reads a record from the transaction. Returns nil, nil if absent.
func readRecord(tx *badger.Txn, key []byte) (*core.EmbeddingRecord, error) {
	item, err := tx.Get(key)
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return nil, nil
		}
		return nil, err
	}
	return decodeItem(item)
}

func decodeItem(item *badger.Item) (*core.EmbeddingRecord, error) {
	var record *core.EmbeddingRecord
	err := item.Value(func(val []byte) error {
		var unmarshalErr error
		record, unmarshalErr = storage.UnmarshalEmbeddingRecord(val)
		return unmarshalErr
	})
	return record, err
}

func norm(v []float32) float64 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	return math.Sqrt(sum)
}

// cosineSimilarity returns the cosine of the angle between query and v.
// A zero vector on either side scores 0.
func cosineSimilarity(query []float32, queryNorm float64, v []float32) float32 {
	vNorm := norm(v)
	if queryNorm == 0 || vNorm == 0 {
		return 0
	}
	var dot float64
	for i := range query {
		dot += float64(query[i]) * float64(v[i])
	}
	return float32(dot / (queryNorm * vNorm))
}
