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
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/lectern/ai"
	"github.com/poiesic/lectern/core"
	"github.com/poiesic/lectern/storage"
)

// CheckpointName is the checkpoint key used for a table's re-embedding run.
const CheckpointName = "reembed"

// Config holds configuration for the reembedding operation.
type Config struct {
	// BatchSize is the number of records to process in each batch
	BatchSize int

	// Workers is how many batches are embedded concurrently
	Workers int

	// ReportInterval is how often to report progress (number of records)
	ReportInterval int

	// MaxRetries is the maximum number of attempts for each embedding call
	MaxRetries int

	// RetryDelay is the base delay for exponential backoff
	RetryDelay time.Duration
}

// DefaultConfig returns the default re-embedding configuration.
func DefaultConfig() *Config {
	return &Config{
		BatchSize:      100,
		Workers:        4,
		ReportInterval: 100,
		MaxRetries:     3,
		RetryDelay:     1 * time.Second,
	}
}

// Summary describes a finished run.
type Summary struct {
	Table     string
	Total     int
	Processed int
	Skipped   int // Records already done by an interrupted earlier run
	Elapsed   time.Duration
}

// Reembedder replaces the vectors of every record in a table using the
// configured embedder. Run it after changing the embedding model, since
// queries must be embedded with the same model as the stored chunks.
type Reembedder struct {
	store       storage.VectorStore
	embedder    ai.Embedder
	checkpoints storage.CheckpointStore
	config      *Config
	progress    io.Writer
	processor   *BatchProcessor
	logger      *slog.Logger
}

// Option configures a Reembedder.
type Option func(*Reembedder)

// WithCheckpoints enables resuming an interrupted run. Progress is saved
// after every wave of concurrent batches and cleared when the run completes.
func WithCheckpoints(checkpoints storage.CheckpointStore) Option {
	return func(r *Reembedder) {
		r.checkpoints = checkpoints
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(r *Reembedder) {
		if logger == nil {
			logger = slog.Default()
		}
		r.logger = logger
	}
}

// NewReembedder creates a new reembedder.
// progress: where to write progress output (typically os.Stderr)
func NewReembedder(store storage.VectorStore, embedder ai.Embedder, config *Config, progress io.Writer, opts ...Option) (*Reembedder, error) {
	if store == nil {
		return nil, ErrStoreRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}
	if config == nil {
		config = DefaultConfig()
	}
	if config.Workers < 1 {
		config.Workers = 1
	}
	if progress == nil {
		progress = io.Discard
	}

	r := &Reembedder{
		store:     store,
		embedder:  embedder,
		config:    config,
		progress:  progress,
		processor: NewBatchProcessor(store, embedder, config.MaxRetries, config.RetryDelay),
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.logger = r.logger.With("component", "reembed", "table", store.Table())
	return r, nil
}

// Run re-embeds every record in the table. Batches are embedded on a bounded
// worker pool. On failure the last fully completed wave stays checkpointed,
// so running again continues from there.
func (r *Reembedder) Run(ctx context.Context) (*Summary, error) {
	summary := &Summary{Table: r.store.Table()}

	total, err := r.store.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count records: %w", err)
	}
	summary.Total = total
	if total == 0 {
		fmt.Fprintf(r.progress, "No records found in %s (0 records)\n", summary.Table)
		return summary, nil
	}

	iterator := NewRecordIterator(r.store, r.config.BatchSize)
	if err := r.resume(ctx, iterator); err != nil {
		return nil, err
	}

	pool, err := ants.NewPool(r.config.Workers)
	if err != nil {
		return nil, err
	}
	defer pool.Release()

	fmt.Fprintf(r.progress, "Starting reembedding of %d records in %s (batch size: %d, workers: %d)\n",
		total, summary.Table, r.config.BatchSize, r.config.Workers)

	tracker := NewProgressTracker(r.progress, summary.Table, total, r.config.ReportInterval)
	tracker.Start(0)

	var skipped int
	iterator.OnSkip = func(n int) {
		skipped += n
		tracker.Increment(n)
	}

	var wave [][]*core.EmbeddingRecord
	flush := func() error {
		if len(wave) == 0 {
			return nil
		}
		if err := r.runWave(ctx, pool, tracker, wave); err != nil {
			return err
		}
		last := wave[len(wave)-1]
		if err := r.saveCheckpoint(ctx, last[len(last)-1].Id); err != nil {
			return err
		}
		wave = wave[:0]
		return nil
	}

	err = iterator.ForEach(ctx, func(records []*core.EmbeddingRecord) error {
		wave = append(wave, records)
		if len(wave) < r.config.Workers {
			return nil
		}
		return flush()
	})
	if err == nil {
		err = flush()
	}

	summary.Skipped = skipped
	summary.Processed = tracker.Current() - skipped
	summary.Elapsed = tracker.Elapsed()
	if err != nil {
		return summary, err
	}

	tracker.Finish()
	if r.checkpoints != nil {
		if err := r.checkpoints.ClearCheckpoint(ctx, CheckpointName); err != nil {
			r.logger.Warn("failed to clear checkpoint", "err", err)
		}
	}

	fmt.Fprintf(r.progress, "Reembedding complete. Processed %d records in %v (%.1f records/sec)\n",
		summary.Processed, summary.Elapsed.Round(time.Second), recordsPerSecond(summary.Processed, summary.Elapsed))
	return summary, nil
}

func (r *Reembedder) resume(ctx context.Context, iterator *RecordIterator) error {
	if r.checkpoints == nil {
		return nil
	}
	lastID, ok, err := r.checkpoints.LoadCheckpoint(ctx, CheckpointName)
	if err != nil {
		return fmt.Errorf("failed to load checkpoint: %w", err)
	}
	if ok {
		r.logger.Info("resuming from checkpoint", "after_id", lastID)
		iterator.StartAfter(lastID)
	}
	return nil
}

func (r *Reembedder) saveCheckpoint(ctx context.Context, lastID core.ID) error {
	if r.checkpoints == nil {
		return nil
	}
	if err := r.checkpoints.SaveCheckpoint(ctx, CheckpointName, lastID); err != nil {
		return fmt.Errorf("failed to save checkpoint: %w", err)
	}
	return nil
}

// runWave processes batches concurrently and waits for all of them.
func (r *Reembedder) runWave(ctx context.Context, pool *ants.Pool, tracker *ProgressTracker, batches [][]*core.EmbeddingRecord) error {
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs []error
	)
	fail := func(err error) {
		mu.Lock()
		errs = append(errs, err)
		mu.Unlock()
	}

	for _, batch := range batches {
		wg.Add(1)
		err := pool.Submit(func() {
			defer wg.Done()
			if err := r.processor.Process(ctx, batch); err != nil {
				r.logger.Error("failed to process batch",
					"first_id", batch[0].Id,
					"records", len(batch),
					"err", err)
				fail(fmt.Errorf("batch starting at id %d: %w", batch[0].Id, err))
				return
			}
			tracker.Increment(len(batch))
		})
		if err != nil {
			wg.Done()
			fail(err)
		}
	}
	wg.Wait()

	return errors.Join(errs...)
}
