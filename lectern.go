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


// Package lectern answers questions about a single uploaded document or video
// transcript. Queries are classified by intent, the intent picks how many
// chunks to retrieve, and retrieval is scoped to the requested document.
package lectern

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/poiesic/lectern/ai"
	"github.com/poiesic/lectern/ai/openai"
	"github.com/poiesic/lectern/answer"
	"github.com/poiesic/lectern/core"
	"github.com/poiesic/lectern/ingestion"
	"github.com/poiesic/lectern/intent"
	"github.com/poiesic/lectern/reembed"
	"github.com/poiesic/lectern/retrieval"
	"github.com/poiesic/lectern/storage"
	"github.com/poiesic/lectern/storage/badger"
	"github.com/poiesic/lectern/strategy"
)

// Content selects one of the two kinds of ingested material. Each kind has
// its own table and retrieval profile.
type Content string

const (
	Documents   Content = "document"
	Transcripts Content = "transcript"
)

// ParseContent converts "document" or "transcript" into a Content.
func ParseContent(s string) (Content, error) {
	switch Content(s) {
	case Documents, Transcripts:
		return Content(s), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownContent, s)
	}
}

func (c Content) table() string {
	if c == Transcripts {
		return storage.TableTranscripts
	}
	return storage.TableDocuments
}

// collection holds everything scoped to one table.
type collection struct {
	store       *badger.VectorStore
	checkpoints *badger.CheckpointStore
	pipeline    *ingestion.Pipeline
	router      *retrieval.Router
}

// Lectern wires storage, models, ingestion and retrieval for both content kinds.
type Lectern struct {
	backend     *badger.Backend
	provider    ai.AIProvider
	embedder    ai.Embedder
	queryCache  *ai.CachingEmbedder
	synthesizer *answer.Synthesizer
	collections map[Content]*collection
	logger      *slog.Logger
}

// Option configures Open.
type Option func(*options)

type options struct {
	aiConfig         *ai.Config
	provider         ai.AIProvider
	inMemory         bool
	logger           *slog.Logger
	profiles         map[Content]strategy.Profile
	cacheEntries     int64
	retrievalTimeout time.Duration
	ingestionOpts    []ingestion.Option
}

// WithAIConfig sets the model endpoints. Ignored when WithProvider is used.
func WithAIConfig(cfg *ai.Config) Option {
	return func(o *options) {
		o.aiConfig = cfg
	}
}

// WithProvider supplies the AI provider directly, typically a mock in tests.
// Lectern does not close a provider it did not create.
func WithProvider(provider ai.AIProvider) Option {
	return func(o *options) {
		o.provider = provider
	}
}

// WithInMemory keeps all data in memory. The path passed to Open is ignored.
func WithInMemory() Option {
	return func(o *options) {
		o.inMemory = true
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithProfile replaces the retrieval profile used for content.
func WithProfile(content Content, profile strategy.Profile) Option {
	return func(o *options) {
		o.profiles[content] = profile
	}
}

// WithQueryCacheSize sets how many query embeddings are cached. Default is 4096.
func WithQueryCacheSize(entries int64) Option {
	return func(o *options) {
		o.cacheEntries = entries
	}
}

// WithRetrievalTimeout bounds each embedder and store call made while answering a query.
func WithRetrievalTimeout(d time.Duration) Option {
	return func(o *options) {
		o.retrievalTimeout = d
	}
}

// WithIngestionOptions passes options to both ingestion pipelines.
func WithIngestionOptions(opts ...ingestion.Option) Option {
	return func(o *options) {
		o.ingestionOpts = append(o.ingestionOpts, opts...)
	}
}

// Open opens (or creates) the database at path and builds the components.
func Open(path string, opts ...Option) (*Lectern, error) {
	o := &options{
		aiConfig: ai.DefaultConfig(),
		logger:   slog.Default(),
		profiles: map[Content]strategy.Profile{
			Documents:   strategy.DocumentProfile(),
			Transcripts: strategy.TranscriptProfile(),
		},
		cacheEntries:     4096,
		retrievalTimeout: 10 * time.Second,
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}
	if o.aiConfig == nil {
		o.aiConfig = ai.DefaultConfig()
	}

	backend, err := badger.OpenBackend(path, o.inMemory)
	if err != nil {
		return nil, err
	}

	l := &Lectern{
		backend:     backend,
		collections: make(map[Content]*collection, 2),
		logger:      o.logger.With("component", "lectern"),
	}
	if err := l.init(o); err != nil {
		l.Close()
		return nil, err
	}
	return l, nil
}

func (l *Lectern) init(o *options) error {
	provider := o.provider
	dims := o.aiConfig.Dimensions
	if provider == nil {
		var err error
		if provider, err = openai.NewProvider(o.aiConfig); err != nil {
			return err
		}
		l.provider = provider
	}
	l.embedder = provider.Embedder()

	queryCache, err := ai.NewCachingEmbedder(provider.Embedder(), o.cacheEntries)
	if err != nil {
		return err
	}
	l.queryCache = queryCache

	classifier, err := intent.NewClassifier(provider.Completer(), intent.WithLogger(o.logger))
	if err != nil {
		return err
	}
	l.synthesizer, err = answer.NewSynthesizer(provider.Completer(), answer.WithLogger(o.logger))
	if err != nil {
		return err
	}

	for _, content := range []Content{Documents, Transcripts} {
		c := &collection{}
		l.collections[content] = c

		if c.store, err = badger.NewVectorStore(l.backend, content.table(), dims); err != nil {
			return err
		}
		if c.checkpoints, err = badger.NewCheckpointStore(l.backend, content.table()); err != nil {
			return err
		}

		pipelineOpts := append([]ingestion.Option{ingestion.WithLogger(o.logger)}, o.ingestionOpts...)
		if c.pipeline, err = ingestion.NewPipeline(c.store, provider.Embedder(), pipelineOpts...); err != nil {
			return err
		}

		retriever, err := retrieval.NewRetriever(queryCache, c.store,
			retrieval.WithLogger(o.logger),
			retrieval.WithTimeout(o.retrievalTimeout))
		if err != nil {
			return err
		}
		if c.router, err = retrieval.NewRouter(classifier, retriever, o.profiles[content],
			retrieval.WithRouterLogger(o.logger)); err != nil {
			return fmt.Errorf("%s profile: %w", content, err)
		}
	}
	return nil
}

// Close releases every resource Lectern opened.
func (l *Lectern) Close() error {
	for _, c := range l.collections {
		if c.store != nil {
			if err := c.store.Close(); err != nil {
				l.logger.Error("error closing vector store", "table", c.store.Table(), "err", err)
			}
		}
	}
	if l.queryCache != nil {
		l.queryCache.Close()
	}
	if l.provider != nil {
		if err := l.provider.Close(); err != nil {
			l.logger.Error("error closing AI provider", "err", err)
		}
	}
	if err := l.backend.Close(); err != nil {
		l.logger.Error("error closing backend storage", "err", err)
		return err
	}
	return nil
}

func (l *Lectern) collection(content Content) (*collection, error) {
	c, ok := l.collections[content]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownContent, content)
	}
	return c, nil
}

// Store returns the vector store for content.
func (l *Lectern) Store(content Content) (storage.VectorStore, error) {
	c, err := l.collection(content)
	if err != nil {
		return nil, err
	}
	return c.store, nil
}

// Ingest embeds and stores chunks of one document.
func (l *Lectern) Ingest(ctx context.Context, content Content, documentID string, chunks []core.Chunk) (*ingestion.Result, error) {
	c, err := l.collection(content)
	if err != nil {
		return nil, err
	}
	return c.pipeline.Ingest(ctx, documentID, chunks)
}

// Replace swaps the stored chunks of a document for new ones.
func (l *Lectern) Replace(ctx context.Context, content Content, documentID string, chunks []core.Chunk) (*ingestion.Result, error) {
	c, err := l.collection(content)
	if err != nil {
		return nil, err
	}
	return c.pipeline.Replace(ctx, documentID, chunks)
}

// Delete removes every stored chunk of a document.
func (l *Lectern) Delete(ctx context.Context, content Content, documentID string) (int, error) {
	c, err := l.collection(content)
	if err != nil {
		return 0, err
	}
	return c.pipeline.DeleteDocument(ctx, documentID)
}

// Query routes a query against one document and returns the passages.
func (l *Lectern) Query(ctx context.Context, content Content, req retrieval.Request) (*retrieval.Result, error) {
	return l.QueryWithMonitor(ctx, content, req, nil)
}

// QueryWithMonitor is Query with hooks observing each routing step.
func (l *Lectern) QueryWithMonitor(ctx context.Context, content Content, req retrieval.Request, monitor retrieval.Monitor) (*retrieval.Result, error) {
	c, err := l.collection(content)
	if err != nil {
		return nil, err
	}
	return c.router.RouteWithMonitor(ctx, req, monitor)
}

// Answer is a synthesized reply with the retrieval it was built from.
type Answer struct {
	Text      string
	Retrieval *retrieval.Result
}

// Ask retrieves passages for req and has the completion model answer from them.
// A query that retrieves nothing returns answer.ErrNoContext along with the
// retrieval result.
func (l *Lectern) Ask(ctx context.Context, content Content, req retrieval.Request) (*Answer, error) {
	result, err := l.Query(ctx, content, req)
	if err != nil {
		return nil, err
	}
	out := &Answer{Retrieval: result}
	if len(result.Passages) == 0 {
		return out, answer.ErrNoContext
	}
	out.Text, err = l.synthesizer.AnswerFromContext(ctx, req.Query, result.Context)
	if err != nil {
		return out, err
	}
	return out, nil
}

// Reembed replaces every vector of content's table using the current embedder,
// resuming from a checkpoint left by an interrupted run.
func (l *Lectern) Reembed(ctx context.Context, content Content, config *reembed.Config, progress io.Writer) (*reembed.Summary, error) {
	c, err := l.collection(content)
	if err != nil {
		return nil, err
	}
	r, err := reembed.NewReembedder(c.store, l.embedder, config, progress,
		reembed.WithCheckpoints(c.checkpoints),
		reembed.WithLogger(l.logger))
	if err != nil {
		return nil, err
	}
	return r.Run(ctx)
}
