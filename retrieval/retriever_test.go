package retrieval

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/poiesic/lectern/ai/mock"
	"github.com/poiesic/lectern/core"
	"github.com/poiesic/lectern/intent"
	"github.com/poiesic/lectern/storage"
	"github.com/poiesic/lectern/storage/badger"
	"github.com/poiesic/lectern/strategy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fixedEmbedder returns vectors from a lookup table so tests control similarity.
func fixedEmbedder(vectors map[string][]float32) *mock.MockEmbedder {
	m := mock.NewMockEmbedderWithDimensions(2)
	m.EmbedTextFunc = func(_ context.Context, text string) ([]float32, error) {
		if v, ok := vectors[text]; ok {
			return v, nil
		}
		return mock.DeterministicVector(text, 2), nil
	}
	return m
}

func newStore(t *testing.T) storage.VectorStore {
	t.Helper()
	store, backend, err := badger.NewMemoryStore(storage.TableDocuments, 2)
	require.NoError(t, err)
	t.Cleanup(func() {
		store.Close()
		backend.Close()
	})
	return store
}

func seed(t *testing.T, store storage.VectorStore, docID string, vectors ...[]float32) {
	t.Helper()
	records := make([]*core.EmbeddingRecord, len(vectors))
	for i, v := range vectors {
		records[i] = &core.EmbeddingRecord{
			Text:          fmt.Sprintf("%s chunk %d", docID, i),
			Vector:        v,
			SequenceIndex: i,
			Metadata:      core.DocumentMetadata(docID),
		}
	}
	_, err := store.Insert(context.Background(), records...)
	require.NoError(t, err)
}

// failingStore fails every similarity search.
type failingStore struct {
	storage.VectorStore
	err error
}

func (f *failingStore) SimilaritySearch(context.Context, []float32, int) ([]*core.SearchResult, error) {
	return nil, f.err
}

func TestNewRetriever(t *testing.T) {
	store := newStore(t)

	_, err := NewRetriever(nil, store)
	assert.ErrorIs(t, err, ErrEmbedderRequired)

	_, err = NewRetriever(mock.NewMockEmbedder(), nil)
	assert.ErrorIs(t, err, ErrStoreRequired)

	_, err = NewRetriever(mock.NewMockEmbedder(), store, WithTimeout(-time.Second))
	assert.Error(t, err)

	r, err := NewRetriever(mock.NewMockEmbedder(), store, WithLogger(nil), WithTimeout(time.Second))
	require.NoError(t, err)
	assert.Equal(t, time.Second, r.timeout)
}

func TestRetrieve_ScopesToDocument(t *testing.T) {
	store := newStore(t)
	seed(t, store, "A", []float32{1, 0}, []float32{0.9, 0.1}, []float32{0.8, 0.2})
	seed(t, store, "B", []float32{1, 0.05}, []float32{0.7, 0.3})

	r, err := NewRetriever(fixedEmbedder(map[string][]float32{"q": {1, 0}}), store)
	require.NoError(t, err)

	passages, err := r.Retrieve(context.Background(), "q", "A", 10)
	require.NoError(t, err)
	require.Len(t, passages, 3)
	for _, p := range passages {
		assert.Equal(t, "A", p.DocumentID)
	}

	passages, err = r.Retrieve(context.Background(), "q", "B", 10)
	require.NoError(t, err)
	assert.Len(t, passages, 2)
}

func TestRetrieve_RankOrder(t *testing.T) {
	store := newStore(t)
	seed(t, store, "A", []float32{0, 1}, []float32{1, 0}, []float32{0.7, 0.7})

	r, err := NewRetriever(fixedEmbedder(map[string][]float32{"q": {1, 0}}), store)
	require.NoError(t, err)

	passages, err := r.Retrieve(context.Background(), "q", "A", 3)
	require.NoError(t, err)
	require.Len(t, passages, 3)
	assert.Equal(t, []string{"A chunk 1", "A chunk 2", "A chunk 0"}, core.Texts(passages))
	assert.GreaterOrEqual(t, passages[0].Score, passages[1].Score)
	assert.GreaterOrEqual(t, passages[1].Score, passages[2].Score)
}

func TestRetrieve_GlobalSearchThenFilter(t *testing.T) {
	store := newStore(t)
	// B holds the two closest chunks, so a global top-2 leaves nothing for A.
	seed(t, store, "B", []float32{1, 0}, []float32{0.99, 0.01})
	seed(t, store, "A", []float32{0, 1})

	r, err := NewRetriever(fixedEmbedder(map[string][]float32{"q": {1, 0}}), store)
	require.NoError(t, err)

	passages, err := r.Retrieve(context.Background(), "q", "A", 2)
	require.NoError(t, err)
	assert.NotNil(t, passages)
	assert.Empty(t, passages)
}

func TestRetrieve_AtMostK(t *testing.T) {
	store := newStore(t)
	seed(t, store, "A", []float32{1, 0}, []float32{0.9, 0.1}, []float32{0.8, 0.2}, []float32{0.7, 0.3})

	r, err := NewRetriever(fixedEmbedder(map[string][]float32{"q": {1, 0}}), store)
	require.NoError(t, err)

	passages, err := r.Retrieve(context.Background(), "q", "A", 2)
	require.NoError(t, err)
	assert.Len(t, passages, 2)
}

func TestRetrieve_UnknownDocument(t *testing.T) {
	store := newStore(t)
	seed(t, store, "A", []float32{1, 0})

	r, err := NewRetriever(mock.NewMockEmbedderWithDimensions(2), store)
	require.NoError(t, err)

	passages, err := r.Retrieve(context.Background(), "anything", "missing", 5)
	require.NoError(t, err)
	assert.Empty(t, passages)
}

func TestRetrieve_InvalidArguments(t *testing.T) {
	r, err := NewRetriever(mock.NewMockEmbedderWithDimensions(2), newStore(t))
	require.NoError(t, err)
	ctx := context.Background()

	_, err = r.Retrieve(ctx, "  ", "A", 5)
	assert.ErrorIs(t, err, intent.ErrEmptyQuery)

	_, err = r.Retrieve(ctx, "q", "", 5)
	assert.ErrorIs(t, err, core.ErrEmptyDocumentID)

	_, err = r.Retrieve(ctx, "q", "A", 0)
	assert.ErrorIs(t, err, strategy.ErrInvalidK)
}

func TestRetrieve_EmbedderTimeout(t *testing.T) {
	embedder := mock.NewMockEmbedderWithDimensions(2)
	embedder.EmbedTextFunc = func(ctx context.Context, _ string) ([]float32, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	}

	r, err := NewRetriever(embedder, newStore(t), WithTimeout(20*time.Millisecond))
	require.NoError(t, err)

	_, err = r.Retrieve(context.Background(), "q", "A", 5)
	assert.ErrorIs(t, err, ErrRetrievalUnavailable)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestRetrieve_StoreFailure(t *testing.T) {
	boom := errors.New("disk on fire")
	store := &failingStore{VectorStore: newStore(t), err: boom}

	r, err := NewRetriever(mock.NewMockEmbedderWithDimensions(2), store)
	require.NoError(t, err)

	_, err = r.Retrieve(context.Background(), "q", "A", 5)
	assert.ErrorIs(t, err, ErrRetrievalUnavailable)
	assert.ErrorIs(t, err, boom)
}

func TestRetrieve_EmptyVector(t *testing.T) {
	embedder := mock.NewMockEmbedderWithDimensions(2)
	embedder.EmbedTextFunc = func(context.Context, string) ([]float32, error) {
		return nil, nil
	}

	r, err := NewRetriever(embedder, newStore(t))
	require.NoError(t, err)

	_, err = r.Retrieve(context.Background(), "q", "A", 5)
	assert.ErrorIs(t, err, ErrRetrievalUnavailable)
}

func TestCountByDocument(t *testing.T) {
	store := newStore(t)
	seed(t, store, "A", []float32{1, 0}, []float32{0, 1})

	r, err := NewRetriever(mock.NewMockEmbedderWithDimensions(2), store)
	require.NoError(t, err)

	n, err := r.CountByDocument(context.Background(), "A")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}
