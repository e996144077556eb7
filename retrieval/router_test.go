package retrieval

import (
	"context"
	"errors"
	"testing"

	"github.com/poiesic/lectern/ai/mock"
	"github.com/poiesic/lectern/core"
	"github.com/poiesic/lectern/intent"
	"github.com/poiesic/lectern/storage"
	"github.com/poiesic/lectern/strategy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubClassifier struct {
	label intent.Intent
	err   error
	calls int
}

func (s *stubClassifier) Classify(_ context.Context, _ string) (intent.Intent, error) {
	s.calls++
	return s.label, s.err
}

// recordingMonitor captures the hooks fired during routing.
type recordingMonitor struct {
	events    []string
	fallback  bool
	strategy  strategy.Strategy
	returned  int
	kept      int
	truncated bool
}

func (m *recordingMonitor) Start(Request) { m.events = append(m.events, "start") }
func (m *recordingMonitor) Classified(_ intent.Intent, fallback bool) {
	m.events = append(m.events, "classified")
	m.fallback = fallback
}
func (m *recordingMonitor) StrategySelected(s strategy.Strategy) {
	m.events = append(m.events, "strategy")
	m.strategy = s
}
func (m *recordingMonitor) AfterSearch(returned, kept int) {
	m.events = append(m.events, "search")
	m.returned, m.kept = returned, kept
}
func (m *recordingMonitor) Truncated(_, _ int) {
	m.events = append(m.events, "truncated")
	m.truncated = true
}
func (m *recordingMonitor) Finish(*Result) { m.events = append(m.events, "finish") }

func newRouter(t *testing.T, classifier IntentClassifier, store storage.VectorStore, profile strategy.Profile) *Router {
	t.Helper()
	r, err := NewRetriever(fixedEmbedder(map[string][]float32{"q": {1, 0}}), store)
	require.NoError(t, err)
	router, err := NewRouter(classifier, r, profile)
	require.NoError(t, err)
	return router
}

func TestNewRouter(t *testing.T) {
	_, err := NewRouter(nil, nil, strategy.DocumentProfile())
	assert.ErrorIs(t, err, ErrRetrieverRequired)

	r, err := NewRetriever(mock.NewMockEmbedderWithDimensions(2), newStore(t))
	require.NoError(t, err)

	bad := strategy.DocumentProfile()
	bad.Default = strategy.TopK(0)
	_, err = NewRouter(nil, r, bad)
	assert.ErrorIs(t, err, strategy.ErrInvalidK)

	router, err := NewRouter(nil, r, strategy.TranscriptProfile(), WithRouterLogger(nil))
	require.NoError(t, err)
	assert.Equal(t, strategy.TranscriptProfileName, router.Profile().Name)
}

func TestRoute_SelectsStrategyByIntent(t *testing.T) {
	tests := []struct {
		name   string
		label  intent.Intent
		expect strategy.Strategy
	}{
		{"specific question", intent.SpecificQuestion, strategy.TopK(3)},
		{"general question", intent.GeneralQuestion, strategy.TopK(5)},
		{"instruction", intent.Instruction, strategy.TopK(8)},
		{"summarization", intent.Summarization, strategy.ExhaustiveWithCeiling(256)},
		{"other", intent.Other, strategy.TopK(10)},
		{"unrecognized label", intent.Intent("Specific_Question!"), strategy.TopK(10)},
	}

	store := newStore(t)
	seed(t, store, "vid", []float32{1, 0})

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newRouter(t, &stubClassifier{label: tt.label}, store, strategy.TranscriptProfile())

			result, err := router.Route(context.Background(), Request{Query: "q", DocumentID: "vid"})
			require.NoError(t, err)
			assert.Equal(t, tt.label, result.Intent)
			assert.Equal(t, tt.expect, result.Strategy)
			assert.False(t, result.Fallback)
		})
	}
}

func TestRoute_ClassificationFailureFallsBack(t *testing.T) {
	store := newStore(t)
	seed(t, store, "doc", []float32{1, 0})

	for _, classifyErr := range []error{
		intent.ErrClassificationUnavailable,
		errors.New("connection refused"),
	} {
		classifier := &stubClassifier{err: classifyErr}
		router := newRouter(t, classifier, store, strategy.DocumentProfile())

		result, err := router.Route(context.Background(), Request{Query: "q", DocumentID: "doc"})
		require.NoError(t, err)
		assert.True(t, result.Fallback)
		assert.Equal(t, strategy.TopK(30), result.Strategy)
		assert.Len(t, result.Passages, 1)
	}
}

func TestRoute_NilClassifierUsesDefault(t *testing.T) {
	store := newStore(t)
	seed(t, store, "doc", []float32{1, 0})
	router := newRouter(t, nil, store, strategy.DocumentProfile())

	result, err := router.Route(context.Background(), Request{Query: "q", DocumentID: "doc"})
	require.NoError(t, err)
	assert.True(t, result.Fallback)
	assert.Equal(t, strategy.TopK(30), result.Strategy)
}

func TestRoute_ExplicitIntentSkipsClassifier(t *testing.T) {
	store := newStore(t)
	seed(t, store, "doc", []float32{1, 0})
	classifier := &stubClassifier{label: intent.Other}
	router := newRouter(t, classifier, store, strategy.DocumentProfile())

	result, err := router.Route(context.Background(), Request{
		Query:      "q",
		DocumentID: "doc",
		Intent:     intent.SpecificQuestion,
	})
	require.NoError(t, err)
	assert.Equal(t, 0, classifier.calls)
	assert.Equal(t, strategy.TopK(12), result.Strategy)
}

func TestRoute_SummarizationReturnsWholeDocument(t *testing.T) {
	store := newStore(t)
	seed(t, store, "doc",
		[]float32{0.2, 0.8}, []float32{1, 0}, []float32{0.6, 0.4}, []float32{0, 1}, []float32{0.9, 0.1})
	seed(t, store, "other", []float32{1, 0.01})

	router := newRouter(t, &stubClassifier{label: intent.Summarization}, store, strategy.DocumentProfile())

	monitor := &recordingMonitor{}
	result, err := router.RouteWithMonitor(context.Background(), Request{Query: "q", DocumentID: "doc"}, monitor)
	require.NoError(t, err)

	require.Len(t, result.Passages, 5)
	assert.Equal(t, []string{"doc chunk 1", "doc chunk 4", "doc chunk 2", "doc chunk 0", "doc chunk 3"}, result.Texts())
	assert.False(t, result.Truncated)
	assert.Equal(t, 5, result.Stored)
	assert.Equal(t, []string{"start", "classified", "strategy", "search", "finish"}, monitor.events)
	assert.Equal(t, 6, monitor.returned)
	assert.Equal(t, 5, monitor.kept)
}

func TestRoute_ExhaustiveTruncation(t *testing.T) {
	store := newStore(t)
	seed(t, store, "doc", []float32{1, 0}, []float32{0.9, 0.1}, []float32{0.8, 0.2})

	profile := strategy.DocumentProfile()
	profile.ByIntent[intent.Summarization] = strategy.ExhaustiveWithCeiling(2)
	router := newRouter(t, &stubClassifier{label: intent.Summarization}, store, profile)

	monitor := &recordingMonitor{}
	result, err := router.RouteWithMonitor(context.Background(), Request{Query: "q", DocumentID: "doc"}, monitor)
	require.NoError(t, err)
	assert.Len(t, result.Passages, 2)
	assert.True(t, result.Truncated)
	assert.Equal(t, 3, result.Stored)
	assert.True(t, monitor.truncated)
}

func TestRoute_BuildsContext(t *testing.T) {
	store := newStore(t)
	seed(t, store, "doc", []float32{1, 0}, []float32{0, 1})
	router := newRouter(t, &stubClassifier{label: intent.SpecificQuestion}, store, strategy.DocumentProfile())

	result, err := router.Route(context.Background(), Request{Query: "q", DocumentID: "doc"})
	require.NoError(t, err)
	assert.Equal(t, "doc chunk 0\n\ndoc chunk 1", result.Context)
}

func TestRoute_InvalidRequest(t *testing.T) {
	router := newRouter(t, &stubClassifier{label: intent.Other}, newStore(t), strategy.DocumentProfile())
	ctx := context.Background()

	_, err := router.Route(ctx, Request{Query: "", DocumentID: "doc"})
	assert.ErrorIs(t, err, intent.ErrEmptyQuery)

	_, err = router.Route(ctx, Request{Query: "q"})
	assert.ErrorIs(t, err, core.ErrEmptyDocumentID)
}

func TestRoute_RetrievalFailure(t *testing.T) {
	store := &failingStore{VectorStore: newStore(t), err: errors.New("closed")}
	router := newRouter(t, &stubClassifier{label: intent.Other}, store, strategy.DocumentProfile())

	_, err := router.Route(context.Background(), Request{Query: "q", DocumentID: "doc"})
	assert.ErrorIs(t, err, ErrRetrievalUnavailable)
}

func TestRoute_WithLanguageModelClassifier(t *testing.T) {
	store := newStore(t)
	seed(t, store, "vid", []float32{1, 0}, []float32{0.5, 0.5}, []float32{0, 1}, []float32{0.9, 0.1})

	classifier, err := intent.NewClassifier(mock.NewMockCompleter("specific_question"))
	require.NoError(t, err)
	router := newRouter(t, classifier, store, strategy.TranscriptProfile())

	result, err := router.Route(context.Background(), Request{Query: "q", DocumentID: "vid"})
	require.NoError(t, err)
	assert.Equal(t, intent.SpecificQuestion, result.Intent)
	assert.Len(t, result.Passages, 3)
}

func TestRoute_BlankClassifierReplyFallsBack(t *testing.T) {
	store := newStore(t)
	seed(t, store, "vid", []float32{1, 0})

	completer := mock.NewMockCompleter("")
	classifier, err := intent.NewClassifier(completer)
	require.NoError(t, err)
	router := newRouter(t, classifier, store, strategy.TranscriptProfile())

	result, err := router.Route(context.Background(), Request{Query: "q", DocumentID: "vid"})
	require.NoError(t, err)
	assert.True(t, result.Fallback)
	assert.Equal(t, strategy.TopK(10), result.Strategy)
}
