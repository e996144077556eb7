// Package retrieval implements query routing and document-scoped retrieval.
//
// A Router resolves a query's intent (given by the caller or classified),
// selects a strategy from its profile, and asks a Retriever for passages.
// The Retriever embeds the query, runs a global similarity search and keeps
// only chunks of the requested document:
//
//	retriever, _ := retrieval.NewRetriever(embedder, store)
//	router, _ := retrieval.NewRouter(classifier, retriever, strategy.TranscriptProfile())
//	result, err := router.Route(ctx, retrieval.Request{Query: q, DocumentID: id})
//
// Because filtering happens after the search, a request may return fewer than
// K passages. That is a successful result. ErrRetrievalUnavailable is
// reserved for embedder and store failures.
package retrieval
