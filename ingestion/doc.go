// Package ingestion turns pre-split document chunks into stored embedding records.
//
// A Pipeline attaches the document id to every chunk, embeds chunk text in
// batches with retry, and writes all records of a call in one transaction:
//
//	p, _ := ingestion.NewPipeline(store, embedder)
//	result, err := p.Ingest(ctx, "doc-42", chunks)
//
// Ingestion is not idempotent. Use Replace, or DeleteDocument followed by
// Ingest, to swap a document's contents. DecodeTranscript reads the chunk JSON
// produced by the video transcript service.
package ingestion
