// Package reembed re-embeds the stored records of a table with the
// configured embedding model.
//
// Queries are only meaningful against vectors produced by the same model, so
// after a model change every table has to be re-embedded. Records are read in
// ID order, embedded in batches on an ants worker pool with retry and
// exponential backoff, and written back. With a CheckpointStore an
// interrupted run resumes after the last completed wave.
package reembed
