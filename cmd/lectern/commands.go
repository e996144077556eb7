package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/poiesic/lectern"
	"github.com/poiesic/lectern/answer"
	"github.com/poiesic/lectern/config"
	"github.com/poiesic/lectern/core"
	"github.com/poiesic/lectern/ingestion"
	"github.com/poiesic/lectern/intent"
	"github.com/poiesic/lectern/reembed"
	"github.com/poiesic/lectern/retrieval"
	"github.com/poiesic/lectern/splitter"
	"github.com/urfave/cli/v2"
)

func readInput(c *cli.Context) ([]byte, error) {
	if c.NArg() != 1 {
		return nil, fmt.Errorf("expected one input file, or - for stdin")
	}
	path := c.Args().First()
	if path == "-" {
		return io.ReadAll(c.App.Reader)
	}
	return os.ReadFile(path)
}

// chunksFor turns raw input into chunks: transcripts are decoded from JSON and
// documents are split into overlapping spans.
func chunksFor(content lectern.Content, cfg *config.Config, documentID string, data []byte) ([]core.Chunk, []ingestion.Rejection, error) {
	if content == lectern.Transcripts {
		return ingestion.DecodeTranscript(bytes.NewReader(data))
	}
	s, err := splitter.New(
		splitter.WithChunkSize(cfg.Ingestion.ChunkSize),
		splitter.WithChunkOverlap(cfg.Ingestion.ChunkOverlap),
	)
	if err != nil {
		return nil, nil, err
	}
	chunks, err := s.Split(documentID, string(data))
	return chunks, nil, err
}

func ingestCommand(c *cli.Context) error {
	content, err := lectern.ParseContent(c.String("content"))
	if err != nil {
		return err
	}
	data, err := readInput(c)
	if err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}

	documentID := c.String("doc-id")
	if documentID == "" {
		documentID = uuid.NewString()
	}

	l, cfg, err := open(c)
	if err != nil {
		return err
	}
	defer l.Close()

	chunks, rejected, err := chunksFor(content, cfg, documentID, data)
	if err != nil {
		return err
	}
	for _, r := range rejected {
		fmt.Fprintf(c.App.ErrWriter, "skipped entry %d: %s\n", r.Index, r.Reason)
	}

	ingest := l.Ingest
	if c.Bool("replace") {
		ingest = l.Replace
	}
	result, err := ingest(c.Context, content, documentID, chunks)
	if err != nil {
		return fmt.Errorf("ingestion failed: %w", err)
	}
	for _, r := range result.Rejected {
		fmt.Fprintf(c.App.ErrWriter, "rejected chunk %d: %s\n", r.Index, r.Reason)
	}

	fmt.Fprintf(c.App.Writer, "Document: %s\n", documentID)
	fmt.Fprintf(c.App.Writer, "Ingested %d of %d chunks\n", result.Ingested, result.Total+len(rejected))
	return nil
}

func queryCommand(c *cli.Context) error {
	content, err := lectern.ParseContent(c.String("content"))
	if err != nil {
		return err
	}
	query := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if query == "" {
		return intent.ErrEmptyQuery
	}

	l, _, err := open(c)
	if err != nil {
		return err
	}
	defer l.Close()

	req := retrieval.Request{
		Query:      query,
		DocumentID: c.String("doc-id"),
		Intent:     intent.Intent(c.String("intent")),
	}

	if c.Bool("answer") {
		a, err := l.Ask(c.Context, content, req)
		if errors.Is(err, answer.ErrNoContext) {
			fmt.Fprintln(c.App.Writer, "No passages found for this document.")
			return nil
		}
		if err != nil {
			return err
		}
		printRoute(c.App.ErrWriter, a.Retrieval)
		fmt.Fprintln(c.App.Writer, a.Text)
		return nil
	}

	result, err := l.Query(c.Context, content, req)
	if err != nil {
		return err
	}
	printRoute(c.App.ErrWriter, result)
	for i, p := range result.Passages {
		fmt.Fprintf(c.App.Writer, "%d. [%.4f] #%d", i+1, p.Score, p.SequenceIndex)
		if p.TimeRange != nil {
			fmt.Fprintf(c.App.Writer, " (%s)", p.TimeRange.Formatted)
		}
		fmt.Fprintf(c.App.Writer, "\n%s\n\n", p.Text)
	}
	return nil
}

func printRoute(w io.Writer, result *retrieval.Result) {
	fmt.Fprintf(w, "Intent: %s", result.Intent)
	if result.Fallback {
		fmt.Fprint(w, " (fallback)")
	}
	fmt.Fprintf(w, "\nStrategy: %s\n", result.Strategy)
	if result.Truncated {
		fmt.Fprintf(w, "Warning: returned %d of %d stored chunks\n", len(result.Passages), result.Stored)
	}
}

func deleteCommand(c *cli.Context) error {
	content, err := lectern.ParseContent(c.String("content"))
	if err != nil {
		return err
	}
	l, _, err := open(c)
	if err != nil {
		return err
	}
	defer l.Close()

	n, err := l.Delete(c.Context, content, c.String("doc-id"))
	if err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "Deleted %d chunks\n", n)
	return nil
}

func reembedCommand(c *cli.Context) error {
	content, err := lectern.ParseContent(c.String("content"))
	if err != nil {
		return err
	}

	reembedConfig := &reembed.Config{
		BatchSize:      c.Int("batch-size"),
		Workers:        c.Int("workers"),
		ReportInterval: c.Int("report-interval"),
		MaxRetries:     c.Int("max-retries"),
		RetryDelay:     c.Duration("retry-delay"),
	}
	if reembedConfig.BatchSize <= 0 {
		return fmt.Errorf("batch-size must be greater than 0")
	}
	if reembedConfig.Workers <= 0 {
		return fmt.Errorf("workers must be greater than 0")
	}
	if reembedConfig.ReportInterval <= 0 {
		return fmt.Errorf("report-interval must be greater than 0")
	}
	if reembedConfig.MaxRetries <= 0 {
		return fmt.Errorf("max-retries must be greater than 0")
	}

	l, cfg, err := open(c)
	if err != nil {
		return err
	}
	defer l.Close()

	fmt.Fprintf(c.App.ErrWriter, "Database: %s\n", cfg.DBPath)
	fmt.Fprintf(c.App.ErrWriter, "Embedding host: %s\n", cfg.AI.EmbeddingHost)
	fmt.Fprintf(c.App.ErrWriter, "Embedding model: %s\n", cfg.AI.EmbeddingModel)
	fmt.Fprintln(c.App.ErrWriter)

	summary, err := l.Reembed(c.Context, content, reembedConfig, c.App.ErrWriter)
	if err != nil {
		return fmt.Errorf("reembedding failed: %w", err)
	}
	fmt.Fprintf(c.App.Writer, "Reembedded %d of %d records in %s\n", summary.Processed, summary.Total, summary.Elapsed.Round(time.Millisecond))
	return nil
}
