package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/poiesic/lectern"
	"github.com/poiesic/lectern/ai"
	"github.com/poiesic/lectern/ai/mock"
	"github.com/poiesic/lectern/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

// useMockProvider makes every command open the database with mock models.
func useMockProvider(t *testing.T, label string) *mock.MockCompleter {
	t.Helper()
	completer := &mock.MockCompleter{
		CompleteFunc: func(_ context.Context, messages []ai.Message, _ ai.CompleteOptions) (string, error) {
			if strings.HasSuffix(messages[len(messages)-1].Content, "Answer:") {
				return "mocked answer", nil
			}
			return label, nil
		},
	}
	original := openLectern
	openLectern = func(cfg *config.Config, aiConfig *ai.Config, opts ...lectern.Option) (*lectern.Lectern, error) {
		provider := mock.NewMockProviderWithServices(mock.NewMockEmbedderWithDimensions(aiConfig.Dimensions), completer)
		opts = append(opts, lectern.WithAIConfig(aiConfig), lectern.WithProvider(provider))
		return lectern.Open(cfg.DBPath, opts...)
	}
	t.Cleanup(func() { openLectern = original })
	return completer
}

func run(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	app := newApp()
	var stdout, stderr bytes.Buffer
	app.Reader = strings.NewReader(stdin)
	app.Writer = &stdout
	app.ErrWriter = &stderr
	err := app.Run(append([]string{"lectern"}, args...))
	return stdout.String(), stderr.String(), err
}

func findFlag[T cli.Flag](t *testing.T, cmd *cli.Command, name string) T {
	t.Helper()
	for _, flag := range cmd.Flags {
		if f, ok := flag.(T); ok && flag.Names()[0] == name {
			return f
		}
	}
	require.FailNow(t, "flag not found", name)
	var zero T
	return zero
}

func command(t *testing.T, app *cli.App, name string) *cli.Command {
	t.Helper()
	cmd := app.Command(name)
	require.NotNil(t, cmd, name)
	return cmd
}

func TestCommandFlags(t *testing.T) {
	app := newApp()

	t.Run("api keys read from environment", func(t *testing.T) {
		var embed, complete *cli.StringFlag
		for _, flag := range app.Flags {
			if f, ok := flag.(*cli.StringFlag); ok {
				switch f.Name {
				case "embedding-api-key":
					embed = f
				case "completion-api-key":
					complete = f
				}
			}
		}
		require.NotNil(t, embed)
		require.NotNil(t, complete)
		assert.Equal(t, []string{"GOOGLE_GENAI_API_KEY"}, embed.EnvVars)
		assert.Equal(t, []string{"GROQ_API_KEY"}, complete.EnvVars)
	})

	t.Run("content defaults to document", func(t *testing.T) {
		for _, name := range []string{"ingest", "query", "delete", "reembed"} {
			f := findFlag[*cli.StringFlag](t, command(t, app, name), "content")
			assert.Equal(t, "document", f.Value, name)
		}
	})

	t.Run("query requires doc-id", func(t *testing.T) {
		f := findFlag[*cli.StringFlag](t, command(t, app, "query"), "doc-id")
		assert.True(t, f.Required)
	})

	t.Run("reembed defaults", func(t *testing.T) {
		cmd := command(t, app, "reembed")
		assert.Equal(t, 100, findFlag[*cli.IntFlag](t, cmd, "batch-size").Value)
		assert.Equal(t, 4, findFlag[*cli.IntFlag](t, cmd, "workers").Value)
		assert.Equal(t, 3, findFlag[*cli.IntFlag](t, cmd, "max-retries").Value)
	})
}

func TestSetup(t *testing.T) {
	t.Run("invalid log level", func(t *testing.T) {
		_, _, err := run(t, "", "--log-level", "verbose", "delete", "--doc-id", "x")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid log level")
	})

	t.Run("config file is validated", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "lectern.toml")
		require.NoError(t, os.WriteFile(path, []byte("[ingestion]\nbatch_size = 0\n"), 0o600))
		_, _, err := run(t, "", "--config", path, "delete", "--doc-id", "x")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "batch_size")
	})

	t.Run("unknown content", func(t *testing.T) {
		useMockProvider(t, "other")
		db := filepath.Join(t.TempDir(), "db")
		_, _, err := run(t, "", "--db", db, "delete", "--content", "audio", "--doc-id", "x")
		assert.ErrorIs(t, err, lectern.ErrUnknownContent)
	})
}

func TestIngestQueryDelete(t *testing.T) {
	useMockProvider(t, "summarization")
	db := filepath.Join(t.TempDir(), "db")
	text := strings.Repeat("The lecture covers vector search and chunking strategies. ", 30)

	out, _, err := run(t, text, "--db", db, "ingest", "--doc-id", "lecture-1", "-")
	require.NoError(t, err)
	assert.Contains(t, out, "Document: lecture-1")
	assert.Contains(t, out, "Ingested")

	out, stderr, err := run(t, "", "--db", db, "query", "--doc-id", "lecture-1", "summarize this")
	require.NoError(t, err)
	assert.Contains(t, stderr, "Intent: summarization")
	assert.Contains(t, out, "1. [")

	out, _, err = run(t, "", "--db", db, "query", "--doc-id", "lecture-1", "--answer", "what is covered?")
	require.NoError(t, err)
	assert.Contains(t, out, "mocked answer")

	out, _, err = run(t, "", "--db", db, "delete", "--doc-id", "lecture-1")
	require.NoError(t, err)
	assert.NotContains(t, out, "Deleted 0 chunks")

	out, _, err = run(t, "", "--db", db, "query", "--doc-id", "lecture-1", "--answer", "what is covered?")
	require.NoError(t, err)
	assert.Contains(t, out, "No passages found")
}

func TestIngestTranscript(t *testing.T) {
	useMockProvider(t, "specific_question")
	db := filepath.Join(t.TempDir(), "db")
	input := `{"transcript":{"chunks":[
		{"id":0,"text":"Welcome to the course.","timestamp":{"start":0,"end":30,"duration":30},"analytics":{"word_count":4}},
		{"id":1,"text":"Missing timestamp."}
	]}}`

	out, stderr, err := run(t, input, "--db", db, "ingest", "--content", "transcript", "--doc-id", "video-1", "-")
	require.NoError(t, err)
	assert.Contains(t, stderr, "skipped entry 1")
	assert.Contains(t, out, "Ingested 1 of 2 chunks")

	out, _, err = run(t, "", "--db", db, "query", "--content", "transcript", "--doc-id", "video-1", "welcome")
	require.NoError(t, err)
	assert.Contains(t, out, "(00:00 - 00:30)")
}

func TestIngestGeneratesDocumentID(t *testing.T) {
	useMockProvider(t, "other")
	db := filepath.Join(t.TempDir(), "db")
	out, _, err := run(t, "short text", "--db", db, "ingest", "-")
	require.NoError(t, err)
	assert.Regexp(t, `Document: [0-9a-f-]{36}`, out)
}

func TestReembedCommand(t *testing.T) {
	useMockProvider(t, "other")
	db := filepath.Join(t.TempDir(), "db")
	_, _, err := run(t, strings.Repeat("word ", 200), "--db", db, "ingest", "--doc-id", "d", "-")
	require.NoError(t, err)

	_, _, err = run(t, "", "--db", db, "reembed", "--batch-size", "0")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "batch-size")

	out, _, err := run(t, "", "--db", db, "reembed", "--batch-size", "2", "--workers", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "Reembedded")
}
