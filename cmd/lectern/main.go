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


package main

import (
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/poiesic/lectern"
	"github.com/poiesic/lectern/ai"
	"github.com/poiesic/lectern/config"
	"github.com/poiesic/lectern/ingestion"
	"github.com/urfave/cli/v2"
)

const configKey = "config"

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.App {
	contentFlag := &cli.StringFlag{
		Name:    "content",
		Aliases: []string{"t"},
		Usage:   "Content kind (document, transcript)",
		Value:   string(lectern.Documents),
	}

	return &cli.App{
		Name:  "lectern",
		Usage: "Intent-routed retrieval over document and transcript embeddings",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to a TOML configuration file",
			},
			&cli.StringFlag{
				Name:    "db",
				Aliases: []string{"d"},
				Usage:   "Path to BadgerDB database directory (overrides the config file)",
			},
			&cli.StringFlag{
				Name:    "embedding-api-key",
				Usage:   "API key for the embedding host",
				EnvVars: []string{"GOOGLE_GENAI_API_KEY"},
			},
			&cli.StringFlag{
				Name:    "completion-api-key",
				Usage:   "API key for the completion host",
				EnvVars: []string{"GROQ_API_KEY"},
			},
		},
		Before: setup,
		Commands: []*cli.Command{
			{
				Name:      "ingest",
				Usage:     "Split, embed and store a document or transcript",
				ArgsUsage: "<file|->",
				Action:    ingestCommand,
				Flags: []cli.Flag{
					contentFlag,
					&cli.StringFlag{
						Name:  "doc-id",
						Usage: "Document id (a random UUID when omitted)",
					},
					&cli.BoolFlag{
						Name:  "replace",
						Usage: "Delete existing chunks of the document first",
					},
				},
			},
			{
				Name:      "query",
				Usage:     "Retrieve passages for a query against one document",
				ArgsUsage: "<query>",
				Action:    queryCommand,
				Flags: []cli.Flag{
					contentFlag,
					&cli.StringFlag{
						Name:     "doc-id",
						Usage:    "Document to search",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "intent",
						Usage: "Skip classification and use this intent",
					},
					&cli.BoolFlag{
						Name:  "answer",
						Usage: "Synthesize an answer from the retrieved passages",
					},
				},
			},
			{
				Name:   "delete",
				Usage:  "Remove every chunk of a document",
				Action: deleteCommand,
				Flags: []cli.Flag{
					contentFlag,
					&cli.StringFlag{
						Name:     "doc-id",
						Usage:    "Document to delete",
						Required: true,
					},
				},
			},
			{
				Name:   "reembed",
				Usage:  "Reembed every record of a table with the configured embedding model",
				Action: reembedCommand,
				Flags: []cli.Flag{
					contentFlag,
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Number of records to process in each batch",
						Value: 100,
					},
					&cli.IntFlag{
						Name:  "workers",
						Usage: "Number of batches embedded concurrently",
						Value: 4,
					},
					&cli.IntFlag{
						Name:  "report-interval",
						Usage: "Report progress every N records",
						Value: 100,
					},
					&cli.IntFlag{
						Name:  "max-retries",
						Usage: "Maximum retry attempts for failed operations",
						Value: 3,
					},
					&cli.DurationFlag{
						Name:  "retry-delay",
						Usage: "Base delay for exponential backoff",
						Value: 1 * time.Second,
					},
				},
			},
		},
	}
}

// setup loads the configuration and installs the logger. The log level comes
// from the flag when given, then the config file.
func setup(c *cli.Context) error {
	cfg := config.Default()
	if path := c.String("config"); path != "" {
		var err error
		if cfg, err = config.Load(path); err != nil {
			return err
		}
	}
	if db := c.String("db"); db != "" {
		cfg.DBPath = db
	}
	if c.App.Metadata == nil {
		c.App.Metadata = map[string]interface{}{}
	}
	c.App.Metadata[configKey] = cfg

	levelStr := c.String("log-level")
	if !c.IsSet("log-level") && cfg.LogLevel != "" {
		levelStr = cfg.LogLevel
	}
	return setupLogger(levelStr)
}

func setupLogger(levelStr string) error {
	var level slog.Level
	switch strings.ToLower(levelStr) {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}

func loadedConfig(c *cli.Context) *config.Config {
	if cfg, ok := c.App.Metadata[configKey].(*config.Config); ok {
		return cfg
	}
	return config.Default()
}

// openLectern is replaced in tests.
var openLectern = func(cfg *config.Config, aiConfig *ai.Config, opts ...lectern.Option) (*lectern.Lectern, error) {
	return lectern.Open(cfg.DBPath, append([]lectern.Option{lectern.WithAIConfig(aiConfig)}, opts...)...)
}

// open builds a Lectern from the loaded configuration and API key flags.
func open(c *cli.Context) (*lectern.Lectern, *config.Config, error) {
	cfg := loadedConfig(c)

	aiConfig := cfg.AIConfig(
		ai.WithEmbeddingAPIKey(c.String("embedding-api-key")),
		ai.WithCompletionAPIKey(c.String("completion-api-key")),
	)
	if err := aiConfig.Validate(); err != nil {
		return nil, nil, fmt.Errorf("invalid AI configuration: %w", err)
	}

	opts := []lectern.Option{
		lectern.WithLogger(slog.Default()),
		lectern.WithQueryCacheSize(cfg.AI.CacheEntries),
		lectern.WithRetrievalTimeout(cfg.Retrieval.Timeout.Duration),
		lectern.WithIngestionOptions(
			ingestion.WithBatchSize(cfg.Ingestion.BatchSize),
			ingestion.WithRetry(cfg.Ingestion.MaxAttempts, cfg.Ingestion.BaseDelay.Duration),
			ingestion.WithTimeout(cfg.AI.Timeout.Duration),
		),
	}
	for _, content := range []lectern.Content{lectern.Documents, lectern.Transcripts} {
		profile, err := cfg.Profile(string(content))
		if err != nil {
			return nil, nil, err
		}
		opts = append(opts, lectern.WithProfile(content, profile))
	}

	l, err := openLectern(cfg, aiConfig, opts...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open database: %w", err)
	}
	return l, cfg, nil
}
