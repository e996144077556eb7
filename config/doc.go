// Package config loads lectern's TOML configuration file.
//
//	db_path = "lectern.db"
//
//	[ai]
//	embedding_host = "http://localhost:11434"
//	embedding_model = "nomic-embed-text"
//	dimensions = 768
//	timeout = "15s"
//
//	[profiles.transcript.intents.summarization]
//	kind = "exhaustive"
//	k = 512
package config
