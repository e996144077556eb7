package config

import (
	"bytes"
	"errors"
	"fmt"
	"maps"
	"os"
	"slices"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/poiesic/lectern/ai"
	"github.com/poiesic/lectern/intent"
	"github.com/poiesic/lectern/strategy"
)

// DefaultDBPath is used when neither the file nor a flag names a database.
const DefaultDBPath = "lectern.db"

// Duration is a time.Duration written as a Go duration string, such as "10s".
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = parsed
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Config is the on-disk configuration for lectern.
// API keys are not read from the file; they come from flags or the environment.
type Config struct {
	DBPath    string    `toml:"db_path"`
	LogLevel  string    `toml:"log_level"`
	AI        AI        `toml:"ai"`
	Ingestion Ingestion `toml:"ingestion"`
	Retrieval Retrieval `toml:"retrieval"`

	// Profiles overrides entries of the built-in "document" and "transcript"
	// profiles, or defines new ones.
	Profiles map[string]Profile `toml:"profiles"`
}

// AI selects the embedding and completion endpoints.
type AI struct {
	EmbeddingHost     string   `toml:"embedding_host"`
	EmbeddingModel    string   `toml:"embedding_model"`
	Dimensions        int      `toml:"dimensions"`
	CompletionHost    string   `toml:"completion_host"`
	CompletionModel   string   `toml:"completion_model"`
	Timeout           Duration `toml:"timeout"`
	RequestsPerSecond float64  `toml:"requests_per_second"`
	CacheEntries      int64    `toml:"cache_entries"`
}

// Ingestion tunes splitting and embedding of new documents.
type Ingestion struct {
	ChunkSize    int      `toml:"chunk_size"`
	ChunkOverlap int      `toml:"chunk_overlap"`
	BatchSize    int      `toml:"batch_size"`
	MaxAttempts  int      `toml:"max_attempts"`
	BaseDelay    Duration `toml:"base_delay"`
}

// Retrieval tunes query handling.
type Retrieval struct {
	Timeout Duration `toml:"timeout"`
}

// Strategy is a strategy as written in the file.
type Strategy struct {
	Kind string `toml:"kind"`
	K    int    `toml:"k"`
}

// Profile is a profile as written in the file. Missing entries keep the
// built-in values.
type Profile struct {
	Default *Strategy           `toml:"default"`
	Intents map[string]Strategy `toml:"intents"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		DBPath:   DefaultDBPath,
		LogLevel: "info",
		AI: AI{
			EmbeddingHost:   ai.DefaultEmbeddingHost,
			EmbeddingModel:  ai.DefaultEmbeddingModel,
			Dimensions:      ai.DefaultDimensions,
			CompletionHost:  ai.DefaultCompletionHost,
			CompletionModel: ai.DefaultCompletionModel,
			Timeout:         Duration{ai.DefaultTimeout},
			CacheEntries:    4096,
		},
		Ingestion: Ingestion{
			ChunkSize:    300,
			ChunkOverlap: 50,
			BatchSize:    32,
			MaxAttempts:  3,
			BaseDelay:    Duration{500 * time.Millisecond},
		},
		Retrieval: Retrieval{
			Timeout: Duration{10 * time.Second},
		},
	}
}

// Load reads a TOML file over the defaults. Keys absent from the file keep
// their default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes TOML over the defaults and validates the result.
// Unknown keys are rejected.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(cfg); err != nil {
		var derr *toml.DecodeError
		if errors.As(err, &derr) {
			row, col := derr.Position()
			return nil, fmt.Errorf("parsing config at line %d column %d: %w", row, col, err)
		}
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks ranges and that every profile resolves.
func (c *Config) Validate() error {
	var errs []error
	if c.AI.Dimensions < 1 {
		errs = append(errs, fmt.Errorf("ai.dimensions must be positive"))
	}
	if c.AI.Timeout.Duration <= 0 {
		errs = append(errs, fmt.Errorf("ai.timeout must be positive"))
	}
	if c.AI.RequestsPerSecond < 0 {
		errs = append(errs, fmt.Errorf("ai.requests_per_second cannot be negative"))
	}
	if c.Ingestion.ChunkSize < 1 || c.Ingestion.ChunkOverlap < 0 || c.Ingestion.ChunkOverlap >= c.Ingestion.ChunkSize {
		errs = append(errs, fmt.Errorf("ingestion.chunk_overlap must be in [0, chunk_size)"))
	}
	if c.Ingestion.BatchSize < 1 {
		errs = append(errs, fmt.Errorf("ingestion.batch_size must be positive"))
	}
	if c.Ingestion.MaxAttempts < 1 {
		errs = append(errs, fmt.Errorf("ingestion.max_attempts must be positive"))
	}
	if c.Retrieval.Timeout.Duration <= 0 {
		errs = append(errs, fmt.Errorf("retrieval.timeout must be positive"))
	}
	for _, name := range slices.Sorted(maps.Keys(c.Profiles)) {
		if _, err := c.Profile(name); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// AIConfig converts the file settings to an ai.Config. opts are applied last,
// which is how the CLI supplies API keys.
func (c *Config) AIConfig(opts ...ai.ConfigOption) *ai.Config {
	base := []ai.ConfigOption{
		ai.WithEmbeddingHost(c.AI.EmbeddingHost),
		ai.WithEmbeddingModel(c.AI.EmbeddingModel),
		ai.WithDimensions(c.AI.Dimensions),
		ai.WithCompletionHost(c.AI.CompletionHost),
		ai.WithCompletionModel(c.AI.CompletionModel),
		ai.WithTimeout(c.AI.Timeout.Duration),
		ai.WithRequestsPerSecond(c.AI.RequestsPerSecond),
	}
	return ai.NewConfig(append(base, opts...)...)
}

// Profile resolves a named profile: the built-in profile of that name (or an
// empty one for new names) with the file's overrides applied.
func (c *Config) Profile(name string) (strategy.Profile, error) {
	profile, err := strategy.Builtin(name)
	override, ok := c.Profiles[name]
	if err != nil {
		if !ok {
			return strategy.Profile{}, err
		}
		profile = strategy.Profile{Name: name, ByIntent: map[intent.Intent]strategy.Strategy{}}
		if override.Default == nil {
			return strategy.Profile{}, fmt.Errorf("profile %q: a new profile needs a default strategy", name)
		}
	}

	if override.Default != nil {
		s, err := override.Default.toStrategy()
		if err != nil {
			return strategy.Profile{}, fmt.Errorf("profile %q default: %w", name, err)
		}
		profile.Default = s
	}
	for label, fs := range override.Intents {
		s, err := fs.toStrategy()
		if err != nil {
			return strategy.Profile{}, fmt.Errorf("profile %q intent %q: %w", name, label, err)
		}
		profile.ByIntent[intent.Intent(label)] = s
	}

	if err := profile.Validate(); err != nil {
		return strategy.Profile{}, err
	}
	return profile, nil
}

func (s Strategy) toStrategy() (strategy.Strategy, error) {
	kind, err := strategy.ParseKind(s.Kind)
	if err != nil {
		return strategy.Strategy{}, err
	}
	k := s.K
	if kind == strategy.KindExhaustiveWithCeiling && k == 0 {
		k = strategy.DefaultExhaustiveCeiling
	}
	return strategy.Strategy{Kind: kind, K: k}, nil
}
