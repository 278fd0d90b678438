package ingest

import (
	"fmt"
	"os"

	"github.com/OFFIS-RIT/actorlink/pkg/catalog"

	"gopkg.in/yaml.v3"
)

// Range is a half-open interval [From, To) of catalog IDs.
type Range struct {
	From int64 `yaml:"from"`
	To   int64 `yaml:"to"`
}

func (r Range) Len() int64 {
	if r.To <= r.From {
		return 0
	}
	return r.To - r.From
}

type Config struct {
	Ranges      []Range        `yaml:"ranges"`
	Filter      catalog.Filter `yaml:"filter"`
	Concurrency int            `yaml:"concurrency"`
	BatchSize   int            `yaml:"batch_size"`
}

// DefaultRange is the catalog ID window ingested on first start.
var DefaultRange = Range{From: 232000, To: 262000}

func DefaultConfig() Config {
	return Config{
		Ranges:      []Range{DefaultRange},
		Filter:      catalog.DefaultFilter(),
		Concurrency: 10,
		BatchSize:   50,
	}
}

// LoadConfig reads a YAML config file. Fields missing from the file keep
// their defaults; an empty path returns DefaultConfig.
//
//	ranges:
//	  - from: 232000
//	    to: 262000
//	filter:
//	  skip_adult: true
//	  skip_video: true
//	  require_release_date: true
//	  excluded_genres: [10770, 99]
//	concurrency: 10
//	batch_size: 50
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read ingest config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse ingest config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("ingest config %s: %w", path, err)
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.Concurrency <= 0 {
		return fmt.Errorf("concurrency must be positive, got %d", c.Concurrency)
	}
	if c.BatchSize <= 0 {
		return fmt.Errorf("batch_size must be positive, got %d", c.BatchSize)
	}
	for _, r := range c.Ranges {
		if r.From < 0 || r.To < r.From {
			return fmt.Errorf("invalid range [%d, %d)", r.From, r.To)
		}
	}
	return nil
}
