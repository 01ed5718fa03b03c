package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cognicore/wordharvest/pkg/wordharvest/discover"
	"github.com/cognicore/wordharvest/pkg/wordharvest/hashset"
	"github.com/cognicore/wordharvest/pkg/wordharvest/ingest"
	"github.com/cognicore/wordharvest/pkg/wordharvest/internalerr"
)

// Harvest holds everything one harvesting session needs.
type Harvest struct {
	Root         string   `yaml:"root"`
	Output       string   `yaml:"output"`
	Extensions   []string `yaml:"extensions"`
	MaxTokenLen  int      `yaml:"max_token_len"`
	MaxExtLen    int      `yaml:"max_ext_len"`
	TableSize    int      `yaml:"table_size"`
	StoplistPath string   `yaml:"stoplist"`
	LedgerPath   string   `yaml:"ledger"`
}

// Default returns a Harvest with every optional field filled in.
func Default() Harvest {
	return Harvest{
		Extensions:  append([]string(nil), discover.DefaultExtensions...),
		MaxTokenLen: ingest.DefaultMaxTokenLen,
		MaxExtLen:   discover.DefaultMaxExtLen,
		TableSize:   hashset.DefaultSize,
	}
}

// Load reads a YAML config file on top of Default. Keys missing from the
// file keep their default values.
func Load(path string) (Harvest, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

// Validate rejects a config the harvest cannot run with. Extensions are
// normalized in place: truncated to MaxExtLen and deduplicated.
func (c *Harvest) Validate() error {
	if c.Root == "" {
		return fmt.Errorf("missing required option '-d': %w", internalerr.ErrInvalidConfig)
	}
	if c.Output == "" {
		return fmt.Errorf("missing required option '-o': %w", internalerr.ErrInvalidConfig)
	}
	if c.MaxTokenLen < 1 {
		return fmt.Errorf("max_token_len must be positive, got %d: %w", c.MaxTokenLen, internalerr.ErrInvalidConfig)
	}
	if c.MaxExtLen < 1 {
		return fmt.Errorf("max_ext_len must be positive, got %d: %w", c.MaxExtLen, internalerr.ErrInvalidConfig)
	}
	if c.TableSize < 1 {
		return fmt.Errorf("table_size must be positive, got %d: %w", c.TableSize, internalerr.ErrInvalidConfig)
	}

	exts := discover.ParseExtensions(strings.Join(c.Extensions, ":"), c.MaxExtLen)
	if len(exts) == 0 {
		return fmt.Errorf("no file extensions configured: %w", internalerr.ErrInvalidConfig)
	}
	c.Extensions = exts
	return nil
}

// Stoplist represents the stopword list configuration
type Stoplist struct {
	Terms []string `yaml:"terms"`
}

// LoadStoplist loads stopwords from a YAML file
func LoadStoplist(path string) (*Stoplist, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var sl Stoplist
	if err := yaml.Unmarshal(data, &sl); err != nil {
		return nil, err
	}

	return &sl, nil
}
