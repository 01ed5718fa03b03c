package config

import (
	"fmt"

	"github.com/cognicore/wordharvest/pkg/wordharvest/hashset"
	"github.com/cognicore/wordharvest/pkg/wordharvest/ingest"
	"github.com/cognicore/wordharvest/pkg/wordharvest/stoplist"
)

// Loader constructs the harvest components described by a Harvest config
type Loader struct {
	Config Harvest
}

// Components holds everything built from the configuration
type Components struct {
	Tokenizer *ingest.Tokenizer
	Stoplist  *stoplist.Manager
	Set       *hashset.Set
}

// Load validates the config and builds the tokenizer and dedup table
func (l *Loader) Load() (*Components, error) {
	if err := l.Config.Validate(); err != nil {
		return nil, err
	}
	comp := &Components{}

	// Load stoplist
	if l.Config.StoplistPath != "" {
		sl, err := LoadStoplist(l.Config.StoplistPath)
		if err != nil {
			return nil, fmt.Errorf("load stoplist: %w", err)
		}
		comp.Stoplist = stoplist.NewManager(sl.Terms)
	}

	tok, err := ingest.NewTokenizer(l.Config.MaxTokenLen, comp.Stoplist)
	if err != nil {
		return nil, err
	}
	comp.Tokenizer = tok

	set, err := hashset.New(l.Config.TableSize)
	if err != nil {
		return nil, err
	}
	comp.Set = set

	return comp, nil
}
