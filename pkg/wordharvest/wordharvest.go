package wordharvest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/cognicore/wordharvest/pkg/wordharvest/hashset"
	"github.com/cognicore/wordharvest/pkg/wordharvest/ingest"
	"github.com/cognicore/wordharvest/pkg/wordharvest/internalerr"
	"github.com/cognicore/wordharvest/pkg/wordharvest/sink"
)

// Source yields the paths of the files to harvest, in order.
type Source interface {
	Walk(ctx context.Context, yield func(path string) error) error
}

// Harvester streams every distinct token from a set of files to a sink
type Harvester struct {
	tokenizer *ingest.Tokenizer
	set       *hashset.Set
	sink      *sink.LineWriter
	log       *log.Logger
}

// Options configures a Harvester
type Options struct {
	Tokenizer *ingest.Tokenizer
	Set       *hashset.Set
	Sink      *sink.LineWriter
	Logger    *log.Logger // Optional: defaults to stderr
}

// FileResult describes the harvest of one stream
type FileResult struct {
	Tokens  int64 // tokens scanned
	Emitted int64 // tokens seen for the first time
	ReadErr error // read failure that cut the stream short
}

// Stats summarizes a whole run
type Stats struct {
	Files    int
	Skipped  int
	Tokens   int64
	Emitted  int64
	Distinct int
}

// New creates a Harvester. The set is owned by the harvester for its whole
// life and must not be shared.
func New(opts Options) (*Harvester, error) {
	if opts.Tokenizer == nil || opts.Set == nil || opts.Sink == nil {
		return nil, fmt.Errorf("harvester needs a tokenizer, set and sink: %w", internalerr.ErrInvalidConfig)
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(os.Stderr, "", log.LstdFlags)
	}
	return &Harvester{
		tokenizer: opts.Tokenizer,
		set:       opts.Set,
		sink:      opts.Sink,
		log:       logger,
	}, nil
}

// Set returns the dedup table backing the harvester.
func (h *Harvester) Set() *hashset.Set { return h.set }

// HarvestReader tokenizes r and writes each unseen token to the sink as soon
// as it is found. Only sink failures and cancellation are returned as errors.
func (h *Harvester) HarvestReader(ctx context.Context, r io.Reader) (FileResult, error) {
	var res FileResult
	sc := h.tokenizer.NewScanner(r)
	for sc.Scan() {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		tok := sc.Token()
		res.Tokens++
		if !h.set.ContainsOrInsert(tok) {
			continue
		}
		if err := h.sink.WriteLine(tok); err != nil {
			return res, err
		}
		res.Emitted++
	}
	res.ReadErr = sc.Err()
	return res, nil
}

// HarvestFile opens path and harvests it. An open failure wraps
// internalerr.ErrFileOpen.
func (h *Harvester) HarvestFile(ctx context.Context, path string) (FileResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return FileResult{}, fmt.Errorf("%w %s: %w", internalerr.ErrFileOpen, path, err)
	}
	defer f.Close()
	return h.HarvestReader(ctx, f)
}

// Run harvests every file src yields. Files that cannot be opened or read are
// logged and skipped; a sink failure or cancellation ends the run.
func (h *Harvester) Run(ctx context.Context, src Source) (Stats, error) {
	var st Stats
	err := src.Walk(ctx, func(path string) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		res, err := h.HarvestFile(ctx, path)
		st.Tokens += res.Tokens
		st.Emitted += res.Emitted
		switch {
		case errors.Is(err, internalerr.ErrFileOpen):
			h.log.Print(err)
			st.Skipped++
			return nil
		case err != nil:
			return err
		}
		st.Files++
		if res.ReadErr != nil {
			h.log.Printf("read %s: %v (kept %d tokens)", path, res.ReadErr, res.Tokens)
		}
		return nil
	})
	st.Distinct = h.set.Len()
	return st, err
}
