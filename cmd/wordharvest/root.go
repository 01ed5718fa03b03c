package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/cognicore/wordharvest/pkg/wordharvest"
	"github.com/cognicore/wordharvest/pkg/wordharvest/config"
	"github.com/cognicore/wordharvest/pkg/wordharvest/discover"
	"github.com/cognicore/wordharvest/pkg/wordharvest/ledger"
	"github.com/cognicore/wordharvest/pkg/wordharvest/ledger/sqlite"
	"github.com/cognicore/wordharvest/pkg/wordharvest/sink"
)

// harvestFlags holds the raw command-line values before they are merged
// over the config file.
type harvestFlags struct {
	dir         string
	output      string
	ext         string
	configPath  string
	stoplist    string
	ledger      string
	maxTokenLen int
	tableSize   int
	stats       bool
	dryRun      bool
}

func newRootCommand() *cobra.Command {
	var f harvestFlags

	rootCmd := &cobra.Command{
		Use:           "wordharvest [-e extensions] -d directory -o outfile",
		Short:         "Harvest unique alphanumeric words from text files",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := buildConfig(cmd, &f)
			if err != nil {
				return err
			}
			var lg ledger.Ledger
			if cfg.LedgerPath != "" && !f.dryRun {
				lg, err = sqlite.Open(cmd.Context(), cfg.LedgerPath)
				if err != nil {
					return fmt.Errorf("open ledger: %w", err)
				}
				defer lg.Close()
			}
			return runHarvest(cmd.Context(), cfg, f, lg, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	flags := rootCmd.Flags()
	flags.StringVarP(&f.dir, "dir", "d", "", "Directory to search (required)")
	flags.StringVarP(&f.output, "output", "o", "", "Output file, truncated if present (required)")
	flags.StringVarP(&f.ext, "ext", "e", strings.Join(discover.DefaultExtensions, ":"), "Colon-separated file extensions")
	flags.StringVarP(&f.configPath, "config", "c", "", "YAML configuration file")
	flags.StringVar(&f.stoplist, "stoplist", "", "YAML stoplist of words never to emit")
	flags.StringVar(&f.ledger, "ledger", "", "SQLite file recording a summary of each run")
	flags.IntVar(&f.maxTokenLen, "max-token-len", 0, "Longest word emitted; longer runs are split (default 29)")
	flags.IntVar(&f.tableSize, "table-size", 0, "Hash table bucket count (default 100000)")
	flags.BoolVar(&f.stats, "stats", false, "Print hash table statistics to stderr")
	flags.BoolVar(&f.dryRun, "dry-run", false, "List the files that would be harvested and exit")

	rootCmd.AddCommand(newRunsCommand())
	return rootCmd
}

// buildConfig layers explicitly set flags over the config file (or the
// defaults) and validates the result.
func buildConfig(cmd *cobra.Command, f *harvestFlags) (config.Harvest, error) {
	flags := cmd.Flags()
	for _, opt := range []struct {
		name, short, value string
	}{
		{"dir", "d", f.dir},
		{"output", "o", f.output},
		{"ext", "e", f.ext},
	} {
		if flags.Changed(opt.name) && strings.HasPrefix(opt.value, "-") {
			return config.Harvest{}, fmt.Errorf("option '-%s' requires an argument", opt.short)
		}
	}

	cfg := config.Default()
	if f.configPath != "" {
		loaded, err := config.Load(f.configPath)
		if err != nil {
			return config.Harvest{}, fmt.Errorf("load config: %w", err)
		}
		cfg = loaded
	}

	if flags.Changed("dir") {
		cfg.Root = f.dir
	}
	if flags.Changed("output") {
		cfg.Output = f.output
	}
	if flags.Changed("ext") {
		cfg.Extensions = []string{f.ext}
	}
	if flags.Changed("stoplist") {
		cfg.StoplistPath = f.stoplist
	}
	if flags.Changed("ledger") {
		cfg.LedgerPath = f.ledger
	}
	if flags.Changed("max-token-len") {
		cfg.MaxTokenLen = f.maxTokenLen
	}
	if flags.Changed("table-size") {
		cfg.TableSize = f.tableSize
	}

	if f.dryRun && cfg.Output == "" {
		// A dry run writes nothing, so the output path is not needed.
		cfg.Output = "-"
	}
	if err := cfg.Validate(); err != nil {
		return config.Harvest{}, err
	}
	return cfg, nil
}

// runHarvest performs one session. lg may be nil.
func runHarvest(ctx context.Context, cfg config.Harvest, f harvestFlags, lg ledger.Ledger, stdout, stderr io.Writer) error {
	logger := log.New(stderr, "wordharvest: ", 0)

	comp, err := (&config.Loader{Config: cfg}).Load()
	if err != nil {
		return err
	}
	defer comp.Set.Destroy()

	walker := &discover.Walker{Root: cfg.Root, Extensions: cfg.Extensions}
	if f.dryRun {
		return walker.Walk(ctx, func(path string) error {
			_, err := fmt.Fprintln(stdout, path)
			return err
		})
	}

	out, err := sink.Create(cfg.Output)
	if err != nil {
		return err
	}

	h, err := wordharvest.New(wordharvest.Options{
		Tokenizer: comp.Tokenizer,
		Set:       comp.Set,
		Sink:      sink.New(out),
		Logger:    logger,
	})
	if err != nil {
		out.Close()
		return err
	}

	started := time.Now()
	st, runErr := h.Run(ctx, walker)
	if err := out.Close(); err != nil && runErr == nil {
		runErr = fmt.Errorf("close %s: %w", cfg.Output, err)
	}
	finished := time.Now()

	logger.Printf("%d files harvested, %d skipped, %d words scanned, %d unique written to %s",
		st.Files, st.Skipped, st.Tokens, st.Emitted, cfg.Output)
	if f.stats {
		ts := comp.Set.Stats()
		logger.Printf("table: %d buckets, %d used, %d words, longest chain %d, load %.3f",
			ts.Buckets, ts.UsedBuckets, ts.Tokens, ts.LongestChain, ts.LoadFactor)
	}

	if lg != nil {
		run := ledger.Run{
			ID:          ledger.NewIDGenerator().New(started),
			StartedAt:   started,
			FinishedAt:  finished,
			Root:        cfg.Root,
			Output:      cfg.Output,
			Extensions:  cfg.Extensions,
			MaxTokenLen: cfg.MaxTokenLen,
			TableSize:   cfg.TableSize,
			Files:       st.Files,
			Skipped:     st.Skipped,
			Tokens:      st.Tokens,
			Emitted:     st.Emitted,
		}
		// Recorded even when ctx was canceled mid-run.
		if err := lg.RecordRun(context.WithoutCancel(ctx), run); err != nil {
			return errors.Join(runErr, fmt.Errorf("record run: %w", err))
		}
		logger.Printf("recorded run %s", run.ID)
	}
	return runErr
}
